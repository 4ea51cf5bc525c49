// Package acceso holds the route allow-list that decides which sections of
// ApliCAS each role may open.
package acceso

import (
	"sort"
	"strings"
)

// Role names as stored in ROL.nombre.
const (
	RolAdministrador = "administrador"
	RolTesoreria     = "tesoreria"
	RolFinanzas      = "finanzas"
	RolTransparencia = "transparencia"
	RolAlcaldia      = "alcaldia"
	RolControl       = "control"
)

// Route prefixes of the application sections.
const (
	RutaUsuarios      = "/usuarios"
	RutaTitulares     = "/titulares"
	RutaTesoreria     = "/tesoreria"
	RutaDecretos      = "/decretos"
	RutaCAS           = "/cas"
	RutaTransparencia = "/transparencia"
	RutaAuditoria     = "/auditoria"
	RutaPerfil        = "/perfil"
)

var todas = []string{
	RutaUsuarios, RutaTitulares, RutaTesoreria, RutaDecretos,
	RutaCAS, RutaTransparencia, RutaAuditoria, RutaPerfil,
}

// permitidas maps a role to its route prefixes. administrador is handled
// separately and may open everything.
var permitidas = map[string][]string{
	RolTesoreria:     {RutaTesoreria},
	RolFinanzas:      {RutaDecretos, RutaTransparencia},
	RolTransparencia: {RutaTransparencia},
	RolAlcaldia:      {RutaTitulares, RutaTransparencia},
	RolControl:       {RutaAuditoria, RutaDecretos},
}

// TieneAcceso reports whether rol may open ruta. A prefix matches whole path
// segments only: "/tesoreria" allows "/tesoreria/pagos" but not "/tesoreriax".
func TieneAcceso(rol, ruta string) bool {
	if rol == RolAdministrador {
		return true
	}
	prefijos, ok := permitidas[rol]
	if !ok {
		return false
	}
	if coincide(RutaPerfil, ruta) {
		return true
	}
	for _, p := range prefijos {
		if coincide(p, ruta) {
			return true
		}
	}
	return false
}

// Rutas lists the route prefixes rol may open, sorted.
func Rutas(rol string) []string {
	var out []string
	if rol == RolAdministrador {
		out = append(out, todas...)
	} else if prefijos, ok := permitidas[rol]; ok {
		out = append(out, prefijos...)
		out = append(out, RutaPerfil)
	}
	sort.Strings(out)
	return out
}

func coincide(prefijo, ruta string) bool {
	if !strings.HasPrefix(ruta, prefijo) {
		return false
	}
	return len(ruta) == len(prefijo) || ruta[len(prefijo)] == '/'
}

// Roles lists every known role name.
func Roles() []string {
	return []string{RolAdministrador, RolTesoreria, RolFinanzas, RolTransparencia, RolAlcaldia, RolControl}
}
