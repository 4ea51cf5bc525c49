package acceso

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTieneAcceso(t *testing.T) {
	cases := []struct {
		rol, ruta string
		want      bool
	}{
		{RolAdministrador, "/usuarios", true},
		{RolAdministrador, "/cualquier/cosa", true},
		{RolTesoreria, "/tesoreria", true},
		{RolTesoreria, "/tesoreria/pagos/reversa", true},
		{RolTesoreria, "/tesoreriax", false},
		{RolTesoreria, "/decretos", false},
		{RolTesoreria, "/perfil", true},
		{RolFinanzas, "/decretos/2024/15/liberar", true},
		{RolFinanzas, "/transparencia", true},
		{RolFinanzas, "/usuarios", false},
		{RolControl, "/auditoria", true},
		{RolAlcaldia, "/titulares/3", true},
		{RolAlcaldia, "/cas", false},
		{"desconocido", "/perfil", false},
		{"", "/tesoreria", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, TieneAcceso(tc.rol, tc.ruta), "%s -> %s", tc.rol, tc.ruta)
	}
}

func TestRutas(t *testing.T) {
	assert.Equal(t, []string{"/decretos", "/perfil", "/transparencia"}, Rutas(RolFinanzas))
	assert.Len(t, Rutas(RolAdministrador), 8)
	assert.Empty(t, Rutas("desconocido"))
}
