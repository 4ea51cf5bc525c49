package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Usuario string `json:"usuario" validate:"required,min=1,max=60"`
	Clave   string `json:"clave"   validate:"required,min=4"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SesionResponse is the profile of the logged-in user plus the route prefixes
// the front-end may show in its menu.
type SesionResponse struct {
	ID      int      `json:"id"`
	Nombre  string   `json:"nombre"`
	Usuario string   `json:"usuario"`
	Rol     string   `json:"rol"`
	Rutas   []string `json:"rutas"`
}

type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	Perfil      SesionResponse `json:"perfil"`
}

// Actor identifies who performs a mutating operation. It is taken from the
// session claims and written to the audit log.
type Actor struct {
	ID      int
	Usuario string
	Rol     string
}
