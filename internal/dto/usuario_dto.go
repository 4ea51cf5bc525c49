package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

type UsuarioFilter struct {
	Busqueda string `form:"busqueda"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type UsuarioListResponse struct {
	Data  []UsuarioResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Nombre  string  `json:"nombre"  validate:"required,min=2,max=150"`
	Usuario string  `json:"usuario" validate:"required,min=3,max=60"`
	Correo  *string `json:"correo"  validate:"omitempty,email"`
	Clave   string  `json:"clave"   validate:"required,min=8"`
	RolID   int     `json:"rol_id"  validate:"required,min=1"`
}

type ActualizarUsuarioRequest struct {
	Nombre string  `json:"nombre" validate:"omitempty,min=2,max=150"`
	Correo *string `json:"correo" validate:"omitempty,email"`
	RolID  *int    `json:"rol_id" validate:"omitempty,min=1"`
	Activo *bool   `json:"activo"`
}

type CambiarClaveRequest struct {
	Clave string `json:"clave" validate:"required,min=8"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID       int     `json:"id"`
	Nombre   string  `json:"nombre"`
	Usuario  string  `json:"usuario"`
	Correo   *string `json:"correo"`
	RolID    int     `json:"rol_id"`
	Rol      string  `json:"rol"`
	Activo   bool    `json:"activo"`
	CreadoEn string  `json:"creado_en"`
}

type RolResponse struct {
	ID     int    `json:"id"`
	Nombre string `json:"nombre"`
}
