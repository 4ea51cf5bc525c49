package dto

// ─── Filter / List ──────────────────────────────────────────────────────────

type UsuarioCASFilter struct {
	Busqueda string `form:"busqueda"`
	Page     int    `form:"page,default=1"   validate:"min=1"`
	Limit    int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type UsuarioCASListResponse struct {
	Data  []UsuarioCASResponse `json:"data"`
	Total int64                `json:"total"`
	Page  int                  `json:"page"`
	Limit int                  `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearUsuarioCASRequest creates a CAS account. When PlantillaID is set the
// new account receives a copy of every permission of that template account.
type CrearUsuarioCASRequest struct {
	Login       string `json:"login"        validate:"required,min=3,max=30"`
	Nombre      string `json:"nombre"       validate:"required,min=2,max=150"`
	Rut         string `json:"rut"          validate:"omitempty,rut"`
	Clave       string `json:"clave"        validate:"required,min=8"`
	PlantillaID *int   `json:"plantilla_id" validate:"omitempty,min=1"`
}

type PermisoRequest struct {
	MenuID   int  `json:"id_menu"  validate:"required,min=1"`
	Ver      bool `json:"ver"`
	Crear    bool `json:"crear"`
	Editar   bool `json:"editar"`
	Eliminar bool `json:"eliminar"`
}

type ReplicarPermisosRequest struct {
	OrigenID  int `json:"origen_id"  validate:"required,min=1"`
	DestinoID int `json:"destino_id" validate:"required,min=1,nefield=OrigenID"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioCASResponse struct {
	ID     int    `json:"id"`
	Login  string `json:"login"`
	Nombre string `json:"nombre"`
	Rut    string `json:"rut"`
	Activo bool   `json:"activo"`
}

type PermisoResponse struct {
	MenuID   int  `json:"id_menu"`
	Ver      bool `json:"ver"`
	Crear    bool `json:"crear"`
	Editar   bool `json:"editar"`
	Eliminar bool `json:"eliminar"`
}

type ReplicarPermisosResponse struct {
	OrigenID  int `json:"origen_id"`
	DestinoID int `json:"destino_id"`
	Copiados  int `json:"copiados"`
}
