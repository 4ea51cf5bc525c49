package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

type DecretoFilter struct {
	Anio   int    `form:"anio"   validate:"omitempty,min=1900,max=2999"`
	Numero int    `form:"numero" validate:"omitempty,min=1"`
	SDF    string `form:"sdf"    validate:"omitempty,oneof=True False"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=10" validate:"min=1,max=100"`
}

type DecretoListResponse struct {
	Data  []DecretoResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DecretoResponse struct {
	ID      int             `json:"id"`
	Numero  int             `json:"numero"`
	Anio    int             `json:"anio"`
	Fecha   string          `json:"fecha"`
	Materia string          `json:"materia"`
	Monto   decimal.Decimal `json:"monto"`
	Unidad  string          `json:"unidad"`
	SDF     string          `json:"sdf"`
	// AccionDisponible is "liberar" or "regularizar" depending on SDF
	AccionDisponible string `json:"accion_disponible"`
}

// TransicionResponse describes the outcome of liberar / regularizar.
// Cambiado is false when the decree was already in the target state.
type TransicionResponse struct {
	Numero         int    `json:"numero"`
	Anio           int    `json:"anio"`
	Accion         string `json:"accion"`
	EstadoAnterior string `json:"estado_anterior"`
	EstadoNuevo    string `json:"estado_nuevo"`
	Cambiado       bool   `json:"cambiado"`
}

type HistorialDecretoItem struct {
	EstadoAnterior string `json:"estado_anterior"`
	EstadoNuevo    string `json:"estado_nuevo"`
	Accion         string `json:"accion"`
	Usuario        string `json:"usuario"`
	Fecha          string `json:"fecha"`
}
