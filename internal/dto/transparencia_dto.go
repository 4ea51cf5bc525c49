package dto

import "github.com/shopspring/decimal"

// TransparenciaFilter selects one month of decrees for the transparency portal.
type TransparenciaFilter struct {
	Anio  int `form:"anio"  validate:"required,min=1900,max=2999"`
	Mes   int `form:"mes"   validate:"required,min=1,max=12"`
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=50" validate:"min=1,max=500"`
}

type TransparenciaItem struct {
	Numero  int             `json:"numero"`
	Anio    int             `json:"anio"`
	Fecha   string          `json:"fecha"`
	Materia string          `json:"materia"`
	Unidad  string          `json:"unidad"`
	Monto   decimal.Decimal `json:"monto"`
}

type TransparenciaResponse struct {
	Anio       int                 `json:"anio"`
	Mes        int                 `json:"mes"`
	Data       []TransparenciaItem `json:"data"`
	Total      int64               `json:"total"`
	MontoTotal decimal.Decimal     `json:"monto_total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
}
