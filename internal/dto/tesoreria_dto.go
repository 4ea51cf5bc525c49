package dto

import "github.com/shopspring/decimal"

// PagoFilter is bound from the query string of GET /v1/tesoreria/pagos.
// All four fields form the exact key of a payment.
type PagoFilter struct {
	Caja  int    `form:"caja"  validate:"required,min=1"`
	Folio int    `form:"folio" validate:"required,min=1"`
	Rut   string `form:"rut"   validate:"required,rut"`
	Fecha string `form:"fecha" validate:"required,datetime=2006-01-02"`
}

// ReversaPagoRequest reverses a payment. An empty Items list reverses every
// item of the payment (total); otherwise only the listed items (parcial).
type ReversaPagoRequest struct {
	Caja  int    `json:"caja"  validate:"required,min=1"`
	Folio int    `json:"folio" validate:"required,min=1"`
	Rut   string `json:"rut"   validate:"required,rut"`
	Fecha string `json:"fecha" validate:"required,datetime=2006-01-02"`
	Items []int  `json:"items" validate:"omitempty,unique,dive,min=0"`
}

type PagoItemResponse struct {
	ID          int64           `json:"id"`
	Item        int             `json:"item"`
	Descripcion string          `json:"descripcion"`
	Monto       decimal.Decimal `json:"monto"`
	Pagado      bool            `json:"pagado"`
}

type PagoResponse struct {
	Caja  int                `json:"caja"`
	Folio int                `json:"folio"`
	Rut   string             `json:"rut"`
	Fecha string             `json:"fecha"`
	Items []PagoItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type ReversaPagoResponse struct {
	Tipo      string `json:"tipo"` // total | parcial
	Afectados int64  `json:"afectados"`
}
