package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PagoDeudor is one item row of EncabezadoDeudoresMunicipales.
// A payment is identified by (caja, folio, rut, fecha_pago); each item of the
// payment is its own row. Reversing a payment nulls Caja, Folio and FechaPago
// and clears Pagado; rows are never deleted.
type PagoDeudor struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Caja        *int            `gorm:"column:caja"`
	Folio       *int            `gorm:"column:folio"`
	Rut         string          `gorm:"column:rut;type:varchar(12);not null;index"`
	FechaPago   *time.Time      `gorm:"column:fecha_pago"`
	Item        int             `gorm:"column:item;not null"`
	Descripcion string          `gorm:"column:descripcion;type:varchar(300)"`
	Monto       decimal.Decimal `gorm:"column:monto;type:decimal(18,2);not null"`
	Pagado      bool            `gorm:"column:pagado;not null"`
}

func (PagoDeudor) TableName() string { return "EncabezadoDeudoresMunicipales" }
