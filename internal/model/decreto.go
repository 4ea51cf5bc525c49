package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SDF flag values. The column is a string, not a bit, in the finance database.
const (
	SDFTrue  = "True"
	SDFFalse = "False"
)

// Decreto is a row of EncabezadoDecretos.
// SDF = "True": the decree is held in SDF and may be liberated.
// SDF = "False": the decree was liberated and may be regularized.
type Decreto struct {
	ID      int             `gorm:"column:id_decreto;primaryKey;autoIncrement"`
	Numero  int             `gorm:"column:numero;not null;uniqueIndex:idx_decreto_numero_anio"`
	Anio    int             `gorm:"column:anio;not null;uniqueIndex:idx_decreto_numero_anio"`
	Fecha   time.Time       `gorm:"column:fecha;not null"`
	Materia string          `gorm:"column:materia;type:varchar(500)"`
	Monto   decimal.Decimal `gorm:"column:monto;type:decimal(18,2);not null"`
	Unidad  string          `gorm:"column:unidad;type:varchar(150)"`
	SDF     string          `gorm:"column:SDF;type:varchar(5);not null"`
}

func (Decreto) TableName() string { return "EncabezadoDecretos" }

// DecretoHistorico records every SDF transition of a decree.
type DecretoHistorico struct {
	ID             int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DecretoID      int       `gorm:"column:id_decreto;not null;index"`
	Numero         int       `gorm:"column:numero;not null"`
	Anio           int       `gorm:"column:anio;not null"`
	EstadoAnterior string    `gorm:"column:estado_anterior;type:varchar(5);not null"`
	EstadoNuevo    string    `gorm:"column:estado_nuevo;type:varchar(5);not null"`
	Accion         string    `gorm:"column:accion;type:varchar(20);not null"`
	Usuario        string    `gorm:"column:usuario;type:varchar(60);not null"`
	Fecha          time.Time `gorm:"column:fecha;not null"`
}

func (DecretoHistorico) TableName() string { return "SDF_Estados_Decreto_Historico" }
