package model

import "time"

// Auditoria is one append-only entry of the audit log.
// Rows are never updated or deleted.
type Auditoria struct {
	ID          int64     `gorm:"column:id_auditoria;primaryKey;autoIncrement"`
	Usuario     string    `gorm:"column:usuario;type:varchar(60);not null;index"`
	Modulo      string    `gorm:"column:modulo;type:varchar(40);not null;index"`
	Accion      string    `gorm:"column:accion;type:varchar(40);not null"`
	Descripcion string    `gorm:"column:descripcion;type:varchar(1000);not null"`
	Fecha       time.Time `gorm:"column:fecha;not null;index"`
}

func (Auditoria) TableName() string { return "auditoria" }
