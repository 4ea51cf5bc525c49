package model

import "time"

// Titular is the signing authority for a role. There is at most one row per
// role; replacing it deletes the old row and inserts the new one in a single
// transaction.
type Titular struct {
	ID            int       `gorm:"column:id_titular;primaryKey;autoIncrement"`
	RolID         int       `gorm:"column:rol_id;uniqueIndex;not null"`
	Rol           *Rol      `gorm:"foreignKey:RolID;references:ID"`
	Nombre        string    `gorm:"column:nombre;type:varchar(150);not null"`
	Cargo         string    `gorm:"column:cargo;type:varchar(150);not null"`
	Rut           string    `gorm:"column:rut;type:varchar(12);not null"`
	ActualizadoEn time.Time `gorm:"column:actualizado_en"`
}

func (Titular) TableName() string { return "titular" }
