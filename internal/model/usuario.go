package model

import (
	"time"
)

// Usuario stores an application user of ApliCAS.
// Access is decided by the role name resolved through RolID.
type Usuario struct {
	ID       int       `gorm:"column:id_usuario;primaryKey;autoIncrement"`
	Nombre   string    `gorm:"column:nombre;type:varchar(150);not null"`
	Usuario  string    `gorm:"column:usuario;type:varchar(60);uniqueIndex;not null"`
	Correo   *string   `gorm:"column:correo;type:varchar(150)"`
	Clave    string    `gorm:"column:clave;type:varchar(100);not null"`
	RolID    int       `gorm:"column:rol_id;not null;index"`
	Rol      *Rol      `gorm:"foreignKey:RolID;references:ID"`
	Activo   bool      `gorm:"column:activo;not null"`
	CreadoEn time.Time `gorm:"column:creado_en;autoCreateTime"`
}

func (Usuario) TableName() string { return "USUARIO" }

// Rol is one entry of the role table. Names are lowercase identifiers
// ("administrador", "tesoreria", ...) matched by the route allow-list.
type Rol struct {
	ID     int    `gorm:"column:id_rol;primaryKey;autoIncrement"`
	Nombre string `gorm:"column:nombre;type:varchar(50);uniqueIndex;not null"`
}

func (Rol) TableName() string { return "ROL" }
