package model

// UsuarioCAS is an account of the CAS system (separate database from the
// application USUARIO table).
type UsuarioCAS struct {
	ID     int    `gorm:"column:id_usuario;primaryKey;autoIncrement"`
	Login  string `gorm:"column:login;type:varchar(30);uniqueIndex;not null"`
	Nombre string `gorm:"column:nombre;type:varchar(150);not null"`
	Rut    string `gorm:"column:rut;type:varchar(12)"`
	Clave  string `gorm:"column:clave;type:varchar(100);not null"`
	Activo bool   `gorm:"column:activo;not null"`

	Permisos []PermisoCAS `gorm:"foreignKey:UsuarioID;references:ID"`
}

func (UsuarioCAS) TableName() string { return "Usuario" }

// PermisoCAS holds the per-menu permission flags of a CAS account.
type PermisoCAS struct {
	ID        int  `gorm:"column:id_permiso;primaryKey;autoIncrement"`
	UsuarioID int  `gorm:"column:id_usuario;not null;uniqueIndex:idx_permiso_usuario_menu"`
	MenuID    int  `gorm:"column:id_menu;not null;uniqueIndex:idx_permiso_usuario_menu"`
	Ver       bool `gorm:"column:ver;not null"`
	Crear     bool `gorm:"column:crear;not null"`
	Editar    bool `gorm:"column:editar;not null"`
	Eliminar  bool `gorm:"column:eliminar;not null"`
}

func (PermisoCAS) TableName() string { return "Permisos" }
