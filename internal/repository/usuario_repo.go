package repository

import (
	"context"

	"aplicas/internal/dto"
	"aplicas/internal/model"

	"gorm.io/gorm"
)

type UsuarioRepository interface {
	FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error)
	FindByID(ctx context.Context, id int) (*model.Usuario, error)
	List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error)
	ListRoles(ctx context.Context) ([]model.Rol, error)
	FindRolByID(ctx context.Context, id int) (*model.Rol, error)

	// Used inside transactions; callers must pass the tx instance
	CreateTx(tx *gorm.DB, u *model.Usuario) error
	UpdateTx(tx *gorm.DB, u *model.Usuario) error
	DeleteTx(tx *gorm.DB, id int) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type usuarioRepo struct{ db *gorm.DB }

func NewUsuarioRepository(db *gorm.DB) UsuarioRepository { return &usuarioRepo{db: db} }

func (r *usuarioRepo) DB() *gorm.DB { return r.db }

func (r *usuarioRepo) FindByUsuario(ctx context.Context, usuario string) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Rol").Where("usuario = ?", usuario).First(&u).Error
	return &u, err
}

func (r *usuarioRepo) FindByID(ctx context.Context, id int) (*model.Usuario, error) {
	var u model.Usuario
	err := r.db.WithContext(ctx).Preload("Rol").First(&u, "id_usuario = ?", id).Error
	return &u, err
}

func (r *usuarioRepo) List(ctx context.Context, filter dto.UsuarioFilter) ([]model.Usuario, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Usuario{})
	if filter.Busqueda != "" {
		like := likePattern(filter.Busqueda)
		q = q.Where("nombre LIKE ? OR usuario LIKE ? OR correo LIKE ?", like, like, like)
	}
	var users []model.Usuario
	total, err := paginar(q.Preload("Rol"), filter.Page, filter.Limit, "nombre ASC", &users)
	return users, total, err
}

func (r *usuarioRepo) ListRoles(ctx context.Context) ([]model.Rol, error) {
	var roles []model.Rol
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&roles).Error
	return roles, err
}

func (r *usuarioRepo) FindRolByID(ctx context.Context, id int) (*model.Rol, error) {
	var rol model.Rol
	err := r.db.WithContext(ctx).First(&rol, "id_rol = ?", id).Error
	return &rol, err
}

func (r *usuarioRepo) CreateTx(tx *gorm.DB, u *model.Usuario) error {
	return tx.Omit("Rol").Create(u).Error
}

func (r *usuarioRepo) UpdateTx(tx *gorm.DB, u *model.Usuario) error {
	return tx.Omit("Rol").Save(u).Error
}

func (r *usuarioRepo) DeleteTx(tx *gorm.DB, id int) (int64, error) {
	res := tx.Where("id_usuario = ?", id).Delete(&model.Usuario{})
	return res.RowsAffected, res.Error
}
