package repository

import (
	"context"
	"errors"

	"aplicas/internal/dto"
	"aplicas/internal/model"

	"gorm.io/gorm"
)

// CASRepository covers the Usuario and Permisos tables of the CAS database.
type CASRepository interface {
	ListUsuarios(ctx context.Context, filter dto.UsuarioCASFilter) ([]model.UsuarioCAS, int64, error)
	FindUsuarioByID(ctx context.Context, id int) (*model.UsuarioCAS, error)
	FindUsuarioByLogin(ctx context.Context, login string) (*model.UsuarioCAS, error)
	ListPermisos(ctx context.Context, usuarioID int) ([]model.PermisoCAS, error)

	// Used inside transactions; callers must pass the tx instance
	ListPermisosTx(tx *gorm.DB, usuarioID int) ([]model.PermisoCAS, error)
	CreateUsuarioTx(tx *gorm.DB, u *model.UsuarioCAS) error
	DeleteUsuarioTx(tx *gorm.DB, id int) (int64, error)
	CreatePermisosTx(tx *gorm.DB, permisos []model.PermisoCAS) error
	DeletePermisosTx(tx *gorm.DB, usuarioID int) (int64, error)
	UpsertPermisoTx(tx *gorm.DB, p *model.PermisoCAS) error

	DB() *gorm.DB
}

type casRepo struct{ db *gorm.DB }

func NewCASRepository(db *gorm.DB) CASRepository { return &casRepo{db: db} }

func (r *casRepo) DB() *gorm.DB { return r.db }

func (r *casRepo) ListUsuarios(ctx context.Context, filter dto.UsuarioCASFilter) ([]model.UsuarioCAS, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.UsuarioCAS{})
	if filter.Busqueda != "" {
		like := likePattern(filter.Busqueda)
		q = q.Where("login LIKE ? OR nombre LIKE ? OR rut LIKE ?", like, like, like)
	}
	var rows []model.UsuarioCAS
	total, err := paginar(q, filter.Page, filter.Limit, "login ASC", &rows)
	return rows, total, err
}

func (r *casRepo) FindUsuarioByID(ctx context.Context, id int) (*model.UsuarioCAS, error) {
	var u model.UsuarioCAS
	err := r.db.WithContext(ctx).First(&u, "id_usuario = ?", id).Error
	return &u, err
}

func (r *casRepo) FindUsuarioByLogin(ctx context.Context, login string) (*model.UsuarioCAS, error) {
	var u model.UsuarioCAS
	err := r.db.WithContext(ctx).Where("login = ?", login).First(&u).Error
	return &u, err
}

func (r *casRepo) ListPermisos(ctx context.Context, usuarioID int) ([]model.PermisoCAS, error) {
	return r.ListPermisosTx(r.db.WithContext(ctx), usuarioID)
}

func (r *casRepo) ListPermisosTx(tx *gorm.DB, usuarioID int) ([]model.PermisoCAS, error) {
	var rows []model.PermisoCAS
	err := tx.Where("id_usuario = ?", usuarioID).Order("id_menu ASC").Find(&rows).Error
	return rows, err
}

func (r *casRepo) CreateUsuarioTx(tx *gorm.DB, u *model.UsuarioCAS) error {
	return tx.Omit("Permisos").Create(u).Error
}

func (r *casRepo) DeleteUsuarioTx(tx *gorm.DB, id int) (int64, error) {
	res := tx.Where("id_usuario = ?", id).Delete(&model.UsuarioCAS{})
	return res.RowsAffected, res.Error
}

func (r *casRepo) CreatePermisosTx(tx *gorm.DB, permisos []model.PermisoCAS) error {
	if len(permisos) == 0 {
		return nil
	}
	return tx.Create(&permisos).Error
}

func (r *casRepo) DeletePermisosTx(tx *gorm.DB, usuarioID int) (int64, error) {
	res := tx.Where("id_usuario = ?", usuarioID).Delete(&model.PermisoCAS{})
	return res.RowsAffected, res.Error
}

func (r *casRepo) UpsertPermisoTx(tx *gorm.DB, p *model.PermisoCAS) error {
	var actual model.PermisoCAS
	err := tx.Where("id_usuario = ? AND id_menu = ?", p.UsuarioID, p.MenuID).First(&actual).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(p).Error
	}
	if err != nil {
		return err
	}
	p.ID = actual.ID
	return tx.Model(&actual).Select("ver", "crear", "editar", "eliminar").Updates(map[string]interface{}{
		"ver":      p.Ver,
		"crear":    p.Crear,
		"editar":   p.Editar,
		"eliminar": p.Eliminar,
	}).Error
}
