package repository

import (
	"context"

	"aplicas/internal/model"

	"gorm.io/gorm"
)

type TitularRepository interface {
	List(ctx context.Context) ([]model.Titular, error)
	FindByRol(ctx context.Context, rolID int) (*model.Titular, error)

	// Replacement is delete+insert; both run on the caller's transaction.
	DeleteByRolTx(tx *gorm.DB, rolID int) (int64, error)
	CreateTx(tx *gorm.DB, t *model.Titular) error

	DB() *gorm.DB
}

type titularRepo struct{ db *gorm.DB }

func NewTitularRepository(db *gorm.DB) TitularRepository { return &titularRepo{db: db} }

func (r *titularRepo) DB() *gorm.DB { return r.db }

func (r *titularRepo) List(ctx context.Context) ([]model.Titular, error) {
	var list []model.Titular
	err := r.db.WithContext(ctx).Preload("Rol").Order("rol_id ASC").Find(&list).Error
	return list, err
}

func (r *titularRepo) FindByRol(ctx context.Context, rolID int) (*model.Titular, error) {
	var t model.Titular
	err := r.db.WithContext(ctx).Preload("Rol").Where("rol_id = ?", rolID).First(&t).Error
	return &t, err
}

func (r *titularRepo) DeleteByRolTx(tx *gorm.DB, rolID int) (int64, error) {
	res := tx.Where("rol_id = ?", rolID).Delete(&model.Titular{})
	return res.RowsAffected, res.Error
}

func (r *titularRepo) CreateTx(tx *gorm.DB, t *model.Titular) error {
	return tx.Omit("Rol").Create(t).Error
}
