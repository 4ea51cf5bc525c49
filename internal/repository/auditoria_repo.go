package repository

import (
	"context"
	"time"

	"aplicas/internal/dto"
	"aplicas/internal/model"

	"gorm.io/gorm"
)

// AuditoriaRepository is append-only: there is deliberately no Update or
// Delete method.
type AuditoriaRepository interface {
	Create(ctx context.Context, a *model.Auditoria) error
	CreateTx(tx *gorm.DB, a *model.Auditoria) error
	List(ctx context.Context, filter dto.AuditoriaFilter) ([]model.Auditoria, int64, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) Create(ctx context.Context, a *model.Auditoria) error {
	return r.CreateTx(r.db.WithContext(ctx), a)
}

func (r *auditoriaRepo) CreateTx(tx *gorm.DB, a *model.Auditoria) error {
	if a.Fecha.IsZero() {
		a.Fecha = time.Now()
	}
	return tx.Create(a).Error
}

func (r *auditoriaRepo) List(ctx context.Context, filter dto.AuditoriaFilter) ([]model.Auditoria, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Auditoria{})
	if filter.Usuario != "" {
		q = q.Where("usuario = ?", filter.Usuario)
	}
	if filter.Modulo != "" {
		q = q.Where("modulo = ?", filter.Modulo)
	}
	if filter.Accion != "" {
		q = q.Where("accion = ?", filter.Accion)
	}
	if desde, err := time.ParseInLocation(time.DateOnly, filter.Desde, time.Local); err == nil {
		q = q.Where("fecha >= ?", desde)
	}
	if hasta, err := time.ParseInLocation(time.DateOnly, filter.Hasta, time.Local); err == nil {
		// inclusive: everything before the start of the next day
		q = q.Where("fecha < ?", hasta.AddDate(0, 0, 1))
	}
	var rows []model.Auditoria
	total, err := paginar(q, filter.Page, filter.Limit, "fecha DESC, id_auditoria DESC", &rows)
	return rows, total, err
}
