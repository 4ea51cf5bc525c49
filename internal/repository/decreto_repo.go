package repository

import (
	"context"
	"time"

	"aplicas/internal/dto"
	"aplicas/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DecretoRepository interface {
	FindByNumeroAnio(ctx context.Context, numero, anio int) (*model.Decreto, error)
	List(ctx context.Context, filter dto.DecretoFilter) ([]model.Decreto, int64, error)
	// ListPorPeriodo returns decrees dated in [desde, hasta). limit <= 0 loads
	// every row of the period.
	ListPorPeriodo(ctx context.Context, desde, hasta time.Time, page, limit int) ([]model.Decreto, int64, error)
	SumMontoPorPeriodo(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error)
	ListHistorial(ctx context.Context, decretoID int) ([]model.DecretoHistorico, error)

	// CambiarSDFTx moves the flag from desde to hacia. The update is guarded
	// by the current value, so it affects zero rows if the decree is not in
	// state desde.
	CambiarSDFTx(tx *gorm.DB, id int, desde, hacia string) (int64, error)
	CreateHistorialTx(tx *gorm.DB, h *model.DecretoHistorico) error

	DB() *gorm.DB
}

type decretoRepo struct{ db *gorm.DB }

func NewDecretoRepository(db *gorm.DB) DecretoRepository { return &decretoRepo{db: db} }

func (r *decretoRepo) DB() *gorm.DB { return r.db }

func (r *decretoRepo) FindByNumeroAnio(ctx context.Context, numero, anio int) (*model.Decreto, error) {
	var d model.Decreto
	err := r.db.WithContext(ctx).Where("numero = ? AND anio = ?", numero, anio).First(&d).Error
	return &d, err
}

func (r *decretoRepo) List(ctx context.Context, filter dto.DecretoFilter) ([]model.Decreto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Decreto{})
	if filter.Anio != 0 {
		q = q.Where("anio = ?", filter.Anio)
	}
	if filter.Numero != 0 {
		q = q.Where("numero = ?", filter.Numero)
	}
	if filter.SDF != "" {
		q = q.Where(map[string]interface{}{"SDF": filter.SDF})
	}
	var rows []model.Decreto
	total, err := paginar(q, filter.Page, filter.Limit, "anio DESC, numero DESC", &rows)
	return rows, total, err
}

func (r *decretoRepo) ListPorPeriodo(ctx context.Context, desde, hasta time.Time, page, limit int) ([]model.Decreto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Decreto{}).Where("fecha >= ? AND fecha < ?", desde, hasta)
	var rows []model.Decreto
	if limit <= 0 {
		err := q.Order("fecha ASC, numero ASC").Find(&rows).Error
		return rows, int64(len(rows)), err
	}
	total, err := paginar(q, page, limit, "fecha ASC, numero ASC", &rows)
	return rows, total, err
}

func (r *decretoRepo) SumMontoPorPeriodo(ctx context.Context, desde, hasta time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&model.Decreto{}).
		Select("COALESCE(SUM(monto), 0)").
		Where("fecha >= ? AND fecha < ?", desde, hasta).
		Row().Scan(&total)
	return total, err
}

func (r *decretoRepo) ListHistorial(ctx context.Context, decretoID int) ([]model.DecretoHistorico, error) {
	var rows []model.DecretoHistorico
	err := r.db.WithContext(ctx).Where("id_decreto = ?", decretoID).Order("fecha DESC, id DESC").Find(&rows).Error
	return rows, err
}

func (r *decretoRepo) CambiarSDFTx(tx *gorm.DB, id int, desde, hacia string) (int64, error) {
	res := tx.Model(&model.Decreto{}).
		Where("id_decreto = ?", id).
		Where(map[string]interface{}{"SDF": desde}).
		Update("SDF", hacia)
	return res.RowsAffected, res.Error
}

func (r *decretoRepo) CreateHistorialTx(tx *gorm.DB, h *model.DecretoHistorico) error {
	if h.Fecha.IsZero() {
		h.Fecha = time.Now()
	}
	return tx.Create(h).Error
}
