package repository

import (
	"context"
	"time"

	"aplicas/internal/model"

	"gorm.io/gorm"
)

// PagoClave is the exact composite key of a treasury payment.
// Fecha is truncated to the day; the query matches the whole day.
type PagoClave struct {
	Caja  int
	Folio int
	Rut   string
	Fecha time.Time
}

type PagoRepository interface {
	FindByClave(ctx context.Context, clave PagoClave) ([]model.PagoDeudor, error)

	// ReversarTx nulls caja, folio and fecha_pago of the rows matching clave
	// (and item, when not nil). Rows are never deleted.
	ReversarTx(tx *gorm.DB, clave PagoClave, item *int) (int64, error)

	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) DB() *gorm.DB { return r.db }

func (r *pagoRepo) FindByClave(ctx context.Context, clave PagoClave) ([]model.PagoDeudor, error) {
	var rows []model.PagoDeudor
	err := whereClave(r.db.WithContext(ctx), clave).Order("item ASC").Find(&rows).Error
	return rows, err
}

func (r *pagoRepo) ReversarTx(tx *gorm.DB, clave PagoClave, item *int) (int64, error) {
	q := whereClave(tx.Model(&model.PagoDeudor{}), clave)
	if item != nil {
		q = q.Where("item = ?", *item)
	}
	res := q.Updates(map[string]interface{}{
		"caja":       nil,
		"folio":      nil,
		"fecha_pago": nil,
		"pagado":     false,
	})
	return res.RowsAffected, res.Error
}

func whereClave(q *gorm.DB, clave PagoClave) *gorm.DB {
	dia := time.Date(clave.Fecha.Year(), clave.Fecha.Month(), clave.Fecha.Day(), 0, 0, 0, 0, clave.Fecha.Location())
	return q.Where("caja = ? AND folio = ? AND rut = ?", clave.Caja, clave.Folio, clave.Rut).
		Where("fecha_pago >= ? AND fecha_pago < ?", dia, dia.AddDate(0, 0, 1))
}
