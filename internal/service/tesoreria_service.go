package service

import (
	"context"
	"fmt"
	"strings"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/repository"
	"aplicas/internal/rut"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TesoreriaService interface {
	BuscarPagos(ctx context.Context, filter dto.PagoFilter) (*dto.PagoResponse, error)
	// ReversarPago nulls the payment fields of the selected items of a payment
	// (every item when req.Items is empty). All rows are updated in one
	// transaction; if any selected item does not match, nothing changes.
	ReversarPago(ctx context.Context, actor dto.Actor, req dto.ReversaPagoRequest) (*dto.ReversaPagoResponse, error)
}

type tesoreriaService struct {
	repo  repository.PagoRepository
	audit AuditoriaService
}

func NewTesoreriaService(repo repository.PagoRepository, audit AuditoriaService) TesoreriaService {
	return &tesoreriaService{repo: repo, audit: audit}
}

func (s *tesoreriaService) BuscarPagos(ctx context.Context, filter dto.PagoFilter) (*dto.PagoResponse, error) {
	clave, err := nuevaClave(filter.Caja, filter.Folio, filter.Rut, filter.Fecha)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.FindByClave(ctx, clave)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("pago caja %d folio %d: %w", clave.Caja, clave.Folio, apierror.ErrNoEncontrado)
	}

	resp := &dto.PagoResponse{
		Caja:  clave.Caja,
		Folio: clave.Folio,
		Rut:   clave.Rut,
		Fecha: filter.Fecha,
		Items: make([]dto.PagoItemResponse, len(rows)),
		Total: decimal.Zero,
	}
	for i, r := range rows {
		resp.Items[i] = dto.PagoItemResponse{
			ID:          r.ID,
			Item:        r.Item,
			Descripcion: r.Descripcion,
			Monto:       r.Monto,
			Pagado:      r.Pagado,
		}
		resp.Total = resp.Total.Add(r.Monto)
	}
	return resp, nil
}

func (s *tesoreriaService) ReversarPago(ctx context.Context, actor dto.Actor, req dto.ReversaPagoRequest) (*dto.ReversaPagoResponse, error) {
	clave, err := nuevaClave(req.Caja, req.Folio, req.Rut, req.Fecha)
	if err != nil {
		return nil, err
	}

	items := unicos(req.Items)
	tipo := "total"
	if len(items) > 0 {
		tipo = "parcial"
	}

	var afectados int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tipo == "total" {
			n, err := s.repo.ReversarTx(tx, clave, nil)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("pago caja %d folio %d: %w", clave.Caja, clave.Folio, apierror.ErrNoEncontrado)
			}
			afectados = n
			return nil
		}
		for _, item := range items {
			item := item
			n, err := s.repo.ReversarTx(tx, clave, &item)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("item %d del pago caja %d folio %d: %w", item, clave.Caja, clave.Folio, apierror.ErrNoEncontrado)
			}
			afectados += n
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Reversa %s de pago caja %d folio %d rut %s fecha %s (%d filas)",
		tipo, clave.Caja, clave.Folio, clave.Rut, req.Fecha, afectados)
	if tipo == "parcial" {
		desc += ", items " + joinInts(items)
	}
	s.audit.Registrar(ctx, actor, ModuloTesoreria, "reversar_"+tipo, desc)

	return &dto.ReversaPagoResponse{Tipo: tipo, Afectados: afectados}, nil
}

func nuevaClave(caja, folio int, r, fecha string) (repository.PagoClave, error) {
	f, err := parseFecha(fecha)
	if err != nil {
		return repository.PagoClave{}, fmt.Errorf("fecha %q: %w", fecha, apierror.ErrInvalido)
	}
	if !rut.Valido(r) {
		return repository.PagoClave{}, fmt.Errorf("rut %q: %w", r, apierror.ErrInvalido)
	}
	return repository.PagoClave{Caja: caja, Folio: folio, Rut: rut.Normalizar(r), Fecha: f}, nil
}

// unicos drops repeated items, keeping the first occurrence of each.
func unicos(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	vistos := make(map[int]bool, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if !vistos[x] {
			vistos[x] = true
			out = append(out, x)
		}
	}
	return out
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ",")
}
