package service

import (
	"context"
	"errors"
	"fmt"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"gorm.io/gorm"
)

const (
	AccionLiberar     = "liberar"
	AccionRegularizar = "regularizar"
)

// errSinCambio aborts a transition whose guarded update matched no row
// because another request moved the flag first.
var errSinCambio = errors.New("decreto: sin cambio")

type DecretoService interface {
	Listar(ctx context.Context, filter dto.DecretoFilter) (*dto.DecretoListResponse, error)
	Buscar(ctx context.Context, numero, anio int) (*dto.DecretoResponse, error)
	Historial(ctx context.Context, numero, anio int) ([]dto.HistorialDecretoItem, error)
	// Liberar moves SDF from True to False. A decree already False is left
	// untouched and reported with Cambiado=false.
	Liberar(ctx context.Context, actor dto.Actor, numero, anio int) (*dto.TransicionResponse, error)
	// Regularizar moves SDF from False to True, with the same no-op rule.
	Regularizar(ctx context.Context, actor dto.Actor, numero, anio int) (*dto.TransicionResponse, error)
}

type decretoService struct {
	repo  repository.DecretoRepository
	audit AuditoriaService
}

func NewDecretoService(repo repository.DecretoRepository, audit AuditoriaService) DecretoService {
	return &decretoService{repo: repo, audit: audit}
}

func (s *decretoService) Listar(ctx context.Context, filter dto.DecretoFilter) (*dto.DecretoListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.DecretoListResponse{
		Data:  make([]dto.DecretoResponse, len(rows)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range rows {
		resp.Data[i] = decretoToResponse(&rows[i])
	}
	return resp, nil
}

func (s *decretoService) Buscar(ctx context.Context, numero, anio int) (*dto.DecretoResponse, error) {
	d, err := s.buscar(ctx, numero, anio)
	if err != nil {
		return nil, err
	}
	resp := decretoToResponse(d)
	return &resp, nil
}

func (s *decretoService) Historial(ctx context.Context, numero, anio int) ([]dto.HistorialDecretoItem, error) {
	d, err := s.buscar(ctx, numero, anio)
	if err != nil {
		return nil, err
	}
	rows, err := s.repo.ListHistorial(ctx, d.ID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.HistorialDecretoItem, len(rows))
	for i, h := range rows {
		items[i] = dto.HistorialDecretoItem{
			EstadoAnterior: h.EstadoAnterior,
			EstadoNuevo:    h.EstadoNuevo,
			Accion:         h.Accion,
			Usuario:        h.Usuario,
			Fecha:          h.Fecha.Format(formatoFechaHora),
		}
	}
	return items, nil
}

func (s *decretoService) Liberar(ctx context.Context, actor dto.Actor, numero, anio int) (*dto.TransicionResponse, error) {
	return s.transicion(ctx, actor, numero, anio, AccionLiberar, model.SDFTrue, model.SDFFalse)
}

func (s *decretoService) Regularizar(ctx context.Context, actor dto.Actor, numero, anio int) (*dto.TransicionResponse, error) {
	return s.transicion(ctx, actor, numero, anio, AccionRegularizar, model.SDFFalse, model.SDFTrue)
}

func (s *decretoService) transicion(ctx context.Context, actor dto.Actor, numero, anio int, accion, desde, hacia string) (*dto.TransicionResponse, error) {
	d, err := s.buscar(ctx, numero, anio)
	if err != nil {
		return nil, err
	}

	resp := &dto.TransicionResponse{
		Numero:         d.Numero,
		Anio:           d.Anio,
		Accion:         accion,
		EstadoAnterior: d.SDF,
		EstadoNuevo:    d.SDF,
	}
	switch d.SDF {
	case hacia:
		return resp, nil
	case desde:
	default:
		return nil, fmt.Errorf("decreto %d/%d con SDF %q: %w", numero, anio, d.SDF, apierror.ErrEstadoInvalido)
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.CambiarSDFTx(tx, d.ID, desde, hacia)
		if err != nil {
			return err
		}
		if n == 0 {
			return errSinCambio
		}
		return s.repo.CreateHistorialTx(tx, &model.DecretoHistorico{
			DecretoID:      d.ID,
			Numero:         d.Numero,
			Anio:           d.Anio,
			EstadoAnterior: desde,
			EstadoNuevo:    hacia,
			Accion:         accion,
			Usuario:        actor.Usuario,
		})
	})
	if errors.Is(err, errSinCambio) {
		// Lost the race; whoever won already moved it to the target state.
		resp.EstadoNuevo = hacia
		resp.EstadoAnterior = hacia
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	resp.EstadoNuevo = hacia
	resp.Cambiado = true
	s.audit.Registrar(ctx, actor, ModuloDecretos, accion,
		fmt.Sprintf("Decreto %d/%d SDF %s -> %s", d.Numero, d.Anio, desde, hacia))
	return resp, nil
}

func (s *decretoService) buscar(ctx context.Context, numero, anio int) (*model.Decreto, error) {
	d, err := s.repo.FindByNumeroAnio(ctx, numero, anio)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("decreto %d/%d: %w", numero, anio, apierror.ErrNoEncontrado)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func decretoToResponse(d *model.Decreto) dto.DecretoResponse {
	resp := dto.DecretoResponse{
		ID:      d.ID,
		Numero:  d.Numero,
		Anio:    d.Anio,
		Fecha:   d.Fecha.Format(formatoFecha),
		Materia: d.Materia,
		Monto:   d.Monto,
		Unidad:  d.Unidad,
		SDF:     d.SDF,
	}
	switch d.SDF {
	case model.SDFTrue:
		resp.AccionDisponible = AccionLiberar
	case model.SDFFalse:
		resp.AccionDisponible = AccionRegularizar
	}
	return resp
}
