package service

import (
	"context"
	"fmt"

	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Module names written to auditoria.modulo.
const (
	ModuloAuth          = "auth"
	ModuloUsuarios      = "usuarios"
	ModuloTitulares     = "titulares"
	ModuloTesoreria     = "tesoreria"
	ModuloDecretos      = "decretos"
	ModuloCAS           = "cas"
	ModuloTransparencia = "transparencia"
)

// ActorSistema is used for records written by background jobs.
var ActorSistema = dto.Actor{Usuario: "sistema"}

type AuditoriaService interface {
	// Registrar writes one audit record after a mutation has committed.
	// A failed write is logged; the mutation is not undone.
	Registrar(ctx context.Context, actor dto.Actor, modulo, accion, descripcion string)
	// RegistrarTx writes the record on the caller's transaction, so it commits
	// or rolls back together with the mutation.
	RegistrarTx(tx *gorm.DB, actor dto.Actor, modulo, accion, descripcion string) error
	Listar(ctx context.Context, filter dto.AuditoriaFilter) (*dto.AuditoriaListResponse, error)
}

type auditoriaService struct {
	repo repository.AuditoriaRepository
}

func NewAuditoriaService(repo repository.AuditoriaRepository) AuditoriaService {
	return &auditoriaService{repo: repo}
}

func (s *auditoriaService) Registrar(ctx context.Context, actor dto.Actor, modulo, accion, descripcion string) {
	a := nuevoRegistro(actor, modulo, accion, descripcion)
	if err := s.repo.Create(ctx, a); err != nil {
		log.Error().Err(err).
			Str("usuario", a.Usuario).
			Str("modulo", modulo).
			Str("accion", accion).
			Msg("auditoria: failed to write record")
	}
}

func (s *auditoriaService) RegistrarTx(tx *gorm.DB, actor dto.Actor, modulo, accion, descripcion string) error {
	if err := s.repo.CreateTx(tx, nuevoRegistro(actor, modulo, accion, descripcion)); err != nil {
		return fmt.Errorf("auditoria: %w", err)
	}
	return nil
}

func (s *auditoriaService) Listar(ctx context.Context, filter dto.AuditoriaFilter) (*dto.AuditoriaListResponse, error) {
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.AuditoriaListResponse{
		Data:  make([]dto.AuditoriaItem, len(rows)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i, a := range rows {
		resp.Data[i] = dto.AuditoriaItem{
			ID:          a.ID,
			Usuario:     a.Usuario,
			Modulo:      a.Modulo,
			Accion:      a.Accion,
			Descripcion: a.Descripcion,
			Fecha:       a.Fecha.Format(formatoFechaHora),
		}
	}
	return resp, nil
}

func nuevoRegistro(actor dto.Actor, modulo, accion, descripcion string) *model.Auditoria {
	usuario := actor.Usuario
	if usuario == "" {
		usuario = ActorSistema.Usuario
	}
	if r := []rune(descripcion); len(r) > 1000 {
		descripcion = string(r[:1000])
	}
	return &model.Auditoria{
		Usuario:     usuario,
		Modulo:      modulo,
		Accion:      accion,
		Descripcion: descripcion,
	}
}
