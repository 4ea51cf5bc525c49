package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"
	"aplicas/internal/rut"

	"gorm.io/gorm"
)

// rolLookup resolves role ids; UsuarioRepository satisfies it.
type rolLookup interface {
	FindRolByID(ctx context.Context, id int) (*model.Rol, error)
}

type TitularService interface {
	Listar(ctx context.Context) ([]dto.TitularResponse, error)
	ObtenerPorRol(ctx context.Context, rolID int) (*dto.TitularResponse, error)
	// Reemplazar swaps the titular of a role: delete and insert run in one
	// transaction, so on success the role always has exactly one row and on
	// failure the previous row is kept.
	Reemplazar(ctx context.Context, actor dto.Actor, rolID int, req dto.ReemplazarTitularRequest) (*dto.TitularResponse, error)
}

type titularService struct {
	repo  repository.TitularRepository
	roles rolLookup
	audit AuditoriaService
}

func NewTitularService(repo repository.TitularRepository, roles rolLookup, audit AuditoriaService) TitularService {
	return &titularService{repo: repo, roles: roles, audit: audit}
}

func (s *titularService) Listar(ctx context.Context) ([]dto.TitularResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.TitularResponse, len(list))
	for i := range list {
		resp[i] = titularToResponse(&list[i])
	}
	return resp, nil
}

func (s *titularService) ObtenerPorRol(ctx context.Context, rolID int) (*dto.TitularResponse, error) {
	t, err := s.repo.FindByRol(ctx, rolID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("titular del rol %d: %w", rolID, apierror.ErrNoEncontrado)
	}
	if err != nil {
		return nil, err
	}
	resp := titularToResponse(t)
	return &resp, nil
}

func (s *titularService) Reemplazar(ctx context.Context, actor dto.Actor, rolID int, req dto.ReemplazarTitularRequest) (*dto.TitularResponse, error) {
	if !rut.Valido(req.Rut) {
		return nil, fmt.Errorf("rut %q: %w", req.Rut, apierror.ErrInvalido)
	}
	rol, err := s.roles.FindRolByID(ctx, rolID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("rol %d: %w", rolID, apierror.ErrNoEncontrado)
	}
	if err != nil {
		return nil, err
	}

	anterior := "(sin titular)"
	if prev, err := s.repo.FindByRol(ctx, rolID); err == nil {
		anterior = prev.Nombre
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	nuevo := &model.Titular{
		RolID:         rol.ID,
		Nombre:        req.Nombre,
		Cargo:         req.Cargo,
		Rut:           rut.Normalizar(req.Rut),
		ActualizadoEn: time.Now(),
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.DeleteByRolTx(tx, rol.ID); err != nil {
			return err
		}
		if err := s.repo.CreateTx(tx, nuevo); err != nil {
			return err
		}
		return s.audit.RegistrarTx(tx, actor, ModuloTitulares, "reemplazar",
			fmt.Sprintf("Titular del rol %s: %s -> %s (%s)", rol.Nombre, anterior, nuevo.Nombre, nuevo.Cargo))
	})
	if err != nil {
		return nil, err
	}
	nuevo.Rol = rol
	resp := titularToResponse(nuevo)
	return &resp, nil
}

func titularToResponse(t *model.Titular) dto.TitularResponse {
	resp := dto.TitularResponse{
		ID:            t.ID,
		RolID:         t.RolID,
		Nombre:        t.Nombre,
		Cargo:         t.Cargo,
		Rut:           t.Rut,
		ActualizadoEn: t.ActualizadoEn.Format(formatoFechaHora),
	}
	if t.Rol != nil {
		resp.Rol = t.Rol.Nombre
	}
	return resp
}
