package service

import (
	"context"
	"errors"
	"fmt"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"
	"aplicas/internal/rut"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CASService interface {
	ListarUsuarios(ctx context.Context, filter dto.UsuarioCASFilter) (*dto.UsuarioCASListResponse, error)
	ObtenerPermisos(ctx context.Context, usuarioID int) ([]dto.PermisoResponse, error)
	// CrearUsuario inserts the account and, when a template is given, a copy
	// of every permission of the template in the same transaction.
	CrearUsuario(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioCASRequest) (*dto.UsuarioCASResponse, error)
	// ReplicarPermisos replaces every permission of destino with a copy of
	// origen's. An empty origin leaves the destination without permissions.
	ReplicarPermisos(ctx context.Context, actor dto.Actor, req dto.ReplicarPermisosRequest) (*dto.ReplicarPermisosResponse, error)
	ActualizarPermiso(ctx context.Context, actor dto.Actor, usuarioID int, req dto.PermisoRequest) (*dto.PermisoResponse, error)
	EliminarUsuario(ctx context.Context, actor dto.Actor, id int) error
}

type casService struct {
	repo  repository.CASRepository
	audit AuditoriaService
}

func NewCASService(repo repository.CASRepository, audit AuditoriaService) CASService {
	return &casService{repo: repo, audit: audit}
}

func (s *casService) ListarUsuarios(ctx context.Context, filter dto.UsuarioCASFilter) (*dto.UsuarioCASListResponse, error) {
	rows, total, err := s.repo.ListUsuarios(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.UsuarioCASListResponse{
		Data:  make([]dto.UsuarioCASResponse, len(rows)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range rows {
		resp.Data[i] = usuarioCASToResponse(&rows[i])
	}
	return resp, nil
}

func (s *casService) ObtenerPermisos(ctx context.Context, usuarioID int) ([]dto.PermisoResponse, error) {
	if _, err := s.buscar(ctx, usuarioID); err != nil {
		return nil, err
	}
	permisos, err := s.repo.ListPermisos(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PermisoResponse, len(permisos))
	for i := range permisos {
		resp[i] = permisoToResponse(&permisos[i])
	}
	return resp, nil
}

func (s *casService) CrearUsuario(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioCASRequest) (*dto.UsuarioCASResponse, error) {
	if _, err := s.repo.FindUsuarioByLogin(ctx, req.Login); err == nil {
		return nil, fmt.Errorf("login CAS %q: %w", req.Login, apierror.ErrConflicto)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var plantilla *model.UsuarioCAS
	if req.PlantillaID != nil {
		p, err := s.buscar(ctx, *req.PlantillaID)
		if err != nil {
			return nil, err
		}
		plantilla = p
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Clave), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.UsuarioCAS{
		Login:  req.Login,
		Nombre: req.Nombre,
		Clave:  string(hash),
		Activo: true,
	}
	if req.Rut != "" {
		user.Rut = rut.Normalizar(req.Rut)
	}

	copiados := 0
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateUsuarioTx(tx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("login CAS %q: %w", req.Login, apierror.ErrConflicto)
			}
			return err
		}
		if plantilla == nil {
			return nil
		}
		n, err := s.copiarPermisos(tx, plantilla.ID, user.ID)
		copiados = n
		return err
	})
	if err != nil {
		return nil, err
	}

	desc := fmt.Sprintf("Creo usuario CAS %s (id %d)", user.Login, user.ID)
	if plantilla != nil {
		desc += fmt.Sprintf(" con %d permisos de la plantilla %s (id %d)", copiados, plantilla.Login, plantilla.ID)
	}
	s.audit.Registrar(ctx, actor, ModuloCAS, "crear_usuario", desc)

	resp := usuarioCASToResponse(user)
	return &resp, nil
}

func (s *casService) ReplicarPermisos(ctx context.Context, actor dto.Actor, req dto.ReplicarPermisosRequest) (*dto.ReplicarPermisosResponse, error) {
	if req.OrigenID == req.DestinoID {
		return nil, fmt.Errorf("origen y destino son el mismo usuario: %w", apierror.ErrInvalido)
	}
	origen, err := s.buscar(ctx, req.OrigenID)
	if err != nil {
		return nil, err
	}
	destino, err := s.buscar(ctx, req.DestinoID)
	if err != nil {
		return nil, err
	}

	var copiados int
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if _, err := s.repo.DeletePermisosTx(tx, destino.ID); err != nil {
			return err
		}
		n, err := s.copiarPermisos(tx, origen.ID, destino.ID)
		copiados = n
		return err
	})
	if err != nil {
		return nil, err
	}

	s.audit.Registrar(ctx, actor, ModuloCAS, "replicar_permisos",
		fmt.Sprintf("Replico %d permisos de %s (id %d) a %s (id %d)",
			copiados, origen.Login, origen.ID, destino.Login, destino.ID))

	return &dto.ReplicarPermisosResponse{OrigenID: origen.ID, DestinoID: destino.ID, Copiados: copiados}, nil
}

func (s *casService) ActualizarPermiso(ctx context.Context, actor dto.Actor, usuarioID int, req dto.PermisoRequest) (*dto.PermisoResponse, error) {
	user, err := s.buscar(ctx, usuarioID)
	if err != nil {
		return nil, err
	}
	p := &model.PermisoCAS{
		UsuarioID: user.ID,
		MenuID:    req.MenuID,
		Ver:       req.Ver,
		Crear:     req.Crear,
		Editar:    req.Editar,
		Eliminar:  req.Eliminar,
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpsertPermisoTx(tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Registrar(ctx, actor, ModuloCAS, "actualizar_permiso",
		fmt.Sprintf("Permiso menu %d de %s (id %d): ver=%t crear=%t editar=%t eliminar=%t",
			p.MenuID, user.Login, user.ID, p.Ver, p.Crear, p.Editar, p.Eliminar))

	resp := permisoToResponse(p)
	return &resp, nil
}

func (s *casService) EliminarUsuario(ctx context.Context, actor dto.Actor, id int) error {
	user, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}
	var permisos int64
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.DeletePermisosTx(tx, user.ID)
		if err != nil {
			return err
		}
		permisos = n
		affected, err := s.repo.DeleteUsuarioTx(tx, user.ID)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("usuario CAS %d: %w", id, apierror.ErrNoEncontrado)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.audit.Registrar(ctx, actor, ModuloCAS, "eliminar_usuario",
		fmt.Sprintf("Elimino usuario CAS %s (id %d) y %d permisos", user.Login, user.ID, permisos))
	return nil
}

func (s *casService) copiarPermisos(tx *gorm.DB, origenID, destinoID int) (int, error) {
	origen, err := s.repo.ListPermisosTx(tx, origenID)
	if err != nil {
		return 0, err
	}
	if len(origen) == 0 {
		return 0, nil
	}
	copias := make([]model.PermisoCAS, len(origen))
	for i, p := range origen {
		copias[i] = model.PermisoCAS{
			UsuarioID: destinoID,
			MenuID:    p.MenuID,
			Ver:       p.Ver,
			Crear:     p.Crear,
			Editar:    p.Editar,
			Eliminar:  p.Eliminar,
		}
	}
	if err := s.repo.CreatePermisosTx(tx, copias); err != nil {
		return 0, err
	}
	return len(copias), nil
}

func (s *casService) buscar(ctx context.Context, id int) (*model.UsuarioCAS, error) {
	u, err := s.repo.FindUsuarioByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("usuario CAS %d: %w", id, apierror.ErrNoEncontrado)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func usuarioCASToResponse(u *model.UsuarioCAS) dto.UsuarioCASResponse {
	return dto.UsuarioCASResponse{ID: u.ID, Login: u.Login, Nombre: u.Nombre, Rut: u.Rut, Activo: u.Activo}
}

func permisoToResponse(p *model.PermisoCAS) dto.PermisoResponse {
	return dto.PermisoResponse{MenuID: p.MenuID, Ver: p.Ver, Crear: p.Crear, Editar: p.Editar, Eliminar: p.Eliminar}
}
