package service

import (
	"context"
	"errors"
	"fmt"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"
	"aplicas/internal/worker"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcryptCost is lowered by tests.
var bcryptCost = 12

// Notificador enqueues outgoing email. *worker.Dispatcher implements it.
type Notificador interface {
	EnqueueEmail(ctx context.Context, payload interface{}) error
}

// SesionInvalidator drops cached sessions after a user changes.
type SesionInvalidator interface {
	InvalidarSesion(usuarioID int)
}

type UsuarioService interface {
	Listar(ctx context.Context, filter dto.UsuarioFilter) (*dto.UsuarioListResponse, error)
	Obtener(ctx context.Context, id int) (*dto.UsuarioResponse, error)
	ListarRoles(ctx context.Context) ([]dto.RolResponse, error)
	Crear(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, actor dto.Actor, id int, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error)
	CambiarClave(ctx context.Context, actor dto.Actor, id int, req dto.CambiarClaveRequest) error
	Eliminar(ctx context.Context, actor dto.Actor, id int) error
}

type usuarioService struct {
	repo        repository.UsuarioRepository
	audit       AuditoriaService
	notificador Notificador
	sesiones    SesionInvalidator
}

func NewUsuarioService(
	repo repository.UsuarioRepository,
	audit AuditoriaService,
	notificador Notificador,
	sesiones SesionInvalidator,
) UsuarioService {
	return &usuarioService{repo: repo, audit: audit, notificador: notificador, sesiones: sesiones}
}

func (s *usuarioService) Listar(ctx context.Context, filter dto.UsuarioFilter) (*dto.UsuarioListResponse, error) {
	users, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.UsuarioListResponse{
		Data:  make([]dto.UsuarioResponse, len(users)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range users {
		resp.Data[i] = usuarioToResponse(&users[i])
	}
	return resp, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id int) (*dto.UsuarioResponse, error) {
	u, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := usuarioToResponse(u)
	return &resp, nil
}

func (s *usuarioService) ListarRoles(ctx context.Context) ([]dto.RolResponse, error) {
	roles, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.RolResponse, len(roles))
	for i, r := range roles {
		resp[i] = dto.RolResponse{ID: r.ID, Nombre: r.Nombre}
	}
	return resp, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *usuarioService) Crear(ctx context.Context, actor dto.Actor, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	rol, err := s.buscarRol(ctx, req.RolID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByUsuario(ctx, req.Usuario); err == nil {
		return nil, fmt.Errorf("usuario %q: %w", req.Usuario, apierror.ErrConflicto)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Clave), bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &model.Usuario{
		Nombre:  req.Nombre,
		Usuario: req.Usuario,
		Correo:  req.Correo,
		Clave:   string(hash),
		RolID:   rol.ID,
		Activo:  true,
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("usuario %q: %w", req.Usuario, apierror.ErrConflicto)
			}
			return err
		}
		return s.audit.RegistrarTx(tx, actor, ModuloUsuarios, "crear",
			fmt.Sprintf("Creo usuario %s (id %d, rol %s)", user.Usuario, user.ID, rol.Nombre))
	})
	if err != nil {
		return nil, err
	}
	user.Rol = rol

	if user.Correo != nil && *user.Correo != "" && s.notificador != nil {
		job := worker.EmailJobPayload{
			To:      *user.Correo,
			Subject: "Cuenta ApliCAS creada",
			Body: fmt.Sprintf("Hola %s,\n\nSe ha creado tu cuenta en ApliCAS con el usuario %q y perfil %s.\n",
				user.Nombre, user.Usuario, rol.Nombre),
		}
		if err := s.notificador.EnqueueEmail(ctx, job); err != nil {
			log.Warn().Err(err).Int("usuario_id", user.ID).Msg("usuarios: failed to enqueue welcome email")
		}
	}

	resp := usuarioToResponse(user)
	return &resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────

func (s *usuarioService) Actualizar(ctx context.Context, actor dto.Actor, id int, req dto.ActualizarUsuarioRequest) (*dto.UsuarioResponse, error) {
	user, err := s.buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != "" {
		user.Nombre = req.Nombre
	}
	if req.Correo != nil {
		user.Correo = req.Correo
	}
	if req.RolID != nil && *req.RolID != user.RolID {
		rol, err := s.buscarRol(ctx, *req.RolID)
		if err != nil {
			return nil, err
		}
		user.RolID = rol.ID
		user.Rol = rol
	}
	if req.Activo != nil {
		if !*req.Activo && actor.ID == id {
			return nil, fmt.Errorf("no puede desactivar su propia cuenta: %w", apierror.ErrProhibido)
		}
		user.Activo = *req.Activo
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, user); err != nil {
			return err
		}
		return s.audit.RegistrarTx(tx, actor, ModuloUsuarios, "actualizar",
			fmt.Sprintf("Actualizo usuario %s (id %d)", user.Usuario, user.ID))
	})
	if err != nil {
		return nil, err
	}
	s.invalidar(id)
	resp := usuarioToResponse(user)
	return &resp, nil
}

func (s *usuarioService) CambiarClave(ctx context.Context, actor dto.Actor, id int, req dto.CambiarClaveRequest) error {
	user, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Clave), bcryptCost)
	if err != nil {
		return err
	}
	user.Clave = string(hash)
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, user); err != nil {
			return err
		}
		return s.audit.RegistrarTx(tx, actor, ModuloUsuarios, "cambiar_clave",
			fmt.Sprintf("Cambio clave del usuario %s (id %d)", user.Usuario, user.ID))
	})
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

func (s *usuarioService) Eliminar(ctx context.Context, actor dto.Actor, id int) error {
	if actor.ID == id {
		return fmt.Errorf("no puede eliminar su propia cuenta: %w", apierror.ErrProhibido)
	}
	user, err := s.buscar(ctx, id)
	if err != nil {
		return err
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		n, err := s.repo.DeleteTx(tx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("usuario %d: %w", id, apierror.ErrNoEncontrado)
		}
		return s.audit.RegistrarTx(tx, actor, ModuloUsuarios, "eliminar",
			fmt.Sprintf("Elimino usuario %s (id %d)", user.Usuario, user.ID))
	})
	if err != nil {
		return err
	}
	s.invalidar(id)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *usuarioService) buscar(ctx context.Context, id int) (*model.Usuario, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("usuario %d: %w", id, apierror.ErrNoEncontrado)
	}
	return u, err
}

func (s *usuarioService) buscarRol(ctx context.Context, id int) (*model.Rol, error) {
	rol, err := s.repo.FindRolByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("rol %d no existe: %w", id, apierror.ErrInvalido)
	}
	return rol, err
}

func (s *usuarioService) invalidar(id int) {
	if s.sesiones != nil {
		s.sesiones.InvalidarSesion(id)
	}
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:       u.ID,
		Nombre:   u.Nombre,
		Usuario:  u.Usuario,
		Correo:   u.Correo,
		RolID:    u.RolID,
		Activo:   u.Activo,
		CreadoEn: u.CreadoEn.Format(formatoFechaHora),
	}
	if u.Rol != nil {
		resp.Rol = u.Rol.Nombre
	}
	return resp
}
