package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"aplicas/internal/acceso"
	"aplicas/internal/apierror"
	"aplicas/internal/config"
	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrCredenciales is returned for any failed login, whatever the cause.
var ErrCredenciales = errors.New("credenciales invalidas")

// sesionTTL bounds how long a deactivated user or a role change can go
// unnoticed by requests carrying an older token.
const sesionTTL = time.Minute

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, actor dto.Actor)
	Perfil(ctx context.Context, actor dto.Actor) (*dto.SesionResponse, error)
	// ValidarSesion reloads the user behind a token, served from a short-lived
	// cache. Inactive or deleted users are rejected.
	ValidarSesion(ctx context.Context, usuarioID int) (*dto.Actor, error)
	InvalidarSesion(usuarioID int)
}

type authService struct {
	repo     repository.UsuarioRepository
	audit    AuditoriaService
	cfg      *config.Config
	sesiones *cache.Cache
}

func NewAuthService(repo repository.UsuarioRepository, audit AuditoriaService, cfg *config.Config) AuthService {
	return &authService{
		repo:     repo,
		audit:    audit,
		cfg:      cfg,
		sesiones: cache.New(sesionTTL, 5*time.Minute),
	}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.repo.FindByUsuario(ctx, req.Usuario)
	if err != nil || !user.Activo {
		return nil, ErrCredenciales
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Clave), []byte(req.Clave)); err != nil {
		return nil, ErrCredenciales
	}

	actor := actorDe(user)
	token, err := s.generateToken(actor, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	s.sesiones.SetDefault(strconv.Itoa(user.ID), &actor)
	s.audit.Registrar(ctx, actor, ModuloAuth, "login", fmt.Sprintf("Inicio de sesion de %s", user.Usuario))

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   s.cfg.JWTExpirationHours * 3600,
		Perfil: dto.SesionResponse{
			ID:      user.ID,
			Nombre:  user.Nombre,
			Usuario: user.Usuario,
			Rol:     actor.Rol,
			Rutas:   acceso.Rutas(actor.Rol),
		},
	}, nil
}

func (s *authService) Logout(ctx context.Context, actor dto.Actor) {
	s.InvalidarSesion(actor.ID)
	s.audit.Registrar(ctx, actor, ModuloAuth, "logout", fmt.Sprintf("Cierre de sesion de %s", actor.Usuario))
}

func (s *authService) Perfil(ctx context.Context, actor dto.Actor) (*dto.SesionResponse, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("usuario %d: %w", actor.ID, apierror.ErrNoEncontrado)
	}
	if err != nil {
		return nil, err
	}
	rol := actorDe(user).Rol
	return &dto.SesionResponse{
		ID:      user.ID,
		Nombre:  user.Nombre,
		Usuario: user.Usuario,
		Rol:     rol,
		Rutas:   acceso.Rutas(rol),
	}, nil
}

func (s *authService) ValidarSesion(ctx context.Context, usuarioID int) (*dto.Actor, error) {
	key := strconv.Itoa(usuarioID)
	if v, ok := s.sesiones.Get(key); ok {
		return v.(*dto.Actor), nil
	}
	user, err := s.repo.FindByID(ctx, usuarioID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("sesion: %w", apierror.ErrProhibido)
	}
	if err != nil {
		return nil, err
	}
	if !user.Activo {
		return nil, fmt.Errorf("sesion: usuario inactivo: %w", apierror.ErrProhibido)
	}
	actor := actorDe(user)
	s.sesiones.SetDefault(key, &actor)
	return &actor, nil
}

func (s *authService) InvalidarSesion(usuarioID int) {
	s.sesiones.Delete(strconv.Itoa(usuarioID))
}

func (s *authService) generateToken(actor dto.Actor, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": actor.ID,
		"usuario": actor.Usuario,
		"rol":     actor.Rol,
		"exp":     time.Now().Add(duration).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func actorDe(u *model.Usuario) dto.Actor {
	actor := dto.Actor{ID: u.ID, Usuario: u.Usuario}
	if u.Rol != nil {
		actor.Rol = u.Rol.Nombre
	}
	return actor
}
