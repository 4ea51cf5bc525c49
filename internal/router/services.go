package router

import (
	"aplicas/internal/config"
	"aplicas/internal/infra"
	"aplicas/internal/repository"
	"aplicas/internal/service"
	"aplicas/internal/worker"
)

// Services is the service layer wired against the municipal databases.
// It is shared by the HTTP router, the cron job and aplicasctl.
type Services struct {
	Auth          service.AuthService
	Auditoria     service.AuditoriaService
	Usuarios      service.UsuarioService
	Titulares     service.TitularService
	Tesoreria     service.TesoreriaService
	Decretos      service.DecretoService
	CAS           service.CASService
	Transparencia service.TransparenciaService
}

// NewServices builds every service. notificador may be nil (no email).
func NewServices(cfg *config.Config, dbs *infra.Databases, notificador service.Notificador) *Services {
	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(dbs.App)
	titularRepo := repository.NewTitularRepository(dbs.App)
	auditoriaRepo := repository.NewAuditoriaRepository(dbs.App)
	pagoRepo := repository.NewPagoRepository(dbs.Tesoreria)
	decretoRepo := repository.NewDecretoRepository(dbs.Finanzas)
	casRepo := repository.NewCASRepository(dbs.CAS)

	// ── Services ─────────────────────────────────────────────────────────────
	auditSvc := service.NewAuditoriaService(auditoriaRepo)
	authSvc := service.NewAuthService(usuarioRepo, auditSvc, cfg)

	return &Services{
		Auth:          authSvc,
		Auditoria:     auditSvc,
		Usuarios:      service.NewUsuarioService(usuarioRepo, auditSvc, notificador, authSvc),
		Titulares:     service.NewTitularService(titularRepo, usuarioRepo, auditSvc),
		Tesoreria:     service.NewTesoreriaService(pagoRepo, auditSvc),
		Decretos:      service.NewDecretoService(decretoRepo, auditSvc),
		CAS:           service.NewCASService(casRepo, auditSvc),
		Transparencia: service.NewTransparenciaService(decretoRepo, titularRepo, auditSvc, cfg.Municipalidad),
	}
}

var _ service.Notificador = (*worker.Dispatcher)(nil)
