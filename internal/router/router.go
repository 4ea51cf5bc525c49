package router

import (
	"context"
	"time"

	"aplicas/internal/acceso"
	"aplicas/internal/config"
	"aplicas/internal/handler"
	"aplicas/internal/infra"
	"aplicas/internal/middleware"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

// Deps are the process-level dependencies built in main.
type Deps struct {
	Config   *config.Config
	DBs      *infra.Databases
	Redis    *redis.Client
	Services *Services
	Registry *prometheus.Registry
}

// New returns the configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(d Deps) *gin.Engine {
	cfg := d.Config
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	metrics := middleware.NewMetrics(d.Registry)
	rateStore := middleware.NewRedisRateStore(d.Redis)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(metrics.Handler())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(rateStore, "api", 600, time.Minute))

	s := d.Services

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(s.Auth, cfg.CookieSecure)
	usuariosH := handler.NewUsuariosHandler(s.Usuarios)
	titularesH := handler.NewTitularesHandler(s.Titulares)
	tesoreriaH := handler.NewTesoreriaHandler(s.Tesoreria)
	decretosH := handler.NewDecretosHandler(s.Decretos)
	casH := handler.NewCASHandler(s.CAS)
	transparenciaH := handler.NewTransparenciaHandler(s.Transparencia)
	auditoriaH := handler.NewAuditoriaHandler(s.Auditoria)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(d.DBs.Named(), func(ctx context.Context) error {
		return d.Redis.Ping(ctx).Err()
	}))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{})))

	r.POST("/v1/auth/login", middleware.RateLimiter(rateStore, "login", cfg.LoginRateLimit, time.Minute), authH.Login)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret, s.Auth))
	{
		v1.POST("/auth/logout", authH.Logout)
		v1.GET("/auth/me", authH.Me)

		usuarios := v1.Group("", middleware.RequireAccess(acceso.RutaUsuarios))
		{
			usuarios.GET("/usuarios", usuariosH.Listar)
			usuarios.POST("/usuarios", usuariosH.Crear)
			usuarios.GET("/usuarios/:id", usuariosH.Obtener)
			usuarios.PUT("/usuarios/:id", usuariosH.Actualizar)
			usuarios.DELETE("/usuarios/:id", usuariosH.Eliminar)
			usuarios.PATCH("/usuarios/:id/clave", usuariosH.CambiarClave)
			usuarios.GET("/roles", usuariosH.ListarRoles)
		}

		titulares := v1.Group("/titulares", middleware.RequireAccess(acceso.RutaTitulares))
		{
			titulares.GET("", titularesH.Listar)
			titulares.GET("/:rol_id", titularesH.ObtenerPorRol)
			titulares.PUT("/:rol_id", titularesH.Reemplazar)
		}

		tesoreria := v1.Group("/tesoreria", middleware.RequireAccess(acceso.RutaTesoreria))
		{
			tesoreria.GET("/pagos", tesoreriaH.BuscarPagos)
			tesoreria.POST("/pagos/reversa", tesoreriaH.Reversar)
		}

		decretos := v1.Group("/decretos", middleware.RequireAccess(acceso.RutaDecretos))
		{
			decretos.GET("", decretosH.Listar)
			decretos.GET("/:anio/:numero", decretosH.Buscar)
			decretos.GET("/:anio/:numero/historial", decretosH.Historial)
			decretos.POST("/:anio/:numero/liberar", decretosH.Liberar)
			decretos.POST("/:anio/:numero/regularizar", decretosH.Regularizar)
		}

		cas := v1.Group("/cas", middleware.RequireAccess(acceso.RutaCAS))
		{
			cas.GET("/usuarios", casH.ListarUsuarios)
			cas.POST("/usuarios", casH.CrearUsuario)
			cas.DELETE("/usuarios/:id", casH.EliminarUsuario)
			cas.GET("/usuarios/:id/permisos", casH.ObtenerPermisos)
			cas.PUT("/usuarios/:id/permisos", casH.ActualizarPermiso)
			cas.POST("/permisos/replicar", casH.ReplicarPermisos)
		}

		transp := v1.Group("/transparencia", middleware.RequireAccess(acceso.RutaTransparencia))
		{
			transp.GET("", transparenciaH.Reporte)
			transp.GET("/export.csv", transparenciaH.ExportarCSV)
			transp.GET("/export.pdf", transparenciaH.ExportarPDF)
		}

		v1.GET("/auditoria", middleware.RequireAccess(acceso.RutaAuditoria), auditoriaH.Listar)
	}

	// Swagger UI, only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
