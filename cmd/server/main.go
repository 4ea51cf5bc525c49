package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aplicas/internal/config"
	"aplicas/internal/infra"
	"aplicas/internal/router"
	"aplicas/internal/worker"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	infra.SetupLogger(cfg.LogLevel, cfg.LogFile, cfg.IsProduction())
	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	dbs, err := infra.NewDatabases(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to databases")
	}
	defer dbs.Close()

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Workers ──────────────────────────────────────────────────────────────
	dispatcher := worker.NewDispatcher(rdb)
	smtpBreaker := infra.NewBreaker(infra.BreakerConfig{Name: "smtp"})
	pool := worker.NewPool(rdb, map[string]worker.JobHandler{
		worker.JobEmail: worker.NewEmailWorker(infra.NewMailer(cfg), smtpBreaker),
	})
	pool.Start(ctx, cfg.WorkerPoolSize)

	services := router.NewServices(cfg, dbs, dispatcher)

	var notificar *worker.Dispatcher
	if cfg.TransparenciaNotificar != "" {
		notificar = dispatcher
	}
	exportCron, err := worker.StartTransparenciaCron(ctx, worker.TransparenciaCronConfig{
		Schedule:   cfg.TransparenciaCron,
		Dir:        cfg.ExportStoragePath,
		Generador:  services.Transparencia,
		Dispatcher: notificar,
		NotificarA: cfg.TransparenciaNotificar,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to schedule transparencia export")
	}

	// ── HTTP ─────────────────────────────────────────────────────────────────
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := router.New(router.Deps{
		Config:   cfg,
		DBs:      dbs,
		Redis:    rdb,
		Services: services,
		Registry: reg,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ApliCAS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	cancel()
	// an export still running keeps using the databases closed on return
	exportCron.Wait()
	pool.Wait()
	log.Info().Msg("server exited")
}
