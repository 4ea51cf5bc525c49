package worker

// transparencia_cron.go
// Writes the previous month's transparency files (CSV and PDF) on the
// TRANSPARENCIA_CRON schedule, and optionally mails them.

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// GeneradorTransparencia writes the report files of a month into dir and
// returns their paths.
type GeneradorTransparencia interface {
	GenerarArchivos(ctx context.Context, anio, mes int, dir string) ([]string, error)
}

// TransparenciaCronConfig holds the dependencies of the scheduled export.
type TransparenciaCronConfig struct {
	Schedule   string
	Dir        string
	Generador  GeneradorTransparencia
	Dispatcher *Dispatcher // nil disables the email
	NotificarA string
}

// TransparenciaCron is a running scheduled export.
type TransparenciaCron struct {
	c    *cron.Cron
	done chan struct{}
}

// StartTransparenciaCron registers the job and starts the scheduler. The
// scheduler stops when ctx is cancelled; Wait reports when it has.
func StartTransparenciaCron(ctx context.Context, cfg TransparenciaCronConfig) (*TransparenciaCron, error) {
	c := cron.New()
	_, err := c.AddFunc(cfg.Schedule, func() { runTransparencia(ctx, cfg, time.Now()) })
	if err != nil {
		return nil, fmt.Errorf("transparencia cron %q: %w", cfg.Schedule, err)
	}
	c.Start()
	log.Info().Str("schedule", cfg.Schedule).Msg("transparencia_cron: started")

	tc := &TransparenciaCron{c: c, done: make(chan struct{})}
	go func() {
		<-ctx.Done()
		// Stop returns once the export in progress, if any, has finished.
		<-c.Stop().Done()
		log.Info().Msg("transparencia_cron: stopped")
		close(tc.done)
	}()
	return tc, nil
}

// Entries lists the scheduled jobs.
func (t *TransparenciaCron) Entries() []cron.Entry { return t.c.Entries() }

// Wait blocks until the scheduler has stopped and no export is running.
func (t *TransparenciaCron) Wait() { <-t.done }

// mesAnterior returns the year and month before now.
func mesAnterior(now time.Time) (int, int) {
	prev := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}

func runTransparencia(ctx context.Context, cfg TransparenciaCronConfig, now time.Time) {
	anio, mes := mesAnterior(now)
	archivos, err := cfg.Generador.GenerarArchivos(ctx, anio, mes, cfg.Dir)
	if err != nil {
		log.Error().Err(err).Int("anio", anio).Int("mes", mes).Msg("transparencia_cron: export failed")
		return
	}
	log.Info().Int("anio", anio).Int("mes", mes).Strs("archivos", archivos).Msg("transparencia_cron: export written")

	if cfg.Dispatcher == nil || cfg.NotificarA == "" {
		return
	}
	job := EmailJobPayload{
		To:       cfg.NotificarA,
		Subject:  fmt.Sprintf("Transparencia %02d/%d", mes, anio),
		Body:     fmt.Sprintf("Se adjuntan los archivos de transparencia activa de %02d/%d.\n", mes, anio),
		Adjuntos: archivos,
	}
	if err := cfg.Dispatcher.EnqueueEmail(ctx, job); err != nil {
		log.Warn().Err(err).Msg("transparencia_cron: failed to enqueue email")
	}
}
