package service

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"aplicas/internal/acceso"
	"aplicas/internal/dto"
	"aplicas/internal/infra"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Archivo is a rendered export ready to be served or stored.
type Archivo struct {
	Nombre      string
	ContentType string
	Datos       []byte
}

type TransparenciaService interface {
	Reporte(ctx context.Context, filter dto.TransparenciaFilter) (*dto.TransparenciaResponse, error)
	ExportarCSV(ctx context.Context, actor dto.Actor, anio, mes int) (*Archivo, error)
	ExportarPDF(ctx context.Context, actor dto.Actor, anio, mes int) (*Archivo, error)
	// GenerarArchivos writes the CSV and PDF of a month into dir. Used by the
	// monthly cron and by aplicasctl.
	GenerarArchivos(ctx context.Context, anio, mes int, dir string) ([]string, error)
}

type transparenciaService struct {
	decretos      repository.DecretoRepository
	titulares     repository.TitularRepository
	audit         AuditoriaService
	municipalidad string
}

func NewTransparenciaService(
	decretos repository.DecretoRepository,
	titulares repository.TitularRepository,
	audit AuditoriaService,
	municipalidad string,
) TransparenciaService {
	return &transparenciaService{decretos: decretos, titulares: titulares, audit: audit, municipalidad: municipalidad}
}

func (s *transparenciaService) Reporte(ctx context.Context, filter dto.TransparenciaFilter) (*dto.TransparenciaResponse, error) {
	return s.reporte(ctx, filter.Anio, filter.Mes, filter.Page, filter.Limit)
}

// reporte loads one page of the period (limit <= 0 loads all of it) and the
// period total concurrently.
func (s *transparenciaService) reporte(ctx context.Context, anio, mes, page, limit int) (*dto.TransparenciaResponse, error) {
	desde := time.Date(anio, time.Month(mes), 1, 0, 0, 0, 0, time.Local)
	hasta := desde.AddDate(0, 1, 0)

	var (
		rows       []model.Decreto
		total      int64
		montoTotal decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, total, err = s.decretos.ListPorPeriodo(gctx, desde, hasta, page, limit)
		return err
	})
	g.Go(func() error {
		var err error
		montoTotal, err = s.decretos.SumMontoPorPeriodo(gctx, desde, hasta)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("transparencia %02d/%d: %w", mes, anio, err)
	}

	resp := &dto.TransparenciaResponse{
		Anio:       anio,
		Mes:        mes,
		Data:       make([]dto.TransparenciaItem, len(rows)),
		Total:      total,
		MontoTotal: montoTotal,
		Page:       page,
		Limit:      limit,
	}
	for i, d := range rows {
		resp.Data[i] = dto.TransparenciaItem{
			Numero:  d.Numero,
			Anio:    d.Anio,
			Fecha:   d.Fecha.Format(formatoFecha),
			Materia: d.Materia,
			Unidad:  d.Unidad,
			Monto:   d.Monto,
		}
	}
	return resp, nil
}

func (s *transparenciaService) ExportarCSV(ctx context.Context, actor dto.Actor, anio, mes int) (*Archivo, error) {
	a, total, err := s.renderCSV(ctx, anio, mes)
	if err != nil {
		return nil, err
	}
	s.audit.Registrar(ctx, actor, ModuloTransparencia, "exportar",
		fmt.Sprintf("Exporto CSV de transparencia %02d/%d (%d decretos)", mes, anio, total))
	return a, nil
}

func (s *transparenciaService) ExportarPDF(ctx context.Context, actor dto.Actor, anio, mes int) (*Archivo, error) {
	a, total, err := s.renderPDF(ctx, anio, mes)
	if err != nil {
		return nil, err
	}
	s.audit.Registrar(ctx, actor, ModuloTransparencia, "exportar",
		fmt.Sprintf("Exporto PDF de transparencia %02d/%d (%d decretos)", mes, anio, total))
	return a, nil
}

func (s *transparenciaService) GenerarArchivos(ctx context.Context, anio, mes int, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("transparencia: create dir: %w", err)
	}
	csvFile, total, err := s.renderCSV(ctx, anio, mes)
	if err != nil {
		return nil, err
	}
	pdfFile, _, err := s.renderPDF(ctx, anio, mes)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, a := range []*Archivo{csvFile, pdfFile} {
		p, err := escribirAtomico(dir, a)
		if err != nil {
			return paths, err
		}
		paths = append(paths, p)
	}
	s.audit.Registrar(ctx, ActorSistema, ModuloTransparencia, "exportar",
		fmt.Sprintf("Exportacion programada de transparencia %02d/%d (%d decretos) en %s", mes, anio, total, dir))
	return paths, nil
}

func (s *transparenciaService) renderCSV(ctx context.Context, anio, mes int) (*Archivo, int64, error) {
	r, err := s.reporte(ctx, anio, mes, 1, 0)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := infra.EscribirCSVTransparencia(&buf, r); err != nil {
		return nil, 0, err
	}
	return &Archivo{
		Nombre:      nombreArchivo(anio, mes, "csv"),
		ContentType: "text/csv; charset=utf-8",
		Datos:       buf.Bytes(),
	}, r.Total, nil
}

func (s *transparenciaService) renderPDF(ctx context.Context, anio, mes int) (*Archivo, int64, error) {
	r, err := s.reporte(ctx, anio, mes, 1, 0)
	if err != nil {
		return nil, 0, err
	}
	firmante, err := s.firmante(ctx)
	if err != nil {
		return nil, 0, err
	}
	var buf bytes.Buffer
	if err := infra.GenerarPDFTransparencia(&buf, s.municipalidad, r, firmante); err != nil {
		return nil, 0, err
	}
	return &Archivo{
		Nombre:      nombreArchivo(anio, mes, "pdf"),
		ContentType: "application/pdf",
		Datos:       buf.Bytes(),
	}, r.Total, nil
}

// firmante returns the titular of the mayor's office, or nil when none is set.
func (s *transparenciaService) firmante(ctx context.Context) (*infra.Firmante, error) {
	list, err := s.titulares.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range list {
		if t.Rol != nil && t.Rol.Nombre == acceso.RolAlcaldia {
			return &infra.Firmante{Nombre: t.Nombre, Cargo: t.Cargo}, nil
		}
	}
	return nil, nil
}

func nombreArchivo(anio, mes int, ext string) string {
	return fmt.Sprintf("transparencia_%d_%02d.%s", anio, mes, ext)
}

// escribirAtomico writes to a temp name and renames so readers never see a
// partial file.
func escribirAtomico(dir string, a *Archivo) (string, error) {
	final := filepath.Join(dir, a.Nombre)
	tmp := filepath.Join(dir, "."+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, a.Datos, 0o644); err != nil {
		return "", fmt.Errorf("transparencia: write %s: %w", a.Nombre, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("transparencia: rename %s: %w", a.Nombre, err)
	}
	return final, nil
}
