package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aplicas/internal/dto"
	"aplicas/internal/model"
	"aplicas/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeAuditoriaRepo struct {
	rows []model.Auditoria
	err  error
}

func (r *fakeAuditoriaRepo) Create(_ context.Context, a *model.Auditoria) error {
	return r.CreateTx(nil, a)
}

func (r *fakeAuditoriaRepo) CreateTx(_ *gorm.DB, a *model.Auditoria) error {
	if r.err != nil {
		return r.err
	}
	a.ID = int64(len(r.rows) + 1)
	a.Fecha = time.Date(2024, 6, 1, 9, 15, 0, 0, time.Local)
	r.rows = append(r.rows, *a)
	return nil
}

func (r *fakeAuditoriaRepo) List(_ context.Context, f dto.AuditoriaFilter) ([]model.Auditoria, int64, error) {
	var out []model.Auditoria
	for i := len(r.rows) - 1; i >= 0; i-- {
		if f.Modulo == "" || r.rows[i].Modulo == f.Modulo {
			out = append(out, r.rows[i])
		}
	}
	return out, int64(len(out)), nil
}

var _ repository.AuditoriaRepository = (*fakeAuditoriaRepo)(nil)

func TestRegistrar_TruncaDescripcion(t *testing.T) {
	repo := &fakeAuditoriaRepo{}
	svc := NewAuditoriaService(repo)

	svc.Registrar(context.Background(), admin, ModuloCAS, "crear_usuario", strings.Repeat("ñ", 1500))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, 1000, len([]rune(repo.rows[0].Descripcion)))
}

func TestRegistrar_ActorVacioEsSistema(t *testing.T) {
	repo := &fakeAuditoriaRepo{}
	svc := NewAuditoriaService(repo)

	svc.Registrar(context.Background(), dto.Actor{}, ModuloTransparencia, "exportar", "programada")

	require.Len(t, repo.rows, 1)
	assert.Equal(t, "sistema", repo.rows[0].Usuario)
}

func TestRegistrar_FalloNoPropaga(t *testing.T) {
	svc := NewAuditoriaService(&fakeAuditoriaRepo{err: errors.New("db caida")})

	assert.NotPanics(t, func() {
		svc.Registrar(context.Background(), admin, ModuloDecretos, "liberar", "x")
	})
}

func TestRegistrarTx_PropagaError(t *testing.T) {
	svc := NewAuditoriaService(&fakeAuditoriaRepo{err: errors.New("db caida")})

	err := svc.RegistrarTx(nil, admin, ModuloUsuarios, "crear", "x")

	assert.ErrorContains(t, err, "auditoria")
}

func TestListarAuditoria(t *testing.T) {
	repo := &fakeAuditoriaRepo{}
	svc := NewAuditoriaService(repo)
	ctx := context.Background()
	svc.Registrar(ctx, admin, ModuloDecretos, "liberar", "uno")
	svc.Registrar(ctx, admin, ModuloCAS, "crear_usuario", "dos")
	svc.Registrar(ctx, admin, ModuloDecretos, "regularizar", "tres")

	resp, err := svc.Listar(ctx, dto.AuditoriaFilter{Modulo: ModuloDecretos, Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, "regularizar", resp.Data[0].Accion)
	assert.Equal(t, "2024-06-01T09:15:00", resp.Data[0].Fecha)
}
