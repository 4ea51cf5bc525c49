package service

import (
	"context"
	"testing"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestCrearUsuarioCAS_ConPlantilla(t *testing.T) {
	repo := newFakeCASRepo()
	plantilla := repo.addUsuario("plantilla",
		model.PermisoCAS{MenuID: 1, Ver: true},
		model.PermisoCAS{MenuID: 2, Ver: true, Editar: true},
	)
	audit := &fakeAudit{}
	svc := NewCASService(repo, audit)

	resp, err := svc.CrearUsuario(context.Background(), admin, dto.CrearUsuarioCASRequest{
		Login: "jsoto", Nombre: "Juana Soto", Rut: "12.345.678-5", Clave: "secreta123",
		PlantillaID: &plantilla.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, "12345678-5", resp.Rut)
	assert.True(t, resp.Activo)

	permisos, err := svc.ObtenerPermisos(context.Background(), resp.ID)
	require.NoError(t, err)
	require.Len(t, permisos, 2)
	assert.True(t, permisos[1].Editar)

	stored := repo.usuarios[resp.ID]
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Clave), []byte("secreta123")))

	require.Len(t, audit.registros, 1)
	assert.Equal(t, "crear_usuario", audit.registros[0].accion)
	assert.Contains(t, audit.registros[0].descripcion, "2 permisos de la plantilla plantilla")
}

func TestCrearUsuarioCAS_LoginDuplicado(t *testing.T) {
	repo := newFakeCASRepo()
	repo.addUsuario("jsoto")
	svc := NewCASService(repo, &fakeAudit{})

	_, err := svc.CrearUsuario(context.Background(), admin, dto.CrearUsuarioCASRequest{
		Login: "jsoto", Nombre: "Otra", Clave: "secreta123",
	})

	assert.ErrorIs(t, err, apierror.ErrConflicto)
}

func TestCrearUsuarioCAS_PlantillaInexistente(t *testing.T) {
	svc := NewCASService(newFakeCASRepo(), &fakeAudit{})
	id := 77

	_, err := svc.CrearUsuario(context.Background(), admin, dto.CrearUsuarioCASRequest{
		Login: "jsoto", Nombre: "Juana", Clave: "secreta123", PlantillaID: &id,
	})

	assert.ErrorIs(t, err, apierror.ErrNoEncontrado)
}

func TestReplicarPermisos_ReemplazaDestino(t *testing.T) {
	repo := newFakeCASRepo()
	origen := repo.addUsuario("origen",
		model.PermisoCAS{MenuID: 1, Ver: true},
		model.PermisoCAS{MenuID: 3, Ver: true, Crear: true},
	)
	destino := repo.addUsuario("destino",
		model.PermisoCAS{MenuID: 9, Ver: true, Eliminar: true},
	)
	audit := &fakeAudit{}
	svc := NewCASService(repo, audit)

	resp, err := svc.ReplicarPermisos(context.Background(), admin, dto.ReplicarPermisosRequest{
		OrigenID: origen.ID, DestinoID: destino.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Copiados)

	permisos, _ := repo.ListPermisos(context.Background(), destino.ID)
	require.Len(t, permisos, 2)
	assert.Equal(t, 1, permisos[0].MenuID)
	assert.Equal(t, 3, permisos[1].MenuID)

	// origin untouched
	orig, _ := repo.ListPermisos(context.Background(), origen.ID)
	assert.Len(t, orig, 2)
	assert.Equal(t, "replicar_permisos", audit.registros[0].accion)
}

func TestReplicarPermisos_OrigenVacioDejaDestinoSinPermisos(t *testing.T) {
	repo := newFakeCASRepo()
	origen := repo.addUsuario("origen")
	destino := repo.addUsuario("destino", model.PermisoCAS{MenuID: 1, Ver: true})
	svc := NewCASService(repo, &fakeAudit{})

	resp, err := svc.ReplicarPermisos(context.Background(), admin, dto.ReplicarPermisosRequest{
		OrigenID: origen.ID, DestinoID: destino.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Copiados)
	permisos, _ := repo.ListPermisos(context.Background(), destino.ID)
	assert.Empty(t, permisos)
}

func TestReplicarPermisos_MismoUsuario(t *testing.T) {
	repo := newFakeCASRepo()
	u := repo.addUsuario("uno", model.PermisoCAS{MenuID: 1, Ver: true})
	svc := NewCASService(repo, &fakeAudit{})

	_, err := svc.ReplicarPermisos(context.Background(), admin, dto.ReplicarPermisosRequest{
		OrigenID: u.ID, DestinoID: u.ID,
	})

	assert.ErrorIs(t, err, apierror.ErrInvalido)
	assert.Len(t, repo.permisos, 1)
}

func TestActualizarPermiso_Upsert(t *testing.T) {
	repo := newFakeCASRepo()
	u := repo.addUsuario("uno", model.PermisoCAS{MenuID: 1, Ver: true})
	svc := NewCASService(repo, &fakeAudit{})
	ctx := context.Background()

	_, err := svc.ActualizarPermiso(ctx, admin, u.ID, dto.PermisoRequest{MenuID: 1, Ver: true, Editar: true})
	require.NoError(t, err)
	_, err = svc.ActualizarPermiso(ctx, admin, u.ID, dto.PermisoRequest{MenuID: 4, Ver: true})
	require.NoError(t, err)

	permisos, _ := repo.ListPermisos(ctx, u.ID)
	require.Len(t, permisos, 2)
	assert.True(t, permisos[0].Editar)
	assert.Equal(t, 4, permisos[1].MenuID)
}

func TestEliminarUsuarioCAS(t *testing.T) {
	repo := newFakeCASRepo()
	u := repo.addUsuario("uno", model.PermisoCAS{MenuID: 1}, model.PermisoCAS{MenuID: 2})
	otro := repo.addUsuario("otro", model.PermisoCAS{MenuID: 1})
	audit := &fakeAudit{}
	svc := NewCASService(repo, audit)

	require.NoError(t, svc.EliminarUsuario(context.Background(), admin, u.ID))

	assert.NotContains(t, repo.usuarios, u.ID)
	assert.Len(t, repo.permisos, 1)
	assert.Equal(t, otro.ID, repo.permisos[0].UsuarioID)
	assert.Contains(t, audit.registros[0].descripcion, "2 permisos")
}
