package repository

import (
	"context"
	"testing"

	"aplicas/internal/dto"
	"aplicas/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUsuarioRepo_CRUD(t *testing.T) {
	db := openTestDB(t, &model.Rol{}, &model.Usuario{})
	repo := NewUsuarioRepository(db)
	ctx := context.Background()
	rol := &model.Rol{Nombre: "tesoreria"}
	require.NoError(t, db.Create(rol).Error)

	u := &model.Usuario{Nombre: "Pedro Rojas", Usuario: "projas", Clave: "hash", RolID: rol.ID, Activo: true}
	require.NoError(t, repo.CreateTx(db, u))
	assert.NotZero(t, u.ID)

	dup := &model.Usuario{Nombre: "Otro", Usuario: "projas", Clave: "hash", RolID: rol.ID}
	assert.ErrorIs(t, repo.CreateTx(db, dup), gorm.ErrDuplicatedKey)

	got, err := repo.FindByUsuario(ctx, "projas")
	require.NoError(t, err)
	require.NotNil(t, got.Rol)
	assert.Equal(t, "tesoreria", got.Rol.Nombre)

	got.Activo = false
	require.NoError(t, repo.UpdateTx(db, got))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.Activo)

	list, total, err := repo.List(ctx, dto.UsuarioFilter{Busqueda: "Rojas", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "tesoreria", list[0].Rol.Nombre)

	n, err := repo.DeleteTx(db, u.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	_, err = repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
