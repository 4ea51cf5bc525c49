package service

import (
	"context"
	"testing"

	"aplicas/internal/apierror"
	"aplicas/internal/config"
	"aplicas/internal/dto"
	"aplicas/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret-for-unit-tests-only"

func newTestCfg() *config.Config {
	return &config.Config{JWTSecret: testSecret, JWTExpirationHours: 8}
}

func seedUsuario(t *testing.T, repo *fakeUsuarioRepo, usuario, clave string, rolID int, activo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(clave), bcrypt.MinCost)
	require.NoError(t, err)
	return repo.add(&model.Usuario{Usuario: usuario, Nombre: "Usuario " + usuario, Clave: string(hash), RolID: rolID, Activo: activo})
}

func TestLogin_Exitoso(t *testing.T) {
	repo := newFakeUsuarioRepo()
	u := seedUsuario(t, repo, "tesorero", "clave1234", 2, true)
	audit := &fakeAudit{}
	svc := NewAuthService(repo, audit, newTestCfg())

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "tesorero", Clave: "clave1234"})

	require.NoError(t, err)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "tesoreria", resp.Perfil.Rol)
	assert.Contains(t, resp.Perfil.Rutas, "/tesoreria")

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(resp.AccessToken, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	assert.EqualValues(t, u.ID, claims["user_id"])
	assert.Equal(t, "tesoreria", claims["rol"])

	require.Len(t, audit.registros, 1)
	assert.Equal(t, "login", audit.registros[0].accion)
}

func TestLogin_ClaveIncorrecta(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "tesorero", "clave1234", 2, true)
	svc := NewAuthService(repo, &fakeAudit{}, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "tesorero", Clave: "otra"})

	assert.ErrorIs(t, err, ErrCredenciales)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	repo := newFakeUsuarioRepo()
	seedUsuario(t, repo, "tesorero", "clave1234", 2, false)
	svc := NewAuthService(repo, &fakeAudit{}, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "tesorero", Clave: "clave1234"})

	assert.ErrorIs(t, err, ErrCredenciales)
}

func TestLogin_UsuarioInexistente(t *testing.T) {
	svc := NewAuthService(newFakeUsuarioRepo(), &fakeAudit{}, newTestCfg())

	_, err := svc.Login(context.Background(), dto.LoginRequest{Usuario: "nadie", Clave: "clave1234"})

	assert.ErrorIs(t, err, ErrCredenciales)
}

func TestValidarSesion_InactivoTrasInvalidar(t *testing.T) {
	repo := newFakeUsuarioRepo()
	u := seedUsuario(t, repo, "tesorero", "clave1234", 2, true)
	svc := NewAuthService(repo, &fakeAudit{}, newTestCfg())
	ctx := context.Background()

	actor, err := svc.ValidarSesion(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "tesoreria", actor.Rol)

	repo.usuarios[u.ID].Activo = false

	// still cached
	_, err = svc.ValidarSesion(ctx, u.ID)
	require.NoError(t, err)

	svc.InvalidarSesion(u.ID)
	_, err = svc.ValidarSesion(ctx, u.ID)
	assert.ErrorIs(t, err, apierror.ErrProhibido)
}

func TestValidarSesion_UsuarioEliminado(t *testing.T) {
	svc := NewAuthService(newFakeUsuarioRepo(), &fakeAudit{}, newTestCfg())

	_, err := svc.ValidarSesion(context.Background(), 5)

	assert.ErrorIs(t, err, apierror.ErrProhibido)
}

func TestLogout_InvalidaYAudita(t *testing.T) {
	repo := newFakeUsuarioRepo()
	u := seedUsuario(t, repo, "tesorero", "clave1234", 2, true)
	audit := &fakeAudit{}
	svc := NewAuthService(repo, audit, newTestCfg())
	ctx := context.Background()

	_, err := svc.ValidarSesion(ctx, u.ID)
	require.NoError(t, err)
	repo.usuarios[u.ID].Activo = false

	svc.Logout(ctx, dto.Actor{ID: u.ID, Usuario: "tesorero", Rol: "tesoreria"})

	_, err = svc.ValidarSesion(ctx, u.ID)
	assert.ErrorIs(t, err, apierror.ErrProhibido)
	require.Len(t, audit.registros, 1)
	assert.Equal(t, "logout", audit.registros[0].accion)
}
