package handler

import (
	"errors"
	"net/http"

	"aplicas/internal/apierror"
	"aplicas/internal/dto"
	"aplicas/internal/middleware"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc          service.AuthService
	cookieSecure bool
}

func NewAuthHandler(svc service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{svc: svc, cookieSecure: cookieSecure}
}

// Login godoc
// @Summary Login de usuario
// @Description Sets the aplicas_session cookie and also returns the token for API clients.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciales"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrCredenciales) {
		c.JSON(http.StatusUnauthorized, apierror.New("Usuario o clave incorrectos"))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, resp.AccessToken, resp.ExpiresIn, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary Cierra la sesion
// @Tags auth
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), actor(c))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	c.Status(http.StatusNoContent)
}

// Me godoc
// @Summary Perfil de la sesion actual y rutas permitidas
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SesionResponse
// @Router /v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	resp, err := h.svc.Perfil(c.Request.Context(), actor(c))
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
