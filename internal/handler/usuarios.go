package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type UsuariosHandler struct{ svc service.UsuarioService }

func NewUsuariosHandler(svc service.UsuarioService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Listar godoc
// @Summary Lista usuarios de la aplicacion
// @Tags usuarios
// @Produce json
// @Param busqueda query string false "Nombre o usuario"
// @Param page query int false "Pagina"
// @Param limit query int false "Tamano de pagina"
// @Success 200 {object} dto.UsuarioListResponse
// @Router /v1/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	var filter dto.UsuarioFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) Obtener(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) ListarRoles(c *gin.Context) {
	resp, err := h.svc.ListarRoles(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Crea un usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Param body body dto.CrearUsuarioRequest true "Usuario"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/usuarios [post]
func (h *UsuariosHandler) Crear(c *gin.Context) {
	var req dto.CrearUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), actor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *UsuariosHandler) Actualizar(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), actor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UsuariosHandler) CambiarClave(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarClaveRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarClave(c.Request.Context(), actor(c), id, req); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary Elimina un usuario
// @Tags usuarios
// @Param id path int true "ID"
// @Success 204
// @Failure 403 {object} apierror.APIError "No puede eliminarse a si mismo"
// @Router /v1/usuarios/{id} [delete]
func (h *UsuariosHandler) Eliminar(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), actor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
