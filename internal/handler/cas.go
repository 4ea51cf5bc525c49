package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type CASHandler struct{ svc service.CASService }

func NewCASHandler(svc service.CASService) *CASHandler { return &CASHandler{svc: svc} }

func (h *CASHandler) ListarUsuarios(c *gin.Context) {
	var filter dto.UsuarioCASFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearUsuario godoc
// @Summary Crea una cuenta CAS, opcionalmente copiando permisos de una plantilla
// @Tags cas
// @Accept json
// @Produce json
// @Param body body dto.CrearUsuarioCASRequest true "Cuenta"
// @Success 201 {object} dto.UsuarioCASResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/cas/usuarios [post]
func (h *CASHandler) CrearUsuario(c *gin.Context) {
	var req dto.CrearUsuarioCASRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearUsuario(c.Request.Context(), actor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CASHandler) EliminarUsuario(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	if err := h.svc.EliminarUsuario(c.Request.Context(), actor(c), id); err != nil {
		responderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CASHandler) ObtenerPermisos(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPermisos(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CASHandler) ActualizarPermiso(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var req dto.PermisoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ActualizarPermiso(c.Request.Context(), actor(c), id, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ReplicarPermisos godoc
// @Summary Reemplaza los permisos del destino por una copia de los del origen
// @Tags cas
// @Accept json
// @Produce json
// @Param body body dto.ReplicarPermisosRequest true "Origen y destino"
// @Success 200 {object} dto.ReplicarPermisosResponse
// @Router /v1/cas/permisos/replicar [post]
func (h *CASHandler) ReplicarPermisos(c *gin.Context) {
	var req dto.ReplicarPermisosRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReplicarPermisos(c.Request.Context(), actor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
