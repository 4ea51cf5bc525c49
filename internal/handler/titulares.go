package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type TitularesHandler struct{ svc service.TitularService }

func NewTitularesHandler(svc service.TitularService) *TitularesHandler {
	return &TitularesHandler{svc: svc}
}

func (h *TitularesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *TitularesHandler) ObtenerPorRol(c *gin.Context) {
	rolID, ok := paramInt(c, "rol_id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorRol(c.Request.Context(), rolID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reemplazar godoc
// @Summary Reemplaza el titular (firmante) de un rol
// @Tags titulares
// @Accept json
// @Produce json
// @Param rol_id path int true "Rol"
// @Param body body dto.ReemplazarTitularRequest true "Nuevo titular"
// @Success 200 {object} dto.TitularResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/titulares/{rol_id} [put]
func (h *TitularesHandler) Reemplazar(c *gin.Context) {
	rolID, ok := paramInt(c, "rol_id")
	if !ok {
		return
	}
	var req dto.ReemplazarTitularRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Reemplazar(c.Request.Context(), actor(c), rolID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
