package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type AuditoriaHandler struct{ svc service.AuditoriaService }

func NewAuditoriaHandler(svc service.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

// Listar godoc
// @Summary Registro de auditoria, mas reciente primero
// @Tags auditoria
// @Produce json
// @Param usuario query string false "Usuario"
// @Param modulo query string false "Modulo"
// @Param accion query string false "Accion"
// @Param desde query string false "Desde (YYYY-MM-DD)"
// @Param hasta query string false "Hasta inclusive (YYYY-MM-DD)"
// @Success 200 {object} dto.AuditoriaListResponse
// @Router /v1/auditoria [get]
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	var filter dto.AuditoriaFilter
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
