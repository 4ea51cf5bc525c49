package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type DecretosHandler struct{ svc service.DecretoService }

func NewDecretosHandler(svc service.DecretoService) *DecretosHandler {
	return &DecretosHandler{svc: svc}
}

func (h *DecretosHandler) Listar(c *gin.Context) {
	var filter dto.DecretoFilter
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

func (h *DecretosHandler) Buscar(c *gin.Context) {
	anio, numero, ok := claveDecreto(c)
	if !ok {
		return
	}
	resp, err := h.svc.Buscar(c.Request.Context(), numero, anio)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DecretosHandler) Historial(c *gin.Context) {
	anio, numero, ok := claveDecreto(c)
	if !ok {
		return
	}
	resp, err := h.svc.Historial(c.Request.Context(), numero, anio)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Liberar godoc
// @Summary Libera un decreto (SDF True -> False)
// @Description Returns cambiado=false when the decree was already liberated.
// @Tags decretos
// @Produce json
// @Param anio path int true "Anio"
// @Param numero path int true "Numero"
// @Success 200 {object} dto.TransicionResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/decretos/{anio}/{numero}/liberar [post]
func (h *DecretosHandler) Liberar(c *gin.Context) {
	anio, numero, ok := claveDecreto(c)
	if !ok {
		return
	}
	resp, err := h.svc.Liberar(c.Request.Context(), actor(c), numero, anio)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Regularizar godoc
// @Summary Regulariza un decreto (SDF False -> True)
// @Tags decretos
// @Produce json
// @Param anio path int true "Anio"
// @Param numero path int true "Numero"
// @Success 200 {object} dto.TransicionResponse
// @Router /v1/decretos/{anio}/{numero}/regularizar [post]
func (h *DecretosHandler) Regularizar(c *gin.Context) {
	anio, numero, ok := claveDecreto(c)
	if !ok {
		return
	}
	resp, err := h.svc.Regularizar(c.Request.Context(), actor(c), numero, anio)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func claveDecreto(c *gin.Context) (anio, numero int, ok bool) {
	if anio, ok = paramInt(c, "anio"); !ok {
		return
	}
	numero, ok = paramInt(c, "numero")
	return
}
