package handler

import (
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type TesoreriaHandler struct{ svc service.TesoreriaService }

func NewTesoreriaHandler(svc service.TesoreriaService) *TesoreriaHandler {
	return &TesoreriaHandler{svc: svc}
}

// BuscarPagos godoc
// @Summary Busca un pago por su clave compuesta
// @Tags tesoreria
// @Produce json
// @Param caja query int true "Caja"
// @Param folio query int true "Folio"
// @Param rut query string true "RUT del deudor"
// @Param fecha query string true "Fecha de pago (YYYY-MM-DD)"
// @Success 200 {object} dto.PagoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tesoreria/pagos [get]
func (h *TesoreriaHandler) BuscarPagos(c *gin.Context) {
	var filter dto.PagoFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.BuscarPagos(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reversar godoc
// @Summary Reversa total o parcial de un pago
// @Description Without items every item of the payment is reversed.
// @Tags tesoreria
// @Accept json
// @Produce json
// @Param body body dto.ReversaPagoRequest true "Pago a reversar"
// @Success 200 {object} dto.ReversaPagoResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tesoreria/pagos/reversa [post]
func (h *TesoreriaHandler) Reversar(c *gin.Context) {
	var req dto.ReversaPagoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReversarPago(c.Request.Context(), actor(c), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
