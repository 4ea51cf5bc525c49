package handler

import (
	"context"
	"fmt"
	"net/http"

	"aplicas/internal/dto"
	"aplicas/internal/service"

	"github.com/gin-gonic/gin"
)

type TransparenciaHandler struct{ svc service.TransparenciaService }

func NewTransparenciaHandler(svc service.TransparenciaService) *TransparenciaHandler {
	return &TransparenciaHandler{svc: svc}
}

// Reporte godoc
// @Summary Decretos del periodo con totales
// @Tags transparencia
// @Produce json
// @Param anio query int true "Anio"
// @Param mes query int true "Mes (1-12)"
// @Success 200 {object} dto.TransparenciaResponse
// @Router /v1/transparencia [get]
func (h *TransparenciaHandler) Reporte(c *gin.Context) {
	var filter dto.TransparenciaFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.Reporte(c.Request.Context(), filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportarCSV godoc
// @Summary Exporta el periodo en CSV (separador ;)
// @Tags transparencia
// @Produce text/csv
// @Param anio query int true "Anio"
// @Param mes query int true "Mes (1-12)"
// @Success 200 {file} file
// @Router /v1/transparencia/export.csv [get]
func (h *TransparenciaHandler) ExportarCSV(c *gin.Context) {
	h.exportar(c, h.svc.ExportarCSV)
}

// ExportarPDF godoc
// @Summary Exporta el periodo en PDF con firma del titular de alcaldia
// @Tags transparencia
// @Produce application/pdf
// @Param anio query int true "Anio"
// @Param mes query int true "Mes (1-12)"
// @Success 200 {file} file
// @Router /v1/transparencia/export.pdf [get]
func (h *TransparenciaHandler) ExportarPDF(c *gin.Context) {
	h.exportar(c, h.svc.ExportarPDF)
}

type exportFunc func(ctx context.Context, actor dto.Actor, anio, mes int) (*service.Archivo, error)

func (h *TransparenciaHandler) exportar(c *gin.Context, fn exportFunc) {
	var filter dto.TransparenciaFilter
	if !bindQuery(c, &filter) {
		return
	}
	a, err := fn(c.Request.Context(), actor(c), filter.Anio, filter.Mes)
	if err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, a.Nombre))
	c.Data(http.StatusOK, a.ContentType, a.Datos)
}
