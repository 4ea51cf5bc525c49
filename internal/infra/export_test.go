package infra

import (
	"bytes"
	"strings"
	"testing"

	"aplicas/internal/dto"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reporteMarzo() *dto.TransparenciaResponse {
	return &dto.TransparenciaResponse{
		Anio: 2024,
		Mes:  3,
		Data: []dto.TransparenciaItem{
			{Numero: 12, Anio: 2024, Fecha: "2024-03-01", Materia: "Compra; insumos \"oficina\"", Unidad: "DAF", Monto: decimal.RequireFromString("1000.5")},
			{Numero: 13, Anio: 2024, Fecha: "2024-03-20", Materia: "Aseo y ornato", Unidad: "DIMAO", Monto: decimal.NewFromInt(250)},
		},
		Total:      2,
		MontoTotal: decimal.RequireFromString("1250.5"),
	}
}

func TestEscribirCSVTransparencia(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, EscribirCSVTransparencia(&buf, reporteMarzo()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	lines := strings.Split(strings.TrimSuffix(string(out[len(utf8BOM):]), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Numero;Anio;Fecha;Materia;Unidad;Monto", lines[0])
	assert.Equal(t, `12;2024;2024-03-01;"Compra; insumos ""oficina""";DAF;1000.50`, lines[1])
	assert.Equal(t, "13;2024;2024-03-20;Aseo y ornato;DIMAO;250.00", lines[2])
	assert.Equal(t, "Total;2;;;;1250.50", lines[3])
}

func TestEscribirCSVTransparencia_Vacio(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, EscribirCSVTransparencia(&buf, &dto.TransparenciaResponse{Anio: 2024, Mes: 1}))

	assert.True(t, strings.HasSuffix(buf.String(), "Total;0;;;;0.00\r\n"))
}

func TestGenerarPDFTransparencia(t *testing.T) {
	for _, f := range []*Firmante{nil, {Nombre: "María Soto", Cargo: "Alcaldesa"}} {
		var buf bytes.Buffer

		require.NoError(t, GenerarPDFTransparencia(&buf, "Ilustre Municipalidad de Ñuñoa", reporteMarzo(), f))

		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		assert.Greater(t, buf.Len(), 1000)
	}
}

func TestTruncar(t *testing.T) {
	assert.Equal(t, "abc", truncar("abc", 5))
	assert.Len(t, []rune(truncar(strings.Repeat("ñ", 100), 10)), 10)
}
