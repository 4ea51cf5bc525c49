package infra

import (
	"encoding/csv"
	"fmt"
	"io"

	"aplicas/internal/dto"
)

// utf8BOM makes spreadsheet software detect the encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// EscribirCSVTransparencia writes the decrees of a period as a
// semicolon-separated file with a totals line at the end.
func EscribirCSVTransparencia(w io.Writer, r *dto.TransparenciaResponse) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	cw.UseCRLF = true

	if err := cw.Write([]string{"Numero", "Anio", "Fecha", "Materia", "Unidad", "Monto"}); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	for _, it := range r.Data {
		row := []string{
			fmt.Sprint(it.Numero),
			fmt.Sprint(it.Anio),
			it.Fecha,
			it.Materia,
			it.Unidad,
			it.Monto.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: %w", err)
		}
	}
	if err := cw.Write([]string{"Total", fmt.Sprint(r.Total), "", "", "", r.MontoTotal.StringFixed(2)}); err != nil {
		return fmt.Errorf("csv: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
