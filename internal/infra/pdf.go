package infra

// pdf.go renders the monthly transparency report with go-pdf/fpdf:
// municipality header, one row per decree, totals, and the signing
// authority in the footer of the last page.

import (
	"fmt"
	"io"
	"time"

	"aplicas/internal/dto"

	"github.com/go-pdf/fpdf"
)

// Firmante is the authority who signs the report.
type Firmante struct {
	Nombre string
	Cargo  string
}

var meses = [...]string{"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"}

// GenerarPDFTransparencia writes the report to w. firmante may be nil when
// the role has no titular yet.
func GenerarPDFTransparencia(w io.Writer, municipalidad string, r *dto.TransparenciaResponse, firmante *Firmante) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 18)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, fmt.Sprintf("Pagina %d - generado %s", pdf.PageNo(), time.Now().Format("02/01/2006 15:04")),
			"", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, tr(municipalidad), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	periodo := fmt.Sprintf("Transparencia activa - Decretos de %s %d", meses[r.Mes], r.Anio)
	pdf.CellFormat(contentW, 6, tr(periodo), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Table ────────────────────────────────────────────────────────────────
	cols := []struct {
		titulo string
		ancho  float64
		align  string
	}{
		{"N°", 0.08, "C"},
		{"Fecha", 0.10, "C"},
		{"Materia", 0.47, "L"},
		{"Unidad", 0.20, "L"},
		{"Monto", 0.15, "R"},
	}
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(contentW*c.ancho, 6, tr(c.titulo), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, it := range r.Data {
		valores := []string{
			fmt.Sprintf("%d/%d", it.Numero, it.Anio),
			it.Fecha,
			truncar(it.Materia, 90),
			truncar(it.Unidad, 38),
			"$" + it.Monto.StringFixed(0),
		}
		for i, c := range cols {
			pdf.CellFormat(contentW*c.ancho, 5, tr(valores[i]), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW*0.85, 6, fmt.Sprintf("Total: %d decretos", r.Total), "1", 0, "R", false, 0, "")
	pdf.CellFormat(contentW*0.15, 6, "$"+r.MontoTotal.StringFixed(0), "1", 1, "R", false, 0, "")

	// ── Signature ────────────────────────────────────────────────────────────
	pdf.Ln(18)
	firmaX := 12 + contentW/2 - 40
	pdf.Line(firmaX, pdf.GetY(), firmaX+80, pdf.GetY())
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "B", 9)
	if firmante != nil {
		pdf.CellFormat(contentW, 5, tr(firmante.Nombre), "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(contentW, 4, tr(firmante.Cargo), "", 1, "C", false, 0, "")
	} else {
		pdf.CellFormat(contentW, 5, "Firma", "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: %w", err)
	}
	return nil
}

func truncar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
