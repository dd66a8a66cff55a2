package infra

// pdf.go: PDF documents rendered with go-pdf/fpdf:
//   - GenerateTicketPDF: thermal receipt-style ticket for one venta (served inline)
//   - GenerateCierrePDF: A4 report of a cierre de caja (written to disk, mailed by the worker)

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gestorstock/internal/model"

	"github.com/go-pdf/fpdf"
)

var tipoVentaLabel = map[string]string{
	model.TipoOrdenCompra: "Orden de compra",
	model.TipoFacturaB:    "Factura B",
}

// GenerateTicketPDF renders the ticket of a venta. Detalles whose producto was
// deleted are printed as "(producto eliminado)".
func GenerateTicketPDF(venta *model.Venta, nombreNegocio string) ([]byte, error) {
	// 74mm wide, close to thermal receipt paper; height grows with the detalles
	alto := 70 + 5*float64(len(venta.Detalles))
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: alto},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, tr(nombreNegocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr(tipoVentaLabel[venta.Tipo]), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Venta N° %d", venta.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, venta.FechaYHora.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Detalles ─────────────────────────────────────────────────────────────
	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := "(producto eliminado)"
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 22 {
			nombre = string(r[:21]) + "..."
		}
		pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", d.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(2)

	// ── Totals ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 7)
	if !venta.DescuentoGeneral.IsZero() {
		pdf.CellFormat(col1+col2, 5, "Descuento general:", "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, venta.DescuentoGeneral.StringFixed(2)+"%", "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+venta.ImporteTotal.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

// GenerateCierrePDF writes the report of a cierre de caja to
// storagePath/cierre_{id}.pdf and returns the file path.
func GenerateCierrePDF(caja *model.Caja, ventas []model.Venta, nombreNegocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("cierre_%d.pdf", caja.ID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 9, tr(nombreNegocio), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Cierre de caja N° %d", caja.ID)), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, caja.FechaYHoraCierre.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{25, 45, 50, 60}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Venta", "Hora", "Tipo", "Importe"} {
		align := "L"
		if i == 3 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, h, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, v := range ventas {
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("#%d", v.ID), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, v.FechaYHora.Format("02/01 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 6, tr(tipoVentaLabel[v.Tipo]), "", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 6, "$"+v.ImporteTotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 8, fmt.Sprintf("TOTAL (%d ventas)", len(ventas)), "T", 0, "L", false, 0, "")
	pdf.CellFormat(widths[3], 8, "$"+caja.TotalRecaudado.StringFixed(2), "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
