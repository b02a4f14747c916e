package infra

// pdf.go: sale ticket rendered with go-pdf/fpdf on 74mm-wide receipt paper.
// Foreign-currency lines show their amount in dollars; the total is always in
// local currency at the sale's rate snapshot.

import (
	"fmt"
	"io"

	"mercadito/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

const ticketNombreMax = 22

// WriteTicketPDF renders v to w. totalPesos is computed by the caller so the
// ticket never carries its own notion of a sale total.
func WriteTicketPDF(w io.Writer, v *model.Venta, totalPesos decimal.Decimal) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 105},
	})
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(true, 4)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8
	separador := func() {
		pdf.Ln(2)
		pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(contentW, 7, "Mercadito", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, tr("Comprobante no fiscal"), "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(contentW, 4, "Venta "+v.ID.String()[:8], "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 7)
	pdf.CellFormat(contentW, 4, v.Fecha.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if v.PedidoID != nil {
		pdf.CellFormat(contentW, 4, "Pedido "+v.PedidoID.String()[:8], "", 1, "L", false, 0, "")
	}
	separador()

	col1 := contentW * 0.52
	col2 := contentW * 0.16
	col3 := contentW * 0.32

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(col1, 5, tr("Descripción"), "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	hayDolares := false
	for _, it := range v.Items {
		sub := it.PrecioUnitario.Mul(decimal.NewFromInt(int64(it.Cantidad)))
		moneda := "$"
		if it.EnDolares {
			moneda = "US$"
			hayDolares = true
		}
		pdf.CellFormat(col1, 5, tr(descripcionItem(it)), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", it.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, moneda+sub.StringFixed(2), "", 1, "R", false, 0, "")
	}
	separador()

	if hayDolares {
		pdf.SetFont("Helvetica", "", 7)
		pdf.CellFormat(col1+col2, 4, tr("Cotización:"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 4, "$"+v.Cotizacion.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "$"+totalPesos.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	switch {
	case v.Anulada:
		pdf.CellFormat(contentW, 4, "ANULADA", "", 1, "C", false, 0, "")
	case !v.Pagada:
		pdf.CellFormat(contentW, 4, "Pago pendiente", "", 1, "C", false, 0, "")
	default:
		pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: write ticket: %w", err)
	}
	return nil
}

func descripcionItem(it model.VentaItem) string {
	nombre := "Producto"
	switch {
	case it.Producto != nil:
		nombre = it.Producto.Nombre
	case it.Promocion != nil:
		nombre = it.Promocion.Nombre
	case it.PromocionID != nil:
		nombre = "Promoción"
	}
	if r := []rune(nombre); len(r) > ticketNombreMax {
		nombre = string(r[:ticketNombreMax-1]) + "."
	}
	return nombre
}
