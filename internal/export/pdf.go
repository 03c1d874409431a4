package export

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"staffdash/internal/domain"
)

// WriteInvoicePDF renders one invoice as a single A4 page
func WriteInvoicePDF(w io.Writer, inv domain.Invoice, issued time.Time) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+inv.Client, true)
	latin := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice no : "+inv.ID)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Issued     : "+issued.Format("2006-01-02"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, latin(inv.Client))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Industry: "+latin(inv.IndustryType))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(223, 227, 225)
	pdf.CellFormat(110, 8, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 8, "Hours", "1", 0, "R", true, 0, "")
	pdf.CellFormat(40, 8, "Amount (BAM)", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(110, 8, "Services rendered", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", inv.TotalHoursBilled), "1", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, domain.FormatBAM(inv.Amount), "1", 1, "R", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+domain.FormatBAM(inv.Amount)+" BAM")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.Cell(0, 6, "Status: "+domain.InvoiceStatusLabel(inv.InvoiceStatus))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render invoice: %w", err)
	}
	return nil
}
