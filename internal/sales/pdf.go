package sales

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"remedy/m/domain"
)

// RenderPDF renders an invoice projection as a printable A4 PDF.
func RenderPDF(inv *domain.Invoice) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "Remedy Pharmacy", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(0, 5, "Your Health, Our Priority", "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, fmt.Sprintf("Invoice %s", inv.InvoiceNumber), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Date: %s", inv.Date), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Payment Method: %s", inv.PaymentMethod), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Bill To:", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 6, inv.Customer.Name, "", 1, "L", false, 0, "")
	if inv.Customer.Address != "" {
		pdf.CellFormat(0, 6, inv.Customer.Address, "", 1, "L", false, 0, "")
	}
	if inv.Customer.Phone != "" {
		pdf.CellFormat(0, 6, inv.Customer.Phone, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(80, 8, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "C", false, 0, "")
	pdf.CellFormat(35, 8, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	for _, item := range inv.Items {
		pdf.CellFormat(80, 8, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", item.Total), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	pdf.CellFormat(140, 7, "Subtotal", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", inv.Subtotal), "", 1, "R", false, 0, "")
	pdf.CellFormat(140, 7, "Tax (7%)", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", inv.Tax), "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(140, 7, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 7, fmt.Sprintf("$%.2f", inv.Total), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
