package sales

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"remedy/m/domain"
)

func TestInvoiceRoundTrip(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	presenter := NewPresenter(db)
	ctx := context.Background()

	custID := insertCustomer(t, db, "Jane Doe")
	firstID := insertMedicine(t, db, "Paracetamol 500mg", 10, 9.99)
	secondID := insertMedicine(t, db, "Vitamin C 1000mg", 8, 12.75)

	sale, err := recorder.CreateSale(ctx, SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCash,
		Items: []SaleItemInput{
			{MedicineID: firstID, Quantity: 2},
			{MedicineID: secondID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	invoice, err := presenter.Invoice(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}

	if invoice.InvoiceNumber != sale.InvoiceNo {
		t.Errorf("invoice number = %q, want %q", invoice.InvoiceNumber, sale.InvoiceNo)
	}
	if invoice.Customer.Name != "Jane Doe" {
		t.Errorf("customer name = %q, want Jane Doe", invoice.Customer.Name)
	}
	if invoice.PaymentMethod != domain.PaymentCash {
		t.Errorf("payment method = %q, want %q", invoice.PaymentMethod, domain.PaymentCash)
	}
	if len(invoice.Items) != len(sale.Items) {
		t.Fatalf("items = %d, want %d", len(invoice.Items), len(sale.Items))
	}
	for i, item := range invoice.Items {
		if item.Quantity != sale.Items[i].Quantity {
			t.Errorf("item %d quantity = %d, want %d", i, item.Quantity, sale.Items[i].Quantity)
		}
		if !almostEqual(item.Price, sale.Items[i].Price) {
			t.Errorf("item %d price = %v, want %v", i, item.Price, sale.Items[i].Price)
		}
		if !almostEqual(item.Total, sale.Items[i].Total) {
			t.Errorf("item %d total = %v, want %v", i, item.Total, sale.Items[i].Total)
		}
	}
	if !almostEqual(invoice.Subtotal, sale.Subtotal) || !almostEqual(invoice.Tax, sale.Tax) || !almostEqual(invoice.Total, sale.Total) {
		t.Errorf("totals %v/%v/%v, want %v/%v/%v",
			invoice.Subtotal, invoice.Tax, invoice.Total, sale.Subtotal, sale.Tax, sale.Total)
	}
}

func TestInvoiceUnknownSale(t *testing.T) {
	db := newTestDB(t)
	presenter := NewPresenter(db)

	_, err := presenter.Invoice(context.Background(), 424242)
	if !errors.Is(err, ErrSaleNotFound) {
		t.Fatalf("err = %v, want ErrSaleNotFound", err)
	}
}

func TestInvoicePlaceholdersForDanglingReferences(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	presenter := NewPresenter(db)
	ctx := context.Background()

	custID := insertCustomer(t, db, "Jane Doe")
	medID := insertMedicine(t, db, "Paracetamol 500mg", 10, 9.99)

	sale, err := recorder.CreateSale(ctx, SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCash,
		Items:         []SaleItemInput{{MedicineID: medID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	// Deleting the medicine must not lose the item name: the snapshot holds it.
	if _, err := db.Exec(`DELETE FROM medicines WHERE id = $1`, medID); err != nil {
		t.Fatalf("delete medicine: %v", err)
	}
	invoice, err := presenter.Invoice(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if invoice.Items[0].Name != "Paracetamol 500mg" {
		t.Errorf("item name = %q, want snapshot name", invoice.Items[0].Name)
	}

	// A legacy row without a snapshot falls back to the literal placeholder.
	if _, err := db.Exec(`UPDATE sale_items SET medicine_name = '' WHERE sale_id = $1`, sale.ID); err != nil {
		t.Fatalf("blank snapshot: %v", err)
	}
	invoice, err = presenter.Invoice(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if invoice.Items[0].Name != "Unknown Item" {
		t.Errorf("item name = %q, want Unknown Item", invoice.Items[0].Name)
	}

	// Same for a deleted customer.
	if _, err := db.Exec(`DELETE FROM customers WHERE id = $1`, custID); err != nil {
		t.Fatalf("delete customer: %v", err)
	}
	invoice, err = presenter.Invoice(ctx, sale.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if invoice.Customer.Name != "Unknown Customer" {
		t.Errorf("customer name = %q, want Unknown Customer", invoice.Customer.Name)
	}
}

func TestRenderPDF(t *testing.T) {
	invoice := &domain.Invoice{
		SaleID:        1,
		InvoiceNumber: "INV-2025-ABCD1234",
		Date:          "April 15, 2025",
		Customer:      domain.InvoiceCustomer{Name: "Jane Doe", Address: "1 Main St", Phone: "555-0100"},
		Items: []domain.InvoiceItem{
			{Name: "Paracetamol 500mg", Quantity: 2, Price: 9.99, Total: 19.98},
		},
		Subtotal:      19.98,
		Tax:           1.40,
		Total:         21.38,
		PaymentMethod: domain.PaymentCash,
	}

	pdf, err := RenderPDF(invoice)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("output does not look like a PDF")
	}
}
