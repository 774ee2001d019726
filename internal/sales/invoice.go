package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"remedy/m/domain"
)

// Placeholder strings shown when a referenced record no longer resolves.
const (
	unknownCustomer = "Unknown Customer"
	unknownItem     = "Unknown Item"
)

// Presenter projects persisted sales into display-ready invoices. It is a
// pure read side and performs no writes.
type Presenter struct {
	db *sqlx.DB
}

func NewPresenter(db *sqlx.DB) *Presenter {
	return &Presenter{db: db}
}

// Invoice resolves a sale and flattens it with denormalized customer and
// medicine data. Line items read from their sale-time snapshots; the
// customer block falls back to a placeholder when the customer has been
// deleted since the sale was recorded.
func (p *Presenter) Invoice(ctx context.Context, saleID int64) (*domain.Invoice, error) {
	var sale domain.Sale
	err := p.db.GetContext(ctx, &sale,
		`SELECT id, invoice_no, customer_id, payment_method, subtotal, tax, total, created_at
         FROM sales WHERE id = $1`, saleID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve sale: %w", err)
	}

	customer := domain.InvoiceCustomer{Name: unknownCustomer}
	var c domain.Customer
	err = p.db.GetContext(ctx, &c,
		`SELECT id, name, phone, email, address, total_purchases, last_visit
         FROM customers WHERE id = $1`, sale.CustomerID)
	if err == nil {
		customer = domain.InvoiceCustomer{Name: c.Name, Address: c.Address, Phone: c.Phone}
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	var items []domain.SaleItem
	err = p.db.SelectContext(ctx, &items,
		`SELECT id, sale_id, medicine_id, medicine_name, quantity, price, total
         FROM sale_items WHERE sale_id = $1 ORDER BY id`, sale.ID)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}

	rows := make([]domain.InvoiceItem, 0, len(items))
	for _, item := range items {
		name := item.MedicineName
		if name == "" {
			name = p.medicineName(ctx, item.MedicineID)
		}
		rows = append(rows, domain.InvoiceItem{
			Name:     name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		})
	}

	return &domain.Invoice{
		SaleID:        sale.ID,
		InvoiceNumber: sale.InvoiceNo,
		Date:          formatInvoiceDate(sale.CreatedAt),
		Customer:      customer,
		Items:         rows,
		Subtotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
	}, nil
}

// medicineName re-resolves a medicine for legacy rows that predate name
// snapshots, falling back to a placeholder when the medicine is gone.
func (p *Presenter) medicineName(ctx context.Context, medicineID int64) string {
	var name string
	err := p.db.GetContext(ctx, &name, `SELECT name FROM medicines WHERE id = $1`, medicineID)
	if err != nil || name == "" {
		return unknownItem
	}
	return name
}

func formatInvoiceDate(createdAt string) string {
	t, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return createdAt
	}
	return t.Format("January 2, 2006")
}
