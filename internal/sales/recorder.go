package sales

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"remedy/m/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// taxRate is the flat point-of-sale tax applied to every sale.
var taxRate = decimal.NewFromFloat(0.07)

// Recorder owns sale creation. It is the only component that writes sale
// records or decrements stock as part of a transaction.
type Recorder struct {
	db *sqlx.DB
}

func NewRecorder(db *sqlx.DB) *Recorder {
	return &Recorder{db: db}
}

// SaleItemInput is one requested line of a sale. Price and Total are the
// client-side preview only; authoritative pricing comes from the medicine
// record at recording time. MedicineName is used for error messages when the
// referenced medicine cannot be resolved.
type SaleItemInput struct {
	MedicineID   int64   `json:"medicineId"`
	MedicineName string  `json:"medicineName"`
	Quantity     int64   `json:"quantity"`
	Price        float64 `json:"price"`
	Total        float64 `json:"total"`
}

// SaleInput is the POST /api/sales payload. Subtotal, Tax and Total are
// accepted for shape compatibility with the client but are recomputed
// server-side and never trusted.
type SaleInput struct {
	CustomerID    int64           `json:"customerId"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []SaleItemInput `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	Total         float64         `json:"total"`
}

func (in SaleInput) validate() error {
	if in.CustomerID == 0 {
		return ErrCustomerRequired
	}
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	if !domain.ValidPaymentMethod(in.PaymentMethod) {
		return ErrInvalidPaymentMethod
	}
	for _, item := range in.Items {
		if item.MedicineID == 0 || item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}

// CreateSale validates the requested sale against live inventory, applies
// the stock decrements and persists the sale with its line items. The whole
// operation runs in a single transaction: a failure on any line rolls back
// every decrement already applied, so a sale either fully succeeds or leaves
// no stock effect at all. Stock is taken with a conditional decrement
// (quantity >= requested), so concurrent sales over the same medicine can
// never drive quantity-on-hand negative.
func (r *Recorder) CreateSale(ctx context.Context, in SaleInput) (*domain.Sale, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin sale: %w", err)
	}
	defer tx.Rollback()

	var customerID int64
	err = tx.GetContext(ctx, &customerID, `SELECT id FROM customers WHERE id = $1`, in.CustomerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	subtotal := decimal.Zero
	items := make([]domain.SaleItem, 0, len(in.Items))
	for _, item := range in.Items {
		var med struct {
			Name  string  `db:"name"`
			Price float64 `db:"price"`
		}
		err := tx.GetContext(ctx, &med, `SELECT name, price FROM medicines WHERE id = $1`, item.MedicineID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &MedicineNotFoundError{Name: itemLabel(item)}
		}
		if err != nil {
			return nil, fmt.Errorf("resolve medicine: %w", err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE medicines SET quantity = quantity - $1 WHERE id = $2 AND quantity >= $3`,
			item.Quantity, item.MedicineID, item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("decrement stock: %w", err)
		}
		if affected == 0 {
			return nil, &InsufficientStockError{Name: med.Name}
		}

		lineTotal := decimal.NewFromFloat(med.Price).Mul(decimal.NewFromInt(item.Quantity)).Round(2)
		subtotal = subtotal.Add(lineTotal)
		items = append(items, domain.SaleItem{
			MedicineID:   item.MedicineID,
			MedicineName: med.Name,
			Quantity:     item.Quantity,
			Price:        med.Price,
			Total:        lineTotal.InexactFloat64(),
		})
	}

	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(taxRate).Round(2)
	total := subtotal.Add(tax)

	sale := domain.Sale{
		InvoiceNo:     newInvoiceNumber(time.Now()),
		CustomerID:    in.CustomerID,
		PaymentMethod: in.PaymentMethod,
		Subtotal:      subtotal.InexactFloat64(),
		Tax:           tax.InexactFloat64(),
		Total:         total.InexactFloat64(),
		CreatedAt:     time.Now().UTC().Format(timeLayout),
	}

	err = tx.QueryRowxContext(ctx,
		`INSERT INTO sales (invoice_no, customer_id, payment_method, subtotal, tax, total, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		sale.InvoiceNo, sale.CustomerID, sale.PaymentMethod, sale.Subtotal, sale.Tax, sale.Total, sale.CreatedAt).Scan(&sale.ID)
	if err != nil {
		return nil, fmt.Errorf("insert sale: %w", err)
	}

	for i := range items {
		items[i].SaleID = sale.ID
		err = tx.QueryRowxContext(ctx,
			`INSERT INTO sale_items (sale_id, medicine_id, medicine_name, quantity, price, total)
             VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
			items[i].SaleID, items[i].MedicineID, items[i].MedicineName, items[i].Quantity, items[i].Price, items[i].Total).Scan(&items[i].ID)
		if err != nil {
			return nil, fmt.Errorf("insert sale item: %w", err)
		}
	}
	sale.Items = items

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("finalize sale: %w", err)
	}
	return &sale, nil
}

// ListSales returns all sales with their line items, newest first.
func (r *Recorder) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	err := r.db.SelectContext(ctx, &sales,
		`SELECT id, invoice_no, customer_id, payment_method, subtotal, tax, total, created_at
         FROM sales ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if len(sales) == 0 {
		return []domain.Sale{}, nil
	}

	ids := make([]int64, len(sales))
	for i, sale := range sales {
		ids[i] = sale.ID
	}
	query, args, err := sqlx.In(
		`SELECT id, sale_id, medicine_id, medicine_name, quantity, price, total
         FROM sale_items WHERE sale_id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("prepare sale items query: %w", err)
	}
	var items []domain.SaleItem
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}

	bySale := make(map[int64][]domain.SaleItem)
	for _, item := range items {
		bySale[item.SaleID] = append(bySale[item.SaleID], item)
	}
	for i := range sales {
		sales[i].Items = bySale[sales[i].ID]
	}
	return sales, nil
}

func newInvoiceNumber(t time.Time) string {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV-%d-%s", t.Year(), ref)
}

func itemLabel(item SaleItemInput) string {
	if strings.TrimSpace(item.MedicineName) != "" {
		return item.MedicineName
	}
	return fmt.Sprintf("#%d", item.MedicineID)
}
