package sales

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"remedy/m/domain"
	"remedy/m/internal/database"
	"remedy/m/internal/migrations"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db := database.Connect(":memory:")
	migrations.Run(db)
	t.Cleanup(func() { db.Close() })
	return db
}

func insertMedicine(t *testing.T, db *sqlx.DB, name string, quantity int64, price float64) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(
		`INSERT INTO medicines (name, category, batch_number, expiry_date, quantity, price, supplier)
         VALUES ($1, 'Pain Relief', 'B-001', '2027-01-01', $2, $3, 'MediSupply') RETURNING id`,
		name, quantity, price).Scan(&id)
	if err != nil {
		t.Fatalf("insert medicine: %v", err)
	}
	return id
}

func insertCustomer(t *testing.T, db *sqlx.DB, name string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(
		`INSERT INTO customers (name, phone, email, address, last_visit)
         VALUES ($1, '555-0100', 'jane@example.com', '1 Main St', '2025-01-01') RETURNING id`,
		name).Scan(&id)
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	return id
}

func medicineQuantity(t *testing.T, db *sqlx.DB, id int64) int64 {
	t.Helper()
	var quantity int64
	if err := db.Get(&quantity, `SELECT quantity FROM medicines WHERE id = $1`, id); err != nil {
		t.Fatalf("read quantity: %v", err)
	}
	return quantity
}

func countSales(t *testing.T, db *sqlx.DB) int64 {
	t.Helper()
	var n int64
	if err := db.Get(&n, `SELECT COUNT(*) FROM sales`); err != nil {
		t.Fatalf("count sales: %v", err)
	}
	return n
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCreateSaleComputesTotalsAndDecrementsStock(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	ctx := context.Background()

	medID := insertMedicine(t, db, "Paracetamol 500mg", 10, 9.99)
	custID := insertCustomer(t, db, "Jane Doe")

	sale, err := recorder.CreateSale(ctx, SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCash,
		Items: []SaleItemInput{
			{MedicineID: medID, MedicineName: "Paracetamol 500mg", Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}

	if got := medicineQuantity(t, db, medID); got != 6 {
		t.Errorf("stock after sale = %d, want 6", got)
	}
	if !almostEqual(sale.Subtotal, 39.96) {
		t.Errorf("subtotal = %v, want 39.96", sale.Subtotal)
	}
	if !almostEqual(sale.Tax, 2.80) {
		t.Errorf("tax = %v, want 2.80", sale.Tax)
	}
	if !almostEqual(sale.Total, 42.76) {
		t.Errorf("total = %v, want 42.76", sale.Total)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(sale.Items))
	}
	if !almostEqual(sale.Items[0].Total, float64(sale.Items[0].Quantity)*sale.Items[0].Price) {
		t.Errorf("line total %v != quantity x price", sale.Items[0].Total)
	}
	if sale.InvoiceNo == "" {
		t.Error("invoice number not assigned")
	}

	// A second sale asking for more than remains must fail and leave stock alone.
	_, err = recorder.CreateSale(ctx, SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCash,
		Items: []SaleItemInput{
			{MedicineID: medID, MedicineName: "Paracetamol 500mg", Quantity: 7},
		},
	})
	var shortStock *InsufficientStockError
	if !errors.As(err, &shortStock) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}
	if shortStock.Name != "Paracetamol 500mg" {
		t.Errorf("error names %q, want the medicine name", shortStock.Name)
	}
	if got := medicineQuantity(t, db, medID); got != 6 {
		t.Errorf("stock after failed sale = %d, want 6", got)
	}
	if got := countSales(t, db); got != 1 {
		t.Errorf("sales recorded = %d, want 1", got)
	}
}

func TestCreateSaleUnknownCustomer(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)

	medID := insertMedicine(t, db, "Ibuprofen 400mg", 5, 8.50)

	_, err := recorder.CreateSale(context.Background(), SaleInput{
		CustomerID:    9999,
		PaymentMethod: domain.PaymentCash,
		Items:         []SaleItemInput{{MedicineID: medID, Quantity: 1}},
	})
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Fatalf("err = %v, want ErrCustomerNotFound", err)
	}
	if got := medicineQuantity(t, db, medID); got != 5 {
		t.Errorf("stock = %d, want 5 (no decrement on failure)", got)
	}
	if got := countSales(t, db); got != 0 {
		t.Errorf("sales recorded = %d, want 0", got)
	}
}

func TestCreateSaleUnknownMedicine(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")

	_, err := recorder.CreateSale(context.Background(), SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCash,
		Items: []SaleItemInput{
			{MedicineID: 12345, MedicineName: "Vitamin C 1000mg", Quantity: 1},
		},
	})
	var notFound *MedicineNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("err = %v, want MedicineNotFoundError", err)
	}
	if notFound.Name != "Vitamin C 1000mg" {
		t.Errorf("error names %q, want supplied medicine name", notFound.Name)
	}
}

func TestCreateSaleRollsBackEarlierDecrements(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")

	firstID := insertMedicine(t, db, "Amoxicillin 250mg", 20, 12.00)
	secondID := insertMedicine(t, db, "Cough Syrup", 2, 6.25)

	_, err := recorder.CreateSale(context.Background(), SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentCreditCard,
		Items: []SaleItemInput{
			{MedicineID: firstID, Quantity: 5},
			{MedicineID: secondID, Quantity: 3}, // only 2 on hand
		},
	})
	var shortStock *InsufficientStockError
	if !errors.As(err, &shortStock) {
		t.Fatalf("err = %v, want InsufficientStockError", err)
	}

	// The decrement applied to the first item must not survive the failure.
	if got := medicineQuantity(t, db, firstID); got != 20 {
		t.Errorf("first medicine stock = %d, want 20 (rolled back)", got)
	}
	if got := medicineQuantity(t, db, secondID); got != 2 {
		t.Errorf("second medicine stock = %d, want 2", got)
	}
	if got := countSales(t, db); got != 0 {
		t.Errorf("sales recorded = %d, want 0", got)
	}
}

func TestCreateSaleIgnoresClientSuppliedTotals(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")
	medID := insertMedicine(t, db, "Aspirin 100mg", 10, 4.00)

	sale, err := recorder.CreateSale(context.Background(), SaleInput{
		CustomerID:    custID,
		PaymentMethod: domain.PaymentDebitCard,
		Items: []SaleItemInput{
			// Client claims a one-cent price; the store price is authoritative.
			{MedicineID: medID, Quantity: 2, Price: 0.01, Total: 0.02},
		},
		Subtotal: 0.02,
		Tax:      0,
		Total:    0.02,
	})
	if err != nil {
		t.Fatalf("CreateSale: %v", err)
	}
	if !almostEqual(sale.Items[0].Price, 4.00) {
		t.Errorf("recorded price = %v, want store price 4.00", sale.Items[0].Price)
	}
	if !almostEqual(sale.Subtotal, 8.00) {
		t.Errorf("subtotal = %v, want 8.00", sale.Subtotal)
	}
	if !almostEqual(sale.Tax, 0.56) {
		t.Errorf("tax = %v, want 0.56", sale.Tax)
	}
	if !almostEqual(sale.Total, 8.56) {
		t.Errorf("total = %v, want 8.56", sale.Total)
	}
}

func TestCreateSaleValidation(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")
	medID := insertMedicine(t, db, "Aspirin 100mg", 10, 4.00)
	ctx := context.Background()

	cases := []struct {
		name  string
		input SaleInput
		want  error
	}{
		{
			name:  "missing customer",
			input: SaleInput{PaymentMethod: domain.PaymentCash, Items: []SaleItemInput{{MedicineID: medID, Quantity: 1}}},
			want:  ErrCustomerRequired,
		},
		{
			name:  "no items",
			input: SaleInput{CustomerID: custID, PaymentMethod: domain.PaymentCash},
			want:  ErrNoItems,
		},
		{
			name:  "zero quantity",
			input: SaleInput{CustomerID: custID, PaymentMethod: domain.PaymentCash, Items: []SaleItemInput{{MedicineID: medID, Quantity: 0}}},
			want:  ErrInvalidQuantity,
		},
		{
			name:  "bad payment method",
			input: SaleInput{CustomerID: custID, PaymentMethod: "Barter", Items: []SaleItemInput{{MedicineID: medID, Quantity: 1}}},
			want:  ErrInvalidPaymentMethod,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := recorder.CreateSale(ctx, tc.input)
			if !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
			if !IsRejection(err) {
				t.Errorf("IsRejection(%v) = false, want true", err)
			}
		})
	}

	if got := countSales(t, db); got != 0 {
		t.Errorf("sales recorded = %d, want 0", got)
	}
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")
	medID := insertMedicine(t, db, "Insulin Pen", 5, 30.00)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = recorder.CreateSale(context.Background(), SaleInput{
				CustomerID:    custID,
				PaymentMethod: domain.PaymentMobile,
				Items:         []SaleItemInput{{MedicineID: medID, Quantity: 5}},
			})
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range results {
		if err == nil {
			successes++
		} else {
			var shortStock *InsufficientStockError
			if !errors.As(err, &shortStock) {
				t.Errorf("unexpected failure: %v", err)
			}
		}
	}
	if successes != 1 {
		t.Errorf("successful sales = %d, want exactly 1", successes)
	}
	if got := medicineQuantity(t, db, medID); got < 0 {
		t.Errorf("stock went negative: %d", got)
	} else if got != 0 {
		t.Errorf("stock = %d, want 0", got)
	}
}

func TestListSalesReturnsItems(t *testing.T) {
	db := newTestDB(t)
	recorder := NewRecorder(db)
	custID := insertCustomer(t, db, "Jane Doe")
	medID := insertMedicine(t, db, "Paracetamol 500mg", 10, 9.99)

	for i := 0; i < 2; i++ {
		_, err := recorder.CreateSale(context.Background(), SaleInput{
			CustomerID:    custID,
			PaymentMethod: domain.PaymentCash,
			Items:         []SaleItemInput{{MedicineID: medID, Quantity: 1}},
		})
		if err != nil {
			t.Fatalf("CreateSale: %v", err)
		}
	}

	list, err := recorder.ListSales(context.Background())
	if err != nil {
		t.Fatalf("ListSales: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("sales = %d, want 2", len(list))
	}
	for _, sale := range list {
		if len(sale.Items) != 1 {
			t.Errorf("sale %d items = %d, want 1", sale.ID, len(sale.Items))
		}
	}
}
