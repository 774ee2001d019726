package domain

// Payment methods accepted at the point of sale.
const (
	PaymentCash       = "Cash"
	PaymentCreditCard = "Credit Card"
	PaymentDebitCard  = "Debit Card"
	PaymentMobile     = "Mobile Payment"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentMobile:
		return true
	}
	return false
}

// Sale is an immutable record of a completed transaction. There is no update
// or delete path once a sale has been recorded.
type Sale struct {
	ID            int64      `db:"id" json:"id"`
	InvoiceNo     string     `db:"invoice_no" json:"invoiceNumber"`
	CustomerID    int64      `db:"customer_id" json:"customerId"`
	PaymentMethod string     `db:"payment_method" json:"paymentMethod"`
	Items         []SaleItem `json:"items"`
	Subtotal      float64    `db:"subtotal" json:"subtotal"`
	Tax           float64    `db:"tax" json:"tax"`
	Total         float64    `db:"total" json:"total"`
	CreatedAt     string     `db:"created_at" json:"createdAt"`
}

// SaleItem is one line of a sale. Name and price are snapshots taken at sale
// time; the medicine id is a historical annotation and is not required to
// stay resolvable.
type SaleItem struct {
	ID           int64   `db:"id" json:"id"`
	SaleID       int64   `db:"sale_id" json:"saleId"`
	MedicineID   int64   `db:"medicine_id" json:"medicineId"`
	MedicineName string  `db:"medicine_name" json:"medicineName"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	Price        float64 `db:"price" json:"price"`
	Total        float64 `db:"total" json:"total"`
}
