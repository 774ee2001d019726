package domain

// Invoice is a display projection of a Sale. It is derived at read time and
// never persisted on its own.
type Invoice struct {
	SaleID        int64           `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          string          `json:"date"`
	Customer      InvoiceCustomer `json:"customer"`
	Items         []InvoiceItem   `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	Tax           float64         `json:"tax"`
	Total         float64         `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
}

type InvoiceCustomer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type InvoiceItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}
