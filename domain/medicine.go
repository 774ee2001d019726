package domain

type Medicine struct {
	ID           int64   `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Category     string  `db:"category" json:"category"`
	BatchNumber  string  `db:"batch_number" json:"batchNumber"`
	ExpiryDate   string  `db:"expiry_date" json:"expiryDate"`
	Quantity     int64   `db:"quantity" json:"quantity"`
	Price        float64 `db:"price" json:"price"`
	ReorderLevel int64   `db:"reorder_level" json:"reorderLevel"`
	Supplier     string  `db:"supplier" json:"supplier"`
	UnitsSold    int64   `db:"units_sold" json:"unitsSold"`
	CreatedAt    string  `db:"created_at" json:"createdAt"`
}
