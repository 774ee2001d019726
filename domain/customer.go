package domain

type Customer struct {
	ID             int64   `db:"id" json:"id"`
	Name           string  `db:"name" json:"name"`
	Phone          string  `db:"phone" json:"phone"`
	Email          string  `db:"email" json:"email"`
	Address        string  `db:"address" json:"address"`
	TotalPurchases float64 `db:"total_purchases" json:"totalPurchases"`
	LastVisit      string  `db:"last_visit" json:"lastVisit"`
}
