package domain

type Supplier struct {
	ID            int64  `db:"id" json:"id"`
	Name          string `db:"name" json:"name"`
	ContactPerson string `db:"contact_person" json:"contactPerson"`
	Phone         string `db:"phone" json:"phone"`
	Email         string `db:"email" json:"email"`
	Address       string `db:"address" json:"address"`
	Products      int64  `db:"products" json:"products"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}
