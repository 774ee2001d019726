package api

import (
	"database/sql"
	"errors"
	"net/http"

	"remedy/m/domain"
)

// Medicine handlers

type medicineRequest struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	BatchNumber  string   `json:"batchNumber"`
	ExpiryDate   string   `json:"expiryDate"`
	Quantity     *int64   `json:"quantity"`
	Price        *float64 `json:"price"`
	ReorderLevel *int64   `json:"reorderLevel"`
	Supplier     string   `json:"supplier"`
	UnitsSold    *int64   `json:"unitsSold"`
}

func (h *Handler) listMedicines(w http.ResponseWriter, r *http.Request) {
	var medicines []domain.Medicine
	err := h.db.Select(&medicines,
		`SELECT id, name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier, units_sold, created_at
         FROM medicines ORDER BY name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch medicines")
		return
	}
	respondJSON(w, http.StatusOK, medicines)
}

func (h *Handler) getMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var medicine domain.Medicine
	err = h.db.Get(&medicine,
		`SELECT id, name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier, units_sold, created_at
         FROM medicines WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch medicine")
		return
	}
	respondJSON(w, http.StatusOK, medicine)
}

func (h *Handler) createMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.BatchNumber == "" || req.ExpiryDate == "" ||
		req.Quantity == nil || req.Price == nil || req.ReorderLevel == nil || req.Supplier == "" {
		respondError(w, http.StatusBadRequest, "please provide all required fields")
		return
	}
	if *req.Quantity < 0 || *req.Price < 0 {
		respondError(w, http.StatusBadRequest, "quantity and price must not be negative")
		return
	}

	unitsSold := int64(0)
	if req.UnitsSold != nil {
		unitsSold = *req.UnitsSold
	}
	var id int64
	err := h.db.QueryRowx(
		`INSERT INTO medicines (name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier, units_sold)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		req.Name, req.Category, req.BatchNumber, req.ExpiryDate, *req.Quantity, *req.Price, *req.ReorderLevel, req.Supplier, unitsSold).Scan(&id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create medicine")
		return
	}
	h.getMedicineByID(w, id, http.StatusCreated)
}

func (h *Handler) updateMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing domain.Medicine
	err = h.db.Get(&existing,
		`SELECT id, name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier, units_sold, created_at
         FROM medicines WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch medicine")
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Category != "" {
		existing.Category = req.Category
	}
	if req.BatchNumber != "" {
		existing.BatchNumber = req.BatchNumber
	}
	if req.ExpiryDate != "" {
		existing.ExpiryDate = req.ExpiryDate
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			respondError(w, http.StatusBadRequest, "quantity must not be negative")
			return
		}
		existing.Quantity = *req.Quantity
	}
	if req.Price != nil {
		existing.Price = *req.Price
	}
	if req.ReorderLevel != nil {
		existing.ReorderLevel = *req.ReorderLevel
	}
	if req.Supplier != "" {
		existing.Supplier = req.Supplier
	}
	if req.UnitsSold != nil {
		existing.UnitsSold = *req.UnitsSold
	}

	_, err = h.db.Exec(
		`UPDATE medicines SET name = $1, category = $2, batch_number = $3, expiry_date = $4, quantity = $5,
         price = $6, reorder_level = $7, supplier = $8, units_sold = $9 WHERE id = $10`,
		existing.Name, existing.Category, existing.BatchNumber, existing.ExpiryDate, existing.Quantity,
		existing.Price, existing.ReorderLevel, existing.Supplier, existing.UnitsSold, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update medicine")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (h *Handler) deleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid medicine id")
		return
	}
	res, err := h.db.Exec(`DELETE FROM medicines WHERE id = $1`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete medicine")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "medicine not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "medicine deleted successfully"})
}

func (h *Handler) getMedicineByID(w http.ResponseWriter, id int64, status int) {
	var medicine domain.Medicine
	err := h.db.Get(&medicine,
		`SELECT id, name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier, units_sold, created_at
         FROM medicines WHERE id = $1`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch medicine")
		return
	}
	respondJSON(w, status, medicine)
}

// Customer handlers

type customerRequest struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          string   `json:"email"`
	Address        string   `json:"address"`
	TotalPurchases *float64 `json:"totalPurchases"`
	LastVisit      string   `json:"lastVisit"`
}

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	var customers []domain.Customer
	err := h.db.Select(&customers,
		`SELECT id, name, phone, email, address, total_purchases, last_visit FROM customers ORDER BY name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch customers")
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var customer domain.Customer
	err = h.db.Get(&customer,
		`SELECT id, name, phone, email, address, total_purchases, last_visit FROM customers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch customer")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Phone == "" || req.Email == "" || req.Address == "" {
		respondError(w, http.StatusBadRequest, "name, phone, email and address are required")
		return
	}

	totalPurchases := 0.0
	if req.TotalPurchases != nil {
		totalPurchases = *req.TotalPurchases
	}
	var id int64
	err := h.db.QueryRowx(
		`INSERT INTO customers (name, phone, email, address, total_purchases, last_visit)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.Name, req.Phone, req.Email, req.Address, totalPurchases, req.LastVisit).Scan(&id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create customer")
		return
	}
	respondJSON(w, http.StatusCreated, domain.Customer{
		ID: id, Name: req.Name, Phone: req.Phone, Email: req.Email,
		Address: req.Address, TotalPurchases: totalPurchases, LastVisit: req.LastVisit,
	})
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing domain.Customer
	err = h.db.Get(&existing,
		`SELECT id, name, phone, email, address, total_purchases, last_visit FROM customers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch customer")
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Address != "" {
		existing.Address = req.Address
	}
	if req.TotalPurchases != nil {
		existing.TotalPurchases = *req.TotalPurchases
	}
	if req.LastVisit != "" {
		existing.LastVisit = req.LastVisit
	}

	_, err = h.db.Exec(
		`UPDATE customers SET name = $1, phone = $2, email = $3, address = $4, total_purchases = $5, last_visit = $6 WHERE id = $7`,
		existing.Name, existing.Phone, existing.Email, existing.Address, existing.TotalPurchases, existing.LastVisit, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update customer")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}
	res, err := h.db.Exec(`DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete customer")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "customer deleted successfully"})
}

// Supplier handlers

type supplierRequest struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Products      *int64 `json:"products"`
}

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	var suppliers []domain.Supplier
	err := h.db.Select(&suppliers,
		`SELECT id, name, contact_person, phone, email, address, products, created_at FROM suppliers ORDER BY name`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch suppliers")
		return
	}
	respondJSON(w, http.StatusOK, suppliers)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.ContactPerson == "" || req.Phone == "" || req.Email == "" || req.Address == "" {
		respondError(w, http.StatusBadRequest, "name, contact person, phone, email and address are required")
		return
	}

	products := int64(0)
	if req.Products != nil {
		products = *req.Products
	}
	var id int64
	err := h.db.QueryRowx(
		`INSERT INTO suppliers (name, contact_person, phone, email, address, products)
         VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.Name, req.ContactPerson, req.Phone, req.Email, req.Address, products).Scan(&id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to create supplier")
		return
	}
	respondJSON(w, http.StatusCreated, domain.Supplier{
		ID: id, Name: req.Name, ContactPerson: req.ContactPerson, Phone: req.Phone,
		Email: req.Email, Address: req.Address, Products: products,
	})
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}
	var req supplierRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var existing domain.Supplier
	err = h.db.Get(&existing,
		`SELECT id, name, contact_person, phone, email, address, products, created_at FROM suppliers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to fetch supplier")
		return
	}

	if req.Name != "" {
		existing.Name = req.Name
	}
	if req.ContactPerson != "" {
		existing.ContactPerson = req.ContactPerson
	}
	if req.Phone != "" {
		existing.Phone = req.Phone
	}
	if req.Email != "" {
		existing.Email = req.Email
	}
	if req.Address != "" {
		existing.Address = req.Address
	}
	if req.Products != nil {
		existing.Products = *req.Products
	}

	_, err = h.db.Exec(
		`UPDATE suppliers SET name = $1, contact_person = $2, phone = $3, email = $4, address = $5, products = $6 WHERE id = $7`,
		existing.Name, existing.ContactPerson, existing.Phone, existing.Email, existing.Address, existing.Products, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to update supplier")
		return
	}
	respondJSON(w, http.StatusOK, existing)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid supplier id")
		return
	}
	res, err := h.db.Exec(`DELETE FROM suppliers WHERE id = $1`, id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "unable to delete supplier")
		return
	}
	if affected, _ := res.RowsAffected(); affected == 0 {
		respondError(w, http.StatusNotFound, "supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "supplier deleted successfully"})
}
