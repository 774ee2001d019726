package api

import (
	"net/http"
)

var monthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

type monthlyPoint struct {
	Name  string  `json:"name"`
	Total float64 `json:"total"`
}

// monthlySales mirrors the dashboard revenue chart: units sold times price,
// grouped by the month the medicine record was created.
func (h *Handler) monthlySales(w http.ResponseWriter, r *http.Request) {
	var rows []struct {
		Month int     `db:"month"`
		Total float64 `db:"total"`
	}
	err := h.db.Select(&rows,
		`SELECT CAST(strftime('%m', created_at) AS INTEGER) AS month, SUM(units_sold * price) AS total
         FROM medicines GROUP BY month ORDER BY month`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch monthly sales")
		return
	}
	points := make([]monthlyPoint, 0, len(rows))
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		points = append(points, monthlyPoint{Name: monthNames[row.Month-1], Total: row.Total})
	}
	respondJSON(w, http.StatusOK, points)
}

func (h *Handler) salesByCategory(w http.ResponseWriter, r *http.Request) {
	var rows []struct {
		Name  string `db:"name" json:"name"`
		Value int64  `db:"value" json:"value"`
	}
	err := h.db.Select(&rows,
		`SELECT COALESCE(category, '') AS name, SUM(units_sold) AS value FROM medicines GROUP BY category`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch category sales")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) topSelling(w http.ResponseWriter, r *http.Request) {
	var rows []struct {
		ID        int64   `db:"id" json:"id"`
		Name      string  `db:"name" json:"name"`
		Category  string  `db:"category" json:"category"`
		UnitsSold int64   `db:"units_sold" json:"unitsSold"`
		Revenue   float64 `db:"revenue" json:"revenue"`
	}
	err := h.db.Select(&rows,
		`SELECT id, name, COALESCE(category, '') AS category, units_sold, units_sold * price AS revenue
         FROM medicines ORDER BY units_sold DESC LIMIT 5`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch top selling")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

// expiringSoon lists medicines whose expiry date falls within the next 60 days.
func (h *Handler) expiringSoon(w http.ResponseWriter, r *http.Request) {
	var rows []struct {
		ID          int64  `db:"id" json:"id"`
		Name        string `db:"name" json:"name"`
		BatchNumber string `db:"batch_number" json:"batchNumber"`
		Quantity    int64  `db:"quantity" json:"quantity"`
		ExpiryDate  string `db:"expiry_date" json:"expiryDate"`
	}
	err := h.db.Select(&rows,
		`SELECT id, name, COALESCE(batch_number, '') AS batch_number, quantity, expiry_date
         FROM medicines
         WHERE expiry_date IS NOT NULL
           AND date(expiry_date) >= date('now')
           AND date(expiry_date) <= date('now', '+60 days')
         ORDER BY expiry_date`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch expiring medicines")
		return
	}
	respondJSON(w, http.StatusOK, rows)
}

func (h *Handler) inventoryTrends(w http.ResponseWriter, r *http.Request) {
	var rows []struct {
		Month int     `db:"month"`
		Total float64 `db:"total"`
	}
	err := h.db.Select(&rows,
		`SELECT CAST(strftime('%m', created_at) AS INTEGER) AS month, SUM(quantity) AS total
         FROM medicines GROUP BY month ORDER BY month`)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to fetch inventory trends")
		return
	}
	points := make([]monthlyPoint, 0, len(rows))
	for _, row := range rows {
		if row.Month < 1 || row.Month > 12 {
			continue
		}
		points = append(points, monthlyPoint{Name: monthNames[row.Month-1], Total: row.Total})
	}
	respondJSON(w, http.StatusOK, points)
}
