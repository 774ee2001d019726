package seed

import (
	"encoding/csv"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadMedicines ingests a catalog CSV into the medicines table, ignoring
// batches that already exist. Expected columns:
// name,category,batch_number,expiry_date,quantity,price,reorder_level,supplier
func LoadMedicines(db *sqlx.DB, csvPath string) {
	file, err := os.Open(csvPath)
	if err != nil {
		log.Printf("unable to load medicine catalog %s: %v", csvPath, err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Skip header
	if _, err := reader.Read(); err != nil {
		log.Printf("unable to read medicine header: %v", err)
		return
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Printf("unable to start medicine transaction: %v", err)
		return
	}
	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO medicines
        (name, category, batch_number, expiry_date, quantity, price, reorder_level, supplier)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		log.Printf("unable to prepare medicine insert: %v", err)
		_ = tx.Rollback()
		return
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read medicine row: %v", err)
			continue
		}
		if len(record) < 8 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			continue
		}
		category := strings.TrimSpace(record[1])
		batch := strings.TrimSpace(record[2])
		expiry := strings.TrimSpace(record[3])
		quantity, _ := strconv.ParseInt(strings.TrimSpace(record[4]), 10, 64)
		price, _ := strconv.ParseFloat(strings.TrimSpace(record[5]), 64)
		reorder, _ := strconv.ParseInt(strings.TrimSpace(record[6]), 10, 64)
		supplier := strings.TrimSpace(record[7])
		if quantity < 0 || price < 0 {
			continue
		}
		if reorder <= 0 {
			reorder = 10
		}

		if _, err := stmt.Exec(name, category, batch, expiry, quantity, price, reorder, supplier); err != nil {
			log.Printf("unable to insert medicine %s: %v", name, err)
		} else {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("unable to commit medicine seed: %v", err)
	} else {
		log.Printf("seeded medicine catalog with %d rows", rows)
	}
}
