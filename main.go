package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"remedy/m/internal/api"
	"remedy/m/internal/config"
	"remedy/m/internal/database"
	"remedy/m/internal/migrations"
	"remedy/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	if cfg.MedicineCatalog != "" {
		seed.LoadMedicines(db, cfg.MedicineCatalog)
	}

	handler := api.New(db, cfg.Secret)

	log.Printf("Remedy pharmacy server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
