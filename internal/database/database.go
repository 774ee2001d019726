package database

import (
	"log"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Connect opens the SQLite store backing the pharmacy. The pool is capped at
// a single connection: sqlite allows one writer at a time, and serializing
// access through one connection keeps sale transactions from tripping over
// SQLITE_BUSY.
func Connect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	db.SetMaxOpenConns(1)
	return db
}
