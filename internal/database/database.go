package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps sql.DB for the studio service.
type DB struct {
	*sql.DB
}

// New opens the database at path and runs migrations.
func New(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := createTables(db); err != nil {
		return nil, err
	}
	return &DB{db}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS staff (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			permissions TEXT NOT NULL DEFAULT '[]',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id TEXT PRIMARY KEY,
			reservation_number INTEGER UNIQUE NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			phone TEXT NOT NULL,
			appointment_date TEXT NOT NULL,
			appointment_time TEXT NOT NULL,
			total_price REAL NOT NULL DEFAULT 0,
			deposit_paid REAL NOT NULL DEFAULT 0,
			is_paid BOOLEAN NOT NULL DEFAULT 0,
			deposit_paid_status BOOLEAN NOT NULL DEFAULT 0,
			rest_paid_status BOOLEAN NOT NULL DEFAULT 0,
			design_images TEXT NOT NULL DEFAULT '[]',
			notes TEXT,
			artist_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// High-water mark for reservation numbering. A number freed by a
		// delete must never come back, so the counter only moves forward.
		`CREATE TABLE IF NOT EXISTS reservation_counter (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_number INTEGER NOT NULL
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_reservations_date ON reservations(appointment_date, appointment_time)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_number ON reservations(reservation_number)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_created ON reservations(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_staff_username ON staff(username)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}
