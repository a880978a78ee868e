// Package sqlite is the embedded fact store used for local and offline runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
}

// New opens the database at path and creates the schema if needed.
func New(path string) (*DB, error) {
	if path != MemoryPath {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps an in-memory database alive and shared.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{DB: sqlDB}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Ping checks the connection; it satisfies the health checker.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}

func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

// schema mirrors the Postgres migrations. Dates are stored as YYYY-MM-DD
// text and ids as opaque text.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS provinces (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS work_types (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'technician',
		is_active INTEGER NOT NULL DEFAULT 1,
		is_key_employee INTEGER NOT NULL DEFAULT 0,
		province_code TEXT REFERENCES provinces (code)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id TEXT PRIMARY KEY,
		work_type_code TEXT REFERENCES work_types (code),
		province_code TEXT REFERENCES provinces (code)
	)`,
	`CREATE TABLE IF NOT EXISTS appointments (
		id TEXT PRIMARY KEY,
		ticket_id TEXT NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
		scheduled_date TEXT NOT NULL,
		appointment_type TEXT,
		status TEXT NOT NULL DEFAULT 'scheduled'
			CHECK (status IN ('scheduled', 'confirmed', 'cancelled'))
	)`,
	`CREATE TABLE IF NOT EXISTS appointment_technicians (
		appointment_id TEXT NOT NULL REFERENCES appointments (id) ON DELETE CASCADE,
		employee_id TEXT NOT NULL REFERENCES employees (id),
		PRIMARY KEY (appointment_id, employee_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_appointments_scheduled_date ON appointments (scheduled_date)`,
}

func (db *DB) createSchema() error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(context.Background(), stmt); err != nil {
			return err
		}
	}
	return nil
}
