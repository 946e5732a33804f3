// Package storage provides local persistent storage for decoded
// clearing records, for ad-hoc querying of IPM file contents.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"ipm_parser/internal/iso8583"
)

// DB wraps a SQLite database holding decoded clearing records.
type DB struct {
	db     *sql.DB
	insert *sql.Stmt
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent access.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	insert, err := db.Prepare(`
		INSERT INTO records (
			mti, function_code, pan, transaction_amount, transaction_date,
			merchant_name, record_json
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}

	return &DB{db: db, insert: insert}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.insert != nil {
		_ = d.insert.Close()
	}
	return d.db.Close()
}

// createSchema creates the database tables and indices.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		mti TEXT NOT NULL,
		function_code TEXT,
		pan TEXT,
		transaction_amount TEXT,
		transaction_date TEXT,
		merchant_name TEXT,
		record_json TEXT NOT NULL,
		created_at TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_records_mti ON records(mti);
	CREATE INDEX IF NOT EXISTS idx_records_function_code ON records(function_code);
	CREATE INDEX IF NOT EXISTS idx_records_transaction_date ON records(transaction_date);
	`
	_, err := db.Exec(schema)
	return err
}

// InsertRecord stores one decoded record. Key data elements are
// denormalised into their own columns; the full record is kept as JSON.
func (d *DB) InsertRecord(rec iso8583.Record) error {
	recordJSON, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = d.insert.Exec(
		rec["MTI"].String(),
		rec["DE24"].String(),
		rec["DE2"].String(),
		rec["DE4"].String(),
		rec["DE12"].String(),
		rec["DE43_NAME"].String(),
		string(recordJSON),
	)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM records").Scan(&count)
	return count, err
}
