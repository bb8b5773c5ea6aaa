// Copyright 2025 Granary Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists per-item age counters and the history of farming
// decisions in a local sqlite database.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	goversion "github.com/hashicorp/go-version"
	_ "modernc.org/sqlite"

	"github.com/dotandev/granary/internal/errors"
	"github.com/dotandev/granary/internal/farming"
)

// SchemaVersion is written into new databases. Existing databases must
// satisfy SchemaConstraint or the store refuses to open them.
const (
	SchemaVersion    = "1.1.0"
	SchemaConstraint = ">= 1.0, < 2.0"
)

// Store wraps the sqlite database.
type Store struct {
	db *sql.DB
}

// DecisionRecord is one persisted farming decision.
type DecisionRecord struct {
	ID        int64
	Timestamp time.Time
	EventID   string
	ItemID    string
	FarmerID  string
	Granted   bool
	Amount    farming.Amount
	Draw      float64
	Rate      float64
	Age       uint64
}

// SearchParams filters the decision history.
type SearchParams struct {
	ItemID      string
	FarmerID    string
	GrantedOnly bool
	Limit       int
}

// DefaultPath returns the database location: GRANARY_DB_PATH if set,
// otherwise granary.db under the user config directory.
func DefaultPath() string {
	if envPath := os.Getenv("GRANARY_DB_PATH"); envPath != "" {
		return envPath
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "granary.db"
	}
	return filepath.Join(dir, "granary", "granary.db")
}

// InitDB opens the store at the default path.
func InitDB() (*Store, error) {
	return Open(DefaultPath())
}

// Open opens or creates the database at path and verifies its schema
// version against SchemaConstraint.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS items (
	item_id TEXT PRIMARY KEY,
	age     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS decisions (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        INTEGER NOT NULL,
	event_id  TEXT NOT NULL,
	item_id   TEXT NOT NULL,
	farmer_id TEXT NOT NULL,
	granted   INTEGER NOT NULL,
	amount    INTEGER NOT NULL,
	draw      REAL NOT NULL,
	rate      REAL NOT NULL,
	age       INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_decisions_item ON decisions(item_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return s.checkSchemaVersion()
}

func (s *Store) checkSchemaVersion() error {
	var stored string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&stored)
	if err == sql.ErrNoRows {
		_, err = s.db.Exec(`INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, SchemaVersion)
		if err != nil {
			return fmt.Errorf("failed to record schema version: %w", err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	v, err := goversion.NewVersion(stored)
	if err != nil {
		return errors.WrapSchemaIncompatible(stored, SchemaConstraint)
	}
	constraint, err := goversion.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("bad schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return errors.WrapSchemaIncompatible(stored, SchemaConstraint)
	}
	return nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// ItemAge returns the persisted age counter for an item. An item never
// stored before starts at age zero.
func (s *Store) ItemAge(itemID string) (farming.AgeCounter, error) {
	var age int64
	err := s.db.QueryRow(`SELECT age FROM items WHERE item_id = ?`, itemID).Scan(&age)
	if err == sql.ErrNoRows {
		return farming.AgeCounter{}, nil
	}
	if err != nil {
		return farming.AgeCounter{}, fmt.Errorf("failed to read item age: %w", err)
	}
	return farming.AgeCounter{Age: uint64(age)}, nil
}

// SetItemAge upserts the age counter for an item.
func (s *Store) SetItemAge(itemID string, age farming.AgeCounter) error {
	_, err := s.db.Exec(
		`INSERT INTO items (item_id, age) VALUES (?, ?)
		 ON CONFLICT(item_id) DO UPDATE SET age = excluded.age`,
		itemID, int64(age.Age),
	)
	if err != nil {
		return fmt.Errorf("failed to persist item age: %w", err)
	}
	return nil
}

// DeleteItem removes an item and its age. A re-stored item is a logically
// new item and starts over at age zero.
func (s *Store) DeleteItem(itemID string) error {
	_, err := s.db.Exec(`DELETE FROM items WHERE item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// RecordDecision appends one decision to the history.
func (s *Store) RecordDecision(rec DecisionRecord) error {
	granted := 0
	if rec.Granted {
		granted = 1
	}
	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := s.db.Exec(
		`INSERT INTO decisions (ts, event_id, item_id, farmer_id, granted, amount, draw, rate, age)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ts.Unix(), rec.EventID, rec.ItemID, rec.FarmerID, granted,
		int64(rec.Amount), rec.Draw, rec.Rate, int64(rec.Age),
	)
	if err != nil {
		return fmt.Errorf("failed to record decision: %w", err)
	}
	return nil
}

// SearchDecisions returns history entries matching params, newest first.
func (s *Store) SearchDecisions(params SearchParams) ([]DecisionRecord, error) {
	query := `SELECT id, ts, event_id, item_id, farmer_id, granted, amount, draw, rate, age FROM decisions WHERE 1=1`
	var args []any
	if params.ItemID != "" {
		query += ` AND item_id = ?`
		args = append(args, params.ItemID)
	}
	if params.FarmerID != "" {
		query += ` AND farmer_id = ?`
		args = append(args, params.FarmerID)
	}
	if params.GrantedOnly {
		query += ` AND granted = 1`
	}
	query += ` ORDER BY id DESC`
	limit := params.Limit
	if limit <= 0 {
		limit = 10
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	defer rows.Close()

	var out []DecisionRecord
	for rows.Next() {
		var rec DecisionRecord
		var ts, granted, amount, age int64
		if err := rows.Scan(&rec.ID, &ts, &rec.EventID, &rec.ItemID, &rec.FarmerID,
			&granted, &amount, &rec.Draw, &rec.Rate, &age); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0)
		rec.Granted = granted == 1
		rec.Amount = farming.Amount(amount)
		rec.Age = uint64(age)
		out = append(out, rec)
	}
	return out, rows.Err()
}
