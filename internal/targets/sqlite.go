// Package targets persists user-configured KPI targets in a small
// SQLite-backed key-value store so they survive server restarts.
package targets

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the default Store implementation: a single kv table holding
// the serialized target record under StoreKey.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens or creates the target database at path and initializes the schema.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("targets: open db: %w", err)
	}
	// WAL keeps reads cheap while a save is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("targets: set WAL mode: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("targets: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load reads the persisted target record. A missing row or an unparseable
// value yields Defaults, never an error: targets degrade gracefully the same
// way cell values do.
func (s *SQLiteStore) Load(ctx context.Context) (Targets, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE name = ?", StoreKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return Defaults(), nil
	}
	if err != nil {
		return Defaults(), fmt.Errorf("targets: load: %w", err)
	}
	var t Targets
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return Defaults(), nil
	}
	return t, nil
}

// Save replaces the stored target record. Writing the same record twice is
// idempotent.
func (s *SQLiteStore) Save(ctx context.Context, t Targets) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("targets: marshal: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (name, value) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`,
		StoreKey, string(raw))
	if err != nil {
		return fmt.Errorf("targets: save: %w", err)
	}
	return nil
}
