// File: internal/history/history.go

// Package history keeps a local log of executed queries in an embedded
// SQLite database, so operators can audit what was looked up and when.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Entry is one recorded query.
type Entry struct {
	ID        string
	Kind      string
	PID       string
	Value     string
	Status    string
	Detail    string
	CreatedAt time.Time
}

// Entry kinds.
const (
	KindSignature     = "signature"
	KindSuccessRate   = "success_rate"
	KindQualification = "qualification"
)

// Entry statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS query_history (
    id         TEXT PRIMARY KEY,
    kind       TEXT NOT NULL,
    pid        TEXT NOT NULL DEFAULT '',
    value      TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL,
    detail     TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_query_history_created_at ON query_history (created_at DESC);
`

// Store is the SQLite-backed history log.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Open creates (or opens) the history database at path and ensures the
// schema exists.
func Open(ctx context.Context, path string, logger *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply history schema: %w", err)
	}

	return &Store{db: db, log: logger.Named("history")}, nil
}

// Record appends one entry. Missing ID and CreatedAt fields are filled in.
func (s *Store) Record(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO query_history (id, kind, pid, value, status, detail, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Kind, entry.PID, entry.Value, entry.Status, entry.Detail, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	s.log.Debug("History entry recorded",
		zap.String("kind", entry.Kind),
		zap.String("status", entry.Status),
	)
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, pid, value, status, detail, created_at
         FROM query_history ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.PID, &e.Value, &e.Status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
