package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

const (
	sqliteDriver = "sqlite"
	sqliteDSNOpt = "?_pragma=busy_timeout(3000)&_pragma=journal_mode(WAL)"
)

//go:embed schema_sqlite.sql
var sqliteSchemaSQL string

// SQLiteStore keeps events in a local SQLite file. Timestamps are stored as
// Unix microseconds so ordering and equality are plain integer comparisons.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database file at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create dir: %w", err)
	}
	db, err := sql.Open(sqliteDriver, path+sqliteDSNOpt)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite store: ping: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// EnsureSchema creates the events table and index if missing.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteSchemaSQL)
	return err
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Exists(ctx context.Context, ts time.Time, category string) (bool, error) {
	var found bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM events WHERE ts_us = ? AND category = ?)`,
		ts.UnixMicro(), category,
	).Scan(&found)
	return found, err
}

// Insert writes (ts, category) unless the pair exists; the UNIQUE constraint
// makes the check and the write one statement.
func (s *SQLiteStore) Insert(ctx context.Context, ts time.Time, category string) (models.Event, bool, error) {
	if category == "" {
		return models.Event{}, false, errors.New("category required")
	}
	const q = `
INSERT INTO events (ts_us, category, created_at)
VALUES (?, ?, ?)
ON CONFLICT (ts_us, category) DO NOTHING
RETURNING id`
	var id int64
	err := s.db.QueryRowContext(ctx, q, ts.UnixMicro(), category, time.Now().UnixMicro()).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Event{}, false, nil
	}
	if err != nil {
		return models.Event{}, false, err
	}
	return models.Event{ID: id, Timestamp: models.NormalizeTimestamp(ts), Category: category}, true, nil
}

func (s *SQLiteStore) ListAscending(ctx context.Context) ([]models.Event, error) {
	return s.query(ctx, `
SELECT id, ts_us, category
FROM events
ORDER BY ts_us ASC, id ASC`)
}

func (s *SQLiteStore) MostRecent(ctx context.Context, limit int) ([]models.Event, error) {
	return s.query(ctx, `
SELECT id, ts_us, category
FROM events
ORDER BY ts_us DESC, id DESC
LIMIT ?`, limit)
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var (
			ev models.Event
			us int64
		)
		if err := rows.Scan(&ev.ID, &us, &ev.Category); err != nil {
			return nil, err
		}
		ev.Timestamp = time.UnixMicro(us).UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
