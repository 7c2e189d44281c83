package store

import (
	"context"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}

// Exists reports whether (ts, category) is stored.
func (p *PostgresStore) Exists(ctx context.Context, ts time.Time, category string) (bool, error) {
	var found bool
	err := p.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM events WHERE ts = $1 AND category = $2)
	`, ts.UTC(), category).Scan(&found)
	return found, err
}

// Insert persists an event and returns inserted=false when it is a duplicate.
//
// Duplicate detection is enforced by the unique constraint on (ts, category),
// so two concurrent inserts of the same pair cannot both succeed.
func (p *PostgresStore) Insert(ctx context.Context, ts time.Time, category string) (models.Event, bool, error) {
	if category == "" {
		return models.Event{}, false, errors.New("category required")
	}

	// RETURNING yields a row only when inserted; duplicates return no rows.
	ev := models.Event{Category: category}
	err := p.pool.QueryRow(ctx, `
		INSERT INTO events (ts, category)
		VALUES ($1, $2)
		ON CONFLICT (ts, category) DO NOTHING
		RETURNING id, ts
	`, ts.UTC(), category).Scan(&ev.ID, &ev.Timestamp)

	if errors.Is(err, pgx.ErrNoRows) {
		return models.Event{}, false, nil
	}
	if err != nil {
		return models.Event{}, false, err
	}
	ev.Timestamp = ev.Timestamp.UTC()
	return ev, true, nil
}

// ListAscending returns every event in (ts, id) order. The single statement
// reads one consistent snapshot.
func (p *PostgresStore) ListAscending(ctx context.Context) ([]models.Event, error) {
	return p.query(ctx, `
		SELECT id, ts, category
		FROM events
		ORDER BY ts ASC, id ASC
	`)
}

// MostRecent returns at most limit events in (ts, id) descending order.
func (p *PostgresStore) MostRecent(ctx context.Context, limit int) ([]models.Event, error) {
	return p.query(ctx, `
		SELECT id, ts, category
		FROM events
		ORDER BY ts DESC, id DESC
		LIMIT $1
	`, limit)
}

func (p *PostgresStore) query(ctx context.Context, sql string, args ...any) ([]models.Event, error) {
	rows, err := p.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Event
	for rows.Next() {
		var ev models.Event
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.Category); err != nil {
			return nil, err
		}
		ev.Timestamp = ev.Timestamp.UTC()
		out = append(out, ev)
	}
	return out, rows.Err()
}
