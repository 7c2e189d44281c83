package store

import (
	"context"
	"fmt"

	"github.com/PratikDhanave/detection-sessions/internal/events"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Backend is an events.Store with its connection lifecycle.
type Backend interface {
	events.Store
	EnsureSchema(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var (
	_ Backend = (*PostgresStore)(nil)
	_ Backend = (*SQLiteStore)(nil)
)

// Open connects to the named driver and applies its schema. The caller owns
// the returned Backend and must Close it.
func Open(ctx context.Context, driver, url string) (Backend, error) {
	var (
		b   Backend
		err error
	)
	switch driver {
	case DriverPostgres:
		b, err = NewPostgresStore(ctx, url)
	case DriverSQLite:
		b, err = NewSQLiteStore(ctx, url)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", driver, err)
	}
	if err := b.EnsureSchema(ctx); err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("ensure %s schema: %w", driver, err)
	}
	return b, nil
}
