package events

import (
	"context"
	"time"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// Store is the ordered event store the core reads and writes through.
//
// Implementations order events by (timestamp, id) ascending; MostRecent is
// the exact reverse of that order. Insert must be atomic with respect to the
// (timestamp, category) uniqueness key: when the pair already exists it
// returns inserted=false and writes nothing.
type Store interface {
	Exists(ctx context.Context, ts time.Time, category string) (bool, error)
	Insert(ctx context.Context, ts time.Time, category string) (ev models.Event, inserted bool, err error)
	ListAscending(ctx context.Context) ([]models.Event, error)
	MostRecent(ctx context.Context, limit int) ([]models.Event, error)
}

// Observer receives the discrete outcomes the core produces. Rendering them
// as log lines or metrics is the observer's business.
type Observer interface {
	EventIngested(ev models.Event)
	DuplicateSkipped(ts time.Time, category string)
	SessionsComputed(sessions []models.Session)
	StreakAlert(alert models.Alert)
}

type nopObserver struct{}

func (nopObserver) EventIngested(models.Event)         {}
func (nopObserver) DuplicateSkipped(time.Time, string) {}
func (nopObserver) SessionsComputed([]models.Session)  {}
func (nopObserver) StreakAlert(models.Alert)           {}

func observerOrNop(o Observer) Observer {
	if o == nil {
		return nopObserver{}
	}
	return o
}
