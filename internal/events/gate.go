package events

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// StreakRule names the streak check IngestGate runs after inserts whose
// category belongs to TriggerGroup.
type StreakRule struct {
	TriggerGroup string
	Watched      string
	Threshold    int
}

// DefaultStreakRule alerts on five pedestrians in a row, checked after
// every People insert.
var DefaultStreakRule = StreakRule{
	TriggerGroup: models.GroupPeople,
	Watched:      "pedestrian",
	Threshold:    5,
}

// IngestResult is the outcome of one admitted or skipped event.
// Event is nil when the event was already stored.
//
// StreakErr is set when the event was written and confirmed but the
// follow-up streak check failed. The write stands; callers must not report
// the insert as failed, since a retry would be a duplicate and skip the check.
type IngestResult struct {
	Event     *models.Event
	Alert     *models.Alert
	StreakErr error
}

// Duplicate reports whether the insert was an idempotent no-op.
func (r IngestResult) Duplicate() bool { return r.Event == nil }

// IngestGate admits events one at a time, deduplicating on
// (timestamp, category) and running the streak check after trigger inserts.
type IngestGate struct {
	store    Store
	streaks  *StreakDetector
	rule     StreakRule
	observer Observer
}

// NewIngestGate wires a gate over st. The detector shares the observer.
func NewIngestGate(st Store, rule StreakRule, obs Observer) *IngestGate {
	obs = observerOrNop(obs)
	return &IngestGate{
		store:    st,
		streaks:  NewStreakDetector(st, obs),
		rule:     rule,
		observer: obs,
	}
}

// Ingest parses a raw timestamp and inserts the event.
func (g *IngestGate) Ingest(ctx context.Context, rawTimestamp, category string) (IngestResult, error) {
	ts, err := models.ParseTimestamp(rawTimestamp)
	if err != nil {
		return IngestResult{}, &ValidationError{Field: "timestamp", Reason: err.Error()}
	}
	return g.Insert(ctx, ts, category)
}

// Insert stores (ts, category) unless an identical pair already exists.
//
// The store's insert is atomic on the pair, so concurrent callers cannot
// both write it; the leading Exists only short-circuits the common repeat.
// After a write the pair is read back, and a miss is a *ConsistencyError.
func (g *IngestGate) Insert(ctx context.Context, ts time.Time, category string) (IngestResult, error) {
	if ts.IsZero() {
		return IngestResult{}, &ValidationError{Field: "timestamp", Reason: "must be set"}
	}
	ts = models.NormalizeTimestamp(ts)
	category = models.NormalizeCategory(category)
	if category == "" {
		return IngestResult{}, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if utf8.RuneCountInString(category) > models.MaxCategoryLen {
		return IngestResult{}, &ValidationError{Field: "category", Reason: "longer than 50 characters"}
	}

	found, err := g.store.Exists(ctx, ts, category)
	if err != nil {
		return IngestResult{}, storageErr("exists", err)
	}
	if found {
		g.observer.DuplicateSkipped(ts, category)
		return IngestResult{}, nil
	}

	ev, inserted, err := g.store.Insert(ctx, ts, category)
	if err != nil {
		return IngestResult{}, storageErr("insert", err)
	}
	if !inserted {
		g.observer.DuplicateSkipped(ts, category)
		return IngestResult{}, nil
	}

	found, err = g.store.Exists(ctx, ts, category)
	if err != nil {
		return IngestResult{}, storageErr("verify", err)
	}
	if !found {
		return IngestResult{}, &ConsistencyError{Timestamp: ts, Category: category}
	}
	g.observer.EventIngested(ev)

	res := IngestResult{Event: &ev}
	if g.rule.Threshold > 0 && models.InGroup(category, g.rule.TriggerGroup) {
		res.Alert, res.StreakErr = g.streaks.Check(ctx, g.rule.Watched, g.rule.Threshold)
	}
	return res, nil
}
