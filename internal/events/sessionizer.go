package events

import (
	"context"
	"slices"
	"time"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// DefaultSessionGap is the largest spacing between two same-group events
// that keeps them in one session.
const DefaultSessionGap = 60 * time.Second

// Sessionizer groups the event history into per-group sessions.
type Sessionizer struct {
	store    Store
	gap      time.Duration
	observer Observer
}

// NewSessionizer returns a Sessionizer over st. A non-positive gap selects
// DefaultSessionGap.
func NewSessionizer(st Store, gap time.Duration, obs Observer) *Sessionizer {
	if gap <= 0 {
		gap = DefaultSessionGap
	}
	return &Sessionizer{store: st, gap: gap, observer: observerOrNop(obs)}
}

// Compute reads the full history and returns its sessions ordered by start.
func (s *Sessionizer) Compute(ctx context.Context) ([]models.Session, error) {
	history, err := s.store.ListAscending(ctx)
	if err != nil {
		return nil, storageErr("list", err)
	}
	sessions := Sessionize(history, s.gap)
	s.observer.SessionsComputed(sessions)
	return sessions, nil
}

// Report is Compute rendered into the external report shape.
func (s *Sessionizer) Report(ctx context.Context) (models.SessionReport, error) {
	sessions, err := s.Compute(ctx)
	if err != nil {
		return nil, err
	}
	return models.FormatSessions(sessions), nil
}

// Sessionize partitions events into sessions per group. Events whose
// category has no group are ignored entirely: they neither open nor break a
// session. Two consecutive same-group events stay in one session when they
// are at most gap apart; events of other groups in between do not matter.
//
// Input order is not trusted; events are put in (timestamp, id) order first.
// The result is ordered by start time, ties by group discovery order.
func Sessionize(history []models.Event, gap time.Duration) []models.Session {
	ordered := slices.Clone(history)
	slices.SortStableFunc(ordered, models.CompareEvents)

	var (
		sessions []models.Session
		open     = map[string]int{} // group -> index of its open session
	)
	for _, ev := range ordered {
		group, ok := models.GroupOf(ev.Category)
		if !ok {
			continue
		}
		if i, ok := open[group]; ok && ev.Timestamp.Sub(sessions[i].End) <= gap {
			sessions[i].End = ev.Timestamp
			sessions[i].Count++
			continue
		}
		open[group] = len(sessions)
		sessions = append(sessions, models.Session{
			Group: group,
			Start: ev.Timestamp,
			End:   ev.Timestamp,
			Count: 1,
		})
	}
	return sessions
}
