package events

import (
	"context"
	"strings"

	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// StreakDetector looks for an unbroken run of one category at the head of
// the event history. It only reads.
type StreakDetector struct {
	store    Store
	observer Observer
}

// NewStreakDetector returns a detector over st. A nil observer is allowed.
func NewStreakDetector(st Store, obs Observer) *StreakDetector {
	return &StreakDetector{store: st, observer: observerOrNop(obs)}
}

// Check fetches the threshold most recent events and returns an alert when
// all of them are the watched category. It returns (nil, nil) when no alert
// fires, including when fewer than threshold events exist.
func (d *StreakDetector) Check(ctx context.Context, watched string, threshold int) (*models.Alert, error) {
	watched = models.NormalizeCategory(watched)
	if watched == "" {
		return nil, &ValidationError{Field: "category", Reason: "must not be empty"}
	}
	if threshold <= 0 {
		return nil, &ValidationError{Field: "threshold", Reason: "must be positive"}
	}

	recent, err := d.store.MostRecent(ctx, threshold)
	if err != nil {
		return nil, storageErr("most recent", err)
	}

	count := CountStreak(recent, watched)
	if count < threshold {
		return nil, nil
	}

	alert := models.Alert{Category: watched, Count: count, Through: recent[0].Timestamp}
	d.observer.StreakAlert(alert)
	return &alert, nil
}

// CountStreak counts events matching category from the head of newestFirst,
// stopping at the first event of any other category.
func CountStreak(newestFirst []models.Event, category string) int {
	n := 0
	for _, ev := range newestFirst {
		if !strings.EqualFold(ev.Category, category) {
			break
		}
		n++
	}
	return n
}
