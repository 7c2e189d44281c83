package models

import "time"

// Event is a single stored detection. ID is assigned by the store on insert.
type Event struct {
	ID        int64
	Timestamp time.Time
	Category  string
}

// Before reports whether e sorts before o in the canonical event order:
// timestamp ascending, then id ascending.
func (e Event) Before(o Event) bool {
	if !e.Timestamp.Equal(o.Timestamp) {
		return e.Timestamp.Before(o.Timestamp)
	}
	return e.ID < o.ID
}

// CompareEvents is the three-way form of Event.Before, for slices.SortFunc.
func CompareEvents(a, b Event) int {
	switch {
	case a.Before(b):
		return -1
	case b.Before(a):
		return 1
	default:
		return 0
	}
}

// EventIngestRequest is the POST /events payload.
type EventIngestRequest struct {
	Timestamp string `json:"timestamp" binding:"required"`
	Category  string `json:"category" binding:"required"`
}

// EventView is the wire form of an Event.
type EventView struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Category  string `json:"category"`
}

// View renders e for API responses.
func (e Event) View() EventView {
	return EventView{ID: e.ID, Timestamp: FormatTimestamp(e.Timestamp), Category: e.Category}
}

// EventIngestResponse is returned by POST /events.
// Duplicate indicates idempotent success (the event already existed); Event is then nil.
type EventIngestResponse struct {
	Event     *EventView `json:"event,omitempty"`
	Duplicate bool       `json:"duplicate"`
	Alert     *AlertView `json:"alert,omitempty"`
	// StreakCheckFailed means the event was stored but the streak check
	// after it could not run.
	StreakCheckFailed bool `json:"streak_check_failed,omitempty"`
}
