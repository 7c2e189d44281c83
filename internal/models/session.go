package models

import (
	"strings"
	"time"
)

// Session is a maximal run of same-group events in which no two consecutive
// events are further apart than the gap threshold. Sessions are derived on
// demand and never stored.
type Session struct {
	Group string
	Start time.Time
	End   time.Time
	Count int
}

// Duration is End minus Start; zero for a single-event session.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// SessionReport maps lower-cased group labels to [start, end] pairs in
// order of discovery.
type SessionReport map[string][][2]string

// FormatSessions renders sessions (already ordered by start) into the
// external report shape. An empty input yields an empty, non-nil report.
func FormatSessions(sessions []Session) SessionReport {
	report := SessionReport{}
	for _, s := range sessions {
		key := strings.ToLower(s.Group)
		report[key] = append(report[key], [2]string{FormatTimestamp(s.Start), FormatTimestamp(s.End)})
	}
	return report
}
