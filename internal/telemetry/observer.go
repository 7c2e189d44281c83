package telemetry

import (
	"strings"
	"time"

	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// Observer logs and counts every outcome reported by the core.
type Observer struct{}

var _ events.Observer = Observer{}

func (Observer) EventIngested(ev models.Event) {
	EventsIngested.WithLabelValues(ev.Category).Inc()
	logging.Info().
		Int64("id", ev.ID).
		Str("timestamp", models.FormatTimestamp(ev.Timestamp)).
		Str("category", ev.Category).
		Msg("event ingested")
}

func (Observer) DuplicateSkipped(ts time.Time, category string) {
	EventsDuplicate.Inc()
	logging.Info().
		Str("timestamp", models.FormatTimestamp(ts)).
		Str("category", category).
		Msg("event already exists")
}

func (Observer) SessionsComputed(sessions []models.Session) {
	SessionBatches.Inc()
	perGroup := map[string]int{}
	for _, s := range sessions {
		perGroup[strings.ToLower(s.Group)]++
	}
	for group, n := range perGroup {
		SessionsEmitted.WithLabelValues(group).Add(float64(n))
	}
	logging.Info().
		Int("sessions", len(sessions)).
		Interface("per_group", perGroup).
		Msg("sessions computed")
}

func (Observer) StreakAlert(a models.Alert) {
	StreakAlerts.WithLabelValues(a.Category).Inc()
	logging.Warn().
		Str("category", a.Category).
		Int("count", a.Count).
		Str("through", models.FormatTimestamp(a.Through)).
		Msgf("alert: %s detected in %d consecutive events", a.Category, a.Count)
}
