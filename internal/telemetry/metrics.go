// Package telemetry turns core outcomes into log lines and Prometheus
// metrics. Metrics are registered with the default registry and served by
// promhttp on /metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_events_ingested_total",
			Help: "Events written to the store, by category",
		},
		[]string{"category"},
	)

	EventsDuplicate = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "detection_events_duplicate_total",
			Help: "Ingest calls skipped because the (timestamp, category) pair was already stored",
		},
	)

	SessionBatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "detection_session_batches_total",
			Help: "Session reports computed",
		},
	)

	SessionsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_sessions_emitted_total",
			Help: "Sessions produced across all reports, by group",
		},
		[]string{"group"},
	)

	StreakAlerts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "detection_streak_alerts_total",
			Help: "Streak alerts raised, by watched category",
		},
		[]string{"category"},
	)
)
