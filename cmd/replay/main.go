// Command replay feeds a bounded batch of events through the ingest gate,
// one at a time, then prints the session report and a final streak check.
//
//	replay -db /tmp/events.db                 # built-in sample batch, SQLite
//	replay -driver postgres -db $DB_URL -in batch.json
//
// A batch file is a JSON array of {"timestamp": "...", "category": "..."}.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"

	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
	"github.com/PratikDhanave/detection-sessions/internal/models"
	"github.com/PratikDhanave/detection-sessions/internal/store"
	"github.com/PratikDhanave/detection-sessions/internal/telemetry"
)

var sampleBatch = []models.EventIngestRequest{
	{Timestamp: "2023-08-10T18:30:30", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:31:00", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:31:00", Category: "car"},
	{Timestamp: "2023-08-10T18:31:30", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:35:00", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:35:30", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:36:00", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:37:00", Category: "pedestrian"},
	{Timestamp: "2023-08-10T18:37:30", Category: "pedestrian"},
}

type options struct {
	driver    string
	db        string
	in        string
	gap       string
	watched   string
	threshold int
	logFormat string
}

type output struct {
	Sessions models.SessionReport  `json:"sessions"`
	Streak   models.StreakResponse `json:"streak"`
}

func main() {
	var o options
	flag.StringVar(&o.driver, "driver", store.DriverSQLite, "store driver: sqlite or postgres")
	flag.StringVar(&o.db, "db", "events.db", "SQLite file path or Postgres URL")
	flag.StringVar(&o.in, "in", "", "JSON batch file (default: built-in sample batch)")
	flag.StringVar(&o.gap, "gap", events.DefaultSessionGap.String(), "session gap threshold")
	flag.StringVar(&o.watched, "category", events.DefaultStreakRule.Watched, "watched streak category")
	flag.IntVar(&o.threshold, "threshold", events.DefaultStreakRule.Threshold, "streak threshold")
	flag.StringVar(&o.logFormat, "log-format", "console", "log format: console or json")
	flag.Parse()

	logging.Init(logging.Config{Level: "info", Format: o.logFormat})

	if err := run(context.Background(), o, os.Stdout); err != nil {
		var cerr *events.ConsistencyError
		if errors.As(err, &cerr) {
			logging.Fatal().Err(err).Msg("store lost a confirmed write")
		}
		logging.Error().Err(err).Msg("replay failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, o options, w io.Writer) error {
	batch := sampleBatch
	if o.in != "" {
		var err error
		if batch, err = readBatch(o.in); err != nil {
			return err
		}
	}
	gap, err := parseGap(o.gap)
	if err != nil {
		return err
	}

	st, err := store.Open(ctx, o.driver, o.db)
	if err != nil {
		return err
	}
	defer st.Close()

	obs := telemetry.Observer{}
	rule := events.StreakRule{TriggerGroup: models.GroupPeople, Watched: o.watched, Threshold: o.threshold}
	gate := events.NewIngestGate(st, rule, obs)

	for _, e := range batch {
		res, err := gate.Ingest(ctx, e.Timestamp, e.Category)
		if res.StreakErr != nil {
			logging.Error().Err(res.StreakErr).Str("timestamp", e.Timestamp).Msg("streak check failed after insert")
		}
		if err != nil {
			var verr *events.ValidationError
			if errors.As(err, &verr) {
				logging.Warn().Err(err).Str("timestamp", e.Timestamp).Str("category", e.Category).Msg("skipping event")
				continue
			}
			return err
		}
	}

	report, err := events.NewSessionizer(st, gap, obs).Report(ctx)
	if err != nil {
		return err
	}
	alert, err := events.NewStreakDetector(st, obs).Check(ctx, o.watched, o.threshold)
	if err != nil {
		return err
	}

	out := output{
		Sessions: report,
		Streak: models.StreakResponse{
			Category:  models.NormalizeCategory(o.watched),
			Threshold: o.threshold,
			Fired:     alert != nil,
		},
	}
	if alert != nil {
		out.Streak.Alert = alert.View()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readBatch(path string) ([]models.EventIngestRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var batch []models.EventIngestRequest
	if err := json.Unmarshal(b, &batch); err != nil {
		return nil, fmt.Errorf("decode batch %s: %w", path, err)
	}
	return batch, nil
}

func parseGap(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid -gap %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid -gap %q: must be positive", s)
	}
	return d, nil
}
