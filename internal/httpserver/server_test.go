package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/config"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
	"github.com/PratikDhanave/detection-sessions/internal/store"
)

////////////////////////////////////////////////////////////////////////////////
// HARNESS
//
// Every test gets its own SQLite file and router:
//
//   httptest → gin → IngestGate/Sessionizer/StreakDetector → SQLite
////////////////////////////////////////////////////////////////////////////////

func newTestRouter(t *testing.T, apiKeys ...string) *gin.Engine {
	t.Helper()
	logging.Init(logging.Config{Level: "disabled"})
	t.Cleanup(func() { logging.Init(logging.Config{}) })

	dbPath := filepath.Join(t.TempDir(), "events.db")
	st, err := store.Open(context.Background(), store.DriverSQLite, dbPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: store.DriverSQLite, URL: dbPath},
		Auth:     config.AuthConfig{APIKeys: apiKeys},
		Detection: config.DetectionConfig{
			SessionGap:      time.Minute,
			WatchedCategory: "pedestrian",
			StreakThreshold: 5,
			TriggerGroup:    "People",
		},
	}
	return NewRouter(cfg, st)
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postEvent(t *testing.T, r http.Handler, ts, category string) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, r, http.MethodPost, "/events", map[string]string{"timestamp": ts, "category": category})
}

type ingestResponse struct {
	Event *struct {
		ID        int64  `json:"id"`
		Timestamp string `json:"timestamp"`
		Category  string `json:"category"`
	} `json:"event"`
	Duplicate bool `json:"duplicate"`
	Alert     *struct {
		Category string `json:"watched_category"`
		Count    int    `json:"count"`
	} `json:"alert"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
	return v
}

var sampleBatch = [][2]string{
	{"2023-08-10T18:30:30", "pedestrian"},
	{"2023-08-10T18:31:00", "pedestrian"},
	{"2023-08-10T18:31:00", "car"},
	{"2023-08-10T18:31:30", "pedestrian"},
	{"2023-08-10T18:35:00", "pedestrian"},
	{"2023-08-10T18:35:30", "pedestrian"},
	{"2023-08-10T18:36:00", "pedestrian"},
	{"2023-08-10T18:37:00", "pedestrian"},
	{"2023-08-10T18:37:30", "pedestrian"},
}

////////////////////////////////////////////////////////////////////////////////
// HEALTH & READINESS
////////////////////////////////////////////////////////////////////////////////

func TestHealthAndReady(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{"/health", "/ready"} {
		if w := do(t, r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Fatalf("%s expected 200 got %d", path, w.Code)
		}
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newTestRouter(t)

	w := do(t, r, http.MethodGet, "/health", nil, "X-Request-ID", "abc")
	if got := w.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("expected request id echoed, got %q", got)
	}
	w = do(t, r, http.MethodGet, "/health", nil)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected a generated request id")
	}
}

////////////////////////////////////////////////////////////////////////////////
// EVENTS
////////////////////////////////////////////////////////////////////////////////

func TestEvents_BadRequests(t *testing.T) {
	r := newTestRouter(t)
	tests := []struct {
		name string
		body any
	}{
		{"missing category", map[string]string{"timestamp": "2023-08-10T18:30:30"}},
		{"missing timestamp", map[string]string{"category": "car"}},
		{"malformed timestamp", map[string]string{"timestamp": "10/08/2023", "category": "car"}},
		{"not an object", []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := do(t, r, http.MethodPost, "/events", tt.body); w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestEvents_DuplicateReturnsOK(t *testing.T) {
	r := newTestRouter(t)

	w := postEvent(t, r, "2023-08-10T18:30:30", "Car")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	first := decode[ingestResponse](t, w)
	if first.Event == nil || first.Event.Category != "car" || first.Event.Timestamp != "2023-08-10T18:30:30" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	w = postEvent(t, r, "2023-08-10T18:30:30Z", "car")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if second := decode[ingestResponse](t, w); !second.Duplicate || second.Event != nil {
		t.Fatalf("expected duplicate, got %s", w.Body.String())
	}
}

func TestEvents_AuthRequiredWhenKeysConfigured(t *testing.T) {
	r := newTestRouter(t, "secret")
	body := map[string]string{"timestamp": "2023-08-10T18:30:30", "category": "car"}

	if w := do(t, r, http.MethodPost, "/events", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
	if w := do(t, r, http.MethodPost, "/events", body, "X-API-Key", "secret"); w.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", w.Code)
	}
	if w := do(t, r, http.MethodGet, "/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health must stay public, got %d", w.Code)
	}
}

////////////////////////////////////////////////////////////////////////////////
// END-TO-END SCENARIO
////////////////////////////////////////////////////////////////////////////////

func TestSampleBatch_SessionsAndStreak(t *testing.T) {
	r := newTestRouter(t)

	var last ingestResponse
	for _, e := range sampleBatch {
		w := postEvent(t, r, e[0], e[1])
		if w.Code != http.StatusCreated {
			t.Fatalf("ingest %v: %d %s", e, w.Code, w.Body.String())
		}
		last = decode[ingestResponse](t, w)
	}
	if last.Alert == nil || last.Alert.Count != 5 || last.Alert.Category != "pedestrian" {
		t.Fatalf("expected alert on the last ingest, got %+v", last.Alert)
	}

	w := do(t, r, http.MethodGet, "/sessions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sessions: %d", w.Code)
	}
	got := decode[map[string][][2]string](t, w)
	want := map[string][][2]string{
		"people": {
			{"2023-08-10T18:30:30", "2023-08-10T18:31:30"},
			{"2023-08-10T18:35:00", "2023-08-10T18:37:30"},
		},
		"vehicles": {{"2023-08-10T18:31:00", "2023-08-10T18:31:00"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("sessions got %v want %v", got, want)
	}

	w = do(t, r, http.MethodGet, "/streak", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"fired":true`) {
		t.Fatalf("default streak check: %d %s", w.Code, w.Body.String())
	}
	w = do(t, r, http.MethodGet, "/streak?category=car&threshold=1", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"fired":false`) {
		t.Fatalf("car streak check: %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "detection_events_ingested_total") {
		t.Fatalf("metrics: %d", w.Code)
	}
}

func TestSessions_EmptyHistory(t *testing.T) {
	r := newTestRouter(t)
	w := do(t, r, http.MethodGet, "/sessions", nil)
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "{}" {
		t.Fatalf("expected empty object, got %d %s", w.Code, w.Body.String())
	}
}

func TestStreak_BadThreshold(t *testing.T) {
	r := newTestRouter(t)
	for _, q := range []string{"threshold=abc", "threshold=0", "threshold=-2"} {
		if w := do(t, r, http.MethodGet, "/streak?"+q, nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", q, w.Code)
		}
	}
}

func TestAccessLogAtInfo(t *testing.T) {
	r := newTestRouter(t)
	var buf bytes.Buffer
	logging.Init(logging.Config{Level: "info", Output: &buf})

	do(t, r, http.MethodGet, "/health", nil, "X-Request-ID", "req-42")

	out := buf.String()
	for _, want := range []string{`"message":"request"`, `"request_id":"req-42"`, `"path":"/health"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Fatalf("access line %q missing %s", out, want)
		}
	}
}
