package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/auth"
	"github.com/PratikDhanave/detection-sessions/internal/config"
	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/handlers"
	"github.com/PratikDhanave/detection-sessions/internal/store"
	"github.com/PratikDhanave/detection-sessions/internal/telemetry"
)

// StreakRule builds the ingest-time streak rule from configuration.
func StreakRule(cfg config.DetectionConfig) events.StreakRule {
	return events.StreakRule{
		TriggerGroup: cfg.TriggerGroup,
		Watched:      cfg.WatchedCategory,
		Threshold:    cfg.StreakThreshold,
	}
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics
// Authenticated: /events, /sessions, /streak
func NewRouter(cfg *config.Config, st store.Backend) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterMetricRoutes(r)

	obs := telemetry.Observer{}
	rule := StreakRule(cfg.Detection)
	gate := events.NewIngestGate(st, rule, obs)
	sessionizer := events.NewSessionizer(st, cfg.Detection.SessionGap, obs)
	detector := events.NewStreakDetector(st, obs)

	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(cfg.Auth.APIKeys))

	handlers.RegisterEventRoutes(authGroup, gate)
	handlers.RegisterSessionRoutes(authGroup, sessionizer)
	handlers.RegisterStreakRoutes(authGroup, detector, rule)

	return r
}
