package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// RegisterEventRoutes registers the ingestion-path endpoint.
//
// POST /events
// - Durable: returns success only after the write is read back
// - Idempotent: duplicates detected via (timestamp, category) uniqueness
// - Runs the streak check for trigger-group categories and returns any alert
func RegisterEventRoutes(r gin.IRoutes, gate *events.IngestGate) {
	r.POST("/events", func(c *gin.Context) {
		var req models.EventIngestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "timestamp and category are required"})
			return
		}

		res, err := gate.Ingest(c.Request.Context(), req.Timestamp, req.Category)
		if err != nil {
			writeError(c, err)
			return
		}

		// 201 for new events, 200 for duplicates (idempotent success).
		if res.Duplicate() {
			c.JSON(http.StatusOK, models.EventIngestResponse{Duplicate: true})
			return
		}
		view := res.Event.View()
		resp := models.EventIngestResponse{Event: &view}
		if res.Alert != nil {
			resp.Alert = res.Alert.View()
		}
		if res.StreakErr != nil {
			logging.Ctx(c.Request.Context()).Error().
				Err(res.StreakErr).
				Int64("id", res.Event.ID).
				Msg("streak check failed after insert")
			resp.StreakCheckFailed = true
		}
		c.JSON(http.StatusCreated, resp)
	})
}
