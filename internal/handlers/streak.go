package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/models"
)

// RegisterStreakRoutes registers the standalone streak check.
//
// GET /streak?category=...&threshold=...
// Both parameters are optional and fall back to the configured rule.
func RegisterStreakRoutes(r gin.IRoutes, d *events.StreakDetector, defaults events.StreakRule) {
	r.GET("/streak", func(c *gin.Context) {
		category := c.DefaultQuery("category", defaults.Watched)
		threshold := defaults.Threshold
		if raw := c.Query("threshold"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be an integer"})
				return
			}
			threshold = n
		}

		alert, err := d.Check(c.Request.Context(), category, threshold)
		if err != nil {
			writeError(c, err)
			return
		}

		resp := models.StreakResponse{
			Category:  models.NormalizeCategory(category),
			Threshold: threshold,
			Fired:     alert != nil,
		}
		if alert != nil {
			resp.Alert = alert.View()
		}
		c.JSON(http.StatusOK, resp)
	})
}
