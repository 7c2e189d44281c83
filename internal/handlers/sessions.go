package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/events"
)

// RegisterSessionRoutes registers GET /sessions, which recomputes the
// session report from the full history on every call.
func RegisterSessionRoutes(r gin.IRoutes, s *events.Sessionizer) {
	r.GET("/sessions", func(c *gin.Context) {
		report, err := s.Report(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	})
}
