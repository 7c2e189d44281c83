package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/detection-sessions/internal/events"
	"github.com/PratikDhanave/detection-sessions/internal/logging"
)

// writeError maps core errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var (
		verr *events.ValidationError
		serr *events.StorageError
		cerr *events.ConsistencyError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.As(err, &cerr):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("consistency check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "write not durable"})
	case errors.As(err, &serr):
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("store failure")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable"})
	default:
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
