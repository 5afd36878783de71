package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/server/dto"
)

// writeError writes an error response as JSON
func writeError(c *gin.Context, status int, errCode, message string) {
	c.JSON(status, dto.ErrorResponse{
		Error:   errCode,
		Message: message,
		Code:    status,
	})
}

// writeFailure maps domain errors onto HTTP statuses
func writeFailure(c *gin.Context, errCode string, err error) {
	switch {
	case errors.Is(err, community.ErrCommunityNotFound), errors.Is(err, jobs.ErrJobNotFound):
		writeError(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, community.ErrUnsupportedAlgorithm):
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(c, http.StatusInternalServerError, errCode, err.Error())
	}
}

// intQuery reads a non-negative integer query parameter
func intQuery(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		writeError(c, http.StatusBadRequest, "invalid_request", name+" must be a non-negative integer")
		return 0, false
	}
	return v, true
}
