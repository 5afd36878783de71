package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/graphrecall"
	"github.com/soundprediction/graphrecall/pkg/server/dto"
)

const defaultJobsLimit = 20

// JobsHandler handles detection job lookups
type JobsHandler struct {
	client graphrecall.JobReader
}

// NewJobsHandler creates a new jobs handler
func NewJobsHandler(client graphrecall.JobReader) *JobsHandler {
	return &JobsHandler{client: client}
}

// List handles GET /api/v1/jobs?limit=N
func (h *JobsHandler) List(c *gin.Context) {
	limit, ok := intQuery(c, "limit", defaultJobsLimit)
	if !ok {
		return
	}

	list, err := h.client.ListJobs(c.Request.Context(), limit)
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.JobsResponse{Jobs: list, Total: len(list)})
}

// Get handles GET /api/v1/jobs/:id
func (h *JobsHandler) Get(c *gin.Context) {
	job, err := h.client.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}
	c.JSON(http.StatusOK, job)
}
