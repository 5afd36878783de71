package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrecall/pkg/jobs"
)

func TestListJobs(t *testing.T) {
	client := &fakeClient{jobs: []*jobs.Job{{ID: "b"}, {ID: "a"}}}
	handler := NewJobsHandler(client)

	w := serve(t, http.MethodGet, "/jobs", "/jobs", "", handler.List)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["total"])
	assert.Equal(t, defaultJobsLimit, client.lastLimit)

	w = serve(t, http.MethodGet, "/jobs", "/jobs?limit=1", "", handler.List)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, client.lastLimit)

	w = serve(t, http.MethodGet, "/jobs", "/jobs?limit=-2", "", handler.List)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetJob(t *testing.T) {
	handler := NewJobsHandler(&fakeClient{job: &jobs.Job{ID: "job-1", Status: jobs.StatusRunning}})

	w := serve(t, http.MethodGet, "/jobs/:id", "/jobs/job-1", "", handler.Get)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "running", decode(t, w)["status"])
}

func TestGetJobNotFound(t *testing.T) {
	handler := NewJobsHandler(&fakeClient{err: jobs.ErrJobNotFound})

	w := serve(t, http.MethodGet, "/jobs/:id", "/jobs/missing", "", handler.Get)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
