package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := serve(t, http.MethodGet, "/health", "/health", "", handler.HealthCheck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	response := decode(t, w)
	assert.Equal(t, "healthy", response["status"])
	assert.Equal(t, "graphrecall", response["service"])
	assert.Contains(t, response, "timestamp")
	assert.Contains(t, response, "version")
}

func TestLivenessCheck(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := serve(t, http.MethodGet, "/live", "/live", "", handler.LivenessCheck)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alive", decode(t, w)["status"])
}

func TestReadinessCheckWithoutClient(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := serve(t, http.MethodGet, "/ready", "/ready", "", handler.ReadinessCheck)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	response := decode(t, w)
	assert.Equal(t, "not_ready", response["status"])
	checks := response["checks"].(map[string]any)
	assert.Equal(t, "unhealthy", checks["database"].(map[string]any)["status"])
}

func TestReadinessCheckPing(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"store answers", nil, http.StatusOK},
		{"store down", errors.New("connection refused"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(&fakeClient{pingErr: tt.err})
			w := serve(t, http.MethodGet, "/ready", "/ready", "", handler.ReadinessCheck)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestDetailedHealthCheck(t *testing.T) {
	handler := NewHealthHandler(&fakeClient{})

	w := serve(t, http.MethodGet, "/health/detailed", "/health/detailed", "", handler.DetailedHealthCheck)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, "healthy", response["status"])
	assert.Contains(t, response, "build_info")
	checks := response["checks"].(map[string]any)
	assert.Contains(t, checks, "partition_cache")
	assert.Contains(t, response["metrics"], "response_time_ms")
}

func TestDetailedHealthCheckWithoutClient(t *testing.T) {
	handler := NewHealthHandler(nil)

	w := serve(t, http.MethodGet, "/health/detailed", "/health/detailed", "", handler.DetailedHealthCheck)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unhealthy", decode(t, w)["status"])
}

func TestGetSystemMetrics(t *testing.T) {
	metrics := NewHealthHandler(nil).getSystemMetrics()

	assert.NotEmpty(t, metrics.MemoryUsage)
	assert.GreaterOrEqual(t, metrics.Goroutines, 1)
	assert.NotEmpty(t, metrics.StackUsage)
}
