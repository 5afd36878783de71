// Package jobs records community detection runs and runs detection on a
// schedule. Each run is stored as a Job that moves from running to
// succeeded or failed, so a failed run leaves a record instead of
// stopping the process.
package jobs

import (
	"errors"
	"time"

	"github.com/soundprediction/graphrecall/pkg/community"
)

// ErrJobNotFound is returned when no job has the requested id.
var ErrJobNotFound = errors.New("job not found")

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Trigger records what started a job.
type Trigger string

const (
	TriggerManual    Trigger = "manual"
	TriggerScheduled Trigger = "scheduled"
)

// Job is the persisted record of one detection run.
type Job struct {
	ID      string  `json:"id"`
	Status  Status  `json:"status"`
	Trigger Trigger `json:"trigger"`

	AlgorithmRequested community.Algorithm `json:"algorithm_requested"`
	AlgorithmUsed      community.Algorithm `json:"algorithm_used,omitempty"`
	Method             community.Method    `json:"method,omitempty"`
	Resolution         float64             `json:"resolution"`
	MinSize            int                 `json:"min_size"`

	CreatedAt  time.Time  `json:"created_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	DurationMs int64      `json:"duration_ms"`

	TotalCommunities    int  `json:"total_communities"`
	ReturnedCommunities int  `json:"returned_communities"`
	CacheHit            bool `json:"cache_hit"`

	Error      string `json:"error,omitempty"`
	ErrorStack string `json:"error_stack,omitempty"`
}

// Done reports whether the job has finished, successfully or not.
func (j *Job) Done() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// Options are the parameters of a detection run. Zero values take the
// detector's defaults.
type Options struct {
	Algorithm  community.Algorithm `json:"algorithm"`
	Resolution float64             `json:"resolution"`
	MinSize    int                 `json:"min_size"`
	Trigger    Trigger             `json:"trigger"`
}
