package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/soundprediction/graphrecall/pkg/alert"
	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/utils"
)

// Detector runs community detection.
type Detector interface {
	DetectCommunities(ctx context.Context, opts community.DetectOptions) (*community.DetectionResult, error)
}

// Runner executes detection runs and records them as jobs.
type Runner struct {
	detector Detector
	store    Store
	alerter  alert.Alerter
	logger   *slog.Logger
	now      func() time.Time
}

// NewRunner creates a Runner. alerter may be nil.
func NewRunner(detector Detector, store Store, alerter alert.Alerter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if alerter == nil {
		alerter = &alert.NoOpAlerter{}
	}
	return &Runner{
		detector: detector,
		store:    store,
		alerter:  alerter,
		logger:   logger.With("component", "jobs"),
		now:      time.Now,
	}
}

// Run records a running job, runs detection and records the outcome. The
// returned job reflects the final state. A failed detection is returned as
// an error together with the failed job.
func (r *Runner) Run(ctx context.Context, opts Options) (*Job, error) {
	if opts.Trigger == "" {
		opts.Trigger = TriggerManual
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job id: %w", err)
	}

	job := &Job{
		ID:                 id.String(),
		Status:             StatusRunning,
		Trigger:            opts.Trigger,
		AlgorithmRequested: opts.Algorithm,
		Resolution:         opts.Resolution,
		MinSize:            opts.MinSize,
		CreatedAt:          r.now().UTC(),
	}
	if err := r.store.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to record job: %w", err)
	}

	result, runErr := r.detect(ctx, opts)

	finished := r.now().UTC()
	job.FinishedAt = &finished
	job.DurationMs = finished.Sub(job.CreatedAt).Milliseconds()
	if runErr != nil {
		job.Status = StatusFailed
		job.Error = runErr.Error()
		var panicErr *utils.PanicError
		if errors.As(runErr, &panicErr) {
			job.ErrorStack = panicErr.StackTrace
		}
	} else {
		job.Status = StatusSucceeded
		job.AlgorithmRequested = result.AlgorithmRequested
		job.AlgorithmUsed = result.AlgorithmUsed
		job.Method = result.Method
		job.TotalCommunities = result.Total
		job.ReturnedCommunities = len(result.Communities)
		job.CacheHit = result.CacheHit
	}

	// the outcome is recorded even when the caller has gone away
	if err := r.store.Save(context.WithoutCancel(ctx), job); err != nil {
		r.logger.Error("failed to record job outcome", "job_id", job.ID, "status", job.Status, "error", err)
	}

	if runErr != nil {
		r.logger.Error("detection job failed", "job_id", job.ID, "trigger", job.Trigger, "error", runErr)
		subject := fmt.Sprintf("Community detection failed - job %s", job.ID)
		message := fmt.Sprintf("Trigger: %s\nAlgorithm: %s\nError: %s\n", job.Trigger, opts.Algorithm, runErr)
		if err := r.alerter.Alert(subject, message); err != nil {
			r.logger.Warn("failed to send job alert", "job_id", job.ID, "error", err)
		}
		return job, fmt.Errorf("detection job %s failed: %w", job.ID, runErr)
	}

	r.logger.Info("detection job finished",
		"job_id", job.ID,
		"trigger", job.Trigger,
		"algorithm_used", job.AlgorithmUsed,
		"communities", job.TotalCommunities,
		"duration_ms", job.DurationMs)
	return job, nil
}

func (r *Runner) detect(ctx context.Context, opts Options) (result *community.DetectionResult, err error) {
	defer utils.RecoverAsError(&err)
	return r.detector.DetectCommunities(ctx, community.DetectOptions{
		Algorithm:  opts.Algorithm,
		Resolution: opts.Resolution,
		MinSize:    opts.MinSize,
	})
}

// Get returns a job by id.
func (r *Runner) Get(ctx context.Context, id string) (*Job, error) {
	return r.store.Get(ctx, id)
}

// List returns the most recent jobs first.
func (r *Runner) List(ctx context.Context, limit int) ([]*Job, error) {
	return r.store.List(ctx, limit)
}
