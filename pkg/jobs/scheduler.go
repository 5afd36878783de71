package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/soundprediction/graphrecall/pkg/utils"
)

// Scheduler runs detection jobs on a fixed interval until stopped.
type Scheduler struct {
	runner   *Runner
	interval time.Duration
	opts     Options
	logger   *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a Scheduler. Jobs it starts are marked scheduled.
func NewScheduler(runner *Runner, interval time.Duration, opts Options, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Trigger = TriggerScheduled
	return &Scheduler{
		runner:   runner,
		interval: interval,
		opts:     opts,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start begins running jobs every interval. It is a no-op when already
// started or when the interval is not positive.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil || s.interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	utils.SafeGo(func() {
		defer close(done)
		s.loop(ctx)
	}, func(err error) {
		s.logger.Error("scheduler stopped unexpectedly", "error", err)
	})
	s.logger.Info("detection scheduler started", "interval", s.interval)
}

func (s *Scheduler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// failures are recorded on the job and alerted by the runner
			_, _ = s.runner.Run(ctx, s.opts)
		}
	}
}

// Stop cancels the schedule and waits for a running job to return.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("detection scheduler stopped")
}
