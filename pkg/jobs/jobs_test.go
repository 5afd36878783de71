package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/types"
)

type fakeDetector struct {
	mu      sync.Mutex
	err     error
	panics  bool
	calls   []community.DetectOptions
	started chan struct{}
}

func (f *fakeDetector) DetectCommunities(ctx context.Context, opts community.DetectOptions) (*community.DetectionResult, error) {
	f.mu.Lock()
	f.calls = append(f.calls, opts)
	started := f.started
	f.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if f.panics {
		panic("partition index out of range")
	}
	if f.err != nil {
		return nil, f.err
	}
	return &community.DetectionResult{
		Communities:        []*types.Community{{ID: "community_0", Size: 3}, {ID: "community_1", Size: 3}},
		Total:              3,
		AlgorithmRequested: community.AlgorithmLeiden,
		AlgorithmUsed:      community.AlgorithmLouvain,
		Method:             community.MethodFallback,
	}, nil
}

type recordingAlerter struct {
	mu       sync.Mutex
	subjects []string
}

func (a *recordingAlerter) Alert(subject, message string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.subjects = append(a.subjects, subject)
	return nil
}

func newStore(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadgerStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunnerRecordsSuccess(t *testing.T) {
	store := newStore(t)
	alerter := &recordingAlerter{}
	detector := &fakeDetector{}
	runner := NewRunner(detector, store, alerter, nil)

	job, err := runner.Run(context.Background(), Options{Algorithm: community.AlgorithmLeiden, Resolution: 1.0})
	require.NoError(t, err)

	assert.Equal(t, StatusSucceeded, job.Status)
	assert.Equal(t, TriggerManual, job.Trigger)
	assert.Equal(t, community.AlgorithmLouvain, job.AlgorithmUsed)
	assert.Equal(t, community.MethodFallback, job.Method)
	assert.Equal(t, 3, job.TotalCommunities)
	assert.Equal(t, 2, job.ReturnedCommunities)
	assert.NotNil(t, job.FinishedAt)
	assert.True(t, job.Done())
	assert.Empty(t, alerter.subjects)
	assert.Equal(t, community.DetectOptions{Algorithm: community.AlgorithmLeiden, Resolution: 1.0}, detector.calls[0])

	stored, err := runner.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSucceeded, stored.Status)
	assert.Equal(t, job.ID, stored.ID)
}

func TestRunnerRecordsFailure(t *testing.T) {
	store := newStore(t)
	alerter := &recordingAlerter{}
	runner := NewRunner(&fakeDetector{err: errors.New("store unavailable")}, store, alerter, nil)

	job, err := runner.Run(context.Background(), Options{})
	require.Error(t, err)
	require.NotNil(t, job)

	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, "store unavailable", job.Error)
	require.Len(t, alerter.subjects, 1)
	assert.Contains(t, alerter.subjects[0], job.ID)

	stored, err := runner.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, stored.Status)
	assert.Equal(t, "store unavailable", stored.Error)
}

func TestRunnerRecoversPanics(t *testing.T) {
	store := newStore(t)
	runner := NewRunner(&fakeDetector{panics: true}, store, nil, nil)

	job, err := runner.Run(context.Background(), Options{})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, job.Status)
	assert.Contains(t, job.Error, "partition index out of range")
	assert.NotEmpty(t, job.ErrorStack)
}

func TestStoreGetUnknown(t *testing.T) {
	store := newStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestStoreListNewestFirst(t *testing.T) {
	store := newStore(t)
	runner := NewRunner(&fakeDetector{}, store, nil, nil)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 4; i++ {
		job, err := runner.Run(ctx, Options{})
		require.NoError(t, err)
		ids = append(ids, job.ID)
	}

	all, err := runner.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID)
	assert.Equal(t, ids[0], all[3].ID)

	recent, err := runner.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[3], recent[0].ID)
	assert.Equal(t, ids[2], recent[1].ID)
}

func TestInMemoryStore(t *testing.T) {
	store, err := OpenInMemoryStore()
	require.NoError(t, err)
	defer store.Close()

	job := &Job{ID: "job-1", Status: StatusRunning, CreatedAt: time.Now().UTC()}
	require.NoError(t, store.Save(context.Background(), job))

	got, err := store.Get(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, got.Status)
}

func TestSchedulerRunsJobs(t *testing.T) {
	store := newStore(t)
	detector := &fakeDetector{started: make(chan struct{}, 1)}
	runner := NewRunner(detector, store, nil, nil)
	scheduler := NewScheduler(runner, 10*time.Millisecond, Options{Algorithm: community.AlgorithmLouvain}, nil)

	scheduler.Start(context.Background())
	select {
	case <-detector.started:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run a job")
	}
	scheduler.Stop()

	jobs, err := runner.List(context.Background(), 0)
	require.NoError(t, err)
	require.NotEmpty(t, jobs)
	assert.Equal(t, TriggerScheduled, jobs[len(jobs)-1].Trigger)

	// stopping twice is harmless
	scheduler.Stop()
}

func TestSchedulerDisabled(t *testing.T) {
	runner := NewRunner(&fakeDetector{}, newStore(t), nil, nil)
	scheduler := NewScheduler(runner, 0, Options{}, nil)
	scheduler.Start(context.Background())
	scheduler.Stop()
}
