package nlp

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// UsageRecord is one persisted Generate call.
type UsageRecord struct {
	ID               string    `parquet:"id"`
	Timestamp        time.Time `parquet:"timestamp"`
	Provider         string    `parquet:"provider"`
	Model            string    `parquet:"model"`
	TaskType         string    `parquet:"task_type"`
	PromptTokens     int       `parquet:"prompt_tokens"`
	CompletionTokens int       `parquet:"completion_tokens"`
	TotalTokens      int       `parquet:"total_tokens"`
	CostUSD          float64   `parquet:"cost_usd"`
	LatencyMs        int64     `parquet:"latency_ms"`
	UserID           string    `parquet:"user_id"`
	SessionID        string    `parquet:"session_id"`
	RequestSource    string    `parquet:"request_source"`
	Operation        string    `parquet:"operation"`
}

// UsageTracker buffers usage records and writes them to Parquet files
type UsageTracker struct {
	outputDir string
	mu        sync.Mutex
	buffer    []UsageRecord
	batchSize int
}

// NewUsageTracker creates a tracker writing to outputDir
func NewUsageTracker(outputDir string) (*UsageTracker, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create usage tracking directory: %w", err)
	}

	return &UsageTracker{
		outputDir: outputDir,
		buffer:    make([]UsageRecord, 0, 100),
		batchSize: 100,
	}, nil
}

// Add records the result of one Generate call
func (t *UsageTracker) Add(ctx context.Context, task types.Task, result *types.GenerationResult) error {
	if result == nil {
		return nil
	}

	record := UsageRecord{
		ID:        uuid.New().String(),
		Timestamp: time.Now().UTC(),
		Provider:  result.Provider,
		Model:     result.Model,
		TaskType:  string(task.TaskType),
		CostUSD:   result.CostUSD,
		LatencyMs: result.LatencyMs,
	}
	if result.TokensUsed != nil {
		record.PromptTokens = result.TokensUsed.PromptTokens
		record.CompletionTokens = result.TokensUsed.CompletionTokens
		record.TotalTokens = result.TokensUsed.TotalTokens
	}

	if v, ok := ctx.Value(types.ContextKeyUserID).(string); ok {
		record.UserID = v
	}
	if v, ok := ctx.Value(types.ContextKeySessionID).(string); ok {
		record.SessionID = v
	}
	if v, ok := ctx.Value(types.ContextKeyRequestSource).(string); ok {
		record.RequestSource = v
	}
	if v, ok := ctx.Value(types.ContextKeyOperation).(string); ok {
		record.Operation = v
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.buffer = append(t.buffer, record)
	if len(t.buffer) >= t.batchSize {
		return t.flush()
	}
	return nil
}

// Flush writes buffered records to a new file
func (t *UsageTracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flush()
}

// flush writes the current buffer to a new Parquet file
// Caller must hold the lock
func (t *UsageTracker) flush() error {
	if len(t.buffer) == 0 {
		return nil
	}

	now := time.Now()
	filename := fmt.Sprintf("llm_usage_%s_%d.parquet", now.Format("20060102_150405"), now.UnixNano())
	if err := parquet.WriteFile(filepath.Join(t.outputDir, filename), t.buffer); err != nil {
		return fmt.Errorf("failed to write usage parquet file: %w", err)
	}

	t.buffer = t.buffer[:0]
	return nil
}

// UsageTrackingClient wraps a Client to persist usage of every successful call
type UsageTrackingClient struct {
	client  Client
	tracker *UsageTracker
	logger  *slog.Logger
}

// NewUsageTrackingClient creates a wrapper client
func NewUsageTrackingClient(client Client, tracker *UsageTracker, logger *slog.Logger) *UsageTrackingClient {
	if logger == nil {
		logger = slog.Default()
	}
	return &UsageTrackingClient{
		client:  client,
		tracker: tracker,
		logger:  logger,
	}
}

// Generate implements Client
func (c *UsageTrackingClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	result, err := c.client.Generate(ctx, task)
	if err != nil {
		return nil, err
	}

	if err := c.tracker.Add(ctx, task, result); err != nil {
		c.logger.Warn("failed to record llm usage", "error", err)
	}
	return result, nil
}

// Close flushes pending usage and closes the wrapped client
func (c *UsageTrackingClient) Close() error {
	if err := c.tracker.Flush(); err != nil {
		c.logger.Warn("failed to flush llm usage", "error", err)
	}
	return c.client.Close()
}
