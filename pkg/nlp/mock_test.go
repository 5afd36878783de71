package nlp

import (
	"context"
	"sync"

	"github.com/soundprediction/graphrecall/pkg/types"
)

// mockClient is a mock LLM client for testing
type mockClient struct {
	mu            sync.Mutex
	name          string
	callCount     int
	failUntilCall int
	errorToReturn error
	closed        bool
}

func (m *mockClient) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	if m.callCount <= m.failUntilCall {
		return nil, m.errorToReturn
	}
	return &types.GenerationResult{
		Content:  "success from " + m.name,
		Provider: m.name,
		Model:    "gpt-4o-mini",
		CostUSD:  0.001,
		TokensUsed: &types.TokenUsage{
			PromptTokens:     10,
			CompletionTokens: 5,
			TotalTokens:      15,
		},
	}, nil
}

func (m *mockClient) Close() error {
	m.closed = true
	return nil
}

func (m *mockClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

type recordingAlerter struct {
	subjects []string
}

func (a *recordingAlerter) Alert(subject, message string) error {
	a.subjects = append(a.subjects, subject)
	return nil
}
