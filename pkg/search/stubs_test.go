package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/retry"
	"github.com/soundprediction/graphrecall/pkg/types"
)

type readCall struct {
	query  string
	params map[string]any
}

// stubStore answers each query constant with a canned handler.
type stubStore struct {
	mu       sync.Mutex
	handlers map[string]func(params map[string]any) ([]driver.Record, error)
	calls    []readCall
}

func newStubStore() *stubStore {
	return &stubStore{handlers: map[string]func(map[string]any) ([]driver.Record, error){}}
}

func (s *stubStore) on(query string, rows ...driver.Record) {
	s.handlers[query] = func(map[string]any) ([]driver.Record, error) { return rows, nil }
}

func (s *stubStore) fail(query string, err error) {
	s.handlers[query] = func(map[string]any) ([]driver.Record, error) { return nil, err }
}

func (s *stubStore) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]driver.Record, error) {
	s.mu.Lock()
	s.calls = append(s.calls, readCall{query: query, params: params})
	h, ok := s.handlers[query]
	s.mu.Unlock()
	if !ok {
		return nil, errors.New("unexpected query")
	}
	return h(params)
}

func (s *stubStore) callsTo(query string) []readCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []readCall
	for _, c := range s.calls {
		if c.query == query {
			out = append(out, c)
		}
	}
	return out
}

type stubExpander struct {
	names      []string
	hops       int
	calls      int
	namespaces []string
}

func (e *stubExpander) ExpandEntities(ctx context.Context, query string, namespaces []string) ([]string, int) {
	e.calls++
	e.namespaces = namespaces
	return e.names, e.hops
}

type stubLLM struct {
	answer string
	err    error
	calls  int
	prompt string
}

func (l *stubLLM) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	l.calls++
	l.prompt = task.Prompt
	if l.err != nil {
		return nil, l.err
	}
	return &types.GenerationResult{Content: l.answer, Provider: "stub", Model: "stub-1"}, nil
}

func (l *stubLLM) Close() error { return nil }

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.Retry = retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	return cfg
}
