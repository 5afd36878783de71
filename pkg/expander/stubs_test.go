package expander

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/soundprediction/graphrecall/pkg/utils"
)

// fakeGraph is an in-memory entity graph answering the expander's queries.
type fakeGraph struct {
	mu         sync.Mutex
	entities   []string
	namespace  map[string]string
	edges      [][2]string
	countErr   error
	expandErr  error
	queries    []string
	candidates []string
}

func newFakeGraph() *fakeGraph {
	return &fakeGraph{namespace: map[string]string{}}
}

func (g *fakeGraph) addEntity(name, ns string) {
	g.entities = append(g.entities, name)
	g.namespace[name] = ns
}

func (g *fakeGraph) relate(a, b string) {
	g.edges = append(g.edges, [2]string{a, b})
}

func inScope(ns string, namespaces []string) bool {
	if len(namespaces) == 0 {
		return true
	}
	for _, n := range namespaces {
		if n == ns {
			return true
		}
	}
	return false
}

func (g *fakeGraph) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]driver.Record, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queries = append(g.queries, query)

	namespaces, _ := params["namespaces"].([]string)
	switch {
	case query == countEntitiesQuery:
		if g.countErr != nil {
			return nil, g.countErr
		}
		count := 0
		for _, e := range g.entities {
			if inScope(g.namespace[e], namespaces) {
				count++
			}
		}
		return []driver.Record{{"entity_count": int64(count)}}, nil

	case strings.Contains(query, "UNWIND range(0, size($candidates) - 1)"):
		if g.expandErr != nil {
			return nil, g.expandErr
		}
		candidates, _ := params["candidates"].([]string)
		g.candidates = candidates
		var rows []driver.Record
		seen := map[string]bool{}
		for _, c := range candidates {
			for _, e := range g.entities {
				if seen[e] || !inScope(g.namespace[e], namespaces) || !utils.ContainsFold(c, e) {
					continue
				}
				seen[e] = true
				var neighbors []any
				for _, edge := range g.edges {
					switch {
					case edge[0] == e && edge[1] != e:
						neighbors = append(neighbors, edge[1])
					case edge[1] == e && edge[0] != e:
						neighbors = append(neighbors, edge[0])
					}
				}
				rows = append(rows, driver.Record{"name": e, "neighbors": neighbors})
			}
		}
		return rows, nil
	}
	return nil, errors.New("unexpected query")
}

func (g *fakeGraph) lastExpandQuery() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.queries) - 1; i >= 0; i-- {
		if strings.Contains(g.queries[i], "UNWIND") {
			return g.queries[i]
		}
	}
	return ""
}

// stubLLM answers extraction and synonym prompts and counts calls.
type stubLLM struct {
	mu            sync.Mutex
	extraction    string
	extractionErr error
	synonyms      string
	synonymErr    error
	calls         int
	synonymCalls  int
	synonymPrompt string
}

func (s *stubLLM) Generate(ctx context.Context, task types.Task) (*types.GenerationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if strings.Contains(task.Prompt, "<ENTITIES>") {
		s.synonymCalls++
		s.synonymPrompt = task.Prompt
		if s.synonymErr != nil {
			return nil, s.synonymErr
		}
		return &types.GenerationResult{Content: s.synonyms}, nil
	}
	if s.extractionErr != nil {
		return nil, s.extractionErr
	}
	return &types.GenerationResult{Content: s.extraction}, nil
}

func (s *stubLLM) Close() error { return nil }

// stubEmbedder maps texts to fixed vectors.
type stubEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := s.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func (s *stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vs, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (s *stubEmbedder) Dimensions() int { return 3 }

func (s *stubEmbedder) Close() error { return nil }
