package expander

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reproductiveGraph() *fakeGraph {
	g := newFakeGraph()
	g.addEntity("abortion", "policy")
	g.addEntity("reproductive rights", "policy")
	g.addEntity("Roe v. Wade", "policy")
	g.addEntity("supreme court", "law")
	g.relate("abortion", "reproductive rights")
	g.relate("Roe v. Wade", "supreme court")
	return g
}

func TestConfigClamp(t *testing.T) {
	tests := []struct {
		name     string
		in       Config
		expected Config
	}{
		{"defaults untouched", DefaultConfig(), DefaultConfig()},
		{"above range", Config{GraphExpansionHops: 7, SynonymThreshold: 50, MaxSynonyms: 9}, Config{GraphExpansionHops: 3, SynonymThreshold: 20, MaxSynonyms: 5}},
		{"below range", Config{GraphExpansionHops: -1, SynonymThreshold: 1, MaxSynonyms: 0}, Config{GraphExpansionHops: 1, SynonymThreshold: 5, MaxSynonyms: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.in.Clamp())
		})
	}
}

func TestExpandEntities_EmptyNamespaceSkipsLLM(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion"}
	e := New(g, llm, nil, DefaultConfig(), nil)

	names, hops := e.ExpandEntities(context.Background(), "abortion", []string{"empty-namespace"})

	assert.Empty(t, names)
	assert.NotNil(t, names)
	assert.Equal(t, 0, hops)
	assert.Equal(t, 0, llm.calls)
}

func TestExpandEntities_PreCheckErrorContinues(t *testing.T) {
	g := reproductiveGraph()
	g.countErr = errors.New("store unavailable")
	llm := &stubLLM{extraction: "abortion"}
	e := New(g, llm, nil, Config{GraphExpansionHops: 1, SynonymThreshold: 5, MaxSynonyms: 1}, nil)

	names, hops := e.ExpandEntities(context.Background(), "abortion", nil)

	assert.Equal(t, []string{"abortion", "reproductive rights"}, names)
	assert.Equal(t, 1, hops)
	assert.Equal(t, 1, llm.calls)
}

func TestExpandEntities_NoCandidatesExitsEarly(t *testing.T) {
	tests := []struct {
		name string
		llm  *stubLLM
	}{
		{"blank extraction", &stubLLM{extraction: "\n\n  \n"}},
		{"extraction error", &stubLLM{extractionErr: errors.New("llm down")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := reproductiveGraph()
			e := New(g, tt.llm, nil, DefaultConfig(), nil)

			names, hops := e.ExpandEntities(context.Background(), "something", nil)

			assert.Empty(t, names)
			assert.Equal(t, 0, hops)
			assert.Empty(t, g.lastExpandQuery())
			assert.Equal(t, 0, tt.llm.synonymCalls)
		})
	}
}

func TestExpandEntities_CandidatesDedupedAndCapped(t *testing.T) {
	var lines []string
	for i := 0; i < 12; i++ {
		lines = append(lines, fmt.Sprintf("concept %d", i))
	}
	lines = append([]string{"Concept 0", "CONCEPT 0"}, lines...)

	g := reproductiveGraph()
	llm := &stubLLM{extraction: strings.Join(lines, "\n")}
	e := New(g, llm, nil, DefaultConfig(), nil)

	e.ExpandEntities(context.Background(), "concepts", nil)

	require.Len(t, g.candidates, MaxExtractedCandidates)
	assert.Equal(t, "Concept 0", g.candidates[0])
	assert.Equal(t, "concept 1", g.candidates[1])
}

func TestExpandEntities_TraversalErrorDegradesToCandidates(t *testing.T) {
	g := reproductiveGraph()
	g.expandErr = errors.New("syntax error")
	llm := &stubLLM{extraction: "abortion\nreproductive rights"}
	e := New(g, llm, nil, DefaultConfig(), nil)

	names, hops := e.ExpandEntities(context.Background(), "abortion reproductive rights", nil)

	assert.Equal(t, []string{"abortion", "reproductive rights"}, names)
	assert.Equal(t, 0, hops)
	assert.Equal(t, 0, llm.synonymCalls)
}

func TestExpandEntities_NoGraphMatchesExitsEarly(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "quantum chromodynamics"}
	e := New(g, llm, nil, DefaultConfig(), nil)

	names, hops := e.ExpandEntities(context.Background(), "quantum chromodynamics", nil)

	assert.Empty(t, names)
	assert.Equal(t, 0, hops)
	assert.Equal(t, 0, llm.synonymCalls)
}

func TestExpandEntities_SynonymGating(t *testing.T) {
	// The base graph yields four names for these candidates; an extra
	// neighbour of abortion brings the count up to the threshold.
	tests := []struct {
		name           string
		extraNeighbour bool
		expectSynonyms bool
	}{
		{"count below threshold fires", false, true},
		{"count equal to threshold skips", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := reproductiveGraph()
			if tt.extraNeighbour {
				g.addEntity("Planned Parenthood", "policy")
				g.relate("abortion", "Planned Parenthood")
			}
			llm := &stubLLM{
				extraction: "abortion\nRoe v. Wade\nreproductive rights",
				synonyms:   `{"abortion": ["termination of pregnancy"], "Roe v. Wade": ["Roe"]}`,
			}
			cfg := Config{GraphExpansionHops: 1, SynonymThreshold: 5, MaxSynonyms: 3, EnableSynonyms: true}
			e := New(g, llm, nil, cfg, nil)

			names, hops := e.ExpandEntities(context.Background(), "abortion and Roe v. Wade", nil)

			assert.Equal(t, 1, hops)
			if tt.expectSynonyms {
				assert.Equal(t, 1, llm.synonymCalls)
				assert.Len(t, names, 6)
				assert.Contains(t, names, "termination of pregnancy")
				assert.Contains(t, names, "Roe")
				assert.Contains(t, llm.synonymPrompt, "abortion\nRoe v. Wade\n</ENTITIES>")
				assert.NotContains(t, llm.synonymPrompt, "reproductive rights")
			} else {
				assert.Equal(t, 0, llm.synonymCalls)
				assert.Len(t, names, 5)
			}
		})
	}
}

func TestExpandEntities_SynonymFailureKeepsGraphResult(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion", synonymErr: errors.New("timeout")}
	e := New(g, llm, nil, DefaultConfig(), nil)

	names, hops := e.ExpandEntities(context.Background(), "abortion", nil)

	assert.Equal(t, []string{"abortion", "reproductive rights"}, names)
	assert.Equal(t, 1, hops)
	assert.Equal(t, 1, llm.synonymCalls)
}

func TestExpandEntities_ReproductiveRightsScenario(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion\nreproductive rights", synonyms: "{}"}
	e := New(g, llm, nil, DefaultConfig(), nil)

	names, hops := e.ExpandEntities(context.Background(), "abortion reproductive rights", []string{"policy"})

	assert.Equal(t, 1, hops)
	assert.Contains(t, names, "abortion")
	assert.Contains(t, names, "reproductive rights")
	assert.Contains(t, g.lastExpandQuery(), "[rels*1..1]")
}

func TestExpandEntities_HopsClampedIntoQuery(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion", synonyms: "{}"}
	e := New(g, llm, nil, Config{GraphExpansionHops: 9, SynonymThreshold: 10, MaxSynonyms: 3}, nil)

	_, hops := e.ExpandEntities(context.Background(), "abortion", nil)

	assert.Equal(t, 3, hops)
	assert.Contains(t, g.lastExpandQuery(), "[rels*1..3]")
}

func TestExpandAndRerank(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion\nRoe v. Wade", synonyms: "{}"}
	emb := &stubEmbedder{vectors: map[string][]float32{
		"court rulings":       {1, 0, 0},
		"abortion":            {0, 1, 0},
		"reproductive rights": {0.5, 0.5, 0},
		"Roe v. Wade":         {0.9, 0.1, 0},
		"supreme court":       {1, 0, 0},
	}}
	e := New(g, llm, emb, DefaultConfig(), nil)

	ranked, hops := e.ExpandAndRerank(context.Background(), "court rulings", nil, 3)

	assert.Equal(t, 1, hops)
	require.Len(t, ranked, 3)
	assert.Equal(t, "supreme court", ranked[0].Name)
	assert.Equal(t, "Roe v. Wade", ranked[1].Name)
	assert.Equal(t, "reproductive rights", ranked[2].Name)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	assert.GreaterOrEqual(t, ranked[1].Score, ranked[2].Score)
}

func TestExpandAndRerank_EmbeddingFailureKeepsOrder(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion", synonyms: "{}"}
	e := New(g, llm, &stubEmbedder{err: errors.New("embedding service down")}, DefaultConfig(), nil)

	ranked, hops := e.ExpandAndRerank(context.Background(), "abortion", nil, 0)

	assert.Equal(t, 1, hops)
	require.Len(t, ranked, 2)
	assert.Equal(t, "abortion", ranked[0].Name)
	assert.Equal(t, 0.0, ranked[0].Score)
}

func TestExpandAndRerank_EmptyExpansion(t *testing.T) {
	g := reproductiveGraph()
	llm := &stubLLM{extraction: "abortion"}
	e := New(g, llm, &stubEmbedder{}, DefaultConfig(), nil)

	ranked, hops := e.ExpandAndRerank(context.Background(), "abortion", []string{"nothing-here"}, 5)

	assert.Empty(t, ranked)
	assert.Equal(t, 0, hops)
	assert.Equal(t, 0, llm.calls)
}
