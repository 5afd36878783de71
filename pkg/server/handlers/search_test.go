package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrecall/pkg/types"
)

func TestLocalSearch(t *testing.T) {
	client := &fakeClient{entities: []*types.GraphEntity{{ID: "c1", Name: "chunk", Type: types.ChunkEntityType}}}
	handler := NewSearchHandler(client)

	w := serve(t, http.MethodPost, "/search/local", "/search/local",
		`{"query": "what uses neo4j", "top_k": 4, "namespaces": ["docs"]}`, handler.Local)
	require.Equal(t, http.StatusOK, w.Code)

	response := decode(t, w)
	assert.Equal(t, "what uses neo4j", response["query"])
	assert.EqualValues(t, 1, response["total"])
	assert.Equal(t, 4, client.lastTopK)
	assert.Equal(t, []string{"docs"}, client.lastNamespaces)
}

func TestSearchValidation(t *testing.T) {
	handler := NewSearchHandler(&fakeClient{})

	tests := []struct {
		name string
		body string
	}{
		{"missing query", `{"top_k": 3}`},
		{"blank query", `{"query": "   "}`},
		{"negative top_k", `{"query": "q", "top_k": -1}`},
		{"top_k too large", `{"query": "q", "top_k": 1000}`},
		{"malformed", `{"query": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, http.MethodPost, "/search/global", "/search/global", tt.body, handler.Global)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "invalid_request", decode(t, w)["error"])
		})
	}
}

func TestGlobalSearch(t *testing.T) {
	client := &fakeClient{topics: []*types.Topic{{ID: "topic_SERVICE", Name: "SERVICE", Score: 1}}}
	handler := NewSearchHandler(client)

	w := serve(t, http.MethodPost, "/search/global", "/search/global", `{"query": "services"}`, handler.Global)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["total"])
	assert.Zero(t, client.lastTopK)
}

func TestHybridSearch(t *testing.T) {
	client := &fakeClient{hybrid: &types.GraphQueryResult{Query: "q", Answer: "Postgres backs the billing service."}}
	handler := NewSearchHandler(client)

	w := serve(t, http.MethodPost, "/search/hybrid", "/search/hybrid", `{"query": "q"}`, handler.Hybrid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Postgres backs the billing service.", decode(t, w)["answer"])
}

func TestSearchFailure(t *testing.T) {
	handler := NewSearchHandler(&fakeClient{err: errors.New("store unavailable")})

	w := serve(t, http.MethodPost, "/search/hybrid", "/search/hybrid", `{"query": "q"}`, handler.Hybrid)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "search_failed", decode(t, w)["error"])
}

func TestCommunitySearch(t *testing.T) {
	client := &fakeClient{communities: []*types.Community{{ID: "community_1", Size: 2}}}
	handler := NewSearchHandler(client)

	w := serve(t, http.MethodPost, "/communities/search", "/communities/search",
		`{"query": "graph", "community_ids": ["community_1"], "top_k": 5}`, handler.Communities)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"community_1"}, client.lastIDs)
	assert.Len(t, decode(t, w)["communities"], 1)
}
