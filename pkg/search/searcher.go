package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/nlp"
	"github.com/soundprediction/graphrecall/pkg/prompts"
	"github.com/soundprediction/graphrecall/pkg/retry"
	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/soundprediction/graphrecall/pkg/utils"
)

// Expander resolves a query into entity names.
type Expander interface {
	ExpandEntities(ctx context.Context, query string, namespaces []string) ([]string, int)
}

// Searcher runs local, global and hybrid retrieval.
type Searcher struct {
	store    driver.Reader
	expander Expander
	llm      nlp.Client
	config   Config
	logger   *slog.Logger
}

// New creates a Searcher.
func New(store driver.Reader, expander Expander, llm nlp.Client, cfg Config, logger *slog.Logger) *Searcher {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry = retry.DefaultConfig()
	}
	return &Searcher{
		store:    store,
		expander: expander,
		llm:      llm,
		config:   cfg,
		logger:   logger.With("component", "searcher"),
	}
}

// expansion is the outcome of running the expander once for a call.
type expansion struct {
	names    []string
	lowered  []string
	hops     int
	duration time.Duration
}

func (s *Searcher) expand(ctx context.Context, query string, namespaces []string) expansion {
	start := time.Now()
	names, hops := s.expander.ExpandEntities(ctx, query, namespaces)
	lowered := make([]string, len(names))
	for i, n := range names {
		lowered[i] = strings.ToLower(n)
	}
	return expansion{names: names, lowered: lowered, hops: hops, duration: time.Since(start)}
}

func (s *Searcher) namespaces(namespaces []string) []string {
	if len(namespaces) == 0 {
		namespaces = s.config.Namespaces
	}
	if namespaces == nil {
		return []string{}
	}
	return namespaces
}

func (s *Searcher) read(ctx context.Context, operation, query string, params map[string]any) ([]driver.Record, error) {
	return retry.DoWithResult(ctx, s.config.Retry, s.logger, operation, func() ([]driver.Record, error) {
		return s.store.ExecuteRead(ctx, query, params)
	})
}

// LocalSearch returns the passages mentioning the most expanded entities,
// at most topK of them, as CHUNK entities. The metadata carries per-phase
// timings.
func (s *Searcher) LocalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.GraphEntity, map[string]any, error) {
	if topK <= 0 {
		topK = s.config.TopK
	}
	namespaces = s.namespaces(namespaces)
	exp := s.expand(ctx, query, namespaces)
	return s.localSearch(ctx, exp, topK, namespaces)
}

func (s *Searcher) localSearch(ctx context.Context, exp expansion, topK int, namespaces []string) ([]*types.GraphEntity, map[string]any, error) {
	metadata := map[string]any{
		"entity_expansion_ms": exp.duration.Milliseconds(),
		"store_query_ms":      int64(0),
		"graph_hops_used":     exp.hops,
		"expanded_entities":   len(exp.names),
	}
	if len(exp.names) == 0 {
		return []*types.GraphEntity{}, metadata, nil
	}

	start := time.Now()
	rows, err := s.read(ctx, "local_search", localPassagesQuery, map[string]any{
		"names":      exp.lowered,
		"namespaces": namespaces,
		"limit":      topK,
	})
	metadata["store_query_ms"] = time.Since(start).Milliseconds()
	if err != nil {
		return nil, metadata, fmt.Errorf("local search failed: %w", err)
	}

	entities := make([]*types.GraphEntity, 0, min(len(rows), topK))
	for _, row := range rows {
		if len(entities) == topK {
			break
		}
		entities = append(entities, passageFromRecord(row))
	}
	return entities, metadata, nil
}

// passageFromRecord maps a passage row to a CHUNK entity carrying the full
// passage text.
func passageFromRecord(r driver.Record) *types.GraphEntity {
	id := r.String("id")
	name := r.String("source_document")
	if name == "" {
		name = id
	}
	matched := r.Strings("matched_entities")
	return &types.GraphEntity{
		ID:             id,
		Name:           name,
		Type:           types.ChunkEntityType,
		Description:    r.String("content"),
		SourceDocument: r.String("source_document"),
		Confidence:     1.0,
		Properties: map[string]any{
			"matched_entities":   matched,
			"entity_match_count": r.Int("entity_match_count"),
		},
	}
}

// GlobalSearch groups the expanded entities by type into at most topK
// topics. Topic scores fall by 0.1 per rank and never go below zero.
func (s *Searcher) GlobalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.Topic, error) {
	if topK <= 0 {
		topK = s.config.TopK
	}
	namespaces = s.namespaces(namespaces)
	return s.globalSearch(ctx, s.expand(ctx, query, namespaces), topK, namespaces)
}

func (s *Searcher) globalSearch(ctx context.Context, exp expansion, topK int, namespaces []string) ([]*types.Topic, error) {
	if len(exp.names) == 0 {
		return []*types.Topic{}, nil
	}

	rows, err := s.read(ctx, "global_search", topicsByTypeQuery, map[string]any{
		"names":      exp.lowered,
		"namespaces": namespaces,
		"limit":      topK,
	})
	if err != nil {
		return nil, fmt.Errorf("global search failed: %w", err)
	}

	topics := make([]*types.Topic, 0, min(len(rows), topK))
	for rank, row := range rows {
		if rank == topK {
			break
		}
		topics = append(topics, topicFromRecord(row, rank))
	}
	return topics, nil
}

func topicFromRecord(r driver.Record, rank int) *types.Topic {
	typ := r.String("type")
	entities := r.Strings("entities")

	var descriptions []string
	for _, d := range r.Strings("descriptions") {
		if d = strings.TrimSpace(d); d != "" {
			descriptions = append(descriptions, d)
		}
		if len(descriptions) == 3 {
			break
		}
	}
	summary := fmt.Sprintf("%d %s entities", len(entities), strings.ToLower(typ))
	if len(descriptions) > 0 {
		summary += ": " + strings.Join(descriptions, " ")
	}

	keywords := entities
	if len(keywords) > topicKeywords {
		keywords = keywords[:topicKeywords]
	}
	return &types.Topic{
		ID:       "topic_" + strings.ToLower(strings.ReplaceAll(typ, " ", "_")),
		Name:     typ,
		Summary:  summary,
		Entities: entities,
		Keywords: keywords,
		Score:    topicScore(rank),
	}
}

// HybridSearch runs local retrieval and then global retrieval, fetches the
// relationships around the entities found and answers the query from the
// assembled context. Retrieval errors are returned; a failed answer is
// replaced by UnableToAnswer.
func (s *Searcher) HybridSearch(ctx context.Context, query string, topK int, namespaces []string) (*types.GraphQueryResult, error) {
	start := time.Now()
	if topK <= 0 {
		topK = s.config.TopK
	}
	namespaces = s.namespaces(namespaces)
	localK, globalK := splitTopK(topK)

	exp := s.expand(ctx, query, namespaces)

	entities, localMeta, err := s.localSearch(ctx, exp, localK, namespaces)
	if err != nil {
		return nil, err
	}
	topics, err := s.globalSearch(ctx, exp, globalK, namespaces)
	if err != nil {
		return nil, err
	}
	relationships, err := s.relationships(ctx, entityNames(entities, topics), namespaces)
	if err != nil {
		return nil, err
	}

	graphContext := buildContext(entities, relationships, topics)
	answer := s.answer(ctx, query, graphContext)

	metadata := map[string]any{
		"execution_time_ms":   time.Since(start).Milliseconds(),
		"entity_count":        len(entities),
		"relationship_count":  len(relationships),
		"topic_count":         len(topics),
		"local_k":             localK,
		"global_k":            globalK,
		"graph_hops_used":     exp.hops,
		"entity_expansion_ms": localMeta["entity_expansion_ms"],
		"store_query_ms":      localMeta["store_query_ms"],
	}
	s.logger.Debug("hybrid search finished",
		"query", query,
		"entities", len(entities),
		"relationships", len(relationships),
		"topics", len(topics),
		"duration", time.Since(start))

	return &types.GraphQueryResult{
		Query:         query,
		Entities:      entities,
		Relationships: relationships,
		Topics:        topics,
		Context:       graphContext,
		Answer:        answer,
		Metadata:      metadata,
	}, nil
}

// entityNames collects the lowercased entity names behind the passages and topics.
func entityNames(entities []*types.GraphEntity, topics []*types.Topic) []string {
	var names []string
	for _, e := range entities {
		if matched, ok := e.Properties["matched_entities"].([]string); ok {
			names = append(names, matched...)
		} else {
			names = append(names, e.Name)
		}
	}
	for _, t := range topics {
		names = append(names, t.Entities...)
	}
	names = utils.DedupeFold(names)
	for i := range names {
		names[i] = strings.ToLower(names[i])
	}
	return names
}

func (s *Searcher) relationships(ctx context.Context, names, namespaces []string) ([]*types.GraphRelationship, error) {
	if len(names) == 0 {
		return []*types.GraphRelationship{}, nil
	}
	rows, err := s.read(ctx, "relationship_search", relationshipsQuery, map[string]any{
		"names":      names,
		"namespaces": namespaces,
		"limit":      MaxRelationships,
	})
	if err != nil {
		return nil, fmt.Errorf("relationship retrieval failed: %w", err)
	}

	out := make([]*types.GraphRelationship, 0, min(len(rows), MaxRelationships))
	for _, row := range rows {
		if len(out) == MaxRelationships {
			break
		}
		rel := driver.RelationshipFromRecord(row)
		out = append(out, &rel)
	}
	return out, nil
}

// answer asks the model for an answer grounded in graphContext. An empty
// context is answered without calling the model.
func (s *Searcher) answer(ctx context.Context, query, graphContext string) string {
	if graphContext == "" {
		return NoInformationAnswer
	}
	result, err := s.llm.Generate(ctx, prompts.Answer(query, graphContext))
	if err != nil {
		s.logger.Warn("answer generation failed", "stage", "answer", "query", query, "error", err)
		return UnableToAnswer
	}
	if answer := strings.TrimSpace(result.Content); answer != "" {
		return answer
	}
	return UnableToAnswer
}
