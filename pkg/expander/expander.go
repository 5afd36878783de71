// Package expander resolves a free-text query into candidate entity names.
//
// Expansion runs in stages, each of which can end the pipeline early:
//
//  1. the language model lists the entities mentioned in the query
//  2. the candidates are matched against the graph and expanded over
//     allow-listed relationships
//  3. when too few names were found, synonyms of the leading candidates
//     are added
//  4. optionally, names are reranked by embedding similarity to the query
//
// Failures inside a stage degrade the result instead of failing the call.
package expander

import (
	"context"
	"log/slog"
	"time"

	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/embedder"
	"github.com/soundprediction/graphrecall/pkg/nlp"
	"github.com/soundprediction/graphrecall/pkg/prompts"
	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/soundprediction/graphrecall/pkg/utils"
)

// Expander runs the entity expansion pipeline.
type Expander struct {
	store    driver.Reader
	llm      nlp.Client
	embedder embedder.Client
	config   Config
	logger   *slog.Logger
}

// New creates an Expander. cfg is clamped into its valid ranges. emb may be
// nil when only ExpandEntities is used.
func New(store driver.Reader, llm nlp.Client, emb embedder.Client, cfg Config, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.Default()
	}
	return &Expander{
		store:    store,
		llm:      llm,
		embedder: emb,
		config:   cfg.Clamp(),
		logger:   logger.With("component", "expander"),
	}
}

// Config returns the effective, clamped configuration.
func (e *Expander) Config() Config {
	return e.config
}

// ExpandEntities returns candidate entity names for query within namespaces
// and the number of graph hops used. An empty result with zero hops means no
// candidate survived; it is not an error.
func (e *Expander) ExpandEntities(ctx context.Context, query string, namespaces []string) ([]string, int) {
	start := time.Now()
	namespaces = normalizeNamespaces(namespaces)

	if e.namespaceIsEmpty(ctx, namespaces) {
		e.logger.Debug("no entities in scope, skipping expansion", "namespaces", namespaces)
		return []string{}, 0
	}

	candidates := e.extractCandidates(ctx, query)
	if len(candidates) == 0 {
		return []string{}, 0
	}

	names, hops, err := e.expandInGraph(ctx, candidates, namespaces)
	if err != nil {
		e.logger.Warn("graph expansion failed, using extracted candidates",
			"stage", "graph_expansion", "query", query, "error", err)
		return candidates, 0
	}
	if len(names) == 0 {
		return []string{}, 0
	}

	if e.config.EnableSynonyms && len(names) < e.config.SynonymThreshold {
		names = utils.DedupeFold(append(names, e.synonyms(ctx, query, candidates)...))
	}

	e.logger.Debug("entity expansion finished",
		"query", query,
		"candidates", len(candidates),
		"entities", len(names),
		"hops_used", hops,
		"duration", time.Since(start))
	return names, hops
}

// ExpandAndRerank runs ExpandEntities and orders the names by cosine
// similarity to the query, returning at most topK. Equal scores keep
// expansion order. If embedding fails the expansion order is kept with zero scores.
func (e *Expander) ExpandAndRerank(ctx context.Context, query string, namespaces []string, topK int) ([]types.ScoredEntity, int) {
	if topK <= 0 {
		topK = defaultTopK
	}

	names, hops := e.ExpandEntities(ctx, query, namespaces)
	if len(names) == 0 {
		return []types.ScoredEntity{}, hops
	}

	scored, err := e.rerank(ctx, query, names)
	if err != nil {
		e.logger.Warn("semantic rerank failed, keeping expansion order",
			"stage", "rerank", "query", query, "error", err)
		scored = make([]utils.ScoredItem[string], len(names))
		for i, name := range names {
			scored[i] = utils.ScoredItem[string]{Item: name}
		}
	}

	top := utils.TopKStable(scored, topK)
	out := make([]types.ScoredEntity, len(top))
	for i, item := range top {
		out[i] = types.ScoredEntity{Name: item.Item, Score: item.Score}
	}
	return out, hops
}

// namespaceIsEmpty reports true only when the store confirms zero entities.
// Store errors fall through to expansion.
func (e *Expander) namespaceIsEmpty(ctx context.Context, namespaces []string) bool {
	rows, err := e.store.ExecuteRead(ctx, countEntitiesQuery, map[string]any{"namespaces": namespaces})
	if err != nil {
		e.logger.Warn("entity count pre-check failed, continuing", "stage", "pre_check", "error", err)
		return false
	}
	if len(rows) == 0 {
		return false
	}
	return rows[0].Int("entity_count") == 0
}

func (e *Expander) extractCandidates(ctx context.Context, query string) []string {
	task, err := prompts.EntityExtraction(query)
	if err != nil {
		e.logger.Warn("failed to build extraction prompt", "stage", "extraction", "error", err)
		return nil
	}

	result, err := e.llm.Generate(ctx, task)
	if err != nil {
		e.logger.Warn("entity extraction failed", "stage", "extraction", "query", query, "error", err)
		return nil
	}

	candidates := utils.DedupeFold(prompts.ParseLines(result.Content))
	if len(candidates) > MaxExtractedCandidates {
		candidates = candidates[:MaxExtractedCandidates]
	}
	return candidates
}

func (e *Expander) expandInGraph(ctx context.Context, candidates, namespaces []string) ([]string, int, error) {
	hops := e.config.GraphExpansionHops
	rows, err := e.store.ExecuteRead(ctx, expandEntitiesQuery(hops), map[string]any{
		"candidates":         candidates,
		"namespaces":         namespaces,
		"relationship_types": AllowedRelationshipTypes,
		"limit":              MaxExpandedEntities,
	})
	if err != nil {
		return nil, 0, err
	}

	var matched, reached []string
	for _, row := range rows {
		matched = append(matched, row.String("name"))
		reached = append(reached, row.Strings("neighbors")...)
	}

	names := utils.DedupeFold(append(matched, reached...))
	if len(names) > MaxExpandedEntities {
		names = names[:MaxExpandedEntities]
	}
	return names, hops, nil
}

// synonyms asks for alternative names of the leading extracted candidates only.
func (e *Expander) synonyms(ctx context.Context, query string, candidates []string) []string {
	sources := candidates
	if len(sources) > synonymSourceCount {
		sources = sources[:synonymSourceCount]
	}

	result, err := e.llm.Generate(ctx, prompts.Synonyms(sources, e.config.MaxSynonyms))
	if err != nil {
		e.logger.Warn("synonym generation failed", "stage", "synonyms", "query", query, "error", err)
		return nil
	}

	parsed := prompts.ParseSynonyms(result.Content)
	var out []string
	for _, source := range sources {
		syns := lookupFold(parsed, source)
		if len(syns) > e.config.MaxSynonyms {
			syns = syns[:e.config.MaxSynonyms]
		}
		out = append(out, syns...)
	}
	return out
}

func (e *Expander) rerank(ctx context.Context, query string, names []string) ([]utils.ScoredItem[string], error) {
	if e.embedder == nil {
		return nil, errNoEmbedder
	}

	queryVec, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}
	vectors, err := e.embedder.Embed(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(names) {
		return nil, embedder.ErrNoEmbeddings
	}

	scored := make([]utils.ScoredItem[string], len(names))
	for i, name := range names {
		scored[i] = utils.ScoredItem[string]{Item: name, Score: utils.CosineSimilarity(queryVec, vectors[i])}
	}
	return scored, nil
}
