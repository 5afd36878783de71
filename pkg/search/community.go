package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/driver"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// CommunitySearcher retrieves through persisted community labels.
type CommunitySearcher struct {
	*Searcher
}

// NewCommunitySearcher wraps s.
func NewCommunitySearcher(s *Searcher) *CommunitySearcher {
	return &CommunitySearcher{Searcher: s}
}

// SearchByCommunity matches the expanded entity names against entity names
// and descriptions within the configured namespaces, restricted to
// communityIDs when given, groups the matches by community and answers the
// query from them.
func (cs *CommunitySearcher) SearchByCommunity(ctx context.Context, query string, communityIDs []string, topK int) (*types.CommunitySearchResult, error) {
	start := time.Now()
	if topK <= 0 {
		topK = cs.config.TopK
	}
	if communityIDs == nil {
		communityIDs = []string{}
	}

	namespaces := cs.namespaces(nil)
	exp := cs.expand(ctx, query, namespaces)
	entities := []*types.GraphEntity{}
	if len(exp.lowered) > 0 {
		rows, err := cs.read(ctx, "community_search", communityEntitiesQuery, map[string]any{
			"terms":         exp.lowered,
			"community_ids": communityIDs,
			"namespaces":    namespaces,
			"limit":         topK,
		})
		if err != nil {
			return nil, fmt.Errorf("community search failed: %w", err)
		}
		for _, row := range rows {
			if len(entities) == topK {
				break
			}
			e := driver.EntityFromRecord(row)
			entities = append(entities, &e)
		}
	}

	communities := groupByCommunity(entities)
	graphContext := buildCommunityContext(entities, communities)
	answer := cs.answer(ctx, query, graphContext)

	return &types.CommunitySearchResult{
		Query:       query,
		Entities:    entities,
		Communities: communities,
		Context:     graphContext,
		Answer:      answer,
		Metadata: map[string]any{
			"execution_time_ms": time.Since(start).Milliseconds(),
			"entity_count":      len(entities),
			"community_count":   len(communities),
			"community_filter":  communityIDs,
			"graph_hops_used":   exp.hops,
		},
	}, nil
}

// groupByCommunity groups entities by their community label in order of
// first appearance. Unlabelled entities are left out.
func groupByCommunity(entities []*types.GraphEntity) []*types.Community {
	var order []string
	groups := make(map[string]*types.Community)
	for _, e := range entities {
		id := e.CommunityID()
		if id == "" {
			continue
		}
		c, ok := groups[id]
		if !ok {
			c = &types.Community{ID: id, Label: communityLabel(id), Metadata: map[string]any{}}
			groups[id] = c
			order = append(order, id)
		}
		c.EntityIDs = append(c.EntityIDs, e.ID)
		c.Size = len(c.EntityIDs)
	}

	out := make([]*types.Community, 0, len(order))
	for _, id := range order {
		groups[id].Metadata["matched_entities"] = groups[id].Size
		out = append(out, groups[id])
	}
	return out
}

func communityLabel(id string) string {
	if n, err := types.ParseCommunityID(id); err == nil {
		return fmt.Sprintf("Community %d", n)
	}
	return id
}

// FindRelatedCommunities returns communities joined to communityID by at
// least one relationship, most connections first. Equal counts keep the
// order returned by the store.
func (cs *CommunitySearcher) FindRelatedCommunities(ctx context.Context, communityID string, topK int) ([]*types.Community, error) {
	if topK <= 0 {
		topK = cs.config.TopK
	}
	rows, err := cs.read(ctx, "find_related_communities", relatedCommunitiesQuery, map[string]any{
		"community_id": communityID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find communities related to %s: %w", communityID, err)
	}

	related := make([]*types.Community, 0, len(rows))
	for _, row := range rows {
		id := row.String("community_id")
		ids := row.Strings("entity_ids")
		related = append(related, &types.Community{
			ID:        id,
			Label:     communityLabel(id),
			EntityIDs: ids,
			Size:      len(ids),
			Metadata:  map[string]any{"connection_count": row.Int("connection_count")},
		})
	}
	sort.SliceStable(related, func(i, j int) bool {
		return connectionCount(related[i]) > connectionCount(related[j])
	})
	return firstN(related, topK), nil
}

func connectionCount(c *types.Community) int {
	n, _ := c.Metadata["connection_count"].(int)
	return n
}

// GetCommunityStatistics reports size, internal edges, density and the
// entity type histogram of a community.
func (cs *CommunitySearcher) GetCommunityStatistics(ctx context.Context, communityID string) (*types.CommunityStatistics, error) {
	params := map[string]any{"community_id": communityID}
	members, err := cs.read(ctx, "community_statistics", communityMembersQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to read members of %s: %w", communityID, err)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", community.ErrCommunityNotFound, communityID)
	}

	edges, err := cs.read(ctx, "community_statistics", communityInternalEdgesQuery, params)
	if err != nil {
		return nil, fmt.Errorf("failed to count edges of %s: %w", communityID, err)
	}
	internal := countPairs(edges)

	histogram := make(map[string]int)
	for _, m := range members {
		typ := strings.TrimSpace(m.String("type"))
		if typ == "" {
			typ = "UNKNOWN"
		}
		histogram[typ]++
	}

	return &types.CommunityStatistics{
		CommunityID:   communityID,
		Size:          len(members),
		InternalEdges: internal,
		Density:       types.Density(len(members), internal),
		EntityTypes:   histogram,
	}, nil
}

// countPairs counts distinct unordered source/target pairs.
func countPairs(rows []driver.Record) int {
	seen := make(map[[2]string]struct{}, len(rows))
	for _, row := range rows {
		a, b := row.String("source"), row.String("target")
		if a == "" || b == "" || a == b {
			continue
		}
		if b < a {
			a, b = b, a
		}
		seen[[2]string{a, b}] = struct{}{}
	}
	return len(seen)
}
