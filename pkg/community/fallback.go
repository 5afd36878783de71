package community

import (
	"context"
	"fmt"
	"time"

	"github.com/soundprediction/graphrecall/pkg/types"
	"github.com/soundprediction/graphrecall/pkg/utils"
)

// detectInProcess loads the entity graph and partitions it locally. Leiden
// has no in-process implementation and is served by Louvain.
func (d *Detector) detectInProcess(ctx context.Context, requested Algorithm, resolution float64) (*DetectionResult, error) {
	used := requested
	if requested == AlgorithmLeiden {
		used = AlgorithmLouvain
		d.logger.Info("leiden is not available in-process, using louvain",
			"algorithm_requested", requested, "algorithm_used", used)
	}

	graph, err := d.loadGraph(ctx)
	if err != nil {
		return nil, err
	}

	key := graph.CacheKey(string(used), resolution, d.config.Seed)
	partition, hit := d.cache.get(key, graph)
	if !hit {
		v, err, _ := d.inflight.Do(key, func() (any, error) {
			partition, err := d.computePartition(ctx, graph, used, resolution)
			if err != nil {
				return nil, err
			}
			return d.cache.add(key, graph, partition), nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to compute %s partition: %w", used, err)
		}
		// concurrent callers may have loaded the graph in another order
		var ok bool
		partition, ok = v.(assignment).partition(graph)
		if !ok {
			return nil, fmt.Errorf("%s partition does not cover the loaded graph", used)
		}
	}

	cacheStatus := "miss"
	if hit {
		cacheStatus = "hit"
	}
	d.logger.Debug("in-process partition ready",
		"algorithm", used,
		"nodes", graph.NodeCount(),
		"edges", graph.EdgeCount(),
		"cache_status", cacheStatus)

	communities := buildCommunities(graph, partition, func() map[string]any {
		return communityMetadata(requested, used, resolution, MethodFallback, cacheStatus)
	})
	return &DetectionResult{
		Communities:        communities,
		AlgorithmRequested: requested,
		AlgorithmUsed:      used,
		Method:             MethodFallback,
		CacheHit:           hit,
	}, nil
}

func (d *Detector) loadGraph(ctx context.Context) (*Graph, error) {
	entities, err := d.store.ExecuteRead(ctx, loadEntitiesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load entities: %w", err)
	}
	edges, err := d.store.ExecuteRead(ctx, loadEdgesQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load relationships: %w", err)
	}

	graph := NewGraph()
	for _, row := range entities {
		if id := row.String("id"); id != "" {
			graph.AddNode(id)
		}
	}
	for _, row := range edges {
		source, target := row.String("source"), row.String("target")
		if source == "" || target == "" {
			continue
		}
		graph.AddEdge(source, target)
	}
	return graph, nil
}

// computePartition runs the algorithm on a worker goroutine bounded by the
// detector's worker pool. The caller stops waiting when ctx is done.
func (d *Detector) computePartition(ctx context.Context, graph *Graph, algorithm Algorithm, resolution float64) ([]int, error) {
	if err := d.workers.Acquire(ctx, 1); err != nil {
		return nil, err
	}

	type outcome struct {
		partition []int
		err       error
	}
	done := make(chan outcome, 1)
	utils.SafeGo(func() {
		defer d.workers.Release(1)
		var o outcome
		switch algorithm {
		case AlgorithmLabelPropagation:
			o.partition, o.err = labelPropagation(ctx, graph, d.config.Seed)
		default:
			o.partition, o.err = louvain(ctx, graph, resolution, d.config.Seed)
		}
		done <- o
	}, func(err error) {
		done <- outcome{err: err}
	})

	select {
	case o := <-done:
		return o.partition, o.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// buildCommunities groups node ids by partition index. Community n gets the
// id community_<n>.
func buildCommunities(graph *Graph, partition []int, metadata func() map[string]any) []*types.Community {
	var groups [][]string
	for idx, c := range partition {
		for len(groups) <= c {
			groups = append(groups, nil)
		}
		groups[c] = append(groups[c], graph.ID(idx))
	}

	now := time.Now().UTC()
	communities := make([]*types.Community, 0, len(groups))
	for n, ids := range groups {
		if len(ids) == 0 {
			continue
		}
		communities = append(communities, &types.Community{
			ID:        types.FormatCommunityID(n),
			Label:     fmt.Sprintf("Community %d", n),
			EntityIDs: ids,
			Size:      len(ids),
			Density:   types.Density(len(ids), graph.InternalEdges(ids)),
			CreatedAt: now,
			Metadata:  metadata(),
		})
	}
	return communities
}
