package community

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/soundprediction/graphrecall/pkg/types"
)

// DefaultCacheSize is the number of partitions kept by the in-process path.
const DefaultCacheSize = 10

// assignment maps entity ids to community indexes.
type assignment map[string]int

// partitionCache is a bounded LRU of computed assignments keyed by
// Graph.CacheKey, with hit and miss counters. Entries are keyed by entity id
// so a hit stays valid when the same graph is loaded in another order.
type partitionCache struct {
	entries *lru.Cache[string, assignment]
	maxSize int
	hits    atomic.Int64
	misses  atomic.Int64
}

func newPartitionCache(size int) (*partitionCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, assignment](size)
	if err != nil {
		return nil, err
	}
	return &partitionCache{entries: entries, maxSize: size}, nil
}

// get returns the cached partition of graph laid out in graph's node order.
func (c *partitionCache) get(key string, graph *Graph) ([]int, bool) {
	cached, ok := c.entries.Get(key)
	var partition []int
	if ok {
		partition, ok = cached.partition(graph)
	}
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return partition, ok
}

func (c *partitionCache) add(key string, graph *Graph, partition []int) assignment {
	a := make(assignment, len(partition))
	for idx, community := range partition {
		a[graph.ID(idx)] = community
	}
	c.entries.Add(key, a)
	return a
}

// partition reports false when a node of graph has no assignment.
func (a assignment) partition(graph *Graph) ([]int, bool) {
	if len(a) != graph.NodeCount() {
		return nil, false
	}
	partition := make([]int, graph.NodeCount())
	for idx := range partition {
		community, ok := a[graph.ID(idx)]
		if !ok {
			return nil, false
		}
		partition[idx] = community
	}
	return partition, true
}

func (c *partitionCache) info() types.CacheInfo {
	hits, misses := c.hits.Load(), c.misses.Load()
	info := types.CacheInfo{
		Hits:    hits,
		Misses:  misses,
		Size:    c.entries.Len(),
		MaxSize: c.maxSize,
	}
	if total := hits + misses; total > 0 {
		info.HitRate = float64(hits) / float64(total)
	}
	return info
}

// clear drops every partition and resets the counters.
func (c *partitionCache) clear() {
	c.entries.Purge()
	c.hits.Store(0)
	c.misses.Store(0)
}
