package community

import (
	"fmt"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Graph is an undirected, unweighted entity graph used by the in-process
// detectors. Node order is insertion order. Self-loops and duplicate edges
// are ignored.
//
// The graph keeps a structural fingerprint that is updated on every
// insertion. Node and edge hashes are combined by addition, so the
// fingerprint does not depend on insertion order and never requires
// sorting the node or edge lists.
type Graph struct {
	ids       []string
	index     map[string]int
	adj       []map[int]struct{}
	edgeCount int
	hash      uint64
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// AddNode adds id and returns its index. Adding an existing id is a no-op.
func (g *Graph) AddNode(id string) int {
	if idx, ok := g.index[id]; ok {
		return idx
	}
	idx := len(g.ids)
	g.ids = append(g.ids, id)
	g.index[id] = idx
	g.adj = append(g.adj, make(map[int]struct{}))
	g.hash += nodeHash(id)
	return idx
}

// AddEdge connects a and b, adding missing endpoints. It reports whether a
// new edge was inserted.
func (g *Graph) AddEdge(a, b string) bool {
	if a == b {
		g.AddNode(a)
		return false
	}
	ia, ib := g.AddNode(a), g.AddNode(b)
	if _, ok := g.adj[ia][ib]; ok {
		return false
	}
	g.adj[ia][ib] = struct{}{}
	g.adj[ib][ia] = struct{}{}
	g.edgeCount++
	g.hash += edgeHash(a, b)
	return true
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.ids) }

// EdgeCount returns the number of distinct undirected edges.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// ID returns the id of the node at idx.
func (g *Graph) ID(idx int) string { return g.ids[idx] }

// Neighbors returns the sorted neighbor indexes of idx.
func (g *Graph) Neighbors(idx int) []int {
	out := make([]int, 0, len(g.adj[idx]))
	for j := range g.adj[idx] {
		out = append(out, j)
	}
	sort.Ints(out)
	return out
}

// InternalEdges counts the edges with both endpoints in members.
func (g *Graph) InternalEdges(members []string) int {
	in := make(map[int]struct{}, len(members))
	for _, m := range members {
		if idx, ok := g.index[m]; ok {
			in[idx] = struct{}{}
		}
	}
	count := 0
	for i := range in {
		for j := range g.adj[i] {
			if _, ok := in[j]; ok && i < j {
				count++
			}
		}
	}
	return count
}

// Fingerprint returns the structural hash of the nodes and edges.
func (g *Graph) Fingerprint() uint64 {
	return g.hash ^ uint64(len(g.ids))<<32 ^ uint64(g.edgeCount)
}

// CacheKey identifies a partition of this graph computed with the given parameters.
func (g *Graph) CacheKey(algorithm string, resolution float64, seed int64) string {
	return fmt.Sprintf("%016x:%s:%g:%d", g.Fingerprint(), algorithm, resolution, seed)
}

func nodeHash(id string) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString("n\x00")
	_, _ = d.WriteString(id)
	return d.Sum64()
}

func edgeHash(a, b string) uint64 {
	if b < a {
		a, b = b, a
	}
	d := xxhash.New()
	_, _ = d.WriteString("e\x00")
	_, _ = d.WriteString(a)
	_, _ = d.WriteString("\x00")
	_, _ = d.WriteString(b)
	return d.Sum64()
}
