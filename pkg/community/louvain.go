package community

import (
	"context"
	"math/rand"
)

const (
	maxLouvainLevels = 10
	maxLocalPasses   = 100
	gainEpsilon      = 1e-12
)

type weightedNeighbor struct {
	node   int
	weight float64
}

// weightedGraph is one level of the Louvain hierarchy. Level 0 mirrors the
// input graph; later levels have one node per community of the previous level.
type weightedGraph struct {
	neighbors [][]weightedNeighbor
	self      []float64
	degree    []float64
	total     float64
}

func newWeightedGraph(g *Graph) *weightedGraph {
	n := g.NodeCount()
	wg := &weightedGraph{
		neighbors: make([][]weightedNeighbor, n),
		self:      make([]float64, n),
		degree:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		for _, j := range g.Neighbors(i) {
			wg.neighbors[i] = append(wg.neighbors[i], weightedNeighbor{node: j, weight: 1})
		}
		wg.degree[i] = float64(len(wg.neighbors[i]))
		wg.total += wg.degree[i]
	}
	return wg
}

// louvain partitions g by greedy modularity optimisation. The node visiting
// order is drawn from seed, so identical inputs give identical partitions.
// The result maps node index to community index; communities are numbered
// by the first node that belongs to them.
func louvain(ctx context.Context, g *Graph, resolution float64, seed int64) ([]int, error) {
	n := g.NodeCount()
	membership := identity(n)
	wg := newWeightedGraph(g)
	if wg.total == 0 {
		return membership, nil
	}

	rng := rand.New(rand.NewSource(seed))
	for level := 0; level < maxLouvainLevels; level++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		comm, moved := wg.localMoving(resolution, rng)
		comm = renumber(comm)
		for i, c := range membership {
			membership[i] = comm[c]
		}
		if !moved {
			break
		}
		wg = wg.aggregate(comm)
	}
	return renumber(membership), nil
}

// localMoving moves single nodes to the neighbouring community with the
// largest modularity gain until no move improves it.
func (wg *weightedGraph) localMoving(resolution float64, rng *rand.Rand) ([]int, bool) {
	n := len(wg.degree)
	comm := identity(n)
	tot := make([]float64, n)
	copy(tot, wg.degree)
	order := rng.Perm(n)

	links := make(map[int]float64)
	var keys []int
	moved := false
	for pass := 0; pass < maxLocalPasses; pass++ {
		improved := false
		for _, i := range order {
			current := comm[i]
			ki := wg.degree[i]

			clear(links)
			keys = keys[:0]
			for _, nb := range wg.neighbors[i] {
				c := comm[nb.node]
				if _, ok := links[c]; !ok {
					keys = append(keys, c)
				}
				links[c] += nb.weight
			}

			tot[current] -= ki
			best := current
			bestGain := links[current] - resolution*tot[current]*ki/wg.total
			for _, c := range keys {
				gain := links[c] - resolution*tot[c]*ki/wg.total
				if gain > bestGain+gainEpsilon {
					best, bestGain = c, gain
				}
			}
			tot[best] += ki

			if best != current {
				comm[i] = best
				improved, moved = true, true
			}
		}
		if !improved {
			break
		}
	}
	return comm, moved
}

// aggregate collapses each community into a single node. comm must be
// numbered densely from zero.
func (wg *weightedGraph) aggregate(comm []int) *weightedGraph {
	k := 0
	for _, c := range comm {
		if c+1 > k {
			k = c + 1
		}
	}

	inter := make([]map[int]float64, k)
	for c := range inter {
		inter[c] = make(map[int]float64)
	}
	next := &weightedGraph{
		neighbors: make([][]weightedNeighbor, k),
		self:      make([]float64, k),
		degree:    make([]float64, k),
		total:     wg.total,
	}
	for i, ci := range comm {
		next.self[ci] += wg.self[i]
		next.degree[ci] += wg.degree[i]
		for _, nb := range wg.neighbors[i] {
			cj := comm[nb.node]
			if ci == cj {
				// each internal edge is seen from both endpoints
				next.self[ci] += nb.weight / 2
				continue
			}
			inter[ci][cj] += nb.weight
		}
	}
	for c := 0; c < k; c++ {
		for j := 0; j < k; j++ {
			if w, ok := inter[c][j]; ok {
				next.neighbors[c] = append(next.neighbors[c], weightedNeighbor{node: j, weight: w})
			}
		}
	}
	return next
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// renumber relabels communities densely in order of first appearance.
func renumber(comm []int) []int {
	seen := make(map[int]int)
	out := make([]int, len(comm))
	for i, c := range comm {
		id, ok := seen[c]
		if !ok {
			id = len(seen)
			seen[c] = id
		}
		out[i] = id
	}
	return out
}
