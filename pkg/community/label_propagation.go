package community

import (
	"context"
	"math/rand"
)

const maxPropagationIterations = 100

// labelPropagation assigns every node the label carried by most of its
// neighbours, visiting nodes in a seeded random order each round. Ties keep
// the current label when it is among the best, otherwise the smallest label
// wins. Isolated nodes keep their own label.
func labelPropagation(ctx context.Context, g *Graph, seed int64) ([]int, error) {
	n := g.NodeCount()
	labels := identity(n)
	neighbors := make([][]int, n)
	for i := range neighbors {
		neighbors[i] = g.Neighbors(i)
	}

	rng := rand.New(rand.NewSource(seed))
	counts := make(map[int]int)
	for iter := 0; iter < maxPropagationIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		changed := false
		for _, i := range rng.Perm(n) {
			if len(neighbors[i]) == 0 {
				continue
			}
			clear(counts)
			for _, j := range neighbors[i] {
				counts[labels[j]]++
			}

			current := labels[i]
			best, bestCount := -1, 0
			for label, count := range counts {
				if count > bestCount || (count == bestCount && label < best) {
					best, bestCount = label, count
				}
			}
			if counts[current] == bestCount {
				best = current
			}

			if best != current {
				labels[i] = best
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return renumber(labels), nil
}
