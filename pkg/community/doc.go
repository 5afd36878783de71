// Package community partitions the entity graph into communities and
// persists the result as a community_id label on every entity.
//
// Detection prefers the graph store's analytics extension (Neo4j GDS) and
// falls back to in-process Louvain or label propagation when the extension
// is missing or fails. In-process partitions are cached by a structural
// fingerprint of the graph, so repeated runs over an unchanged graph are
// served from memory.
//
// Basic usage:
//
//	detector, err := community.New(store, community.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	result, err := detector.DetectCommunities(ctx, community.DetectOptions{
//	    Algorithm:  community.AlgorithmLeiden,
//	    Resolution: 1.0,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.AlgorithmUsed, len(result.Communities))
package community
