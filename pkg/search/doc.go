// Package search answers questions from the knowledge graph at two levels.
//
// Local search resolves the query into entity names with the expander and
// returns the passages that mention the most of them. Global search groups
// the matching entities into topics. Hybrid search runs both, collects the
// relationships between the entities found, assembles a context block and
// asks the language model for an answer grounded only in that context.
//
// CommunitySearcher builds on Searcher and retrieves through the
// community_id labels written by community detection.
//
// # Usage
//
//	searcher := search.New(store, expander, llmClient, search.DefaultConfig(), logger)
//	result, err := searcher.HybridSearch(ctx, "What is RAG?", 10, []string{"papers"})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Answer)
//
// # Failure handling
//
// Store reads are retried with the store policy and then returned as
// errors. A failed answer generation is not an error: the result carries
// a fixed fallback answer instead.
//
// # Global search and communities
//
// GlobalSearch groups entities by their type, not by community. Retrieval
// through community labels is only done by CommunitySearcher.
package search
