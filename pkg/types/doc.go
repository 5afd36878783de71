// Package types defines the core data types for graphrecall retrieval.
//
// This package contains the value objects passed between the store boundary,
// the entity expander, the searchers and the community detector:
//   - GraphEntity: an entity (or passage-shaped CHUNK record) read from the graph
//   - GraphRelationship: a typed relationship between two entities
//   - Topic: an aggregated group of entities returned by global search
//   - Community: a partition cell produced by community detection
//
// # Results
//
// GraphQueryResult and CommunitySearchResult carry the retrieved records, the
// assembled context block and the generated answer together with a metadata
// map of timings and counts.
//
// # Validation
//
// Value objects provide Validate() for input validation:
//
//	entity := &types.GraphEntity{ID: "e1", Name: "RAG"}
//	if err := entity.Validate(); err != nil {
//	    // Handle validation error
//	}
//
// # JSON Serialization
//
// All types are JSON-serializable with snake_case tags matching the property
// names persisted in the graph.
package types
