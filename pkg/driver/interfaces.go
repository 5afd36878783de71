package driver

import (
	"context"
	"errors"
)

// GraphProvider represents the type of graph database provider
type GraphProvider string

const (
	GraphProviderNeo4j    GraphProvider = "neo4j"
	GraphProviderMemgraph GraphProvider = "memgraph"
)

// ErrNoRecords is returned when a query that must yield a row yields none.
var ErrNoRecords = errors.New("query returned no records")

// WriteSummary reports the counters of a write query.
type WriteSummary struct {
	NodesCreated         int `json:"nodes_created"`
	NodesDeleted         int `json:"nodes_deleted"`
	RelationshipsCreated int `json:"relationships_created"`
	RelationshipsDeleted int `json:"relationships_deleted"`
	PropertiesSet        int `json:"properties_set"`
}

// Reader executes parameterized read queries.
type Reader interface {
	ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Record, error)
}

// Writer executes parameterized write queries.
type Writer interface {
	ExecuteWrite(ctx context.Context, query string, params map[string]any) (*WriteSummary, error)
}

// GraphStore is the store collaborator used by the retrieval core.
// Consumers should depend on the smallest interface that meets their needs.
type GraphStore interface {
	Reader
	Writer

	// ExecuteQuery runs a query in an auto-commit transaction regardless of
	// whether it reads or writes. Procedure calls that manage their own
	// transactions must go through here.
	ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error)

	// Provider returns the type of graph database provider.
	Provider() GraphProvider

	// Close releases all resources held by the store.
	Close(ctx context.Context) error
}
