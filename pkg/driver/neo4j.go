package driver

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jDriver implements GraphStore over bolt for Neo4j and Memgraph.
type Neo4jDriver struct {
	client   neo4j.DriverWithContext
	database string
	provider GraphProvider
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:   driver,
		database: database,
		provider: GraphProviderNeo4j,
	}, nil
}

// NewMemgraphDriver creates a driver for Memgraph. Memgraph speaks bolt and
// ignores the database name, so the session is opened without one.
func NewMemgraphDriver(uri, username, password string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create memgraph driver: %w", err)
	}

	return &Neo4jDriver{
		client:   driver,
		provider: GraphProviderMemgraph,
	}, nil
}

// Provider returns the type of graph database provider.
func (n *Neo4jDriver) Provider() GraphProvider {
	return n.provider
}

// VerifyConnectivity checks that the server is reachable with the configured credentials.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	if err := n.client.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to verify connectivity: %w", err)
	}
	return nil
}

func (n *Neo4jDriver) sessionConfig(mode neo4j.AccessMode) neo4j.SessionConfig {
	return neo4j.SessionConfig{DatabaseName: n.database, AccessMode: mode}
}

// ExecuteRead runs query in a managed read transaction.
func (n *Neo4jDriver) ExecuteRead(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := n.client.NewSession(ctx, n.sessionConfig(neo4j.AccessModeRead))
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		return toRecords(records), nil
	})
	if err != nil {
		return nil, fmt.Errorf("read query failed: %w", err)
	}

	rows, ok := result.([]Record)
	if !ok {
		return nil, NewTypeConversionError("[]Record", fmt.Sprintf("%T", result), "result")
	}
	return rows, nil
}

// ExecuteWrite runs query in a managed write transaction and returns its counters.
func (n *Neo4jDriver) ExecuteWrite(ctx context.Context, query string, params map[string]any) (*WriteSummary, error) {
	session := n.client.NewSession(ctx, n.sessionConfig(neo4j.AccessModeWrite))
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		counters := summary.Counters()
		return &WriteSummary{
			NodesCreated:         counters.NodesCreated(),
			NodesDeleted:         counters.NodesDeleted(),
			RelationshipsCreated: counters.RelationshipsCreated(),
			RelationshipsDeleted: counters.RelationshipsDeleted(),
			PropertiesSet:        counters.PropertiesSet(),
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("write query failed: %w", err)
	}

	summary, ok := result.(*WriteSummary)
	if !ok {
		return nil, NewTypeConversionError("*WriteSummary", fmt.Sprintf("%T", result), "result")
	}
	return summary, nil
}

// ExecuteQuery runs query in an auto-commit transaction. GDS procedures
// that manage their own transactions must be called this way.
func (n *Neo4jDriver) ExecuteQuery(ctx context.Context, query string, params map[string]any) ([]Record, error) {
	session := n.client.NewSession(ctx, n.sessionConfig(neo4j.AccessModeWrite))
	defer session.Close(ctx)

	res, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	records, err := res.Collect(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect query results: %w", err)
	}
	return toRecords(records), nil
}

// Close closes the driver and all pooled connections.
func (n *Neo4jDriver) Close(ctx context.Context) error {
	return n.client.Close(ctx)
}

func toRecords(records []*neo4j.Record) []Record {
	rows := make([]Record, 0, len(records))
	for _, record := range records {
		rows = append(rows, Record(record.AsMap()))
	}
	return rows
}

var _ GraphStore = (*Neo4jDriver)(nil)
