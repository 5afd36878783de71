// Package driver provides the graph store boundary for graphrecall.
//
// This package defines the GraphStore interface consumed by the expander,
// searchers and community detector, and a bolt implementation that serves
// both Neo4j and Memgraph.
//
// # Usage
//
//	store, err := driver.NewNeo4jDriver(uri, username, password, database)
//	if err != nil {
//	    return err
//	}
//	defer store.Close(ctx)
//
//	rows, err := store.ExecuteRead(ctx, "MATCH (e:Entity) RETURN e.name AS name", nil)
//
// # Row Mapping
//
// Store rows are returned as Record values. EntityFromRecord,
// RelationshipFromRecord and the Record accessors convert them into typed
// values at the boundary so that callers never perform ad hoc type
// assertions on driver values.
//
// # Thread Safety
//
// Neo4jDriver is safe for concurrent use. Sessions are opened per call and the
// underlying driver pools connections.
package driver
