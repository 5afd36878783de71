package expander

import "fmt"

// An empty namespace list leaves the query unscoped.
const countEntitiesQuery = `
MATCH (e:Entity)
WHERE size($namespaces) = 0 OR e.namespace IN $namespaces
RETURN count(e) AS entity_count`

// The hop bound of a variable-length pattern cannot be a parameter, so the
// clamped depth is formatted into the query. Matches are ordered by the
// position of the first candidate that produced them.
const expandEntitiesQueryTemplate = `
UNWIND range(0, size($candidates) - 1) AS idx
WITH idx, toLower($candidates[idx]) AS candidate
MATCH (e:Entity)
WHERE (size($namespaces) = 0 OR e.namespace IN $namespaces)
  AND (toLower(e.name) CONTAINS candidate OR candidate CONTAINS toLower(e.name))
WITH e, min(idx) AS rank
ORDER BY rank, e.name
LIMIT $limit
OPTIONAL MATCH (e)-[rels*1..%d]-(n:Entity)
WHERE n <> e
  AND (size($namespaces) = 0 OR n.namespace IN $namespaces)
  AND all(r IN rels WHERE type(r) IN $relationship_types AND startNode(r) <> endNode(r))
WITH e, rank, collect(DISTINCT n.name) AS neighbors
RETURN e.name AS name, rank, neighbors[..$limit] AS neighbors
ORDER BY rank, name`

func expandEntitiesQuery(hops int) string {
	return fmt.Sprintf(expandEntitiesQueryTemplate, hops)
}
