package community

import "fmt"

const gdsVersionQuery = `RETURN gds.version() AS version`

const gdsProjectQuery = `
CALL gds.graph.project($graph_name, 'Entity', {
  LINKED: {type: '*', orientation: 'UNDIRECTED'}
})
YIELD graphName
RETURN graphName`

const gdsDropQuery = `
CALL gds.graph.drop($graph_name, false)
YIELD graphName
RETURN graphName`

// gdsStreamQueryTemplate takes the procedure call; rows come back grouped
// by community so members keep a stable order.
const gdsStreamQueryTemplate = `
CALL %s
YIELD nodeId, communityId
WITH gds.util.asNode(nodeId) AS e, communityId
WHERE e.id IS NOT NULL
RETURN e.id AS entity_id, communityId AS community_id
ORDER BY community_id, entity_id`

func gdsStreamQuery(algorithm Algorithm) string {
	var call string
	switch algorithm {
	case AlgorithmLeiden:
		call = "gds.leiden.stream($graph_name, {gamma: $resolution})"
	case AlgorithmLabelPropagation:
		call = "gds.labelPropagation.stream($graph_name)"
	default:
		call = "gds.louvain.stream($graph_name)"
	}
	return fmt.Sprintf(gdsStreamQueryTemplate, call)
}

const loadEntitiesQuery = `
MATCH (e:Entity)
WHERE e.id IS NOT NULL
RETURN e.id AS id
ORDER BY id`

const loadEdgesQuery = `
MATCH (a:Entity)-[]-(b:Entity)
WHERE a.id IS NOT NULL AND b.id IS NOT NULL AND a.id < b.id
RETURN DISTINCT a.id AS source, b.id AS target
ORDER BY source, target`

const setCommunityQuery = `
UNWIND $entity_ids AS entity_id
MATCH (e:Entity {id: entity_id})
SET e.community_id = $community_id`

const clearStagingQuery = `
MATCH (e:Entity)
WHERE e.community_id_staging IS NOT NULL
REMOVE e.community_id_staging`

const stageCommunityQuery = `
UNWIND $entity_ids AS entity_id
MATCH (e:Entity {id: entity_id})
SET e.community_id_staging = $community_id`

const promoteStagingQuery = `
MATCH (e:Entity)
WHERE e.community_id_staging IS NOT NULL
SET e.community_id = e.community_id_staging
REMOVE e.community_id_staging`

const getCommunityQuery = `
MATCH (e:Entity {community_id: $community_id})
WITH e.community_id AS community_id, collect(e.id) AS entity_ids
OPTIONAL MATCH (a:Entity {community_id: community_id})--(b:Entity {community_id: community_id})
WHERE a.id < b.id
RETURN community_id, entity_ids, count(DISTINCT a.id + '|' + b.id) AS internal_edges`

const listCommunitiesQuery = `
MATCH (e:Entity)
WHERE e.community_id IS NOT NULL
WITH e.community_id AS community_id, collect(e.id) AS entity_ids
WHERE size(entity_ids) >= $min_size
OPTIONAL MATCH (a:Entity {community_id: community_id})--(b:Entity {community_id: community_id})
WHERE a.id < b.id
RETURN community_id, entity_ids, count(DISTINCT a.id + '|' + b.id) AS internal_edges
ORDER BY size(entity_ids) DESC, community_id`

const entityCommunityQuery = `
MATCH (e:Entity {id: $entity_id})
RETURN e.community_id AS community_id`
