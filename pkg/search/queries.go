package search

// Names are matched case-insensitively; callers pass them lowercased.
const localPassagesQuery = `
MATCH (e:Entity)-[:MENTIONED_IN]->(c:Chunk)
WHERE toLower(e.name) IN $names
  AND (size($namespaces) = 0 OR c.namespace IN $namespaces)
WITH c, collect(DISTINCT e.name) AS matched_entities
RETURN c.id AS id,
       c.content AS content,
       c.source_document AS source_document,
       matched_entities,
       size(matched_entities) AS entity_match_count
ORDER BY entity_match_count DESC, id
LIMIT $limit`

const topicsByTypeQuery = `
MATCH (e:Entity)
WHERE toLower(e.name) IN $names
  AND (size($namespaces) = 0 OR e.namespace IN $namespaces)
WITH coalesce(e.type, 'UNKNOWN') AS type, e
ORDER BY e.name
WITH type, collect(DISTINCT e.name) AS entities, collect(e.description) AS descriptions
RETURN type, entities, descriptions
ORDER BY size(entities) DESC, type
LIMIT $limit`

const relationshipsQuery = `
MATCH (a:Entity)-[r]->(b:Entity)
WHERE (toLower(a.name) IN $names OR toLower(b.name) IN $names)
  AND (size($namespaces) = 0 OR (a.namespace IN $namespaces AND b.namespace IN $namespaces))
RETURN r.id AS id,
       a.name AS source,
       b.name AS target,
       type(r) AS type,
       r.description AS description,
       r.confidence AS confidence
ORDER BY source, type, target
LIMIT $limit`

const communityEntitiesQuery = `
UNWIND $terms AS term
MATCH (e:Entity)
WHERE (size($community_ids) = 0 OR e.community_id IN $community_ids)
  AND (size($namespaces) = 0 OR e.namespace IN $namespaces)
  AND (toLower(e.name) CONTAINS term OR toLower(coalesce(e.description, '')) CONTAINS term)
WITH DISTINCT e
RETURN e.id AS id,
       e.name AS name,
       e.type AS type,
       e.description AS description,
       e.source_document AS source_document,
       e.confidence AS confidence,
       e.namespace AS namespace,
       e.community_id AS community_id
ORDER BY community_id, name
LIMIT $limit`

// No ORDER BY: ties between equally connected communities keep store order.
const relatedCommunitiesQuery = `
MATCH (a:Entity {community_id: $community_id})-[r]-(b:Entity)
WHERE b.community_id IS NOT NULL AND b.community_id <> $community_id
WITH b.community_id AS community_id, count(DISTINCT r) AS connection_count
MATCH (m:Entity {community_id: community_id})
RETURN community_id, connection_count, collect(m.id) AS entity_ids`

const communityMembersQuery = `
MATCH (e:Entity {community_id: $community_id})
RETURN e.id AS id, coalesce(e.type, 'UNKNOWN') AS type`

// Entity pairs, not relationships: parallel edges of different types
// between the same two entities count once.
const communityInternalEdgesQuery = `
MATCH (a:Entity {community_id: $community_id})--(b:Entity {community_id: $community_id})
WHERE a.id < b.id
RETURN DISTINCT a.id AS source, b.id AS target`
