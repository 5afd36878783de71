package search

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/soundprediction/graphrecall/pkg/types"
)

// buildContext renders the retrieved records as labelled sections for the
// answer prompt, at most MaxContextItems per section. It returns "" when
// nothing was retrieved.
func buildContext(entities []*types.GraphEntity, relationships []*types.GraphRelationship, topics []*types.Topic) string {
	if len(entities) == 0 && len(relationships) == 0 && len(topics) == 0 {
		return ""
	}

	var entityJSON []map[string]any
	for _, e := range firstN(entities, MaxContextItems) {
		entityJSON = append(entityJSON, entityContext(e))
	}

	var relationshipJSON []map[string]any
	for _, r := range firstN(relationships, MaxContextItems) {
		relationshipJSON = append(relationshipJSON, map[string]any{
			"source":      r.Source,
			"relation":    r.Type,
			"target":      r.Target,
			"description": r.Description,
		})
	}

	var topicJSON []map[string]any
	for _, t := range firstN(topics, MaxContextItems) {
		topicJSON = append(topicJSON, map[string]any{
			"topic":    t.Name,
			"summary":  t.Summary,
			"entities": t.Keywords,
		})
	}

	return fmt.Sprintf(`ENTITIES are passages and entities relevant to the question.
RELATIONSHIPS connect the entities that were found.
TOPICS group the entities by kind.
<ENTITIES>
%s
</ENTITIES>
<RELATIONSHIPS>
%s
</RELATIONSHIPS>
<TOPICS>
%s
</TOPICS>`, toPromptJSON(entityJSON), toPromptJSON(relationshipJSON), toPromptJSON(topicJSON))
}

// buildCommunityContext renders entities and the communities they belong to.
func buildCommunityContext(entities []*types.GraphEntity, communities []*types.Community) string {
	if len(entities) == 0 {
		return ""
	}

	var entityJSON []map[string]any
	for _, e := range firstN(entities, MaxContextItems) {
		entityJSON = append(entityJSON, entityContext(e))
	}

	var communityJSON []map[string]any
	for _, c := range firstN(communities, MaxContextItems) {
		communityJSON = append(communityJSON, map[string]any{
			"community": c.ID,
			"entities":  firstN(c.EntityIDs, MaxContextItems),
		})
	}

	return fmt.Sprintf(`ENTITIES are entities relevant to the question.
COMMUNITIES are clusters of closely related entities.
<ENTITIES>
%s
</ENTITIES>
<COMMUNITIES>
%s
</COMMUNITIES>`, toPromptJSON(entityJSON), toPromptJSON(communityJSON))
}

func entityContext(e *types.GraphEntity) map[string]any {
	if e.Type == types.ChunkEntityType {
		return map[string]any{
			"source":  e.Name,
			"content": e.Description,
		}
	}
	return map[string]any{
		"entity_name": e.Name,
		"type":        e.Type,
		"summary":     e.Description,
	}
}

func firstN[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// toPromptJSON renders data as indented JSON for prompts. Empty sections
// render as [].
func toPromptJSON(data []map[string]any) string {
	if len(data) == 0 {
		return "[]"
	}
	b, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return "[]"
	}
	return strings.TrimSpace(string(b))
}
