package driver

import (
	"github.com/soundprediction/graphrecall/pkg/types"
)

// Record is a single result row keyed by the query's return aliases.
type Record map[string]any

// String returns the string at key, or "" when absent or not a string.
func (r Record) String(key string) string {
	s, _ := AsString(r[key])
	return s
}

// Int returns the integer at key, or 0.
func (r Record) Int(key string) int {
	i, _ := AsInt64(r[key])
	return int(i)
}

// Float returns the number at key as float64, or 0.
func (r Record) Float(key string) float64 {
	f, _ := AsFloat64(r[key])
	return f
}

// Strings returns the string list at key. Null elements are skipped.
func (r Record) Strings(key string) []string {
	if s, ok := AsStringSlice(r[key]); ok {
		return s
	}
	items, ok := AsAnySlice(r[key])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Map returns the map at key, or nil.
func (r Record) Map(key string) map[string]any {
	m, _ := AsMap(r[key])
	return m
}

// Has reports whether key is present with a non-nil value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && v != nil
}

// EntityFromRecord maps a row with the conventional entity aliases
// (id, name, type, description, source_document, confidence) to a GraphEntity.
// Rows without an id fall back to the name.
func EntityFromRecord(r Record) types.GraphEntity {
	entity := types.GraphEntity{
		ID:             r.String("id"),
		Name:           r.String("name"),
		Type:           r.String("type"),
		Description:    r.String("description"),
		SourceDocument: r.String("source_document"),
		Confidence:     1.0,
		Properties:     map[string]any{},
	}
	if entity.ID == "" {
		entity.ID = entity.Name
	}
	if r.Has("confidence") {
		entity.Confidence = r.Float("confidence")
	}
	if r.Has("community_id") {
		entity.Properties["community_id"] = r.String("community_id")
	}
	if r.Has("namespace") {
		entity.Properties["namespace"] = r.String("namespace")
	}
	return entity
}

// RelationshipFromRecord maps a row with the aliases source, target, type,
// description and confidence to a GraphRelationship.
func RelationshipFromRecord(r Record) types.GraphRelationship {
	rel := types.GraphRelationship{
		ID:          r.String("id"),
		Source:      r.String("source"),
		Target:      r.String("target"),
		Type:        r.String("type"),
		Description: r.String("description"),
		Confidence:  1.0,
		Properties:  map[string]any{},
	}
	if rel.ID == "" {
		rel.ID = rel.Source + "-" + rel.Type + "-" + rel.Target
	}
	if r.Has("confidence") {
		rel.Confidence = r.Float("confidence")
	}
	return rel
}
