package types

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Validation errors
var (
	ErrEmptyName        = errors.New("name cannot be empty")
	ErrEmptyID          = errors.New("id cannot be empty")
	ErrEmptyEndpoint    = errors.New("relationship source and target cannot be empty")
	ErrInvalidScore     = errors.New("confidence must be within [0, 1]")
	ErrInvalidLimit     = errors.New("limit must be positive")
	ErrInvalidCommunity = errors.New("community id must have the form community_<n>")
)

// ChunkEntityType marks entity-shaped records that carry passage text.
const ChunkEntityType = "CHUNK"

// CommunityIDPrefix is the prefix of persisted community labels.
const CommunityIDPrefix = "community_"

// GraphEntity represents an entity in the knowledge graph.
// For CHUNK records Description holds the full passage text.
type GraphEntity struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Type           string         `json:"type"`
	Description    string         `json:"description"`
	Properties     map[string]any `json:"properties,omitempty"`
	SourceDocument string         `json:"source_document,omitempty"`
	Confidence     float64        `json:"confidence"`
}

// Validate checks if the GraphEntity has all required fields set.
func (e *GraphEntity) Validate() error {
	if e.ID == "" {
		return ErrEmptyID
	}
	if e.Name == "" {
		return ErrEmptyName
	}
	if e.Confidence < 0 || e.Confidence > 1 {
		return ErrInvalidScore
	}
	return nil
}

// CommunityID returns the persisted community label of the entity, if any.
func (e *GraphEntity) CommunityID() string {
	if e.Properties == nil {
		return ""
	}
	if v, ok := e.Properties["community_id"].(string); ok {
		return v
	}
	return ""
}

// GraphRelationship represents a relationship between two entities, referenced by name.
type GraphRelationship struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	Target      string         `json:"target"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Properties  map[string]any `json:"properties,omitempty"`
	Confidence  float64        `json:"confidence"`
}

// Validate checks if the GraphRelationship has all required fields set.
func (r *GraphRelationship) Validate() error {
	if r.Source == "" || r.Target == "" {
		return ErrEmptyEndpoint
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return ErrInvalidScore
	}
	return nil
}

// Topic is a topic-level aggregation of entities returned by global search.
type Topic struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Summary  string   `json:"summary"`
	Entities []string `json:"entities"`
	Keywords []string `json:"keywords"`
	Score    float64  `json:"score"`
}

// Community is one cell of a graph partition.
type Community struct {
	ID        string         `json:"id"`
	Label     string         `json:"label"`
	EntityIDs []string       `json:"entity_ids"`
	Size      int            `json:"size"`
	Density   float64        `json:"density"`
	CreatedAt time.Time      `json:"created_at"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// FormatCommunityID returns the persisted label for community index n.
func FormatCommunityID(n int) string {
	return CommunityIDPrefix + strconv.Itoa(n)
}

// ParseCommunityID returns the integer suffix of a community label.
func ParseCommunityID(id string) (int, error) {
	if !strings.HasPrefix(id, CommunityIDPrefix) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCommunity, id)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, CommunityIDPrefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCommunity, id)
	}
	return n, nil
}

// Density returns internal_edges / (size*(size-1)/2), or 0 for size <= 1.
func Density(size, internalEdges int) float64 {
	if size <= 1 {
		return 0.0
	}
	possible := float64(size*(size-1)) / 2.0
	return float64(internalEdges) / possible
}

// ScoredEntity is an expanded entity name with its semantic similarity to the query.
type ScoredEntity struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// GraphQueryResult is the result of a hybrid search.
type GraphQueryResult struct {
	Query         string               `json:"query"`
	Entities      []*GraphEntity       `json:"entities"`
	Relationships []*GraphRelationship `json:"relationships"`
	Topics        []*Topic             `json:"topics"`
	Context       string               `json:"context"`
	Answer        string               `json:"answer"`
	Metadata      map[string]any       `json:"metadata"`
}

// CommunitySearchResult is the result of a community-scoped search.
type CommunitySearchResult struct {
	Query       string         `json:"query"`
	Entities    []*GraphEntity `json:"entities"`
	Communities []*Community   `json:"communities"`
	Context     string         `json:"context"`
	Answer      string         `json:"answer"`
	Metadata    map[string]any `json:"metadata"`
}

// CommunityStatistics summarises a single community.
type CommunityStatistics struct {
	CommunityID   string         `json:"community_id"`
	Size          int            `json:"size"`
	InternalEdges int            `json:"internal_edges"`
	Density       float64        `json:"density"`
	EntityTypes   map[string]int `json:"entity_types"`
}

// CacheInfo reports the state of the partition cache.
type CacheInfo struct {
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	Size    int     `json:"size"`
	MaxSize int     `json:"maxsize"`
	HitRate float64 `json:"hit_rate"`
}
