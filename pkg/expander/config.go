package expander

// Bounds for expander settings. Values outside are clamped, never rejected.
const (
	MinHops = 1
	MaxHops = 3

	MinSynonymThreshold = 5
	MaxSynonymThreshold = 20

	MinSynonyms = 1
	MaxSynonyms = 5
)

// Stage caps.
const (
	MaxExtractedCandidates = 10
	MaxExpandedEntities    = 50
	synonymSourceCount     = 2
	defaultTopK            = 10
)

// AllowedRelationshipTypes are the relationship types followed during graph expansion.
var AllowedRelationshipTypes = []string{
	"RELATED_TO",
	"PART_OF",
	"IS_A",
	"HAS_PROPERTY",
	"USES",
	"DEPENDS_ON",
	"CAUSES",
	"LOCATED_IN",
	"WORKS_FOR",
	"ASSOCIATED_WITH",
	"SIMILAR_TO",
}

// Config controls the expansion pipeline.
type Config struct {
	// GraphExpansionHops is the traversal depth of stage 2 (1-3).
	GraphExpansionHops int
	// SynonymThreshold triggers stage 3 when stage 2 yields fewer names (5-20).
	SynonymThreshold int
	// MaxSynonyms per source candidate in stage 3 (1-5).
	MaxSynonyms int
	// EnableSynonyms turns stage 3 on.
	EnableSynonyms bool
}

// DefaultConfig returns the default expansion settings.
func DefaultConfig() Config {
	return Config{
		GraphExpansionHops: 1,
		SynonymThreshold:   10,
		MaxSynonyms:        3,
		EnableSynonyms:     true,
	}
}

// Clamp returns c with every field forced into its valid range.
func (c Config) Clamp() Config {
	c.GraphExpansionHops = clamp(c.GraphExpansionHops, MinHops, MaxHops)
	c.SynonymThreshold = clamp(c.SynonymThreshold, MinSynonymThreshold, MaxSynonymThreshold)
	c.MaxSynonyms = clamp(c.MaxSynonyms, MinSynonyms, MaxSynonyms)
	return c
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
