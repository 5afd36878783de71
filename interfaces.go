package graphrecall

import (
	"context"

	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// Consumers should depend on the smallest interface that meets their needs.
// GraphRecall composes all of them and is implemented by *Client.

// Searcher provides read-only retrieval over the knowledge graph.
type Searcher interface {
	// LocalSearch returns passages that mention the entities expanded from query.
	LocalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.GraphEntity, map[string]any, error)

	// GlobalSearch returns topics built from the entity types of the expanded entities.
	GlobalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.Topic, error)

	// HybridSearch combines local and global retrieval, gathers relationships
	// between the retrieved entities and generates a grounded answer.
	HybridSearch(ctx context.Context, query string, topK int, namespaces []string) (*types.GraphQueryResult, error)

	// SearchByCommunity returns matching entities grouped by community.
	SearchByCommunity(ctx context.Context, query string, communityIDs []string, topK int) (*types.CommunitySearchResult, error)
}

// CommunityManager detects, persists and reads communities.
type CommunityManager interface {
	DetectCommunities(ctx context.Context, opts community.DetectOptions) (*community.DetectionResult, error)
	RunDetectionJob(ctx context.Context, opts jobs.Options) (*jobs.Job, error)

	GetCommunity(ctx context.Context, communityID string) (*types.Community, error)
	GetEntityCommunity(ctx context.Context, entityID string) (*types.Community, error)
	ListCommunities(ctx context.Context, minSize int) ([]*types.Community, error)
	FindRelatedCommunities(ctx context.Context, communityID string, topK int) ([]*types.Community, error)
	GetCommunityStatistics(ctx context.Context, communityID string) (*types.CommunityStatistics, error)

	CacheInfo() types.CacheInfo
	ClearCache()
}

// JobReader reads recorded detection jobs.
type JobReader interface {
	GetJob(ctx context.Context, jobID string) (*jobs.Job, error)
	ListJobs(ctx context.Context, limit int) ([]*jobs.Job, error)
}

// HealthChecker reports whether the graph store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// GraphRecall is the full client surface.
type GraphRecall interface {
	Searcher
	CommunityManager
	JobReader
	HealthChecker
}

var _ GraphRecall = (*Client)(nil)
