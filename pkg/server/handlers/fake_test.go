package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/graphrecall"
	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeClient answers from canned values and records the arguments it saw.
type fakeClient struct {
	pingErr error
	err     error

	entities    []*types.GraphEntity
	topics      []*types.Topic
	hybrid      *types.GraphQueryResult
	communities []*types.Community
	stats       *types.CommunityStatistics
	job         *jobs.Job
	jobs        []*jobs.Job
	cache       types.CacheInfo

	lastQuery      string
	lastTopK       int
	lastNamespaces []string
	lastIDs        []string
	lastMinSize    int
	lastLimit      int
	lastJobOptions jobs.Options
	cacheCleared   bool
}

var _ graphrecall.GraphRecall = (*fakeClient)(nil)

func (f *fakeClient) record(query string, topK int, namespaces []string) {
	f.lastQuery, f.lastTopK, f.lastNamespaces = query, topK, namespaces
}

func (f *fakeClient) LocalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.GraphEntity, map[string]any, error) {
	f.record(query, topK, namespaces)
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.entities, map[string]any{"entities_found": len(f.entities)}, nil
}

func (f *fakeClient) GlobalSearch(ctx context.Context, query string, topK int, namespaces []string) ([]*types.Topic, error) {
	f.record(query, topK, namespaces)
	return f.topics, f.err
}

func (f *fakeClient) HybridSearch(ctx context.Context, query string, topK int, namespaces []string) (*types.GraphQueryResult, error) {
	f.record(query, topK, namespaces)
	return f.hybrid, f.err
}

func (f *fakeClient) SearchByCommunity(ctx context.Context, query string, communityIDs []string, topK int) (*types.CommunitySearchResult, error) {
	f.record(query, topK, nil)
	f.lastIDs = communityIDs
	if f.err != nil {
		return nil, f.err
	}
	return &types.CommunitySearchResult{Query: query, Entities: f.entities, Communities: f.communities}, nil
}

func (f *fakeClient) DetectCommunities(ctx context.Context, opts community.DetectOptions) (*community.DetectionResult, error) {
	return &community.DetectionResult{Communities: f.communities}, f.err
}

func (f *fakeClient) RunDetectionJob(ctx context.Context, opts jobs.Options) (*jobs.Job, error) {
	f.lastJobOptions = opts
	return f.job, f.err
}

func (f *fakeClient) GetCommunity(ctx context.Context, communityID string) (*types.Community, error) {
	f.lastIDs = []string{communityID}
	if f.err != nil {
		return nil, f.err
	}
	return f.communities[0], nil
}

func (f *fakeClient) GetEntityCommunity(ctx context.Context, entityID string) (*types.Community, error) {
	f.lastIDs = []string{entityID}
	if f.err != nil {
		return nil, f.err
	}
	return f.communities[0], nil
}

func (f *fakeClient) ListCommunities(ctx context.Context, minSize int) ([]*types.Community, error) {
	f.lastMinSize = minSize
	return f.communities, f.err
}

func (f *fakeClient) FindRelatedCommunities(ctx context.Context, communityID string, topK int) ([]*types.Community, error) {
	f.lastIDs = []string{communityID}
	f.lastTopK = topK
	return f.communities, f.err
}

func (f *fakeClient) GetCommunityStatistics(ctx context.Context, communityID string) (*types.CommunityStatistics, error) {
	f.lastIDs = []string{communityID}
	return f.stats, f.err
}

func (f *fakeClient) CacheInfo() types.CacheInfo { return f.cache }

func (f *fakeClient) ClearCache() {
	f.cacheCleared = true
	f.cache = types.CacheInfo{MaxSize: f.cache.MaxSize}
}

func (f *fakeClient) GetJob(ctx context.Context, jobID string) (*jobs.Job, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.job, nil
}

func (f *fakeClient) ListJobs(ctx context.Context, limit int) ([]*jobs.Job, error) {
	f.lastLimit = limit
	return f.jobs, f.err
}

func (f *fakeClient) Ping(ctx context.Context) error { return f.pingErr }

// serve registers one handler on route and sends a request to path.
func serve(t *testing.T, method, route, path, body string, h gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, h)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
