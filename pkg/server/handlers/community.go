package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/graphrecall"
	"github.com/soundprediction/graphrecall/pkg/server/dto"
)

const defaultRelatedCommunities = 5

// CommunityHandler handles community detection and lookup requests
type CommunityHandler struct {
	client graphrecall.CommunityManager
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(client graphrecall.CommunityManager) *CommunityHandler {
	return &CommunityHandler{client: client}
}

// Detect handles POST /api/v1/communities/detect. Detection runs as a
// recorded job; the job is returned whether it succeeded or failed.
func (h *CommunityHandler) Detect(c *gin.Context) {
	var req dto.DetectRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	job, err := h.client.RunDetectionJob(c.Request.Context(), req.Options())
	if err != nil {
		if job == nil {
			writeFailure(c, "detection_failed", err)
			return
		}
		c.JSON(http.StatusInternalServerError, job)
		return
	}

	c.JSON(http.StatusOK, job)
}

// List handles GET /api/v1/communities?min_size=N
func (h *CommunityHandler) List(c *gin.Context) {
	minSize, ok := intQuery(c, "min_size", 1)
	if !ok {
		return
	}

	communities, err := h.client.ListCommunities(c.Request.Context(), minSize)
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.CommunitiesResponse{
		Communities: communities,
		Total:       len(communities),
	})
}

// Get handles GET /api/v1/communities/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	result, err := h.client.GetCommunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Related handles GET /api/v1/communities/:id/related?top_k=N
func (h *CommunityHandler) Related(c *gin.Context) {
	topK, ok := intQuery(c, "top_k", defaultRelatedCommunities)
	if !ok {
		return
	}

	related, err := h.client.FindRelatedCommunities(c.Request.Context(), c.Param("id"), topK)
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.CommunitiesResponse{
		Communities: related,
		Total:       len(related),
	})
}

// Stats handles GET /api/v1/communities/:id/stats
func (h *CommunityHandler) Stats(c *gin.Context) {
	stats, err := h.client.GetCommunityStatistics(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// EntityCommunity handles GET /api/v1/entities/:id/community
func (h *CommunityHandler) EntityCommunity(c *gin.Context) {
	result, err := h.client.GetEntityCommunity(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeFailure(c, "retrieval_failed", err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CacheInfo handles GET /api/v1/communities/cache
func (h *CommunityHandler) CacheInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CacheResponse{Cache: h.client.CacheInfo()})
}

// ClearCache handles DELETE /api/v1/communities/cache
func (h *CommunityHandler) ClearCache(c *gin.Context) {
	h.client.ClearCache()
	c.JSON(http.StatusOK, dto.CacheResponse{Cache: h.client.CacheInfo(), Cleared: true})
}
