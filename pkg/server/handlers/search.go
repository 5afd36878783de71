package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/soundprediction/graphrecall"
	"github.com/soundprediction/graphrecall/pkg/server/dto"
)

// SearchHandler handles retrieval requests
type SearchHandler struct {
	client graphrecall.Searcher
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(client graphrecall.Searcher) *SearchHandler {
	return &SearchHandler{client: client}
}

func bindSearch(c *gin.Context) (*dto.SearchRequest, bool) {
	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return nil, false
	}
	return &req, true
}

// Local handles POST /api/v1/search/local
func (h *SearchHandler) Local(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}

	entities, metadata, err := h.client.LocalSearch(c.Request.Context(), req.Query, req.TopK, req.Namespaces)
	if err != nil {
		writeFailure(c, "search_failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.LocalSearchResponse{
		Query:    req.Query,
		Entities: entities,
		Total:    len(entities),
		Metadata: metadata,
	})
}

// Global handles POST /api/v1/search/global
func (h *SearchHandler) Global(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}

	topics, err := h.client.GlobalSearch(c.Request.Context(), req.Query, req.TopK, req.Namespaces)
	if err != nil {
		writeFailure(c, "search_failed", err)
		return
	}

	c.JSON(http.StatusOK, dto.GlobalSearchResponse{
		Query:  req.Query,
		Topics: topics,
		Total:  len(topics),
	})
}

// Hybrid handles POST /api/v1/search/hybrid
func (h *SearchHandler) Hybrid(c *gin.Context) {
	req, ok := bindSearch(c)
	if !ok {
		return
	}

	result, err := h.client.HybridSearch(c.Request.Context(), req.Query, req.TopK, req.Namespaces)
	if err != nil {
		writeFailure(c, "search_failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Communities handles POST /api/v1/communities/search
func (h *SearchHandler) Communities(c *gin.Context) {
	var req dto.CommunitySearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(c, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	result, err := h.client.SearchByCommunity(c.Request.Context(), req.Query, req.CommunityIDs, req.TopK)
	if err != nil {
		writeFailure(c, "search_failed", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
