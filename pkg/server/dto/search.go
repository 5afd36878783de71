package dto

import (
	"github.com/soundprediction/graphrecall/pkg/types"
)

// SearchRequest is the body of the local, global and hybrid search endpoints.
// A zero TopK uses the server default.
type SearchRequest struct {
	Query      string   `json:"query" binding:"required"`
	TopK       int      `json:"top_k,omitempty"`
	Namespaces []string `json:"namespaces,omitempty"`
}

// Validate performs validation on SearchRequest
func (r *SearchRequest) Validate() error {
	if err := validateQuery(r.Query); err != nil {
		return err
	}
	if err := validateTopK(r.TopK); err != nil {
		return err
	}
	if len(r.Namespaces) > MaxNamespaces {
		return ErrTooManyNamespaces
	}
	for _, ns := range r.Namespaces {
		if len(ns) > MaxNamespaceLength {
			return ErrNamespaceTooLong
		}
	}
	return nil
}

// LocalSearchResponse carries the passages found by local search
type LocalSearchResponse struct {
	Query    string               `json:"query"`
	Entities []*types.GraphEntity `json:"entities"`
	Total    int                  `json:"total"`
	Metadata map[string]any       `json:"metadata"`
}

// GlobalSearchResponse carries the topics found by global search
type GlobalSearchResponse struct {
	Query  string         `json:"query"`
	Topics []*types.Topic `json:"topics"`
	Total  int            `json:"total"`
}

// CommunitySearchRequest is the body of POST /communities/search.
// An empty CommunityIDs searches every community.
type CommunitySearchRequest struct {
	Query        string   `json:"query" binding:"required"`
	CommunityIDs []string `json:"community_ids,omitempty"`
	TopK         int      `json:"top_k,omitempty"`
}

// Validate performs validation on CommunitySearchRequest
func (r *CommunitySearchRequest) Validate() error {
	if err := validateQuery(r.Query); err != nil {
		return err
	}
	if err := validateTopK(r.TopK); err != nil {
		return err
	}
	if len(r.CommunityIDs) > MaxCommunityIDs {
		return ErrTooManyCommunities
	}
	return nil
}
