package dto

import (
	"errors"
	"strings"
)

// Validation errors
var (
	ErrEmptyQuery         = errors.New("query cannot be empty")
	ErrQueryTooLong       = errors.New("query exceeds maximum length (10000)")
	ErrTopKOutOfRange     = errors.New("top_k must be between 0 and 100")
	ErrTooManyNamespaces  = errors.New("namespaces count exceeds maximum (50)")
	ErrNamespaceTooLong   = errors.New("namespace exceeds maximum length (256)")
	ErrTooManyCommunities = errors.New("community_ids count exceeds maximum (100)")
)

// MaxFieldLengths defines maximum lengths for fields to prevent abuse
const (
	MaxQueryLength     = 10000
	MaxTopK            = 100
	MaxNamespaces      = 50
	MaxNamespaceLength = 256
	MaxCommunityIDs    = 100
)

// Result represents a generic API result
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return ErrEmptyQuery
	}
	if len(query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

func validateTopK(topK int) error {
	if topK < 0 || topK > MaxTopK {
		return ErrTopKOutOfRange
	}
	return nil
}
