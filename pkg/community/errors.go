package community

import "errors"

var (
	// ErrCommunityNotFound is returned when no entity carries the requested label.
	ErrCommunityNotFound = errors.New("community not found")
	// ErrUnsupportedAlgorithm is returned for unknown algorithm names.
	ErrUnsupportedAlgorithm = errors.New("unsupported community detection algorithm")
)
