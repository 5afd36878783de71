package dto

import (
	"errors"

	"github.com/soundprediction/graphrecall/pkg/community"
	"github.com/soundprediction/graphrecall/pkg/jobs"
	"github.com/soundprediction/graphrecall/pkg/types"
)

// DetectRequest is the body of POST /communities/detect. Zero values take
// the detector defaults.
type DetectRequest struct {
	Algorithm  string  `json:"algorithm,omitempty"`
	Resolution float64 `json:"resolution,omitempty"`
	MinSize    int     `json:"min_size,omitempty"`
}

// Validate performs validation on DetectRequest
func (r *DetectRequest) Validate() error {
	if r.Algorithm != "" {
		if _, err := community.ParseAlgorithm(r.Algorithm); err != nil {
			return err
		}
	}
	if r.Resolution < 0 {
		return errors.New("resolution cannot be negative")
	}
	if r.MinSize < 0 {
		return errors.New("min_size cannot be negative")
	}
	return nil
}

// Options converts the request into job options. Validate must pass first.
func (r *DetectRequest) Options() jobs.Options {
	var algorithm community.Algorithm
	if r.Algorithm != "" {
		algorithm, _ = community.ParseAlgorithm(r.Algorithm)
	}
	return jobs.Options{
		Algorithm:  algorithm,
		Resolution: r.Resolution,
		MinSize:    r.MinSize,
		Trigger:    jobs.TriggerManual,
	}
}

// CommunitiesResponse lists communities
type CommunitiesResponse struct {
	Communities []*types.Community `json:"communities"`
	Total       int                `json:"total"`
}

// JobsResponse lists detection jobs
type JobsResponse struct {
	Jobs  []*jobs.Job `json:"jobs"`
	Total int         `json:"total"`
}

// CacheResponse reports the partition cache statistics
type CacheResponse struct {
	Cache   types.CacheInfo `json:"cache"`
	Cleared bool            `json:"cleared,omitempty"`
}
