package enrichment

import (
	"context"

	"github.com/davidleathers/muletrace-analytics/internal/domain/detection"
)

// Service derives the presentation structures for one detection payload.
type Service interface {
	// Enrich runs score decomposition, temporal clustering and graph
	// building over the payload and returns the combined result.
	Enrich(ctx context.Context, payload *detection.Payload) (*Result, error)
}
