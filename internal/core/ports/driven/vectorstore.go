package driven

import (
	"context"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/index"
)

// VectorStore persists the vector search structures, one snapshot per
// granularity. Only the vectors are persisted; segment metadata and the file
// registry are reconstructed by the startup rebuild walk.
type VectorStore interface {
	// SaveVectors replaces the persisted snapshot for a granularity.
	SaveVectors(ctx context.Context, g domain.Granularity, entries []index.Entry) error

	// LoadVectors returns the persisted snapshot for a granularity.
	// An absent snapshot yields an empty slice, not an error.
	LoadVectors(ctx context.Context, g domain.Granularity) ([]index.Entry, error)

	// Close releases resources.
	Close() error
}
