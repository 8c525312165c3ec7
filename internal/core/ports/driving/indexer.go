package driving

import (
	"context"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// IndexManager coordinates the four granular indices and the file registry.
// All operations are synchronous and serialised behind a single lock.
type IndexManager interface {
	// IndexFile replaces a file's segments with freshly parsed ones.
	// Old and new segments never coexist.
	IndexFile(ctx context.Context, path string, content []byte) error

	// RemoveFile drops every segment attributed to the path.
	RemoveFile(ctx context.Context, path string) error

	// Rebuild clears all state and re-walks the docs directory.
	Rebuild(ctx context.Context) error

	// Reset clears all state and persists the now-empty indices.
	// Does not re-walk; call Rebuild to repopulate.
	Reset(ctx context.Context) error

	// Counts returns the number of indexed segments per granularity.
	Counts() map[domain.Granularity]int

	// Status returns the progress of the current or last indexing run.
	Status() domain.IndexStatus
}
