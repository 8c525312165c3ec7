package driving

import (
	"context"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// QueryService answers free-text queries against the indexed journal.
type QueryService interface {
	// Query embeds the text, retrieves dense candidates at one granularity,
	// reranks them and returns the top results. Empty queries are rejected
	// with domain.ErrEmptyQuery before any embedding call.
	Query(ctx context.Context, text string, opts domain.QueryOptions) ([]domain.QueryResult, error)
}
