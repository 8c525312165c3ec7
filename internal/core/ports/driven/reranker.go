package driven

import "context"

// Reranker scores the pairwise relevance of a query against candidate text
// with a cross-encoder. Rerank scores supersede dense retrieval similarity
// as the primary ranking signal; the two score spaces are not comparable.
type Reranker interface {
	// Score returns the relevance of one candidate to the query.
	Score(ctx context.Context, query, candidate string) (float64, error)

	// ScoreBatch scores all candidates against the query in one call,
	// returning scores in candidate order.
	ScoreBatch(ctx context.Context, query string, candidates []string) ([]float64, error)

	// Ping validates the service is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
