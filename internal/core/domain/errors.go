package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a query string that is empty after trimming.
	// Rejected before any embedding call is made.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrInvalidGranularity indicates an unknown retrieval granularity.
	ErrInvalidGranularity = errors.New("invalid granularity")

	// ErrInvalidTimezone indicates a timezone name the platform cannot load.
	ErrInvalidTimezone = errors.New("invalid timezone")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Nothing can be indexed or queried without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrRerankerUnavailable indicates the rerank service is not configured.
	ErrRerankerUnavailable = errors.New("rerank service unavailable")
)
