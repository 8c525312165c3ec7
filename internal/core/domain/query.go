package domain

import "time"

// QueryOptions configures a single query. Nil fields fall back to the
// corresponding setting.
type QueryOptions struct {
	// Mode overrides the default retrieval granularity.
	Mode *Granularity

	// RecencyWeight overrides the default recency penalty per day.
	RecencyWeight *float64

	// NResults overrides the default result count.
	NResults *int
}

// QueryResult is one ranked answer projected for callers.
type QueryResult struct {
	// Text is the segment content.
	Text string `json:"text"`

	// Date is the calendar date of the source file, if known.
	Date *time.Time `json:"date,omitempty"`

	// Granularity is the segmentation level of the match.
	Granularity Granularity `json:"type"`

	// Title is the segment's heading, if any.
	Title string `json:"title,omitempty"`

	// ParentMemory is the enclosing memory title, if any.
	ParentMemory string `json:"parent_memory,omitempty"`

	// ParentSection is the enclosing section title, if any.
	ParentSection string `json:"parent_section,omitempty"`
}

// Candidate is an intermediate query pipeline entry: a dense retrieval hit
// hydrated with its segment metadata, before and after reranking.
type Candidate struct {
	// ID is the segment identifier within its granular index.
	ID int64

	// Similarity is the cosine similarity from dense retrieval.
	Similarity float64

	// Score is the rerank relevance score, recency-adjusted.
	// Supersedes Similarity as the primary ranking signal.
	Score float64

	// Segment is a snapshot of the matched segment's metadata, captured
	// atomically with the candidate search.
	Segment Segment
}
