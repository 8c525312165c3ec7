package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
	"github.com/custodia-labs/recollect/internal/logger"
)

// Ensure Query implements the interface.
var _ driving.QueryService = (*Query)(nil)

// candidateSearcher is the slice of the index manager the query pipeline
// needs: a consistent candidate snapshot at one granularity.
type candidateSearcher interface {
	SearchCandidates(g domain.Granularity, query []float32, n int) []domain.Candidate
}

// Query runs the two-stage retrieval pipeline: dense candidate search over
// the granular index, then cross-encoder reranking with a recency penalty.
type Query struct {
	embedder driven.EmbeddingService
	reranker driven.Reranker
	searcher candidateSearcher
	settings driving.SettingsService

	// now is swappable for recency decay tests.
	now func() time.Time
}

// NewQuery creates a query service.
func NewQuery(
	embedder driven.EmbeddingService,
	reranker driven.Reranker,
	searcher candidateSearcher,
	settings driving.SettingsService,
) *Query {
	return &Query{
		embedder: embedder,
		reranker: reranker,
		searcher: searcher,
		settings: settings,
		now:      time.Now,
	}
}

// Query retrieves the top results for the text. Blank queries are rejected
// before any embedding work happens. An empty index yields an empty result
// list, not an error.
func (s *Query) Query(ctx context.Context, text string, opts domain.QueryOptions) ([]domain.QueryResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrEmptyQuery
	}

	cfg := s.settings.Get()

	mode := cfg.RetrievalMode
	if opts.Mode != nil {
		mode = *opts.Mode
	}
	if !mode.IsValid() {
		return nil, domain.ErrInvalidGranularity
	}

	recencyWeight := cfg.RecencyWeight
	if opts.RecencyWeight != nil {
		recencyWeight = *opts.RecencyWeight
	}

	nResults := cfg.NResults
	if opts.NResults != nil && *opts.NResults > 0 {
		nResults = *opts.NResults
	}

	nCandidates := cfg.NCandidates
	if nCandidates < nResults {
		nCandidates = nResults
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates := s.searcher.SearchCandidates(mode, vector, nCandidates)
	if len(candidates) == 0 {
		return []domain.QueryResult{}, nil
	}
	logger.Debug("Dense retrieval returned %d %s candidates", len(candidates), mode)

	if err := s.rerank(ctx, text, candidates); err != nil {
		return nil, fmt.Errorf("rerank candidates: %w", err)
	}

	s.applyRecency(candidates, recencyWeight)

	// Stable sort keeps dense retrieval order for equal scores.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	if len(candidates) > nResults {
		candidates = candidates[:nResults]
	}

	results := make([]domain.QueryResult, len(candidates))
	for i, c := range candidates {
		results[i] = domain.QueryResult{
			Text:          c.Segment.Text,
			Date:          c.Segment.Date,
			Granularity:   c.Segment.Granularity,
			Title:         c.Segment.Title,
			ParentMemory:  c.Segment.ParentMemory,
			ParentSection: c.Segment.ParentSection,
		}
	}
	return results, nil
}

// rerank scores every candidate against the query with the cross-encoder.
// The rerank score replaces similarity as the ranking signal.
func (s *Query) rerank(ctx context.Context, text string, candidates []domain.Candidate) error {
	texts := make([]string, len(candidates))
	for i, c := range candidates {
		texts[i] = c.Segment.Text
	}

	scores, err := s.reranker.ScoreBatch(ctx, text, texts)
	if err != nil {
		return err
	}
	if len(scores) != len(candidates) {
		return fmt.Errorf("reranker returned %d scores for %d candidates", len(scores), len(candidates))
	}

	for i := range candidates {
		candidates[i].Score = scores[i]
	}
	return nil
}

// applyRecency subtracts weight times the segment's age in whole days from
// its score. Undated segments are left untouched, and only a positive weight
// decays; negative values would boost stale entries instead.
func (s *Query) applyRecency(candidates []domain.Candidate, weight float64) {
	if weight <= 0 {
		return
	}
	now := s.now()
	for i := range candidates {
		date := candidates[i].Segment.Date
		if date == nil {
			continue
		}
		days := int(now.Sub(*date).Hours() / 24)
		if days < 0 {
			days = 0
		}
		candidates[i].Score -= weight * float64(days)
	}
}
