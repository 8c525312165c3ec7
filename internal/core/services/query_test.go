package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// mockSearcher serves a canned candidate list.
type mockSearcher struct {
	candidates []domain.Candidate
	gotMode    domain.Granularity
	gotN       int
}

func (m *mockSearcher) SearchCandidates(g domain.Granularity, _ []float32, n int) []domain.Candidate {
	m.gotMode = g
	m.gotN = n
	if len(m.candidates) > n {
		return m.candidates[:n]
	}
	return m.candidates
}

// mockReranker scores candidates from a fixed text-to-score table.
type mockReranker struct {
	scores map[string]float64
	err    error
	calls  int
}

func (m *mockReranker) Score(ctx context.Context, query, candidate string) (float64, error) {
	scores, err := m.ScoreBatch(ctx, query, []string{candidate})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

func (m *mockReranker) ScoreBatch(_ context.Context, _ string, candidates []string) ([]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	scores := make([]float64, len(candidates))
	for i, text := range candidates {
		scores[i] = m.scores[text]
	}
	return scores, nil
}

func (m *mockReranker) Ping(_ context.Context) error { return nil }
func (m *mockReranker) Close() error                 { return nil }

func newTestQuery(searcher *mockSearcher, reranker *mockReranker) (*Query, *mockEmbedder) {
	embedder := newMockEmbedder()
	q := NewQuery(embedder, reranker, searcher, newMockSettings("/notes"))
	return q, embedder
}

func candidate(id int64, text string, date *time.Time) domain.Candidate {
	return domain.Candidate{
		ID:         id,
		Similarity: 0.5,
		Segment: domain.Segment{
			Text:        text,
			Date:        date,
			Granularity: domain.GranularityMemory,
		},
	}
}

func TestQuery_RejectsBlankBeforeEmbedding(t *testing.T) {
	q, embedder := newTestQuery(&mockSearcher{}, &mockReranker{})

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := q.Query(context.Background(), text, domain.QueryOptions{})
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	}
	assert.Zero(t, embedder.callCount)
}

func TestQuery_RejectsInvalidMode(t *testing.T) {
	q, _ := newTestQuery(&mockSearcher{}, &mockReranker{})

	mode := domain.Granularity("paragraph")
	_, err := q.Query(context.Background(), "milk", domain.QueryOptions{Mode: &mode})
	assert.ErrorIs(t, err, domain.ErrInvalidGranularity)
}

func TestQuery_EmptyIndexYieldsEmptyList(t *testing.T) {
	q, _ := newTestQuery(&mockSearcher{}, &mockReranker{})

	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{})
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestQuery_RerankSupersedesSimilarity(t *testing.T) {
	searcher := &mockSearcher{candidates: []domain.Candidate{
		{ID: 0, Similarity: 0.9, Segment: domain.Segment{Text: "weakly relevant"}},
		{ID: 1, Similarity: 0.2, Segment: domain.Segment{Text: "highly relevant"}},
	}}
	reranker := &mockReranker{scores: map[string]float64{
		"weakly relevant": 0.1,
		"highly relevant": 0.95,
	}}
	q, _ := newTestQuery(searcher, reranker)

	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "highly relevant", results[0].Text)
	assert.Equal(t, "weakly relevant", results[1].Text)
}

func TestQuery_RecencyOrdering(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	oneDayOld := now.AddDate(0, 0, -1)
	thirtyDaysOld := now.AddDate(0, 0, -30)

	searcher := &mockSearcher{candidates: []domain.Candidate{
		candidate(0, "older entry", &thirtyDaysOld),
		candidate(1, "newer entry", &oneDayOld),
	}}
	// Identical rerank scores; only recency separates them.
	reranker := &mockReranker{scores: map[string]float64{
		"older entry": 0.8,
		"newer entry": 0.8,
	}}
	q, _ := newTestQuery(searcher, reranker)
	q.now = func() time.Time { return now }

	weight := 0.1
	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{RecencyWeight: &weight})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "newer entry", results[0].Text)
	assert.Equal(t, "older entry", results[1].Text)
}

func TestQuery_ZeroWeightIgnoresDates(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, -6, 0)

	searcher := &mockSearcher{candidates: []domain.Candidate{
		candidate(0, "ancient", &old),
		candidate(1, "fresh", &now),
	}}
	reranker := &mockReranker{scores: map[string]float64{
		"ancient": 0.9,
		"fresh":   0.5,
	}}
	q, _ := newTestQuery(searcher, reranker)

	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "ancient", results[0].Text)
}

func TestQuery_NegativeWeightDoesNotBoostOldEntries(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -100)

	searcher := &mockSearcher{candidates: []domain.Candidate{
		candidate(0, "ancient", &old),
		candidate(1, "fresh", &now),
	}}
	reranker := &mockReranker{scores: map[string]float64{
		"ancient": 0.5,
		"fresh":   0.9,
	}}
	q, _ := newTestQuery(searcher, reranker)

	// A negative weight is treated as no decay, not as an age bonus.
	weight := -0.1
	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{RecencyWeight: &weight})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "fresh", results[0].Text)
	assert.Equal(t, "ancient", results[1].Text)
}

func TestQuery_UndatedCandidatesSkipDecay(t *testing.T) {
	now := time.Now()
	old := now.AddDate(0, 0, -100)

	searcher := &mockSearcher{candidates: []domain.Candidate{
		candidate(0, "dated", &old),
		candidate(1, "undated", nil),
	}}
	reranker := &mockReranker{scores: map[string]float64{
		"dated":   0.9,
		"undated": 0.5,
	}}
	q, _ := newTestQuery(searcher, reranker)

	weight := 0.05
	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{RecencyWeight: &weight})
	require.NoError(t, err)
	require.Len(t, results, 2)
	// 0.9 - 100*0.05 = -4.1 versus untouched 0.5.
	assert.Equal(t, "undated", results[0].Text)
}

func TestQuery_TruncatesToNResults(t *testing.T) {
	var candidates []domain.Candidate
	scores := make(map[string]float64)
	texts := []string{"a", "b", "c", "d", "e", "f", "g"}
	for i, text := range texts {
		candidates = append(candidates, candidate(int64(i), text, nil))
		scores[text] = float64(len(texts) - i)
	}

	searcher := &mockSearcher{candidates: candidates}
	q, _ := newTestQuery(searcher, &mockReranker{scores: scores})

	limit := 3
	results, err := q.Query(context.Background(), "milk", domain.QueryOptions{NResults: &limit})
	require.NoError(t, err)
	assert.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Text)
}

func TestQuery_ModeOverride(t *testing.T) {
	searcher := &mockSearcher{}
	q, _ := newTestQuery(searcher, &mockReranker{})

	mode := domain.GranularityLine
	_, err := q.Query(context.Background(), "milk", domain.QueryOptions{Mode: &mode})
	require.NoError(t, err)
	assert.Equal(t, domain.GranularityLine, searcher.gotMode)
}

func TestQuery_CandidateCountAtLeastResultCount(t *testing.T) {
	searcher := &mockSearcher{}
	q, _ := newTestQuery(searcher, &mockReranker{})

	// Default candidate count is 10; requesting 25 results widens the
	// candidate pool to match.
	limit := 25
	_, err := q.Query(context.Background(), "milk", domain.QueryOptions{NResults: &limit})
	require.NoError(t, err)
	assert.Equal(t, 25, searcher.gotN)
}

func TestQuery_RerankerErrorPropagates(t *testing.T) {
	searcher := &mockSearcher{candidates: []domain.Candidate{
		candidate(0, "something", nil),
	}}
	reranker := &mockReranker{err: errors.New("rerank server down")}
	q, _ := newTestQuery(searcher, reranker)

	_, err := q.Query(context.Background(), "milk", domain.QueryOptions{})
	assert.Error(t, err)
}
