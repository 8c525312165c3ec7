package tei

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreBatch_OrdersByInputPosition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rerank", r.URL.Path)

		var req rerankRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "milk", req.Query)
		require.Len(t, req.Texts, 3)

		// TEI returns results sorted by score, not input order.
		json.NewEncoder(w).Encode([]rerankResult{
			{Index: 2, Score: 0.9},
			{Index: 0, Score: 0.5},
			{Index: 1, Score: 0.1},
		})
	}))
	defer server.Close()

	r := NewReranker(Config{BaseURL: server.URL})

	scores, err := r.ScoreBatch(context.Background(), "milk", []string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.1, 0.9}, scores)
}

func TestScore_SingleCandidate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]rerankResult{{Index: 0, Score: 0.42}})
	}))
	defer server.Close()

	r := NewReranker(Config{BaseURL: server.URL})

	score, err := r.Score(context.Background(), "milk", "bought milk today")
	require.NoError(t, err)
	assert.Equal(t, 0.42, score)
}

func TestScoreBatch_EmptyInput(t *testing.T) {
	r := NewReranker(Config{BaseURL: "http://localhost:1"})

	scores, err := r.ScoreBatch(context.Background(), "milk", nil)
	require.NoError(t, err)
	assert.Nil(t, scores)
}

func TestScoreBatch_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	r := NewReranker(Config{BaseURL: server.URL})

	_, err := r.ScoreBatch(context.Background(), "milk", []string{"a"})
	assert.ErrorContains(t, err, "status 503")
}

func TestScoreBatch_OutOfRangeIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode([]rerankResult{{Index: 5, Score: 0.9}})
	}))
	defer server.Close()

	r := NewReranker(Config{BaseURL: server.URL})

	_, err := r.ScoreBatch(context.Background(), "milk", []string{"a"})
	assert.ErrorContains(t, err, "out of range")
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	r := NewReranker(Config{BaseURL: server.URL})
	assert.NoError(t, r.Ping(context.Background()))

	down := NewReranker(Config{BaseURL: "http://localhost:1"})
	assert.Error(t, down.Ping(context.Background()))
}
