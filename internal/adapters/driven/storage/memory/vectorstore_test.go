package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/index"
)

func TestVectorStore_RoundTrip(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	entries := []index.Entry{{ID: 1, Embedding: []float32{1, 0}}}
	require.NoError(t, store.SaveVectors(ctx, domain.GranularityDay, entries))

	loaded, err := store.LoadVectors(ctx, domain.GranularityDay)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestVectorStore_AbsentSnapshotIsEmpty(t *testing.T) {
	store := NewVectorStore()

	loaded, err := store.LoadVectors(context.Background(), domain.GranularityLine)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestVectorStore_SnapshotsAreCopies(t *testing.T) {
	store := NewVectorStore()
	ctx := context.Background()

	entries := []index.Entry{{ID: 1, Embedding: []float32{1, 0}}}
	require.NoError(t, store.SaveVectors(ctx, domain.GranularityDay, entries))

	// Mutating the caller's slice must not leak into the store.
	entries[0].ID = 99

	loaded, err := store.LoadVectors(ctx, domain.GranularityDay)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded[0].ID)
}
