package services

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

// recordingIndexer records the order of index manager calls.
type recordingIndexer struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingIndexer) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

func (r *recordingIndexer) recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *recordingIndexer) IndexFile(_ context.Context, path string, _ []byte) error {
	r.record("index " + filepath.Base(path))
	return nil
}

func (r *recordingIndexer) RemoveFile(_ context.Context, path string) error {
	r.record("remove " + filepath.Base(path))
	return nil
}

func (r *recordingIndexer) Rebuild(_ context.Context) error { return nil }
func (r *recordingIndexer) Reset(_ context.Context) error   { return nil }
func (r *recordingIndexer) Counts() map[domain.Granularity]int {
	return nil
}
func (r *recordingIndexer) Status() domain.IndexStatus { return domain.IndexStatus{} }

func runReconciler(t *testing.T, indexer *recordingIndexer, events []domain.FileEvent) {
	t.Helper()

	ch := make(chan domain.FileEvent, len(events))
	for _, ev := range events {
		ch <- ev
	}
	close(ch)

	rec := NewReconciler(indexer, ch)

	done := make(chan struct{})
	go func() {
		rec.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reconciler did not drain the channel")
	}
}

func TestReconciler_AppliesEventsInOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.md")
	require.NoError(t, os.WriteFile(a, []byte("# A\nalpha\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("# B\nbeta\n"), 0o644))

	indexer := &recordingIndexer{}
	runReconciler(t, indexer, []domain.FileEvent{
		{Op: domain.FileCreated, Path: a},
		{Op: domain.FileModified, Path: a},
		{Op: domain.FileCreated, Path: b},
		{Op: domain.FileDeleted, Path: a},
	})

	assert.Equal(t, []string{
		"index a.md",
		"index a.md",
		"index b.md",
		"remove a.md",
	}, indexer.recorded())
}

func TestReconciler_RenameAsDeleteThenCreate(t *testing.T) {
	dir := t.TempDir()
	renamed := filepath.Join(dir, "new.md")
	require.NoError(t, os.WriteFile(renamed, []byte("# Moved\nbody\n"), 0o644))

	indexer := &recordingIndexer{}
	runReconciler(t, indexer, []domain.FileEvent{
		{Op: domain.FileDeleted, Path: filepath.Join(dir, "old.md")},
		{Op: domain.FileCreated, Path: renamed},
	})

	assert.Equal(t, []string{
		"remove old.md",
		"index new.md",
	}, indexer.recorded())
}

func TestReconciler_IgnoresNonMarkdown(t *testing.T) {
	indexer := &recordingIndexer{}
	runReconciler(t, indexer, []domain.FileEvent{
		{Op: domain.FileCreated, Path: "/notes/image.png"},
		{Op: domain.FileDeleted, Path: "/notes/.swapfile"},
	})

	assert.Empty(t, indexer.recorded())
}

func TestReconciler_UnreadableFileSkipped(t *testing.T) {
	indexer := &recordingIndexer{}
	runReconciler(t, indexer, []domain.FileEvent{
		{Op: domain.FileModified, Path: "/does/not/exist.md"},
	})

	// Read failed, so the index manager is never called; the stream
	// continues regardless.
	assert.Empty(t, indexer.recorded())
}

func TestReconciler_StopsOnContextCancel(t *testing.T) {
	ch := make(chan domain.FileEvent)
	rec := NewReconciler(&recordingIndexer{}, ch)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rec.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reconciler did not stop on cancellation")
	}
}
