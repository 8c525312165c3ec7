package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driven"
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
	"github.com/custodia-labs/recollect/internal/index"
	"github.com/custodia-labs/recollect/internal/logger"
	"github.com/custodia-labs/recollect/internal/segmenter"
)

// Ensure Indexer implements the interface.
var _ driving.IndexManager = (*Indexer)(nil)

// journalExt is the only file extension that gets indexed.
const journalExt = ".md"

// Indexer owns the four granular indices and the file registry. It is the
// only component that mutates them, and it serialises every read and write
// behind a single lock so no partial state is ever observable.
type Indexer struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
	settings driving.SettingsService

	mu       sync.Mutex
	indices  map[domain.Granularity]*index.Granular
	registry map[string]map[domain.Granularity][]int64

	statusMu sync.Mutex
	status   domain.IndexStatus
}

// NewIndexer creates an index manager. The vector store is optional; when
// nil, indices live only in memory.
func NewIndexer(
	embedder driven.EmbeddingService,
	store driven.VectorStore,
	settings driving.SettingsService,
) *Indexer {
	indices := make(map[domain.Granularity]*index.Granular, 4)
	for _, g := range domain.AllGranularities() {
		indices[g] = index.NewGranular(embedder.Dimensions())
	}

	return &Indexer{
		embedder: embedder,
		store:    store,
		settings: settings,
		indices:  indices,
		registry: make(map[string]map[domain.Granularity][]int64),
	}
}

// Load restores the persisted vector snapshots. Segment metadata is not
// persisted, so restored vectors are unresolvable until the next rebuild
// walk; callers are expected to Rebuild before serving queries.
func (s *Indexer) Load(ctx context.Context) {
	if s.store == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, g := range domain.AllGranularities() {
		entries, err := s.store.LoadVectors(ctx, g)
		if err != nil {
			logger.Warn("Load %s index: %v", g, err)
			continue
		}
		s.indices[g].Restore(entries)
		logger.Debug("Loaded %d %s vectors", len(entries), g)
	}
}

// IndexFile replaces the file's segments with freshly parsed ones. The old
// segments are removed and the new ones added under the same lock hold, so
// the two sets never coexist.
func (s *Indexer) IndexFile(ctx context.Context, path string, content []byte) error {
	if !strings.HasSuffix(path, journalExt) {
		logger.Warn("Skipping non-journal file: %s", path)
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.indexLocked(ctx, path, content); err != nil {
		return err
	}
	s.persistLocked(ctx)
	s.touchChange()
	return nil
}

// RemoveFile drops every segment attributed to the path, across all four
// granularities. Unknown paths are a no-op.
func (s *Indexer) RemoveFile(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(path)
	s.persistLocked(ctx)
	s.touchChange()
	return nil
}

// Rebuild discards all indices, registries and allocators, then re-walks the
// docs directory and indexes every journal file found. The lock is held for
// the entire walk: queries wait, and never observe a half-built index.
func (s *Indexer) Rebuild(ctx context.Context) error {
	docsDir := s.settings.Get().DocsDir

	files, err := listJournalFiles(docsDir)
	if err != nil {
		return fmt.Errorf("walk docs directory: %w", err)
	}

	s.startRun(len(files))
	logger.Info("Rebuilding index from %s (%d files)", docsDir, len(files))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()

	for _, path := range files {
		s.markFile(path)
		content, err := os.ReadFile(path)
		if err != nil {
			// One unreadable file must not abort the walk.
			logger.Warn("Could not read %s: %v", path, err)
			continue
		}
		if err := s.indexLocked(ctx, path, content); err != nil {
			logger.Warn("Could not index %s: %v", path, err)
		}
	}

	s.persistLocked(ctx)
	s.finishRun()
	logger.Info("Rebuild complete")
	return nil
}

// Reset clears all state and persists the now-empty indices. It does not
// re-walk; callers invoke Rebuild explicitly to repopulate.
func (s *Indexer) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked()
	s.persistLocked(ctx)
	return nil
}

// Counts returns the number of indexed segments per granularity.
func (s *Indexer) Counts() map[domain.Granularity]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[domain.Granularity]int, len(s.indices))
	for g, idx := range s.indices {
		counts[g] = idx.Count()
	}
	return counts
}

// Status returns the progress of the current or last indexing run.
func (s *Indexer) Status() domain.IndexStatus {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	return s.status
}

// SearchCandidates runs a dense retrieval at one granularity and hydrates the
// hits with segment metadata, all under the lock, so the candidate list is a
// consistent snapshot. Hits whose metadata cannot be resolved (vectors
// restored from disk before a rebuild) are filtered out.
func (s *Indexer) SearchCandidates(g domain.Granularity, query []float32, n int) []domain.Candidate {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indices[g]
	if !ok {
		return nil
	}

	hits := idx.Search(query, n)
	candidates := make([]domain.Candidate, 0, len(hits))
	for _, hit := range hits {
		seg, ok := idx.Segment(hit.ID)
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			ID:         hit.ID,
			Similarity: hit.Similarity,
			Segment:    seg,
		})
	}
	return candidates
}

// indexLocked parses, embeds and swaps in a file's segments.
// Caller holds s.mu.
func (s *Indexer) indexLocked(ctx context.Context, path string, content []byte) error {
	cfg := s.settings.Get()

	text := segmenter.NormalizeTimestamps(string(content), cfg.Location())
	segs := segmenter.Parse(text, cfg.IncludeTitles)

	var date *time.Time
	if d, ok := segmenter.DateFromPath(path); ok {
		date = &d
	} else {
		logger.Debug("No date derivable from %s", path)
	}

	// Embed everything before touching any index, so an embedding failure
	// leaves the previous generation fully intact.
	embedded := make(map[domain.Granularity][][]float32, 4)
	for _, g := range domain.AllGranularities() {
		segments := segs.ByGranularity(g)
		if len(segments) == 0 {
			continue
		}

		texts := make([]string, len(segments))
		for i, seg := range segments {
			texts[i] = seg.Text
		}

		vectors, err := s.embedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed %s segments: %w", g, err)
		}
		embedded[g] = vectors
	}

	// Swap generations: the old segments are gone and the new ones in place
	// within a single lock hold, so the two sets never coexist.
	s.removeLocked(path)

	perFile := make(map[domain.Granularity][]int64, 4)
	for _, g := range domain.AllGranularities() {
		vectors, ok := embedded[g]
		if !ok {
			continue
		}
		for i, seg := range segs.ByGranularity(g) {
			if vectors[i] == nil {
				// Embedding failed for this segment alone; already logged.
				continue
			}
			seg.SourceFile = path
			seg.Date = date
			id := s.indices[g].Add(vectors[i], seg)
			perFile[g] = append(perFile[g], id)
		}
	}

	s.registry[path] = perFile
	logger.Debug("Indexed %s: %d day, %d memory, %d section, %d line",
		path, len(segs.Day), len(segs.Memory), len(segs.Section), len(segs.Line))
	return nil
}

// embedBatch embeds all texts, falling back to per-text embedding when the
// batch call fails so one bad segment cannot sink the whole file. Failed
// positions come back nil.
func (s *Indexer) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err == nil && len(vectors) == len(texts) {
		return vectors, nil
	}
	if err != nil {
		logger.Warn("Batch embedding failed, retrying per segment: %v", err)
	}

	vectors = make([][]float32, len(texts))
	var lastErr error
	failed := 0
	for i, text := range texts {
		vec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			logger.Warn("Embedding failed for segment %d: %v", i, err)
			lastErr = err
			failed++
			continue
		}
		vectors[i] = vec
	}
	if failed == len(texts) && lastErr != nil {
		return nil, lastErr
	}
	return vectors, nil
}

// removeLocked drops a path's identifiers from all indices and the registry.
// Caller holds s.mu.
func (s *Indexer) removeLocked(path string) {
	perFile, ok := s.registry[path]
	if !ok {
		return
	}
	for g, ids := range perFile {
		s.indices[g].RemoveBatch(ids)
	}
	delete(s.registry, path)
}

// clearLocked empties all indices, the registry and the allocators.
// Caller holds s.mu.
func (s *Indexer) clearLocked() {
	for _, idx := range s.indices {
		idx.Clear()
	}
	s.registry = make(map[string]map[domain.Granularity][]int64)
}

// persistLocked saves all four indices. Persistence failures are logged and
// the in-memory state stays authoritative; on-disk may lag until the next
// successful save. Caller holds s.mu.
func (s *Indexer) persistLocked(ctx context.Context) {
	if s.store == nil {
		return
	}
	for _, g := range domain.AllGranularities() {
		if err := s.store.SaveVectors(ctx, g, s.indices[g].Entries()); err != nil {
			logger.Warn("Persist %s index: %v", g, err)
		}
	}
}

// Status tracking for walk runs.

func (s *Indexer) startRun(totalFiles int) {
	now := time.Now()
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	last := s.status
	s.status = domain.IndexStatus{
		RunID:           uuid.New().String(),
		Indexing:        true,
		TotalFiles:      totalFiles,
		StartedAt:       &now,
		LastFullIndex:   last.LastFullIndex,
		LastChangeIndex: last.LastChangeIndex,
	}
}

func (s *Indexer) markFile(path string) {
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.CurrentFile = path
	s.status.ProcessedFiles++
}

func (s *Indexer) finishRun() {
	now := time.Now()
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.Indexing = false
	s.status.CurrentFile = ""
	s.status.FinishedAt = &now
	s.status.LastFullIndex = &now
	s.status.LastChangeIndex = &now
}

func (s *Indexer) touchChange() {
	now := time.Now()
	s.statusMu.Lock()
	defer s.statusMu.Unlock()
	s.status.LastChangeIndex = &now
}

// listJournalFiles walks the docs tree and returns every journal file in
// lexical order.
func listJournalFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Walk %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, journalExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
