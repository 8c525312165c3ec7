package services

import (
	"context"
	"os"
	"strings"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/core/ports/driving"
	"github.com/custodia-labs/recollect/internal/logger"
)

// Reconciler applies filesystem change events to the index, strictly in
// delivery order. A single goroutine consumes the event channel, so two
// events for the same path can never race each other into the index.
type Reconciler struct {
	indexer driving.IndexManager
	events  <-chan domain.FileEvent
}

// NewReconciler creates a reconciler consuming the given event channel.
func NewReconciler(indexer driving.IndexManager, events <-chan domain.FileEvent) *Reconciler {
	return &Reconciler{indexer: indexer, events: events}
}

// Run consumes events until the context is cancelled or the channel closes.
// It blocks; run it in its own goroutine.
func (r *Reconciler) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.events:
			if !ok {
				return
			}
			r.apply(ctx, ev)
		}
	}
}

// apply handles one event. Failures are logged and skipped; a broken file
// must not stall the event stream.
func (r *Reconciler) apply(ctx context.Context, ev domain.FileEvent) {
	if !strings.HasSuffix(ev.Path, journalExt) {
		return
	}

	switch ev.Op {
	case domain.FileCreated, domain.FileModified:
		content, err := os.ReadFile(ev.Path)
		if err != nil {
			logger.Warn("Could not read changed file %s: %v", ev.Path, err)
			return
		}
		logger.Debug("Reindexing %s (%s)", ev.Path, ev.Op)
		if err := r.indexer.IndexFile(ctx, ev.Path, content); err != nil {
			logger.Warn("Could not reindex %s: %v", ev.Path, err)
		}
	case domain.FileDeleted:
		logger.Debug("Removing %s from index", ev.Path)
		if err := r.indexer.RemoveFile(ctx, ev.Path); err != nil {
			logger.Warn("Could not remove %s: %v", ev.Path, err)
		}
	default:
		logger.Warn("Unknown file event op %q for %s", ev.Op, ev.Path)
	}
}
