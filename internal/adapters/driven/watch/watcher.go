// Package watch monitors the journal tree for changes and translates raw
// fsnotify events into ordered domain file events.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/recollect/internal/core/domain"
	"github.com/custodia-labs/recollect/internal/logger"
)

// eventBuffer bounds the outbound event channel. The reconciler consumes
// serially; a burst larger than this applies backpressure to the watch loop.
const eventBuffer = 256

const journalExt = ".md"

// Watcher monitors a directory tree recursively and emits one domain event
// per journal file change, in the order the filesystem reported them. A
// rename comes out as a delete of the old path followed by a create of the
// new one.
type Watcher struct {
	fsw    *fsnotify.Watcher
	events chan domain.FileEvent
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher for the given root directory. Existing
// subdirectories are watched immediately; directories created later are
// picked up from their create events.
func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		events: make(chan domain.FileEvent, eventBuffer),
	}

	if err := w.watchTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Events returns the outbound event channel. It closes when the watcher
// stops.
func (w *Watcher) Events() <-chan domain.FileEvent {
	return w.events
}

// Start begins translating filesystem events. It returns immediately; the
// loop runs until Stop or context cancellation.
func (w *Watcher) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop shuts down the watcher and closes the event channel.
func (w *Watcher) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
	w.fsw.Close()
	close(w.events)
}

// watchTree adds the root and every existing subdirectory to the watch set.
func (w *Watcher) watchTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("Watch %s: %v", path, err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Warn("Cannot watch %s: %v", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name

	// New directory created inside the tree: start watching it so files
	// created within are seen too.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				logger.Warn("Cannot watch new dir %s: %v", path, err)
			} else {
				logger.Debug("Watching new dir %s", path)
			}
			return
		}
	}

	if !strings.HasSuffix(path, journalExt) {
		return
	}

	switch {
	case event.Has(fsnotify.Create):
		w.emit(ctx, domain.FileEvent{Op: domain.FileCreated, Path: path})
	case event.Has(fsnotify.Write):
		w.emit(ctx, domain.FileEvent{Op: domain.FileModified, Path: path})
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		// The rename target, if any, arrives as its own create event.
		w.emit(ctx, domain.FileEvent{Op: domain.FileDeleted, Path: path})
	}
}

// emit delivers one event in order, blocking if the consumer lags.
func (w *Watcher) emit(ctx context.Context, ev domain.FileEvent) {
	select {
	case <-ctx.Done():
	case w.events <- ev:
	}
}
