package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/recollect/internal/core/domain"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()
	w, err := NewWatcher(root)
	require.NoError(t, err)
	w.Start(context.Background())
	t.Cleanup(w.Stop)
	return w
}

// waitFor drains events until one matches or the deadline hits.
func waitFor(t *testing.T, w *Watcher, op domain.FileOp, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Op == op && ev.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("no %s event for %s", op, path)
		}
	}
}

func TestWatcher_Create(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	path := filepath.Join(root, "2024-03-15.md")
	require.NoError(t, os.WriteFile(path, []byte("# Day\nbody\n"), 0o644))

	waitFor(t, w, domain.FileCreated, path)
}

func TestWatcher_Modify(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "2024-03-15.md")
	require.NoError(t, os.WriteFile(path, []byte("# Day\n"), 0o644))

	w := startWatcher(t, root)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("more\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	waitFor(t, w, domain.FileModified, path)
}

func TestWatcher_Delete(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "2024-03-15.md")
	require.NoError(t, os.WriteFile(path, []byte("# Day\n"), 0o644))

	w := startWatcher(t, root)

	require.NoError(t, os.Remove(path))

	waitFor(t, w, domain.FileDeleted, path)
}

func TestWatcher_NewSubdirectoryPickedUp(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	subdir := filepath.Join(root, "2024")
	require.NoError(t, os.Mkdir(subdir, 0o755))

	// Give the watcher a moment to register the new directory.
	time.Sleep(200 * time.Millisecond)

	path := filepath.Join(subdir, "2024-03-15.md")
	require.NoError(t, os.WriteFile(path, []byte("# Day\n"), 0o644))

	waitFor(t, w, domain.FileCreated, path)
}

func TestWatcher_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "image.png"), []byte("x"), 0o644))
	path := filepath.Join(root, "note.md")
	require.NoError(t, os.WriteFile(path, []byte("# Note\n"), 0o644))

	// The markdown event arrives; the png never does.
	waitFor(t, w, domain.FileCreated, path)

	select {
	case ev := <-w.Events():
		assert.NotContains(t, ev.Path, "image.png")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_MissingRoot(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
