package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher(".manifest")
	require.NoError(t, err)
	require.NoError(t, w.Watch(dir))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
		_ = w.Close()
	})
	return w
}

func TestWatcher_SignalsOnNewManifest(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.manifest"), []byte("CRC: 1\n"), 0o644))

	select {
	case <-w.Changes():
	case <-time.After(5 * time.Second):
		t.Fatal("expected a change signal for a new manifest")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-w.Changes():
		t.Fatal("unexpected change signal for a non-manifest file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_MissingDirectoryIsNotAnError(t *testing.T) {
	w, err := NewWatcher("")
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(filepath.Join(t.TempDir(), "missing")))
	assert.Empty(t, w.Dir())
}

func TestWatcher_SwitchesDirectories(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	w, err := NewWatcher(".manifest")
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, w.Watch(first))
	assert.Equal(t, first, w.Dir())
	require.NoError(t, w.Watch(second))
	assert.Equal(t, second, w.Dir())
	require.NoError(t, w.Watch(""))
	assert.Empty(t, w.Dir())
}

func TestWatcher_MultiDotExtension(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(".bundle.manifest")
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	assert.True(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.bundle.manifest"), Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.manifest"), Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: filepath.Join(dir, "a.bundle.manifest"), Op: fsnotify.Chmod}))
}
