package scanner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/output"
)

// Watcher signals when manifest sidecars in the watched directory change so
// the caller can run a scan early instead of waiting for its next tick.
// Scan stays the source of truth; signals are coalesced and may be dropped.
type Watcher struct {
	fw  *fsnotify.Watcher
	ext string

	mu  sync.Mutex
	dir string

	changes chan struct{}
}

// NewWatcher creates a watcher for sidecars with the given extension.
func NewWatcher(ext string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if ext == "" {
		ext = bundle.DefaultManifestExt
	}
	return &Watcher{
		fw:      fw,
		ext:     ext,
		changes: make(chan struct{}, 1),
	}, nil
}

// Watch switches the watched directory. A missing directory is not an error;
// nothing is watched until Watch is called again.
func (w *Watcher) Watch(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if dir == w.dir {
		return nil
	}
	if w.dir != "" {
		_ = w.fw.Remove(w.dir)
		w.dir = ""
	}
	if dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return nil
	}

	if err := w.fw.Add(dir); err != nil {
		return err
	}
	w.dir = dir
	output.Debug("watching directory", "dir", dir)
	return nil
}

// Dir returns the directory currently watched, or "".
func (w *Watcher) Dir() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dir
}

// Changes delivers one value per burst of relevant filesystem events.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Run processes filesystem events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				w.notify()
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			output.Warn("directory watcher error", "error", err)
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	return IsSidecar(filepath.Base(event.Name), w.ext)
}

func (w *Watcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}
