// Package scanner discovers bundles in a watched directory by their
// manifest sidecar files.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/opmodel/abinspect/internal/bundle"
)

// Entry is one discovered bundle.
type Entry struct {
	// Path is the canonical bundle path derived from the sidecar.
	Path bundle.Path

	// Sidecar is the manifest file that announced the bundle.
	Sidecar string

	// ModTime is the sidecar's modification time. A change means the bundle
	// was rebuilt and should be reloaded.
	ModTime time.Time
}

// Scan lists the bundles implied by manifest sidecars directly inside dir,
// ordered by file name. A missing or empty dir yields no entries and no error
// so an unconfigured directory behaves like an empty one.
func Scan(dir, ext string) ([]Entry, error) {
	if dir == "" {
		return nil, nil
	}
	if ext == "" {
		ext = bundle.DefaultManifestExt
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if de.IsDir() || !IsSidecar(de.Name(), ext) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			// Removed between ReadDir and Info; the next scan settles it.
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		sidecar := filepath.Join(dir, de.Name())
		entries = append(entries, Entry{
			Path:    bundle.NewPath(sidecar, ext),
			Sidecar: sidecar,
			ModTime: info.ModTime(),
		})
	}
	return entries, nil
}

// IsSidecar reports whether the file name ends in ext and names a bundle
// before it. Extensions may contain more than one dot.
func IsSidecar(name, ext string) bool {
	return len(name) > len(ext) && strings.HasSuffix(name, ext)
}

// Paths returns the bundle paths of entries in order.
func Paths(entries []Entry) []bundle.Path {
	paths := make([]bundle.Path, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths
}
