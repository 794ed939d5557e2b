// Package bundle defines asset bundle identities, loaded artifacts and the
// asynchronous load contract the inspector polls.
package bundle

import (
	"path"
	"path/filepath"
	"strings"
)

// DefaultManifestExt is the sidecar extension that marks a bundle's presence.
const DefaultManifestExt = ".manifest"

// Path is the canonical location of a bundle: forward-slash separated, with
// the manifest sidecar extension stripped. It is the registry key.
type Path string

// NewPath derives a bundle path from the path of its manifest sidecar.
func NewPath(sidecar, ext string) Path {
	p := strings.TrimSuffix(sidecar, ext)
	p = strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	return Path(path.Clean(p))
}

// String returns the path as a string.
func (p Path) String() string {
	return string(p)
}

// Name returns the bundle's file name, used as its display label.
func (p Path) Name() string {
	return path.Base(string(p))
}

// File returns the bundle file path in OS form.
func (p Path) File() string {
	return filepath.FromSlash(string(p))
}

// Sidecar returns the manifest sidecar path in OS form.
func (p Path) Sidecar(ext string) string {
	return p.File() + ext
}
