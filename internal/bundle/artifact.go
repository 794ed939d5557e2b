package bundle

import (
	"sync/atomic"
	"time"
)

// Artifact is the in-memory result of a successful bundle load. Its lifetime
// ends with Release; a released artifact must not be shown or reused.
type Artifact struct {
	Path     Path
	Size     int64
	Digest   string
	Header   Header
	Manifest *Manifest

	// ManifestErr records why the sidecar could not be parsed, if it could not.
	ManifestErr string

	LoadedAt time.Time

	released atomic.Bool
}

// Release frees the artifact's parsed data. It reports whether this call
// performed the release; later calls are no-ops.
func (a *Artifact) Release() bool {
	if a == nil || a.released.Swap(true) {
		return false
	}
	a.Manifest = nil
	return true
}

// Released reports whether Release has been called.
func (a *Artifact) Released() bool {
	return a != nil && a.released.Load()
}

// Live reports whether a is non-nil and not yet released.
func (a *Artifact) Live() bool {
	return a != nil && !a.released.Load()
}
