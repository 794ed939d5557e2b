package testutil

import (
	"sync"
	"time"

	"github.com/opmodel/abinspect/internal/bundle"
)

// FakeHandle is a bundle.Handle whose state is driven by the test.
type FakeHandle struct {
	mu       sync.Mutex
	path     bundle.Path
	done     bool
	progress float64
	artifact *bundle.Artifact
	err      error
}

var _ bundle.Handle = (*FakeHandle)(nil)

func (h *FakeHandle) Done() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

func (h *FakeHandle) Progress() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.progress
}

func (h *FakeHandle) Artifact() *bundle.Artifact {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.artifact
}

func (h *FakeHandle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// SetProgress sets the reported fraction.
func (h *FakeHandle) SetProgress(p float64) {
	h.mu.Lock()
	h.progress = p
	h.mu.Unlock()
}

// Complete finishes the load successfully with a fresh artifact and returns it.
func (h *FakeHandle) Complete() *bundle.Artifact {
	a := NewArtifact(h.path)
	h.mu.Lock()
	h.artifact = a
	h.progress = 1
	h.done = true
	h.mu.Unlock()
	return a
}

// Fail finishes the load without an artifact.
func (h *FakeHandle) Fail(err error) {
	h.mu.Lock()
	h.err = err
	h.done = true
	h.mu.Unlock()
}

// FakeLoader records loads and releases. Handles stay in flight until the
// test completes or fails them.
type FakeLoader struct {
	mu       sync.Mutex
	handles  map[bundle.Path][]*FakeHandle
	order    []bundle.Path
	released []*bundle.Artifact
	calls    int
}

var _ bundle.Loader = (*FakeLoader)(nil)

// NewFakeLoader creates an empty FakeLoader.
func NewFakeLoader() *FakeLoader {
	return &FakeLoader{handles: make(map[bundle.Path][]*FakeHandle)}
}

func (l *FakeLoader) LoadAsync(p bundle.Path) bundle.Handle {
	h := &FakeHandle{path: p}
	l.mu.Lock()
	l.handles[p] = append(l.handles[p], h)
	l.order = append(l.order, p)
	l.mu.Unlock()
	return h
}

// Release frees a and records it. Every call is counted, including repeats.
func (l *FakeLoader) Release(a *bundle.Artifact) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()
	if a.Release() {
		l.mu.Lock()
		l.released = append(l.released, a)
		l.mu.Unlock()
	}
}

// Handle returns the most recent handle issued for p, or nil.
func (l *FakeLoader) Handle(p bundle.Path) *FakeHandle {
	l.mu.Lock()
	defer l.mu.Unlock()
	hs := l.handles[p]
	if len(hs) == 0 {
		return nil
	}
	return hs[len(hs)-1]
}

// Loads returns how many loads were issued for p.
func (l *FakeLoader) Loads(p bundle.Path) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.handles[p])
}

// TotalLoads returns the number of loads issued for any path.
func (l *FakeLoader) TotalLoads() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.order)
}

// Released returns the artifacts freed so far, in release order.
func (l *FakeLoader) Released() []*bundle.Artifact {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*bundle.Artifact(nil), l.released...)
}

// ReleaseCalls counts every Release call, including ones on already-released artifacts.
func (l *FakeLoader) ReleaseCalls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// NewArtifact builds a live artifact for p with a small manifest.
func NewArtifact(p bundle.Path) *bundle.Artifact {
	return &bundle.Artifact{
		Path:   p,
		Size:   4,
		Digest: "sha256:0000",
		Header: bundle.Header{Signature: "UnityFS", FormatVersion: 7, EngineVersion: "2022.3.10f1"},
		Manifest: &bundle.Manifest{
			CRC:    42,
			Assets: []string{"Assets/" + p.Name() + ".prefab"},
		},
		LoadedAt: time.Unix(0, 0),
	}
}
