// Package registry tracks one load handle per bundle path and owns the
// lifetime of every artifact those handles produce.
package registry

import (
	"slices"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/output"
)

// Entry is the registry's record for one bundle path.
type Entry struct {
	Path   bundle.Path
	Handle bundle.Handle

	// Generation changes every time a new load is issued for Path.
	Generation uint64
}

// Artifact returns the entry's artifact if its load finished successfully
// and the artifact has not been released.
func (e *Entry) Artifact() *bundle.Artifact {
	if e == nil || e.Handle == nil || !e.Handle.Done() {
		return nil
	}
	if a := e.Handle.Artifact(); a.Live() {
		return a
	}
	return nil
}

// Failed reports whether the entry's load finished without an artifact.
func (e *Entry) Failed() bool {
	return e != nil && e.Handle != nil && e.Handle.Done() && e.Handle.Artifact() == nil
}

// Registry maps bundle paths to their current load. Handles removed while
// still loading are kept aside and their artifacts released by Sweep once
// the load finishes.
//
// A Registry is not safe for concurrent use; it is driven from the UI tick.
type Registry struct {
	loader  bundle.Loader
	entries map[bundle.Path]*Entry
	order   []bundle.Path
	orphans []bundle.Handle
	gen     uint64
}

// New creates an empty registry issuing loads through loader.
func New(loader bundle.Loader) *Registry {
	return &Registry{
		loader:  loader,
		entries: make(map[bundle.Path]*Entry),
	}
}

// Ensure makes sure p has a load. It reports whether a new load was issued.
//
// A path with a load in flight is left alone. A finished load is replaced by
// a fresh one; its artifact, if still live, is released first. The entry
// keeps its position in Keys across a reissue.
func (r *Registry) Ensure(p bundle.Path) bool {
	e, ok := r.entries[p]
	if !ok {
		r.entries[p] = r.issue(p)
		r.order = append(r.order, p)
		output.Debug("bundle registered", "bundle", p)
		return true
	}

	if !e.Handle.Done() {
		return false
	}
	r.release(e.Handle)
	r.entries[p] = r.issue(p)
	output.Debug("bundle reloaded", "bundle", p, "generation", r.gen)
	return true
}

// Remove drops p. A finished load's artifact is released now; a load still
// in flight is released by a later Sweep after it completes.
func (r *Registry) Remove(p bundle.Path) {
	e, ok := r.entries[p]
	if !ok {
		return
	}
	delete(r.entries, p)
	r.order = slices.DeleteFunc(r.order, func(k bundle.Path) bool { return k == p })

	if e.Handle.Done() {
		r.release(e.Handle)
	} else {
		r.orphans = append(r.orphans, e.Handle)
	}
	output.Debug("bundle removed", "bundle", p, "in_flight", !e.Handle.Done())
}

// Get returns the entry for p.
func (r *Registry) Get(p bundle.Path) (*Entry, bool) {
	e, ok := r.entries[p]
	return e, ok
}

// Keys returns the registered paths in discovery order.
func (r *Registry) Keys() []bundle.Path {
	return slices.Clone(r.order)
}

// Sweep releases artifacts of removed loads that have since finished and
// returns how many orphaned handles it retired.
func (r *Registry) Sweep() int {
	if len(r.orphans) == 0 {
		return 0
	}
	var retired int
	r.orphans = slices.DeleteFunc(r.orphans, func(h bundle.Handle) bool {
		if !h.Done() {
			return false
		}
		r.release(h)
		retired++
		return true
	})
	return retired
}

// Pending returns the number of removed loads still in flight.
func (r *Registry) Pending() int {
	return len(r.orphans)
}

// Clear removes every path, as Remove does for each.
func (r *Registry) Clear() {
	for _, p := range r.Keys() {
		r.Remove(p)
	}
}

// Settled reports whether every registered load has finished.
func (r *Registry) Settled() bool {
	for _, e := range r.entries {
		if !e.Handle.Done() {
			return false
		}
	}
	return true
}

// Close clears the registry and releases everything already finished. It
// returns the number of loads still in flight, whose artifacts a later
// Sweep will release.
func (r *Registry) Close() int {
	r.Clear()
	r.Sweep()
	return len(r.orphans)
}

func (r *Registry) issue(p bundle.Path) *Entry {
	r.gen++
	return &Entry{
		Path:       p,
		Handle:     r.loader.LoadAsync(p),
		Generation: r.gen,
	}
}

func (r *Registry) release(h bundle.Handle) {
	if a := h.Artifact(); a.Live() {
		r.loader.Release(a)
	}
}
