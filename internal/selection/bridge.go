// Package selection resolves a selected row to the artifact behind it.
package selection

import (
	"github.com/google/uuid"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/registry"
	"github.com/opmodel/abinspect/internal/tree"
)

// Bridge looks up artifacts for row keys. It holds no artifact references;
// every call resolves against the registry's current state.
type Bridge struct {
	proj *tree.Projection
	reg  *registry.Registry
}

// New creates a bridge over proj and reg.
func New(proj *tree.Projection, reg *registry.Registry) *Bridge {
	return &Bridge{proj: proj, reg: reg}
}

// Resolve returns the live artifact for the row with key. It returns nil and
// false when the row does not exist, is still loading, failed to load, or
// its artifact has been released.
func (b *Bridge) Resolve(key uuid.UUID) (*bundle.Artifact, bool) {
	e, ok := b.Entry(key)
	if !ok {
		return nil, false
	}
	a := e.Artifact()
	return a, a != nil
}

// Entry returns the registry entry behind the row with key.
func (b *Bridge) Entry(key uuid.UUID) (*registry.Entry, bool) {
	row, ok := b.proj.Find(key)
	if !ok {
		return nil, false
	}
	return b.reg.Get(row.Path)
}
