// Package tree projects registry entries onto display rows.
package tree

import (
	"github.com/google/uuid"

	"github.com/opmodel/abinspect/internal/bundle"
)

// Projection holds one row per registered path, in registry order.
type Projection struct {
	rows  []*Row
	index map[uuid.UUID]int
}

// New creates an empty projection.
func New() *Projection {
	return &Projection{index: make(map[uuid.UUID]int)}
}

// Sync rebuilds the row set from keys when the set or its order differs
// from the current rows. Rows whose key survives keep their display state.
// It reports whether a rebuild happened.
func (p *Projection) Sync(keys []bundle.Path) bool {
	if p.matches(keys) {
		return false
	}

	rows := make([]*Row, 0, len(keys))
	index := make(map[uuid.UUID]int, len(keys))
	for _, k := range keys {
		key := KeyFor(k)
		row, ok := p.Find(key)
		if !ok {
			row = newRow(k)
		}
		index[key] = len(rows)
		rows = append(rows, row)
	}
	p.rows = rows
	p.index = index
	return true
}

func (p *Projection) matches(keys []bundle.Path) bool {
	if len(keys) != len(p.rows) {
		return false
	}
	for i, k := range keys {
		if p.rows[i].Path != k {
			return false
		}
	}
	return true
}

// Rows returns the current rows. Callers must not modify the slice.
func (p *Projection) Rows() []*Row {
	return p.rows
}

// Find returns the row with the given key.
func (p *Projection) Find(key uuid.UUID) (*Row, bool) {
	i, ok := p.index[key]
	if !ok {
		return nil, false
	}
	return p.rows[i], true
}
