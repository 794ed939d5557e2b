package tree

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/registry"
)

// State is the displayable phase of a row.
type State int

const (
	StateLoading State = iota
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "loading"
	}
}

// namespace scopes row keys so the same path always yields the same key.
var namespace = uuid.MustParse("6f1c2f7e-3b0a-5d4c-9a8e-2b7f1d0c4e53")

// KeyFor returns the row key of p.
func KeyFor(p bundle.Path) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(p))
}

// Row is the display state of one registry entry.
type Row struct {
	Key   uuid.UUID
	Path  bundle.Path
	Label string
	State State

	// LastPercent is the percentage last put in Label, or -1 before the
	// first progress report.
	LastPercent int

	generation uint64
	done       bool
}

func newRow(p bundle.Path) *Row {
	return &Row{
		Key:         KeyFor(p),
		Path:        p,
		Label:       p.Name(),
		LastPercent: -1,
	}
}

// Refresh brings the row up to date with e and reports whether its
// displayed state changed. A row is inert once its load is done, until the
// entry's generation changes.
func (r *Row) Refresh(e *registry.Entry) bool {
	if e == nil || e.Handle == nil {
		return false
	}

	var changed bool
	if e.Generation != r.generation {
		changed = r.reset(e.Generation)
	}
	if r.done {
		return changed
	}

	if e.Handle.Done() {
		r.done = true
		r.State = StateLoaded
		if e.Handle.Artifact() == nil {
			r.State = StateFailed
		}
		r.LastPercent = 100
		r.Label = r.Path.Name()
		return true
	}

	pct := Percent(e.Handle.Progress())
	if pct == r.LastPercent {
		return changed
	}
	r.LastPercent = pct
	r.Label = fmt.Sprintf("%s %d%%", r.Path.Name(), pct)
	return true
}

func (r *Row) reset(gen uint64) bool {
	changed := r.done || r.Label != r.Path.Name()
	r.generation = gen
	r.done = false
	r.State = StateLoading
	r.LastPercent = -1
	r.Label = r.Path.Name()
	return changed
}

// Percent converts the fraction of an unfinished load to a whole percentage
// in [0,99]. The fraction is truncated, so 100% is only ever shown by a
// finished load.
func Percent(progress float64) int {
	pct := int(math.Floor(progress*100 + 1e-9))
	return max(0, min(99, pct))
}
