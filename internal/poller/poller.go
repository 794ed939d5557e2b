// Package poller refreshes tree rows from their load handles at a bounded rate.
package poller

import (
	"time"

	"k8s.io/utils/clock"

	"github.com/opmodel/abinspect/internal/registry"
	"github.com/opmodel/abinspect/internal/tree"
)

// DefaultInterval is the minimum time between two polls.
const DefaultInterval = 500 * time.Millisecond

// Poller throttles row refreshes to at most one per interval.
type Poller struct {
	interval time.Duration
	clock    clock.PassiveClock

	last   time.Time
	polled bool
}

// New creates a poller. A non-positive interval uses DefaultInterval and a
// nil clock uses the wall clock.
func New(interval time.Duration, clk clock.PassiveClock) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Poller{interval: interval, clock: clk}
}

// Due reports whether the interval has elapsed since the last poll.
func (p *Poller) Due() bool {
	return !p.polled || p.clock.Since(p.last) >= p.interval
}

// Poll refreshes every row if a poll is due and reports whether any row's
// display changed. It returns false without touching rows when not due.
func (p *Poller) Poll(proj *tree.Projection, reg *registry.Registry) bool {
	if !p.Due() {
		return false
	}
	return p.PollNow(proj, reg)
}

// PollNow refreshes every row regardless of the interval and restarts it.
func (p *Poller) PollNow(proj *tree.Projection, reg *registry.Registry) bool {
	p.last = p.clock.Now()
	p.polled = true

	var dirty bool
	for _, row := range proj.Rows() {
		e, ok := reg.Get(row.Path)
		if !ok {
			continue
		}
		if row.Refresh(e) {
			dirty = true
		}
	}
	return dirty
}

// Reset makes the next Poll due immediately.
func (p *Poller) Reset() {
	p.polled = false
}
