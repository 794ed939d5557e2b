// Package inspector drives the watched directory, the load registry, the row
// projection and the poller as one unit, advanced by Tick.
package inspector

import (
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/poller"
	"github.com/opmodel/abinspect/internal/registry"
	"github.com/opmodel/abinspect/internal/scanner"
	"github.com/opmodel/abinspect/internal/selection"
	"github.com/opmodel/abinspect/internal/tree"
)

// Options configures a Session. Zero values select defaults.
type Options struct {
	ManifestExt  string
	PollInterval time.Duration
	Clock        clock.PassiveClock
}

// Session is the state behind one inspector view. It is not safe for
// concurrent use; call it from a single goroutine.
type Session struct {
	loader bundle.Loader
	ext    string
	dir    string

	reg    *registry.Registry
	proj   *tree.Projection
	poller *poller.Poller
	bridge *selection.Bridge

	// modTimes holds each path's sidecar modification time as of its last
	// issued load.
	modTimes map[bundle.Path]time.Time

	selected    uuid.UUID
	hasSelected bool

	reload  bool
	scanErr string
}

// New creates a session issuing loads through loader.
func New(loader bundle.Loader, opts Options) *Session {
	if opts.ManifestExt == "" {
		opts.ManifestExt = bundle.DefaultManifestExt
	}
	reg := registry.New(loader)
	proj := tree.New()
	return &Session{
		loader:   loader,
		ext:      opts.ManifestExt,
		reg:      reg,
		proj:     proj,
		poller:   poller.New(opts.PollInterval, opts.Clock),
		bridge:   selection.New(proj, reg),
		modTimes: make(map[bundle.Path]time.Time),
	}
}

// Dir returns the watched directory.
func (s *Session) Dir() string {
	return s.dir
}

// SetDir changes the watched directory. Every bundle of the previous
// directory is removed and the selection cleared; the next Tick scans dir.
func (s *Session) SetDir(dir string) {
	if dir == s.dir {
		return
	}
	output.Debug("watched directory changed", "from", s.dir, "to", dir)
	s.dir = dir
	s.reg.Clear()
	clear(s.modTimes)
	s.ClearSelection()
	s.scanErr = ""
	s.poller.Reset()
}

// Reload requests a fresh load of every bundle on the next Tick. Bundles
// still loading are left alone.
func (s *Session) Reload() {
	s.reload = true
	s.poller.Reset()
}

// Tick runs one update: scan the directory, apply additions and removals to
// the registry, release finished orphaned loads, rebuild rows if the key set
// changed, and poll progress if the poll interval has elapsed. It reports
// whether the rows need to be redrawn.
func (s *Session) Tick() bool {
	s.apply()
	s.reg.Sweep()

	rebuilt := s.proj.Sync(s.reg.Keys())
	polled := s.poller.Poll(s.proj, s.reg)
	return rebuilt || polled
}

func (s *Session) apply() {
	reload := s.reload
	s.reload = false

	entries, err := scanner.Scan(s.dir, s.ext)
	if err != nil {
		if msg := err.Error(); msg != s.scanErr {
			output.Warn("scan failed", "dir", s.dir, "error", err)
			s.scanErr = msg
		}
		return
	}
	s.scanErr = ""

	present := make(map[bundle.Path]struct{}, len(entries))
	for _, e := range entries {
		present[e.Path] = struct{}{}

		last, known := s.modTimes[e.Path]
		if _, ok := s.reg.Get(e.Path); ok && known && !reload && last.Equal(e.ModTime) {
			continue
		}
		if s.reg.Ensure(e.Path) {
			s.modTimes[e.Path] = e.ModTime
		}
	}

	for _, p := range s.reg.Keys() {
		if _, ok := present[p]; !ok {
			s.reg.Remove(p)
			delete(s.modTimes, p)
		}
	}
}

// Rows returns the current display rows in discovery order.
func (s *Session) Rows() []*tree.Row {
	return s.proj.Rows()
}

// Select makes key the current selection. It reports false and leaves the
// selection unchanged when no such row exists.
func (s *Session) Select(key uuid.UUID) bool {
	if _, ok := s.proj.Find(key); !ok {
		return false
	}
	s.selected = key
	s.hasSelected = true
	return true
}

// ClearSelection drops the current selection.
func (s *Session) ClearSelection() {
	s.selected = uuid.Nil
	s.hasSelected = false
}

// Selected returns the selected row key while that row still exists.
func (s *Session) Selected() (uuid.UUID, bool) {
	if !s.hasSelected {
		return uuid.Nil, false
	}
	if _, ok := s.proj.Find(s.selected); !ok {
		return uuid.Nil, false
	}
	return s.selected, true
}

// Detail is the selected row resolved for one frame of the detail pane.
type Detail struct {
	Row   *tree.Row
	Entry *registry.Entry

	// Artifact is nil while the load is in flight or after it failed.
	Artifact *bundle.Artifact
}

// Detail resolves the current selection. Row is nil when nothing is
// selected. The result must not be retained past the current frame.
func (s *Session) Detail() Detail {
	key, ok := s.Selected()
	if !ok {
		return Detail{}
	}
	row, _ := s.proj.Find(key)
	e, _ := s.bridge.Entry(key)
	a, _ := s.bridge.Resolve(key)
	return Detail{Row: row, Entry: e, Artifact: a}
}

// Settled reports whether every registered load has finished and no removed
// load is awaiting release.
func (s *Session) Settled() bool {
	return s.reg.Settled() && s.reg.Pending() == 0
}

// Close removes every bundle, releasing finished artifacts. It returns the
// number of loads still in flight.
func (s *Session) Close() int {
	pending := s.reg.Close()
	if pending > 0 {
		output.Debug("session closed with loads in flight", "pending", pending)
	}
	return pending
}
