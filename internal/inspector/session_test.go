package inspector

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/output"
	"github.com/opmodel/abinspect/internal/testutil"
	"github.com/opmodel/abinspect/internal/tree"
)

type harness struct {
	dir     string
	clock   *testingclock.FakePassiveClock
	loader  *testutil.FakeLoader
	session *Session
}

func newHarness(t *testing.T, names ...string) *harness {
	t.Helper()
	h := &harness{
		dir:    t.TempDir(),
		clock:  testingclock.NewFakePassiveClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)),
		loader: testutil.NewFakeLoader(),
	}
	for _, n := range names {
		testutil.WriteBundle(t, h.dir, n, "UnityFS")
	}
	h.session = New(h.loader, Options{PollInterval: 500 * time.Millisecond, Clock: h.clock})
	h.session.SetDir(h.dir)
	return h
}

func (h *harness) path(name string) bundle.Path {
	return bundle.NewPath(filepath.Join(h.dir, name+".manifest"), ".manifest")
}

func (h *harness) handle(name string) *testutil.FakeHandle {
	return h.loader.Handle(h.path(name))
}

// advance moves the clock past the poll interval and ticks.
func (h *harness) advance() bool {
	h.clock.SetTime(h.clock.Now().Add(500 * time.Millisecond))
	return h.session.Tick()
}

func labels(s *Session) []string {
	var out []string
	for _, r := range s.Rows() {
		out = append(out, r.Label)
	}
	return out
}

func TestTick_DiscoversBundles(t *testing.T) {
	h := newHarness(t, "a", "b")

	assert.True(t, h.session.Tick())

	assert.Equal(t, 1, h.loader.Loads(h.path("a")))
	assert.Equal(t, 1, h.loader.Loads(h.path("b")))
	require.Len(t, h.session.Rows(), 2)
	assert.Equal(t, []string{"a 0%", "b 0%"}, labels(h.session))
}

func TestTick_MultiDotManifestExtension(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "a.bundle.manifest", testutil.SampleManifest)
	testutil.WriteFile(t, dir, "b.manifest", testutil.SampleManifest)

	loader := testutil.NewFakeLoader()
	session := New(loader, Options{ManifestExt: ".bundle.manifest"})
	session.SetDir(dir)

	assert.True(t, session.Tick())
	assert.Equal(t, []string{"a 0%"}, labels(session))
	assert.Equal(t, 1, loader.Loads(bundle.NewPath(filepath.Join(dir, "a.bundle.manifest"), ".bundle.manifest")))
}

func TestTick_SteadyDirectoryDoesNotReload(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()
	h.handle("a").Complete()

	for i := 0; i < 5; i++ {
		h.advance()
	}
	assert.Equal(t, 1, h.loader.Loads(h.path("a")))
	assert.Empty(t, h.loader.Released())
}

func TestTick_ProgressAndCompletion(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.session.Tick()
	a := h.handle("a")

	a.SetProgress(0.42)
	assert.True(t, h.advance())
	assert.Equal(t, "a 42%", labels(h.session)[0])

	a.SetProgress(0.67)
	assert.True(t, h.advance())
	assert.False(t, h.advance(), "unchanged progress")

	a.Complete()
	assert.True(t, h.advance())
	assert.Equal(t, "a", labels(h.session)[0])
}

func TestTick_PollIsThrottled(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()

	h.handle("a").SetProgress(0.5)
	assert.False(t, h.session.Tick(), "poll interval has not elapsed")
	assert.Equal(t, "a 0%", labels(h.session)[0])
}

func TestTick_RemovedInFlightIsReleasedLater(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.session.Tick()
	b := h.handle("b")
	b.SetProgress(0.3)

	testutil.RemoveFile(t, filepath.Join(h.dir, "b.manifest"))
	assert.True(t, h.session.Tick(), "row removed")
	assert.Len(t, h.session.Rows(), 1)
	assert.False(t, h.session.Settled())

	artifact := b.Complete()
	h.session.Tick()
	assert.True(t, artifact.Released())
	assert.Equal(t, []*bundle.Artifact{artifact}, h.loader.Released())
}

func TestTick_ChangedManifestReloads(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()
	old := h.handle("a").Complete()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(h.dir, "a.manifest"), later, later))

	h.advance()
	assert.Equal(t, 2, h.loader.Loads(h.path("a")))
	assert.True(t, old.Released())
	assert.Equal(t, "a 0%", labels(h.session)[0])
}

func TestTick_ChangedManifestWaitsForInFlightLoad(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()

	later := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(h.dir, "a.manifest"), later, later))

	h.advance()
	assert.Equal(t, 1, h.loader.Loads(h.path("a")), "load still in flight")

	h.handle("a").Complete()
	h.advance()
	assert.Equal(t, 2, h.loader.Loads(h.path("a")), "change picked up once done")
}

func TestTick_FailedLoadIsNotRetried(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()
	h.handle("a").Fail(errors.New("bad"))

	h.advance()
	h.advance()
	assert.Equal(t, 1, h.loader.Loads(h.path("a")))
	assert.Equal(t, tree.StateFailed, h.session.Rows()[0].State)
	assert.True(t, h.session.Settled())

	h.session.Reload()
	h.session.Tick()
	assert.Equal(t, 2, h.loader.Loads(h.path("a")))
}

func TestReload_SkipsInFlight(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.session.Tick()
	h.handle("a").Complete()

	h.session.Reload()
	h.session.Tick()

	assert.Equal(t, 2, h.loader.Loads(h.path("a")))
	assert.Equal(t, 1, h.loader.Loads(h.path("b")))
}

func TestTick_MissingDirectoryIsEmpty(t *testing.T) {
	s := New(testutil.NewFakeLoader(), Options{})
	s.SetDir(filepath.Join(t.TempDir(), "nope"))

	assert.False(t, s.Tick())
	assert.Empty(t, s.Rows())
	assert.True(t, s.Settled())

	s.SetDir("")
	assert.False(t, s.Tick())
}

func TestSetDir_ClearsPreviousBundles(t *testing.T) {
	h := newHarness(t, "a")
	h.session.Tick()
	a := h.handle("a").Complete()
	require.True(t, h.session.Select(h.session.Rows()[0].Key))

	other := t.TempDir()
	testutil.WriteBundle(t, other, "c", "UnityFS")
	h.session.SetDir(other)
	assert.Equal(t, other, h.session.Dir())
	assert.True(t, a.Released())

	_, ok := h.session.Selected()
	assert.False(t, ok)

	h.session.Tick()
	assert.Equal(t, []string{"c 0%"}, labels(h.session))
}

func TestSelection(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.session.Tick()
	keyA := tree.KeyFor(h.path("a"))
	keyB := tree.KeyFor(h.path("b"))

	assert.False(t, h.session.Select(tree.KeyFor("/elsewhere/x")))

	require.True(t, h.session.Select(keyA))
	d := h.session.Detail()
	require.NotNil(t, d.Row)
	assert.Equal(t, keyA, d.Row.Key)
	require.NotNil(t, d.Entry)
	assert.Nil(t, d.Artifact, "still loading")

	want := h.handle("a").Complete()
	assert.Same(t, want, h.session.Detail().Artifact)

	require.True(t, h.session.Select(keyB))
	key, ok := h.session.Selected()
	assert.True(t, ok)
	assert.Equal(t, keyB, key)

	testutil.RemoveFile(t, filepath.Join(h.dir, "b.manifest"))
	h.session.Tick()
	_, ok = h.session.Selected()
	assert.False(t, ok, "selected row is gone")
	assert.Equal(t, Detail{}, h.session.Detail())
}

func TestReport(t *testing.T) {
	h := newHarness(t, "a", "b", "c")
	h.session.Tick()
	h.handle("a").Complete()
	h.handle("b").Fail(errors.New("truncated"))
	h.handle("c").SetProgress(0.25)

	r := h.session.Report()
	assert.Equal(t, h.dir, r.Dir)
	assert.Equal(t, 1, r.Loaded)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 1, r.Loading)
	require.Len(t, r.Bundles, 3)

	assert.Equal(t, output.StateLoaded, r.Bundles[0].State)
	assert.Equal(t, uint32(42), r.Bundles[0].CRC)
	assert.Equal(t, 1, r.Bundles[0].Assets)
	assert.Equal(t, "UnityFS", r.Bundles[0].Signature)

	assert.Equal(t, output.StateFailed, r.Bundles[1].State)
	assert.Equal(t, "truncated", r.Bundles[1].Error)

	assert.Equal(t, output.StateLoading, r.Bundles[2].State)
	assert.Equal(t, 25, r.Bundles[2].Progress)
}

func TestClose(t *testing.T) {
	h := newHarness(t, "a", "b")
	h.session.Tick()
	a := h.handle("a").Complete()

	assert.Equal(t, 1, h.session.Close())
	assert.True(t, a.Released())
}
