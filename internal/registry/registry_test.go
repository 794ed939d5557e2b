package registry

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/abinspect/internal/bundle"
	"github.com/opmodel/abinspect/internal/testutil"
)

func TestEnsure_NewPathIssuesLoad(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	assert.True(t, r.Ensure("a"))
	assert.True(t, r.Ensure("b"))

	assert.Equal(t, []bundle.Path{"a", "b"}, r.Keys())
	assert.Equal(t, 2, loader.TotalLoads())

	e, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, bundle.Path("a"), e.Path)
	assert.Nil(t, e.Artifact())
}

func TestEnsure_InFlightIsIdempotent(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	assert.True(t, r.Ensure("a"))
	assert.False(t, r.Ensure("a"))

	assert.Equal(t, 1, loader.Loads("a"))
	assert.Len(t, r.entries, 1)
}

func TestEnsure_ReleasesLiveArtifactBeforeReissue(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	r.Ensure("b")
	old := loader.Handle("a").Complete()
	first, _ := r.Get("a")
	gen := first.Generation

	assert.True(t, r.Ensure("a"))

	assert.Equal(t, []*bundle.Artifact{old}, loader.Released())
	assert.Equal(t, 1, loader.ReleaseCalls())
	assert.True(t, old.Released())
	assert.Equal(t, 2, loader.Loads("a"))

	e, _ := r.Get("a")
	assert.NotEqual(t, gen, e.Generation)
	assert.Nil(t, e.Artifact(), "new load still in flight")
	assert.Equal(t, []bundle.Path{"a", "b"}, r.Keys(), "reissue keeps position")
}

func TestEnsure_FailedLoadStaysUntilReissued(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	loader.Handle("a").Fail(errors.New("corrupt"))

	e, ok := r.Get("a")
	require.True(t, ok)
	assert.True(t, e.Failed())
	assert.Nil(t, e.Artifact())
	assert.True(t, r.Settled())

	assert.True(t, r.Ensure("a"))
	assert.Equal(t, 2, loader.Loads("a"))
	assert.Zero(t, loader.ReleaseCalls())
}

func TestEnsure_ReleasedArtifactIsNotReleasedAgain(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	a := loader.Handle("a").Complete()
	a.Release()

	assert.True(t, r.Ensure("a"))
	assert.Zero(t, loader.ReleaseCalls())
}

func TestRemove_FinishedReleasesNow(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	a := loader.Handle("a").Complete()

	r.Remove("a")

	_, ok := r.Get("a")
	assert.False(t, ok)
	assert.True(t, a.Released())
	assert.Zero(t, r.Pending())
	assert.Empty(t, r.Keys())
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Remove("missing")
	assert.Empty(t, r.entries)
	assert.Zero(t, loader.ReleaseCalls())
}

func TestRemove_InFlightReleasedAfterCompletion(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	r.Ensure("b")
	h := loader.Handle("b")
	h.SetProgress(0.3)

	r.Remove("b")
	assert.Equal(t, 1, r.Pending())
	assert.Zero(t, r.Sweep(), "still loading")

	a := h.Complete()
	assert.False(t, a.Released())

	assert.Equal(t, 1, r.Sweep())
	assert.True(t, a.Released())
	assert.Zero(t, r.Pending())
	assert.Equal(t, []bundle.Path{"a"}, r.Keys())
}

func TestRemove_InFlightFailureRetiresWithoutRelease(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	h := loader.Handle("a")
	r.Remove("a")
	h.Fail(errors.New("gone"))

	assert.Equal(t, 1, r.Sweep())
	assert.Zero(t, loader.ReleaseCalls())
}

func TestClose_ReleasesFinishedAndReportsInFlight(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)

	r.Ensure("a")
	r.Ensure("b")
	a := loader.Handle("a").Complete()

	assert.Equal(t, 1, r.Close())
	assert.True(t, a.Released())
	assert.Empty(t, r.entries)

	b := loader.Handle("b").Complete()
	r.Sweep()
	assert.True(t, b.Released())
}

func TestRegistry_NoSharedLiveArtifacts(t *testing.T) {
	loader := testutil.NewFakeLoader()
	r := New(loader)
	rng := rand.New(rand.NewSource(7))
	paths := []bundle.Path{"a", "b", "c", "d"}

	for i := 0; i < 2000; i++ {
		p := paths[rng.Intn(len(paths))]
		switch rng.Intn(4) {
		case 0:
			r.Ensure(p)
		case 1:
			r.Remove(p)
		case 2:
			if h := loader.Handle(p); h != nil && !h.Done() {
				h.Complete()
			}
		case 3:
			r.Sweep()
		}

		seen := make(map[*bundle.Artifact]bundle.Path)
		for _, k := range r.Keys() {
			e, ok := r.Get(k)
			require.True(t, ok)
			a := e.Artifact()
			if a == nil {
				continue
			}
			if other, dup := seen[a]; dup {
				t.Fatalf("step %d: artifact shared by %s and %s", i, other, k)
			}
			seen[a] = k
		}
	}

	r.Close()
	assert.Equal(t, len(loader.Released()), loader.ReleaseCalls(), "every release frees a live artifact")
}
