package bundle

// Handle is the pollable status of one load attempt. All methods are
// non-blocking and safe to call from the UI goroutine while the load runs.
type Handle interface {
	// Done reports whether the load has finished, successfully or not.
	Done() bool

	// Progress returns the fraction loaded in [0,1].
	Progress() float64

	// Artifact returns the loaded artifact. It is nil until Done, and stays
	// nil when the load failed.
	Artifact() *Artifact

	// Err returns the failure cause once Done, or nil.
	Err() error
}

// Loader issues asynchronous bundle loads and frees their artifacts.
type Loader interface {
	// LoadAsync starts loading p and returns immediately.
	LoadAsync(p Path) Handle

	// Release frees an artifact produced by this loader.
	Release(a *Artifact)
}
