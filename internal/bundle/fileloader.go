package bundle

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/opmodel/abinspect/internal/output"
)

// Defaults for FileLoaderOptions zero values.
const (
	DefaultChunkSize     = 64 * 1024
	DefaultMaxConcurrent = 4
)

// FileLoaderOptions configures a FileLoader.
type FileLoaderOptions struct {
	// ManifestExt is the sidecar extension read alongside each bundle.
	ManifestExt string

	// ChunkSize is the read size between progress updates.
	ChunkSize int

	// MaxConcurrent caps loads reading at the same time.
	MaxConcurrent int

	// RateLimit caps total read throughput in bytes per second. 0 is unlimited.
	RateLimit int64
}

// FileLoader loads bundles from the local filesystem on background goroutines.
type FileLoader struct {
	opts    FileLoaderOptions
	sem     *semaphore.Weighted
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	loads    atomic.Int64
	releases atomic.Int64
}

// NewFileLoader creates a loader. Call Close to stop in-flight reads.
func NewFileLoader(opts FileLoaderOptions) *FileLoader {
	if opts.ManifestExt == "" {
		opts.ManifestExt = DefaultManifestExt
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = DefaultChunkSize
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}

	ctx, cancel := context.WithCancel(context.Background())
	l := &FileLoader{
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		ctx:    ctx,
		cancel: cancel,
	}
	if opts.RateLimit > 0 {
		l.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.ChunkSize)
	}
	return l
}

// LoadAsync starts loading p and returns its handle immediately.
func (l *FileLoader) LoadAsync(p Path) Handle {
	h := &fileHandle{}
	l.loads.Add(1)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(p, h)
	}()
	return h
}

// Release frees a.
func (l *FileLoader) Release(a *Artifact) {
	if a.Release() {
		l.releases.Add(1)
		output.Debug("released bundle", "bundle", a.Path)
	}
}

// Loads returns the number of loads issued.
func (l *FileLoader) Loads() int64 {
	return l.loads.Load()
}

// Releases returns the number of artifacts released.
func (l *FileLoader) Releases() int64 {
	return l.releases.Load()
}

// Close cancels in-flight loads and waits for their goroutines to exit.
// Cancelled loads complete as failures.
func (l *FileLoader) Close() {
	l.cancel()
	l.wg.Wait()
}

func (l *FileLoader) run(p Path, h *fileHandle) {
	if err := l.sem.Acquire(l.ctx, 1); err != nil {
		h.fail(err)
		return
	}
	defer l.sem.Release(1)

	start := time.Now()
	a, err := l.load(p, h)
	if err != nil {
		output.BundleLogger(p.Name()).Warn("load failed", "error", err)
		h.fail(err)
		return
	}

	output.BundleLogger(p.Name()).Debug("loaded",
		"bytes", a.Size,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	h.complete(a)
}

func (l *FileLoader) load(p Path, h *fileHandle) (*Artifact, error) {
	f, err := os.Open(p.File())
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bundle: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("bundle %s is a directory", p)
	}
	size := info.Size()

	digest := sha256.New()
	probe := make([]byte, 0, headerProbeSize)
	buf := make([]byte, l.opts.ChunkSize)
	var read int64

	for {
		if l.limiter != nil {
			if err := l.limiter.WaitN(l.ctx, len(buf)); err != nil {
				return nil, err
			}
		} else if err := l.ctx.Err(); err != nil {
			return nil, err
		}

		n, err := f.Read(buf)
		if n > 0 {
			digest.Write(buf[:n])
			if room := headerProbeSize - len(probe); room > 0 {
				probe = append(probe, buf[:min(n, room)]...)
			}
			read += int64(n)
			h.setProgress(read, size)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading bundle: %w", err)
		}
	}

	a := &Artifact{
		Path:     p,
		Size:     read,
		Digest:   "sha256:" + hex.EncodeToString(digest.Sum(nil)),
		Header:   ParseHeader(probe),
		LoadedAt: time.Now(),
	}

	m, err := ReadManifest(p.Sidecar(l.opts.ManifestExt))
	if err != nil {
		a.ManifestErr = err.Error()
		output.BundleLogger(p.Name()).Warn("manifest unreadable", "error", err)
	} else {
		a.Manifest = m
	}
	return a, nil
}

type fileHandle struct {
	mu       sync.RWMutex
	done     bool
	progress float64
	artifact *Artifact
	err      error
}

func (h *fileHandle) Done() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.done
}

func (h *fileHandle) Progress() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.progress
}

func (h *fileHandle) Artifact() *Artifact {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.artifact
}

func (h *fileHandle) Err() error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.err
}

func (h *fileHandle) setProgress(read, size int64) {
	p := 1.0
	if size > 0 && read < size {
		p = float64(read) / float64(size)
	}
	h.mu.Lock()
	h.progress = p
	h.mu.Unlock()
}

func (h *fileHandle) complete(a *Artifact) {
	h.mu.Lock()
	h.artifact = a
	h.progress = 1
	h.done = true
	h.mu.Unlock()
}

func (h *fileHandle) fail(err error) {
	h.mu.Lock()
	h.err = err
	h.done = true
	h.mu.Unlock()
}
