// Package config provides configuration loading and management.
package config

import (
	"time"

	"gopkg.in/yaml.v3"

	"github.com/opmodel/abinspect/internal/bundle"
)

// Defaults applied to unset configuration values.
const (
	DefaultPollInterval       = 500 * time.Millisecond
	DefaultTickInterval       = 100 * time.Millisecond
	DefaultMaxConcurrentLoads = bundle.DefaultMaxConcurrent
	DefaultReadChunkSize      = bundle.DefaultChunkSize
	DefaultSplitRatio         = 0.5

	MinSplitRatio = 0.1
	MaxSplitRatio = 0.9
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps"`

	// File receives log output while the interactive inspector owns the
	// terminal. Default: ~/.abinspect/abinspect.log
	File string `mapstructure:"file"`
}

// Config represents the abinspect configuration.
// Loaded from ~/.abinspect/config.yaml, overridden by ABINSPECT_* env vars.
type Config struct {
	// WatchDir is the directory scanned for manifest sidecars.
	// Env: ABINSPECT_WATCH_DIR
	WatchDir string `mapstructure:"watchDir"`

	// ManifestExt is the sidecar extension that marks a bundle.
	// Env: ABINSPECT_MANIFEST_EXT, Default: .manifest
	ManifestExt string `mapstructure:"manifestExt"`

	// PollInterval is the minimum time between progress polls.
	PollInterval time.Duration `mapstructure:"pollInterval"`

	// TickInterval is how often the inspector rescans the directory.
	TickInterval time.Duration `mapstructure:"tickInterval"`

	// MaxConcurrentLoads caps bundles read at the same time.
	MaxConcurrentLoads int `mapstructure:"maxConcurrentLoads"`

	// LoadRateLimit caps total read throughput in bytes per second. 0 is unlimited.
	LoadRateLimit int64 `mapstructure:"loadRateLimit"`

	// ReadChunkSize is the read size between progress updates.
	ReadChunkSize int `mapstructure:"readChunkSize"`

	// SplitRatio is the initial width share of the row pane.
	SplitRatio float64 `mapstructure:"splitRatio"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `abinspect config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		ManifestExt:        bundle.DefaultManifestExt,
		PollInterval:       DefaultPollInterval,
		TickInterval:       DefaultTickInterval,
		MaxConcurrentLoads: DefaultMaxConcurrentLoads,
		ReadChunkSize:      DefaultReadChunkSize,
		SplitRatio:         DefaultSplitRatio,
	}
}

// WithDefaults returns a copy of c with zero values replaced by defaults.
func (c *Config) WithDefaults() *Config {
	out := *c
	d := DefaultConfig()
	if out.ManifestExt == "" {
		out.ManifestExt = d.ManifestExt
	}
	if out.PollInterval == 0 {
		out.PollInterval = d.PollInterval
	}
	if out.TickInterval == 0 {
		out.TickInterval = d.TickInterval
	}
	if out.MaxConcurrentLoads == 0 {
		out.MaxConcurrentLoads = d.MaxConcurrentLoads
	}
	if out.ReadChunkSize == 0 {
		out.ReadChunkSize = d.ReadChunkSize
	}
	if out.SplitRatio == 0 {
		out.SplitRatio = d.SplitRatio
	}
	return &out
}

// LoaderOptions returns the bundle loader settings of c.
func (c *Config) LoaderOptions() bundle.FileLoaderOptions {
	return bundle.FileLoaderOptions{
		ManifestExt:   c.ManifestExt,
		ChunkSize:     c.ReadChunkSize,
		MaxConcurrent: c.MaxConcurrentLoads,
		RateLimit:     c.LoadRateLimit,
	}
}

// fileConfig is the on-disk shape of Config, with durations as strings.
type fileConfig struct {
	WatchDir           string        `yaml:"watchDir"`
	ManifestExt        string        `yaml:"manifestExt"`
	PollInterval       string        `yaml:"pollInterval"`
	TickInterval       string        `yaml:"tickInterval"`
	MaxConcurrentLoads int           `yaml:"maxConcurrentLoads"`
	LoadRateLimit      int64         `yaml:"loadRateLimit"`
	ReadChunkSize      int           `yaml:"readChunkSize"`
	SplitRatio         float64       `yaml:"splitRatio"`
	Log                fileLogConfig `yaml:"log,omitempty"`
}

type fileLogConfig struct {
	Timestamps *bool  `yaml:"timestamps,omitempty"`
	File       string `yaml:"file,omitempty"`
}

// ToYAML renders c as a config file body.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(fileConfig{
		WatchDir:           c.WatchDir,
		ManifestExt:        c.ManifestExt,
		PollInterval:       c.PollInterval.String(),
		TickInterval:       c.TickInterval.String(),
		MaxConcurrentLoads: c.MaxConcurrentLoads,
		LoadRateLimit:      c.LoadRateLimit,
		ReadChunkSize:      c.ReadChunkSize,
		SplitRatio:         c.SplitRatio,
		Log: fileLogConfig{
			Timestamps: c.Log.Timestamps,
			File:       c.Log.File,
		},
	})
}
