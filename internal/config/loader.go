package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/viper"
)

// Environment variables read by the loader.
const (
	EnvConfig             = "ABINSPECT_CONFIG"
	EnvWatchDir           = "ABINSPECT_WATCH_DIR"
	EnvManifestExt        = "ABINSPECT_MANIFEST_EXT"
	EnvPollInterval       = "ABINSPECT_POLL_INTERVAL"
	EnvTickInterval       = "ABINSPECT_TICK_INTERVAL"
	EnvMaxConcurrentLoads = "ABINSPECT_MAX_CONCURRENT_LOADS"
	EnvLoadRateLimit      = "ABINSPECT_LOAD_RATE_LIMIT"
	EnvReadChunkSize      = "ABINSPECT_READ_CHUNK_SIZE"
	EnvSplitRatio         = "ABINSPECT_SPLIT_RATIO"
	EnvLogTimestamps      = "ABINSPECT_LOG_TIMESTAMPS"
	EnvLogFile            = "ABINSPECT_LOG_FILE"
)

// envBindings maps config keys to their environment variables.
var envBindings = []struct {
	key string
	env string
}{
	{"watchDir", EnvWatchDir},
	{"manifestExt", EnvManifestExt},
	{"pollInterval", EnvPollInterval},
	{"tickInterval", EnvTickInterval},
	{"maxConcurrentLoads", EnvMaxConcurrentLoads},
	{"loadRateLimit", EnvLoadRateLimit},
	{"readChunkSize", EnvReadChunkSize},
	{"splitRatio", EnvSplitRatio},
	{"log.timestamps", EnvLogTimestamps},
	{"log.file", EnvLogFile},
}

// Loader handles loading and merging configuration from multiple sources.
type Loader struct {
	v *viper.Viper

	// path is the config file read by the last Load, if it existed.
	path string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	d := DefaultConfig()
	v.SetDefault("manifestExt", d.ManifestExt)
	v.SetDefault("pollInterval", d.PollInterval)
	v.SetDefault("tickInterval", d.TickInterval)
	v.SetDefault("maxConcurrentLoads", d.MaxConcurrentLoads)
	v.SetDefault("loadRateLimit", d.LoadRateLimit)
	v.SetDefault("readChunkSize", d.ReadChunkSize)
	v.SetDefault("splitRatio", d.SplitRatio)

	for _, b := range envBindings {
		_ = v.BindEnv(b.key, b.env)
	}

	return &Loader{v: v}
}

// Load loads configuration from the given file path.
// If configFile is empty, it uses the default config file path.
// A missing file is not an error. Environment variables take precedence
// over file values.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	l.path = ""
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else {
		l.path = expandedPath
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadWithDefaults loads configuration and applies defaults.
func (l *Loader) LoadWithDefaults(configFile string) (*Config, error) {
	cfg, err := l.Load(configFile)
	if err != nil {
		return nil, err
	}

	return cfg.WithDefaults(), nil
}

// Path returns the config file read by the last Load, or "" if none existed.
func (l *Loader) Path() string {
	return l.path
}

// Resolved reports where each config value came from after Load.
func (l *Loader) Resolved() []ResolvedValue {
	values := make([]ResolvedValue, 0, len(envBindings))
	for _, b := range envBindings {
		rv := ResolvedValue{
			Key:      b.key,
			Value:    l.v.Get(b.key),
			Source:   SourceDefault,
			Shadowed: make(map[ConfigSource]any),
		}
		inFile := l.v.InConfig(b.key)
		if _, ok := os.LookupEnv(b.env); ok {
			rv.Source = SourceEnv
			if inFile {
				rv.Shadowed[SourceConfig] = l.fileValue(b.key)
			}
		} else if inFile {
			rv.Source = SourceConfig
		}
		values = append(values, rv)
	}
	return values
}

func (l *Loader) fileValue(key string) any {
	if l.path == "" {
		return nil
	}
	fv := viper.New()
	fv.SetConfigFile(l.path)
	fv.SetConfigType("yaml")
	if err := fv.ReadInConfig(); err != nil {
		return nil
	}
	return fv.Get(key)
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	if configFile == "" {
		var err error
		configFile, err = GetConfigFile()
		if err != nil {
			return false, err
		}
	}

	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(expandedPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
