package config

import (
	"fmt"
	"strings"
)

// minReadChunkSize keeps progress updates from dominating read cost.
const minReadChunkSize = 512

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks cfg after defaults have been applied.
func Validate(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.WatchDir != "" && strings.TrimSpace(cfg.WatchDir) == "" {
		add("watchDir", "must not be whitespace only")
	}
	if len(cfg.ManifestExt) < 2 || !strings.HasPrefix(cfg.ManifestExt, ".") {
		add("manifestExt", "must be a file extension starting with '.'")
	} else if strings.ContainsAny(cfg.ManifestExt, `/\`) {
		add("manifestExt", "must not contain path separators")
	}
	if cfg.PollInterval <= 0 {
		add("pollInterval", "must be positive")
	}
	if cfg.TickInterval <= 0 {
		add("tickInterval", "must be positive")
	}
	if cfg.MaxConcurrentLoads < 1 {
		add("maxConcurrentLoads", "must be at least 1")
	}
	if cfg.LoadRateLimit < 0 {
		add("loadRateLimit", "must not be negative")
	}
	if cfg.ReadChunkSize < minReadChunkSize {
		add("readChunkSize", fmt.Sprintf("must be at least %d bytes", minReadChunkSize))
	}
	if cfg.SplitRatio < MinSplitRatio || cfg.SplitRatio > MaxSplitRatio {
		add("splitRatio", fmt.Sprintf("must be between %.1f and %.1f", MinSplitRatio, MaxSplitRatio))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile loads the configuration file at path with defaults and validates it.
func ValidateFile(path string) (*Config, error) {
	cfg, err := NewLoader().LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("loading config file: %w", err)
	}
	return cfg, Validate(cfg)
}
