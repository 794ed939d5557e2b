package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for abinspect.
type Paths struct {
	// ConfigFile is the path to the config file (~/.abinspect/config.yaml).
	ConfigFile string

	// LogFile is the interactive inspector's log file (~/.abinspect/abinspect.log).
	LogFile string

	// HomeDir is the abinspect home directory (~/.abinspect).
	HomeDir string
}

// DefaultPaths returns the default paths for abinspect.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".abinspect")

	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		LogFile:    filepath.Join(home, "abinspect.log"),
		HomeDir:    home,
	}, nil
}

// GetConfigFile returns the config file path.
// If ABINSPECT_CONFIG is set, it takes precedence.
func GetConfigFile() (string, error) {
	if envPath := os.Getenv(EnvConfig); envPath != "" {
		return envPath, nil
	}

	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.ConfigFile, nil
}

// GetLogFile returns the default log file path.
func GetLogFile() (string, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return "", err
	}

	return paths.LogFile, nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) == 0 {
		return path, nil
	}

	if path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}

	// Handle ~/path/to/something
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// Handle ~username (not supported, return as-is)
	return path, nil
}
