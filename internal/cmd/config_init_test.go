package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/abinspect/internal/config"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(config.EnvConfig, "")
	return home
}

func runConfigInitCmd(t *testing.T, args ...string) error {
	t.Helper()
	configInitForce = false
	cmd := NewConfigInitCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}

func TestNewConfigInitCmd(t *testing.T) {
	cmd := NewConfigInitCmd()

	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotNil(t, cmd.Flags().Lookup("force"))
}

func TestConfigInit_CreatesFile(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runConfigInitCmd(t))

	dir := filepath.Join(home, ".abinspect")
	assert.DirExists(t, dir)
	assert.FileExists(t, filepath.Join(dir, "config.yaml"))
}

func TestConfigInit_SecurePermissions(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runConfigInitCmd(t))

	dir := filepath.Join(home, ".abinspect")
	dirInfo, err := os.Stat(dir)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), fileInfo.Mode().Perm())
}

func TestConfigInit_ExistingConfig(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, ".abinspect")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("# existing\n"), 0o600))

	err := runConfigInitCmd(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestConfigInit_ForceOverwrite(t *testing.T) {
	home := setupHome(t)
	dir := filepath.Join(home, ".abinspect")
	require.NoError(t, os.MkdirAll(dir, 0o700))
	file := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("# old config\n"), 0o600))

	require.NoError(t, runConfigInitCmd(t, "--force"))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old config")
}

func TestConfigInit_WritesLoadableDefaults(t *testing.T) {
	home := setupHome(t)

	require.NoError(t, runConfigInitCmd(t))

	file := filepath.Join(home, ".abinspect", "config.yaml")
	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), "manifestExt: .manifest")
	assert.Contains(t, string(content), "pollInterval:")

	cfg, err := config.ValidateFile(file)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig(), cfg)
}
