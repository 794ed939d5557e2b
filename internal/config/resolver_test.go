package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvedValue_WithFlag(t *testing.T) {
	base := ResolvedValue{
		Key:      "watchDir",
		Value:    "/from/env",
		Source:   SourceEnv,
		Shadowed: map[ConfigSource]any{SourceConfig: "/from/file"},
	}

	t.Run("flag set", func(t *testing.T) {
		rv := base.WithFlag("/from/flag", true)
		assert.Equal(t, "/from/flag", rv.Value)
		assert.Equal(t, SourceFlag, rv.Source)
		assert.Equal(t, "/from/env", rv.Shadowed[SourceEnv])
		assert.Equal(t, "/from/file", rv.Shadowed[SourceConfig])
		assert.NotContains(t, base.Shadowed, SourceEnv, "base is not modified")
	})

	t.Run("flag unset", func(t *testing.T) {
		rv := base.WithFlag("", false)
		assert.Equal(t, base, rv)
	})

	t.Run("empty previous value is not shadowed", func(t *testing.T) {
		rv := ResolvedValue{Key: "watchDir", Value: nil, Source: SourceDefault}.WithFlag("/x", true)
		assert.Empty(t, rv.Shadowed)
	})
}

func TestLookup(t *testing.T) {
	values := []ResolvedValue{{Key: "a", Value: 1}, {Key: "b", Value: 2}}

	rv, ok := Lookup(values, "b")
	require.True(t, ok)
	assert.Equal(t, 2, rv.Value)

	_, ok = Lookup(values, "c")
	assert.False(t, ok)
}

func TestResolveConfigPath_FlagPrecedence(t *testing.T) {
	t.Setenv(EnvConfig, "/env/path/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{
		FlagValue: "/flag/path/config.yaml",
	})
	require.NoError(t, err)

	assert.Equal(t, "/flag/path/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceFlag, result.Source)
	assert.Equal(t, "/env/path/config.yaml", result.Shadowed[SourceEnv])
	assert.Contains(t, result.Shadowed, SourceDefault)
}

func TestResolveConfigPath_EnvPrecedence(t *testing.T) {
	t.Setenv(EnvConfig, "/env/path/config.yaml")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})
	require.NoError(t, err)

	assert.Equal(t, "/env/path/config.yaml", result.ConfigPath)
	assert.Equal(t, SourceEnv, result.Source)
	assert.NotContains(t, result.Shadowed, SourceFlag)
}

func TestResolveConfigPath_Default(t *testing.T) {
	t.Setenv(EnvConfig, "")

	result, err := ResolveConfigPath(ResolveConfigPathOptions{})
	require.NoError(t, err)

	paths, err := DefaultPaths()
	require.NoError(t, err)
	assert.Equal(t, paths.ConfigFile, result.ConfigPath)
	assert.Equal(t, SourceDefault, result.Source)
	assert.Empty(t, result.Shadowed)
}
