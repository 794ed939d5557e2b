package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

// captureLog sets up the logger to write to a buffer and returns the buffer.
func captureLog(t *testing.T, cfg LogConfig) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := logWriter
	t.Cleanup(func() { logWriter = prev })

	logWriter = &buf
	SetupLogging(cfg)
	return &buf
}

func TestSetupLogging_TimestampDefaultOn(t *testing.T) {
	buf := captureLog(t, LogConfig{})
	logger.Info("test")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, buf.String(), "default output should start with a timestamp")
}

func TestSetupLogging_TimestampExplicitlyDisabled(t *testing.T) {
	buf := captureLog(t, LogConfig{Timestamps: BoolPtr(false)})
	logger.Info("hello")
	out := strings.TrimSpace(buf.String())
	assert.NotRegexp(t, `^\d{1,2}:\d{2}:\d{2}`, out, "output should not start with a timestamp")
	assert.Contains(t, out, "hello")
}

func TestSetupLogging_VerboseForcesTimestampsOn(t *testing.T) {
	buf := captureLog(t, LogConfig{Verbose: true, Timestamps: BoolPtr(false)})
	logger.Debug("verbose-msg")
	out := buf.String()
	assert.Contains(t, out, "verbose-msg", "debug message should appear in verbose mode")
	assert.Regexp(t, `^\d{2}:\d{2}:\d{2}`, out, "verbose should force timestamps on")
}

func TestSetupLogging_VerboseEnablesDebugLevel(t *testing.T) {
	captureLog(t, LogConfig{Verbose: true})
	assert.Equal(t, log.DebugLevel, logger.GetLevel(), "verbose should set debug level")
}

func TestSetupLogging_DefaultInfoLevel(t *testing.T) {
	buf := captureLog(t, LogConfig{})
	assert.Equal(t, log.InfoLevel, logger.GetLevel(), "default should be info level")
	Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestSetOutput_RedirectsExistingLogger(t *testing.T) {
	captureLog(t, LogConfig{Timestamps: BoolPtr(false)})

	var other bytes.Buffer
	SetOutput(&other)
	Warn("moved", "bundle", "a")
	assert.Contains(t, other.String(), "moved")
	assert.Contains(t, other.String(), "bundle=a")
}

func TestBundleLogger_HasPrefix(t *testing.T) {
	captureLog(t, LogConfig{})
	bundleLog := BundleLogger("characters")
	assert.NotNil(t, bundleLog)
	assert.Contains(t, bundleLog.GetPrefix(), "characters", "prefix should contain bundle name")
}

func TestBundleLogger_InheritsLevel(t *testing.T) {
	captureLog(t, LogConfig{Verbose: true})
	bundleLog := BundleLogger("characters")
	assert.Equal(t, log.DebugLevel, bundleLog.GetLevel(), "bundle logger should inherit debug level")
}

func TestBoolPtr(t *testing.T) {
	assert.True(t, *BoolPtr(true))
	assert.False(t, *BoolPtr(false))
}
