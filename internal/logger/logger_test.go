package logger_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/framewm/internal/logger"
)

func newTestLogger(t *testing.T, opts logger.LoggerOptions) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	var console bytes.Buffer
	if opts.LogDir == "" {
		opts.LogDir = t.TempDir()
	}
	opts.Console = &console

	log, err := logger.NewLogger(opts)
	require.NoError(t, err)
	return log, &console
}

func readLog(t *testing.T, log *logger.Logger) string {
	t.Helper()
	log.Close()
	data, err := os.ReadFile(log.GetLogPath())
	require.NoError(t, err)
	return string(data)
}

func TestNewLogger_RequiresLogDir(t *testing.T) {
	_, err := logger.NewLogger(logger.LoggerOptions{})
	assert.Error(t, err)
}

func TestNewLogger_CreatesLogDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state", "framewm")

	log, _ := newTestLogger(t, logger.LoggerOptions{LogDir: dir})
	defer log.Close()

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "framewm.log"), log.GetLogPath())
}

func TestLogger_TraceGoesToFileOnly(t *testing.T) {
	log, console := newTestLogger(t, logger.LoggerOptions{Level: logger.LevelTrace, Verbose: true})

	log.Trace("dispatch", "window", 42)

	out := readLog(t, log)
	assert.Contains(t, out, "level=TRACE")
	assert.Contains(t, out, "window=42")
	assert.Empty(t, console.String())
}

func TestLogger_FileLevelFilters(t *testing.T) {
	log, _ := newTestLogger(t, logger.LoggerOptions{Level: slog.LevelInfo})

	log.Debug("hidden")
	log.Info("shown")

	out := readLog(t, log)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestConsole_DebugRequiresVerbose(t *testing.T) {
	log, console := newTestLogger(t, logger.LoggerOptions{Level: slog.LevelDebug})
	defer log.Close()

	log.Debug("quiet")
	log.Info("managing window", "window", "0x400001")
	log.Warn("careful")
	log.Error("broken", "err", assert.AnError)

	out := console.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "managing window window=0x400001")
	assert.Contains(t, out, "WARNING: careful")
	assert.Contains(t, out, "ERROR: broken")
}

func TestConsole_VerboseShowsDebug(t *testing.T) {
	log, console := newTestLogger(t, logger.LoggerOptions{Level: slog.LevelDebug, Verbose: true})
	defer log.Close()

	log.Debug("details")

	assert.Contains(t, console.String(), "VERBOSE: details")
}

func TestConsole_WithAttrs(t *testing.T) {
	log, console := newTestLogger(t, logger.LoggerOptions{})
	defer log.Close()

	log.With("component", "ipc").Info("listening")

	assert.Contains(t, console.String(), "listening component=ipc")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"trace", logger.LevelTrace},
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"WARN", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := logger.ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := logger.ParseLevel("loud")
	assert.Error(t, err)
}
