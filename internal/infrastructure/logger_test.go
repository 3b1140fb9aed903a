package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinsight/internal/config"
)

func decodeLines(t *testing.T, data []byte) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "nested", "test.log")
	cfg := config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	}

	logger, err := InitializeLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("analysis_start", "analysis", "inventory")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entries := decodeLines(t, content)
	require.Len(t, entries, 1)
	assert.Equal(t, "analysis_start", entries[0]["msg"])
	assert.Equal(t, "inventory", entries[0]["analysis"])
	assert.Equal(t, "INFO", entries[0]["level"])
}

func TestNewLoggerOutputs(t *testing.T) {
	t.Run("stderr only", func(t *testing.T) {
		var console bytes.Buffer
		logger, file, err := NewLogger(config.LoggingConfig{Level: "debug", Output: "stderr"}, &console)
		require.NoError(t, err)
		assert.Nil(t, file)

		logger.Debug("debug_event")
		entries := decodeLines(t, console.Bytes())
		require.Len(t, entries, 1)
		assert.Equal(t, "debug_event", entries[0]["msg"])
	})

	t.Run("both writes console and file", func(t *testing.T) {
		var console bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "both.log")
		logger, file, err := NewLogger(config.LoggingConfig{Level: "info", Output: "both", FilePath: logFile}, &console)
		require.NoError(t, err)
		require.NotNil(t, file)

		logger.Warn("stage_error")
		require.NoError(t, file.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Len(t, decodeLines(t, content), 1)
		assert.Len(t, decodeLines(t, console.Bytes()), 1)
	})

	t.Run("level filters records", func(t *testing.T) {
		var console bytes.Buffer
		logger, _, err := NewLogger(config.LoggingConfig{Level: "error", Output: "stderr"}, &console)
		require.NoError(t, err)

		logger.Info("ignored")
		logger.Error("kept")
		entries := decodeLines(t, console.Bytes())
		require.Len(t, entries, 1)
		assert.Equal(t, "kept", entries[0]["msg"])
	})
}

func TestRunIDInjection(t *testing.T) {
	var console bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Output: "stderr"}, &console)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "run_start")
	logger.With("analysis", "cost").InfoContext(ctx, "analysis_start")
	logger.Info("no_context")

	entries := decodeLines(t, console.Bytes())
	require.Len(t, entries, 3)
	assert.Equal(t, "run-123", entries[0]["run_id"])
	assert.Equal(t, "run-123", entries[1]["run_id"])
	assert.Equal(t, "cost", entries[1]["analysis"])
	assert.NotContains(t, entries[2], "run_id")
}

func TestEnsureRunID(t *testing.T) {
	ctx := EnsureRunID(context.Background())
	runID := GetRunID(ctx)
	assert.Len(t, runID, 36)

	assert.Equal(t, runID, GetRunID(EnsureRunID(ctx)), "existing id is kept")
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug":   "DEBUG",
		"INFO":    "INFO",
		"warning": "WARN",
		"error":   "ERROR",
		"bogus":   "INFO",
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in).String(), in)
	}
}
