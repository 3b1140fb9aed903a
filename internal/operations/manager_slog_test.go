package operations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinsight/internal/analysis"
	"opsinsight/internal/config"
	"opsinsight/internal/infrastructure"
	"opsinsight/internal/operations"
	"opsinsight/internal/operations/testutil"
)

func newLoggedManager(t *testing.T, suite operations.Suite) (*operations.Manager, *testutil.MockSlogHandler) {
	t.Helper()
	logger, handler := testutil.CreateTestSlogLogger()
	m, err := operations.NewManager(suite, operations.Options{
		Deps: analysis.Deps{Logger: logger, Now: func() time.Time { return referenceTime }},
	})
	require.NoError(t, err)
	return m, handler
}

// runEvents keeps the operation and stage events, in order
func runEvents(h *testutil.MockSlogHandler) []string {
	var out []string
	for _, msg := range h.Messages() {
		if strings.HasPrefix(msg, "operation_") || strings.HasPrefix(msg, "stage_") {
			out = append(out, msg)
		}
	}
	return out
}

func TestManagerSlogSuccessfulRun(t *testing.T) {
	suite := operations.Suite{
		Name: "test",
		Stages: []*operations.Stage{
			testutil.CreateSuccessfulStage("a", "A"),
			testutil.CreateSuccessfulStage("b", "B"),
		},
	}
	m, handler := newLoggedManager(t, suite)
	path := testutil.WriteCompanyFile(t, "{}")

	_, err := m.Execute(context.Background(), operations.RunRequest{DataPath: path})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"operation_start",
		"stage_start", "stage_complete",
		"stage_start", "stage_complete",
		"operation_complete",
	}, runEvents(handler))

	start, ok := handler.FindRecord("operation_start")
	require.True(t, ok)
	assert.Equal(t, slog.LevelInfo, start.Level)
	assert.Equal(t, "test", start.Attrs["suite"])
	assert.Equal(t, path, start.Attrs["data_path"])
	assert.EqualValues(t, 2, start.Attrs["stage_count"])

	complete, ok := handler.FindRecord("operation_complete")
	require.True(t, ok)
	assert.Equal(t, "completed", complete.Attrs["status"])
	assert.Contains(t, complete.Attrs, "duration")

	stage, ok := handler.FindRecord("stage_complete")
	require.True(t, ok)
	assert.Equal(t, "a", stage.Attrs["stage"])
}

func TestManagerSlogFailedRun(t *testing.T) {
	suite := operations.Suite{
		Name: "test",
		Stages: []*operations.Stage{
			testutil.CreateFailingStage("a", "A", errors.New("boom")),
		},
	}
	m, handler := newLoggedManager(t, suite)

	_, err := m.Execute(context.Background(), operations.RunRequest{DataPath: testutil.WriteCompanyFile(t, "{}")})
	require.Error(t, err)

	assert.Equal(t, []string{"operation_start", "stage_start", "stage_error", "operation_error"}, runEvents(handler))

	stageErr, ok := handler.FindRecord("stage_error")
	require.True(t, ok)
	assert.Equal(t, slog.LevelError, stageErr.Level)
	assert.Equal(t, "a", stageErr.Attrs["stage"])
	assert.Contains(t, stageErr.Attrs["error"], "boom")

	opErr, ok := handler.FindRecord("operation_error")
	require.True(t, ok)
	assert.Equal(t, "execution", opErr.Attrs["error_type"])
}

func TestManagerSlogSourceError(t *testing.T) {
	suite := operations.Suite{Name: "test", Stages: []*operations.Stage{testutil.CreateSuccessfulStage("a", "A")}}
	m, handler := newLoggedManager(t, suite)

	_, err := m.Execute(context.Background(), operations.RunRequest{DataPath: "/nonexistent/company.json"})
	require.Error(t, err)

	assert.Equal(t, []string{"operation_start", "operation_error"}, runEvents(handler))
	opErr, _ := handler.FindRecord("operation_error")
	assert.Equal(t, "source", opErr.Attrs["error_type"])
}

// The run ID travels in ctx and is stamped on every record by the run handler
func TestManagerSlogRunID(t *testing.T) {
	var buf bytes.Buffer
	logger, file, err := infrastructure.NewLogger(config.LoggingConfig{Level: "info", Output: "stderr"}, &buf)
	require.NoError(t, err)
	require.Nil(t, file)

	suite := operations.Suite{Name: "test", Stages: []*operations.Stage{testutil.CreateSuccessfulStage("a", "A")}}
	m, err := operations.NewManager(suite, operations.Options{Deps: analysis.Deps{Logger: logger}})
	require.NoError(t, err)

	result, err := m.Execute(context.Background(), operations.RunRequest{DataPath: testutil.WriteCompanyFile(t, "{}")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	for _, line := range lines {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		assert.Equal(t, result.ID, entry["run_id"], "record %v", entry["msg"])
	}
}
