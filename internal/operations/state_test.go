package operations_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinsight/internal/operations"
)

func TestNewRunState(t *testing.T) {
	state := operations.NewRunState("run-1", operations.SuiteIT)

	assert.Equal(t, "run-1", state.ID)
	assert.Equal(t, operations.SuiteIT, state.Suite)
	assert.Equal(t, operations.RunStatusPending, state.GetStatus())
	assert.Empty(t, state.Stages())
	assert.Nil(t, state.EndTime)
}

func TestRunStateLifecycle(t *testing.T) {
	state := operations.NewRunState("run-1", operations.SuiteIT)
	state.Start()
	assert.Equal(t, operations.RunStatusRunning, state.GetStatus())

	state.Complete()
	assert.Equal(t, operations.RunStatusCompleted, state.GetStatus())
	require.NotNil(t, state.EndTime)
	assert.Equal(t, state.EndTime.Sub(state.StartTime), state.Duration())

	failed := operations.NewRunState("run-2", operations.SuiteIT)
	failed.Start()
	failed.Fail(errors.New("source missing"))
	assert.Equal(t, operations.RunStatusFailed, failed.GetStatus())
	assert.Equal(t, "source missing", failed.Error)
}

func TestRunStateStages(t *testing.T) {
	state := operations.NewRunState("run-1", operations.SuiteCommercial)
	for _, id := range []string{"b", "a", "c"} {
		state.AddStage(operations.NewStageState(id, id))
	}

	replacement := operations.NewStageState("a", "replaced")
	state.AddStage(replacement)

	ids := make([]string, 0, 3)
	for _, s := range state.Stages() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids, "stages keep their first position")
	assert.Same(t, replacement, state.GetStage("a"))
	assert.Nil(t, state.GetStage("missing"))

	state.GetStage("b").Start()
	state.GetStage("b").Complete()
	state.GetStage("a").Start()
	state.GetStage("a").Fail(errors.New("boom"))

	require.Len(t, state.GetCompletedStages(), 1)
	assert.Equal(t, "b", state.GetCompletedStages()[0].ID)
	require.Len(t, state.GetFailedStages(), 1)
	assert.Equal(t, "a", state.GetFailedStages()[0].ID)
	assert.True(t, state.HasFailures())
}
