package operations

import (
	"context"
	"log/slog"
	"time"

	apperrors "opsinsight/internal/errors"
)

// logOperationStart logs the start of a run. run_id comes from ctx.
func (m *Manager) logOperationStart(ctx context.Context, req RunRequest) {
	m.logger.InfoContext(ctx, "operation_start",
		slog.String("suite", m.suite.Name),
		slog.String("data_path", req.DataPath),
		slog.Int("stage_count", m.registry.Count()))
}

// logOperationComplete logs the completion of a run
func (m *Manager) logOperationComplete(ctx context.Context, duration time.Duration, status string) {
	m.logger.InfoContext(ctx, "operation_complete",
		slog.String("suite", m.suite.Name),
		slog.String("status", status),
		slog.Duration("duration", duration))
}

// logOperationError logs a run error
func (m *Manager) logOperationError(ctx context.Context, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "operation_error",
		slog.String("suite", m.suite.Name),
		slog.String("error_type", string(apperrors.GetErrorType(err))),
		slog.String("error", errorMsg))
}

// logStageStart logs the start of a stage execution
func (m *Manager) logStageStart(ctx context.Context, stageID string) {
	m.logger.InfoContext(ctx, "stage_start",
		slog.String("stage", stageID))
}

// logStageComplete logs the completion of a stage execution
func (m *Manager) logStageComplete(ctx context.Context, stageID string, duration time.Duration) {
	m.logger.InfoContext(ctx, "stage_complete",
		slog.String("stage", stageID),
		slog.Duration("duration", duration))
}

// logStageError logs a stage error
func (m *Manager) logStageError(ctx context.Context, stageID string, err error) {
	errorMsg := "unknown error"
	if err != nil {
		errorMsg = err.Error()
	}
	m.logger.ErrorContext(ctx, "stage_error",
		slog.String("stage", stageID),
		slog.String("error", errorMsg))
}
