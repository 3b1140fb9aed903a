package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/infrastructure"
)

const (
	TracerName = "opsinsight.operations"
)

// RunTracer provides OpenTelemetry instrumentation for suite runs
type RunTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.AnalysisMetrics
}

// NewRunTracer creates a run tracer on the given providers
func NewRunTracer(tracer trace.Tracer, meter metric.Meter) (*RunTracer, error) {
	metrics, err := infrastructure.CreateAnalysisMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create analysis metrics: %w", err)
	}

	return &RunTracer{
		tracer:  tracer,
		metrics: metrics,
	}, nil
}

// NewNoopRunTracer creates a tracer that records nothing
func NewNoopRunTracer() *RunTracer {
	// noop instruments never fail
	tracer, _ := NewRunTracer(
		tracenoop.NewTracerProvider().Tracer(TracerName),
		metricnoop.NewMeterProvider().Meter(TracerName),
	)
	return tracer
}

// TraceRunExecution creates a span for the entire run
func (rt *RunTracer) TraceRunExecution(ctx context.Context, runID, suite, dataPath string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("run.execute.%s", suite)
	ctx, span := rt.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("run.suite", suite),
			attribute.String("run.data_path", dataPath),
		),
	)

	return ctx, span
}

// RecordRunCompletion records run completion with metrics and span events
func (rt *RunTracer) RecordRunCompletion(ctx context.Context, span trace.Span, runID, suite string, duration time.Duration, runErr error) {
	status := "success"
	if runErr != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)

	attrs := metric.WithAttributes(
		attribute.String("suite", suite),
		attribute.String("status", status),
	)
	rt.metrics.RunsTotal.Add(ctx, 1, attrs)
	rt.metrics.RunDuration.Record(ctx, duration.Seconds(), attrs)

	infrastructure.AddSpanEvent(ctx, "run.completed", map[string]interface{}{
		"run_id":   runID,
		"status":   status,
		"duration": duration.Seconds(),
	})

	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed successfully")
	}
}

// TraceStageExecution creates a span for one analyzer
func (rt *RunTracer) TraceStageExecution(ctx context.Context, runID, stageID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("run.stage.%s", stageID)
	ctx, span := rt.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("stage.id", stageID),
		),
	)

	return ctx, span
}

// RecordStageCompletion records analyzer completion with metrics and span
// status
func (rt *RunTracer) RecordStageCompletion(ctx context.Context, span trace.Span, stageID string, duration time.Duration, stageErr error) {
	status := "success"
	if stageErr != nil {
		status = "failure"
	}

	span.SetAttributes(
		attribute.String("stage.status", status),
		attribute.Float64("stage.duration_seconds", duration.Seconds()),
	)

	rt.metrics.AnalyzerExecutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("analyzer", stageID),
		attribute.String("status", status),
	))
	rt.metrics.AnalyzerDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("analyzer", stageID),
	))

	if stageErr != nil {
		rt.metrics.AnalyzerErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String("analyzer", stageID),
			attribute.String("error_type", string(apperrors.GetErrorType(stageErr))),
		))
		span.RecordError(stageErr)
		span.SetStatus(codes.Error, stageErr.Error())
		return
	}
	span.SetStatus(codes.Ok, "stage completed successfully")
}
