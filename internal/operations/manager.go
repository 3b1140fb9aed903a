package operations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"opsinsight/internal/analysis"
	"opsinsight/internal/config"
	"opsinsight/internal/dataset"
	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/infrastructure"
	"opsinsight/internal/validation"
)

// Options configure a Manager. Zero values fall back to the file loader,
// the default analysis settings and a no-op tracer.
type Options struct {
	Loader dataset.Loader
	Deps   analysis.Deps
	Tracer *RunTracer
}

// Manager runs the stages of one suite
type Manager struct {
	suite     Suite
	registry  *Registry
	loader    dataset.Loader
	deps      analysis.Deps
	tracer    *RunTracer
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewManager creates a manager for suite. Stage IDs must be unique.
func NewManager(suite Suite, opts Options) (*Manager, error) {
	registry := NewRegistry()
	for _, stage := range suite.Stages {
		if err := registry.Register(stage); err != nil {
			return nil, fmt.Errorf("failed to register stage: %w", err)
		}
	}

	deps := opts.Deps
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Reporter == nil {
		deps.Reporter = analysis.NopReporter{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Settings == (config.AnalysisConfig{}) {
		deps.Settings = config.Default().Analysis
	}

	loader := opts.Loader
	if loader == nil {
		loader = dataset.NewFileLoader(deps.Logger)
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = NewNoopRunTracer()
	}

	return &Manager{
		suite:     suite,
		registry:  registry,
		loader:    loader,
		deps:      deps,
		tracer:    tracer,
		validator: validation.NewFileValidator(deps.Logger),
		logger:    deps.Logger,
	}, nil
}

// GetRegistry returns the registry of the suite stages
func (m *Manager) GetRegistry() *Registry {
	return m.registry
}

// Execute runs every stage of the suite in order. The data source is checked
// before any analyzer is built, and the first failing stage aborts the run.
// The returned result is never nil; on failure it holds the stages that
// completed and no summary.
func (m *Manager) Execute(ctx context.Context, req RunRequest) (*RunResult, error) {
	runID := infrastructure.GenerateRunID()
	ctx = infrastructure.WithRunID(ctx, runID)

	stages := m.registry.List()
	state := NewRunState(runID, m.suite.Name)
	for _, stage := range stages {
		state.AddStage(NewStageState(stage.ID(), stage.Name()))
	}
	results := make(map[string]analysis.Result, len(stages))

	ctx, span := m.tracer.TraceRunExecution(ctx, runID, m.suite.Name, req.DataPath)
	defer span.End()

	m.logOperationStart(ctx, req)
	state.Start()

	summary, err := m.run(ctx, state, stages, req, results)
	if err != nil {
		state.Fail(err)
		m.logOperationError(ctx, err)
	} else {
		state.Complete()
		m.logOperationComplete(ctx, state.Duration(), string(state.GetStatus()))
	}
	m.tracer.RecordRunCompletion(ctx, span, runID, m.suite.Name, state.Duration(), err)

	return m.createResult(state, results, summary), err
}

func (m *Manager) run(ctx context.Context, state *RunState, stages []*Stage, req RunRequest, results map[string]analysis.Result) (*Summary, error) {
	if err := m.verifySource(req.DataPath); err != nil {
		return nil, err
	}

	analyzers, err := m.buildAnalyzers(ctx, state, stages, req)
	if err != nil {
		return nil, err
	}

	rep := m.deps.Reporter
	rep.Line("%s", m.suite.Title)
	rep.Line("%s", strings.Repeat("=", 70))

	if err := m.executeSequential(ctx, state, stages, analyzers, results); err != nil {
		return nil, err
	}

	if m.suite.Summarizer == nil {
		return nil, nil
	}
	summary, err := m.suite.Summarizer(results)
	if err != nil {
		return nil, err
	}
	printSummary(rep, summary)
	return summary, nil
}

// verifySource fails fast when the document cannot be found
func (m *Manager) verifySource(path string) error {
	if err := m.validator.ValidateDataFile(path); err != nil {
		return apperrors.NewSourceError(path, err)
	}
	return nil
}

// buildAnalyzers constructs every stage analyzer before any of them runs
func (m *Manager) buildAnalyzers(ctx context.Context, state *RunState, stages []*Stage, req RunRequest) ([]analysis.Analyzer, error) {
	env := BuildEnv{
		Loader:   m.loader,
		DataPath: req.DataPath,
		Deps:     m.deps,
	}

	analyzers := make([]analysis.Analyzer, len(stages))
	for i, stage := range stages {
		a, err := stage.Build(ctx, env)
		if err != nil {
			err = apperrors.ForAnalyzer(stage.ID(), err)
			state.GetStage(stage.ID()).Fail(err)
			m.logStageError(ctx, stage.ID(), err)
			return nil, err
		}
		analyzers[i] = a
	}
	return analyzers, nil
}

// executeSequential executes stages one by one, stopping at the first error
func (m *Manager) executeSequential(ctx context.Context, state *RunState, stages []*Stage, analyzers []analysis.Analyzer, results map[string]analysis.Result) error {
	for i, stage := range stages {
		select {
		case <-ctx.Done():
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("stage", stage.ID()))
			err := apperrors.NewExecutionError(stage.ID(), ctx.Err())
			state.GetStage(stage.ID()).Fail(err)
			return err
		default:
		}

		m.deps.Reporter.Blank()
		m.deps.Reporter.Line("%s", stage.Banner())

		if err := m.executeStage(ctx, state, stage, analyzers[i], results); err != nil {
			return err
		}
	}
	return nil
}

// executeStage runs one analyzer and stores its result under the stage ID
func (m *Manager) executeStage(ctx context.Context, state *RunState, stage *Stage, a analysis.Analyzer, results map[string]analysis.Result) error {
	m.logStageStart(ctx, stage.ID())
	stageState := state.GetStage(stage.ID())
	stageState.Start()

	stageCtx, span := m.tracer.TraceStageExecution(ctx, state.ID, stage.ID())
	defer span.End()

	startTime := time.Now()
	res, err := a.Execute(stageCtx)
	duration := time.Since(startTime)
	m.tracer.RecordStageCompletion(stageCtx, span, stage.ID(), duration, err)

	if err != nil {
		err = apperrors.ForAnalyzer(stage.ID(), err)
		stageState.Fail(err)
		m.logStageError(ctx, stage.ID(), err)
		return err
	}

	results[stage.ID()] = res
	stageState.Complete()
	m.logStageComplete(ctx, stage.ID(), duration)
	return nil
}

// createResult creates a run result from state
func (m *Manager) createResult(state *RunState, results map[string]analysis.Result, summary *Summary) *RunResult {
	return &RunResult{
		ID:       state.ID,
		Suite:    state.Suite,
		Status:   state.GetStatus(),
		Duration: state.Duration(),
		Stages:   state.Stages(),
		Order:    m.registry.ListIDs(),
		Results:  results,
		Summary:  summary,
		Error:    state.Error,
	}
}
