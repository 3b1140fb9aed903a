// Package operations orchestrates analysis runs.
//
// A Suite is an ordered list of stages plus a summarizer. Each Stage knows
// how to build one analyzer: it loads the company document through the
// configured loader and derives its own working set, so analyzers never
// share state.
//
// Core Components:
//
// Manager: checks that the data source exists, builds every analyzer, runs
// them strictly in order and stores each result under its stage ID. The
// first failure aborts the run; the cross-analyzer summary is built and
// printed only when every stage completed.
//
// Registry: holds the stages of a suite in registration order and rejects
// empty or duplicate IDs.
//
// State: RunState and StageState track pending, active, completed and
// failed transitions with timestamps.
//
// RunTracer: one OpenTelemetry span per run and per stage, with analyzer
// counters and duration histograms.
//
// Example usage:
//
//	manager, err := operations.NewManager(operations.ITSuite(), operations.Options{
//		Deps: analysis.Deps{Logger: logger, Reporter: reporter, Settings: cfg.Analysis},
//	})
//	if err != nil {
//		return err
//	}
//	result, err := manager.Execute(ctx, operations.RunRequest{DataPath: "company.json"})
package operations
