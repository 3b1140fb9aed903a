package operations

import (
	"context"
	"fmt"

	"opsinsight/internal/analysis"
	"opsinsight/internal/workset"
)

// Suite is a named, ordered set of stages and the summary built from them
type Suite struct {
	Name       string
	Title      string
	Stages     []*Stage
	Summarizer Summarizer
}

// ITSuite runs the five IT infrastructure analyzers over the equipment
// matching the configured type pattern
func ITSuite() Suite {
	return Suite{
		Name:  SuiteIT,
		Title: "INITIATING COMPREHENSIVE IT INFRASTRUCTURE ANALYSIS",
		Stages: []*Stage{
			NewStage(analysis.NameInventory, StageNameInventory, equipmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewInventory(ws, d) })),
			NewStage(analysis.NameUtilization, StageNameUtilization, equipmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewUtilization(ws, d) })),
			NewStage(analysis.NameCost, StageNameCost, equipmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewCost(ws, d) })),
			NewStage(analysis.NameReplacement, StageNameReplacement, equipmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewReplacement(ws, d) })),
			NewStage(analysis.NameOptimization, StageNameOptimization, equipmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewOptimization(ws, d) })),
		},
		Summarizer: SummarizeIT,
	}
}

// CommercialSuite runs the five department analyzers over the configured
// department
func CommercialSuite() Suite {
	return Suite{
		Name:  SuiteCommercial,
		Title: "INITIATING COMMERCIAL DEPARTMENT ANALYSIS",
		Stages: []*Stage{
			NewStage(analysis.NameProjectsMetrics, StageNameProjectsMetrics, departmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewProjectsMetrics(ws, d) })),
			NewStage(analysis.NamePersonalEfficiency, StageNamePersonalEfficiency, departmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewPersonalEfficiency(ws, d) })),
			NewStage(analysis.NameLanguage, StageNameLanguage, departmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewLanguage(ws, d) })),
			NewStage(analysis.NameClient, StageNameClient, departmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewClient(ws, d) })),
			NewStage(analysis.NameROIUp, StageNameROIUp, departmentStage(
				func(ws *workset.WorkingSet, d analysis.Deps) analysis.Analyzer { return analysis.NewROIUp(ws, d) })),
		},
		Summarizer: SummarizeCommercial,
	}
}

// SuiteByName returns the suite registered under name
func SuiteByName(name string) (Suite, error) {
	switch name {
	case SuiteIT:
		return ITSuite(), nil
	case SuiteCommercial:
		return CommercialSuite(), nil
	default:
		return Suite{}, fmt.Errorf("unknown suite %q", name)
	}
}

type analyzerFactory func(ws *workset.WorkingSet, deps analysis.Deps) analysis.Analyzer

func equipmentStage(newAnalyzer analyzerFactory) BuildFunc {
	return func(ctx context.Context, env BuildEnv) (analysis.Analyzer, error) {
		scope, err := workset.EquipmentScope(env.Deps.Settings.EquipmentTypePattern)
		if err != nil {
			return nil, err
		}
		return buildWith(ctx, env, scope, newAnalyzer)
	}
}

func departmentStage(newAnalyzer analyzerFactory) BuildFunc {
	return func(ctx context.Context, env BuildEnv) (analysis.Analyzer, error) {
		return buildWith(ctx, env, workset.DepartmentScope(env.Deps.Settings.DepartmentID), newAnalyzer)
	}
}

// buildWith gives every analyzer its own load of the document
func buildWith(ctx context.Context, env BuildEnv, scope workset.Scope, newAnalyzer analyzerFactory) (analysis.Analyzer, error) {
	ws, err := workset.NewBuilder(env.Loader, scope, env.Deps.Logger).Build(ctx, env.DataPath)
	if err != nil {
		return nil, err
	}
	return newAnalyzer(ws, env.Deps), nil
}
