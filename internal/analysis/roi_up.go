package analysis

import (
	"context"

	"opsinsight/internal/workset"
)

// ROIUpResult is the extra profit the department would make at a higher
// average ROI
type ROIUpResult struct {
	ActualCostSum    float64 `json:"actual_cost_sum" yaml:"actual_cost_sum"`
	AverageROI       float64 `json:"average_roi" yaml:"average_roi"`
	ROIIncrease      float64 `json:"roi_increase" yaml:"roi_increase"`
	TotalProfit      float64 `json:"total_profit" yaml:"total_profit"`
	RecomputedProfit float64 `json:"recomputed_profit" yaml:"recomputed_profit"`
	PotentialProfit  float64 `json:"potential_profit" yaml:"potential_profit"`
}

func (r *ROIUpResult) AnalyzerName() string { return NameROIUp }

func (r *ROIUpResult) Tables() []Table {
	return []Table{{
		Name:    "roi_up",
		Title:   "ROI Up:",
		Columns: []string{"actual_cost_sum", "average_roi", "roi_increase", "total_profit", "recomputed_profit", "potential_profit"},
		Rows: [][]interface{}{{
			r.ActualCostSum, r.AverageROI, r.ROIIncrease, r.TotalProfit, r.RecomputedProfit, r.PotentialProfit,
		}},
	}}
}

// ROIUp estimates the profit gained if average ROI rose by a fixed margin
type ROIUp struct {
	base
	ws *workset.WorkingSet
}

// NewROIUp creates an ROI up analyzer over ws
func NewROIUp(ws *workset.WorkingSet, deps Deps) *ROIUp {
	return &ROIUp{base: newBase(NameROIUp, deps), ws: ws}
}

// Execute implements Analyzer
func (a *ROIUp) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *ROIUp) compute() (Result, error) {
	kpi := a.ws.DepartmentKPI()
	increase := a.settings().ROIIncrease
	costSum := a.ws.TotalActualCost()
	recomputed := costSum * (kpi.AverageROI + increase) / 100

	return &ROIUpResult{
		ActualCostSum:    costSum,
		AverageROI:       kpi.AverageROI,
		ROIIncrease:      increase,
		TotalProfit:      kpi.TotalProfit,
		RecomputedProfit: recomputed,
		PotentialProfit:  recomputed - kpi.TotalProfit,
	}, nil
}

func (a *ROIUp) report(res Result) {
	r := res.(*ROIUpResult)
	rep := a.reporter()

	rep.Section("ROI UP ANALYSIS")
	rep.Line("Total potential profit: %s", Plain(r.PotentialProfit))
}
