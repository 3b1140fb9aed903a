package analysis

import (
	"context"

	"opsinsight/internal/workset"
)

// ProjectsMetricsResult holds the department totals from its KPI record
type ProjectsMetricsResult struct {
	DepartmentID string  `json:"department_id" yaml:"department_id"`
	TotalProfit  float64 `json:"total_profit" yaml:"total_profit"`
	AverageROI   float64 `json:"average_roi" yaml:"average_roi"`
	// KPIFound is false when the department has no KPI record and the
	// totals defaulted to zero
	KPIFound bool `json:"kpi_found" yaml:"kpi_found"`
}

func (r *ProjectsMetricsResult) AnalyzerName() string { return NameProjectsMetrics }

func (r *ProjectsMetricsResult) Tables() []Table {
	return []Table{{
		Name:    "projects_metrics",
		Title:   "Department Project Metrics:",
		Columns: []string{"department_id", "total_profit", "average_roi"},
		Rows:    [][]interface{}{{r.DepartmentID, r.TotalProfit, r.AverageROI}},
	}}
}

// ProjectsMetrics reports the precomputed profit and ROI of the department
type ProjectsMetrics struct {
	base
	ws *workset.WorkingSet
}

// NewProjectsMetrics creates a projects metrics analyzer over ws
func NewProjectsMetrics(ws *workset.WorkingSet, deps Deps) *ProjectsMetrics {
	return &ProjectsMetrics{base: newBase(NameProjectsMetrics, deps), ws: ws}
}

// Execute implements Analyzer
func (a *ProjectsMetrics) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *ProjectsMetrics) compute() (Result, error) {
	kpi := a.ws.DepartmentKPI()
	return &ProjectsMetricsResult{
		DepartmentID: a.ws.DepartmentID,
		TotalProfit:  kpi.TotalProfit,
		AverageROI:   kpi.AverageROI,
		KPIFound:     a.ws.KPI != nil,
	}, nil
}

func (a *ProjectsMetrics) report(res Result) {
	r := res.(*ProjectsMetricsResult)
	rep := a.reporter()

	rep.Section("PROFIT ANALYSIS")
	rep.Line("Total project profit: %s", Plain(r.TotalProfit))
	rep.Line("Average roi: %s", Plain(r.AverageROI))
}
