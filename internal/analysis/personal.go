package analysis

import (
	"context"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

// PersonalEfficiencyResult relates department profit and pay to headcount
// and performance
type PersonalEfficiencyResult struct {
	EmployeeCount      int     `json:"employee_count" yaml:"employee_count"`
	RevenuePerEmployee float64 `json:"revenue_per_employee" yaml:"revenue_per_employee"`
	// Correlation is the Pearson coefficient of salary and performance
	// score, nil when undefined
	Correlation *float64 `json:"correlation" yaml:"correlation"`
}

func (r *PersonalEfficiencyResult) AnalyzerName() string { return NamePersonalEfficiency }

func (r *PersonalEfficiencyResult) Tables() []Table {
	var corr interface{} = ""
	if r.Correlation != nil {
		corr = *r.Correlation
	}
	return []Table{{
		Name:    "personal_efficiency",
		Title:   "Personal Efficiency:",
		Columns: []string{"employee_count", "revenue_per_employee", "salary_performance_correlation"},
		Rows:    [][]interface{}{{r.EmployeeCount, r.RevenuePerEmployee, corr}},
	}}
}

// PersonalEfficiency computes revenue per employee and pay/performance
// correlation
type PersonalEfficiency struct {
	base
	ws *workset.WorkingSet
}

// NewPersonalEfficiency creates a personal efficiency analyzer over ws
func NewPersonalEfficiency(ws *workset.WorkingSet, deps Deps) *PersonalEfficiency {
	return &PersonalEfficiency{base: newBase(NamePersonalEfficiency, deps), ws: ws}
}

// Execute implements Analyzer
func (a *PersonalEfficiency) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *PersonalEfficiency) compute() (Result, error) {
	if a.ws.EmployeeCount == 0 {
		return nil, apperrors.NewInsufficientDataError(NamePersonalEfficiency, "revenue per employee", "department has no employees")
	}

	salary := make([]float64, len(a.ws.Employees))
	score := make([]float64, len(a.ws.Employees))
	for i, e := range a.ws.Employees {
		salary[i] = e.Salary
		score[i] = e.PerformanceScore
	}

	return &PersonalEfficiencyResult{
		EmployeeCount:      a.ws.EmployeeCount,
		RevenuePerEmployee: a.ws.DepartmentKPI().TotalProfit / float64(a.ws.EmployeeCount),
		Correlation:        pearson(salary, score),
	}, nil
}

func (a *PersonalEfficiency) report(res Result) {
	r := res.(*PersonalEfficiencyResult)
	rep := a.reporter()

	corr := "undefined"
	if r.Correlation != nil {
		corr = Plain(*r.Correlation)
	}

	rep.Section("PERSON ANALYSIS")
	rep.Line("revenue-per-employee: %s", Plain(r.RevenuePerEmployee))
	rep.Line("Correlation between salary and performance_score: %s", corr)
}
