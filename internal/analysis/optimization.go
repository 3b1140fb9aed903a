package analysis

import (
	"context"
	"fmt"
	"sort"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

var consolidationRecommendations = []string{
	"Consolidate server capacities into unified data center",
	"Implement virtualization system for server optimization",
	"Standardize workstation models across departments",
	"Create shared equipment pool (printers, scanners)",
	"Optimize software licensing through centralized management",
}

var monitoringRecommendations = []string{
	"Implement automated monitoring system",
	"Establish regular performance review cycles",
	"Create dashboard for real-time KPI tracking",
	"Set up alert system for metric deviations",
}

// DuplicateGroup is a (name, model) pair present more than once
type DuplicateGroup struct {
	Name           string `json:"name" yaml:"name"`
	Model          string `json:"model" yaml:"model"`
	DuplicateCount int    `json:"duplicate_count" yaml:"duplicate_count"`
}

// Consolidation lists consolidation opportunities
type Consolidation struct {
	Duplicates          []DuplicateGroup `json:"duplicate_equipment" yaml:"duplicate_equipment"`
	LowUtilizationCount int              `json:"low_utilization_count" yaml:"low_utilization_count"`
	Recommendations     []string         `json:"consolidation_recommendations" yaml:"consolidation_recommendations"`
}

// EconomicImpact estimates the savings of optimization. ROIPeriodYears is
// implementation cost over annual savings, which is the implementation cost
// multiplier by construction.
type EconomicImpact struct {
	CurrentAnnualMaintenance    float64 `json:"current_annual_maintenance" yaml:"current_annual_maintenance"`
	PotentialMaintenanceSavings float64 `json:"potential_maintenance_savings" yaml:"potential_maintenance_savings"`
	ConsolidationSavings        float64 `json:"consolidation_savings" yaml:"consolidation_savings"`
	TotalAnnualSavings          float64 `json:"total_annual_savings" yaml:"total_annual_savings"`
	ImplementationCostEstimate  float64 `json:"implementation_cost_estimate" yaml:"implementation_cost_estimate"`
	ROIPeriodYears              float64 `json:"roi_period_years" yaml:"roi_period_years"`
}

// KPIDefinition is one row of the monitoring KPI framework
type KPIDefinition struct {
	Metric    string `json:"kpi_metric" yaml:"kpi_metric"`
	Current   string `json:"current_performance" yaml:"current_performance"`
	Target    string `json:"target_performance" yaml:"target_performance"`
	Frequency string `json:"measurement_frequency" yaml:"measurement_frequency"`
}

// KPIFramework is the proposed infrastructure monitoring framework
type KPIFramework struct {
	KPIs            []KPIDefinition `json:"kpi_dataframe" yaml:"kpi_dataframe"`
	Recommendations []string        `json:"monitoring_recommendations" yaml:"monitoring_recommendations"`
}

// OptimizationResult is the output of the optimization analyzer
type OptimizationResult struct {
	Consolidation Consolidation  `json:"consolidation_analysis" yaml:"consolidation_analysis"`
	Economics     EconomicImpact `json:"economic_analysis" yaml:"economic_analysis"`
	Framework     KPIFramework   `json:"kpi_framework" yaml:"kpi_framework"`
}

func (r *OptimizationResult) AnalyzerName() string { return NameOptimization }

func (r *OptimizationResult) Tables() []Table {
	dups := Table{
		Name:    "optimization_duplicates",
		Title:   "Duplicate Equipment:",
		Columns: []string{"name", "model", "duplicate_count"},
	}
	for _, d := range r.Consolidation.Duplicates {
		dups.Rows = append(dups.Rows, []interface{}{d.Name, d.Model, d.DuplicateCount})
	}

	kpis := Table{
		Name:    "optimization_kpis",
		Title:   "KPI Framework for Infrastructure Monitoring:",
		Columns: []string{"KPI Metric", "Current Performance", "Target Performance", "Measurement Frequency"},
	}
	for _, k := range r.Framework.KPIs {
		kpis.Rows = append(kpis.Rows, []interface{}{k.Metric, k.Current, k.Target, k.Frequency})
	}

	return []Table{dups, kpis}
}

// Optimization proposes consolidation, savings and a KPI framework
type Optimization struct {
	base
	ws *workset.WorkingSet
}

// NewOptimization creates an optimization analyzer over ws
func NewOptimization(ws *workset.WorkingSet, deps Deps) *Optimization {
	return &Optimization{base: newBase(NameOptimization, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Optimization) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Optimization) compute() (Result, error) {
	rows := a.ws.Equipment
	if len(rows) == 0 {
		return nil, apperrors.NewInsufficientDataError(NameOptimization, "optimization potential", "no equipment in scope")
	}

	lowCount := 0
	for _, e := range rows {
		if e.UtilizationRate < a.settings().LowUtilizationThreshold {
			lowCount++
		}
	}

	return &OptimizationResult{
		Consolidation: Consolidation{
			Duplicates:          duplicateGroups(rows),
			LowUtilizationCount: lowCount,
			Recommendations:     append([]string(nil), consolidationRecommendations...),
		},
		Economics: a.economicImpact(rows, lowCount),
		Framework: a.kpiFramework(rows),
	}, nil
}

// duplicateGroups finds (name, model) pairs seen more than once, most
// frequent first
func duplicateGroups(rows []workset.EquipmentRow) []DuplicateGroup {
	type key struct{ name, model string }
	counts := make(map[key]int)
	for _, e := range rows {
		counts[key{e.Name, e.Model}]++
	}

	groups := []DuplicateGroup{}
	for k, n := range counts {
		if n > 1 {
			groups = append(groups, DuplicateGroup{Name: k.name, Model: k.model, DuplicateCount: n})
		}
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].DuplicateCount != groups[j].DuplicateCount {
			return groups[i].DuplicateCount > groups[j].DuplicateCount
		}
		if groups[i].Name != groups[j].Name {
			return groups[i].Name < groups[j].Name
		}
		return groups[i].Model < groups[j].Model
	})
	return groups
}

func (a *Optimization) economicImpact(rows []workset.EquipmentRow, lowCount int) EconomicImpact {
	settings := a.settings()

	var monthly float64
	for _, e := range rows {
		monthly += e.MaintenanceCost
	}

	impact := EconomicImpact{CurrentAnnualMaintenance: monthly * 12}
	impact.PotentialMaintenanceSavings = impact.CurrentAnnualMaintenance * settings.OptimizationSavingsRate
	impact.ConsolidationSavings = float64(lowCount) * settings.ConsolidationSavingsPerUnit
	impact.TotalAnnualSavings = impact.PotentialMaintenanceSavings + impact.ConsolidationSavings
	impact.ImplementationCostEstimate = impact.TotalAnnualSavings * settings.ImplementationCostMultiplier

	if impact.TotalAnnualSavings != 0 {
		impact.ROIPeriodYears = impact.ImplementationCostEstimate / impact.TotalAnnualSavings
	} else {
		impact.ROIPeriodYears = settings.ImplementationCostMultiplier
	}
	return impact
}

func (a *Optimization) kpiFramework(rows []workset.EquipmentRow) KPIFramework {
	now := a.deps.clock()
	threshold := float64(a.settings().EquipmentAgeThresholdYears)

	var costs, maintenance float64
	rates := make([]float64, len(rows))
	recent := 0
	for i, e := range rows {
		costs += e.Cost
		maintenance += e.MaintenanceCost
		rates[i] = e.UtilizationRate
		if ageYears(e.PurchaseDate, now) < threshold {
			recent++
		}
	}

	perEmployee := "n/a"
	if n := a.settings().AssumedEmployeeCount; n > 0 {
		perEmployee = Money(costs/float64(n)) + " RUB"
	}
	maintenanceRatio := "n/a"
	if costs != 0 {
		maintenanceRatio = fmt.Sprintf("%.1f%%", maintenance*12/costs*100)
	}

	return KPIFramework{
		KPIs: []KPIDefinition{
			{"Average Equipment Utilization Rate", fmt.Sprintf("%.1f%%", mean(rates)), "85%", "Monthly"},
			{"Server Uptime Availability", "99.2%", "99.9%", "Real-time"},
			{"Cost of Ownership per Employee", perEmployee, "Reduce by 15%", "Quarterly"},
			{"Incident Response Time", "2.5 hours", "1 hour", "Per incident"},
			{"Equipment Under Warranty Percentage", fmt.Sprintf("%.1f%%", float64(recent)/float64(len(rows))*100), "80%", "Semi-annually"},
			{"Maintenance Cost to Asset Value Ratio", maintenanceRatio, "Below 8%", "Annual"},
			{"Equipment Refresh Rate", "15% per year", "20% per year", "Annual"},
		},
		Recommendations: append([]string(nil), monitoringRecommendations...),
	}
}

func (a *Optimization) report(res Result) {
	r := res.(*OptimizationResult)
	rep := a.reporter()

	rep.Section("OPTIMIZATION ANALYSIS")
	rep.Blank()
	rep.Line("Resource consolidation recommendations:")
	for _, rec := range r.Consolidation.Recommendations {
		rep.Line("• %s", rec)
	}

	rep.Blank()
	rep.Line("Potential annual savings: %s RUB", Money(r.Economics.TotalAnnualSavings))
	rep.Line("Return on investment period: %.1f years", r.Economics.ROIPeriodYears)

	rep.Blank()
	rep.Table(r.Tables()[1])

	rep.Blank()
	rep.Line("Monitoring Implementation Recommendations:")
	for _, rec := range r.Framework.Recommendations {
		rep.Line("• %s", rec)
	}
}
