package analysis

import (
	"context"
	"math"
	"sort"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

// Utilization levels, in bucket order
const (
	LevelVeryLow  = "Very Low"
	LevelLow      = "Low"
	LevelMedium   = "Medium"
	LevelHigh     = "High"
	LevelVeryHigh = "Very High"
)

// utilizationBuckets are left-closed, right-open; the last one is unbounded
var utilizationBuckets = []struct {
	label string
	lower float64
	upper float64
}{
	{LevelVeryLow, 0, 30},
	{LevelLow, 30, 60},
	{LevelMedium, 60, 80},
	{LevelHigh, 80, 101},
	{LevelVeryHigh, 101, math.Inf(1)},
}

// bucketOf returns the bucket index of rate, or -1 below zero
func bucketOf(rate float64) int {
	for i, b := range utilizationBuckets {
		if rate >= b.lower && rate < b.upper {
			return i
		}
	}
	return -1
}

// UtilizationStats are the basic utilization statistics
type UtilizationStats struct {
	Average           float64 `json:"average_utilization" yaml:"average_utilization"`
	Median            float64 `json:"median_utilization" yaml:"median_utilization"`
	StandardDeviation float64 `json:"standard_deviation" yaml:"standard_deviation"`
	Maximum           float64 `json:"maximum_utilization" yaml:"maximum_utilization"`
	Minimum           float64 `json:"minimum_utilization" yaml:"minimum_utilization"`
}

// LevelShare is the count and share of one utilization level
type LevelShare struct {
	Level      string  `json:"level" yaml:"level"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// DepartmentUtilization holds utilization statistics of one department
type DepartmentUtilization struct {
	DepartmentName    string  `json:"department_name" yaml:"department_name"`
	Average           float64 `json:"average_utilization_rate" yaml:"average_utilization_rate"`
	StandardDeviation float64 `json:"standard_deviation" yaml:"standard_deviation"`
	EquipmentCount    int     `json:"equipment_count" yaml:"equipment_count"`
}

// DepartmentComparison ranks departments by average utilization
type DepartmentComparison struct {
	BestPerformers  []DepartmentUtilization `json:"best_performers" yaml:"best_performers"`
	WorstPerformers []DepartmentUtilization `json:"worst_performers" yaml:"worst_performers"`
	All             []DepartmentUtilization `json:"complete_data" yaml:"complete_data"`
}

// UnderusedEquipment is one equipment item below the utilization threshold
type UnderusedEquipment struct {
	EquipmentID     string  `json:"equipment_id" yaml:"equipment_id"`
	Name            string  `json:"name" yaml:"name"`
	DepartmentName  string  `json:"department_name" yaml:"department_name"`
	UtilizationRate float64 `json:"utilization_rate" yaml:"utilization_rate"`
	Cost            float64 `json:"cost" yaml:"cost"`
}

// LowUtilization summarizes underutilized equipment
type LowUtilization struct {
	Threshold          float64              `json:"threshold" yaml:"threshold"`
	Equipment          []UnderusedEquipment `json:"equipment_list" yaml:"equipment_list"`
	Count              int                  `json:"count" yaml:"count"`
	PotentialLoss      float64              `json:"potential_loss" yaml:"potential_loss"`
	AverageUtilization float64              `json:"average_utilization" yaml:"average_utilization"`
}

// UtilizationResult is the output of the utilization analyzer
type UtilizationResult struct {
	Basic        UtilizationStats     `json:"basic_metrics" yaml:"basic_metrics"`
	Distribution []LevelShare         `json:"utilization_distribution" yaml:"utilization_distribution"`
	Departments  DepartmentComparison `json:"department_comparison" yaml:"department_comparison"`
	Low          LowUtilization       `json:"low_utilization_equipment" yaml:"low_utilization_equipment"`
}

func (r *UtilizationResult) AnalyzerName() string { return NameUtilization }

func (r *UtilizationResult) Tables() []Table {
	dist := Table{
		Name:    "utilization_levels",
		Title:   "Utilization Distribution:",
		Columns: []string{"Utilization Level", "Equipment Count", "Percentage"},
	}
	for _, l := range r.Distribution {
		dist.Rows = append(dist.Rows, []interface{}{l.Level, l.Count, l.Percentage})
	}

	best := departmentUtilizationTable("utilization_best", "Top 5 Departments by Utilization Efficiency:", r.Departments.BestPerformers)
	worst := departmentUtilizationTable("utilization_worst", "Bottom 5 Departments by Utilization Efficiency:", r.Departments.WorstPerformers)

	low := Table{
		Name:    "utilization_low",
		Title:   "Low Utilization Equipment:",
		Columns: []string{"equipment_id", "name", "department_name", "utilization_rate", "cost"},
	}
	for _, e := range r.Low.Equipment {
		low.Rows = append(low.Rows, []interface{}{e.EquipmentID, e.Name, e.DepartmentName, e.UtilizationRate, e.Cost})
	}

	return []Table{dist, best, worst, low}
}

func departmentUtilizationTable(name, title string, rows []DepartmentUtilization) Table {
	t := Table{
		Name:    name,
		Title:   title,
		Columns: []string{"Department Name", "Average Utilization Rate", "Standard Deviation", "Equipment Count"},
	}
	for _, d := range rows {
		t.Rows = append(t.Rows, []interface{}{d.DepartmentName, d.Average, d.StandardDeviation, d.EquipmentCount})
	}
	return t
}

// Utilization measures how intensively IT equipment is used
type Utilization struct {
	base
	ws *workset.WorkingSet
}

// NewUtilization creates a utilization analyzer over ws
func NewUtilization(ws *workset.WorkingSet, deps Deps) *Utilization {
	return &Utilization{base: newBase(NameUtilization, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Utilization) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Utilization) compute() (Result, error) {
	rows := a.ws.Equipment
	if len(rows) == 0 {
		return nil, apperrors.NewInsufficientDataError(NameUtilization, "utilization statistics", "no equipment in scope")
	}

	rates := make([]float64, len(rows))
	for i, e := range rows {
		rates[i] = e.UtilizationRate
	}

	return &UtilizationResult{
		Basic: UtilizationStats{
			Average:           mean(rates),
			Median:            median(rates),
			StandardDeviation: sampleStd(rates),
			Maximum:           maxOf(rates),
			Minimum:           minOf(rates),
		},
		Distribution: levelDistribution(rates),
		Departments:  compareDepartments(rows),
		Low:          lowUtilization(rows, a.settings().LowUtilizationThreshold, a.settings().UnderutilizedValueLoss),
	}, nil
}

func levelDistribution(rates []float64) []LevelShare {
	counts := make([]int, len(utilizationBuckets))
	for _, r := range rates {
		if i := bucketOf(r); i >= 0 {
			counts[i]++
		}
	}

	shares := make([]LevelShare, len(utilizationBuckets))
	for i, b := range utilizationBuckets {
		shares[i] = LevelShare{
			Level:      b.label,
			Count:      counts[i],
			Percentage: round(float64(counts[i])/float64(len(rates))*100, 2),
		}
	}
	return shares
}

func compareDepartments(rows []workset.EquipmentRow) DepartmentComparison {
	groups := groupByDepartment(rows)

	all := make([]DepartmentUtilization, 0, len(groups))
	for _, g := range groups {
		rates := make([]float64, len(g.rows))
		for i, e := range g.rows {
			rates[i] = e.UtilizationRate
		}
		all = append(all, DepartmentUtilization{
			DepartmentName:    g.name,
			Average:           round(mean(rates), 2),
			StandardDeviation: round(sampleStd(rates), 2),
			EquipmentCount:    len(g.rows),
		})
	}

	best := append([]DepartmentUtilization(nil), all...)
	sort.SliceStable(best, func(i, j int) bool { return best[i].Average > best[j].Average })
	worst := append([]DepartmentUtilization(nil), all...)
	sort.SliceStable(worst, func(i, j int) bool { return worst[i].Average < worst[j].Average })

	return DepartmentComparison{
		BestPerformers:  headDepartments(best, 5),
		WorstPerformers: headDepartments(worst, 5),
		All:             all,
	}
}

func headDepartments(rows []DepartmentUtilization, n int) []DepartmentUtilization {
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// lowUtilization lists equipment below threshold, least used first
func lowUtilization(rows []workset.EquipmentRow, threshold, valueLoss float64) LowUtilization {
	low := LowUtilization{Threshold: threshold, Equipment: []UnderusedEquipment{}}

	var cost float64
	var rates []float64
	for _, e := range rows {
		if e.UtilizationRate >= threshold {
			continue
		}
		low.Equipment = append(low.Equipment, UnderusedEquipment{
			EquipmentID:     e.EquipmentID,
			Name:            e.Name,
			DepartmentName:  e.DepartmentName,
			UtilizationRate: e.UtilizationRate,
			Cost:            e.Cost,
		})
		cost += e.Cost
		rates = append(rates, e.UtilizationRate)
	}
	sort.SliceStable(low.Equipment, func(i, j int) bool {
		return low.Equipment[i].UtilizationRate < low.Equipment[j].UtilizationRate
	})

	low.Count = len(low.Equipment)
	low.PotentialLoss = cost * valueLoss
	low.AverageUtilization = mean(rates)
	return low
}

func (a *Utilization) report(res Result) {
	r := res.(*UtilizationResult)
	rep := a.reporter()
	tables := r.Tables()

	rep.Section("UTILIZATION EFFICIENCY ANALYSIS")
	rep.Blank()
	rep.Line("Average utilization rate: %.1f%%", r.Basic.Average)
	rep.Line("Equipment with low utilization (<%g%%): %d units", r.Low.Threshold, r.Low.Count)
	rep.Blank()
	rep.Table(tables[0])
	rep.Blank()
	rep.Table(tables[1])

	if r.Low.Count > 0 {
		rep.Blank()
		rep.Line("Potential losses from inefficient utilization: %s RUB", Money(r.Low.PotentialLoss))
		rep.Blank()
		rep.Table(tables[3])
	}
}
