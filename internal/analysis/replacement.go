package analysis

import (
	"context"
	"math"
	"sort"
	"time"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

// Priority score weights
const (
	AgeWeight         = 0.3
	EfficiencyWeight  = 0.3
	MaintenanceWeight = 0.2
	UtilizationWeight = 0.2
)

// daysPerYear converts day counts to fractional years
const daysPerYear = 365.25

// ExpiringWarranty is equipment whose warranty ends within the horizon
type ExpiringWarranty struct {
	EquipmentID     string    `json:"equipment_id" yaml:"equipment_id"`
	Name            string    `json:"name" yaml:"name"`
	DepartmentName  string    `json:"department_name" yaml:"department_name"`
	WarrantyEndDate time.Time `json:"warranty_end_date" yaml:"warranty_end_date"`
	DaysUntilExpiry int       `json:"days_until_warranty_expiration" yaml:"days_until_warranty_expiration"`
	Cost            float64   `json:"cost" yaml:"cost"`
}

// WarrantyAnalysis summarizes upcoming warranty expirations
type WarrantyAnalysis struct {
	Equipment            []ExpiringWarranty `json:"expiring_equipment_list" yaml:"expiring_equipment_list"`
	ExpiringCount        int                `json:"expiring_equipment_count" yaml:"expiring_equipment_count"`
	TotalReplacementCost float64            `json:"total_replacement_cost" yaml:"total_replacement_cost"`
}

// AgeAnalysis summarizes equipment age
type AgeAnalysis struct {
	OutdatedCount           int      `json:"outdated_equipment_count" yaml:"outdated_equipment_count"`
	ReplacementCostEstimate float64  `json:"replacement_cost_estimate" yaml:"replacement_cost_estimate"`
	AverageAge              float64  `json:"average_equipment_age" yaml:"average_equipment_age"`
	Distribution            Describe `json:"age_distribution" yaml:"age_distribution"`
}

// ReplacementCandidate is one scored equipment item; values are rounded to
// three decimals.
type ReplacementCandidate struct {
	EquipmentID     string  `json:"equipment_id" yaml:"equipment_id"`
	Name            string  `json:"name" yaml:"name"`
	DepartmentName  string  `json:"department_name" yaml:"department_name"`
	AgeYears        float64 `json:"equipment_age_years" yaml:"equipment_age_years"`
	Efficiency      float64 `json:"efficiency" yaml:"efficiency"`
	UtilizationRate float64 `json:"utilization_rate" yaml:"utilization_rate"`
	Cost            float64 `json:"cost" yaml:"cost"`
	PriorityScore   float64 `json:"priority_score" yaml:"priority_score"`
}

// ScoringWeights documents the weights behind PriorityScore
type ScoringWeights struct {
	Age         float64 `json:"age_weight" yaml:"age_weight"`
	Efficiency  float64 `json:"efficiency_weight" yaml:"efficiency_weight"`
	Maintenance float64 `json:"maintenance_weight" yaml:"maintenance_weight"`
	Utilization float64 `json:"utilization_weight" yaml:"utilization_weight"`
}

// PriorityAnalysis holds the top replacement candidates
type PriorityAnalysis struct {
	Candidates           []ReplacementCandidate `json:"priority_list" yaml:"priority_list"`
	TotalReplacementCost float64                `json:"total_replacement_cost" yaml:"total_replacement_cost"`
	Weights              ScoringWeights         `json:"scoring_breakdown" yaml:"scoring_breakdown"`
}

// ReplacementResult is the output of the replacement analyzer
type ReplacementResult struct {
	ReferenceDate time.Time        `json:"reference_date" yaml:"reference_date"`
	AgeThreshold  int              `json:"age_threshold_years" yaml:"age_threshold_years"`
	Warranty      WarrantyAnalysis `json:"warranty_analysis" yaml:"warranty_analysis"`
	Age           AgeAnalysis      `json:"age_analysis" yaml:"age_analysis"`
	Priority      PriorityAnalysis `json:"priority_analysis" yaml:"priority_analysis"`
}

func (r *ReplacementResult) AnalyzerName() string { return NameReplacement }

func (r *ReplacementResult) Tables() []Table {
	warranty := Table{
		Name:    "replacement_warranty",
		Title:   "Equipment with Expiring Warranty:",
		Columns: []string{"equipment_id", "name", "department_name", "warranty_end_date", "days_until_warranty_expiration", "cost"},
	}
	for _, e := range r.Warranty.Equipment {
		warranty.Rows = append(warranty.Rows, []interface{}{
			e.EquipmentID, e.Name, e.DepartmentName, e.WarrantyEndDate.Format("2006-01-02"), e.DaysUntilExpiry, e.Cost,
		})
	}

	priority := Table{
		Name:    "replacement_priority",
		Title:   "Replacement Priority (Top Candidates):",
		Columns: []string{"equipment_id", "name", "department_name", "equipment_age_years", "efficiency", "utilization_rate", "cost", "priority_score"},
	}
	for _, c := range r.Priority.Candidates {
		priority.Rows = append(priority.Rows, []interface{}{
			c.EquipmentID, c.Name, c.DepartmentName, c.AgeYears, c.Efficiency, c.UtilizationRate, c.Cost, c.PriorityScore,
		})
	}

	return []Table{warranty, priority}
}

// Replacement plans equipment renewal from warranty, age and condition
type Replacement struct {
	base
	ws *workset.WorkingSet
}

// NewReplacement creates a replacement analyzer over ws
func NewReplacement(ws *workset.WorkingSet, deps Deps) *Replacement {
	return &Replacement{base: newBase(NameReplacement, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Replacement) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Replacement) compute() (Result, error) {
	rows := a.ws.Equipment
	if len(rows) == 0 {
		return nil, apperrors.NewInsufficientDataError(NameReplacement, "replacement priorities", "no equipment in scope")
	}

	now := a.deps.clock()
	settings := a.settings()

	return &ReplacementResult{
		ReferenceDate: now,
		AgeThreshold:  settings.EquipmentAgeThresholdYears,
		Warranty:      warrantyAnalysis(rows, now, settings.WarrantyExpiryDays),
		Age:           ageAnalysis(rows, now, float64(settings.EquipmentAgeThresholdYears)),
		Priority:      priorityAnalysis(rows, now, settings.ReplacementCandidates),
	}, nil
}

// floorDays counts whole days in d, rounding toward negative infinity
func floorDays(d time.Duration) int {
	return int(math.Floor(d.Hours() / 24))
}

func ageYears(purchased, now time.Time) float64 {
	return float64(floorDays(now.Sub(purchased))) / daysPerYear
}

func warrantyAnalysis(rows []workset.EquipmentRow, now time.Time, horizonDays int) WarrantyAnalysis {
	w := WarrantyAnalysis{Equipment: []ExpiringWarranty{}}
	for _, e := range rows {
		days := floorDays(e.WarrantyEndDate.Sub(now))
		if days > horizonDays {
			continue
		}
		w.Equipment = append(w.Equipment, ExpiringWarranty{
			EquipmentID:     e.EquipmentID,
			Name:            e.Name,
			DepartmentName:  e.DepartmentName,
			WarrantyEndDate: e.WarrantyEndDate,
			DaysUntilExpiry: days,
			Cost:            e.Cost,
		})
		w.TotalReplacementCost += e.Cost
	}
	sort.SliceStable(w.Equipment, func(i, j int) bool {
		return w.Equipment[i].DaysUntilExpiry < w.Equipment[j].DaysUntilExpiry
	})
	w.ExpiringCount = len(w.Equipment)
	return w
}

func ageAnalysis(rows []workset.EquipmentRow, now time.Time, thresholdYears float64) AgeAnalysis {
	var a AgeAnalysis
	ages := make([]float64, len(rows))
	for i, e := range rows {
		ages[i] = ageYears(e.PurchaseDate, now)
		if ages[i] >= thresholdYears {
			a.OutdatedCount++
			a.ReplacementCostEstimate += e.Cost
		}
	}
	a.AverageAge = mean(ages)
	a.Distribution = describe(ages)
	return a
}

// priorityAnalysis scores every row relative to the current maxima and keeps
// the n highest. Equal scores keep input order.
func priorityAnalysis(rows []workset.EquipmentRow, now time.Time, n int) PriorityAnalysis {
	ages := make([]float64, len(rows))
	maintenance := make([]float64, len(rows))
	for i, e := range rows {
		ages[i] = ageYears(e.PurchaseDate, now)
		maintenance[i] = e.MaintenanceCost
	}
	maxAge := maxOf(ages)
	maxMaintenance := maxOf(maintenance)

	type scored struct {
		row   workset.EquipmentRow
		age   float64
		score float64
	}
	all := make([]scored, len(rows))
	for i, e := range rows {
		var ageTerm, maintenanceTerm float64
		if maxAge != 0 {
			ageTerm = ages[i] / maxAge
		}
		if maxMaintenance != 0 {
			maintenanceTerm = e.MaintenanceCost / maxMaintenance
		}
		score := ageTerm*AgeWeight +
			(100-e.Efficiency)/100*EfficiencyWeight +
			maintenanceTerm*MaintenanceWeight +
			(100-e.UtilizationRate)/100*UtilizationWeight
		all[i] = scored{row: e, age: ages[i], score: score}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })
	if len(all) > n {
		all = all[:n]
	}

	p := PriorityAnalysis{
		Candidates: make([]ReplacementCandidate, len(all)),
		Weights: ScoringWeights{
			Age:         AgeWeight,
			Efficiency:  EfficiencyWeight,
			Maintenance: MaintenanceWeight,
			Utilization: UtilizationWeight,
		},
	}
	for i, s := range all {
		p.Candidates[i] = ReplacementCandidate{
			EquipmentID:     s.row.EquipmentID,
			Name:            s.row.Name,
			DepartmentName:  s.row.DepartmentName,
			AgeYears:        round(s.age, 3),
			Efficiency:      round(s.row.Efficiency, 3),
			UtilizationRate: round(s.row.UtilizationRate, 3),
			Cost:            round(s.row.Cost, 3),
			PriorityScore:   round(s.score, 3),
		}
		p.TotalReplacementCost += p.Candidates[i].Cost
	}
	return p
}

func (a *Replacement) report(res Result) {
	r := res.(*ReplacementResult)
	rep := a.reporter()
	tables := r.Tables()

	rep.Section("REPLACEMENT PLANNING ANALYSIS")
	rep.Blank()
	rep.Line("Equipment with expiring warranty: %d units", r.Warranty.ExpiringCount)
	rep.Line("Outdated equipment (> %d years): %d units", r.AgeThreshold, r.Age.OutdatedCount)
	rep.Line("Total replacement cost estimate: %s RUB", Money(r.Age.ReplacementCostEstimate))

	if r.Warranty.ExpiringCount > 0 {
		rep.Blank()
		rep.Table(tables[0])
	}

	rep.Blank()
	rep.Table(tables[1])
	rep.Blank()
	rep.Line("Total cost for top %d replacement candidates: %s RUB", len(r.Priority.Candidates), Money(r.Priority.TotalReplacementCost))
}
