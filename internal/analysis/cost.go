package analysis

import (
	"context"
	"sort"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

// MaintenanceCosts summarizes monthly maintenance spending
type MaintenanceCosts struct {
	MonthlyTotal    float64 `json:"monthly_total" yaml:"monthly_total"`
	AnnualTotal     float64 `json:"annual_total" yaml:"annual_total"`
	MonthlyAverage  float64 `json:"monthly_average" yaml:"monthly_average"`
	RatioPercentage float64 `json:"maintenance_ratio_percentage" yaml:"maintenance_ratio_percentage"`
}

// TypeCost is the cost of ownership of one equipment type
type TypeCost struct {
	Type                      string  `json:"type" yaml:"type"`
	EquipmentCount            int     `json:"equipment_count" yaml:"equipment_count"`
	TotalPurchaseCost         float64 `json:"total_purchase_cost" yaml:"total_purchase_cost"`
	AveragePurchaseCost       float64 `json:"average_purchase_cost" yaml:"average_purchase_cost"`
	TotalMonthlyMaintenance   float64 `json:"total_monthly_maintenance" yaml:"total_monthly_maintenance"`
	AverageMonthlyMaintenance float64 `json:"average_monthly_maintenance" yaml:"average_monthly_maintenance"`
	AnnualMaintenanceCost     float64 `json:"annual_maintenance_cost" yaml:"annual_maintenance_cost"`
	TCOPercentage             float64 `json:"tco_percentage" yaml:"tco_percentage"`
}

// CostRatios relate purchase cost to annual maintenance
type CostRatios struct {
	TotalPurchaseCost          float64 `json:"total_purchase_cost" yaml:"total_purchase_cost"`
	TotalAnnualMaintenanceCost float64 `json:"total_annual_maintenance_cost" yaml:"total_annual_maintenance_cost"`
	PurchaseToMaintenance      float64 `json:"purchase_to_maintenance_ratio" yaml:"purchase_to_maintenance_ratio"`
	MaintenanceToPurchase      float64 `json:"maintenance_to_purchase_ratio" yaml:"maintenance_to_purchase_ratio"`
}

// Payback estimates how long equipment takes to pay for itself. The daily
// saving is an assumed constant, not derived from data.
type Payback struct {
	TotalEquipmentCost  float64 `json:"total_equipment_cost" yaml:"total_equipment_cost"`
	AssumedDailySavings float64 `json:"assumed_daily_savings" yaml:"assumed_daily_savings"`
	AnnualSavings       float64 `json:"annual_savings" yaml:"annual_savings"`
	PeriodYears         float64 `json:"payback_period_years" yaml:"payback_period_years"`
}

// CostResult is the output of the cost analyzer
type CostResult struct {
	Maintenance MaintenanceCosts `json:"maintenance_analysis" yaml:"maintenance_analysis"`
	PerType     []TypeCost       `json:"cost_per_unit_analysis" yaml:"cost_per_unit_analysis"`
	Ratios      CostRatios       `json:"cost_ratio_analysis" yaml:"cost_ratio_analysis"`
	Payback     Payback          `json:"payback_analysis" yaml:"payback_analysis"`
}

func (r *CostResult) AnalyzerName() string { return NameCost }

func (r *CostResult) Tables() []Table {
	t := Table{
		Name:  "cost_per_type",
		Title: "Cost Per Unit Analysis by Equipment Type:",
		Columns: []string{
			"type", "Equipment Count", "Total Purchase Cost", "Average Purchase Cost",
			"Total Monthly Maintenance", "Average Monthly Maintenance",
			"Annual Maintenance Cost", "TCO Percentage",
		},
	}
	for _, c := range r.PerType {
		t.Rows = append(t.Rows, []interface{}{
			c.Type, c.EquipmentCount, c.TotalPurchaseCost, c.AveragePurchaseCost,
			c.TotalMonthlyMaintenance, c.AverageMonthlyMaintenance,
			c.AnnualMaintenanceCost, c.TCOPercentage,
		})
	}
	return []Table{t}
}

// Cost analyzes maintenance spending and cost of ownership
type Cost struct {
	base
	ws *workset.WorkingSet
}

// NewCost creates a cost analyzer over ws
func NewCost(ws *workset.WorkingSet, deps Deps) *Cost {
	return &Cost{base: newBase(NameCost, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Cost) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Cost) compute() (Result, error) {
	rows := a.ws.Equipment
	if len(rows) == 0 {
		return nil, apperrors.NewInsufficientDataError(NameCost, "maintenance costs", "no equipment in scope")
	}

	costs := make([]float64, len(rows))
	maintenance := make([]float64, len(rows))
	for i, e := range rows {
		costs[i] = e.Cost
		maintenance[i] = e.MaintenanceCost
	}

	monthly := sum(maintenance)
	annual := monthly * 12
	purchase := sum(costs)
	if purchase == 0 {
		return nil, apperrors.NewInsufficientDataError(NameCost, "maintenance to purchase ratio", "total purchase cost is zero")
	}
	if annual == 0 {
		return nil, apperrors.NewInsufficientDataError(NameCost, "purchase to maintenance ratio", "total maintenance cost is zero")
	}

	daily := a.settings().AssumedDailySavings
	yearly := daily * 365

	return &CostResult{
		Maintenance: MaintenanceCosts{
			MonthlyTotal:    monthly,
			AnnualTotal:     annual,
			MonthlyAverage:  mean(maintenance),
			RatioPercentage: annual / purchase * 100,
		},
		PerType: costPerType(rows),
		Ratios: CostRatios{
			TotalPurchaseCost:          purchase,
			TotalAnnualMaintenanceCost: annual,
			PurchaseToMaintenance:      purchase / annual,
			MaintenanceToPurchase:      annual / purchase,
		},
		Payback: Payback{
			TotalEquipmentCost:  purchase,
			AssumedDailySavings: daily,
			AnnualSavings:       yearly,
			PeriodYears:         purchase / yearly,
		},
	}, nil
}

// costPerType aggregates by equipment type in name order
func costPerType(rows []workset.EquipmentRow) []TypeCost {
	byType := make(map[string][]workset.EquipmentRow)
	for _, e := range rows {
		byType[e.Type] = append(byType[e.Type], e)
	}
	names := make([]string, 0, len(byType))
	for t := range byType {
		names = append(names, t)
	}
	sort.Strings(names)

	out := make([]TypeCost, 0, len(names))
	for _, t := range names {
		group := byType[t]
		costs := make([]float64, len(group))
		maintenance := make([]float64, len(group))
		for i, e := range group {
			costs[i] = e.Cost
			maintenance[i] = e.MaintenanceCost
		}

		tc := TypeCost{
			Type:                      t,
			EquipmentCount:            len(group),
			TotalPurchaseCost:         round(sum(costs), 2),
			AveragePurchaseCost:       round(mean(costs), 2),
			TotalMonthlyMaintenance:   round(sum(maintenance), 2),
			AverageMonthlyMaintenance: round(mean(maintenance), 2),
		}
		tc.AnnualMaintenanceCost = tc.AverageMonthlyMaintenance * 12
		if tc.AveragePurchaseCost != 0 {
			tc.TCOPercentage = round(tc.AnnualMaintenanceCost/tc.AveragePurchaseCost*100, 2)
		}
		out = append(out, tc)
	}
	return out
}

func (a *Cost) report(res Result) {
	r := res.(*CostResult)
	rep := a.reporter()

	rep.Section("COST ANALYSIS")
	rep.Blank()
	rep.Line("Annual maintenance cost: %s RUB", Money(r.Maintenance.AnnualTotal))
	rep.Line("Maintenance to purchase cost ratio: %.1f%%", r.Maintenance.RatioPercentage)
	rep.Blank()
	rep.Table(r.Tables()[0])
	rep.Blank()
	rep.Line("Total equipment purchase cost: %s RUB", Money(r.Ratios.TotalPurchaseCost))
	rep.Line("Purchase to maintenance ratio: 1 : %.2f", r.Ratios.MaintenanceToPurchase)
	rep.Line("Estimated payback period: %.1f years", r.Payback.PeriodYears)
}
