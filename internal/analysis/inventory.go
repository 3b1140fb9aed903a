package analysis

import (
	"context"
	"sort"

	"opsinsight/internal/workset"
)

// TypeShare is the count and share of one equipment type
type TypeShare struct {
	Type       string  `json:"type" yaml:"type"`
	Count      int     `json:"count" yaml:"count"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// CostSummary holds total and spread of equipment purchase cost
type CostSummary struct {
	TotalCost   float64 `json:"total_cost" yaml:"total_cost"`
	AverageCost float64 `json:"average_cost" yaml:"average_cost"`
	MaximumCost float64 `json:"maximum_cost" yaml:"maximum_cost"`
	MinimumCost float64 `json:"minimum_cost" yaml:"minimum_cost"`
}

// DepartmentInventory aggregates the equipment of one department
type DepartmentInventory struct {
	DepartmentName     string  `json:"department_name" yaml:"department_name"`
	EquipmentCount     int     `json:"equipment_count" yaml:"equipment_count"`
	TotalCost          float64 `json:"total_cost" yaml:"total_cost"`
	AverageUtilization float64 `json:"average_utilization_rate" yaml:"average_utilization_rate"`
}

// InventoryResult is the output of the inventory analyzer
type InventoryResult struct {
	TotalEquipmentCount int                   `json:"total_equipment_count" yaml:"total_equipment_count"`
	TypeDistribution    []TypeShare           `json:"equipment_type_distribution" yaml:"equipment_type_distribution"`
	Financial           CostSummary           `json:"financial_analysis" yaml:"financial_analysis"`
	Departments         []DepartmentInventory `json:"department_distribution" yaml:"department_distribution"`
}

func (r *InventoryResult) AnalyzerName() string { return NameInventory }

func (r *InventoryResult) Tables() []Table {
	types := Table{
		Name:    "inventory_types",
		Title:   "Equipment Type Distribution:",
		Columns: []string{"Equipment Type", "Count", "Percentage"},
	}
	for _, t := range r.TypeDistribution {
		types.Rows = append(types.Rows, []interface{}{t.Type, t.Count, t.Percentage})
	}

	depts := Table{
		Name:    "inventory_departments",
		Title:   "Department Distribution:",
		Columns: []string{"Department Name", "Equipment Count", "Total Cost", "Average Utilization Rate"},
	}
	for _, d := range r.Departments {
		depts.Rows = append(depts.Rows, []interface{}{d.DepartmentName, d.EquipmentCount, d.TotalCost, d.AverageUtilization})
	}

	return []Table{types, depts}
}

// Inventory counts, values and distributes IT equipment
type Inventory struct {
	base
	ws *workset.WorkingSet
}

// NewInventory creates an inventory analyzer over ws
func NewInventory(ws *workset.WorkingSet, deps Deps) *Inventory {
	return &Inventory{base: newBase(NameInventory, deps), ws: ws}
}

// Execute implements Analyzer
func (a *Inventory) Execute(ctx context.Context) (Result, error) {
	return a.run(ctx, a.compute, a.report)
}

func (a *Inventory) compute() (Result, error) {
	rows := a.ws.Equipment
	costs := make([]float64, len(rows))
	for i, e := range rows {
		costs[i] = e.Cost
	}

	return &InventoryResult{
		TotalEquipmentCount: len(rows),
		TypeDistribution:    typeDistribution(rows),
		Financial: CostSummary{
			TotalCost:   sum(costs),
			AverageCost: mean(costs),
			MaximumCost: maxOf(costs),
			MinimumCost: minOf(costs),
		},
		Departments: departmentInventory(rows),
	}, nil
}

// typeDistribution orders types by count, then name
func typeDistribution(rows []workset.EquipmentRow) []TypeShare {
	counts := make(map[string]int)
	for _, e := range rows {
		counts[e.Type]++
	}

	shares := make([]TypeShare, 0, len(counts))
	for t, n := range counts {
		shares = append(shares, TypeShare{
			Type:       t,
			Count:      n,
			Percentage: round(float64(n)/float64(len(rows))*100, 2),
		})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Count != shares[j].Count {
			return shares[i].Count > shares[j].Count
		}
		return shares[i].Type < shares[j].Type
	})
	return shares
}

// departmentInventory orders departments by total cost, descending
func departmentInventory(rows []workset.EquipmentRow) []DepartmentInventory {
	groups := groupByDepartment(rows)

	out := make([]DepartmentInventory, 0, len(groups))
	for _, g := range groups {
		var cost float64
		utils := make([]float64, len(g.rows))
		for i, e := range g.rows {
			cost += e.Cost
			utils[i] = e.UtilizationRate
		}
		out = append(out, DepartmentInventory{
			DepartmentName:     g.name,
			EquipmentCount:     len(g.rows),
			TotalCost:          round(cost, 2),
			AverageUtilization: round(mean(utils), 2),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCost > out[j].TotalCost
	})
	return out
}

type departmentGroup struct {
	name string
	rows []workset.EquipmentRow
}

// groupByDepartment groups rows by department name, sorted by name
func groupByDepartment(rows []workset.EquipmentRow) []departmentGroup {
	index := make(map[string]int)
	var groups []departmentGroup
	for _, e := range rows {
		i, ok := index[e.DepartmentName]
		if !ok {
			i = len(groups)
			index[e.DepartmentName] = i
			groups = append(groups, departmentGroup{name: e.DepartmentName})
		}
		groups[i].rows = append(groups[i].rows, e)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].name < groups[j].name })
	return groups
}

func (a *Inventory) report(res Result) {
	r := res.(*InventoryResult)
	rep := a.reporter()
	tables := r.Tables()

	rep.Section("EQUIPMENT INVENTORY ANALYSIS")
	rep.Blank()
	rep.Line("Total IT equipment count: %d units", r.TotalEquipmentCount)
	rep.Line("Total IT equipment cost: %s RUB", Money(r.Financial.TotalCost))
	rep.Blank()
	rep.Table(tables[0])
	rep.Blank()
	top := tables[1].Head(10)
	top.Title = "Department Distribution (Top 10 by Cost):"
	rep.Table(top)
}
