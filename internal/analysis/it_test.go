package analysis

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/workset"
)

func TestInventory(t *testing.T) {
	deps, rep, _ := testDeps(t)
	res, err := NewInventory(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*InventoryResult)
	assert.Equal(t, 4, r.TotalEquipmentCount)
	assert.Equal(t, []TypeShare{
		{Type: "Server", Count: 2, Percentage: 50},
		{Type: "Laptop", Count: 1, Percentage: 25},
		{Type: "Printer", Count: 1, Percentage: 25},
	}, r.TypeDistribution)
	assert.Equal(t, CostSummary{TotalCost: 300000, AverageCost: 75000, MaximumCost: 100000, MinimumCost: 50000}, r.Financial)

	require.Len(t, r.Departments, 2)
	assert.Equal(t, DepartmentInventory{DepartmentName: "IT", EquipmentCount: 2, TotalCost: 200000, AverageUtilization: 50}, r.Departments[0])
	assert.Equal(t, "Sales", r.Departments[1].DepartmentName)

	assert.Equal(t, []string{"EQUIPMENT INVENTORY ANALYSIS"}, rep.sections)
	assert.Contains(t, rep.lines, "Total IT equipment cost: 300,000 RUB")
	assert.Len(t, rep.tables, 2)
}

func TestInventoryPercentagesSumTo100(t *testing.T) {
	deps, _, _ := testDeps(t)
	ws := &workset.WorkingSet{}
	for i, typ := range []string{"Server", "Laptop", "Laptop", "Monitor", "Printer", "Printer", "Printer"} {
		ws.Equipment = append(ws.Equipment, workset.EquipmentRow{EquipmentID: string(rune('a' + i)), Type: typ})
	}

	res, err := NewInventory(ws, deps).Execute(context.Background())
	require.NoError(t, err)

	var total float64
	for _, s := range res.(*InventoryResult).TypeDistribution {
		total += s.Percentage
	}
	assert.InDelta(t, 100, total, 0.05)
}

func TestInventoryEmpty(t *testing.T) {
	deps, _, _ := testDeps(t)
	res, err := NewInventory(&workset.WorkingSet{}, deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*InventoryResult)
	assert.Zero(t, r.TotalEquipmentCount)
	assert.Empty(t, r.TypeDistribution)
	assert.Zero(t, r.Financial.AverageCost)
}

func TestUtilization(t *testing.T) {
	deps, rep, _ := testDeps(t)
	res, err := NewUtilization(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*UtilizationResult)
	assert.Equal(t, 47.5, r.Basic.Average)
	assert.Equal(t, 50.0, r.Basic.Median)
	assert.InDelta(t, 33.04, r.Basic.StandardDeviation, 0.01)
	assert.Equal(t, 80.0, r.Basic.Maximum)
	assert.Equal(t, 10.0, r.Basic.Minimum)

	require.Len(t, r.Distribution, 5)
	for i, want := range []int{1, 1, 1, 1, 0} {
		assert.Equal(t, want, r.Distribution[i].Count, r.Distribution[i].Level)
	}
	assert.Equal(t, 25.0, r.Distribution[0].Percentage)

	assert.Equal(t, "IT", r.Departments.BestPerformers[0].DepartmentName)
	assert.Equal(t, "Sales", r.Departments.WorstPerformers[0].DepartmentName)
	assert.Equal(t, 28.28, r.Departments.BestPerformers[0].StandardDeviation)

	assert.Equal(t, 2, r.Low.Count)
	assert.Equal(t, "3", r.Low.Equipment[0].EquipmentID, "least utilized first")
	assert.Equal(t, 75000.0, r.Low.PotentialLoss)
	assert.Equal(t, 20.0, r.Low.AverageUtilization)

	assert.Contains(t, rep.lines, "Equipment with low utilization (<50%): 2 units")
	assert.Contains(t, rep.lines, "Potential losses from inefficient utilization: 75,000 RUB")
}

func TestBucketBoundaries(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{0, LevelVeryLow},
		{29.99, LevelVeryLow},
		{30, LevelLow},
		{60, LevelMedium},
		{79.9, LevelMedium},
		{80, LevelHigh},
		{100, LevelHigh},
		{101, LevelVeryHigh},
		{250, LevelVeryHigh},
	}
	for _, tt := range tests {
		i := bucketOf(tt.rate)
		require.GreaterOrEqual(t, i, 0, "rate %v", tt.rate)
		assert.Equal(t, tt.want, utilizationBuckets[i].label, "rate %v", tt.rate)
	}
	assert.Equal(t, -1, bucketOf(-1))
}

func TestCost(t *testing.T) {
	deps, rep, _ := testDeps(t)
	res, err := NewCost(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*CostResult)
	assert.Equal(t, 4000.0, r.Maintenance.MonthlyTotal)
	assert.Equal(t, 48000.0, r.Maintenance.AnnualTotal)
	assert.Equal(t, 1000.0, r.Maintenance.MonthlyAverage)
	assert.InDelta(t, 16, r.Maintenance.RatioPercentage, 1e-9)

	require.Len(t, r.PerType, 3)
	assert.Equal(t, []string{"Laptop", "Printer", "Server"}, []string{r.PerType[0].Type, r.PerType[1].Type, r.PerType[2].Type})
	server := r.PerType[2]
	assert.Equal(t, 2, server.EquipmentCount)
	assert.Equal(t, 1500.0, server.AverageMonthlyMaintenance)
	assert.Equal(t, 18000.0, server.AnnualMaintenanceCost)
	assert.Equal(t, 18.0, server.TCOPercentage)

	assert.Equal(t, 6.25, r.Ratios.PurchaseToMaintenance)
	assert.InDelta(t, 0.16, r.Ratios.MaintenanceToPurchase, 1e-9)
	assert.Equal(t, 1000.0, r.Payback.AssumedDailySavings)
	assert.InDelta(t, 0.8219, r.Payback.PeriodYears, 0.0001)

	assert.Contains(t, rep.lines, "Maintenance to purchase cost ratio: 16.0%")
	assert.Contains(t, rep.lines, "Purchase to maintenance ratio: 1 : 0.16")
	assert.Contains(t, rep.lines, "Estimated payback period: 0.8 years")
}

func TestCostZeroPurchase(t *testing.T) {
	deps, _, _ := testDeps(t)
	ws := &workset.WorkingSet{Equipment: []workset.EquipmentRow{{Type: "Server", MaintenanceCost: 10}}}

	_, err := NewCost(ws, deps).Execute(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.IsInsufficientData(err))
}

func TestReplacement(t *testing.T) {
	deps, rep, _ := testDeps(t)
	res, err := NewReplacement(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*ReplacementResult)
	require.Equal(t, 3, r.Warranty.ExpiringCount)
	assert.Equal(t, []int{-31, 151, 365}, []int{
		r.Warranty.Equipment[0].DaysUntilExpiry,
		r.Warranty.Equipment[1].DaysUntilExpiry,
		r.Warranty.Equipment[2].DaysUntilExpiry,
	})
	assert.Equal(t, 250000.0, r.Warranty.TotalReplacementCost)

	assert.Equal(t, 2, r.Age.OutdatedCount)
	assert.Equal(t, 150000.0, r.Age.ReplacementCostEstimate)
	assert.Equal(t, 4.0, r.Age.Distribution.Count)
	assert.InDelta(t, 5.002, r.Age.Distribution.Max, 0.001)

	ids := make([]string, len(r.Priority.Candidates))
	for i, c := range r.Priority.Candidates {
		ids[i] = c.EquipmentID
	}
	assert.Equal(t, []string{"1", "3", "2", "4"}, ids)
	assert.Equal(t, 0.62, r.Priority.Candidates[0].PriorityScore)
	assert.Equal(t, 0.53, r.Priority.Candidates[1].PriorityScore)
	assert.Equal(t, 300000.0, r.Priority.TotalReplacementCost)
	assert.Equal(t, ScoringWeights{Age: 0.3, Efficiency: 0.3, Maintenance: 0.2, Utilization: 0.2}, r.Priority.Weights)

	assert.Contains(t, rep.lines, "Outdated equipment (> 3 years): 2 units")
	assert.Contains(t, rep.lines, "Total cost for top 4 replacement candidates: 300,000 RUB")
}

func TestReplacementTopCandidates(t *testing.T) {
	deps, _, _ := testDeps(t)
	ws := &workset.WorkingSet{}
	for i := 0; i < 15; i++ {
		ws.Equipment = append(ws.Equipment, workset.EquipmentRow{
			EquipmentID:     string(rune('a' + i)),
			PurchaseDate:    date(2015+i%8, 1, 1),
			WarrantyEndDate: date(2030, 1, 1),
			Efficiency:      float64(50 + i*3%40),
			MaintenanceCost: float64(100 * (i%5 + 1)),
			UtilizationRate: float64(i * 6 % 100),
		})
	}

	res, err := NewReplacement(ws, deps).Execute(context.Background())
	require.NoError(t, err)

	candidates := res.(*ReplacementResult).Priority.Candidates
	require.Len(t, candidates, 10)
	for i := 1; i < len(candidates); i++ {
		assert.GreaterOrEqual(t, candidates[i-1].PriorityScore, candidates[i].PriorityScore)
	}
}

func TestReplacementTiesKeepInputOrder(t *testing.T) {
	deps, _, _ := testDeps(t)
	row := workset.EquipmentRow{PurchaseDate: date(2020, 1, 1), Efficiency: 50, MaintenanceCost: 100, UtilizationRate: 50}
	ws := &workset.WorkingSet{}
	for _, id := range []string{"x", "y", "z"} {
		r := row
		r.EquipmentID = id
		ws.Equipment = append(ws.Equipment, r)
	}

	res, err := NewReplacement(ws, deps).Execute(context.Background())
	require.NoError(t, err)

	candidates := res.(*ReplacementResult).Priority.Candidates
	assert.Equal(t, "x", candidates[0].EquipmentID)
	assert.Equal(t, "y", candidates[1].EquipmentID)
	assert.Equal(t, "z", candidates[2].EquipmentID)
}

func TestOptimization(t *testing.T) {
	deps, rep, _ := testDeps(t)
	res, err := NewOptimization(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)

	r := res.(*OptimizationResult)
	assert.Equal(t, []DuplicateGroup{{Name: "R740", Model: "R740", DuplicateCount: 2}}, r.Consolidation.Duplicates)
	assert.Equal(t, 2, r.Consolidation.LowUtilizationCount)
	assert.Len(t, r.Consolidation.Recommendations, 5)

	assert.Equal(t, 48000.0, r.Economics.CurrentAnnualMaintenance)
	assert.InDelta(t, 7200, r.Economics.PotentialMaintenanceSavings, 1e-9)
	assert.Equal(t, 10000.0, r.Economics.ConsolidationSavings)
	assert.InDelta(t, 17200, r.Economics.TotalAnnualSavings, 1e-9)
	assert.InDelta(t, 34400, r.Economics.ImplementationCostEstimate, 1e-9)
	assert.Equal(t, 2.0, r.Economics.ROIPeriodYears)

	require.Len(t, r.Framework.KPIs, 7)
	assert.Equal(t, "47.5%", r.Framework.KPIs[0].Current)
	assert.Equal(t, "462 RUB", r.Framework.KPIs[2].Current)
	assert.Equal(t, "50.0%", r.Framework.KPIs[4].Current)
	assert.Equal(t, "16.0%", r.Framework.KPIs[5].Current)
	assert.Len(t, r.Framework.Recommendations, 4)

	assert.Contains(t, rep.lines, "Return on investment period: 2.0 years")
	assert.Contains(t, rep.lines, "• Implement automated monitoring system")
}

func TestOptimizationROIPeriodIsConstant(t *testing.T) {
	sets := []*workset.WorkingSet{
		itEquipment(),
		{Equipment: []workset.EquipmentRow{{UtilizationRate: 99, MaintenanceCost: 12345, Cost: 1}}},
		{Equipment: []workset.EquipmentRow{{UtilizationRate: 99}}},
	}
	for i, ws := range sets {
		deps, _, _ := testDeps(t)
		res, err := NewOptimization(ws, deps).Execute(context.Background())
		require.NoError(t, err, "set %d", i)
		assert.Equal(t, 2.0, res.(*OptimizationResult).Economics.ROIPeriodYears, "set %d", i)
	}
}

func TestEquipmentAnalyzersRejectEmptySet(t *testing.T) {
	deps, _, _ := testDeps(t)
	empty := &workset.WorkingSet{}

	analyzers := []Analyzer{
		NewUtilization(empty, deps),
		NewCost(empty, deps),
		NewReplacement(empty, deps),
		NewOptimization(empty, deps),
	}
	for _, a := range analyzers {
		t.Run(a.Name(), func(t *testing.T) {
			res, err := a.Execute(context.Background())
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, apperrors.IsInsufficientData(err))
			assert.Contains(t, err.Error(), a.Name())
		})
	}
}

func TestITAnalyzersAreIdempotent(t *testing.T) {
	ws := itEquipment()
	deps, _, _ := testDeps(t)

	analyzers := []Analyzer{
		NewInventory(ws, deps),
		NewUtilization(ws, deps),
		NewCost(ws, deps),
		NewReplacement(ws, deps),
		NewOptimization(ws, deps),
	}
	for _, a := range analyzers {
		first, err := a.Execute(context.Background())
		require.NoError(t, err)
		second, err := a.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, first, second, a.Name())

		_, err = json.Marshal(first)
		assert.NoError(t, err, a.Name())
	}
}

func TestAnalyzerLogging(t *testing.T) {
	deps, _, logs := testDeps(t)

	_, err := NewInventory(itEquipment(), deps).Execute(context.Background())
	require.NoError(t, err)
	_, err = NewCost(&workset.WorkingSet{}, deps).Execute(context.Background())
	require.Error(t, err)

	var events []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		events = append(events, entry)
	}

	require.Len(t, events, 4)
	assert.Equal(t, "analysis_start", events[0]["msg"])
	assert.Equal(t, "inventory", events[0]["analysis"])
	assert.Equal(t, "analysis_complete", events[1]["msg"])
	assert.Equal(t, "analysis_error", events[3]["msg"])
	assert.Equal(t, "cost", events[3]["analysis"])
	assert.Equal(t, "insufficient_data", events[3]["error_type"])
}

func TestDepsClockFollowsLocalCalendar(t *testing.T) {
	// 02:00 on Jan 1 at UTC+5 is still Dec 31 in UTC
	zone := time.FixedZone("UTC+5", 5*60*60)
	deps := Deps{Now: func() time.Time { return time.Date(2025, 1, 1, 2, 0, 0, 0, zone) }}

	now := deps.clock()
	assert.Equal(t, time.Date(2025, 1, 1, 2, 0, 0, 0, time.UTC), now)

	rows := []workset.EquipmentRow{
		{EquipmentID: "1", WarrantyEndDate: date(2025, 1, 2), Cost: 1000},
		{EquipmentID: "2", WarrantyEndDate: date(2025, 1, 1), Cost: 500},
	}
	w := warrantyAnalysis(rows, now, 90)
	require.Len(t, w.Equipment, 2)
	assert.Equal(t, -1, w.Equipment[0].DaysUntilExpiry)
	assert.Equal(t, 0, w.Equipment[1].DaysUntilExpiry)
}
