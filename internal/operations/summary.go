package operations

import (
	"fmt"

	"opsinsight/internal/analysis"
	apperrors "opsinsight/internal/errors"
)

// Indicator is one line of a run summary
type Indicator struct {
	Key   string `json:"key" yaml:"key"`
	Label string `json:"label" yaml:"label"`
	Value string `json:"value" yaml:"value"`
}

// Summary is the cross-analyzer KPI block printed after a successful run
type Summary struct {
	Title      string      `json:"title" yaml:"title"`
	Indicators []Indicator `json:"indicators" yaml:"indicators"`
}

// Table lays the summary out for exporters
func (s *Summary) Table() analysis.Table {
	t := analysis.Table{
		Name:    "summary",
		Title:   s.Title,
		Columns: []string{"indicator", "value"},
	}
	for _, ind := range s.Indicators {
		t.Rows = append(t.Rows, []interface{}{ind.Label, ind.Value})
	}
	return t
}

func (s *Summary) add(key, label, value string) {
	s.Indicators = append(s.Indicators, Indicator{Key: key, Label: label, Value: value})
}

// Summarizer derives the summary from completed results only
type Summarizer func(results map[string]analysis.Result) (*Summary, error)

// requireResults checks that every id has a stored result
func requireResults(results map[string]analysis.Result, ids ...string) error {
	for _, id := range ids {
		if _, ok := results[id]; !ok {
			return apperrors.NewExecutionError(id, fmt.Errorf("result missing from run"))
		}
	}
	return nil
}

func unexpectedResults(suite string) error {
	return apperrors.NewExecutionError(suite, fmt.Errorf("unexpected result types for summary"))
}

// SummarizeIT builds the IT infrastructure KPI block
func SummarizeIT(results map[string]analysis.Result) (*Summary, error) {
	err := requireResults(results, analysis.NameInventory, analysis.NameUtilization,
		analysis.NameCost, analysis.NameReplacement, analysis.NameOptimization)
	if err != nil {
		return nil, err
	}
	inventory, _ := results[analysis.NameInventory].(*analysis.InventoryResult)
	utilization, _ := results[analysis.NameUtilization].(*analysis.UtilizationResult)
	cost, _ := results[analysis.NameCost].(*analysis.CostResult)
	replacement, _ := results[analysis.NameReplacement].(*analysis.ReplacementResult)
	optimization, _ := results[analysis.NameOptimization].(*analysis.OptimizationResult)
	if inventory == nil || utilization == nil || cost == nil || replacement == nil || optimization == nil {
		return nil, unexpectedResults(SuiteIT)
	}

	s := &Summary{Title: "COMPREHENSIVE IT INFRASTRUCTURE ANALYSIS SUMMARY"}
	s.add("total_equipment_count", "Total IT Equipment",
		fmt.Sprintf("%d units", inventory.TotalEquipmentCount))
	s.add("total_asset_value", "Total Asset Value",
		analysis.Money(inventory.Financial.TotalCost)+" RUB")
	s.add("average_utilization", "Average Utilization Rate",
		fmt.Sprintf("%.1f%%", utilization.Basic.Average))
	s.add("annual_maintenance_cost", "Annual Maintenance Cost",
		analysis.Money(cost.Maintenance.AnnualTotal)+" RUB")
	s.add("underutilized_count", "Underutilized Equipment",
		fmt.Sprintf("%d units", utilization.Low.Count))
	s.add("expiring_warranty_count", "Equipment with Expiring Warranty",
		fmt.Sprintf("%d units", replacement.Warranty.ExpiringCount))
	s.add("potential_annual_savings", "Potential Annual Savings",
		analysis.Money(optimization.Economics.TotalAnnualSavings)+" RUB")
	return s, nil
}

// SummarizeCommercial builds the commercial department KPI block
func SummarizeCommercial(results map[string]analysis.Result) (*Summary, error) {
	err := requireResults(results, analysis.NameProjectsMetrics, analysis.NamePersonalEfficiency,
		analysis.NameLanguage, analysis.NameClient, analysis.NameROIUp)
	if err != nil {
		return nil, err
	}
	metrics, _ := results[analysis.NameProjectsMetrics].(*analysis.ProjectsMetricsResult)
	personal, _ := results[analysis.NamePersonalEfficiency].(*analysis.PersonalEfficiencyResult)
	language, _ := results[analysis.NameLanguage].(*analysis.LanguageResult)
	client, _ := results[analysis.NameClient].(*analysis.ClientResult)
	roiUp, _ := results[analysis.NameROIUp].(*analysis.ROIUpResult)
	if metrics == nil || personal == nil || language == nil || client == nil || roiUp == nil {
		return nil, unexpectedResults(SuiteCommercial)
	}

	correlation := "undefined"
	if personal.Correlation != nil {
		correlation = fmt.Sprintf("%.2f", *personal.Correlation)
	}

	s := &Summary{Title: "COMMERCIAL DEPARTMENT ANALYSIS SUMMARY"}
	s.add("total_profit", "Total Project Profit",
		analysis.Money(metrics.TotalProfit)+" RUB")
	s.add("average_roi", "Average ROI",
		fmt.Sprintf("%.1f%%", metrics.AverageROI))
	s.add("revenue_per_employee", "Revenue per Employee",
		analysis.Money(personal.RevenuePerEmployee)+" RUB")
	s.add("salary_performance_correlation", "Salary/Performance Correlation", correlation)
	s.add("language_upgrade_count", "Employees Needing Language Upgrade",
		fmt.Sprintf("%d persons", len(language.Needs)))
	s.add("priority_ratio", "High/Critical to Low Priority Ratio",
		fmt.Sprintf("%.2f", client.Ratio))
	s.add("high_risk_projects", "High-Risk High-Profit Projects",
		fmt.Sprintf("%d projects", len(client.HighRiskProjects)))
	s.add("potential_profit", fmt.Sprintf("Potential Profit at ROI +%g", roiUp.ROIIncrease),
		analysis.Money(roiUp.PotentialProfit)+" RUB")
	return s, nil
}

// printSummary writes the KPI block through the reporter
func printSummary(rep analysis.Reporter, s *Summary) {
	rep.Blank()
	rep.Section(s.Title)
	rep.Blank()
	rep.Line("KEY PERFORMANCE INDICATORS:")
	for _, ind := range s.Indicators {
		rep.Line("• %s: %s", ind.Label, ind.Value)
	}
}
