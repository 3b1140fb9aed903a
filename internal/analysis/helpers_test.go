package analysis

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"opsinsight/internal/config"
	"opsinsight/internal/workset"
)

var referenceTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

type recordingReporter struct {
	sections []string
	lines    []string
	tables   []Table
}

func (r *recordingReporter) Section(title string) { r.sections = append(r.sections, title) }

func (r *recordingReporter) Line(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) Table(t Table) { r.tables = append(r.tables, t) }

func (r *recordingReporter) Blank() {}

func testDeps(t *testing.T) (Deps, *recordingReporter, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	rep := &recordingReporter{}
	return Deps{
		Logger:   slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
		Reporter: rep,
		Settings: config.Default().Analysis,
		Now:      func() time.Time { return referenceTime },
	}, rep, &logs
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// itEquipment is a small fleet with known aggregates:
// total cost 300000, monthly maintenance 4000, utilization 70/30/10/80.
func itEquipment() *workset.WorkingSet {
	return &workset.WorkingSet{Equipment: []workset.EquipmentRow{
		{
			EquipmentID: "1", Name: "R740", Type: "Server", DepartmentName: "IT", Model: "R740",
			PurchaseDate: date(2020, 1, 1), Cost: 100000, WarrantyEndDate: date(2025, 6, 1),
			Efficiency: 80, MaintenanceCost: 2000, UtilizationRate: 70,
		},
		{
			EquipmentID: "2", Name: "R740", Type: "Server", DepartmentName: "IT", Model: "R740",
			PurchaseDate: date(2023, 1, 1), Cost: 100000, WarrantyEndDate: date(2026, 1, 1),
			Efficiency: 90, MaintenanceCost: 1000, UtilizationRate: 30,
		},
		{
			EquipmentID: "3", Name: "T14", Type: "Laptop", DepartmentName: "Sales", Model: "T14",
			PurchaseDate: date(2022, 1, 1), Cost: 50000, WarrantyEndDate: date(2024, 12, 1),
			Efficiency: 60, MaintenanceCost: 500, UtilizationRate: 10,
		},
		{
			EquipmentID: "4", Name: "P1", Type: "Printer", DepartmentName: "Sales", Model: "P1",
			PurchaseDate: date(2024, 1, 1), Cost: 50000, WarrantyEndDate: date(2027, 1, 1),
			Efficiency: 100, MaintenanceCost: 500, UtilizationRate: 80,
		},
	}}
}

func commercialSet() *workset.WorkingSet {
	return &workset.WorkingSet{
		DepartmentID: "17",
		Projects: []workset.ProjectRow{
			{ProjectID: "1", Name: "Alpha", ActualCost: 600000, Profit: 250000, RiskLevel: "high", Priority: "low"},
			{ProjectID: "2", Name: "Beta", ActualCost: 400000, Profit: 100000, RiskLevel: "high", Priority: "critical"},
		},
		Employees: []workset.EmployeeRow{
			{FullName: "Anna", Salary: 100, PerformanceScore: 1, LanguageSkills: []string{config.LanguageEnglish, config.LanguageRussian}},
			{FullName: "Boris", Salary: 200, PerformanceScore: 2, LanguageSkills: []string{config.LanguageGerman}},
			{FullName: "Clara", Salary: 300, PerformanceScore: 3, LanguageSkills: []string{config.LanguageEnglish, config.LanguageGerman}},
		},
		EmployeeCount: 3,
		KPI:           &workset.KPIRow{DepartmentID: "17", TotalProfit: 90000, AverageROI: 10},
	}
}
