package testutil

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"opsinsight/internal/analysis"
	"opsinsight/internal/operations"
)

// CompanyJSON is a small, valid company document: four IT devices plus one
// non-IT asset, two projects and three employees of department 17.
const CompanyJSON = `{
  "projects": [
    {
      "project_id": 1, "name": "Alpha", "description": "CRM rollout", "status": "active",
      "timeline": {"start_date": "2024-01-01", "end_date": "2024-12-31", "duration_days": 365},
      "financials": {"budget": 700000, "actual_cost": 600000, "profit": 250000, "roi_percentage": 12},
      "metrics": {"completion_percentage": 90, "risk_level": "high", "priority": "low"},
      "participating_departments": [{"department_id": 17}]
    },
    {
      "project_id": 2, "name": "Beta", "description": "Partner portal", "status": "active",
      "timeline": {"start_date": "2024-02-01", "end_date": "2024-10-31", "duration_days": 273},
      "financials": {"budget": 450000, "actual_cost": 400000, "profit": 100000, "roi_percentage": 8},
      "metrics": {"completion_percentage": 60, "risk_level": "high", "priority": "critical"},
      "participating_departments": [{"department_id": "17"}, {"department_id": 5}]
    }
  ],
  "equipment": [
    {"equipment_id": 1, "name": "R740", "type": "Server", "department_id": 3, "department_name": "IT",
     "model": "R740", "manufacturer": "Dell", "purchase_date": "2020-01-01", "cost": 100000,
     "warranty_end_date": "2025-06-01", "status": "active", "efficiency": 80, "maintenance_cost": 2000,
     "utilization_rate": 70, "daily_usage_hours": 24},
    {"equipment_id": 2, "name": "R740", "type": "Server", "department_id": 3, "department_name": "IT",
     "model": "R740", "manufacturer": "Dell", "purchase_date": "2023-01-01", "cost": 100000,
     "warranty_end_date": "2026-01-01", "status": "active", "efficiency": 90, "maintenance_cost": 1000,
     "utilization_rate": 30, "daily_usage_hours": 24},
    {"equipment_id": 3, "name": "T14", "type": "Laptop", "department_id": 17, "department_name": "Sales",
     "model": "T14", "manufacturer": "Lenovo", "purchase_date": "2022-01-01", "cost": 50000,
     "warranty_end_date": "2024-12-01", "status": "active", "efficiency": 60, "maintenance_cost": 500,
     "utilization_rate": 10, "daily_usage_hours": 2},
    {"equipment_id": 4, "name": "P1", "type": "Printer", "department_id": 17, "department_name": "Sales",
     "model": "P1", "manufacturer": "HP", "purchase_date": "2024-01-01", "cost": 50000,
     "warranty_end_date": "2027-01-01", "status": "active", "efficiency": 100, "maintenance_cost": 500,
     "utilization_rate": 80, "daily_usage_hours": 6},
    {"equipment_id": 5, "name": "Barista", "type": "Coffee machine", "department_id": 17, "department_name": "Sales",
     "model": "B2", "manufacturer": "Bosch", "purchase_date": "2021-01-01", "cost": 99999,
     "warranty_end_date": "2022-01-01", "status": "active", "efficiency": 10, "maintenance_cost": 9999,
     "utilization_rate": 5, "daily_usage_hours": 1}
  ],
  "employees": [
    {"employee_id": 100, "personal_info": {"full_name": "Anna"},
     "work_info": {"department_id": 17, "salary": 100, "performance_score": 1},
     "additional_info": {"language_skills": ["Английский", "Русский"], "tags": []}},
    {"employee_id": 101, "personal_info": {"full_name": "Boris"},
     "work_info": {"department_id": 17, "salary": 200, "performance_score": 2},
     "additional_info": {"language_skills": ["Немецкий"], "tags": []}},
    {"employee_id": 102, "personal_info": {"full_name": "Clara"},
     "work_info": {"department_id": 17, "salary": 300, "performance_score": 3},
     "additional_info": {"language_skills": ["Английский", "Немецкий"], "tags": []}},
    {"employee_id": 200, "personal_info": {"full_name": "Dmitry"},
     "work_info": {"department_id": 5, "salary": 400, "performance_score": 5},
     "additional_info": {"language_skills": [], "tags": []}}
  ],
  "kpi_metrics": [
    {"department_id": 17, "project_metrics": {"total_profit": 90000, "average_roi": 10}}
  ]
}`

// WriteCompanyFile writes content to company.json in a temp dir and
// returns its path
func WriteCompanyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "company.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write company file: %v", err)
	}
	return path
}

// CreateSuccessfulStage creates a stage whose analyzer returns a MockResult
func CreateSuccessfulStage(id, name string) *operations.Stage {
	return CreateStage(id, name, &MockAnalyzer{NameValue: id})
}

// CreateFailingStage creates a stage whose analyzer always fails
func CreateFailingStage(id, name string, err error) *operations.Stage {
	if err == nil {
		err = errors.New("stage failed")
	}
	return CreateStage(id, name, &MockAnalyzer{
		NameValue: id,
		ExecuteFunc: func(ctx context.Context) (analysis.Result, error) {
			return nil, err
		},
	})
}

// CreateBuildFailingStage creates a stage that cannot build its analyzer
func CreateBuildFailingStage(id, name string, err error) *operations.Stage {
	return operations.NewStage(id, name, func(ctx context.Context, env operations.BuildEnv) (analysis.Analyzer, error) {
		return nil, err
	})
}

// CreateStage wraps a prepared analyzer into a stage
func CreateStage(id, name string, a analysis.Analyzer) *operations.Stage {
	return operations.NewStage(id, name, func(ctx context.Context, env operations.BuildEnv) (analysis.Analyzer, error) {
		return a, nil
	})
}
