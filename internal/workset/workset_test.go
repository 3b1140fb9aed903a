package workset

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsinsight/internal/config"
	"opsinsight/internal/dataset"
	apperrors "opsinsight/internal/errors"
)

type staticLoader struct {
	doc   *dataset.Document
	err   error
	calls int
}

func (l *staticLoader) Load(_ context.Context, _ string) (*dataset.Document, error) {
	l.calls++
	return l.doc, l.err
}

func decode(t *testing.T, raw string) *dataset.Document {
	t.Helper()
	var doc dataset.Document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

const companyDocument = `{
  "projects": [
    {
      "project_id": 1, "name": "CRM", "description": "d", "status": "active",
      "timeline": {"start_date": "2024-01-01", "end_date": "2024-03-01", "duration_days": 60},
      "financials": {"budget": 100, "actual_cost": 80, "profit": 20, "roi_percentage": 25},
      "metrics": {"completion_percentage": 50, "risk_level": "high", "priority": "low"},
      "participating_departments": [
        {"department_id": 17, "role": "lead"},
        {"department_id": "17", "role": "support"}
      ]
    },
    {
      "project_id": 2, "name": "Warehouse",
      "participating_departments": [{"department_id": 5}]
    },
    {
      "project_id": 3, "name": "Portal", "description": "d", "status": "done",
      "timeline": {"start_date": "2023-05-01T00:00:00Z", "end_date": "2023-09-01 00:00:00", "duration_days": "123"},
      "financials": {"budget": 300, "actual_cost": "120", "profit": 40, "roi_percentage": 10},
      "metrics": {"completion_percentage": 100, "risk_level": "low", "priority": "critical"},
      "participating_departments": [{"department_name": "no id"}, {"department_id": 17}]
    }
  ],
  "equipment": [
    {"equipment_id": 1, "name": "R740", "type": "Server", "department_id": 17, "department_name": "Sales",
     "model": "R740", "manufacturer": "Dell", "purchase_date": "2021-01-01", "cost": 100000,
     "warranty_end_date": "2024-01-01", "status": "active", "efficiency": 80, "maintenance_cost": 2000,
     "utilization_rate": 70, "daily_usage_hours": 24},
    {"equipment_id": 2, "type": "Coffee machine"},
    {"equipment_id": 3, "name": "ThinkPad", "type": "Ноутбук", "department_id": 5, "department_name": "IT",
     "model": "T14", "manufacturer": "Lenovo", "purchase_date": "2023-02-01", "cost": 90000,
     "warranty_end_date": "2026-02-01", "status": "active", "efficiency": 95, "maintenance_cost": 500,
     "utilization_rate": 40, "daily_usage_hours": 8}
  ],
  "employees": [
    {"employee_id": 10, "personal_info": {"full_name": "Anna"},
     "work_info": {"department_id": 17, "salary": 100, "performance_score": 4},
     "additional_info": {"language_skills": ["Английский", "Русский"]}},
    {"employee_id": 11, "work_info": {"department_id": 5}},
    {"employee_id": 12, "personal_info": {"full_name": "Boris"},
     "work_info": {"department_id": "17", "salary": 200, "performance_score": 5},
     "additional_info": {}}
  ],
  "kpi_metrics": [
    {"department_id": 5},
    {"department_id": 17, "project_metrics": {"total_profit": 60, "average_roi": 9.5}},
    {"department_id": 17, "project_metrics": {"total_profit": 999, "average_roi": 99}}
  ]
}`

func TestBuildDepartmentScope(t *testing.T) {
	loader := &staticLoader{doc: decode(t, companyDocument)}
	b := NewBuilder(loader, DepartmentScope("17"), nil)

	ws, err := b.Build(context.Background(), "company.json")
	require.NoError(t, err)
	assert.Equal(t, 1, loader.calls)

	require.Len(t, ws.Projects, 2, "a project listing the department twice appears once")
	assert.Equal(t, "1", ws.Projects[0].ProjectID)
	assert.Equal(t, "3", ws.Projects[1].ProjectID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ws.Projects[0].EndDate)
	assert.Equal(t, 123.0, ws.Projects[1].DurationDays)
	assert.Equal(t, 200.0, ws.TotalActualCost())

	assert.Equal(t, 2, ws.EmployeeCount)
	assert.Equal(t, "Anna", ws.Employees[0].FullName)
	assert.Empty(t, ws.Employees[1].LanguageSkills)

	require.NotNil(t, ws.KPI)
	assert.Equal(t, 60.0, ws.DepartmentKPI().TotalProfit, "first matching KPI record wins")
	assert.Equal(t, 9.5, ws.DepartmentKPI().AverageROI)

	assert.Empty(t, ws.Equipment, "department scope skips equipment")
}

func TestBuildEquipmentScope(t *testing.T) {
	scope, err := EquipmentScope(config.DefaultEquipmentTypePattern)
	require.NoError(t, err)

	ws, err := NewBuilder(&staticLoader{doc: decode(t, companyDocument)}, scope, nil).
		Build(context.Background(), "company.json")
	require.NoError(t, err)

	require.Len(t, ws.Equipment, 2, "non-IT equipment is excluded before validation")
	assert.Equal(t, "Server", ws.Equipment[0].Type)
	assert.Equal(t, "Ноутбук", ws.Equipment[1].Type)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), ws.Equipment[1].WarrantyEndDate)
	assert.Empty(t, ws.Projects)
	assert.Zero(t, ws.EmployeeCount)
}

// TestDepartmentPartition checks that no record of another department leaks
// into a department working set.
func TestDepartmentPartition(t *testing.T) {
	doc := decode(t, companyDocument)

	for _, dept := range []string{"17", "5", "99"} {
		ws, err := NewBuilder(&staticLoader{doc: doc}, DepartmentScope(dept), nil).FromDocument(doc)
		if dept == "5" {
			// department 5 has an incomplete employee and project
			require.Error(t, err)
			assert.True(t, apperrors.IsSchemaError(err))
			continue
		}
		require.NoError(t, err)

		for _, p := range ws.Projects {
			var raw dataset.Project
			for _, candidate := range doc.Projects {
				if dataset.IDString(candidate.ProjectID) == p.ProjectID {
					raw = candidate
				}
			}
			assert.True(t, participates(raw, dept), "project %s", p.ProjectID)
		}
		for _, e := range ws.Employees {
			for _, raw := range doc.Employees {
				if dataset.IDString(raw.EmployeeID) == e.EmployeeID {
					assert.Equal(t, dept, dataset.IDString(raw.WorkInfo.DepartmentID))
				}
			}
		}
		if ws.KPI != nil {
			assert.Equal(t, dept, ws.KPI.DepartmentID)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("load errors propagate", func(t *testing.T) {
		loadErr := apperrors.NewSourceError("company.json", errors.New("gone"))
		_, err := NewBuilder(&staticLoader{err: loadErr}, DepartmentScope("17"), nil).Build(ctx, "company.json")
		assert.Same(t, loadErr, err)
	})

	tests := []struct {
		name  string
		scope Scope
		doc   string
		field string
	}{
		{
			name:  "employee without department",
			scope: DepartmentScope("17"),
			doc:   `{"employees": [{"personal_info": {"full_name": "X"}}]}`,
			field: "employees[0].work_info",
		},
		{
			name:  "department employee without salary",
			scope: DepartmentScope("17"),
			doc:   `{"employees": [{"personal_info": {"full_name": "X"}, "work_info": {"department_id": 17, "performance_score": 1}, "additional_info": {}}]}`,
			field: "employees[0].work_info.salary",
		},
		{
			name:  "matched project without financials",
			scope: DepartmentScope("17"),
			doc:   `{"projects": [{"project_id": 1, "name": "n", "description": "d", "status": "s", "timeline": {"start_date": "2024-01-01", "end_date": "2024-01-02", "duration_days": 1}, "metrics": {"completion_percentage": 1, "risk_level": "low", "priority": "low"}, "participating_departments": [{"department_id": 17}]}]}`,
			field: "projects[0].financials",
		},
		{
			name:  "matched project with bad date",
			scope: DepartmentScope("17"),
			doc:   `{"projects": [{"project_id": 1, "name": "n", "description": "d", "status": "s", "timeline": {"start_date": "01/02/2024", "end_date": "2024-01-02", "duration_days": 1}, "financials": {"budget": 1, "actual_cost": 1, "profit": 1, "roi_percentage": 1}, "metrics": {"completion_percentage": 1, "risk_level": "low", "priority": "low"}, "participating_departments": [{"department_id": 17}]}]}`,
			field: "projects[0].timeline.start_date",
		},
		{
			name:  "department KPI without project metrics",
			scope: DepartmentScope("17"),
			doc:   `{"kpi_metrics": [{"department_id": 17}]}`,
			field: "kpi_metrics[0].project_metrics",
		},
		{
			name:  "equipment without type",
			scope: Scope{EquipmentPattern: mustScope(t).EquipmentPattern},
			doc:   `{"equipment": [{"equipment_id": 1}]}`,
			field: "equipment[0].type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuilder(&staticLoader{doc: decode(t, tt.doc)}, tt.scope, nil).Build(ctx, "company.json")
			require.Error(t, err)
			assert.True(t, apperrors.IsSchemaError(err))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestEquipmentScopeInvalidPattern(t *testing.T) {
	_, err := EquipmentScope("(unclosed")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeConfig, apperrors.GetErrorType(err))
}

func TestDepartmentKPIDefault(t *testing.T) {
	ws := &WorkingSet{DepartmentID: "17"}
	kpi := ws.DepartmentKPI()
	assert.Zero(t, kpi.TotalProfit)
	assert.Zero(t, kpi.AverageROI)
}

func mustScope(t *testing.T) Scope {
	t.Helper()
	scope, err := EquipmentScope(config.DefaultEquipmentTypePattern)
	require.NoError(t, err)
	return scope
}
