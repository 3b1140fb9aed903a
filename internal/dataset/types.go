package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Document is the decoded company snapshot. A missing top-level collection
// decodes as an empty slice.
type Document struct {
	Projects   []Project   `json:"projects"`
	Equipment  []Equipment `json:"equipment"`
	Employees  []Employee  `json:"employees"`
	KPIMetrics []KPIMetric `json:"kpi_metrics"`
}

// ID is an identifier that may be written as a JSON number or string.
// Integral numbers are kept in integer form so 17 and "17" compare equal.
type ID string

// UnmarshalJSON implements json.Unmarshaler
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = ID(canonicalNumber(n))
	return nil
}

// String returns the canonical text form
func (id ID) String() string { return string(id) }

func canonicalNumber(n json.Number) string {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if f, err := n.Float64(); err == nil && f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return n.String()
}

// Number is a float that may be written as a JSON number or a numeric string
type Number float64

// UnmarshalJSON implements json.Unmarshaler
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return &CoercionError{Value: s, Err: err}
		}
		*n = Number(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return &CoercionError{Value: string(data), Err: err}
	}
	*n = Number(f)
	return nil
}

// Float returns the value as float64
func (n Number) Float() float64 { return float64(n) }

// CoercionError reports a value that could not be coerced to a number
type CoercionError struct {
	Value string
	Err   error
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("cannot coerce %q to a number", e.Value)
}

func (e *CoercionError) Unwrap() error { return e.Err }

// Project is a raw project record
type Project struct {
	ProjectID   *ID             `json:"project_id" validate:"required"`
	Name        *string         `json:"name" validate:"required"`
	Description *string         `json:"description" validate:"required"`
	Status      *string         `json:"status" validate:"required"`
	Timeline    *Timeline       `json:"timeline" validate:"required"`
	Financials  *Financials     `json:"financials" validate:"required"`
	Metrics     *ProjectMetrics `json:"metrics" validate:"required"`

	ParticipatingDepartments []DepartmentRef `json:"participating_departments"`
}

// Timeline holds project dates
type Timeline struct {
	StartDate    *string `json:"start_date" validate:"required"`
	EndDate      *string `json:"end_date" validate:"required"`
	DurationDays *Number `json:"duration_days" validate:"required"`
}

// Financials holds project money values
type Financials struct {
	Budget        *Number `json:"budget" validate:"required"`
	ActualCost    *Number `json:"actual_cost" validate:"required"`
	Profit        *Number `json:"profit" validate:"required"`
	ROIPercentage *Number `json:"roi_percentage" validate:"required"`
}

// ProjectMetrics holds project progress, risk and priority
type ProjectMetrics struct {
	CompletionPercentage *Number `json:"completion_percentage" validate:"required"`
	RiskLevel            *string `json:"risk_level" validate:"required"`
	Priority             *string `json:"priority" validate:"required"`
}

// DepartmentRef links a project to a participating department
type DepartmentRef struct {
	DepartmentID   *ID    `json:"department_id"`
	DepartmentName string `json:"department_name,omitempty"`
	Role           string `json:"role,omitempty"`
}

// Equipment is a raw equipment record
type Equipment struct {
	EquipmentID     *ID     `json:"equipment_id" validate:"required"`
	Name            *string `json:"name" validate:"required"`
	Type            *string `json:"type" validate:"required"`
	DepartmentID    *ID     `json:"department_id" validate:"required"`
	DepartmentName  *string `json:"department_name" validate:"required"`
	Model           *string `json:"model" validate:"required"`
	Manufacturer    *string `json:"manufacturer" validate:"required"`
	PurchaseDate    *string `json:"purchase_date" validate:"required"`
	Cost            *Number `json:"cost" validate:"required"`
	WarrantyEndDate *string `json:"warranty_end_date" validate:"required"`
	Status          *string `json:"status" validate:"required"`
	Efficiency      *Number `json:"efficiency" validate:"required"`
	MaintenanceCost *Number `json:"maintenance_cost" validate:"required"`
	UtilizationRate *Number `json:"utilization_rate" validate:"required"`
	DailyUsageHours *Number `json:"daily_usage_hours" validate:"required"`
}

// Employee is a raw employee record
type Employee struct {
	EmployeeID     *ID             `json:"employee_id"`
	PersonalInfo   *PersonalInfo   `json:"personal_info" validate:"required"`
	WorkInfo       *WorkInfo       `json:"work_info" validate:"required"`
	AdditionalInfo *AdditionalInfo `json:"additional_info" validate:"required"`
}

// PersonalInfo holds employee identity fields
type PersonalInfo struct {
	FullName *string `json:"full_name" validate:"required"`
}

// WorkInfo holds employee department and compensation fields
type WorkInfo struct {
	DepartmentID     *ID     `json:"department_id" validate:"required"`
	Salary           *Number `json:"salary" validate:"required"`
	PerformanceScore *Number `json:"performance_score" validate:"required"`
}

// AdditionalInfo holds free-form employee attributes
type AdditionalInfo struct {
	LanguageSkills []string `json:"language_skills"`
	Tags           []string `json:"tags"`
}

// KPIMetric is a precomputed per-department summary
type KPIMetric struct {
	DepartmentID   *ID                `json:"department_id" validate:"required"`
	ProjectMetrics *KPIProjectMetrics `json:"project_metrics" validate:"required"`
}

// KPIProjectMetrics holds the department totals
type KPIProjectMetrics struct {
	TotalProfit *Number `json:"total_profit" validate:"required"`
	AverageROI  *Number `json:"average_roi" validate:"required"`
}

// Str dereferences an optional string
func Str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Float dereferences an optional number
func Float(n *Number) float64 {
	if n == nil {
		return 0
	}
	return float64(*n)
}

// IDString dereferences an optional id
func IDString(id *ID) string {
	if id == nil {
		return ""
	}
	return string(*id)
}
