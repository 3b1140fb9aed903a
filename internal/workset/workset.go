// Package workset turns a loaded company document into the typed, scoped
// tables the analyzers compute over.
package workset

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"opsinsight/internal/dataset"
	apperrors "opsinsight/internal/errors"
)

// Scope selects which part of the document a working set covers. An empty
// DepartmentID skips projects, employees and KPIs; a nil EquipmentPattern
// skips equipment.
type Scope struct {
	DepartmentID     string
	EquipmentPattern *regexp.Regexp
}

// DepartmentScope returns a scope over one department's projects and staff
func DepartmentScope(departmentID string) Scope {
	return Scope{DepartmentID: departmentID}
}

// EquipmentScope compiles pattern into a scope over matching equipment types
func EquipmentScope(pattern string) (Scope, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Scope{}, apperrors.NewConfigError("invalid equipment type pattern", err).WithContext("pattern", pattern)
	}
	return Scope{EquipmentPattern: re}, nil
}

// ProjectRow is one in-scope project with typed fields
type ProjectRow struct {
	ProjectID            string
	Name                 string
	Description          string
	Status               string
	StartDate            time.Time
	EndDate              time.Time
	DurationDays         float64
	Budget               float64
	ActualCost           float64
	Profit               float64
	ROIPercentage        float64
	CompletionPercentage float64
	RiskLevel            string
	Priority             string
}

// EmployeeRow is one department employee
type EmployeeRow struct {
	EmployeeID       string
	FullName         string
	Salary           float64
	PerformanceScore float64
	LanguageSkills   []string
	Tags             []string
}

// KPIRow is the precomputed summary of one department
type KPIRow struct {
	DepartmentID string
	TotalProfit  float64
	AverageROI   float64
}

// EquipmentRow is one in-category equipment record
type EquipmentRow struct {
	EquipmentID     string
	Name            string
	Type            string
	DepartmentID    string
	DepartmentName  string
	Model           string
	Manufacturer    string
	PurchaseDate    time.Time
	Cost            float64
	WarrantyEndDate time.Time
	Status          string
	Efficiency      float64
	MaintenanceCost float64
	UtilizationRate float64
	DailyUsageHours float64
}

// WorkingSet is the read-only view one analyzer computes over
type WorkingSet struct {
	DepartmentID  string
	Projects      []ProjectRow
	Employees     []EmployeeRow
	EmployeeCount int
	// KPI is the first KPI record of the department, nil when there is none
	KPI       *KPIRow
	Equipment []EquipmentRow
}

// DepartmentKPI returns the department totals, defaulting to zero values
func (ws *WorkingSet) DepartmentKPI() KPIRow {
	if ws.KPI == nil {
		return KPIRow{DepartmentID: ws.DepartmentID}
	}
	return *ws.KPI
}

// TotalActualCost sums actual cost over the in-scope projects
func (ws *WorkingSet) TotalActualCost() float64 {
	var sum float64
	for _, p := range ws.Projects {
		sum += p.ActualCost
	}
	return sum
}

// Builder loads a document and derives a working set for its scope
type Builder struct {
	loader    dataset.Loader
	validator *dataset.Validator
	scope     Scope
	logger    *slog.Logger
}

// NewBuilder creates a working-set builder
func NewBuilder(loader dataset.Loader, scope Scope, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		loader:    loader,
		validator: dataset.NewValidator(),
		scope:     scope,
		logger:    logger,
	}
}

// Build loads path and derives the working set. Any load or schema error
// aborts the build; no partial working set is returned.
func (b *Builder) Build(ctx context.Context, path string) (*WorkingSet, error) {
	doc, err := b.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	ws, err := b.FromDocument(doc)
	if err != nil {
		b.logger.ErrorContext(ctx, "workset_build_error",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	b.logger.InfoContext(ctx, "workset_built",
		slog.String("department_id", ws.DepartmentID),
		slog.Int("projects", len(ws.Projects)),
		slog.Int("employees", ws.EmployeeCount),
		slog.Int("equipment", len(ws.Equipment)),
		slog.Bool("kpi_found", ws.KPI != nil))

	return ws, nil
}

// FromDocument derives the working set from an already loaded document
func (b *Builder) FromDocument(doc *dataset.Document) (*WorkingSet, error) {
	ws := &WorkingSet{DepartmentID: b.scope.DepartmentID}

	if b.scope.DepartmentID != "" {
		if err := b.collectProjects(doc, ws); err != nil {
			return nil, err
		}
		if err := b.collectEmployees(doc, ws); err != nil {
			return nil, err
		}
		if err := b.collectKPI(doc, ws); err != nil {
			return nil, err
		}
	}

	if b.scope.EquipmentPattern != nil {
		if err := b.collectEquipment(doc, ws); err != nil {
			return nil, err
		}
	}

	return ws, nil
}

// collectProjects keeps projects the department participates in. A project
// is added once, on its first matching department entry.
func (b *Builder) collectProjects(doc *dataset.Document, ws *WorkingSet) error {
	for i, p := range doc.Projects {
		if !participates(p, ws.DepartmentID) {
			continue
		}
		if err := b.validator.Record(dataset.CollectionProjects, i, p); err != nil {
			return err
		}
		row, err := projectRow(i, p)
		if err != nil {
			return err
		}
		ws.Projects = append(ws.Projects, row)
	}
	return nil
}

func participates(p dataset.Project, departmentID string) bool {
	for _, d := range p.ParticipatingDepartments {
		if dataset.IDString(d.DepartmentID) == departmentID {
			return true
		}
	}
	return false
}

func projectRow(index int, p dataset.Project) (ProjectRow, error) {
	start, err := parseDate(dataset.CollectionProjects, index, "timeline.start_date", *p.Timeline.StartDate)
	if err != nil {
		return ProjectRow{}, err
	}
	end, err := parseDate(dataset.CollectionProjects, index, "timeline.end_date", *p.Timeline.EndDate)
	if err != nil {
		return ProjectRow{}, err
	}

	return ProjectRow{
		ProjectID:            dataset.IDString(p.ProjectID),
		Name:                 dataset.Str(p.Name),
		Description:          dataset.Str(p.Description),
		Status:               dataset.Str(p.Status),
		StartDate:            start,
		EndDate:              end,
		DurationDays:         dataset.Float(p.Timeline.DurationDays),
		Budget:               dataset.Float(p.Financials.Budget),
		ActualCost:           dataset.Float(p.Financials.ActualCost),
		Profit:               dataset.Float(p.Financials.Profit),
		ROIPercentage:        dataset.Float(p.Financials.ROIPercentage),
		CompletionPercentage: dataset.Float(p.Metrics.CompletionPercentage),
		RiskLevel:            dataset.Str(p.Metrics.RiskLevel),
		Priority:             dataset.Str(p.Metrics.Priority),
	}, nil
}

// collectEmployees checks every employee carries a department and keeps the
// department's own staff.
func (b *Builder) collectEmployees(doc *dataset.Document, ws *WorkingSet) error {
	for i, e := range doc.Employees {
		if err := dataset.RequireEmployeeDepartment(i, e); err != nil {
			return err
		}
		if dataset.IDString(e.WorkInfo.DepartmentID) != ws.DepartmentID {
			continue
		}
		if err := b.validator.Record(dataset.CollectionEmployees, i, e); err != nil {
			return err
		}
		ws.Employees = append(ws.Employees, EmployeeRow{
			EmployeeID:       dataset.IDString(e.EmployeeID),
			FullName:         dataset.Str(e.PersonalInfo.FullName),
			Salary:           dataset.Float(e.WorkInfo.Salary),
			PerformanceScore: dataset.Float(e.WorkInfo.PerformanceScore),
			LanguageSkills:   e.AdditionalInfo.LanguageSkills,
			Tags:             e.AdditionalInfo.Tags,
		})
	}
	ws.EmployeeCount = len(ws.Employees)
	return nil
}

// collectKPI scans KPI records up to the first one of the department
func (b *Builder) collectKPI(doc *dataset.Document, ws *WorkingSet) error {
	for i, k := range doc.KPIMetrics {
		if err := dataset.RequireKPIDepartment(i, k); err != nil {
			return err
		}
		if dataset.IDString(k.DepartmentID) != ws.DepartmentID {
			continue
		}
		if err := b.validator.Record(dataset.CollectionKPIMetrics, i, k); err != nil {
			return err
		}
		ws.KPI = &KPIRow{
			DepartmentID: ws.DepartmentID,
			TotalProfit:  dataset.Float(k.ProjectMetrics.TotalProfit),
			AverageROI:   dataset.Float(k.ProjectMetrics.AverageROI),
		}
		return nil
	}
	return nil
}

// collectEquipment keeps equipment whose type matches the category pattern.
// Non-matching rows are excluded without further checks.
func (b *Builder) collectEquipment(doc *dataset.Document, ws *WorkingSet) error {
	for i, e := range doc.Equipment {
		if err := dataset.RequireEquipmentType(i, e); err != nil {
			return err
		}
		if !b.scope.EquipmentPattern.MatchString(*e.Type) {
			continue
		}
		if err := b.validator.Record(dataset.CollectionEquipment, i, e); err != nil {
			return err
		}
		purchased, err := parseDate(dataset.CollectionEquipment, i, "purchase_date", *e.PurchaseDate)
		if err != nil {
			return err
		}
		warrantyEnd, err := parseDate(dataset.CollectionEquipment, i, "warranty_end_date", *e.WarrantyEndDate)
		if err != nil {
			return err
		}
		ws.Equipment = append(ws.Equipment, EquipmentRow{
			EquipmentID:     dataset.IDString(e.EquipmentID),
			Name:            dataset.Str(e.Name),
			Type:            dataset.Str(e.Type),
			DepartmentID:    dataset.IDString(e.DepartmentID),
			DepartmentName:  dataset.Str(e.DepartmentName),
			Model:           dataset.Str(e.Model),
			Manufacturer:    dataset.Str(e.Manufacturer),
			PurchaseDate:    purchased,
			Cost:            dataset.Float(e.Cost),
			WarrantyEndDate: warrantyEnd,
			Status:          dataset.Str(e.Status),
			Efficiency:      dataset.Float(e.Efficiency),
			MaintenanceCost: dataset.Float(e.MaintenanceCost),
			UtilizationRate: dataset.Float(e.UtilizationRate),
			DailyUsageHours: dataset.Float(e.DailyUsageHours),
		})
	}
	return nil
}

func parseDate(collection string, index int, field, value string) (time.Time, error) {
	t, err := dataset.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.NewSchemaError(collection, index, field, fmt.Sprintf("invalid date %q", value))
	}
	return t, nil
}
