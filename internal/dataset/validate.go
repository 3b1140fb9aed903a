package dataset

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "opsinsight/internal/errors"
)

// Collection names as they appear in the document
const (
	CollectionProjects   = "projects"
	CollectionEquipment  = "equipment"
	CollectionEmployees  = "employees"
	CollectionKPIMetrics = "kpi_metrics"
)

// Validator checks raw records against their required shape and reports
// failures with JSON field paths.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a record validator
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Record validates one record of collection at index. The returned error is
// a schema error naming the first offending field.
func (v *Validator) Record(collection string, index int, record interface{}) error {
	err := v.validate.Struct(record)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewSchemaError(collection, index, fieldPath(fe.Namespace()), describe(fe))
	}
	return apperrors.NewSchemaError(collection, index, "", err.Error())
}

// fieldPath drops the leading struct name from a validator namespace
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "missing required field"
	}
	return "failed " + fe.Tag() + " constraint"
}

// RequireEmployeeDepartment checks the one field every employee must carry
// for department scoping.
func RequireEmployeeDepartment(index int, e Employee) error {
	if e.WorkInfo == nil {
		return apperrors.NewSchemaError(CollectionEmployees, index, "work_info", "missing required field")
	}
	if e.WorkInfo.DepartmentID == nil {
		return apperrors.NewSchemaError(CollectionEmployees, index, "work_info.department_id", "missing required field")
	}
	return nil
}

// RequireEquipmentType checks the one field every equipment record must
// carry for category filtering.
func RequireEquipmentType(index int, e Equipment) error {
	if e.Type == nil {
		return apperrors.NewSchemaError(CollectionEquipment, index, "type", "missing required field")
	}
	return nil
}

// RequireKPIDepartment checks the one field every KPI record must carry
func RequireKPIDepartment(index int, k KPIMetric) error {
	if k.DepartmentID == nil {
		return apperrors.NewSchemaError(CollectionKPIMetrics, index, "department_id", "missing required field")
	}
	return nil
}
