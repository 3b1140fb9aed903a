// Package errors defines the error taxonomy shared by the loader, the
// working-set builder, the analyzers and the run manager.
package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of an analysis error
type ErrorType string

const (
	// ErrorTypeSource means the input document is missing, unreadable or not valid JSON
	ErrorTypeSource ErrorType = "source"
	// ErrorTypeSchema means a record lacks an expected field or has the wrong shape
	ErrorTypeSchema ErrorType = "schema"
	// ErrorTypeInsufficientData means a metric has an empty denominator population
	ErrorTypeInsufficientData ErrorType = "insufficient_data"
	// ErrorTypeExecution wraps any other failure inside an analyzer
	ErrorTypeExecution ErrorType = "execution"
	// ErrorTypeConfig means the run configuration is invalid
	ErrorTypeConfig ErrorType = "config"
)

// AnalysisError represents a typed failure of a run or of one analyzer
type AnalysisError struct {
	Type     ErrorType              `json:"type"`
	Analyzer string                 `json:"analyzer,omitempty"`
	Message  string                 `json:"message"`
	Cause    error                  `json:"-"`
	Context  map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e == nil {
		return "unknown analysis error"
	}
	msg := e.Message
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.Analyzer != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Analyzer, msg)
	}
	return fmt.Sprintf("[%s] %s", e.Type, msg)
}

// Unwrap returns the underlying error
func (e *AnalysisError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// WithContext attaches a key/value pair and returns the same error
func (e *AnalysisError) WithContext(key string, value interface{}) *AnalysisError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewSourceError creates an error for an inaccessible or unparsable document
func NewSourceError(path string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeSource,
		Message: fmt.Sprintf("data source %s unavailable", path),
		Cause:   cause,
		Context: map[string]interface{}{"path": path},
	}
}

// NewSchemaError creates an error for a record that misses an expected field.
// index is the position of the record inside its collection, or -1 when
// unknown.
func NewSchemaError(collection string, index int, field, message string) *AnalysisError {
	location := collection
	if index >= 0 {
		location = fmt.Sprintf("%s[%d]", collection, index)
	}
	if field != "" {
		location += "." + field
	}
	return &AnalysisError{
		Type:    ErrorTypeSchema,
		Message: fmt.Sprintf("%s: %s", location, message),
		Context: map[string]interface{}{
			"collection": collection,
			"index":      index,
			"field":      field,
		},
	}
}

// NewInsufficientDataError creates an error for an empty population that a
// metric would otherwise divide by
func NewInsufficientDataError(analyzer, metric, reason string) *AnalysisError {
	return &AnalysisError{
		Type:     ErrorTypeInsufficientData,
		Analyzer: analyzer,
		Message:  fmt.Sprintf("cannot compute %s: %s", metric, reason),
		Context:  map[string]interface{}{"metric": metric},
	}
}

// NewExecutionError wraps a failure raised while an analyzer runs
func NewExecutionError(analyzer string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:     ErrorTypeExecution,
		Analyzer: analyzer,
		Message:  "analysis failed",
		Cause:    cause,
	}
}

// NewConfigError creates an error for invalid run configuration
func NewConfigError(message string, cause error) *AnalysisError {
	return &AnalysisError{
		Type:    ErrorTypeConfig,
		Message: message,
		Cause:   cause,
	}
}

// ForAnalyzer returns err attributed to the named analyzer. Typed errors keep
// their type; anything else becomes an execution error.
func ForAnalyzer(analyzer string, err error) error {
	if err == nil {
		return nil
	}
	var aErr *AnalysisError
	if errors.As(err, &aErr) {
		if aErr.Analyzer == "" {
			clone := *aErr
			clone.Analyzer = analyzer
			return &clone
		}
		return err
	}
	return NewExecutionError(analyzer, err)
}

// GetErrorType returns the type of the error, or "" for untyped errors
func GetErrorType(err error) ErrorType {
	var aErr *AnalysisError
	if errors.As(err, &aErr) {
		return aErr.Type
	}
	return ""
}

// IsSourceError reports whether err is a source error
func IsSourceError(err error) bool {
	return GetErrorType(err) == ErrorTypeSource
}

// IsSchemaError reports whether err is a schema error
func IsSchemaError(err error) bool {
	return GetErrorType(err) == ErrorTypeSchema
}

// IsInsufficientData reports whether err is an insufficient-data error
func IsInsufficientData(err error) bool {
	return GetErrorType(err) == ErrorTypeInsufficientData
}
