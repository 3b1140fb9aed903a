package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	apperrors "opsinsight/internal/errors"
)

// Loader reads a company document
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}

// FileLoader loads documents from the local file system
type FileLoader struct {
	logger *slog.Logger
}

// NewFileLoader creates a file loader
func NewFileLoader(logger *slog.Logger) *FileLoader {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileLoader{logger: logger}
}

// Load reads and decodes the document at path. A missing or unreadable
// file and invalid JSON are source errors; a value of the wrong type is a
// schema error.
func (l *FileLoader) Load(ctx context.Context, path string) (*Document, error) {
	l.logger.DebugContext(ctx, "data_load_start", slog.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.ErrorContext(ctx, "data_load_error",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, apperrors.NewSourceError(path, err)
	}

	doc, err := Decode(path, data)
	if err != nil {
		l.logger.ErrorContext(ctx, "data_load_error",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return nil, err
	}

	l.logger.DebugContext(ctx, "data_load_success",
		slog.String("path", path),
		slog.Int("projects", len(doc.Projects)),
		slog.Int("equipment", len(doc.Equipment)),
		slog.Int("employees", len(doc.Employees)),
		slog.Int("kpi_metrics", len(doc.KPIMetrics)))

	return doc, nil
}

// Decode parses a document; path is only used in error messages
func Decode(path string, data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, classifyDecodeError(path, err)
	}
	return &doc, nil
}

func classifyDecodeError(path string, err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return apperrors.NewSourceError(path, fmt.Errorf("document is a JSON %s, not an object", typeErr.Value))
		}
		collection, field := splitField(typeErr.Field)
		return apperrors.NewSchemaError(collection, -1, field, fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value))
	}

	var coerceErr *CoercionError
	if errors.As(err, &coerceErr) {
		return apperrors.NewSchemaError("document", -1, "", coerceErr.Error())
	}

	return apperrors.NewSourceError(path, err)
}

func splitField(field string) (string, string) {
	parts := strings.SplitN(field, ".", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// dateLayouts are the accepted date formats, tried in order
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a date string in any supported layout
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
