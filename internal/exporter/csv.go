package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"opsinsight/internal/analysis"
)

// CSVWriter writes result tables as CSV files into one directory
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer for dir
func NewCSVWriter(dir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: dir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTables writes each table to its own file, numbered in table order,
// and returns the paths written
func (w *CSVWriter) WriteTables(tables []analysis.Table) ([]string, error) {
	paths := make([]string, 0, len(tables))
	for i, t := range tables {
		name := fmt.Sprintf("%02d_%s.csv", i+1, fileSafe(t.Name))
		path := filepath.Join(w.dir, name)

		records := make([][]string, len(t.Rows))
		for r, row := range t.Rows {
			record := make([]string, len(row))
			for c, v := range row {
				record[c] = formatCell(v)
			}
			records[r] = record
		}

		err := w.WriteCSV(path, WriteOptions{
			Headers:   t.Columns,
			Records:   records,
			BOMPrefix: true,
		})
		if err != nil {
			return paths, fmt.Errorf("failed to export table %s: %w", t.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("Writing CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// fileSafe reduces a table name to characters valid in any file system
func fileSafe(name string) string {
	s := strings.Trim(unsafeName.ReplaceAllString(name, "_"), "_")
	if s == "" {
		return "table"
	}
	return s
}
