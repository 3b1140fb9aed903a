package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"opsinsight/internal/analysis"
)

// maxSheetName is the Excel limit on sheet name length
const maxSheetName = 31

// XLSXWriter writes result tables into one workbook
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger}
}

// WriteFile saves tables to path, one sheet per table. The first row of
// every sheet holds the column names.
func (w *XLSXWriter) WriteFile(path string, tables []analysis.Table) error {
	w.logger.Info("Writing XLSX file",
		slog.String("file_path", path),
		slog.Int("sheet_count", len(tables)))

	f := excelize.NewFile()
	defer f.Close()

	used := make(map[string]bool, len(tables))
	var first string
	for i, t := range tables {
		sheet := sheetName(t.Name, i, used)
		if i == 0 {
			first = sheet
		}
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
		if err := writeSheet(f, sheet, t); err != nil {
			return fmt.Errorf("failed to fill sheet %s: %w", sheet, err)
		}
	}

	if len(tables) > 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to remove default sheet: %w", err)
		}
		// indexes shift once the default sheet is gone
		if idx, err := f.GetSheetIndex(first); err == nil && idx >= 0 {
			f.SetActiveSheet(idx)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, t analysis.Table) error {
	for c, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	for r, row := range t.Rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// sheetName derives a unique, valid sheet name from a table name
func sheetName(name string, index int, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, name)
	base = strings.Trim(base, "'")
	if base == "" || strings.EqualFold(base, "Sheet1") {
		base = fmt.Sprintf("table_%d", index+1)
	}

	candidate := truncate(base, maxSheetName)
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf("_%d", n)
		candidate = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
