// Package exporter writes analysis results out of the process.
//
// This package contains four components:
//
// ConsoleReporter: the analysis.Reporter used on stdout. Sections are framed
// by separator lines and tables are aligned with text/tabwriter.
//
// WriteResult: serializes a complete run result as JSON or YAML.
//
// CSVWriter: one CSV file per result table, with a UTF-8 BOM for Excel
// compatibility.
//
// XLSXWriter: one workbook with a sheet per result table.
//
// Example usage:
//
//	rep := exporter.NewConsoleReporter(os.Stdout)
//	// ... run a suite with rep as its reporter ...
//
//	csvWriter := exporter.NewCSVWriter("reports", logger)
//	files, err := csvWriter.WriteTables(result.Tables())
//
//	xlsxWriter := exporter.NewXLSXWriter(logger)
//	err = xlsxWriter.WriteFile("reports/it.xlsx", result.Tables())
package exporter
