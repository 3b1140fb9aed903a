package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"opsinsight/internal/analysis"
	"opsinsight/internal/config"
	apperrors "opsinsight/internal/errors"
	"opsinsight/internal/exporter"
	"opsinsight/internal/infrastructure"
	"opsinsight/internal/operations"
	"opsinsight/internal/validation"
)

// shutdownTimeout bounds the telemetry flush at exit
const shutdownTimeout = 5 * time.Second

// runSuite executes one suite and writes every requested output. Run
// failures go to the report stream in text mode and to stderr otherwise;
// either way they are reported as errReported.
func runSuite(ctx context.Context, suiteName string, cfg *config.Config, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logsDir := cfg.Paths.LogsDir

	if err := cfg.ResolvePaths(""); err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}

	logger, logFile, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}
	if logFile != nil {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	tracer, err := operations.NewRunTracer(tel.Tracer, tel.Meter)
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}

	suite, err := operations.SuiteByName(suiteName)
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}
	if cfg.Output.NoSummary {
		suite.Summarizer = nil
	}

	format, err := exporter.ParseFormat(cfg.Output.Format)
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}

	// stdout carries the structured document in json/yaml mode
	var reporter analysis.Reporter = analysis.NopReporter{}
	status := stderr
	if format == exporter.FormatText {
		reporter = exporter.NewConsoleReporter(stdout)
		status = stdout
	}

	manager, err := operations.NewManager(suite, operations.Options{
		Tracer: tracer,
		Deps: analysis.Deps{
			Logger:   logger,
			Reporter: reporter,
			Settings: cfg.Analysis,
		},
	})
	if err != nil {
		fmt.Fprintf(stderr, "CONFIGURATION ERROR: %v\n", err)
		return errReported
	}

	result, err := manager.Execute(ctx, operations.RunRequest{DataPath: cfg.Paths.DataFile})
	if err != nil {
		printRunError(status, err)
		return errReported
	}

	if err := writeOutputs(cfg, format, result, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "\nEXPORT ERROR: %v\n", err)
		return errReported
	}

	fmt.Fprintln(status, "\nANALYSIS COMPLETED SUCCESSFULLY!")
	fmt.Fprintf(status, "Log files generated in '%s/' directory\n", logsDir)
	return nil
}

func printRunError(w io.Writer, err error) {
	if apperrors.IsSourceError(err) {
		fmt.Fprintf(w, "\nFILE ERROR: %v\n", err)
		fmt.Fprintln(w, "Please check the file path and ensure the JSON file exists")
		return
	}
	fmt.Fprintf(w, "\nCRITICAL ERROR DURING ANALYSIS EXECUTION: %v\n", err)
}

// writeOutputs renders the structured document and the table exports
func writeOutputs(cfg *config.Config, format exporter.Format, result *operations.RunResult, stdout io.Writer, logger *slog.Logger) error {
	if err := exporter.WriteResult(stdout, format, result); err != nil {
		return err
	}

	tables := result.Tables()
	validator := validation.NewFileValidator(logger)
	if cfg.Output.CSVDir != "" {
		if err := validator.ValidateOutputDirectory(cfg.Output.CSVDir); err != nil {
			return err
		}
		paths, err := exporter.NewCSVWriter(cfg.Output.CSVDir, logger).WriteTables(tables)
		if err != nil {
			return err
		}
		logger.Info("csv_exported",
			slog.String("dir", cfg.Output.CSVDir),
			slog.Int("file_count", len(paths)))
	}
	if cfg.Output.XLSXFile != "" {
		if err := validator.ValidateOutputDirectory(filepath.Dir(cfg.Output.XLSXFile)); err != nil {
			return err
		}
		if err := exporter.NewXLSXWriter(logger).WriteFile(cfg.Output.XLSXFile, tables); err != nil {
			return err
		}
		logger.Info("xlsx_exported", slog.String("file", cfg.Output.XLSXFile))
	}
	return nil
}

// printConfig writes the effective configuration as YAML
func printConfig(w io.Writer, cfg *config.Config) error {
	return exporter.WriteResult(w, exporter.FormatYAML, cfg)
}
