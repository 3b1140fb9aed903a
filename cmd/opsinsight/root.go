package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"opsinsight/internal/config"
	"opsinsight/internal/operations"
)

// errReported marks a failure whose message was already printed
var errReported = errors.New("analysis failed")

// cliOptions holds the values of the persistent flags
type cliOptions struct {
	configPath  string
	dataPath    string
	format      string
	xlsxFile    string
	csvDir      string
	metricsFile string
	traceFile   string
	noSummary   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:   config.AppName,
		Short: "Descriptive analytics over a company operational snapshot",
		Long: `opsinsight loads a company JSON snapshot (projects, equipment, employees,
KPI metrics) and runs one of two analysis suites over it:

  it           equipment inventory, utilization, cost, replacement and optimization
  commercial   project metrics, personal efficiency, language skills, client
               priorities and ROI growth for the configured department

Configuration is read from defaults, an optional YAML file (--config, or
opsinsight.yaml / configs/opsinsight.yaml) and OPSINSIGHT_* environment
variables. Flags override all of them.

Examples:
  opsinsight it --data company.json
  opsinsight commercial --format json
  opsinsight it --xlsx reports/it.xlsx --csv-dir reports/it
  opsinsight config`,
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to config file (default: opsinsight.yaml)")
	flags.StringVar(&opts.dataPath, "data", "", "Company JSON file (default: "+config.DefaultDataFile+")")
	flags.StringVar(&opts.format, "format", "text", "Output format (text|json|yaml)")
	flags.StringVar(&opts.xlsxFile, "xlsx", "", "Write result tables to this XLSX workbook")
	flags.StringVar(&opts.csvDir, "csv-dir", "", "Write result tables as CSV files into this directory")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Dump Prometheus metrics to this file after the run")
	flags.StringVar(&opts.traceFile, "trace-file", "", "Write OpenTelemetry spans to this file")
	flags.BoolVar(&opts.noSummary, "no-summary", false, "Skip the cross-analyzer summary")

	rootCmd.AddCommand(
		newSuiteCmd(operations.SuiteIT, "Run the IT infrastructure analysis", opts),
		newSuiteCmd(operations.SuiteCommercial, "Run the commercial department analysis", opts),
		newConfigCmd(opts),
	)

	return rootCmd
}

func newSuiteCmd(suite, short string, opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   suite,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "CONFIGURATION ERROR: %v\n", err)
				return errReported
			}
			return runSuite(cmd.Context(), suite, cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
}

func newConfigCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "CONFIGURATION ERROR: %v\n", err)
				return errReported
			}
			return printConfig(cmd.OutOrStdout(), cfg)
		},
	}
}

// loadConfig loads the layered configuration and applies the flags the user
// actually set
func loadConfig(fs *pflag.FlagSet, opts *cliOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "data":
			cfg.Paths.DataFile = opts.dataPath
		case "format":
			cfg.Output.Format = opts.format
		case "xlsx":
			cfg.Output.XLSXFile = opts.xlsxFile
		case "csv-dir":
			cfg.Output.CSVDir = opts.csvDir
		case "no-summary":
			cfg.Output.NoSummary = opts.noSummary
		case "metrics-file":
			cfg.Telemetry.MetricsFile = opts.metricsFile
			cfg.Telemetry.Enabled = true
		case "trace-file":
			cfg.Telemetry.TraceFile = opts.traceFile
			cfg.Telemetry.Enabled = true
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
