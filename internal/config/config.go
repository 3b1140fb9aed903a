package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataFile string `yaml:"data_file" envconfig:"DATA_FILE" validate:"required"`
	LogsDir  string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"eq=json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=file stderr both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required_unless=Output stderr"`
}

// AnalysisConfig holds the scope of the working sets and every business
// constant the analyzers depend on.
type AnalysisConfig struct {
	DepartmentID         string `yaml:"department_id" envconfig:"DEPARTMENT_ID" validate:"required"`
	EquipmentTypePattern string `yaml:"equipment_type_pattern" envconfig:"EQUIPMENT_TYPE_PATTERN" validate:"required"`

	LowUtilizationThreshold float64 `yaml:"low_utilization_threshold" envconfig:"LOW_UTILIZATION_THRESHOLD" validate:"gt=0,lte=100"`
	UnderutilizedValueLoss  float64 `yaml:"underutilized_value_loss" envconfig:"UNDERUTILIZED_VALUE_LOSS" validate:"gte=0,lte=1"`

	WarrantyExpiryDays         int `yaml:"warranty_expiry_days" envconfig:"WARRANTY_EXPIRY_DAYS" validate:"gte=0"`
	EquipmentAgeThresholdYears int `yaml:"equipment_age_threshold_years" envconfig:"EQUIPMENT_AGE_THRESHOLD_YEARS" validate:"gt=0"`
	ReplacementCandidates      int `yaml:"replacement_candidates" envconfig:"REPLACEMENT_CANDIDATES" validate:"gt=0"`

	AssumedDailySavings          float64 `yaml:"assumed_daily_savings" envconfig:"ASSUMED_DAILY_SAVINGS" validate:"gt=0"`
	OptimizationSavingsRate      float64 `yaml:"optimization_savings_rate" envconfig:"OPTIMIZATION_SAVINGS_RATE" validate:"gte=0,lte=1"`
	ConsolidationSavingsPerUnit  float64 `yaml:"consolidation_savings_per_unit" envconfig:"CONSOLIDATION_SAVINGS_PER_UNIT" validate:"gte=0"`
	ImplementationCostMultiplier float64 `yaml:"implementation_cost_multiplier" envconfig:"IMPLEMENTATION_COST_MULTIPLIER" validate:"gt=0"`
	AssumedEmployeeCount         int     `yaml:"assumed_employee_count" envconfig:"ASSUMED_EMPLOYEE_COUNT" validate:"gt=0"`

	HighProfitThreshold float64 `yaml:"high_profit_threshold" envconfig:"HIGH_PROFIT_THRESHOLD" validate:"gte=0"`
	ROIIncrease         float64 `yaml:"roi_increase" envconfig:"ROI_INCREASE"`
}

// TelemetryConfig controls tracing and metrics for a run
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled" envconfig:"ENABLED"`
	Environment string  `yaml:"environment" envconfig:"ENVIRONMENT"`
	SampleRatio float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	TraceFile   string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// OutputConfig selects how result bundles are rendered and exported
type OutputConfig struct {
	Format    string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json yaml"`
	XLSXFile  string `yaml:"xlsx_file" envconfig:"XLSX_FILE"`
	CSVDir    string `yaml:"csv_dir" envconfig:"CSV_DIR"`
	NoSummary bool   `yaml:"no_summary" envconfig:"NO_SUMMARY"`
}

// Load builds the configuration from defaults, an optional YAML file and
// OPSINSIGHT_* environment variables, in that order of increasing precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays YAML values onto cfg; keys absent from the file keep
// their current value.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// findConfigFile returns the first config file found in the usual locations
func findConfigFile() string {
	locations := []string{
		"opsinsight.yaml",
		"configs/opsinsight.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Validate checks field constraints and normalizes logging values
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Logging.Output = strings.ToLower(c.Logging.Output)
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}

	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("invalid %s: failed %q constraint", first.Namespace(), first.Tag())
		}
		return err
	}

	return nil
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			DataFile: DefaultDataFile,
			LogsDir:  DefaultLogsDir,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "file",
			FilePath: DefaultLogFile,
		},
		Analysis: AnalysisConfig{
			DepartmentID:                 DefaultDepartmentID,
			EquipmentTypePattern:         DefaultEquipmentTypePattern,
			LowUtilizationThreshold:      DefaultLowUtilizationThreshold,
			UnderutilizedValueLoss:       DefaultUnderutilizedValueLoss,
			WarrantyExpiryDays:           DefaultWarrantyExpiryDays,
			EquipmentAgeThresholdYears:   DefaultEquipmentAgeThresholdYears,
			ReplacementCandidates:        DefaultReplacementCandidates,
			AssumedDailySavings:          DefaultAssumedDailySavings,
			OptimizationSavingsRate:      DefaultOptimizationSavingsRate,
			ConsolidationSavingsPerUnit:  DefaultConsolidationSavingsPerUnit,
			ImplementationCostMultiplier: DefaultImplementationCostMultiplier,
			AssumedEmployeeCount:         DefaultAssumedEmployeeCount,
			HighProfitThreshold:          DefaultHighProfitThreshold,
			ROIIncrease:                  DefaultROIIncrease,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			Environment: "development",
			SampleRatio: 1.0,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
