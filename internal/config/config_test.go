package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "opsinsight.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		file        string
		wantErr     string
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults without file or env",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "company.json", cfg.Paths.DataFile)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
				assert.Equal(t, "file", cfg.Logging.Output)
				assert.Equal(t, "logs/opsinsight.log", cfg.Logging.FilePath)
				assert.Equal(t, "17", cfg.Analysis.DepartmentID)
				assert.Equal(t, 50.0, cfg.Analysis.LowUtilizationThreshold)
				assert.Equal(t, 0.5, cfg.Analysis.UnderutilizedValueLoss)
				assert.Equal(t, 365, cfg.Analysis.WarrantyExpiryDays)
				assert.Equal(t, 3, cfg.Analysis.EquipmentAgeThresholdYears)
				assert.Equal(t, 10, cfg.Analysis.ReplacementCandidates)
				assert.Equal(t, 1000.0, cfg.Analysis.AssumedDailySavings)
				assert.Equal(t, 0.15, cfg.Analysis.OptimizationSavingsRate)
				assert.Equal(t, 5000.0, cfg.Analysis.ConsolidationSavingsPerUnit)
				assert.Equal(t, 2.0, cfg.Analysis.ImplementationCostMultiplier)
				assert.Equal(t, 650, cfg.Analysis.AssumedEmployeeCount)
				assert.Equal(t, 200000.0, cfg.Analysis.HighProfitThreshold)
				assert.Equal(t, 5.0, cfg.Analysis.ROIIncrease)
				assert.Equal(t, "text", cfg.Output.Format)
				assert.False(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name: "file overrides defaults",
			file: `
paths:
  data_file: data/snapshot.json
logging:
  level: DEBUG
  output: both
analysis:
  department_id: "21"
  low_utilization_threshold: 40
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data/snapshot.json", cfg.Paths.DataFile)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "both", cfg.Logging.Output)
				assert.Equal(t, "21", cfg.Analysis.DepartmentID)
				assert.Equal(t, 40.0, cfg.Analysis.LowUtilizationThreshold)
				// untouched keys keep their defaults
				assert.Equal(t, 365, cfg.Analysis.WarrantyExpiryDays)
			},
		},
		{
			name: "env overrides file",
			file: `
analysis:
  department_id: "21"
`,
			env: map[string]string{
				"OPSINSIGHT_ANALYSIS_DEPARTMENT_ID": "33",
				"OPSINSIGHT_PATHS_DATA_FILE":        "other.json",
				"OPSINSIGHT_TELEMETRY_ENABLED":      "true",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "33", cfg.Analysis.DepartmentID)
				assert.Equal(t, "other.json", cfg.Paths.DataFile)
				assert.True(t, cfg.Telemetry.Enabled)
			},
		},
		{
			name:    "invalid output format",
			env:     map[string]string{"OPSINSIGHT_OUTPUT_FORMAT": "xml"},
			wantErr: "Config.Output.Format",
		},
		{
			name:    "invalid threshold",
			file:    "analysis:\n  low_utilization_threshold: 150\n",
			wantErr: "LowUtilizationThreshold",
		},
		{
			name:    "malformed yaml",
			file:    "analysis: [unterminated",
			wantErr: "failed to load config from file",
		},
		{
			name:    "env value of wrong type",
			env:     map[string]string{"OPSINSIGHT_ANALYSIS_WARRANTY_EXPIRY_DAYS": "soon"},
			wantErr: "failed to load config from env",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			} else {
				// keep the working directory lookup away from any real file
				path = writeConfigFile(t, "{}\n")
			}

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config from file")
}

func TestValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, Default().Validate())
	})

	t.Run("stderr output does not need a file path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Output = "stderr"
		cfg.Logging.FilePath = ""
		assert.NoError(t, cfg.Validate())
	})

	t.Run("file output needs a file path", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.FilePath = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("empty department is rejected", func(t *testing.T) {
		cfg := Default()
		cfg.Analysis.DepartmentID = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DepartmentID")
	})

	t.Run("empty format falls back to json", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Format = ""
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "json", cfg.Logging.Format)
	})
}
