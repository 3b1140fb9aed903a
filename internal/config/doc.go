// Package config provides centralized configuration management for opsinsight.
// It loads configuration from multiple sources, validates it, and exposes the
// business constants used by the analyzers as typed fields.
//
// # Configuration Sources
//
// Configuration is resolved in the following order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file (--config, opsinsight.yaml or configs/opsinsight.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern OPSINSIGHT_<SECTION>_<KEY>:
//
//	OPSINSIGHT_PATHS_DATA_FILE=company.json
//	OPSINSIGHT_LOGGING_LEVEL=debug
//	OPSINSIGHT_ANALYSIS_DEPARTMENT_ID=17
//	OPSINSIGHT_TELEMETRY_ENABLED=true
//
// # Example File
//
//	paths:
//	  data_file: company.json
//	logging:
//	  level: info
//	  output: both
//	analysis:
//	  department_id: "17"
//	  low_utilization_threshold: 50
//
// Validation uses go-playground/validator struct tags; an invalid value is
// reported with its full field path.
package config
