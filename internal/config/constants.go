package config

// Application constants
const (
	AppName    = "opsinsight"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment override (OPSINSIGHT_PATHS_DATA_FILE, ...)
	EnvPrefix = "OPSINSIGHT"

	DefaultDataFile = "company.json"
	DefaultLogsDir  = "logs"
	DefaultLogFile  = "logs/opsinsight.log"
)

// Analysis defaults. These values reproduce the reference reports exactly;
// change them through configuration rather than here.
const (
	// DefaultDepartmentID is the commercial/sales department
	DefaultDepartmentID = "17"

	// DefaultEquipmentTypePattern matches IT equipment types in English and Russian
	DefaultEquipmentTypePattern = `(?i)(server|computer|workstation|desktop|laptop|notebook|monitor|display|printer|mfp|scanner|network|router|switch|firewall|access point|сервер|компьютер|рабочая станция|ноутбук|монитор|принтер|мфу|сканер|сетев|маршрутизатор|коммутатор)`

	DefaultLowUtilizationThreshold = 50.0
	DefaultUnderutilizedValueLoss  = 0.5

	DefaultWarrantyExpiryDays         = 365
	DefaultEquipmentAgeThresholdYears = 3
	DefaultReplacementCandidates      = 10

	DefaultAssumedDailySavings          = 1000.0
	DefaultOptimizationSavingsRate      = 0.15
	DefaultConsolidationSavingsPerUnit  = 5000.0
	DefaultImplementationCostMultiplier = 2.0
	DefaultAssumedEmployeeCount         = 650

	DefaultHighProfitThreshold = 200000.0
	DefaultROIIncrease         = 5.0
)

// Language skill names as they appear in employee records
const (
	LanguageEnglish = "Английский"
	LanguageRussian = "Русский"
	LanguageGerman  = "Немецкий"
)

// Priority and risk levels used by project metrics
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)
