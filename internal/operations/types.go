package operations

import (
	"time"

	"opsinsight/internal/analysis"
)

// Suite names
const (
	SuiteIT         = "it"
	SuiteCommercial = "commercial"
)

// Stage names; the upper-cased name forms the console banner
const (
	StageNameInventory          = "Equipment Inventory Analysis"
	StageNameUtilization        = "Utilization Efficiency Analysis"
	StageNameCost               = "Cost Analysis"
	StageNameReplacement        = "Replacement Planning Analysis"
	StageNameOptimization       = "Optimization Analysis"
	StageNameProjectsMetrics    = "Projects Metrics Analysis"
	StageNamePersonalEfficiency = "Personal Efficiency Analysis"
	StageNameLanguage           = "Language Skills Analysis"
	StageNameClient             = "Client Priority Analysis"
	StageNameROIUp              = "ROI Growth Analysis"
)

// RunRequest describes one suite run
type RunRequest struct {
	// DataPath is the company document to analyze
	DataPath string
}

// RunResult is everything a run produced. Results and Summary are only
// populated for stages that completed; Summary is nil unless the run
// succeeded.
type RunResult struct {
	ID       string                     `json:"run_id" yaml:"run_id"`
	Suite    string                     `json:"suite" yaml:"suite"`
	Status   RunStatus                  `json:"status" yaml:"status"`
	Duration time.Duration              `json:"duration" yaml:"duration"`
	Stages   []*StageState              `json:"stages" yaml:"stages"`
	Order    []string                   `json:"order" yaml:"order"`
	Results  map[string]analysis.Result `json:"results" yaml:"results"`
	Summary  *Summary                   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Error    string                     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Tables returns the result tables in stage order followed by the summary
func (r *RunResult) Tables() []analysis.Table {
	var tables []analysis.Table
	for _, id := range r.Order {
		if res, ok := r.Results[id]; ok {
			tables = append(tables, res.Tables()...)
		}
	}
	if r.Summary != nil {
		tables = append(tables, r.Summary.Table())
	}
	return tables
}
