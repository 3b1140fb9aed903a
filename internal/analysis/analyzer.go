package analysis

import (
	"context"
	"log/slog"
	"time"

	"opsinsight/internal/config"
	apperrors "opsinsight/internal/errors"
)

// Analyzer names, also used as stage ids and result keys
const (
	NameInventory          = "inventory"
	NameUtilization        = "utilization"
	NameCost               = "cost"
	NameReplacement        = "replacement"
	NameOptimization       = "optimization"
	NameProjectsMetrics    = "projects_metrics"
	NamePersonalEfficiency = "personal_efficiency"
	NameLanguage           = "language"
	NameClient             = "client"
	NameROIUp              = "roi_up"
)

// Analyzer computes one metric bundle over a working set
type Analyzer interface {
	// Name returns the analyzer identifier used in logs and result maps
	Name() string

	// Execute computes the bundle and writes its report section. Repeated
	// calls over the same working set return identical values.
	Execute(ctx context.Context) (Result, error)
}

// Result is the structured output of one analyzer
type Result interface {
	AnalyzerName() string

	// Tables returns the tabular parts of the result for exporters
	Tables() []Table
}

// Deps are the collaborators shared by every analyzer
type Deps struct {
	Logger   *slog.Logger
	Reporter Reporter
	Settings config.AnalysisConfig
	// Now is the reference time for age and warranty computations
	Now func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Reporter == nil {
		d.Reporter = NopReporter{}
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// clock returns the current wall-clock time re-anchored to UTC, the zone
// every parsed date lives in, so day differences follow the local calendar.
func (d Deps) clock() time.Time {
	now := d.Now()
	return time.Date(now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
}

// base carries the logging and error handling shared by all analyzers
type base struct {
	name string
	deps Deps
}

func newBase(name string, deps Deps) base {
	return base{name: name, deps: deps.withDefaults()}
}

// Name returns the analyzer identifier
func (b *base) Name() string {
	return b.name
}

// run executes compute and, on success, report. A failing compute is logged
// and returned attributed to the analyzer; nothing is reported for it.
func (b *base) run(ctx context.Context, compute func() (Result, error), report func(Result)) (Result, error) {
	logger := b.deps.Logger
	logger.InfoContext(ctx, "analysis_start", slog.String("analysis", b.name))
	start := time.Now()

	result, err := compute()
	if err != nil {
		err = apperrors.ForAnalyzer(b.name, err)
		logger.ErrorContext(ctx, "analysis_error",
			slog.String("analysis", b.name),
			slog.String("error_type", string(apperrors.GetErrorType(err))),
			slog.String("error", err.Error()))
		return nil, err
	}

	report(result)

	logger.InfoContext(ctx, "analysis_complete",
		slog.String("analysis", b.name),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (b *base) reporter() Reporter {
	return b.deps.Reporter
}

func (b *base) settings() config.AnalysisConfig {
	return b.deps.Settings
}
