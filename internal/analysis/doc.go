// Package analysis implements the analyzers of the IT infrastructure and
// commercial department reports.
//
// Every analyzer is built over a workset.WorkingSet and a Deps bundle
// (logger, reporter, business settings and clock). Execute computes the
// metric bundle, writes the report section through the Reporter and returns
// a typed Result. Computation never mutates the working set, so Execute can
// be called repeatedly with identical results.
//
// IT analyzers: Inventory, Utilization, Cost, Replacement, Optimization.
// Commercial analyzers: ProjectsMetrics, PersonalEfficiency, Language,
// Client, ROIUp.
//
// Empty populations that would make a metric undefined produce an
// insufficient data error from internal/errors instead of a NaN or panic.
package analysis
