package exporter

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"opsinsight/internal/analysis"
)

// separatorWidth is the width of section separator lines
const separatorWidth = 70

// ConsoleReporter prints the human-readable report
type ConsoleReporter struct {
	w io.Writer
}

// NewConsoleReporter creates a reporter writing to w
func NewConsoleReporter(w io.Writer) *ConsoleReporter {
	return &ConsoleReporter{w: w}
}

// Section prints title framed by separator lines
func (r *ConsoleReporter) Section(title string) {
	sep := strings.Repeat("=", separatorWidth)
	fmt.Fprintln(r.w, sep)
	fmt.Fprintln(r.w, title)
	fmt.Fprintln(r.w, sep)
}

// Line prints one formatted line
func (r *ConsoleReporter) Line(format string, args ...interface{}) {
	fmt.Fprintf(r.w, format, args...)
	fmt.Fprintln(r.w)
}

// Table prints t with aligned columns, preceded by its title
func (r *ConsoleReporter) Table(t analysis.Table) {
	if t.Title != "" {
		fmt.Fprintln(r.w, t.Title)
	}
	if len(t.Columns) == 0 {
		return
	}

	tw := tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns, "\t"))

	seps := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		seps[i] = strings.Repeat("-", len(col))
	}
	fmt.Fprintln(tw, strings.Join(seps, "\t"))

	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = formatCell(v)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if len(t.Rows) == 0 {
		fmt.Fprintln(tw, "(no rows)")
	}
	tw.Flush()
}

// Blank prints an empty line
func (r *ConsoleReporter) Blank() {
	fmt.Fprintln(r.w)
}
