package analysis

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Reporter receives the human-readable report of each analyzer
type Reporter interface {
	// Section starts a new titled block
	Section(title string)
	// Line writes one formatted line
	Line(format string, args ...interface{})
	// Table writes a table, preceded by its title if set
	Table(t Table)
	// Blank writes an empty line
	Blank()
}

// NopReporter discards everything
type NopReporter struct{}

func (NopReporter) Section(string)              {}
func (NopReporter) Line(string, ...interface{}) {}
func (NopReporter) Table(Table)                 {}
func (NopReporter) Blank()                      {}

// Table is a named grid of cells. Cells hold string, int or float64 values.
type Table struct {
	// Name identifies the table in exports (file or sheet name)
	Name    string
	Title   string
	Columns []string
	Rows    [][]interface{}
}

// Head returns a copy of t limited to the first n rows
func (t Table) Head(n int) Table {
	if n < len(t.Rows) {
		t.Rows = t.Rows[:n]
	}
	return t
}

var printer = message.NewPrinter(language.English)

// Money formats v with thousands separators and no decimals, as in 1,234,567
func Money(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// Plain formats v in the shortest decimal form, without exponent
func Plain(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Sprintf formats with English number grouping
func Sprintf(format string, args ...interface{}) string {
	return printer.Sprintf(format, args...)
}
