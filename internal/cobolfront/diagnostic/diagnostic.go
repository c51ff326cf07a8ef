// Package diagnostic defines the structured error records the front end
// emits and the Reporter interface that decouples the lexer/analyzer from
// how those records are ultimately rendered. Terminal colors and
// box-drawing are the reporter implementation's concern, not the core's
// (spec.md §4.7) — this package only carries a plain ColorHint string so a
// downstream renderer can pick a color without the core importing one.
package diagnostic

import "fmt"

// Severity is the three-level taxonomy of spec.md §7.
type Severity int

const (
	// Recovery: the analyzer can continue parsing past the mismatch.
	Recovery Severity = iota
	// Error: the analyzer continues, but the compilation is unsuccessful.
	Error
	// Fatal: terminate the pipeline immediately.
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Recovery:
		return "recovery"
	case Error:
		return "error"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Well-known diagnostic codes named explicitly in spec.md §7-§8.
const (
	CodeMissingSeparatorPeriod = 25
	CodeDuplicateRootLevel     = 30
	CodeMissingUsingName       = 105
)

// Diagnostic is a single structured error record: severity, numeric code,
// headline, the source excerpt the offending token anchors to, zero or
// more explanatory notes, an optional suggestion, and a color hint a
// renderer may use.
type Diagnostic struct {
	Severity   Severity
	Code       int
	Headline   string
	File       int
	Line       int
	Column     int
	Excerpt    string
	Notes      []string
	Suggestion string
	ColorHint  string
}

// String renders a plain, colorless one-line-plus-notes form, useful for
// tests and for any caller that has no renderer of its own.
func (d Diagnostic) String() string {
	s := fmt.Sprintf("%d:%d: %s %d: %s", d.Line, d.Column, d.Severity, d.Code, d.Headline)
	for _, n := range d.Notes {
		s += "\n  note: " + n
	}
	if d.Suggestion != "" {
		s += "\n  suggestion: " + d.Suggestion
	}
	return s
}

// Reporter is the interface the lexer and analyzer depend on: report a
// diagnostic, and ask how many terminal (≥ Error) diagnostics have been
// reported so far.
type Reporter interface {
	Report(d Diagnostic)
	ErrorCount() int
	Diagnostics() []Diagnostic
}

// Collector is the default Reporter: it accumulates diagnostics in
// report order, exactly as spec.md §6 requires ("ordering matches
// analysis order"), with no formatting opinion at all.
type Collector struct {
	diags      []Diagnostic
	errorCount int
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
	if d.Severity >= Error {
		c.errorCount++
	}
}

func (c *Collector) ErrorCount() int { return c.errorCount }

func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}
