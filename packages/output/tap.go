package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

// TAPFormatter formats test results in TAP (Test Anything Protocol) format
type TAPFormatter struct {
	writer    io.Writer
	testCount int
	results   []tapResult
	errors    []string
}

type tapResult struct {
	number   int
	name     string
	passed   bool
	failures []string
	warnings []string
}

type TAPOption func(*TAPFormatter)

func NewTAPFormatter(opts ...TAPOption) *TAPFormatter {
	f := &TAPFormatter{
		writer:  os.Stdout,
		results: make([]tapResult, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func TAPWithWriter(w io.Writer) TAPOption {
	return func(f *TAPFormatter) {
		f.writer = w
	}
}

func (f *TAPFormatter) FormatScenario(sr *runner.ScenarioResult) {
	f.testCount++
	tr := tapResult{
		number: f.testCount,
		name:   sr.Name,
		passed: sr.Passed(),
	}

	for _, c := range sr.Checks {
		switch c.Outcome {
		case runner.Fail:
			tr.failures = append(tr.failures, fmt.Sprintf("%s: %s", c.Name, c.Detail))
		case runner.Warn:
			tr.warnings = append(tr.warnings, fmt.Sprintf("%s: %s", c.Name, c.Detail))
		}
	}

	f.results = append(f.results, tr)
}

func (f *TAPFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

func (f *TAPFormatter) FormatHeader(version, baseURL string) {
	// Header is written in Flush
}

// Flush writes the accumulated TAP output
func (f *TAPFormatter) Flush(summary report.Summary, _ []report.Entry) error {
	// TAP version header
	fmt.Fprintf(f.writer, "TAP version 13\n")

	// Test plan
	fmt.Fprintf(f.writer, "1..%d\n", f.testCount)

	for _, r := range f.results {
		if r.passed {
			fmt.Fprintf(f.writer, "ok %d - %s\n", r.number, r.name)
		} else {
			fmt.Fprintf(f.writer, "not ok %d - %s\n", r.number, r.name)
			if len(r.failures) > 0 {
				fmt.Fprintf(f.writer, "  ---\n")
				fmt.Fprintf(f.writer, "  failures:\n")
				for _, msg := range r.failures {
					fmt.Fprintf(f.writer, "    - %s\n", escapeYAML(msg))
				}
				fmt.Fprintf(f.writer, "  ...\n")
			}
		}
		for _, w := range r.warnings {
			fmt.Fprintf(f.writer, "# WARN %s\n", w)
		}
	}

	for _, e := range f.errors {
		fmt.Fprintf(f.writer, "# ERROR %s\n", e)
	}
	fmt.Fprintf(f.writer, "# %d/%d passed (%.1f%%): %s\n",
		summary.Passed, summary.Total, summary.Percentage, summary.Verdict.Message())

	return nil
}

func escapeYAML(s string) string {
	// Simple YAML escaping - wrap in quotes if contains special chars
	if strings.ContainsAny(s, ":\n\"'[]{}#&*!|>%@`") {
		s = strings.ReplaceAll(s, "\"", "\\\"")
		return "\"" + s + "\""
	}
	return s
}
