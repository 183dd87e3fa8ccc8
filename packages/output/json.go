package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	BaseURL   string         `json:"baseUrl,omitempty"`
	Version   string         `json:"version,omitempty"`
	Summary   report.Summary `json:"summary"`
	Outcomes  []report.Entry `json:"outcomes"`
	Scenarios []JSONScenario `json:"scenarios"`
	Errors    []string       `json:"errors,omitempty"`
	Time      string         `json:"time"`
}

// JSONScenario represents a single scenario result
type JSONScenario struct {
	Name     string          `json:"name"`
	Priority runner.Priority `json:"priority"`
	Outcome  runner.Outcome  `json:"outcome"`
	Duration float64         `json:"duration"`
	Checks   []runner.Result `json:"checks"`
}

// JSONFormatter formats test results as JSON
type JSONFormatter struct {
	writer    io.Writer
	version   string
	baseURL   string
	scenarios []JSONScenario
	errors    []string
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer:    os.Stdout,
		scenarios: make([]JSONScenario, 0),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatHeader(version, baseURL string) {
	f.version = version
	f.baseURL = baseURL
}

func (f *JSONFormatter) FormatScenario(sr *runner.ScenarioResult) {
	f.scenarios = append(f.scenarios, JSONScenario{
		Name:     sr.Name,
		Priority: sr.Priority,
		Outcome:  sr.Outcome,
		Duration: float64(sr.Duration.Milliseconds()),
		Checks:   sr.Checks,
	})
}

func (f *JSONFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush(summary report.Summary, outcomes []report.Entry) error {
	if outcomes == nil {
		outcomes = []report.Entry{}
	}
	output := JSONOutput{
		BaseURL:   f.baseURL,
		Version:   f.version,
		Summary:   summary,
		Outcomes:  outcomes,
		Scenarios: f.scenarios,
		Errors:    f.errors,
		Time:      time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
