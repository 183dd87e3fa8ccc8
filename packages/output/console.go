package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	sectionWidth    = 60
	summaryWidth    = 80
)

type ConsoleFormatter struct {
	writer   io.Writer
	verbose  bool
	noColor  bool
	lastTier runner.Priority
	started  bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func marker(o runner.Outcome) string {
	switch o {
	case runner.Pass:
		return color.New(color.FgGreen).Sprint("✓")
	case runner.Fail:
		return color.New(color.FgRed).Sprint("✗")
	default:
		return color.New(color.FgYellow).Sprint("⚠")
	}
}

func (f *ConsoleFormatter) FormatHeader(version, baseURL string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("apiprobe"), version)
	fmt.Fprintf(f.writer, "Starting EmpowerYouth Backend API Tests against %s\n", baseURL)
	fmt.Fprintln(f.writer, strings.Repeat("=", summaryWidth))
}

func (f *ConsoleFormatter) FormatScenario(sr *runner.ScenarioResult) {
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	if !f.started || sr.Priority != f.lastTier {
		fmt.Fprintf(f.writer, "\n%s\n", bold(sr.Priority.String()+" PRIORITY TESTS"))
		f.started = true
		f.lastTier = sr.Priority
	}

	fmt.Fprintln(f.writer, strings.Repeat("=", sectionWidth))
	fmt.Fprintf(f.writer, "TESTING: %s\n", sr.Name)
	fmt.Fprintln(f.writer, strings.Repeat("=", sectionWidth))

	for _, c := range sr.Checks {
		fmt.Fprintf(f.writer, "[%s] %s %s: %s\n", c.Timestamp.Format(timestampLayout), marker(c.Outcome), c.Name, c.Outcome)
		if c.Detail != "" {
			fmt.Fprintf(f.writer, "    Details: %s\n", c.Detail)
		}
		fmt.Fprintln(f.writer)
	}

	if f.verbose {
		fmt.Fprintf(f.writer, "%s\n", faint(fmt.Sprintf("(%s in %dms)", sr.Name, sr.Duration.Milliseconds())))
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

// Flush prints the run summary.
func (f *ConsoleFormatter) Flush(summary report.Summary, outcomes []report.Entry) error {
	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	rule := strings.Repeat("=", summaryWidth)
	fmt.Fprintf(f.writer, "\n%s\n%s\n%s\n", rule, bold("TEST SUMMARY"), rule)

	for _, e := range outcomes {
		if e.Outcome == runner.Fail && e.Detail != "" {
			fmt.Fprintf(f.writer, "%s %s %s: %s\n", marker(e.Outcome), e.Outcome, e.Name, e.Detail)
			continue
		}
		fmt.Fprintf(f.writer, "%s %s %s\n", marker(e.Outcome), e.Outcome, e.Name)
	}

	fmt.Fprintf(f.writer, "\nOverall Result: %d/%d tests passed (%.1f%%)\n",
		summary.Passed, summary.Total, summary.Percentage)

	switch summary.Verdict {
	case report.AllPassed:
		fmt.Fprintln(f.writer, green(summary.Verdict.Message()))
	case report.MinorIssues:
		fmt.Fprintln(f.writer, yellow(summary.Verdict.Message()))
	default:
		fmt.Fprintln(f.writer, red(summary.Verdict.Message()))
	}

	fmt.Fprintf(f.writer, "Checks: %d passed, %d failed, %d warnings\n",
		summary.Checks.Pass, summary.Checks.Fail, summary.Checks.Warn)

	if l := summary.Latency; l.Count > 0 {
		fmt.Fprintf(f.writer, "Latency: %d requests, min %s, p50 %s, p95 %s, p99 %s, max %s\n",
			l.Count, ms(l.Min), ms(l.P50), ms(l.P95), ms(l.P99), ms(l.Max))
	}
	if f.verbose {
		fmt.Fprintf(f.writer, "Time: %dms\n", summary.Duration.Milliseconds())
	}
	fmt.Fprintln(f.writer)
	return nil
}

func ms(d time.Duration) string {
	return d.Round(100 * time.Microsecond).String()
}
