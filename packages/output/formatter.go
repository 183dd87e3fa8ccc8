package output

import (
	"fmt"
	"io"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

// Formatter renders a run as it happens.
type Formatter interface {
	FormatHeader(version, baseURL string)
	FormatScenario(sr *runner.ScenarioResult)
	FormatError(err error)
}

// Flushable is implemented by formatters that write when the run is over.
type Flushable interface {
	Flush(summary report.Summary, outcomes []report.Entry) error
}

// Formats lists the names accepted by New.
var Formats = []string{"console", "json", "junit", "tap"}

// New returns the formatter for format writing to w. Console options are
// ignored by the other formats.
func New(format string, w io.Writer, opts ...ConsoleOption) (Formatter, error) {
	switch format {
	case "", "console":
		return NewConsoleFormatter(append([]ConsoleOption{WithWriter(w)}, opts...)...), nil
	case "json":
		return NewJSONFormatter(JSONWithWriter(w)), nil
	case "junit":
		return NewJUnitFormatter(JUnitWithWriter(w)), nil
	case "tap":
		return NewTAPFormatter(TAPWithWriter(w)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %v)", format, Formats)
	}
}
