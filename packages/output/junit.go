package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

// JUnit XML structures

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite is one priority tier.
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one scenario.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	SystemOut string        `xml:"system-out,omitempty"`
}

// JUnitFailure represents a test failure
type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

// JUnitFormatter formats test results as JUnit XML
type JUnitFormatter struct {
	writer  io.Writer
	suites  []JUnitTestSuite
	errors  []string
	current map[runner.Priority]int
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer:  os.Stdout,
		suites:  make([]JUnitTestSuite, 0),
		current: make(map[runner.Priority]int),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatHeader(version, baseURL string) {
	// No header needed for JUnit XML
}

func (f *JUnitFormatter) FormatScenario(sr *runner.ScenarioResult) {
	idx, ok := f.current[sr.Priority]
	if !ok {
		f.suites = append(f.suites, JUnitTestSuite{Name: sr.Priority.String()})
		idx = len(f.suites) - 1
		f.current[sr.Priority] = idx
	}
	suite := &f.suites[idx]

	tc := JUnitTestCase{
		Name:      sr.Name,
		ClassName: "apiprobe." + strings.ToLower(sr.Priority.String()),
		Time:      sr.Duration.Seconds(),
	}

	var out, failures strings.Builder
	for _, c := range sr.Checks {
		fmt.Fprintf(&out, "%s %s: %s\n", c.Outcome, c.Name, c.Detail)
		if c.Outcome == runner.Fail {
			fmt.Fprintf(&failures, "%s: %s\n", c.Name, c.Detail)
		}
	}
	tc.SystemOut = out.String()

	if first, failed := sr.FirstFailure(); failed {
		suite.Failures++
		tc.Failure = &JUnitFailure{
			Message: first.Detail,
			Type:    "CheckFailed",
			Content: failures.String(),
		}
	}

	suite.Tests++
	suite.Time += sr.Duration.Seconds()
	suite.TestCases = append(suite.TestCases, tc)
}

func (f *JUnitFormatter) FormatError(err error) {
	f.errors = append(f.errors, err.Error())
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(summary report.Summary, _ []report.Entry) error {
	suites := JUnitTestSuites{
		Name:       "apiprobe",
		Tests:      summary.Total,
		Failures:   summary.Failed,
		Errors:     len(f.errors),
		Time:       summary.Duration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: f.suites,
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	return encoder.Encode(suites)
}
