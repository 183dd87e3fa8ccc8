package report

import "fmt"

// Verdict is the qualitative reading of a run's pass ratio.
type Verdict int

const (
	AllPassed Verdict = iota
	MinorIssues
	NeedsAttention
)

func (v Verdict) String() string {
	switch v {
	case AllPassed:
		return "all-passed"
	case MinorIssues:
		return "minor-issues"
	case NeedsAttention:
		return "needs-attention"
	default:
		return fmt.Sprintf("Verdict(%d)", int(v))
	}
}

func (v Verdict) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Message is the line printed under the summary.
func (v Verdict) Message() string {
	switch v {
	case AllPassed:
		return "All tests passed! Backend is working correctly."
	case MinorIssues:
		return "Most tests passed. Minor issues detected."
	default:
		return "Multiple test failures. Backend needs attention."
	}
}

// ClassifyVerdict maps passed/total onto a verdict. The 80% boundary is
// inclusive and evaluated in integers, so no float rounding can move it.
// An empty run needs attention.
func ClassifyVerdict(passed, total int) Verdict {
	switch {
	case total <= 0:
		return NeedsAttention
	case passed >= total:
		return AllPassed
	case passed*5 >= total*4:
		return MinorIssues
	default:
		return NeedsAttention
	}
}

// Percentage returns passed/total*100, or 0 for an empty run.
func Percentage(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(passed) / float64(total) * 100
}
