package report

import (
	"time"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
)

// Entry is one (scenario, outcome) pair of a run. Detail carries the first
// failing check's detail for failed scenarios.
type Entry struct {
	Name    string         `json:"name"`
	Outcome runner.Outcome `json:"outcome"`
	Detail  string         `json:"detail,omitempty"`
}

type CheckCounts struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
	Warn int `json:"warn"`
}

type Summary struct {
	Total      int            `json:"total"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	Percentage float64        `json:"percentage"`
	Verdict    Verdict        `json:"verdict"`
	Checks     CheckCounts    `json:"checks"`
	Duration   time.Duration  `json:"duration"`
	Latency    LatencySummary `json:"latency"`
}

// Aggregator collects scenario results in execution order. Its Add method
// is a runner.Listener.
type Aggregator struct {
	scenarios []*runner.ScenarioResult
	latency   *Latency
}

// NewAggregator returns an empty aggregator. latency may be nil when request
// durations are not recorded.
func NewAggregator(latency *Latency) *Aggregator {
	return &Aggregator{latency: latency}
}

func (a *Aggregator) Add(sr *runner.ScenarioResult) {
	a.scenarios = append(a.scenarios, sr)
}

// Scenarios returns the collected results in execution order.
func (a *Aggregator) Scenarios() []*runner.ScenarioResult {
	return append([]*runner.ScenarioResult(nil), a.scenarios...)
}

func (a *Aggregator) Outcomes() []Entry {
	entries := make([]Entry, len(a.scenarios))
	for i, sr := range a.scenarios {
		entries[i] = Entry{Name: sr.Name, Outcome: sr.Outcome}
		if first, failed := sr.FirstFailure(); failed {
			entries[i].Detail = first.Detail
		}
	}
	return entries
}

func (a *Aggregator) Summary() Summary {
	s := Summary{Total: len(a.scenarios)}

	for _, sr := range a.scenarios {
		if sr.Outcome == runner.Pass {
			s.Passed++
		} else {
			s.Failed++
		}
		s.Checks.Pass += sr.Count(runner.Pass)
		s.Checks.Fail += sr.Count(runner.Fail)
		s.Checks.Warn += sr.Count(runner.Warn)
		s.Duration += sr.Duration
	}

	s.Percentage = Percentage(s.Passed, s.Total)
	s.Verdict = ClassifyVerdict(s.Passed, s.Total)
	if a.latency != nil {
		s.Latency = a.latency.Summary()
	}
	return s
}

// Reset forgets every collected result and recorded latency, for watch mode
// re-runs.
func (a *Aggregator) Reset() {
	a.scenarios = nil
	if a.latency != nil {
		a.latency.Reset()
	}
}
