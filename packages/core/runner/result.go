package runner

import (
	"fmt"
	"time"
)

// Outcome classifies a single check.
type Outcome int

const (
	Pass Outcome = iota
	Fail
	Warn
)

func (o Outcome) String() string {
	switch o {
	case Pass:
		return "PASS"
	case Fail:
		return "FAIL"
	case Warn:
		return "WARN"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Priority is the tier a scenario belongs to. High scenarios run first.
type Priority int

const (
	High Priority = iota
	Medium
)

func (p Priority) String() string {
	switch p {
	case High:
		return "HIGH"
	case Medium:
		return "MEDIUM"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Result is the outcome of one check inside a scenario. Treat it as
// immutable once created.
type Result struct {
	Name      string    `json:"name"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Clock returns the current time; tests substitute a fixed one.
type Clock func() time.Time

func newResult(clock Clock, name string, outcome Outcome, format string, args ...any) Result {
	detail := format
	if len(args) > 0 {
		detail = fmt.Sprintf(format, args...)
	}
	return Result{Name: name, Outcome: outcome, Detail: detail, Timestamp: clock()}
}

// ScenarioResult is the single decision recorded for a scenario.
type ScenarioResult struct {
	Name     string        `json:"name"`
	Priority Priority      `json:"priority"`
	Outcome  Outcome       `json:"outcome"`
	Checks   []Result      `json:"checks"`
	Duration time.Duration `json:"duration"`
}

// Passed reports whether no check failed. Warnings are advisory.
func (r *ScenarioResult) Passed() bool {
	return r.Outcome == Pass
}

// FirstFailure returns the first failing check, if any.
func (r *ScenarioResult) FirstFailure() (Result, bool) {
	for _, c := range r.Checks {
		if c.Outcome == Fail {
			return c, true
		}
	}
	return Result{}, false
}

// Count returns how many checks ended with the given outcome.
func (r *ScenarioResult) Count(o Outcome) int {
	n := 0
	for _, c := range r.Checks {
		if c.Outcome == o {
			n++
		}
	}
	return n
}

func decide(checks []Result) Outcome {
	if len(checks) == 0 {
		return Fail
	}
	for _, c := range checks {
		if c.Outcome == Fail {
			return Fail
		}
	}
	return Pass
}
