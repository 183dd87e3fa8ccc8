// Package notify posts apiprobe run summaries to chat webhooks.
package notify

import (
	"errors"
	"fmt"
	"time"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

// NotifyOn specifies when to send notifications
type NotifyOn string

const (
	// NotifyAlways sends notifications for every run
	NotifyAlways NotifyOn = "always"
	// NotifyFailure sends notifications only when a scenario failed
	NotifyFailure NotifyOn = "failure"
	// NotifySuccess sends notifications only when every scenario passed
	NotifySuccess NotifyOn = "success"
	// NotifyRecovery sends notifications on failure and on the first clean run after one
	NotifyRecovery NotifyOn = "recovery"
)

// ParseNotifyOn validates a policy name.
func ParseNotifyOn(s string) (NotifyOn, error) {
	switch n := NotifyOn(s); n {
	case NotifyAlways, NotifyFailure, NotifySuccess, NotifyRecovery:
		return n, nil
	case "":
		return NotifyFailure, nil
	default:
		return "", fmt.Errorf("unknown notify policy %q (want always, failure, success or recovery)", s)
	}
}

// RunSummary is what notifiers send for one run.
type RunSummary struct {
	BaseURL    string           `json:"base_url,omitempty"`
	Total      int              `json:"total"`
	Passed     int              `json:"passed"`
	Failed     int              `json:"failed"`
	Warnings   int              `json:"warnings"`
	Percentage float64          `json:"percentage"`
	Verdict    report.Verdict   `json:"verdict"`
	Duration   time.Duration    `json:"duration"`
	Failures   []FailedScenario `json:"failures,omitempty"`
	IsRecovery bool             `json:"is_recovery,omitempty"`
}

// FailedScenario lists the failed checks of one scenario.
type FailedScenario struct {
	Name   string   `json:"name"`
	Errors []string `json:"errors,omitempty"`
}

// NewRunSummary builds a RunSummary from the aggregated report and the scenario results.
func NewRunSummary(baseURL string, s report.Summary, scenarios []*runner.ScenarioResult) *RunSummary {
	rs := &RunSummary{
		BaseURL:    baseURL,
		Total:      s.Total,
		Passed:     s.Passed,
		Failed:     s.Failed,
		Warnings:   s.Checks.Warn,
		Percentage: s.Percentage,
		Verdict:    s.Verdict,
		Duration:   s.Duration,
	}
	for _, sr := range scenarios {
		if sr.Passed() {
			continue
		}
		fs := FailedScenario{Name: sr.Name}
		for _, c := range sr.Checks {
			if c.Outcome == runner.Fail {
				fs.Errors = append(fs.Errors, fmt.Sprintf("%s: %s", c.Name, c.Detail))
			}
		}
		rs.Failures = append(rs.Failures, fs)
	}
	return rs
}

func (s *RunSummary) title() string {
	switch {
	case s.Failed > 0:
		return fmt.Sprintf("%d/%d scenarios failed", s.Failed, s.Total)
	case s.IsRecovery:
		return "EmpowerYouth API recovered!"
	default:
		return s.Verdict.Message()
	}
}

// Notifier is the interface for notification services
type Notifier interface {
	// Notify sends a notification about a run
	Notify(summary *RunSummary) error

	// Name returns the name of the notifier
	Name() string
}

// Manager applies a NotifyOn policy across notifiers. It remembers the
// previous run's result so recovery can be detected in watch mode.
type Manager struct {
	notifiers []Notifier
	notifyOn  NotifyOn
	lastState bool // true if last run was successful
}

// NewManager creates a new notification manager
func NewManager(notifyOn NotifyOn, notifiers ...Notifier) *Manager {
	return &Manager{
		notifiers: notifiers,
		notifyOn:  notifyOn,
		lastState: true,
	}
}

// AddNotifier adds a notifier to the manager
func (m *Manager) AddNotifier(n Notifier) {
	m.notifiers = append(m.notifiers, n)
}

// Len returns the number of configured notifiers.
func (m *Manager) Len() int {
	return len(m.notifiers)
}

// Notify sends notifications based on the configured policy. Every notifier
// is tried; their errors are joined.
func (m *Manager) Notify(summary *RunSummary) error {
	shouldNotify := false
	currentSuccess := summary.Failed == 0

	switch m.notifyOn {
	case NotifyAlways:
		shouldNotify = true
	case NotifyFailure:
		shouldNotify = !currentSuccess
	case NotifySuccess:
		shouldNotify = currentSuccess
	case NotifyRecovery:
		if !m.lastState && currentSuccess {
			shouldNotify = true
			summary.IsRecovery = true
		}
		if !currentSuccess {
			shouldNotify = true
		}
	}

	m.lastState = currentSuccess

	if !shouldNotify {
		return nil
	}

	var errs []error
	for _, n := range m.notifiers {
		if err := n.Notify(summary); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
