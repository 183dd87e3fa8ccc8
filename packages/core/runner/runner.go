package runner

import (
	"context"
	"time"

	"github.com/empoweryouth/apiprobe/packages/core/session"
)

// Listener receives each scenario decision as soon as it is made.
type Listener func(*ScenarioResult)

type Runner struct {
	exec      Executor
	state     *session.State
	clock     Clock
	listeners []Listener
}

type Option func(*Runner)

// WithListener registers l to be called after every scenario, in order.
func WithListener(l Listener) Option {
	return func(r *Runner) {
		r.listeners = append(r.listeners, l)
	}
}

// WithClock replaces time.Now for check timestamps.
func WithClock(c Clock) Option {
	return func(r *Runner) {
		r.clock = c
	}
}

// NewRunner returns a runner that threads state through every scenario it
// executes. A nil state starts a fresh session.
func NewRunner(exec Executor, state *session.State, opts ...Option) *Runner {
	if state == nil {
		state = session.New()
	}
	r := &Runner{
		exec:  exec,
		state: state,
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the session shared by all scenarios of this runner.
func (r *Runner) State() *session.State {
	return r.state
}

type RunResult struct {
	Scenarios []*ScenarioResult
	Duration  time.Duration
	Passed    int
	Failed    int
}

// Run executes the plan one scenario at a time. It never stops early: every
// scenario gets exactly one decision, even after failures or cancellation.
func (r *Runner) Run(ctx context.Context, plan *Plan) *RunResult {
	start := time.Now()
	result := &RunResult{}

	for _, sc := range plan.Order() {
		sr := r.RunScenario(ctx, sc)
		result.Scenarios = append(result.Scenarios, sr)
		if sr.Passed() {
			result.Passed++
		} else {
			result.Failed++
		}
		for _, l := range r.listeners {
			l(sr)
		}
	}

	result.Duration = time.Since(start)
	return result
}

// RunScenario executes one scenario against the runner's session, outside
// any plan. Listeners are not notified.
func (r *Runner) RunScenario(ctx context.Context, sc *Scenario) *ScenarioResult {
	checks := &Checks{clock: r.clock}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		checks.Fail(sc.Name, "Run interrupted before execution: %v", err)
	} else {
		sc.Run(ctx, r.exec, r.state, checks)
		if len(checks.results) == 0 {
			checks.Fail(sc.Name, "no checks reported")
		}
	}

	return &ScenarioResult{
		Name:     sc.Name,
		Priority: sc.Priority,
		Outcome:  decide(checks.results),
		Checks:   checks.results,
		Duration: time.Since(start),
	}
}
