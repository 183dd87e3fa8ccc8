package runner

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// Executor issues HTTP requests on behalf of scenarios.
type Executor interface {
	Execute(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Checks is handed to a scenario to build its results with the runner clock.
type Checks struct {
	clock   Clock
	results []Result
}

func (c *Checks) Pass(name, format string, args ...any) {
	c.results = append(c.results, newResult(c.clock, name, Pass, format, args...))
}

func (c *Checks) Fail(name, format string, args ...any) {
	c.results = append(c.results, newResult(c.clock, name, Fail, format, args...))
}

func (c *Checks) Warn(name, format string, args ...any) {
	c.results = append(c.results, newResult(c.clock, name, Warn, format, args...))
}

// Failed reports whether any check recorded so far failed.
func (c *Checks) Failed() bool {
	for _, r := range c.results {
		if r.Outcome == Fail {
			return true
		}
	}
	return false
}

func (c *Checks) Results() []Result {
	return c.results
}

// Func is the body of a scenario.
type Func func(ctx context.Context, exec Executor, state *session.State, checks *Checks)

type Scenario struct {
	Name     string
	Priority Priority
	// Depends names scenarios whose session state this one reads.
	Depends []string
	Run     Func
}

var ErrCircularDependency = errors.New("circular dependency detected in scenarios")

// Plan is a validated, ordered set of scenarios.
type Plan struct {
	order []*Scenario
}

// NewPlan validates the dependency graph and fixes the execution order:
// High before Medium, dependencies before dependents, and declaration order
// among scenarios that are ready at the same time.
func NewPlan(scenarios ...*Scenario) (*Plan, error) {
	index := make(map[string]int, len(scenarios))
	for i, s := range scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario #%d has no name", i+1)
		}
		if s.Run == nil {
			return nil, fmt.Errorf("scenario %q has no body", s.Name)
		}
		if _, dup := index[s.Name]; dup {
			return nil, fmt.Errorf("duplicate scenario %q", s.Name)
		}
		index[s.Name] = i
	}

	inDegree := make([]int, len(scenarios))
	adjacency := make([][]int, len(scenarios))
	for i, s := range scenarios {
		for _, dep := range s.Depends {
			j, ok := index[dep]
			if !ok {
				return nil, fmt.Errorf("scenario %q depends on %q which does not exist", s.Name, dep)
			}
			if scenarios[j].Priority > s.Priority {
				return nil, fmt.Errorf("scenario %q (%s) cannot depend on lower-priority %q (%s)",
					s.Name, s.Priority, dep, scenarios[j].Priority)
			}
			adjacency[j] = append(adjacency[j], i)
			inDegree[i]++
		}
	}

	// Kahn's algorithm; the ready set is kept sorted by (priority, declaration).
	less := func(a, b int) bool {
		if scenarios[a].Priority != scenarios[b].Priority {
			return scenarios[a].Priority < scenarios[b].Priority
		}
		return a < b
	}
	var ready []int
	for i := range scenarios {
		if inDegree[i] == 0 {
			ready = append(ready, i)
		}
	}

	order := make([]*Scenario, 0, len(scenarios))
	for len(ready) > 0 {
		sort.Slice(ready, func(x, y int) bool { return less(ready[x], ready[y]) })
		current := ready[0]
		ready = ready[1:]
		order = append(order, scenarios[current])

		for _, next := range adjacency[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != len(scenarios) {
		return nil, ErrCircularDependency
	}

	return &Plan{order: order}, nil
}

// MustPlan is NewPlan for plans fixed at build time.
func MustPlan(scenarios ...*Scenario) *Plan {
	p, err := NewPlan(scenarios...)
	if err != nil {
		panic(err)
	}
	return p
}

// Order returns the scenarios in execution order.
func (p *Plan) Order() []*Scenario {
	return append([]*Scenario(nil), p.order...)
}

func (p *Plan) Len() int {
	return len(p.order)
}
