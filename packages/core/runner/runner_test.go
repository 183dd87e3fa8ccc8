package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
)

type nopExecutor struct{ calls int }

func (e *nopExecutor) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	e.calls++
	return &http.Response{StatusCode: 200}, nil
}

func scenario(name string, p Priority, deps []string, body Func) *Scenario {
	return &Scenario{Name: name, Priority: p, Depends: deps, Run: body}
}

func passing(name string) Func {
	return func(ctx context.Context, exec Executor, state *session.State, c *Checks) {
		c.Pass(name, "ok")
	}
}

func names(p *Plan) []string {
	var out []string
	for _, s := range p.Order() {
		out = append(out, s.Name)
	}
	return out
}

func TestNewPlan_DeclarationOrder(t *testing.T) {
	p, err := NewPlan(
		scenario("a", High, nil, passing("a")),
		scenario("b", High, []string{"a"}, passing("b")),
		scenario("c", Medium, []string{"b"}, passing("c")),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, names(p))
	assert.Equal(t, 3, p.Len())
}

func TestNewPlan_DependenciesFirst(t *testing.T) {
	p, err := NewPlan(
		scenario("apply", High, []string{"register"}, passing("apply")),
		scenario("register", High, nil, passing("register")),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"register", "apply"}, names(p))
}

func TestNewPlan_HighTierBeforeMedium(t *testing.T) {
	p, err := NewPlan(
		scenario("chat", Medium, nil, passing("chat")),
		scenario("root", High, nil, passing("root")),
		scenario("jobs", Medium, nil, passing("jobs")),
		scenario("register", High, nil, passing("register")),
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"root", "register", "chat", "jobs"}, names(p))
}

func TestNewPlan_Errors(t *testing.T) {
	tests := []struct {
		name      string
		scenarios []*Scenario
		contains  string
	}{
		{
			name: "unknown dependency",
			scenarios: []*Scenario{
				scenario("a", High, []string{"missing"}, passing("a")),
			},
			contains: "does not exist",
		},
		{
			name: "duplicate",
			scenarios: []*Scenario{
				scenario("a", High, nil, passing("a")),
				scenario("a", High, nil, passing("a")),
			},
			contains: "duplicate",
		},
		{
			name: "cycle",
			scenarios: []*Scenario{
				scenario("a", High, []string{"b"}, passing("a")),
				scenario("b", High, []string{"a"}, passing("b")),
			},
			contains: "circular dependency",
		},
		{
			name: "high depends on medium",
			scenarios: []*Scenario{
				scenario("m", Medium, nil, passing("m")),
				scenario("h", High, []string{"m"}, passing("h")),
			},
			contains: "lower-priority",
		},
		{
			name: "no body",
			scenarios: []*Scenario{
				{Name: "a"},
			},
			contains: "no body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlan(tt.scenarios...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestMustPlan_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustPlan(scenario("a", High, []string{"a"}, passing("a")))
	})
}

func TestRunner_StateFlowsBetweenScenarios(t *testing.T) {
	p := MustPlan(
		scenario("register", High, nil, func(ctx context.Context, exec Executor, s *session.State, c *Checks) {
			s.SetAuthToken("tok")
			c.Pass("register", "token stored")
		}),
		scenario("dashboard", High, []string{"register"}, func(ctx context.Context, exec Executor, s *session.State, c *Checks) {
			if !s.HasAuthToken() {
				c.Fail("dashboard", "No auth token available")
				return
			}
			c.Pass("dashboard", "token %s", s.AuthToken())
		}),
	)

	res := NewRunner(&nopExecutor{}, nil).Run(context.Background(), p)

	require.Len(t, res.Scenarios, 2)
	assert.Equal(t, 2, res.Passed)
	assert.Equal(t, "token tok", res.Scenarios[1].Checks[0].Detail)
}

func TestRunner_FailureDoesNotAbort(t *testing.T) {
	exec := &nopExecutor{}
	p := MustPlan(
		scenario("first", High, nil, func(ctx context.Context, e Executor, s *session.State, c *Checks) {
			c.Fail("first", "broken")
		}),
		scenario("second", High, nil, func(ctx context.Context, e Executor, s *session.State, c *Checks) {
			_, _ = e.Execute(ctx, http.NewRequest(http.MethodGet, "/"))
			c.Pass("second", "ran")
		}),
	)

	res := NewRunner(exec, nil).Run(context.Background(), p)

	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, Fail, res.Scenarios[0].Outcome)
	assert.Equal(t, Pass, res.Scenarios[1].Outcome)
	assert.Equal(t, 1, exec.calls)
}

func TestRunner_WarningsDoNotFailScenario(t *testing.T) {
	p := MustPlan(scenario("chat", Medium, nil, func(ctx context.Context, e Executor, s *session.State, c *Checks) {
		c.Pass("Chat Message 1", "relevant")
		c.Warn("Chat Message 2", "generic")
	}))

	res := NewRunner(&nopExecutor{}, nil).Run(context.Background(), p)

	sr := res.Scenarios[0]
	assert.Equal(t, Pass, sr.Outcome)
	assert.Equal(t, 1, sr.Count(Warn))
	_, failed := sr.FirstFailure()
	assert.False(t, failed)
}

func TestRunner_EmptyScenarioFails(t *testing.T) {
	p := MustPlan(scenario("silent", High, nil, func(ctx context.Context, e Executor, s *session.State, c *Checks) {}))

	res := NewRunner(&nopExecutor{}, nil).Run(context.Background(), p)

	require.Len(t, res.Scenarios[0].Checks, 1)
	assert.Equal(t, "no checks reported", res.Scenarios[0].Checks[0].Detail)
	assert.Equal(t, Fail, res.Scenarios[0].Outcome)
}

func TestRunner_CancelledContextRecordsEveryScenario(t *testing.T) {
	ran := false
	p := MustPlan(
		scenario("a", High, nil, func(ctx context.Context, e Executor, s *session.State, c *Checks) {
			ran = true
			c.Pass("a", "ok")
		}),
		scenario("b", Medium, nil, passing("b")),
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewRunner(&nopExecutor{}, nil).Run(ctx, p)

	assert.False(t, ran)
	require.Len(t, res.Scenarios, 2)
	for _, sr := range res.Scenarios {
		assert.Equal(t, Fail, sr.Outcome)
		assert.Contains(t, sr.Checks[0].Detail, "interrupted")
	}
}

func TestRunner_ListenerAndClock(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	var seen []string
	p := MustPlan(
		scenario("a", High, nil, passing("a")),
		scenario("b", High, nil, passing("b")),
	)

	r := NewRunner(&nopExecutor{}, session.New(),
		WithClock(func() time.Time { return fixed }),
		WithListener(func(sr *ScenarioResult) { seen = append(seen, sr.Name) }),
	)
	res := r.Run(context.Background(), p)

	assert.Equal(t, []string{"a", "b"}, seen)
	assert.Equal(t, fixed, res.Scenarios[0].Checks[0].Timestamp)
	assert.NotNil(t, r.State())
}

func TestOutcomeAndPriorityStrings(t *testing.T) {
	assert.Equal(t, "PASS", Pass.String())
	assert.Equal(t, "FAIL", Fail.String())
	assert.Equal(t, "WARN", Warn.String())
	assert.Equal(t, "HIGH", High.String())
	assert.Equal(t, "MEDIUM", Medium.String())

	text, err := Warn.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "WARN", string(text))
}
