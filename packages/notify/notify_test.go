package notify

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/report"
)

type recordingNotifier struct {
	name  string
	calls []*RunSummary
	err   error
}

func (r *recordingNotifier) Notify(s *RunSummary) error {
	r.calls = append(r.calls, s)
	return r.err
}

func (r *recordingNotifier) Name() string { return r.name }

func run(failed int) *RunSummary {
	return &RunSummary{Total: 12, Passed: 12 - failed, Failed: failed}
}

func TestParseNotifyOn(t *testing.T) {
	n, err := ParseNotifyOn("recovery")
	require.NoError(t, err)
	assert.Equal(t, NotifyRecovery, n)

	n, err = ParseNotifyOn("")
	require.NoError(t, err)
	assert.Equal(t, NotifyFailure, n)

	_, err = ParseNotifyOn("sometimes")
	assert.ErrorContains(t, err, `unknown notify policy "sometimes"`)
}

func TestManager_Policies(t *testing.T) {
	tests := []struct {
		policy NotifyOn
		runs   []int
		want   int
	}{
		{policy: NotifyAlways, runs: []int{0, 1, 0}, want: 3},
		{policy: NotifyFailure, runs: []int{0, 1, 0}, want: 1},
		{policy: NotifySuccess, runs: []int{0, 1, 0}, want: 2},
		{policy: NotifyRecovery, runs: []int{0, 1, 2, 0, 0}, want: 3},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			rec := &recordingNotifier{name: "rec"}
			m := NewManager(tt.policy, rec)
			for _, failed := range tt.runs {
				require.NoError(t, m.Notify(run(failed)))
			}
			assert.Len(t, rec.calls, tt.want)
		})
	}
}

func TestManager_RecoveryFlag(t *testing.T) {
	rec := &recordingNotifier{name: "rec"}
	m := NewManager(NotifyRecovery)
	m.AddNotifier(rec)
	assert.Equal(t, 1, m.Len())

	require.NoError(t, m.Notify(run(2)))
	require.NoError(t, m.Notify(run(0)))

	require.Len(t, rec.calls, 2)
	assert.False(t, rec.calls[0].IsRecovery)
	assert.True(t, rec.calls[1].IsRecovery)
	assert.Equal(t, "EmpowerYouth API recovered!", rec.calls[1].title())
}

func TestManager_JoinsErrors(t *testing.T) {
	ok := &recordingNotifier{name: "ok"}
	bad := &recordingNotifier{name: "slack", err: errors.New("boom")}
	m := NewManager(NotifyAlways, bad, ok)

	err := m.Notify(run(0))
	require.Error(t, err)
	assert.Equal(t, "slack: boom", err.Error())
	assert.Len(t, ok.calls, 1)
}

func TestNewRunSummary(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	scenarios := []*runner.ScenarioResult{
		{Name: "Root Endpoint", Outcome: runner.Pass, Checks: []runner.Result{{Name: "Root Endpoint", Outcome: runner.Pass, Timestamp: now}}},
		{Name: "Dashboard API", Outcome: runner.Fail, Checks: []runner.Result{
			{Name: "Dashboard API", Outcome: runner.Fail, Detail: "Missing fields: [progress]", Timestamp: now},
		}},
	}
	agg := report.NewAggregator(nil)
	for _, sr := range scenarios {
		agg.Add(sr)
	}

	rs := NewRunSummary("http://localhost:3000/api", agg.Summary(), scenarios)

	assert.Equal(t, 2, rs.Total)
	assert.Equal(t, 1, rs.Failed)
	assert.Equal(t, report.NeedsAttention, rs.Verdict)
	require.Len(t, rs.Failures, 1)
	assert.Equal(t, "Dashboard API", rs.Failures[0].Name)
	assert.Equal(t, []string{"Dashboard API: Missing fields: [progress]"}, rs.Failures[0].Errors)
	assert.Equal(t, "1/2 scenarios failed", rs.title())
}

func failingSummary() *RunSummary {
	return &RunSummary{
		BaseURL: "http://localhost:3000/api",
		Total:   12, Passed: 11, Failed: 1, Percentage: 91.7,
		Verdict:  report.MinorIssues,
		Duration: 1500 * time.Millisecond,
		Failures: []FailedScenario{{Name: "Dashboard API", Errors: []string{"Dashboard API: Missing fields: [progress]"}}},
	}
}

func TestSlackNotifier(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(200))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		n := NewSlackNotifier(server.URL, WithSlackChannel("#qa"))
		assert.Equal(t, "slack", n.Name())
		require.NoError(t, n.Notify(failingSummary()))

		info := <-requests
		assert.Equal(t, "application/json", info.Request.Header.Get("Content-Type"))

		var msg slackMessage
		require.NoError(t, json.Unmarshal(info.Body, &msg))
		assert.Equal(t, "#qa", msg.Channel)
		assert.Equal(t, "apiprobe", msg.Username)
		require.Len(t, msg.Attachments, 1)
		a := msg.Attachments[0]
		assert.Equal(t, "danger", a.Color)
		assert.Equal(t, ":x: 1/12 scenarios failed", a.Title)
		assert.Contains(t, a.Text, "`Dashboard API`")
		assert.Contains(t, a.Text, "Missing fields: [progress]")
	})
}

func TestSlackNotifier_ErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithResponse(500, nil, []byte("invalid_payload")), func(server *httptest.Server) {
		err := NewSlackNotifier(server.URL).Notify(run(0))
		require.Error(t, err)
		assert.Equal(t, "slack API returned status 500: invalid_payload", err.Error())
	})
}

func TestTeamsNotifier(t *testing.T) {
	handler, requests := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(202))

	httphelpers.WithServer(handler, func(server *httptest.Server) {
		n := NewTeamsNotifier(server.URL, WithTeamsClient(server.Client()))
		assert.Equal(t, "teams", n.Name())
		require.NoError(t, n.Notify(failingSummary()))

		var msg teamsMessage
		require.NoError(t, json.Unmarshal((<-requests).Body, &msg))
		assert.Equal(t, "message", msg.Type)
		require.Len(t, msg.Attachments, 1)
		body := msg.Attachments[0].Content.Body
		assert.Equal(t, "❌ 1/12 scenarios failed", body[0].Text)
		assert.Equal(t, "attention", body[0].Color)
		assert.Len(t, body[1].Columns, 5)

		var texts []string
		for _, b := range body {
			texts = append(texts, b.Text)
		}
		assert.Contains(t, texts, "- `Dashboard API`")
		assert.Contains(t, texts, "**API:** http://localhost:3000/api")
	})
}

func TestTeamsNotifier_ErrorStatus(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(400), func(server *httptest.Server) {
		err := NewTeamsNotifier(server.URL).Notify(run(0))
		assert.ErrorContains(t, err, "teams API returned status 400")
	})
}
