package suite

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
	"github.com/empoweryouth/apiprobe/packages/logging"
	"github.com/empoweryouth/apiprobe/packages/mock"
)

func newMockAPI(t *testing.T, opts ...mock.Option) string {
	t.Helper()
	srv := mock.NewServer(append([]mock.Option{mock.WithLogger(logging.NullLogger())}, opts...)...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + mock.DefaultPrefix
}

func newRunner(baseURL string, state *session.State) *runner.Runner {
	client := http.NewClient(baseURL, http.WithTokenSource(state))
	return runner.NewRunner(client, state)
}

func runPlan(t *testing.T, baseURL string) (*runner.RunResult, *session.State) {
	t.Helper()
	state := session.New()
	return newRunner(baseURL, state).Run(context.Background(), DefaultPlan()), state
}

func byName(res *runner.RunResult) map[string]*runner.ScenarioResult {
	out := make(map[string]*runner.ScenarioResult, len(res.Scenarios))
	for _, sr := range res.Scenarios {
		out[sr.Name] = sr
	}
	return out
}

func findCheck(sr *runner.ScenarioResult, name string) (runner.Result, bool) {
	for _, c := range sr.Checks {
		if c.Name == name {
			return c, true
		}
	}
	return runner.Result{}, false
}

var planOrder = []string{
	RootEndpoint, UserRegistration, DuplicateEmail, AuthTokenValidation, InvalidTokenHandling,
	CareerAssessment, DashboardAPI, AIChatbot, JobsAPI, CoursesAPI, JobApplication, AuthenticationProtection,
}

func TestDefaultPlan_OrderIsDeclarationOrder(t *testing.T) {
	var got []string
	for _, sc := range DefaultPlan().Order() {
		got = append(got, sc.Name)
	}
	assert.Equal(t, planOrder, got)
}

func TestUniqueEmail(t *testing.T) {
	a, b := UniqueEmail(), UniqueEmail()
	assert.Regexp(t, `^priya\.sharma\.[0-9a-f]{8}@example\.com$`, a)
	assert.NotEqual(t, a, b)
}

func TestSuite_AgainstMockAPI(t *testing.T) {
	res, state := runPlan(t, newMockAPI(t))

	require.Len(t, res.Scenarios, 12)
	for _, sr := range res.Scenarios {
		failure, failed := sr.FirstFailure()
		assert.False(t, failed, "%s: %s %s", sr.Name, failure.Name, failure.Detail)
		assert.Zero(t, sr.Count(runner.Warn), sr.Name)
	}
	assert.Equal(t, 12, res.Passed)
	assert.Equal(t, 0, res.Failed)

	snap := state.Snapshot()
	assert.NotEmpty(t, snap.AuthToken)
	assert.NotEmpty(t, snap.UserID)
	assert.NotEmpty(t, snap.ChatSessionID)
	assert.NotEmpty(t, snap.JobID)

	scenarios := byName(res)
	continuity, ok := findCheck(scenarios[AIChatbot], "Chat Session Continuity")
	require.True(t, ok)
	assert.Contains(t, continuity.Detail, "3 follow-up messages")

	assert.Len(t, scenarios[AuthenticationProtection].Checks, 7)
	_, ok = findCheck(scenarios[AuthenticationProtection], "Auth Required /dashboard")
	assert.True(t, ok)

	_, ok = findCheck(scenarios[UserRegistration], "User Data Validation")
	assert.True(t, ok)
	_, ok = findCheck(scenarios[AuthTokenValidation], "Auth Token Idempotence")
	assert.True(t, ok)
}

func TestSuite_DashboardMissingKeyFails(t *testing.T) {
	res, _ := runPlan(t, newMockAPI(t, mock.WithoutDashboardKeys("progress")))

	dashboard := byName(res)[DashboardAPI]
	assert.Equal(t, runner.Fail, dashboard.Outcome)
	failure, _ := dashboard.FirstFailure()
	assert.Equal(t, "Missing fields: [progress]", failure.Detail)
	assert.Equal(t, 11, res.Passed)
}

func TestSuite_ChangingChatSessionIsAdvisory(t *testing.T) {
	res, _ := runPlan(t, newMockAPI(t, mock.WithRotatingChatSessions(true)))

	chat := byName(res)[AIChatbot]
	assert.Equal(t, runner.Pass, chat.Outcome)
	continuity, ok := findCheck(chat, "Chat Session Continuity")
	require.True(t, ok)
	assert.Equal(t, runner.Warn, continuity.Outcome)
	assert.Equal(t, 12, res.Passed)
}

func TestSuite_UnreachableAPI(t *testing.T) {
	ts := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := ts.URL
	ts.Close()

	res, state := runPlan(t, url)

	assert.Equal(t, 0, res.Passed)
	assert.Equal(t, 12, res.Failed)
	assert.False(t, state.HasAuthToken())

	scenarios := byName(res)
	failure, _ := scenarios[UserRegistration].FirstFailure()
	assert.Contains(t, failure.Detail, "Request failed:")
	failure, _ = scenarios[CareerAssessment].FirstFailure()
	assert.Equal(t, "No auth token available", failure.Detail)
	assert.Equal(t, 7, scenarios[AuthenticationProtection].Count(runner.Fail))
}

type countingExecutor struct{ calls int }

func (e *countingExecutor) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	e.calls++
	return &http.Response{StatusCode: 500}, nil
}

func TestPreconditions_NoNetworkCallWithoutToken(t *testing.T) {
	gated := map[string]bool{
		AuthTokenValidation: true, CareerAssessment: true, DashboardAPI: true,
		AIChatbot: true, JobsAPI: true, CoursesAPI: true, JobApplication: true,
	}

	for _, sc := range Scenarios(DefaultFixtures()) {
		if !gated[sc.Name] {
			continue
		}
		t.Run(sc.Name, func(t *testing.T) {
			exec := &countingExecutor{}
			sr := runner.NewRunner(exec, session.New()).RunScenario(context.Background(), sc)

			assert.Equal(t, 0, exec.calls)
			require.Len(t, sr.Checks, 1)
			assert.Equal(t, runner.Fail, sr.Outcome)
			assert.Equal(t, "No auth token available", sr.Checks[0].Detail)
		})
	}
}

func scenarioAgainst(t *testing.T, handler nethttp.Handler, state *session.State, name string) (*runner.ScenarioResult, <-chan httphelpers.HTTPRequestInfo) {
	t.Helper()
	recording, requests := httphelpers.RecordingHandler(handler)
	ts := httptest.NewServer(recording)
	t.Cleanup(ts.Close)

	for _, sc := range Scenarios(DefaultFixtures()) {
		if sc.Name == name {
			return newRunner(ts.URL, state).RunScenario(context.Background(), sc), requests
		}
	}
	t.Fatalf("no scenario %q", name)
	return nil, nil
}

func jsonHandler(status int, body string) nethttp.Handler {
	headers := nethttp.Header{"Content-Type": {"application/json"}}
	return httphelpers.HandlerWithResponse(status, headers, []byte(body))
}

func TestInvalidTokenHandling(t *testing.T) {
	sr, requests := scenarioAgainst(t, jsonHandler(401, `{"error":"Invalid token"}`), session.New(), InvalidTokenHandling)
	assert.Equal(t, runner.Pass, sr.Outcome)
	assert.Equal(t, "Bearer invalid_token_123", (<-requests).Request.Header.Get("Authorization"))

	sr, _ = scenarioAgainst(t, jsonHandler(200, `{"id":"u-1"}`), session.New(), InvalidTokenHandling)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Contains(t, sr.Checks[0].Detail, "Expected 401, got 200")

	sr, _ = scenarioAgainst(t, jsonHandler(401, `{}`), session.New(), InvalidTokenHandling)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Contains(t, sr.Checks[0].Detail, "Missing error message")
}

func TestDuplicateEmail_MessageMatchIsCaseInsensitive(t *testing.T) {
	sr, _ := scenarioAgainst(t, jsonHandler(400, `{"error":"USER ALREADY EXISTS"}`), session.New(), DuplicateEmail)
	assert.Equal(t, runner.Pass, sr.Outcome)

	sr, _ = scenarioAgainst(t, jsonHandler(400, `{"error":"Bad request"}`), session.New(), DuplicateEmail)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Equal(t, "Unexpected error message: Bad request", sr.Checks[0].Detail)

	sr, _ = scenarioAgainst(t, jsonHandler(200, `{"user":{},"token":"t"}`), session.New(), DuplicateEmail)
	assert.Contains(t, sr.Checks[0].Detail, "Expected 400, got 200")
}

func TestUserRegistration_StoresTokenOnlyOnSuccess(t *testing.T) {
	state := session.New()
	sr, _ := scenarioAgainst(t, jsonHandler(200, `{"token":"t-1"}`), state, UserRegistration)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Contains(t, sr.Checks[0].Detail, "user is required")
	assert.False(t, state.HasAuthToken())

	body := `{"user":{"id":"u-1","name":"Someone Else","email":"x@example.com","phone":"1"},"token":"t-1"}`
	sr, _ = scenarioAgainst(t, jsonHandler(200, body), state, UserRegistration)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Equal(t, "t-1", state.AuthToken())
	assert.Equal(t, "u-1", state.UserID())
	dataCheck, ok := findCheck(sr, "User Data Validation")
	require.True(t, ok)
	assert.Equal(t, "User data mismatch: name, email, phone", dataCheck.Detail)
}

func TestAuthTokenValidation_IDMismatch(t *testing.T) {
	state := session.New()
	state.SetAuthToken("tok")
	state.SetUserID("u-1")

	sr, requests := scenarioAgainst(t, jsonHandler(200, `{"id":"u-2","name":"Priya"}`), state, AuthTokenValidation)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Contains(t, sr.Checks[0].Detail, "User ID mismatch")
	assert.Equal(t, "Bearer tok", (<-requests).Request.Header.Get("Authorization"))
}

func TestCareerAssessment_InvalidSkillStructure(t *testing.T) {
	state := session.New()
	state.SetAuthToken("tok")

	sr, _ := scenarioAgainst(t, jsonHandler(200, `{"success":true,"skillVector":[{"name":"Python"}]}`), state, CareerAssessment)
	assert.Equal(t, runner.Fail, sr.Outcome)
	check, ok := findCheck(sr, "Skill Vector Generation")
	require.True(t, ok)
	assert.Contains(t, check.Detail, "missing fields: [level]")

	sr, _ = scenarioAgainst(t, jsonHandler(200, `{"success":true,"skillVector":[]}`), state, CareerAssessment)
	assert.Equal(t, "Empty skill vector", sr.Checks[0].Detail)
}

func TestCoursesAPI_UnexpectedProviderWarns(t *testing.T) {
	state := session.New()
	state.SetAuthToken("tok")
	body := `{"courses":[{"id":"c1","title":"Go","provider":"Udemy","description":"d","duration":"1 week","skills":["Go"]}]}`

	sr, _ := scenarioAgainst(t, jsonHandler(200, body), state, CoursesAPI)
	assert.Equal(t, runner.Pass, sr.Outcome)
	check, ok := findCheck(sr, "Course Providers")
	require.True(t, ok)
	assert.Equal(t, runner.Warn, check.Outcome)
	assert.Equal(t, "Unexpected providers: [Udemy]", check.Detail)
}

func TestCoursesAPI_MixedProvidersPass(t *testing.T) {
	state := session.New()
	state.SetAuthToken("tok")
	body := `{"courses":[` +
		`{"id":"c1","title":"AI","provider":"IBM SkillsBuild","description":"d","duration":"4 weeks","skills":["AI"]},` +
		`{"id":"c2","title":"Go","provider":"Udemy","description":"d","duration":"1 week","skills":["Go"]}]}`

	sr, _ := scenarioAgainst(t, jsonHandler(200, body), state, CoursesAPI)
	assert.Equal(t, runner.Pass, sr.Outcome)
	check, ok := findCheck(sr, "Course Providers")
	require.True(t, ok)
	assert.Equal(t, runner.Pass, check.Outcome)
	assert.Equal(t, "Providers: [IBM SkillsBuild Udemy]", check.Detail)
	assert.Zero(t, sr.Count(runner.Warn))
}

func TestJobsAPI_MissingFieldFails(t *testing.T) {
	state := session.New()
	state.SetAuthToken("tok")
	body := `{"jobs":[{"id":"j1","title":"Dev","company":"Acme","location":"Pune","skills":[]}]}`

	sr, _ := scenarioAgainst(t, jsonHandler(200, body), state, JobsAPI)
	assert.Equal(t, runner.Fail, sr.Outcome)
	assert.Contains(t, sr.Checks[0].Detail, "salary is required")
	assert.Empty(t, state.JobID())
}

func TestJobApplication_FetchesJobsWhenSessionHasNone(t *testing.T) {
	baseURL := newMockAPI(t)
	state := session.New()
	r := newRunner(baseURL, state)

	for _, sc := range Scenarios(DefaultFixtures()) {
		if sc.Name == UserRegistration || sc.Name == JobApplication {
			sr := r.RunScenario(context.Background(), sc)
			assert.Equal(t, runner.Pass, sr.Outcome, sc.Name)
		}
	}
	assert.NotEmpty(t, state.JobID())
}
