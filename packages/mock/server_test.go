package mock

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/empoweryouth/apiprobe/packages/http"
	"github.com/empoweryouth/apiprobe/packages/logging"
)

type tokenHolder struct{ token string }

func (t *tokenHolder) AuthToken() string { return t.token }

func newTestAPI(t *testing.T, opts ...Option) (*Server, *http.Client, *tokenHolder) {
	t.Helper()
	opts = append([]Option{WithLogger(logging.NullLogger())}, opts...)
	srv := NewServer(opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	tokens := &tokenHolder{}
	return srv, http.NewClient(ts.URL+DefaultPrefix, http.WithTokenSource(tokens)), tokens
}

var priya = map[string]string{
	"name":       "Priya Sharma",
	"email":      "priya.sharma.test@example.com",
	"phone":      "+91-9876543210",
	"password":   "SecurePass123!",
	"location":   "Mumbai",
	"experience": "fresher",
}

func register(t *testing.T, client *http.Client, tokens *tokenHolder) string {
	t.Helper()
	resp, err := client.Post(context.Background(), "/auth/register", priya, false)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, resp.BodyString())
	tokens.token = resp.JSON().Get("token").String()
	return resp.JSON().Get("user.id").String()
}

func TestServer_Root(t *testing.T) {
	_, client, _ := newTestAPI(t)
	resp, err := client.Get(context.Background(), "/", false)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "EmpowerYouth API is running!", resp.JSON().Get("message").String())
	assert.Equal(t, "*", resp.Header("Access-Control-Allow-Origin"))
}

func TestServer_RegisterAndDuplicate(t *testing.T) {
	srv, client, tokens := newTestAPI(t)
	id := register(t, client, tokens)
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, tokens.token)

	resp, err := client.Post(context.Background(), "/auth/register", priya, false)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "User already exists", resp.JSON().Get("error").String())
	assert.Equal(t, 1, srv.Users())
}

func TestServer_RegisterMissingFields(t *testing.T) {
	_, client, _ := newTestAPI(t)
	resp, err := client.Post(context.Background(), "/auth/register", map[string]string{"name": "x"}, false)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "All fields are required", resp.JSON().Get("error").String())
}

func TestServer_Me(t *testing.T) {
	_, client, tokens := newTestAPI(t)

	resp, err := client.Get(context.Background(), "/auth/me", true)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "No token provided", resp.JSON().Get("error").String())

	id := register(t, client, tokens)
	resp, err = client.Get(context.Background(), "/auth/me", true)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, id, resp.JSON().Get("id").String())
	assert.Equal(t, "Priya Sharma", resp.JSON().Get("name").String())

	req := http.NewRequest(http.MethodGet, "/auth/me").SetHeader("Authorization", "Bearer invalid_token_123")
	resp, err = client.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
	assert.Equal(t, "Invalid token", resp.JSON().Get("error").String())
}

func TestServer_AssessmentThenDashboard(t *testing.T) {
	_, client, tokens := newTestAPI(t)
	register(t, client, tokens)

	resp, err := client.Get(context.Background(), "/dashboard", true)
	require.NoError(t, err)
	assert.Equal(t, int64(45), resp.JSON().Get("progress.profileCompletion").Int())

	resp, err = client.Post(context.Background(), "/assessment/submit", map[string]any{
		"interests": []string{"Technology", "Business"},
		"skills":    []string{"Programming", "Communication", "Data Analysis"},
	}, true)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	assert.True(t, resp.JSON().Get("success").Bool())
	var names []string
	for _, s := range resp.JSON().Get("skillVector").Array() {
		names = append(names, s.Get("name").String())
	}
	assert.Equal(t, []string{"JavaScript", "Python", "Communication", "English", "Excel", "SQL", "Problem Solving", "Leadership"}, names)

	resp, err = client.Get(context.Background(), "/dashboard", true)
	require.NoError(t, err)
	body := resp.JSON()
	for _, k := range DashboardKeys {
		assert.True(t, body.Get(k).Exists(), k)
	}
	assert.Equal(t, int64(85), body.Get("progress.profileCompletion").Int())
	assert.Len(t, body.Get("skills").Array(), 8)
	assert.Equal(t, "Frontend Developer", body.Get("jobMatches.0.title").String())
	assert.Equal(t, int64(85), body.Get("jobMatches.0.matchPercentage").Int())
}

func TestSkillVector_DefaultWhenNothingMatches(t *testing.T) {
	got := skillVector(ldvalue.Parse([]byte(`{"skills":["Juggling"]}`)))
	assert.Equal(t, defaultSkills, got)
}

func TestServer_DashboardKeyDropped(t *testing.T) {
	_, client, tokens := newTestAPI(t, WithoutDashboardKeys("recommendedCourses"))
	register(t, client, tokens)

	resp, err := client.Get(context.Background(), "/dashboard", true)
	require.NoError(t, err)
	assert.False(t, resp.JSON().Get("recommendedCourses").Exists())
	assert.True(t, resp.JSON().Get("courses").Exists())
}

func TestServer_ChatSessions(t *testing.T) {
	_, client, tokens := newTestAPI(t)
	register(t, client, tokens)

	resp, err := client.Post(context.Background(), "/chat", map[string]string{"message": "How can I improve my resume?"}, true)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	sessionID := resp.JSON().Get("sessionId").String()
	assert.NotEmpty(t, sessionID)
	assert.Contains(t, resp.JSON().Get("response").String(), "resume tips")

	resp, err = client.Post(context.Background(), "/chat", map[string]string{"message": "hello", "sessionId": sessionID}, true)
	require.NoError(t, err)
	assert.Equal(t, sessionID, resp.JSON().Get("sessionId").String())
	assert.Equal(t, genericChatReply, resp.JSON().Get("response").String())

	resp, err = client.Post(context.Background(), "/chat", map[string]string{"language": "en"}, true)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestServer_RotatingChatSessions(t *testing.T) {
	_, client, tokens := newTestAPI(t, WithRotatingChatSessions(true))
	register(t, client, tokens)

	resp, err := client.Post(context.Background(), "/chat", map[string]string{"message": "hi", "sessionId": "fixed"}, true)
	require.NoError(t, err)
	assert.NotEqual(t, "fixed", resp.JSON().Get("sessionId").String())
}

func TestServer_CatalogAndApply(t *testing.T) {
	_, client, tokens := newTestAPI(t)
	register(t, client, tokens)

	resp, err := client.Get(context.Background(), "/jobs", true)
	require.NoError(t, err)
	jobs := resp.JSON().Get("jobs").Array()
	require.Len(t, jobs, 6)
	jobID := jobs[0].Get("id").String()

	resp, err = client.Get(context.Background(), "/courses", true)
	require.NoError(t, err)
	assert.Len(t, resp.JSON().Get("courses").Array(), 6)
	assert.Equal(t, "IBM SkillsBuild", resp.JSON().Get("courses.0.provider").String())

	resp, err = client.Post(context.Background(), "/apply", map[string]string{}, true)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	resp, err = client.Post(context.Background(), "/apply", map[string]string{"jobId": jobID}, true)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.True(t, resp.JSON().Get("success").Bool())

	resp, err = client.Get(context.Background(), "/dashboard", true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.JSON().Get("progress.jobApplications").Int())
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	srv, client, _ := newTestAPI(t)
	for _, route := range srv.Routes() {
		if !route.Protected {
			continue
		}
		req := http.NewRequest(route.Method, route.Path)
		if route.Method == http.MethodPost {
			req.SetBody(map[string]string{"test": "data"})
		}
		resp, err := client.Execute(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode, route.Path)
	}
}

func TestServer_UnknownRoute(t *testing.T) {
	_, client, _ := newTestAPI(t)
	resp, err := client.Get(context.Background(), "/nope", false)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	assert.Equal(t, "Route /nope not found", resp.JSON().Get("error").String())
}

func TestServer_WithoutPrefix(t *testing.T) {
	srv := NewServer(WithPrefix(""), WithLogger(logging.NullLogger()))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.NewClient(ts.URL).Get(context.Background(), "/", false)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}
