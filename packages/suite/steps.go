package suite

import (
	"context"

	"github.com/empoweryouth/apiprobe/packages/assertions"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// requireToken records a failed precondition when the session has no token.
// Callers must not touch the network when it returns false.
func requireToken(state *session.State, c *runner.Checks, name string) bool {
	if state.HasAuthToken() {
		return true
	}
	c.Fail(name, "No auth token available")
	return false
}

// send executes req, recording a failed check named name when no response
// comes back.
func send(ctx context.Context, exec runner.Executor, c *runner.Checks, name string, req *http.Request) (*http.Response, bool) {
	resp, err := exec.Execute(ctx, req)
	if err != nil {
		c.Fail(name, "Request failed: %v", err)
		return nil, false
	}
	return resp, true
}

func get(path string) *http.Request {
	return http.NewRequest(http.MethodGet, path)
}

func post(path string, body any) *http.Request {
	return http.NewRequest(http.MethodPost, path).SetBody(body)
}

// expectStatus records a failed check unless resp has the wanted status.
func expectStatus(c *runner.Checks, name string, resp *http.Response, want int) bool {
	if err := assertions.ExpectStatus(resp, want); err != nil {
		c.Fail(name, "%s", err)
		return false
	}
	return true
}

// expectJSON checks the status, validates the body against schema and
// decodes it into v. The first problem found becomes a failed check.
func expectJSON(c *runner.Checks, name string, resp *http.Response, want int, schema *assertions.Schema, v any) bool {
	if !expectStatus(c, name, resp, want) {
		return false
	}
	if err := schema.Validate(resp.Body); err != nil {
		c.Fail(name, "%s", err)
		return false
	}
	if v == nil {
		return true
	}
	if err := assertions.Decode(resp, v); err != nil {
		c.Fail(name, "%s", err)
		return false
	}
	return true
}

func excerpt(resp *http.Response) string {
	return assertions.Excerpt(resp.BodyString(), assertions.MaxBodyExcerpt)
}
