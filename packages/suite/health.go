package suite

import (
	"context"
	"strings"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

const runningBanner = "EmpowerYouth API is running"

func rootEndpoint(ctx context.Context, exec runner.Executor, _ *session.State, c *runner.Checks) {
	resp, ok := send(ctx, exec, c, RootEndpoint, get("/"))
	if !ok {
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if !expectJSON(c, RootEndpoint, resp, 200, rootSchema, &body) {
		return
	}

	if !strings.Contains(body.Message, runningBanner) {
		c.Fail(RootEndpoint, "Unexpected response: %s", excerpt(resp))
		return
	}
	c.Pass(RootEndpoint, "API is running: %s", body.Message)
}
