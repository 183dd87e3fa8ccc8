package suite

import (
	"context"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// authenticationProtection calls every protected endpoint without a token.
// It deliberately ignores the session: a 401 here is the expected result.
func authenticationProtection(endpoints []Endpoint) runner.Func {
	return func(ctx context.Context, exec runner.Executor, _ *session.State, c *runner.Checks) {
		for _, ep := range endpoints {
			name := "Auth Required " + ep.Path

			req := http.NewRequest(ep.Method, ep.Path)
			if ep.Method == http.MethodPost || ep.Method == http.MethodPut {
				req.SetBody(map[string]string{"test": "data"})
			}

			resp, ok := send(ctx, exec, c, name, req)
			if !ok {
				continue
			}
			if resp.StatusCode != 401 {
				c.Fail(name, "Expected 401, got %d", resp.StatusCode)
				continue
			}
			c.Pass(name, "Correctly requires authentication")
		}
	}
}
