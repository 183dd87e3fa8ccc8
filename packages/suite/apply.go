package suite

import (
	"context"

	"github.com/empoweryouth/apiprobe/packages/capture"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

func jobApplication(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
	if !requireToken(state, c, JobApplication) {
		return
	}

	jobID := state.JobID()
	if jobID == "" {
		resp, ok := send(ctx, exec, c, JobApplication, get("/jobs").WithAuth())
		if !ok {
			return
		}
		if resp.StatusCode != 200 {
			c.Fail(JobApplication, "Could not fetch jobs for application test")
			return
		}
		capture.ExtractAll(resp, state, jobCapture)
		if jobID = state.JobID(); jobID == "" {
			c.Fail(JobApplication, "No jobs available to apply to")
			return
		}
	}

	resp, ok := send(ctx, exec, c, JobApplication, post("/apply", map[string]string{"jobId": jobID}).WithAuth())
	if !ok {
		return
	}

	var body applyResponse
	if !expectJSON(c, JobApplication, resp, 200, applySchema, &body) {
		return
	}
	if !body.Success {
		c.Fail(JobApplication, "Application failed: %s", excerpt(resp))
		return
	}
	c.Pass(JobApplication, "Successfully applied to job %s", jobID)
}
