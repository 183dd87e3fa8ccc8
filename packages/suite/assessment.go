package suite

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/empoweryouth/apiprobe/packages/assertions"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

func careerAssessment(assessment Assessment) runner.Func {
	return func(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
		if !requireToken(state, c, CareerAssessment) {
			return
		}

		resp, ok := send(ctx, exec, c, CareerAssessment, post("/assessment/submit", assessment).WithAuth())
		if !ok {
			return
		}

		// Element shape is checked separately, so decode only the top level.
		var body struct {
			Success bool `json:"success"`
		}
		if !expectJSON(c, CareerAssessment, resp, 200, assessmentSchema, &body) {
			return
		}
		if !body.Success {
			c.Fail(CareerAssessment, "Unexpected response: %s", excerpt(resp))
			return
		}

		vector := resp.JSON().Get("skillVector")
		if len(vector.Array()) == 0 {
			c.Fail(CareerAssessment, "Empty skill vector")
			return
		}
		c.Pass(CareerAssessment, "Assessment processed, %d skills generated", len(vector.Array()))

		const generation = "Skill Vector Generation"
		if err := assertions.RequireEach("skillVector", vector, "name", "level"); err != nil {
			c.Fail(generation, "Invalid skill structure: %s", err)
			return
		}
		var decoded assessmentResponse
		if err := assertions.Decode(resp, &decoded); err != nil {
			c.Fail(generation, "%s", err)
			return
		}
		c.Pass(generation, "Skills: %v", leadingNames(vector, 3))
	}
}

func leadingNames(vector gjson.Result, n int) []string {
	var names []string
	for _, s := range vector.Array() {
		if len(names) == n {
			break
		}
		names = append(names, s.Get("name").String())
	}
	return names
}
