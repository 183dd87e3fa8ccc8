package suite

import (
	"context"
	"sort"

	"github.com/empoweryouth/apiprobe/packages/capture"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

var jobCapture = capture.Capture{Name: "jobId", Path: "jobs.0.id", Store: capture.JobID}

func jobsAPI(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
	if !requireToken(state, c, JobsAPI) {
		return
	}

	resp, ok := send(ctx, exec, c, JobsAPI, get("/jobs").WithAuth())
	if !ok {
		return
	}

	var body jobsResponse
	if !expectJSON(c, JobsAPI, resp, 200, jobsSchema, &body) {
		return
	}

	capture.ExtractAll(resp, state, jobCapture)
	c.Pass(JobsAPI, "Found %d jobs with complete data", len(body.Jobs))
}

func coursesAPI(providers []string) runner.Func {
	known := make(map[string]bool, len(providers))
	for _, p := range providers {
		known[p] = true
	}

	return func(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
		if !requireToken(state, c, CoursesAPI) {
			return
		}

		resp, ok := send(ctx, exec, c, CoursesAPI, get("/courses").WithAuth())
		if !ok {
			return
		}

		var body coursesResponse
		if !expectJSON(c, CoursesAPI, resp, 200, coursesSchema, &body) {
			return
		}
		c.Pass(CoursesAPI, "Found %d courses with complete data", len(body.Courses))

		seen := make(map[string]bool)
		var all []string
		matched := false
		for _, course := range body.Courses {
			if seen[course.Provider] {
				continue
			}
			seen[course.Provider] = true
			all = append(all, course.Provider)
			matched = matched || known[course.Provider]
		}
		sort.Strings(all)

		// one recognized provider is enough
		if !matched {
			c.Warn("Course Providers", "Unexpected providers: %v", all)
			return
		}
		c.Pass("Course Providers", "Providers: %v", all)
	}
}
