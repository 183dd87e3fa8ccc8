package suite

import (
	"context"

	"github.com/empoweryouth/apiprobe/packages/assertions"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

// DashboardKeys must all be present in a dashboard response.
var DashboardKeys = []string{"skills", "jobMatches", "jobs", "courses", "recommendedCourses", "progress"}

func dashboardAPI(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
	if !requireToken(state, c, DashboardAPI) {
		return
	}

	resp, ok := send(ctx, exec, c, DashboardAPI, get("/dashboard").WithAuth())
	if !ok || !expectStatus(c, DashboardAPI, resp, 200) {
		return
	}

	body, err := assertions.ParseJSON(resp)
	if err != nil {
		c.Fail(DashboardAPI, "%s", err)
		return
	}
	if missing := assertions.MissingKeys(body, DashboardKeys...); len(missing) > 0 {
		c.Fail(DashboardAPI, "Missing fields: %v", missing)
		return
	}
	var dashboard dashboardResponse
	if err := assertions.Decode(resp, &dashboard); err != nil {
		c.Fail(DashboardAPI, "%s", err)
		return
	}
	c.Pass(DashboardAPI, "All dashboard components present")

	matches := body.Get("jobMatches")
	switch n := len(matches.Array()); {
	case n == 0:
		c.Warn("Job Matching", "No job matches returned")
	case len(assertions.MissingKeys(matches.Get("0"), "title", "company", "matchPercentage")) > 0:
		c.Fail("Job Matching", "Invalid job structure")
	default:
		c.Pass("Job Matching", "Found %d job matches", n)
	}

	recommended := body.Get("recommendedCourses")
	switch n := len(recommended.Array()); {
	case n == 0:
		c.Warn("Course Recommendations", "No course recommendations returned")
	case len(assertions.MissingKeys(recommended.Get("0"), "title", "provider")) > 0:
		c.Fail("Course Recommendations", "Invalid course structure")
	default:
		c.Pass("Course Recommendations", "Found %d course recommendations", n)
	}

	if err := assertions.RequireKeys("progress", body.Get("progress"), "profileCompletion", "coursesCompleted"); err != nil {
		c.Fail("Progress Tracking", "Invalid progress structure: %s", err)
		return
	}
	c.Pass("Progress Tracking", "Profile completion: %v%%", dashboard.Progress.ProfileCompletion)
}
