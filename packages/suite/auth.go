package suite

import (
	"context"
	"fmt"
	"strings"

	"github.com/empoweryouth/apiprobe/packages/assertions"
	"github.com/empoweryouth/apiprobe/packages/capture"
	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/core/session"
)

// InvalidToken is the bearer token sent to prove bad credentials are refused.
const InvalidToken = "invalid_token_123"

var registrationCaptures = []capture.Capture{
	{Name: "token", Path: "token", Store: capture.AuthToken},
	{Name: "userId", Path: "user.id", Store: capture.UserID},
}

func userRegistration(user Registration) runner.Func {
	return func(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
		resp, ok := send(ctx, exec, c, UserRegistration, post("/auth/register", user))
		if !ok {
			return
		}

		var body registerResponse
		if !expectJSON(c, UserRegistration, resp, 200, registerSchema, &body) {
			return
		}

		capture.ExtractAll(resp, state, registrationCaptures...)
		c.Pass(UserRegistration, "User created with ID: %s", body.User.ID)

		var mismatched []string
		if body.User.Name != user.Name {
			mismatched = append(mismatched, "name")
		}
		if body.User.Email != user.Email {
			mismatched = append(mismatched, "email")
		}
		if body.User.Phone != user.Phone {
			mismatched = append(mismatched, "phone")
		}
		if len(mismatched) > 0 {
			c.Fail("User Data Validation", "User data mismatch: %s", strings.Join(mismatched, ", "))
			return
		}
		c.Pass("User Data Validation", "All user fields correctly stored")
	}
}

func duplicateEmail(user Registration) runner.Func {
	return func(ctx context.Context, exec runner.Executor, _ *session.State, c *runner.Checks) {
		resp, ok := send(ctx, exec, c, DuplicateEmail, post("/auth/register", user))
		if !ok {
			return
		}

		var body errorResponse
		if !expectJSON(c, DuplicateEmail, resp, 400, errorSchema, &body) {
			return
		}

		if !assertions.ContainsFold(body.Error, "already exists") {
			c.Fail(DuplicateEmail, "Unexpected error message: %s", body.Error)
			return
		}
		c.Pass(DuplicateEmail, "Correctly rejected duplicate email")
	}
}

// fetchMe reads /auth/me with the session token.
func fetchMe(ctx context.Context, exec runner.Executor, c *runner.Checks, name string) (User, bool) {
	resp, ok := send(ctx, exec, c, name, get("/auth/me").WithAuth())
	if !ok {
		return User{}, false
	}
	var u User
	if !expectJSON(c, name, resp, 200, userSchema, &u) {
		return User{}, false
	}
	return u, true
}

func authTokenValidation(ctx context.Context, exec runner.Executor, state *session.State, c *runner.Checks) {
	if !requireToken(state, c, AuthTokenValidation) {
		return
	}

	first, ok := fetchMe(ctx, exec, c, AuthTokenValidation)
	if !ok {
		return
	}
	if first.ID == "" || first.ID != state.UserID() {
		c.Fail(AuthTokenValidation, "User ID mismatch or missing: got %q, want %q", first.ID, state.UserID())
		return
	}
	c.Pass(AuthTokenValidation, "Successfully retrieved user: %s", first.Name)

	const idempotence = "Auth Token Idempotence"
	second, ok := fetchMe(ctx, exec, c, idempotence)
	if !ok {
		return
	}
	if second.ID != first.ID {
		c.Fail(idempotence, "Repeated call returned %q, first call returned %q", second.ID, first.ID)
		return
	}
	c.Pass(idempotence, "Repeated call returned the same id")
}

func invalidTokenHandling(ctx context.Context, exec runner.Executor, _ *session.State, c *runner.Checks) {
	req := get("/auth/me").SetHeader("Authorization", fmt.Sprintf("Bearer %s", InvalidToken))
	resp, ok := send(ctx, exec, c, InvalidTokenHandling, req)
	if !ok {
		return
	}

	if !expectStatus(c, InvalidTokenHandling, resp, 401) {
		return
	}
	if err := errorSchema.Validate(resp.Body); err != nil {
		c.Fail(InvalidTokenHandling, "Missing error message: %s", excerpt(resp))
		return
	}
	c.Pass(InvalidTokenHandling, "Correctly rejected invalid token")
}
