// Package capture extracts values from HTTP responses into the session.
//
// A Capture pairs a JSON path with a session setter, so a scenario can
// declare which response fields feed later scenarios (the auth token, the
// user id, the chat session id) instead of threading them by hand.
package capture
