// Package http is the request executor used by scenarios.
//
// It wraps the standard library's http package with:
//   - A base URL that every request path is resolved against
//   - A fixed 30s default timeout
//   - Bearer token injection for requests that require auth
//   - Transport failures reported as *TransportError, never as panics
//   - Optional request pacing and latency recording
//   - Debug traces rendered as curl commands
package http
