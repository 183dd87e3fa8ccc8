// Package assertions validates HTTP responses for scenarios.
//
// Supported checks:
//   - Exact status codes (ExpectStatus)
//   - Valid JSON bodies and typed decoding (ParseJSON, Decode)
//   - Required keys on objects and array elements (RequireKeys, RequireEach)
//   - JSON Schema validation of whole response shapes (Schema)
//   - Case-folded substring checks for advisory content (ContainsFold)
//
// Structural failures are returned as *StatusError or *ShapeError so callers
// can report them as protocol failures.
package assertions
