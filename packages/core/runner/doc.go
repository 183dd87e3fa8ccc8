// Package runner executes a plan of scenarios against a shared session.
//
// It provides:
//   - Check outcomes (PASS, FAIL, WARN) and per-scenario decisions
//   - A dependency-validated plan ordered by priority tier, then declaration
//   - Strictly sequential execution; later scenarios read session state
//     written by earlier ones
//   - Listeners that stream each decision to reporters as it is made
//
// A scenario that cannot run because its preconditions are missing reports a
// failed check itself; the runner never skips or aborts.
package runner
