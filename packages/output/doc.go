// Package output provides formatters for displaying test results.
//
// Supported output formats:
//   - Console: Human-readable colored terminal output
//   - JSON: Machine-readable JSON output
//   - JUnit: JUnit XML format for CI integration
//   - TAP: Test Anything Protocol format
//
// Formatters receive each scenario as soon as it finishes through
// FormatScenario. Formats that need the whole run before writing anything
// buffer until Flush, which also receives the run summary.
package output
