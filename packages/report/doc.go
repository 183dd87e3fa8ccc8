// Package report turns the stream of scenario results into a run summary.
//
// An Aggregator is registered as a runner listener and collects every
// ScenarioResult in execution order. Summary computes the pass ratio and
// maps it onto a Verdict for human triage; Outcomes exposes the ordered
// (scenario, outcome) pairs for CI consumers. Latency records request
// durations in an HDR histogram so the report can show percentiles.
package report
