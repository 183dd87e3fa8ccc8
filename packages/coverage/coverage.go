// Package coverage reports which API endpoints a run exercised.
package coverage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/empoweryouth/apiprobe/packages/core/runner"
	"github.com/empoweryouth/apiprobe/packages/http"
)

// Report represents an API coverage report.
type Report struct {
	TotalEndpoints   int                     `json:"totalEndpoints"`
	CoveredEndpoints int                     `json:"coveredEndpoints"`
	CoveragePercent  float64                 `json:"coveragePercent"`
	ByGroup          map[string]*GroupReport `json:"byGroup,omitempty"`
	Endpoints        []EndpointStatus        `json:"endpoints"`
	// Unknown lists requests that matched no endpoint, such as probes of
	// routes the API does not serve.
	Unknown []ExecutedRequest `json:"unknown,omitempty"`
}

// GroupReport is the coverage of the public or protected endpoints.
type GroupReport struct {
	Group            string  `json:"group"`
	TotalEndpoints   int     `json:"totalEndpoints"`
	CoveredEndpoints int     `json:"coveredEndpoints"`
	CoveragePercent  float64 `json:"coveragePercent"`
}

// EndpointStatus represents the coverage status of an endpoint.
type EndpointStatus struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Protected bool   `json:"protected"`
	Covered   bool   `json:"covered"`
	Hits      int    `json:"hits"`
	// Unauthenticated counts hits sent without a token.
	Unauthenticated int `json:"unauthenticated"`
}

// Endpoint is one route of the API under test.
type Endpoint struct {
	Method    string
	Path      string
	Protected bool
}

func (e Endpoint) group() string {
	if e.Protected {
		return "protected"
	}
	return "public"
}

// ExecutedRequest represents a request that was executed during the run.
type ExecutedRequest struct {
	Method string `json:"method"`
	Path   string `json:"path"`
	// Auth is set when the request asked for the session token or carried
	// its own Authorization header.
	Auth bool `json:"auth"`
}

// Analyzer compares executed requests with a fixed set of endpoints.
type Analyzer struct {
	endpoints []Endpoint
}

func NewAnalyzer(endpoints ...Endpoint) *Analyzer {
	return &Analyzer{endpoints: endpoints}
}

func normalizePath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	return p
}

func endpointKey(method, path string) string {
	return strings.ToUpper(method) + " " + normalizePath(path)
}

// Analyze compares executed requests against the endpoints.
func (a *Analyzer) Analyze(requests []ExecutedRequest) *Report {
	report := &Report{
		TotalEndpoints: len(a.endpoints),
		ByGroup:        make(map[string]*GroupReport),
		Endpoints:      make([]EndpointStatus, 0, len(a.endpoints)),
	}

	known := make(map[string]bool, len(a.endpoints))
	for _, e := range a.endpoints {
		known[endpointKey(e.Method, e.Path)] = true
	}

	hits := make(map[string]int)
	anonymous := make(map[string]int)
	for _, req := range requests {
		key := endpointKey(req.Method, req.Path)
		if !known[key] {
			report.Unknown = append(report.Unknown, req)
			continue
		}
		hits[key]++
		if !req.Auth {
			anonymous[key]++
		}
	}

	for _, e := range a.endpoints {
		key := endpointKey(e.Method, e.Path)
		status := EndpointStatus{
			Method:          strings.ToUpper(e.Method),
			Path:            normalizePath(e.Path),
			Protected:       e.Protected,
			Hits:            hits[key],
			Unauthenticated: anonymous[key],
		}
		status.Covered = status.Hits > 0
		report.Endpoints = append(report.Endpoints, status)

		group, ok := report.ByGroup[e.group()]
		if !ok {
			group = &GroupReport{Group: e.group()}
			report.ByGroup[e.group()] = group
		}
		group.TotalEndpoints++
		if status.Covered {
			report.CoveredEndpoints++
			group.CoveredEndpoints++
		}
	}

	report.CoveragePercent = percent(report.CoveredEndpoints, report.TotalEndpoints)
	for _, group := range report.ByGroup {
		group.CoveragePercent = percent(group.CoveredEndpoints, group.TotalEndpoints)
	}

	sort.Slice(report.Endpoints, func(i, j int) bool {
		if report.Endpoints[i].Path != report.Endpoints[j].Path {
			return report.Endpoints[i].Path < report.Endpoints[j].Path
		}
		return report.Endpoints[i].Method < report.Endpoints[j].Method
	})

	return report
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}

// FormatConsole formats the report for console output.
func (r *Report) FormatConsole() string {
	var sb strings.Builder

	sb.WriteString("\nAPI Coverage Report\n")
	sb.WriteString("===================\n\n")

	fmt.Fprintf(&sb, "Total Endpoints:   %d\n", r.TotalEndpoints)
	fmt.Fprintf(&sb, "Covered Endpoints: %d\n", r.CoveredEndpoints)
	fmt.Fprintf(&sb, "Coverage:          %.1f%%\n\n", r.CoveragePercent)

	groups := make([]string, 0, len(r.ByGroup))
	for g := range r.ByGroup {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	for _, g := range groups {
		gr := r.ByGroup[g]
		fmt.Fprintf(&sb, "  %s: %d/%d (%.1f%%)\n", g, gr.CoveredEndpoints, gr.TotalEndpoints, gr.CoveragePercent)
	}
	if len(groups) > 0 {
		sb.WriteString("\n")
	}

	sb.WriteString("Endpoint Details:\n")
	for _, e := range r.Endpoints {
		status := "[ ]"
		if e.Covered {
			status = "[x]"
		}
		fmt.Fprintf(&sb, "  %s %-6s %s", status, e.Method, e.Path)
		if e.Hits > 1 {
			fmt.Fprintf(&sb, " (x%d)", e.Hits)
		}
		if e.Protected && e.Unauthenticated > 0 {
			fmt.Fprintf(&sb, " [%d without token]", e.Unauthenticated)
		}
		sb.WriteString("\n")
	}

	for _, u := range r.Unknown {
		fmt.Fprintf(&sb, "  [?] %-6s %s\n", u.Method, u.Path)
	}

	return sb.String()
}

// FormatJSON formats the report as JSON.
func (r *Report) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Tracker wraps an executor and remembers every request it sends. It is safe
// for concurrent use.
type Tracker struct {
	exec     runner.Executor
	mu       sync.Mutex
	requests []ExecutedRequest
}

// Track returns a Tracker sending requests through exec.
func Track(exec runner.Executor) *Tracker {
	return &Tracker{exec: exec}
}

func (t *Tracker) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	t.mu.Lock()
	t.requests = append(t.requests, ExecutedRequest{
		Method: req.Method,
		Path:   req.Path,
		Auth:   req.RequiresAuth || req.Headers["Authorization"] != "",
	})
	t.mu.Unlock()
	return t.exec.Execute(ctx, req)
}

// Requests returns the requests seen so far, in order.
func (t *Tracker) Requests() []ExecutedRequest {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ExecutedRequest(nil), t.requests...)
}
