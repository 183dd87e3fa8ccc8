package mock

import (
	"strings"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// call is everything a route handler sees about one request.
type call struct {
	body ldvalue.Value
	user *user
}

type handlerFunc func(c *call) (int, ldvalue.Value)

// Route is one endpoint of the fake API.
type Route struct {
	Method string
	Path   string
	// Protected routes answer 401 unless a known bearer token is presented.
	Protected bool
	// NoTokenError is the error text when a protected route gets no token.
	NoTokenError string

	handle handlerFunc
}

// Router matches incoming requests to routes
type Router struct {
	routes []*Route
}

// NewRouter creates a new router
func NewRouter() *Router {
	return &Router{
		routes: make([]*Route, 0),
	}
}

// AddRoute adds a route to the router
func (r *Router) AddRoute(route *Route) {
	r.routes = append(r.routes, route)
}

// Match finds a route matching the given method and path
func (r *Router) Match(method, path string) *Route {
	path = normalizePath(path)

	for _, route := range r.routes {
		if !strings.EqualFold(route.Method, method) {
			continue
		}
		if route.Path == path {
			return route
		}
	}

	return nil
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return append([]*Route(nil), r.routes...)
}

func normalizePath(path string) string {
	// Ensure path starts with /
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	// Remove trailing slash (except for root)
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	return path
}
