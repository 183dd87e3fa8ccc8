package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/alessio/shellescape"
)

const (
	MethodGet    = http.MethodGet
	MethodPost   = http.MethodPost
	MethodPut    = http.MethodPut
	MethodDelete = http.MethodDelete
)

type Request struct {
	Method       string
	Path         string
	Headers      map[string]string
	Body         any // encoded as JSON when non-nil
	RequiresAuth bool
}

// NewRequest builds a request for one of GET, POST, PUT or DELETE.
// Any other method is a programming error and panics.
func NewRequest(method, path string) *Request {
	mustSupportMethod(method)
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
	}
}

func mustSupportMethod(method string) {
	switch method {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
	default:
		panic(fmt.Sprintf("http: unsupported method %q", method))
	}
}

func (r *Request) SetHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

func (r *Request) SetBody(body any) *Request {
	r.Body = body
	return r
}

// WithAuth marks the request as requiring the session bearer token.
func (r *Request) WithAuth() *Request {
	r.RequiresAuth = true
	return r
}

// Curl renders a copy-pasteable curl command for the request. Bearer tokens
// are redacted.
func (r *Request) Curl(baseURL string, headers http.Header) string {
	args := []string{"curl", "-sS", "-X", r.Method}

	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := headers.Get(k)
		if strings.EqualFold(k, "Authorization") && strings.HasPrefix(v, "Bearer ") {
			v = "Bearer ***"
		}
		args = append(args, "-H", shellescape.Quote(k+": "+v))
	}

	if r.Body != nil {
		if data, err := json.Marshal(r.Body); err == nil {
			args = append(args, "--data", shellescape.Quote(string(data)))
		}
	}

	args = append(args, shellescape.Quote(strings.TrimRight(baseURL, "/")+r.Path))
	return strings.Join(args, " ")
}
