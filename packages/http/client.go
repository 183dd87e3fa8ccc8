package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/empoweryouth/apiprobe/packages/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxIdleConns is the maximum number of idle connections in the pool
	DefaultMaxIdleConns = 100
	// DefaultMaxIdleConnsPerHost is the maximum number of idle connections per host
	DefaultMaxIdleConnsPerHost = 10
	// DefaultIdleConnTimeout is how long idle connections stay in the pool
	DefaultIdleConnTimeout = 90 * time.Second
)

// TokenSource supplies the bearer token for requests that require auth.
// An empty string means no token is available.
type TokenSource interface {
	AuthToken() string
}

// Recorder observes the duration of every completed request.
type Recorder interface {
	Record(d time.Duration)
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	timeout        time.Duration
	validateSSL    bool
	proxyURL       string
	defaultHeaders map[string]string
	tokens         TokenSource
	limiter        *rate.Limiter
	recorder       Recorder
	logger         logging.Logger
}

type ClientOption func(*Client)

func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		timeout:        DefaultTimeout,
		validateSSL:    true,
		defaultHeaders: make(map[string]string),
		logger:         logging.NullLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
	}

	if !c.validateSSL {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true,
		}
	}

	if c.proxyURL != "" {
		proxyURL, err := neturl.Parse(c.proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.timeout,
	}

	return c
}

func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithDefaultHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.defaultHeaders[key] = value
	}
}

// WithDefaultHeaders sets multiple default headers for all requests
func WithDefaultHeaders(headers map[string]string) ClientOption {
	return func(c *Client) {
		for k, v := range headers {
			c.defaultHeaders[k] = v
		}
	}
}

// WithValidateSSL enables or disables SSL certificate validation
func WithValidateSSL(validate bool) ClientOption {
	return func(c *Client) {
		c.validateSSL = validate
	}
}

// WithProxy sets the proxy URL for all requests
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithTokenSource sets where bearer tokens come from for auth-required requests.
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) {
		c.tokens = ts
	}
}

// WithRateLimit spaces requests so that no more than rps are issued per second.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

// WithRecorder reports the duration of every completed request to r.
func WithRecorder(r Recorder) ClientOption {
	return func(c *Client) {
		c.recorder = r
	}
}

func WithLogger(l logging.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// BaseURL returns the normalized base URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL joins the base URL and path.
func (c *Client) URL(path string) string {
	if path == "" {
		return c.baseURL + "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// Execute sends req and reads the full response. Any failure to obtain a
// response is returned as a *TransportError; HTTP error statuses are not errors.
// Methods other than GET, POST, PUT and DELETE panic.
func (c *Client) Execute(ctx context.Context, req *Request) (*Response, error) {
	mustSupportMethod(req.Method)
	url := c.URL(req.Path)

	if err := ValidateURL(url); err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s body: %w", req.Method, req.Path, err)
		}
		body = bytes.NewReader(data)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: req.Method, URL: url, Err: err}
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, url, body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	for k, v := range c.defaultHeaders {
		httpReq.Header.Set(k, v)
	}
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); req.RequiresAuth && token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.logger.Printf("-> %s", req.Curl(c.baseURL, httpReq.Header))

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Printf("<- %s %s failed after %s: %v", req.Method, req.Path, time.Since(start).Round(time.Millisecond), err)
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	duration := time.Since(start)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: url, Err: err}
	}

	if c.recorder != nil {
		c.recorder.Record(duration)
	}

	headers := make(map[string]string)
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	c.logger.Printf("<- %s %s %d (%s, %d bytes)", req.Method, req.Path, httpResp.StatusCode, duration.Round(time.Millisecond), len(respBody))

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    headers,
		Body:       respBody,
		Duration:   duration,
	}, nil
}

func (c *Client) token() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.AuthToken()
}

func (c *Client) Get(ctx context.Context, path string, requiresAuth bool) (*Response, error) {
	req := NewRequest(MethodGet, path)
	req.RequiresAuth = requiresAuth
	return c.Execute(ctx, req)
}

func (c *Client) Post(ctx context.Context, path string, body any, requiresAuth bool) (*Response, error) {
	req := NewRequest(MethodPost, path).SetBody(body)
	req.RequiresAuth = requiresAuth
	return c.Execute(ctx, req)
}

// ValidateURL checks that a URL is well-formed and uses an allowed scheme
func ValidateURL(rawURL string) error {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https are allowed)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}

	return nil
}
