package mock

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/empoweryouth/apiprobe/packages/logging"
)

// DefaultPrefix is the path the API is mounted under.
const DefaultPrefix = "/api"

// DashboardKeys are the top-level keys of a dashboard response.
var DashboardKeys = []string{"skills", "jobMatches", "jobs", "courses", "recommendedCourses", "progress"}

// Server is an in-memory EmpowerYouth API.
type Server struct {
	router         *Router
	store          *store
	port           int
	prefix         string
	delay          time.Duration
	verbose        bool
	dropKeys       map[string]bool
	rotateSessions bool
	logger         logging.Logger
}

// Option is a functional option for Server
type Option func(*Server)

// WithPort sets the server port
func WithPort(port int) Option {
	return func(s *Server) {
		s.port = port
	}
}

// WithDelay adds a delay to all responses
func WithDelay(delay time.Duration) Option {
	return func(s *Server) {
		s.delay = delay
	}
}

// WithVerbose enables verbose logging
func WithVerbose(verbose bool) Option {
	return func(s *Server) {
		s.verbose = verbose
	}
}

// WithPrefix mounts the API under prefix instead of DefaultPrefix. An empty
// prefix serves it from the root.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = strings.TrimRight(prefix, "/")
	}
}

func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithoutDashboardKeys omits the named keys from dashboard responses.
func WithoutDashboardKeys(keys ...string) Option {
	return func(s *Server) {
		for _, k := range keys {
			s.dropKeys[k] = true
		}
	}
}

// WithRotatingChatSessions makes the chat endpoint ignore the session id it
// is given and mint a new one on every message.
func WithRotatingChatSessions(rotate bool) Option {
	return func(s *Server) {
		s.rotateSessions = rotate
	}
}

// NewServer creates a new mock server
func NewServer(opts ...Option) *Server {
	s := &Server{
		router:   NewRouter(),
		store:    newStore(),
		port:     3000,
		prefix:   DefaultPrefix,
		dropKeys: make(map[string]bool),
		logger:   logging.New(os.Stderr),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	const authRequired = "Authentication required"

	s.router.AddRoute(&Route{Method: http.MethodGet, Path: "/", handle: s.root})
	s.router.AddRoute(&Route{Method: http.MethodPost, Path: "/auth/register", handle: s.register})
	s.router.AddRoute(&Route{Method: http.MethodGet, Path: "/auth/me", Protected: true, NoTokenError: "No token provided", handle: s.me})
	s.router.AddRoute(&Route{Method: http.MethodPost, Path: "/assessment/submit", Protected: true, NoTokenError: authRequired, handle: s.assessment})
	s.router.AddRoute(&Route{Method: http.MethodGet, Path: "/dashboard", Protected: true, NoTokenError: authRequired, handle: s.dashboard})
	s.router.AddRoute(&Route{Method: http.MethodPost, Path: "/chat", Protected: true, NoTokenError: authRequired, handle: s.chat})
	s.router.AddRoute(&Route{Method: http.MethodGet, Path: "/jobs", Protected: true, NoTokenError: authRequired, handle: s.jobs})
	s.router.AddRoute(&Route{Method: http.MethodGet, Path: "/courses", Protected: true, NoTokenError: authRequired, handle: s.courses})
	s.router.AddRoute(&Route{Method: http.MethodPost, Path: "/apply", Protected: true, NoTokenError: authRequired, handle: s.apply})
}

// Handler returns the API as an http.Handler, for httptest servers.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start starts the mock server
func (s *Server) Start() error {
	return s.StartWithContext(context.Background())
}

// StartWithContext starts the server with context for graceful shutdown
func (s *Server) StartWithContext(ctx context.Context) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Printf("Mock server starting on http://localhost:%d%s", s.port, s.prefix)
	if s.verbose {
		for _, route := range s.router.Routes() {
			s.logger.Printf("  %s %s%s", route.Method, s.prefix, route.Path)
		}
	}

	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Routes returns all registered routes
func (s *Server) Routes() []*Route {
	return s.router.Routes()
}

// Users returns how many accounts have been registered.
func (s *Server) Users() int {
	return s.store.userCount()
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-r.Context().Done():
			return
		}
	}

	setCORS(w.Header())
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	path := r.URL.Path
	if s.prefix != "" && (path == s.prefix || strings.HasPrefix(path, s.prefix+"/")) {
		path = strings.TrimPrefix(path, s.prefix)
	}

	status, body := s.dispatch(r, normalizePath(path))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body.JSONString()))

	if s.verbose {
		s.logger.Printf("%s %s -> %d (%s)", r.Method, r.URL.Path, status, time.Since(start))
	}
}

func (s *Server) dispatch(r *http.Request, path string) (int, ldvalue.Value) {
	route := s.router.Match(r.Method, path)
	if route == nil {
		return http.StatusNotFound, errorBody(fmt.Sprintf("Route %s not found", path))
	}

	c := &call{}
	if route.Protected {
		token, ok := bearerToken(r)
		if !ok {
			return http.StatusUnauthorized, errorBody(route.NoTokenError)
		}
		u, ok := s.store.userForToken(token)
		if !ok {
			return http.StatusUnauthorized, errorBody("Invalid token")
		}
		c.user = u
	}

	if r.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return http.StatusInternalServerError, errorBody("Internal server error")
		}
		c.body = ldvalue.Parse(data)
	}

	return route.handle(c)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}

func setCORS(h http.Header) {
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	h.Set("Access-Control-Allow-Credentials", "true")
}

func errorBody(msg string) ldvalue.Value {
	return ldvalue.ObjectBuild().Set("error", ldvalue.String(msg)).Build()
}

func (s *Server) root(*call) (int, ldvalue.Value) {
	return http.StatusOK, ldvalue.ObjectBuild().
		Set("message", ldvalue.String("EmpowerYouth API is running!")).
		Build()
}

func (s *Server) register(c *call) (int, ldvalue.Value) {
	field := func(k string) string { return c.body.GetByKey(k).StringValue() }

	u := &user{
		Name:       field("name"),
		Email:      field("email"),
		Phone:      field("phone"),
		Location:   field("location"),
		Experience: field("experience"),
		CreatedAt:  time.Now(),
	}
	if u.Name == "" || u.Email == "" || u.Phone == "" || field("password") == "" {
		return http.StatusBadRequest, errorBody("All fields are required")
	}

	token, ok := s.store.register(u)
	if !ok {
		return http.StatusBadRequest, errorBody("User already exists")
	}

	var userValue ldvalue.Value
	s.store.update(func() { userValue = u.value() })

	return http.StatusOK, ldvalue.ObjectBuild().
		Set("user", userValue).
		Set("token", ldvalue.String(token)).
		Build()
}

func (s *Server) me(c *call) (int, ldvalue.Value) {
	var v ldvalue.Value
	s.store.update(func() { v = c.user.value() })
	return http.StatusOK, v
}

func (s *Server) assessment(c *call) (int, ldvalue.Value) {
	skills := skillVector(c.body)
	s.store.update(func() {
		c.user.Skills = skills
		c.user.Assessed = true
	})

	return http.StatusOK, ldvalue.ObjectBuild().
		Set("success", ldvalue.Bool(true)).
		Set("skillVector", skillsValue(skills)).
		Build()
}

func (s *Server) dashboard(c *call) (int, ldvalue.Value) {
	var (
		skills       []skill
		assessed     bool
		applications int
	)
	s.store.update(func() {
		skills = append(skills, c.user.Skills...)
		assessed = c.user.Assessed
		applications = len(c.user.Applications)
	})

	completion := 45
	if assessed {
		completion = 85
	}
	jobs := jobListing(time.Now())

	parts := map[string]ldvalue.Value{
		"skills":             skillsValue(skills),
		"jobMatches":         jobs,
		"jobs":               jobs,
		"courses":            courseListing(),
		"recommendedCourses": recommendedCourses(skills),
		"progress": ldvalue.ObjectBuild().
			Set("profileCompletion", ldvalue.Int(completion)).
			Set("coursesCompleted", ldvalue.Int(rand.Intn(5)+1)).
			Set("jobApplications", ldvalue.Int(applications)).
			Build(),
	}

	b := ldvalue.ObjectBuild()
	for _, k := range DashboardKeys {
		if !s.dropKeys[k] {
			b.Set(k, parts[k])
		}
	}
	return http.StatusOK, b.Build()
}

func (s *Server) chat(c *call) (int, ldvalue.Value) {
	message := c.body.GetByKey("message").StringValue()
	if message == "" {
		return http.StatusBadRequest, errorBody("Message is required")
	}

	sessionID := c.body.GetByKey("sessionId").StringValue()
	if sessionID == "" || s.rotateSessions {
		sessionID = uuid.NewString()
	}

	return http.StatusOK, ldvalue.ObjectBuild().
		Set("response", ldvalue.String(chatReply(message))).
		Set("sessionId", ldvalue.String(sessionID)).
		Build()
}

func (s *Server) jobs(*call) (int, ldvalue.Value) {
	return http.StatusOK, ldvalue.ObjectBuild().Set("jobs", jobListing(time.Now())).Build()
}

func (s *Server) courses(*call) (int, ldvalue.Value) {
	return http.StatusOK, ldvalue.ObjectBuild().Set("courses", courseListing()).Build()
}

func (s *Server) apply(c *call) (int, ldvalue.Value) {
	jobID := c.body.GetByKey("jobId").StringValue()
	if jobID == "" {
		return http.StatusBadRequest, errorBody("Job ID is required")
	}

	s.store.update(func() {
		c.user.Applications = append(c.user.Applications, jobID)
	})

	return http.StatusOK, ldvalue.ObjectBuild().
		Set("success", ldvalue.Bool(true)).
		Set("message", ldvalue.String("Application submitted successfully!")).
		Build()
}
