package mock

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

type skill struct {
	Name  string
	Level int
}

type user struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Location     string
	Experience   string
	Skills       []skill
	Assessed     bool
	Applications []string
	CreatedAt    time.Time
}

func (u *user) value() ldvalue.Value {
	return ldvalue.ObjectBuild().
		Set("id", ldvalue.String(u.ID)).
		Set("name", ldvalue.String(u.Name)).
		Set("email", ldvalue.String(u.Email)).
		Set("phone", ldvalue.String(u.Phone)).
		Set("location", ldvalue.String(u.Location)).
		Set("experience", ldvalue.String(u.Experience)).
		Set("skillVector", skillsValue(u.Skills)).
		Set("assessmentCompleted", ldvalue.Bool(u.Assessed)).
		Set("createdAt", ldvalue.String(u.CreatedAt.UTC().Format(time.RFC3339))).
		Build()
}

// store is the in-memory state of the fake API. Every exported operation of
// Server reaches it through the mutex.
type store struct {
	mu      sync.Mutex
	users   map[string]*user
	byEmail map[string]string
	tokens  map[string]string
}

func newStore() *store {
	return &store{
		users:   make(map[string]*user),
		byEmail: make(map[string]string),
		tokens:  make(map[string]string),
	}
}

// register creates a user and issues a token. It reports false when the
// email is already taken.
func (s *store) register(u *user) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[u.Email]; exists {
		return "", false
	}

	u.ID = uuid.NewString()
	s.users[u.ID] = u
	s.byEmail[u.Email] = u.ID

	token := uuid.NewString()
	s.tokens[token] = u.ID
	return token, true
}

func (s *store) userForToken(token string) (*user, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[token]
	if !ok {
		return nil, false
	}
	u, ok := s.users[id]
	return u, ok
}

// update runs fn with the store locked.
func (s *store) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

func (s *store) userCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
