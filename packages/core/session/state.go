// Package session holds the identity and conversation data that scenarios
// thread through a run.
package session

// State is populated by early scenarios and read by later ones. Setters
// ignore empty values, so a field never goes back to unset once written.
//
// State is not safe for concurrent use; a run owns exactly one State and
// executes scenarios one at a time.
type State struct {
	authToken     string
	userID        string
	chatSessionID string
	jobID         string
}

func New() *State {
	return &State{}
}

// Snapshot is a point-in-time copy of State.
type Snapshot struct {
	AuthToken     string `json:"authToken,omitempty"`
	UserID        string `json:"userId,omitempty"`
	ChatSessionID string `json:"chatSessionId,omitempty"`
	JobID         string `json:"jobId,omitempty"`
}

func (s *State) AuthToken() string {
	return s.authToken
}

func (s *State) HasAuthToken() bool {
	return s.authToken != ""
}

func (s *State) SetAuthToken(token string) {
	if token != "" {
		s.authToken = token
	}
}

func (s *State) UserID() string {
	return s.userID
}

func (s *State) SetUserID(id string) {
	if id != "" {
		s.userID = id
	}
}

func (s *State) ChatSessionID() string {
	return s.chatSessionID
}

// SetChatSessionID records the conversation id returned by the chat endpoint.
// Each non-empty id replaces the previous one.
func (s *State) SetChatSessionID(id string) {
	if id != "" {
		s.chatSessionID = id
	}
}

// JobID is the first job discovered by the jobs listing.
func (s *State) JobID() string {
	return s.jobID
}

func (s *State) SetJobID(id string) {
	if id != "" {
		s.jobID = id
	}
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		AuthToken:     s.authToken,
		UserID:        s.userID,
		ChatSessionID: s.chatSessionID,
		JobID:         s.jobID,
	}
}
