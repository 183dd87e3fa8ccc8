package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState_StartsEmpty(t *testing.T) {
	s := New()
	assert.False(t, s.HasAuthToken())
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestState_FieldsAreNeverReset(t *testing.T) {
	s := New()
	s.SetAuthToken("tok")
	s.SetUserID("u1")
	s.SetChatSessionID("c1")
	s.SetJobID("j1")

	s.SetAuthToken("")
	s.SetUserID("")
	s.SetChatSessionID("")
	s.SetJobID("")

	assert.Equal(t, Snapshot{AuthToken: "tok", UserID: "u1", ChatSessionID: "c1", JobID: "j1"}, s.Snapshot())
	assert.True(t, s.HasAuthToken())
}

func TestState_ChatSessionLastWriterWins(t *testing.T) {
	s := New()
	s.SetChatSessionID("first")
	s.SetChatSessionID("second")
	assert.Equal(t, "second", s.ChatSessionID())
}

func TestState_SnapshotIsACopy(t *testing.T) {
	s := New()
	s.SetUserID("u1")
	snap := s.Snapshot()
	s.SetUserID("u2")
	assert.Equal(t, "u1", snap.UserID)
	assert.Equal(t, "u2", s.UserID())
}
