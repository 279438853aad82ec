package expenses_bot

import (
	"sync"
)

// Session is one user's conversation: current state plus the in-flight
// draft. Never persisted; lost on restart mid-flow.
type Session struct {
	ChatID int64
	UserID int64
	Handle string
	State  State
	Draft  Draft
}

// Sessions is an explicit chat-id to session mapping. Handling within
// one session is serialized by the update loop; the map itself is
// guarded for cross-user access.
type Sessions struct {
	mu sync.Mutex
	m  map[int64]*Session
}

func NewSessions() *Sessions {
	return &Sessions{m: make(map[int64]*Session)}
}

// Get returns the session for a chat, creating it in the initial state
// if needed. Handle and user id are refreshed on every call.
func (s *Sessions) Get(chatID, userID int64, handle string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[chatID]
	if !ok {
		sess = &Session{ChatID: chatID, State: ChooseAction}
		s.m[chatID] = sess
	}
	sess.UserID = userID
	sess.Handle = handle
	return sess
}

// Reset drops the draft and puts the session back to the start.
func (s *Sessions) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[chatID]; ok {
		sess.Draft = Draft{}
		sess.State = ChooseAction
	}
}
