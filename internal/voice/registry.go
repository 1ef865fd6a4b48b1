package voice

import (
	"context"
	"sync"
)

// SessionRegistry hands out one CallSession per user so the REST call
// endpoints and the provider webhook operate on the same state machine.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*CallSession
	factory  func(userID string) *CallSession
}

func NewSessionRegistry(factory func(userID string) *CallSession) *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[string]*CallSession),
		factory:  factory,
	}
}

func (r *SessionRegistry) Get(userID string) *CallSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[userID]; ok {
		return s
	}
	s := r.factory(userID)
	r.sessions[userID] = s
	return s
}

// Drop releases a user's call, if any, and forgets the session.
func (r *SessionRegistry) Drop(ctx context.Context, userID string) {
	r.mu.Lock()
	s := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if s != nil {
		s.Close(ctx)
	}
}
