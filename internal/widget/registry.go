package widget

import "sync"

// Registry hands out one long-lived ChatWidget per user, shared between the
// REST chat endpoints and websocket sessions so both see the same history and
// the same single-flight gate.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*ChatWidget
	factory  func(userID string) *ChatWidget
}

func NewRegistry(factory func(userID string) *ChatWidget) *Registry {
	return &Registry{
		sessions: make(map[string]*ChatWidget),
		factory:  factory,
	}
}

func (r *Registry) Get(userID string) *ChatWidget {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w, ok := r.sessions[userID]; ok {
		return w
	}
	w := r.factory(userID)
	r.sessions[userID] = w
	return w
}

// Drop closes and forgets a user's widget.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	w := r.sessions[userID]
	delete(r.sessions, userID)
	r.mu.Unlock()
	if w != nil {
		w.Close()
	}
}
