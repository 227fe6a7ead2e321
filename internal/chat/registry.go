package chat

import "sync"

// DefaultSessionID is used when a request does not name a session.
const DefaultSessionID = "default"

// Registry creates sessions on first use and keeps them for the life of the
// process.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

func NewRegistry(factory func(id string) *Session) *Registry {
	return &Registry{sessions: map[string]*Session{}, factory: factory}
}

func (r *Registry) Get(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		s = r.factory(id)
		r.sessions[id] = s
	}
	return s
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.Close()
	}
}
