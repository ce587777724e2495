package cart

import (
	"sync"

	"github.com/google/uuid"
)

// Registry owns the session-to-store mapping. Stores are created per session
// and torn down when the session closes; nothing outlives the process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Store
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Store),
	}
}

// Create opens a fresh session with an empty cart and returns its identifier.
func (r *Registry) Create() (string, *Store) {
	id := uuid.New().String()
	store := NewStore()

	r.mu.Lock()
	r.sessions[id] = store
	r.mu.Unlock()

	return id, store
}

// Get returns the session's store, if the session exists.
func (r *Registry) Get(id string) (*Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.sessions[id]
	return store, ok
}

// Close tears the session down. Closing an unknown session is a no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
