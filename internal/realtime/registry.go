package realtime

import (
	"sort"
	"sync"
)

// TakeoverPolicy decides how a second register for an already-bound
// username is handled
type TakeoverPolicy string

const (
	// TakeoverReplace binds the new connection and supersedes the old one
	TakeoverReplace TakeoverPolicy = "replace"
	// TakeoverReject refuses the new connection and keeps the old binding
	TakeoverReject TakeoverPolicy = "reject"
)

// Registry maps each authenticated username to its single active realtime
// connection
type Registry struct {
	mu       sync.RWMutex
	policy   TakeoverPolicy
	sessions map[string]*Client
}

// NewRegistry creates an empty session registry with the given policy
func NewRegistry(policy TakeoverPolicy) *Registry {
	return &Registry{
		policy:   policy,
		sessions: make(map[string]*Client),
	}
}

// Bind records c as username's active connection. Under the replace policy
// the previous binding (if any, and if a different connection) is returned
// so the caller can close it. Under the reject policy ok is false when the
// username is already bound elsewhere and no binding change is made.
func (r *Registry) Bind(username string, c *Client) (prev *Client, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.sessions[username]
	if existing != nil && existing != c && r.policy == TakeoverReject {
		return nil, false
	}

	r.sessions[username] = c
	if existing != c {
		prev = existing
	}
	return prev, true
}

// Unbind removes username's binding, but only if it still points at c.
// This keeps a superseded connection's teardown from evicting the session
// that replaced it.
func (r *Registry) Unbind(username string, c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[username] != c {
		return false
	}
	delete(r.sessions, username)
	return true
}

// IsBound reports whether username is currently bound to c
func (r *Registry) IsBound(username string, c *Client) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[username] == c
}

// ActivePlayers returns the bound usernames, sorted
func (r *Registry) ActivePlayers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]string, 0, len(r.sessions))
	for username := range r.sessions {
		players = append(players, username)
	}
	sort.Strings(players)
	return players
}

// Count returns the number of bound sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
