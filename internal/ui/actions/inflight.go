package actions

import "sync"

// InFlight tracks keys with a pending asynchronous request so a double click
// does not send the same request twice.
type InFlight struct {
	mu      sync.Mutex
	pending map[string]struct{}
}

// NewInFlight returns an empty guard.
func NewInFlight() *InFlight {
	return &InFlight{pending: make(map[string]struct{})}
}

// Begin marks key pending. It returns false when key is already pending.
func (g *InFlight) Begin(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.pending[key]; busy {
		return false
	}
	g.pending[key] = struct{}{}
	return true
}

// Done clears key.
func (g *InFlight) Done(key string) {
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
}

// Pending reports whether key is pending.
func (g *InFlight) Pending(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, busy := g.pending[key]
	return busy
}
