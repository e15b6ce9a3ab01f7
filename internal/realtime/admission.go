package realtime

import "sync"

// Limiter bounds concurrent realtime connections per source address.
// It is the only gate that runs before authentication, so connection
// floods from one address are contained regardless of credentials.
type Limiter struct {
	mu     sync.Mutex
	max    int
	counts map[string]int
}

// NewLimiter creates a limiter allowing max concurrent connections per address
func NewLimiter(max int) *Limiter {
	return &Limiter{
		max:    max,
		counts: make(map[string]int),
	}
}

// Admit reserves a connection slot for addr. It reports false, leaving the
// counter unchanged, when the address is already at its cap; the caller must
// close the connection without further protocol participation.
func (l *Limiter) Admit(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.counts[addr] >= l.max {
		return false
	}
	l.counts[addr]++
	return true
}

// Release frees a previously admitted slot for addr, dropping the map entry
// once its count reaches zero
func (l *Limiter) Release(addr string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch count := l.counts[addr]; {
	case count > 1:
		l.counts[addr] = count - 1
	case count == 1:
		delete(l.counts, addr)
	}
}

// Active returns the number of admitted connections for addr
func (l *Limiter) Active(addr string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[addr]
}
