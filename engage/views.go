package engage

import "sync"

// ViewSession counts each post at most once for the life of the session.
// It is never persisted.
type ViewSession struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewViewSession starts an empty session.
func NewViewSession() *ViewSession {
	return &ViewSession{seen: make(map[string]struct{})}
}

// ShouldCount returns true the first time postID is seen and marks it
// counted; later calls return false.
func (v *ViewSession) ShouldCount(postID string) bool {
	if postID == "" {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.seen[postID]; ok {
		return false
	}
	v.seen[postID] = struct{}{}
	return true
}

// Len is the number of posts counted so far.
func (v *ViewSession) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.seen)
}
