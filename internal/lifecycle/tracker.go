package lifecycle

import "sync"

// Tracker registers every live handle so view teardown can prove nothing
// leaked. Release is idempotent: a close-then-unmount double fire is a
// no-op the second time.
type Tracker struct {
	mu      sync.Mutex
	handles map[string]*Handle
}

// NewTracker constructs an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{handles: make(map[string]*Handle)}
}

// Materialize creates a handle over payload and registers it.
func (t *Tracker) Materialize(documentID, source, mimeType string, payload []byte) *Handle {
	h := newHandle(documentID, source, mimeType, payload)
	t.mu.Lock()
	t.handles[h.id] = h
	t.mu.Unlock()
	return h
}

// Release revokes h and removes it from tracking. Calling it twice on the
// same handle is a no-op, not an error. Reports whether this call revoked.
func (t *Tracker) Release(h *Handle) bool {
	if h == nil {
		return false
	}
	t.mu.Lock()
	delete(t.handles, h.id)
	t.mu.Unlock()
	return h.revoke()
}

// ReleaseAll revokes every tracked handle matching pred (all when pred is
// nil) and returns how many were revoked. Invoked on view teardown and on
// explicit preview close.
func (t *Tracker) ReleaseAll(pred func(*Handle) bool) int {
	t.mu.Lock()
	var doomed []*Handle
	for id, h := range t.handles {
		if pred == nil || pred(h) {
			doomed = append(doomed, h)
			delete(t.handles, id)
		}
	}
	t.mu.Unlock()

	n := 0
	for _, h := range doomed {
		if h.revoke() {
			n++
		}
	}
	return n
}

// Live returns the number of tracked (unreleased) handles.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.handles)
}
