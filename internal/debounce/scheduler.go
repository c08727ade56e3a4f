// Package debounce coalesces rapid filter mutations into a single trailing
// invocation per logical channel. Each channel ("search", "tag-search", ...)
// owns an independent timer, so a tag toggle does not reset a pending
// name-search on another channel.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the trailing delay applied when none is configured.
const DefaultInterval = 400 * time.Millisecond

// Scheduler runs the most recent function scheduled on each channel once
// the channel's trailing timer elapses. Functions superseded before the
// timer fires are never invoked.
type Scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	pending  map[string]*time.Timer
	stopped  bool
}

// NewScheduler constructs a Scheduler. A non-positive interval selects
// DefaultInterval.
func NewScheduler(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		interval: interval,
		pending:  make(map[string]*time.Timer),
	}
}

// Schedule records fn as the latest work for channel and starts or resets
// the channel's trailing timer. When the timer elapses fn runs exactly
// once; an earlier fn on the same channel that has not yet fired is
// discarded.
func (s *Scheduler) Schedule(channel string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	if t, ok := s.pending[channel]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		// Only fire if this timer is still the channel's current one and
		// the scheduler has not been stopped in the meantime.
		current, ok := s.pending[channel]
		if !ok || current != timer || s.stopped {
			s.mu.Unlock()
			return
		}
		delete(s.pending, channel)
		s.mu.Unlock()
		fn()
	})
	s.pending[channel] = timer
}

// Flush fires the pending work for channel immediately, if any.
func (s *Scheduler) Flush(channel string) {
	s.mu.Lock()
	t, ok := s.pending[channel]
	s.mu.Unlock()
	if ok && t.Stop() {
		// Reset to zero so AfterFunc runs on the next tick.
		t.Reset(0)
	}
}

// Pending reports whether channel has undelivered work.
func (s *Scheduler) Pending(channel string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[channel]
	return ok
}

// Stop clears every pending timer without invoking its function and
// rejects further scheduling. Safe to call multiple times.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	for ch, t := range s.pending {
		t.Stop()
		delete(s.pending, ch)
	}
}
