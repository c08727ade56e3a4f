package debounce

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSchedule_TrailingInvocationUsesLatest(t *testing.T) {
	t.Parallel()
	s := NewScheduler(30 * time.Millisecond)
	defer s.Stop()

	var fired int32
	var got atomic.Value
	for _, q := range []string{"i", "in", "inv", "invo", "invoice"} {
		q := q
		s.Schedule("search", func() {
			atomic.AddInt32(&fired, 1)
			got.Store(q)
		})
	}

	time.Sleep(100 * time.Millisecond)
	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Fatalf("expected exactly one invocation, got %d", n)
	}
	if got.Load() != "invoice" {
		t.Fatalf("expected latest query to win, got %v", got.Load())
	}
}

func TestSchedule_ChannelsIndependent(t *testing.T) {
	t.Parallel()
	s := NewScheduler(40 * time.Millisecond)
	defer s.Stop()

	var searchFired, tagFired int32
	s.Schedule("search", func() { atomic.AddInt32(&searchFired, 1) })

	// A tag toggle shortly after must not reset the search timer.
	time.Sleep(25 * time.Millisecond)
	s.Schedule("tag-search", func() { atomic.AddInt32(&tagFired, 1) })

	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&searchFired) != 1 {
		t.Fatal("search timer was disturbed by an unrelated channel")
	}
	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&tagFired) != 1 {
		t.Fatal("tag-search never fired")
	}
}

func TestStop_ClearsPendingWithoutFiring(t *testing.T) {
	t.Parallel()
	s := NewScheduler(20 * time.Millisecond)

	var fired int32
	s.Schedule("search", func() { atomic.AddInt32(&fired, 1) })
	s.Stop()

	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatal("executor invoked after Stop")
	}
	if s.Pending("search") {
		t.Fatal("pending work survived Stop")
	}

	// Scheduling after Stop is a no-op, not a panic.
	s.Schedule("search", func() { atomic.AddInt32(&fired, 1) })
	time.Sleep(40 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Fatal("scheduler accepted work after Stop")
	}
}

func TestFlush_FiresImmediately(t *testing.T) {
	t.Parallel()
	s := NewScheduler(5 * time.Second)
	defer s.Stop()

	done := make(chan struct{})
	s.Schedule("search", func() { close(done) })
	s.Flush("search")

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush did not fire the pending work")
	}
}
