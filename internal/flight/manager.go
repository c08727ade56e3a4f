// Package flight tracks keyed in-flight network calls. Concurrent calls
// with the same key share one underlying operation, every call is bounded
// by a timeout, and registrations can be cancelled individually or by key
// prefix.
//
// The operation runs on a context detached from its initiating caller, so
// late attachers are not killed when the first caller walks away; only
// Cancel/CancelAll, the timeout, or settlement end a call.
package flight

import (
	"context"
	"strings"
	"sync"
	"time"

	interrors "github.com/docharbor/docsearch/internal/errors"
)

// DefaultTimeout bounds a single tracked operation.
const DefaultTimeout = 10 * time.Second

type call struct {
	done      chan struct{}
	val       any
	err       error
	cancel    context.CancelFunc
	cancelled bool // set by Cancel/CancelAll before the context is torn down
	started   time.Time
}

// Manager is the in-flight call registry. At most one live call exists per
// key; the zero value is not usable, construct with NewManager.
type Manager struct {
	mu      sync.Mutex
	calls   map[string]*call
	timeout time.Duration
}

// NewManager constructs a Manager. A non-positive timeout selects
// DefaultTimeout.
func NewManager(timeout time.Duration) *Manager {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Manager{
		calls:   make(map[string]*call),
		timeout: timeout,
	}
}

// Do returns the settled result of the live call registered under key,
// attaching to it if one exists or starting op otherwise. The registration
// is removed when the call settles, so the key is immediately reusable.
//
// A call ended by Cancel or CancelAll settles with an error satisfying
// interrors.IsCancellation; a call that outlives the timeout settles with
// context.DeadlineExceeded and is reported as a failure, not left dangling.
func Do[T any](m *Manager, ctx context.Context, key string, op func(context.Context) (T, error)) (T, error) {
	var zero T

	m.mu.Lock()
	if c, ok := m.calls[key]; ok {
		m.mu.Unlock()
		attachedTotal.Inc()
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-c.done:
			return callResult[T](c)
		}
	}

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
	c := &call{
		done:    make(chan struct{}),
		cancel:  cancel,
		started: time.Now(),
	}
	m.calls[key] = c
	m.mu.Unlock()
	startedTotal.Inc()

	go func() {
		defer cancel()
		val, err := op(opCtx)
		m.settle(key, c, val, err, opCtx.Err())
	}()

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-c.done:
		return callResult[T](c)
	}
}

func callResult[T any](c *call) (T, error) {
	var zero T
	if c.err != nil {
		return zero, c.err
	}
	if v, ok := c.val.(T); ok {
		return v, nil
	}
	return zero, nil
}

// settle records the outcome and removes the registration. The abort flag
// is re-checked here so a cancelled operation never publishes a result.
func (m *Manager) settle(key string, c *call, val any, err error, ctxErr error) {
	m.mu.Lock()
	if cur, ok := m.calls[key]; ok && cur == c {
		delete(m.calls, key)
	}
	cancelled := c.cancelled
	m.mu.Unlock()

	switch {
	case cancelled:
		c.err = interrors.ErrCancelled
	case err != nil && ctxErr == context.DeadlineExceeded:
		timeoutsTotal.Inc()
		c.err = context.DeadlineExceeded
	case err != nil:
		c.err = err
	default:
		c.val = val
	}
	close(c.done)
}

// Cancel aborts the in-flight call for key, if any, and removes its
// registration. Attached waiters observe a cancellation error.
func (m *Manager) Cancel(key string) {
	m.mu.Lock()
	c, ok := m.calls[key]
	if ok {
		c.cancelled = true
		delete(m.calls, key)
	}
	m.mu.Unlock()
	if ok {
		c.cancel()
	}
}

// CancelAll aborts every registration whose key has the given prefix.
// An empty prefix cancels everything.
func (m *Manager) CancelAll(prefix string) {
	m.mu.Lock()
	var doomed []*call
	for key, c := range m.calls {
		if strings.HasPrefix(key, prefix) {
			c.cancelled = true
			doomed = append(doomed, c)
			delete(m.calls, key)
		}
	}
	m.mu.Unlock()
	for _, c := range doomed {
		c.cancel()
	}
}

// InFlight reports whether a live call is registered under key.
func (m *Manager) InFlight(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.calls[key]
	return ok
}

// Len returns the number of live registrations.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
