package logqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	interrors "github.com/docharbor/docsearch/internal/errors"
)

func TestSubmitAndStop(t *testing.T) {
	t.Parallel()
	q := New(Config{}, zerolog.Nop())
	defer q.Stop()

	var ran int32
	if err := q.Submit(context.Background(), "doc-1", JobFunc(func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := q.Barrier(context.Background(), "doc-1"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if atomic.LoadInt32(&ran) != 1 {
		t.Fatal("job did not run")
	}
}

func TestSubmit_AfterStop(t *testing.T) {
	t.Parallel()
	q := New(Config{}, zerolog.Nop())
	q.Stop()
	if err := q.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil })); !errors.Is(err, ErrQueueClosed) {
		t.Fatalf("expected ErrQueueClosed, got %v", err)
	}
}

func TestSubmit_QueueFull(t *testing.T) {
	t.Parallel()
	q := New(Config{Shards: 1, QueueSize: 1, EnqueueTimeout: 10 * time.Millisecond}, zerolog.Nop())
	defer q.Stop()

	blockCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var started int32
	_ = q.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.StoreInt32(&started, 1)
		<-blockCtx.Done()
		return nil
	}))
	for atomic.LoadInt32(&started) == 0 {
		time.Sleep(time.Millisecond)
	}

	_ = q.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	err := q.Submit(context.Background(), "k", JobFunc(func(context.Context) error { return nil }))
	if !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	var full *FullError
	if !errors.As(err, &full) || full.Capacity != 1 {
		t.Fatalf("expected *FullError with capacity, got %+v", err)
	}
}

func TestRetry_RecoverableThenSuccess(t *testing.T) {
	t.Parallel()
	q := New(Config{Shards: 1, BaseBackoff: time.Millisecond, MaxInterval: 5 * time.Millisecond}, zerolog.Nop())
	defer q.Stop()

	var attempts int32
	if err := q.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		if atomic.AddInt32(&attempts, 1) < 3 {
			return interrors.NewHTTPError(503, "", "log view")
		}
		return nil
	})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := q.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestRetry_IrrecoverableFailsFast(t *testing.T) {
	t.Parallel()
	var handled atomic.Value
	q := New(Config{
		Shards:      1,
		BaseBackoff: time.Millisecond,
		ErrorHandler: func(err error) {
			handled.Store(err)
		},
	}, zerolog.Nop())
	defer q.Stop()

	var attempts int32
	if err := q.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&attempts, 1)
		return interrors.NewHTTPError(401, "", "log view")
	})); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := q.Barrier(context.Background(), "k"); err != nil {
		t.Fatalf("barrier: %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Fatalf("401 was retried: %d attempts", got)
	}
	if err, ok := handled.Load().(error); !ok || !interrors.IsIrrecoverable(err) {
		t.Fatalf("error handler not invoked with classified error: %v", handled.Load())
	}
}

func TestFIFO_PerKey(t *testing.T) {
	t.Parallel()
	q := New(Config{Shards: 4}, zerolog.Nop())
	defer q.Stop()

	var order []int
	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		i := i
		last := i == 4
		if err := q.Submit(context.Background(), "same-key", JobFunc(func(context.Context) error {
			order = append(order, i)
			if last {
				close(done)
			}
			return nil
		})); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	<-done
	for i, got := range order {
		if got != i {
			t.Fatalf("FIFO violated: %v", order)
		}
	}
}

func TestStop_DrainsPending(t *testing.T) {
	t.Parallel()
	q := New(Config{Shards: 1, QueueSize: 16}, zerolog.Nop())

	var ran int32
	for i := 0; i < 8; i++ {
		if err := q.Submit(context.Background(), "k", JobFunc(func(context.Context) error {
			atomic.AddInt32(&ran, 1)
			return nil
		})); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	q.Stop()
	if got := atomic.LoadInt32(&ran); got != 8 {
		t.Fatalf("stop did not drain: %d of 8 ran", got)
	}
}

func TestCancelledJobSkipsRun(t *testing.T) {
	t.Parallel()
	q := New(Config{Shards: 1}, zerolog.Nop())
	defer q.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var ran int32
	_ = q.Submit(context.Background(), "warmup", JobFunc(func(context.Context) error { return nil }))
	if err := q.Submit(ctx, "k", JobFunc(func(context.Context) error {
		atomic.AddInt32(&ran, 1)
		return nil
	})); err == nil {
		// Submit may accept the job before noticing the dead context;
		// the worker must then skip it.
		_ = q.Barrier(context.Background(), "k")
		if atomic.LoadInt32(&ran) != 0 {
			t.Fatal("job with cancelled context was run")
		}
	}
}
