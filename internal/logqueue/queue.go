// Package logqueue is a sharded fire-and-forget dispatch queue used for
// view logging. FIFO order is preserved per key (document ID); jobs with
// different keys may run in parallel. Recoverable failures are retried
// with exponential backoff; irrecoverable ones are dropped after a single
// attempt. Stopping drains every shard before returning.
package logqueue

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	interrors "github.com/docharbor/docsearch/internal/errors"
)

// Job is a unit of work executed by the Queue.
type Job interface {
	Run(ctx context.Context) error
}

// JobFunc adapts a closure to a Job.
type JobFunc func(ctx context.Context) error

// Run implements Job.
func (f JobFunc) Run(ctx context.Context) error { return f(ctx) }

// Config tunes a Queue. Zero values select the defaults.
type Config struct {
	Shards         int
	QueueSize      int
	EnqueueTimeout time.Duration
	MaxAttempts    int
	BaseBackoff    time.Duration
	MaxInterval    time.Duration

	// ErrorHandler, when set, observes jobs that ultimately failed.
	ErrorHandler func(error)
}

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue executes Jobs on worker goroutines partitioned by a stable hash
// of the key. Callers must not Submit concurrently for the same key if
// they rely on FIFO ordering.
type Queue struct {
	cfg    Config
	log    zerolog.Logger
	queues []chan queuedJob

	done   chan struct{}
	closed uint32

	wg sync.WaitGroup
}

// New constructs the queue and starts its shard workers.
func New(cfg Config, log zerolog.Logger) *Queue {
	if cfg.Shards <= 0 {
		cfg.Shards = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.EnqueueTimeout <= 0 {
		cfg.EnqueueTimeout = 100 * time.Millisecond
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.BaseBackoff <= 0 {
		cfg.BaseBackoff = 100 * time.Millisecond
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = 10 * time.Second
	}

	q := &Queue{
		cfg:    cfg,
		log:    log,
		queues: make([]chan queuedJob, cfg.Shards),
		done:   make(chan struct{}),
	}
	for i := 0; i < cfg.Shards; i++ {
		ch := make(chan queuedJob, cfg.QueueSize)
		q.queues[i] = ch
		q.wg.Add(1)
		go q.runWorker(i, ch)
	}
	return q
}

// Submit enqueues job on the shard derived from key.
//
//   - Returns nil on success.
//   - Returns ErrQueueClosed if the queue is stopped.
//   - Returns *FullError if the shard has no space after EnqueueTimeout.
//   - Returns ctx.Err() if the caller's context is cancelled first.
func (q *Queue) Submit(ctx context.Context, key string, job Job) error {
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrQueueClosed
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	shard := q.shardFor(key)
	ch := q.queues[shard]

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(shardLabel(shard)).Inc()
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		droppedTotal.WithLabelValues(shardLabel(shard)).Inc()
		return &FullError{Shard: shard, Length: len(ch), Capacity: cap(ch)}
	}
}

// Barrier enqueues a no-op on the shard for key and waits until it runs,
// ensuring every previously submitted job for that key has completed.
func (q *Queue) Barrier(ctx context.Context, key string) error {
	done := make(chan struct{})
	j := JobFunc(func(context.Context) error {
		close(done)
		return nil
	})
	if err := q.Submit(ctx, key, j); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop drains every shard and waits for the workers to terminate.
// Idempotent and safe for concurrent use.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	close(q.done)
	q.wg.Wait()
	q.log.Debug().Int("shards", q.cfg.Shards).Msg("logqueue stopped, all shards drained")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

// ------------------------- internals -------------------------

func (q *Queue) runWorker(idx int, ch <-chan queuedJob) {
	defer q.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Int("shard", idx).Msg("logqueue worker panic")
		}
	}()

	label := shardLabel(idx)

	for {
		select {
		case qj := <-ch:
			if qj.job == nil {
				continue
			}
			select {
			case <-qj.ctx.Done():
				q.handleError(qj.ctx.Err())
			default:
				q.runWithRetry(qj, label)
			}
			queueDepth.WithLabelValues(label).Set(float64(len(ch)))

		case <-q.done:
			// Drain remaining jobs in FIFO order, single attempt each.
			for {
				select {
				case qj := <-ch:
					if qj.job != nil {
						_ = qj.job.Run(qj.ctx)
					}
				default:
					queueDepth.WithLabelValues(label).Set(0)
					return
				}
			}
		}
	}
}

func (q *Queue) runWithRetry(qj queuedJob, label string) {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = q.cfg.BaseBackoff
	exp.Multiplier = 2
	exp.MaxInterval = q.cfg.MaxInterval
	exp.Reset()

	for attempt := 0; ; attempt++ {
		start := time.Now()
		err := qj.job.Run(qj.ctx)
		runDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())

		if err == nil {
			return
		}
		if interrors.IsIrrecoverable(err) || attempt >= q.cfg.MaxAttempts-1 {
			failuresTotal.WithLabelValues(label).Inc()
			q.handleError(err)
			return
		}

		select {
		case <-time.After(exp.NextBackOff()):
		case <-q.done:
			return
		case <-qj.ctx.Done():
			q.handleError(qj.ctx.Err())
			return
		}
	}
}

func (q *Queue) handleError(err error) {
	if err == nil || q.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Msg("logqueue error handler panic")
		}
	}()
	q.cfg.ErrorHandler(err)
}

func (q *Queue) shardFor(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % q.cfg.Shards
}
