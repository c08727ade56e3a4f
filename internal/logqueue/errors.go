package logqueue

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Submit after Stop.
var ErrQueueClosed = errors.New("logqueue closed")

// ErrQueueFull is the sentinel wrapped by *FullError.
var ErrQueueFull = errors.New("logqueue shard full")

// FullError reports a shard that had no space within EnqueueTimeout.
type FullError struct {
	Shard    int
	Length   int
	Capacity int
}

// Error implements the error interface.
func (e *FullError) Error() string {
	return fmt.Sprintf("logqueue shard %d full (%d/%d)", e.Shard, e.Length, e.Capacity)
}

// Unwrap lets errors.Is(err, ErrQueueFull) match.
func (e *FullError) Unwrap() error { return ErrQueueFull }
