// Package prodcons implements a bounded buffer monitor and the producer
// and consumer goroutines which communicate through it.
package prodcons

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultCapacity is deliberately small so that producers and consumers
// hit the full and empty conditions often.
const DefaultCapacity = 3

// ErrInterrupted is returned by Put and Get when their context is done
// while they are waiting. The buffer is unchanged by an interrupted call.
var ErrInterrupted = errors.New("buffer wait interrupted")

// BoundedBuffer is a fixed capacity FIFO queue whose Put blocks while the
// buffer is full and whose Get blocks while it is empty.
//
// The values are kept in a circular slice. head is the index of the oldest
// value and next the index of the first free slot; both only grow, and are
// folded back down by the capacity whenever head wraps, so that
// 0 <= head < cap and 0 <= next-head <= cap.
//
// A single mutex guards the buffer and a single condition variable holds
// every waiter, producers and consumers alike. Each state change wakes them
// all and each one re-checks its own condition.
type BoundedBuffer[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	values []T
	head   int
	next   int

	size atomic.Int64 // mirrors next-head for lock-free Len
}

// New creates an empty buffer holding at most capacity values.
func New[T any](capacity int) *BoundedBuffer[T] {
	if capacity <= 0 {
		panic("prodcons: capacity must be > 0")
	}
	b := &BoundedBuffer[T]{values: make([]T, capacity)}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Cap returns the capacity of the buffer.
func (b *BoundedBuffer[T]) Cap() int { return len(b.values) }

// Len returns the number of values in the buffer. It never blocks; the
// result may be stale by the time the caller looks at it.
func (b *BoundedBuffer[T]) Len() int { return int(b.size.Load()) }

// Put appends v, waiting while the buffer is full.
func (b *BoundedBuffer[T]) Put(ctx context.Context, v T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stop := b.wakeOnDone(ctx)
	defer stop()
	for b.next-b.head >= len(b.values) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("put: %w: %w", ErrInterrupted, err)
		}
		b.cond.Wait()
	}

	b.values[b.next%len(b.values)] = v
	b.next++
	b.size.Store(int64(b.next - b.head))

	// Wake everyone, consumers and blocked producers alike.
	b.cond.Broadcast()
	return nil
}

// Get removes and returns the oldest value, waiting while the buffer is
// empty.
func (b *BoundedBuffer[T]) Get(ctx context.Context) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	stop := b.wakeOnDone(ctx)
	defer stop()
	for b.next-b.head <= 0 {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, fmt.Errorf("get: %w: %w", ErrInterrupted, err)
		}
		b.cond.Wait()
	}

	var zero T
	v := b.values[b.head%len(b.values)]
	b.values[b.head%len(b.values)] = zero
	b.head++
	if b.head >= len(b.values) {
		b.head -= len(b.values)
		b.next -= len(b.values)
	}
	b.size.Store(int64(b.next - b.head))

	b.cond.Broadcast()
	return v, nil
}

// Snapshot returns the buffered values, oldest first.
func (b *BoundedBuffer[T]) Snapshot() []T {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]T, 0, b.next-b.head)
	for i := b.head; i < b.next; i++ {
		out = append(out, b.values[i%len(b.values)])
	}
	return out
}

// wakeOnDone arranges for every waiter to be woken once ctx is done. The
// broadcast is made under the monitor lock, so a waiter which saw ctx
// still live before calling Wait cannot miss it.
func (b *BoundedBuffer[T]) wakeOnDone(ctx context.Context) (stop func() bool) {
	if ctx.Done() == nil {
		return func() bool { return false }
	}
	return context.AfterFunc(ctx, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.cond.Broadcast()
	})
}
