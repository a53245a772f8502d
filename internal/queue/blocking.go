// Package queue provides the blocking FIFO queue that carries tasks between
// the driver, the scheduler and the processors.
package queue

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrQueueClosed   = errors.New("queue is closed")
	ErrInvalidBounds = errors.New("invalid drain bounds")
)

// BlockingQueue is an unbounded, thread-safe FIFO queue.
//
// A single mutex guards the backing slice and every state change is
// followed by a broadcast on the condition variable, so any number of
// consumers blocked in Get or DrainAtLeast re-check their predicate.
type BlockingQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

// New creates an empty blocking queue.
func New[T any]() *BlockingQueue[T] {
	q := &BlockingQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Put appends item to the tail of the queue and wakes every waiter.
// Returns ErrQueueClosed once the queue has been destroyed.
func (q *BlockingQueue[T]) Put(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.items = append(q.items, item)
	q.cond.Broadcast()
	return nil
}

// Get blocks until an item is available, then removes and returns the head.
//
// It returns ctx.Err() if the context is cancelled while waiting and
// ErrQueueClosed if the queue is destroyed while waiting.
func (q *BlockingQueue[T]) Get(ctx context.Context) (T, error) {
	stop := q.wakeOnDone(ctx)
	defer stop()

	return q.getLocked(ctx)
}

// DrainUpTo removes up to maxCount items without blocking and returns them
// in FIFO order. An empty queue yields an empty slice.
func (q *BlockingQueue[T]) DrainUpTo(maxCount int) []T {
	if maxCount <= 0 {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	n := min(maxCount, len(q.items))
	out := make([]T, 0, n)
	for range n {
		out = append(out, q.take())
	}
	return out
}

// DrainAtLeast removes up to maxCount items but does not return before at least
// minCount have been collected, blocking whenever the queue runs dry.
//
// The lock is reacquired for every blocking dequeue so producers can
// interleave puts. Once minCount items are held, whatever else is already
// queued is taken without waiting, up to maxCount.
//
// On cancellation the items collected so far are returned alongside the
// context error.
func (q *BlockingQueue[T]) DrainAtLeast(ctx context.Context, maxCount, minCount int) ([]T, error) {
	if maxCount < 0 || minCount < 0 || minCount > maxCount {
		return nil, ErrInvalidBounds
	}

	out := make([]T, 0, maxCount)
	if maxCount == 0 {
		return out, nil
	}

	stop := q.wakeOnDone(ctx)
	defer stop()

	for len(out) < minCount {
		item, err := q.getLocked(ctx)
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}

	return append(out, q.DrainUpTo(maxCount-len(out))...), nil
}

// Peek returns a copy of the head item without removing it.
func (q *BlockingQueue[T]) Peek() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	return q.items[0], true
}

// Len returns the number of pending items.
func (q *BlockingQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Destroy releases every pending item and closes the queue.
// Subsequent puts fail and blocked consumers return ErrQueueClosed.
// Calling Destroy more than once is a no-op.
func (q *BlockingQueue[T]) Destroy() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	clear(q.items)
	q.items = nil
	q.closed = true
	q.cond.Broadcast()
}

// getLocked performs one blocking dequeue in its own critical section.
func (q *BlockingQueue[T]) getLocked(ctx context.Context) (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.waitNonEmpty(ctx); err != nil {
		var zero T
		return zero, err
	}
	return q.take(), nil
}

// waitNonEmpty must be called with q.mu held.
func (q *BlockingQueue[T]) waitNonEmpty(ctx context.Context) error {
	for len(q.items) == 0 {
		if q.closed {
			return ErrQueueClosed
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		q.cond.Wait()
	}
	return nil
}

// take must be called with q.mu held and a non-empty queue.
func (q *BlockingQueue[T]) take() T {
	var zero T
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = q.items[:0:0]
	}
	return item
}

// wakeOnDone broadcasts on the condition variable when ctx is done so that
// waiters observe the cancellation.
func (q *BlockingQueue[T]) wakeOnDone(ctx context.Context) (stop func() bool) {
	if ctx.Done() == nil {
		return func() bool { return true }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
}
