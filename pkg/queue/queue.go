// Package queue provides a fixed-capacity FIFO that blocks producers while
// full and consumers while empty.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/muhammadchandra19/trade-aggregator/pkg/errors"
)

// ErrClosed is returned by Push once Close has been called.
var ErrClosed = errors.NewErrorDetails("queue is closed", string(errors.QueueClosedError), "")

// Stats describes the traffic a queue has seen and how long items waited in it.
type Stats struct {
	Pushed    uint64
	Popped    uint64
	TotalWait time.Duration
	MaxWait   time.Duration
}

// AvgWait is the mean time an item spent between Push and Pop.
func (s Stats) AvgWait() time.Duration {
	if s.Popped == 0 {
		return 0
	}
	return s.TotalWait / time.Duration(s.Popped)
}

type slot[T any] struct {
	item       T
	enqueuedAt time.Time
}

// Queue is a bounded ring buffer shared by any number of producers and consumers.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  *sync.Cond
	notEmpty *sync.Cond

	buf  []slot[T]
	head int
	tail int
	size int

	closed bool
	stats  Stats
	now    func() time.Time
}

// New allocates a queue holding at most capacity items.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity < 1 {
		return nil, errors.NewErrorDetails(
			fmt.Sprintf("queue capacity must be at least 1, got %d", capacity),
			string(errors.QueueInitError),
			"capacity",
		)
	}

	q := &Queue[T]{
		buf: make([]slot[T], capacity),
		now: time.Now,
	}
	q.notFull = sync.NewCond(&q.mu)
	q.notEmpty = sync.NewCond(&q.mu)
	return q, nil
}

// Push appends item at the tail, blocking while the queue is full. It returns
// ErrClosed after Close, or ctx.Err() if ctx ends while waiting; in both cases
// the item is not enqueued.
func (q *Queue[T]) Push(ctx context.Context, item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() {
			q.mu.Lock()
			q.notFull.Broadcast()
			q.mu.Unlock()
		})
		defer stop()
	}

	for q.size == len(q.buf) && !q.closed {
		if err := ctx.Err(); err != nil {
			return err
		}
		q.notFull.Wait()
	}

	if q.closed {
		return ErrClosed
	}

	q.buf[q.tail] = slot[T]{item: item, enqueuedAt: q.now()}
	q.tail = (q.tail + 1) % len(q.buf)
	q.size++
	q.stats.Pushed++

	q.notEmpty.Signal()
	return nil
}

// Pop removes and returns the head item, blocking while the queue is empty.
// Once the queue is closed and drained it returns the zero value and false.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.closed {
		q.notEmpty.Wait()
	}

	if q.size == 0 {
		var zero T
		return zero, false
	}

	s := q.buf[q.head]
	q.buf[q.head] = slot[T]{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	wait := q.now().Sub(s.enqueuedAt)
	q.stats.Popped++
	q.stats.TotalWait += wait
	if wait > q.stats.MaxWait {
		q.stats.MaxWait = wait
	}

	q.notFull.Signal()
	return s.item, true
}

// Close marks producers as finished and wakes every blocked Push and Pop.
// Items already queued remain available to Pop. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len is the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap is the fixed capacity.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}

// Full reports whether a Push would block.
func (q *Queue[T]) Full() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == len(q.buf)
}

// Empty reports whether a Pop would block (or return false after Close).
func (q *Queue[T]) Empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == 0
}

// Stats returns a snapshot of the traffic counters.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}
