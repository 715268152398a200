package controller

import (
	"context"
	"sync"
	"time"

	"github.com/limbo/companion/pkg/entity"
)

const saveTimeout = 5 * time.Second

// saveQueue is a single writer. At most one save is in flight, a newer
// snapshot replaces one that is queued but not yet issued.
type saveQueue struct {
	save func(ctx context.Context, progress entity.UserProgress)

	mu      sync.Mutex
	pending *entity.UserProgress
	// closed whenever nothing is pending or in flight
	idle   chan struct{}
	busy   bool
	closed bool

	wake    chan struct{}
	quit    chan struct{}
	stopped chan struct{}
}

func newSaveQueue(save func(ctx context.Context, progress entity.UserProgress)) *saveQueue {
	idle := make(chan struct{})
	close(idle)
	q := &saveQueue{
		save:    save,
		idle:    idle,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *saveQueue) enqueue(progress entity.UserProgress) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.pending = &progress
	if !q.busy {
		q.busy = true
		q.idle = make(chan struct{})
	}
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
	return true
}

func (q *saveQueue) run() {
	defer close(q.stopped)
	for {
		select {
		case <-q.wake:
			q.drain()
		case <-q.quit:
			q.drain()
			return
		}
	}
}

func (q *saveQueue) drain() {
	for {
		q.mu.Lock()
		if q.pending == nil {
			if q.busy {
				q.busy = false
				close(q.idle)
			}
			q.mu.Unlock()
			return
		}
		progress := *q.pending
		q.pending = nil
		q.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		q.save(ctx, progress)
		cancel()
	}
}

// flush waits until every enqueued snapshot is written or superseded.
func (q *saveQueue) flush(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()
	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// discard drops the queued snapshot and waits for the in-flight one.
func (q *saveQueue) discard(ctx context.Context) error {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
	return q.flush(ctx)
}

// close writes what is queued and stops the writer goroutine.
func (q *saveQueue) close(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.mu.Unlock()
	close(q.quit)
	select {
	case <-q.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
