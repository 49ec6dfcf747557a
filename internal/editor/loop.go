package editor

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("editor loop stopped")

// Scheduler runs a function after the current unit of work has finished.
type Scheduler interface {
	Defer(fn func())
}

// Queue is a Scheduler that holds deferred work until Flush. It is not
// safe for concurrent use; Loop drives one from its goroutine.
type Queue struct {
	pending []func()
}

// Defer queues fn.
func (q *Queue) Defer(fn func()) {
	q.pending = append(q.pending, fn)
}

// Flush runs queued work, including work queued while flushing, and
// reports how many functions ran.
func (q *Queue) Flush() int {
	n := 0
	for len(q.pending) > 0 {
		fn := q.pending[0]
		q.pending = q.pending[1:]
		fn()
		n++
	}
	return n
}

// Len returns the number of queued functions.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Loop serializes work onto a single goroutine. Each posted task runs to
// completion, then everything it deferred runs, before the next task
// starts. Sessions and the document they edit are only touched from inside
// the loop.
type Loop struct {
	tasks chan func()
	queue Queue

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// NewLoop creates a loop whose inbox holds up to buffer tasks.
func NewLoop(buffer int) *Loop {
	return &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Defer queues fn to run after the current task. Call it only from inside
// the loop.
func (l *Loop) Defer(fn func()) {
	l.queue.Defer(fn)
}

// Post enqueues fn without waiting for it to run.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case <-l.done:
		return ErrLoopStopped
	default:
	}
	select {
	case l.tasks <- fn:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do runs fn on the loop and waits until it and its deferred work are done.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	err := l.Post(ctx, func() {
		fn()
		l.queue.Flush()
		close(finished)
	})
	if err != nil {
		return err
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer l.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.tasks:
			fn()
			l.queue.Flush()
		}
	}
}

func (l *Loop) stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		l.stopped = true
		close(l.done)
	}
}
