// Package worker runs detached background tasks on a fixed pool of
// goroutines fed by a bounded channel.
package worker

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"robolab/internal/metrics"
)

// Task is one unit of background work. ctx is cancelled when the task's
// timeout elapses.
type Task func(ctx context.Context)

type job struct {
	name string
	run  Task
}

// Queue accepts tasks without blocking the caller. When the buffer is full
// new tasks are dropped and counted.
type Queue struct {
	ch      chan job
	wg      sync.WaitGroup
	timeout time.Duration
	dropped atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// NewQueue starts workers goroutines draining a buffer of size tasks.
// A zero timeout means tasks run without a deadline.
func NewQueue(size, workers int, timeout time.Duration) *Queue {
	if size < 1 {
		size = 1
	}
	if workers < 1 {
		workers = 1
	}
	q := &Queue{
		ch:      make(chan job, size),
		timeout: timeout,
	}
	for range workers {
		q.wg.Add(1)
		go q.drain()
	}
	log.Printf("[QUEUE] Started %d workers (buffer=%d, timeout=%s)", workers, size, timeout)
	return q
}

func (q *Queue) drain() {
	defer q.wg.Done()
	for j := range q.ch {
		q.run(j)
	}
}

func (q *Queue) run(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[QUEUE] Task %s panicked: %v\n%s", j.name, r, debug.Stack())
		}
	}()

	ctx := context.Background()
	if q.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, q.timeout)
		defer cancel()
	}
	j.run(ctx)
}

// Submit enqueues task and reports whether it was accepted. It never
// blocks; a full or closed queue drops the task.
func (q *Queue) Submit(name string, task Task) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		log.Printf("[QUEUE] Dropped %s: queue closed", name)
		q.drop()
		return false
	}

	select {
	case q.ch <- job{name: name, run: task}:
		return true
	default:
		log.Printf("[QUEUE] Dropped %s: queue full", name)
		q.drop()
		return false
	}
}

func (q *Queue) drop() {
	q.dropped.Add(1)
	metrics.RecordQueueDrop()
}

// Dropped returns the number of tasks rejected so far
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

// Close stops accepting tasks and waits for queued ones to finish
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.mu.Unlock()

	q.wg.Wait()
	log.Println("[QUEUE] Drained and stopped")
}
