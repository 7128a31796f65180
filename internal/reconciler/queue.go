package reconciler

import (
	"context"
	"sync"
	"time"
)

// workQueue is a FIFO of record keys. A key is held by at most one worker at
// a time; adds for a key in flight are replayed once the worker is done.
type workQueue struct {
	mu sync.Mutex

	queue []string

	// queued mirrors queue for O(1) dedup
	queued map[string]bool

	processing map[string]bool

	// dirty holds keys added while being processed
	dirty map[string]bool

	cond *sync.Cond

	shuttingDown bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{
		queued:     make(map[string]bool),
		processing: make(map[string]bool),
		dirty:      make(map[string]bool),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Add enqueues key unless it is already waiting.
func (q *workQueue) Add(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.shuttingDown {
		return
	}
	if q.processing[key] {
		q.dirty[key] = true
		return
	}
	if q.queued[key] {
		return
	}

	q.queue = append(q.queue, key)
	q.queued[key] = true
	q.cond.Signal()
}

// Get blocks until a key is available. It returns false once the queue is
// shut down and drained, or ctx is done.
func (q *workQueue) Get(ctx context.Context) (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.queue) == 0 && !q.shuttingDown {
		if ctx.Err() != nil {
			return "", false
		}

		// Wake the Wait below on cancellation.
		done := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				q.mu.Lock()
				q.cond.Broadcast()
				q.mu.Unlock()
			case <-done:
			}
		}()

		q.cond.Wait()
		close(done)

		if ctx.Err() != nil {
			return "", false
		}
	}

	if len(q.queue) == 0 {
		return "", false
	}

	key := q.queue[0]
	q.queue = q.queue[1:]
	delete(q.queued, key)
	q.processing[key] = true
	return key, true
}

// Done releases key, requeueing it if it was added meanwhile.
func (q *workQueue) Done(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.processing, key)
	if !q.dirty[key] {
		return
	}
	delete(q.dirty, key)
	if q.shuttingDown || q.queued[key] {
		return
	}
	q.queue = append(q.queue, key)
	q.queued[key] = true
	q.cond.Signal()
}

func (q *workQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}

// Shutdown stops accepting keys and wakes all waiting workers.
func (q *workQueue) Shutdown() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.shuttingDown = true
	q.cond.Broadcast()
}

// delayedQueue adds AddAfter to a workQueue. A later AddAfter for the same
// key replaces the pending one.
type delayedQueue struct {
	*workQueue

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
}

func newDelayedQueue() *delayedQueue {
	return &delayedQueue{
		workQueue: newWorkQueue(),
		timers:    make(map[string]*time.Timer),
	}
}

// AddAfter enqueues key once delay has passed.
func (d *delayedQueue) AddAfter(key string, delay time.Duration) {
	if delay <= 0 {
		d.Add(key)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if timer, ok := d.timers[key]; ok {
		timer.Stop()
	}

	var timer *time.Timer
	timer = time.AfterFunc(delay, func() {
		d.mu.Lock()
		if d.timers[key] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, key)
		d.mu.Unlock()

		d.Add(key)
	})
	d.timers[key] = timer
}

// Pending returns the number of keys waiting on a timer.
func (d *delayedQueue) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.timers)
}

// Shutdown cancels pending timers and stops the queue.
func (d *delayedQueue) Shutdown() {
	d.mu.Lock()
	d.stopped = true
	for _, timer := range d.timers {
		timer.Stop()
	}
	d.timers = make(map[string]*time.Timer)
	d.mu.Unlock()

	d.workQueue.Shutdown()
}
