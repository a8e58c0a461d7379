package udf

import "sync"

// Executor is an execution context on which store notifications are delivered.
// Execute must not block the caller beyond scheduling fn.
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a scheduling function to Executor.
type ExecutorFunc func(fn func())

// Execute calls f(fn).
func (f ExecutorFunc) Execute(fn func()) {
	f(fn)
}

// Immediate runs work inline on the goroutine that submits it.
// Store notifications delivered through Immediate run on the dispatching
// goroutine, in registration order.
var Immediate Executor = ExecutorFunc(func(fn func()) { fn() })

// SerialQueue runs submitted work one item at a time, in submission order, on
// a dedicated goroutine. Execute never blocks; the queue is unbounded.
type SerialQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewSerialQueue starts a SerialQueue. Call Close to stop its goroutine.
func NewSerialQueue() *SerialQueue {
	q := &SerialQueue{done: make(chan struct{})}
	q.cond = sync.NewCond(&q.mu)
	go q.run()
	return q
}

// Execute enqueues fn. Work submitted after Close is dropped.
func (q *SerialQueue) Execute(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.queue = append(q.queue, fn)
	q.mu.Unlock()
	q.cond.Signal()
}

// Wait blocks until every item enqueued before the call has run.
// It must not be called from work running on the queue itself.
func (q *SerialQueue) Wait() {
	barrier := make(chan struct{})
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		<-q.done
		return
	}
	q.queue = append(q.queue, func() { close(barrier) })
	q.mu.Unlock()
	q.cond.Signal()
	<-barrier
}

// Close stops accepting work, runs what is already queued and waits for the
// queue goroutine to exit. Safe to call more than once.
func (q *SerialQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
	<-q.done
}

func (q *SerialQueue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.queue) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.queue) == 0 {
			q.mu.Unlock()
			return
		}
		fn := q.queue[0]
		q.queue[0] = nil
		q.queue = q.queue[1:]
		q.mu.Unlock()

		fn()
	}
}
