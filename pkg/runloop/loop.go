// Package runloop provides a single-goroutine execution context.
//
// A Loop is the stand-in for a UI thread: work posted to it runs one item at
// a time, in FIFO order, either on the loop's own goroutine (Start/Stop) or,
// while stopped, on whichever goroutine pumps it with RunPending. Work runs with the loop
// recorded as the current execution context, so notifications raised from
// inside posted work are delivered inline to subscribers bound to the same
// loop.
package runloop

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ef-ds/deque"

	"github.com/mvvm-kit/mvvm-go/pkg/dispatch"
)

// Loop is a FIFO execution context. The zero value is not usable; use New.
type Loop struct {
	name string

	mu     sync.Mutex
	queue  deque.Deque
	closed bool

	// wake has capacity 1: a pending signal is never lost and Post never blocks.
	wake chan struct{}

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	pumping atomic.Bool

	// exec is held while an item runs, so items never overlap even when a
	// pump races Start.
	exec sync.Mutex

	executed atomic.Uint64
	dropped  atomic.Uint64
}

var _ dispatch.ExecutionContext = (*Loop)(nil)

// New creates a stopped loop.
func New(name string) *Loop {
	return &Loop{
		name: name,
		wake: make(chan struct{}, 1),
	}
}

// Name returns the loop name.
func (l *Loop) Name() string {
	return l.name
}

// Post queues fn. After Close the work is dropped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.dropped.Add(1)
		return
	}
	l.queue.PushBack(fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Context returns parent with the loop recorded as the current execution context.
func (l *Loop) Context(parent context.Context) context.Context {
	return dispatch.WithCurrent(parent, l)
}

// Len returns the number of queued items.
func (l *Loop) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.queue.Len()
}

// Executed returns how many posted items have run.
func (l *Loop) Executed() uint64 {
	return l.executed.Load()
}

// Dropped returns how many posts were rejected after Close.
func (l *Loop) Dropped() uint64 {
	return l.dropped.Load()
}

// Running reports whether the loop goroutine is started.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// RunPending runs queued work on the calling goroutine until the queue is
// empty, including work posted while draining. Returns the number of items
// run. It runs nothing and returns 0 while the loop is started, or when
// called from inside another RunPending.
func (l *Loop) RunPending() int {
	if l.running.Load() || !l.pumping.CompareAndSwap(false, true) {
		return 0
	}
	defer l.pumping.Store(false)

	n := 0
	for !l.running.Load() && l.runOne() {
		n++
	}
	return n
}

// Start runs the loop on its own goroutine until Stop or Close.
func (l *Loop) Start() {
	if l.running.Swap(true) {
		return
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.wg.Add(1)
	go l.run()
}

// Stop stops the loop goroutine and waits for the item in progress to finish.
// Queued work stays queued.
func (l *Loop) Stop() {
	if !l.running.Swap(false) {
		return
	}

	l.cancel()
	l.wg.Wait()
}

// Close stops the loop and rejects further posts. Returns the number of
// queued items that were discarded.
func (l *Loop) Close() int {
	l.Stop()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	discarded := l.queue.Len()
	l.queue = deque.Deque{}
	return discarded
}

func (l *Loop) run() {
	defer l.wg.Done()

	for {
		// Drain first: work may have been queued while the loop was stopped.
		for l.ctx.Err() == nil && l.runOne() {
		}

		select {
		case <-l.ctx.Done():
			return
		case <-l.wake:
		}
	}
}

// runOne runs the next queued item. Returns false when the queue is empty.
func (l *Loop) runOne() bool {
	l.exec.Lock()
	defer l.exec.Unlock()

	fn, ok := l.pop()
	if !ok {
		return false
	}
	fn()
	l.executed.Add(1)
	return true
}

func (l *Loop) pop() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.queue.PopFront()
	if !ok {
		return nil, false
	}
	return v.(func()), true
}
