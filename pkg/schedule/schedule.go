// Package schedule provides the deferred-execution primitives the
// reconciler uses to batch re-renders.
//
// Every scheduler has a Schedule(func()) method. Which one to use depends
// on who owns the runtime:
//
//   - Microtasks: the default. Tasks run when the owner drains the queue,
//     which the runtime does when its outermost call returns.
//   - Manual: tasks run only when Run is called. Meant for tests.
//   - Loop: a goroutine owns the runtime; other goroutines Post work to it
//     and Schedule queues microtasks that run after the current task.
//   - Timer: tasks run on a timer goroutine under a caller-supplied lock.
package schedule

import (
	"sync"
	"time"
)

// Microtasks is a FIFO task queue drained at checkpoints chosen by its
// owner. Tasks scheduled while draining run in the same drain.
// Not safe for concurrent use.
type Microtasks struct {
	queue    []func()
	draining bool
}

// NewMicrotasks creates an empty queue.
func NewMicrotasks() *Microtasks {
	return &Microtasks{}
}

// Schedule queues fn.
func (m *Microtasks) Schedule(fn func()) {
	m.queue = append(m.queue, fn)
}

// Pending returns the number of queued tasks.
func (m *Microtasks) Pending() int {
	return len(m.queue)
}

// Drain runs queued tasks until the queue is empty. A nested call while
// draining returns immediately. If a task panics the remaining tasks stay
// queued and the panic propagates.
func (m *Microtasks) Drain() {
	if m.draining {
		return
	}
	m.draining = true
	defer func() { m.draining = false }()

	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		fn()
	}
}

// Manual queues tasks until Run is called. It deliberately has no Drain
// method so the runtime never runs its tasks implicitly.
type Manual struct {
	queue []func()
}

// NewManual creates an empty manual scheduler.
func NewManual() *Manual {
	return &Manual{}
}

// Schedule queues fn.
func (m *Manual) Schedule(fn func()) {
	m.queue = append(m.queue, fn)
}

// Pending returns the number of queued tasks.
func (m *Manual) Pending() int {
	return len(m.queue)
}

// Run executes the tasks queued so far, plus any they schedule, and returns
// how many ran.
func (m *Manual) Run() int {
	ran := 0
	for len(m.queue) > 0 {
		fn := m.queue[0]
		m.queue[0] = nil
		m.queue = m.queue[1:]
		fn()
		ran++
	}
	return ran
}

// Timer runs each task on its own timer after a delay, holding mu while the
// task runs so the runtime stays single-threaded.
type Timer struct {
	mu    sync.Locker
	delay time.Duration
}

// NewTimer creates a timer scheduler. mu must be the lock guarding the
// runtime the tasks touch.
func NewTimer(mu sync.Locker, delay time.Duration) *Timer {
	return &Timer{mu: mu, delay: delay}
}

// Schedule runs fn after the configured delay.
func (t *Timer) Schedule(fn func()) {
	time.AfterFunc(t.delay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		fn()
	})
}
