package schedule

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	// ErrLoopClosed is returned when posting to a loop that has stopped.
	ErrLoopClosed = stderrors.New("schedule: loop closed")

	// ErrLoopRunning is returned when Run is called twice.
	ErrLoopRunning = stderrors.New("schedule: loop already running")
)

// Loop runs posted tasks one at a time on the goroutine that called Run.
// After each task the loop drains the microtasks that task scheduled, so
// work deferred with Schedule runs before the next posted task.
type Loop struct {
	ingress    chan func()
	done       chan struct{}
	closeOnce  sync.Once
	running    atomic.Bool
	microtasks Microtasks
	logger     *slog.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the logger used for recovered task panics.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithIngressBuffer sets how many posted tasks may wait without blocking
// the poster.
func WithIngressBuffer(n int) LoopOption {
	return func(l *Loop) {
		l.ingress = make(chan func(), n)
	}
}

// NewLoop creates a loop. Call Run to start it.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		ingress: make(chan func(), 64),
		done:    make(chan struct{}),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "loop")
	return l
}

// Run processes tasks until ctx is cancelled. Tasks still queued when Run
// returns are dropped.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.closeOnce.Do(func() { close(l.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.ingress:
			l.safeExecute(fn)
			l.drain()
		}
	}
}

// Post queues fn to run on the loop goroutine. Safe for concurrent use.
func (l *Loop) Post(fn func()) error {
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.ingress <- fn:
		return nil
	case <-l.done:
		return ErrLoopClosed
	}
}

// Do runs fn on the loop goroutine and waits for its result.
func (l *Loop) Do(ctx context.Context, fn func() error) error {
	result := make(chan error, 1)
	err := l.Post(func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("schedule: task panicked: %v", r)
			}
		}()
		result <- fn()
	})
	if err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// Schedule queues a microtask. It must only be called from the loop
// goroutine, typically by a runtime the loop owns.
func (l *Loop) Schedule(fn func()) {
	l.microtasks.Schedule(fn)
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

func (l *Loop) drain() {
	for l.microtasks.Pending() > 0 {
		l.safeExecute(l.microtasks.Drain)
	}
}

// safeExecute keeps a single panicking task from taking down the loop.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked", "panic", r)
		}
	}()
	fn()
}
