package schedule

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestMicrotasksDrainOrder(t *testing.T) {
	m := NewMicrotasks()
	var got []int

	m.Schedule(func() {
		got = append(got, 1)
		m.Schedule(func() { got = append(got, 3) })
		m.Drain() // nested drain is a no-op
	})
	m.Schedule(func() { got = append(got, 2) })

	if m.Pending() != 2 {
		t.Fatalf("Pending() = %d, want 2", m.Pending())
	}
	m.Drain()

	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending() = %d after drain", m.Pending())
	}
}

func TestMicrotasksPanicKeepsRemaining(t *testing.T) {
	m := NewMicrotasks()
	ran := false
	m.Schedule(func() { panic("boom") })
	m.Schedule(func() { ran = true })

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic should propagate out of Drain")
			}
		}()
		m.Drain()
	}()

	if m.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1", m.Pending())
	}
	m.Drain()
	if !ran {
		t.Error("remaining task should run on the next drain")
	}
}

func TestManual(t *testing.T) {
	m := NewManual()
	count := 0
	m.Schedule(func() {
		count++
		m.Schedule(func() { count++ })
	})

	if count != 0 {
		t.Error("Schedule should not run tasks")
	}
	if ran := m.Run(); ran != 2 {
		t.Errorf("Run() = %d, want 2", ran)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestTimer(t *testing.T) {
	var mu sync.Mutex
	done := make(chan struct{})

	NewTimer(&mu, time.Millisecond).Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer task did not run")
	}
}

func TestLoopRunsPostedTasksAndMicrotasks(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- l.Run(ctx) }()

	var order []string
	err := l.Do(ctx, func() error {
		order = append(order, "task")
		l.Schedule(func() { order = append(order, "micro") })
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	// The microtask runs before the next posted task.
	if err := l.Do(ctx, func() error {
		order = append(order, "next")
		return nil
	}); err != nil {
		t.Fatalf("Do() error: %v", err)
	}

	if diff := cmp.Diff([]string{"task", "micro", "next"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}

	if err := l.Do(ctx, func() error { panic("boom") }); err == nil {
		t.Error("Do should report a panicking task")
	}

	cancel()
	if err := <-errc; !stderrors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if err := l.Post(func() {}); !stderrors.Is(err, ErrLoopClosed) {
		t.Errorf("Post after stop = %v, want ErrLoopClosed", err)
	}
	if err := l.Run(context.Background()); !stderrors.Is(err, ErrLoopRunning) {
		t.Errorf("second Run = %v, want ErrLoopRunning", err)
	}
}
