package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPoolProcessesJobs(t *testing.T) {
	p := NewPool(4, zap.NewNop())

	var (
		mu   sync.Mutex
		done []string
	)
	p.handle = func(orderID string) {
		mu.Lock()
		done = append(done, orderID)
		mu.Unlock()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	finished := make(chan struct{})
	go func() {
		_ = p.Run(ctx)
		close(finished)
	}()

	for _, id := range []string{"order-1", "order-2", "order-3"} {
		p.Enqueue(id)
	}

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := len(done)
		mu.Unlock()
		if n == 3 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("processed %d jobs, want 3", n)
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatalf("pool did not stop after context cancellation")
	}
}

func TestEnqueueDoesNotBlockWhenFull(t *testing.T) {
	p := &Pool{
		jobs:    make(chan string, 1),
		workers: 1,
		logger:  zap.NewNop(),
	}

	done := make(chan struct{})
	go func() {
		p.Enqueue("order-1")
		p.Enqueue("order-2")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Enqueue blocked on full queue")
	}
}
