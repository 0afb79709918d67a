package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// WorkerPool Creation Tests
// =============================================================================

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, got, want)
		}
		pool.Close()
	}
}

// =============================================================================
// Run Tests
// =============================================================================

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	numTasks := 100

	tasks := make([]Task, numTasks)
	for i := range tasks {
		tasks[i] = func(context.Context) {
			counter.Add(1)
		}
	}

	if err := pool.Run(context.Background(), tasks); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if counter.Load() != int64(numTasks) {
		t.Errorf("counter = %d, want %d", counter.Load(), numTasks)
	}
}

func TestWorkerPool_Run_AllIndices(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	var mu sync.Mutex
	seen := make(map[int]bool)

	tasks := make([]Task, 10)
	for i := range tasks {
		tasks[i] = func(context.Context) {
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}
	}

	if err := pool.Run(context.Background(), tasks); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	for i := range 10 {
		if !seen[i] {
			t.Errorf("missing index %d in results", i)
		}
	}
}

func TestWorkerPool_Run_Empty(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if err := pool.Run(context.Background(), nil); err != nil {
		t.Errorf("Run(nil) = %v, want nil", err)
	}
	if err := pool.Run(context.Background(), []Task{}); err != nil {
		t.Errorf("Run([]) = %v, want nil", err)
	}
}

func TestWorkerPool_Run_MoreTasksThanQueue(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	var counter atomic.Int64
	tasks := make([]Task, 200) // queue holds 8
	for i := range tasks {
		tasks[i] = func(context.Context) { counter.Add(1) }
	}

	if err := pool.Run(context.Background(), tasks); err != nil {
		t.Fatalf("Run() = %v", err)
	}
	if counter.Load() != 200 {
		t.Errorf("counter = %d, want 200", counter.Load())
	}
}

// =============================================================================
// Cancellation Tests
// =============================================================================

func TestWorkerPool_Run_Canceled(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var counter atomic.Int64
	tasks := make([]Task, 50)
	for i := range tasks {
		tasks[i] = func(context.Context) { counter.Add(1) }
	}

	err := pool.Run(ctx, tasks)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if counter.Load() != 0 {
		t.Errorf("%d tasks ran after cancellation, want 0", counter.Load())
	}
}

func TestWorkerPool_Run_CancelMidway(t *testing.T) {
	pool := NewWorkerPool(1)
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var counter atomic.Int64
	tasks := make([]Task, 100)
	for i := range tasks {
		tasks[i] = func(ctx context.Context) {
			if counter.Add(1) == 5 {
				cancel()
			}
		}
	}

	err := pool.Run(ctx, tasks)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
	if n := counter.Load(); n >= 100 {
		t.Errorf("all %d tasks ran despite cancellation", n)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("pool should not be running after Close")
	}
}

func TestWorkerPool_RunAfterClose(t *testing.T) {
	pool := NewWorkerPool(2)
	pool.Close()

	err := pool.Run(context.Background(), []Task{func(context.Context) {}})
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Run() after Close = %v, want ErrPoolClosed", err)
	}
}

func TestWorkerPool_CloseDuringRun(t *testing.T) {
	for round := range 50 {
		pool := NewWorkerPool(2)

		// More tasks than the queues hold, so Run is still enqueueing when
		// Close starts.
		var ran atomic.Int64
		tasks := make([]Task, 200)
		for i := range tasks {
			tasks[i] = func(context.Context) { ran.Add(1) }
		}

		done := make(chan error, 1)
		go func() { done <- pool.Run(context.Background(), tasks) }()
		go pool.Close()

		select {
		case err := <-done:
			switch {
			case err == nil:
				if ran.Load() != int64(len(tasks)) {
					t.Fatalf("round %d: Run() = nil but %d of %d tasks ran", round, ran.Load(), len(tasks))
				}
			case errors.Is(err, ErrPoolClosed):
				if ran.Load() != 0 {
					t.Fatalf("round %d: Run() = ErrPoolClosed but %d tasks ran", round, ran.Load())
				}
			default:
				t.Fatalf("round %d: Run() = %v", round, err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("round %d: Run did not return after a concurrent Close", round)
		}
		pool.Close()
	}
}

// =============================================================================
// Work Stealing Tests
// =============================================================================

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Every 4th task lands on worker 0 and is slow; the others must steal.
	var counter atomic.Int64
	tasks := make([]Task, 40)
	for i := range tasks {
		tasks[i] = func(context.Context) {
			if i%4 == 0 {
				time.Sleep(2 * time.Millisecond)
			}
			counter.Add(1)
		}
	}

	done := make(chan error, 1)
	go func() { done <- pool.Run(context.Background(), tasks) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for Run")
	}
	if counter.Load() != 40 {
		t.Errorf("counter = %d, want 40", counter.Load())
	}
}
