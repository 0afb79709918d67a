// Package parallel provides the worker pool that renders thread-tiles
// concurrently.
//
// Each worker owns a queue and steals from the other queues when its own
// runs dry, which balances load when some thread-tiles (those deep inside
// the set) take far longer than others.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Run after Close has been called.
var ErrPoolClosed = errors.New("parallel: worker pool closed")

// Task is one unit of work. It should return promptly once ctx is done.
type Task func(ctx context.Context)

// WorkerPool is a pool of goroutines with per-worker queues and work
// stealing.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queues holds per-worker work queues.
	// Each worker primarily pulls from its own queue but can steal from others.
	queues []chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// submit is held for reading while Run enqueues and for writing while
	// Close stops the workers, so no task is queued after the final drain.
	submit sync.RWMutex
}

// NewWorkerPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	queueSize := max(workers*4, 8)

	p := &WorkerPool{
		workers: workers,
		queues:  make([]chan func(), workers),
		done:    make(chan struct{}),
	}
	for i := range workers {
		p.queues[i] = make(chan func(), queueSize)
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for i := range workers {
		go p.worker(i)
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	own := p.queues[id]
	for {
		select {
		case <-p.done:
			p.drain(own)
			return
		case work := <-own:
			work()
		default:
			if stolen := p.steal(id); stolen != nil {
				stolen()
				continue
			}
			select {
			case <-p.done:
				p.drain(own)
				return
			case work := <-own:
				work()
			}
		}
	}
}

// drain executes all remaining work in a queue.
func (p *WorkerPool) drain(queue chan func()) {
	for {
		select {
		case work := <-queue:
			work()
		default:
			return
		}
	}
}

// steal attempts to take work from another worker's queue.
func (p *WorkerPool) steal(self int) func() {
	for i := range p.workers {
		if i == self {
			continue
		}
		select {
		case work := <-p.queues[i]:
			return work
		default:
		}
	}
	return nil
}

// Run distributes tasks round-robin across the workers and waits until every
// task has finished or been skipped.
//
// Tasks that have not started when ctx is done are skipped; running tasks
// see the same ctx and are expected to stop early. Run returns ctx.Err() in
// that case, ErrPoolClosed if the pool was already closed, and nil
// otherwise. A Close that overlaps Run lets every task Run has queued
// finish.
func (p *WorkerPool) Run(ctx context.Context, tasks []Task) error {
	p.submit.RLock()
	if !p.running.Load() {
		p.submit.RUnlock()
		return ErrPoolClosed
	}
	if len(tasks) == 0 {
		p.submit.RUnlock()
		return ctx.Err()
	}

	var pending sync.WaitGroup
	pending.Add(len(tasks))

	var stop bool
	for i, task := range tasks {
		wrapped := func() {
			defer pending.Done()
			if ctx.Err() == nil {
				task(ctx)
			}
		}

		if stop {
			pending.Done()
			continue
		}
		select {
		case p.queues[i%p.workers] <- wrapped:
		case <-ctx.Done():
			// Already-queued tasks observe ctx and skip themselves.
			stop = true
			pending.Done()
		}
	}

	p.submit.RUnlock()

	pending.Wait()
	return ctx.Err()
}

// Close gracefully shuts down the pool. It waits for a concurrent Run to
// finish enqueueing; everything queued by then is drained before the
// workers exit. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.submit.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.submit.Unlock()
		return
	}
	close(p.done)
	p.submit.Unlock()
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning reports whether the pool still accepts work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
