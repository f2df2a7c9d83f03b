// Package queue provides the bounded worker pool used to resolve deadlines
// concurrently. One job is one independent external lookup; a job failure
// never affects the others.
package queue

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// Job encapsulates a unit of work processed by the worker pool.
type Job struct {
	ID       string
	Work     func(context.Context) error
	OnFinish func(error)
}

// Stats exposes current pool counters.
type Stats struct {
	WorkerCount int
	Processed   uint64
	Failed      uint64
}

// Pool is a bounded job queue with a fixed worker count and a per-job
// timeout.
type Pool struct {
	jobs        chan Job
	workerCount int
	timeout     time.Duration
	started     bool
	mu          sync.Mutex
	wg          sync.WaitGroup
	pending     sync.WaitGroup
	processed   uint64
	failed      uint64
}

// New creates a pool with the provided queue capacity, worker count, and
// per-job timeout. A zero timeout disables the per-job deadline.
func New(capacity, workerCount int, timeout time.Duration) *Pool {
	if capacity < 1 {
		capacity = 1
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		jobs:        make(chan Job, capacity),
		workerCount: workerCount,
		timeout:     timeout,
	}
}

// Start launches the workers. Calling Start twice is a no-op.
func (p *Pool) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx)
	}
}

// Enqueue blocks until the job is queued or the context is cancelled.
func (p *Pool) Enqueue(ctx context.Context, j Job) bool {
	p.pending.Add(1)
	select {
	case p.jobs <- j:
		return true
	case <-ctx.Done():
		p.pending.Done()
		return false
	}
}

// Drain waits until every enqueued job has finished.
func (p *Pool) Drain() {
	p.pending.Wait()
}

// Stop closes the queue and waits for the workers to exit.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	close(p.jobs)
	p.mu.Unlock()
	p.wg.Wait()
}

// Snapshot returns the current counters.
func (p *Pool) Snapshot() Stats {
	return Stats{
		WorkerCount: p.workerCount,
		Processed:   atomic.LoadUint64(&p.processed),
		Failed:      atomic.LoadUint64(&p.failed),
	}
}

func (p *Pool) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handle(ctx, j)
		}
	}
}

func (p *Pool) handle(ctx context.Context, j Job) {
	defer p.pending.Done()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("queue: job %s panic recovered: %v", j.ID, r)
			atomic.AddUint64(&p.failed, 1)
		}
	}()

	jobCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	err := j.Work(jobCtx)
	if j.OnFinish != nil {
		j.OnFinish(err)
	}
	atomic.AddUint64(&p.processed, 1)
	if err != nil {
		atomic.AddUint64(&p.failed, 1)
	}
}
