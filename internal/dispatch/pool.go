// Package dispatch provides a small fixed-size worker pool for background
// delivery work. Submission never blocks the caller; shutdown drains.
package dispatch

import (
	"context"
	"sync"
)

// Pool runs submitted jobs on a fixed set of workers. A full queue spills
// into per-job goroutines rather than blocking the submitter, and a closed
// pool runs jobs inline so late work is delivered synchronously instead of
// being dropped.
type Pool struct {
	jobs    chan func()
	workers sync.WaitGroup

	mu      sync.Mutex
	quiet   *sync.Cond
	pending int
	closed  bool
	drained chan struct{}
}

// New starts a pool with the given number of workers and queue capacity.
// Non-positive workers default to 2; a negative queue defaults to 0.
func New(workers, queue int) *Pool {
	if workers <= 0 {
		workers = 2
	}
	if queue < 0 {
		queue = 0
	}

	p := &Pool{
		jobs:    make(chan func(), queue),
		drained: make(chan struct{}),
	}
	p.quiet = sync.NewCond(&p.mu)

	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.workers.Done()
	for job := range p.jobs {
		p.run(job)
	}
}

func (p *Pool) run(job func()) {
	defer p.finish()
	job()
}

func (p *Pool) finish() {
	p.mu.Lock()
	p.pending--
	if p.pending == 0 {
		p.quiet.Broadcast()
	}
	p.mu.Unlock()
}

// Submit schedules job for execution. It never blocks: when the queue is
// full the job gets its own goroutine, and after Close it runs inline on
// the calling goroutine before Submit returns.
func (p *Pool) Submit(job func()) {
	if job == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		job()
		return
	}

	p.pending++
	select {
	case p.jobs <- job:
		p.mu.Unlock()
	default:
		p.mu.Unlock()
		go p.run(job)
	}
}

// Flush blocks until every job submitted so far has finished, or until ctx
// expires. Jobs submitted while flushing extend the wait.
func (p *Pool) Flush(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.mu.Lock()
		for p.pending > 0 {
			p.quiet.Wait()
		}
		p.mu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops intake and waits for queued and in-flight jobs to finish, or
// for ctx to expire, whichever comes first. It is safe to call more than
// once; later calls wait on the same drain.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
		go func() {
			p.mu.Lock()
			for p.pending > 0 {
				p.quiet.Wait()
			}
			p.mu.Unlock()
			p.workers.Wait()
			close(p.drained)
		}()
	}
	p.mu.Unlock()

	select {
	case <-p.drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
