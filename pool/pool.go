// Package pool provides a bounded worker pool with core/max sizing and
// idle keep-alive, used to execute request dispatch jobs.
package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrMustNotBeZero     = errors.New("must be greater than zero")
	ErrNegativeKeepAlive = errors.New("keep-alive must not be negative")
	ErrClosed            = errors.New("pool closed")
	ErrContextEnded      = errors.New("submit context ended")
)

// Pool executes jobs on a bounded set of workers. Workers are spawned
// lazily up to max; the first core of them stay resident once spawned,
// while the rest retire after sitting idle for the keep-alive period.
// Jobs never execute on the caller's goroutine.
type Pool struct {
	core      int
	max       int
	keepAlive time.Duration

	jobs chan func()
	quit chan struct{}

	mu      sync.Mutex
	workers int
	closed  bool
	wg      sync.WaitGroup
}

// New creates a Pool. core and max must be greater than zero and
// keepAlive must not be negative. When max is lower than core, max
// bounds the resident workers as well.
func New(core, max int, keepAlive time.Duration) (*Pool, error) {
	if core <= 0 || max <= 0 {
		return nil, fmt.Errorf("core[%d] and max[%d] %w", core, max, ErrMustNotBeZero)
	}
	if keepAlive < 0 {
		return nil, fmt.Errorf("keepAlive[%v] %w", keepAlive, ErrNegativeKeepAlive)
	}
	if core > max {
		core = max
	}

	return &Pool{
		core:      core,
		max:       max,
		keepAlive: keepAlive,
		jobs:      make(chan func()),
		quit:      make(chan struct{}),
	}, nil
}

// Submit hands job to an idle worker, spawning one if the pool hasn't
// reached its maximum size. With every worker busy it blocks until one
// frees up or ctx ends. A job accepted by Submit runs exactly once.
func (p *Pool) Submit(ctx context.Context, job func()) error {
	if job == nil {
		return errors.New("job must not be nil")
	}

	// An already-idle worker takes the job without any bookkeeping.
	select {
	case p.jobs <- job:
		return nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	if p.workers < p.max {
		resident := p.workers < p.core
		p.workers++
		p.wg.Add(1)
		go p.work(job, resident)
		p.mu.Unlock()

		return nil
	}
	p.mu.Unlock()

	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrContextEnded, ctx.Err())
	case <-p.quit:
		return ErrClosed
	}
}

// Workers reports the current number of live workers.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.workers
}

// Close stops all workers after their in-flight jobs finish. It is
// idempotent and only returns once every worker has exited.
func (p *Pool) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.wg.Wait()
		return
	}
	p.closed = true
	p.mu.Unlock()

	close(p.quit)
	p.wg.Wait()
}

func (p *Pool) work(job func(), resident bool) {
	defer p.wg.Done()
	defer func() {
		p.mu.Lock()
		p.workers--
		p.mu.Unlock()
	}()

	job()

	for {
		if resident {
			select {
			case next := <-p.jobs:
				next()
			case <-p.quit:
				return
			}

			continue
		}

		idle := time.NewTimer(p.keepAlive)
		select {
		case next := <-p.jobs:
			idle.Stop()
			next()
		case <-idle.C:
			return
		case <-p.quit:
			idle.Stop()
			return
		}
	}
}
