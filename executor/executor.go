// Package executor fans per-point work across a fixed-size worker pool.
// The index range [0,N) is partitioned into contiguous chunks, one per
// worker, so every result slot is written by exactly one goroutine and no
// write needs locking. A shared atomic counter reports progress for
// external polling.
package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrInvalidWorkerCount is returned when the pool is constructed with a
// negative worker count. Pool construction failure is fatal for the run;
// the engine never silently downgrades to single-threaded execution.
var ErrInvalidWorkerCount = errors.New("executor: worker count must be positive")

// cancelCheckInterval is how many points a worker processes between
// context checks. Index-query cost dominates per-point cost, so finer
// granularity buys nothing.
const cancelCheckInterval = 1024

// Pool is a fixed-size worker pool over an index range.
type Pool struct {
	workers int

	done  atomic.Int64
	total atomic.Int64
}

// New creates a pool with the given number of workers. Zero selects the
// hardware parallelism; negative counts are a construction error.
func New(workers int) (*Pool, error) {
	if workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkerCount, workers)
	}
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{workers: workers}, nil
}

// Workers returns the configured worker count.
func (p *Pool) Workers() int { return p.workers }

// Progress returns the number of completed points and the total of the
// current (or last) run. The counter is monotonic within a run.
func (p *Pool) Progress() (done, total int64) {
	return p.done.Load(), p.total.Load()
}

// Run invokes task(i) for every i in [0,n), partitioned into contiguous
// chunks across the pool's workers, and blocks until all workers finish or
// one fails. On failure the first error is returned and the remaining
// workers stop at their next cancellation check.
func (p *Pool) Run(ctx context.Context, n int, task func(i uint32) error) error {
	p.done.Store(0)
	p.total.Store(int64(n))
	if n == 0 {
		return nil
	}

	workers := p.workers
	if workers > n {
		workers = n
	}

	g, ctx := errgroup.WithContext(ctx)

	chunk := n / workers
	rem := n % workers

	start := 0
	for w := 0; w < workers; w++ {
		size := chunk
		if w < rem {
			size++
		}
		lo, hi := start, start+size
		start = hi

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := lo; i < hi; i++ {
				if (i-lo)%cancelCheckInterval == 0 && i != lo {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				if err := task(uint32(i)); err != nil {
					return err
				}
				p.done.Add(1)
			}
			return nil
		})
	}

	return g.Wait()
}
