package batch

import (
	"context"
	"sync"
)

// Tracker is told about every task a Pool runs; shutdown.OperationTracker
// satisfies it. A tracker that refuses Start stops dispatch.
type Tracker interface {
	Start() bool
	Done()
}

// Pool runs independent tasks on a fixed number of goroutines.
type Pool struct {
	workers int
	tracker Tracker
}

// NewPool creates a pool of workers goroutines. tracker may be nil.
func NewPool(workers int, tracker Tracker) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers, tracker: tracker}
}

// Run calls task(i) for i in [0, n) and returns how many tasks were
// dispatched. Once ctx is done no further task is dispatched; tasks already
// running finish before Run returns. A failing task does not stop its
// siblings.
func (p *Pool) Run(ctx context.Context, n int, task func(i int)) int {
	workers := p.workers
	if workers > n {
		workers = n
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				task(i)
				if p.tracker != nil {
					p.tracker.Done()
				}
			}
		}()
	}

	dispatched := 0
dispatch:
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		if p.tracker != nil && !p.tracker.Start() {
			break
		}
		select {
		case <-ctx.Done():
			if p.tracker != nil {
				p.tracker.Done()
			}
			break dispatch
		case jobs <- i:
			dispatched++
		}
	}
	close(jobs)
	wg.Wait()
	return dispatched
}
