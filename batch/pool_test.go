package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingTracker struct {
	mu      sync.Mutex
	started int
	done    int
	limit   int
}

func (c *countingTracker) Start() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.limit > 0 && c.started >= c.limit {
		return false
	}
	c.started++
	return true
}

func (c *countingTracker) Done() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done++
}

func TestPool_RunsEveryTask(t *testing.T) {
	var seen [50]int32
	p := NewPool(4, nil)

	n := p.Run(context.Background(), len(seen), func(i int) {
		atomic.AddInt32(&seen[i], 1)
	})

	if n != len(seen) {
		t.Errorf("dispatched = %d, want %d", n, len(seen))
	}
	for i, v := range seen {
		if v != 1 {
			t.Errorf("task %d ran %d times", i, v)
		}
	}
}

func TestPool_BoundsConcurrency(t *testing.T) {
	const workers = 3
	var running, peak int32
	p := NewPool(workers, nil)

	p.Run(context.Background(), 30, func(int) {
		cur := atomic.AddInt32(&running, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&running, -1)
	})

	if peak > workers {
		t.Errorf("peak concurrency = %d, want <= %d", peak, workers)
	}
}

func TestPool_CancelledContextDispatchesNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran int32
	n := NewPool(2, nil).Run(ctx, 10, func(int) { atomic.AddInt32(&ran, 1) })

	if n != 0 || ran != 0 {
		t.Errorf("dispatched = %d, ran = %d, want 0", n, ran)
	}
}

func TestPool_CancelStopsDispatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ran int32
	n := NewPool(1, nil).Run(ctx, 20, func(int) {
		if atomic.AddInt32(&ran, 1) == 1 {
			cancel()
		}
	})

	if n >= 20 {
		t.Errorf("dispatched = %d, want dispatch to stop after cancel", n)
	}
	if int(ran) != n {
		t.Errorf("ran = %d, dispatched = %d, every dispatched task must finish", ran, n)
	}
}

func TestPool_TrackerBalancedAndRefusal(t *testing.T) {
	tr := &countingTracker{limit: 4}
	n := NewPool(2, tr).Run(context.Background(), 10, func(int) {})

	if n != 4 {
		t.Errorf("dispatched = %d, want 4", n)
	}
	if tr.started != tr.done {
		t.Errorf("tracker started %d, done %d", tr.started, tr.done)
	}
}

func TestPool_ZeroTasks(t *testing.T) {
	if n := NewPool(8, nil).Run(context.Background(), 0, func(int) { t.Error("unexpected task") }); n != 0 {
		t.Errorf("dispatched = %d, want 0", n)
	}
}
