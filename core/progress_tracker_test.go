package core

import (
	"sync"
	"testing"
	"time"
)

// fakeClock returns a controllable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Add(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestProgressTracker_Advance(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	p := newProgressTracker("images", 10, clock.Now)

	clock.Add(time.Second)
	p.Advance(2, false)
	clock.Add(time.Second)
	p.Advance(1, true)

	info := p.Progress()
	if info.Phase != "images" {
		t.Errorf("Phase = %q, want images", info.Phase)
	}
	if info.Done != 3 {
		t.Errorf("Done = %d, want 3", info.Done)
	}
	if info.Failed != 1 {
		t.Errorf("Failed = %d, want 1", info.Failed)
	}
	if info.Fraction != 0.3 {
		t.Errorf("Fraction = %v, want 0.3", info.Fraction)
	}
	if info.Rate <= 0 {
		t.Errorf("Rate = %v, want > 0", info.Rate)
	}
	if info.ETA <= 0 {
		t.Errorf("ETA = %v, want > 0", info.ETA)
	}
	if info.Elapsed != 2*time.Second {
		t.Errorf("Elapsed = %v, want 2s", info.Elapsed)
	}
}

func TestProgressTracker_IgnoresNonPositive(t *testing.T) {
	p := NewProgressTracker("metadata", 5)
	p.Advance(0, false)
	p.Advance(-4, true)

	if info := p.Progress(); info.Done != 0 || info.Failed != 0 {
		t.Errorf("expected no progress, got done=%d failed=%d", info.Done, info.Failed)
	}
}

func TestProgressTracker_Complete(t *testing.T) {
	p := NewProgressTracker("metadata", 2)
	if p.IsComplete() {
		t.Fatal("fresh tracker should not be complete")
	}
	p.Advance(3, false)

	if !p.IsComplete() {
		t.Error("tracker should be complete")
	}
	if info := p.Progress(); info.Fraction != 1 {
		t.Errorf("Fraction = %v, want capped at 1", info.Fraction)
	}
	if info := p.Progress(); info.ETA != 0 {
		t.Errorf("ETA = %v, want 0 when complete", info.ETA)
	}
}

func TestProgressTracker_ZeroTotal(t *testing.T) {
	p := NewProgressTracker("images", 0)
	p.Advance(1, false)

	if p.IsComplete() {
		t.Error("tracker with unknown total should never be complete")
	}
	if info := p.Progress(); info.Fraction != 0 {
		t.Errorf("Fraction = %v, want 0", info.Fraction)
	}
}

func TestProgressTracker_Concurrent(t *testing.T) {
	p := NewProgressTracker("images", 1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				p.Advance(1, j%10 == 0)
			}
		}()
	}
	wg.Wait()

	info := p.Progress()
	if info.Done != 1000 {
		t.Errorf("Done = %d, want 1000", info.Done)
	}
	if info.Failed != 100 {
		t.Errorf("Failed = %d, want 100", info.Failed)
	}
}
