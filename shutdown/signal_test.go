package shutdown

import (
	"sync"
	"testing"
)

func TestSignalCounter_Increment(t *testing.T) {
	counter := NewSignalCounter(3, nil)

	if counter.Count() != 0 {
		t.Errorf("expected 0 count, got %d", counter.Count())
	}
	if got := counter.Increment(); got != 1 {
		t.Errorf("expected count 1, got %d", got)
	}
	if got := counter.Increment(); got != 2 {
		t.Errorf("expected count 2, got %d", got)
	}
}

func TestSignalCounter_ForceCallback(t *testing.T) {
	var calls int
	counter := NewSignalCounter(2, func() { calls++ })

	counter.Increment()
	if calls != 0 {
		t.Error("callback should not be called on first signal")
	}
	counter.Increment()
	if calls != 1 {
		t.Errorf("callback should be called on second signal, got %d calls", calls)
	}
	counter.Increment()
	if calls != 2 {
		t.Errorf("callback should keep firing past the threshold, got %d calls", calls)
	}
}

func TestSignalCounter_ZeroThresholdNeverForces(t *testing.T) {
	called := false
	counter := NewSignalCounter(0, func() { called = true })
	counter.Increment()
	if called {
		t.Error("zero threshold should disable the force callback")
	}
}

func TestSignalCounter_Concurrent(t *testing.T) {
	counter := NewSignalCounter(1000, nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			counter.Increment()
		}()
	}
	wg.Wait()

	if counter.Count() != 100 {
		t.Errorf("expected 100, got %d", counter.Count())
	}
}
