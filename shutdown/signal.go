package shutdown

import "sync"

// SignalCounter counts interrupt signals. The first one starts a graceful
// shutdown, the forceAfter-th one calls onForce.
//
//	counter := NewSignalCounter(2, func() { os.Exit(130) })
//	for range sigChan {
//	    if counter.Increment() == 1 {
//	        cancel()
//	    }
//	}
type SignalCounter struct {
	mu         sync.Mutex
	count      int
	forceAfter int
	onForce    func()
}

// NewSignalCounter creates a counter. onForce may be nil.
func NewSignalCounter(forceAfter int, onForce func()) *SignalCounter {
	return &SignalCounter{forceAfter: forceAfter, onForce: onForce}
}

// Increment records one signal and returns the new count. onForce runs under
// the lock once the threshold is reached, so it should exit or return quickly.
func (s *SignalCounter) Increment() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.count++
	if s.forceAfter > 0 && s.count >= s.forceAfter && s.onForce != nil {
		s.onForce()
	}
	return s.count
}

// Count returns the number of signals seen.
func (s *SignalCounter) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}
