package core

import (
	"sync"
	"time"
)

// ProgressInfo contains the current progress of one generation phase.
// This is returned by ProgressTracker.Progress() for display.
type ProgressInfo struct {
	// Phase is the name of the phase being tracked ("metadata", "images")
	Phase string
	// Total items in the phase
	Total int
	// Done items so far
	Done int
	// Failed items so far (included in Done)
	Failed int
	// Fraction complete in [0, 1]
	Fraction float64
	// Items per second, smoothed
	Rate float64
	// Estimated time remaining (0 if unknown or complete)
	ETA time.Duration
	// Elapsed time since the phase started
	Elapsed time.Duration
}

// ProgressTracker counts completed items with thread-safe updates.
// It calculates a smoothed rate and ETA for display.
type ProgressTracker struct {
	mu sync.RWMutex

	phase     string
	total     int
	done      int
	failed    int
	startTime time.Time

	lastUpdateTime time.Time
	lastDone       int
	rateAvg        float64
	rateAlpha      float64

	now func() time.Time
}

// NewProgressTracker creates a tracker for a phase with a known number of items.
func NewProgressTracker(phase string, total int) *ProgressTracker {
	return newProgressTracker(phase, total, time.Now)
}

func newProgressTracker(phase string, total int, now func() time.Time) *ProgressTracker {
	start := now()
	return &ProgressTracker{
		phase:          phase,
		total:          max(total, 0),
		startTime:      start,
		lastUpdateTime: start,
		rateAlpha:      0.3,
		now:            now,
	}
}

// Advance records n completed items. failed marks them as failures.
// This method is thread-safe.
func (p *ProgressTracker) Advance(n int, failed bool) {
	if n <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.done += n
	if failed {
		p.failed += n
	}
	p.updateRate()
}

// updateRate recalculates the smoothed item rate.
// Must be called with mu held.
func (p *ProgressTracker) updateRate() {
	now := p.now()
	elapsed := now.Sub(p.lastUpdateTime).Seconds()
	if elapsed < 0.1 {
		return
	}

	instant := float64(p.done-p.lastDone) / elapsed
	if p.rateAvg == 0 {
		p.rateAvg = instant
	} else {
		p.rateAvg = p.rateAlpha*instant + (1-p.rateAlpha)*p.rateAvg
	}
	p.lastUpdateTime = now
	p.lastDone = p.done
}

// Progress returns a snapshot of the current progress.
// This method is thread-safe.
func (p *ProgressTracker) Progress() ProgressInfo {
	p.mu.RLock()
	defer p.mu.RUnlock()

	info := ProgressInfo{
		Phase:   p.phase,
		Total:   p.total,
		Done:    p.done,
		Failed:  p.failed,
		Rate:    p.rateAvg,
		Elapsed: p.now().Sub(p.startTime),
	}

	if p.total > 0 {
		info.Fraction = float64(p.done) / float64(p.total)
		if info.Fraction > 1 {
			info.Fraction = 1
		}
		if p.rateAvg > 0 && p.done < p.total {
			info.ETA = time.Duration(float64(p.total-p.done) / p.rateAvg * float64(time.Second))
		}
	}
	return info
}

// IsComplete returns true once every item has been recorded.
func (p *ProgressTracker) IsComplete() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.total > 0 && p.done >= p.total
}
