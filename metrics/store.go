package metrics

import (
	"sync"
	"time"
)

// Store is the in-memory Collector used by a batch run.
//
// Usage:
//
//	store := NewStore(DefaultStoreConfig(), time.Now())
//	store.RecordImage(rec)
//	snap := store.Snapshot()
type Store struct {
	mu sync.RWMutex

	// Image history ring
	history []ImageRecord
	histCap int
	head    int
	size    int

	genomes       GenomeCounters
	rendered      int64
	failed        int64
	totalDuration time.Duration
	maxDuration   time.Duration
	phases        []PhaseTiming

	startTime time.Time
	now       func() time.Time
}

// StoreConfig configures the Store behavior.
type StoreConfig struct {
	// HistoryCapacity is the max number of image records to retain
	HistoryCapacity int
}

// DefaultStoreConfig returns a default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{HistoryCapacity: 100}
}

// NewStore creates a Store. The startTime is used to calculate elapsed time.
func NewStore(config StoreConfig, startTime time.Time) *Store {
	capacity := config.HistoryCapacity
	if capacity < 1 {
		capacity = 100
	}
	return &Store{
		history:   make([]ImageRecord, capacity),
		histCap:   capacity,
		startTime: startTime,
		now:       time.Now,
	}
}

// RecordGenomes implements Collector.
func (s *Store) RecordGenomes(c GenomeCounters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genomes = c
}

// RecordImage implements Collector.
func (s *Store) RecordImage(rec ImageRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.history[s.head] = rec
	s.head = (s.head + 1) % s.histCap
	if s.size < s.histCap {
		s.size++
	}

	if rec.Status == ImageStatusFailed {
		s.failed++
	} else {
		s.rendered++
	}
	s.totalDuration += rec.Duration
	if rec.Duration > s.maxDuration {
		s.maxDuration = rec.Duration
	}
}

// RecordPhase implements Collector. A phase recorded twice keeps the latest timing.
func (s *Store) RecordPhase(timing PhaseTiming) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.phases {
		if s.phases[i].Phase == timing.Phase {
			s.phases[i] = timing
			return
		}
	}
	s.phases = append(s.phases, timing)
}

// RecentImages implements Collector.
func (s *Store) RecentImages(limit int) []ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || s.size == 0 {
		return []ImageRecord{}
	}
	if limit > s.size {
		limit = s.size
	}

	result := make([]ImageRecord, limit)
	for i := 0; i < limit; i++ {
		idx := (s.head - limit + i + s.histCap) % s.histCap
		result[i] = s.history[idx]
	}
	return result
}

// Snapshot implements Collector.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	images := ImageCounters{
		Rendered:    s.rendered,
		Failed:      s.failed,
		MaxDuration: s.maxDuration,
	}
	if n := s.rendered + s.failed; n > 0 {
		images.AvgDuration = s.totalDuration / time.Duration(n)
	}

	phases := make([]PhaseTiming, len(s.phases))
	copy(phases, s.phases)

	return Snapshot{
		Genomes: s.genomes,
		Images:  images,
		Phases:  phases,
		Elapsed: s.now().Sub(s.startTime),
	}
}

// Verify Store implements Collector interface
var _ Collector = (*Store)(nil)
