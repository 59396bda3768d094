package metrics

// Collector receives run metrics from the genome builder and the image
// workers. Implementations must be safe for concurrent use; the image phase
// calls RecordImage from every worker.
type Collector interface {
	// RecordGenomes stores the builder counters at the end of the metadata phase.
	RecordGenomes(c GenomeCounters)

	// RecordImage logs one finished compositing task.
	RecordImage(rec ImageRecord)

	// RecordPhase stores the wall time of a finished phase.
	RecordPhase(timing PhaseTiming)

	// RecentImages returns up to limit of the latest image records, oldest first.
	RecentImages(limit int) []ImageRecord

	// Snapshot returns a copy of the aggregated counters.
	Snapshot() Snapshot
}
