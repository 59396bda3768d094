// Package core provides shared errors, settings and interfaces for the nftgen components.
package core

// ProgressReporter is the interface for reporting progress of a generation phase.
// Implementations typically render a progress bar; the batch orchestrator calls
// it from both the sequential metadata phase and the concurrent image phase, so
// implementations must be safe for concurrent use.
//
// Example usage:
//
//	reporter.Begin("images", len(genomes))
//	defer reporter.End()
//	reporter.Advance(1, false)
type ProgressReporter interface {
	// Begin starts a new phase with a known number of items.
	Begin(phase string, total int)

	// Advance records n completed items; failed marks them as failures.
	Advance(n int, failed bool)

	// End finishes the current phase.
	End()
}

// NopProgress is a ProgressReporter that discards everything.
type NopProgress struct{}

func (NopProgress) Begin(string, int) {}
func (NopProgress) Advance(int, bool) {}
func (NopProgress) End() {}
