package batch

import (
	"math/big"
	"time"

	"nftgen/genome"
	"nftgen/metadata"
	"nftgen/metrics"
)

// Outcome states of one compositing task.
const (
	StatusRendered = metrics.ImageStatusRendered
	StatusFailed   = metrics.ImageStatusFailed
	StatusSkipped  = "skipped"
)

// ImageOutcome is the result of compositing one genome.
type ImageOutcome struct {
	TokenID  int
	Path     string
	Status   string
	Err      error
	Duration time.Duration
}

// Result describes a finished or interrupted run. Outcomes has one entry per
// accepted genome, in token order; entries never dispatched are skipped.
type Result struct {
	RunID           string
	Seed            *int64
	MaxCombinations *big.Int
	Genomes         []genome.Genome
	Records         []metadata.Record
	Outcomes        []ImageOutcome
	Counters        metrics.GenomeCounters
}

// Rendered counts images written successfully.
func (r *Result) Rendered() int {
	return r.count(StatusRendered)
}

// Failed counts images whose task returned an error.
func (r *Result) Failed() int {
	return r.count(StatusFailed)
}

// Skipped counts images never dispatched because the run was interrupted.
func (r *Result) Skipped() int {
	return r.count(StatusSkipped)
}

func (r *Result) count(status string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
