// Package metrics provides the data types reported by a generation run.
// This file contains plain data structures with no behavior.
package metrics

import "time"

// ImageRecord describes one finished compositing task.
type ImageRecord struct {
	// TokenID identifies the genome that was rendered
	TokenID int `json:"token_id"`

	// Status is "rendered" or "failed"
	Status string `json:"status"`

	// Duration is the wall time spent loading, compositing and writing
	Duration time.Duration `json:"duration"`

	// ErrorMsg contains the failure cause if Status is "failed"
	ErrorMsg string `json:"error_msg,omitempty"`
}

// GenomeCounters are the builder's per-run counters.
type GenomeCounters struct {
	Accepted            int64 `json:"accepted"`
	Attempts            int64 `json:"attempts"`
	ConstraintResamples int64 `json:"constraint_resamples"`
	Substitutions       int64 `json:"substitutions"`
	DuplicateRejections int64 `json:"duplicate_rejections"`
}

// ImageCounters aggregate the image phase.
type ImageCounters struct {
	Rendered    int64         `json:"rendered"`
	Failed      int64         `json:"failed"`
	AvgDuration time.Duration `json:"avg_duration"`
	MaxDuration time.Duration `json:"max_duration"`
}

// PhaseTiming is the wall time of one orchestrator phase.
type PhaseTiming struct {
	Phase    string        `json:"phase"`
	Duration time.Duration `json:"duration"`
}

// Snapshot is a point-in-time copy of everything a Collector holds.
type Snapshot struct {
	Genomes GenomeCounters `json:"genomes"`
	Images  ImageCounters  `json:"images"`
	Phases  []PhaseTiming  `json:"phases"`
	Elapsed time.Duration  `json:"elapsed"`
}

// Image status constants for ImageRecord
const (
	ImageStatusRendered = "rendered"
	ImageStatusFailed   = "failed"
)

// Phase names used by the orchestrator
const (
	PhaseMetadata = "metadata"
	PhaseImages   = "images"
)
