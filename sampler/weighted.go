// Package sampler implements the reproducible weighted trait selection used by
// the genome builder.
//
// Selection follows the cumulative-weight bisection of a standard weighted
// choice: the variate is scaled by the weight total and the first candidate
// whose running total exceeds it wins. Zero-weight candidates are therefore
// possible only at the boundary, never preferred over positive weights.
package sampler

import (
	"fmt"
	"sort"

	"nftgen/core"
)

// Candidate is one selectable trait value with its integer weight.
type Candidate struct {
	Value  string
	Weight int
}

// Choose selects one candidate value with probability proportional to its
// weight, using the variate src yields for drawIndex.
//
// Returns core.ErrNoCandidates for an empty list, core.ErrNegativeWeight if any
// weight is negative and core.ErrZeroTotalWeight when every weight is zero and
// there is more than one candidate. A single candidate with a non-negative
// weight always wins.
func Choose(candidates []Candidate, src Source, drawIndex uint64) (string, error) {
	if len(candidates) == 0 {
		return "", core.ErrNoCandidates
	}

	cumulative := make([]float64, len(candidates))
	total := 0
	for i, c := range candidates {
		if c.Weight < 0 {
			return "", fmt.Errorf("%w: %q has weight %d", core.ErrNegativeWeight, c.Value, c.Weight)
		}
		total += c.Weight
		cumulative[i] = float64(total)
	}

	if len(candidates) == 1 {
		return candidates[0].Value, nil
	}
	if total <= 0 {
		return "", core.ErrZeroTotalWeight
	}

	x := src.Float64(drawIndex) * float64(total)
	hi := len(candidates) - 1
	idx := sort.Search(hi, func(i int) bool { return cumulative[i] > x })
	return candidates[idx].Value, nil
}

// FromLists zips parallel value and weight lists into candidates.
func FromLists(values []string, weights []int) ([]Candidate, error) {
	if len(values) != len(weights) {
		return nil, fmt.Errorf("sampler: %d values but %d weights", len(values), len(weights))
	}
	out := make([]Candidate, len(values))
	for i := range values {
		out[i] = Candidate{Value: values[i], Weight: weights[i]}
	}
	return out, nil
}
