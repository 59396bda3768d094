package genome

// State is a step of the per-genome build loop.
type State int

const (
	Sampling State = iota
	ConstraintCheck
	UniquenessCheck
	Accepted
)

func (s State) String() string {
	switch s {
	case Sampling:
		return "sampling"
	case ConstraintCheck:
		return "constraint_check"
	case UniquenessCheck:
		return "uniqueness_check"
	case Accepted:
		return "accepted"
	default:
		return "unknown"
	}
}

// RunState is the cross-genome context of one batch: the global draw index,
// the set of accepted mappings and attempt counters. It is owned by a single
// goroutine.
type RunState struct {
	// DrawIndex advances once per layer per attempt and is never rolled back.
	DrawIndex uint64

	// Attempts counts every sampling pass across the run.
	Attempts int

	// ConstraintResamples counts attempts discarded by a rule without default
	// or by substitutions that never settled.
	ConstraintResamples int

	// Substitutions counts default values written over conflicting traits.
	Substitutions int

	// DuplicateRejections counts attempts discarded as already accepted.
	DuplicateRejections int

	accepted map[string]struct{}
	count    int
}

// NewRunState returns an empty state starting at draw index zero.
func NewRunState() *RunState {
	return &RunState{accepted: make(map[string]struct{})}
}

// AcceptedCount returns how many genomes have been accepted.
func (s *RunState) AcceptedCount() int {
	return s.count
}

// Seen reports whether the mapping of g was already accepted.
func (s *RunState) Seen(g Genome) bool {
	_, ok := s.accepted[g.Key()]
	return ok
}

func (s *RunState) accept(k string) {
	s.accepted[k] = struct{}{}
	s.count++
}
