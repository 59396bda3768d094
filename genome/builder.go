package genome

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"go.uber.org/zap"

	"nftgen/core"
	"nftgen/logging"
	"nftgen/sampler"
	"nftgen/traits"
)

// slowAttemptLog is how often a genome that keeps getting rejected is reported.
const slowAttemptLog = 10000

// Options configures a Builder.
type Options struct {
	// StartAt is the token id of the first accepted genome.
	StartAt int

	// AllowDuplicates skips the uniqueness check.
	AllowDuplicates bool

	// MaxAttempts bounds the sampling passes spent on one genome. Zero means
	// no bound; the capacity pre-flight is then the only guard.
	MaxAttempts int

	// Logger receives resample diagnostics. Nil discards them.
	Logger *logging.Logger
}

// Builder produces accepted genomes from a validated config.
//
// Example:
//
//	b, err := genome.NewBuilder(cfg, sampler.Seeded(seed), genome.Options{StartAt: 1})
//	state := genome.NewRunState()
//	for i := 0; i < amount; i++ {
//	    g, err := b.Next(ctx, state)
//	    ...
//	}
type Builder struct {
	cfg        *traits.Config
	src        sampler.Source
	opts       Options
	logger     *logging.Logger
	candidates [][]sampler.Candidate
	triggers   []int // layer index of each rule's trigger
}

// NewBuilder prepares per-layer candidate lists and rule trigger indexes.
func NewBuilder(cfg *traits.Config, src sampler.Source, opts Options) (*Builder, error) {
	b := &Builder{
		cfg:        cfg,
		src:        src,
		opts:       opts,
		logger:     opts.Logger,
		candidates: make([][]sampler.Candidate, len(cfg.Layers)),
		triggers:   make([]int, len(cfg.Rules)),
	}
	if b.logger == nil {
		b.logger = logging.NewNop()
	}

	for i, layer := range cfg.Layers {
		c, err := sampler.FromLists(layer.Values, layer.Weights)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
		}
		b.candidates[i] = c
	}
	for i, r := range cfg.Rules {
		b.triggers[i] = cfg.LayerIndex(r.Layer)
		if b.triggers[i] < 0 {
			return nil, fmt.Errorf("rule %d references unknown layer %q", i, r.Layer)
		}
	}
	return b, nil
}

// Next runs the build loop until one genome is accepted and records it in
// state. Token ids are StartAt plus the number of genomes already accepted.
//
// Returns a sampling error for invalid weights, core.ErrAttemptsExceeded when
// MaxAttempts is reached and core.ErrInterrupted once ctx is done.
func (b *Builder) Next(ctx context.Context, state *RunState) (Genome, error) {
	var (
		values   []string
		k        string
		attempts int
		err      error
	)

	st := Sampling
	for {
		switch st {
		case Sampling:
			if cerr := ctx.Err(); cerr != nil {
				return Genome{}, fmt.Errorf("%w: %v", core.ErrInterrupted, cerr)
			}
			if b.opts.MaxAttempts > 0 && attempts >= b.opts.MaxAttempts {
				return Genome{}, fmt.Errorf("%w: token %d after %d attempts",
					core.ErrAttemptsExceeded, b.opts.StartAt+state.count, attempts)
			}
			attempts++
			state.Attempts++
			if attempts%slowAttemptLog == 0 {
				b.logger.Warn("genome still not accepted",
					logging.TokenID(b.opts.StartAt+state.count),
					logging.Attempts(attempts),
					logging.DrawIndex(state.DrawIndex))
			}

			values, err = b.sample(state)
			if err != nil {
				return Genome{}, err
			}
			st = ConstraintCheck

		case ConstraintCheck:
			if !b.resolve(values, state) {
				state.ConstraintResamples++
				b.logger.Debug("constraint conflict, resampling",
					logging.TokenID(b.opts.StartAt+state.count), zap.Strings("values", values))
				st = Sampling
				continue
			}
			st = UniquenessCheck

		case UniquenessCheck:
			k = key(values)
			if _, dup := state.accepted[k]; dup && !b.opts.AllowDuplicates {
				state.DuplicateRejections++
				b.logger.Debug("duplicate combination, resampling",
					logging.TokenID(b.opts.StartAt+state.count))
				st = Sampling
				continue
			}
			st = Accepted

		case Accepted:
			g := Genome{
				TokenID: b.opts.StartAt + state.count,
				Traits:  make([]Trait, len(values)),
			}
			for i, v := range values {
				g.Traits[i] = Trait{Layer: b.cfg.Layers[i].Name, Value: v}
			}
			state.accept(k)
			return g, nil
		}
	}
}

// sample draws one value per layer in layer order.
func (b *Builder) sample(state *RunState) ([]string, error) {
	values := make([]string, len(b.candidates))
	for i, c := range b.candidates {
		v, err := sampler.Choose(c, b.src, state.DrawIndex)
		state.DrawIndex++
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", b.cfg.Layers[i].Name, err)
		}
		values[i] = v
	}
	return values, nil
}

// resolve applies rule defaults in place until no rule is violated. It reports
// false when a violated rule has no default or the substitutions do not settle
// within len(rules)+1 passes.
func (b *Builder) resolve(values []string, state *RunState) bool {
	for pass := 0; pass <= len(b.cfg.Rules); pass++ {
		changed := false
		for ri, r := range b.cfg.Rules {
			trigger := b.triggers[ri]
			if values[trigger] != r.Value {
				continue
			}
			for li := range values {
				if li == trigger || !slices.Contains(r.Forbidden, values[li]) {
					continue
				}
				if r.Default == nil {
					return false
				}
				values[li] = r.Default.Value
				state.Substitutions++
				changed = true
			}
		}
		if !changed {
			return true
		}
	}
	return !b.violated(values)
}

// violated reports whether any rule is still active against values.
func (b *Builder) violated(values []string) bool {
	for ri, r := range b.cfg.Rules {
		trigger := b.triggers[ri]
		if values[trigger] != r.Value {
			continue
		}
		for li := range values {
			if li != trigger && slices.Contains(r.Forbidden, values[li]) {
				return true
			}
		}
	}
	return false
}

// CheckCapacity rejects a batch that cannot be unique before any sampling.
func CheckCapacity(cfg *traits.Config, amount int, allowDuplicates bool) error {
	if allowDuplicates {
		return nil
	}
	bound := traits.MaxCombinations(cfg)
	if big.NewInt(int64(amount)).Cmp(bound) > 0 {
		return &core.CapacityError{Requested: amount, Maximum: bound.String()}
	}
	return nil
}
