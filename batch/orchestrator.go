// Package batch runs a generation: a capacity pre-flight, a sequential
// metadata phase that builds and persists every genome, then a bounded
// worker pool that composites the images.
package batch

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nftgen/compositor"
	"nftgen/core"
	"nftgen/db"
	"nftgen/genome"
	"nftgen/logging"
	"nftgen/metadata"
	"nftgen/metrics"
	"nftgen/sampler"
	"nftgen/traits"
)

// Ledger receives the audit trail of a run; *db.Ledger implements it.
type Ledger interface {
	BeginRun(ctx context.Context, run db.RunRecord) error
	RecordGenome(ctx context.Context, runID string, g genome.Genome) error
	RecordImage(ctx context.Context, rec db.ImageOutcomeRecord) error
	FinishRun(ctx context.Context, runID, status string, counters db.RunCounters, runErr error) error
}

// RenderFunc composites g into path.
type RenderFunc func(cfg *traits.Config, g genome.Genome, path string) error

// Options describes one run.
type Options struct {
	Amount          int
	StartAt         int
	AllowDuplicates bool
	NoPad           bool
	OutputDir       string
	Workers         int
	MaxAttempts     int

	// Seed makes the run reproducible; nil draws from crypto/rand.
	Seed *int64

	// RunID labels logs and ledger rows; empty generates a UUID.
	RunID string

	// ConfigPath is recorded in the ledger.
	ConfigPath string
}

// Orchestrator drives one run. Build it with New and call Run once.
type Orchestrator struct {
	cfg      *traits.Config
	opts     Options
	src      sampler.Source
	log      *logging.Logger
	progress core.ProgressReporter
	metrics  metrics.Collector
	ledger   Ledger
	tracker  Tracker
	render   RenderFunc
	now      func() time.Time
}

// Option wires an optional collaborator into the Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(o *Orchestrator) { o.log = log }
}

// WithProgress sets the progress reporter used by both phases.
func WithProgress(p core.ProgressReporter) Option {
	return func(o *Orchestrator) { o.progress = p }
}

// WithMetrics sets the metrics collector.
func WithMetrics(c metrics.Collector) Option {
	return func(o *Orchestrator) { o.metrics = c }
}

// WithLedger records the run in l.
func WithLedger(l Ledger) Option {
	return func(o *Orchestrator) { o.ledger = l }
}

// WithTracker registers image tasks with t.
func WithTracker(t Tracker) Option {
	return func(o *Orchestrator) { o.tracker = t }
}

// WithRenderer replaces compositor.Render.
func WithRenderer(r RenderFunc) Option {
	return func(o *Orchestrator) { o.render = r }
}

// New validates opts and prepares an Orchestrator.
func New(cfg *traits.Config, opts Options, options ...Option) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("batch: config is required")
	}
	if opts.Amount < 1 {
		return nil, core.ErrInvalidArgument("--amount", fmt.Sprintf("must be greater than 0, got %d", opts.Amount))
	}
	if opts.OutputDir == "" {
		return nil, core.ErrInvalidArgument("--output", "no output directory was provided")
	}
	if opts.Workers < 1 {
		opts.Workers = core.DefaultWorkers
	}
	if opts.RunID == "" {
		opts.RunID = uuid.NewString()
	}

	o := &Orchestrator{
		cfg:      cfg,
		opts:     opts,
		progress: core.NopProgress{},
		render:   compositor.Render,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(o)
	}
	if o.log == nil {
		o.log = logging.NewNop()
	}
	if o.metrics == nil {
		o.metrics = metrics.NewStore(metrics.DefaultStoreConfig(), o.now())
	}

	if opts.Seed != nil {
		o.src = sampler.Seeded(*opts.Seed)
	} else {
		o.src = sampler.Unseeded()
	}
	o.log = o.log.With(logging.RunID(opts.RunID))
	return o, nil
}

// RunID returns the id this run is logged and recorded under.
func (o *Orchestrator) RunID() string {
	return o.opts.RunID
}

// Run executes the run. The returned Result is non-nil whenever the
// metadata phase started, even on error.
//
// Errors: *core.CapacityError before any sampling; metadata I/O errors abort
// the run; image failures are joined and returned after every dispatched task
// finished; core.ErrInterrupted is joined in when ctx ended early.
func (o *Orchestrator) Run(ctx context.Context) (*Result, error) {
	bound := traits.MaxCombinations(o.cfg)
	if err := genome.CheckCapacity(o.cfg, o.opts.Amount, o.opts.AllowDuplicates); err != nil {
		o.log.Error("batch exceeds unique combinations",
			logging.Amount(o.opts.Amount), logging.Combinations(bound))
		return nil, err
	}

	for _, dir := range []string{metadata.ImagesDir, metadata.MetadataDir} {
		if err := os.MkdirAll(filepath.Join(o.opts.OutputDir, dir), 0755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	fields := []zap.Field{
		logging.Amount(o.opts.Amount),
		logging.Combinations(bound),
		logging.Workers(o.opts.Workers),
		logging.Path(o.opts.OutputDir),
	}
	if o.opts.Seed != nil {
		fields = append(fields, logging.Seed(*o.opts.Seed))
	}
	o.log.Info("starting run", fields...)

	res := &Result{RunID: o.opts.RunID, Seed: o.opts.Seed, MaxCombinations: bound}
	o.beginLedger(ctx, bound)

	state := genome.NewRunState()
	err := o.metadataPhase(ctx, state, res)
	res.Counters = counters(state)
	o.metrics.RecordGenomes(res.Counters)

	if err == nil {
		err = o.imagePhase(ctx, res)
	}

	o.finishLedger(res, err)
	o.logSummary(res, err)
	return res, err
}

func (o *Orchestrator) metadataPhase(ctx context.Context, state *genome.RunState, res *Result) error {
	start := o.now()
	defer func() {
		o.metrics.RecordPhase(metrics.PhaseTiming{Phase: metrics.PhaseMetadata, Duration: o.now().Sub(start)})
	}()

	builder, err := genome.NewBuilder(o.cfg, o.src, genome.Options{
		StartAt:         o.opts.StartAt,
		AllowDuplicates: o.opts.AllowDuplicates,
		MaxAttempts:     o.opts.MaxAttempts,
		Logger:          o.log.Named("genome"),
	})
	if err != nil {
		return err
	}

	naming := metadata.Naming{Amount: o.opts.Amount, NoPad: o.opts.NoPad, OutputDir: o.opts.OutputDir}

	o.progress.Begin(metrics.PhaseMetadata, o.opts.Amount)
	defer o.progress.End()

	for i := 0; i < o.opts.Amount; i++ {
		g, err := builder.Next(ctx, state)
		if err != nil {
			return err
		}
		rec := metadata.NewRecord(o.cfg, g, naming)
		if err := metadata.WriteRecord(o.opts.OutputDir, rec); err != nil {
			return fmt.Errorf("write metadata for token %d: %w", g.TokenID, err)
		}
		res.Genomes = append(res.Genomes, g)
		res.Records = append(res.Records, rec)

		if o.ledger != nil {
			if err := o.ledger.RecordGenome(ctx, o.opts.RunID, g); err != nil {
				o.log.Warn("ledger genome write failed", logging.TokenID(g.TokenID), zap.Error(err))
			}
		}
		o.log.Debug("genome accepted", logging.TokenID(g.TokenID), logging.Traits(g.Pairs()))
		o.progress.Advance(1, false)
	}

	if err := metadata.WriteManifest(o.opts.OutputDir, res.Records); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if err := metadata.WriteRarity(o.opts.OutputDir, metadata.Rarity(o.cfg, res.Genomes)); err != nil {
		return fmt.Errorf("write rarity report: %w", err)
	}

	o.log.Info("metadata phase complete",
		zap.Int("genomes", len(res.Genomes)),
		logging.Attempts(state.Attempts),
		zap.Int("duplicate_rejections", state.DuplicateRejections),
		zap.Int("constraint_resamples", state.ConstraintResamples),
		logging.Duration(o.now().Sub(start)))
	return nil
}

func (o *Orchestrator) imagePhase(ctx context.Context, res *Result) error {
	start := o.now()
	defer func() {
		o.metrics.RecordPhase(metrics.PhaseTiming{Phase: metrics.PhaseImages, Duration: o.now().Sub(start)})
	}()

	res.Outcomes = make([]ImageOutcome, len(res.Genomes))
	for i, g := range res.Genomes {
		res.Outcomes[i] = ImageOutcome{
			TokenID: g.TokenID,
			Path:    metadata.ImagePath(o.opts.OutputDir, g.TokenID),
			Status:  StatusSkipped,
		}
	}

	o.progress.Begin(metrics.PhaseImages, len(res.Genomes))
	defer o.progress.End()

	pool := NewPool(o.opts.Workers, o.tracker)
	dispatched := pool.Run(ctx, len(res.Genomes), func(i int) {
		o.renderOne(ctx, res.Genomes[i], &res.Outcomes[i])
	})

	var errs []error
	for _, out := range res.Outcomes {
		if out.Err != nil {
			errs = append(errs, out.Err)
		}
	}
	if dispatched < len(res.Genomes) {
		o.log.Warn("image phase interrupted",
			zap.Int("dispatched", dispatched),
			zap.Int("skipped", len(res.Genomes)-dispatched))
		errs = append(errs, core.ErrInterrupted)
	}

	o.log.Info("image phase complete",
		zap.Int("rendered", res.Rendered()),
		zap.Int("failed", res.Failed()),
		logging.Duration(o.now().Sub(start)))
	return errors.Join(errs...)
}

// renderOne runs on a pool worker; it only writes its own outcome slot.
func (o *Orchestrator) renderOne(ctx context.Context, g genome.Genome, out *ImageOutcome) {
	start := o.now()
	err := o.render(o.cfg, g, out.Path)
	out.Duration = o.now().Sub(start)

	rec := metrics.ImageRecord{TokenID: g.TokenID, Duration: out.Duration, Status: metrics.ImageStatusRendered}
	out.Status = StatusRendered
	if err != nil {
		out.Status = StatusFailed
		out.Err = err
		rec.Status = metrics.ImageStatusFailed
		rec.ErrorMsg = err.Error()
		o.log.Error("image failed", logging.TokenID(g.TokenID), logging.Path(out.Path), zap.Error(err))
	}
	o.metrics.RecordImage(rec)
	o.progress.Advance(1, err != nil)

	if o.ledger != nil {
		lerr := o.ledger.RecordImage(ctx, db.ImageOutcomeRecord{
			RunID:        o.opts.RunID,
			TokenID:      g.TokenID,
			Status:       out.Status,
			Path:         out.Path,
			Duration:     out.Duration,
			ErrorMessage: rec.ErrorMsg,
		})
		if lerr != nil {
			o.log.Warn("ledger image write failed", logging.TokenID(g.TokenID), zap.Error(lerr))
		}
	}
}

func (o *Orchestrator) beginLedger(ctx context.Context, bound *big.Int) {
	if o.ledger == nil {
		return
	}
	run := db.RunRecord{
		ID:                o.opts.RunID,
		Seed:              o.opts.Seed,
		Amount:            o.opts.Amount,
		StartAt:           o.opts.StartAt,
		AllowDuplicates:   o.opts.AllowDuplicates,
		ConfigPath:        o.opts.ConfigPath,
		ConfigFingerprint: o.cfg.Fingerprint,
		MaxCombinations:   bound.String(),
		OutputDir:         o.opts.OutputDir,
		StartedAt:         o.now(),
	}
	if err := o.ledger.BeginRun(ctx, run); err != nil {
		o.log.Warn("ledger unavailable for this run", zap.Error(err))
		o.ledger = nil
	}
}

func (o *Orchestrator) finishLedger(res *Result, runErr error) {
	if o.ledger == nil {
		return
	}
	status := db.RunStatusCompleted
	switch {
	case errors.Is(runErr, core.ErrInterrupted):
		status = db.RunStatusInterrupted
	case runErr != nil:
		status = db.RunStatusFailed
	}
	c := db.RunCounters{
		Attempts:            int(res.Counters.Attempts),
		ConstraintResamples: int(res.Counters.ConstraintResamples),
		Substitutions:       int(res.Counters.Substitutions),
		DuplicateRejections: int(res.Counters.DuplicateRejections),
	}
	// The run context may already be cancelled; the final row is still written.
	if err := o.ledger.FinishRun(context.Background(), o.opts.RunID, status, c, runErr); err != nil {
		o.log.Warn("ledger finish failed", zap.Error(err))
	}
}

func (o *Orchestrator) logSummary(res *Result, err error) {
	snap := o.metrics.Snapshot()
	fields := []zap.Field{
		zap.String("genomes", humanize.Comma(int64(len(res.Genomes)))),
		zap.String("attempts", humanize.Comma(res.Counters.Attempts)),
		zap.Int("rendered", res.Rendered()),
		zap.Int("failed", res.Failed()),
		logging.Duration(snap.Elapsed),
	}
	if err != nil {
		o.log.Error("run finished with errors", append(fields, zap.Error(err))...)
		return
	}
	o.log.Info("run finished", fields...)
}

func counters(state *genome.RunState) metrics.GenomeCounters {
	return metrics.GenomeCounters{
		Accepted:            int64(state.AcceptedCount()),
		Attempts:            int64(state.Attempts),
		ConstraintResamples: int64(state.ConstraintResamples),
		Substitutions:       int64(state.Substitutions),
		DuplicateRejections: int64(state.DuplicateRejections),
	}
}
