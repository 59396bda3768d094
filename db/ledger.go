package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"nftgen/genome"
	"nftgen/logging"
)

// Ledger is the run audit trail handed to the batch orchestrator. It is
// write-only from the orchestrator's point of view; nothing reads it back to
// resume or deduplicate a run.
type Ledger struct {
	db     *Database
	repo   *Repository
	writer *AsyncWriter
	log    *logging.Logger
}

// OpenLedger opens (and migrates) the ledger at path and starts the async
// writer used for genome and image outcome inserts.
func OpenLedger(path string, log *logging.Logger) (*Ledger, error) {
	if log == nil {
		log = logging.NewNop()
	}
	log = log.Named("ledger")

	database, err := OpenDatabase(path)
	if err != nil {
		return nil, err
	}

	l := &Ledger{db: database, log: log}
	l.repo = NewRepository(database, nil)
	l.writer = NewAsyncWriterWithConfig(l.repo.CreateAsyncWriteHandler(), AsyncWriterConfig{
		ChannelCapacity: DefaultChannelCapacity,
		DrainTimeout:    DefaultDrainTimeout,
		OnError: func(err error) {
			log.Warn("ledger write failed", zap.Error(err))
		},
	})
	l.repo.asyncWriter = l.writer
	l.writer.Start()

	log.Debug("ledger opened", logging.Path(path))
	return l, nil
}

// Repository exposes the underlying repository for queries.
func (l *Ledger) Repository() *Repository {
	return l.repo
}

// BeginRun records the start of a run synchronously so that later inserts
// can reference it.
func (l *Ledger) BeginRun(ctx context.Context, run RunRecord) error {
	return l.repo.InsertRun(ctx, run)
}

// RecordGenome queues an accepted genome.
func (l *Ledger) RecordGenome(ctx context.Context, runID string, g genome.Genome) error {
	traits := make([]TraitRow, len(g.Traits))
	for i, t := range g.Traits {
		traits[i] = TraitRow{Layer: t.Layer, Value: t.Value}
	}
	return l.repo.InsertGenome(ctx, GenomeRecord{RunID: runID, TokenID: g.TokenID, Traits: traits})
}

// RecordImage queues an image outcome. Safe for concurrent use.
func (l *Ledger) RecordImage(ctx context.Context, rec ImageOutcomeRecord) error {
	return l.repo.InsertImageOutcome(ctx, rec)
}

// FinishRun stores the final state of a run.
func (l *Ledger) FinishRun(ctx context.Context, runID, status string, counters RunCounters, runErr error) error {
	return l.repo.FinishRun(ctx, runID, status, counters, runErr)
}

// Prune deletes finished runs older than retention.
func (l *Ledger) Prune(ctx context.Context, retention time.Duration) (PruneResult, error) {
	res, err := l.db.PruneRunsBefore(ctx, time.Now().Add(-retention))
	if err == nil && res.RunsDeleted > 0 {
		l.log.Info("pruned ledger",
			zap.Int64("runs", res.RunsDeleted),
			zap.Int64("rows", res.TotalDeleted()),
			logging.Duration(res.Duration))
	}
	return res, err
}

// Close drains queued writes and closes the database.
func (l *Ledger) Close() error {
	if !l.writer.StopWithTimeout(DefaultDrainTimeout) {
		l.log.Warn("ledger writer did not drain in time", zap.Int("pending", l.writer.Pending()))
	}
	if failed := l.writer.Failed(); failed > 0 {
		l.log.Warn("ledger dropped writes", zap.Int64("failed", failed))
	}
	if err := l.db.Close(); err != nil {
		return fmt.Errorf("close ledger: %w", err)
	}
	return nil
}
