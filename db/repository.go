package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Run statuses stored in runs.status.
const (
	RunStatusRunning     = "running"
	RunStatusCompleted   = "completed"
	RunStatusFailed      = "failed"
	RunStatusInterrupted = "interrupted"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = errors.New("ledger record not found")

// RunRecord is a row of the runs table.
type RunRecord struct {
	ID                string
	Seed              *int64 // nil for unseeded runs
	Amount            int
	StartAt           int
	AllowDuplicates   bool
	ConfigPath        string
	ConfigFingerprint string
	MaxCombinations   string // decimal, may exceed int64
	OutputDir         string
	Status            string
	ErrorMessage      string
	StartedAt         time.Time
	FinishedAt        time.Time // zero while running
	Counters          RunCounters
}

// RunCounters are the builder totals written when a run finishes.
type RunCounters struct {
	Attempts            int
	ConstraintResamples int
	Substitutions       int
	DuplicateRejections int
}

// TraitRow is one layer/value pair of a stored genome.
type TraitRow struct {
	Layer string `json:"layer"`
	Value string `json:"value"`
}

// GenomeRecord is a row of the genomes table.
type GenomeRecord struct {
	RunID   string
	TokenID int
	Traits  []TraitRow
}

// ImageOutcomeRecord is a row of the image_outcomes table.
type ImageOutcomeRecord struct {
	ID           int64
	RunID        string
	TokenID      int
	Status       string
	Path         string
	Duration     time.Duration
	ErrorMessage string
	CreatedAt    time.Time
}

// Repository reads and writes ledger rows. Inserts from concurrent callers
// go through the optional AsyncWriter; when it is absent, stopped or full
// they fall back to a synchronous insert.
type Repository struct {
	db          *Database
	asyncWriter *AsyncWriter
	now         func() time.Time
}

// NewRepository creates a Repository. asyncWriter may be nil.
func NewRepository(db *Database, asyncWriter *AsyncWriter) *Repository {
	return &Repository{db: db, asyncWriter: asyncWriter, now: time.Now}
}

// InsertRun records the start of a run.
func (r *Repository) InsertRun(ctx context.Context, run RunRecord) error {
	if run.Status == "" {
		run.Status = RunStatusRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = r.now()
	}

	var seed interface{}
	if run.Seed != nil {
		seed = *run.Seed
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO runs (
			id, seed, amount, start_at, allow_duplicates, config_path,
			config_fingerprint, max_combinations, output_dir, status, started_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, seed, run.Amount, run.StartAt, boolInt(run.AllowDuplicates), run.ConfigPath,
		run.ConfigFingerprint, run.MaxCombinations, run.OutputDir, run.Status, run.StartedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final status, error and counters of a run.
func (r *Repository) FinishRun(ctx context.Context, id, status string, counters RunCounters, runErr error) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE runs SET
			status = ?, error_message = ?, finished_at = ?,
			attempts = ?, constraint_resamples = ?, substitutions = ?, duplicate_rejections = ?
		WHERE id = ?`,
		status, errorText(runErr), r.now().UnixMilli(),
		counters.Attempts, counters.ConstraintResamples, counters.Substitutions, counters.DuplicateRejections,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("finish run %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetRun loads one run by id.
func (r *Repository) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row, err := r.db.QueryRowContext(ctx, `
		SELECT id, seed, amount, start_at, allow_duplicates, config_path,
			config_fingerprint, max_combinations, output_dir, status,
			COALESCE(error_message, ''), started_at, finished_at,
			attempts, constraint_resamples, substitutions, duplicate_rejections
		FROM runs WHERE id = ?`, id)
	if err != nil {
		return RunRecord{}, err
	}

	var (
		rec        RunRecord
		seed       sql.NullInt64
		allowDup   int
		startedAt  int64
		finishedAt sql.NullInt64
	)
	err = row.Scan(
		&rec.ID, &seed, &rec.Amount, &rec.StartAt, &allowDup, &rec.ConfigPath,
		&rec.ConfigFingerprint, &rec.MaxCombinations, &rec.OutputDir, &rec.Status,
		&rec.ErrorMessage, &startedAt, &finishedAt,
		&rec.Counters.Attempts, &rec.Counters.ConstraintResamples,
		&rec.Counters.Substitutions, &rec.Counters.DuplicateRejections,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to scan run: %w", err)
	}

	if seed.Valid {
		v := seed.Int64
		rec.Seed = &v
	}
	rec.AllowDuplicates = allowDup != 0
	rec.StartedAt = time.UnixMilli(startedAt)
	if finishedAt.Valid {
		rec.FinishedAt = time.UnixMilli(finishedAt.Int64)
	}
	return rec, nil
}

// ListRunIDs returns up to limit run ids, newest first.
func (r *Repository) ListRunIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// InsertGenome records one accepted genome.
func (r *Repository) InsertGenome(ctx context.Context, rec GenomeRecord) error {
	traits, err := json.Marshal(rec.Traits)
	if err != nil {
		return fmt.Errorf("failed to encode traits: %w", err)
	}
	return r.insert(ctx, `INSERT INTO genomes (run_id, token_id, traits) VALUES (?, ?, ?)`,
		rec.RunID, rec.TokenID, string(traits))
}

// ListGenomes returns the genomes of a run in token id order.
func (r *Repository) ListGenomes(ctx context.Context, runID string) ([]GenomeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT run_id, token_id, traits FROM genomes WHERE run_id = ? ORDER BY token_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query genomes: %w", err)
	}
	defer rows.Close()

	var out []GenomeRecord
	for rows.Next() {
		var (
			rec    GenomeRecord
			traits string
		)
		if err := rows.Scan(&rec.RunID, &rec.TokenID, &traits); err != nil {
			return nil, fmt.Errorf("failed to scan genome: %w", err)
		}
		if err := json.Unmarshal([]byte(traits), &rec.Traits); err != nil {
			return nil, fmt.Errorf("failed to decode traits of token %d: %w", rec.TokenID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InsertImageOutcome records the result of one compositing task.
func (r *Repository) InsertImageOutcome(ctx context.Context, rec ImageOutcomeRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	return r.insert(ctx, `
		INSERT INTO image_outcomes (run_id, token_id, status, path, duration_ms, error_message, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.TokenID, rec.Status, rec.Path, rec.Duration.Milliseconds(),
		nullString(rec.ErrorMessage), rec.CreatedAt.UnixMilli(),
	)
}

// ListImageOutcomes returns the image outcomes of a run in token id order.
func (r *Repository) ListImageOutcomes(ctx context.Context, runID string) ([]ImageOutcomeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, run_id, token_id, status, path, duration_ms, COALESCE(error_message, ''), created_at
		FROM image_outcomes WHERE run_id = ? ORDER BY token_id, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query image outcomes: %w", err)
	}
	defer rows.Close()

	var out []ImageOutcomeRecord
	for rows.Next() {
		var (
			rec       ImageOutcomeRecord
			durMS     int64
			createdAt int64
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.TokenID, &rec.Status, &rec.Path, &durMS, &rec.ErrorMessage, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan image outcome: %w", err)
		}
		rec.Duration = time.Duration(durMS) * time.Millisecond
		rec.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountGenomes returns how many genomes a run stored.
func (r *Repository) CountGenomes(ctx context.Context, runID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM genomes WHERE run_id = ?`, runID)
}

// CountImageOutcomes returns how many image outcomes a run stored.
func (r *Repository) CountImageOutcomes(ctx context.Context, runID string) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM image_outcomes WHERE run_id = ?`, runID)
}

func (r *Repository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	row, err := r.db.QueryRowContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return n, nil
}

// asyncInsertOp is a statement queued on the AsyncWriter.
type asyncInsertOp struct {
	query string
	args  []interface{}
}

func (r *Repository) insert(ctx context.Context, query string, args ...interface{}) error {
	if r.asyncWriter != nil && r.asyncWriter.IsStarted() {
		if r.asyncWriter.Write(asyncInsertOp{query: query, args: args}) {
			return nil
		}
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ledger insert failed: %w", err)
	}
	return nil
}

// CreateAsyncWriteHandler returns the WriteHandler that applies queued inserts.
func (r *Repository) CreateAsyncWriteHandler() WriteHandler {
	return func(op WriteOperation) error {
		insertOp, ok := op.Data.(asyncInsertOp)
		if !ok {
			return fmt.Errorf("invalid operation type %T", op.Data)
		}
		_, err := r.db.ExecContext(context.Background(), insertOp.query, insertOp.args...)
		return err
	}
}

func nullString(s string) interface{} {
	if s == "" {
		return sql.NullString{}
	}
	return s
}

func errorText(err error) interface{} {
	if err == nil {
		return sql.NullString{}
	}
	return err.Error()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
