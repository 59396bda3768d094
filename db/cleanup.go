package db

import (
	"context"
	"fmt"
	"time"
)

// PruneResult contains statistics about a prune operation.
type PruneResult struct {
	RunsDeleted          int64
	GenomesDeleted       int64
	ImageOutcomesDeleted int64
	Duration             time.Duration
}

// TotalDeleted is the sum of all deleted rows.
func (r PruneResult) TotalDeleted() int64 {
	return r.RunsDeleted + r.GenomesDeleted + r.ImageOutcomesDeleted
}

// PruneRunsBefore deletes every finished run started before cutoff, together
// with its genomes and image outcomes, in one transaction. Runs still marked
// running are kept. VACUUM runs afterwards to reclaim space.
func (d *Database) PruneRunsBefore(ctx context.Context, cutoff time.Time) (PruneResult, error) {
	start := time.Now()
	var result PruneResult

	if err := ctx.Err(); err != nil {
		return result, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return result, errClosed
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const stale = `SELECT id FROM runs WHERE started_at < ? AND status <> 'running'`
	steps := []struct {
		table string
		query string
		count *int64
	}{
		{"image_outcomes", `DELETE FROM image_outcomes WHERE run_id IN (` + stale + `)`, &result.ImageOutcomesDeleted},
		{"genomes", `DELETE FROM genomes WHERE run_id IN (` + stale + `)`, &result.GenomesDeleted},
		{"runs", `DELETE FROM runs WHERE id IN (` + stale + `)`, &result.RunsDeleted},
	}
	for _, step := range steps {
		res, err := tx.ExecContext(ctx, step.query, cutoff.UnixMilli())
		if err != nil {
			return result, fmt.Errorf("failed to delete from %s: %w", step.table, err)
		}
		if *step.count, err = res.RowsAffected(); err != nil {
			return result, fmt.Errorf("failed to get rows affected for %s: %w", step.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transaction: %w", err)
	}

	if result.TotalDeleted() > 0 {
		if _, err := d.conn.ExecContext(ctx, "VACUUM"); err != nil {
			result.Duration = time.Since(start)
			return result, fmt.Errorf("prune succeeded but VACUUM failed: %w", err)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}
