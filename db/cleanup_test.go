package db

import (
	"context"
	"testing"
	"time"
)

func TestPruneRunsBefore(t *testing.T) {
	ctx := context.Background()
	d := openTestDatabase(t)
	repo := NewRepository(d, nil)

	old := testRun("old")
	old.StartedAt = time.Now().Add(-72 * time.Hour)
	stillRunning := testRun("stuck")
	stillRunning.StartedAt = old.StartedAt
	recent := testRun("recent")

	for _, run := range []RunRecord{old, stillRunning, recent} {
		if err := repo.InsertRun(ctx, run); err != nil {
			t.Fatal(err)
		}
		if err := repo.InsertGenome(ctx, GenomeRecord{RunID: run.ID, TokenID: 1, Traits: []TraitRow{{"Background", "Red"}}}); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.InsertImageOutcome(ctx, ImageOutcomeRecord{RunID: "old", TokenID: 1, Status: "rendered", Path: "images/1.png"}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"old", "recent"} {
		if err := repo.FinishRun(ctx, id, RunStatusCompleted, RunCounters{}, nil); err != nil {
			t.Fatal(err)
		}
	}

	res, err := d.PruneRunsBefore(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("PruneRunsBefore() error = %v", err)
	}
	if res.RunsDeleted != 1 || res.GenomesDeleted != 1 || res.ImageOutcomesDeleted != 1 {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.TotalDeleted() != 3 {
		t.Errorf("TotalDeleted() = %d, want 3", res.TotalDeleted())
	}

	ids, err := repo.ListRunIDs(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 {
		t.Errorf("remaining runs = %v, want stuck and recent", ids)
	}
}

func TestPruneRunsBefore_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := openTestDatabase(t).PruneRunsBefore(ctx, time.Now()); err == nil {
		t.Error("expected context error")
	}
}
