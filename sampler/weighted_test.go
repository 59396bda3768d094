package sampler

import (
	"errors"
	"testing"

	"nftgen/core"
)

var threeTraits = []string{"Trait 1", "Trait 2", "Trait 3"}

func mustCandidates(t *testing.T, values []string, weights []int) []Candidate {
	t.Helper()
	c, err := FromLists(values, weights)
	if err != nil {
		t.Fatalf("FromLists() error = %v", err)
	}
	return c
}

func TestChoose_RegressionFixtures(t *testing.T) {
	tests := []struct {
		name      string
		weights   []int
		seed      int64
		drawIndex uint64
		want      string
	}{
		{"weights 1 2 3", []int{1, 2, 3}, 123456, 2, "Trait 2"},
		{"equal weights", []int{1, 1, 1}, 123456, 3, "Trait 2"},
		{"zero weights skipped", []int{0, 0, 3}, 123456, 4, "Trait 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Choose(mustCandidates(t, threeTraits, tt.weights), Seeded(tt.seed), tt.drawIndex)
			if err != nil {
				t.Fatalf("Choose() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Choose() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChoose_SubSeedIsSum(t *testing.T) {
	candidates := mustCandidates(t, []string{"A", "B", "C", "D"}, []int{10, 20, 30, 40})
	want := map[uint64]string{0: "D", 1: "A", 2: "C", 3: "B"}

	for idx, v := range want {
		got, err := Choose(candidates, Seeded(42), idx)
		if err != nil {
			t.Fatalf("Choose() error = %v", err)
		}
		if got != v {
			t.Errorf("seed 42 index %d: got %q, want %q", idx, got, v)
		}
	}
}

func TestChoose_Deterministic(t *testing.T) {
	candidates := mustCandidates(t, threeTraits, []int{20, 30, 50})
	for idx := uint64(0); idx < 50; idx++ {
		a, err := Choose(candidates, Seeded(7), idx)
		if err != nil {
			t.Fatal(err)
		}
		b, err := Choose(candidates, Seeded(7), idx)
		if err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Fatalf("index %d: %q != %q", idx, a, b)
		}
	}
}

func TestChoose_SingleCandidate(t *testing.T) {
	for _, w := range []int{0, 1, 100} {
		got, err := Choose([]Candidate{{Value: "Only", Weight: w}}, Seeded(1), 9)
		if err != nil {
			t.Fatalf("weight %d: error = %v", w, err)
		}
		if got != "Only" {
			t.Errorf("weight %d: got %q", w, got)
		}
	}
}

func TestChoose_Errors(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
		want       error
	}{
		{"empty", nil, core.ErrNoCandidates},
		{"negative", []Candidate{{"A", 50}, {"B", -1}}, core.ErrNegativeWeight},
		{"negative single", []Candidate{{"A", -1}}, core.ErrNegativeWeight},
		{"all zero", []Candidate{{"A", 0}, {"B", 0}}, core.ErrZeroTotalWeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Choose(tt.candidates, Seeded(1), 0)
			if !errors.Is(err, tt.want) {
				t.Errorf("Choose() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestChoose_NeverPicksZeroWeightOverPositive(t *testing.T) {
	candidates := mustCandidates(t, threeTraits, []int{0, 100, 0})
	for idx := uint64(0); idx < 200; idx++ {
		got, err := Choose(candidates, Seeded(3), idx)
		if err != nil {
			t.Fatal(err)
		}
		if got != "Trait 2" {
			t.Fatalf("index %d: got %q", idx, got)
		}
	}
}

func TestUnseeded_Range(t *testing.T) {
	src := Unseeded()
	for i := uint64(0); i < 100; i++ {
		if f := src.Float64(i); f < 0 || f >= 1 {
			t.Fatalf("draw %d out of range: %v", i, f)
		}
	}
	if RandomSeed() < 0 {
		t.Error("RandomSeed() should be non-negative")
	}
}

func TestFromLists_LengthMismatch(t *testing.T) {
	if _, err := FromLists([]string{"A"}, []int{1, 2}); err == nil {
		t.Error("expected error for mismatched lists")
	}
}
