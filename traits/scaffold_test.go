package traits

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEvenWeights(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{100}},
		{3, []int{34, 33, 33}},
		{4, []int{25, 25, 25, 25}},
		{7, []int{15, 15, 14, 14, 14, 14, 14}},
	}

	for _, tt := range tests {
		got := EvenWeights(tt.n)
		sum := 0
		for i, w := range got {
			sum += w
			if w != tt.want[i] {
				t.Errorf("EvenWeights(%d) = %v, want %v", tt.n, got, tt.want)
				break
			}
		}
		if sum != 100 {
			t.Errorf("EvenWeights(%d) sums to %d", tt.n, sum)
		}
	}
	if EvenWeights(0) != nil {
		t.Error("EvenWeights(0) should be nil")
	}
}

func makeTraitTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string][]string{
		"background": {"blue.png", "red.png", "notes.txt"},
		"hat":        {"cap.png", "crown.png", "none.png"},
		"empty":      {},
	}
	for dir, names := range files {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatal(err)
		}
		for _, n := range names {
			if err := os.WriteFile(filepath.Join(root, dir, n), []byte("x"), 0644); err != nil {
				t.Fatal(err)
			}
		}
	}
	return root
}

func TestScaffold(t *testing.T) {
	root := makeTraitTree(t)

	cfg, err := Scaffold(root)
	if err != nil {
		t.Fatalf("Scaffold() error = %v", err)
	}
	if len(cfg.Layers) != 2 {
		t.Fatalf("expected 2 layers, got %d", len(cfg.Layers))
	}

	bg := cfg.Layers[0]
	if bg.Name != "background" {
		t.Errorf("first layer = %q, want background", bg.Name)
	}
	if len(bg.Values) != 2 || bg.Values[0] != "blue" || bg.Values[1] != "red" {
		t.Errorf("background values = %v", bg.Values)
	}
	if bg.Weights[0]+bg.Weights[1] != 100 {
		t.Errorf("background weights = %v", bg.Weights)
	}

	hat := cfg.Layers[1]
	if len(hat.Values) != 3 || hat.Values[1] != "crown" {
		t.Errorf("hat values = %v", hat.Values)
	}
}

func TestScaffold_RoundTripsThroughLoad(t *testing.T) {
	root := makeTraitTree(t)
	cfg, err := Scaffold(root)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", name)
			if err := WriteConfig(cfg, path); err != nil {
				t.Fatalf("WriteConfig() error = %v", err)
			}

			loaded, err := Load(path, ValidateOptions{})
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if len(loaded.Layers) != 2 || loaded.Name != ScaffoldName {
				t.Errorf("unexpected config: %+v", loaded)
			}
			if MaxCombinations(loaded).Int64() != 6 {
				t.Errorf("MaxCombinations = %s, want 6", MaxCombinations(loaded))
			}
		})
	}
}

func TestScaffold_NoLayers(t *testing.T) {
	if _, err := Scaffold(t.TempDir()); err == nil {
		t.Error("expected error for an empty traits directory")
	}
	if _, err := Scaffold(filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected error for a missing traits directory")
	}
}
