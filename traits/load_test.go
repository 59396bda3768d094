package traits

import (
	"os"
	"path/filepath"
	"testing"

	"nftgen/core"
)

const sampleJSON = `{
    "layers": [
        {
            "name": "Background",
            "values": ["Red", "Blue"],
            "trait_path": "./trait-layers/background",
            "filename": ["red", "blue"],
            "weights": [60, 40]
        }
    ],
    "incompatibilities": [],
    "baseURI": "ipfs://cid",
    "name": "Item #",
    "description": "A test collection."
}`

const sampleYAML = `layers:
  - name: Background
    values: [Red, Blue]
    trait_path: ./trait-layers/background
    filename: [red, blue]
    weights: [60, 40]
incompatibilities: []
baseURI: ipfs://cid
name: "Item #"
description: A test collection.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_JSONAndYAMLAgree(t *testing.T) {
	dir := t.TempDir()
	opts := ValidateOptions{FileExists: allExist}

	fromJSON, err := Load(writeFile(t, dir, "config.json", sampleJSON), opts)
	if err != nil {
		t.Fatalf("Load(json) error = %v", err)
	}
	fromYAML, err := Load(writeFile(t, dir, "config.yaml", sampleYAML), opts)
	if err != nil {
		t.Fatalf("Load(yaml) error = %v", err)
	}

	if fromJSON.Layers[0].Weights[0] != 60 || fromYAML.Layers[0].Weights[0] != 60 {
		t.Errorf("weights not decoded as integers: %v / %v", fromJSON.Layers[0].Weights, fromYAML.Layers[0].Weights)
	}
	if fromJSON.Name != fromYAML.Name || fromJSON.BaseURI != fromYAML.BaseURI {
		t.Errorf("naming fields differ: %+v vs %+v", fromJSON, fromYAML)
	}
	if fromJSON.Fingerprint == "" || fromJSON.Fingerprint == fromYAML.Fingerprint {
		t.Errorf("fingerprints should be set and differ per file: %q %q", fromJSON.Fingerprint, fromYAML.Fingerprint)
	}
}

func TestLoad_ChecksAssetsOnDisk(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.json", sampleJSON)

	_, err := Load(path, ValidateOptions{})
	if core.GetErrorCode(err) != core.ErrCodeAssetMissing {
		t.Fatalf("expected missing asset error, got %v", err)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		code string
	}{
		{"unsupported extension", writeFile(t, dir, "config.toml", "x = 1"), core.ErrCodeUnsupportedFormat},
		{"missing file", filepath.Join(dir, "absent.json"), core.ErrCodeUnreadableConfig},
		{"broken json", writeFile(t, dir, "broken.json", "{"), core.ErrCodeUnreadableConfig},
		{"top level list", writeFile(t, dir, "list.yml", "- a\n- b\n"), core.ErrCodeInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path, ValidateOptions{FileExists: allExist})
			if got := core.GetErrorCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (%v)", got, tt.code, err)
			}
		})
	}
}

func TestParse_NormalizesNumbers(t *testing.T) {
	raw, err := Parse([]byte(`{"a": 3, "b": 2.5, "c": [1, {"d": 4}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, ok := raw["a"].(int); !ok {
		t.Errorf("a = %T, want int", raw["a"])
	}
	if _, ok := raw["b"].(float64); !ok {
		t.Errorf("b = %T, want float64", raw["b"])
	}
	nested := raw["c"].([]interface{})[1].(map[string]interface{})
	if _, ok := nested["d"].(int); !ok {
		t.Errorf("c[1].d = %T, want int", nested["d"])
	}
}

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint([]byte("config"))
	b := Fingerprint([]byte("config"))
	if a != b || len(a) != 64 {
		t.Errorf("Fingerprint() = %q / %q", a, b)
	}
	if Fingerprint([]byte("other")) == a {
		t.Error("different input should give a different fingerprint")
	}
}

func TestAssetPath(t *testing.T) {
	cfg := &Config{
		Layers: []Layer{{Name: "Hat", Values: []string{"Cap"}, Filenames: []string{"cap"}, TraitPath: "traits/hat", Weights: []int{100}}},
		Rules: []Rule{
			{Layer: "Hat", Value: "Cap", Default: &Substitution{Value: "Bare", Filename: "bare"}},
			{Layer: "Hat", Value: "Cap", Default: &Substitution{Value: "Shared", Filename: "common/shared"}},
		},
	}

	tests := []struct {
		value string
		want  string
		ok    bool
	}{
		{"Cap", filepath.Join("traits", "hat", "cap.png"), true},
		{"Bare", filepath.Join("traits", "hat", "bare.png"), true},
		{"Shared", filepath.Join("common", "shared.png"), true},
		{"Crown", "", false},
	}

	for _, tt := range tests {
		got, ok := cfg.AssetPath(0, tt.value)
		if ok != tt.ok || got != tt.want {
			t.Errorf("AssetPath(%q) = %q, %v; want %q, %v", tt.value, got, ok, tt.want, tt.ok)
		}
	}
	if _, ok := cfg.AssetPath(3, "Cap"); ok {
		t.Error("out of range layer should not resolve")
	}
}

func TestAssetPath_SharedDefaultLastRuleWins(t *testing.T) {
	cfg := &Config{
		Layers: []Layer{{Name: "Hat", Values: []string{"Cap"}, Filenames: []string{"cap"}, TraitPath: "traits/hat", Weights: []int{100}}},
		Rules: []Rule{
			{Layer: "Hat", Value: "Cap", Default: &Substitution{Value: "Bare", Filename: "bare-first"}},
			{Layer: "Hat", Value: "Cap", Default: &Substitution{Value: "Bare", Filename: "bare-last"}},
		},
	}

	got, ok := cfg.AssetPath(0, "Bare")
	if want := filepath.Join("traits", "hat", "bare-last.png"); !ok || got != want {
		t.Errorf("AssetPath(Bare) = %q, %v; want %q", got, ok, want)
	}
}
