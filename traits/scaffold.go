package traits

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"nftgen/core"
)

// Placeholder naming fields written by Scaffold. Operators edit them before
// generating.
const (
	ScaffoldName        = "Item #"
	ScaffoldDescription = "Describe the collection here."
)

// Scaffold builds a starting config from a traits directory: every
// sub-directory becomes a layer (sorted by name) and every PNG inside it a
// value whose filename is its stem. Weights are integers summing to 100, split
// evenly with the remainder going to the first values. Rules are left empty.
func Scaffold(traitDir string) (*Config, error) {
	entries, err := os.ReadDir(traitDir)
	if err != nil {
		return nil, core.ErrInvalidArgument("--traits", fmt.Sprintf("cannot read traits directory: %v", err))
	}

	cfg := &Config{
		Rules:       []Rule{},
		Name:        ScaffoldName,
		Description: ScaffoldDescription,
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(traitDir, entry.Name())
		stems, err := pngStems(dir)
		if err != nil {
			return nil, err
		}
		if len(stems) == 0 {
			continue
		}
		cfg.Layers = append(cfg.Layers, Layer{
			Name:      entry.Name(),
			Values:    stems,
			TraitPath: filepath.ToSlash(dir),
			Filenames: append([]string(nil), stems...),
			Weights:   EvenWeights(len(stems)),
		})
	}

	if len(cfg.Layers) == 0 {
		return nil, &core.ConfigError{
			Code:    core.ErrCodeAssetMissing,
			Path:    traitDir,
			Message: "no layer directories with PNG files found",
			Action:  "Create one sub-directory per layer holding that layer's PNG files",
		}
	}
	return cfg, nil
}

func pngStems(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read layer directory %s: %w", dir, err)
	}
	var stems []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		stems = append(stems, strings.TrimSuffix(e.Name(), ".png"))
	}
	sort.Strings(stems)
	return stems, nil
}

// EvenWeights splits 100 into n integer weights, giving the remainder one
// point at a time to the leading entries.
//
//	EvenWeights(3) // [34 33 33]
func EvenWeights(n int) []int {
	if n <= 0 {
		return nil
	}
	weights := make([]int, n)
	base, rest := 100/n, 100%n
	for i := range weights {
		weights[i] = base
		if i < rest {
			weights[i]++
		}
	}
	return weights
}

// Marshal renders a config in the given format. JSON uses four-space
// indentation.
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "    ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return yaml.Marshal(cfg)
	default:
		return nil, &core.ConfigError{
			Code:    core.ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported config format '%s'", format),
		}
	}
}

// WriteConfig writes cfg to path, choosing JSON or YAML by extension and
// creating parent directories as needed.
func WriteConfig(cfg *Config, path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Marshal(cfg, format)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
