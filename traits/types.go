// Package traits holds the layer configuration model: loading, validation,
// combinatorics and scaffolding of generation configs.
//
// Atoms: Layer, Rule, Substitution
// Molecules: Config
// Organisms: Load, Validate, Scaffold
package traits

import (
	"path/filepath"
	"strings"
)

// Layer is one composable visual dimension. Values, Weights and Filenames are
// parallel lists; weights sum to exactly 100.
type Layer struct {
	Name      string   `json:"name" yaml:"name"`
	Values    []string `json:"values" yaml:"values"`
	TraitPath string   `json:"trait_path" yaml:"trait_path"`
	Filenames []string `json:"filename" yaml:"filename"`
	Weights   []int    `json:"weights" yaml:"weights"`
}

// Substitution is the fallback a rule writes over a conflicting value.
type Substitution struct {
	Value    string `json:"value" yaml:"value"`
	Filename string `json:"filename" yaml:"filename"`
}

// Rule says: if layer Layer holds Value, no other layer may hold any value in
// Forbidden. With a Default the conflicting value is overwritten, without one
// the candidate is discarded.
type Rule struct {
	Layer     string        `json:"layer" yaml:"layer"`
	Value     string        `json:"value" yaml:"value"`
	Forbidden []string      `json:"incompatible_with" yaml:"incompatible_with"`
	Default   *Substitution `json:"default,omitempty" yaml:"default,omitempty"`
}

// Config is a validated generation configuration. It is immutable after Load
// and shared read-only by every compositing task.
type Config struct {
	Layers      []Layer `json:"layers" yaml:"layers"`
	Rules       []Rule  `json:"incompatibilities" yaml:"incompatibilities"`
	BaseURI     string  `json:"baseURI" yaml:"baseURI"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`

	// Fingerprint is the hex BLAKE2b-256 digest of the source file, empty for
	// configs built in memory.
	Fingerprint string `json:"-" yaml:"-"`
}

// LayerIndex returns the position of the named layer, or -1.
func (c *Config) LayerIndex(name string) int {
	for i := range c.Layers {
		if c.Layers[i].Name == name {
			return i
		}
	}
	return -1
}

// HasValue reports whether value is declared by any layer.
func (c *Config) HasValue(value string) bool {
	for i := range c.Layers {
		if c.Layers[i].indexOf(value) >= 0 {
			return true
		}
	}
	return false
}

// AssetPath resolves the image file for value on layer i. Declared values map
// through the layer's filename table; a value written by a rule default maps
// to that default's filename. When several rules share a default value with
// different filenames, the last rule in config order wins.
func (c *Config) AssetPath(i int, value string) (string, bool) {
	if i < 0 || i >= len(c.Layers) {
		return "", false
	}
	layer := &c.Layers[i]
	if j := layer.indexOf(value); j >= 0 {
		return assetFile(layer.TraitPath, layer.Filenames[j]), true
	}
	for k := len(c.Rules) - 1; k >= 0; k-- {
		if r := c.Rules[k]; r.Default != nil && r.Default.Value == value {
			return assetFile(layer.TraitPath, r.Default.Filename), true
		}
	}
	return "", false
}

func (l *Layer) indexOf(value string) int {
	for i, v := range l.Values {
		if v == value {
			return i
		}
	}
	return -1
}

// assetFile builds <traitPath>/<filename>.png. A filename that already carries
// a directory is used as-is.
func assetFile(traitPath, filename string) string {
	if strings.Contains(filename, "/") {
		return filepath.FromSlash(filename + ".png")
	}
	return filepath.Join(filepath.FromSlash(traitPath), filename+".png")
}
