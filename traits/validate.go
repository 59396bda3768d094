package traits

import (
	"fmt"
	"os"

	"nftgen/core"
)

// ValidateOptions tunes Validate.
type ValidateOptions struct {
	// FileExists reports whether an asset file is present. Nil uses a stat of
	// the path and requires a regular file.
	FileExists func(path string) bool
}

func (o ValidateOptions) fileExists() func(string) bool {
	if o.FileExists != nil {
		return o.FileExists
	}
	return func(path string) bool {
		info, err := os.Stat(path)
		return err == nil && info.Mode().IsRegular()
	}
}

// Validate checks a parsed config tree and builds the typed Config. Checks run
// in this order and the first failure is returned:
//
//  1. required top-level keys and their types
//  2. required layer keys and their types
//  3. parallel list lengths per layer
//  4. non-negative weights summing to 100
//  5. every declared asset exists
//  6. incompatibility rules: types, references and default assets
//
// Every failure is a *core.ConfigError whose Path names the nested location,
// e.g. config["layers"][0]["weights"].
func Validate(raw map[string]interface{}, opts ValidateOptions) (*Config, error) {
	exists := opts.fileExists()
	cfg := &Config{}

	layersRaw, err := requireList(raw, "config", "layers")
	if err != nil {
		return nil, err
	}
	rulesRaw, err := requireList(raw, "config", "incompatibilities")
	if err != nil {
		return nil, err
	}
	if cfg.BaseURI, err = requireString(raw, "config", "baseURI"); err != nil {
		return nil, err
	}
	if cfg.Name, err = requireString(raw, "config", "name"); err != nil {
		return nil, err
	}
	if cfg.Description, err = requireString(raw, "config", "description"); err != nil {
		return nil, err
	}

	layersPath := keyPath("config", "layers")
	seen := make(map[string]int, len(layersRaw))
	for i, item := range layersRaw {
		p := indexPath(layersPath, i)
		layer, err := parseLayer(item, p)
		if err != nil {
			return nil, err
		}
		if prev, dup := seen[layer.Name]; dup {
			return nil, &core.ConfigError{
				Code:    core.ErrCodeDuplicateLayer,
				Path:    keyPath(p, "name"),
				Message: fmt.Sprintf("layer name '%s' already used by %s", layer.Name, indexPath(layersPath, prev)),
				Action:  "Give every layer a unique name",
			}
		}
		seen[layer.Name] = i
		cfg.Layers = append(cfg.Layers, layer)
	}

	for i, layer := range cfg.Layers {
		p := indexPath(layersPath, i)
		if len(layer.Weights) != len(layer.Values) {
			return nil, core.ErrLengthMismatch(keyPath(p, "weights"), len(layer.Weights), len(layer.Values))
		}
		if len(layer.Filenames) != len(layer.Values) {
			return nil, core.ErrLengthMismatch(keyPath(p, "filename"), len(layer.Filenames), len(layer.Values))
		}
	}

	for i, layer := range cfg.Layers {
		p := keyPath(indexPath(layersPath, i), "weights")
		sum := 0
		for j, w := range layer.Weights {
			if w < 0 {
				return nil, core.ErrNegativeWeightConfig(indexPath(p, j), w)
			}
			sum += w
		}
		if sum != 100 {
			return nil, core.ErrWeightSum(p, sum)
		}
	}

	for i, layer := range cfg.Layers {
		p := keyPath(indexPath(layersPath, i), "filename")
		for j, name := range layer.Filenames {
			if file := assetFile(layer.TraitPath, name); !exists(file) {
				return nil, core.ErrAssetMissing(indexPath(p, j), file)
			}
		}
	}

	rulesPath := keyPath("config", "incompatibilities")
	for i, item := range rulesRaw {
		p := indexPath(rulesPath, i)
		rule, err := parseRule(item, p)
		if err != nil {
			return nil, err
		}
		if err := checkRule(cfg, rule, p, exists); err != nil {
			return nil, err
		}
		cfg.Rules = append(cfg.Rules, rule)
	}

	return cfg, nil
}

func parseLayer(item interface{}, p string) (Layer, error) {
	m, ok := item.(map[string]interface{})
	if !ok {
		return Layer{}, core.ErrInvalidType(p, "a mapping", item)
	}

	var (
		layer Layer
		err   error
	)
	if layer.Name, err = requireString(m, p, "name"); err != nil {
		return Layer{}, err
	}
	if layer.Values, err = requireStrings(m, p, "values"); err != nil {
		return Layer{}, err
	}
	if layer.TraitPath, err = requireString(m, p, "trait_path"); err != nil {
		return Layer{}, err
	}
	if layer.Filenames, err = requireStrings(m, p, "filename"); err != nil {
		return Layer{}, err
	}
	if layer.Weights, err = requireInts(m, p, "weights"); err != nil {
		return Layer{}, err
	}
	return layer, nil
}

func parseRule(item interface{}, p string) (Rule, error) {
	m, ok := item.(map[string]interface{})
	if !ok {
		return Rule{}, core.ErrInvalidType(p, "a mapping", item)
	}

	var (
		rule Rule
		err  error
	)
	if rule.Layer, err = requireString(m, p, "layer"); err != nil {
		return Rule{}, err
	}
	if rule.Value, err = requireString(m, p, "value"); err != nil {
		return Rule{}, err
	}
	if rule.Forbidden, err = requireStrings(m, p, "incompatible_with"); err != nil {
		return Rule{}, err
	}

	raw, present := m["default"]
	if !present {
		return rule, nil
	}
	dp := keyPath(p, "default")
	dm, ok := raw.(map[string]interface{})
	if !ok {
		return Rule{}, core.ErrInvalidType(dp, "a mapping", raw)
	}
	def := &Substitution{}
	if def.Value, err = requireString(dm, dp, "value"); err != nil {
		return Rule{}, err
	}
	if def.Filename, err = requireString(dm, dp, "filename"); err != nil {
		return Rule{}, err
	}
	rule.Default = def
	return rule, nil
}

// checkRule verifies a rule's references and that its default asset exists on
// every layer the default can overwrite.
func checkRule(cfg *Config, rule Rule, p string, exists func(string) bool) error {
	trigger := cfg.LayerIndex(rule.Layer)
	if trigger < 0 {
		return core.ErrUnknownReference(keyPath(p, "layer"), "layer", rule.Layer)
	}
	if !cfg.HasValue(rule.Value) {
		return core.ErrUnknownReference(keyPath(p, "value"), "value", rule.Value)
	}
	fp := keyPath(p, "incompatible_with")
	for j, v := range rule.Forbidden {
		if !cfg.HasValue(v) {
			return core.ErrUnknownReference(indexPath(fp, j), "value", v)
		}
	}

	if rule.Default == nil {
		return nil
	}
	for k := range cfg.Layers {
		layer := &cfg.Layers[k]
		if k == trigger || !holdsAny(layer, rule.Forbidden) {
			continue
		}
		if file := assetFile(layer.TraitPath, rule.Default.Filename); !exists(file) {
			return core.ErrAssetMissing(keyPath(keyPath(p, "default"), "filename"), file)
		}
	}
	return nil
}

func holdsAny(layer *Layer, values []string) bool {
	for _, v := range values {
		if layer.indexOf(v) >= 0 {
			return true
		}
	}
	return false
}

func keyPath(parent, key string) string {
	return fmt.Sprintf(`%s["%s"]`, parent, key)
}

func indexPath(parent string, i int) string {
	return fmt.Sprintf("%s[%d]", parent, i)
}

func lookup(m map[string]interface{}, p, key string) (interface{}, error) {
	v, ok := m[key]
	if !ok {
		return nil, core.ErrMissingField(p, key)
	}
	return v, nil
}

func requireString(m map[string]interface{}, p, key string) (string, error) {
	v, err := lookup(m, p, key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", core.ErrInvalidType(keyPath(p, key), "a string", v)
	}
	return s, nil
}

func requireList(m map[string]interface{}, p, key string) ([]interface{}, error) {
	v, err := lookup(m, p, key)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]interface{})
	if !ok {
		return nil, core.ErrInvalidType(keyPath(p, key), "a list", v)
	}
	return list, nil
}

func requireStrings(m map[string]interface{}, p, key string) ([]string, error) {
	list, err := requireList(m, p, key)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(list))
	for j, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, core.ErrInvalidType(indexPath(keyPath(p, key), j), "a string", item)
		}
		out[j] = s
	}
	return out, nil
}

func requireInts(m map[string]interface{}, p, key string) ([]int, error) {
	list, err := requireList(m, p, key)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(list))
	for j, item := range list {
		n, ok := item.(int)
		if !ok {
			return nil, core.ErrInvalidType(indexPath(keyPath(p, key), j), "an integer", item)
		}
		out[j] = n
	}
	return out, nil
}
