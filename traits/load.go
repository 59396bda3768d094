package traits

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"

	"nftgen/core"
)

// Supported config file formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFor returns the config format implied by a file extension.
func FormatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", &core.ConfigError{
			Code:    core.ErrCodeUnsupportedFormat,
			Path:    path,
			Message: fmt.Sprintf("unsupported config extension '%s'", filepath.Ext(path)),
			Action:  "Use a .json, .yaml or .yml file",
		}
	}
}

// Load reads, parses and validates a config file. Nothing is returned unless
// every check passes.
//
// Example:
//
//	cfg, err := traits.Load("config.json", traits.ValidateOptions{})
//	if err != nil {
//	    return err // *core.ConfigError names the offending field
//	}
func Load(path string, opts ValidateOptions) (*Config, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ConfigError{
			Code:    core.ErrCodeUnreadableConfig,
			Path:    path,
			Message: fmt.Sprintf("cannot read configuration: %v", err),
		}
	}

	raw, err := Parse(data, format)
	if err != nil {
		return nil, err
	}

	cfg, err := Validate(raw, opts)
	if err != nil {
		return nil, err
	}
	cfg.Fingerprint = Fingerprint(data)
	return cfg, nil
}

// Parse decodes config bytes into a generic tree of maps, lists, strings,
// ints and floats. The top level must be a mapping.
func Parse(data []byte, format string) (map[string]interface{}, error) {
	var doc interface{}

	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&doc); err != nil {
			return nil, unreadable(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, unreadable(err)
		}
	default:
		return nil, &core.ConfigError{
			Code:    core.ErrCodeUnsupportedFormat,
			Message: fmt.Sprintf("unsupported config format '%s'", format),
		}
	}

	root, ok := normalize(doc).(map[string]interface{})
	if !ok {
		return nil, core.ErrInvalidType("config", "a mapping", doc)
	}
	return root, nil
}

func unreadable(err error) error {
	return &core.ConfigError{
		Code:    core.ErrCodeUnreadableConfig,
		Path:    "config",
		Message: fmt.Sprintf("cannot parse configuration: %v", err),
	}
}

// normalize converts decoder specific types so validation sees one shape:
// json.Number becomes int or float64 and YAML maps with non-string keys
// become map[string]interface{}.
func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return int(i)
		}
		f, _ := val.Float64()
		return f
	case map[string]interface{}:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []interface{}:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	default:
		return v
	}
}

// Fingerprint returns the hex BLAKE2b-256 digest of config bytes.
func Fingerprint(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
