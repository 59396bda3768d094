package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"nftgen/genome"
	"nftgen/traits"
)

// WriteRecord persists rec as <outputDir>/metadata/<id>.json.
func WriteRecord(outputDir string, rec Record) error {
	return writeJSON(RecordPath(outputDir, rec.TokenID), rec)
}

// WriteManifest persists every record, in batch order, as the aggregate
// manifest.
func WriteManifest(outputDir string, records []Record) error {
	if records == nil {
		records = []Record{}
	}
	return writeJSON(ManifestPath(outputDir), records)
}

// LayerRarity counts how often each value of one layer was accepted.
type LayerRarity struct {
	Layer  string         `json:"layer"`
	Counts map[string]int `json:"counts"`
}

// Rarity tallies trait frequencies across genomes, one entry per layer in
// config order.
func Rarity(cfg *traits.Config, genomes []genome.Genome) []LayerRarity {
	out := make([]LayerRarity, len(cfg.Layers))
	for i, layer := range cfg.Layers {
		out[i] = LayerRarity{Layer: layer.Name, Counts: make(map[string]int)}
	}
	for _, g := range genomes {
		for i, t := range g.Traits {
			if i < len(out) {
				out[i].Counts[t.Value]++
			}
		}
	}
	return out
}

// WriteRarity persists the trait frequency report next to the manifest.
func WriteRarity(outputDir string, report []LayerRarity) error {
	return writeJSON(RarityPath(outputDir), report)
}

// ReadRecord loads one record file.
func ReadRecord(path string) (Record, error) {
	var rec Record
	err := readJSON(path, &rec)
	return rec, err
}

// ReadManifest loads the aggregate manifest.
func ReadManifest(outputDir string) ([]Record, error) {
	var records []Record
	err := readJSON(ManifestPath(outputDir), &records)
	return records, err
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// writeJSON encodes v with four-space indentation, without HTML escaping so
// URIs stay readable, and replaces path atomically.
func writeJSON(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
