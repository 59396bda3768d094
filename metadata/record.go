// Package metadata writes and rewrites the per-item JSON records and the
// aggregate manifest of a generated collection.
package metadata

import (
	"path/filepath"
	"strconv"
	"strings"

	"nftgen/genome"
	"nftgen/traits"
)

// Output layout under the run's output directory.
const (
	ImagesDir    = "images"
	MetadataDir  = "metadata"
	ManifestFile = "all-objects.json"
	RarityFile   = "all-rarity.json"
	ImageExt     = ".png"
)

// Attribute is one {trait_type, value} pair.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// Record is the persisted description of one genome.
type Record struct {
	TokenID     int         `json:"token_id"`
	Image       string      `json:"image"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Attributes  []Attribute `json:"attributes"`
}

// Naming controls how record names and image references are derived.
type Naming struct {
	// Amount is the batch size; its digit count is the token id pad width.
	Amount int

	// NoPad disables zero padding.
	NoPad bool

	// OutputDir is used for image references when the config has no baseURI.
	OutputDir string
}

// NewRecord describes g. Attributes mirror layer order.
func NewRecord(cfg *traits.Config, g genome.Genome, n Naming) Record {
	attrs := make([]Attribute, len(g.Traits))
	for i, t := range g.Traits {
		attrs[i] = Attribute{TraitType: t.Layer, Value: t.Value}
	}
	return Record{
		TokenID:     g.TokenID,
		Image:       ImageRef(cfg.BaseURI, n.OutputDir, g.TokenID),
		Name:        DisplayName(cfg.Name, g.TokenID, n.Amount, n.NoPad),
		Description: cfg.Description,
		Attributes:  attrs,
	}
}

// ImageRef returns baseURI/<id>.png, or <outputDir>/images/<id>.png when
// baseURI is empty. A trailing slash on baseURI is not doubled.
func ImageRef(baseURI, outputDir string, id int) string {
	file := strconv.Itoa(id) + ImageExt
	if baseURI == "" {
		return filepath.ToSlash(filepath.Join(outputDir, ImagesDir, file))
	}
	return strings.TrimSuffix(baseURI, "/") + "/" + file
}

// DisplayName appends the token id to template, zero padded to the digit
// count of amount unless noPad is set.
//
//	DisplayName("Item #", 7, 100, false) // "Item #007"
func DisplayName(template string, id, amount int, noPad bool) string {
	s := strconv.Itoa(id)
	if noPad {
		return template + s
	}
	width := len(strconv.Itoa(amount))
	if pad := width - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}
	return template + s
}

// RecordPath returns <outputDir>/metadata/<id>.json.
func RecordPath(outputDir string, id int) string {
	return filepath.Join(outputDir, MetadataDir, strconv.Itoa(id)+".json")
}

// ImagePath returns <outputDir>/images/<id>.png.
func ImagePath(outputDir string, id int) string {
	return filepath.Join(outputDir, ImagesDir, strconv.Itoa(id)+ImageExt)
}

// ManifestPath returns <outputDir>/metadata/all-objects.json.
func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, MetadataDir, ManifestFile)
}

// RarityPath returns <outputDir>/metadata/all-rarity.json.
func RarityPath(outputDir string) string {
	return filepath.Join(outputDir, MetadataDir, RarityFile)
}
