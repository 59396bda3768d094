// Package compositor stacks a genome's per-layer trait images into one PNG.
//
// Layers are composited front-to-back in config order with alpha-over, so
// later layers render in front of earlier ones. A single layer is passed
// through untouched.
package compositor

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"

	"nftgen/core"
	"nftgen/genome"
	"nftgen/traits"
)

// ErrSizeMismatch is wrapped in an AssetError when a layer's bounds differ from
// the first layer's.
var ErrSizeMismatch = errors.New("layer dimensions differ from the base layer")

// Compose loads every trait asset of g and composites them in layer order.
// Any unreadable or missing asset is returned as a *core.AssetError naming the
// file.
func Compose(cfg *traits.Config, g genome.Genome) (*image.NRGBA, error) {
	if len(g.Traits) == 0 {
		return nil, &core.AssetError{TokenID: g.TokenID, Err: errors.New("genome has no traits")}
	}

	var out *image.NRGBA
	for i, t := range g.Traits {
		path, ok := cfg.AssetPath(i, t.Value)
		if !ok {
			return nil, &core.AssetError{
				TokenID: g.TokenID,
				Path:    t.Layer + "/" + t.Value,
				Err:     fmt.Errorf("no asset declared for value %q", t.Value),
			}
		}

		layer, err := LoadLayer(path)
		if err != nil {
			return nil, &core.AssetError{TokenID: g.TokenID, Path: path, Err: err}
		}

		if out == nil {
			out = layer
			continue
		}
		if layer.Bounds().Size() != out.Bounds().Size() {
			return nil, &core.AssetError{
				TokenID: g.TokenID,
				Path:    path,
				Err:     fmt.Errorf("%w: %v vs %v", ErrSizeMismatch, layer.Bounds().Size(), out.Bounds().Size()),
			}
		}
		draw.Draw(out, out.Bounds(), layer, layer.Bounds().Min, draw.Over)
	}
	return out, nil
}

// LoadLayer decodes a PNG and returns it as non-premultiplied RGBA anchored
// at the origin. Decoded *image.NRGBA images are returned as-is.
func LoadLayer(path string) (*image.NRGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}
	return toNRGBA(img), nil
}

func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// Render composes g and writes the PNG to path. The file is written under a
// temporary name in the same directory and renamed into place, so path never
// holds a partial image.
func Render(cfg *traits.Config, g genome.Genome, path string) error {
	img, err := Compose(cfg, g)
	if err != nil {
		return err
	}
	if err := WritePNG(img, path); err != nil {
		return &core.AssetError{TokenID: g.TokenID, Path: path, Err: err}
	}
	return nil
}

// WritePNG encodes img to path atomically.
func WritePNG(img image.Image, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := tmpFile.Chmod(0644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := png.Encode(tmpFile, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("move image into place: %w", err)
	}

	success = true
	return nil
}
