package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nftgen/core"
)

// NormalizePrefix validates an image prefix for RewriteImages. A bare content
// id without a scheme becomes ipfs://<cid>/. Any other prefix must end in "/".
//
//	NormalizePrefix("bafy123")          // "ipfs://bafy123/"
//	NormalizePrefix("https://cdn/x/")   // "https://cdn/x/"
func NormalizePrefix(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", core.ErrInvalidArgument("-image-uri", "no image prefix was provided")
	}
	if !strings.Contains(prefix, "://") {
		return "ipfs://" + strings.Trim(prefix, "/") + "/", nil
	}
	if !strings.HasSuffix(prefix, "/") {
		return "", core.ErrInvalidArgument("-image-uri", fmt.Sprintf("invalid image prefix '%s', it should end with a '/'", prefix))
	}
	return prefix, nil
}

// RewriteResult summarises one RewriteImages pass.
type RewriteResult struct {
	Records         int  // per-item records inspected
	Changed         int  // per-item records rewritten
	ManifestChanged bool // manifest rewritten
}

// RewriteImages points the image field of every per-item record and of the
// manifest at <prefix><token_id>.png. Records are edited as raw JSON objects:
// every other member keeps its key order and encoding, including fields nftgen
// never writes. Files already pointing at the prefix are left as they are, so
// repeated runs are no-ops.
func RewriteImages(outputDir, prefix string) (RewriteResult, error) {
	var res RewriteResult

	prefix, err := NormalizePrefix(prefix)
	if err != nil {
		return res, err
	}

	files, err := filepath.Glob(filepath.Join(outputDir, MetadataDir, "*.json"))
	if err != nil {
		return res, err
	}
	for _, file := range files {
		switch filepath.Base(file) {
		case ManifestFile, RarityFile:
			continue
		}

		var rec rawObject
		if err := readJSON(file, &rec); err != nil {
			return res, err
		}
		res.Records++

		id, ok := rec.tokenID()
		if !ok {
			// Record files are named <token_id>.json.
			stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			if id, err = strconv.Atoi(stem); err != nil {
				return res, fmt.Errorf("%s: record has no integer token_id", file)
			}
		}
		changed, err := rec.setImage(prefix + strconv.Itoa(id) + ImageExt)
		if err != nil {
			return res, err
		}
		if !changed {
			continue
		}
		if err := writeJSON(file, rec); err != nil {
			return res, err
		}
		res.Changed++
	}

	var manifest []rawObject
	err = readJSON(ManifestPath(outputDir), &manifest)
	if errors.Is(err, fs.ErrNotExist) {
		return res, nil
	}
	if err != nil {
		return res, err
	}
	for i := range manifest {
		id, ok := manifest[i].tokenID()
		if !ok {
			continue
		}
		changed, err := manifest[i].setImage(prefix + strconv.Itoa(id) + ImageExt)
		if err != nil {
			return res, err
		}
		res.ManifestChanged = res.ManifestChanged || changed
	}
	if res.ManifestChanged {
		if err := writeJSON(ManifestPath(outputDir), manifest); err != nil {
			return res, err
		}
	}
	return res, nil
}

// Exists reports whether outputDir holds a metadata directory.
func Exists(outputDir string) bool {
	info, err := os.Stat(filepath.Join(outputDir, MetadataDir))
	return err == nil && info.IsDir()
}
