package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"

	"nftgen/core"
	"nftgen/metadata"
)

// runUpdateMetadata implements `nftgen update-metadata`: it repoints the image
// field of an existing output directory at a new prefix.
func runUpdateMetadata(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("update-metadata", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var prefix, outputDir string
	fs.StringVar(&prefix, "image-uri", "", "new image prefix ending in '/', or a bare IPFS CID")
	fs.StringVar(&outputDir, "o", "./output", "output folder holding metadata/")
	fs.StringVar(&outputDir, "output", "./output", "output folder holding metadata/")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitCodeSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeConfig
	}

	if !metadata.Exists(outputDir) {
		err := core.ErrInvalidArgument("-o", fmt.Sprintf("'%s' has no %s directory", outputDir, metadata.MetadataDir))
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}

	res, err := metadata.RewriteImages(outputDir, prefix)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}

	color.New(color.FgGreen).Fprintf(stdout, "✓ updated %d of %d records", res.Changed, res.Records)
	if res.ManifestChanged {
		fmt.Fprint(stdout, " and the manifest")
	}
	fmt.Fprintln(stdout)
	return core.ExitCodeSuccess
}
