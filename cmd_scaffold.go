package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/fatih/color"

	"nftgen/core"
	"nftgen/traits"
)

// runScaffoldConfig implements `nftgen scaffold-config`.
func runScaffoldConfig(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scaffold-config", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var traitDir, out string
	fs.StringVar(&traitDir, "traits", "./traits", "directory with one sub-directory of PNGs per layer")
	fs.StringVar(&out, "o", "config.json", "config file to write (.json, .yaml or .yml)")
	fs.StringVar(&out, "output", "config.json", "config file to write (.json, .yaml or .yml)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitCodeSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeConfig
	}

	cfg, err := traits.Scaffold(traitDir)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}
	if err := traits.WriteConfig(cfg, out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}

	color.New(color.FgGreen).Fprintf(stdout, "✓ wrote %s", out)
	fmt.Fprintf(stdout, " (%d layers, %s possible combinations)\n", len(cfg.Layers), traits.MaxCombinations(cfg))
	return core.ExitCodeSuccess
}
