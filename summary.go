package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"nftgen/batch"
	"nftgen/core"
	"nftgen/metrics"
)

// printSummary writes the end-of-run report to w.
func printSummary(w io.Writer, res *batch.Result, snap metrics.Snapshot, outputDir string, err error) {
	fmt.Fprintln(w)

	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(w, "━━━ Run %s ━━━\n", res.RunID)

	dim := color.New(color.FgHiBlack)
	if res.Seed != nil {
		dim.Fprintf(w, "  seed %d", *res.Seed)
	} else {
		dim.Fprint(w, "  unseeded")
	}
	if res.MaxCombinations != nil {
		dim.Fprintf(w, ", %s possible combinations", humanize.BigComma(res.MaxCombinations))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "  genomes   %s (%s attempts, %s duplicates rejected, %s resamples)\n",
		humanize.Comma(snap.Genomes.Accepted),
		humanize.Comma(snap.Genomes.Attempts),
		humanize.Comma(snap.Genomes.DuplicateRejections),
		humanize.Comma(snap.Genomes.ConstraintResamples))
	fmt.Fprintf(w, "  images    %s rendered", humanize.Comma(snap.Images.Rendered))
	if snap.Images.Failed > 0 {
		color.New(color.FgRed).Fprintf(w, ", %s failed", humanize.Comma(snap.Images.Failed))
	}
	if skipped := res.Skipped(); skipped > 0 {
		color.New(color.FgYellow).Fprintf(w, ", %s skipped", humanize.Comma(int64(skipped)))
	}
	fmt.Fprintln(w)
	for _, ph := range snap.Phases {
		fmt.Fprintf(w, "  %-9s %v\n", ph.Phase, ph.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "  output    %s\n", outputDir)

	for _, out := range res.Outcomes {
		if out.Err != nil {
			color.New(color.FgRed).Fprintf(w, "    └─ token %d: %s\n", out.TokenID, out.Err)
		}
	}

	fmt.Fprintln(w)
	switch {
	case err == nil:
		color.New(color.FgGreen, color.Bold).Fprintf(w, "━━━ Done ")
		dim.Fprintf(w, "(%v)", snap.Elapsed.Round(time.Millisecond))
		fmt.Fprintln(w)
	case errors.Is(err, core.ErrInterrupted):
		color.New(color.FgYellow, color.Bold).Fprintln(w, "━━━ Interrupted ━━━")
	default:
		color.New(color.FgRed, color.Bold).Fprintln(w, "━━━ Finished with errors ━━━")
	}
}
