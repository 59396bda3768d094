package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"nftgen/core"
)

const usage = `nftgen generates layered images and their metadata from a trait config.

Usage:
  nftgen generate -n <amount> -c <config> [options]
  nftgen update-metadata -image-uri <prefix/> [-o <output>]
  nftgen scaffold-config [-traits <dir>] [-o <config>]

Run 'nftgen <command> -h' for the options of a command. Flags given without a
command are passed to generate.
`

func main() {
	// A .env file is optional; settings fall back to NFTGEN_* defaults.
	_ = godotenv.Load()

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches a command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return core.ExitCodeConfig
	}

	cmd, rest := strings.ToLower(args[0]), args[1:]
	switch {
	case cmd == "generate":
		return runGenerate(ctx, rest, stdout, stderr)
	case cmd == "update-metadata":
		return runUpdateMetadata(rest, stdout, stderr)
	case cmd == "scaffold-config":
		return runScaffoldConfig(rest, stdout, stderr)
	case cmd == "help" || cmd == "-h" || cmd == "--help":
		fmt.Fprint(stdout, usage)
		return core.ExitCodeSuccess
	case strings.HasPrefix(cmd, "-"):
		return runGenerate(ctx, args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Error: unknown command '%s'\n\n%s", args[0], usage)
		return core.ExitCodeConfig
	}
}

// consoleSink adapts the command's stderr for the logger's console core.
func consoleSink(w io.Writer) zapcore.WriteSyncer {
	if f, ok := w.(*os.File); ok {
		return zapcore.Lock(f)
	}
	return zapcore.Lock(zapcore.AddSync(w))
}
