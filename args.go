package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"nftgen/core"
)

// generateArgs holds the parsed flags of the generate command.
type generateArgs struct {
	Amount          int
	ConfigPath      string
	OutputDir       string
	Seed            *int64
	StartAt         int
	NoPad           bool
	AllowDuplicates bool
	Verbosity       int
	Workers         int
	MaxAttempts     int
	LedgerPath      string
	NoProgress      bool
}

// countFlag counts repeated boolean occurrences, as in -v -v.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	}
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

// parseGenerateArgs parses the generate flags. Settings supply the defaults
// for flags that also have an environment variable.
func parseGenerateArgs(args []string, settings *core.Settings, stderr io.Writer) (*generateArgs, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var (
		a       generateArgs
		amount  string
		seed    string
		startAt string
		verbose countFlag
	)
	fs.StringVar(&amount, "n", "", "amount to generate")
	fs.StringVar(&amount, "amount", "", "amount to generate")
	fs.StringVar(&a.ConfigPath, "c", "", "path to the configuration file")
	fs.StringVar(&a.ConfigPath, "config", "", "path to the configuration file")
	fs.StringVar(&a.OutputDir, "o", "./output", "path to the output folder")
	fs.StringVar(&a.OutputDir, "output", "./output", "path to the output folder")
	fs.StringVar(&seed, "s", "", "seed for the random generator")
	fs.StringVar(&seed, "seed", "", "seed for the random generator")
	fs.StringVar(&startAt, "start-at", "0", "token id to start with")
	fs.BoolVar(&a.NoPad, "no-pad", false, "disable zero-padding on token ids")
	fs.BoolVar(&a.AllowDuplicates, "allow-duplicates", false, "allow duplicate combinations")
	fs.Var(&verbose, "v", "verbosity level, repeatable")
	fs.Var(&verbose, "verbose", "verbosity level, repeatable")
	fs.IntVar(&a.Workers, "workers", settings.Workers, "concurrent image workers")
	fs.IntVar(&a.MaxAttempts, "max-attempts", settings.MaxAttempts, "attempt ceiling per genome, 0 for unlimited")
	fs.StringVar(&a.LedgerPath, "ledger", settings.LedgerPath, "optional SQLite run ledger")
	fs.BoolVar(&a.NoProgress, "no-progress", settings.NoProgress, "disable progress bars")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, err
		}
		return nil, core.ErrInvalidArgument("generate", err.Error())
	}
	if fs.NArg() > 0 {
		return nil, core.ErrInvalidArgument("generate", fmt.Sprintf("unexpected argument '%s'", fs.Arg(0)))
	}
	a.Verbosity = int(verbose)

	if err := validateGenerateArgs(&a, amount, seed, startAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// validateGenerateArgs checks the raw flag values and fills the typed fields.
// Checks run in order: amount, config, seed, start-at, workers, attempts.
func validateGenerateArgs(a *generateArgs, amount, seed, startAt string) error {
	if strings.TrimSpace(amount) == "" {
		return core.ErrInvalidArgument("--amount", "no amount was provided")
	}
	n, err := strconv.Atoi(strings.TrimSpace(amount))
	if err != nil {
		return core.ErrInvalidArgument("--amount", fmt.Sprintf("'%s' is not an integer", amount))
	}
	if n < 1 {
		return core.ErrInvalidArgument("--amount", fmt.Sprintf("must be greater than 0, got %d", n))
	}
	a.Amount = n

	if a.ConfigPath == "" {
		return core.ErrInvalidArgument("--config", "no configuration file was provided")
	}
	if info, err := os.Stat(a.ConfigPath); err != nil || info.IsDir() {
		return core.ErrInvalidArgument("--config", fmt.Sprintf("file '%s' does not exist", a.ConfigPath))
	}

	if seed != "" {
		v, err := strconv.ParseInt(strings.TrimSpace(seed), 10, 64)
		if err != nil {
			return core.ErrInvalidArgument("--seed", fmt.Sprintf("'%s' is not an integer", seed))
		}
		a.Seed = &v
	}

	v, err := strconv.Atoi(strings.TrimSpace(startAt))
	if err != nil {
		return core.ErrInvalidArgument("--start-at", fmt.Sprintf("'%s' is not an integer", startAt))
	}
	if v < 0 {
		return core.ErrInvalidArgument("--start-at", fmt.Sprintf("must not be negative, got %d", v))
	}
	a.StartAt = v

	if a.Workers < 1 || a.Workers > core.MaxWorkers {
		return core.ErrInvalidArgument("--workers", fmt.Sprintf("must be between 1 and %d, got %d", core.MaxWorkers, a.Workers))
	}
	if a.MaxAttempts < 0 {
		return core.ErrInvalidArgument("--max-attempts", fmt.Sprintf("must not be negative, got %d", a.MaxAttempts))
	}
	return nil
}
