package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"nftgen/batch"
	"nftgen/core"
	"nftgen/db"
	"nftgen/logging"
	"nftgen/metadata"
	"nftgen/metrics"
	"nftgen/shutdown"
	"nftgen/traits"
)

// runGenerate implements `nftgen generate` and returns the process exit code.
func runGenerate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	settings, err := core.LoadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}

	a, err := parseGenerateArgs(args, settings, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return core.ExitCodeSuccess
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return core.ExitCodeFor(err)
	}

	logger := logging.NewLogger(logging.Options{
		Level:    logging.EffectiveLevel(settings.LogLevel, a.Verbosity > 0),
		DevMode:  settings.DevMode || a.Verbosity > 0,
		FilePath: settings.LogFile,
		Console:  consoleSink(stderr),
	})

	m := shutdown.NewManager(ctx, logger)
	m.Register("logger", 90, func(context.Context) error {
		logger.Sync()
		return nil
	})
	m.Start()

	err = generate(m, a, settings, logger, stdout, stderr)
	if shutdownErr := m.Shutdown(); shutdownErr != nil {
		fmt.Fprintf(stderr, "Warning: cleanup: %v\n", shutdownErr)
	}
	if err != nil && m.Interrupted() && !errors.Is(err, core.ErrInterrupted) {
		err = errors.Join(err, core.ErrInterrupted)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return core.ExitCodeFor(err)
}

func generate(m *shutdown.Manager, a *generateArgs, settings *core.Settings, logger *logging.Logger, stdout, stderr io.Writer) error {
	cfg, err := traits.Load(a.ConfigPath, traits.ValidateOptions{})
	if err != nil {
		return err
	}
	logger.Info("config loaded",
		logging.Path(a.ConfigPath),
		zap.Int("layers", len(cfg.Layers)),
		zap.Int("rules", len(cfg.Rules)),
		zap.String("fingerprint", cfg.Fingerprint))

	collector := metrics.NewStore(metrics.DefaultStoreConfig(), time.Now())
	options := []batch.Option{
		batch.WithLogger(logger.Named("batch")),
		batch.WithMetrics(collector),
		batch.WithTracker(m.Tracker()),
	}

	if !a.NoProgress {
		bar := newProgressBar(stderr)
		options = append(options, batch.WithProgress(bar))
		m.Register("progress", 10, func(context.Context) error {
			bar.End()
			return nil
		})
	}

	if a.LedgerPath != "" {
		ledger, err := openLedger(m.Context(), a.LedgerPath, settings.LedgerRetentionDays, logger)
		if err != nil {
			logger.Warn("continuing without run ledger", logging.Path(a.LedgerPath), zap.Error(err))
		} else {
			options = append(options, batch.WithLedger(ledger))
			m.Register("ledger", 20, func(context.Context) error { return ledger.Close() })
		}
	}

	m.Register("temp files", 30, shutdown.RemoveTempFiles(logger,
		filepath.Join(a.OutputDir, metadata.ImagesDir),
		filepath.Join(a.OutputDir, metadata.MetadataDir)))

	orch, err := batch.New(cfg, batch.Options{
		Amount:          a.Amount,
		StartAt:         a.StartAt,
		AllowDuplicates: a.AllowDuplicates,
		NoPad:           a.NoPad,
		OutputDir:       a.OutputDir,
		Workers:         a.Workers,
		MaxAttempts:     a.MaxAttempts,
		Seed:            a.Seed,
		ConfigPath:      a.ConfigPath,
	}, options...)
	if err != nil {
		return err
	}

	res, err := orch.Run(m.Context())
	if res != nil {
		printSummary(stdout, res, collector.Snapshot(), a.OutputDir, err)
	}
	return err
}

// openLedger opens the SQLite ledger and prunes runs past the retention window.
func openLedger(ctx context.Context, path string, retentionDays int, logger *logging.Logger) (*db.Ledger, error) {
	ledger, err := db.OpenLedger(path, logger)
	if err != nil {
		return nil, err
	}
	if retentionDays > 0 {
		if _, err := ledger.Prune(ctx, time.Duration(retentionDays)*24*time.Hour); err != nil {
			logger.Warn("ledger prune failed", zap.Error(err))
		}
	}
	return ledger, nil
}
