package core

import (
	"fmt"
	"strings"
)

// Environment variable names read by LoadSettings.
const (
	EnvLogLevel    = "NFTGEN_LOG_LEVEL"
	EnvLogFile     = "NFTGEN_LOG_FILE"
	EnvDevMode     = "NFTGEN_DEV_MODE"
	EnvWorkers     = "NFTGEN_WORKERS"
	EnvMaxAttempts = "NFTGEN_MAX_ATTEMPTS"
	EnvLedgerPath  = "NFTGEN_LEDGER_PATH"
	EnvNoProgress  = "NFTGEN_NO_PROGRESS"

	EnvLedgerRetentionDays = "NFTGEN_LEDGER_RETENTION_DAYS"
)

// DefaultWorkers is the image phase concurrency ceiling.
const DefaultWorkers = 25

// MaxWorkers caps the pool regardless of what the environment asks for.
const MaxWorkers = 256

// Settings holds process-level settings that are not part of the generation config.
// Command line flags override these values.
type Settings struct {
	LogLevel    string // debug, info, warn, error
	LogFile     string // Rotated log file path, empty disables file logging
	DevMode     bool   // Human-readable console logs
	Workers     int    // Image phase pool size
	MaxAttempts int    // Per-genome attempt ceiling, 0 means unlimited
	LedgerPath  string // Optional SQLite run ledger
	NoProgress  bool   // Disable progress bars

	// LedgerRetentionDays prunes finished ledger runs older than this many
	// days when a run opens the ledger. 0 keeps everything.
	LedgerRetentionDays int
}

// LoadSettings loads settings from environment variables with defaults suited to a
// local batch run. Call godotenv before this to honour a .env file.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		LogLevel:    GetEnvOrDefault(EnvLogLevel, "info"),
		LogFile:     GetEnvOrDefault(EnvLogFile, "nftgen.log"),
		DevMode:     ParseBoolEnv(EnvDevMode, true),
		Workers:     ParseIntEnv(EnvWorkers, DefaultWorkers),
		MaxAttempts: ParseIntEnv(EnvMaxAttempts, 0),
		LedgerPath:  GetEnvOrDefault(EnvLedgerPath, ""),
		NoProgress:  ParseBoolEnv(EnvNoProgress, false),

		LedgerRetentionDays: ParseIntEnv(EnvLedgerRetentionDays, 0),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the numeric settings are in range.
func (s *Settings) Validate() error {
	if s.Workers < 1 || s.Workers > MaxWorkers {
		return ErrInvalidArgument(EnvWorkers, fmt.Sprintf("must be between 1 and %d, got %d", MaxWorkers, s.Workers))
	}
	if s.MaxAttempts < 0 {
		return ErrInvalidArgument(EnvMaxAttempts, fmt.Sprintf("must not be negative, got %d", s.MaxAttempts))
	}
	if s.LedgerRetentionDays < 0 {
		return ErrInvalidArgument(EnvLedgerRetentionDays, fmt.Sprintf("must not be negative, got %d", s.LedgerRetentionDays))
	}
	switch strings.ToLower(strings.TrimSpace(s.LogLevel)) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return ErrInvalidArgument(EnvLogLevel, fmt.Sprintf("unknown level '%s'", s.LogLevel))
	}
	return nil
}
