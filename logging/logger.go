// Package logging provides the structured logger used by every nftgen command.
//
// Atoms: encoder configs, level parsing, field helpers
// Molecules: FileWriter (lumberjack rotation), MultiCore (console + file tee)
// Organisms: Logger
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures NewLogger.
type Options struct {
	// Level is the minimum level written to both outputs.
	Level zapcore.Level

	// DevMode selects the human-readable console encoder.
	DevMode bool

	// FilePath enables a rotated JSON log file. Empty disables file output.
	FilePath string

	// File tunes rotation; zero values use the defaults.
	File FileWriterConfig

	// Console overrides the console destination. Nil writes to stderr so
	// stdout stays free for command output.
	Console zapcore.WriteSyncer
}

// Logger wraps zap.Logger with the console/file tee used across the tool.
//
// Example:
//
//	logger := NewLogger(Options{Level: zapcore.InfoLevel, DevMode: true, FilePath: "nftgen.log"})
//	defer logger.Sync()
//
//	logger.Info("generation started", RunID(id), Amount(100))
//	logger.Debugw("resampled", "token_id", 7, "reason", "duplicate")
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger

	isDevelopment bool
	logFilePath   string
}

// NewLogger builds a Logger from opts. The log file is opened lazily by the
// rotating writer, so construction does not fail.
func NewLogger(opts Options) *Logger {
	console := opts.Console
	if console == nil {
		console = zapcore.Lock(os.Stderr)
	}

	var file zapcore.WriteSyncer
	if opts.FilePath != "" {
		file = NewFileWriter(opts.FilePath, opts.File)
	}

	core := NewMultiCore(opts.Level, console, file, opts.DevMode)
	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // Skip this wrapper layer
	)

	return &Logger{
		zap:           zapLogger,
		sugar:         zapLogger.Sugar(),
		isDevelopment: opts.DevMode,
		logFilePath:   opts.FilePath,
	}
}

// NewNop returns a Logger that discards everything.
func NewNop() *Logger {
	z := zap.NewNop()
	return &Logger{zap: z, sugar: z.Sugar()}
}

// NewFromZap wraps an existing zap.Logger, e.g. one built on zaptest/observer.
func NewFromZap(z *zap.Logger) *Logger {
	return &Logger{zap: z, sugar: z.Sugar()}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel with optional structured fields.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

// Info logs a message at InfoLevel with optional structured fields.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Warn logs a message at WarnLevel with optional structured fields.
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

// Error logs a message at ErrorLevel with optional structured fields.
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

// Debugw logs a message at DebugLevel with loosely-typed key-value pairs.
func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, keysAndValues...)
}

// Infow logs a message at InfoLevel with loosely-typed key-value pairs.
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, keysAndValues...)
}

// Warnw logs a message at WarnLevel with loosely-typed key-value pairs.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, keysAndValues...)
}

// Errorw logs a message at ErrorLevel with loosely-typed key-value pairs.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, keysAndValues...)
}

// With creates a child logger whose entries all carry fields.
//
// Example:
//
//	runLogger := logger.With(RunID(id), Seed(seed))
//	runLogger.Info("metadata phase complete")
func (l *Logger) With(fields ...zap.Field) *Logger {
	z := l.zap.With(fields...)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Named adds a sub-logger name shown as the entry source.
func (l *Logger) Named(name string) *Logger {
	z := l.zap.Named(name)
	return &Logger{
		zap:           z,
		sugar:         z.Sugar(),
		isDevelopment: l.isDevelopment,
		logFilePath:   l.logFilePath,
	}
}

// Enabled reports whether entries at level would be written.
func (l *Logger) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

// Zap returns the underlying zap.Logger.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// IsDevelopment returns true if the logger is configured for development mode.
func (l *Logger) IsDevelopment() bool {
	return l.isDevelopment
}

// LogFilePath returns the path to the log file, empty if file output is off.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}
