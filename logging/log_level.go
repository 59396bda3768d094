package logging

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// ParseLogLevelString parses a level name case-insensitively. Unknown names
// return defaultLevel.
//
// Valid levels: debug, info, warn, warning, error
func ParseLogLevelString(levelStr string, defaultLevel zapcore.Level) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return defaultLevel
	}
}

// EffectiveLevel returns debug when verbose is set, otherwise the parsed
// configured level.
func EffectiveLevel(configured string, verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return ParseLogLevelString(configured, zapcore.InfoLevel)
}
