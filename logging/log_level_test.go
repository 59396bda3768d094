package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestParseLogLevelString(t *testing.T) {
	tests := []struct {
		levelStr     string
		defaultLevel zapcore.Level
		expected     zapcore.Level
	}{
		{"debug", zapcore.InfoLevel, zapcore.DebugLevel},
		{"INFO", zapcore.DebugLevel, zapcore.InfoLevel},
		{"Warn", zapcore.InfoLevel, zapcore.WarnLevel},
		{"warning", zapcore.InfoLevel, zapcore.WarnLevel},
		{" error ", zapcore.InfoLevel, zapcore.ErrorLevel},
		{"loud", zapcore.WarnLevel, zapcore.WarnLevel},
		{"", zapcore.InfoLevel, zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.levelStr, func(t *testing.T) {
			if got := ParseLogLevelString(tt.levelStr, tt.defaultLevel); got != tt.expected {
				t.Errorf("ParseLogLevelString(%q) = %v, want %v", tt.levelStr, got, tt.expected)
			}
		})
	}
}

func TestEffectiveLevel(t *testing.T) {
	if got := EffectiveLevel("error", true); got != zapcore.DebugLevel {
		t.Errorf("verbose should force debug, got %v", got)
	}
	if got := EffectiveLevel("warn", false); got != zapcore.WarnLevel {
		t.Errorf("EffectiveLevel(warn) = %v", got)
	}
	if got := EffectiveLevel("bogus", false); got != zapcore.InfoLevel {
		t.Errorf("unknown level should fall back to info, got %v", got)
	}
}
