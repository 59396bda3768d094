package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewMultiCore_Development(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer

	core := NewMultiCore(zapcore.InfoLevel, zapcore.AddSync(&consoleBuf), zapcore.AddSync(&fileBuf), true)
	logger := zap.New(core)
	logger.Info("image written", zap.Int("token_id", 1))
	_ = logger.Sync()

	consoleOutput := consoleBuf.String()
	if consoleOutput == "" {
		t.Fatal("expected console output")
	}
	if json.Valid([]byte(strings.TrimSpace(consoleOutput))) {
		t.Errorf("dev console output should not be JSON: %s", consoleOutput)
	}

	var jsonData map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(fileBuf.String())), &jsonData); err != nil {
		t.Fatalf("expected file output to be JSON, got: %s, error: %v", fileBuf.String(), err)
	}
	for _, key := range []string{FieldMessage, FieldLevel, FieldTimestamp} {
		if _, ok := jsonData[key]; !ok {
			t.Errorf("expected JSON to have %q field", key)
		}
	}
}

func TestNewMultiCore_ProductionConsoleIsJSON(t *testing.T) {
	var consoleBuf bytes.Buffer

	core := NewMultiCore(zapcore.InfoLevel, zapcore.AddSync(&consoleBuf), nil, false)
	logger := zap.New(core)
	logger.Info("metadata written")

	if !json.Valid(bytes.TrimSpace(consoleBuf.Bytes())) {
		t.Errorf("production console output should be JSON: %s", consoleBuf.String())
	}
}

func TestNewMultiCore_LevelFiltering(t *testing.T) {
	var consoleBuf, fileBuf bytes.Buffer

	core := NewMultiCore(zapcore.WarnLevel, zapcore.AddSync(&consoleBuf), zapcore.AddSync(&fileBuf), false)
	logger := zap.New(core)
	logger.Info("filtered")
	logger.Warn("kept")

	if strings.Contains(fileBuf.String(), "filtered") || strings.Contains(consoleBuf.String(), "filtered") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(fileBuf.String(), "kept") {
		t.Error("warn entry missing from file output")
	}
}
