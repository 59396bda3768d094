package logging

import (
	"testing"
)

func TestEncoderConfigs(t *testing.T) {
	json := NewEncoderConfig()
	if json.MessageKey != FieldMessage || json.TimeKey != FieldTimestamp || json.CallerKey != FieldCaller {
		t.Errorf("unexpected JSON encoder keys: %+v", json)
	}

	console := NewConsoleEncoderConfig()
	if console.CallerKey != "" {
		t.Errorf("console encoder should omit caller, got %q", console.CallerKey)
	}
	if console.EncodeLevel == nil || console.EncodeTime == nil {
		t.Error("console encoder is missing level or time encoders")
	}
}
