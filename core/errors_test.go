package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		contains []string
	}{
		{
			name: "error with path and action",
			err: &ConfigError{
				Code:    "TEST_CODE",
				Path:    `config["layers"][0]`,
				Message: "Test message",
				Action:  "Take this action",
			},
			contains: []string{`config["layers"][0]: Test message`, "Take this action"},
		},
		{
			name: "error without path or action",
			err: &ConfigError{
				Code:    "TEST_CODE",
				Message: "Test message only",
			},
			contains: []string{"Test message only"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(errStr, s) {
					t.Errorf("ConfigError.Error() = %q, expected to contain %q", errStr, s)
				}
			}
		})
	}
}

func TestConfigErrorConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *ConfigError
		code     string
		contains string
	}{
		{"missing field", ErrMissingField("config", "layers"), ErrCodeMissingField, "'layers'"},
		{"invalid type", ErrInvalidType(`config["name"]`, "string", 12), ErrCodeInvalidType, "expected string"},
		{"length mismatch", ErrLengthMismatch(`config["layers"][0]["weights"]`, 1, 2), ErrCodeLengthMismatch, "expected 2"},
		{"weight sum", ErrWeightSum(`config["layers"][0]["weights"]`, 101), ErrCodeWeightSum, "got 101"},
		{"negative weight", ErrNegativeWeightConfig(`config["layers"][0]["weights"][1]`, -3), ErrCodeNegativeWeight, "-3"},
		{"asset missing", ErrAssetMissing(`config["layers"][0]["filename"][0]`, "bg/red.png"), ErrCodeAssetMissing, "bg/red.png"},
		{"unknown reference", ErrUnknownReference(`config["incompatibilities"][0]["layer"]`, "layer", "Hat"), ErrCodeUnknownReference, "'Hat'"},
		{"invalid argument", ErrInvalidArgument("--seed", "not an integer"), ErrCodeInvalidArgument, "not an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if !strings.Contains(tt.err.Error(), tt.contains) {
				t.Errorf("Error() = %q, expected to contain %q", tt.err.Error(), tt.contains)
			}
		})
	}
}

func TestIsConfigError_Wrapped(t *testing.T) {
	base := ErrMissingField("config", "name")
	wrapped := fmt.Errorf("load: %w", base)

	got, ok := IsConfigError(wrapped)
	if !ok {
		t.Fatal("expected wrapped ConfigError to be detected")
	}
	if got != base {
		t.Error("expected the original ConfigError to be returned")
	}
	if GetErrorCode(wrapped) != ErrCodeMissingField {
		t.Errorf("GetErrorCode() = %q, want %q", GetErrorCode(wrapped), ErrCodeMissingField)
	}

	if _, ok := IsConfigError(errors.New("plain")); ok {
		t.Error("plain error should not be a ConfigError")
	}
	if GetErrorCode(errors.New("plain")) != "" {
		t.Error("plain error should have empty code")
	}
}

func TestCapacityError(t *testing.T) {
	err := &CapacityError{Requested: 10, Maximum: "4"}
	msg := err.Error()
	if !strings.Contains(msg, "(10)") || !strings.Contains(msg, "(4)") {
		t.Errorf("CapacityError.Error() = %q, expected both counts", msg)
	}
}

func TestAssetError_Unwrap(t *testing.T) {
	cause := errors.New("no such file")
	err := &AssetError{TokenID: 7, Path: "traits/bg/red.png", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("AssetError should unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "traits/bg/red.png") {
		t.Errorf("AssetError.Error() = %q, expected path", err.Error())
	}
	if !strings.Contains(err.Error(), "token 7") {
		t.Errorf("AssetError.Error() = %q, expected token id", err.Error())
	}
}
