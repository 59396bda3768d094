package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeValues(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		expected int
	}{
		{"success", ExitCodeSuccess, 0},
		{"error", ExitCodeError, 1},
		{"config", ExitCodeConfig, 2},
		{"capacity", ExitCodeCapacity, 3},
		{"SIGINT", ExitCodeSIGINT, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.expected {
				t.Errorf("exit code %s = %d, want %d", tt.name, tt.code, tt.expected)
			}
		})
	}
}

func TestExitCodeName(t *testing.T) {
	if got := ExitCodeName(ExitCodeSIGINT); got != "interrupted" {
		t.Errorf("ExitCodeName(130) = %q, want interrupted", got)
	}
	if got := ExitCodeName(42); got != "unknown" {
		t.Errorf("ExitCodeName(42) = %q, want unknown", got)
	}
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitCodeSuccess},
		{"interrupted", fmt.Errorf("images: %w", ErrInterrupted), ExitCodeSIGINT},
		{"interrupted beats asset errors", errors.Join(&AssetError{Path: "x"}, ErrInterrupted), ExitCodeSIGINT},
		{"capacity", &CapacityError{Requested: 3, Maximum: "2"}, ExitCodeCapacity},
		{"config", fmt.Errorf("load: %w", ErrMissingField("config", "layers")), ExitCodeConfig},
		{"asset", &AssetError{Path: "x", Err: errors.New("boom")}, ExitCodeError},
		{"plain", errors.New("disk full"), ExitCodeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}
