package core

import "errors"

// Exit codes for the application.
// These follow Unix conventions where signal-based exits are 128 + signal number.
const (
	// ExitCodeSuccess indicates every genome and image was produced (exit code 0)
	ExitCodeSuccess = 0

	// ExitCodeError indicates an I/O or image failure (exit code 1)
	ExitCodeError = 1

	// ExitCodeConfig indicates invalid arguments or configuration (exit code 2)
	ExitCodeConfig = 2

	// ExitCodeCapacity indicates the batch cannot be unique (exit code 3)
	ExitCodeCapacity = 3

	// ExitCodeSIGINT indicates termination due to SIGINT (Ctrl+C)
	// Convention: 128 + 2 (SIGINT) = 130
	ExitCodeSIGINT = 130
)

// ExitCodeName returns a human-readable name for an exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitCodeSuccess:
		return "success"
	case ExitCodeError:
		return "error"
	case ExitCodeConfig:
		return "configuration error"
	case ExitCodeCapacity:
		return "capacity error"
	case ExitCodeSIGINT:
		return "interrupted"
	default:
		return "unknown"
	}
}

// ExitCodeFor maps an error returned by a command to its process exit code.
// Interruption wins over everything else so a cancelled run is never reported as a crash.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitCodeSuccess
	}
	if errors.Is(err, ErrInterrupted) {
		return ExitCodeSIGINT
	}
	var capErr *CapacityError
	if errors.As(err, &capErr) {
		return ExitCodeCapacity
	}
	if _, ok := IsConfigError(err); ok {
		return ExitCodeConfig
	}
	return ExitCodeError
}
