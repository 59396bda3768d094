package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration problem with the exact location of the
// offending field and an actionable instruction for resolution.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Path    string // Nested location, e.g. config["layers"][0]["weights"]
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", msg, e.Action)
	}
	return msg
}

// Error codes for configuration errors
const (
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeInvalidType       = "INVALID_TYPE"
	ErrCodeLengthMismatch    = "LENGTH_MISMATCH"
	ErrCodeWeightSum         = "WEIGHT_SUM"
	ErrCodeNegativeWeight    = "NEGATIVE_WEIGHT"
	ErrCodeAssetMissing      = "ASSET_MISSING"
	ErrCodeUnknownReference  = "UNKNOWN_REFERENCE"
	ErrCodeDuplicateLayer    = "DUPLICATE_LAYER"
	ErrCodeUnreadableConfig  = "UNREADABLE_CONFIG"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
)

// ErrMissingField returns an error for a required key that is absent.
func ErrMissingField(path, key string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingField,
		Path:    path,
		Message: fmt.Sprintf("missing required key '%s'", key),
		Action:  fmt.Sprintf("Add '%s' to the configuration", key),
	}
}

// ErrInvalidType returns an error for a value of the wrong type.
func ErrInvalidType(path, expected string, got interface{}) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidType,
		Path:    path,
		Message: fmt.Sprintf("invalid value %s, expected %s", describeValue(got), expected),
	}
}

// ErrLengthMismatch returns an error for parallel lists of different lengths.
func ErrLengthMismatch(path string, got, want int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeLengthMismatch,
		Path:    path,
		Message: fmt.Sprintf("invalid length %d, expected %d (one entry per value)", got, want),
	}
}

// ErrWeightSum returns an error for layer weights that do not add up to 100.
func ErrWeightSum(path string, sum int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeWeightSum,
		Path:    path,
		Message: fmt.Sprintf("the sum of the weights must be 100, got %d", sum),
	}
}

// ErrNegativeWeightConfig returns an error for a negative layer weight.
func ErrNegativeWeightConfig(path string, weight int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeNegativeWeight,
		Path:    path,
		Message: fmt.Sprintf("weight %d is negative", weight),
	}
}

// ErrAssetMissing returns an error for a declared trait asset that is not on disk.
func ErrAssetMissing(path, file string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeAssetMissing,
		Path:    path,
		Message: fmt.Sprintf("file not found: '%s'", file),
		Action:  "Check trait_path and filename entries for this layer",
	}
}

// ErrUnknownReference returns an error for a rule referencing an undeclared layer or value.
func ErrUnknownReference(path, kind, name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeUnknownReference,
		Path:    path,
		Message: fmt.Sprintf("unknown %s '%s'", kind, name),
		Action:  fmt.Sprintf("Declare the %s in the layers section or fix the reference", kind),
	}
}

// ErrInvalidArgument returns an error for an invalid command line argument.
func ErrInvalidArgument(flag, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidArgument,
		Path:    flag,
		Message: reason,
	}
}

// IsConfigError checks if an error is (or wraps) a ConfigError and returns it if so
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}

// CapacityError is returned before sampling when the requested batch cannot be unique.
type CapacityError struct {
	Requested int
	Maximum   string // decimal rendering of an arbitrary precision bound
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("amount to generate (%d) is greater than the number of possible unique combinations (%s). Lower the amount or pass --allow-duplicates",
		e.Requested, e.Maximum)
}

// AssetError reports a trait image that could not be loaded or written.
type AssetError struct {
	TokenID int
	Path    string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("token %d: asset %s: %v", e.TokenID, e.Path, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// Sampling and run-level sentinel errors.
var (
	ErrNoCandidates    = errors.New("sampler: no candidates to choose from")
	ErrNegativeWeight  = errors.New("sampler: negative weight")
	ErrZeroTotalWeight = errors.New("sampler: total of weights must be greater than zero")

	ErrInterrupted      = errors.New("generation interrupted")
	ErrAttemptsExceeded = errors.New("genome: attempt ceiling reached without an acceptable genome")
)

// describeValue renders a raw config value for error messages.
func describeValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("'%s' (string)", val)
	case []interface{}:
		return "(list)"
	case map[string]interface{}:
		return "(map)"
	default:
		return fmt.Sprintf("'%v' (%T)", val, val)
	}
}
