package core

import (
	"os"
	"strconv"
	"strings"
)

// envValue returns the trimmed value of key and whether it is non-empty.
func envValue(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

// GetEnvOrDefault returns the value of key, or defaultValue when it is unset or blank.
func GetEnvOrDefault(key, defaultValue string) string {
	if v, ok := envValue(key); ok {
		return v
	}
	return defaultValue
}

// ParseIntEnv reads key as a base-10 integer. Unset or malformed values yield
// defaultValue; range checks are left to Settings.Validate.
func ParseIntEnv(key string, defaultValue int) int {
	v, ok := envValue(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

// ParseBoolEnv reads key as a switch. true/1/yes/on and false/0/no/off are
// accepted in any case; anything else yields defaultValue.
func ParseBoolEnv(key string, defaultValue bool) bool {
	v, ok := envValue(key)
	if !ok {
		return defaultValue
	}
	switch strings.ToLower(v) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	}
	return defaultValue
}
