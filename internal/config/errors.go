package config

import (
	"fmt"
)

// ConfigErrorType represents different types of configuration errors
type ConfigErrorType int

const (
	ConfigErrorUnknown ConfigErrorType = iota
	ConfigErrorReadFailed
	ConfigErrorDecodeFailed
	ConfigErrorInvalidLevel
	ConfigErrorInvalidInterval
	ConfigErrorNoRoutines
)

// ConfigError represents a structured configuration error
type ConfigError struct {
	Type  ConfigErrorType
	Key   string
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	switch e.Type {
	case ConfigErrorReadFailed:
		if e.Key == "" {
			return fmt.Sprintf("Cannot read configuration: %v\nPlease check the file syntax.", e.Cause)
		}
		return fmt.Sprintf("Cannot read configuration file '%s': %v\nPlease check that the file exists and is valid TOML.", e.Key, e.Cause)
	case ConfigErrorDecodeFailed:
		return fmt.Sprintf("Cannot decode configuration: %v\nPlease check value types, e.g. interval = \"3s\".", e.Cause)
	case ConfigErrorInvalidLevel:
		return fmt.Sprintf("Invalid level for '%s': %q\nValid levels are trace, debug, info, warn, error.", e.Key, e.Value)
	case ConfigErrorInvalidInterval:
		return fmt.Sprintf("Invalid interval for '%s': %s\nInterval must be at least 1ms, written as a duration such as \"2s\".", e.Key, e.Value)
	case ConfigErrorNoRoutines:
		return "No routines configured\nAdd at least one [[routines]] table or remove the empty list."
	default:
		if e.Cause != nil {
			return fmt.Sprintf("Configuration error for '%s': %v", e.Key, e.Cause)
		}
		return fmt.Sprintf("Configuration error for '%s'", e.Key)
	}
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}
