package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrMissingAPIKey is returned when no API key was found in flags,
	// environment or configuration file.
	ErrMissingAPIKey = errors.New("API key is not set: export GEMINI_API_KEY or add it to .env")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidTemperature is returned when the temperature is outside [0, 2].
	ErrInvalidTemperature = errors.New("invalid temperature: must be between 0 and 2")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidEndpoint is returned when the endpoint is not an absolute
	// http(s) URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint: must be an absolute http or https URL")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
