package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrInvalidBackend is returned when the driver backend is not one of
	// static, chrome or firefox.
	ErrInvalidBackend = errors.New("invalid backend: must be static, chrome or firefox")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxSteps is returned when the step limit is negative.
	// Use 0 to disable the limit.
	ErrInvalidMaxSteps = errors.New("invalid max steps: must be non-negative")

	// ErrInvalidRequestDelay is returned when the request delay is negative.
	ErrInvalidRequestDelay = errors.New("invalid request delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidOrigin is returned when the origin is not an absolute
	// http(s) URL without path.
	ErrInvalidOrigin = errors.New("invalid origin: must be an absolute http(s) URL such as https://en.wikipedia.org")

	// ErrEmptyTarget is returned when the target heading is blank.
	ErrEmptyTarget = errors.New("invalid target: must not be empty")
)
