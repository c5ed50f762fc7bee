package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoPlatform is returned when no platform to search is specified.
	ErrNoPlatform = errors.New("no platform specified: provide a platform name, abbreviation, or ID")

	// ErrInvalidThreshold is returned when the world-record threshold
	// is not positive. A zero threshold would match nothing.
	ErrInvalidThreshold = errors.New("invalid threshold: must be positive")

	// ErrInvalidTimeout is returned when the request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxAttempts is returned when the retry attempt budget
	// is not positive. At least one attempt must be made per lookup.
	ErrInvalidMaxAttempts = errors.New("invalid max attempts: must be positive")

	// ErrInvalidRetryDelay is returned when a retry or rate-limit delay
	// is negative. Use 0 for no delay between attempts.
	ErrInvalidRetryDelay = errors.New("invalid retry delay: must be non-negative")

	// ErrInvalidPageSize is returned when the listing page size is not
	// positive.
	ErrInvalidPageSize = errors.New("invalid page size: must be positive")

	// ErrInvalidRequestRate is returned when the requests-per-minute
	// pacing value is negative. Use 0 to disable client-side pacing.
	ErrInvalidRequestRate = errors.New("invalid request rate: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is
	// negative. Use 0 to use the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
