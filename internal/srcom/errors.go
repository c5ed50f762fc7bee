package srcom

import (
	"errors"
	"fmt"
)

// Sentinel errors for API client failures. Callers use errors.Is() to
// distinguish the cases that change control flow: rate limiting gets a
// longer retry delay, not-found answers are terminal for a lookup.
var (
	// ErrRateLimited is returned when the API reports rate limiting.
	// speedrun.com answers HTTP 420 (with a one-minute penalty window);
	// 429 is handled identically in case the API ever standardizes.
	ErrRateLimited = errors.New("rate limited by speedrun.com API")

	// ErrNotFound is returned for HTTP 404 responses. Retrying a 404
	// is pointless, so the retry policy treats it as permanent.
	ErrNotFound = errors.New("resource not found")

	// ErrPlatformNotFound is returned when a platform query matches
	// nothing in the platform listing.
	ErrPlatformNotFound = errors.New("platform not found")

	// ErrGenreNotFound is returned when a requested genre name matches
	// nothing in the genre listing. This is surfaced rather than
	// silently ignored because a typo in a genre filter would
	// otherwise produce a misleadingly unfiltered scan.
	ErrGenreNotFound = errors.New("genre not found")
)

// StatusError is returned for unexpected HTTP status codes.
// It preserves the code so the retry policy can distinguish server
// errors (retryable) from client errors (permanent).
type StatusError struct {
	// Code is the HTTP status code received.
	Code int

	// URL is the request URL, for diagnostics.
	URL string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

// Temporary reports whether the status indicates a transient server-side
// condition worth retrying.
func (e *StatusError) Temporary() bool {
	return e.Code >= 500
}
