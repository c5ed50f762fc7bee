package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These are chosen to stay well inside speedrun.com's published rate
// limits while keeping multi-hour platform scans as short as possible.
const (
	// DefaultAPIBaseURL is the speedrun.com public API root.
	// The API is read-only and unauthenticated.
	DefaultAPIBaseURL = "https://www.speedrun.com/api/v1"

	// DefaultThreshold is the maximum Any% world-record time to accept.
	// 30 minutes is a practical glitch-hunting cutoff: short enough
	// that a found skip meaningfully changes the run, long enough to
	// include most classic console games.
	DefaultThreshold = 30 * time.Minute

	// DefaultTimeout is the per-request timeout. The speedrun.com API
	// is normally fast, but leaderboard queries for huge games can take
	// several seconds under load.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxAttempts is the number of tries for each per-game
	// lookup before the game is skipped. The first try counts, so 4
	// means one attempt plus three retries.
	DefaultMaxAttempts = 4

	// DefaultRetryDelay is the fixed pause between ordinary retries.
	DefaultRetryDelay = 2 * time.Second

	// DefaultRateLimitWait is the pause after the API answers with a
	// rate-limit status. speedrun.com uses HTTP 420 with a one-minute
	// window, so waiting the full window is the reliable choice.
	DefaultRateLimitWait = 60 * time.Second

	// DefaultPageSize is the number of games requested per listing
	// page. 200 is the API's documented "bulk" maximum for most
	// collection endpoints; fewer pages means fewer chances to trip
	// the rate limiter.
	DefaultPageSize = 200

	// DefaultRequestsPerMinute paces the client below speedrun.com's
	// 100-requests-per-minute limit. Staying under the limit is faster
	// overall than hitting it and sleeping out the penalty window.
	DefaultRequestsPerMinute = 90

	// DefaultUserAgent identifies speedscan in HTTP requests.
	// The API guidelines ask clients to send a descriptive User-Agent.
	DefaultUserAgent = "speedscan/1.0 (+https://github.com/speedscan/speedscan)"

	// DefaultMaxBodySize limits the response body size to read.
	// Listing pages with embeds stay well under 2MB; anything larger
	// indicates a response we do not want to buffer.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// AppName is the application name used for XDG directory paths.
	AppName = "speedscan"
)

// Config holds all configuration options for a speedscan run.
// It is populated from CLI flags and the optional .speedscan file and
// passed through the application via dependency injection rather than
// global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g. ClientConfig, FilterConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant
// benefit.
type Config struct {
	// APIBaseURL is the speedrun.com API root. Overridable mainly so
	// tests can point the client at an httptest server.
	APIBaseURL string

	// Platform is the platform to search, as supplied by the user.
	// Accepts a display name ("GameCube"), abbreviation ("gcn"), or
	// raw platform ID.
	Platform string

	// Threshold is the maximum Any% world-record time to accept.
	// Games whose record is at or below this duration are reported.
	Threshold time.Duration

	// GenresInclude restricts results to games carrying at least one
	// of these genres (by name). Empty means no include filter.
	GenresInclude []string

	// GenresExclude drops games carrying any of these genres (by
	// name). Empty means no exclude filter.
	GenresExclude []string

	// ExclusiveOnly drops games that are republished on other
	// platforms. Requires one extra game-detail request per candidate,
	// so large platform scans get noticeably slower with it enabled.
	ExclusiveOnly bool

	// Timeout is the per-request timeout for API calls.
	Timeout time.Duration

	// MaxAttempts bounds how many times each per-game lookup is tried
	// before the game is skipped.
	MaxAttempts int

	// RetryDelay is the fixed delay between retry attempts.
	RetryDelay time.Duration

	// RateLimitWait is the delay applied instead of RetryDelay when
	// the API reports rate limiting (HTTP 420/429).
	RateLimitWait time.Duration

	// PageSize is the number of entries requested per listing page.
	PageSize int

	// RequestsPerMinute paces outgoing requests client-side.
	// Zero disables pacing, which is only sensible against a local
	// test server.
	RequestsPerMinute int

	// UserAgent is the User-Agent header sent with API requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// PrintRetryInfo emits retry and skip diagnostics to the log at
	// warn level. Off by default because a flaky afternoon on a big
	// platform produces thousands of them.
	PrintRetryInfo bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of the plain text
	// listing. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the
	// plain text listing. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report. When set, the
	// report is written to this file instead of stdout. Results still
	// stream to stdout as they are found.
	ReportFile string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .speedscan in the current directory, the
	// user's home directory, and the XDG config directory.
	ConfigFilePath string

	// FileDefaults holds settings loaded from the config file,
	// including per-platform overrides. Populated by LoadConfigFile.
	FileDefaults *File

	// DBDir is the directory for the SQLite history database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB records qualifying results to the history database so
	// later runs can be compared with the history command.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases; callers override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (timeouts, page size,
// request pacing). It also serves as documentation of the defaults.
func NewConfig() *Config {
	return &Config{
		APIBaseURL:        DefaultAPIBaseURL,
		Threshold:         DefaultThreshold,
		Timeout:           DefaultTimeout,
		MaxAttempts:       DefaultMaxAttempts,
		RetryDelay:        DefaultRetryDelay,
		RateLimitWait:     DefaultRateLimitWait,
		PageSize:          DefaultPageSize,
		RequestsPerMinute: DefaultRequestsPerMinute,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
	}
}

// XDGDataDir returns the XDG data directory for speedscan.
// On Linux: ~/.local/share/speedscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for speedscan.
// On Linux: ~/.config/speedscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any requests are made.
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if c.Platform == "" {
		return ErrNoPlatform
	}

	if c.Threshold <= 0 {
		return ErrInvalidThreshold
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	if c.RetryDelay < 0 || c.RateLimitWait < 0 {
		return ErrInvalidRetryDelay
	}

	if c.PageSize <= 0 {
		return ErrInvalidPageSize
	}

	if c.RequestsPerMinute < 0 {
		return ErrInvalidRequestRate
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
