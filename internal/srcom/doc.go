// Package srcom is a read-only client for the speedrun.com public API
// (v1). It covers the handful of endpoints speedscan needs: platform,
// genre, and game listings, per-game category lists, and leaderboards.
//
// All requests are paced by a client-side rate limiter and wrapped in a
// bounded retry policy that treats the API's rate-limit responses
// (HTTP 420/429) as retryable with a longer wait.
package srcom
