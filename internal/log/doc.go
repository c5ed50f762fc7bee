// Package log provides structured logging helpers built on log/slog.
//
// The package's main feature is ThrottleHandler, an slog.Handler wrapper
// that suppresses identical repeated records within a time window. Long
// platform scans emit the same retry warning hundreds of times when the
// API is rate limiting; throttling keeps the terminal readable without
// hiding that the condition occurred.
package log
