// Package config provides configuration structures and utilities for
// speedscan. It defines the options controlling platform searches, API
// client behavior (timeouts, retries, rate limiting), and report output.
package config
