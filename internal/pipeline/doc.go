// Package pipeline orchestrates the stages of a platform search:
// resolving the platform, resolving genre filters, and evaluating every
// game on the platform against the world-record threshold. Steps run
// strictly in sequence; each one fills in its part of the shared
// SearchReport.
package pipeline
