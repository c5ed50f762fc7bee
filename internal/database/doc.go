// Package database provides SQLite-based persistence for search runs.
// Each completed platform search is stored with its qualifying results
// so later runs can be listed and compared with the history command.
package database
