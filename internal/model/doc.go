// Package model defines the domain types shared across speedscan:
// platforms, games, run categories, world records, and search reports.
package model
