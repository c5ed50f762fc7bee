// Package searcher implements the game evaluation logic: enumerate the
// games on a platform, find each game's Any% category, fetch its world
// record, and keep the games whose record is at or below the threshold.
package searcher
