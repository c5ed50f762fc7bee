// Package main provides the entry point for the speedscan CLI.
//
// Speedscan searches speedrun.com for games with short Any% world
// records on a given platform. It is a glitch hunter's tool: find the
// games a platform can already be beaten quickly on, then go look for
// the skips that make them faster.
//
// Usage:
//
//	speedscan search n64
//	speedscan search --max-time 20m gcn
//
// See --help for all available options.
package main

// main is the entry point for speedscan.
func main() {
	Execute()
}
