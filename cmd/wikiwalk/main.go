// Package main provides the entry point for the wikiwalk CLI.
//
// wikiwalk plays "Getting to Philosophy": starting from a random (or given)
// Wikipedia article it keeps following the first qualifying link of the
// body text until it lands on Philosophy, revisits an article, runs out of
// links or hits the step limit.
//
// Usage:
//
//	wikiwalk walk
//	wikiwalk walk --start "Apple" --backend chrome
//	wikiwalk history --stats
//
// See --help for all available options.
package main

func main() {
	Execute()
}
