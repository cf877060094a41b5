// Package main provides the entry point for the rosetta CLI tool.
package main

import (
	"github.com/sportsync/rosetta/cmd/rosetta/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
