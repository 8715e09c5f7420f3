// Package main provides the entry point for the gridmap CLI tool.
package main

import (
	"github.com/gridmap/gridmap/cmd/gridmap/cmd"
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
