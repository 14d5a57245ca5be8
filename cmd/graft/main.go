package main

import (
	"os"

	"github.com/krispya/graft/internal/cli/commands"
)

var (
	// Version information - set at build time via -ldflags
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	commands.Version = version
	commands.GitCommit = gitCommit
	commands.BuildDate = buildDate

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
