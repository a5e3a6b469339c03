// Package main is the entry point for the snoomark CLI.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/snoomark/internal/cli"
	"github.com/yaklabco/snoomark/internal/logging"
)

// Build-time variables set by GoReleaser via ldflags.
//
//nolint:gochecknoglobals // Version variables must be package-level for ldflags injection
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := cli.NewRootCommand(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	if err := rootCmd.Execute(); err != nil {
		// Failed files were already reported; the error only sets the exit code.
		if !errors.Is(err, cli.ErrConversionFailed) {
			logging.Default().Error("command failed", logging.FieldError, err)
		}
		return 1
	}

	return 0
}
