// Command mdcheck checks Markdown files against markdownlint-style rules
// and fixes what it can.
package main

import (
	"errors"
	"os"

	"github.com/yaklabco/mdcheck/internal/cli"
	"github.com/yaklabco/mdcheck/internal/logging"
)

// Set with -ldflags "-X main.version=...".
//
//nolint:gochecknoglobals // ldflags targets must be package-level variables.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	err := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date}).Execute()

	// Violations and per-file failures were already reported.
	reported := errors.Is(err, cli.ErrLintIssuesFound) || errors.Is(err, cli.ErrFilesFailed)
	if err != nil && !reported {
		logging.Default().Error("mdcheck failed", logging.FieldError, err)
	}
	os.Exit(cli.ExitCode(err))
}
