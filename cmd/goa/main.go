// Package main provides the entry point for the goa CLI.
package main

import (
	"context"
	"os"

	"github.com/kitplummer/goa/internal/cli"
)

// Set via ldflags at build time.
//
//nolint:gochecknoglobals // build metadata
var (
	version = ""
	commit  = ""
	date    = ""
)

func main() {
	ctx := context.Background()
	err := cli.Execute(ctx, cli.BuildInfo{Version: version, Commit: commit, Date: date})
	os.Exit(cli.ExitCodeForError(err))
}
