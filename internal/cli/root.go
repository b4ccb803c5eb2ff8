// Package cli provides the command-line interface for goa.
package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kitplummer/goa/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the logger built by the running command.
// Access is protected by globalLoggerMu.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// GetLogger returns the logger initialized by the running command. Before
// initialization it returns a zero-value logger that discards everything.
//
// This function is safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

func storeLogger(logger zerolog.Logger) {
	globalLoggerMu.Lock()
	globalLogger = logger
	globalLoggerMu.Unlock()
}

// newRootCmd creates and returns the root command for the goa CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goa",
		Short: "A command-line GitOps utility agent",
		Long: `A command-line GitOps utility agent.

goa clones a git repository into a scratch workspace, polls the tracked branch
on a fixed interval, merges new commits into the local copy and then runs a
command inside the workspace. The command comes from --command or, when that
is empty, from the first line of the .goa file at the repository root.`,
		Version: formatVersion(info),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		// Errors are printed once by execute with the goa prefix.
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	AddGlobalFlags(cmd, flags)

	AddSpyCommand(cmd, flags)
	AddConfigCommand(cmd, flags)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// FormatError renders err the way goa reports fatal errors on stderr.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	if stderrors.Is(err, errors.ErrInvalidLocation) {
		return "goa error: " + errors.UserMessage(err)
	}
	return "goa error: " + err.Error()
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	return execute(ctx, info, os.Args[1:], os.Stdout, os.Stderr)
}

func execute(ctx context.Context, info BuildInfo, args []string, stdout, stderr io.Writer) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, FormatError(err))
		if _, action := errors.Actionable(err); action != "" && !stderrors.Is(err, errors.ErrInvalidLocation) {
			_, _ = fmt.Fprintln(stderr, "hint: "+action)
		}
	}
	return err
}
