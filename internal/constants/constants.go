// Package constants provides centralized constant values used throughout goa.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by goa.
const (
	// GoaHome is the hidden directory name where goa stores its config and logs.
	// This directory is created in the user's home directory.
	GoaHome = ".goa"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"

	// ScratchDirName is the directory under the OS temp dir that holds
	// per-run workspaces.
	ScratchDirName = "goa_wd"

	// LockFileName is the name of the lock file inside the workspace's .git directory.
	LockFileName = "goa.lock"
)

// Repository tracking defaults.
const (
	// DefaultBranch is the branch tracked when none is given.
	DefaultBranch = "main"

	// DefaultRemote is the remote name used for clone and fetch.
	DefaultRemote = "origin"

	// DefaultMarkerFile is the file at the repository root whose first line
	// supplies the command when none is configured.
	DefaultMarkerFile = ".goa"

	// DefaultAuthorName and DefaultAuthorEmail sign merge commits.
	DefaultAuthorName  = "goa"
	DefaultAuthorEmail = "goa@localhost"
)

// Polling configuration.
const (
	// DefaultDelaySeconds is the default interval between polling cycles.
	DefaultDelaySeconds = 120

	// MinDelaySeconds and MaxDelaySeconds bound the polling interval.
	MinDelaySeconds = 1
	MaxDelaySeconds = 65535

	// DefaultVerbosity maps to info-level logging.
	DefaultVerbosity = 1

	// MaxVerbosity maps to trace-level logging.
	MaxVerbosity = 3
)

// Process management.
const (
	// DefaultGitTimeout bounds a single clone or fetch so a stalled remote
	// cannot hold the cycle forever. A configured zero disables the bound.
	DefaultGitTimeout = 5 * time.Minute

	// ProcessTerminationTimeout is how long a cancelled task command gets to
	// exit after SIGTERM before it is killed.
	ProcessTerminationTimeout = 2 * time.Second
)

// Exit codes.
const (
	// ExitOK is returned on clean shutdown.
	ExitOK = 0

	// ExitFailure is returned for startup failures (invalid URL, clone failure).
	ExitFailure = 1

	// ExitInvalidInput is returned for invalid flags or arguments.
	ExitInvalidInput = 2

	// ExitNotExecutable is used when the task command exists but cannot be executed.
	ExitNotExecutable = 126

	// ExitNotFound is used when the task command cannot be found.
	ExitNotFound = 127
)
