// Package errors provides centralized error handling for goa.
//
// Sentinel errors defined here let every layer classify failures with
// errors.Is() without importing the layer that produced them. The scheduler
// relies on this to tell recoverable per-cycle failures from fatal ones.
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"strconv"
)

// Sentinel errors for error categorization.
var (
	// ErrInvalidLocation indicates the repository URL or path could not be
	// parsed into an absolute location.
	ErrInvalidLocation = errors.New("invalid URL or path")

	// ErrCloneFailed indicates the initial clone of the remote repository
	// failed. This is fatal at startup.
	ErrCloneFailed = errors.New("clone failed")

	// ErrWorkspaceOpen indicates the workspace repository could not be opened
	// at the start of a cycle.
	ErrWorkspaceOpen = errors.New("workspace could not be opened")

	// ErrWorkspaceLocked indicates another agent already owns the workspace.
	ErrWorkspaceLocked = errors.New("workspace is locked by another process")

	// ErrFetchFailed indicates fetching from the remote failed.
	ErrFetchFailed = errors.New("fetch failed")

	// ErrBranchNotFound indicates the tracked branch does not exist on the remote.
	ErrBranchNotFound = errors.New("branch not found")

	// ErrMergeConflict indicates a three-way merge produced conflicts. The
	// conflicted paths are left in the working tree and no commit is made.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrGitOperation indicates that a repository operation (reference update,
	// checkout, commit) failed.
	ErrGitOperation = errors.New("git operation failed")

	// ErrCommandNotStartable indicates the task command could not be started
	// at all (not found, not executable). This is fatal for the agent.
	ErrCommandNotStartable = errors.New("command could not be started")

	// ErrCommandFailed indicates the task command ran and exited nonzero.
	ErrCommandFailed = errors.New("command failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalid indicates a configuration value failed validation.
	ErrConfigInvalid = errors.New("invalid configuration")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrValueOutOfRange indicates that a value is outside the allowed range.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrUnsupportedOutputFormat indicates that an unsupported output format was specified.
	ErrUnsupportedOutputFormat = errors.New("unsupported output format")

	// ErrInvalidArgument indicates that an invalid argument was provided.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrLockTimeout indicates a file lock could not be acquired.
	ErrLockTimeout = errors.New("lock acquisition timeout")
)

// ExitCodeError carries a specific process exit code along with the error
// that caused it. The CLI layer unwraps it to decide how the process ends.
type ExitCodeError struct {
	Code int
	Err  error
}

// NewExitCodeError wraps err so the process exits with code.
func NewExitCodeError(code int, err error) *ExitCodeError {
	return &ExitCodeError{Code: code, Err: err}
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	if e.Err == nil {
		return "exit status " + strconv.Itoa(e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, and whether one was found.
func ExitCode(err error) (int, bool) {
	var e *ExitCodeError
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}
