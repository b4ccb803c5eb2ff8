// Package git implements the agent's repository operations on top of
// go-git: detecting remote changes, deciding how to integrate them and
// performing the merge.
// This file provides error sentinel re-exports from internal/errors.
package git

import (
	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// ErrGitOperation is re-exported from internal/errors for convenience.
// Use errors.Is(err, ErrGitOperation) to check for git operation failures.
var ErrGitOperation = goaerrors.ErrGitOperation

// ErrFetchFailed is re-exported from internal/errors for convenience.
var ErrFetchFailed = goaerrors.ErrFetchFailed

// ErrBranchNotFound is re-exported from internal/errors for convenience.
// Returned when the remote-tracking branch does not exist after a fetch.
var ErrBranchNotFound = goaerrors.ErrBranchNotFound

// ErrMergeConflict is re-exported from internal/errors for convenience.
// The working tree holds conflict markers and no commit was made.
var ErrMergeConflict = goaerrors.ErrMergeConflict
