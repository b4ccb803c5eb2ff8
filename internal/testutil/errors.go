// Package testutil provides testing utilities for goa.
//
// This package contains mock errors and repository fixtures used across
// test files. It should only be imported by test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
// These errors are used to simulate various failure scenarios in tests.
var (
	// ErrMockNetwork indicates a mock network error occurred (used in tests).
	ErrMockNetwork = errors.New("network error")

	// ErrMockRepoUnavailable indicates a mock repository could not be opened (used in tests).
	ErrMockRepoUnavailable = errors.New("repository unavailable")

	// ErrMockMerge indicates a mock merge failure (used in tests).
	ErrMockMerge = errors.New("merge failed")
)
