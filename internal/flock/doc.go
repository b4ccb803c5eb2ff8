// Package flock provides exclusive, non-blocking file locks for Unix and
// Windows.
//
// goa uses it to make sure only one agent owns a workspace at a time:
//
//	lock, err := flock.Acquire(filepath.Join(repoPath, ".git", "goa.lock"))
//	if err != nil {
//	    // another agent holds the workspace
//	}
//	defer lock.Release()
package flock
