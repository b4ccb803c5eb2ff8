package flock

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// Lock is a held lock on a file. The zero value is not usable; obtain one
// with Acquire.
type Lock struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// Acquire creates path if needed and takes an exclusive lock on it without
// blocking. It returns an error wrapping ErrLockTimeout if the lock is held
// elsewhere.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path is built by the caller from the workspace root
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}

	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", goaerrors.ErrLockTimeout, path, err)
	}

	// Record the owner for humans inspecting a stuck workspace.
	_ = f.Truncate(0)
	_, _ = fmt.Fprintf(f, "%d\n", os.Getpid())

	return &Lock{file: f, path: path}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

// Release unlocks and closes the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	unlockErr := Unlock(l.file.Fd())
	closeErr := l.file.Close()
	l.file = nil

	if unlockErr != nil {
		return fmt.Errorf("failed to unlock %s: %w", l.path, unlockErr)
	}
	return closeErr
}
