//go:build unix

package flock_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goaerrors "github.com/kitplummer/goa/internal/errors"
	"github.com/kitplummer/goa/internal/flock"
)

func TestExclusive(t *testing.T) {
	t.Parallel()

	lockFile := filepath.Join(t.TempDir(), "test.lock")

	f1, err := os.OpenFile(lockFile, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	defer func() { _ = f1.Close() }()

	f2, err := os.OpenFile(lockFile, os.O_RDWR, 0o600) //#nosec G304 -- test temp dir
	require.NoError(t, err)
	defer func() { _ = f2.Close() }()

	require.NoError(t, flock.Exclusive(f1.Fd()))
	require.Error(t, flock.Exclusive(f2.Fd()), "second descriptor must not get the lock")

	require.NoError(t, flock.Unlock(f1.Fd()))
	require.NoError(t, flock.Exclusive(f2.Fd()), "lock should be free after unlock")
	require.NoError(t, flock.Unlock(f2.Fd()))
}

func TestAcquire(t *testing.T) {
	t.Parallel()

	t.Run("creates parent directories", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "repo", ".git", "goa.lock")

		lock, err := flock.Acquire(path)
		require.NoError(t, err)
		assert.Equal(t, path, lock.Path())
		assert.FileExists(t, path)
		require.NoError(t, lock.Release())
	})

	t.Run("second acquire fails while held", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "goa.lock")

		first, err := flock.Acquire(path)
		require.NoError(t, err)

		_, err = flock.Acquire(path)
		require.Error(t, err)
		require.ErrorIs(t, err, goaerrors.ErrLockTimeout)

		require.NoError(t, first.Release())

		again, err := flock.Acquire(path)
		require.NoError(t, err)
		require.NoError(t, again.Release())
	})

	t.Run("release is idempotent", func(t *testing.T) {
		t.Parallel()
		lock, err := flock.Acquire(filepath.Join(t.TempDir(), "goa.lock"))
		require.NoError(t, err)
		require.NoError(t, lock.Release())
		require.NoError(t, lock.Release())
	})
}
