//go:build unix

package cli

import (
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kitplummer/goa/internal/testutil"
)

func TestSpy_ExitOnFirstDiff(t *testing.T) {
	testutil.RequireGit(t)
	isolateHome(t)

	upstream := testutil.NewRepo(t, "main")
	upstream.CommitOnBranch("main", "initial", map[string]string{
		".goa":      "touch first.txt\n",
		"README.md": "hello\n",
	})

	target := filepath.Join(t.TempDir(), "ws")
	_, err := git.PlainClone(target, false, &git.CloneOptions{URL: upstream.URL()})
	require.NoError(t, err)

	upstream.CommitOnBranch("main", "switch command", map[string]string{
		".goa": "touch second.txt\n",
	})

	_, stderr, err := runCLI(t, "spy", upstream.URL(),
		"--target-path", target, "-d", "1", "-e", "-x", "-v", "0")
	require.NoError(t, err, stderr)
	assert.Equal(t, ExitSuccess, ExitCodeForError(err))

	assert.FileExists(t, filepath.Join(target, "second.txt"))
	assert.NoFileExists(t, filepath.Join(target, "first.txt"))
	assert.Equal(t, "touch second.txt\n", testutil.ReadFile(t, target, ".goa"))
}

func TestSpy_UnstartableCommandExitCode(t *testing.T) {
	testutil.RequireGit(t)
	isolateHome(t)

	upstream := testutil.NewRepo(t, "main")
	upstream.CommitOnBranch("main", "initial", map[string]string{"README.md": "hello\n"})

	target := filepath.Join(t.TempDir(), "ws")
	_, stderr, err := runCLI(t, "spy", upstream.URL(),
		"--target-path", target, "-e", "-v", "0",
		"-c", "goa-definitely-missing-program --now")
	require.Error(t, err)

	assert.Equal(t, 127, ExitCodeForError(err))
	assert.Contains(t, stderr, "goa error:")
	assert.Contains(t, stderr, "command could not be started")
}

func TestSpy_CloneFailure(t *testing.T) {
	isolateHome(t)

	missing := "file://" + filepath.Join(t.TempDir(), "missing.git")
	_, stderr, err := runCLI(t, "spy", missing, "-T", filepath.Join(t.TempDir(), "ws"), "-v", "0")
	require.Error(t, err)

	assert.Equal(t, ExitError, ExitCodeForError(err))
	assert.Contains(t, stderr, "goa error: clone failed")
}
