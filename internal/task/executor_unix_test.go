//go:build unix

package task

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goaerrors "github.com/kitplummer/goa/internal/errors"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestDefaultCommandRunner_EchoInWorkspace(t *testing.T) {
	requireProgram(t, "echo")
	requireProgram(t, "pwd")
	dir := t.TempDir()

	res, err := NewExecutor().Execute(context.Background(), dir, "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Empty(t, res.Stderr)

	res, err = NewExecutor().Execute(context.Background(), dir, "pwd")
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(res.Stdout[:len(res.Stdout)-1])
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDefaultCommandRunner_NonzeroExit(t *testing.T) {
	requireProgram(t, "false")

	res, err := NewExecutor().Execute(context.Background(), t.TempDir(), "false")
	require.ErrorIs(t, err, goaerrors.ErrCommandFailed)
	assert.Equal(t, 1, res.ExitCode)
}

func TestDefaultCommandRunner_NotFound(t *testing.T) {
	_, err := NewExecutor().Execute(context.Background(), t.TempDir(), "goa-no-such-program --x")
	require.ErrorIs(t, err, goaerrors.ErrCommandNotStartable)

	code, ok := goaerrors.ExitCode(err)
	require.True(t, ok)
	assert.Equal(t, 127, code)
}

func TestDefaultCommandRunner_NotExecutable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses execute permission checks")
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "script"), []byte("#!/bin/sh\n"), 0o600))

	_, err := NewExecutor().Execute(context.Background(), dir, filepath.Join(dir, "script"))
	require.ErrorIs(t, err, goaerrors.ErrCommandNotStartable)

	code, _ := goaerrors.ExitCode(err)
	assert.Equal(t, 126, code)
}
