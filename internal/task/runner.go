package task

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"syscall"
	"time"

	"github.com/kitplummer/goa/internal/constants"
)

// CommandRunner starts a program and waits for it.
// This allows for testing by injecting mock implementations.
type CommandRunner interface {
	// Run executes program with args in dir. A program that started and
	// exited, whatever its status, returns a nil error and its exit code.
	// A non-nil error means the program could not be started.
	Run(ctx context.Context, dir, program string, args []string) (stdout, stderr string, exitCode int, err error)
}

// DefaultCommandRunner implements CommandRunner using os/exec. There is no
// shell: the program is looked up on PATH and invoked directly.
type DefaultCommandRunner struct {
	// WaitDelay is how long a cancelled command gets between SIGTERM and
	// being killed. Defaults to constants.ProcessTerminationTimeout.
	WaitDelay time.Duration
}

// Ensure DefaultCommandRunner implements CommandRunner.
var _ CommandRunner = (*DefaultCommandRunner)(nil)

// Run implements CommandRunner.
func (r *DefaultCommandRunner) Run(ctx context.Context, dir, program string, args []string) (stdout, stderr string, exitCode int, err error) {
	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = dir
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = constants.ProcessTerminationTimeout
	}

	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	var exitErr *exec.ExitError
	switch {
	case runErr == nil:
		return stdout, stderr, 0, nil
	case errors.As(runErr, &exitErr):
		return stdout, stderr, exitErr.ExitCode(), nil
	default:
		return stdout, stderr, -1, runErr
	}
}
