package task

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/kitplummer/goa/internal/clock"
	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/ctxutil"
	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// Executor runs the cycle's command in the workspace.
type Executor struct {
	runner CommandRunner
	clock  clock.Clock
}

// NewExecutor creates an executor with the default command runner.
func NewExecutor() *Executor {
	return &Executor{runner: &DefaultCommandRunner{}, clock: clock.RealClock{}}
}

// NewExecutorWithRunner creates an executor with a custom runner and clock (for testing).
func NewExecutorWithRunner(runner CommandRunner, clk clock.Clock) *Executor {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Executor{runner: runner, clock: clk}
}

// Execute splits commandLine and runs it with dir as the working directory.
//
// A blank commandLine launches nothing and returns (nil, nil). A command
// that ran and exited nonzero returns its Result and an error wrapping
// ErrCommandFailed. A command that could not be started returns an
// *errors.ExitCodeError wrapping ErrCommandNotStartable, with code 127 when
// the program was not found, 126 when it was not executable and 1 otherwise.
func (e *Executor) Execute(ctx context.Context, dir, commandLine string) (*Result, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx).With().Str("stage", "execute").Logger()

	program, args, ok := Split(commandLine)
	if !ok {
		log.Warn().Msg("no command configured, nothing to run")
		return nil, nil
	}

	log.Info().Str("command", commandLine).Msg("executing command")
	log.Debug().Str("program", program).Strs("args", args).Str("dir", dir).Msg("command details")

	started := e.clock.Now()
	stdout, stderr, exitCode, runErr := e.runner.Run(ctx, dir, program, args)
	completed := e.clock.Now()

	result := &Result{
		Command:     commandLine,
		Program:     program,
		Args:        args,
		Dir:         dir,
		ExitCode:    exitCode,
		Stdout:      stdout,
		Stderr:      stderr,
		DurationMs:  completed.Sub(started).Milliseconds(),
		StartedAt:   started,
		CompletedAt: completed,
	}

	if runErr != nil && ctx.Err() != nil && errors.Is(runErr, ctx.Err()) {
		log.Debug().Msg("command not started, shutting down")
		return result, runErr
	}
	if runErr != nil {
		code := notStartableCode(runErr)
		result.ExitCode = code
		log.Error().Err(runErr).Str("program", program).Int("exit_code", code).Msg("command could not be started")
		return result, goaerrors.NewExitCodeError(code,
			goaerrors.Join(goaerrors.ErrCommandNotStartable, fmt.Errorf("%s: %w", program, runErr)))
	}

	if out := strings.TrimRight(stdout, "\n"); out != "" {
		log.Info().Str("stdout", out).Msg("command output")
	}
	if out := strings.TrimRight(stderr, "\n"); out != "" {
		log.Warn().Str("stderr", out).Msg("command error output")
	}

	if exitCode != 0 {
		log.Error().Int("exit_code", exitCode).Int64("duration_ms", result.DurationMs).Msg("command failed")
		return result, goaerrors.Join(goaerrors.ErrCommandFailed,
			fmt.Errorf("%s exited with status %d", program, exitCode))
	}

	log.Info().Int("exit_code", 0).Int64("duration_ms", result.DurationMs).Msg("command completed")
	return result, nil
}

// notStartableCode maps a start failure to the shell's conventional exit code.
func notStartableCode(err error) int {
	switch {
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return constants.ExitNotFound
	case errors.Is(err, fs.ErrPermission):
		return constants.ExitNotExecutable
	default:
		return constants.ExitFailure
	}
}
