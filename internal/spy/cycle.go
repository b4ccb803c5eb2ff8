package spy

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/rs/zerolog"

	goaerrors "github.com/kitplummer/goa/internal/errors"
	goagit "github.com/kitplummer/goa/internal/git"
	"github.com/kitplummer/goa/internal/task"
)

// Workspace reopens the working copy at the start of a cycle.
type Workspace interface {
	Path() string
	Open(ctx context.Context) (*git.Repository, error)
}

// Detector reports the remote commit that differs from the local branch,
// or nil when there is nothing new.
type Detector interface {
	Detect(ctx context.Context, repo *git.Repository) (*goagit.RemoteCommit, error)
}

// Reconciler merges a detected remote commit into the local branch.
type Reconciler interface {
	Reconcile(ctx context.Context, repo *git.Repository, rc *goagit.RemoteCommit) (*goagit.MergeResult, error)
}

// Executor runs a command line in a directory.
type Executor interface {
	Execute(ctx context.Context, dir, commandLine string) (*task.Result, error)
}

// Outcome describes one pass through the pipeline.
type Outcome struct {
	// Skipped is set when another cycle was in flight and this one did
	// nothing.
	Skipped bool

	// Changed is set when the detector found a remote commit.
	Changed bool

	// Merged is set when the local branch moved to include the remote
	// commit.
	Merged bool

	Remote  *goagit.RemoteCommit
	Merge   *goagit.MergeResult
	Command string
	Source  task.Source
	Task    *task.Result

	// Err is the error that ended the cycle, already logged.
	Err error
}

// Processed reports whether a change was merged.
func (o Outcome) Processed() bool {
	return o.Merged
}

// pipeline runs open, detect, merge and execute in order. Every error is
// recorded in the Outcome and logged here. When force is set the command
// runs even if nothing was merged.
func (s *Scheduler) pipeline(ctx context.Context, force bool) Outcome {
	log := zerolog.Ctx(ctx)
	var out Outcome

	repo, err := s.workspace.Open(ctx)
	if err != nil {
		out.Err = err
		s.logStageError(log, "open", err)
		return out
	}

	rc, err := s.detector.Detect(ctx, repo)
	if err != nil {
		out.Err = err
		s.logStageError(log, "detect", err)
		return out
	}

	if rc == nil {
		log.Debug().Msg("no diffs, back to sleep")
		if !force {
			return out
		}
	} else {
		out.Changed = true
		out.Remote = rc

		mr, err := s.reconciler.Reconcile(ctx, repo, rc)
		out.Merge = mr
		if err != nil {
			out.Err = err
			s.logStageError(log, "merge", err)
			return out
		}
		if mr.Decision.Kind == goagit.MergeNoOp {
			if !force {
				return out
			}
		} else {
			out.Merged = true
		}
	}

	dir := s.workspace.Path()
	cmd, src, err := task.EffectiveCommand(s.target.Command(), dir, s.markerFile)
	if err != nil {
		out.Err = err
		s.logStageError(log, "command", err)
		return out
	}
	out.Command, out.Source = cmd, src
	if cmd == "" {
		log.Warn().Str("marker_file", s.markerFile).Msg("no command configured and no marker file, nothing to run")
		return out
	}
	log.Debug().Str("source", string(src)).Str("command", cmd).Msg("effective command")

	res, err := s.executor.Execute(ctx, dir, cmd)
	out.Task = res
	if err != nil {
		out.Err = err
		// the executor has already logged the failure
		if errors.Is(err, context.Canceled) {
			log.Debug().Msg("command interrupted")
		}
	}
	return out
}

func (s *Scheduler) logStageError(log *zerolog.Logger, stage string, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		log.Debug().Str("stage", stage).Msg("cycle interrupted")
	case errors.Is(err, goaerrors.ErrMergeConflict):
		log.Warn().Err(err).Str("stage", stage).Msg("reconciliation stopped on conflicts")
	default:
		log.Error().Err(err).Str("stage", stage).Msg("cycle failed")
	}
}
