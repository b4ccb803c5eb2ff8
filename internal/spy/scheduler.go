package spy

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/kitplummer/goa/internal/clock"
	"github.com/kitplummer/goa/internal/constants"
	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// Options configures a Scheduler.
type Options struct {
	Target     *Target
	Workspace  Workspace
	Detector   Detector
	Reconciler Reconciler
	Executor   Executor

	// MarkerFile names the command file in the workspace root.
	// Default: ".goa"
	MarkerFile string

	// Interval between cycles. Must be positive.
	Interval time.Duration

	// RunOnStart runs one cycle before the first tick. That pass runs the
	// command even when there is nothing to merge.
	RunOnStart bool

	// ExitOnFirstDiff makes Run return after the first merged change.
	ExitOnFirstDiff bool

	Clock clock.Clock
}

// Scheduler runs cycles on a fixed interval. Cycles never overlap: a
// trigger that arrives while one is in flight is skipped.
type Scheduler struct {
	target     *Target
	workspace  Workspace
	detector   Detector
	reconciler Reconciler
	executor   Executor

	markerFile      string
	interval        time.Duration
	runOnStart      bool
	exitOnFirstDiff bool
	clock           clock.Clock

	inflight *semaphore.Weighted
	seq      int
}

// New creates a Scheduler.
func New(opts Options) *Scheduler {
	s := &Scheduler{
		target:          opts.Target,
		workspace:       opts.Workspace,
		detector:        opts.Detector,
		reconciler:      opts.Reconciler,
		executor:        opts.Executor,
		markerFile:      opts.MarkerFile,
		interval:        opts.Interval,
		runOnStart:      opts.RunOnStart,
		exitOnFirstDiff: opts.ExitOnFirstDiff,
		clock:           opts.Clock,
		inflight:        semaphore.NewWeighted(1),
	}
	if s.markerFile == "" {
		s.markerFile = constants.DefaultMarkerFile
	}
	if s.clock == nil {
		s.clock = clock.RealClock{}
	}
	if s.target == nil {
		s.target = NewTarget(TargetConfig{LocalPath: opts.Workspace.Path(), Interval: opts.Interval})
	}
	return s
}

// Target returns the state object the scheduler mutates.
func (s *Scheduler) Target() *Target {
	return s.target
}

// RunCycle performs one cycle unless another is in flight, in which case
// it returns immediately with Outcome.Skipped set. Per-cycle failures are
// logged and reported in Outcome.Err only; the returned error is non-nil
// only when the command could not be started, which ends the agent.
func (s *Scheduler) RunCycle(ctx context.Context) (Outcome, error) {
	return s.runCycle(ctx, false)
}

func (s *Scheduler) runCycle(ctx context.Context, force bool) (Outcome, error) {
	if !s.inflight.TryAcquire(1) {
		zerolog.Ctx(ctx).Debug().Msg("cycle already in flight, skipping tick")
		return Outcome{Skipped: true}, nil
	}
	defer s.inflight.Release(1)

	s.seq++
	logger := zerolog.Ctx(ctx).With().Int("cycle", s.seq).Logger()
	ctx = logger.WithContext(ctx)

	started := s.clock.Now()
	logger.Debug().Msg("cycle started")

	out := s.pipeline(ctx, force)
	s.target.record(started, &out)

	logger.Debug().
		Dur("duration", clock.Since(s.clock, started)).
		Bool("changed", out.Changed).
		Bool("merged", out.Merged).
		Msg("cycle finished")

	if errors.Is(out.Err, goaerrors.ErrCommandNotStartable) {
		return out, out.Err
	}
	return out, nil
}

// Run drives cycles until ctx is cancelled, the command cannot be started,
// or, with ExitOnFirstDiff, a change has been merged. Cancellation is a
// clean stop and returns nil.
func (s *Scheduler) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx).With().Str("component", "spy").Logger()
	ctx = logger.WithContext(ctx)

	if s.interval <= 0 {
		return goaerrors.Join(goaerrors.ErrValueOutOfRange, errors.New("interval must be positive"))
	}
	logger.Info().Dur("interval", s.interval).Msg("checking for changes")

	if s.runOnStart {
		out, err := s.runCycle(ctx, true)
		if err != nil {
			return err
		}
		if s.exitOnFirstDiff && out.Processed() {
			logger.Info().Msg("change processed, exiting")
			return nil
		}
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping")
			return nil
		case <-ticker.C:
			out, err := s.RunCycle(ctx)
			if err != nil {
				return err
			}
			if s.exitOnFirstDiff && out.Processed() {
				logger.Info().Msg("change processed, exiting")
				return nil
			}
		}
	}
}
