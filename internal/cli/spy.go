package cli

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/kitplummer/goa/internal/config"
	"github.com/kitplummer/goa/internal/constants"
	goagit "github.com/kitplummer/goa/internal/git"
	"github.com/kitplummer/goa/internal/logging"
	"github.com/kitplummer/goa/internal/remote"
	"github.com/kitplummer/goa/internal/signal"
	"github.com/kitplummer/goa/internal/spy"
	"github.com/kitplummer/goa/internal/task"
	"github.com/kitplummer/goa/internal/workspace"
)

// SpyFlags holds flags specific to the spy command. Values are read back
// through config.Load so only flags the user changed override the file
// and environment.
type SpyFlags struct {
	Branch          string
	Delay           int
	Username        string
	Token           string
	Command         string
	Verbosity       int
	ExecOnStart     bool
	ExitOnFirstDiff bool
	TargetPath      string
}

// AddSpyCommand adds the spy command to the root command.
func AddSpyCommand(root *cobra.Command, globals *GlobalFlags) {
	root.AddCommand(newSpyCmd(globals, &SpyFlags{}))
}

func newSpyCmd(globals *GlobalFlags, flags *SpyFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spy <url>",
		Short: "Watch a repository and run a command when it changes",
		Long: `Clone <url> into a scratch workspace and poll the tracked branch.

Every --delay seconds goa fetches the remote. When the branch has new commits
they are merged into the workspace (fast-forward, or a three-way merge when
the local branch has diverged) and the command is run in the workspace root.
With no --command, the first line of the .goa file in the repository is run.

Examples:
  goa spy https://github.com/owner/repo.git
  goa spy https://github.com/owner/repo.git -b deploy -d 30 -c "make deploy"
  goa spy file:///srv/git/config.git -e -x -v 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpy(cmd.Context(), cmd, globals, args[0])
		},
		SilenceUsage: true,
	}

	f := cmd.Flags()
	f.StringVarP(&flags.Branch, "branch", "b", constants.DefaultBranch, "branch to track")
	f.IntVarP(&flags.Delay, "delay", "d", constants.DefaultDelaySeconds, "seconds between checks")
	f.StringVarP(&flags.Username, "username", "u", "", "username for the remote")
	f.StringVarP(&flags.Token, "token", "t", "", "token or password for the remote")
	f.StringVarP(&flags.Command, "command", "c", "", "command to run on change (default: first line of .goa)")
	f.IntVarP(&flags.Verbosity, "verbosity", "v", constants.DefaultVerbosity, "0 errors, 1 info, 2 debug, 3 trace")
	f.BoolVarP(&flags.ExecOnStart, "exec-on-start", "e", false, "run the command once before the first interval")
	f.BoolVarP(&flags.ExitOnFirstDiff, "exit-on-first-diff", "x", false, "exit after the first change is processed")
	f.StringVarP(&flags.TargetPath, "target-path", "T", "", "workspace directory (default: a scratch dir under the OS temp dir)")

	return cmd
}

func runSpy(ctx context.Context, cmd *cobra.Command, globals *GlobalFlags, rawURL string) error {
	cfg, err := config.Load(ctx, config.Options{
		ConfigFile: globals.ConfigFile,
		Flags:      cmd.Flags(),
		URL:        rawURL,
	})
	if err != nil {
		return err
	}

	loc, err := remote.Resolve(cfg.URL, remote.Credentials{Username: cfg.Username, Token: cfg.Token})
	if err != nil {
		return err
	}

	logger := InitLogger(cfg.Verbosity, cfg.Log)
	defer CloseLogFile()
	ctx = logger.WithContext(ctx)

	logger.Info().Msgf("starting to spy %s:%s", loc.Redacted(), cfg.Branch)
	if loc.Username() != "" || loc.HasToken() {
		logger.Debug().
			Str("username", loc.Username()).
			Str("token", logging.SafeValue("token", cfg.Token)).
			Msg("credentials configured")
	}

	sig := signal.NewHandler(ctx)
	defer sig.Stop()
	ctx = sig.Context()

	progress := logging.NewLineWriter(logger.With().Str("component", "git").Logger(), zerolog.DebugLevel, "progress")
	defer progress.Flush()

	ws, err := workspace.Prepare(ctx, loc, workspace.Options{
		Path:       cfg.TargetPath,
		RemoteName: cfg.Remote,
		Timeout:    cfg.Git.Timeout,
		Progress:   progress,
	})
	if err != nil {
		return err
	}
	defer func() { _ = ws.Close() }()
	logger.Trace().Str("path", ws.Path()).Msg("workspace ready")

	scheduler := newScheduler(cfg, loc, ws, progress)
	err = scheduler.Run(ctx)

	if s := sig.Received(); s != nil {
		logger.Info().Str("signal", s.String()).Msg("shutting down")
	}
	snap := scheduler.Target().Snapshot()
	logger.Debug().Int("cycles", snap.Cycles).Int("changes", snap.Changes).Msg("agent stopped")
	return err
}

// newScheduler wires the cycle stages for one workspace.
func newScheduler(cfg *config.Config, loc *remote.Location, ws workspace.Manager, progress *logging.LineWriter) *spy.Scheduler {
	target := spy.NewTarget(spy.TargetConfig{
		URL:        loc.Redacted(),
		Branch:     cfg.Branch,
		LocalPath:  ws.Path(),
		Command:    cfg.Command,
		Interval:   cfg.Interval(),
		Verbosity:  cfg.Verbosity,
		RunOnStart: cfg.ExecOnStart,
	})

	return spy.New(spy.Options{
		Target:    target,
		Workspace: ws,
		Detector: &goagit.Detector{
			RemoteName: cfg.Remote,
			Branch:     cfg.Branch,
			Timeout:    cfg.Git.Timeout,
			Progress:   progress,
		},
		Reconciler: &goagit.Reconciler{
			Branch:      cfg.Branch,
			AuthorName:  cfg.Git.AuthorName,
			AuthorEmail: cfg.Git.AuthorEmail,
		},
		Executor:        task.NewExecutor(),
		MarkerFile:      cfg.MarkerFile,
		Interval:        cfg.Interval(),
		RunOnStart:      cfg.ExecOnStart,
		ExitOnFirstDiff: cfg.ExitOnFirstDiff,
	})
}
