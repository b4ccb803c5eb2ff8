// Package workspace owns the agent's private working copy: choosing its
// path, cloning into it once at startup, locking it against other agents,
// and reopening it at the start of every cycle.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/ctxutil"
	goaerrors "github.com/kitplummer/goa/internal/errors"
	"github.com/kitplummer/goa/internal/flock"
	"github.com/kitplummer/goa/internal/remote"
)

// Manager is the workspace handle used by the scheduler.
type Manager interface {
	// Path returns the workspace directory. It never changes after Prepare.
	Path() string

	// Open reopens the repository. It is called at the start of every cycle
	// and fails with ErrWorkspaceOpen rather than caching a handle.
	Open(ctx context.Context) (*git.Repository, error)

	// Close releases the workspace lock.
	Close() error
}

// Options configures Prepare.
type Options struct {
	// Path is the workspace directory. When empty a scratch path under the
	// OS temp dir is generated.
	Path string

	// RemoteName names the remote created by the clone.
	RemoteName string

	// Timeout bounds the clone.
	Timeout time.Duration

	// Progress receives git sideband progress. May be nil.
	Progress io.Writer
}

// DefaultManager implements Manager for a go-git working copy.
type DefaultManager struct {
	path string

	mu   sync.Mutex
	lock *flock.Lock
}

// Ensure DefaultManager implements Manager.
var _ Manager = (*DefaultManager)(nil)

// ScratchPath returns <root>/goa_wd/<uuid>. root defaults to os.TempDir().
func ScratchPath(root string) string {
	if root == "" {
		root = os.TempDir()
	}
	return filepath.Join(root, constants.ScratchDirName, uuid.NewString())
}

// Prepare clones loc into the workspace and locks it. If the path already
// holds a repository (a restarted agent with --target-path) it is adopted
// and its remote URL refreshed instead. Any failure here is fatal to the
// agent and wraps ErrCloneFailed or ErrWorkspaceLocked.
func Prepare(ctx context.Context, loc *remote.Location, opts Options) (*DefaultManager, error) {
	logger := zerolog.Ctx(ctx).With().Str("component", "workspace").Logger()

	if opts.RemoteName == "" {
		opts.RemoteName = constants.DefaultRemote
	}
	path := opts.Path
	if path == "" {
		path = ScratchPath("")
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, goaerrors.Join(goaerrors.ErrCloneFailed, err)
	}

	if repo, openErr := git.PlainOpen(path); openErr == nil {
		m, lockErr := lockWorkspace(path)
		if lockErr != nil {
			return nil, lockErr
		}
		if err := adoptRemote(repo, opts.RemoteName, loc); err != nil {
			_ = m.Close()
			return nil, goaerrors.Join(goaerrors.ErrCloneFailed, err)
		}
		logger.Info().Str("path", path).Msg("reusing existing workspace")
		return m, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, goaerrors.Join(goaerrors.ErrCloneFailed, err)
	}

	cloneCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		cloneCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	logger.Debug().Str("url", loc.Redacted()).Msg("cloning repository")
	logger.Trace().Str("path", path).Msg("workspace path")

	_, statErr := os.Stat(path)
	createdHere := os.IsNotExist(statErr)

	_, err = git.PlainCloneContext(cloneCtx, path, false, &git.CloneOptions{
		URL:        loc.String(),
		RemoteName: opts.RemoteName,
		Progress:   opts.Progress,
	})
	if errors.Is(err, transport.ErrEmptyRemoteRepository) {
		logger.Warn().Str("url", loc.Redacted()).Msg("remote repository is empty, waiting for a first commit")
		err = initEmpty(path, opts.RemoteName, loc)
	}
	if err != nil {
		if createdHere {
			_ = os.RemoveAll(path)
		}
		return nil, goaerrors.Join(goaerrors.ErrCloneFailed, err)
	}

	m, err := lockWorkspace(path)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("path", path).Msg("repository cloned")
	return m, nil
}

// initEmpty sets up a repository with no commits that tracks an empty
// remote. The first cycle that sees a remote branch fast-forwards onto it.
func initEmpty(path, remoteName string, loc *remote.Location) error {
	repo, err := git.PlainInit(path, false)
	if err != nil {
		return err
	}
	return adoptRemote(repo, remoteName, loc)
}

// lockWorkspace takes the exclusive workspace lock in .git/goa.lock.
func lockWorkspace(path string) (*DefaultManager, error) {
	lock, err := flock.Acquire(filepath.Join(path, git.GitDirName, constants.LockFileName))
	if err != nil {
		return nil, goaerrors.Join(goaerrors.ErrWorkspaceLocked, err)
	}
	return &DefaultManager{path: path, lock: lock}, nil
}

// adoptRemote points an existing repository's remote at loc, creating the
// remote if it is missing.
func adoptRemote(repo *git.Repository, name string, loc *remote.Location) error {
	cfg, err := repo.Config()
	if err != nil {
		return err
	}

	rc, ok := cfg.Remotes[name]
	if !ok {
		rc = &gitconfig.RemoteConfig{
			Name:  name,
			Fetch: []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf(gitconfig.DefaultFetchRefSpec, name))},
		}
		cfg.Remotes[name] = rc
	}
	rc.URLs = []string{loc.String()}

	return repo.SetConfig(cfg)
}

// Path returns the workspace directory.
func (m *DefaultManager) Path() string {
	return m.path
}

// Open reopens the repository at Path.
func (m *DefaultManager) Open(ctx context.Context) (*git.Repository, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	repo, err := git.PlainOpen(m.path)
	if err != nil {
		return nil, goaerrors.Join(goaerrors.ErrWorkspaceOpen, err)
	}
	return repo, nil
}

// Close releases the workspace lock. The directory is left in place.
func (m *DefaultManager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.lock == nil {
		return nil
	}
	err := m.lock.Release()
	m.lock = nil
	return err
}
