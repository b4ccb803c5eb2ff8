package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/rs/zerolog"

	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/ctxutil"
	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// Detector fetches a remote and compares the tracked branch against the
// local branch of the same name.
type Detector struct {
	// RemoteName is the remote to fetch. Defaults to "origin".
	RemoteName string

	// Branch is the branch name tracked on both sides.
	Branch string

	// Timeout bounds a single fetch. Zero means no extra bound.
	Timeout time.Duration

	// Progress receives fetch progress. May be nil.
	Progress io.Writer
}

func (d *Detector) remoteName() string {
	if d.RemoteName == "" {
		return constants.DefaultRemote
	}
	return d.RemoteName
}

// Detect fetches all branches of the remote and reports whether the
// remote-tracking branch differs from the local branch. It returns nil
// when the trees are identical. A missing local branch is created at HEAD.
func (d *Detector) Detect(ctx context.Context, repo *git.Repository) (*RemoteCommit, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx).With().Str("stage", "detect").Logger()

	if err := d.fetch(ctx, repo); err != nil {
		if errors.Is(err, transport.ErrEmptyRemoteRepository) {
			logger.Debug().Msg("remote repository is empty")
			return nil, nil
		}
		return nil, err
	}

	local, err := ensureLocalBranch(repo, d.Branch)
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, fmt.Errorf("resolve local branch %q: %w", d.Branch, err))
	}

	refName := remoteTrackingRef(d.remoteName(), d.Branch)
	ref, err := repo.Reference(refName, true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, goaerrors.Join(ErrBranchNotFound, fmt.Errorf("%s", refName.Short()))
	}
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, err)
	}

	localTree, err := treeOf(repo, local)
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, err)
	}
	remoteTree, err := treeOf(repo, ref.Hash())
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, err)
	}

	changes, err := object.DiffTreeContext(ctx, localTree, remoteTree)
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, err)
	}
	if len(changes) == 0 {
		logger.Debug().Str("branch", d.Branch).Msg("no changes detected")
		return nil, nil
	}

	stats, err := statsForChanges(ctx, changes)
	if err != nil {
		return nil, goaerrors.Join(ErrGitOperation, err)
	}

	logger.Info().
		Str("ref", refName.Short()).
		Str("commit", shortHash(ref.Hash())).
		Str("stats", stats.FormatCompact()).
		Msg(stats.Summary())
	logger.Trace().Msg("diff stat\n" + stats.Detail())

	return &RemoteCommit{Hash: ref.Hash(), RefName: refName, Stats: stats}, nil
}

func (d *Detector) fetch(ctx context.Context, repo *git.Repository) error {
	remote := d.remoteName()
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}

	err := repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: remote,
		RefSpecs:   []gitconfig.RefSpec{gitconfig.RefSpec(fmt.Sprintf(gitconfig.DefaultFetchRefSpec, remote))},
		Progress:   d.Progress,
		Tags:       git.NoTags,
	})
	switch {
	case err == nil, errors.Is(err, git.NoErrAlreadyUpToDate):
		return nil
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return err
	default:
		return goaerrors.Join(ErrFetchFailed, err)
	}
}
