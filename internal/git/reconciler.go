package git

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/rs/zerolog"

	"github.com/kitplummer/goa/internal/clock"
	"github.com/kitplummer/goa/internal/constants"
	"github.com/kitplummer/goa/internal/ctxutil"
	goaerrors "github.com/kitplummer/goa/internal/errors"
)

// Reconciler integrates a detected RemoteCommit into the local branch.
type Reconciler struct {
	// Branch is the local branch to update.
	Branch string

	// AuthorName and AuthorEmail sign merge commits.
	AuthorName  string
	AuthorEmail string

	// Clock stamps merge commits. Defaults to the wall clock.
	Clock clock.Clock
}

func (r *Reconciler) signature() object.Signature {
	c := r.Clock
	if c == nil {
		c = clock.RealClock{}
	}
	name, email := r.AuthorName, r.AuthorEmail
	if name == "" {
		name = constants.DefaultAuthorName
	}
	if email == "" {
		email = constants.DefaultAuthorEmail
	}
	return object.Signature{Name: name, Email: email, When: c.Now()}
}

// Classify decides how rc relates to the local branch without changing
// anything.
func (r *Reconciler) Classify(repo *git.Repository, rc *RemoteCommit) (MergeDecision, error) {
	d := MergeDecision{Remote: rc.Hash}

	remote, err := repo.CommitObject(rc.Hash)
	if err != nil {
		return d, goaerrors.Join(ErrGitOperation, err)
	}

	ref, err := repo.Reference(plumbing.NewBranchReferenceName(r.Branch), true)
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		d.Kind = MergeFastForward
		return d, nil
	}
	if err != nil {
		return d, goaerrors.Join(ErrGitOperation, err)
	}
	d.Local = ref.Hash()

	if d.Local == d.Remote {
		d.Kind = MergeNoOp
		return d, nil
	}

	local, err := repo.CommitObject(d.Local)
	if err != nil {
		return d, goaerrors.Join(ErrGitOperation, err)
	}

	behind, err := local.IsAncestor(remote)
	if err != nil {
		return d, goaerrors.Join(ErrGitOperation, err)
	}
	if behind {
		d.Kind = MergeFastForward
		return d, nil
	}

	ahead, err := remote.IsAncestor(local)
	if err != nil {
		return d, goaerrors.Join(ErrGitOperation, err)
	}
	if ahead {
		d.Kind = MergeNoOp
		return d, nil
	}

	d.Kind = MergeThreeWay
	return d, nil
}

// Reconcile classifies rc and applies it. A fast-forward moves the branch
// and force-checks it out. A three-way merge commits the merged tree with
// both tips as parents, or, on conflict, writes conflict markers to the
// working tree, leaves the branch untouched and returns an error wrapping
// ErrMergeConflict.
func (r *Reconciler) Reconcile(ctx context.Context, repo *git.Repository, rc *RemoteCommit) (*MergeResult, error) {
	if err := ctxutil.Canceled(ctx); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx).With().Str("stage", "reconcile").Logger()

	d, err := r.Classify(repo, rc)
	if err != nil {
		return nil, err
	}
	res := &MergeResult{Decision: d, Head: d.Local}
	logger.Debug().Str("kind", d.Kind.String()).Msg("merge analysis")

	switch d.Kind {
	case MergeNoOp:
		logger.Info().Msg("up to date")
		return res, nil
	case MergeFastForward:
		if err := r.fastForward(repo, d.Remote); err != nil {
			return nil, err
		}
		res.Head = d.Remote
	case MergeThreeWay:
		head, conflicts, err := r.threeWay(ctx, repo, d, rc.RefName)
		res.Conflicts = conflicts
		if err != nil {
			return res, err
		}
		res.Head = head
	}

	if err := r.logHead(logger, repo, res.Head); err != nil {
		return nil, err
	}
	return res, nil
}

// fastForward points the branch at target, makes it HEAD and forces the
// working tree to match.
func (r *Reconciler) fastForward(repo *git.Repository, target plumbing.Hash) error {
	name := plumbing.NewBranchReferenceName(r.Branch)
	if err := repo.Storer.SetReference(plumbing.NewHashReference(name, target)); err != nil {
		return goaerrors.Join(ErrGitOperation, err)
	}
	return r.checkoutBranch(repo)
}

func (r *Reconciler) checkoutBranch(repo *git.Repository) error {
	name := plumbing.NewBranchReferenceName(r.Branch)
	if err := repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, name)); err != nil {
		return goaerrors.Join(ErrGitOperation, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return goaerrors.Join(ErrGitOperation, err)
	}
	if err := wt.Checkout(&git.CheckoutOptions{Branch: name, Force: true}); err != nil {
		return goaerrors.Join(ErrGitOperation, fmt.Errorf("checkout %s: %w", r.Branch, err))
	}
	return nil
}

func (r *Reconciler) threeWay(ctx context.Context, repo *git.Repository, d MergeDecision, remoteRef plumbing.ReferenceName) (plumbing.Hash, []string, error) {
	logger := zerolog.Ctx(ctx)

	head, err := repo.Head()
	if err != nil || head.Name() != plumbing.NewBranchReferenceName(r.Branch) {
		if err := r.checkoutBranch(repo); err != nil {
			return plumbing.ZeroHash, nil, err
		}
	}

	local, err := repo.CommitObject(d.Local)
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	remote, err := repo.CommitObject(d.Remote)
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}

	bases, err := local.MergeBase(remote)
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	var baseTree *object.Tree
	if len(bases) > 0 {
		logger.Debug().Str("base", shortHash(bases[0].Hash)).Msg("merge base")
		if baseTree, err = bases[0].Tree(); err != nil {
			return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
		}
	}
	localTree, err := local.Tree()
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	remoteTree, err := remote.Tree()
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}

	m, err := mergeTrees(repo.Storer, baseTree, localTree, remoteTree, "HEAD", remoteRef.Short())
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}

	if len(m.conflicts) > 0 {
		wt, err := repo.Worktree()
		if err != nil {
			return plumbing.ZeroHash, m.conflicts, goaerrors.Join(ErrGitOperation, err)
		}
		if err := m.writeToWorktree(repo.Storer, wt.Filesystem); err != nil {
			return plumbing.ZeroHash, m.conflicts, goaerrors.Join(ErrGitOperation, err)
		}
		logger.Warn().Strs("paths", m.conflicts).Msg("merge conflicts, working tree left with conflict markers")
		return plumbing.ZeroHash, m.conflicts, goaerrors.Join(ErrMergeConflict,
			fmt.Errorf("%d conflicted path(s): %s", len(m.conflicts), strings.Join(m.conflicts, ", ")))
	}

	treeHash, err := WriteTree(repo.Storer, m.entries)
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}

	sig := r.signature()
	commit := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      fmt.Sprintf("Merge: %s into %s\n", remoteRef.Short(), r.Branch),
		TreeHash:     treeHash,
		ParentHashes: []plumbing.Hash{d.Local, d.Remote},
	}
	obj := repo.Storer.NewEncodedObject()
	if err := commit.Encode(obj); err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	merged, err := repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	// Reset moves the checked-out branch along with the working tree.
	if err := wt.Reset(&git.ResetOptions{Commit: merged, Mode: git.HardReset}); err != nil {
		return plumbing.ZeroHash, nil, goaerrors.Join(ErrGitOperation, err)
	}
	return merged, nil, nil
}

// logHead shows the new branch tip.
func (r *Reconciler) logHead(logger zerolog.Logger, repo *git.Repository, h plumbing.Hash) error {
	if h.IsZero() {
		return nil
	}
	c, err := repo.CommitObject(h)
	if err != nil {
		return goaerrors.Join(ErrGitOperation, err)
	}
	msg, _, _ := strings.Cut(strings.TrimSpace(c.Message), "\n")
	logger.Info().
		Str("commit", shortHash(c.Hash)).
		Str("author", c.Author.String()).
		Time("date", c.Author.When).
		Msg(msg)
	return nil
}
