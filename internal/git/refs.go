package git

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// remoteTrackingRef returns refs/remotes/<remote>/<branch>.
func remoteTrackingRef(remoteName, branch string) plumbing.ReferenceName {
	return plumbing.NewRemoteReferenceName(remoteName, branch)
}

// ensureLocalBranch returns the tip of refs/heads/<branch>, creating the
// branch at HEAD when it does not exist. It returns the zero hash when the
// repository has no commits at all.
func ensureLocalBranch(repo *git.Repository, branch string) (plumbing.Hash, error) {
	name := plumbing.NewBranchReferenceName(branch)
	ref, err := repo.Reference(name, true)
	if err == nil {
		return ref.Hash(), nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, err
	}

	head, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if err := repo.Storer.SetReference(plumbing.NewHashReference(name, head.Hash())); err != nil {
		return plumbing.ZeroHash, err
	}
	return head.Hash(), nil
}

// treeOf returns the tree of commit h, or nil for the zero hash.
func treeOf(repo *git.Repository, h plumbing.Hash) (*object.Tree, error) {
	if h.IsZero() {
		return nil, nil
	}
	c, err := repo.CommitObject(h)
	if err != nil {
		return nil, err
	}
	return c.Tree()
}

// shortHash returns the first seven hex digits of h.
func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
