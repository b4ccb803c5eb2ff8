package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	goagit "github.com/kitplummer/goa/internal/git"
)

// Repo is a throwaway non-bare repository. Commits are built directly in
// the object store, so the working tree is only updated by Checkout.
type Repo struct {
	t      testing.TB
	Path   string
	Repo   *git.Repository
	Branch string
	seq    int64
}

// RequireGit skips the test when the git binary is unavailable. The
// file:// transport used by clone and fetch shells out to it.
func RequireGit(t testing.TB) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

// NewRepo initializes an empty repository whose HEAD points at branch.
func NewRepo(t testing.TB, branch string) *Repo {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "repo")
	repo, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName(branch)},
	})
	require.NoError(t, err)
	return &Repo{t: t, Path: dir, Repo: repo, Branch: branch}
}

// URL returns a file:// URL for the repository.
func (r *Repo) URL() string {
	return "file://" + filepath.ToSlash(r.Path)
}

// Commit stores a commit whose tree holds exactly files and returns its
// hash. No reference is moved.
func (r *Repo) Commit(msg string, files map[string]string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()
	entries := make(map[string]goagit.Entry, len(files))
	for name, content := range files {
		h, err := goagit.WriteBlob(r.Repo.Storer, []byte(content))
		require.NoError(r.t, err)
		entries[name] = goagit.Entry{Mode: filemode.Regular, Hash: h}
	}
	return r.commitEntries(msg, entries, parents)
}

// CommitOnBranch commits on top of the tip of branch and advances it.
// files overlay the parent tree; an empty content deletes the path.
func (r *Repo) CommitOnBranch(branch, msg string, files map[string]string) plumbing.Hash {
	r.t.Helper()
	entries := map[string]goagit.Entry{}
	var parents []plumbing.Hash

	if tip, ok := r.Tip(branch); ok {
		parents = append(parents, tip)
		c, err := r.Repo.CommitObject(tip)
		require.NoError(r.t, err)
		tree, err := c.Tree()
		require.NoError(r.t, err)
		require.NoError(r.t, tree.Files().ForEach(func(f *object.File) error {
			entries[f.Name] = goagit.Entry{Mode: f.Mode, Hash: f.Hash}
			return nil
		}))
	}

	for name, content := range files {
		if content == "" {
			delete(entries, name)
			continue
		}
		h, err := goagit.WriteBlob(r.Repo.Storer, []byte(content))
		require.NoError(r.t, err)
		entries[name] = goagit.Entry{Mode: filemode.Regular, Hash: h}
	}

	h := r.commitEntries(msg, entries, parents)
	r.SetRef(plumbing.NewBranchReferenceName(branch), h)
	return h
}

func (r *Repo) commitEntries(msg string, entries map[string]goagit.Entry, parents []plumbing.Hash) plumbing.Hash {
	tree, err := goagit.WriteTree(r.Repo.Storer, entries)
	require.NoError(r.t, err)

	r.seq++
	sig := object.Signature{Name: "tester", Email: "tester@example.com", When: time.Unix(1700000000+r.seq, 0).UTC()}
	c := &object.Commit{
		Author:       sig,
		Committer:    sig,
		Message:      msg + "\n",
		TreeHash:     tree,
		ParentHashes: parents,
	}
	obj := r.Repo.Storer.NewEncodedObject()
	require.NoError(r.t, c.Encode(obj))
	h, err := r.Repo.Storer.SetEncodedObject(obj)
	require.NoError(r.t, err)
	return h
}

// SetRef points name at h.
func (r *Repo) SetRef(name plumbing.ReferenceName, h plumbing.Hash) {
	r.t.Helper()
	require.NoError(r.t, r.Repo.Storer.SetReference(plumbing.NewHashReference(name, h)))
}

// Tip returns the commit branch points at.
func (r *Repo) Tip(branch string) (plumbing.Hash, bool) {
	ref, err := r.Repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	if err != nil {
		return plumbing.ZeroHash, false
	}
	return ref.Hash(), true
}

// Checkout makes branch HEAD and forces the working tree to match it.
func (r *Repo) Checkout(branch string) {
	r.t.Helper()
	wt, err := r.Repo.Worktree()
	require.NoError(r.t, err)
	require.NoError(r.t, wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Force:  true,
	}))
}

// FileAt returns the content of name in commit h.
func (r *Repo) FileAt(h plumbing.Hash, name string) string {
	r.t.Helper()
	c, err := r.Repo.CommitObject(h)
	require.NoError(r.t, err)
	f, err := c.File(name)
	require.NoError(r.t, err)
	content, err := f.Contents()
	require.NoError(r.t, err)
	return content
}

// ReadFile returns the content of name under dir.
func ReadFile(t testing.TB, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}
