package spy_test

import (
	"context"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	goagit "github.com/kitplummer/goa/internal/git"
	"github.com/kitplummer/goa/internal/task"
)

type fakeWorkspace struct {
	path    string
	openErr error

	mu    sync.Mutex
	opens int
}

func (w *fakeWorkspace) Path() string { return w.path }

func (w *fakeWorkspace) Open(context.Context) (*git.Repository, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.opens++
	if w.openErr != nil {
		return nil, w.openErr
	}
	return nil, nil
}

// fakeDetector returns rc/err. When block is non-nil every call signals
// entered and waits for block to close.
type fakeDetector struct {
	rc      *goagit.RemoteCommit
	err     error
	entered chan struct{}
	block   chan struct{}

	mu    sync.Mutex
	calls int
}

func (d *fakeDetector) Detect(ctx context.Context, _ *git.Repository) (*goagit.RemoteCommit, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()

	if d.block != nil {
		d.entered <- struct{}{}
		select {
		case <-d.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return d.rc, d.err
}

func (d *fakeDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeReconciler struct {
	kind goagit.MergeKind
	err  error

	mu    sync.Mutex
	calls int
}

func (r *fakeReconciler) Reconcile(_ context.Context, _ *git.Repository, rc *goagit.RemoteCommit) (*goagit.MergeResult, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()

	res := &goagit.MergeResult{Decision: goagit.MergeDecision{Kind: r.kind, Remote: rc.Hash}}
	if r.err != nil {
		return res, r.err
	}
	if r.kind != goagit.MergeNoOp {
		res.Head = rc.Hash
	}
	return res, nil
}

type fakeExecutor struct {
	result *task.Result
	err    error
	onRun  func()

	mu    sync.Mutex
	dirs  []string
	lines []string
}

func (e *fakeExecutor) Execute(_ context.Context, dir, line string) (*task.Result, error) {
	e.mu.Lock()
	e.dirs = append(e.dirs, dir)
	e.lines = append(e.lines, line)
	e.mu.Unlock()
	if e.onRun != nil {
		e.onRun()
	}
	return e.result, e.err
}

func (e *fakeExecutor) Lines() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.lines...)
}

func change() *goagit.RemoteCommit {
	return &goagit.RemoteCommit{
		Hash:    plumbing.NewHash("0123456789abcdef0123456789abcdef01234567"),
		RefName: plumbing.NewRemoteReferenceName("origin", "main"),
	}
}
