package git

import (
	"github.com/go-git/go-git/v5/plumbing"
)

// RemoteCommit identifies the fetched remote-tracking commit that differs
// from the local branch.
type RemoteCommit struct {
	Hash    plumbing.Hash
	RefName plumbing.ReferenceName
	Stats   *Stats
}

// MergeKind is the integration strategy chosen for a RemoteCommit.
type MergeKind int

// Merge kinds.
const (
	MergeNoOp MergeKind = iota
	MergeFastForward
	MergeThreeWay
)

// String returns the lower-case name of the kind.
func (k MergeKind) String() string {
	switch k {
	case MergeNoOp:
		return "no-op"
	case MergeFastForward:
		return "fast-forward"
	case MergeThreeWay:
		return "three-way"
	default:
		return "unknown"
	}
}

// MergeDecision is the outcome of classifying local against remote.
// Local is the zero hash when the local branch has no commits yet.
type MergeDecision struct {
	Kind   MergeKind
	Local  plumbing.Hash
	Remote plumbing.Hash
}

// MergeResult describes what Reconcile did.
type MergeResult struct {
	Decision MergeDecision

	// Head is the branch tip after the merge. For a conflicted merge it is
	// unchanged.
	Head plumbing.Hash

	// Conflicts lists the paths left with conflict markers, sorted.
	Conflicts []string
}

// ChangeType represents the type of change for a file.
type ChangeType string

// Change type constants for diff stats.
const (
	ChangeAdded    ChangeType = "A"
	ChangeModified ChangeType = "M"
	ChangeDeleted  ChangeType = "D"
)
