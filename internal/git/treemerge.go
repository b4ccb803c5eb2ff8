package git

import (
	"os"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// treeMerge is the path-level result of merging two trees against their
// common ancestor.
type treeMerge struct {
	ours      map[string]Entry
	entries   map[string]Entry
	conflicts []string
}

func sameEntry(a Entry, aok bool, b Entry, bok bool) bool {
	if aok != bok {
		return false
	}
	return !aok || a == b
}

// mergeTrees merges ours and theirs path by path. A path changed on only
// one side takes that side. A path changed on both sides is merged line by
// line when both sides are text files, and is a conflict otherwise.
// Conflicted paths keep a best-effort entry (marker text, or the surviving
// side of a modify/delete) so the working tree can show them.
func mergeTrees(s storer.EncodedObjectStorer, base, ours, theirs *object.Tree, oursLabel, theirsLabel string) (*treeMerge, error) {
	b, err := flattenTree(base)
	if err != nil {
		return nil, err
	}
	o, err := flattenTree(ours)
	if err != nil {
		return nil, err
	}
	t, err := flattenTree(theirs)
	if err != nil {
		return nil, err
	}

	paths := make(map[string]struct{}, len(o)+len(t))
	for _, m := range []map[string]Entry{b, o, t} {
		for p := range m {
			paths[p] = struct{}{}
		}
	}

	res := &treeMerge{ours: o, entries: make(map[string]Entry, len(paths))}
	for p := range paths {
		be, bok := b[p]
		oe, ook := o[p]
		te, tok := t[p]

		switch {
		case sameEntry(oe, ook, te, tok):
			if ook {
				res.entries[p] = oe
			}
		case sameEntry(oe, ook, be, bok):
			if tok {
				res.entries[p] = te
			}
		case sameEntry(te, tok, be, bok):
			if ook {
				res.entries[p] = oe
			}
		case ook && tok && oe.IsFile() && te.IsFile():
			e, clean, err := mergeFile(s, be, bok, oe, te, oursLabel, theirsLabel)
			if err != nil {
				return nil, err
			}
			res.entries[p] = e
			if !clean {
				res.conflicts = append(res.conflicts, p)
			}
		default:
			// modify/delete, or a type change on one side
			if ook {
				res.entries[p] = oe
			} else {
				res.entries[p] = te
			}
			res.conflicts = append(res.conflicts, p)
		}
	}

	for _, p := range dirFileCollisions(res.entries) {
		delete(res.entries, p)
		res.conflicts = append(res.conflicts, p)
	}

	sort.Strings(res.conflicts)
	return res, nil
}

// mergeFile merges the content of two text blobs. Binary content is a
// conflict that keeps ours.
func mergeFile(s storer.EncodedObjectStorer, be Entry, bok bool, oe, te Entry, oursLabel, theirsLabel string) (Entry, bool, error) {
	var base []byte
	if bok && be.IsFile() {
		data, err := readBlob(s, be.Hash)
		if err != nil {
			return Entry{}, false, err
		}
		base = data
	}
	ours, err := readBlob(s, oe.Hash)
	if err != nil {
		return Entry{}, false, err
	}
	theirs, err := readBlob(s, te.Hash)
	if err != nil {
		return Entry{}, false, err
	}

	if isBinary(base) || isBinary(ours) || isBinary(theirs) {
		return oe, false, nil
	}

	mode := oe.Mode
	if oe.Mode == be.Mode && bok {
		mode = te.Mode
	}

	merged, clean := mergeText(string(base), string(ours), string(theirs), oursLabel, theirsLabel)
	h, err := WriteBlob(s, []byte(merged))
	if err != nil {
		return Entry{}, false, err
	}
	return Entry{Mode: mode, Hash: h}, clean, nil
}

// writeToWorktree brings fs from the ours tree to the merged entries
// without touching the index or HEAD. Submodule entries are skipped.
func (m *treeMerge) writeToWorktree(s storer.EncodedObjectStorer, fs billy.Filesystem) error {
	for p := range m.ours {
		if _, ok := m.entries[p]; !ok {
			if err := fs.Remove(p); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}

	for p, e := range m.entries {
		if cur, ok := m.ours[p]; ok && cur == e {
			continue
		}
		if e.Mode == filemode.Submodule {
			continue
		}

		data, err := readBlob(s, e.Hash)
		if err != nil {
			return err
		}
		if e.Mode == filemode.Symlink {
			_ = fs.Remove(p)
			if err := fs.Symlink(string(data), p); err != nil {
				return err
			}
			continue
		}

		perm, err := e.Mode.ToOSFileMode()
		if err != nil {
			return err
		}
		if err := util.WriteFile(fs, p, data, perm); err != nil {
			return err
		}
	}
	return nil
}
