package git

import (
	"errors"
	"io"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Entry is a non-directory tree entry: a blob, symlink or submodule.
type Entry struct {
	Mode filemode.FileMode
	Hash plumbing.Hash
}

// IsFile reports whether the entry is a regular or executable file.
func (e Entry) IsFile() bool {
	return e.Mode == filemode.Regular || e.Mode == filemode.Executable ||
		e.Mode == filemode.Deprecated
}

// flattenTree maps every non-directory path in t to its entry. A nil tree
// yields an empty map.
func flattenTree(t *object.Tree) (map[string]Entry, error) {
	out := make(map[string]Entry)
	if t == nil {
		return out, nil
	}

	w := object.NewTreeWalker(t, true, nil)
	defer w.Close()
	for {
		name, e, err := w.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if e.Mode == filemode.Dir {
			continue
		}
		out[name] = Entry{Mode: e.Mode, Hash: e.Hash}
	}
}

// WriteBlob stores data as a blob and returns its hash.
func WriteBlob(s storer.EncodedObjectStorer, data []byte) (plumbing.Hash, error) {
	obj := s.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	w, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return plumbing.ZeroHash, err
	}
	if err := w.Close(); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.SetEncodedObject(obj)
}

// readBlob returns the content of the blob h.
func readBlob(s storer.EncodedObjectStorer, h plumbing.Hash) ([]byte, error) {
	blob, err := object.GetBlob(s, h)
	if err != nil {
		return nil, err
	}
	r, err := blob.Reader()
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()
	return io.ReadAll(r)
}

type dirNode struct {
	files map[string]Entry
	dirs  map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{files: map[string]Entry{}, dirs: map[string]*dirNode{}}
}

// WriteTree builds the nested tree objects for a flat path map and returns
// the root tree hash. Paths use forward slashes. An empty map produces the
// empty tree.
func WriteTree(s storer.EncodedObjectStorer, entries map[string]Entry) (plumbing.Hash, error) {
	root := newDirNode()
	for p, e := range entries {
		dir, name := path.Split(p)
		node := root
		if dir != "" {
			for _, part := range strings.Split(strings.TrimSuffix(dir, "/"), "/") {
				child, ok := node.dirs[part]
				if !ok {
					child = newDirNode()
					node.dirs[part] = child
				}
				node = child
			}
		}
		node.files[name] = e
	}
	return writeDir(s, root)
}

func writeDir(s storer.EncodedObjectStorer, n *dirNode) (plumbing.Hash, error) {
	entries := make([]object.TreeEntry, 0, len(n.files)+len(n.dirs))
	for name, e := range n.files {
		entries = append(entries, object.TreeEntry{Name: name, Mode: e.Mode, Hash: e.Hash})
	}
	for name, child := range n.dirs {
		h, err := writeDir(s, child)
		if err != nil {
			return plumbing.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: filemode.Dir, Hash: h})
	}
	sort.Sort(object.TreeEntrySorter(entries))

	t := &object.Tree{Entries: entries}
	obj := s.NewEncodedObject()
	if err := t.Encode(obj); err != nil {
		return plumbing.ZeroHash, err
	}
	return s.SetEncodedObject(obj)
}

// dirFileCollisions returns paths that are used both as a file and as a
// directory prefix of another path.
func dirFileCollisions(entries map[string]Entry) []string {
	var out []string
	for p := range entries {
		for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
			if _, ok := entries[dir]; ok {
				out = append(out, dir)
			}
		}
	}
	sort.Strings(out)
	return slices.Compact(out)
}
