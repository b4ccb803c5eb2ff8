package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// FileStat is the per-file line count of a diff.
type FileStat struct {
	Path      string
	Change    ChangeType
	Additions int
	Deletions int
}

// Stats holds aggregated statistics for the diff between the local branch
// and the remote-tracking branch.
type Stats struct {
	NewFiles      int
	ModifiedFiles int
	DeletedFiles  int
	Additions     int
	Deletions     int
	Files         []FileStat
}

// FilesChanged returns the number of files touched by the diff.
func (s *Stats) FilesChanged() int {
	if s == nil {
		return 0
	}
	return s.NewFiles + s.ModifiedFiles + s.DeletedFiles
}

// FormatCompact returns a compact format like "3N 2M 1D +120/-45".
// Returns empty string if there are no changes.
func (s *Stats) FormatCompact() string {
	if s == nil {
		return ""
	}

	var parts []string
	if s.NewFiles > 0 {
		parts = append(parts, strconv.Itoa(s.NewFiles)+"N")
	}
	if s.ModifiedFiles > 0 {
		parts = append(parts, strconv.Itoa(s.ModifiedFiles)+"M")
	}
	if s.DeletedFiles > 0 {
		parts = append(parts, strconv.Itoa(s.DeletedFiles)+"D")
	}
	if s.Additions > 0 || s.Deletions > 0 {
		parts = append(parts, "+"+strconv.Itoa(s.Additions)+"/-"+strconv.Itoa(s.Deletions))
	}
	return strings.Join(parts, " ")
}

// Summary returns the git-style summary line, for example
// "2 files changed, 3 insertions(+), 1 deletion(-)".
func (s *Stats) Summary() string {
	n := s.FilesChanged()
	if n == 0 {
		return "0 files changed"
	}

	var b strings.Builder
	b.WriteString(strconv.Itoa(n))
	b.WriteString(plural(n, " file changed", " files changed"))
	if s.Additions > 0 {
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(s.Additions))
		b.WriteString(plural(s.Additions, " insertion(+)", " insertions(+)"))
	}
	if s.Deletions > 0 {
		b.WriteString(", ")
		b.WriteString(strconv.Itoa(s.Deletions))
		b.WriteString(plural(s.Deletions, " deletion(-)", " deletions(-)"))
	}
	return b.String()
}

// Detail returns the per-file stat block as printed by git diff --stat.
func (s *Stats) Detail() string {
	if s == nil {
		return ""
	}
	fs := make(object.FileStats, 0, len(s.Files))
	for _, f := range s.Files {
		fs = append(fs, object.FileStat{Name: f.Path, Addition: f.Additions, Deletion: f.Deletions})
	}
	return fs.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// statsForChanges computes line statistics for a tree diff. Binary files
// count as changed with zero lines.
func statsForChanges(ctx context.Context, changes object.Changes) (*Stats, error) {
	s := &Stats{}
	for _, c := range changes {
		action, err := c.Action()
		if err != nil {
			return nil, err
		}

		fs := FileStat{}
		switch action {
		case merkletrie.Insert:
			s.NewFiles++
			fs.Change = ChangeAdded
			fs.Path = c.To.Name
		case merkletrie.Delete:
			s.DeletedFiles++
			fs.Change = ChangeDeleted
			fs.Path = c.From.Name
		default:
			s.ModifiedFiles++
			fs.Change = ChangeModified
			fs.Path = c.To.Name
		}

		patch, err := c.PatchContext(ctx)
		if err != nil {
			return nil, err
		}
		for _, st := range patch.Stats() {
			fs.Additions += st.Addition
			fs.Deletions += st.Deletion
		}
		s.Additions += fs.Additions
		s.Deletions += fs.Deletions
		s.Files = append(s.Files, fs)
	}
	return s, nil
}
