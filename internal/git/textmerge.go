package git

import (
	"bytes"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/utils/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// binarySniffLen matches the prefix git inspects when guessing whether a
// blob is binary.
const binarySniffLen = 8000

// Conflict marker prefixes.
const (
	markerOurs   = "<<<<<<< "
	markerSep    = "======="
	markerTheirs = ">>>>>>> "
)

// isBinary reports whether data looks like binary content.
func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

// hunk replaces base lines [start, end) with lines.
type hunk struct {
	start, end int
	lines      []string
}

// splitLines splits s after every newline. A trailing line without a
// newline is kept as is.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// hunksBetween returns the edits that turn base into other, in base order.
func hunksBetween(base, other string) []hunk {
	var (
		out []hunk
		cur *hunk
		pos int
	)
	flush := func() {
		if cur != nil {
			out = append(out, *cur)
			cur = nil
		}
	}

	for _, d := range diff.Do(base, other) {
		lines := splitLines(d.Text)
		if len(lines) == 0 {
			continue
		}
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			flush()
			pos += len(lines)
		case diffmatchpatch.DiffDelete:
			if cur == nil {
				cur = &hunk{start: pos, end: pos}
			}
			cur.end += len(lines)
			pos += len(lines)
		case diffmatchpatch.DiffInsert:
			if cur == nil {
				cur = &hunk{start: pos, end: pos}
			}
			cur.lines = append(cur.lines, lines...)
		}
	}
	flush()
	return out
}

// applyRegion returns base[start:end] with hunks applied. Every hunk must
// lie inside the region.
func applyRegion(base []string, start, end int, hunks []hunk) []string {
	var out []string
	pos := start
	for _, h := range hunks {
		out = append(out, base[pos:h.start]...)
		out = append(out, h.lines...)
		pos = h.end
	}
	return append(out, base[pos:end]...)
}

// mergeText performs a line-based three-way merge. Changes from ours and
// theirs that touch the same or adjacent base lines conflict unless they
// are identical. The result always holds the merged text; when clean is
// false the conflicting regions are wrapped in markers labelled with
// oursLabel and theirsLabel.
func mergeText(base, ours, theirs, oursLabel, theirsLabel string) (merged string, clean bool) {
	baseLines := splitLines(base)
	oh := hunksBetween(base, ours)
	th := hunksBetween(base, theirs)

	var b strings.Builder
	clean = true
	pos := 0
	i, j := 0, 0

	for i < len(oh) || j < len(th) {
		// Seed the group with whichever hunk starts first.
		var groupOurs, groupTheirs []hunk
		var start, end int
		if j >= len(th) || (i < len(oh) && oh[i].start <= th[j].start) {
			start, end = oh[i].start, oh[i].end
			groupOurs = append(groupOurs, oh[i])
			i++
		} else {
			start, end = th[j].start, th[j].end
			groupTheirs = append(groupTheirs, th[j])
			j++
		}

		// Pull in every hunk that overlaps or touches the group.
	grow:
		for {
			switch {
			case i < len(oh) && oh[i].start <= end:
				groupOurs = append(groupOurs, oh[i])
				end = max(end, oh[i].end)
				i++
			case j < len(th) && th[j].start <= end:
				groupTheirs = append(groupTheirs, th[j])
				end = max(end, th[j].end)
				j++
			default:
				break grow
			}
		}

		writeLines(&b, baseLines[pos:start])
		pos = end

		oursRegion := applyRegion(baseLines, start, end, groupOurs)
		theirsRegion := applyRegion(baseLines, start, end, groupTheirs)
		switch {
		case len(groupTheirs) == 0:
			writeLines(&b, oursRegion)
		case len(groupOurs) == 0:
			writeLines(&b, theirsRegion)
		case slices.Equal(oursRegion, theirsRegion):
			writeLines(&b, oursRegion)
		default:
			clean = false
			b.WriteString(markerOurs + oursLabel + "\n")
			writeTerminated(&b, oursRegion)
			b.WriteString(markerSep + "\n")
			writeTerminated(&b, theirsRegion)
			b.WriteString(markerTheirs + theirsLabel + "\n")
		}
	}

	writeLines(&b, baseLines[pos:])
	return b.String(), clean
}

func writeLines(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString(l)
	}
}

// writeTerminated writes lines and makes sure the output ends in a newline
// so the following marker starts on its own line.
func writeTerminated(b *strings.Builder, lines []string) {
	writeLines(b, lines)
	if n := len(lines); n > 0 && !strings.HasSuffix(lines[n-1], "\n") {
		b.WriteString("\n")
	}
}
