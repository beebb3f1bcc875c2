// Package diffidx parses a unified diff and answers locality and
// stable-hashing questions about it.
package diffidx

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/sevigo/grepiku/internal/core"
)

// LineKind is the unified-diff marker for one line within a hunk.
type LineKind byte

const (
	LineContext LineKind = ' '
	LineAdded   LineKind = '+'
	LineRemoved LineKind = '-'
)

// DiffLine is one physical line of a hunk, annotated with its old/new line
// numbers (0 when the line does not exist on that side).
type DiffLine struct {
	Kind    LineKind
	Text    string
	OldLine int
	NewLine int
}

// Hunk is one `@@ -old_start,old_count +new_start,new_count @@` block.
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Lines    []DiffLine
	Header   string
}

// Index is the parsed form of a unified diff.
type Index struct {
	files map[string][]Hunk
	order []string
}

var hunkHeaderPrefix = "@@ "

// Parse parses a unified textual diff into an Index.
func Parse(patch string) (*Index, error) {
	idx := &Index{files: make(map[string][]Hunk)}

	lines := strings.Split(patch, "\n")
	var currentPath string
	var currentHunk *Hunk
	oldLine, newLine := 0, 0

	listed := make(map[string]bool)
	list := func(p string) {
		if !listed[p] {
			listed[p] = true
			idx.order = append(idx.order, p)
		}
	}

	flush := func() {
		if currentHunk != nil && currentPath != "" {
			list(currentPath)
			idx.files[currentPath] = append(idx.files[currentPath], *currentHunk)
			currentHunk = nil
		}
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		switch {
		case strings.HasPrefix(line, "diff --git "):
			flush()
			currentPath = ""
		case strings.HasPrefix(line, "+++ "):
			flush()
			path := strings.TrimPrefix(line, "+++ ")
			path = strings.TrimSpace(path)
			if path == "/dev/null" {
				currentPath = ""
				continue
			}
			currentPath = normalizePath(path, "b/")
			list(currentPath)
		case strings.HasPrefix(line, "--- "):
			flush()
			// If +++ never appears (deleted file), fall back to the old path.
			if currentPath == "" {
				path := strings.TrimSpace(strings.TrimPrefix(line, "--- "))
				if path != "/dev/null" {
					currentPath = normalizePath(path, "a/")
				}
			}
		case strings.HasPrefix(line, hunkHeaderPrefix):
			flush()
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, fmt.Errorf("diffidx: %w", err)
			}
			currentHunk = h
			oldLine = h.OldStart
			newLine = h.NewStart
		case currentHunk != nil:
			if line == "" && i == len(lines)-1 {
				continue
			}
			if line == `\ No newline at end of file` {
				continue
			}
			var kind LineKind
			var text string
			if len(line) == 0 {
				kind = LineContext
				text = ""
			} else {
				switch line[0] {
				case '+':
					kind = LineAdded
					text = line[1:]
				case '-':
					kind = LineRemoved
					text = line[1:]
				default:
					kind = LineContext
					if line[0] == ' ' {
						text = line[1:]
					} else {
						text = line
					}
				}
			}
			dl := DiffLine{Kind: kind, Text: text}
			switch kind {
			case LineAdded:
				dl.NewLine = newLine
				newLine++
			case LineRemoved:
				dl.OldLine = oldLine
				oldLine++
			case LineContext:
				dl.OldLine = oldLine
				dl.NewLine = newLine
				oldLine++
				newLine++
			}
			currentHunk.Lines = append(currentHunk.Lines, dl)
		}
	}
	flush()

	return idx, nil
}

// normalizePath strips exactly one leading "a/" or "b/" prefix, but leaves a
// real top-level directory literally named "a" or "b" untouched when the
// diff header itself doubles the prefix (e.g. "a/a/foo.go" -> "a/foo.go").
func normalizePath(path, prefix string) string {
	if strings.HasPrefix(path, prefix) {
		return strings.TrimPrefix(path, prefix)
	}
	return path
}

func parseHunkHeader(line string) (*Hunk, error) {
	body := strings.TrimPrefix(line, hunkHeaderPrefix)
	end := strings.Index(body, " @@")
	if end == -1 {
		return nil, fmt.Errorf("malformed hunk header: %q", line)
	}
	ranges := strings.Fields(body[:end])
	if len(ranges) < 2 {
		return nil, fmt.Errorf("malformed hunk header ranges: %q", line)
	}
	oldStart, oldCount, err := parseRange(ranges[0], "-")
	if err != nil {
		return nil, err
	}
	newStart, newCount, err := parseRange(ranges[1], "+")
	if err != nil {
		return nil, err
	}
	return &Hunk{
		OldStart: oldStart,
		OldCount: oldCount,
		NewStart: newStart,
		NewCount: newCount,
		Header:   line,
	}, nil
}

func parseRange(tok, sign string) (start, count int, err error) {
	tok = strings.TrimPrefix(tok, sign)
	parts := strings.SplitN(tok, ",", 2)
	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad range %q: %w", tok, err)
	}
	count = 1
	if len(parts) == 2 {
		count, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, fmt.Errorf("bad range count %q: %w", tok, err)
		}
	}
	return start, count, nil
}

// Files returns the set of post-image paths present in the diff.
func (idx *Index) Files() []string {
	out := make([]string, len(idx.order))
	copy(out, idx.order)
	return out
}

// Hunks returns the ordered hunk list for a path.
func (idx *Index) Hunks(path string) []Hunk {
	return idx.files[path]
}

// HasPath reports whether the diff touched path at all.
func (idx *Index) HasPath(path string) bool {
	_, ok := idx.files[path]
	return ok
}

// IsLineInDiff reports whether (path, line, side) is touched: on RIGHT the
// line must fall in a hunk's new-range as an added or context line; on LEFT,
// in the old-range as a deleted or context line.
func (idx *Index) IsLineInDiff(path string, line int, side core.DiffSide) bool {
	for _, h := range idx.files[path] {
		for _, dl := range h.Lines {
			if side == core.SideRight && dl.NewLine == line && (dl.Kind == LineAdded || dl.Kind == LineContext) {
				return true
			}
			if side == core.SideLeft && dl.OldLine == line && (dl.Kind == LineRemoved || dl.Kind == LineContext) {
				return true
			}
		}
	}
	return false
}

// findLine locates the hunk and line-index for (path, line, side).
func (idx *Index) findLine(path string, line int, side core.DiffSide) (*Hunk, int, bool) {
	for hi := range idx.files[path] {
		h := &idx.files[path][hi]
		for li, dl := range h.Lines {
			if side == core.SideRight && dl.NewLine == line {
				return h, li, true
			}
			if side == core.SideLeft && dl.OldLine == line {
				return h, li, true
			}
		}
	}
	return nil, 0, false
}

// HunkHash returns a stable 16-hex digest over the full hunk text containing
// (path, line, side). It is invariant under line-number shifts caused by
// unrelated edits elsewhere in the file — it hashes the hunk's *content*,
// not its position.
func (idx *Index) HunkHash(path string, line int, side core.DiffSide) (string, bool) {
	h, _, ok := idx.findLine(path, line, side)
	if !ok {
		return "", false
	}
	var sb strings.Builder
	sb.WriteString(path)
	for _, dl := range h.Lines {
		sb.WriteByte(byte(dl.Kind))
		sb.WriteString(dl.Text)
		sb.WriteByte('\n')
	}
	return digest16(sb.String()), true
}

// ContextHash returns a stable 16-hex digest over the ±3 unchanged lines
// surrounding (path, line, side), used to re-anchor a finding when its hunk
// itself shifts but the immediate context survives.
func (idx *Index) ContextHash(path string, line int, side core.DiffSide) (string, bool) {
	h, li, ok := idx.findLine(path, line, side)
	if !ok {
		return "", false
	}
	lo := li - 3
	if lo < 0 {
		lo = 0
	}
	hi := li + 3
	if hi >= len(h.Lines) {
		hi = len(h.Lines) - 1
	}
	var sb strings.Builder
	sb.WriteString(path)
	for i := lo; i <= hi; i++ {
		dl := h.Lines[i]
		if dl.Kind != LineContext {
			continue
		}
		sb.WriteString(dl.Text)
		sb.WriteByte('\n')
	}
	return digest16(sb.String()), true
}

func digest16(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}
