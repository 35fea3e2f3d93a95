// Package diff renders line-oriented unified diffs between a template and
// its formatted output.
package diff

import (
	"fmt"
	"strings"

	"fortio.org/safecast"
)

// Op is the kind of a diff line.
type Op int

const (
	// Equal is an unchanged context line.
	Equal Op = iota

	// Insert is a line present only in the formatted text.
	Insert

	// Delete is a line present only in the original text.
	Delete
)

// Prefix returns the unified diff marker for the op.
func (o Op) Prefix() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	default:
		return " "
	}
}

// ContextLines is the number of unchanged lines shown around each change.
const ContextLines = 3

// maxTableCells bounds the LCS table; larger middles are shown as one
// replacement.
const maxTableCells = 1 << 24

// Line is one line of a hunk.
type Line struct {
	Op   Op
	Text string
}

// Hunk is a run of changes with surrounding context. Starts are 1-based.
type Hunk struct {
	OldStart, OldLines int
	NewStart, NewLines int
	Lines              []Line
}

// Diff is the set of hunks turning one text into another.
type Diff struct {
	Path    string
	Hunks   []Hunk
	Added   int
	Removed int
}

// Compute diffs before against after. It returns nil when the texts have
// the same lines. Carriage returns are ignored so that CRLF documents diff
// line by line.
func Compute(path, before, after string) *Diff {
	oldLines := splitLines(before)
	newLines := splitLines(after)

	ops := align(oldLines, newLines)

	d := &Diff{Path: path}
	for _, op := range ops {
		switch op.Op {
		case Insert:
			d.Added++
		case Delete:
			d.Removed++
		}
	}
	if d.Added == 0 && d.Removed == 0 {
		return nil
	}

	d.Hunks = group(ops)
	return d
}

// HasChanges reports whether d contains any hunk.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// String returns the unified diff with ---/+++ headers.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n", path)
	fmt.Fprintf(&builder, "+++ b/%s\n", path)

	for _, hunk := range d.Hunks {
		builder.WriteString(hunk.Header())
		builder.WriteByte('\n')
		for _, line := range hunk.Lines {
			builder.WriteString(line.Op.Prefix())
			builder.WriteString(line.Text)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// Header returns the "@@ -a,b +c,d @@" line of the hunk.
func (h Hunk) Header() string {
	return fmt.Sprintf("@@ -%s +%s @@", span(h.OldStart, h.OldLines), span(h.NewStart, h.NewLines))
}

func span(start, count int) string {
	if count == 0 {
		// An empty range names the line before it.
		return fmt.Sprintf("%d,0", start-1)
	}
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// splitLines splits text into lines. A final newline does not start a new
// line, so "a\n" and "a" both have one line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// align returns the edit script between a and b. Common prefix and suffix
// are matched directly; the middle uses a longest common subsequence.
func align(a, b []string) []Line {
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}

	ops := make([]Line, 0, len(a)+len(b))
	for _, text := range a[:prefix] {
		ops = append(ops, Line{Op: Equal, Text: text})
	}
	ops = append(ops, alignMiddle(a[prefix:len(a)-suffix], b[prefix:len(b)-suffix])...)
	for _, text := range a[len(a)-suffix:] {
		ops = append(ops, Line{Op: Equal, Text: text})
	}

	return ops
}

func alignMiddle(a, b []string) []Line {
	var ops []Line
	if len(a) == 0 || len(b) == 0 || !fitsTable(len(a), len(b)) {
		for _, text := range a {
			ops = append(ops, Line{Op: Delete, Text: text})
		}
		for _, text := range b {
			ops = append(ops, Line{Op: Insert, Text: text})
		}
		return ops
	}

	// table[i][j] is the LCS length of a[i:] and b[j:].
	table := make([][]int32, len(a)+1)
	for i := range table {
		table[i] = make([]int32, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			ops = append(ops, Line{Op: Equal, Text: a[i]})
			i++
			j++
		case table[i+1][j] >= table[i][j+1]:
			ops = append(ops, Line{Op: Delete, Text: a[i]})
			i++
		default:
			ops = append(ops, Line{Op: Insert, Text: b[j]})
			j++
		}
	}
	for ; i < len(a); i++ {
		ops = append(ops, Line{Op: Delete, Text: a[i]})
	}
	for ; j < len(b); j++ {
		ops = append(ops, Line{Op: Insert, Text: b[j]})
	}

	return ops
}

// fitsTable reports whether an LCS table for n by m lines stays within
// maxTableCells. Table entries are int32.
func fitsTable(n, m int) bool {
	rows, err := safecast.Conv[int32](n + 1)
	if err != nil {
		return false
	}
	cols, err := safecast.Conv[int32](m + 1)
	if err != nil {
		return false
	}
	return int64(rows)*int64(cols) <= maxTableCells
}

// group cuts the edit script into hunks, merging changes separated by at
// most 2*ContextLines unchanged lines.
func group(ops []Line) []Hunk {
	var hunks []Hunk

	oldLine, newLine := 1, 1
	var current *Hunk
	trailing := 0 // unchanged lines at the end of current

	for idx, op := range ops {
		if op.Op != Equal {
			if current == nil {
				start := max(0, idx-ContextLines)
				current = &Hunk{
					OldStart: oldLine - (idx - start),
					NewStart: newLine - (idx - start),
				}
				for _, ctx := range ops[start:idx] {
					current.Lines = append(current.Lines, ctx)
					current.OldLines++
					current.NewLines++
				}
			}
			current.Lines = append(current.Lines, op)
			if op.Op == Delete {
				current.OldLines++
				oldLine++
			} else {
				current.NewLines++
				newLine++
			}
			trailing = 0
			continue
		}

		if current != nil {
			if trailing < 2*ContextLines {
				current.Lines = append(current.Lines, op)
				current.OldLines++
				current.NewLines++
				trailing++
			} else {
				hunks = append(hunks, trim(*current, trailing))
				current = nil
			}
		}
		oldLine++
		newLine++
	}

	if current != nil {
		hunks = append(hunks, trim(*current, trailing))
	}

	return hunks
}

// trim drops context beyond ContextLines from the end of a hunk.
func trim(h Hunk, trailing int) Hunk {
	extra := trailing - ContextLines
	if extra > 0 {
		h.Lines = h.Lines[:len(h.Lines)-extra]
		h.OldLines -= extra
		h.NewLines -= extra
	}
	return h
}
