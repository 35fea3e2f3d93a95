package indent

import (
	"strings"
)

// DefaultIndentUnit is the number of spaces per nesting level.
const DefaultIndentUnit = 2

// Options controls a formatting run.
type Options struct {
	// IndentUnit is the number of spaces per nesting level. Values <= 0 use
	// DefaultIndentUnit.
	IndentUnit int

	// ReindentRawBlocks enables reindentation of <text>, <script> and
	// <style> bodies. When false they keep their original indentation.
	ReindentRawBlocks bool

	// SeparateCases inserts a separator between a break and the following
	// case label inside reindented blocks.
	SeparateCases bool
}

// DefaultOptions returns the default formatting options.
func DefaultOptions() Options {
	return Options{
		IndentUnit:        DefaultIndentUnit,
		ReindentRawBlocks: true,
		SeparateCases:     true,
	}
}

// normalized fills in defaults for invalid values.
func (o Options) normalized() Options {
	o.IndentUnit = normalizeUnit(o.IndentUnit)
	return o
}

// ChangeKind classifies a change log entry.
type ChangeKind int

const (
	// ChangeNone is the single entry reported when nothing changed.
	ChangeNone ChangeKind = iota

	// ChangeIndent is a leading-width change on one input line.
	ChangeIndent

	// ChangeSeparator is a separator line inserted before an input line.
	ChangeSeparator
)

// String returns the kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeNone:
		return "none"
	case ChangeIndent:
		return "indent"
	case ChangeSeparator:
		return "separator"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k ChangeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Change is one entry of the change log.
type Change struct {
	Kind ChangeKind `json:"kind"`

	// Line is the 1-based input line. For separators it is the line the
	// separator was inserted before.
	Line int `json:"line,omitempty"`

	// Before and After are leading widths, set for ChangeIndent.
	Before int `json:"before"`
	After  int `json:"after"`
}

// Result is the outcome of Format.
type Result struct {
	// Output is the formatted document, joined with Ending.
	Output string

	// Changes lists what was changed, ordered by input line.
	Changes []Change

	// Ending is the line ending detected in the input.
	Ending LineEnding

	// Inserted is the number of separator lines added.
	Inserted int

	// Blocks lists the raw blocks found in the input.
	Blocks []RawBlock
}

// Changed reports whether Output differs from the input.
func (r *Result) Changed() bool {
	for _, change := range r.Changes {
		if change.Kind != ChangeNone {
			return true
		}
	}
	return false
}

// Format recomputes the leading whitespace of every line of document. Only
// indentation changes, plus separator lines between a break and the next case
// label inside reindented raw blocks. The output is checked against the
// input; on mismatch the input is returned unchanged together with a
// *DriftError.
func Format(document string, opts Options) (*Result, error) {
	opts = opts.normalized()
	unit := opts.IndentUnit

	ending := DetectLineEnding(document)
	lines := SplitLines(document, unit)
	plan := Track(lines, unit)

	rendered := make([]string, len(lines))
	widths := make([]int, len(lines))
	for i, line := range lines {
		switch width := plan.Widths[i]; {
		case width == Unresolved:
			rendered[i] = line.Text
			widths[i] = line.Width
		case line.IsBlank():
			rendered[i] = ""
		default:
			rendered[i] = spaces(width) + line.Content
			widths[i] = width
		}
	}

	separators := make(map[int]string)
	for _, blk := range plan.Blocks {
		if blk.Skip {
			continue
		}
		res := reindentBlock(lines, blk, opts)
		copy(rendered[blk.Start:], res.texts)
		copy(widths[blk.Start:], res.widths)

		if res.reindented && opts.SeparateCases {
			for idx, separator := range layoutCases(rendered, blk) {
				separators[idx] = separator
			}
		}
	}

	output := make([]string, 0, len(lines)+len(separators))
	for i := range lines {
		if separator, ok := separators[i]; ok {
			output = append(output, separator)
		}
		output = append(output, rendered[i])
	}

	original := make([]string, len(lines))
	for i, line := range lines {
		original[i] = line.Text
	}

	if err := Validate(original, output, len(separators) > 0); err != nil {
		return &Result{Output: document, Ending: ending, Blocks: plan.Blocks}, err
	}

	return &Result{
		Output:   strings.Join(output, string(ending)),
		Changes:  changeLog(lines, rendered, widths, separators),
		Ending:   ending,
		Inserted: len(separators),
		Blocks:   plan.Blocks,
	}, nil
}

// changeLog lists rewritten lines and insertions in input order. A separator
// is listed before the change of the line it precedes.
func changeLog(lines []Line, rendered []string, widths []int, separators map[int]string) []Change {
	var changes []Change
	for i, line := range lines {
		if _, ok := separators[i]; ok {
			changes = append(changes, Change{Kind: ChangeSeparator, Line: i + 1})
		}
		if widths[i] != line.Width || rendered[i] != line.Text {
			changes = append(changes, Change{
				Kind:   ChangeIndent,
				Line:   i + 1,
				Before: line.Width,
				After:  widths[i],
			})
		}
	}

	if len(changes) == 0 {
		return []Change{{Kind: ChangeNone}}
	}
	return changes
}
