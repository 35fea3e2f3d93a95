package indent

import (
	"strings"
	"unicode"
)

// blockResult holds the rendered lines of one raw block.
type blockResult struct {
	texts      []string
	widths     []int
	reindented bool
}

// textRun tracks consecutive text-output lines inside a block.
type textRun struct {
	open bool
	base int
}

// reindentBlock rewrites the inner lines of blk relative to its parent.
// Blocks that mix directive lines with plain lines, and every block when raw
// reindentation is disabled, are returned unchanged.
func reindentBlock(lines []Line, blk RawBlock, opts Options) blockResult {
	inner := lines[blk.Start : blk.End+1]
	if !opts.ReindentRawBlocks || isAmbiguousRemix(inner) {
		return restoreBlock(inner)
	}

	unit := opts.IndentUnit
	base := (blk.ParentLevel + 1) * unit
	withTags := blk.Tag == textTag

	res := blockResult{
		texts:      make([]string, len(inner)),
		widths:     make([]int, len(inner)),
		reindented: true,
	}

	var (
		level        int
		comment      CommentState
		blockComment bool
		switches     switchStack
		run          textRun
	)

	for i, line := range inner {
		if line.IsBlank() {
			run.open = false
			continue
		}

		view := line.Content
		if withTags {
			view, comment = StripComments(view, comment)
		}
		trimmed := strings.TrimSpace(view)
		code := textOutputBody(trimmed)
		textOutput := isTextOutput(strings.TrimSpace(line.Content))

		leading := LeadingClosers(trimmed, withTags, !blockComment)
		printed := max(0, level-leading)
		label := isCaseLabel(code)
		extra := switches.extra(printed, label)

		if textOutput {
			if !run.open {
				run = textRun{open: true, base: printed}
			}
			width := base + run.base*unit
			offset := max(0, (printed-run.base+extra)*unit)
			res.widths[i] = width
			res.texts[i] = spaces(width) + renderTextOutput(line.Content, offset)
		} else {
			run.open = false
			width := base + (printed+extra)*unit
			res.widths[i] = width
			res.texts[i] = spaces(width) + line.Content
		}

		opens, closes := 0, 0
		if withTags && isMarkupStart(trimmed) {
			for _, tag := range ExtractTags(view) {
				switch tag.Kind {
				case TagOpen:
					opens++
				case TagClose:
					closes++
				case TagSelfClosing:
				}
			}
		}
		braces := CountBraces(view, blockComment)
		blockComment = braces.InBlockComment
		opens += braces.Open
		closes += braces.Close

		before := level
		level = max(0, level+opens-closes)
		switches.observe(printed, label, isSwitchHeader(code), before, level, opens)
	}

	return res
}

// restoreBlock keeps every line exactly as written.
func restoreBlock(inner []Line) blockResult {
	res := blockResult{
		texts:  make([]string, len(inner)),
		widths: make([]int, len(inner)),
	}
	for i, line := range inner {
		res.texts[i] = line.Text
		res.widths[i] = line.Width
	}
	return res
}

// isAmbiguousRemix reports whether a block contains both directive lines and
// plain, non-sigil lines. Text-output lines count as neither.
func isAmbiguousRemix(inner []Line) bool {
	directive, plain := false, false
	for _, line := range inner {
		trimmed := strings.TrimSpace(line.Content)
		switch {
		case trimmed == "" || isTextOutput(trimmed):
			continue
		case isDirective(trimmed):
			directive = true
		default:
			plain = true
		}
		if directive && plain {
			return true
		}
	}
	return false
}

// renderTextOutput rebuilds a text-output line so its content sits offset
// columns after the prefix. A zero offset keeps the line as written.
func renderTextOutput(content string, offset int) string {
	if offset <= 0 {
		return content
	}
	body := strings.TrimLeftFunc(content[len(TextOutputPrefix):], unicode.IsSpace)
	if body == "" {
		return TextOutputPrefix
	}
	return TextOutputPrefix + " " + spaces(offset) + body
}
