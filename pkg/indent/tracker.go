package indent

import (
	"strings"
)

// Unresolved marks a plan entry whose line keeps its original indentation
// unless a later pass assigns one.
const Unresolved = -1

// RawBlock is the inner content of a <text>, <script> or <style> container,
// captured by the document pass and reindented on its own.
type RawBlock struct {
	// Start and End are the 0-based indexes of the first and last inner line.
	Start int
	End   int

	// Tag is the lowercase container name.
	Tag string

	// ParentLevel is the nesting level of the line that opened the block.
	ParentLevel int

	// Skip is set when the closing tag was never found.
	Skip bool
}

// Len returns the number of inner lines.
func (b RawBlock) Len() int {
	return b.End - b.Start + 1
}

// Plan is the result of the document pass.
type Plan struct {
	// Widths holds one target width per line, or Unresolved.
	Widths []int

	// Blocks lists the raw blocks in document order.
	Blocks []RawBlock
}

// capture is a raw block whose closing tag has not been seen yet.
type capture struct {
	tag    string
	start  int
	parent int
	depth  int
}

// closeIndex returns the offset of the tag that ends the capture on line, or
// -1 when the capture continues.
func (c *capture) closeIndex(line string) int {
	if isRawCodeTag(c.tag) {
		lower := asciiLower(line)
		marker := "</" + c.tag
		from := 0
		for {
			idx := strings.Index(lower[from:], marker)
			if idx < 0 {
				return -1
			}
			at := from + idx
			if isNameTerminator(lower, at+len(marker)) {
				return at
			}
			from = at + len(marker)
		}
	}

	for _, tag := range ExtractTags(line) {
		if tag.Name != c.tag {
			continue
		}
		switch tag.Kind {
		case TagOpen:
			c.depth++
		case TagClose:
			c.depth--
			if c.depth == 0 {
				return tag.Start
			}
		case TagSelfClosing:
		}
	}
	return -1
}

// tracker walks the document once, computing nesting levels.
type tracker struct {
	unit  int
	lines []Line
	plan  Plan

	level        int
	comment      CommentState
	blockComment bool
	rawTag       string
	switches     switchStack
	capture      *capture
}

// Track runs the document pass over lines.
func Track(lines []Line, unit int) Plan {
	t := &tracker{
		unit:  normalizeUnit(unit),
		lines: lines,
		plan:  Plan{Widths: make([]int, len(lines))},
	}
	t.run()
	return t.plan
}

func (t *tracker) run() {
	for i, line := range t.lines {
		view := line.Content
		forceMarkup := false

		if t.capture != nil {
			idx := t.capture.closeIndex(line.Content)
			if idx < 0 {
				t.plan.Widths[i] = Unresolved
				continue
			}
			t.finishCapture(i-1, false)
			view = line.Content[idx:]
			forceMarkup = true
		}

		t.scanLine(i, view, forceMarkup)
	}

	if t.capture != nil {
		t.finishCapture(len(t.lines)-1, true)
	}
}

func (t *tracker) finishCapture(end int, skip bool) {
	c := t.capture
	t.capture = nil
	if end < c.start {
		return
	}
	t.plan.Blocks = append(t.plan.Blocks, RawBlock{
		Start:       c.start,
		End:         end,
		Tag:         c.tag,
		ParentLevel: c.parent,
		Skip:        skip,
	})
}

// scanLine assigns the width of line i and advances the nesting state using
// view, the part of the line that belongs to the document level.
func (t *tracker) scanLine(i int, view string, forceMarkup bool) {
	cleaned, next := StripComments(view, t.comment)
	t.comment = next

	trimmed := strings.TrimSpace(cleaned)
	markup := forceMarkup || isMarkupStart(trimmed)
	code := textOutputBody(trimmed)

	leading := LeadingClosers(trimmed, true, !t.blockComment)
	printed := max(0, t.level-leading)
	label := !markup && isCaseLabel(code)
	header := !markup && isSwitchHeader(code)

	if t.lines[i].IsBlank() {
		t.plan.Widths[i] = 0
	} else {
		t.plan.Widths[i] = (printed + t.switches.extra(printed, label)) * t.unit
	}

	opens, closes, opened := t.count(cleaned, markup)

	before := t.level
	t.level = max(0, t.level+opens-closes)
	t.switches.observe(printed, label, header, before, t.level, opens)

	if opened != "" {
		if isRawCodeTag(opened) {
			t.rawTag = opened
		}
		parent := max(0, t.level-1, t.plan.Widths[i]/t.unit)
		t.capture = &capture{tag: opened, start: i + 1, parent: parent, depth: 1}
	}
}

// count returns the openings and closings on a cleaned line, and the name of
// a container tag left open at its end.
func (t *tracker) count(cleaned string, markup bool) (int, int, string) {
	if t.rawTag != "" && strings.Contains(asciiLower(cleaned), "</"+t.rawTag) {
		t.rawTag = ""
		return 0, 1, ""
	}

	opens, closes := 0, 0
	scan := cleaned
	opened := ""

	if markup {
		tags := ExtractTags(cleaned)
		if idx := openCaptureIndex(tags); idx >= 0 {
			opened = tags[idx].Name
			scan = cleaned[:tags[idx].End]
			tags = tags[:idx+1]
		}
		for _, tag := range tags {
			switch tag.Kind {
			case TagOpen:
				opens++
			case TagClose:
				closes++
			case TagSelfClosing:
			}
		}
	}

	braces := CountBraces(scan, t.blockComment)
	t.blockComment = braces.InBlockComment

	return opens + braces.Open, closes + braces.Close, opened
}

// openCaptureIndex returns the index of the last container tag that is not
// closed later on the same line, or -1.
func openCaptureIndex(tags []Tag) int {
	for i := len(tags) - 1; i >= 0; i-- {
		tag := tags[i]
		if tag.Kind != TagOpen || !isCaptureTag(tag.Name) {
			continue
		}
		depth := 1
		for _, later := range tags[i+1:] {
			if later.Name != tag.Name {
				continue
			}
			switch later.Kind {
			case TagOpen:
				depth++
			case TagClose:
				depth--
			case TagSelfClosing:
			}
		}
		if depth > 0 {
			return i
		}
	}
	return -1
}
