package indent

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// LineEnding is the line terminator convention of a document.
type LineEnding string

const (
	// LF is the Unix convention.
	LF LineEnding = "\n"

	// CRLF is the Windows convention.
	CRLF LineEnding = "\r\n"
)

// String returns a printable name for the ending.
func (e LineEnding) String() string {
	if e == CRLF {
		return "crlf"
	}
	return "lf"
}

// DetectLineEnding returns CRLF if the document contains at least one
// "\r\n" sequence, otherwise LF. Mixed documents take CRLF for every line.
func DetectLineEnding(document string) LineEnding {
	if strings.Contains(document, "\r\n") {
		return CRLF
	}
	return LF
}

// Line is one logical line of the input document.
type Line struct {
	// Index is the 0-based line number.
	Index int

	// Text is the full line without its terminator.
	Text string

	// Leading is the run of leading whitespace.
	Leading string

	// Content is Text with Leading removed.
	Content string

	// Width is the column width of Leading.
	Width int
}

// IsBlank reports whether the line has no content besides whitespace.
func (l Line) IsBlank() bool {
	return l.Content == ""
}

// Trimmed returns the content with trailing whitespace removed.
func (l Line) Trimmed() string {
	return strings.TrimRightFunc(l.Content, unicode.IsSpace)
}

// SplitLines splits a document into lines on either convention.
// An empty document yields a single empty line.
func SplitLines(document string, unit int) []Line {
	unit = normalizeUnit(unit)
	raw := strings.Split(strings.ReplaceAll(document, "\r\n", "\n"), "\n")

	lines := make([]Line, len(raw))
	for i, text := range raw {
		leading, content := splitLeading(text)
		lines[i] = Line{
			Index:   i,
			Text:    text,
			Leading: leading,
			Content: content,
			Width:   MeasureWidth(leading, unit),
		}
	}
	return lines
}

// MeasureWidth returns the column width of a whitespace run. A tab counts
// as one full indent unit, every other rune as one column.
func MeasureWidth(leading string, unit int) int {
	unit = normalizeUnit(unit)
	width := 0
	for _, r := range leading {
		if r == '\t' {
			width += unit
			continue
		}
		width++
	}
	return width
}

// splitLeading separates the leading whitespace of text from the rest.
func splitLeading(text string) (string, string) {
	end := 0
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return text[:end], text[end:]
}

// normalizeUnit coerces a non-positive unit to DefaultIndentUnit.
func normalizeUnit(unit int) int {
	if unit <= 0 {
		return DefaultIndentUnit
	}
	return unit
}
