package indent

import (
	"regexp"
	"strings"
	"unicode"
)

// TextOutputPrefix introduces a line of literal text emitted from directive code.
const TextOutputPrefix = "@:"

// Container tags whose bodies are captured and reindented as sub-documents.
const (
	textTag   = "text"
	scriptTag = "script"
	styleTag  = "style"
)

//nolint:gochecknoglobals // Compiled once, read-only.
var (
	caseLabelPattern    = regexp.MustCompile(`^(?:case\b|default\s*:)`)
	breakPattern        = regexp.MustCompile(`^break\s*(?:;|$|//)`)
	switchHeaderPattern = regexp.MustCompile(`\bswitch\s*\(`)
)

// isCaptureTag reports whether a tag opens a raw block.
func isCaptureTag(name string) bool {
	return name == textTag || name == scriptTag || name == styleTag
}

// isRawCodeTag reports whether a tag holds script or style code.
func isRawCodeTag(name string) bool {
	return name == scriptTag || name == styleTag
}

// isTextOutput reports whether trimmed content is a text-output line.
func isTextOutput(trimmed string) bool {
	return strings.HasPrefix(trimmed, TextOutputPrefix)
}

// textOutputBody returns the content after the text-output prefix, or the
// input unchanged when there is no prefix.
func textOutputBody(trimmed string) string {
	if !isTextOutput(trimmed) {
		return trimmed
	}
	return strings.TrimLeftFunc(trimmed[len(TextOutputPrefix):], unicode.IsSpace)
}

// isMarkupStart reports whether trimmed content begins with a tag opener,
// directly or after the text-output prefix.
func isMarkupStart(trimmed string) bool {
	body := textOutputBody(trimmed)
	if len(body) < 2 || body[0] != '<' {
		return false
	}
	next := body[1]
	return isASCIILetter(next) || next == '/' || next == '!'
}

// isDirective reports whether trimmed content is directive code, i.e.
// sigil-prefixed but not a text-output line.
func isDirective(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@") && !isTextOutput(trimmed)
}

func isCaseLabel(code string) bool {
	return caseLabelPattern.MatchString(code)
}

func isBreak(code string) bool {
	return breakPattern.MatchString(code)
}

func isSwitchHeader(code string) bool {
	return switchHeaderPattern.MatchString(code)
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// asciiLower lowercases ASCII letters only, so byte offsets stay valid.
func asciiLower(s string) string {
	buf := []byte(s)
	for i, c := range buf {
		if c >= 'A' && c <= 'Z' {
			buf[i] = c + ('a' - 'A')
		}
	}
	return string(buf)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
