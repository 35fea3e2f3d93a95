package indent

import (
	"strings"
	"unicode"
)

// TagKind classifies a markup tag.
type TagKind int

const (
	// TagOpen is an opening tag such as <div>.
	TagOpen TagKind = iota

	// TagClose is a closing tag such as </div>.
	TagClose

	// TagSelfClosing is <br/> or a void element.
	TagSelfClosing
)

// String returns the kind name.
func (k TagKind) String() string {
	switch k {
	case TagOpen:
		return "open"
	case TagClose:
		return "close"
	case TagSelfClosing:
		return "self-closing"
	default:
		return "unknown"
	}
}

// Tag is a markup tag found on one line.
type Tag struct {
	// Name is the lowercase element name.
	Name string

	// Kind is open, close or self-closing.
	Kind TagKind

	// Start is the byte offset of '<'.
	Start int

	// End is the byte offset just past '>', or the line length when the
	// tag continues on the next line.
	End int
}

// voidElements never take a closing tag.
//
//nolint:gochecknoglobals // Read-only lookup table.
var voidElements = map[string]bool{
	"area":    true,
	"base":    true,
	"br":      true,
	"col":     true,
	"command": true,
	"embed":   true,
	"hr":      true,
	"img":     true,
	"input":   true,
	"keygen":  true,
	"link":    true,
	"meta":    true,
	"param":   true,
	"source":  true,
	"track":   true,
	"wbr":     true,
}

// ExtractTags scans a comment-free line for tags. Declarations (<!...>) and
// processing instructions (<?...?>) are skipped, and a '<' not followed by a
// well-formed name is treated as text.
func ExtractTags(text string) []Tag {
	var tags []Tag

	pos := 0
	for pos < len(text) {
		offset := strings.IndexByte(text[pos:], '<')
		if offset < 0 {
			break
		}
		start := pos + offset
		cursor := start + 1
		if cursor >= len(text) {
			break
		}

		if text[cursor] == '!' || text[cursor] == '?' {
			pos, _ = scanTagEnd(text, cursor)
			continue
		}

		kind := TagOpen
		if text[cursor] == '/' {
			kind = TagClose
			cursor++
		}

		nameEnd := scanTagName(text, cursor)
		if nameEnd == cursor || !isNameTerminator(text, nameEnd) {
			pos = start + 1
			continue
		}

		name := asciiLower(text[cursor:nameEnd])
		end, selfClosing := scanTagEnd(text, nameEnd)
		if kind == TagOpen && (selfClosing || voidElements[name]) {
			kind = TagSelfClosing
		}

		tags = append(tags, Tag{Name: name, Kind: kind, Start: start, End: end})
		pos = end
	}

	return tags
}

// LeadingClosers counts the closing tags and closing braces that start the
// trimmed content, consumed greedily. A text-output prefix is skipped first.
func LeadingClosers(content string, withTags, withBraces bool) int {
	rest := textOutputBody(strings.TrimSpace(content))
	count := 0

	for rest != "" {
		switch {
		case withBraces && rest[0] == '}':
			rest = rest[1:]
		case withTags && strings.HasPrefix(rest, "</"):
			nameEnd := scanTagName(rest, 2)
			if nameEnd == 2 || !isNameTerminator(rest, nameEnd) {
				return count
			}
			end, _ := scanTagEnd(rest, nameEnd)
			rest = rest[end:]
		default:
			return count
		}
		count++
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
	}

	return count
}

// scanTagName returns the end of an element name starting at pos.
func scanTagName(text string, pos int) int {
	if pos >= len(text) || !isASCIILetter(text[pos]) {
		return pos
	}
	end := pos + 1
	for end < len(text) {
		c := text[end]
		if !isASCIILetter(c) && (c < '0' || c > '9') && c != '-' && c != ':' && c != '.' && c != '_' {
			break
		}
		end++
	}
	return end
}

// isNameTerminator reports whether the byte at pos may follow a tag name.
func isNameTerminator(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	switch text[pos] {
	case '>', '/', ' ', '\t', '\r', '\n':
		return true
	default:
		return false
	}
}

// scanTagEnd finds the '>' closing a tag, skipping quoted attribute values.
// It returns the offset just past '>' (or len(text)) and whether the tag was
// written self-closing.
func scanTagEnd(text string, pos int) (int, bool) {
	var quote byte
	lastSignificant := byte(0)

	for i := pos; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '>':
			return i + 1, lastSignificant == '/'
		}
		if c != ' ' && c != '\t' {
			lastSignificant = c
		}
	}

	return len(text), false
}
