package indent

// BraceCount is the result of scanning one line for code braces.
type BraceCount struct {
	Open  int
	Close int

	// InBlockComment is true when a /* comment is still open at line end.
	InBlockComment bool
}

// CountBraces counts '{' and '}' outside string literals, template literals
// and code comments. A line comment ends the scan; a block comment carries
// into the next line through inBlockComment. A backslash suppresses the
// following character.
func CountBraces(text string, inBlockComment bool) BraceCount {
	count := BraceCount{InBlockComment: inBlockComment}
	var quote byte

	for i := 0; i < len(text); i++ {
		c := text[i]

		if count.InBlockComment {
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				count.InBlockComment = false
				i++
			}
			continue
		}

		if c == '\\' {
			i++
			continue
		}

		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}

		switch c {
		case '\'', '"', '`':
			quote = c
		case '/':
			if i+1 < len(text) {
				switch text[i+1] {
				case '/':
					return count
				case '*':
					count.InBlockComment = true
					i++
				}
			}
		case '{':
			count.Open++
		case '}':
			count.Close++
		}
	}

	return count
}
