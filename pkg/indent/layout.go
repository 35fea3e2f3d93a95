package indent

import (
	"strings"
	"unicode"
)

// layoutCases finds the case and default labels of a reindented block that
// directly follow a break statement with no blank line in between. It
// returns the separator line to insert before each, keyed by input index.
// Between two text-output lines the separator is a bare prefix; otherwise it
// is an empty line.
func layoutCases(rendered []string, blk RawBlock) map[int]string {
	separators := make(map[int]string)

	var (
		afterBreak   bool
		afterBlank   bool
		previousText bool
	)

	for i := blk.Start; i <= blk.End; i++ {
		trimmed := strings.TrimSpace(rendered[i])
		if trimmed == "" || trimmed == TextOutputPrefix {
			afterBlank = true
			continue
		}

		textOutput := isTextOutput(trimmed)
		code := textOutputBody(trimmed)

		if afterBreak && !afterBlank && isCaseLabel(code) {
			separator := ""
			if textOutput && previousText {
				separator = leadingWhitespace(rendered[i]) + TextOutputPrefix
			}
			separators[i] = separator
		}

		afterBlank = false
		afterBreak = isBreak(code)
		previousText = textOutput
	}

	return separators
}

func leadingWhitespace(text string) string {
	return text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
}
