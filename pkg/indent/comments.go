package indent

import "strings"

// Comment delimiters stripped before tag detection. Razor comments are
// treated like markup comments.
const (
	markupCommentOpen  = "<!--"
	markupCommentClose = "-->"
	razorCommentOpen   = "@*"
	razorCommentClose  = "*@"
)

// CommentState carries an unterminated comment from one line to the next.
type CommentState struct {
	closer string
}

// Open reports whether a comment is still open.
func (s CommentState) Open() bool {
	return s.closer != ""
}

// StripComments removes comment regions from line and returns the cleaned
// text together with the state to use for the following line.
func StripComments(line string, state CommentState) (string, CommentState) {
	var cleaned strings.Builder
	rest := line

	for rest != "" {
		if state.Open() {
			idx := strings.Index(rest, state.closer)
			if idx < 0 {
				return cleaned.String(), state
			}
			rest = rest[idx+len(state.closer):]
			state = CommentState{}
			continue
		}

		idx, opener, closer := nextCommentOpener(rest)
		if idx < 0 {
			cleaned.WriteString(rest)
			break
		}
		cleaned.WriteString(rest[:idx])
		rest = rest[idx+len(opener):]
		state = CommentState{closer: closer}
	}

	return cleaned.String(), state
}

// nextCommentOpener finds the earliest comment opener in text.
func nextCommentOpener(text string) (int, string, string) {
	markup := strings.Index(text, markupCommentOpen)
	razor := strings.Index(text, razorCommentOpen)

	switch {
	case markup < 0 && razor < 0:
		return -1, "", ""
	case razor < 0 || (markup >= 0 && markup < razor):
		return markup, markupCommentOpen, markupCommentClose
	default:
		return razor, razorCommentOpen, razorCommentClose
	}
}
