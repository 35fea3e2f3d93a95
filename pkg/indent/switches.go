package indent

// switchFrame is one open switch statement.
type switchFrame struct {
	// body is the nesting level of the switch body, where labels sit.
	body int

	// labeled is set once a case or default label has been seen at body.
	labeled bool
}

// switchStack tracks open switch statements across lines of one pass.
type switchStack struct {
	frames []switchFrame

	// pending is set by a switch header until the line with its brace.
	pending bool
}

// extra returns the additional indent levels for a line printed at level.
// Every labeled frame the line sits inside contributes one level, except the
// frame whose label the line itself is.
func (s *switchStack) extra(level int, label bool) int {
	extra := 0
	for _, frame := range s.frames {
		if !frame.labeled || level < frame.body {
			continue
		}
		if label && level == frame.body {
			continue
		}
		extra++
	}
	return extra
}

// observe records a line after its width was computed. before and after are
// the nesting levels around the line, opens the number of braces it opened.
func (s *switchStack) observe(level int, label, header bool, before, after, opens int) {
	if label && len(s.frames) > 0 {
		top := &s.frames[len(s.frames)-1]
		if level == top.body {
			top.labeled = true
		}
	}

	for len(s.frames) > 0 && after < s.frames[len(s.frames)-1].body {
		s.frames = s.frames[:len(s.frames)-1]
	}

	if header {
		s.pending = true
	}
	if s.pending && opens > 0 {
		if after > before {
			s.frames = append(s.frames, switchFrame{body: after})
		}
		s.pending = false
	}
}
