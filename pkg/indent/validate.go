package indent

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrContentDrift is matched by every validation failure.
var ErrContentDrift = errors.New("content drift")

// DriftError reports the first place where formatted output differs from the
// input in anything other than leading whitespace.
type DriftError struct {
	// OriginalLine and OutputLine are 1-based; zero when past the end.
	OriginalLine int
	OutputLine   int

	Original string
	Output   string

	Reason string
}

// Error implements the error interface.
func (e *DriftError) Error() string {
	return fmt.Sprintf("content drift at input line %d (output line %d): %s",
		e.OriginalLine, e.OutputLine, e.Reason)
}

// Is reports whether target is ErrContentDrift.
func (e *DriftError) Is(target error) bool {
	return target == ErrContentDrift
}

// Validate checks that output is original with only leading whitespace
// changed. When insertions is true, output may also contain separator lines
// (blank or a bare text-output prefix) that have no counterpart in original.
func Validate(original, output []string, insertions bool) error {
	if !insertions {
		return validateExact(original, output)
	}
	return validateWithSeparators(original, output)
}

func validateExact(original, output []string) error {
	if len(original) != len(output) {
		return &DriftError{
			Reason: fmt.Sprintf("line count changed from %d to %d", len(original), len(output)),
		}
	}

	for i := range original {
		if normalizeLine(original[i]) != normalizeLine(output[i]) {
			return mismatch(original, output, i, i)
		}
	}
	return nil
}

func validateWithSeparators(original, output []string) error {
	in, out := 0, 0
	for in < len(original) && out < len(output) {
		want := normalizeLine(original[in])
		got := normalizeLine(output[out])

		if isSeparatorLine(got) && !isSeparatorLine(want) {
			out++
			continue
		}
		if want != got {
			return mismatch(original, output, in, out)
		}
		in++
		out++
	}

	if in < len(original) {
		return &DriftError{
			OriginalLine: in + 1,
			Original:     original[in],
			Reason:       "input line has no counterpart in output",
		}
	}

	for ; out < len(output); out++ {
		if strings.TrimSpace(output[out]) != "" {
			return &DriftError{
				OutputLine: out + 1,
				Output:     output[out],
				Reason:     "unexpected trailing output line",
			}
		}
	}
	return nil
}

func mismatch(original, output []string, in, out int) *DriftError {
	return &DriftError{
		OriginalLine: in + 1,
		OutputLine:   out + 1,
		Original:     original[in],
		Output:       output[out],
		Reason:       fmt.Sprintf("%q became %q", original[in], output[out]),
	}
}

// normalizeLine strips leading whitespace and canonicalizes the spacing the
// formatter is allowed to change: after a text-output prefix and inside a
// switch header.
func normalizeLine(line string) string {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	if isTextOutput(line) {
		body := strings.TrimLeftFunc(line[len(TextOutputPrefix):], unicode.IsSpace)
		if body == "" {
			return TextOutputPrefix
		}
		line = TextOutputPrefix + " " + body
	}
	return switchHeaderPattern.ReplaceAllString(line, "switch (")
}

func isSeparatorLine(normalized string) bool {
	return normalized == "" || normalized == TextOutputPrefix
}
