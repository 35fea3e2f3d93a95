package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "3 files need formatting (14 lines reindented, 2 separators), 1 skipped".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats, write bool) string {
	if stats.FilesChanged == 0 && stats.FilesErrored == 0 {
		msg := s.Success.Render("All files formatted") +
			s.Dim.Render(fmt.Sprintf(" (%d %s checked)", stats.FilesProcessed, plural(stats.FilesProcessed, wordFile, wordFiles)))
		if stats.FilesSkipped > 0 {
			msg += ", " + s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped))
		}
		return msg + "\n"
	}

	var parts []string

	if stats.FilesChanged > 0 {
		fileWord := plural(stats.FilesChanged, wordFile, wordFiles)
		var head string
		if write {
			head = s.Success.Render(fmt.Sprintf("%d %s formatted", stats.FilesWritten, plural(stats.FilesWritten, wordFile, wordFiles)))
		} else {
			verb := "need"
			if stats.FilesChanged == 1 {
				verb = "needs"
			}
			head = s.Failure.Render(fmt.Sprintf("%d %s %s formatting", stats.FilesChanged, fileWord, verb))
		}

		detail := []string{fmt.Sprintf("%d %s reindented", stats.LinesReindented, plural(stats.LinesReindented, "line", "lines"))}
		if stats.SeparatorsInserted > 0 {
			detail = append(detail, fmt.Sprintf("%d %s", stats.SeparatorsInserted, plural(stats.SeparatorsInserted, "separator", "separators")))
		}
		parts = append(parts, head+s.Dim.Render(" ("+strings.Join(detail, ", ")+")"))
	}

	if stats.FilesSkipped > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d skipped", stats.FilesSkipped)))
	}

	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d %s", stats.FilesErrored, plural(stats.FilesErrored, "error", "errors"))))
	}

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(stats runner.Stats, write bool) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	builder.WriteString("  Files checked:       " +
		s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)) + "\n")

	if stats.FilesChanged > 0 {
		builder.WriteString("  Files changed:       " +
			s.Warning.Render(strconv.Itoa(stats.FilesChanged)) + "\n")
	}
	if stats.FilesWritten > 0 {
		builder.WriteString("  Files written:       " +
			s.Success.Render(strconv.Itoa(stats.FilesWritten)) + "\n")
	}
	if stats.FilesSkipped > 0 {
		builder.WriteString("  Files skipped:       " +
			s.Dim.Render(strconv.Itoa(stats.FilesSkipped)) + "\n")
	}
	if stats.FilesErrored > 0 {
		builder.WriteString("  Files with errors:   " +
			s.Error.Render(strconv.Itoa(stats.FilesErrored)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Lines reindented:    " +
		s.SummaryValue.Render(strconv.Itoa(stats.LinesReindented)) + "\n")
	builder.WriteString("  Separators inserted: " +
		s.SummaryValue.Render(strconv.Itoa(stats.SeparatorsInserted)) + "\n")

	if stats.Duration > 0 {
		builder.WriteString("  Duration:            " +
			s.Dim.Render(stats.Duration.Round(time.Millisecond).String()) + "\n")
	}

	builder.WriteString("\n")

	switch {
	case stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Formatting failed with errors"))
	case stats.FilesChanged > 0 && !write:
		builder.WriteString(s.Warning.Render("Formatting required"))
	case stats.FilesChanged > 0:
		builder.WriteString(s.Success.Render("Formatting applied"))
	default:
		builder.WriteString(s.Success.Render("All files formatted"))
	}
	builder.WriteString("\n")

	return builder.String()
}
