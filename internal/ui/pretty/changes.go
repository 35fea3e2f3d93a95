package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/cshtmlfmt/pkg/diff"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
)

// FormatFileHeader formats a file header with its status and change count.
// Example: "Views/Home/Index.cshtml (needs formatting, 3 changes)".
func (s *Styles) FormatFileHeader(path, status string, changes int) string {
	detail := status
	if changes > 0 {
		detail = fmt.Sprintf("%s, %d %s", status, changes, plural(changes, "change", "changes"))
	}
	return s.FilePath.Render(path) + " " + s.Dim.Render("("+detail+")")
}

// FormatChange formats one change log entry as an indented line.
// Indent changes show the old and new leading width; preview is the
// trimmed content of the affected line and may be empty.
func (s *Styles) FormatChange(change indent.Change, preview string) string {
	var builder strings.Builder

	builder.WriteString("  ")
	builder.WriteString(s.Location.Render(fmt.Sprintf("%5d", change.Line)))
	builder.WriteString("  ")

	switch change.Kind {
	case indent.ChangeIndent:
		builder.WriteString(s.Kind.Render("indent"))
		builder.WriteString(" ")
		builder.WriteString(s.Width.Render(fmt.Sprintf("%d -> %d", change.Before, change.After)))
	case indent.ChangeSeparator:
		builder.WriteString(s.Kind.Render("separator"))
		builder.WriteString(" ")
		builder.WriteString(s.Dim.Render("inserted"))
	default:
		builder.WriteString(s.Kind.Render(change.Kind.String()))
	}

	if preview != "" {
		builder.WriteString("  ")
		builder.WriteString(s.Preview.Render(preview))
	}

	builder.WriteString("\n")
	return builder.String()
}

// FormatDiff renders a unified diff in git style with colored lines.
// displayPath replaces d.Path in the headers when non-empty.
func (s *Styles) FormatDiff(d *diff.Diff, displayPath string) string {
	if !d.HasChanges() {
		return ""
	}
	if displayPath == "" {
		displayPath = d.Path
	}

	var builder strings.Builder

	builder.WriteString(s.DiffHeader.Render(fmt.Sprintf("diff --git a/%s b/%s", displayPath, displayPath)))
	builder.WriteString("\n")
	builder.WriteString(s.DiffRemove.Render("--- a/" + displayPath))
	builder.WriteString("\n")
	builder.WriteString(s.DiffAdd.Render("+++ b/" + displayPath))
	builder.WriteString("\n")

	for _, hunk := range d.Hunks {
		builder.WriteString(s.DiffHunk.Render(hunk.Header()))
		builder.WriteString("\n")
		for _, line := range hunk.Lines {
			text := line.Op.Prefix() + line.Text
			switch line.Op {
			case diff.Insert:
				builder.WriteString(s.DiffAdd.Render(text))
			case diff.Delete:
				builder.WriteString(s.DiffRemove.Render(text))
			default:
				builder.WriteString(s.DiffContext.Render(text))
			}
			builder.WriteString("\n")
		}
	}

	return builder.String()
}
