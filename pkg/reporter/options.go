package reporter

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
)

// bufWriterSize is the buffer size for buffered output writers (64 KiB).
const bufWriterSize = 64 * 1024

// defaultPreviewWidth is the display width of line previews in text output.
const defaultPreviewWidth = 60

// Options configures reporter behavior.
type Options struct {
	// Writer is the destination for output (typically os.Stdout).
	Writer io.Writer

	// ErrorWriter is the destination for errors (typically os.Stderr).
	ErrorWriter io.Writer

	// Format specifies the output format.
	Format Format

	// Color controls colorized output.
	// Values: "auto" (default), "always", "never"
	Color string

	// ShowChanges lists each changed line under its file (text format).
	ShowChanges bool

	// ShowSummary displays aggregate statistics after results.
	ShowSummary bool

	// Write reports in past tense ("formatted") instead of "needs formatting".
	Write bool

	// Compact uses compact/minified output where applicable.
	Compact bool

	// PreviewWidth is the display width line previews are truncated to.
	// Zero uses the default; negative disables previews.
	PreviewWidth int

	// WorkingDir is the directory to make paths relative to.
	// If empty, paths are kept as-is.
	WorkingDir string
}

// DefaultOptions returns Options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		Writer:       os.Stdout,
		ErrorWriter:  os.Stderr,
		Format:       FormatText,
		Color:        "auto",
		ShowChanges:  true,
		ShowSummary:  true,
		PreviewWidth: defaultPreviewWidth,
	}
}

// displayPath makes path relative to workingDir when that does not climb
// out of it.
func displayPath(path, workingDir string) string {
	if workingDir == "" || !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(workingDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// truncate cuts s to width display cells, marking the cut with an ellipsis.
// Wide runes (CJK in legacy-encoded templates) count as two cells.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// padRight pads s with spaces to width display cells.
// This must be called BEFORE applying ANSI styles.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// padLeft pads s with spaces on the left to width display cells.
// This must be called BEFORE applying ANSI styles.
func padLeft(s string, width int) string {
	return runewidth.FillLeft(s, width)
}
