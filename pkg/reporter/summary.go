package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// Table layout constants for summary output.
const (
	tableWidth        = 90
	fileColWidth      = 46
	numColWidth       = 10
	encodingColWidth  = 12
	statusColWidth    = 18
	maxFilePathLength = 44
)

// SummaryReporter formats results as a per-file table followed by totals.
type SummaryReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewSummaryReporter creates a new summary reporter.
func NewSummaryReporter(opts Options) *SummaryReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &SummaryReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *SummaryReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		result = &runner.Result{}
	}

	if !result.HasChanges() && !result.HasErrors() {
		fmt.Fprintln(r.bw, r.styles.Success.Render("No formatting changes")+
			r.styles.Dim.Render(fmt.Sprintf(" (%d files checked)", result.Stats.FilesProcessed)))
		return 0, nil
	}

	r.renderFileTable(result)
	fmt.Fprint(r.bw, r.styles.FormatSummary(result.Stats, r.opts.Write))

	return countChanged(result), nil
}

func (r *SummaryReporter) renderFileTable(result *runner.Result) {
	separator := r.styles.Dim.Render(strings.Repeat("─", tableWidth))

	fmt.Fprintln(r.bw, r.styles.Bold.Render("Files Summary"))
	fmt.Fprintln(r.bw, separator)
	fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
		r.styles.Bold.Render(padRight("File", fileColWidth)),
		r.styles.Bold.Render(padLeft("Reindented", numColWidth)),
		r.styles.Bold.Render(padLeft("Separators", numColWidth)),
		r.styles.Bold.Render(padRight("Encoding", encodingColWidth)),
		r.styles.Bold.Render("Status"),
	)
	fmt.Fprintln(r.bw, separator)

	for _, file := range result.Files {
		path := trimPathLeft(displayPath(file.Path, r.opts.WorkingDir), maxFilePathLength)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
				r.styles.Error.Render(padRight(path, fileColWidth)),
				padLeft("-", numColWidth),
				padLeft("-", numColWidth),
				padRight("-", encodingColWidth),
				r.styles.Error.Render("error"),
			)
			continue
		}

		res := file.Result
		if res == nil || (!res.Changed && !res.Skipped) {
			continue
		}

		var reindented int
		for _, change := range res.Changes {
			if change.Kind == indent.ChangeIndent {
				reindented++
			}
		}

		encoding := res.Encoding
		if encoding == "" {
			encoding = "-"
		}

		status := truncate(res.Summary(), statusColWidth)
		styledPath := padRight(path, fileColWidth)
		if res.Skipped {
			styledPath = r.styles.Dim.Render(styledPath)
			status = r.styles.Dim.Render(status)
		} else {
			styledPath = r.styles.Warning.Render(styledPath)
		}

		fmt.Fprintf(r.bw, "%s %s %s %s %s\n",
			styledPath,
			padLeft(strconv.Itoa(reindented), numColWidth),
			padLeft(strconv.Itoa(res.Inserted), numColWidth),
			padRight(encoding, encodingColWidth),
			status,
		)
	}
}

// trimPathLeft shortens a path from the left so the file name stays visible.
func trimPathLeft(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	return "…" + string(runes[len(runes)-(maxLen-1):])
}
