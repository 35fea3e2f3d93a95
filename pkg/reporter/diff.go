package reporter

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// DiffReporter formats results as unified diffs in git style.
type DiffReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewDiffReporter creates a new diff reporter.
func NewDiffReporter(opts Options) *DiffReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	return &DiffReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *DiffReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil {
		return 0, nil
	}

	var filesWithDiffs int
	var totalAdditions, totalDeletions int

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		if file.Result == nil || !file.Result.Diff.HasChanges() {
			continue
		}

		d := file.Result.Diff
		filesWithDiffs++
		totalAdditions += d.Added
		totalDeletions += d.Removed

		fmt.Fprint(r.bw, r.styles.FormatDiff(d, path))
		fmt.Fprintln(r.bw)
	}

	if filesWithDiffs > 0 && r.opts.ShowSummary {
		r.writeSummary(filesWithDiffs, totalAdditions, totalDeletions)
	}

	return countChanged(result), nil
}

// writeSummary writes a git-style stat line at the end.
func (r *DiffReporter) writeSummary(files, additions, deletions int) {
	var parts []string

	fileWord := "files"
	if files == 1 {
		fileWord = "file"
	}
	parts = append(parts, fmt.Sprintf("%d %s changed", files, fileWord))

	if additions > 0 {
		insertionWord := "insertions"
		if additions == 1 {
			insertionWord = "insertion"
		}
		parts = append(parts, r.styles.DiffAdd.Render(fmt.Sprintf("%d %s(+)", additions, insertionWord)))
	}

	if deletions > 0 {
		deletionWord := "deletions"
		if deletions == 1 {
			deletionWord = "deletion"
		}
		parts = append(parts, r.styles.DiffRemove.Render(fmt.Sprintf("%d %s(-)", deletions, deletionWord)))
	}

	fmt.Fprintln(r.bw, strings.Join(parts, ", "))
}
