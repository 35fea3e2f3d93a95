package reporter

import (
	"bufio"
	"context"
	"fmt"

	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// TextReporter formats results as styled terminal output.
type TextReporter struct {
	opts   Options
	styles *pretty.Styles
	bw     *bufio.Writer
}

// NewTextReporter creates a new text reporter.
func NewTextReporter(opts Options) *TextReporter {
	colorEnabled := pretty.IsColorEnabled(opts.Color, opts.Writer)
	if opts.PreviewWidth == 0 {
		opts.PreviewWidth = defaultPreviewWidth
	}
	return &TextReporter{
		opts:   opts,
		styles: pretty.NewStyles(colorEnabled),
		bw:     bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *TextReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	if result == nil || len(result.Files) == 0 {
		if r.opts.ShowSummary {
			fmt.Fprintln(r.bw, r.styles.Success.Render("No files to format."))
		}
		return 0, nil
	}

	for _, file := range result.Files {
		path := displayPath(file.Path, r.opts.WorkingDir)

		if file.Error != nil {
			fmt.Fprintf(r.bw, "%s: %s\n",
				r.styles.FilePath.Render(path),
				r.styles.Error.Render(fmt.Sprintf("error: %v", file.Error)),
			)
			continue
		}

		res := file.Result
		if res == nil {
			continue
		}

		if res.Skipped {
			fmt.Fprintln(r.bw, r.styles.Dim.Render(path+": "+res.Summary()))
			continue
		}

		if !res.Changed {
			continue
		}

		r.writeFile(path, res)
	}

	if r.opts.ShowSummary {
		fmt.Fprint(r.bw, r.styles.FormatSummaryOneLine(result.Stats, r.opts.Write))
	}

	return countChanged(result), nil
}

// writeFile writes one changed file with its change log.
func (r *TextReporter) writeFile(path string, res *pipeline.Result) {
	changes := make([]indent.Change, 0, len(res.Changes))
	for _, change := range res.Changes {
		if change.Kind != indent.ChangeNone {
			changes = append(changes, change)
		}
	}

	fmt.Fprintln(r.bw, r.styles.FormatFileHeader(path, res.Summary(), len(changes)))

	if !r.opts.ShowChanges {
		return
	}

	for _, change := range changes {
		var preview string
		if r.opts.PreviewWidth > 0 {
			preview = truncate(res.SourceLine(change.Line), r.opts.PreviewWidth)
		}
		fmt.Fprint(r.bw, r.styles.FormatChange(change, preview))
	}

	fmt.Fprintln(r.bw)
}
