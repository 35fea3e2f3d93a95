// Package reporter renders formatting results as text, JSON, unified
// diffs or summary tables.
package reporter

import (
	"context"
	"fmt"

	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// Reporter formats and writes run results.
type Reporter interface {
	// Report writes formatted output for the given result.
	// It returns the number of files that need (or received) formatting
	// and any write errors.
	Report(ctx context.Context, result *runner.Result) (int, error)
}

// New creates a Reporter for the specified options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = DefaultOptions().Writer
	}
	if opts.ErrorWriter == nil {
		opts.ErrorWriter = DefaultOptions().ErrorWriter
	}

	format := opts.Format
	if format == "" {
		format = FormatText
	}

	switch format {
	case FormatJSON:
		return NewJSONReporter(opts), nil
	case FormatDiff:
		return NewDiffReporter(opts), nil
	case FormatSummary:
		return NewSummaryReporter(opts), nil
	case FormatText:
		return NewTextReporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// countChanged counts files whose formatting differs.
func countChanged(result *runner.Result) int {
	if result == nil {
		return 0
	}
	var n int
	for _, file := range result.Files {
		if file.Result != nil && file.Result.Changed {
			n++
		}
	}
	return n
}
