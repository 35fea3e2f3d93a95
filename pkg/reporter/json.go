package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// jsonSchemaVersion is bumped when the JSON layout changes incompatibly.
const jsonSchemaVersion = "1.0.0"

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path       string           `json:"path"`
	Status     string           `json:"status"`
	Changed    bool             `json:"changed"`
	Written    bool             `json:"written,omitempty"`
	Backup     string           `json:"backup,omitempty"`
	Skipped    bool             `json:"skipped,omitempty"`
	SkipReason string           `json:"skipReason,omitempty"`
	Encoding   string           `json:"encoding,omitempty"`
	BOM        bool             `json:"bom,omitempty"`
	LineEnding string           `json:"lineEnding,omitempty"`
	Changes    []indent.Change  `json:"changes"`
	Inserted   int              `json:"separatorsInserted,omitempty"`
	Blocks     []pipeline.Block `json:"blocks,omitempty"`
	Error      string           `json:"error,omitempty"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked       int   `json:"filesChecked"`
	FilesChanged       int   `json:"filesChanged"`
	FilesWritten       int   `json:"filesWritten"`
	FilesSkipped       int   `json:"filesSkipped"`
	FilesErrored       int   `json:"filesErrored"`
	LinesReindented    int   `json:"linesReindented"`
	SeparatorsInserted int   `json:"separatorsInserted"`
	DurationMS         int64 `json:"durationMs"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.FilesChanged, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))

	for _, file := range result.Files {
		fileResult := JSONFileResult{
			Path:    displayPath(file.Path, r.opts.WorkingDir),
			Changes: make([]indent.Change, 0),
		}

		if file.Error != nil {
			fileResult.Status = "error"
			fileResult.Error = file.Error.Error()
		}

		if res := file.Result; res != nil {
			fileResult.Status = res.Summary()
			fileResult.Changed = res.Changed
			fileResult.Written = res.Written
			fileResult.Backup = res.BackupPath
			fileResult.Skipped = res.Skipped
			fileResult.SkipReason = res.SkipReason
			fileResult.Encoding = res.Encoding
			fileResult.BOM = res.BOM
			fileResult.LineEnding = res.LineEnding
			fileResult.Inserted = res.Inserted
			fileResult.Blocks = res.Blocks
			for _, change := range res.Changes {
				if change.Kind != indent.ChangeNone {
					fileResult.Changes = append(fileResult.Changes, change)
				}
			}
		}

		output.Files = append(output.Files, fileResult)
	}

	stats := result.Stats
	output.Summary = JSONSummary{
		FilesChecked:       stats.FilesProcessed,
		FilesChanged:       stats.FilesChanged,
		FilesWritten:       stats.FilesWritten,
		FilesSkipped:       stats.FilesSkipped,
		FilesErrored:       stats.FilesErrored,
		LinesReindented:    stats.LinesReindented,
		SeparatorsInserted: stats.SeparatorsInserted,
		DurationMS:         stats.Duration.Milliseconds(),
	}

	return output
}
