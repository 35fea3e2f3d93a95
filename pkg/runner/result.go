package runner

import (
	"time"

	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
)

// FileOutcome is the result for one file. Exactly one of Result and Error
// is set.
type FileOutcome struct {
	Path   string
	Result *pipeline.Result
	Error  error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesProcessed is the number of files processed without error.
	FilesProcessed int

	// FilesChanged is the number of files whose formatting differs.
	FilesChanged int

	// FilesWritten is the number of files rewritten on disk.
	FilesWritten int

	// FilesSkipped is the number of binary, generated, vendored or
	// concurrently modified files left alone.
	FilesSkipped int

	// FilesErrored is the number of files that could not be processed.
	FilesErrored int

	// LinesReindented counts indentation changes across all files.
	LinesReindented int

	// SeparatorsInserted counts case separators added across all files.
	SeparatorsInserted int

	// Duration is the wall time of the run.
	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files are ordered by path.
	Files []FileOutcome

	Stats Stats
}

// HasChanges reports whether any file needs (or received) formatting.
func (r *Result) HasChanges() bool {
	return r != nil && r.Stats.FilesChanged > 0
}

// HasErrors reports whether any file failed.
func (r *Result) HasErrors() bool {
	return r != nil && r.Stats.FilesErrored > 0
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}
	if outcome.Result == nil {
		return
	}

	res := outcome.Result
	r.Stats.FilesProcessed++

	if res.Skipped {
		r.Stats.FilesSkipped++
	}
	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}

	r.Stats.SeparatorsInserted += res.Inserted
	for _, change := range res.Changes {
		if change.Kind == indent.ChangeIndent {
			r.Stats.LinesReindented++
		}
	}
}
