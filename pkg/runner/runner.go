package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
)

// ProcessFunc formats one file.
type ProcessFunc func(ctx context.Context, path string, opts pipeline.Options) (*pipeline.Result, error)

// Runner formats many files with a bounded worker pool.
type Runner struct {
	// Process handles a single file. Defaults to pipeline.ProcessFile.
	Process ProcessFunc
}

// New creates a Runner backed by pipeline.ProcessFile.
func New() *Runner {
	return &Runner{Process: pipeline.ProcessFile}
}

// Run discovers files under opts.Paths and formats them concurrently.
// Outcomes are ordered by path regardless of completion order.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	return r.RunFiles(ctx, files, opts)
}

// RunFiles formats the given files without discovery.
func (r *Runner) RunFiles(ctx context.Context, files []string, opts Options) (*Result, error) {
	started := time.Now()
	logger := logging.FromContext(ctx)

	process := r.Process
	if process == nil {
		process = pipeline.ProcessFile
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = max(1, min(jobs, len(files)))

	logger.Debug("formatting files",
		logging.FieldFiles, len(files),
		logging.FieldJobs, jobs,
	)

	outcomes := make([]FileOutcome, len(files))
	done := make([]bool, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(jobs)

	for idx, path := range files {
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			res, err := process(groupCtx, path, opts.Pipeline)
			outcomes[idx] = FileOutcome{Path: path, Result: res, Error: err}
			done[idx] = true

			switch {
			case err == nil:
			case pipeline.IsPipelineError(err):
				logger.Debug("file failed", logging.FieldPath, path, logging.FieldError, err)
			default:
				logger.Warn("unexpected file error", logging.FieldPath, path, logging.FieldError, err)
			}
			return nil
		})
	}

	waitErr := group.Wait()

	result := &Result{Files: make([]FileOutcome, 0, len(files))}
	result.Stats.FilesDiscovered = len(files)
	for idx, outcome := range outcomes {
		if done[idx] {
			result.accumulate(outcome)
		}
	}
	result.Stats.Duration = time.Since(started)

	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}
	if waitErr != nil {
		return result, fmt.Errorf("run: %w", waitErr)
	}

	return result, nil
}
