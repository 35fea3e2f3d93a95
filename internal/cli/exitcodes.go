package cli

import (
	"errors"

	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// Exit codes for cshtmlfmt.
const (
	// ExitSuccess indicates every file is formatted (or was written).
	ExitSuccess = 0

	// ExitNeedsFormatting indicates --check found files that need formatting.
	ExitNeedsFormatting = 1

	// ExitError indicates a file could not be processed or the command
	// failed.
	ExitError = 2
)

var (
	// ErrFormattingNeeded is returned by --check when files would change.
	ErrFormattingNeeded = errors.New("files need formatting")

	// ErrFilesFailed is returned when at least one file could not be
	// processed. Per-file errors have already been reported.
	ErrFilesFailed = errors.New("some files could not be processed")
)

// ExitCodeFromResult determines the exit code of a run.
func ExitCodeFromResult(result *runner.Result, check bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.HasErrors() {
		return ExitError
	}

	if check && result.HasChanges() {
		return ExitNeedsFormatting
	}

	return ExitSuccess
}

// ExitCodeFromError maps an error returned by a command to an exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFormattingNeeded):
		return ExitNeedsFormatting
	default:
		return ExitError
	}
}

// IsReported reports whether err only signals an exit code and has already
// been presented to the user.
func IsReported(err error) bool {
	return errors.Is(err, ErrFormattingNeeded) || errors.Is(err, ErrFilesFailed)
}

// errorForExitCode converts an exit code back into the matching sentinel.
func errorForExitCode(code int) error {
	switch code {
	case ExitNeedsFormatting:
		return ErrFormattingNeeded
	case ExitError:
		return ErrFilesFailed
	default:
		return nil
	}
}
