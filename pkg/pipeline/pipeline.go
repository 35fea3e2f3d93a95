// Package pipeline runs one template through the formatter safely: decode,
// format, diff and, when asked, back up and write it back in its original
// encoding.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/diff"
	"github.com/yaklabco/cshtmlfmt/pkg/fsutil"
	"github.com/yaklabco/cshtmlfmt/pkg/indent"
	"github.com/yaklabco/cshtmlfmt/pkg/langdetect"
	"github.com/yaklabco/cshtmlfmt/pkg/textenc"
)

// Pipeline error types for categorization.
var (
	// ErrFileNotFound indicates the file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrDecodeFailure indicates the bytes could not be decoded as text.
	ErrDecodeFailure = errors.New("decode failure")

	// ErrFormatFailure indicates the formatted output failed validation and
	// the input was left unchanged.
	ErrFormatFailure = errors.New("format failure")

	// ErrEncodeFailure indicates the output could not be encoded back.
	ErrEncodeFailure = errors.New("encode failure")

	// ErrWriteFailure indicates a write error.
	ErrWriteFailure = errors.New("write failure")
)

// Options controls processing of a single file.
type Options struct {
	// Format holds the engine options.
	Format indent.Options

	// Encoding is textenc.Auto or a forced encoding name.
	Encoding string

	// Write rewrites changed files in place.
	Write bool

	// Diff computes a unified diff for changed files.
	Diff bool

	// Backup configures backups taken before writing.
	Backup fsutil.BackupPolicy

	// IncludeVendored formats vendored paths instead of skipping them.
	IncludeVendored bool
}

// OptionsFromConfig builds pipeline options from the resolved configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	return Options{
		Format:   cfg.FormatOptions(),
		Encoding: cfg.Encoding,
		Write:    cfg.Write,
		Diff:     cfg.Diff || cfg.Format == config.FormatDiff,
		Backup: fsutil.BackupPolicy{
			Enabled: cfg.BackupsEnabled(),
			Mode:    fsutil.BackupMode(cfg.Backups.Mode),
		},
		IncludeVendored: cfg.VendoredIncluded(),
	}
}

// Block describes one raw block found in the file.
type Block struct {
	Tag      string `json:"tag"`
	Line     int    `json:"line"`
	Lines    int    `json:"lines"`
	Language string `json:"language,omitempty"`
	Skipped  bool   `json:"skipped,omitempty"`
}

// Result is the outcome of processing one file.
type Result struct {
	Path       string           `json:"path"`
	Encoding   string           `json:"encoding,omitempty"`
	BOM        bool             `json:"bom,omitempty"`
	LineEnding string           `json:"line_ending,omitempty"`
	Changed    bool             `json:"changed"`
	Changes    []indent.Change  `json:"changes,omitempty"`
	Inserted   int              `json:"inserted,omitempty"`
	Blocks     []Block          `json:"blocks,omitempty"`
	Written    bool             `json:"written,omitempty"`
	BackupPath string           `json:"backup,omitempty"`
	Skipped    bool             `json:"skipped,omitempty"`
	SkipReason string           `json:"skip_reason,omitempty"`
	Diff       *diff.Diff       `json:"-"`
	Source     string           `json:"-"`
	Output     []byte           `json:"-"`
	Snapshot   *fsutil.Snapshot `json:"-"`
}

// Summary returns a short human-readable status.
func (r *Result) Summary() string {
	switch {
	case r.Skipped:
		return "skipped: " + r.SkipReason
	case r.Written && r.BackupPath != "":
		return "formatted (backup created)"
	case r.Written:
		return "formatted"
	case r.Changed:
		return "needs formatting"
	default:
		return "ok"
	}
}

// SourceLine returns input line n (1-based) without its leading whitespace
// or line ending. It returns "" when n is out of range.
func (r *Result) SourceLine(n int) string {
	if n < 1 || r.Source == "" {
		return ""
	}

	rest := r.Source
	for i := 1; i < n; i++ {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			return ""
		}
		rest = rest[idx+1:]
	}
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
		rest = rest[:idx]
	}
	return strings.TrimSpace(rest)
}

// ProcessFile reads path, formats it and, with opts.Write, rewrites it.
//
// Steps:
//  1. Read and snapshot the file.
//  2. Skip binary, generated and (unless included) vendored files.
//  3. Decode, format and encode in memory.
//  4. Compute the diff if requested.
//  5. If writing: back up, then replace the file unless it changed on disk.
func ProcessFile(ctx context.Context, path string, opts Options) (*Result, error) {
	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	snap, err := fsutil.Read(ctx, path)
	if err != nil {
		return nil, categorizeError(err)
	}

	if reason, skip := langdetect.ShouldSkip(path, snap.Content, opts.IncludeVendored); skip {
		logger.Debug("skipping file", logging.FieldReason, string(reason))
		return &Result{Path: path, Skipped: true, SkipReason: string(reason), Snapshot: snap}, nil
	}

	result, err := ProcessContent(ctx, path, snap.Content, opts)
	if err != nil {
		return nil, err
	}
	result.Snapshot = snap

	if !opts.Write || !result.Changed {
		return result, nil
	}

	backupPath, err := fsutil.Backup(ctx, snap, opts.Backup)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.BackupPath = backupPath

	if err := fsutil.Replace(ctx, snap, result.Output); err != nil {
		if errors.Is(err, fsutil.ErrModified) {
			logger.Warn("file changed while formatting; not written")
			result.Skipped = true
			result.SkipReason = "file modified during processing"
			return result, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrWriteFailure, err)
	}
	result.Written = true

	logger.Debug("file written",
		logging.FieldChanges, len(result.Changes),
		logging.FieldInserted, result.Inserted,
	)

	return result, nil
}

// ProcessContent formats raw bytes without touching the filesystem. The
// returned Result carries the encoded output in the input's encoding,
// byte order mark and line ending.
func ProcessContent(ctx context.Context, path string, content []byte, opts Options) (*Result, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("processing cancelled: %w", ctx.Err())
	default:
	}

	logger := logging.FromContext(ctx).With(logging.FieldPath, path)

	decoded, err := textenc.Decode(content, opts.Encoding)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeFailure, path, err)
	}
	if !textenc.RoundTrips(content, decoded.Text, decoded.Encoding, decoded.BOM) {
		return nil, fmt.Errorf("%w: %s: bytes do not survive a %s round trip", ErrDecodeFailure, path, decoded.Encoding)
	}
	if decoded.Detected && decoded.Encoding != textenc.UTF8 {
		logger.Debug("detected legacy encoding", logging.FieldEncoding, decoded.Encoding)
	}

	formatted, err := indent.Format(decoded.Text, opts.Format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFormatFailure, path, err)
	}

	result := &Result{
		Path:       path,
		Source:     decoded.Text,
		Encoding:   decoded.Encoding,
		BOM:        decoded.BOM,
		LineEnding: formatted.Ending.String(),
		Changed:    formatted.Output != decoded.Text,
		Inserted:   formatted.Inserted,
		Blocks:     describeBlocks(decoded.Text, formatted.Blocks),
	}
	if formatted.Changed() {
		result.Changes = formatted.Changes
	}

	for _, blk := range result.Blocks {
		logger.Debug("raw block",
			"tag", blk.Tag,
			"line", blk.Line,
			logging.FieldLanguage, blk.Language,
		)
	}

	if !result.Changed {
		result.Output = content
		return result, nil
	}

	output, err := textenc.Encode(formatted.Output, decoded.Encoding, decoded.BOM)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrEncodeFailure, path, err)
	}
	result.Output = output

	if opts.Diff {
		result.Diff = diff.Compute(path, decoded.Text, formatted.Output)
	}

	return result, nil
}

// describeBlocks reports each raw block with the language of its body.
func describeBlocks(text string, blocks []indent.RawBlock) []Block {
	if len(blocks) == 0 {
		return nil
	}

	lines := strings.Split(text, "\n")
	described := make([]Block, 0, len(blocks))
	for _, blk := range blocks {
		start := min(max(blk.Start, 0), len(lines))
		end := min(max(blk.End+1, start), len(lines))
		body := strings.Join(lines[start:end], "\n")

		described = append(described, Block{
			Tag:      blk.Tag,
			Line:     blk.Start + 1,
			Lines:    blk.Len(),
			Language: langdetect.BlockLanguage(blk.Tag, []byte(body)),
			Skipped:  blk.Skip,
		})
	}
	return described
}

// categorizeError wraps an error with the appropriate pipeline error type.
func categorizeError(err error) error {
	switch {
	case errors.Is(err, fsutil.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrFileNotFound, err)
	case errors.Is(err, fsutil.ErrPermissionDenied):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	default:
		return err
	}
}

// IsPipelineError checks if an error is a known pipeline error type.
func IsPipelineError(err error) bool {
	return errors.Is(err, ErrFileNotFound) ||
		errors.Is(err, ErrPermissionDenied) ||
		errors.Is(err, ErrDecodeFailure) ||
		errors.Is(err, ErrFormatFailure) ||
		errors.Is(err, ErrEncodeFailure) ||
		errors.Is(err, ErrWriteFailure)
}
