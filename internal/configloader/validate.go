package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/textenc"
)

// maxIndentUnit is the largest indent unit accepted without a warning.
const maxIndentUnit = 16

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "backups.mode").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownFormats = map[config.OutputFormat]bool{
	config.FormatText:    true,
	config.FormatJSON:    true,
	config.FormatDiff:    true,
	config.FormatSummary: true,
}

//nolint:gochecknoglobals // Read-only lookup table.
var knownBackupModes = map[string]bool{
	config.BackupModeSidecar: true,
	"none":                   true,
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	switch {
	case cfg.IndentUnit < 0:
		result.Errors = append(result.Errors, ValidationError{
			Field:   "indent_unit",
			Value:   cfg.IndentUnit,
			Message: "indent_unit must be >= 0 (0 means default)",
		})
	case cfg.IndentUnit > maxIndentUnit:
		result.Warnings = append(result.Warnings, ValidationError{
			Field:   "indent_unit",
			Value:   cfg.IndentUnit,
			Message: fmt.Sprintf("indent_unit %d is unusually large", cfg.IndentUnit),
		})
	}

	if cfg.Format != "" && !IsValidFormat(cfg.Format) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "format",
			Value:   cfg.Format,
			Message: fmt.Sprintf("invalid format %q; must be one of: text, json, diff, summary", cfg.Format),
		})
	}

	if cfg.Jobs < 0 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "jobs",
			Value:   cfg.Jobs,
			Message: "jobs must be >= 0 (0 means auto)",
		})
	}

	if cfg.Backups.Mode != "" && !IsValidBackupMode(cfg.Backups.Mode) {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "backups.mode",
			Value:   cfg.Backups.Mode,
			Message: fmt.Sprintf("invalid backup mode %q; must be one of: sidecar, none", cfg.Backups.Mode),
		})
	}

	if cfg.Encoding != "" {
		if _, err := textenc.Canonical(cfg.Encoding); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   "encoding",
				Value:   cfg.Encoding,
				Message: fmt.Sprintf("unsupported encoding %q; must be auto or one of: %s", cfg.Encoding, strings.Join(textenc.Names(), ", ")),
			})
		}
	}

	for i, ext := range cfg.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("extensions[%d]", i),
				Value:   ext,
				Message: fmt.Sprintf("extension %q must start with a dot", ext),
			})
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns.
		if _, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), ""); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Value:   pattern,
				Message: fmt.Sprintf("invalid glob pattern: %v", err),
			})
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return knownFormats[f]
}

// IsValidBackupMode returns true if the backup mode is valid.
func IsValidBackupMode(mode string) bool {
	return knownBackupModes[mode]
}
