// Package config defines the formatter configuration. The types are plain
// data; discovery and merging live in internal/configloader.
package config

import "github.com/yaklabco/cshtmlfmt/pkg/indent"

// EncodingAuto selects the input encoding by detection.
const EncodingAuto = "auto"

// BackupModeSidecar writes backups next to the original file.
const BackupModeSidecar = "sidecar"

// DefaultExtensions are the template extensions discovered in directories.
//
//nolint:gochecknoglobals // Read-only default list.
var DefaultExtensions = []string{".cshtml", ".razor"}

// OutputFormat selects the reporter.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// BackupsConfig controls backups taken before a file is rewritten.
type BackupsConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty" toml:"enabled,omitempty"`
	Mode    string `yaml:"mode,omitempty"    toml:"mode,omitempty"`
}

// Config is the root configuration.
type Config struct {
	// IndentUnit is the number of spaces per nesting level.
	IndentUnit int `yaml:"indent_unit,omitempty" toml:"indent_unit,omitempty"`

	// ReindentRawBlocks enables reindentation inside <text>, <script> and
	// <style>. Nil means enabled.
	ReindentRawBlocks *bool `yaml:"reindent_raw_blocks,omitempty" toml:"reindent_raw_blocks,omitempty"`

	// SeparateCases inserts a separator between break and the next case
	// label. Nil means enabled.
	SeparateCases *bool `yaml:"separate_cases,omitempty" toml:"separate_cases,omitempty"`

	// Extensions lists the file extensions picked up from directories.
	Extensions []string `yaml:"extensions,omitempty" toml:"extensions,omitempty"`

	// Ignore contains glob patterns for paths to skip.
	Ignore []string `yaml:"ignore,omitempty" toml:"ignore,omitempty"`

	// IncludeVendored formats files in vendored directories too.
	IncludeVendored *bool `yaml:"include_vendored,omitempty" toml:"include_vendored,omitempty"`

	// Encoding is EncodingAuto or a fixed encoding name such as "windows-1252".
	Encoding string `yaml:"encoding,omitempty" toml:"encoding,omitempty"`

	// Backups configures backups when writing.
	Backups BackupsConfig `yaml:"backups,omitempty" toml:"backups,omitempty"`

	// CLI-level options, never read from files.

	Write     bool         `yaml:"-" toml:"-"`
	Check     bool         `yaml:"-" toml:"-"`
	Diff      bool         `yaml:"-" toml:"-"`
	Format    OutputFormat `yaml:"-" toml:"-"`
	Jobs      int          `yaml:"-" toml:"-"`
	NoBackups bool         `yaml:"-" toml:"-"`
}

// NewConfig returns a Config with defaults.
func NewConfig() *Config {
	return &Config{
		IndentUnit:        indent.DefaultIndentUnit,
		ReindentRawBlocks: Bool(true),
		SeparateCases:     Bool(true),
		Extensions:        append([]string(nil), DefaultExtensions...),
		IncludeVendored:   Bool(false),
		Encoding:          EncodingAuto,
		Backups: BackupsConfig{
			Enabled: Bool(true),
			Mode:    BackupModeSidecar,
		},
		Format: FormatText,
	}
}

// Bool returns a pointer to v.
func Bool(v bool) *bool {
	return &v
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// RawBlocksEnabled reports whether raw blocks are reindented.
func (c *Config) RawBlocksEnabled() bool {
	return boolOr(c.ReindentRawBlocks, true)
}

// CaseSpacingEnabled reports whether case separators are inserted.
func (c *Config) CaseSpacingEnabled() bool {
	return boolOr(c.SeparateCases, true)
}

// VendoredIncluded reports whether vendored paths are formatted.
func (c *Config) VendoredIncluded() bool {
	return boolOr(c.IncludeVendored, false)
}

// BackupsEnabled reports whether a backup is taken before writing.
func (c *Config) BackupsEnabled() bool {
	return !c.NoBackups && boolOr(c.Backups.Enabled, true)
}

// FormatOptions converts the configuration to engine options.
func (c *Config) FormatOptions() indent.Options {
	return indent.Options{
		IndentUnit:        c.IndentUnit,
		ReindentRawBlocks: c.RawBlocksEnabled(),
		SeparateCases:     c.CaseSpacingEnabled(),
	}
}
