package config

import (
	"bytes"
	"fmt"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every setting with its default value instead of a
	// commented skeleton.
	Full bool

	// Format is the file syntax; empty means YAML.
	Format FileFormat
}

// GenerateTemplate creates a configuration file template.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	format := opts.Format
	if format == "" {
		format = FileYAML
	}

	if !opts.Full {
		switch format {
		case FileYAML:
			return []byte(DefaultTemplateHeader() + "\n" + minimalYAML), nil
		case FileTOML:
			return []byte(DefaultTemplateHeader() + "\n" + minimalTOML), nil
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownFileFormat, format)
		}
	}

	defaults := NewConfig()
	defaults.Ignore = []string{"bin/**", "obj/**", "wwwroot/lib/**"}

	var (
		body []byte
		err  error
	)
	switch format {
	case FileYAML:
		body, err = defaults.ToYAML()
	case FileTOML:
		body, err = defaults.ToTOML()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFileFormat, format)
	}
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(DefaultTemplateHeader())
	buf.WriteString("\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// DefaultTemplateHeader returns the header comment of generated configs.
func DefaultTemplateHeader() string {
	return `# cshtmlfmt configuration
# See: https://github.com/yaklabco/cshtmlfmt`
}

const minimalYAML = `
# Spaces per nesting level
indent_unit: 2

# Reindent the bodies of <text>, <script> and <style>
# reindent_raw_blocks: true

# Insert a blank line between "break;" and the next case label
# separate_cases: true

# Extensions picked up when formatting directories
# extensions:
#   - .cshtml
#   - .razor

# Glob patterns to skip
# ignore:
#   - "bin/**"
#   - "obj/**"

# Input encoding: auto, utf-8, utf-16le, utf-16be, windows-1252,
# iso-8859-1, shift_jis, euc-jp, euc-kr or gbk
# encoding: auto

# Backups taken before a file is rewritten
# backups:
#   enabled: true
#   mode: sidecar
`

const minimalTOML = `
# Spaces per nesting level
indent_unit = 2

# Reindent the bodies of <text>, <script> and <style>
# reindent_raw_blocks = true

# Insert a blank line between "break;" and the next case label
# separate_cases = true

# Extensions picked up when formatting directories
# extensions = [".cshtml", ".razor"]

# Glob patterns to skip
# ignore = ["bin/**", "obj/**"]

# Input encoding: auto, utf-8, utf-16le, utf-16be, windows-1252,
# iso-8859-1, shift_jis, euc-jp, euc-kr or gbk
# encoding = "auto"

# Backups taken before a file is rewritten
# [backups]
# enabled = true
# mode = "sidecar"
`
