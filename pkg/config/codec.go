package config

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// FileFormat is the syntax of a configuration file.
type FileFormat string

const (
	FileYAML FileFormat = "yaml"
	FileTOML FileFormat = "toml"
)

// ErrUnknownFileFormat is returned for configuration files with an
// unrecognized extension.
var ErrUnknownFileFormat = errors.New("unknown config file format")

// FileFormatFor returns the format implied by a file name.
func FileFormatFor(path string) (FileFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return FileYAML, nil
	case ".toml":
		return FileTOML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFileFormat, path)
	}
}

// knownKeys lists every key accepted in configuration files, with nested
// keys joined by dots.
//
//nolint:gochecknoglobals // Read-only lookup table.
var knownKeys = map[string]bool{
	"indent_unit":         true,
	"reindent_raw_blocks": true,
	"separate_cases":      true,
	"extensions":          true,
	"ignore":              true,
	"include_vendored":    true,
	"encoding":            true,
	"backups":             true,
	"backups.enabled":     true,
	"backups.mode":        true,
}

// Parse decodes configuration data in the given format. Unknown keys are
// not an error; they are returned sorted so callers can warn about them.
func Parse(data []byte, format FileFormat) (*Config, []string, error) {
	switch format {
	case FileYAML:
		return FromYAML(data)
	case FileTOML:
		return FromTOML(data)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFileFormat, format)
	}
}

// FromYAML parses YAML configuration.
func FromYAML(data []byte) (*Config, []string, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("parse yaml: %w", err)
	}

	return cfg, unknownKeys(raw, ""), nil
}

// FromTOML parses TOML configuration.
func FromTOML(data []byte) (*Config, []string, error) {
	cfg := &Config{}
	meta, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("parse toml: %w", err)
	}

	var unknown []string
	for _, key := range meta.Undecoded() {
		unknown = append(unknown, key.String())
	}
	sort.Strings(unknown)

	return cfg, unknown, nil
}

func unknownKeys(raw map[string]any, prefix string) []string {
	var unknown []string
	for key, value := range raw {
		full := prefix + key
		if !knownKeys[full] {
			unknown = append(unknown, full)
			continue
		}
		if nested, ok := value.(map[string]any); ok {
			unknown = append(unknown, unknownKeys(nested, full+".")...)
		}
	}
	sort.Strings(unknown)
	return unknown
}

// ToYAML serializes the file-backed fields as YAML.
func (c *Config) ToYAML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("close encoder: %w", err)
	}

	return buf.Bytes(), nil
}

// ToTOML serializes the file-backed fields as TOML.
func (c *Config) ToTOML() ([]byte, error) {
	if c == nil {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.ReindentRawBlocks = cloneBool(c.ReindentRawBlocks)
	clone.SeparateCases = cloneBool(c.SeparateCases)
	clone.IncludeVendored = cloneBool(c.IncludeVendored)
	clone.Backups.Enabled = cloneBool(c.Backups.Enabled)
	clone.Extensions = cloneStrings(c.Extensions)
	clone.Ignore = cloneStrings(c.Ignore)

	return &clone
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	return Bool(*v)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}
