package configloader

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/cshtmlfmt/pkg/config"
)

// envVarPrefix is the prefix for all cshtmlfmt environment variables.
const envVarPrefix = "CSHTMLFMT_"

type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeBool
	envTypeInt
	envTypeSlice
)

// envMapping binds one environment variable to a config field.
type envMapping struct {
	typ         envFieldType
	description string
	setString   func(*config.Config, string)
	setBool     func(*config.Config, bool)
	setInt      func(*config.Config, int)
	setSlice    func(*config.Config, []string)
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"INDENT_UNIT": {
		typ:         envTypeInt,
		description: "Spaces per nesting level",
		setInt:      func(c *config.Config, v int) { c.IndentUnit = v },
	},
	"REINDENT_RAW_BLOCKS": {
		typ:         envTypeBool,
		description: "Reindent <text>, <script> and <style> bodies: true or false",
		setBool:     func(c *config.Config, v bool) { c.ReindentRawBlocks = config.Bool(v) },
	},
	"SEPARATE_CASES": {
		typ:         envTypeBool,
		description: "Separate switch cases after break: true or false",
		setBool:     func(c *config.Config, v bool) { c.SeparateCases = config.Bool(v) },
	},
	"EXTENSIONS": {
		typ:         envTypeSlice,
		description: "Comma-separated template extensions",
		setSlice:    func(c *config.Config, v []string) { c.Extensions = v },
	},
	"IGNORE": {
		typ:         envTypeSlice,
		description: "Comma-separated list of ignore patterns",
		setSlice:    func(c *config.Config, v []string) { c.Ignore = v },
	},
	"INCLUDE_VENDORED": {
		typ:         envTypeBool,
		description: "Format files in vendored directories: true or false",
		setBool:     func(c *config.Config, v bool) { c.IncludeVendored = config.Bool(v) },
	},
	"ENCODING": {
		typ:         envTypeString,
		description: "Input encoding: auto or an encoding name",
		setString:   func(c *config.Config, v string) { c.Encoding = v },
	},
	"BACKUPS_ENABLED": {
		typ:         envTypeBool,
		description: "Back up files before rewriting: true or false",
		setBool:     func(c *config.Config, v bool) { c.Backups.Enabled = config.Bool(v) },
	},
	"BACKUPS_MODE": {
		typ:         envTypeString,
		description: "Backup mode: sidecar or none",
		setString:   func(c *config.Config, v string) { c.Backups.Mode = v },
	},
	"NO_BACKUPS": {
		typ:         envTypeBool,
		description: "Disable backups: true or false",
		setBool:     func(c *config.Config, v bool) { c.NoBackups = v },
	},
	"JOBS": {
		typ:         envTypeInt,
		description: "Number of parallel workers (0 = auto)",
		setInt:      func(c *config.Config, v int) { c.Jobs = v },
	},
	"FORMAT": {
		typ:         envTypeString,
		description: "Output format: text, json, diff or summary",
		setString:   func(c *config.Config, v string) { c.Format = config.OutputFormat(v) },
	},
}

// LoadFromEnv applies CSHTMLFMT_* overrides read through getenv.
func LoadFromEnv(cfg *config.Config, getenv func(string) string) error {
	if cfg == nil {
		return nil
	}

	for suffix, mapping := range envMappings {
		envVar := envVarPrefix + suffix
		value := getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		mapping.setString(cfg, strings.TrimSpace(value))
	case envTypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid boolean for %s: %q (expected true/false/1/0)", envVar, value)
		}
		mapping.setBool(cfg, b)
	case envTypeInt:
		i, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		mapping.setInt(cfg, i)
	case envTypeSlice:
		mapping.setSlice(cfg, parseSliceValue(value))
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
	return nil
}

// parseSliceValue splits a comma-separated value, dropping empty elements.
func parseSliceValue(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// EnvVar describes one supported environment variable.
type EnvVar struct {
	Name        string
	Description string
}

// ListEnvVars returns the supported environment variables sorted by name.
func ListEnvVars() []EnvVar {
	vars := make([]EnvVar, 0, len(envMappings))
	for suffix, mapping := range envMappings {
		vars = append(vars, EnvVar{Name: envVarPrefix + suffix, Description: mapping.description})
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i].Name < vars[j].Name })
	return vars
}
