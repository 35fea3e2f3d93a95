// Package configloader resolves the effective configuration. It implements
// XDG-style discovery, hierarchical merging of YAML and TOML files,
// environment variable overrides and validation.
package configloader

import (
	"context"
	"fmt"
	"os"

	"github.com/yaklabco/cshtmlfmt/pkg/config"
)

// LoadOptions controls configuration loading behavior.
type LoadOptions struct {
	// WorkingDir is the directory to search from for project config.
	// Defaults to current working directory if empty.
	WorkingDir string

	// ExplicitPath is an explicit config file path (from --config flag).
	// If set, the project config is not loaded.
	ExplicitPath string

	// IgnoreSystemConfig skips loading system-level configuration.
	IgnoreSystemConfig bool

	// IgnoreUserConfig skips loading user-level configuration.
	IgnoreUserConfig bool

	// IgnoreProjectConfig skips loading project-level configuration.
	IgnoreProjectConfig bool

	// IgnoreEnv skips loading environment variables.
	IgnoreEnv bool

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// CLIConfig contains configuration from CLI flags.
	// These take highest precedence.
	CLIConfig *config.Config
}

// LoadResult contains the resolved configuration and metadata.
type LoadResult struct {
	// Config is the final merged configuration.
	Config *config.Config

	// Paths contains the discovered configuration file paths.
	Paths *ConfigPaths

	// LoadedFrom lists the files that were actually loaded (in order).
	LoadedFrom []string

	// Warnings contains non-fatal issues encountered during loading.
	Warnings []string
}

// Load resolves the final configuration by merging all sources.
// Precedence (highest to lowest):
//  1. CLI flags (opts.CLIConfig)
//  2. Environment variables (CSHTMLFMT_*)
//  3. Explicit config file (opts.ExplicitPath)
//  4. Project config (.cshtmlfmt.{yml,yaml,toml} upward search)
//  5. User config ($XDG_CONFIG_HOME/cshtmlfmt/config.*)
//  6. System config (/etc/cshtmlfmt/config.*)
//  7. Defaults
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}

	result := &LoadResult{Paths: paths}
	cfg := config.NewConfig()

	layers := []struct {
		name    string
		path    string
		enabled bool
	}{
		{name: "system", path: paths.System, enabled: !opts.IgnoreSystemConfig},
		{name: "user", path: paths.User, enabled: !opts.IgnoreUserConfig},
		{name: "project", path: paths.Project, enabled: !opts.IgnoreProjectConfig && opts.ExplicitPath == ""},
		{name: "explicit", path: opts.ExplicitPath, enabled: true},
	}

	for _, layer := range layers {
		if !layer.enabled || layer.path == "" {
			continue
		}

		fileCfg, err := loadConfigFile(layer.path, result)
		if err != nil {
			return nil, fmt.Errorf("load %s config: %w", layer.name, err)
		}
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, layer.path)
	}

	if !opts.IgnoreEnv {
		getenv := opts.Getenv
		if getenv == nil {
			getenv = os.Getenv
		}
		if err := LoadFromEnv(cfg, getenv); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}

	if opts.CLIConfig != nil {
		cfg = merge(cfg, opts.CLIConfig)
	}

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

// loadConfigFile reads a YAML or TOML configuration file. Unknown keys are
// recorded as warnings on result.
func loadConfigFile(path string, result *LoadResult) (*config.Config, error) {
	format, err := config.FileFormatFor(path)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, unknown, err := config.Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, key := range unknown {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: unknown key %q; it will be ignored", path, key))
	}

	fileValidation := ValidateWithFile(cfg, path)
	if !fileValidation.Valid() {
		return nil, &fileValidation.Errors[0]
	}

	return cfg, nil
}
