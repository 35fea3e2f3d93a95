package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cshtmlfmt/internal/configloader"
	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
)

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves the effective configuration for cmd, layering
// cliCfg over files and the environment. It returns the config and the
// working directory used for discovery.
func loadConfig(cmd *cobra.Command, cliCfg *config.Config) (*config.Config, string, error) {
	logger := logging.Default()

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(commandContext(cmd), configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cliCfg,
	})
	if err != nil {
		return nil, "", errors.Join(errors.New("failed to load configuration"), err)
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldIndentUnit, cfg.IndentUnit,
		logging.FieldRawBlocks, cfg.RawBlocksEnabled(),
		logging.FieldCaseSpacing, cfg.CaseSpacingEnabled(),
		logging.FieldWrite, cfg.Write,
		logging.FieldCheck, cfg.Check,
		logging.FieldJobs, cfg.Jobs,
	)

	return cfg, workDir, nil
}

// colorMode returns the --color persistent flag, defaulting to auto.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// relativePath shows path relative to workDir when it lies inside it.
func relativePath(workDir, path string) string {
	rel, err := filepath.Rel(workDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
