package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new cshtmlfmt configuration file",
		Long: `Create a new .cshtmlfmt.yml configuration file in the current directory
with sensible defaults.

Examples:
  cshtmlfmt init                      Create minimal .cshtmlfmt.yml
  cshtmlfmt init --full               Write every setting with its default
  cshtmlfmt init --format toml        Create .cshtmlfmt.toml instead
  cshtmlfmt init --output custom.yml  Write to a custom file path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Write every setting with its default value")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or toml")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .cshtmlfmt.yml or .cshtmlfmt.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	format := config.FileFormat(flags.format)
	if format != config.FileYAML && format != config.FileTOML {
		return fmt.Errorf("invalid format %q: must be yaml or toml", flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if format == config.FileTOML {
			outputPath = ".cshtmlfmt.toml"
		} else {
			outputPath = ".cshtmlfmt.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")

	return nil
}
