package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/fsutil"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

func newRestoreCommand() *cobra.Command {
	var includeVendored bool

	cmd := &cobra.Command{
		Use:   "restore [paths...]",
		Short: "Restore templates from their backups",
		Long: `Restore templates from the sidecar backups written by "format --write".

Each template under the given paths that has a .cshtmlfmt.bak file next to it
is overwritten with the backup, and the backup is removed.

Examples:
  cshtmlfmt restore                     # Restore everything below .
  cshtmlfmt restore Views/Index.cshtml  # Restore one file`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCfg := &config.Config{}
			if cmd.Flags().Changed("include-vendored") {
				cliCfg.IncludeVendored = config.Bool(includeVendored)
			}
			return runRestore(cmd, args, cliCfg)
		},
	}

	cmd.Flags().BoolVar(&includeVendored, "include-vendored", false, "also restore files in vendored directories")

	return cmd
}

func runRestore(cmd *cobra.Command, args []string, cliCfg *config.Config) error {
	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger := logging.NewInteractive()

	opts := runner.OptionsFromConfig(cfg, args)
	opts.WorkingDir = workDir

	files, err := runner.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("discover files: %w", err)
	}

	var restored int
	var errs []error
	for _, path := range files {
		ok, err := fsutil.Restore(ctx, path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", relativePath(workDir, path), err))
			continue
		}
		if ok {
			restored++
			logger.Info("restored", logging.FieldPath, relativePath(workDir, path))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d files restored\n", restored, len(files))

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
