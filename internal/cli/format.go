package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
	"github.com/yaklabco/cshtmlfmt/pkg/config"
	"github.com/yaklabco/cshtmlfmt/pkg/pipeline"
	"github.com/yaklabco/cshtmlfmt/pkg/reporter"
	"github.com/yaklabco/cshtmlfmt/pkg/runner"
)

// stdinPath is the argument that selects standard input.
const stdinPath = "-"

type formatFlags struct {
	indent          int
	noRawReindent   bool
	noCaseSpacing   bool
	format          string
	ignore          []string
	extensions      []string
	encoding        string
	includeVendored bool
	stdinFilename   string
	noChanges       bool
	compact         bool
}

func newFormatCommand() *cobra.Command {
	var cfg config.Config
	flags := &formatFlags{}

	cmd := &cobra.Command{
		Use:     "format [paths...]",
		Aliases: []string{"fmt"},
		Short:   "Re-indent Razor templates",
		Long:    formatLongDescription,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFormat(cmd, args, &cfg, flags)
		},
	}

	addFormatFlags(cmd, &cfg, flags)
	cmd.MarkFlagsMutuallyExclusive("write", "check")

	return cmd
}

const formatLongDescription = `Re-indent Razor templates.

By default, checks all .cshtml and .razor files in the current directory and
subdirectories and reports which would change. Specify paths to format
specific files or directories. With no paths and piped input, or with "-",
the template is read from standard input and the result written to standard
output.

Examples:
  cshtmlfmt format                       # Report files that need formatting
  cshtmlfmt format -w Views/             # Rewrite templates under Views/
  cshtmlfmt format --check               # Exit 1 if anything would change (CI)
  cshtmlfmt format --diff Index.cshtml   # Show the changes as a unified diff
  cshtmlfmt format --indent 4 -w .       # Use four spaces per level
  cat Index.cshtml | cshtmlfmt format    # Format standard input`

func addFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	fs := cmd.Flags()
	fs.BoolVarP(&cfg.Write, "write", "w", false, "rewrite files in place")
	fs.BoolVar(&cfg.Check, "check", false, "exit with status 1 if any file needs formatting")
	fs.BoolVarP(&cfg.Diff, "diff", "d", false, "print a unified diff of the changes")
	groupFlags(fs, groupMode, "write", "check", "diff")

	addEngineFlags(fs, cfg, flags)
	fs.StringVar(&flags.stdinFilename, "stdin-filename", "stdin.cshtml", "file name reported for standard input")
	groupFlags(fs, groupFiles, "stdin-filename")

	fs.StringVar(&flags.format, "format", "text", "output `format`: text, json, diff, summary")
	fs.BoolVar(&flags.noChanges, "no-changes", false, "list files only, without their changed lines")
	fs.BoolVar(&flags.compact, "compact", false, "use compact output format")
	groupFlags(fs, groupOutput, "format", "no-changes", "compact")
}

// addEngineFlags registers the indentation and file selection flags shared
// by format and watch.
func addEngineFlags(fs *pflag.FlagSet, cfg *config.Config, flags *formatFlags) {
	fs.IntVar(&flags.indent, "indent", 0, "`spaces` per nesting level (default from config, 2)")
	fs.BoolVar(&flags.noRawReindent, "no-raw-reindent", false, "keep <text>, <script> and <style> bodies as they are")
	fs.BoolVar(&flags.noCaseSpacing, "no-case-spacing", false, "do not insert separators between switch cases")
	fs.StringVar(&flags.encoding, "encoding", "", "input `encoding` (default auto-detect)")
	groupFlags(fs, groupIndent, "indent", "no-raw-reindent", "no-case-spacing", "encoding")

	fs.StringSliceVar(&flags.ignore, "ignore", nil, "glob `patterns` to ignore")
	fs.StringSliceVar(&flags.extensions, "ext", nil, "file `extensions` to format in directories")
	fs.BoolVar(&flags.includeVendored, "include-vendored", false, "format files in vendored directories")
	fs.BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when writing")
	fs.IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel `workers` (0 = auto)")
	groupFlags(fs, groupFiles, "ignore", "ext", "include-vendored", "no-backups", "jobs")
}

// applyFormatFlags copies the explicitly set flags into cfg so that config
// files and the environment keep their values otherwise.
func applyFormatFlags(cmd *cobra.Command, cfg *config.Config, flags *formatFlags) {
	changed := cmd.Flags().Changed

	if changed("indent") {
		cfg.IndentUnit = flags.indent
	}
	if changed("no-raw-reindent") {
		cfg.ReindentRawBlocks = config.Bool(!flags.noRawReindent)
	}
	if changed("no-case-spacing") {
		cfg.SeparateCases = config.Bool(!flags.noCaseSpacing)
	}
	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("ignore") {
		cfg.Ignore = flags.ignore
	}
	if changed("ext") {
		cfg.Extensions = flags.extensions
	}
	if changed("encoding") {
		cfg.Encoding = flags.encoding
	}
	if changed("include-vendored") {
		cfg.IncludeVendored = config.Bool(flags.includeVendored)
	}
}

func runFormat(cmd *cobra.Command, args []string, cliCfg *config.Config, flags *formatFlags) error {
	applyFormatFlags(cmd, cliCfg, flags)

	cfg, workDir, err := loadConfig(cmd, cliCfg)
	if err != nil {
		return err
	}

	ctx := logging.WithLogger(commandContext(cmd), logging.Default())

	if useStdin(args, cmd.InOrStdin()) {
		return formatStdin(cmd, cfg, flags.stdinFilename)
	}

	runOpts := runner.OptionsFromConfig(cfg, args)
	runOpts.WorkingDir = workDir

	logging.Default().Debug("starting format run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New().Run(ctx, runOpts)
	if err != nil {
		return errors.Join(errors.New("format run failed"), err)
	}

	logging.Default().Debug("format run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesChanged, result.Stats.FilesChanged,
		logging.FieldFilesFailed, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration,
	)

	format, err := reporter.ParseFormat(string(cfg.Format))
	if err != nil {
		return fmt.Errorf("invalid format: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:      cmd.OutOrStdout(),
		ErrorWriter: cmd.ErrOrStderr(),
		Format:      format,
		Color:       colorMode(cmd),
		ShowChanges: !flags.noChanges,
		ShowSummary: true,
		Write:       cfg.Write,
		Compact:     flags.compact,
		WorkingDir:  workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	// --diff alongside a non-diff format prints the diffs after the report.
	if cfg.Diff && format != reporter.FormatDiff && format != reporter.FormatJSON {
		styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), cmd.OutOrStdout()))
		for _, file := range result.Files {
			if file.Result != nil && file.Result.Diff.HasChanges() {
				fmt.Fprint(cmd.OutOrStdout(), styles.FormatDiff(file.Result.Diff, relativePath(workDir, file.Path)))
			}
		}
	}

	return errorForExitCode(ExitCodeFromResult(result, cfg.Check))
}

// useStdin reports whether input comes from standard input: either "-" is
// the only argument, or no paths were given and stdin is a pipe or file.
func useStdin(args []string, in io.Reader) bool {
	if len(args) == 1 && args[0] == stdinPath {
		return true
	}
	if len(args) > 0 {
		return false
	}

	file, ok := in.(*os.File)
	if !ok {
		return false
	}
	if term.IsTerminal(int(file.Fd())) {
		return false
	}

	info, err := file.Stat()
	if err != nil {
		return false
	}
	// Character devices such as /dev/null are not treated as input.
	return info.Mode()&os.ModeCharDevice == 0
}

// formatStdin formats standard input. The formatted document goes to
// stdout unless --check or --diff ask for a report instead.
func formatStdin(cmd *cobra.Command, cfg *config.Config, name string) error {
	ctx := logging.WithLogger(commandContext(cmd), logging.Default())

	input, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	opts := pipeline.OptionsFromConfig(cfg)
	opts.Write = false

	out := cmd.OutOrStdout()

	result, err := pipeline.ProcessContent(ctx, name, input, opts)
	if err != nil {
		if !pipeline.IsPipelineError(err) {
			return err
		}
		// A filter hands its input back untouched when it cannot format it.
		if !cfg.Diff && !cfg.Check {
			if _, copyErr := out.Write(input); copyErr != nil {
				return fmt.Errorf("write stdout: %w", copyErr)
			}
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
		return ErrFilesFailed
	}

	switch {
	case cfg.Diff:
		if result.Diff.HasChanges() {
			styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), out))
			fmt.Fprint(out, styles.FormatDiff(result.Diff, name))
		}
	case cfg.Check:
		if result.Changed {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: needs formatting\n", name)
		}
	default:
		if _, err := io.Copy(out, bytes.NewReader(result.Output)); err != nil {
			return fmt.Errorf("write stdout: %w", err)
		}
	}

	if cfg.Check && result.Changed {
		return ErrFormattingNeeded
	}
	return nil
}
