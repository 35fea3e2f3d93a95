// Package cli provides the Cobra command structure for cshtmlfmt.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/cshtmlfmt/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root cshtmlfmt command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "cshtmlfmt",
		Short: "An indentation formatter for Razor templates",
		Long: `cshtmlfmt re-indents Razor (.cshtml) templates.

It recomputes the leading whitespace of every line from the nesting of HTML
elements, Razor code blocks and C# braces, and reindents the bodies of <text>,
<script> and <style> blocks. Nothing but indentation changes: every formatted
document is checked against its input before it is written, legacy encodings
and line endings are preserved, and backups are taken before files are
rewritten.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto",
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newFormatCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newRestoreCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	installHelp(rootCmd)

	return rootCmd
}
