package cli

import (
	"cmp"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/cshtmlfmt/internal/configloader"
	"github.com/yaklabco/cshtmlfmt/internal/ui/pretty"
)

// helpGroupAnnotation files a flag under a help section.
const helpGroupAnnotation = "cshtmlfmt_help_group"

// Help sections for the flags of format and watch, in display order.
const (
	groupMode   = "Mode"
	groupIndent = "Indentation"
	groupFiles  = "Files"
	groupOutput = "Output"
)

//nolint:gochecknoglobals // Read-only ordering.
var flagGroupOrder = []string{groupMode, groupIndent, groupFiles, groupOutput, ""}

// groupFlags files the named flags under group. Unknown names are ignored.
func groupFlags(flags *pflag.FlagSet, group string, names ...string) {
	for _, name := range names {
		if flags.Lookup(name) != nil {
			_ = flags.SetAnnotation(name, helpGroupAnnotation, []string{group})
		}
	}
}

func flagGroup(flag *pflag.Flag) string {
	if group := flag.Annotations[helpGroupAnnotation]; len(group) > 0 {
		return group[0]
	}
	return ""
}

// helpRow is one aligned line of a help section.
type helpRow struct {
	name, desc string
}

// installHelp renders help and usage for cmd and its subcommands with the
// color mode picked by --color at the time help is shown.
func installHelp(cmd *cobra.Command) {
	cmd.SetHelpFunc(func(c *cobra.Command, _ []string) {
		if err := renderHelp(c.OutOrStdout(), c, true); err != nil {
			c.PrintErrln(err)
		}
	})
	cmd.SetUsageFunc(func(c *cobra.Command) error {
		return renderHelp(c.OutOrStderr(), c, false)
	})
}

func renderHelp(w io.Writer, cmd *cobra.Command, full bool) error {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
	var b strings.Builder

	if full {
		if about := strings.TrimSpace(cmp.Or(cmd.Long, cmd.Short)); about != "" {
			b.WriteString(trimLineEnds(about))
			b.WriteString("\n")
		}
	}

	section := func(title string) {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.SummaryTitle.Render(title))
		b.WriteString("\n")
	}

	section("Usage:")
	if cmd.Runnable() {
		fmt.Fprintf(&b, "  %s\n", styles.FilePath.Render(cmd.UseLine()))
	}
	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "  %s\n", styles.FilePath.Render(cmd.CommandPath()+" [command]"))
	}

	if len(cmd.Aliases) > 0 {
		section("Aliases:")
		fmt.Fprintf(&b, "  %s\n", styles.Dim.Render(strings.Join(cmd.Aliases, ", ")))
	}

	if cmd.HasAvailableSubCommands() {
		var rows []helpRow
		for _, sub := range cmd.Commands() {
			if sub.IsAvailableCommand() || sub.Name() == "help" {
				rows = append(rows, helpRow{name: sub.Name(), desc: sub.Short})
			}
		}
		section("Commands:")
		writeRows(&b, rows, styles.Kind.Render)
	}

	groups := map[string][]helpRow{}
	cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
		if !flag.Hidden {
			groups[flagGroup(flag)] = append(groups[flagGroup(flag)], flagRow(flag))
		}
	})
	for _, group := range flagGroupOrder {
		if rows := groups[group]; len(rows) > 0 {
			section(strings.TrimSpace(group + " Flags:"))
			writeRows(&b, rows, styles.Info.Render)
		}
	}

	if cmd.HasAvailableInheritedFlags() {
		var rows []helpRow
		cmd.InheritedFlags().VisitAll(func(flag *pflag.Flag) {
			if !flag.Hidden {
				rows = append(rows, flagRow(flag))
			}
		})
		section("Global Flags:")
		writeRows(&b, rows, styles.Info.Render)
	}

	if !cmd.HasParent() {
		vars := configloader.ListEnvVars()
		rows := make([]helpRow, 0, len(vars))
		for _, v := range vars {
			rows = append(rows, helpRow{name: v.Name, desc: v.Description})
		}
		section("Environment:")
		writeRows(&b, rows, styles.Info.Render)
	}

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintf(&b, "\nUse %q for more information about a command.\n", cmd.CommandPath()+" [command] --help")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// flagRow renders a flag as "-w, --write" or "    --indent int" with its
// usage and, when it is not the zero value, its default.
func flagRow(flag *pflag.Flag) helpRow {
	name := "    --" + flag.Name
	if flag.Shorthand != "" {
		name = "-" + flag.Shorthand + ", --" + flag.Name
	}

	varName, usage := pflag.UnquoteUsage(flag)
	if varName != "" {
		name += " " + varName
	}

	switch flag.DefValue {
	case "", "false", "0", "[]", "0s":
	default:
		if flag.Value.Type() == "string" {
			usage += fmt.Sprintf(" (default %q)", flag.DefValue)
		} else {
			usage += fmt.Sprintf(" (default %s)", flag.DefValue)
		}
	}

	return helpRow{name: name, desc: usage}
}

// writeRows writes rows with their descriptions aligned one column past the
// widest name.
func writeRows(b *strings.Builder, rows []helpRow, style func(...string) string) {
	width := 0
	for _, row := range rows {
		width = max(width, runewidth.StringWidth(row.name))
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", width-runewidth.StringWidth(row.name))
		fmt.Fprintf(b, "  %s%s   %s\n", style(row.name), pad, row.desc)
	}
}

// trimLineEnds removes trailing blanks from every line.
func trimLineEnds(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
