package cli

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcheck/internal/ui/pretty"
)

const usageTemplate = `{{heading "Usage:"}}{{if .Runnable}}
  {{command .UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{command .CommandPath}} [command]{{end}}{{if .HasExample}}

{{heading "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{heading "Commands:"}}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{command (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{heading "Flags:"}}
{{trim .LocalFlags.FlagUsages}}{{end}}{{if .HasAvailableInheritedFlags}}

{{heading "Global Flags:"}}
{{trim .InheritedFlags.FlagUsages}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

const helpTemplate = `{{with (or .Long .Short)}}{{trim .}}

{{end}}` + usageTemplate

// applyHelpStyles renders help and usage with styled headings. Color is
// decided at render time, after --color has been parsed.
func applyHelpStyles(root *cobra.Command, globals *globalFlags) {
	render := func(cmd *cobra.Command, text string) error {
		styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.OutOrStdout()))
		tmpl, err := template.New("help").Funcs(template.FuncMap{
			"heading": func(s string) string { return styles.SummaryTitle.Render(s) },
			"command": func(s string) string { return styles.RuleID.Render(s) },
			"rpad":    func(s string, n int) string { return fmt.Sprintf("%-*s", n, s) },
			"trim":    func(s string) string { return strings.TrimRight(s, " \t\n") },
		}).Parse(text)
		if err != nil {
			return fmt.Errorf("parse help template: %w", err)
		}
		return tmpl.Execute(cmd.OutOrStdout(), cmd)
	}

	root.SetUsageFunc(func(cmd *cobra.Command) error {
		return render(cmd, usageTemplate)
	})
	root.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if err := render(cmd, helpTemplate); err != nil {
			cmd.PrintErrln(err)
		}
	})
}
