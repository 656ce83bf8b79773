package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcheck/internal/ui/pretty"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

type rulesFlags struct {
	format string
	tag    string
}

// ruleInfo represents a rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Enabled     bool     `json:"enabledByDefault"`
	Fixable     bool     `json:"fixable"`
}

func newRulesCommand(globals *globalFlags) *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List the built-in rules",
		Long: `List the built-in rules with their IDs, names, tags and whether they
can fix what they report. Any ID, name or tag can be used as a key in
configuration files, in directives, and with --enable and --disable.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry := rules.DefaultRegistry()
			selected := registry.Rules()
			if flags.tag != "" {
				if !registry.IsTag(flags.tag) {
					return fmt.Errorf("%w: unknown tag %q; known tags: %s",
						ErrUsage, flags.tag, strings.Join(registry.Tags(), ", "))
				}
				selected = slices.DeleteFunc(selected, func(rule lint.Rule) bool {
					return !slices.ContainsFunc(rule.Tags(), func(tag string) bool {
						return strings.EqualFold(tag, flags.tag)
					})
				})
			}

			switch flags.format {
			case "json":
				return writeRulesJSON(cmd.OutOrStdout(), selected)
			case "text", "":
				styles := pretty.NewStyles(pretty.IsColorEnabled(globals.color, cmd.OutOrStdout()))
				return writeRulesTable(cmd.OutOrStdout(), styles, selected)
			default:
				return fmt.Errorf("%w: unknown format %q; valid formats: text, json", ErrUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.tag, "tag", "", "only list rules with this tag")

	return cmd
}

func writeRulesTable(out io.Writer, styles *pretty.Styles, selected []lint.Rule) error {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "NAME", "TAGS", "FIX", "DESCRIPTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingRight(1)
			switch {
			case row == table.HeaderRow:
				return style.Inherit(styles.Bold)
			case col == 0:
				return style.Inherit(styles.RuleID)
			default:
				return style
			}
		})

	for _, rule := range selected {
		fixable := ""
		if rule.CanFix() {
			fixable = styles.Fixable.Render("yes")
		}
		name := rule.Name()
		if !rule.DefaultEnabled() {
			name += styles.Dim.Render(" (off)")
		}
		t.Row(rule.ID(), name, strings.Join(rule.Tags(), ","), fixable, rule.Description())
	}

	_, err := fmt.Fprintln(out, t.String())
	return err
}

func writeRulesJSON(out io.Writer, selected []lint.Rule) error {
	infos := make([]ruleInfo, 0, len(selected))
	for _, rule := range selected {
		infos = append(infos, ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Tags:        rule.Tags(),
			Enabled:     rule.DefaultEnabled(),
			Fixable:     rule.CanFix(),
		})
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}
