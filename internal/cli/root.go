// Package cli provides the Cobra command structure for mdcheck.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcheck/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	debug      bool
	configPath string
	color      string
}

// NewRootCommand creates the root mdcheck command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	globals := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "mdcheck",
		Short: "A configurable, self-fixing Markdown style checker",
		Long: `mdcheck checks Markdown files against a configurable set of style rules
and fixes what it can.

Configuration is read from .markdownlint.{jsonc,json,yaml,yml} and
.markdownlint-cli2.{jsonc,yaml,yml} files between the repository root and
each document, so existing markdownlint setups work unchanged. Rules can be
disabled or reconfigured inside a document with <!-- markdownlint-... -->
comments.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if globals.debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       info.Version,
	}

	rootCmd.PersistentFlags().BoolVar(&globals.debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "path to a config file applied to every document")
	rootCmd.PersistentFlags().StringVar(&globals.color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand(globals))
	rootCmd.AddCommand(newRulesCommand(globals))
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	applyHelpStyles(rootCmd, globals)

	return rootCmd
}
