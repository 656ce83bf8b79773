package cli

import (
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcheck/internal/logging"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the version, commit and build date of mdcheck, the Go toolchain
and platform it was built for, and the number of built-in rules.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := log.NewWithOptions(cmd.OutOrStdout(), log.Options{Level: log.InfoLevel})
			out.Info("mdcheck",
				logging.FieldVersion, info.Version,
				logging.FieldCommit, info.Commit,
				logging.FieldBuilt, info.Date,
				logging.FieldGoVersion, runtime.Version(),
				logging.FieldPlatform, runtime.GOOS+"/"+runtime.GOARCH,
				logging.FieldRules, len(rules.All()),
			)
		},
	}
}
