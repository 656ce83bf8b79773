package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdcheck/internal/configloader"
	"github.com/yaklabco/mdcheck/internal/logging"
	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
	goldmarkparser "github.com/yaklabco/mdcheck/pkg/parser/goldmark"
	"github.com/yaklabco/mdcheck/pkg/reporter"
	"github.com/yaklabco/mdcheck/pkg/runner"
)

type lintFlags struct {
	fix            bool
	dryRun         bool
	format         string
	flavor         string
	frontMatter    string
	globs          []string
	ignores        []string
	enable         []string
	disable        []string
	noInlineConfig bool
	gitignore      bool
	followSymlinks bool
	jobs           int
	maxFixPasses   int
	noEnv          bool
	showContext    bool
	flat           bool
	compact        bool
	ruleFormat     string
	summaryOrder   string
}

func newLintCommand(globals *globalFlags) *cobra.Command {
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths or globs...]",
		Short: "Check Markdown files",
		Long: `Check Markdown files for style and structure violations.

Without arguments, every .md and .markdown file below the current directory
is checked. Arguments may be files, directories or glob patterns.`,
		Example: `  mdcheck lint
  mdcheck lint docs/ README.md
  mdcheck lint "docs/**/*.md"
  mdcheck lint --fix
  mdcheck lint --dry-run
  mdcheck lint --disable MD013 --enable headings
  mdcheck lint --format json`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, globals, flags)
		},
	}

	addLintFlags(cmd, flags)

	return cmd
}

func addLintFlags(cmd *cobra.Command, flags *lintFlags) {
	cmd.Flags().BoolVar(&flags.fix, "fix", false, "fix violations in place")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "show the fixes as a diff without writing them (implies --fix)")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json, diff, summary")
	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: commonmark, gfm")
	cmd.Flags().StringVar(&flags.frontMatter, "front-matter", "", "regular expression matching front matter")
	cmd.Flags().StringSliceVar(&flags.globs, "glob", nil, "glob patterns selecting files; a leading ! excludes")
	cmd.Flags().StringSliceVar(&flags.ignores, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rules or tags to enable")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rules or tags to disable")
	cmd.Flags().BoolVar(&flags.noInlineConfig, "no-inline-config", false, "ignore <!-- markdownlint-... --> directives")
	cmd.Flags().BoolVar(&flags.gitignore, "gitignore", true, "skip files matched by .gitignore")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = one per CPU)")
	cmd.Flags().IntVar(&flags.maxFixPasses, "max-fix-passes", 0, "maximum lint-and-fix rounds per file (0 = default)")
	cmd.Flags().BoolVar(&flags.noEnv, "no-env", false, "ignore MDCHECK_* environment variables")
	cmd.Flags().BoolVar(&flags.showContext, "context", false, "show the source line under each violation")
	cmd.Flags().BoolVar(&flags.flat, "flat", false, "list violations without per-file headers")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "minify JSON output")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", string(config.RuleFormatCombined),
		"rule identifier format in output: name, id, or combined")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", string(reporter.SummaryOrderRules),
		"order of tables in summary output: rules, files")
}

// cliFragment builds the configuration fragment of the flags the user set.
func cliFragment(cmd *cobra.Command, flags *lintFlags) (*config.Config, error) {
	cfg := config.New()
	changed := cmd.Flags().Changed

	if changed("fix") || flags.dryRun {
		cfg.Fix = config.Bool(flags.fix || flags.dryRun)
	}
	if changed("flavor") {
		flavor := config.Flavor(flags.flavor)
		if !flavor.IsValid() {
			return nil, fmt.Errorf("%w: invalid flavor %q; must be one of: commonmark, gfm", ErrUsage, flags.flavor)
		}
		cfg.Flavor = &flavor
	}
	if changed("front-matter") {
		cfg.FrontMatter = config.String(flags.frontMatter)
	}
	if changed("no-inline-config") {
		cfg.NoInlineConfig = config.Bool(flags.noInlineConfig)
	}
	if changed("gitignore") {
		cfg.Gitignore = config.Bool(flags.gitignore)
	}

	cfg.Globs = flags.globs
	cfg.Ignores = flags.ignores

	for _, key := range flags.enable {
		cfg.Rules[key] = config.Enabled(true)
	}
	for _, key := range flags.disable {
		cfg.Rules[key] = config.Enabled(false)
	}

	return cfg, nil
}

func runLint(cmd *cobra.Command, args []string, globals *globalFlags, flags *lintFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.Default()
	ctx = logging.WithLogger(ctx, logger)

	format, err := reporter.ParseFormat(flags.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if flags.dryRun && !cmd.Flags().Changed("format") {
		format = reporter.FormatDiff
	}
	ruleFormat := config.RuleFormat(flags.ruleFormat)
	if !ruleFormat.IsValid() {
		return fmt.Errorf("%w: invalid rule format %q; must be one of: name, id, combined", ErrUsage, flags.ruleFormat)
	}
	summaryOrder, err := reporter.ParseSummaryOrder(flags.summaryOrder)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	fragment, err := cliFragment(cmd, flags)
	if err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	resolver, err := configloader.NewResolver(ctx, configloader.Options{
		ExplicitPath: globals.configPath,
		IgnoreEnv:    flags.noEnv,
		CLIConfig:    fragment,
		Registry:     rules.DefaultRegistry(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	// Discovery settings come from the configuration of the working directory.
	top, err := resolver.ForDir(ctx, workDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}
	logger.Debug("configuration loaded",
		logging.FieldRoot, resolver.Root(),
		logging.FieldSources, top.Sources,
		logging.FieldFlavor, top.Config.FlavorOrDefault(),
		logging.FieldFix, top.Config.FixEnabled(),
		logging.FieldDryRun, flags.dryRun,
		logging.FieldJobs, flags.jobs,
	)

	engine := lint.NewEngine(goldmarkparser.New(), resolver.Registry())
	lintRunner := runner.New(lint.NewPipeline(engine))

	runOpts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Globs:          top.Config.Globs,
		Ignores:        top.Config.Ignores,
		Gitignore:      top.Config.GitignoreEnabled(),
		FollowSymlinks: flags.followSymlinks,
		Jobs:           flags.jobs,
		Config:         resolver,
		DryRun:         flags.dryRun,
		MaxFixPasses:   flags.maxFixPasses,
	}

	logger.Debug("starting lint run", logging.FieldPaths, runOpts.Paths, logging.FieldWorkingDir, workDir)

	result, err := lintRunner.Run(ctx, runOpts)
	if err != nil {
		return fmt.Errorf("lint run failed: %w", err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       cmd.OutOrStdout(),
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        globals.color,
		ShowContext:  flags.showContext,
		ShowSummary:  true,
		GroupByFile:  !flags.flat,
		Compact:      flags.compact,
		RuleFormat:   ruleFormat,
		SummaryOrder: summaryOrder,
		WorkingDir:   workDir,
	})
	if err != nil {
		return fmt.Errorf("create reporter: %w", err)
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	return ResultError(result)
}
