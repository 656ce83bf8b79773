package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/mdcheck/internal/logging"
	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

// Default file names written by init.
const (
	fullConfigName = ".markdownlint-cli2.yaml"
	ruleMapName    = ".markdownlint.yaml"
)

type initFlags struct {
	force     bool
	full      bool
	rulesOnly bool
	output    string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a configuration file",
		Long: `Create a configuration file in the current directory.

By default a .markdownlint-cli2.yaml file is written with the rule map under
"config". With --rules-only a bare .markdownlint.yaml rule map is written
instead. --full lists every rule, each with its description.`,
		Example: `  mdcheck init
  mdcheck init --full
  mdcheck init --rules-only --output docs/.markdownlint.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "list every rule with its description")
	cmd.Flags().BoolVar(&flags.rulesOnly, "rules-only", false, "write a bare rule map ("+ruleMapName+")")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.Default()

	path := flags.output
	if path == "" {
		path = fullConfigName
		if flags.rulesOnly {
			path = ruleMapName
		}
	}

	if _, err := os.Stat(path); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: %s already exists; use --force to overwrite", ErrUsage, path)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	content, err := configTemplate(rules.DefaultRegistry().Rules(), flags.full, flags.rulesOnly)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	return nil
}

// configTemplate renders a starter configuration. The rule map enables
// every rule by default; with full, each rule is listed with its description.
func configTemplate(all []lint.Rule, full, rulesOnly bool) ([]byte, error) {
	ruleMap := &yaml.Node{Kind: yaml.MappingNode}
	ruleMap.Content = append(ruleMap.Content, scalar("default", "Rules not listed below follow this setting."), boolNode(true))

	if full {
		for _, rule := range all {
			key := scalar(rule.Name(), "")
			key.LineComment = rule.ID() + ": " + rule.Description()
			ruleMap.Content = append(ruleMap.Content, key, boolNode(rule.DefaultEnabled()))
		}
	}

	root := ruleMap
	if !rulesOnly {
		root = &yaml.Node{Kind: yaml.MappingNode}
		root.Content = append(root.Content,
			scalar("config", "Rule settings, keyed by rule ID, name or tag."), ruleMap,
			scalar("ignores", "Glob patterns of files to skip."), &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle},
			scalar("gitignore", ""), boolNode(true),
			scalar("fix", ""), boolNode(false),
		)
	}
	root.HeadComment = "mdcheck configuration"

	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(config.YAMLIndent())
	if err := encoder.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return buf.Bytes(), nil
}

func scalar(value, comment string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, HeadComment: comment}
}

func boolNode(value bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(value)}
}
