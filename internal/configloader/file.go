package configloader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdcheck/pkg/config"
)

// ErrExtendsCycle indicates a chain of extends that returns to a file already being loaded.
var ErrExtendsCycle = errors.New("extends cycle")

// Fragment is one parsed configuration source.
type Fragment struct {
	// Source is the absolute path of the file, or a label such as "environment".
	Source string

	Config *config.Config
}

// LoadFile reads a configuration file and, before it, every file it
// extends. Fragments come back in merge order, base first. A package.json
// without a configuration key yields no fragments.
func LoadFile(path string) ([]Fragment, error) {
	return loadChain(path, make(map[string]bool))
}

func loadChain(path string, visiting map[string]bool) ([]Fragment, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}
	if visiting[abs] {
		return nil, fmt.Errorf("%w: %s", ErrExtendsCycle, abs)
	}
	visiting[abs] = true
	defer delete(visiting, abs)

	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	cfg, err := parseFile(abs, content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	if cfg == nil {
		return nil, nil
	}

	var chain []Fragment
	if cfg.Extends != "" {
		target := cfg.Extends
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(abs), target)
		}

		base, err := loadChain(target, visiting)
		if err != nil {
			return nil, fmt.Errorf("%s: extends %q: %w", abs, cfg.Extends, err)
		}
		chain = append(chain, base...)
		cfg.Extends = ""
	}

	return append(chain, Fragment{Source: abs, Config: cfg}), nil
}

// parseFile decodes content according to the file name: the -cli2 names and
// package.json carry the full shape, anything else is a bare rule map.
func parseFile(path string, content []byte) (*config.Config, error) {
	base := filepath.Base(path)

	if base == packageJSON {
		return fromPackageJSON(content)
	}

	if IsJSONConfig(path) {
		converted, err := jsoncToYAML(content)
		if err != nil {
			return nil, err
		}
		content = converted
	}

	if strings.HasPrefix(base, ".markdownlint-cli2.") {
		return config.FromYAML(content)
	}
	return config.RuleMapFromYAML(content)
}

func fromPackageJSON(content []byte) (*config.Config, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(content, &fields); err != nil {
		return nil, fmt.Errorf("parse package.json: %w", err)
	}

	raw, ok := fields[packageJSONKey]
	if !ok {
		return nil, nil
	}

	converted, err := jsoncToYAML(raw)
	if err != nil {
		return nil, err
	}
	return config.FromYAML(converted)
}
