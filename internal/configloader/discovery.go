package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// fullConfigFiles hold the whole configuration shape, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var fullConfigFiles = []string{
	".markdownlint-cli2.jsonc",
	".markdownlint-cli2.yaml",
	".markdownlint-cli2.yml",
}

// ruleMapFiles hold only the rule map, in order of preference.
//
//nolint:gochecknoglobals // Read-only lookup table.
var ruleMapFiles = []string{
	".markdownlint.jsonc",
	".markdownlint.json",
	".markdownlint.yaml",
	".markdownlint.yml",
}

// scriptConfigFiles are recognised but cannot be evaluated.
//
//nolint:gochecknoglobals // Read-only lookup table.
var scriptConfigFiles = []string{
	".markdownlint-cli2.cjs",
	".markdownlint-cli2.mjs",
	".markdownlint.cjs",
	".markdownlint.mjs",
}

// packageJSON may carry a full configuration under packageJSONKey.
const (
	packageJSON    = "package.json"
	packageJSONKey = "markdownlint-cli2"
)

// vcsRootMarkers are entries that indicate a VCS root.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DirFiles lists the configuration files of one directory.
type DirFiles struct {
	// RuleMap is the first .markdownlint.* file found.
	RuleMap string

	// Full is the first .markdownlint-cli2.* file found, else package.json.
	Full string

	// Unsupported lists JavaScript configuration files, which are skipped.
	Unsupported []string
}

// Files returns the loadable files in merge order. The full configuration
// comes last so its rule map wins over the bare one.
func (d DirFiles) Files() []string {
	var files []string
	if d.RuleMap != "" {
		files = append(files, d.RuleMap)
	}
	if d.Full != "" {
		files = append(files, d.Full)
	}
	return files
}

// FindInDir looks for configuration files in dir. Missing files are not errors.
func FindInDir(dir string) DirFiles {
	var found DirFiles

	found.RuleMap = firstExisting(dir, ruleMapFiles)
	found.Full = firstExisting(dir, fullConfigFiles)
	if found.Full == "" {
		found.Full = firstExisting(dir, []string{packageJSON})
	}

	for _, name := range scriptConfigFiles {
		if path := filepath.Join(dir, name); fileExists(path) {
			found.Unsupported = append(found.Unsupported, path)
		}
	}

	return found
}

func firstExisting(dir string, names []string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// FindRoot searches upward from startDir for a VCS root and returns it.
// Without one, startDir itself is the root. The home directory and the
// filesystem root stop the search.
func FindRoot(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		var err error
		startDir, err = os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		homeDir = ""
	}

	currentDir := absDir
	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("context cancelled: %w", ctx.Err())
		default:
		}

		if isVCSRoot(currentDir) {
			return currentDir, nil
		}
		if homeDir != "" && currentDir == homeDir {
			return absDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return absDir, nil
		}
		currentDir = parentDir
	}
}

// Chain returns the directories from root down to dir, both included.
// A dir outside root yields dir alone.
func Chain(root, dir string) []string {
	root = filepath.Clean(root)
	dir = filepath.Clean(dir)

	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return []string{dir}
	}

	chain := []string{root}
	if rel == "." {
		return chain
	}

	current := root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, part)
		chain = append(chain, current)
	}
	return chain
}

// isVCSRoot returns true if the directory contains a VCS root marker.
// A .git file marks a worktree root as well.
func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsJSONConfig returns true if the path is a JSON config file.
func IsJSONConfig(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".json" || ext == ".jsonc"
}

// IsYAMLConfig returns true if the path is a YAML config file.
func IsYAMLConfig(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
