package lint

import (
	"context"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

// ParseOptions carries the configuration a parser needs.
type ParseOptions struct {
	// Flavor selects the Markdown dialect.
	Flavor config.Flavor

	// FrontMatter is a custom regular expression for the front matter block.
	// Empty means the built-in "---" and "+++" fences.
	FrontMatter string
}

// ParseOptionsFromConfig extracts parser options from an effective configuration.
func ParseOptionsFromConfig(cfg *config.Config) ParseOptions {
	if cfg == nil {
		return ParseOptions{Flavor: config.FlavorCommonMark}
	}
	return ParseOptions{
		Flavor:      cfg.FlavorOrDefault(),
		FrontMatter: cfg.FrontMatterPattern(),
	}
}

// Parser turns raw Markdown into a Document.
//
// The lint package defines this interface in the consumer package.
// Implementations (e.g., parser/goldmark) provide the concrete parsing logic.
//
// Implementations must be:
//   - deterministic for a given (options, path, content) tuple,
//   - safe for concurrent use by multiple goroutines,
//   - side-effect free (no I/O, no global state mutation).
type Parser interface {
	// Parse builds a Document whose content equals content and whose events
	// carry byte ranges into it. Malformed Markdown is not an error.
	Parse(ctx context.Context, path string, content []byte, opts ParseOptions) (*mdast.Document, error)
}
