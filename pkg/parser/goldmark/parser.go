// Package goldmark provides a lint.Parser implementation using the goldmark library.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdcheck/pkg/config"
	"github.com/yaklabco/mdcheck/pkg/lint"
	"github.com/yaklabco/mdcheck/pkg/mdast"
)

var _ lint.Parser = (*Parser)(nil)

// Parser implements lint.Parser using goldmark.
// It holds one goldmark instance per flavor and is safe for concurrent use.
type Parser struct {
	commonMark goldmark.Markdown
	gfm        goldmark.Markdown
}

// New creates a goldmark-based parser supporting CommonMark and GFM.
func New() *Parser {
	return &Parser{
		commonMark: newGoldmarkInstance(config.FlavorCommonMark),
		gfm:        newGoldmarkInstance(config.FlavorGFM),
	}
}

// Parse converts raw Markdown bytes into a Document.
//
// The method:
//  1. Checks for context cancellation.
//  2. Locates the front matter block and blanks it so goldmark ignores it.
//  3. Parses the blanked text with goldmark for the requested flavor.
//  4. Converts the goldmark AST into an event stream with byte ranges into
//     the original content.
//
// Returns an error only for cancellation or an invalid front matter pattern;
// malformed Markdown always parses.
func (p *Parser) Parse(ctx context.Context, path string, content []byte, opts lint.ParseOptions) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	fm, err := FindFrontMatter(content, opts.FrontMatter)
	if err != nil {
		return nil, err
	}

	source := content
	if fm != nil {
		source = blank(content, *fm)
	}

	reader := text.NewReader(source)
	root := p.instance(opts.Flavor).Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	events := newMapper(source).mapDocument(root)

	return mdast.NewDocument(path, content, events, fm), nil
}

//nolint:ireturn // goldmark.Markdown is an external interface type
func (p *Parser) instance(flavor config.Flavor) goldmark.Markdown {
	if flavor == config.FlavorGFM {
		return p.gfm
	}
	return p.commonMark
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(flavor config.Flavor) goldmark.Markdown {
	var opts []goldmark.Option

	switch flavor {
	case config.FlavorGFM:
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	case config.FlavorCommonMark:
		// No extensions for pure CommonMark.
	}

	return goldmark.New(opts...)
}

// blank returns a copy of content with every byte of r except line
// terminators replaced by a space, so offsets are unchanged.
func blank(content []byte, r mdast.SourceRange) []byte {
	out := make([]byte, len(content))
	copy(out, content)
	for i := r.StartOffset; i < r.EndOffset && i < len(out); i++ {
		if out[i] != '\n' && out[i] != '\r' {
			out[i] = ' '
		}
	}
	return out
}
