// Package refs indexes what a document links to and what it defines as link
// targets: heading and HTML anchors, reference definitions and
// reference-style links. Rules that check links across the whole document
// share one Index.
package refs

import (
	"regexp"
	"strings"
)

// Style is the syntax of a reference-style link or image.
type Style int

const (
	// StyleFull is [text][label].
	StyleFull Style = iota

	// StyleCollapsed is [label][].
	StyleCollapsed

	// StyleShortcut is [label].
	StyleShortcut
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case StyleFull:
		return "full"
	case StyleCollapsed:
		return "collapsed"
	case StyleShortcut:
		return "shortcut"
	default:
		return "unknown"
	}
}

// Definition is a link reference definition such as
// [label]: https://example.com "Title".
type Definition struct {
	// Label is the label as written.
	Label string

	// Normalized is the label used for matching.
	Normalized string

	Destination string
	Title       string

	// Line is the 1-based line of the definition.
	Line int

	// Duplicate is set on every definition after the first of a label.
	Duplicate bool

	// Uses counts the references resolving to this definition.
	Uses int
}

// Reference is a reference-style link or image.
type Reference struct {
	Style Style
	Image bool

	// Label is the label as written. For collapsed and shortcut
	// references it is the link text.
	Label string

	// Normalized is the label used for matching.
	Normalized string

	// Offset is the byte offset of the opening bracket ("!" for images).
	Offset int

	// Definition is the definition the label resolves to, or nil.
	Definition *Definition
}

// FragmentLink is a link whose destination is a fragment of the document
// itself, such as [see](#usage).
type FragmentLink struct {
	// Fragment is the destination without the leading "#".
	Fragment string

	// Offset is the byte offset where the link starts.
	Offset int

	// FragmentOffset is the byte offset of the "#" in the source, or -1 when
	// the destination is not written inside the link.
	FragmentOffset int
}

// Index holds the link data of one document.
type Index struct {
	Anchors *AnchorMap

	// Definitions maps normalized labels to their first definition.
	Definitions map[string]*Definition

	// AllDefinitions lists every definition in document order, duplicates
	// included.
	AllDefinitions []*Definition

	// References lists the reference-style links in document order.
	References []*Reference

	// Fragments lists the same-document fragment links in document order.
	Fragments []FragmentLink
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		Anchors:     NewAnchorMap(),
		Definitions: make(map[string]*Definition),
	}
}

// Unused returns the first definitions of labels nothing references.
func (ix *Index) Unused() []*Definition {
	var out []*Definition
	for _, def := range ix.AllDefinitions {
		if !def.Duplicate && def.Uses == 0 {
			out = append(out, def)
		}
	}
	return out
}

// Duplicates returns the definitions repeating an earlier label.
func (ix *Index) Duplicates() []*Definition {
	var out []*Definition
	for _, def := range ix.AllDefinitions {
		if def.Duplicate {
			out = append(out, def)
		}
	}
	return out
}

// Unresolved returns the references whose label has no definition.
func (ix *Index) Unresolved() []*Reference {
	var out []*Reference
	for _, ref := range ix.References {
		if ref.Definition == nil {
			out = append(out, ref)
		}
	}
	return out
}

// ValidFragment reports whether fragment (without "#") names a target of
// the document. "top", GitHub line references and text fragments are
// always valid.
func (ix *Index) ValidFragment(fragment string) bool {
	switch {
	case fragment == "", strings.EqualFold(fragment, "top"):
		return true
	case strings.HasPrefix(fragment, ":~:"):
		return true
	case lineReference.MatchString(fragment):
		return true
	default:
		return ix.Anchors.Has(fragment)
	}
}

// lineReference matches GitHub line anchors: L20, L19C5, L19C5-L21C11.
var lineReference = regexp.MustCompile(`^L\d+(?:C\d+)?(?:-L\d+(?:C\d+)?)?$`)

// NormalizeLabel folds case and collapses whitespace, the way CommonMark
// matches reference labels.
func NormalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}

// Fragment returns the part of url after "#", and whether there is one.
func Fragment(url string) (string, bool) {
	_, fragment, ok := strings.Cut(url, "#")
	return fragment, ok
}
