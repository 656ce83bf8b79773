package refs

import (
	"strconv"
	"strings"
	"unicode"
)

// AnchorSource indicates the origin of an anchor.
type AnchorSource int

const (
	// AnchorFromHeading is generated from a Markdown heading.
	AnchorFromHeading AnchorSource = iota

	// AnchorFromHTMLID is from an HTML element's id attribute.
	AnchorFromHTMLID

	// AnchorFromHTMLName is from an HTML anchor's name attribute.
	AnchorFromHTMLName
)

// Anchor is a fragment target defined by the document.
type Anchor struct {
	// ID is the fragment identifier, without "#".
	ID string

	Source AnchorSource

	// Line is the 1-based line the anchor is defined on.
	Line int
}

// AnchorMap holds the anchors of one document.
type AnchorMap struct {
	anchors map[string]*Anchor
	lower   map[string]string

	// seen counts each heading slug for duplicate suffixes.
	seen map[string]int
}

// NewAnchorMap creates an empty AnchorMap.
func NewAnchorMap() *AnchorMap {
	return &AnchorMap{
		anchors: make(map[string]*Anchor),
		lower:   make(map[string]string),
		seen:    make(map[string]int),
	}
}

// Add records an anchor. The first definition of an ID wins.
func (m *AnchorMap) Add(anchor *Anchor) {
	if _, ok := m.anchors[anchor.ID]; ok {
		return
	}
	m.anchors[anchor.ID] = anchor
	if _, ok := m.lower[strings.ToLower(anchor.ID)]; !ok {
		m.lower[strings.ToLower(anchor.ID)] = anchor.ID
	}
}

// AddHeading records the anchor of a heading and returns its ID. Repeated
// slugs get "-1", "-2" suffixes in document order.
func (m *AnchorMap) AddHeading(text string, line int) string {
	base := Slug(text)
	count := m.seen[base]
	m.seen[base] = count + 1

	id := base
	if count > 0 {
		id = base + "-" + strconv.Itoa(count)
	}
	m.Add(&Anchor{ID: id, Source: AnchorFromHeading, Line: line})
	return id
}

// Has reports whether id is defined exactly.
func (m *AnchorMap) Has(id string) bool {
	_, ok := m.anchors[id]
	return ok
}

// Canonical returns the defined ID equal to id ignoring case.
func (m *AnchorMap) Canonical(id string) (string, bool) {
	canonical, ok := m.lower[strings.ToLower(id)]
	return canonical, ok
}

// Len returns the number of distinct anchor IDs.
func (m *AnchorMap) Len() int {
	return len(m.anchors)
}

// Slug converts heading text to the anchor GitHub generates for it:
// lowercased, punctuation dropped and each space turned into a hyphen.
func Slug(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, ch := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(ch), unicode.IsNumber(ch), unicode.IsMark(ch):
			b.WriteRune(ch)
		case ch == '-', ch == '_':
			b.WriteRune(ch)
		case ch == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
