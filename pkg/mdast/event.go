package mdast

// Kind classifies the Markdown construct an Event belongs to.
type Kind uint16

// Construct kinds for block-level and inline-level Markdown elements.
const (
	KindInvalid Kind = iota

	// Block-level constructs.
	KindParagraph
	KindHeading
	KindList
	KindListItem
	KindBlockquote
	KindCodeBlock
	KindThematicBreak
	KindHTMLBlock
	KindTable
	KindTableRow
	KindTableCell

	// Inline-level constructs.
	KindText
	KindEmphasis
	KindStrong
	KindStrikethrough
	KindCodeSpan
	KindLink
	KindImage
	KindHTMLInline
	KindSoftBreak
	KindHardBreak
)

// String returns the construct name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

//nolint:gochecknoglobals // Read-only lookup table.
var kindNames = [...]string{
	KindInvalid:       "Invalid",
	KindParagraph:     "Paragraph",
	KindHeading:       "Heading",
	KindList:          "List",
	KindListItem:      "ListItem",
	KindBlockquote:    "Blockquote",
	KindCodeBlock:     "CodeBlock",
	KindThematicBreak: "ThematicBreak",
	KindHTMLBlock:     "HTMLBlock",
	KindTable:         "Table",
	KindTableRow:      "TableRow",
	KindTableCell:     "TableCell",
	KindText:          "Text",
	KindEmphasis:      "Emphasis",
	KindStrong:        "Strong",
	KindStrikethrough: "Strikethrough",
	KindCodeSpan:      "CodeSpan",
	KindLink:          "Link",
	KindImage:         "Image",
	KindHTMLInline:    "HTMLInline",
	KindSoftBreak:     "SoftBreak",
	KindHardBreak:     "HardBreak",
}

// IsBlock returns true for block-level constructs.
func (k Kind) IsBlock() bool {
	return k >= KindParagraph && k <= KindTableCell
}

// Phase tells whether an Event opens, closes, or fully describes a construct.
type Phase uint8

const (
	// Enter opens a container construct; a matching Exit follows later.
	Enter Phase = iota

	// Exit closes the most recent unmatched Enter of the same Kind.
	Exit

	// Leaf is a construct without children (text, code span, thematic break).
	Leaf
)

// Event is one structural marker of the document, in document order.
// Enter and Exit of the same construct carry the same Range and Attrs.
type Event struct {
	Phase Phase
	Kind  Kind

	// Range is the byte range of the whole construct, including its markers
	// where the parser can locate them.
	Range SourceRange

	// Attrs holds construct-specific attributes.
	Attrs Attrs
}

// Is reports whether the event has the given phase and kind.
func (e Event) Is(phase Phase, kind Kind) bool {
	return e.Phase == phase && e.Kind == kind
}

// Attrs holds construct-specific attributes. Only fields relevant to the
// event's Kind are set.
type Attrs struct {
	// Level is the heading level (1-6).
	Level int

	// Setext is true for underlined headings.
	Setext bool

	// Ordered is true for ordered lists.
	Ordered bool

	// Start is the first number of an ordered list.
	Start int

	// Marker is the bullet character ('-', '+', '*') of an unordered list, or
	// the delimiter ('.', ')') of an ordered list.
	Marker byte

	// Tight is true if the list has no blank lines between items.
	Tight bool

	// Number is the literal number written before an ordered list item.
	// -1 when it could not be read from the source.
	Number int

	// Fenced is true for fenced code blocks.
	Fenced bool

	// FenceChar is the fence character ('`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int

	// Info is the fenced code block info string.
	Info string

	// Destination is the link or image URL.
	Destination string

	// Title is the optional link or image title.
	Title string

	// Autolink is true for links written as <url> or recognised as bare URLs.
	Autolink bool

	// Delimiter is the emphasis character ('*' or '_').
	Delimiter byte
}

// MatchingExit returns the index of the Exit event closing the Enter event at
// index enter, or -1 when events[enter] is not an Enter or is never closed.
func MatchingExit(events []Event, enter int) int {
	if enter < 0 || enter >= len(events) || events[enter].Phase != Enter {
		return -1
	}

	kind := events[enter].Kind
	depth := 0
	for i := enter; i < len(events); i++ {
		if events[i].Kind != kind {
			continue
		}
		switch events[i].Phase {
		case Enter:
			depth++
		case Exit:
			depth--
			if depth == 0 {
				return i
			}
		case Leaf:
		}
	}
	return -1
}
