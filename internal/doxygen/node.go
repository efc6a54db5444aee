// Package doxygen parses documentation comments into a tree of paragraphs,
// block commands, inline commands, HTML tags and verbatim blocks.
package doxygen

// Kind identifies the type of a comment node.
type Kind int

const (
	KindNull Kind = iota
	KindText
	KindInlineCommand
	KindHTMLStartTag
	KindHTMLEndTag
	KindParagraph
	KindBlockCommand
	KindParamCommand
	KindTParamCommand
	KindVerbatimBlockCommand
	KindVerbatimBlockLine
	KindVerbatimLine
	KindFull
)

var kindNames = [...]string{
	KindNull:                 "Null",
	KindText:                 "Text",
	KindInlineCommand:        "InlineCommand",
	KindHTMLStartTag:         "HTMLStartTag",
	KindHTMLEndTag:           "HTMLEndTag",
	KindParagraph:            "Paragraph",
	KindBlockCommand:         "BlockCommand",
	KindParamCommand:         "ParamCommand",
	KindTParamCommand:        "TParamCommand",
	KindVerbatimBlockCommand: "VerbatimBlockCommand",
	KindVerbatimBlockLine:    "VerbatimBlockLine",
	KindVerbatimLine:         "VerbatimLine",
	KindFull:                 "FullComment",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// RenderKind is the suggested rendering of an inline command's argument.
type RenderKind int

const (
	RenderNormal RenderKind = iota
	RenderBold
	RenderMonospaced
	RenderEmphasized
	RenderAnchor
)

// Direction is the data flow of a \param.
type Direction int

const (
	DirectionIn Direction = iota
	DirectionOut
	DirectionInOut
)

// Attr is one attribute of an HTML start tag.
type Attr struct {
	Name  string
	Value string
}

// Node is one element of a parsed comment. Which fields are meaningful
// depends on Kind.
type Node struct {
	Kind     Kind
	Children []*Node

	// Text holds the text of Text, VerbatimBlockLine and VerbatimLine nodes.
	Text string
	// Name is the command or tag name, without the leading marker.
	Name string
	// Marker is the character that introduced a command: '\\' or '@'.
	Marker byte
	// Args are the word arguments of an inline command.
	Args   []string
	Render RenderKind

	Attrs       []Attr
	SelfClosing bool

	ParamName         string
	Direction         Direction
	DirectionExplicit bool
	ParamIndex        int   // -1 when unresolved
	Positions         []int // template parameter position; empty when unresolved

	CloseName string // closing command of a verbatim block

	// TrailingNewline is set on the last inline node of a source line.
	TrailingNewline bool
}

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.Children) }

// Child returns the i-th child.
func (n *Node) Child(i int) (*Node, bool) {
	if i < 0 || i >= len(n.Children) {
		return nil, false
	}
	return n.Children[i], true
}

// IsWhitespace reports whether a Text node or a Paragraph holds only
// whitespace.
func (n *Node) IsWhitespace() bool {
	switch n.Kind {
	case KindText:
		for _, r := range n.Text {
			if r != ' ' && r != '\t' && r != '\n' && r != '\r' && r != '\f' && r != '\v' {
				return false
			}
		}
		return true
	case KindParagraph:
		for _, c := range n.Children {
			if c.Kind != KindText || !c.IsWhitespace() {
				return false
			}
		}
		return true
	}
	return false
}

// Paragraph returns the paragraph child of a block command.
func (n *Node) Paragraph() (*Node, bool) {
	for _, c := range n.Children {
		if c.Kind == KindParagraph {
			return c, true
		}
	}
	return nil, false
}
