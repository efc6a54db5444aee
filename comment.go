package cindex

import (
	"github.com/jward/cindex/internal/doxygen"
)

// CommentKind identifies the concrete type of a Comment.
type CommentKind = doxygen.Kind

const (
	CommentNull                 = doxygen.KindNull
	CommentText                 = doxygen.KindText
	CommentInlineCommand        = doxygen.KindInlineCommand
	CommentHTMLStartTag         = doxygen.KindHTMLStartTag
	CommentHTMLEndTag           = doxygen.KindHTMLEndTag
	CommentParagraph            = doxygen.KindParagraph
	CommentBlockCommand         = doxygen.KindBlockCommand
	CommentParamCommand         = doxygen.KindParamCommand
	CommentTParamCommand        = doxygen.KindTParamCommand
	CommentVerbatimBlockCommand = doxygen.KindVerbatimBlockCommand
	CommentVerbatimBlockLine    = doxygen.KindVerbatimBlockLine
	CommentVerbatimLine         = doxygen.KindVerbatimLine
	CommentFull                 = doxygen.KindFull
)

// InlineCommandRenderKind is the suggested rendering of an inline command's
// argument.
type InlineCommandRenderKind = doxygen.RenderKind

const (
	RenderNormal     = doxygen.RenderNormal
	RenderBold       = doxygen.RenderBold
	RenderMonospaced = doxygen.RenderMonospaced
	RenderEmphasized = doxygen.RenderEmphasized
	RenderAnchor     = doxygen.RenderAnchor
)

// ParamPassDirection is the data flow of a \param.
type ParamPassDirection = doxygen.Direction

const (
	ParamPassIn    = doxygen.DirectionIn
	ParamPassOut   = doxygen.DirectionOut
	ParamPassInOut = doxygen.DirectionInOut
)

// Comment is a node of a parsed documentation comment. The concrete types
// are TextComment, InlineCommandComment, HTMLStartTagComment,
// HTMLEndTagComment, ParagraphComment, BlockCommandComment,
// ParamCommandComment, TParamCommandComment, VerbatimBlockCommandComment,
// VerbatimBlockLineComment, VerbatimLineComment and FullComment.
type Comment interface {
	Kind() CommentKind
	ChildCount() int
	Child(i int) (Comment, bool)
	Check() error

	base() *commentBase
}

// commentBase is shared by every comment node. All nodes of one tree share
// the handle of their FullComment.
type commentBase struct {
	owner *handle
	n     *doxygen.Node
}

func (b *commentBase) base() *commentBase { return b }

func (b *commentBase) check(op string) error {
	return b.owner.check(op)
}

func (b *commentBase) mustCheck(op string) {
	b.owner.mustCheck(op)
}

// Kind returns the concrete kind of the node.
func (b *commentBase) Kind() CommentKind {
	b.mustCheck("Comment.Kind")
	return b.n.Kind
}

// ChildCount returns the number of children.
func (b *commentBase) ChildCount() int {
	b.mustCheck("Comment.ChildCount")
	return b.n.ChildCount()
}

// Child returns the i-th child.
func (b *commentBase) Child(i int) (Comment, bool) {
	b.mustCheck("Comment.Child")
	c, ok := b.n.Child(i)
	if !ok {
		return nil, false
	}
	return wrapComment(c, b.owner), true
}

// Children returns every child in document order.
func (b *commentBase) Children() []Comment {
	b.mustCheck("Comment.Children")
	out := make([]Comment, len(b.n.Children))
	for i, c := range b.n.Children {
		out[i] = wrapComment(c, b.owner)
	}
	return out
}

// Check reports whether the comment can still be used.
func (b *commentBase) Check() error {
	return b.check("Comment")
}

func wrapComment(n *doxygen.Node, owner *handle) Comment {
	b := commentBase{owner: owner, n: n}
	switch n.Kind {
	case doxygen.KindText:
		return &TextComment{b}
	case doxygen.KindInlineCommand:
		return &InlineCommandComment{b}
	case doxygen.KindHTMLStartTag:
		return &HTMLStartTagComment{b}
	case doxygen.KindHTMLEndTag:
		return &HTMLEndTagComment{b}
	case doxygen.KindParagraph:
		return &ParagraphComment{b}
	case doxygen.KindBlockCommand:
		return &BlockCommandComment{b}
	case doxygen.KindParamCommand:
		return &ParamCommandComment{BlockCommandComment{b}}
	case doxygen.KindTParamCommand:
		return &TParamCommandComment{BlockCommandComment{b}}
	case doxygen.KindVerbatimBlockCommand:
		return &VerbatimBlockCommandComment{BlockCommandComment{b}}
	case doxygen.KindVerbatimBlockLine:
		return &VerbatimBlockLineComment{b}
	case doxygen.KindVerbatimLine:
		return &VerbatimLineComment{BlockCommandComment{b}}
	}
	// The root is only ever created by newFullComment.
	return &FullComment{commentBase: b}
}

// TextComment is plain text inside a paragraph.
type TextComment struct{ commentBase }

func (c *TextComment) Text() string {
	c.mustCheck("TextComment.Text")
	return c.n.Text
}

// IsWhitespace reports whether the text is only whitespace.
func (c *TextComment) IsWhitespace() bool {
	c.mustCheck("TextComment.IsWhitespace")
	return c.n.IsWhitespace()
}

// HasTrailingNewline reports whether the text ends its source line.
func (c *TextComment) HasTrailingNewline() bool {
	c.mustCheck("TextComment.HasTrailingNewline")
	return c.n.TrailingNewline
}

// InlineCommandComment is a command such as \b or \c that applies to the
// following word.
type InlineCommandComment struct{ commentBase }

func (c *InlineCommandComment) CommandName() string {
	c.mustCheck("InlineCommandComment.CommandName")
	return c.n.Name
}

func (c *InlineCommandComment) RenderKind() InlineCommandRenderKind {
	c.mustCheck("InlineCommandComment.RenderKind")
	return c.n.Render
}

func (c *InlineCommandComment) NumArgs() int {
	c.mustCheck("InlineCommandComment.NumArgs")
	return len(c.n.Args)
}

func (c *InlineCommandComment) Arg(i int) (string, bool) {
	c.mustCheck("InlineCommandComment.Arg")
	if i < 0 || i >= len(c.n.Args) {
		return "", false
	}
	return c.n.Args[i], true
}

// HTMLStartTagComment is an opening HTML tag.
type HTMLStartTagComment struct{ commentBase }

func (c *HTMLStartTagComment) TagName() string {
	c.mustCheck("HTMLStartTagComment.TagName")
	return c.n.Name
}

func (c *HTMLStartTagComment) NumAttrs() int {
	c.mustCheck("HTMLStartTagComment.NumAttrs")
	return len(c.n.Attrs)
}

// Attr returns the name and value of the i-th attribute.
func (c *HTMLStartTagComment) Attr(i int) (name, value string, ok bool) {
	c.mustCheck("HTMLStartTagComment.Attr")
	if i < 0 || i >= len(c.n.Attrs) {
		return "", "", false
	}
	a := c.n.Attrs[i]
	return a.Name, a.Value, true
}

func (c *HTMLStartTagComment) IsSelfClosing() bool {
	c.mustCheck("HTMLStartTagComment.IsSelfClosing")
	return c.n.SelfClosing
}

// HTMLEndTagComment is a closing HTML tag.
type HTMLEndTagComment struct{ commentBase }

func (c *HTMLEndTagComment) TagName() string {
	c.mustCheck("HTMLEndTagComment.TagName")
	return c.n.Name
}

// ParagraphComment holds inline content.
type ParagraphComment struct{ commentBase }

// IsWhitespace reports whether the paragraph holds only whitespace text.
func (c *ParagraphComment) IsWhitespace() bool {
	c.mustCheck("ParagraphComment.IsWhitespace")
	return c.n.IsWhitespace()
}

// BlockCommandComment is a command such as \brief or \returns that owns the
// paragraph after it.
type BlockCommandComment struct{ commentBase }

func (c *BlockCommandComment) CommandName() string {
	c.mustCheck("BlockCommandComment.CommandName")
	return c.n.Name
}

// Paragraph returns the paragraph the command applies to.
func (c *BlockCommandComment) Paragraph() (*ParagraphComment, bool) {
	c.mustCheck("BlockCommandComment.Paragraph")
	p, ok := c.n.Paragraph()
	if !ok {
		return nil, false
	}
	return &ParagraphComment{commentBase{owner: c.owner, n: p}}, true
}

// ParamCommandComment documents one function parameter.
type ParamCommandComment struct{ BlockCommandComment }

func (c *ParamCommandComment) ParamName() string {
	c.mustCheck("ParamCommandComment.ParamName")
	return c.n.ParamName
}

// ParamIndex returns the zero-based position of the named parameter in the
// declaration. It reports false when the name does not resolve.
func (c *ParamCommandComment) ParamIndex() (int, bool) {
	c.mustCheck("ParamCommandComment.ParamIndex")
	if c.n.ParamIndex < 0 {
		return 0, false
	}
	return c.n.ParamIndex, true
}

// IsDirectionExplicit reports whether the direction was written as [in],
// [out] or [in,out].
func (c *ParamCommandComment) IsDirectionExplicit() bool {
	c.mustCheck("ParamCommandComment.IsDirectionExplicit")
	return c.n.DirectionExplicit
}

func (c *ParamCommandComment) Direction() ParamPassDirection {
	c.mustCheck("ParamCommandComment.Direction")
	return c.n.Direction
}

// TParamCommandComment documents one template parameter.
type TParamCommandComment struct{ BlockCommandComment }

func (c *TParamCommandComment) ParamName() string {
	c.mustCheck("TParamCommandComment.ParamName")
	return c.n.ParamName
}

// Index returns the position of the template parameter in the outermost
// template parameter list. It reports false when the name does not
// resolve.
func (c *TParamCommandComment) Index() (int, bool) {
	c.mustCheck("TParamCommandComment.Index")
	if len(c.n.Positions) == 0 {
		return 0, false
	}
	return c.n.Positions[0], true
}

// Depth returns the nesting depth of the template parameter, or 0 when it
// does not resolve.
func (c *TParamCommandComment) Depth() int {
	c.mustCheck("TParamCommandComment.Depth")
	return len(c.n.Positions)
}

// VerbatimBlockCommandComment is a block such as \code ... \endcode whose
// lines are kept as written.
type VerbatimBlockCommandComment struct{ BlockCommandComment }

// CloseName returns the command that ends the block.
func (c *VerbatimBlockCommandComment) CloseName() string {
	c.mustCheck("VerbatimBlockCommandComment.CloseName")
	return c.n.CloseName
}

// VerbatimBlockLineComment is one line inside a verbatim block.
type VerbatimBlockLineComment struct{ commentBase }

func (c *VerbatimBlockLineComment) Text() string {
	c.mustCheck("VerbatimBlockLineComment.Text")
	return c.n.Text
}

// VerbatimLineComment is a command such as \fn whose argument is the rest
// of the line, kept as written.
type VerbatimLineComment struct{ BlockCommandComment }

func (c *VerbatimLineComment) Text() string {
	c.mustCheck("VerbatimLineComment.Text")
	return c.n.Text
}

// FullComment is the root of a parsed documentation comment.
type FullComment struct {
	commentBase
	h handle
}

func newFullComment(root *doxygen.Node, owner *handle) *FullComment {
	fc := &FullComment{h: handle{owner: owner}}
	fc.commentBase = commentBase{owner: &fc.h, n: root}
	return fc
}

// ParseComment parses a documentation comment that is not attached to any
// declaration. \param and \tparam names stay unresolved.
func ParseComment(text string) *FullComment {
	return newFullComment(doxygen.Parse(text, doxygen.DeclInfo{}), nil)
}

// Close releases the comment and every node taken from it. Closing twice is
// a no-op.
func (c *FullComment) Close() error {
	c.h.dispose()
	return nil
}

// Brief returns the brief description: the \brief paragraph when there is
// one, otherwise the first paragraph.
func (c *FullComment) Brief() string {
	c.mustCheck("FullComment.Brief")
	return doxygen.Brief(c.n)
}
