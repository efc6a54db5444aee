package cindex

// CommentVisitor receives comment nodes by kind from VisitComment. The
// category methods (VisitInlineContent, VisitHTMLTag, VisitBlockCommand,
// VisitBlockContent) receive nodes forwarded from the more specific ones.
//
// Implementations usually embed BaseCommentVisitor and override only what
// they need.
type CommentVisitor interface {
	VisitInlineContent(c Comment) error
	VisitHTMLStartTag(c *HTMLStartTagComment) error
	VisitHTMLEndTag(c *HTMLEndTagComment) error
	VisitBlockContent(c Comment) error
	VisitText(c *TextComment) error
	VisitInlineCommand(c *InlineCommandComment) error
	VisitHTMLTag(c Comment) error
	VisitParagraph(c *ParagraphComment) error
	VisitBlockCommand(c Comment) error
	VisitParamCommand(c *ParamCommandComment) error
	VisitTParamCommand(c *TParamCommandComment) error
	VisitVerbatimBlockLine(c *VerbatimBlockLineComment) error
	VisitVerbatimBlockComment(c *VerbatimBlockCommandComment) error
	VisitVerbatimLine(c *VerbatimLineComment) error
	VisitFull(c *FullComment) error
}

// VisitComment checks that c is still usable and calls the method of v
// matching c's kind.
func VisitComment(v CommentVisitor, c Comment) error {
	const op = "VisitComment"
	if v == nil {
		return &UsageError{Op: op, Err: ErrNilVisitor}
	}
	if c == nil {
		return &UsageError{Op: op, Err: ErrInvalidArgument}
	}
	if err := c.Check(); err != nil {
		return err
	}
	switch c := c.(type) {
	case *TextComment:
		return v.VisitText(c)
	case *InlineCommandComment:
		return v.VisitInlineCommand(c)
	case *HTMLStartTagComment:
		return v.VisitHTMLStartTag(c)
	case *HTMLEndTagComment:
		return v.VisitHTMLEndTag(c)
	case *ParagraphComment:
		return v.VisitParagraph(c)
	case *BlockCommandComment:
		return v.VisitBlockCommand(c)
	case *ParamCommandComment:
		return v.VisitParamCommand(c)
	case *TParamCommandComment:
		return v.VisitTParamCommand(c)
	case *VerbatimBlockCommandComment:
		return v.VisitVerbatimBlockComment(c)
	case *VerbatimBlockLineComment:
		return v.VisitVerbatimBlockLine(c)
	case *VerbatimLineComment:
		return v.VisitVerbatimLine(c)
	case *FullComment:
		return v.VisitFull(c)
	}
	return &UsageError{Op: op, Err: ErrInvalidArgument}
}

// BaseCommentVisitor forwards every specific method to its category and
// walks children from the category roots. Self must point at the visitor
// that embeds the base so overrides are reached during the walk; when nil
// the base visits itself.
type BaseCommentVisitor struct {
	Self CommentVisitor
}

func (b *BaseCommentVisitor) self() CommentVisitor {
	if b.Self != nil {
		return b.Self
	}
	return b
}

func (b *BaseCommentVisitor) visitChildren(c Comment) error {
	for i := 0; i < c.ChildCount(); i++ {
		child, _ := c.Child(i)
		if err := VisitComment(b.self(), child); err != nil {
			return err
		}
	}
	return nil
}

func (b *BaseCommentVisitor) VisitInlineContent(c Comment) error {
	return b.visitChildren(c)
}

func (b *BaseCommentVisitor) VisitBlockContent(c Comment) error {
	return b.visitChildren(c)
}

func (b *BaseCommentVisitor) VisitVerbatimBlockLine(c *VerbatimBlockLineComment) error {
	return b.visitChildren(c)
}

func (b *BaseCommentVisitor) VisitFull(c *FullComment) error {
	return b.visitChildren(c)
}

func (b *BaseCommentVisitor) VisitText(c *TextComment) error {
	return b.self().VisitInlineContent(c)
}

func (b *BaseCommentVisitor) VisitInlineCommand(c *InlineCommandComment) error {
	return b.self().VisitInlineContent(c)
}

func (b *BaseCommentVisitor) VisitHTMLTag(c Comment) error {
	return b.self().VisitInlineContent(c)
}

func (b *BaseCommentVisitor) VisitHTMLStartTag(c *HTMLStartTagComment) error {
	return b.self().VisitHTMLTag(c)
}

func (b *BaseCommentVisitor) VisitHTMLEndTag(c *HTMLEndTagComment) error {
	return b.self().VisitHTMLTag(c)
}

func (b *BaseCommentVisitor) VisitParagraph(c *ParagraphComment) error {
	return b.self().VisitBlockContent(c)
}

func (b *BaseCommentVisitor) VisitBlockCommand(c Comment) error {
	return b.self().VisitBlockContent(c)
}

func (b *BaseCommentVisitor) VisitParamCommand(c *ParamCommandComment) error {
	return b.self().VisitBlockCommand(c)
}

func (b *BaseCommentVisitor) VisitTParamCommand(c *TParamCommandComment) error {
	return b.self().VisitBlockCommand(c)
}

func (b *BaseCommentVisitor) VisitVerbatimBlockComment(c *VerbatimBlockCommandComment) error {
	return b.self().VisitBlockCommand(c)
}

func (b *BaseCommentVisitor) VisitVerbatimLine(c *VerbatimLineComment) error {
	return b.self().VisitBlockCommand(c)
}
