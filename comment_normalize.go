package cindex

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/jward/cindex/internal/doxygen"
)

// Normalize renders the comment as plain text, one line per top-level
// block. Whitespace inside paragraphs is collapsed, HTML tags lose their
// attributes, and verbatim content is kept as written between its opening
// and closing commands. Paragraph lines are NFC-normalized; verbatim lines
// are not. The result is a fixed point of NormalizeText.
func (c *FullComment) Normalize() string {
	c.mustCheck("FullComment.Normalize")
	n := &normalizer{open: make(map[string]int)}
	n.Self = n
	// Only a disposed comment can fail, and that was checked above.
	_ = VisitComment(n, c)
	return strings.Join(n.lines, "\n")
}

// normalizer is the CommentVisitor behind Normalize.
type normalizer struct {
	BaseCommentVisitor

	lines []string
	cur   strings.Builder
	open  map[string]int // unclosed HTML start tags by name
}

func (n *normalizer) VisitFull(c *FullComment) error {
	for i := 0; i < c.ChildCount(); i++ {
		child, _ := c.Child(i)
		if err := VisitComment(n, child); err != nil {
			return err
		}
		n.flush()
	}
	return nil
}

// flush ends the current line, collapsing its whitespace.
func (n *normalizer) flush() {
	if line := norm.NFC.String(collapse(n.cur.String())); line != "" {
		n.lines = append(n.lines, line)
	}
	n.cur.Reset()
}

func (n *normalizer) VisitText(c *TextComment) error {
	n.cur.WriteString(c.Text())
	if c.HasTrailingNewline() {
		n.cur.WriteByte(' ')
	}
	return nil
}

func (n *normalizer) VisitInlineCommand(c *InlineCommandComment) error {
	if c.NumArgs() == 0 {
		n.cur.WriteString(`\` + c.CommandName())
	}
	for i := 0; i < c.NumArgs(); i++ {
		arg, _ := c.Arg(i)
		if i > 0 {
			n.cur.WriteByte(' ')
		}
		n.cur.WriteString(arg)
	}
	if c.n.TrailingNewline {
		n.cur.WriteByte(' ')
	}
	return nil
}

func (n *normalizer) VisitHTMLStartTag(c *HTMLStartTagComment) error {
	if c.IsSelfClosing() {
		n.cur.WriteString("<" + c.TagName() + "/>")
	} else {
		n.open[c.TagName()]++
		n.cur.WriteString("<" + c.TagName() + ">")
	}
	return nil
}

func (n *normalizer) VisitHTMLEndTag(c *HTMLEndTagComment) error {
	if n.open[c.TagName()] == 0 {
		return nil
	}
	n.open[c.TagName()]--
	n.cur.WriteString("</" + c.TagName() + ">")
	return nil
}

func (n *normalizer) VisitParagraph(c *ParagraphComment) error {
	if err := n.visitChildren(c); err != nil {
		return err
	}
	n.cur.WriteByte(' ')
	return nil
}

func (n *normalizer) VisitBlockCommand(c Comment) error {
	if b, ok := c.(*BlockCommandComment); ok {
		n.cur.WriteString(`\` + b.CommandName() + " ")
	}
	return n.visitChildren(c)
}

func (n *normalizer) VisitParamCommand(c *ParamCommandComment) error {
	n.cur.WriteString(`\` + c.CommandName() + " ")
	if c.IsDirectionExplicit() {
		n.cur.WriteString(directionMarker(c.Direction()) + " ")
	}
	n.cur.WriteString(c.ParamName() + " ")
	return n.visitChildren(c)
}

func (n *normalizer) VisitTParamCommand(c *TParamCommandComment) error {
	n.cur.WriteString(`\` + c.CommandName() + " " + c.ParamName() + " ")
	return n.visitChildren(c)
}

func (n *normalizer) VisitVerbatimBlockComment(c *VerbatimBlockCommandComment) error {
	n.lines = append(n.lines, `\`+c.CommandName())
	if err := n.visitChildren(c); err != nil {
		return err
	}
	n.lines = append(n.lines, `\`+c.CloseName())
	return nil
}

func (n *normalizer) VisitVerbatimBlockLine(c *VerbatimBlockLineComment) error {
	n.lines = append(n.lines, c.Text())
	return nil
}

func (n *normalizer) VisitVerbatimLine(c *VerbatimLineComment) error {
	n.lines = append(n.lines, verbatimLine(c.CommandName(), c.Text()))
	return nil
}

func directionMarker(d ParamPassDirection) string {
	switch d {
	case ParamPassOut:
		return "[out]"
	case ParamPassInOut:
		return "[in,out]"
	}
	return "[in]"
}

func verbatimLine(name, text string) string {
	if text == "" {
		return `\` + name
	}
	return `\` + name + " " + text
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeText applies the normalization of FullComment.Normalize to text
// that is already in rendered form. Lines inside verbatim blocks are kept
// as they are and verbatim line commands are only trimmed. Every other line
// has its whitespace collapsed and is NFC-normalized, and blank lines are
// dropped.
func NormalizeText(s string) string {
	var out []string
	closeName := ""
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if closeName != "" {
			if strings.TrimSpace(line) == `\`+closeName {
				out = append(out, `\`+closeName)
				closeName = ""
				continue
			}
			out = append(out, line)
			continue
		}
		name, rest, ok := leadingCommand(line)
		if ok {
			if cl, verbatim := doxygen.IsVerbatimBlockStart(name); verbatim && strings.TrimSpace(rest) == "" {
				out = append(out, `\`+name)
				closeName = cl
				continue
			}
			if doxygen.IsVerbatimLine(name) {
				out = append(out, verbatimLine(name, strings.TrimSpace(rest)))
				continue
			}
		}
		if c := norm.NFC.String(collapse(line)); c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, "\n")
}

// leadingCommand splits a line that starts with \name. Rendered text
// always uses the backslash marker.
func leadingCommand(line string) (name, rest string, ok bool) {
	t := strings.TrimLeft(line, " \t")
	if len(t) < 2 || t[0] != '\\' {
		return "", "", false
	}
	end := 1
	for end < len(t) && isCommandChar(t[end]) {
		end++
	}
	if end == 1 {
		return "", "", false
	}
	if end < len(t) && t[end] != ' ' && t[end] != '\t' {
		return "", "", false
	}
	return t[1:end], t[end:], true
}

func isCommandChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
