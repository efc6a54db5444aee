package doxygen

import (
	"strings"
)

// DeclInfo describes the declaration a comment is attached to, for resolving
// \param and \tparam names.
type DeclInfo struct {
	Params         []string
	Variadic       bool
	TemplateParams []string
}

type parser struct {
	lines []string
	info  DeclInfo
	full  *Node

	para       *Node // open paragraph, if any
	block      *Node // block command owning the open paragraph
	lastInline *Node
}

// Parse parses a raw documentation comment. The result is always a
// KindFull node.
func Parse(raw string, info DeclInfo) *Node {
	p := &parser{
		lines: StripMarkers(raw),
		info:  info,
		full:  &Node{Kind: KindFull, ParamIndex: -1},
	}
	for i := 0; i < len(p.lines); i++ {
		if strings.TrimSpace(p.lines[i]) == "" {
			p.closeParagraph()
			continue
		}
		i = p.parseLine(i, p.lines[i])
	}
	p.closeParagraph()
	p.resolve()
	return p.full
}

// parseLine processes line, a suffix of p.lines[i], and returns the index of
// the last line consumed.
func (p *parser) parseLine(i int, line string) int {
	for _, t := range lexLine(line) {
		switch t.kind {
		case tokText:
			p.inline(&Node{Kind: KindText, Text: t.text, ParamIndex: -1})
		case tokHTMLStart:
			p.inline(&Node{Kind: KindHTMLStartTag, Name: t.name, Attrs: t.attrs, SelfClosing: t.selfClosing, ParamIndex: -1})
		case tokHTMLEnd:
			p.inline(&Node{Kind: KindHTMLEndTag, Name: t.name, ParamIndex: -1})
		case tokCommand:
			rest := line[t.end:]
			info := lookupCommand(t.name)
			switch info.class {
			case classBlock:
				p.endParagraph()
				p.openBlock(&Node{Kind: KindBlockCommand, Name: t.name, Marker: t.marker, ParamIndex: -1})
			case classParam:
				p.endParagraph()
				n := &Node{Kind: KindParamCommand, Name: t.name, Marker: t.marker, ParamIndex: -1}
				rest = parseParamArgs(n, rest)
				p.openBlock(n)
				return p.parseLine(i, rest)
			case classTParam:
				p.endParagraph()
				n := &Node{Kind: KindTParamCommand, Name: t.name, Marker: t.marker, ParamIndex: -1}
				n.ParamName, rest = nextWord(rest)
				p.openBlock(n)
				return p.parseLine(i, rest)
			case classInline:
				n := &Node{Kind: KindInlineCommand, Name: t.name, Marker: t.marker, Render: info.render, ParamIndex: -1}
				var arg string
				arg, rest = nextWord(rest)
				if arg != "" {
					n.Args = []string{arg}
				}
				p.inline(n)
				return p.parseLine(i, rest)
			case classVerbatimBlock:
				p.endParagraph()
				return p.verbatimBlock(i, t, rest, info.closeName)
			case classVerbatimLine:
				p.endParagraph()
				p.full.Children = append(p.full.Children, &Node{
					Kind:       KindVerbatimLine,
					Name:       t.name,
					Marker:     t.marker,
					Text:       strings.TrimSpace(rest),
					ParamIndex: -1,
				})
				return i
			default:
				p.inline(&Node{Kind: KindInlineCommand, Name: t.name, Marker: t.marker, ParamIndex: -1})
			}
		}
	}
	if p.para != nil && p.lastInline != nil {
		p.lastInline.TrailingNewline = true
	}
	return i
}

// inline appends n to the open paragraph, opening one if needed.
func (p *parser) inline(n *Node) {
	if p.para == nil {
		if n.Kind == KindText && n.IsWhitespace() {
			return
		}
		p.para = &Node{Kind: KindParagraph, ParamIndex: -1}
		if p.block != nil {
			p.block.Children = append(p.block.Children, p.para)
		} else {
			p.full.Children = append(p.full.Children, p.para)
		}
	}
	p.para.Children = append(p.para.Children, n)
	p.lastInline = n
}

func (p *parser) openBlock(n *Node) {
	p.full.Children = append(p.full.Children, n)
	p.block = n
}

// endParagraph closes the open paragraph before a block-level command. The
// whitespace that separated the command from preceding text stays out of
// the paragraph.
func (p *parser) endParagraph() {
	if p.para != nil {
		kids := p.para.Children
		for len(kids) > 0 && kids[len(kids)-1].Kind == KindText && kids[len(kids)-1].IsWhitespace() {
			kids = kids[:len(kids)-1]
		}
		p.para.Children = kids
	}
	p.closeParagraph()
}

// closeParagraph ends the open paragraph and block command. Paragraphs that
// hold only whitespace are dropped.
func (p *parser) closeParagraph() {
	if p.para != nil && p.para.IsWhitespace() {
		owner := p.full
		if p.block != nil {
			owner = p.block
		}
		owner.Children = removeNode(owner.Children, p.para)
	}
	p.para = nil
	p.block = nil
	p.lastInline = nil
}

func removeNode(nodes []*Node, n *Node) []*Node {
	for i, c := range nodes {
		if c == n {
			return append(nodes[:i], nodes[i+1:]...)
		}
	}
	return nodes
}

// verbatimBlock collects lines up to the closing command. Text after the
// closing command on the same line is parsed normally.
func (p *parser) verbatimBlock(i int, cmd token, rest, closeName string) int {
	n := &Node{Kind: KindVerbatimBlockCommand, Name: cmd.name, Marker: cmd.marker, CloseName: closeName, ParamIndex: -1}
	p.full.Children = append(p.full.Children, n)
	addLine := func(s string) {
		n.Children = append(n.Children, &Node{Kind: KindVerbatimBlockLine, Text: s, ParamIndex: -1})
	}

	seg := strings.TrimLeft(rest, " \t")
	first := true
	for {
		if at, end := findClose(seg, closeName); at >= 0 {
			if before := seg[:at]; strings.TrimSpace(before) != "" {
				addLine(strings.TrimRight(before, " \t"))
			}
			if after := seg[end:]; strings.TrimSpace(after) != "" {
				return p.parseLine(i, after)
			}
			return i
		}
		if !first || strings.TrimSpace(seg) != "" {
			addLine(seg)
		}
		first = false
		if i+1 >= len(p.lines) {
			return i
		}
		i++
		seg = p.lines[i]
	}
}

// findClose locates \name or @name in s as a whole command.
func findClose(s, name string) (int, int) {
	for from := 0; from < len(s); {
		at := strings.IndexAny(s[from:], `\@`)
		if at < 0 {
			return -1, -1
		}
		at += from
		end := at + 1 + len(name)
		if strings.HasPrefix(s[at+1:], name) && (end >= len(s) || !isWordChar(s[end])) {
			return at, end
		}
		from = at + 1
	}
	return -1, -1
}

func parseParamArgs(n *Node, rest string) string {
	s := strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(s, "[") {
		if j := strings.IndexByte(s, ']'); j > 0 {
			switch strings.ToLower(strings.Join(strings.Fields(s[1:j]), "")) {
			case "in":
				n.Direction, n.DirectionExplicit = DirectionIn, true
			case "out":
				n.Direction, n.DirectionExplicit = DirectionOut, true
			case "in,out", "out,in":
				n.Direction, n.DirectionExplicit = DirectionInOut, true
			}
			s = s[j+1:]
		}
	}
	n.ParamName, s = nextWord(s)
	return s
}

// resolve binds \param and \tparam names to the declaration.
func (p *parser) resolve() {
	seen := make(map[int]bool)
	for _, c := range p.full.Children {
		switch c.Kind {
		case KindParamCommand:
			c.ParamIndex = -1
			idx := -1
			if c.ParamName == "..." && p.info.Variadic {
				idx = len(p.info.Params)
			} else {
				for i, name := range p.info.Params {
					if name != "" && name == c.ParamName {
						idx = i
						break
					}
				}
			}
			if idx >= 0 && !seen[idx] {
				seen[idx] = true
				c.ParamIndex = idx
			}
		case KindTParamCommand:
			for i, name := range p.info.TemplateParams {
				if name != "" && name == c.ParamName {
					c.Positions = []int{i}
					break
				}
			}
		}
	}
}

// Brief returns the brief description of a parsed comment: the paragraph of
// \brief when present, otherwise the first non-empty paragraph.
func Brief(full *Node) string {
	var first *Node
	for _, c := range full.Children {
		if c.Kind == KindBlockCommand && lookupCommand(c.Name).brief {
			if para, ok := c.Paragraph(); ok {
				return PlainText(para)
			}
		}
		if first == nil && c.Kind == KindParagraph && !c.IsWhitespace() {
			first = c
		}
	}
	if first == nil {
		return ""
	}
	return PlainText(first)
}

// PlainText renders a paragraph's text and inline command arguments with
// whitespace collapsed.
func PlainText(para *Node) string {
	var sb strings.Builder
	for _, c := range para.Children {
		switch c.Kind {
		case KindText:
			sb.WriteString(c.Text)
		case KindInlineCommand:
			sb.WriteString(strings.Join(c.Args, " "))
		}
		if c.TrailingNewline {
			sb.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
