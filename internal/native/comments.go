package native

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// RawComment is the documentation comment attached to a declaration, with
// adjacent comment lines merged.
type RawComment struct {
	Text       string
	File       FileID
	Start, End uint32
}

// DeclInfo names what a doc comment can refer to on its declaration.
type DeclInfo struct {
	Params         []string
	Variadic       bool
	TemplateParams []string
}

func isDocComment(s string) bool {
	switch {
	case strings.HasPrefix(s, "////"), strings.HasPrefix(s, "/**/"), strings.HasPrefix(s, "/***"):
		return false
	case strings.HasPrefix(s, "///"), strings.HasPrefix(s, "//!"),
		strings.HasPrefix(s, "/**"), strings.HasPrefix(s, "/*!"):
		return true
	}
	return false
}

func isTrailingComment(s string) bool {
	for _, p := range []string{"///<", "//!<", "/**<", "/*!<"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// RawComment returns the doc comment attached to id: the run of doc comments
// directly above its declaration, or a trailing ///< comment on the same
// line.
func (u *Unit) RawComment(id NodeID) (RawComment, bool) {
	if u.closed {
		return RawComment{}, false
	}
	n := u.Node(id)
	if n.anchor == nil || !n.Kind.IsDeclaration() {
		return RawComment{}, false
	}
	f, ok := u.Files.Get(n.File)
	if !ok {
		return RawComment{}, false
	}

	if rc, ok := leadingComment(n.anchor, f); ok {
		return rc, true
	}
	return trailingComment(n.anchor, f)
}

func leadingComment(anchor *sitter.Node, f *File) (RawComment, bool) {
	var parts []*sitter.Node
	nextRow := anchor.StartPoint().Row
	for prev := anchor.PrevSibling(); prev != nil; prev = prev.PrevSibling() {
		if prev.Type() != "comment" {
			break
		}
		body := prev.Content(f.Content)
		if !isDocComment(body) || isTrailingComment(body) {
			break
		}
		if prev.EndPoint().Row+1 < nextRow {
			break
		}
		parts = append(parts, prev)
		nextRow = prev.StartPoint().Row
	}
	if len(parts) == 0 {
		return RawComment{}, false
	}
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[len(parts)-1-i] = p.Content(f.Content)
	}
	first, last := parts[len(parts)-1], parts[0]
	return RawComment{
		Text:  strings.Join(lines, "\n"),
		File:  f.ID,
		Start: first.StartByte(),
		End:   last.EndByte(),
	}, true
}

func trailingComment(anchor *sitter.Node, f *File) (RawComment, bool) {
	row := anchor.EndPoint().Row
	for next := anchor.NextSibling(); next != nil; next = next.NextSibling() {
		if !next.IsNamed() {
			if next.StartPoint().Row != row {
				break
			}
			continue
		}
		if next.Type() != "comment" || next.StartPoint().Row != row {
			break
		}
		body := next.Content(f.Content)
		if !isTrailingComment(body) {
			break
		}
		return RawComment{Text: body, File: f.ID, Start: next.StartByte(), End: next.EndByte()}, true
	}
	return RawComment{}, false
}

// DeclInfo returns the parameter and template parameter names of id.
func (u *Unit) DeclInfo(id NodeID) DeclInfo {
	n := u.Node(id)
	info := DeclInfo{Variadic: n.Variadic}
	for _, p := range n.Params {
		info.Params = append(info.Params, u.Nodes[p].Spelling)
	}
	for _, p := range n.TParams {
		info.TemplateParams = append(info.TemplateParams, u.Nodes[p].Spelling)
	}
	return info
}
