package doxygen

import (
	"strings"
)

// StripMarkers removes comment delimiters from raw comment text and returns
// the content lines. raw may hold several adjacent comments separated by
// newlines.
func StripMarkers(raw string) []string {
	var out []string
	inBlock := false
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimRight(l, "\r")
		t := strings.TrimLeft(l, " \t")
		var content string
		if !inBlock {
			switch {
			case hasAnyPrefix(t, "///<", "//!<"):
				content = t[4:]
			case hasAnyPrefix(t, "///", "//!"):
				content = t[3:]
			case strings.HasPrefix(t, "//"):
				content = t[2:]
			case hasAnyPrefix(t, "/**<", "/*!<"):
				inBlock, content = true, t[4:]
			case hasAnyPrefix(t, "/**", "/*!"):
				inBlock, content = true, t[3:]
			case strings.HasPrefix(t, "/*"):
				inBlock, content = true, t[2:]
			default:
				content = l
			}
		} else {
			content = t
			if strings.HasPrefix(content, "*") && !strings.HasPrefix(content, "*/") {
				content = content[1:]
			}
		}
		if inBlock {
			if i := strings.Index(content, "*/"); i >= 0 {
				content = content[:i]
				inBlock = false
			}
		}
		out = append(out, strings.TrimRight(content, " \t"))
	}
	return out
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

type tokenKind int

const (
	tokText tokenKind = iota
	tokCommand
	tokHTMLStart
	tokHTMLEnd
)

type token struct {
	kind        tokenKind
	text        string
	name        string
	marker      byte
	attrs       []Attr
	selfClosing bool
	end         int // offset just past the token within the lexed line
}

const escapable = `\@&$#<>%".:`

// lexLine splits one content line into text, commands and HTML tags.
func lexLine(line string) []token {
	var toks []token
	var text strings.Builder
	flush := func(end int) {
		if text.Len() > 0 {
			toks = append(toks, token{kind: tokText, text: text.String(), end: end})
			text.Reset()
		}
	}

	for i := 0; i < len(line); {
		c := line[i]
		switch {
		case (c == '\\' || c == '@') && i+1 < len(line) && isLetter(line[i+1]):
			j := i + 1
			for j < len(line) && isWordChar(line[j]) {
				j++
			}
			flush(i)
			toks = append(toks, token{kind: tokCommand, name: line[i+1 : j], marker: c, end: j})
			i = j
		case c == '\\' && i+1 < len(line) && strings.IndexByte(escapable, line[i+1]) >= 0:
			if line[i+1] == ':' && i+2 < len(line) && line[i+2] == ':' {
				text.WriteString("::")
				i += 3
				continue
			}
			text.WriteByte(line[i+1])
			i += 2
		case c == '<':
			if tok, n, ok := lexHTML(line[i:]); ok {
				flush(i)
				tok.end = i + n
				toks = append(toks, tok)
				i += n
				continue
			}
			text.WriteByte(c)
			i++
		default:
			text.WriteByte(c)
			i++
		}
	}
	flush(len(line))
	return toks
}

// lexHTML recognises a complete HTML start or end tag at the start of s and
// returns the token and its length.
func lexHTML(s string) (token, int, bool) {
	if len(s) < 3 || s[0] != '<' {
		return token{}, 0, false
	}
	if s[1] == '/' {
		j := 2
		for j < len(s) && isWordChar(s[j]) {
			j++
		}
		name := s[2:j]
		if !htmlTags[strings.ToLower(name)] {
			return token{}, 0, false
		}
		j = skipSpace(s, j)
		if j >= len(s) || s[j] != '>' {
			return token{}, 0, false
		}
		return token{kind: tokHTMLEnd, name: name}, j + 1, true
	}

	j := 1
	for j < len(s) && isWordChar(s[j]) {
		j++
	}
	name := s[1:j]
	if !htmlTags[strings.ToLower(name)] {
		return token{}, 0, false
	}
	tok := token{kind: tokHTMLStart, name: name}
	for {
		j = skipSpace(s, j)
		switch {
		case j >= len(s):
			return token{}, 0, false
		case s[j] == '>':
			return tok, j + 1, true
		case strings.HasPrefix(s[j:], "/>"):
			tok.selfClosing = true
			return tok, j + 2, true
		}

		k := j
		for k < len(s) && (isWordChar(s[k]) || s[k] == '-' || s[k] == ':') {
			k++
		}
		if k == j {
			return token{}, 0, false
		}
		attr := Attr{Name: s[j:k]}
		j = skipSpace(s, k)
		if j < len(s) && s[j] == '=' {
			j = skipSpace(s, j+1)
			if j >= len(s) {
				return token{}, 0, false
			}
			if q := s[j]; q == '"' || q == '\'' {
				end := strings.IndexByte(s[j+1:], q)
				if end < 0 {
					return token{}, 0, false
				}
				attr.Value = s[j+1 : j+1+end]
				j = j + 2 + end
			} else {
				k = j
				for k < len(s) && s[k] != ' ' && s[k] != '\t' && s[k] != '>' {
					k++
				}
				attr.Value = s[j:k]
				j = k
			}
		}
		tok.attrs = append(tok.attrs, attr)
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isWordChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// nextWord splits the first whitespace-delimited word off s.
func nextWord(s string) (string, string) {
	t := strings.TrimLeft(s, " \t")
	j := strings.IndexAny(t, " \t")
	if j < 0 {
		return t, ""
	}
	return t[:j], t[j:]
}
