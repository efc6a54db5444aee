package doxygen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarkers(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"triple slash", "/// hello", []string{" hello"}},
		{"bang", "//! hello", []string{" hello"}},
		{"trailing", "///< after", []string{" after"}},
		{"block one line", "/** hello */", []string{" hello"}},
		{"block multi", "/**\n * one\n * two\n */", []string{"", " one", " two", ""}},
		{"qt block", "/*! text */", []string{" text"}},
		{"adjacent lines", "/// a\n/// b", []string{" a", " b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkers(tt.raw))
		})
	}
}

func TestLexLine(t *testing.T) {
	toks := lexLine(`see \c foo and <b>bold</b> \@x`)
	require.Len(t, toks, 7)
	assert.Equal(t, tokText, toks[0].kind)
	assert.Equal(t, "see ", toks[0].text)
	assert.Equal(t, tokCommand, toks[1].kind)
	assert.Equal(t, "c", toks[1].name)
	assert.Equal(t, byte('\\'), toks[1].marker)
	assert.Equal(t, " foo and ", toks[2].text)
	assert.Equal(t, tokHTMLStart, toks[3].kind)
	assert.Equal(t, "b", toks[3].name)
	assert.Equal(t, "bold", toks[4].text)
	assert.Equal(t, tokHTMLEnd, toks[5].kind)
	assert.Equal(t, " @x", toks[6].text)
}

func TestLexLine_HTMLAttributes(t *testing.T) {
	toks := lexLine(`<a href="x.html" target=_blank>link</a><br/>`)
	require.Len(t, toks, 4)
	assert.Equal(t, []Attr{{Name: "href", Value: "x.html"}, {Name: "target", Value: "_blank"}}, toks[0].attrs)
	assert.True(t, toks[3].selfClosing)
	assert.Equal(t, "br", toks[3].name)
}

func TestLexLine_NotATag(t *testing.T) {
	toks := lexLine("a < b and <notatag>")
	require.Len(t, toks, 1)
	assert.Equal(t, "a < b and <notatag>", toks[0].text)
}

func TestParse_Paragraphs(t *testing.T) {
	full := Parse("/// First line\n/// continues.\n///\n/// Second.", DeclInfo{})
	require.Equal(t, KindFull, full.Kind)
	require.Equal(t, 2, full.ChildCount())

	p1, _ := full.Child(0)
	assert.Equal(t, KindParagraph, p1.Kind)
	require.Len(t, p1.Children, 2)
	assert.Equal(t, " First line", p1.Children[0].Text)
	assert.True(t, p1.Children[0].TrailingNewline)

	p2, _ := full.Child(1)
	assert.Equal(t, " Second.", p2.Children[0].Text)

	_, ok := full.Child(2)
	assert.False(t, ok)
}

func TestParse_BlockCommands(t *testing.T) {
	full := Parse("/// \\brief Adds numbers.\n/// \\returns the sum", DeclInfo{})
	require.Equal(t, 2, full.ChildCount())

	brief := full.Children[0]
	assert.Equal(t, KindBlockCommand, brief.Kind)
	assert.Equal(t, "brief", brief.Name)
	para, ok := brief.Paragraph()
	require.True(t, ok)
	assert.Equal(t, " Adds numbers.", para.Children[0].Text)

	ret := full.Children[1]
	assert.Equal(t, "returns", ret.Name)
	assert.Equal(t, "Adds numbers.", Brief(full))
}

func TestParse_ParamResolution(t *testing.T) {
	raw := `/**
 * \param [in] a first
 * \param[out] b second
 * \param c missing
 * \param a again
 * \param ... rest
 */`
	full := Parse(raw, DeclInfo{Params: []string{"a", "b"}, Variadic: true})

	var params []*Node
	for _, c := range full.Children {
		if c.Kind == KindParamCommand {
			params = append(params, c)
		}
	}
	require.Len(t, params, 5)

	assert.Equal(t, "a", params[0].ParamName)
	assert.Equal(t, 0, params[0].ParamIndex)
	assert.True(t, params[0].DirectionExplicit)
	assert.Equal(t, DirectionIn, params[0].Direction)

	assert.Equal(t, 1, params[1].ParamIndex)
	assert.Equal(t, DirectionOut, params[1].Direction)

	assert.Equal(t, "c", params[2].ParamName)
	assert.Equal(t, -1, params[2].ParamIndex)
	assert.False(t, params[2].DirectionExplicit)

	assert.Equal(t, -1, params[3].ParamIndex, "duplicate param stays unresolved")
	assert.Equal(t, 2, params[4].ParamIndex)

	para, ok := params[0].Paragraph()
	require.True(t, ok)
	assert.Equal(t, " first", para.Children[0].Text)
}

func TestParse_InOutDirection(t *testing.T) {
	full := Parse("/// \\param[in,out] buf the buffer", DeclInfo{Params: []string{"buf"}})
	require.Len(t, full.Children, 1)
	assert.Equal(t, DirectionInOut, full.Children[0].Direction)
	assert.Equal(t, 0, full.Children[0].ParamIndex)
}

func TestParse_TParam(t *testing.T) {
	full := Parse("/// \\tparam T element type\n/// \\tparam U unused", DeclInfo{TemplateParams: []string{"T", "N"}})
	require.Len(t, full.Children, 2)
	assert.Equal(t, KindTParamCommand, full.Children[0].Kind)
	assert.Equal(t, "T", full.Children[0].ParamName)
	assert.Equal(t, []int{0}, full.Children[0].Positions)
	assert.Empty(t, full.Children[1].Positions)
}

func TestParse_InlineCommands(t *testing.T) {
	full := Parse(`/// Use \c foo or \b bar, see \ref baz and @e qux.`, DeclInfo{})
	require.Len(t, full.Children, 1)
	para := full.Children[0]

	var inlines []*Node
	for _, c := range para.Children {
		if c.Kind == KindInlineCommand {
			inlines = append(inlines, c)
		}
	}
	require.Len(t, inlines, 4)
	assert.Equal(t, RenderMonospaced, inlines[0].Render)
	assert.Equal(t, []string{"foo"}, inlines[0].Args)
	assert.Equal(t, RenderBold, inlines[1].Render)
	assert.Equal(t, []string{"bar,"}, inlines[1].Args)
	assert.Equal(t, RenderNormal, inlines[2].Render)
	assert.Equal(t, byte('@'), inlines[3].Marker)
	assert.Equal(t, RenderEmphasized, inlines[3].Render)

	assert.Equal(t, "Use foo or bar, see baz and qux.", PlainText(para))
}

func TestParse_VerbatimBlock(t *testing.T) {
	raw := "/// Example:\n/// \\code\n///   int x = 1;\n///   f(x);\n/// \\endcode\n/// After."
	full := Parse(raw, DeclInfo{})
	require.Len(t, full.Children, 3)

	code := full.Children[1]
	assert.Equal(t, KindVerbatimBlockCommand, code.Kind)
	assert.Equal(t, "code", code.Name)
	assert.Equal(t, "endcode", code.CloseName)
	require.Len(t, code.Children, 2)
	assert.Equal(t, "   int x = 1;", code.Children[0].Text)
	assert.Equal(t, "   f(x);", code.Children[1].Text)

	assert.Equal(t, KindParagraph, full.Children[2].Kind)
}

func TestParse_VerbatimSameLine(t *testing.T) {
	full := Parse(`/// \verbatim raw \c text \endverbatim tail`, DeclInfo{})
	require.Len(t, full.Children, 2)
	v := full.Children[0]
	require.Len(t, v.Children, 1)
	assert.Equal(t, `raw \c text`, v.Children[0].Text)
	assert.Equal(t, " tail", full.Children[1].Children[0].Text)
}

func TestParse_UnterminatedVerbatim(t *testing.T) {
	full := Parse("/// \\code\n/// a\n/// b", DeclInfo{})
	require.Len(t, full.Children, 1)
	assert.Len(t, full.Children[0].Children, 2)
}

func TestParse_VerbatimLine(t *testing.T) {
	full := Parse("/// \\fn void f(int x)\n/// Body.", DeclInfo{})
	require.Len(t, full.Children, 2)
	assert.Equal(t, KindVerbatimLine, full.Children[0].Kind)
	assert.Equal(t, "void f(int x)", full.Children[0].Text)
}

func TestParse_HTML(t *testing.T) {
	full := Parse(`/// <em>Hi</em> <img src="a.png"/>`, DeclInfo{})
	require.Len(t, full.Children, 1)
	kinds := []Kind{}
	for _, c := range full.Children[0].Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []Kind{KindHTMLStartTag, KindText, KindHTMLEndTag, KindText, KindHTMLStartTag}, kinds)
	img := full.Children[0].Children[4]
	assert.True(t, img.SelfClosing)
	assert.Equal(t, "src", img.Attrs[0].Name)
}

func TestParse_UnknownCommand(t *testing.T) {
	full := Parse(`/// Text \frobnicate more`, DeclInfo{})
	require.Len(t, full.Children, 1)
	cmd := full.Children[0].Children[1]
	assert.Equal(t, KindInlineCommand, cmd.Kind)
	assert.Equal(t, "frobnicate", cmd.Name)
	assert.Empty(t, cmd.Args)
}

func TestParse_Empty(t *testing.T) {
	full := Parse("/**   */", DeclInfo{})
	assert.Equal(t, KindFull, full.Kind)
	assert.Zero(t, full.ChildCount())
	assert.Equal(t, "", Brief(full))
}

func TestIsVerbatimBlockStart(t *testing.T) {
	closeName, ok := IsVerbatimBlockStart("code")
	assert.True(t, ok)
	assert.Equal(t, "endcode", closeName)
	_, ok = IsVerbatimBlockStart("brief")
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "FullComment", KindFull.String())
	assert.Equal(t, "Unknown", Kind(99).String())
}

func TestParse_BlockCommandEndsParagraphCleanly(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"verbatim block", "/// \\param a first\n/// \\code\n/// x\n/// \\endcode"},
		{"block command", "/// \\param a first\n/// \\returns y"},
		{"after inline command", "/// \\param a uses \\c foo \\returns y"},
		{"verbatim line", "/// \\param a first\n/// \\fn void f(int a)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			full := Parse(tt.raw, DeclInfo{Params: []string{"a"}})
			require.GreaterOrEqual(t, len(full.Children), 2)

			param := full.Children[0]
			require.Equal(t, KindParamCommand, param.Kind)
			para, ok := param.Paragraph()
			require.True(t, ok)
			require.NotEmpty(t, para.Children)
			last := para.Children[len(para.Children)-1]
			assert.False(t, last.Kind == KindText && last.IsWhitespace(), "trailing whitespace text %q", last.Text)
		})
	}
}
