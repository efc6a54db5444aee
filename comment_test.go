package cindex

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Comment tree
// ============================================================================

func TestParseComment_Tree(t *testing.T) {
	t.Parallel()

	fc := ParseComment("/// \\brief Adds numbers.\n/// \\param[in,out] buf the buffer\n/// \\returns the sum")
	defer fc.Close()

	assert.Equal(t, CommentFull, fc.Kind())
	require.Equal(t, 3, fc.ChildCount())
	assert.Equal(t, "Adds numbers.", fc.Brief())

	c, ok := fc.Child(0)
	require.True(t, ok)
	brief, ok := c.(*BlockCommandComment)
	require.True(t, ok)
	assert.Equal(t, "brief", brief.CommandName())
	para, ok := brief.Paragraph()
	require.True(t, ok)
	assert.False(t, para.IsWhitespace())

	c, _ = fc.Child(1)
	param, ok := c.(*ParamCommandComment)
	require.True(t, ok)
	assert.Equal(t, CommentParamCommand, param.Kind())
	assert.Equal(t, "param", param.CommandName())
	assert.Equal(t, "buf", param.ParamName())
	assert.True(t, param.IsDirectionExplicit())
	assert.Equal(t, ParamPassInOut, param.Direction())
	_, resolved := param.ParamIndex()
	assert.False(t, resolved, "no declaration to resolve against")

	_, ok = fc.Child(3)
	assert.False(t, ok)
}

func TestParseComment_InlineAndHTML(t *testing.T) {
	t.Parallel()

	fc := ParseComment(`/// Use \c foo and <a href="x.html">link</a><br/>`)
	require.Equal(t, 1, fc.ChildCount())
	c, _ := fc.Child(0)
	para := c.(*ParagraphComment)

	children := para.Children()
	require.Len(t, children, 7)

	text := children[0].(*TextComment)
	assert.Equal(t, " Use ", text.Text())
	assert.False(t, text.IsWhitespace())
	assert.False(t, text.HasTrailingNewline())

	cmd := children[1].(*InlineCommandComment)
	assert.Equal(t, "c", cmd.CommandName())
	assert.Equal(t, RenderMonospaced, cmd.RenderKind())
	require.Equal(t, 1, cmd.NumArgs())
	arg, ok := cmd.Arg(0)
	require.True(t, ok)
	assert.Equal(t, "foo", arg)
	_, ok = cmd.Arg(1)
	assert.False(t, ok)

	start := children[3].(*HTMLStartTagComment)
	assert.Equal(t, "a", start.TagName())
	require.Equal(t, 1, start.NumAttrs())
	name, value, ok := start.Attr(0)
	require.True(t, ok)
	assert.Equal(t, "href", name)
	assert.Equal(t, "x.html", value)
	assert.False(t, start.IsSelfClosing())

	end := children[5].(*HTMLEndTagComment)
	assert.Equal(t, "a", end.TagName())

	br := children[6].(*HTMLStartTagComment)
	assert.True(t, br.IsSelfClosing())
}

func TestParseComment_Verbatim(t *testing.T) {
	t.Parallel()

	fc := ParseComment("/// \\fn void f(int x)\n/// \\code\n///   f(1);\n/// \\endcode")
	require.Equal(t, 2, fc.ChildCount())

	c, _ := fc.Child(0)
	line := c.(*VerbatimLineComment)
	assert.Equal(t, CommentVerbatimLine, line.Kind())
	assert.Equal(t, "fn", line.CommandName())
	assert.Equal(t, "void f(int x)", line.Text())

	c, _ = fc.Child(1)
	block := c.(*VerbatimBlockCommandComment)
	assert.Equal(t, "code", block.CommandName())
	assert.Equal(t, "endcode", block.CloseName())
	require.Equal(t, 1, block.ChildCount())
	c, _ = block.Child(0)
	assert.Equal(t, "   f(1);", c.(*VerbatimBlockLineComment).Text())
}

func TestParsedComment_ParamIndices(t *testing.T) {
	t.Parallel()

	src := `/**
 * \param a first
 * \param b second
 * \param c not a parameter
 * \tparam T element type
 */
template <typename T> T pick(T a, T b);
`
	tu := parseSource(t, "pick.cpp", src, TranslationUnitNone)
	pick := find(t, tu, CursorFunctionTemplate, "pick")
	require.False(t, pick.IsNull())

	fc, ok := pick.ParsedComment()
	require.True(t, ok)

	var params []*ParamCommandComment
	var tparams []*TParamCommandComment
	for _, c := range fc.Children() {
		switch c := c.(type) {
		case *ParamCommandComment:
			params = append(params, c)
		case *TParamCommandComment:
			tparams = append(tparams, c)
		}
	}
	require.Len(t, params, 3)

	i, ok := params[0].ParamIndex()
	assert.True(t, ok)
	assert.Equal(t, 0, i)
	i, ok = params[1].ParamIndex()
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = params[2].ParamIndex()
	assert.False(t, ok)
	assert.False(t, params[2].IsDirectionExplicit())

	require.Len(t, tparams, 1)
	assert.Equal(t, "T", tparams[0].ParamName())
	idx, ok := tparams[0].Index()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 1, tparams[0].Depth())
}

func TestFullComment_Close(t *testing.T) {
	t.Parallel()

	fc := ParseComment("/// Text.")
	child, ok := fc.Child(0)
	require.True(t, ok)

	require.NoError(t, fc.Close())
	require.NoError(t, fc.Close())
	assertDisposed(t, fc.Check())
	assertDisposed(t, child.Check())
	assert.Panics(t, func() { child.ChildCount() })
	assert.Panics(t, func() { fc.Normalize() })
}

// ============================================================================
// Visitor
// ============================================================================

type recordingVisitor struct {
	BaseCommentVisitor
	events []string
}

func newRecordingVisitor() *recordingVisitor {
	v := &recordingVisitor{}
	v.Self = v
	return v
}

func (v *recordingVisitor) VisitInlineContent(c Comment) error {
	v.events = append(v.events, "inline:"+c.Kind().String())
	return v.BaseCommentVisitor.VisitInlineContent(c)
}

func (v *recordingVisitor) VisitBlockContent(c Comment) error {
	v.events = append(v.events, "block:"+c.Kind().String())
	return v.BaseCommentVisitor.VisitBlockContent(c)
}

func (v *recordingVisitor) VisitHTMLTag(c Comment) error {
	v.events = append(v.events, "html:"+c.Kind().String())
	return v.BaseCommentVisitor.VisitHTMLTag(c)
}

func TestBaseCommentVisitor_Forwarding(t *testing.T) {
	t.Parallel()

	fc := ParseComment("/// Hi <b>x</b>")
	v := newRecordingVisitor()
	require.NoError(t, VisitComment(v, fc))

	assert.Equal(t, []string{
		"block:Paragraph",
		"inline:Text",
		"html:HTMLStartTag",
		"inline:HTMLStartTag",
		"inline:Text",
		"html:HTMLEndTag",
		"inline:HTMLEndTag",
	}, v.events)
}

func TestBaseCommentVisitor_BlockCommandsReachBlockContent(t *testing.T) {
	t.Parallel()

	fc := ParseComment("/// \\param a first\n/// \\code\n/// x\n/// \\endcode")
	v := newRecordingVisitor()
	require.NoError(t, VisitComment(v, fc))

	assert.Equal(t, []string{
		"block:ParamCommand",
		"block:Paragraph",
		"inline:Text",
		"block:VerbatimBlockCommand",
	}, v.events)
}

type failingVisitor struct {
	BaseCommentVisitor
	err error
}

func (v *failingVisitor) VisitText(*TextComment) error { return v.err }

func TestVisitComment_ErrorStops(t *testing.T) {
	t.Parallel()

	stop := errors.New("stop")
	v := &failingVisitor{err: stop}
	v.Self = v

	err := VisitComment(v, ParseComment("/// one\n///\n/// two"))
	assert.Same(t, stop, err)
}

func TestVisitComment_InvalidArguments(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, VisitComment(nil, ParseComment("/// x")), ErrNilVisitor)
	assert.ErrorIs(t, VisitComment(&BaseCommentVisitor{}, nil), ErrInvalidArgument)
}

// ============================================================================
// Normalization
// ============================================================================

func TestFullComment_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "block commands",
			raw:  "/// \\brief Adds   numbers.\n/// \\param[in] a the first\n/// \\returns the sum",
			want: "\\brief Adds numbers.\n\\param [in] a the first\n\\returns the sum",
		},
		{
			name: "paragraphs",
			raw:  "/// First line\n/// continues.\n///\n/// Second.",
			want: "First line continues.\nSecond.",
		},
		{
			name: "inline commands",
			raw:  `/// Use \c foo or \b bar, then \frobnicate.`,
			want: `Use foo or bar, then \frobnicate.`,
		},
		{
			name: "html",
			raw:  `/// <em>Hi</em> <img src="a.png"/>`,
			want: "<em>Hi</em> <img/>",
		},
		{
			name: "unmatched end tag",
			raw:  "/// a</b> c",
			want: "a c",
		},
		{
			name: "verbatim block",
			raw:  "/// Example:\n/// \\code\n///   int x = 1;\n///   f(x);\n/// \\endcode\n/// After.",
			want: "Example:\n\\code\n   int x = 1;\n   f(x);\n\\endcode\nAfter.",
		},
		{
			name: "verbatim line",
			raw:  "/// \\fn void f(int x)\n/// Body.",
			want: "\\fn void f(int x)\nBody.",
		},
		{
			name: "template parameter",
			raw:  "/// \\tparam T element type",
			want: "\\tparam T element type",
		},
		{
			name: "empty",
			raw:  "/**   */",
			want: "",
		},
		{
			name: "decomposed accents",
			raw:  "/// Cafe\u0301",
			want: "Caf\u00e9",
		},
		{
			name: "decomposed accents in verbatim block",
			raw:  "/// \\code\n/// Cafe\u0301\n/// \\endcode",
			want: "\\code\n Cafe\u0301\n\\endcode",
		},
		{
			name: "decomposed accents in verbatim line",
			raw:  "/// \\fn void cafe\u0301()",
			want: "\\fn void cafe\u0301()",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseComment(tt.raw).Normalize()
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeText(got), "normalized text is a fixed point")
		})
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapse", "  a   b  \n\n  c ", "a b\nc"},
		{"crlf", "a\r\nb", "a\nb"},
		{"verbatim kept", "\\code\n  x  =  1;\n\\endcode\n  after  ", "\\code\n  x  =  1;\n\\endcode\nafter"},
		{"verbatim line trimmed", "  \\fn   void f()  ", "\\fn void f()"},
		{"escaped marker", "@code  stays", "@code stays"},
		{"verbatim not composed", "\\code\nCafe\u0301\n\\endcode\nCafe\u0301", "\\code\nCafe\u0301\n\\endcode\nCaf\u00e9"},
		{"verbatim line not composed", "\\fn cafe\u0301", "\\fn cafe\u0301"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeText(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeText(got))
		})
	}
}
