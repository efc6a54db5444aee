package cindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_SingleDeclaration(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "foo.c", "void foo();", TranslationUnitNone)

	children := tu.Cursor().Children()
	require.Len(t, children, 1)
	foo := children[0]
	assert.Equal(t, CursorFunctionDecl, foo.Kind())
	assert.Equal(t, "foo", foo.Spelling())
	assert.Equal(t, "c:@F@foo", foo.USR())
	assert.False(t, foo.IsDefinition())
	assert.Empty(t, foo.Children())
	assert.Equal(t, 0, foo.NumArguments())

	loc := foo.Location()
	assert.Equal(t, 1, loc.Line())
	assert.Equal(t, 6, loc.Column())
	assert.True(t, loc.IsInMainFile())
	assert.Contains(t, foo.Extent().Text(), "foo()")
	assert.Equal(t, `FunctionDecl "foo"`, foo.String())
}

func TestCursor_NullCursor(t *testing.T) {
	t.Parallel()

	var c Cursor
	assert.True(t, c.IsNull())
	assert.ErrorIs(t, c.Check(), ErrInvalidArgument)
	assert.Equal(t, CursorInvalidFile, c.Kind())
	assert.Empty(t, c.Spelling())
	assert.Empty(t, c.USR())
	assert.Nil(t, c.Children())
	assert.True(t, c.Location().IsNull())
	assert.True(t, c.Extent().IsNull())
	assert.True(t, c.LexicalParent().IsNull())
	assert.Equal(t, -1, c.NumArguments())
	assert.Nil(t, c.TranslationUnit())
	assert.True(t, c.Equal(Cursor{}))
	assert.Equal(t, "Cursor(invalid)", c.String())

	_, err := c.VisitChildren(CursorVisitorFunc(func(_, _ Cursor) (ChildVisitResult, error) {
		return ChildVisitRecurse, nil
	}))
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCursor_Parents(t *testing.T) {
	t.Parallel()

	src := `extern "C" {
int f(void);
}
namespace ns {
struct S { int field; };
}
`
	tu := parseSource(t, "parents.cpp", src, TranslationUnitNone)

	f := find(t, tu, CursorFunctionDecl, "f")
	require.False(t, f.IsNull())
	assert.Equal(t, CursorLinkageSpec, f.LexicalParent().Kind())
	assert.True(t, f.SemanticParent().Equal(tu.Cursor()))

	field := find(t, tu, CursorFieldDecl, "field")
	require.False(t, field.IsNull())
	s := field.SemanticParent()
	assert.Equal(t, CursorStructDecl, s.Kind())
	assert.Equal(t, CursorNamespace, s.SemanticParent().Kind())
	assert.Equal(t, "ns", s.SemanticParent().Spelling())

	assert.True(t, tu.Cursor().LexicalParent().IsNull())
}

func TestCursor_FunctionArguments(t *testing.T) {
	t.Parallel()

	src := "int add(int a, int b) {\n\tint sum = a + b;\n\treturn sum;\n}\n"
	tu := parseSource(t, "add.c", src, TranslationUnitNone)

	add := find(t, tu, CursorFunctionDecl, "add")
	require.False(t, add.IsNull())
	assert.True(t, add.IsDefinition())
	assert.Equal(t, "add(int, int)", add.DisplayName())
	assert.Equal(t, 2, add.NumArguments())

	b, ok := add.Argument(1)
	require.True(t, ok)
	assert.Equal(t, CursorParmDecl, b.Kind())
	assert.Equal(t, "b", b.Spelling())

	_, ok = add.Argument(2)
	assert.False(t, ok)
	_, ok = add.Argument(-1)
	assert.False(t, ok)

	sum := find(t, tu, CursorVarDecl, "sum")
	assert.Equal(t, -1, sum.NumArguments())
	_, ok = sum.Argument(0)
	assert.False(t, ok)
}

func TestCursor_Referenced(t *testing.T) {
	t.Parallel()

	src := "int add(int a, int b) {\n\tint sum = a + b;\n\treturn sum;\n}\n"
	tu := parseSource(t, "add.c", src, TranslationUnitNone)

	ref := find(t, tu, CursorDeclRefExpr, "a")
	require.False(t, ref.IsNull())
	target, err := ref.Referenced()
	require.NoError(t, err)
	assert.Equal(t, CursorParmDecl, target.Kind())
	assert.Equal(t, "a", target.Spelling())

	decl := find(t, tu, CursorVarDecl, "sum")
	self, err := decl.Referenced()
	require.NoError(t, err)
	assert.True(t, self.Equal(decl))
}

func TestCursor_ReferencedUnresolved(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "unres.c", "int f(void) { return missing; }\n", TranslationUnitNone)

	ref := find(t, tu, CursorDeclRefExpr, "missing")
	require.False(t, ref.IsNull())
	target, err := ref.Referenced()
	require.NoError(t, err)
	assert.True(t, target.IsNull())

	def, err := ref.Definition()
	require.NoError(t, err)
	assert.True(t, def.IsNull())
}

func TestCursor_Definition(t *testing.T) {
	t.Parallel()

	src := "int g(void);\nint h(void) { return g(); }\nint g(void) { return 1; }\n"
	tu := parseSource(t, "def.c", src, TranslationUnitNone)

	call := find(t, tu, CursorCallExpr, "g")
	require.False(t, call.IsNull())

	decl, err := call.Referenced()
	require.NoError(t, err)
	assert.Equal(t, CursorFunctionDecl, decl.Kind())
	assert.False(t, decl.IsDefinition())
	assert.Equal(t, 1, decl.Location().Line())

	def, err := call.Definition()
	require.NoError(t, err)
	assert.True(t, def.IsDefinition())
	assert.Equal(t, 3, def.Location().Line())

	again, err := def.Definition()
	require.NoError(t, err)
	assert.True(t, again.Equal(def))

	h := find(t, tu, CursorFunctionDecl, "h")
	hdef, err := h.Definition()
	require.NoError(t, err)
	assert.True(t, hdef.Equal(h))
}

func TestCursor_LabelReference(t *testing.T) {
	t.Parallel()

	src := "void f(void) {\n\tgoto done;\ndone:\n\treturn;\n}\n"
	tu := parseSource(t, "label.c", src, TranslationUnitNone)

	ref := find(t, tu, CursorLabelRef, "done")
	require.False(t, ref.IsNull())
	target, err := ref.Referenced()
	require.NoError(t, err)
	assert.Equal(t, CursorLabelStmt, target.Kind())
	assert.Equal(t, 3, target.Location().Line())
}

func TestCursor_IncludedFile(t *testing.T) {
	t.Parallel()

	tu := parseFiles(t, "main.c", map[string]string{
		"main.c": "#include \"a.h\"\n#define ANSWER 42\nint x;\n",
		"a.h":    "int a;\n",
	}, DetailedPreprocessingRecord)

	children := tu.Cursor().Children()
	require.Len(t, children, 4)
	inc := children[0]
	assert.Equal(t, CursorInclusionDirective, inc.Kind())
	f, ok := inc.IncludedFile()
	require.True(t, ok)
	assert.Equal(t, "a.h", f.Name())

	assert.Equal(t, CursorMacroDefinition, children[2].Kind())
	_, ok = children[3].IncludedFile()
	assert.False(t, ok)
}

func TestCursor_Comments(t *testing.T) {
	t.Parallel()

	src := `/// \brief Adds numbers.
/// \param a first
/// \param b second
int add(int a, int b);

int plain;
`
	tu := parseSource(t, "doc.c", src, TranslationUnitNone)

	add := find(t, tu, CursorFunctionDecl, "add")
	assert.Equal(t, "/// \\brief Adds numbers.\n/// \\param a first\n/// \\param b second", add.RawCommentText())
	assert.Equal(t, "Adds numbers.", add.BriefCommentText())

	fc, ok := add.ParsedComment()
	require.True(t, ok)
	var indices []int
	for _, c := range fc.Children() {
		if p, ok := c.(*ParamCommandComment); ok {
			i, resolved := p.ParamIndex()
			require.True(t, resolved)
			indices = append(indices, i)
		}
	}
	assert.Equal(t, []int{0, 1}, indices)

	plain := find(t, tu, CursorVarDecl, "plain")
	assert.Empty(t, plain.RawCommentText())
	assert.Empty(t, plain.BriefCommentText())
	_, ok = plain.ParsedComment()
	assert.False(t, ok)
}
