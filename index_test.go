package cindex

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseFiles parses main through a fresh Index with every entry of files
// available as an unsaved file.
func parseFiles(t *testing.T, main string, files map[string]string, flags TranslationUnitFlags, args ...string) *TranslationUnit {
	t.Helper()

	ix := NewIndex()
	t.Cleanup(func() { _ = ix.Close() })
	return parseWith(t, ix, main, files, flags, args...)
}

func parseWith(t *testing.T, ix *Index, main string, files map[string]string, flags TranslationUnitFlags, args ...string) *TranslationUnit {
	t.Helper()

	tu, err := ix.Parse(context.Background(), main, args, unsavedFiles(files), flags)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tu.Close() })
	return tu
}

func parseSource(t *testing.T, name, src string, flags TranslationUnitFlags, args ...string) *TranslationUnit {
	t.Helper()
	return parseFiles(t, name, map[string]string{name: src}, flags, args...)
}

func unsavedFiles(files map[string]string) []UnsavedFile {
	var out []UnsavedFile
	for name, src := range files {
		out = append(out, UnsavedFile{Filename: name, Contents: src})
	}
	return out
}

// find returns the first cursor in preorder with the given kind and
// spelling, or the null cursor.
func find(t *testing.T, tu *TranslationUnit, kind CursorKind, spelling string) Cursor {
	t.Helper()

	var found Cursor
	_, err := tu.Cursor().VisitChildren(CursorVisitorFunc(func(c, _ Cursor) (ChildVisitResult, error) {
		if c.Kind() == kind && c.Spelling() == spelling {
			found = c
			return ChildVisitBreak, nil
		}
		return ChildVisitRecurse, nil
	}))
	require.NoError(t, err)
	return found
}

func assertDisposed(t *testing.T, err error) {
	t.Helper()
	var ue *UsageError
	require.True(t, errors.As(err, &ue), "want *UsageError, got %v", err)
	assert.ErrorIs(t, err, ErrDisposed)
}

// ============================================================================
// Parsing
// ============================================================================

func TestIndex_ParseUnsaved(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "foo.c", "void foo();", TranslationUnitNone)
	assert.Equal(t, "foo.c", tu.Spelling())
	assert.Equal(t, TranslationUnitNone, tu.Flags())
	assert.Equal(t, CursorTranslationUnit, tu.Cursor().Kind())
	assert.Equal(t, "foo.c", tu.MainFile().Name())
	assert.Equal(t, "void foo();", tu.MainFile().Contents())
}

func TestIndex_ParseFromDisk(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "disk.c")
	require.NoError(t, os.WriteFile(path, []byte("int on_disk;\n"), 0o644))

	ix := NewIndex()
	defer ix.Close()
	tu, err := ix.Parse(context.Background(), path, nil, nil, TranslationUnitNone)
	require.NoError(t, err)
	defer tu.Close()

	children := tu.Cursor().Children()
	require.Len(t, children, 1)
	assert.Equal(t, CursorVarDecl, children[0].Kind())
	assert.Equal(t, "on_disk", children[0].Spelling())
	assert.False(t, tu.MainFile().ModTime().IsZero())
}

func TestIndex_ParseFailures(t *testing.T) {
	t.Parallel()

	ix := NewIndex()
	defer ix.Close()
	ctx := context.Background()

	_, err := ix.Parse(ctx, filepath.Join(t.TempDir(), "missing.c"), nil, nil, TranslationUnitNone)
	var ne *NativeError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, ErrorFailure, ne.Code)
	assert.False(t, IsCrash(err))

	_, err = ix.Parse(ctx, "a.c", []string{"-I"}, []UnsavedFile{{Filename: "a.c"}}, TranslationUnitNone)
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, ErrorInvalidArguments, ne.Code)
}

func TestIndex_CrashWritesReport(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ix := NewIndex(WithCrashLogDir(dir))
	defer ix.Close()

	tu, err := ix.Parse(context.Background(), "crash.c", nil, []UnsavedFile{
		{Filename: "crash.c", Contents: "#pragma clang __debug crash\nint x;\n"},
	}, TranslationUnitNone)
	assert.Nil(t, tu)
	require.Error(t, err)
	assert.True(t, IsCrash(err))

	var ne *NativeError
	require.True(t, errors.As(err, &ne))
	assert.Equal(t, ErrorCrashed, ne.Code)
	assert.Equal(t, "crashed", ne.Code.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// The Index stays usable after a crash.
	tu = parseWith(t, ix, "ok.c", map[string]string{"ok.c": "int ok;\n"}, TranslationUnitNone)
	assert.NoError(t, tu.Check())
}

func TestIndex_NoReportWithoutCrash(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ix := NewIndex(WithCrashLogDir(dir), WithGlobalOptions(ThreadBackgroundPriorityForAll))
	defer ix.Close()
	parseWith(t, ix, "ok.c", map[string]string{"ok.c": "int ok;\n"}, TranslationUnitNone)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestIndex_CrashLogDirCanBeSetLater(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ix := NewIndex()
	defer ix.Close()
	require.NoError(t, ix.SetCrashLogDir(dir))

	_, err := ix.Parse(context.Background(), "crash.c", nil, []UnsavedFile{
		{Filename: "crash.c", Contents: "#pragma clang __debug crash\n"},
	}, TranslationUnitNone)
	require.True(t, IsCrash(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestIndex_GlobalOptions(t *testing.T) {
	t.Parallel()

	ix := NewIndex(WithGlobalOptions(ThreadBackgroundPriorityForIndexing))
	assert.Equal(t, ThreadBackgroundPriorityForIndexing, ix.GlobalOptions())

	require.NoError(t, ix.SetGlobalOptions(ThreadBackgroundPriorityForAll))
	assert.Equal(t, ThreadBackgroundPriorityForAll, ix.GlobalOptions())

	require.NoError(t, ix.Close())
	assertDisposed(t, ix.SetGlobalOptions(GlobalOptNone))
	assertDisposed(t, ix.SetCrashLogDir(t.TempDir()))
}

func TestIndex_DisplayDiagnostics(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ix := NewIndex(WithDisplayDiagnostics(true), WithDiagnosticWriter(&buf))
	defer ix.Close()

	parseWith(t, ix, "diag.c", map[string]string{"diag.c": "#warning careful\n"}, TranslationUnitNone)
	assert.Equal(t, "diag.c:1:1: warning: careful [-W#warnings]\n", buf.String())

	buf.Reset()
	parseWith(t, ix, "quiet.c", map[string]string{"quiet.c": "int x;\n"}, TranslationUnitNone)
	assert.Empty(t, buf.String())
}

// ============================================================================
// Ownership
// ============================================================================

func TestIndex_CloseDisposesDescendants(t *testing.T) {
	t.Parallel()

	ix := NewIndex()
	tu, err := ix.Parse(context.Background(), "own.c", nil, []UnsavedFile{{
		Filename: "own.c",
		Contents: "/// Does things.\nint f(int a);\n#warning careful\n",
	}}, TranslationUnitNone)
	require.NoError(t, err)

	f := find(t, tu, CursorFunctionDecl, "f")
	require.False(t, f.IsNull())
	file := tu.MainFile()
	loc := f.Location()
	set := tu.Diagnostics()
	d, ok := set.At(0)
	require.True(t, ok)
	comment, ok := f.ParsedComment()
	require.True(t, ok)

	require.NoError(t, ix.Close())
	require.NoError(t, ix.Close(), "closing twice is a no-op")

	assertDisposed(t, ix.Check())
	assertDisposed(t, tu.Check())
	assertDisposed(t, f.Check())
	assertDisposed(t, file.Check())
	assertDisposed(t, loc.Check())
	assertDisposed(t, set.Check())
	assertDisposed(t, d.Check())
	assertDisposed(t, comment.Check())

	_, err = ix.Parse(context.Background(), "own.c", nil, nil, TranslationUnitNone)
	assertDisposed(t, err)
	_, err = f.VisitChildren(CursorVisitorFunc(func(_, _ Cursor) (ChildVisitResult, error) {
		return ChildVisitRecurse, nil
	}))
	assertDisposed(t, err)

	assert.Panics(t, func() { tu.Spelling() })
	assert.Panics(t, func() { f.Kind() })
	assert.Panics(t, func() { file.Name() })
	assert.Panics(t, func() { comment.Brief() })
}

func TestTranslationUnit_CloseLeavesSiblingsUsable(t *testing.T) {
	t.Parallel()

	ix := NewIndex()
	defer ix.Close()
	a := parseWith(t, ix, "a.c", map[string]string{"a.c": "int a;\n"}, TranslationUnitNone)
	b := parseWith(t, ix, "b.c", map[string]string{"b.c": "int b;\n"}, TranslationUnitNone)
	ca := a.Cursor()

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())

	assertDisposed(t, a.Check())
	assertDisposed(t, ca.Check())
	assert.NoError(t, ix.Check())
	assert.NoError(t, b.Check())
	assert.Equal(t, "b", b.Cursor().Children()[0].Spelling())
}

func TestTranslationUnit_CloseDisposesComments(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "c.c", "/// Brief.\nint x;\n", TranslationUnitNone)
	x := find(t, tu, CursorVarDecl, "x")
	comment, ok := x.ParsedComment()
	require.True(t, ok)
	para, ok := comment.Child(0)
	require.True(t, ok)

	require.NoError(t, tu.Close())
	assertDisposed(t, comment.Check())
	assertDisposed(t, para.Check())
	assertDisposed(t, VisitComment(&BaseCommentVisitor{}, para))
}

// ============================================================================
// Reparse
// ============================================================================

func TestTranslationUnit_ReparseInvalidatesDerivedValues(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "re.c", "int before;\n", TranslationUnitNone)
	old := tu.Cursor().Children()[0]
	oldFile := tu.MainFile()
	oldLoc := old.Location()

	err := tu.Reparse(context.Background(), []UnsavedFile{{Filename: "re.c", Contents: "int after;\nint more;\n"}})
	require.NoError(t, err)

	assert.ErrorIs(t, old.Check(), ErrStale)
	assert.ErrorIs(t, oldLoc.Check(), ErrStale)
	assertDisposed(t, oldFile.Check())
	assert.Panics(t, func() { old.Spelling() })

	children := tu.Cursor().Children()
	require.Len(t, children, 2)
	assert.Equal(t, "after", children[0].Spelling())
	assert.Equal(t, "int after;\nint more;\n", tu.MainFile().Contents())
}

func TestTranslationUnit_ReparseInvalidatesDiagnostics(t *testing.T) {
	t.Parallel()

	tu := parseFiles(t, "main.c", map[string]string{
		"main.c": "#include \"a.h\"\n",
		"a.h":    "#warning from header\n",
	}, TranslationUnitNone)

	set := tu.Diagnostics()
	require.Equal(t, 1, set.Len())
	d, _ := set.At(0)
	notes := d.Children()

	err := tu.Reparse(context.Background(), []UnsavedFile{{Filename: "main.c", Contents: "int y;\n"}})
	require.NoError(t, err)

	assert.ErrorIs(t, set.Check(), ErrStale)
	assert.ErrorIs(t, d.Check(), ErrStale)
	assert.ErrorIs(t, notes.Check(), ErrStale)
	assert.Panics(t, func() { d.Location() })
	assert.Panics(t, func() { d.Format(DefaultDiagnosticDisplayOptions()) })
	assert.Equal(t, "Diagnostic(invalid)", d.String())

	fresh := tu.Diagnostics()
	assert.NoError(t, fresh.Check())
	assert.Equal(t, 0, fresh.Len())
}

func TestTranslationUnit_FailedReparseClosesUnit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ix := NewIndex(WithCrashLogDir(dir))
	defer ix.Close()
	tu := parseWith(t, ix, "re.c", map[string]string{"re.c": "int x;\n"}, TranslationUnitNone)

	err := tu.Reparse(context.Background(), []UnsavedFile{{Filename: "re.c", Contents: "#pragma clang __debug crash\n"}})
	require.True(t, IsCrash(err))
	assertDisposed(t, tu.Check())
	assert.NoError(t, ix.Check())
}

// ============================================================================
// Declaration index
// ============================================================================

func TestTranslationUnit_LookupSymbols(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "lookup.c", "int f(int);\nint f(int x) { return x; }\nint g;\n", TranslationUnitNone)

	fs, err := tu.LookupSymbols("f")
	require.NoError(t, err)
	require.Len(t, fs, 2)
	assert.False(t, fs[0].IsDefinition())
	assert.True(t, fs[1].IsDefinition())
	assert.Equal(t, 1, fs[0].Location().Line())
	assert.Equal(t, 2, fs[1].Location().Line())

	none, err := tu.LookupSymbols("nope")
	require.NoError(t, err)
	assert.Empty(t, none)

	// The index is rebuilt after a reparse.
	require.NoError(t, tu.Reparse(context.Background(), []UnsavedFile{{Filename: "lookup.c", Contents: "int h;\n"}}))
	fs, err = tu.LookupSymbols("f")
	require.NoError(t, err)
	assert.Empty(t, fs)
	hs, err := tu.LookupSymbols("h")
	require.NoError(t, err)
	assert.Len(t, hs, 1)
}

func TestTranslationUnit_Query(t *testing.T) {
	t.Parallel()

	src := "int alpha(void);\nint beta(void);\n"
	tu := parseSource(t, "q.c", src, TranslationUnitNone)

	caps, err := tu.Query(`(function_declarator declarator: (identifier) @name)`, tu.MainFile())
	require.NoError(t, err)
	require.Len(t, caps, 2)
	assert.Equal(t, "name", caps[0].Name)
	assert.Equal(t, "identifier", caps[0].Type)
	assert.Equal(t, "alpha", caps[0].Range.Text())
	assert.Equal(t, "beta", caps[1].Range.Text())
	assert.Equal(t, 2, caps[1].Range.Start().Line())

	_, err = tu.Query(`(not_a_node`, tu.MainFile())
	assert.Error(t, err)

	_, err = tu.Query(`(identifier) @id`, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestTranslationUnit_CursorAt(t *testing.T) {
	t.Parallel()

	src := "int a;\nint f(int p) { return p; }\n"
	tu := parseSource(t, "at.c", src, TranslationUnitNone)

	loc, ok := tu.LocationForOffset(tu.MainFile(), strings.Index(src, "return"))
	require.True(t, ok)
	c, err := tu.CursorAt(loc)
	require.NoError(t, err)
	assert.Equal(t, CursorReturnStmt, c.Kind())

	end, ok := tu.LocationForOffset(tu.MainFile(), len(src))
	require.True(t, ok)
	c, err = tu.CursorAt(end)
	require.NoError(t, err)
	assert.Equal(t, CursorTranslationUnit, c.Kind())

	other := parseSource(t, "other.c", "int z;\n", TranslationUnitNone)
	_, err = other.CursorAt(loc)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
