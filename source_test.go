package cindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocation_RoundTrip(t *testing.T) {
	t.Parallel()

	src := "int first;\nint second;\n"
	tu := parseSource(t, "loc.c", src, TranslationUnitNone)
	main := tu.MainFile()

	begin, ok := tu.Location(main, 1, 5)
	require.True(t, ok)
	end, ok := tu.Location(main, 2, 11)
	require.True(t, ok)
	assert.Equal(t, 4, begin.Offset())
	assert.Equal(t, 21, end.Offset())

	r, ok := NewSourceRange(begin, end)
	require.True(t, ok)
	assert.Equal(t, begin, r.Start())
	assert.Equal(t, end, r.End())
	assert.Equal(t, "first;\nint second", r.Text())
	assert.Equal(t, "loc.c:1:5-2:11", r.String())

	same, ok := tu.LocationForOffset(main, 4)
	require.True(t, ok)
	assert.Equal(t, begin, same)
	assert.Equal(t, "loc.c:1:5", same.String())

	f, ok := begin.File()
	require.True(t, ok)
	assert.True(t, f.Equal(main))
}

func TestLocation_OutOfRange(t *testing.T) {
	t.Parallel()

	src := "int x;\n"
	tu := parseSource(t, "loc.c", src, TranslationUnitNone)
	main := tu.MainFile()

	_, ok := tu.Location(main, 0, 1)
	assert.False(t, ok)
	_, ok = tu.Location(main, 1, 9)
	assert.False(t, ok, "past the end of the line")
	_, ok = tu.Location(main, 5, 1)
	assert.False(t, ok, "past the last line")
	_, ok = tu.Location(main, -1, 1)
	assert.False(t, ok)
	_, ok = tu.Location(nil, 1, 1)
	assert.False(t, ok)

	endOfFile, ok := tu.LocationForOffset(main, len(src))
	require.True(t, ok)
	assert.Equal(t, 2, endOfFile.Line())
	assert.Equal(t, 1, endOfFile.Column())
	_, ok = tu.LocationForOffset(main, len(src)+1)
	assert.False(t, ok)
}

func TestSourceRange_Rejects(t *testing.T) {
	t.Parallel()

	tu := parseFiles(t, "main.c", map[string]string{
		"main.c": "#include \"a.h\"\nint m;\n",
		"a.h":    "int a;\n",
	}, TranslationUnitNone)

	main := tu.MainFile()
	header, ok := tu.File("a.h")
	require.True(t, ok)

	inMain, ok := tu.Location(main, 2, 1)
	require.True(t, ok)
	inHeader, ok := tu.Location(header, 1, 1)
	require.True(t, ok)
	assert.False(t, inHeader.IsInMainFile())

	_, ok = NewSourceRange(inMain, inHeader)
	assert.False(t, ok, "locations in different files")

	start, _ := tu.Location(main, 1, 1)
	_, ok = NewSourceRange(inMain, start)
	assert.False(t, ok, "begin after end")

	_, ok = NewSourceRange(SourceLocation{}, inMain)
	assert.False(t, ok)

	other := parseSource(t, "other.c", "int o;\n", TranslationUnitNone)
	otherLoc, _ := other.Location(other.MainFile(), 1, 1)
	_, ok = NewSourceRange(start, otherLoc)
	assert.False(t, ok, "locations in different translation units")
}

func TestSourceLocation_Null(t *testing.T) {
	t.Parallel()

	var l SourceLocation
	assert.True(t, l.IsNull())
	assert.ErrorIs(t, l.Check(), ErrInvalidArgument)
	assert.Equal(t, 0, l.Line())
	assert.False(t, l.IsInMainFile())
	assert.Equal(t, "<null>", l.String())
	_, ok := l.File()
	assert.False(t, ok)

	var r SourceRange
	assert.True(t, r.IsNull())
	assert.Empty(t, r.Text())
}

func TestFile_Accessors(t *testing.T) {
	t.Parallel()

	tu := parseFiles(t, "main.c", map[string]string{
		"main.c": "#include \"a.h\"\nint m;\n",
		"a.h":    "int a;\n",
	}, TranslationUnitNone)

	files := tu.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "main.c", files[0].Name())
	assert.Equal(t, "a.h", files[1].Name())
	assert.Equal(t, 7, files[1].Size())
	assert.Equal(t, "int a;\n", files[1].Contents())
	assert.True(t, files[1].ModTime().IsZero(), "unsaved files have no modification time")
	assert.Equal(t, "a.h", files[1].String())

	same, ok := tu.File("a.h")
	require.True(t, ok)
	assert.Same(t, files[1], same)

	_, ok = tu.File("missing.h")
	assert.False(t, ok)
}

func TestFile_CloseReturnsFreshValue(t *testing.T) {
	t.Parallel()

	tu := parseSource(t, "f.c", "int x;\n", TranslationUnitNone)

	f := tu.MainFile()
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	assertDisposed(t, f.Check())
	assert.Equal(t, "File(invalid)", f.String())

	fresh := tu.MainFile()
	assert.NotSame(t, f, fresh)
	require.NoError(t, fresh.Check())
	assert.Equal(t, "f.c", fresh.Name())
	assert.NoError(t, tu.Check(), "closing a file leaves its unit open")
}
