package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func insertTestFile(t *testing.T, s *Store, id int64, path string) *File {
	t.Helper()
	f := &File{ID: id, Path: path}
	got, err := s.InsertFile(f)
	require.NoError(t, err)
	require.Equal(t, id, got)
	return f
}

func insertTestSymbol(t *testing.T, s *Store, node int64, name, usr string, kind int, def bool) *Symbol {
	t.Helper()
	sym := &Symbol{NodeID: node, FileID: 1, Name: name, USR: usr, Kind: kind, IsDefinition: def, Line: int(node), Col: 1}
	require.NoError(t, s.InsertSymbol(sym))
	return sym
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	for _, table := range []string{"files", "symbols", "references_"} {
		var name string
		err := s.db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
}

func TestNewStore_OnDisk(t *testing.T) {
	t.Parallel()
	s, err := NewStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Migrate())
	insertTestFile(t, s, 1, "/a.c")
}

func TestMemoryStores_AreIsolated(t *testing.T) {
	t.Parallel()
	a := newTestStore(t)
	b := newTestStore(t)
	insertTestFile(t, a, 1, "/a.c")

	f, err := b.FileByPath("/a.c")
	require.NoError(t, err)
	assert.Nil(t, f)
}

// =============================================================================
// Files
// =============================================================================

func TestFileByPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 3, "/src/main.c")

	f, err := s.FileByPath("/src/main.c")
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, int64(3), f.ID)

	missing, err := s.FileByPath("/nope.c")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestInsertFile_AutoID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	id, err := s.InsertFile(&File{Path: "/x.h"})
	require.NoError(t, err)
	assert.Positive(t, id)
}

// =============================================================================
// Symbols
// =============================================================================

func TestSymbolsByName(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.c")
	insertTestSymbol(t, s, 5, "foo", "c:@F@foo", 8, false)
	insertTestSymbol(t, s, 2, "foo", "c:@F@foo", 8, true)
	insertTestSymbol(t, s, 3, "bar", "c:@F@bar", 8, true)

	syms, err := s.SymbolsByName("foo")
	require.NoError(t, err)
	require.Len(t, syms, 2)
	assert.Equal(t, int64(2), syms[0].NodeID, "ordered by node")
	assert.True(t, syms[0].IsDefinition)
	assert.False(t, syms[1].IsDefinition)

	byUSR, err := s.SymbolsByUSR("c:@F@bar")
	require.NoError(t, err)
	require.Len(t, byUSR, 1)
	assert.Equal(t, "bar", byUSR[0].Name)

	byFile, err := s.SymbolsByFile(1)
	require.NoError(t, err)
	assert.Len(t, byFile, 3)
}

func TestSymbolsByNameAndKind(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.cpp")
	insertTestSymbol(t, s, 1, "Widget", "c:@S@Widget", 4, true)
	insertTestSymbol(t, s, 2, "Widget", "c:@S@Widget@F@Widget#", 24, true)

	classes, err := s.SymbolsByNameAndKind("Widget", 4)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, 4, classes[0].Kind)

	all, err := s.SymbolsByNameAndKind("Widget")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSymbolByNode(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.c")
	insertTestSymbol(t, s, 7, "x", "c:@x", 9, true)

	sym, err := s.SymbolByNode(7)
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, "x", sym.Name)

	none, err := s.SymbolByNode(8)
	require.NoError(t, err)
	assert.Nil(t, none)
}

// =============================================================================
// Resolution
// =============================================================================

func TestResolve_NearestPreceding(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.c")
	insertTestSymbol(t, s, 2, "x", "c:@x", 9, true)
	insertTestSymbol(t, s, 10, "x", "c:a.c@100@F@f@x", 9, true)
	insertTestSymbol(t, s, 20, "x", "c:a.c@200@F@g@x", 9, true)

	sym, err := s.Resolve("x", 15)
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, int64(10), sym.NodeID)

	sym, err = s.Resolve("x", 5)
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, int64(2), sym.NodeID)

	sym, err = s.Resolve("x", 1)
	require.NoError(t, err)
	assert.Nil(t, sym)
}

func TestResolve_KindFilter(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.cpp")
	insertTestSymbol(t, s, 1, "T", "c:@S@T", 4, true)
	insertTestSymbol(t, s, 2, "T", "c:@T", 9, true)

	sym, err := s.Resolve("T", 9, 2, 4)
	require.NoError(t, err)
	require.NotNil(t, sym)
	assert.Equal(t, int64(1), sym.NodeID)
}

func TestDefinitionOf(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.c")
	insertTestSymbol(t, s, 1, "foo", "c:@F@foo", 8, false)
	insertTestSymbol(t, s, 4, "foo", "c:@F@foo", 8, true)

	def, err := s.DefinitionOf("c:@F@foo")
	require.NoError(t, err)
	require.NotNil(t, def)
	assert.Equal(t, int64(4), def.NodeID)

	none, err := s.DefinitionOf("c:@F@bar")
	require.NoError(t, err)
	assert.Nil(t, none)

	empty, err := s.DefinitionOf("")
	require.NoError(t, err)
	assert.Nil(t, empty)
}

// =============================================================================
// References
// =============================================================================

func TestReferences(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestFile(t, s, 1, "/a.c")
	require.NoError(t, s.InsertReference(&Reference{NodeID: 9, FileID: 1, Name: "foo", Kind: 103, Line: 3, Col: 5}))
	require.NoError(t, s.InsertReference(&Reference{NodeID: 4, FileID: 1, Name: "foo", Kind: 101, Line: 2, Col: 5}))

	ref, err := s.ReferenceByNode(9)
	require.NoError(t, err)
	require.NotNil(t, ref)
	assert.Equal(t, "foo", ref.Name)
	assert.Equal(t, 103, ref.Kind)

	refs, err := s.ReferencesByName("foo")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, int64(4), refs[0].NodeID)

	none, err := s.ReferenceByNode(1)
	require.NoError(t, err)
	assert.Nil(t, none)
}
