package cindex

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"fortio.org/safecast"

	"github.com/jward/cindex/internal/native"
	"github.com/jward/cindex/internal/store"
)

// TranslationUnitFlags select optional front-end behavior for one parse.
type TranslationUnitFlags uint32

const (
	TranslationUnitNone TranslationUnitFlags = 0x0
	// DetailedPreprocessingRecord exposes inclusion directives and macro
	// definitions as cursors.
	DetailedPreprocessingRecord TranslationUnitFlags = 0x01
	Incomplete                  TranslationUnitFlags = 0x02
	PrecompiledPreamble         TranslationUnitFlags = 0x04
	CacheCompletionResults      TranslationUnitFlags = 0x08
	ForSerialization            TranslationUnitFlags = 0x10
	// SkipFunctionBodies produces no cursors for function bodies.
	SkipFunctionBodies TranslationUnitFlags = 0x40
	// KeepGoing keeps entering includes after a fatal error.
	KeepGoing TranslationUnitFlags = 0x200
	// SingleFileParse does not enter any include.
	SingleFileParse TranslationUnitFlags = 0x400
	// IgnoreNonErrorsFromIncludedFiles drops warnings and notes raised in
	// headers.
	IgnoreNonErrorsFromIncludedFiles TranslationUnitFlags = 0x4000
)

// TranslationUnit is one parsed source file together with every header it
// included. It owns the files, diagnostics, comments and declaration index
// derived from it.
type TranslationUnit struct {
	handle

	index   *Index
	unit    *native.Unit
	gen     uint64
	path    string
	args    []string
	unsaved []UnsavedFile
	flags   TranslationUnitFlags

	files map[native.FileID]*File
	decls *store.Store
}

func newTranslationUnit(ix *Index, unit *native.Unit, path string, args []string, unsaved []UnsavedFile, flags TranslationUnitFlags) *TranslationUnit {
	return &TranslationUnit{
		handle:  handle{owner: &ix.handle},
		index:   ix,
		unit:    unit,
		gen:     1,
		path:    path,
		args:    args,
		unsaved: unsaved,
		flags:   flags,
		files:   make(map[native.FileID]*File),
	}
}

// Close releases the native unit. Every object derived from the unit
// becomes unusable. Closing twice is a no-op.
func (tu *TranslationUnit) Close() error {
	if tu.disposed {
		return nil
	}
	tu.index.forget(tu)
	return tu.release()
}

// release disposes tu without touching the owning Index's bookkeeping.
func (tu *TranslationUnit) release() error {
	if !tu.dispose() {
		return nil
	}
	tu.unit.Close()
	tu.files = nil
	tu.index.logger.Debug("translation unit closed", "file", tu.path)
	return tu.closeDecls()
}

func (tu *TranslationUnit) closeDecls() error {
	if tu.decls == nil {
		return nil
	}
	err := tu.decls.Close()
	tu.decls = nil
	if err != nil {
		return fmt.Errorf("cindex: close declaration index: %w", err)
	}
	return nil
}

// Check reports whether the translation unit is still usable.
func (tu *TranslationUnit) Check() error {
	return tu.check("TranslationUnit")
}

// Index returns the owning Index.
func (tu *TranslationUnit) Index() *Index {
	return tu.index
}

// Spelling returns the path the unit was parsed from.
func (tu *TranslationUnit) Spelling() string {
	tu.mustCheck("TranslationUnit.Spelling")
	return tu.unit.MainFile().Path
}

// Flags returns the flags of the last parse.
func (tu *TranslationUnit) Flags() TranslationUnitFlags {
	tu.mustCheck("TranslationUnit.Flags")
	return tu.flags
}

// Cursor returns the TranslationUnit cursor at the root of the tree.
func (tu *TranslationUnit) Cursor() Cursor {
	tu.mustCheck("TranslationUnit.Cursor")
	return tu.cursor(native.RootNode)
}

func (tu *TranslationUnit) cursor(id native.NodeID) Cursor {
	return Cursor{tu: tu, gen: tu.gen, id: id}
}

// MainFile returns the file the unit was parsed from.
func (tu *TranslationUnit) MainFile() *File {
	tu.mustCheck("TranslationUnit.MainFile")
	return tu.file(0)
}

// File returns the file named name if it took part in the parse.
func (tu *TranslationUnit) File(name string) (*File, bool) {
	tu.mustCheck("TranslationUnit.File")
	f, ok := tu.unit.Files.Lookup(name)
	if !ok {
		abs, err := filepath.Abs(name)
		if err != nil {
			return nil, false
		}
		if f, ok = tu.unit.Files.Lookup(abs); !ok {
			return nil, false
		}
	}
	return tu.file(f.ID), true
}

// Files returns every file that took part in the parse, main file first.
func (tu *TranslationUnit) Files() []*File {
	tu.mustCheck("TranslationUnit.Files")
	all := tu.unit.Files.All()
	out := make([]*File, 0, len(all))
	for _, f := range all {
		out = append(out, tu.file(f.ID))
	}
	return out
}

func (tu *TranslationUnit) file(id native.FileID) *File {
	if f, ok := tu.files[id]; ok && !f.disposed {
		return f
	}
	f := &File{handle: handle{owner: &tu.handle}, tu: tu, gen: tu.gen, id: id}
	tu.files[id] = f
	return f
}

// Location returns the location at a 1-based line and byte column of file.
// Positions past the end of a line or of the file have no location.
func (tu *TranslationUnit) Location(file *File, line, col int) (SourceLocation, bool) {
	tu.mustCheck("TranslationUnit.Location")
	nf, ok := tu.nativeFile(file)
	if !ok {
		return SourceLocation{}, false
	}
	l, err1 := safecast.Conv[uint32](line)
	c, err2 := safecast.Conv[uint32](col)
	if err1 != nil || err2 != nil {
		return SourceLocation{}, false
	}
	off, ok := nf.Offset(l, c)
	if !ok {
		return SourceLocation{}, false
	}
	return tu.location(nf.ID, off), true
}

// LocationForOffset returns the location at a 0-based byte offset of file.
// The offset one past the last byte is valid.
func (tu *TranslationUnit) LocationForOffset(file *File, offset int) (SourceLocation, bool) {
	tu.mustCheck("TranslationUnit.LocationForOffset")
	nf, ok := tu.nativeFile(file)
	if !ok {
		return SourceLocation{}, false
	}
	off, err := safecast.Conv[uint32](offset)
	if err != nil || off > nf.Size() {
		return SourceLocation{}, false
	}
	return tu.location(nf.ID, off), true
}

func (tu *TranslationUnit) nativeFile(file *File) (*native.File, bool) {
	if file == nil || file.tu != tu || file.gen != tu.gen || file.check("File") != nil {
		return nil, false
	}
	return tu.unit.Files.Get(file.id)
}

func (tu *TranslationUnit) location(fid native.FileID, offset uint32) SourceLocation {
	f, _ := tu.unit.Files.Get(fid)
	line, col := f.LineCol(offset)
	return SourceLocation{tu: tu, gen: tu.gen, file: fid, offset: offset, line: line, col: col}
}

// CursorAt returns the most specific cursor whose extent covers loc, or the
// TranslationUnit cursor when no declaration does.
func (tu *TranslationUnit) CursorAt(loc SourceLocation) (Cursor, error) {
	if err := tu.check("TranslationUnit.CursorAt"); err != nil {
		return Cursor{}, err
	}
	if loc.tu != tu {
		return Cursor{}, &UsageError{Op: "TranslationUnit.CursorAt", Err: ErrInvalidArgument}
	}
	if err := loc.Check(); err != nil {
		return Cursor{}, err
	}
	return tu.cursor(tu.unit.NodeAt(loc.file, loc.offset)), nil
}

// Reparse parses the unit again from its original path and arguments with
// new unsaved contents. Every cursor, file and location taken before the
// call becomes stale. If the front-end fails the unit is closed.
func (tu *TranslationUnit) Reparse(ctx context.Context, unsaved []UnsavedFile) error {
	if err := tu.check("TranslationUnit.Reparse"); err != nil {
		return err
	}
	ix := tu.index
	ctx = context.WithoutCancel(ctx)
	ctx, span := startParseSpan(ctx, "TranslationUnit.Reparse", tu.path, tu.args, tu.flags)

	start := time.Now()
	unit, code, err := ix.parse(ctx, tu.path, tu.args, unsaved, tu.flags)
	recordParseMetrics(ctx, "reparse", time.Since(start), code)
	if err != nil {
		endParseSpan(span, code, err, 0)
		ix.logger.Debug("reparse failed, closing unit", "file", tu.path, "code", code, "error", err)
		if cerr := tu.Close(); cerr != nil {
			ix.logger.Warn("closing unit after failed reparse", "error", cerr)
		}
		return err
	}

	tu.unit.Close()
	if err := tu.closeDecls(); err != nil {
		ix.logger.Warn("closing declaration index", "error", err)
	}
	for _, f := range tu.files {
		f.dispose()
	}
	clear(tu.files)
	tu.unit = unit
	tu.unsaved = unsaved
	tu.gen++
	endParseSpan(span, code, nil, len(unit.Diags))
	ix.logger.Debug("reparse finished", "file", tu.path, "generation", tu.gen, "elapsed", time.Since(start))
	ix.display(tu)
	return nil
}

// declIndex returns the declaration index, building it on first use.
func (tu *TranslationUnit) declIndex() (*store.Store, error) {
	if tu.decls != nil {
		return tu.decls, nil
	}
	s, err := store.NewMemoryStore()
	if err != nil {
		return nil, fmt.Errorf("cindex: open declaration index: %w", err)
	}
	batch := store.NewBatchedStore(s)
	u := tu.unit
	for _, f := range u.Files.All() {
		batch.InsertFile(&store.File{ID: int64(f.ID), Path: f.Path})
	}
	for i := range u.Nodes {
		n := &u.Nodes[i]
		f, ok := u.Files.Get(n.File)
		if !ok {
			continue
		}
		line, col := f.LineCol(n.Loc)
		switch {
		case n.Kind.IsDeclaration() && n.Spelling != "":
			err = batch.InsertSymbol(&store.Symbol{
				NodeID:       int64(i),
				FileID:       int64(n.File),
				Name:         n.Spelling,
				USR:          n.USR,
				Kind:         int(n.Kind),
				IsDefinition: n.IsDefinition,
				Line:         int(line),
				Col:          int(col),
				ParentNodeID: int64(n.Parent),
			})
		case n.Ref != "":
			err = batch.InsertReference(&store.Reference{
				NodeID: int64(i),
				FileID: int64(n.File),
				Name:   n.Ref,
				Kind:   int(n.Kind),
				Line:   int(line),
				Col:    int(col),
			})
		}
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("cindex: build declaration index: %w", err)
		}
	}
	if err := s.CommitBatch(batch); err != nil {
		s.Close()
		return nil, fmt.Errorf("cindex: build declaration index: %w", err)
	}
	tu.decls = s
	return s, nil
}

// LookupSymbols returns every declaration named name, in translation-unit
// order.
func (tu *TranslationUnit) LookupSymbols(name string) ([]Cursor, error) {
	if err := tu.check("TranslationUnit.LookupSymbols"); err != nil {
		return nil, err
	}
	s, err := tu.declIndex()
	if err != nil {
		return nil, err
	}
	syms, err := s.SymbolsByName(name)
	if err != nil {
		return nil, fmt.Errorf("cindex: lookup %q: %w", name, err)
	}
	out := make([]Cursor, 0, len(syms))
	for _, sym := range syms {
		out = append(out, tu.cursor(native.NodeID(sym.NodeID)))
	}
	return out, nil
}

// QueryCapture is one node captured by a syntax query.
type QueryCapture struct {
	Name  string
	Type  string
	Range SourceRange
}

// Query runs a tree-sitter query pattern over the syntax tree of file.
func (tu *TranslationUnit) Query(pattern string, file *File) ([]QueryCapture, error) {
	if err := tu.check("TranslationUnit.Query"); err != nil {
		return nil, err
	}
	nf, ok := tu.nativeFile(file)
	if !ok {
		return nil, &UsageError{Op: "TranslationUnit.Query", Err: ErrInvalidArgument}
	}
	caps, err := tu.unit.Query(pattern, nf.ID)
	if err != nil {
		return nil, fmt.Errorf("cindex: query: %w", err)
	}
	out := make([]QueryCapture, 0, len(caps))
	for _, c := range caps {
		out = append(out, QueryCapture{
			Name:  c.Name,
			Type:  c.Type,
			Range: SourceRange{begin: tu.location(c.File, c.Start), end: tu.location(c.File, c.End)},
		})
	}
	return out, nil
}
