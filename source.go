package cindex

import (
	"fmt"
	"time"

	"github.com/jward/cindex/internal/native"
)

// File is a source file that took part in a parse. It is owned by its
// translation unit.
type File struct {
	handle

	tu  *TranslationUnit
	gen uint64
	id  native.FileID
}

func (f *File) nativeFile(op string) *native.File {
	if err := f.check(op); err != nil {
		panic(err)
	}
	if f.gen != f.tu.gen {
		panic(&UsageError{Op: op, Err: ErrStale})
	}
	nf, _ := f.tu.unit.Files.Get(f.id)
	return nf
}

// Check reports whether f can still be used.
func (f *File) Check() error {
	if err := f.check("File"); err != nil {
		return err
	}
	if f.gen != f.tu.gen {
		return &UsageError{Op: "File", Err: ErrStale}
	}
	return nil
}

// Close releases f. Later calls to TranslationUnit.File return a fresh
// value. Closing twice is a no-op.
func (f *File) Close() error {
	if !f.dispose() {
		return nil
	}
	if f.tu.files != nil && f.tu.files[f.id] == f {
		delete(f.tu.files, f.id)
	}
	return nil
}

// Name returns the path of the file as the front-end opened it.
func (f *File) Name() string {
	return f.nativeFile("File.Name").Path
}

// ModTime returns the modification time of the file on disk. Unsaved files
// report the zero time.
func (f *File) ModTime() time.Time {
	return f.nativeFile("File.ModTime").ModTime
}

// Size returns the size of the file contents in bytes.
func (f *File) Size() int {
	return int(f.nativeFile("File.Size").Size())
}

// Contents returns the text the front-end parsed.
func (f *File) Contents() string {
	return string(f.nativeFile("File.Contents").Content)
}

// Equal reports whether f and other are the same file of the same parse.
func (f *File) Equal(other *File) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.tu == other.tu && f.gen == other.gen && f.id == other.id
}

func (f *File) String() string {
	if f.Check() != nil {
		return "File(invalid)"
	}
	return f.Name()
}

// SourceLocation is a position in a file of a translation unit. Lines and
// columns are 1-based and count bytes; offsets are 0-based. Locations are
// comparable with ==.
//
// The zero SourceLocation is the null location.
type SourceLocation struct {
	tu     *TranslationUnit
	gen    uint64
	file   native.FileID
	offset uint32
	line   uint32
	col    uint32
}

// Check reports whether l can still be used.
func (l SourceLocation) Check() error {
	if l.tu == nil {
		return &UsageError{Op: "SourceLocation", Err: ErrInvalidArgument}
	}
	if err := l.tu.check("SourceLocation"); err != nil {
		return err
	}
	if l.gen != l.tu.gen {
		return &UsageError{Op: "SourceLocation", Err: ErrStale}
	}
	return nil
}

// IsNull reports whether l is the null location.
func (l SourceLocation) IsNull() bool {
	return l.tu == nil
}

// File returns the file l points into.
func (l SourceLocation) File() (*File, bool) {
	if l.IsNull() {
		return nil, false
	}
	if err := l.Check(); err != nil {
		panic(err)
	}
	return l.tu.file(l.file), true
}

// Line returns the 1-based line, or 0 for the null location.
func (l SourceLocation) Line() int { return int(l.line) }

// Column returns the 1-based byte column, or 0 for the null location.
func (l SourceLocation) Column() int { return int(l.col) }

// Offset returns the 0-based byte offset.
func (l SourceLocation) Offset() int { return int(l.offset) }

// IsInMainFile reports whether l is in the file the unit was parsed from.
func (l SourceLocation) IsInMainFile() bool {
	return !l.IsNull() && l.file == 0
}

func (l SourceLocation) String() string {
	if l.IsNull() {
		return "<null>"
	}
	if l.Check() != nil {
		return "<invalid>"
	}
	nf, _ := l.tu.unit.Files.Get(l.file)
	return fmt.Sprintf("%s:%d:%d", nf.Path, l.line, l.col)
}

// SourceRange is a half-open span between two locations in one file.
type SourceRange struct {
	begin SourceLocation
	end   SourceLocation
}

// NewSourceRange returns the range from begin to end. It reports false when
// the locations belong to different files or translation units, or begin
// comes after end.
func NewSourceRange(begin, end SourceLocation) (SourceRange, bool) {
	if begin.IsNull() || end.IsNull() {
		return SourceRange{}, false
	}
	if begin.tu != end.tu || begin.gen != end.gen || begin.file != end.file || begin.offset > end.offset {
		return SourceRange{}, false
	}
	return SourceRange{begin: begin, end: end}, true
}

// Start returns the first location of r.
func (r SourceRange) Start() SourceLocation { return r.begin }

// End returns the location just past r.
func (r SourceRange) End() SourceLocation { return r.end }

// IsNull reports whether r is the null range.
func (r SourceRange) IsNull() bool { return r.begin.IsNull() }

// Text returns the source text covered by r.
func (r SourceRange) Text() string {
	if r.IsNull() {
		return ""
	}
	if err := r.begin.Check(); err != nil {
		panic(err)
	}
	nf, _ := r.begin.tu.unit.Files.Get(r.begin.file)
	return string(nf.Content[r.begin.offset:r.end.offset])
}

func (r SourceRange) String() string {
	if r.IsNull() {
		return "<null>"
	}
	return fmt.Sprintf("%s-%d:%d", r.begin, r.end.line, r.end.col)
}
