package native

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"time"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// FileID indexes a File within its unit's FileTable. The main file is
// always FileID 0.
type FileID uint32

// NoFile marks the absence of a file.
const NoFile FileID = ^FileID(0)

// File is one source file that took part in a parse.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	ModTime time.Time
	Unsaved bool

	lineIdx []uint32 // byte offsets of '\n'
	tree    *sitter.Tree
	once    bool   // saw #pragma once
	guard   string // include-guard macro, if the file has one
	entered bool
}

// FileTable owns every File of a unit, keyed by cleaned path.
type FileTable struct {
	files []*File
	byKey map[string]FileID
}

func newFileTable() *FileTable {
	return &FileTable{byKey: make(map[string]FileID)}
}

// Add registers content under path, normalising CRLF line endings and a
// leading UTF-8 byte order mark.
func (ft *FileTable) Add(path string, content []byte, mtime time.Time, unsaved bool) *File {
	key := cleanPath(path)
	if id, ok := ft.byKey[key]; ok {
		return ft.files[id]
	}
	content = normalizeContent(content)
	id, err := safecast.Conv[FileID](len(ft.files))
	if err != nil {
		panic(err)
	}
	f := &File{
		ID:      id,
		Path:    key,
		Content: content,
		ModTime: mtime,
		Unsaved: unsaved,
		lineIdx: buildLineIndex(content),
	}
	ft.files = append(ft.files, f)
	ft.byKey[key] = id
	return f
}

// Get returns the file with the given id.
func (ft *FileTable) Get(id FileID) (*File, bool) {
	if int(id) >= len(ft.files) {
		return nil, false
	}
	return ft.files[id], true
}

// Lookup finds a file by path.
func (ft *FileTable) Lookup(path string) (*File, bool) {
	id, ok := ft.byKey[cleanPath(path)]
	if !ok {
		return nil, false
	}
	return ft.files[id], true
}

// Len returns the number of files in the table.
func (ft *FileTable) Len() int { return len(ft.files) }

// All returns the files in registration order.
func (ft *FileTable) All() []*File { return ft.files }

func cleanPath(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Clean(path)
}

// normalizeContent strips a UTF-8 BOM and converts CRLF to LF.
func normalizeContent(content []byte) []byte {
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	if bytes.IndexByte(content, '\r') < 0 {
		return content
	}
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 0, bytes.Count(content, []byte{'\n'}))
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				break
			}
			idx = append(idx, off)
		}
	}
	return idx
}

// Size returns the file length in bytes.
func (f *File) Size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return ^uint32(0)
	}
	return n
}

// LineCol converts a byte offset into a 1-based line and column.
func (f *File) LineCol(offset uint32) (line, col uint32) {
	if offset > f.Size() {
		offset = f.Size()
	}
	// Number of newlines strictly before offset.
	n := sort.Search(len(f.lineIdx), func(i int) bool { return f.lineIdx[i] >= offset })
	lineStart := uint32(0)
	if n > 0 {
		lineStart = f.lineIdx[n-1] + 1
	}
	l, err := safecast.Conv[uint32](n + 1)
	if err != nil {
		return 0, 0
	}
	return l, offset - lineStart + 1
}

// Offset converts a 1-based line and column into a byte offset. The column
// may point one past the last character of the line.
func (f *File) Offset(line, col uint32) (uint32, bool) {
	if line == 0 || col == 0 {
		return 0, false
	}
	if int(line) > len(f.lineIdx)+1 {
		return 0, false
	}
	lineStart := uint32(0)
	if line > 1 {
		lineStart = f.lineIdx[line-2] + 1
	}
	lineEnd := f.Size()
	if int(line) <= len(f.lineIdx) {
		lineEnd = f.lineIdx[line-1]
	}
	off := lineStart + col - 1
	if off > lineEnd {
		return 0, false
	}
	return off, true
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int { return len(f.lineIdx) + 1 }

// IsGuarded reports whether re-including the file would be a no-op because
// of #pragma once or a defined include guard.
func (f *File) isGuarded(macros map[string]string) bool {
	if !f.entered {
		return false
	}
	if f.once {
		return true
	}
	if f.guard != "" {
		_, defined := macros[f.guard]
		return defined
	}
	return false
}

func statModTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
