package native

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// NodeID indexes a Node within its Unit. The translation unit itself is
// always RootNode.
type NodeID int32

const (
	RootNode NodeID = 0
	NoNode   NodeID = -1
)

// Node is one cursor of the semantic tree.
type Node struct {
	Kind     CursorKind
	Spelling string
	Display  string
	USR      string
	Operator string
	Ref      string // name looked up when resolving a reference

	File       FileID
	Start, End uint32 // extent, byte offsets
	Loc        uint32 // spelling location, byte offset

	Parent   NodeID
	Children []NodeID
	Params   []NodeID
	TParams  []NodeID
	Variadic bool

	IsDefinition bool
	Included     FileID // target of an inclusion directive

	anchor *sitter.Node // outermost syntax node a doc comment attaches to
}

// Loc is a position within one file of a unit.
type Loc struct {
	File   FileID
	Offset uint32
}

// Inclusion records one entry into a file during preprocessing. Chain lists
// the inclusion directives that led to it, innermost first.
type Inclusion struct {
	File  FileID
	Chain []Loc
}

// Unit is the native result of one parse: every file read, the semantic
// cursor tree, the inclusion record and the diagnostics.
type Unit struct {
	Lang       string
	Options    Options
	Args       []string
	Files      *FileTable
	Nodes      []Node
	Inclusions []Inclusion
	Diags      []Diag
	Macros     map[string]string

	grammar *sitter.Language
	closed  bool
}

func newUnit(lang string, grammar *sitter.Language, opts Options, args []string) *Unit {
	return &Unit{
		Lang:    lang,
		Options: opts,
		Args:    args,
		Files:   newFileTable(),
		Macros:  make(map[string]string),
		grammar: grammar,
	}
}

// Close releases every syntax tree held by the unit. Safe to call more than
// once.
func (u *Unit) Close() {
	if u.closed {
		return
	}
	u.closed = true
	for _, f := range u.Files.All() {
		if f.tree != nil {
			f.tree.Close()
			f.tree = nil
		}
	}
	for i := range u.Nodes {
		u.Nodes[i].anchor = nil
	}
}

// Closed reports whether Close has been called.
func (u *Unit) Closed() bool { return u.closed }

// MainFile returns the file the unit was parsed from.
func (u *Unit) MainFile() *File {
	f, _ := u.Files.Get(0)
	return f
}

// Node returns the node with the given id.
func (u *Unit) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(u.Nodes) {
		panic(fmt.Sprintf("native: node %d out of range", id))
	}
	return &u.Nodes[id]
}

// Children returns the ordered children of id.
func (u *Unit) Children(id NodeID) []NodeID {
	return u.Node(id).Children
}

// NodeAt returns the deepest node of file whose extent contains offset, or
// RootNode when no declaration covers it.
func (u *Unit) NodeAt(file FileID, offset uint32) NodeID {
	cur := RootNode
	for {
		next := NoNode
		for _, c := range u.Nodes[cur].Children {
			n := &u.Nodes[c]
			if n.File == file && n.Start <= offset && offset < n.End {
				next = c
				break
			}
		}
		if next == NoNode {
			return cur
		}
		cur = next
	}
}

// Capture is one node captured by a tree-sitter query.
type Capture struct {
	Name       string
	Type       string
	File       FileID
	Start, End uint32
}

// Query runs a tree-sitter query against the syntax tree of one file.
func (u *Unit) Query(pattern string, fid FileID) ([]Capture, error) {
	f, ok := u.Files.Get(fid)
	if !ok {
		return nil, fmt.Errorf("native: query: unknown file %d", fid)
	}
	if f.tree == nil {
		return nil, nil
	}

	q, err := sitter.NewQuery([]byte(pattern), u.grammar)
	if err != nil {
		return nil, fmt.Errorf("native: query: invalid pattern: %w", err)
	}
	defer q.Close()

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.Exec(q, f.tree.RootNode())

	var out []Capture
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		match = cursor.FilterPredicates(match, f.Content)
		for _, c := range match.Captures {
			out = append(out, Capture{
				Name:  q.CaptureNameForId(c.Index),
				Type:  c.Node.Type(),
				File:  fid,
				Start: c.Node.StartByte(),
				End:   c.Node.EndByte(),
			})
		}
	}
	return out, nil
}
