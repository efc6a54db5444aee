package store

type File struct {
	ID   int64
	Path string
}

// Symbol is a named declaration. NodeID is its position in the translation
// unit's pre-order, so a lower NodeID means earlier in the unit.
type Symbol struct {
	NodeID       int64
	FileID       int64
	Name         string
	USR          string
	Kind         int
	IsDefinition bool
	Line         int
	Col          int
	ParentNodeID int64
}

// Reference is a use of a name that resolves to a Symbol.
type Reference struct {
	NodeID int64
	FileID int64
	Name   string
	Kind   int
	Line   int
	Col    int
}
