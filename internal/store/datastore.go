package store

// DataStore is the write side of the declaration index. Both Store (direct
// SQLite) and BatchedStore (in-memory buffering, committed in one
// transaction) implement it.
type DataStore interface {
	InsertSymbol(sym *Symbol) error
	InsertReference(ref *Reference) error

	SymbolsByName(name string) ([]*Symbol, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
