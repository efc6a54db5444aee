package store

// BatchedStore buffers inserts in memory so a whole translation unit can be
// committed in one transaction by CommitBatch.
type BatchedStore struct {
	store *Store // for read passthrough

	Files      []File
	Symbols    []Symbol
	References []Reference
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore backed by the given Store for read queries.
func NewBatchedStore(s *Store) *BatchedStore {
	return &BatchedStore{store: s}
}

func (b *BatchedStore) InsertFile(f *File) {
	b.Files = append(b.Files, *f)
}

func (b *BatchedStore) InsertSymbol(sym *Symbol) error {
	b.Symbols = append(b.Symbols, *sym)
	return nil
}

func (b *BatchedStore) InsertReference(ref *Reference) error {
	b.References = append(b.References, *ref)
	return nil
}

// SymbolsByName returns committed symbols followed by buffered ones.
func (b *BatchedStore) SymbolsByName(name string) ([]*Symbol, error) {
	syms, err := b.store.SymbolsByName(name)
	if err != nil {
		return nil, err
	}
	for i := range b.Symbols {
		if b.Symbols[i].Name == name {
			syms = append(syms, &b.Symbols[i])
		}
	}
	return syms, nil
}

// Len returns the number of buffered rows.
func (b *BatchedStore) Len() int {
	return len(b.Files) + len(b.Symbols) + len(b.References)
}
