package store

import (
	"fmt"
)

// CommitBatch inserts all buffered data from a BatchedStore into SQLite
// within a single transaction, files first. The batch is emptied on
// success.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	for _, f := range batch.Files {
		if _, err := tx.Exec("INSERT INTO files (id, path) VALUES (?, ?)", f.ID, f.Path); err != nil {
			return fmt.Errorf("commit batch: file %q: %w", f.Path, err)
		}
	}
	for i := range batch.Symbols {
		if err := insertSymbol(tx, &batch.Symbols[i]); err != nil {
			return fmt.Errorf("commit batch: symbol %q: %w", batch.Symbols[i].Name, err)
		}
	}
	for i := range batch.References {
		if err := insertReference(tx, &batch.References[i]); err != nil {
			return fmt.Errorf("commit batch: reference %q: %w", batch.References[i].Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	batch.Files, batch.Symbols, batch.References = nil, nil, nil
	return nil
}
