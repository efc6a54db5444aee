package store

import (
	"database/sql"
	"errors"
	"fmt"
)

// --- File operations ---

func (s *Store) InsertFile(f *File) (int64, error) {
	var res sql.Result
	var err error
	if f.ID > 0 {
		res, err = s.db.Exec("INSERT INTO files (id, path) VALUES (?, ?)", f.ID, f.Path)
	} else {
		res, err = s.db.Exec("INSERT INTO files (path) VALUES (?)", f.Path)
	}
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func (s *Store) FileByPath(path string) (*File, error) {
	f := &File{}
	err := s.db.QueryRow("SELECT id, path FROM files WHERE path = ?", path).Scan(&f.ID, &f.Path)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// --- Symbol operations ---

func (s *Store) InsertSymbol(sym *Symbol) error {
	if err := insertSymbol(s.db, sym); err != nil {
		return fmt.Errorf("insert symbol: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func insertSymbol(db execer, sym *Symbol) error {
	_, err := db.Exec(
		`INSERT INTO symbols (node_id, file_id, name, usr, kind, is_definition, line, col, parent_node_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sym.NodeID, sym.FileID, sym.Name, sym.USR, sym.Kind, sym.IsDefinition,
		sym.Line, sym.Col, sym.ParentNodeID,
	)
	return err
}

const symbolCols = `node_id, file_id, name, usr, kind, is_definition, line, col, parent_node_id`

func scanSymbol(scanner interface{ Scan(...any) error }) (*Symbol, error) {
	sym := &Symbol{}
	err := scanner.Scan(
		&sym.NodeID, &sym.FileID, &sym.Name, &sym.USR, &sym.Kind, &sym.IsDefinition,
		&sym.Line, &sym.Col, &sym.ParentNodeID,
	)
	if err != nil {
		return nil, err
	}
	return sym, nil
}

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []*Symbol
	for rows.Next() {
		sym, err := scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

func (s *Store) querySymbol(query string, args ...any) (*Symbol, error) {
	sym, err := scanSymbol(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sym, nil
}

func (s *Store) SymbolsByFile(fileID int64) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE file_id = ? ORDER BY node_id", fileID)
}

func (s *Store) SymbolsByName(name string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE name = ? ORDER BY node_id", name)
}

func (s *Store) SymbolsByUSR(usr string) ([]*Symbol, error) {
	return s.querySymbols("SELECT "+symbolCols+" FROM symbols WHERE usr = ? ORDER BY node_id", usr)
}

// SymbolsByNameAndKind returns the symbols named name whose kind is one of
// kinds. An empty kinds matches every kind.
func (s *Store) SymbolsByNameAndKind(name string, kinds ...int) ([]*Symbol, error) {
	if len(kinds) == 0 {
		return s.SymbolsByName(name)
	}
	args := append([]any{name}, intsToArgs(kinds)...)
	return s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE name = ? AND kind IN ("+placeholderList(len(kinds))+") ORDER BY node_id",
		args...,
	)
}

func (s *Store) SymbolByNode(nodeID int64) (*Symbol, error) {
	sym, err := s.querySymbol("SELECT "+symbolCols+" FROM symbols WHERE node_id = ?", nodeID)
	if err != nil {
		return nil, fmt.Errorf("symbol by node: %w", err)
	}
	return sym, nil
}

// --- Reference operations ---

func (s *Store) InsertReference(ref *Reference) error {
	if err := insertReference(s.db, ref); err != nil {
		return fmt.Errorf("insert reference: %w", err)
	}
	return nil
}

func insertReference(db execer, ref *Reference) error {
	_, err := db.Exec(
		"INSERT INTO references_ (node_id, file_id, name, kind, line, col) VALUES (?, ?, ?, ?, ?, ?)",
		ref.NodeID, ref.FileID, ref.Name, ref.Kind, ref.Line, ref.Col,
	)
	return err
}

func (s *Store) ReferenceByNode(nodeID int64) (*Reference, error) {
	ref := &Reference{}
	err := s.db.QueryRow(
		"SELECT node_id, file_id, name, kind, line, col FROM references_ WHERE node_id = ?", nodeID,
	).Scan(&ref.NodeID, &ref.FileID, &ref.Name, &ref.Kind, &ref.Line, &ref.Col)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reference by node: %w", err)
	}
	return ref, nil
}

func (s *Store) ReferencesByName(name string) ([]*Reference, error) {
	rows, err := s.db.Query(
		"SELECT node_id, file_id, name, kind, line, col FROM references_ WHERE name = ? ORDER BY node_id", name,
	)
	if err != nil {
		return nil, fmt.Errorf("references by name: %w", err)
	}
	defer rows.Close()
	var refs []*Reference
	for rows.Next() {
		ref := &Reference{}
		if err := rows.Scan(&ref.NodeID, &ref.FileID, &ref.Name, &ref.Kind, &ref.Line, &ref.Col); err != nil {
			return nil, fmt.Errorf("scan reference: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// --- Resolution ---

// Resolve returns the nearest declaration of name that precedes node in
// the translation unit, restricted to kinds when given. Returns nil when
// nothing matches.
func (s *Store) Resolve(name string, node int64, kinds ...int) (*Symbol, error) {
	query := "SELECT " + symbolCols + " FROM symbols WHERE name = ? AND node_id < ?"
	args := []any{name, node}
	if len(kinds) > 0 {
		query += " AND kind IN (" + placeholderList(len(kinds)) + ")"
		args = append(args, intsToArgs(kinds)...)
	}
	query += " ORDER BY node_id DESC LIMIT 1"
	sym, err := s.querySymbol(query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", name, err)
	}
	return sym, nil
}

// DefinitionOf returns the defining declaration of usr, or nil.
func (s *Store) DefinitionOf(usr string) (*Symbol, error) {
	if usr == "" {
		return nil, nil
	}
	sym, err := s.querySymbol(
		"SELECT "+symbolCols+" FROM symbols WHERE usr = ? AND is_definition ORDER BY node_id LIMIT 1", usr,
	)
	if err != nil {
		return nil, fmt.Errorf("definition of %q: %w", usr, err)
	}
	return sym, nil
}
