// Package cindex gives managed access to a C and C++ front-end built on
// tree-sitter. It parses source files into translation units and exposes
// their semantic tree as cursors, their text positions as files, locations
// and ranges, their diagnostics, and their documentation comments as a
// structured tree.
//
// # Ownership
//
// Every object belongs to the object it was derived from:
//
//	Index
//	└── TranslationUnit
//	    ├── File
//	    ├── DiagnosticSet ── Diagnostic ── DiagnosticSet (notes)
//	    └── FullComment ── Comment nodes
//
// An object is usable only while nothing above it has been closed. Closing
// an object does not visit its descendants; they fail with [ErrDisposed]
// the next time they are used. Cursors and locations are plain values and
// additionally fail with [ErrStale] once their translation unit has been
// reparsed. Operations report misuse as a *[UsageError]; plain accessors
// with no error result panic with one.
//
// # Usage
//
//	ix := cindex.NewIndex()
//	defer ix.Close()
//
//	tu, err := ix.Parse(ctx, "main.c", []string{"-Iinclude"}, nil, cindex.TranslationUnitNone)
//	if err != nil { ... }
//	defer tu.Close()
//
//	outcome, err := tu.Cursor().VisitChildren(cindex.CursorVisitorFunc(
//		func(c, parent cindex.Cursor) (cindex.ChildVisitResult, error) {
//			fmt.Println(c.Kind(), c.Spelling())
//			return cindex.ChildVisitRecurse, nil
//		}))
//
// # Concurrency
//
// An Index and everything derived from it must be used from one goroutine
// at a time. [Index.Mutex] returns the lock to serialize on when sharing.
// Separate Index values are independent.
//
// # Scripts
//
// The script package runs Risor scripts against a translation unit, and
// can drive a cursor traversal from a script.
package cindex
