package script

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/jward/cindex"
)

// CursorRef is how a cursor appears to scripts. Its methods are callable
// from Risor, e.g. cursor.Spelling().
type CursorRef struct {
	c cindex.Cursor
}

// NewCursorRef wraps c for use as a script global.
func NewCursorRef(c cindex.Cursor) object.Object {
	return mustProxy(&CursorRef{c: c})
}

// Cursor returns the wrapped cursor.
func (r *CursorRef) Cursor() cindex.Cursor { return r.c }

func (r *CursorRef) Kind() string        { return r.c.Kind().String() }
func (r *CursorRef) Spelling() string    { return r.c.Spelling() }
func (r *CursorRef) DisplayName() string { return r.c.DisplayName() }
func (r *CursorRef) USR() string         { return r.c.USR() }
func (r *CursorRef) IsDefinition() bool  { return r.c.IsDefinition() }
func (r *CursorRef) IsNull() bool        { return r.c.IsNull() }

// toCursor unwraps a CursorRef argument and checks that it is still usable.
func toCursor(fn string, obj object.Object) (cindex.Cursor, *object.Error) {
	proxy, ok := obj.(*object.Proxy)
	if !ok {
		return cindex.Cursor{}, object.Errorf("%s: expected cursor, got %s", fn, obj.Type())
	}
	ref, ok := proxy.Interface().(*CursorRef)
	if !ok {
		return cindex.Cursor{}, object.Errorf("%s: expected cursor, got %T", fn, proxy.Interface())
	}
	if ref.c.IsNull() {
		return ref.c, nil
	}
	if err := ref.c.Check(); err != nil {
		return cindex.Cursor{}, object.Errorf("%s: %v", fn, err)
	}
	return ref.c, nil
}

func cursorList(cs []cindex.Cursor) object.Object {
	items := make([]object.Object, len(cs))
	for i, c := range cs {
		items[i] = NewCursorRef(c)
	}
	return object.NewList(items)
}

func locationMap(loc cindex.SourceLocation) object.Object {
	if loc.IsNull() {
		return object.Nil
	}
	file := ""
	if f, ok := loc.File(); ok {
		file = f.Name()
	}
	return object.NewMap(map[string]object.Object{
		"file":   object.NewString(file),
		"line":   object.NewInt(int64(loc.Line())),
		"column": object.NewInt(int64(loc.Column())),
		"offset": object.NewInt(int64(loc.Offset())),
	})
}

func rangeMap(r cindex.SourceRange) object.Object {
	if r.IsNull() {
		return object.Nil
	}
	return object.NewMap(map[string]object.Object{
		"start": locationMap(r.Start()),
		"end":   locationMap(r.End()),
		"text":  object.NewString(r.Text()),
	})
}

// makeRootFn creates "root".
//
// root() → cursor
func makeRootFn(tu *cindex.TranslationUnit) *object.Builtin {
	return object.NewBuiltin("root", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("root", 0, len(args))
		}
		if err := tu.Check(); err != nil {
			return object.Errorf("root: %v", err)
		}
		return NewCursorRef(tu.Cursor())
	})
}

// makeChildrenFn creates "children".
//
// children(cursor) → []cursor
func makeChildrenFn() *object.Builtin {
	return object.NewBuiltin("children", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("children", 1, len(args))
		}
		c, errObj := toCursor("children", args[0])
		if errObj != nil {
			return errObj
		}
		return cursorList(c.Children())
	})
}

// makeKindFn creates "kind".
//
// kind(cursor) → string
func makeKindFn() *object.Builtin {
	return object.NewBuiltin("kind", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("kind", 1, len(args))
		}
		c, errObj := toCursor("kind", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewString(c.Kind().String())
	})
}

// makeSpellingFn creates "spelling".
//
// spelling(cursor) → string
func makeSpellingFn() *object.Builtin {
	return object.NewBuiltin("spelling", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("spelling", 1, len(args))
		}
		c, errObj := toCursor("spelling", args[0])
		if errObj != nil {
			return errObj
		}
		return object.NewString(c.Spelling())
	})
}

// makeLocationFn creates "location".
//
// location(cursor) → {file, line, column, offset} or nil
func makeLocationFn() *object.Builtin {
	return object.NewBuiltin("location", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("location", 1, len(args))
		}
		c, errObj := toCursor("location", args[0])
		if errObj != nil {
			return errObj
		}
		return locationMap(c.Location())
	})
}

// makeExtentFn creates "extent".
//
// extent(cursor) → {start, end, text} or nil
func makeExtentFn() *object.Builtin {
	return object.NewBuiltin("extent", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("extent", 1, len(args))
		}
		c, errObj := toCursor("extent", args[0])
		if errObj != nil {
			return errObj
		}
		return rangeMap(c.Extent())
	})
}

// makeCommentFn creates "comment".
//
// comment(cursor) → {brief, text} or nil, where text is the normalized
// comment.
func makeCommentFn() *object.Builtin {
	return object.NewBuiltin("comment", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("comment", 1, len(args))
		}
		c, errObj := toCursor("comment", args[0])
		if errObj != nil {
			return errObj
		}
		fc, ok := c.ParsedComment()
		if !ok {
			return object.Nil
		}
		defer fc.Close()
		return object.NewMap(map[string]object.Object{
			"brief": object.NewString(fc.Brief()),
			"text":  object.NewString(fc.Normalize()),
		})
	})
}

// makeReferencedFn creates "referenced".
//
// referenced(cursor) → cursor; the null cursor when nothing resolves
func makeReferencedFn() *object.Builtin {
	return object.NewBuiltin("referenced", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("referenced", 1, len(args))
		}
		c, errObj := toCursor("referenced", args[0])
		if errObj != nil {
			return errObj
		}
		ref, err := c.Referenced()
		if err != nil {
			return object.Errorf("referenced: %v", err)
		}
		return NewCursorRef(ref)
	})
}

// makeInclusionsFn creates "inclusions".
//
// inclusions() → []{file, depth}
func makeInclusionsFn(tu *cindex.TranslationUnit) *object.Builtin {
	return object.NewBuiltin("inclusions", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("inclusions", 0, len(args))
		}
		results := []object.Object{}
		err := tu.VisitInclusions(cindex.InclusionVisitorFunc(func(f *cindex.File, chain []cindex.SourceLocation) error {
			results = append(results, object.NewMap(map[string]object.Object{
				"file":  object.NewString(f.Name()),
				"depth": object.NewInt(int64(len(chain))),
			}))
			return nil
		}))
		if err != nil {
			return object.Errorf("inclusions: %v", err)
		}
		return object.NewList(results)
	})
}

// makeDiagnosticsFn creates "diagnostics".
//
// diagnostics() → []{severity, message, category, location, text}
func makeDiagnosticsFn(tu *cindex.TranslationUnit) *object.Builtin {
	return object.NewBuiltin("diagnostics", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("diagnostics", 0, len(args))
		}
		if err := tu.Check(); err != nil {
			return object.Errorf("diagnostics: %v", err)
		}
		set := tu.Diagnostics()
		defer set.Close()
		results := make([]object.Object, 0, set.Len())
		for _, d := range set.All() {
			results = append(results, object.NewMap(map[string]object.Object{
				"severity": object.NewString(d.Severity().String()),
				"message":  object.NewString(d.Spelling()),
				"category": object.NewString(d.CategoryText()),
				"location": locationMap(d.Location()),
				"text":     object.NewString(d.Format(cindex.DefaultDiagnosticDisplayOptions())),
			}))
		}
		return object.NewList(results)
	})
}

// makeLookupFn creates "lookup".
//
// lookup(name) → []cursor
func makeLookupFn(tu *cindex.TranslationUnit) *object.Builtin {
	return object.NewBuiltin("lookup", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("lookup", 1, len(args))
		}
		name, err := toString(args[0])
		if err != nil {
			return object.Errorf("lookup: name: %v", err)
		}
		cs, err := tu.LookupSymbols(name)
		if err != nil {
			return object.Errorf("lookup: %v", err)
		}
		return cursorList(cs)
	})
}

// makeQueryFn creates "query".
//
// query(pattern) or query(pattern, file) → []{name, type, text, line, column}
//
// The main file is queried when no file name is given.
func makeQueryFn(tu *cindex.TranslationUnit) *object.Builtin {
	return object.NewBuiltin("query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 && len(args) != 2 {
			return object.NewArgsError("query", 1, len(args))
		}
		pattern, err := toString(args[0])
		if err != nil {
			return object.Errorf("query: pattern: %v", err)
		}
		if err := tu.Check(); err != nil {
			return object.Errorf("query: %v", err)
		}
		file := tu.MainFile()
		if len(args) == 2 {
			name, err := toString(args[1])
			if err != nil {
				return object.Errorf("query: file: %v", err)
			}
			f, ok := tu.File(name)
			if !ok {
				return object.Errorf("query: file %q is not part of the translation unit", name)
			}
			file = f
		}
		caps, err := tu.Query(pattern, file)
		if err != nil {
			return object.Errorf("query: %v", err)
		}
		results := make([]object.Object, 0, len(caps))
		for _, c := range caps {
			start := c.Range.Start()
			results = append(results, object.NewMap(map[string]object.Object{
				"name":   object.NewString(c.Name),
				"type":   object.NewString(c.Type),
				"text":   object.NewString(c.Range.Text()),
				"line":   object.NewInt(int64(start.Line())),
				"column": object.NewInt(int64(start.Column())),
			}))
		}
		return object.NewList(results)
	})
}
