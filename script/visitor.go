package script

import (
	"context"
	"fmt"

	"github.com/jward/cindex"
)

// Visitor is a cindex.CursorVisitor backed by a script. The script runs
// once per cursor with the globals cursor and parent, and its last
// expression decides the walk: "recurse", "continue" or "break". A script
// that yields nil recurses.
type Visitor struct {
	rt  *Runtime
	ctx context.Context
	src string
}

// NewVisitor returns a visitor that evaluates src for each cursor.
func NewVisitor(ctx context.Context, rt *Runtime, src string) *Visitor {
	return &Visitor{rt: rt, ctx: ctx, src: src}
}

func (v *Visitor) VisitCursor(cursor, parent cindex.Cursor) (cindex.ChildVisitResult, error) {
	obj, err := v.rt.evalObject(v.ctx, v.src, "<visitor>", map[string]any{
		"cursor": NewCursorRef(cursor),
		"parent": NewCursorRef(parent),
	})
	if err != nil {
		return cindex.ChildVisitBreak, err
	}
	res, err := visitResult(obj)
	if err != nil {
		return cindex.ChildVisitBreak, fmt.Errorf("script: %w", err)
	}
	switch res {
	case "recurse":
		return cindex.ChildVisitRecurse, nil
	case "continue":
		return cindex.ChildVisitContinue, nil
	case "break":
		return cindex.ChildVisitBreak, nil
	}
	return cindex.ChildVisitBreak, fmt.Errorf("script: unknown visit result %q", res)
}
