package cindex

import "github.com/jward/cindex/internal/native"

// ChildVisitResult tells VisitChildren how to continue after a cursor.
type ChildVisitResult int

const (
	// ChildVisitBreak stops the traversal.
	ChildVisitBreak ChildVisitResult = iota
	// ChildVisitContinue moves on to the next sibling without visiting the
	// cursor's children.
	ChildVisitContinue
	// ChildVisitRecurse visits the cursor's children before its next
	// sibling.
	ChildVisitRecurse
)

func (r ChildVisitResult) String() string {
	switch r {
	case ChildVisitBreak:
		return "break"
	case ChildVisitContinue:
		return "continue"
	case ChildVisitRecurse:
		return "recurse"
	}
	return "unknown"
}

// VisitOutcome reports how a traversal ended.
type VisitOutcome int

const (
	VisitCompleted VisitOutcome = iota
	VisitAborted
)

func (o VisitOutcome) String() string {
	if o == VisitAborted {
		return "aborted"
	}
	return "completed"
}

// CursorVisitor is called for every cursor reached by VisitChildren.
type CursorVisitor interface {
	VisitCursor(cursor, parent Cursor) (ChildVisitResult, error)
}

// CursorVisitorFunc adapts a function to CursorVisitor.
type CursorVisitorFunc func(cursor, parent Cursor) (ChildVisitResult, error)

func (f CursorVisitorFunc) VisitCursor(cursor, parent Cursor) (ChildVisitResult, error) {
	return f(cursor, parent)
}

// VisitChildren walks the descendants of c in pre-order, source order,
// letting v decide at each cursor whether to descend, skip or stop. It
// returns VisitAborted if v returned ChildVisitBreak. An error from v stops
// the walk and is returned as is.
func (c Cursor) VisitChildren(v CursorVisitor) (VisitOutcome, error) {
	const op = "Cursor.VisitChildren"
	if v == nil {
		return VisitCompleted, &UsageError{Op: op, Err: ErrNilVisitor}
	}
	if err := c.check(op); err != nil {
		return VisitCompleted, err
	}
	if c.IsNull() {
		return VisitCompleted, nil
	}

	type frame struct {
		parent native.NodeID
		next   []native.NodeID
	}
	stack := []frame{{parent: c.id, next: c.tu.unit.Children(c.id)}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if len(top.next) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}
		id := top.next[0]
		top.next = top.next[1:]
		parent := top.parent

		res, err := v.VisitCursor(c.tu.cursor(id), c.tu.cursor(parent))
		if err != nil {
			return VisitAborted, err
		}
		// The visitor may have closed or reparsed the unit.
		if err := c.check(op); err != nil {
			return VisitAborted, err
		}
		switch res {
		case ChildVisitBreak:
			return VisitAborted, nil
		case ChildVisitRecurse:
			stack = append(stack, frame{parent: id, next: c.tu.unit.Children(id)})
		}
	}
	return VisitCompleted, nil
}
