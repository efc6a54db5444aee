package cindex

// handle is embedded by every object that owns or borrows native state. An
// object is usable only while no handle on its path to the root Index has
// been disposed. Nothing is propagated on close; children find out lazily.
type handle struct {
	owner    *handle
	disposed bool
}

func (h *handle) check(op string) error {
	for n := h; n != nil; n = n.owner {
		if n.disposed {
			return &UsageError{Op: op, Err: ErrDisposed}
		}
	}
	return nil
}

// mustCheck is used by plain accessors, which have no error result.
func (h *handle) mustCheck(op string) {
	if err := h.check(op); err != nil {
		panic(err)
	}
}

// dispose marks h closed and reports whether this call did it.
func (h *handle) dispose() bool {
	if h.disposed {
		return false
	}
	h.disposed = true
	return true
}
