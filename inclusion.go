package cindex

// InclusionVisitor is called once for every file entered while
// preprocessing a translation unit.
type InclusionVisitor interface {
	// VisitInclusion receives the entered file and the chain of #include
	// directives that led to it, innermost first. The main file is reported
	// with an empty chain.
	VisitInclusion(file *File, chain []SourceLocation) error
}

// InclusionVisitorFunc adapts a function to InclusionVisitor.
type InclusionVisitorFunc func(file *File, chain []SourceLocation) error

func (f InclusionVisitorFunc) VisitInclusion(file *File, chain []SourceLocation) error {
	return f(file, chain)
}

// VisitInclusions reports every file entry in the order the preprocessor
// made them. A header without an include guard is reported once per
// #include that entered it. An error from v stops the enumeration and is
// returned as is.
func (tu *TranslationUnit) VisitInclusions(v InclusionVisitor) error {
	const op = "TranslationUnit.VisitInclusions"
	if v == nil {
		return &UsageError{Op: op, Err: ErrNilVisitor}
	}
	if err := tu.check(op); err != nil {
		return err
	}
	gen := tu.gen
	for _, inc := range tu.unit.Inclusions {
		if err := tu.check(op); err != nil {
			return err
		}
		if tu.gen != gen {
			return &UsageError{Op: op, Err: ErrStale}
		}
		chain := make([]SourceLocation, len(inc.Chain))
		for i, loc := range inc.Chain {
			chain[i] = tu.location(loc.File, loc.Offset)
		}
		if err := v.VisitInclusion(tu.file(inc.File), chain); err != nil {
			return err
		}
	}
	return nil
}
