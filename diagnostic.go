package cindex

import (
	"fmt"
	"strings"

	"github.com/jward/cindex/internal/native"
)

// DiagnosticSeverity ranks a diagnostic.
type DiagnosticSeverity int

const (
	DiagnosticIgnored DiagnosticSeverity = iota
	DiagnosticNote
	DiagnosticWarning
	DiagnosticError
	DiagnosticFatal
)

func (s DiagnosticSeverity) String() string {
	switch s {
	case DiagnosticIgnored:
		return "ignored"
	case DiagnosticNote:
		return "note"
	case DiagnosticWarning:
		return "warning"
	case DiagnosticError:
		return "error"
	case DiagnosticFatal:
		return "fatal error"
	}
	return fmt.Sprintf("DiagnosticSeverity(%d)", int(s))
}

// DiagnosticDisplayOptions select what Diagnostic.Format includes.
type DiagnosticDisplayOptions uint32

const (
	DisplaySourceLocation DiagnosticDisplayOptions = 0x01
	DisplayColumn         DiagnosticDisplayOptions = 0x02
	DisplaySourceRanges   DiagnosticDisplayOptions = 0x04
	DisplayOption         DiagnosticDisplayOptions = 0x08
	DisplayCategoryID     DiagnosticDisplayOptions = 0x10
	DisplayCategoryName   DiagnosticDisplayOptions = 0x20
)

// DefaultDiagnosticDisplayOptions matches the compiler's own output.
func DefaultDiagnosticDisplayOptions() DiagnosticDisplayOptions {
	return DisplaySourceLocation | DisplayColumn | DisplayOption
}

// DiagnosticSet is an ordered collection of diagnostics owned by a
// translation unit, or by a parent diagnostic for its notes.
type DiagnosticSet struct {
	handle

	tu    *TranslationUnit
	gen   uint64
	diags []native.Diag
}

// Diagnostics returns the diagnostics of the last parse.
func (tu *TranslationUnit) Diagnostics() *DiagnosticSet {
	tu.mustCheck("TranslationUnit.Diagnostics")
	return &DiagnosticSet{handle: handle{owner: &tu.handle}, tu: tu, gen: tu.gen, diags: tu.unit.Diags}
}

// NumDiagnostics returns the number of diagnostics of the last parse.
func (tu *TranslationUnit) NumDiagnostics() int {
	tu.mustCheck("TranslationUnit.NumDiagnostics")
	return len(tu.unit.Diags)
}

// Check reports whether s can still be used. A set taken before the last
// reparse is stale.
func (s *DiagnosticSet) Check() error {
	return s.check("DiagnosticSet")
}

func (s *DiagnosticSet) check(op string) error {
	if err := s.handle.check(op); err != nil {
		return err
	}
	if s.gen != s.tu.gen {
		return &UsageError{Op: op, Err: ErrStale}
	}
	return nil
}

func (s *DiagnosticSet) mustCheck(op string) {
	if err := s.check(op); err != nil {
		panic(err)
	}
}

// Close releases s and the diagnostics taken from it. Closing twice is a
// no-op.
func (s *DiagnosticSet) Close() error {
	s.dispose()
	return nil
}

// Len returns the number of diagnostics.
func (s *DiagnosticSet) Len() int {
	s.mustCheck("DiagnosticSet.Len")
	return len(s.diags)
}

// At returns the i-th diagnostic.
func (s *DiagnosticSet) At(i int) (*Diagnostic, bool) {
	s.mustCheck("DiagnosticSet.At")
	if i < 0 || i >= len(s.diags) {
		return nil, false
	}
	return &Diagnostic{handle: handle{owner: &s.handle}, set: s, d: &s.diags[i]}, true
}

// All returns every diagnostic in order.
func (s *DiagnosticSet) All() []*Diagnostic {
	s.mustCheck("DiagnosticSet.All")
	out := make([]*Diagnostic, len(s.diags))
	for i := range s.diags {
		out[i], _ = s.At(i)
	}
	return out
}

// Diagnostic is one message reported during a parse.
type Diagnostic struct {
	handle

	set *DiagnosticSet
	d   *native.Diag
}

// Check reports whether d can still be used.
func (d *Diagnostic) Check() error {
	return d.check("Diagnostic")
}

func (d *Diagnostic) check(op string) error {
	if err := d.handle.check(op); err != nil {
		return err
	}
	return d.set.check(op)
}

func (d *Diagnostic) mustCheck(op string) {
	if err := d.check(op); err != nil {
		panic(err)
	}
}

// Close releases d. Closing twice is a no-op.
func (d *Diagnostic) Close() error {
	d.dispose()
	return nil
}

// Severity returns how serious the diagnostic is.
func (d *Diagnostic) Severity() DiagnosticSeverity {
	d.mustCheck("Diagnostic.Severity")
	return DiagnosticSeverity(d.d.Severity)
}

// Spelling returns the message text.
func (d *Diagnostic) Spelling() string {
	d.mustCheck("Diagnostic.Spelling")
	return d.d.Message
}

// Location returns where the diagnostic was reported.
func (d *Diagnostic) Location() SourceLocation {
	d.mustCheck("Diagnostic.Location")
	return d.set.tu.location(d.d.Loc.File, d.d.Loc.Offset)
}

// Option returns the command-line option that enables the diagnostic and
// the one that disables it. Both are empty for diagnostics that cannot be
// turned off.
func (d *Diagnostic) Option() (enable, disable string) {
	d.mustCheck("Diagnostic.Option")
	return d.d.Option, d.d.Disable
}

// Category returns the numeric category, or 0 when there is none.
func (d *Diagnostic) Category() int {
	d.mustCheck("Diagnostic.Category")
	return d.d.CategoryID()
}

// CategoryText returns the category name, such as "Parse Issue".
func (d *Diagnostic) CategoryText() string {
	d.mustCheck("Diagnostic.CategoryText")
	return d.d.Category
}

// NumRanges returns the number of source ranges attached to d.
func (d *Diagnostic) NumRanges() int {
	d.mustCheck("Diagnostic.NumRanges")
	return len(d.d.Ranges)
}

// Range returns the i-th source range attached to d.
func (d *Diagnostic) Range(i int) (SourceRange, bool) {
	d.mustCheck("Diagnostic.Range")
	if i < 0 || i >= len(d.d.Ranges) {
		return SourceRange{}, false
	}
	r := d.d.Ranges[i]
	tu := d.set.tu
	return NewSourceRange(tu.location(r[0].File, r[0].Offset), tu.location(r[1].File, r[1].Offset))
}

// Children returns the notes attached to d. The set is owned by d.
func (d *Diagnostic) Children() *DiagnosticSet {
	d.mustCheck("Diagnostic.Children")
	return &DiagnosticSet{handle: handle{owner: &d.handle}, tu: d.set.tu, gen: d.set.gen, diags: d.d.Children}
}

// Format renders d the way a compiler prints it, for example
//
//	main.c:3:7: error: expected ';' [-Wfoo]
func (d *Diagnostic) Format(opts DiagnosticDisplayOptions) string {
	d.mustCheck("Diagnostic.Format")
	var sb strings.Builder
	if opts&DisplaySourceLocation != 0 {
		loc := d.Location()
		nf, _ := d.set.tu.unit.Files.Get(loc.file)
		fmt.Fprintf(&sb, "%s:%d:", nf.Path, loc.line)
		if opts&DisplayColumn != 0 {
			fmt.Fprintf(&sb, "%d:", loc.col)
		}
		if opts&DisplaySourceRanges != 0 {
			for _, r := range d.d.Ranges {
				b := d.set.tu.location(r[0].File, r[0].Offset)
				e := d.set.tu.location(r[1].File, r[1].Offset)
				fmt.Fprintf(&sb, "{%d:%d-%d:%d}", b.line, b.col, e.line, e.col)
			}
			if len(d.d.Ranges) > 0 {
				sb.WriteByte(':')
			}
		}
		sb.WriteByte(' ')
	}
	fmt.Fprintf(&sb, "%s: %s", d.Severity(), d.d.Message)

	var extra []string
	if opts&DisplayOption != 0 && d.d.Option != "" {
		extra = append(extra, d.d.Option)
	}
	if d.d.Category != "" {
		if opts&DisplayCategoryID != 0 {
			extra = append(extra, fmt.Sprint(d.d.CategoryID()))
		}
		if opts&DisplayCategoryName != 0 {
			extra = append(extra, d.d.Category)
		}
	}
	if len(extra) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(extra, ","))
	}
	return sb.String()
}

func (d *Diagnostic) String() string {
	if d.Check() != nil {
		return "Diagnostic(invalid)"
	}
	return d.Format(DefaultDiagnosticDisplayOptions())
}
