package cindex

import (
	"fmt"

	"github.com/jward/cindex/internal/doxygen"
	"github.com/jward/cindex/internal/native"
)

// Cursor is a position in the semantic tree of a translation unit. Cursors
// are plain values: they are only valid while their translation unit is
// open and has not been reparsed since the cursor was taken.
//
// The zero Cursor is the null cursor.
type Cursor struct {
	tu  *TranslationUnit
	gen uint64
	id  native.NodeID
}

func (c Cursor) check(op string) error {
	if c.tu == nil {
		return &UsageError{Op: op, Err: ErrInvalidArgument}
	}
	if err := c.tu.check(op); err != nil {
		return err
	}
	if c.gen != c.tu.gen {
		return &UsageError{Op: op, Err: ErrStale}
	}
	return nil
}

// node returns the native node behind c, or false for a null cursor.
// It panics with a *UsageError if c is no longer valid.
func (c Cursor) node(op string) (*native.Node, bool) {
	if c.tu == nil {
		return nil, false
	}
	if err := c.check(op); err != nil {
		panic(err)
	}
	if c.id == native.NoNode {
		return nil, false
	}
	return c.tu.unit.Node(c.id), true
}

// null returns the null cursor of c's translation unit.
func (c Cursor) null() Cursor {
	return Cursor{tu: c.tu, gen: c.gen, id: native.NoNode}
}

// Check reports whether c can still be used.
func (c Cursor) Check() error {
	return c.check("Cursor")
}

// IsNull reports whether c is the null cursor.
func (c Cursor) IsNull() bool {
	return c.tu == nil || c.id == native.NoNode
}

// Equal reports whether c and other denote the same node of the same parse.
func (c Cursor) Equal(other Cursor) bool {
	if c.IsNull() || other.IsNull() {
		return c.IsNull() && other.IsNull()
	}
	return c == other
}

// TranslationUnit returns the unit c belongs to, or nil for the zero Cursor.
func (c Cursor) TranslationUnit() *TranslationUnit {
	return c.tu
}

// Kind returns the kind of c. The null cursor has kind CursorInvalidFile.
func (c Cursor) Kind() CursorKind {
	n, ok := c.node("Cursor.Kind")
	if !ok {
		return CursorInvalidFile
	}
	return n.Kind
}

// Spelling returns the name of the entity c denotes.
func (c Cursor) Spelling() string {
	n, ok := c.node("Cursor.Spelling")
	if !ok {
		return ""
	}
	return n.Spelling
}

// DisplayName returns the spelling with extra detail: functions render as
// name(type, type).
func (c Cursor) DisplayName() string {
	n, ok := c.node("Cursor.DisplayName")
	if !ok {
		return ""
	}
	return n.Display
}

// USR returns the unified symbol resolution string of a declaration, or ""
// when c does not declare anything linkable.
func (c Cursor) USR() string {
	n, ok := c.node("Cursor.USR")
	if !ok {
		return ""
	}
	return n.USR
}

// IsDefinition reports whether c is the definition of the entity it
// declares.
func (c Cursor) IsDefinition() bool {
	n, ok := c.node("Cursor.IsDefinition")
	return ok && n.IsDefinition
}

func (c Cursor) String() string {
	if c.tu == nil || c.check("Cursor.String") != nil {
		return "Cursor(invalid)"
	}
	if c.IsNull() {
		return "Cursor(null)"
	}
	n := c.tu.unit.Node(c.id)
	return fmt.Sprintf("%s %q", n.Kind, n.Spelling)
}

// Location returns where the entity's name is spelled.
func (c Cursor) Location() SourceLocation {
	n, ok := c.node("Cursor.Location")
	if !ok {
		return SourceLocation{}
	}
	return c.tu.location(n.File, n.Loc)
}

// Extent returns the source range covered by c.
func (c Cursor) Extent() SourceRange {
	n, ok := c.node("Cursor.Extent")
	if !ok {
		return SourceRange{}
	}
	return SourceRange{begin: c.tu.location(n.File, n.Start), end: c.tu.location(n.File, n.End)}
}

// LexicalParent returns the cursor that syntactically encloses c.
func (c Cursor) LexicalParent() Cursor {
	n, ok := c.node("Cursor.LexicalParent")
	if !ok {
		return c.null()
	}
	return c.tu.cursor(n.Parent)
}

// SemanticParent returns the scope c belongs to. Linkage specifications do
// not introduce a scope and are skipped.
func (c Cursor) SemanticParent() Cursor {
	n, ok := c.node("Cursor.SemanticParent")
	if !ok {
		return c.null()
	}
	p := n.Parent
	for p != native.NoNode && c.tu.unit.Node(p).Kind == native.LinkageSpec {
		p = c.tu.unit.Node(p).Parent
	}
	return c.tu.cursor(p)
}

// Children returns the direct children of c in source order.
func (c Cursor) Children() []Cursor {
	n, ok := c.node("Cursor.Children")
	if !ok {
		return nil
	}
	out := make([]Cursor, len(n.Children))
	for i, id := range n.Children {
		out[i] = c.tu.cursor(id)
	}
	return out
}

// NumArguments returns the number of parameters of a function-like
// declaration, or -1 for any other cursor.
func (c Cursor) NumArguments() int {
	n, ok := c.node("Cursor.NumArguments")
	if !ok || !isFunctionLike(n.Kind) {
		return -1
	}
	return len(n.Params)
}

// Argument returns the i-th parameter declaration of a function-like
// cursor.
func (c Cursor) Argument(i int) (Cursor, bool) {
	n, ok := c.node("Cursor.Argument")
	if !ok || !isFunctionLike(n.Kind) || i < 0 || i >= len(n.Params) {
		return c.null(), false
	}
	return c.tu.cursor(n.Params[i]), true
}

func isFunctionLike(k CursorKind) bool {
	switch k {
	case native.FunctionDecl, native.CXXMethod, native.Constructor, native.Destructor,
		native.ConversionFunction, native.FunctionTemplate:
		return true
	}
	return false
}

// IncludedFile returns the file pulled in by an inclusion directive.
func (c Cursor) IncludedFile() (*File, bool) {
	n, ok := c.node("Cursor.IncludedFile")
	if !ok || n.Kind != native.InclusionDirective || n.Included == native.NoFile {
		return nil, false
	}
	return c.tu.file(n.Included), true
}

// Referenced returns the declaration a reference or expression cursor
// names. A declaration references itself. The null cursor is returned when
// nothing resolves.
func (c Cursor) Referenced() (Cursor, error) {
	if err := c.check("Cursor.Referenced"); err != nil {
		return Cursor{}, err
	}
	if c.IsNull() {
		return c, nil
	}
	n := c.tu.unit.Node(c.id)
	if n.Kind.IsDeclaration() {
		return c, nil
	}
	if n.Kind == native.LabelRef {
		return c.label(n), nil
	}
	s, err := c.tu.declIndex()
	if err != nil {
		return Cursor{}, err
	}
	ref, err := s.ReferenceByNode(int64(c.id))
	if err != nil {
		return Cursor{}, fmt.Errorf("cindex: resolve reference: %w", err)
	}
	if ref == nil {
		return c.null(), nil
	}
	kinds := referenceTargets(n.Kind)
	sym, err := s.Resolve(ref.Name, int64(c.id), kinds...)
	if err != nil {
		return Cursor{}, fmt.Errorf("cindex: resolve reference: %w", err)
	}
	if sym == nil {
		// Members may be used before their declaration inside a class body.
		syms, err := s.SymbolsByNameAndKind(ref.Name, kinds...)
		if err != nil {
			return Cursor{}, fmt.Errorf("cindex: resolve reference: %w", err)
		}
		if len(syms) == 0 {
			return c.null(), nil
		}
		sym = syms[0]
	}
	return c.tu.cursor(native.NodeID(sym.NodeID)), nil
}

// referenceTargets lists the declaration kinds a reference of kind k may
// name. Nil means any declaration.
func referenceTargets(k CursorKind) []int {
	var kinds []CursorKind
	switch k {
	case native.TypeRef, native.CXXBaseSpecifier:
		kinds = []CursorKind{native.StructDecl, native.UnionDecl, native.ClassDecl, native.EnumDecl,
			native.TypedefDecl, native.TypeAliasDecl, native.ClassTemplate, native.TemplateTypeParameter}
	case native.TemplateRef:
		kinds = []CursorKind{native.ClassTemplate, native.FunctionTemplate, native.TemplateTemplateParameter}
	case native.NamespaceRef:
		kinds = []CursorKind{native.Namespace, native.NamespaceAlias}
	case native.MemberRef, native.MemberRefExpr:
		kinds = []CursorKind{native.FieldDecl, native.CXXMethod, native.FunctionTemplate}
	case native.CallExpr:
		kinds = []CursorKind{native.FunctionDecl, native.CXXMethod, native.FunctionTemplate,
			native.Constructor, native.ClassDecl, native.StructDecl}
	default:
		return nil
	}
	out := make([]int, len(kinds))
	for i, k := range kinds {
		out[i] = int(k)
	}
	return out
}

// label finds the label statement a goto or label reference names within
// the enclosing function.
func (c Cursor) label(n *native.Node) Cursor {
	u := c.tu.unit
	fn := n.Parent
	for fn != native.NoNode && !isFunctionLike(u.Node(fn).Kind) {
		fn = u.Node(fn).Parent
	}
	if fn == native.NoNode {
		return c.null()
	}
	stack := append([]native.NodeID(nil), u.Children(fn)...)
	for len(stack) > 0 {
		id := stack[0]
		stack = stack[1:]
		m := u.Node(id)
		if m.Kind == native.LabelStmt && m.Spelling == n.Ref {
			return c.tu.cursor(id)
		}
		stack = append(stack, m.Children...)
	}
	return c.null()
}

// Definition returns the defining declaration of the entity c declares or
// references, or the null cursor when the translation unit has none.
func (c Cursor) Definition() (Cursor, error) {
	target, err := c.Referenced()
	if err != nil {
		return Cursor{}, err
	}
	if target.IsNull() {
		return target, nil
	}
	n := c.tu.unit.Node(target.id)
	if n.IsDefinition {
		return target, nil
	}
	s, err := c.tu.declIndex()
	if err != nil {
		return Cursor{}, err
	}
	sym, err := s.DefinitionOf(n.USR)
	if err != nil {
		return Cursor{}, fmt.Errorf("cindex: find definition: %w", err)
	}
	if sym == nil {
		return c.null(), nil
	}
	return c.tu.cursor(native.NodeID(sym.NodeID)), nil
}

// RawCommentText returns the documentation comment attached to a
// declaration, markers included.
func (c Cursor) RawCommentText() string {
	n, ok := c.node("Cursor.RawCommentText")
	if !ok || !n.Kind.IsDeclaration() {
		return ""
	}
	rc, ok := c.tu.unit.RawComment(c.id)
	if !ok {
		return ""
	}
	return rc.Text
}

// BriefCommentText returns the brief description from the attached
// documentation comment.
func (c Cursor) BriefCommentText() string {
	raw := c.RawCommentText()
	if raw == "" {
		return ""
	}
	return doxygen.Brief(doxygen.Parse(raw, c.declInfo()))
}

// ParsedComment parses the attached documentation comment. \param and
// \tparam names are resolved against the declaration. The comment is owned
// by the translation unit.
func (c Cursor) ParsedComment() (*FullComment, bool) {
	raw := c.RawCommentText()
	if raw == "" {
		return nil, false
	}
	root := doxygen.Parse(raw, c.declInfo())
	return newFullComment(root, &c.tu.handle), true
}

func (c Cursor) declInfo() doxygen.DeclInfo {
	info := c.tu.unit.DeclInfo(c.id)
	return doxygen.DeclInfo{
		Params:         info.Params,
		Variadic:       info.Variadic,
		TemplateParams: info.TemplateParams,
	}
}
