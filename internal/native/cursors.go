package native

import (
	"path/filepath"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// add appends a cursor built from ts under parent.
func (b *builder) add(parent NodeID, kind CursorKind, f *File, ts *sitter.Node, spelling string) NodeID {
	id := b.nextID()
	n := Node{
		Kind:     kind,
		Spelling: spelling,
		Display:  spelling,
		File:     f.ID,
		Parent:   parent,
		Included: NoFile,
	}
	if ts != nil {
		n.Start, n.End = ts.StartByte(), ts.EndByte()
		n.Loc = n.Start
	}
	b.u.Nodes = append(b.u.Nodes, n)
	if parent != NoNode {
		b.u.Nodes[parent].Children = append(b.u.Nodes[parent].Children, id)
	}
	return id
}

// decl appends a declaration cursor whose doc comment attaches to anchor and
// whose location is the start of nameNode.
func (b *builder) decl(parent NodeID, kind CursorKind, f *File, extent, anchor, nameNode *sitter.Node, name string) NodeID {
	id := b.add(parent, kind, f, extent, name)
	n := &b.u.Nodes[id]
	n.anchor = anchor
	if nameNode != nil {
		n.Loc = nameNode.StartByte()
	}
	return id
}

func text(n *sitter.Node, f *File) string {
	if n == nil {
		return ""
	}
	return n.Content(f.Content)
}

// item emits the cursors for one declaration-level syntax node.
func (b *builder) item(parent NodeID, n *sitter.Node, f *File) {
	switch n.Type() {
	case "comment":
	case "preproc_include":
		b.include(parent, n, f)
	case "preproc_def", "preproc_function_def":
		b.define(parent, n, f)
	case "preproc_call":
		b.directive(n, f)
	case "preproc_if", "preproc_ifdef":
		b.conditional(n, f, func(c *sitter.Node) { b.item(parent, c, f) })
	case "function_definition":
		b.functionDefinition(parent, n, f, n)
	case "declaration":
		b.declaration(parent, n, f, n)
	case "field_declaration":
		b.fieldDeclaration(parent, n, f)
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		b.typeSpecifier(parent, n, f, n)
	case "type_definition":
		b.typedef(parent, n, f)
	case "alias_declaration":
		b.alias(parent, n, f, n)
	case "namespace_definition":
		b.namespace(parent, n, f)
	case "linkage_specification":
		b.linkage(parent, n, f)
	case "template_declaration":
		b.template(parent, n, f)
	case "access_specifier":
		b.add(parent, CXXAccessSpecifier, f, n, "")
	case "using_declaration":
		b.using(parent, n, f)
	case "namespace_alias_definition":
		name := n.ChildByFieldName("name")
		id := b.decl(parent, NamespaceAlias, f, n, n, name, text(name, f))
		b.u.Nodes[id].USR = b.scopeUSR(parent) + "@NA@" + text(name, f)
	case "static_assert_declaration":
		id := b.add(parent, StaticAssert, f, n, "")
		if c := n.ChildByFieldName("condition"); c != nil {
			b.expr(id, c, f)
		}
	case "ERROR":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			b.item(parent, n.NamedChild(i), f)
		}
	default:
		if strings.HasSuffix(n.Type(), "_statement") {
			b.stmt(parent, n, f)
		}
	}
}

// ============================================================================
// Scopes and USRs
// ============================================================================

// scopeUSR returns the USR prefix for declarations nested under parent.
func (b *builder) scopeUSR(parent NodeID) string {
	for parent != NoNode {
		n := &b.u.Nodes[parent]
		switch {
		case n.Kind == TranslationUnit:
			return "c:"
		case n.Kind == LinkageSpec || n.Kind == DeclStmt:
		case n.USR != "":
			return n.USR
		}
		parent = n.Parent
	}
	return "c:"
}

// recordName returns the name of the class enclosing parent, if any.
func (b *builder) recordName(parent NodeID) (string, bool) {
	if parent == NoNode {
		return "", false
	}
	n := &b.u.Nodes[parent]
	if n.Kind.isRecord() {
		return n.Spelling, true
	}
	return "", false
}

func (b *builder) localUSR(f *File, offset uint32, name string) string {
	return "c:" + filepath.Base(f.Path) + "@" + strconv.FormatUint(uint64(offset), 10) + "@" + name
}

func (b *builder) cxx() bool { return b.u.Lang == LangCPP }

// ============================================================================
// Declarator helpers
// ============================================================================

// innerDeclarator unwraps one level of a declarator.
func innerDeclarator(d *sitter.Node) *sitter.Node {
	if inner := d.ChildByFieldName("declarator"); inner != nil {
		return inner
	}
	if cnt := d.NamedChildCount(); cnt > 0 {
		return d.NamedChild(int(cnt) - 1)
	}
	return nil
}

// declaratorName finds the node naming the entity a declarator declares.
func declaratorName(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "identifier", "field_identifier", "type_identifier", "destructor_name",
			"operator_name", "operator_cast", "qualified_identifier", "namespace_identifier":
			return d
		case "template_function", "template_method":
			return d.ChildByFieldName("name")
		case "pointer_declarator", "reference_declarator", "array_declarator", "function_declarator",
			"init_declarator", "parenthesized_declarator", "attributed_declarator",
			"abstract_pointer_declarator", "abstract_reference_declarator":
			d = innerDeclarator(d)
		default:
			return nil
		}
	}
	return nil
}

// funcDeclarator returns the function declarator when d declares a function
// rather than a variable of function-pointer type.
func funcDeclarator(d *sitter.Node) *sitter.Node {
	for d != nil {
		switch d.Type() {
		case "function_declarator":
			if inner := d.ChildByFieldName("declarator"); inner != nil && inner.Type() == "parenthesized_declarator" {
				return nil
			}
			return d
		case "pointer_declarator", "reference_declarator", "attributed_declarator":
			d = innerDeclarator(d)
		default:
			return nil
		}
	}
	return nil
}

// declaratorSuffix renders the pointer, reference and array parts of a
// declarator for type signatures.
func declaratorSuffix(d *sitter.Node, f *File) string {
	var sb strings.Builder
	for d != nil {
		switch d.Type() {
		case "pointer_declarator", "abstract_pointer_declarator":
			sb.WriteString("*")
		case "reference_declarator", "abstract_reference_declarator":
			if strings.HasPrefix(text(d, f), "&&") {
				sb.WriteString("&&")
			} else {
				sb.WriteString("&")
			}
		case "array_declarator", "abstract_array_declarator":
			sb.WriteString("[]")
		case "init_declarator", "parenthesized_declarator", "attributed_declarator":
		default:
			return sb.String()
		}
		d = innerDeclarator(d)
	}
	return sb.String()
}

// lastName returns the final segment of a possibly qualified name.
func lastName(n *sitter.Node, f *File) (*sitter.Node, string) {
	for n != nil && n.Type() == "qualified_identifier" {
		next := n.ChildByFieldName("name")
		if next == nil {
			break
		}
		n = next
	}
	if n != nil && (n.Type() == "template_function" || n.Type() == "template_type" || n.Type() == "template_method") {
		if name := n.ChildByFieldName("name"); name != nil {
			return name, text(name, f)
		}
	}
	return n, collapseSpace(text(n, f))
}

// qualifierScopes returns the scope segments of a qualified name, outermost
// first.
func qualifierScopes(n *sitter.Node, f *File) []string {
	var out []string
	for n != nil && n.Type() == "qualified_identifier" {
		if s := n.ChildByFieldName("scope"); s != nil {
			if s.Type() == "template_type" {
				out = append(out, text(s.ChildByFieldName("name"), f))
			} else {
				out = append(out, text(s, f))
			}
		}
		n = n.ChildByFieldName("name")
	}
	return out
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func hasChildType(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

// storageClass reports whether n carries the given storage class specifier.
func storageClass(n *sitter.Node, f *File, class string) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "storage_class_specifier" && text(c, f) == class {
			return true
		}
	}
	return false
}

// fieldChildren returns every child of n stored under field.
func fieldChildren(n *sitter.Node, field string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.FieldNameForChild(i) == field {
			out = append(out, n.Child(i))
		}
	}
	return out
}

func isSpecifier(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type() {
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		return true
	}
	return false
}

// ============================================================================
// Functions
// ============================================================================

func (b *builder) functionDefinition(parent NodeID, n *sitter.Node, f *File, anchor *sitter.Node) NodeID {
	fd := funcDeclarator(n.ChildByFieldName("declarator"))
	if fd == nil {
		id := b.add(parent, UnexposedDecl, f, n, "")
		if body := n.ChildByFieldName("body"); body != nil {
			b.body(id, body, f)
		}
		return id
	}
	return b.function(parent, n, f, fd, n.ChildByFieldName("type"), anchor, n.ChildByFieldName("body"))
}

// functionKind classifies a function by its declarator name and context.
func (b *builder) functionKind(parent NodeID, nameNode *sitter.Node, f *File) (CursorKind, string, string) {
	prefix := b.scopeUSR(parent)
	record, inRecord := b.recordName(parent)

	if nameNode != nil && nameNode.Type() == "qualified_identifier" {
		scopes := qualifierScopes(nameNode, f)
		for _, s := range scopes {
			if b.namespaces[s] {
				prefix += "@N@" + s
			} else {
				prefix += "@S@" + s
			}
		}
		if len(scopes) > 0 {
			record = scopes[len(scopes)-1]
			inRecord = !b.namespaces[record]
		}
	}
	leaf, name := lastName(nameNode, f)

	kind := FunctionDecl
	switch {
	case leaf == nil:
	case leaf.Type() == "destructor_name":
		kind = Destructor
	case leaf.Type() == "operator_cast":
		kind = ConversionFunction
	case inRecord && name == record:
		kind = Constructor
	case inRecord:
		kind = CXXMethod
	}
	return kind, name, prefix
}

// function emits a function-like declaration. body is nil for declarations
// without a definition.
func (b *builder) function(parent NodeID, n *sitter.Node, f *File, fd, typ, anchor, body *sitter.Node) NodeID {
	nameNode := fd.ChildByFieldName("declarator")
	kind, name, prefix := b.functionKind(parent, nameNode, f)
	leaf, _ := lastName(nameNode, f)

	id := b.decl(parent, kind, f, n, anchor, leaf, name)
	if typ != nil {
		b.typeRefs(id, typ, f)
	}
	sig := b.params(id, fd.ChildByFieldName("parameters"), f)

	node := &b.u.Nodes[id]
	node.Display = name + "(" + strings.Join(sig, ", ") + ")"
	if b.cxx() {
		node.USR = prefix + "@F@" + name + "#" + strings.Join(sig, ",")
	} else {
		node.USR = prefix + "@F@" + name
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "field_initializer_list" {
			b.fieldInitializers(id, c, f)
		}
	}

	if body != nil {
		b.u.Nodes[id].IsDefinition = true
		if !b.req.Options.Has(OptSkipFunctionBodies) {
			b.body(id, body, f)
		}
	} else if hasChildType(n, "default_method_clause") || hasChildType(n, "delete_method_clause") {
		b.u.Nodes[id].IsDefinition = true
	}
	return id
}

// body emits a function body with local scoping.
func (b *builder) body(parent NodeID, body *sitter.Node, f *File) {
	b.locals++
	defer func() { b.locals-- }()
	b.stmt(parent, body, f)
}

func (b *builder) fieldInitializers(parent NodeID, list *sitter.Node, f *File) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		init := list.NamedChild(i)
		if init.Type() != "field_initializer" {
			continue
		}
		for j := 0; j < int(init.NamedChildCount()); j++ {
			c := init.NamedChild(j)
			switch c.Type() {
			case "field_identifier":
				id := b.add(parent, MemberRef, f, c, text(c, f))
				b.u.Nodes[id].Ref = text(c, f)
			case "argument_list", "initializer_list":
				for k := 0; k < int(c.NamedChildCount()); k++ {
					b.expr(parent, c.NamedChild(k), f)
				}
			default:
				b.typeRefs(parent, c, f)
			}
		}
	}
}

// params emits a ParmDecl per parameter and returns the parameter type
// signature.
func (b *builder) params(fn NodeID, list *sitter.Node, f *File) []string {
	if list == nil {
		return nil
	}
	var sig []string
	for i := 0; i < int(list.ChildCount()); i++ {
		p := list.Child(i)
		if !p.IsNamed() {
			if p.Type() == "..." {
				b.u.Nodes[fn].Variadic = true
				sig = append(sig, "...")
			}
			continue
		}
		switch p.Type() {
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		typ := p.ChildByFieldName("type")
		d := p.ChildByFieldName("declarator")
		if d == nil && typ != nil && typ.Type() == "primitive_type" && text(typ, f) == "void" && list.NamedChildCount() == 1 {
			continue
		}

		typeText := collapseSpace(text(typ, f))
		if hasConst(p, f) {
			typeText = "const " + typeText
		}
		typeText += declaratorSuffix(d, f)
		if p.Type() == "variadic_parameter_declaration" {
			typeText += "..."
		}
		sig = append(sig, typeText)

		nameNode := declaratorName(d)
		name := text(nameNode, f)
		id := b.decl(fn, ParmDecl, f, p, nil, nameNode, name)
		b.u.Nodes[id].Display = name
		b.u.Nodes[id].IsDefinition = true
		if name != "" {
			b.u.Nodes[id].USR = b.localUSR(f, nameNode.StartByte(), name)
		}
		if typ != nil {
			b.typeRefs(id, typ, f)
		}
		if dv := p.ChildByFieldName("default_value"); dv != nil {
			b.expr(id, dv, f)
		}
		b.u.Nodes[fn].Params = append(b.u.Nodes[fn].Params, id)
	}
	return sig
}

func hasConst(n *sitter.Node, f *File) bool {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "type_qualifier" && text(c, f) == "const" {
			return true
		}
	}
	return false
}

// ============================================================================
// Variables and fields
// ============================================================================

// declaration emits the cursors for a declaration statement: an optional
// defined type followed by one cursor per declarator.
func (b *builder) declaration(parent NodeID, n *sitter.Node, f *File, anchor *sitter.Node) []NodeID {
	typ := n.ChildByFieldName("type")
	declarators := fieldChildren(n, "declarator")

	var out []NodeID
	if isSpecifier(typ) && (typ.ChildByFieldName("body") != nil || len(declarators) == 0) {
		out = append(out, b.typeSpecifier(parent, typ, f, anchor))
	}
	for _, d := range declarators {
		if fd := funcDeclarator(d); fd != nil {
			out = append(out, b.function(parent, n, f, fd, typ, anchor, nil))
			continue
		}
		kind := VarDecl
		if _, inRecord := b.recordName(parent); inRecord && !storageClass(n, f, "static") {
			kind = FieldDecl
		}
		out = append(out, b.variable(parent, kind, n, d, typ, f, anchor))
	}
	return out
}

// fieldDeclaration emits the members declared by a class member declaration.
func (b *builder) fieldDeclaration(parent NodeID, n *sitter.Node, f *File) {
	typ := n.ChildByFieldName("type")
	declarators := fieldChildren(n, "declarator")

	if isSpecifier(typ) && (typ.ChildByFieldName("body") != nil || len(declarators) == 0) {
		b.typeSpecifier(parent, typ, f, n)
	}
	for _, d := range declarators {
		if fd := funcDeclarator(d); fd != nil {
			b.function(parent, n, f, fd, typ, n, nil)
			continue
		}
		kind := FieldDecl
		if storageClass(n, f, "static") {
			kind = VarDecl
		}
		id := b.variable(parent, kind, n, d, typ, f, n)
		if dv := n.ChildByFieldName("default_value"); dv != nil {
			b.expr(id, dv, f)
		}
	}
}

// variable emits a VarDecl or FieldDecl for declarator d.
func (b *builder) variable(parent NodeID, kind CursorKind, n, d, typ *sitter.Node, f *File, anchor *sitter.Node) NodeID {
	inner := d
	var value *sitter.Node
	if d.Type() == "init_declarator" {
		inner = d.ChildByFieldName("declarator")
		value = d.ChildByFieldName("value")
	}
	nameNode := declaratorName(inner)
	leaf, name := lastName(nameNode, f)

	id := b.decl(parent, kind, f, n, anchor, leaf, name)
	node := &b.u.Nodes[id]
	node.End = d.EndByte()
	node.IsDefinition = value != nil || !storageClass(n, f, "extern")
	switch {
	case name == "":
	case b.locals > 0:
		node.USR = b.localUSR(f, leaf.StartByte(), name)
	case kind == FieldDecl:
		node.USR = b.scopeUSR(parent) + "@FI@" + name
	default:
		node.USR = b.scopeUSR(parent) + "@" + name
	}

	if typ != nil {
		b.typeRefs(id, typ, f)
	}
	if value != nil {
		b.initializer(id, value, f)
	}
	return id
}

func (b *builder) initializer(parent NodeID, value *sitter.Node, f *File) {
	if value.Type() == "argument_list" {
		for i := 0; i < int(value.NamedChildCount()); i++ {
			b.expr(parent, value.NamedChild(i), f)
		}
		return
	}
	b.expr(parent, value, f)
}

// ============================================================================
// Types
// ============================================================================

// typeSpecifier emits a struct, class, union or enum declaration.
func (b *builder) typeSpecifier(parent NodeID, n *sitter.Node, f *File, anchor *sitter.Node) NodeID {
	var kind CursorKind
	var tag string
	switch n.Type() {
	case "class_specifier":
		kind, tag = ClassDecl, "@S@"
	case "struct_specifier":
		kind, tag = StructDecl, "@S@"
	case "union_specifier":
		kind, tag = UnionDecl, "@U@"
	default:
		kind, tag = EnumDecl, "@E@"
	}

	nameNode := n.ChildByFieldName("name")
	leaf, name := lastName(nameNode, f)
	if nameNode == nil {
		leaf, name = nil, ""
	}
	id := b.decl(parent, kind, f, n, anchor, leaf, name)

	prefix := b.scopeUSR(parent)
	if nameNode != nil && nameNode.Type() == "qualified_identifier" {
		for _, s := range qualifierScopes(nameNode, f) {
			prefix += "@N@" + s
		}
	}
	if name == "" {
		b.u.Nodes[id].USR = prefix + tag[:2] + "a@" + strconv.FormatUint(uint64(n.StartByte()), 10)
	} else {
		b.u.Nodes[id].USR = prefix + tag + name
	}
	if nameNode != nil && nameNode.Type() == "template_type" {
		b.u.Nodes[id].Kind = ClassTemplatePartialSpecialization
		b.u.Nodes[id].Display = collapseSpace(text(nameNode, f))
	}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "base_class_clause" {
			b.baseClasses(id, c, f)
		}
	}
	if base := n.ChildByFieldName("base"); base != nil && kind == EnumDecl {
		b.typeRefs(id, base, f)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return id
	}
	b.u.Nodes[id].IsDefinition = true
	if kind == EnumDecl {
		b.enumerators(id, body, f)
		return id
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		b.item(id, body.NamedChild(i), f)
	}
	return id
}

func (b *builder) baseClasses(parent NodeID, clause *sitter.Node, f *File) {
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		c := clause.NamedChild(i)
		switch c.Type() {
		case "type_identifier", "qualified_identifier", "template_type":
			id := b.add(parent, CXXBaseSpecifier, f, c, collapseSpace(text(c, f)))
			b.typeRefs(id, c, f)
		}
	}
}

func (b *builder) enumerators(enum NodeID, list *sitter.Node, f *File) {
	prefix := b.u.Nodes[enum].USR
	b.forEachMember(list, f, func(c *sitter.Node) {
		if c.Type() != "enumerator" {
			return
		}
		name := c.ChildByFieldName("name")
		id := b.decl(enum, EnumConstantDecl, f, c, c, name, text(name, f))
		b.u.Nodes[id].USR = prefix + "@" + text(name, f)
		b.u.Nodes[id].IsDefinition = true
		if v := c.ChildByFieldName("value"); v != nil {
			b.expr(id, v, f)
		}
	})
}

// forEachMember calls fn for every named child of list, expanding active
// conditional blocks in place.
func (b *builder) forEachMember(list *sitter.Node, f *File, fn func(*sitter.Node)) {
	for i := 0; i < int(list.NamedChildCount()); i++ {
		c := list.NamedChild(i)
		switch {
		case c.Type() == "preproc_if" || c.Type() == "preproc_ifdef":
			b.conditional(c, f, fn)
		case strings.HasPrefix(c.Type(), "preproc_"):
			b.item(NoNode, c, f)
		default:
			fn(c)
		}
	}
}

func (b *builder) typedef(parent NodeID, n *sitter.Node, f *File) {
	typ := n.ChildByFieldName("type")
	if isSpecifier(typ) && typ.ChildByFieldName("body") != nil {
		b.typeSpecifier(parent, typ, f, n)
	}
	for _, d := range fieldChildren(n, "declarator") {
		nameNode := declaratorName(d)
		name := text(nameNode, f)
		id := b.decl(parent, TypedefDecl, f, n, n, nameNode, name)
		b.u.Nodes[id].IsDefinition = true
		b.u.Nodes[id].USR = b.scopeUSR(parent) + "@T@" + name
		if typ != nil {
			b.typeRefs(id, typ, f)
		}
	}
}

func (b *builder) alias(parent NodeID, n *sitter.Node, f *File, anchor *sitter.Node) NodeID {
	nameNode := n.ChildByFieldName("name")
	name := text(nameNode, f)
	id := b.decl(parent, TypeAliasDecl, f, n, anchor, nameNode, name)
	b.u.Nodes[id].IsDefinition = true
	b.u.Nodes[id].USR = b.scopeUSR(parent) + "@a@" + name
	if typ := n.ChildByFieldName("type"); typ != nil {
		b.typeRefs(id, typ, f)
	}
	return id
}

func (b *builder) namespace(parent NodeID, n *sitter.Node, f *File) {
	nameNode := n.ChildByFieldName("name")
	name := text(nameNode, f)
	id := b.decl(parent, Namespace, f, n, n, nameNode, name)
	b.u.Nodes[id].IsDefinition = true
	if name == "" {
		b.u.Nodes[id].USR = b.scopeUSR(parent) + "@aN"
	} else {
		for _, seg := range strings.Split(name, "::") {
			b.namespaces[seg] = true
		}
		b.u.Nodes[id].USR = b.scopeUSR(parent) + "@N@" + strings.ReplaceAll(name, "::", "@N@")
	}
	if body := n.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			b.item(id, body.NamedChild(i), f)
		}
	}
}

func (b *builder) linkage(parent NodeID, n *sitter.Node, f *File) {
	id := b.add(parent, LinkageSpec, f, n, "")
	body := n.ChildByFieldName("body")
	if body == nil {
		return
	}
	if body.Type() == "declaration_list" {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			b.item(id, body.NamedChild(i), f)
		}
		return
	}
	b.item(id, body, f)
}

// template emits the templated declaration with its template parameters as
// leading children.
func (b *builder) template(parent NodeID, n *sitter.Node, f *File) {
	params := n.ChildByFieldName("parameters")
	before := len(b.u.Nodes[parent].Children)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" || (params != nil && sameNode(c, params)) {
			continue
		}
		b.item(parent, c, f)
	}
	created := b.u.Nodes[parent].Children[before:]
	if len(created) == 0 {
		return
	}

	id := created[0]
	node := &b.u.Nodes[id]
	switch {
	case node.Kind == ClassDecl || node.Kind == StructDecl || node.Kind == UnionDecl:
		node.Kind = ClassTemplate
	case node.Kind.isFunction():
		node.Kind = FunctionTemplate
	}
	node.Start = n.StartByte()
	node.anchor = n

	if params == nil {
		return
	}
	own := len(b.u.Nodes[id].Children)
	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		kind := TemplateTypeParameter
		var nameNode *sitter.Node
		switch p.Type() {
		case "type_parameter_declaration", "variadic_type_parameter_declaration":
			nameNode = firstNamedOfType(p, "type_identifier")
		case "optional_type_parameter_declaration":
			nameNode = p.ChildByFieldName("name")
		case "template_template_parameter_declaration":
			kind = TemplateTemplateParameter
			for j := 0; j < int(p.NamedChildCount()); j++ {
				if q := p.NamedChild(j); q.Type() != "template_parameter_list" {
					nameNode = firstNamedOfType(q, "type_identifier")
					if nameNode == nil {
						nameNode = q.ChildByFieldName("name")
					}
				}
			}
		case "parameter_declaration", "optional_parameter_declaration", "variadic_parameter_declaration":
			kind = NonTypeTemplateParameter
			nameNode = declaratorName(p.ChildByFieldName("declarator"))
		default:
			continue
		}
		name := text(nameNode, f)
		names = append(names, name)
		tp := b.decl(id, kind, f, p, nil, nameNode, name)
		b.u.Nodes[tp].IsDefinition = true
		if name != "" {
			b.u.Nodes[tp].USR = b.localUSR(f, nameNode.StartByte(), name)
		}
		if kind == NonTypeTemplateParameter {
			if typ := p.ChildByFieldName("type"); typ != nil {
				b.typeRefs(tp, typ, f)
			}
		}
		b.u.Nodes[id].TParams = append(b.u.Nodes[id].TParams, tp)
	}

	// Move the template parameters in front of the declaration's own children.
	node = &b.u.Nodes[id]
	children := make([]NodeID, 0, len(node.Children))
	children = append(children, node.Children[own:]...)
	children = append(children, node.Children[:own]...)
	node.Children = children
	if node.Kind == ClassTemplate {
		node.Display = node.Spelling + "<" + strings.Join(names, ", ") + ">"
	}
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

func firstNamedOfType(n *sitter.Node, typ string) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == typ {
		return n
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == typ {
			return c
		}
	}
	return nil
}

func (b *builder) using(parent NodeID, n *sitter.Node, f *File) {
	var target *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != "comment" {
			target = c
		}
	}
	if hasChildType(n, "namespace") {
		name := collapseSpace(text(target, f))
		id := b.decl(parent, UsingDirective, f, n, n, target, name)
		ref := b.add(id, NamespaceRef, f, target, name)
		b.u.Nodes[ref].Ref = name
		return
	}
	leaf, name := lastName(target, f)
	id := b.decl(parent, UsingDeclaration, f, n, n, leaf, name)
	b.u.Nodes[id].Ref = name
	b.u.Nodes[id].USR = b.scopeUSR(parent) + "@UD@" + name
}

// typeRefs emits reference cursors for the named types used in t.
func (b *builder) typeRefs(parent NodeID, t *sitter.Node, f *File) {
	if t == nil {
		return
	}
	switch t.Type() {
	case "type_identifier":
		name := text(t, f)
		id := b.add(parent, TypeRef, f, t, name)
		b.u.Nodes[id].Ref = name
	case "qualified_identifier", "nested_namespace_specifier":
		if s := t.ChildByFieldName("scope"); s != nil {
			if s.Type() == "namespace_identifier" {
				id := b.add(parent, NamespaceRef, f, s, text(s, f))
				b.u.Nodes[id].Ref = text(s, f)
			} else {
				b.typeRefs(parent, s, f)
			}
		}
		b.typeRefs(parent, t.ChildByFieldName("name"), f)
	case "template_type":
		name := t.ChildByFieldName("name")
		id := b.add(parent, TemplateRef, f, name, text(name, f))
		b.u.Nodes[id].Ref = text(name, f)
		if args := t.ChildByFieldName("arguments"); args != nil {
			for i := 0; i < int(args.NamedChildCount()); i++ {
				a := args.NamedChild(i)
				if a.Type() == "type_descriptor" {
					b.typeRefs(parent, a, f)
				} else {
					b.expr(parent, a, f)
				}
			}
		}
	case "type_descriptor":
		b.typeRefs(parent, t.ChildByFieldName("type"), f)
	case "class_specifier", "struct_specifier", "union_specifier", "enum_specifier":
		nameNode := t.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		keyword := strings.TrimSuffix(t.Type(), "_specifier")
		_, name := lastName(nameNode, f)
		id := b.add(parent, TypeRef, f, nameNode, keyword+" "+name)
		b.u.Nodes[id].Ref = name
	}
}
