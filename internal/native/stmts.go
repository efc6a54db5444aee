package native

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// stmt emits the cursor for a statement, falling back to expressions.
func (b *builder) stmt(parent NodeID, n *sitter.Node, f *File) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "comment":
	case "compound_statement":
		id := b.add(parent, CompoundStmt, f, n, "")
		b.stmts(id, n, f)
	case "declaration":
		id := b.add(parent, DeclStmt, f, n, "")
		b.declaration(id, n, f, n)
	case "type_definition", "alias_declaration", "using_declaration", "static_assert_declaration",
		"class_specifier", "struct_specifier", "union_specifier", "enum_specifier", "namespace_alias_definition":
		id := b.add(parent, DeclStmt, f, n, "")
		b.item(id, n, f)
	case "preproc_include", "preproc_def", "preproc_function_def", "preproc_call":
		b.item(parent, n, f)
	case "preproc_if", "preproc_ifdef":
		b.conditional(n, f, func(c *sitter.Node) { b.stmt(parent, c, f) })
	case "expression_statement":
		if e := firstNonComment(n); e != nil {
			b.expr(parent, e, f)
		} else {
			b.add(parent, NullStmt, f, n, "")
		}
	case "return_statement", "co_return_statement":
		id := b.add(parent, ReturnStmt, f, n, "")
		b.exprs(id, n, f)
	case "if_statement":
		id := b.add(parent, IfStmt, f, n, "")
		b.condition(id, n.ChildByFieldName("condition"), f)
		b.stmt(id, n.ChildByFieldName("consequence"), f)
		if alt := n.ChildByFieldName("alternative"); alt != nil {
			if alt.Type() == "else_clause" {
				alt = firstNonComment(alt)
			}
			b.stmt(id, alt, f)
		}
	case "while_statement":
		id := b.add(parent, WhileStmt, f, n, "")
		b.condition(id, n.ChildByFieldName("condition"), f)
		b.stmt(id, n.ChildByFieldName("body"), f)
	case "do_statement":
		id := b.add(parent, DoStmt, f, n, "")
		b.stmt(id, n.ChildByFieldName("body"), f)
		b.condition(id, n.ChildByFieldName("condition"), f)
	case "for_statement":
		id := b.add(parent, ForStmt, f, n, "")
		for _, field := range []string{"initializer", "condition", "update"} {
			for _, c := range fieldChildren(n, field) {
				b.stmt(id, c, f)
			}
		}
		b.stmt(id, n.ChildByFieldName("body"), f)
	case "for_range_loop":
		id := b.add(parent, CXXForRangeStmt, f, n, "")
		if d := n.ChildByFieldName("declarator"); d != nil {
			b.variable(id, VarDecl, n, d, n.ChildByFieldName("type"), f, nil)
		}
		if r := n.ChildByFieldName("right"); r != nil {
			b.expr(id, r, f)
		}
		b.stmt(id, n.ChildByFieldName("body"), f)
	case "switch_statement":
		id := b.add(parent, SwitchStmt, f, n, "")
		b.condition(id, n.ChildByFieldName("condition"), f)
		b.stmt(id, n.ChildByFieldName("body"), f)
	case "case_statement":
		kind := CaseStmt
		if n.ChildCount() > 0 && n.Child(0).Type() == "default" {
			kind = DefaultStmt
		}
		id := b.add(parent, kind, f, n, "")
		value := n.ChildByFieldName("value")
		if value != nil {
			b.expr(id, value, f)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if value != nil && sameNode(c, value) {
				continue
			}
			b.stmt(id, c, f)
		}
	case "break_statement":
		b.add(parent, BreakStmt, f, n, "")
	case "continue_statement":
		b.add(parent, ContinueStmt, f, n, "")
	case "goto_statement":
		id := b.add(parent, GotoStmt, f, n, "")
		if l := n.ChildByFieldName("label"); l != nil {
			ref := b.add(id, LabelRef, f, l, text(l, f))
			b.u.Nodes[ref].Ref = text(l, f)
		}
	case "labeled_statement":
		label := n.ChildByFieldName("label")
		id := b.add(parent, LabelStmt, f, n, text(label, f))
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if label != nil && sameNode(c, label) {
				continue
			}
			b.stmt(id, c, f)
		}
	case "try_statement":
		id := b.add(parent, CXXTryStmt, f, n, "")
		b.stmt(id, n.ChildByFieldName("body"), f)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c.Type() == "catch_clause" {
				b.catchClause(id, c, f)
			}
		}
	case "throw_statement":
		id := b.add(parent, CXXThrowExpr, f, n, "")
		b.exprs(id, n, f)
	case "ERROR":
		b.stmts(parent, n, f)
	default:
		if strings.HasSuffix(n.Type(), "_statement") {
			id := b.add(parent, UnexposedStmt, f, n, "")
			b.stmts(id, n, f)
			return
		}
		b.expr(parent, n, f)
	}
}

func (b *builder) stmts(parent NodeID, n *sitter.Node, f *File) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.stmt(parent, n.NamedChild(i), f)
	}
}

func (b *builder) exprs(parent NodeID, n *sitter.Node, f *File) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		b.expr(parent, n.NamedChild(i), f)
	}
}

func firstNonComment(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() != "comment" {
			return c
		}
	}
	return nil
}

func (b *builder) catchClause(parent NodeID, n *sitter.Node, f *File) {
	id := b.add(parent, CXXCatchStmt, f, n, "")
	if params := n.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			if p.Type() != "parameter_declaration" {
				continue
			}
			nameNode := declaratorName(p.ChildByFieldName("declarator"))
			name := text(nameNode, f)
			v := b.decl(id, VarDecl, f, p, nil, nameNode, name)
			b.u.Nodes[v].IsDefinition = true
			if name != "" {
				b.u.Nodes[v].USR = b.localUSR(f, nameNode.StartByte(), name)
			}
			b.typeRefs(v, p.ChildByFieldName("type"), f)
		}
	}
	b.stmt(id, n.ChildByFieldName("body"), f)
}

// condition emits the controlling expression or declaration of a statement
// without the surrounding parentheses.
func (b *builder) condition(parent NodeID, n *sitter.Node, f *File) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "condition_clause", "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			switch c.Type() {
			case "comment":
			case "declaration", "init_statement", "expression_statement":
				b.stmt(parent, c, f)
			case "condition_declaration":
				if d := c.ChildByFieldName("declarator"); d != nil {
					b.variable(parent, VarDecl, c, d, c.ChildByFieldName("type"), f, nil)
				}
				if v := c.ChildByFieldName("value"); v != nil {
					b.expr(parent, v, f)
				}
			default:
				b.expr(parent, c, f)
			}
		}
	default:
		b.expr(parent, n, f)
	}
}

var exprKinds = map[string]CursorKind{
	"parenthesized_expression":    ParenExpr,
	"conditional_expression":      ConditionalOperator,
	"subscript_expression":        ArraySubscriptExpr,
	"unary_expression":            UnaryOperator,
	"pointer_expression":          UnaryOperator,
	"update_expression":           UnaryOperator,
	"binary_expression":           BinaryOperator,
	"comma_expression":            BinaryOperator,
	"sizeof_expression":           UnaryExpr,
	"alignof_expression":          UnaryExpr,
	"initializer_list":            InitListExpr,
	"new_expression":              CXXNewExpr,
	"delete_expression":           CXXDeleteExpr,
	"cast_expression":             CStyleCastExpr,
	"compound_literal_expression": CompoundLiteralExpr,
	"string_literal":              StringLiteral,
	"concatenated_string":         StringLiteral,
	"raw_string_literal":          StringLiteral,
	"char_literal":                CharacterLiteral,
	"true":                        CXXBoolLiteralExpr,
	"false":                       CXXBoolLiteralExpr,
	"nullptr":                     CXXNullPtrLiteralExpr,
	"this":                        CXXThisExpr,
}

// expr emits the cursor for an expression.
func (b *builder) expr(parent NodeID, n *sitter.Node, f *File) {
	if n == nil {
		return
	}
	switch n.Type() {
	case "comment":
		return
	case "identifier":
		name := text(n, f)
		id := b.add(parent, DeclRefExpr, f, n, name)
		b.u.Nodes[id].Ref = name
		return
	case "qualified_identifier", "template_function":
		leaf, name := lastName(n, f)
		id := b.add(parent, DeclRefExpr, f, n, name)
		b.u.Nodes[id].Loc = leaf.StartByte()
		b.u.Nodes[id].Ref = name
		return
	case "field_identifier":
		name := text(n, f)
		id := b.add(parent, MemberRefExpr, f, n, name)
		b.u.Nodes[id].Ref = name
		return
	case "field_expression":
		field := n.ChildByFieldName("field")
		_, name := lastName(field, f)
		id := b.add(parent, MemberRefExpr, f, n, name)
		if field != nil {
			b.u.Nodes[id].Loc = field.StartByte()
		}
		b.u.Nodes[id].Ref = name
		b.expr(id, n.ChildByFieldName("argument"), f)
		return
	case "call_expression":
		fn := n.ChildByFieldName("function")
		name := calleeName(fn, f)
		id := b.add(parent, CallExpr, f, n, name)
		b.u.Nodes[id].Ref = name
		b.expr(id, fn, f)
		if args := n.ChildByFieldName("arguments"); args != nil {
			b.exprs(id, args, f)
		}
		return
	case "number_literal":
		kind := IntegerLiteral
		if isFloatLiteral(text(n, f)) {
			kind = FloatingLiteral
		}
		b.add(parent, kind, f, n, text(n, f))
		return
	case "null":
		if text(n, f) == "nullptr" {
			b.add(parent, CXXNullPtrLiteralExpr, f, n, "")
		} else {
			b.add(parent, UnexposedExpr, f, n, text(n, f))
		}
		return
	case "assignment_expression":
		kind := CompoundAssignOperator
		if opText(n) == "=" {
			kind = BinaryOperator
		}
		id := b.add(parent, kind, f, n, "")
		b.u.Nodes[id].Operator = opText(n)
		b.exprs(id, n, f)
		return
	case "type_descriptor":
		b.typeRefs(parent, n, f)
		return
	case "argument_list", "subscript_argument_list", "initializer_pair", "ERROR":
		b.exprs(parent, n, f)
		return
	case "lambda_expression":
		id := b.add(parent, LambdaExpr, f, n, "")
		if d := n.ChildByFieldName("declarator"); d != nil {
			b.params(id, d.ChildByFieldName("parameters"), f)
		}
		if body := n.ChildByFieldName("body"); body != nil {
			b.body(id, body, f)
		}
		return
	}

	kind, ok := exprKinds[n.Type()]
	if !ok {
		kind = UnexposedExpr
	}
	spelling := ""
	switch kind {
	case StringLiteral, CharacterLiteral, CXXBoolLiteralExpr:
		spelling = text(n, f)
	}
	id := b.add(parent, kind, f, n, spelling)
	if op := opText(n); op != "" {
		b.u.Nodes[id].Operator = op
	}
	switch kind {
	case StringLiteral, CharacterLiteral, CXXBoolLiteralExpr, CXXNullPtrLiteralExpr, CXXThisExpr:
		return
	case CStyleCastExpr, CompoundLiteralExpr, CXXNewExpr:
		b.typeRefs(id, n.ChildByFieldName("type"), f)
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "type_descriptor" || (n.ChildByFieldName("type") != nil && sameNode(c, n.ChildByFieldName("type"))) {
				continue
			}
			b.expr(id, c, f)
		}
		return
	}
	b.exprs(id, n, f)
}

// calleeName returns the name of the function a call expression invokes.
func calleeName(fn *sitter.Node, f *File) string {
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "identifier":
		return text(fn, f)
	case "field_expression":
		_, name := lastName(fn.ChildByFieldName("field"), f)
		return name
	case "qualified_identifier", "template_function":
		_, name := lastName(fn, f)
		return name
	}
	return ""
}

func isFloatLiteral(s string) bool {
	s = strings.ToLower(s)
	if strings.HasPrefix(s, "0x") {
		return strings.Contains(s, "p")
	}
	return strings.ContainsAny(s, ".e") || strings.HasSuffix(s, "f")
}
