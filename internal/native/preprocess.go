package native

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// maxIncludeDepth bounds nested inclusion.
const maxIncludeDepth = 200

// debugCrashPragma makes the parser fail deliberately, for exercising crash
// recovery.
const debugCrashPragma = "clang __debug crash"

// builder turns syntax trees into a Unit: it runs the preprocessor over the
// trees and emits the semantic cursor tree as it goes.
type builder struct {
	ctx     context.Context
	logger  *slog.Logger
	req     Request
	args    compileArgs
	u       *Unit
	unsaved map[string][]byte

	chain      []Loc // active inclusion directives, outermost first
	fatal      bool
	locals     int // >0 while inside a function body
	namespaces map[string]bool
}

func newBuilder(ctx context.Context, logger *slog.Logger, req Request, args compileArgs) *builder {
	unsaved := make(map[string][]byte, len(req.Unsaved))
	for _, uf := range req.Unsaved {
		unsaved[cleanPath(uf.Filename)] = uf.Contents
	}
	return &builder{
		ctx:        ctx,
		logger:     logger,
		req:        req,
		args:       args,
		unsaved:    unsaved,
		namespaces: make(map[string]bool),
	}
}

// abort releases whatever the builder acquired before a panic.
func (b *builder) abort() {
	if b.u != nil {
		b.u.Close()
	}
}

func (b *builder) run() (*Unit, Status, error) {
	lang := languageFor(b.req.Path, b.args)
	grammar, ok := GrammarForLanguage(lang)
	if !ok {
		return nil, StatusInvalidArguments, fmt.Errorf("native: unsupported language %q", lang)
	}
	b.u = newUnit(lang, grammar, b.req.Options, b.req.Args)
	for _, op := range b.args.macros {
		if op.undef {
			delete(b.u.Macros, op.name)
		} else {
			b.u.Macros[op.name] = op.value
		}
	}

	main, err := b.parseFile(b.req.Path)
	if err != nil {
		b.u.Close()
		if errors.Is(err, fs.ErrNotExist) {
			return nil, StatusFailure, fmt.Errorf("native: main file %s not found: %w", b.req.Path, err)
		}
		return nil, StatusFailure, err
	}

	b.u.Nodes = append(b.u.Nodes, Node{
		Kind:         TranslationUnit,
		Spelling:     main.Path,
		Display:      main.Path,
		File:         main.ID,
		End:          main.Size(),
		Parent:       NoNode,
		Included:     NoFile,
		IsDefinition: false,
	})
	b.u.Inclusions = append(b.u.Inclusions, Inclusion{File: main.ID})
	main.entered = true
	b.fileItems(RootNode, main)

	b.logger.Debug("parsed translation unit",
		"file", main.Path,
		"language", lang,
		"files", b.u.Files.Len(),
		"cursors", len(b.u.Nodes),
		"diagnostics", len(b.u.Diags))
	return b.u, StatusSuccess, nil
}

// fileItems emits the top-level items of a file under parent.
func (b *builder) fileItems(parent NodeID, f *File) {
	root := f.tree.RootNode()
	if f.guard == "" {
		f.guard = detectGuard(root, f)
	}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		b.checkErrors(c, f)
		b.item(parent, c, f)
	}
}

// detectGuard returns the macro of a classic #ifndef/#define include guard
// wrapping the whole file.
func detectGuard(root *sitter.Node, f *File) string {
	var only *sitter.Node
	for i := 0; i < int(root.NamedChildCount()); i++ {
		c := root.NamedChild(i)
		if c.Type() == "comment" {
			continue
		}
		if only != nil {
			return ""
		}
		only = c
	}
	if only == nil || only.Type() != "preproc_ifdef" || only.Child(0).Type() != "#ifndef" {
		return ""
	}
	if only.ChildByFieldName("alternative") != nil {
		return ""
	}
	name := only.ChildByFieldName("name")
	if name == nil {
		return ""
	}
	macro := name.Content(f.Content)
	for _, c := range conditionalBody(only) {
		if c.Type() == "comment" {
			continue
		}
		if c.Type() == "preproc_def" {
			if n := c.ChildByFieldName("name"); n != nil && n.Content(f.Content) == macro {
				return macro
			}
		}
		return ""
	}
	return ""
}

// ============================================================================
// Diagnostics
// ============================================================================

func (b *builder) diag(d Diag) {
	if b.fatal && !b.req.Options.Has(OptKeepGoing) {
		return
	}
	if d.Severity == SeverityWarning {
		if b.args.noWarnings {
			return
		}
		if b.args.werror {
			d.Severity = SeverityError
		}
	}
	if d.Loc.File != 0 && d.Severity < SeverityError && b.req.Options.Has(OptIgnoreNonErrorsFromIncludedFiles) {
		return
	}
	for i := len(b.chain) - 1; i >= 0; i-- {
		d.Children = append(d.Children, Diag{
			Severity: SeverityNote,
			Message:  "in file included from here",
			Loc:      b.chain[i],
			Category: d.Category,
		})
	}
	b.u.Diags = append(b.u.Diags, d)
	if d.Severity == SeverityFatal {
		b.fatal = true
	}
}

// checkErrors reports syntax errors under n. Conditional directives are not
// entered; their active branches are checked when they are expanded.
func (b *builder) checkErrors(n *sitter.Node, f *File) {
	if !n.HasError() && !n.IsMissing() {
		return
	}
	switch {
	case n.IsMissing():
		b.diag(Diag{
			Severity: SeverityError,
			Message:  fmt.Sprintf("expected '%s'", n.Type()),
			Loc:      Loc{File: f.ID, Offset: n.StartByte()},
			Category: CategoryParse,
		})
		return
	case n.Type() == "ERROR":
		b.diag(Diag{
			Severity: SeverityError,
			Message:  fmt.Sprintf("unexpected '%s'", firstToken(n, f)),
			Loc:      Loc{File: f.ID, Offset: n.StartByte()},
			Ranges:   [][2]Loc{{{File: f.ID, Offset: n.StartByte()}, {File: f.ID, Offset: n.EndByte()}}},
			Category: CategoryParse,
		})
		return
	case isConditional(n.Type()):
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		b.checkErrors(n.Child(i), f)
	}
}

func firstToken(n *sitter.Node, f *File) string {
	for n.ChildCount() > 0 {
		n = n.Child(0)
	}
	text := n.Content(f.Content)
	if i := strings.IndexAny(text, " \t\n"); i >= 0 {
		text = text[:i]
	}
	return text
}

// ============================================================================
// Directives
// ============================================================================

func isConditional(typ string) bool {
	switch typ {
	case "preproc_if", "preproc_ifdef", "preproc_elif", "preproc_elifdef", "preproc_else":
		return true
	}
	return false
}

// conditionalBody returns the named content nodes of a conditional block,
// excluding its condition and alternative.
func conditionalBody(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() {
			continue
		}
		switch n.FieldNameForChild(i) {
		case "name", "condition", "alternative":
			continue
		}
		out = append(out, c)
	}
	return out
}

// conditional expands the active branch of a conditional block, calling
// emit for each node in it.
func (b *builder) conditional(n *sitter.Node, f *File, emit func(*sitter.Node)) {
	for n != nil {
		active := false
		switch n.Type() {
		case "preproc_else":
			active = true
		case "preproc_ifdef", "preproc_elifdef":
			name := n.ChildByFieldName("name")
			defined := false
			if name != nil {
				_, defined = b.u.Macros[name.Content(f.Content)]
			}
			negate := strings.HasSuffix(n.Child(0).Type(), "ndef")
			active = defined != negate
		case "preproc_if", "preproc_elif":
			active = b.eval(n.ChildByFieldName("condition"), f, 0) != 0
		default:
			return
		}
		if active {
			for _, c := range conditionalBody(n) {
				b.checkErrors(c, f)
				emit(c)
			}
			return
		}
		n = n.ChildByFieldName("alternative")
	}
}

// eval computes the value of a #if expression.
func (b *builder) eval(n *sitter.Node, f *File, depth int) int64 {
	if n == nil || depth > 64 {
		return 0
	}
	switch n.Type() {
	case "number_literal":
		return parseNumber(n.Content(f.Content))
	case "char_literal":
		text := strings.Trim(n.Content(f.Content), "'")
		if len(text) > 0 {
			return int64(text[0])
		}
		return 0
	case "true":
		return 1
	case "false":
		return 0
	case "identifier":
		return b.macroValue(n.Content(f.Content))
	case "preproc_defined":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			c := n.NamedChild(i)
			if c.Type() == "identifier" {
				if _, ok := b.u.Macros[c.Content(f.Content)]; ok {
					return 1
				}
				return 0
			}
		}
		return 0
	case "parenthesized_expression":
		if n.NamedChildCount() > 0 {
			return b.eval(n.NamedChild(0), f, depth+1)
		}
		return 0
	case "unary_expression":
		v := b.eval(n.ChildByFieldName("argument"), f, depth+1)
		switch opText(n) {
		case "!":
			return boolInt(v == 0)
		case "~":
			return ^v
		case "-":
			return -v
		}
		return v
	case "binary_expression":
		op := opText(n)
		l := b.eval(n.ChildByFieldName("left"), f, depth+1)
		switch op {
		case "&&":
			if l == 0 {
				return 0
			}
			return boolInt(b.eval(n.ChildByFieldName("right"), f, depth+1) != 0)
		case "||":
			if l != 0 {
				return 1
			}
			return boolInt(b.eval(n.ChildByFieldName("right"), f, depth+1) != 0)
		}
		return binaryOp(op, l, b.eval(n.ChildByFieldName("right"), f, depth+1))
	case "conditional_expression":
		if b.eval(n.ChildByFieldName("condition"), f, depth+1) != 0 {
			return b.eval(n.ChildByFieldName("consequence"), f, depth+1)
		}
		return b.eval(n.ChildByFieldName("alternative"), f, depth+1)
	}
	return 0
}

// macroValue interprets an object-like macro's replacement as a number,
// following chains of macro names.
func (b *builder) macroValue(name string) int64 {
	for range 32 {
		v, ok := b.u.Macros[name]
		if !ok {
			return 0
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return 0
		}
		if isIdent(v) {
			name = v
			continue
		}
		return parseNumber(v)
	}
	return 0
}

func opText(n *sitter.Node) string {
	if op := n.ChildByFieldName("operator"); op != nil {
		return op.Type()
	}
	return ""
}

func binaryOp(op string, l, r int64) int64 {
	switch op {
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		if r == 0 {
			return 0
		}
		return l / r
	case "%":
		if r == 0 {
			return 0
		}
		return l % r
	case "<<":
		return l << uint64(r&63)
	case ">>":
		return l >> uint64(r&63)
	case "&":
		return l & r
	case "|":
		return l | r
	case "^":
		return l ^ r
	case "==":
		return boolInt(l == r)
	case "!=":
		return boolInt(l != r)
	case "<":
		return boolInt(l < r)
	case ">":
		return boolInt(l > r)
	case "<=":
		return boolInt(l <= r)
	case ">=":
		return boolInt(l >= r)
	}
	return 0
}

func boolInt(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func parseNumber(text string) int64 {
	text = strings.TrimRight(strings.TrimSpace(text), "uUlL")
	text = strings.ReplaceAll(text, "'", "")
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		u, err := strconv.ParseUint(text, 0, 64)
		if err != nil {
			return 0
		}
		return int64(u)
	}
	return v
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (i > 0 && r >= '0' && r <= '9') {
			continue
		}
		return false
	}
	return true
}

// define records a macro definition.
func (b *builder) define(parent NodeID, n *sitter.Node, f *File) {
	name := n.ChildByFieldName("name")
	if name == nil {
		return
	}
	macro := name.Content(f.Content)
	value := ""
	if n.Type() == "preproc_def" {
		if v := n.ChildByFieldName("value"); v != nil {
			value = strings.TrimSpace(v.Content(f.Content))
		}
	}
	b.u.Macros[macro] = value

	if b.req.Options.Has(OptDetailedPreprocessingRecord) {
		id := b.add(parent, MacroDefinition, f, n, macro)
		b.u.Nodes[id].Loc = name.StartByte()
		b.u.Nodes[id].End = trimNewline(n, f)
		b.u.Nodes[id].IsDefinition = true
		b.u.Nodes[id].USR = "c:" + filepath.Base(f.Path) + "@" + strconv.FormatUint(uint64(name.StartByte()), 10) + "@macro@" + macro
	}
}

// directive handles #undef, #pragma, #error, #warning and unknown directives.
func (b *builder) directive(n *sitter.Node, f *File) {
	d := n.ChildByFieldName("directive")
	if d == nil {
		return
	}
	name := strings.TrimSpace(strings.TrimPrefix(d.Content(f.Content), "#"))
	arg := ""
	if a := n.ChildByFieldName("argument"); a != nil {
		arg = strings.TrimSpace(a.Content(f.Content))
	}
	loc := Loc{File: f.ID, Offset: n.StartByte()}

	switch name {
	case "undef":
		delete(b.u.Macros, arg)
	case "pragma":
		switch strings.Join(strings.Fields(arg), " ") {
		case "once":
			f.once = true
		case debugCrashPragma:
			panic(fmt.Sprintf("crash requested by #pragma %s at %s", debugCrashPragma, f.Path))
		}
	case "error":
		b.diag(Diag{Severity: SeverityError, Message: arg, Loc: loc, Category: CategoryUser})
	case "warning":
		if b.args.userWarning {
			b.diag(Diag{
				Severity: SeverityWarning,
				Message:  arg,
				Loc:      loc,
				Option:   "-W#warnings",
				Disable:  "-Wno-#warnings",
				Category: CategoryUser,
			})
		}
	}
}

// include resolves and enters an #include directive.
func (b *builder) include(parent NodeID, n *sitter.Node, f *File) {
	pathNode := n.ChildByFieldName("path")
	if pathNode == nil {
		return
	}
	spelled := pathNode.Content(f.Content)
	if pathNode.Type() == "identifier" {
		spelled = strings.TrimSpace(b.u.Macros[spelled])
	}
	angled := strings.HasPrefix(spelled, "<")
	name := strings.Trim(spelled, "\"<>")
	dirLoc := Loc{File: f.ID, Offset: n.StartByte()}

	target, found := b.resolve(name, angled, f)

	var directiveID NodeID = NoNode
	if b.req.Options.Has(OptDetailedPreprocessingRecord) {
		directiveID = b.add(parent, InclusionDirective, f, n, name)
		b.u.Nodes[directiveID].End = trimNewline(n, f)
		b.u.Nodes[directiveID].Loc = pathNode.StartByte()
	}

	if b.req.Options.Has(OptSingleFileParse) {
		return
	}
	if b.fatal && !b.req.Options.Has(OptKeepGoing) {
		return
	}
	if !found {
		b.diag(Diag{
			Severity: SeverityFatal,
			Message:  fmt.Sprintf("'%s' file not found", name),
			Loc:      Loc{File: f.ID, Offset: pathNode.StartByte()},
			Category: CategoryPreprocessor,
		})
		return
	}
	if len(b.chain) >= maxIncludeDepth {
		b.diag(Diag{
			Severity: SeverityFatal,
			Message:  fmt.Sprintf("#include nested depth %d exceeds maximum of %d", len(b.chain)+1, maxIncludeDepth),
			Loc:      dirLoc,
			Category: CategoryPreprocessor,
		})
		return
	}

	inc, err := b.parseFile(target)
	if err != nil {
		b.diag(Diag{
			Severity: SeverityFatal,
			Message:  fmt.Sprintf("cannot open file '%s': %v", name, err),
			Loc:      dirLoc,
			Category: CategoryPreprocessor,
		})
		return
	}
	if directiveID != NoNode {
		b.u.Nodes[directiveID].Included = inc.ID
	}
	if inc.isGuarded(b.u.Macros) {
		return
	}

	b.chain = append(b.chain, dirLoc)
	chain := make([]Loc, len(b.chain))
	for i, l := range b.chain {
		chain[len(b.chain)-1-i] = l
	}
	b.u.Inclusions = append(b.u.Inclusions, Inclusion{File: inc.ID, Chain: chain})
	inc.entered = true
	b.fileItems(parent, inc)
	b.chain = b.chain[:len(b.chain)-1]
}

// resolve searches the include path for name.
func (b *builder) resolve(name string, angled bool, from *File) (string, bool) {
	if filepath.IsAbs(name) {
		return name, b.exists(name)
	}
	var dirs []string
	if !angled {
		dirs = append(dirs, searchDir(from))
		dirs = append(dirs, b.args.quoteDirs...)
	}
	dirs = append(dirs, b.args.includeDirs...)
	dirs = append(dirs, b.args.systemDirs...)
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name)
		if b.exists(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// trimNewline returns the end offset of a directive without its trailing
// newline.
func trimNewline(n *sitter.Node, f *File) uint32 {
	end := n.EndByte()
	for end > n.StartByte() && (f.Content[end-1] == '\n' || f.Content[end-1] == '\r') {
		end--
	}
	return end
}

func (b *builder) nextID() NodeID {
	id, err := safecast.Conv[NodeID](len(b.u.Nodes))
	if err != nil {
		panic(fmt.Sprintf("native: too many cursors: %v", err))
	}
	return id
}
