package transform

import (
	"fmt"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// syntheticSuffix marks every binding the transformer mints. The suffix is
// illegal as user-written JavaScript style in practice and unique enough
// that later passes can treat any name carrying it as transformer-owned.
const syntheticSuffix = "_$f"

// fnScope carries per-enclosing-function state: the counter behind
// synthetic names and the inlining activity that later gates purity
// annotation and deduplication for that function. The counter is shared
// with scopes opened inside grafted bodies, so a renamed binding spliced
// outside a closure can never be shadowed by a synthetic minted inside it.
type fnScope struct {
	name        string
	counter     *int
	inlined     int
	inlinedPure bool
}

func (sc *fnScope) synthetic(base string) string {
	if base == "" {
		base = "arg"
	}
	*sc.counter++
	return fmt.Sprintf("%s_%d%s", base, *sc.counter, syntheticSuffix)
}

// renamer rewrites identifier references according to renames with lexical
// scope awareness: a nested declaration of the same original name shadows
// the rename inside its scope. Targets of the renamed declarations
// themselves are rewritten along with references.
type renamer struct {
	renames map[string]string
	scopes  []map[string]bool
}

// renameLocals rewrites a cloned callee body so its parameters and locals
// carry their synthetic names. After this pass the body's transformer-owned
// names are unique within the destination function, which is what lets the
// later analyses count occurrences without scope tracking.
func renameLocals(stmts []ast.StmtNode, renames map[string]string) {
	if len(renames) == 0 {
		return
	}
	r := &renamer{renames: renames, scopes: []map[string]bool{{}}}
	r.stmts(stmts, true)
}

// renameExpr applies renames to a detached expression, such as a parameter
// default that references earlier parameters.
func renameExpr(e ast.ExprNode, renames map[string]string) ast.ExprNode {
	if len(renames) == 0 || e == nil {
		return e
	}
	r := &renamer{renames: renames, scopes: []map[string]bool{{}}}
	return r.expr(e)
}

func (r *renamer) push() { r.scopes = append(r.scopes, map[string]bool{}) }
func (r *renamer) pop()  { r.scopes = r.scopes[:len(r.scopes)-1] }

func (r *renamer) declare(name string) {
	if name != "" {
		r.scopes[len(r.scopes)-1][name] = true
	}
}

func (r *renamer) declareAll(pattern ast.ExprNode) {
	for _, name := range ast.PatternNames(pattern) {
		r.declare(name)
	}
}

func (r *renamer) shadowed(name string) bool {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if r.scopes[i][name] {
			return true
		}
	}
	return false
}

// declareHoisted records the shadows one nested statement list introduces:
// lexical declarations and block-scoped function and class names. var
// declarations stay renameable because they share the callee body's
// function scope.
func (r *renamer) declareHoisted(list []ast.StmtNode) {
	for _, s := range list {
		switch n := s.(type) {
		case *ast.VarDeclStmt:
			if n.Kind != "var" {
				for _, d := range n.Decls {
					r.declareAll(d.Target)
				}
			}
		case *ast.FunctionDeclStmt:
			r.declare(n.Name)
		case *ast.ClassDeclStmt:
			r.declare(n.Name)
		}
	}
}

// declareVars records a function's hoisted var bindings, which shadow the
// rename throughout that function regardless of block depth.
func (r *renamer) declareVars(stmts []ast.StmtNode) {
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.VarDeclStmt:
			if node.Kind == "var" {
				for _, d := range node.Decls {
					r.declareAll(d.Target)
				}
			}
		case *ast.ForInStmt:
			if node.Decl == "var" {
				r.declareAll(node.Target)
			}
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return true
	})
}

// stmts walks one statement list. top is true only for the callee body's
// own top level, whose declarations are the bindings being renamed; nested
// lists declare shadows per normal scoping instead.
func (r *renamer) stmts(list []ast.StmtNode, top bool) {
	if !top {
		r.declareHoisted(list)
	}
	for _, s := range list {
		r.stmt(s, top)
	}
}

func (r *renamer) block(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	r.push()
	r.stmts(b.Statements, false)
	r.pop()
}

//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func (r *renamer) stmt(s ast.StmtNode, top bool) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		rename := top || n.Kind == "var"
		for _, d := range n.Decls {
			if rename {
				r.pattern(d.Target)
			}
			if d.Init != nil {
				d.Init = r.expr(d.Init)
			}
		}
	case *ast.FunctionDeclStmt:
		if top {
			if nn, ok := r.renames[n.Name]; ok {
				n.Name = nn
			}
		}
		r.function(n.Name, n.Params, n.Body)
	case *ast.ClassDeclStmt:
		if top {
			if nn, ok := r.renames[n.Name]; ok {
				n.Name = nn
			}
		}
		if n.Extends != nil {
			n.Extends = r.expr(n.Extends)
		}
		for i, d := range n.Decorators {
			n.Decorators[i] = r.expr(d)
		}
		r.members(n.Members)
	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = r.expr(n.Value)
		}
	case *ast.IfStmt:
		n.Cond = r.expr(n.Cond)
		r.stmt(n.Then, false)
		if n.Else != nil {
			r.stmt(n.Else, false)
		}
	case *ast.BlockStmt:
		r.block(n)
	case *ast.ExprStmt:
		n.Expr = r.expr(n.Expr)
	case *ast.ForStmt:
		r.push()
		if init, ok := n.Init.(*ast.VarDeclStmt); ok && init.Kind != "var" {
			for _, d := range init.Decls {
				r.declareAll(d.Target)
			}
		}
		if n.Init != nil {
			r.stmt(n.Init, false)
		}
		if n.Cond != nil {
			n.Cond = r.expr(n.Cond)
		}
		if n.Update != nil {
			n.Update = r.expr(n.Update)
		}
		r.stmt(n.Body, false)
		r.pop()
	case *ast.ForInStmt:
		r.push()
		switch {
		case n.Decl == "":
			n.Target = r.expr(n.Target)
		case n.Decl == "var":
			r.pattern(n.Target)
		default:
			r.declareAll(n.Target)
		}
		n.Iterable = r.expr(n.Iterable)
		r.stmt(n.Body, false)
		r.pop()
	case *ast.WhileStmt:
		n.Cond = r.expr(n.Cond)
		r.stmt(n.Body, false)
	case *ast.DoWhileStmt:
		r.stmt(n.Body, false)
		n.Cond = r.expr(n.Cond)
	case *ast.LabeledStmt:
		r.stmt(n.Stmt, false)
	case *ast.SwitchStmt:
		n.Disc = r.expr(n.Disc)
		r.push()
		for _, c := range n.Cases {
			r.declareHoisted(c.Body)
		}
		for _, c := range n.Cases {
			if c.Test != nil {
				c.Test = r.expr(c.Test)
			}
			for _, cs := range c.Body {
				r.stmt(cs, false)
			}
		}
		r.pop()
	case *ast.ThrowStmt:
		n.Value = r.expr(n.Value)
	case *ast.TryStmt:
		r.block(n.Block)
		if n.CatchBody != nil {
			r.push()
			if n.CatchParam != nil {
				r.declareAll(n.CatchParam)
			}
			r.stmts(n.CatchBody.Statements, false)
			r.pop()
		}
		if n.Finally != nil {
			r.block(n.Finally)
		}
	case *ast.ExportDefaultStmt:
		n.Expr = r.expr(n.Expr)
	}
}

// function enters a nested function scope: the self name, parameters, and
// hoisted vars all shadow outer renames.
func (r *renamer) function(self string, params []*ast.Param, body *ast.BlockStmt) {
	r.push()
	defer r.pop()
	r.declare(self)
	for _, p := range params {
		r.declareAll(p.Pattern)
	}
	for _, p := range params {
		if p.Default != nil {
			p.Default = r.expr(p.Default)
		}
	}
	if body != nil {
		r.declareVars(body.Statements)
		r.stmts(body.Statements, false)
	}
}

func (r *renamer) members(members []*ast.ClassMember) {
	for _, m := range members {
		if m.Computed {
			m.Key = r.expr(m.Key)
		}
		for i, d := range m.Decorators {
			m.Decorators[i] = r.expr(d)
		}
		if m.Body != nil || len(m.Params) > 0 {
			r.function("", m.Params, m.Body)
		}
		if m.Value != nil {
			m.Value = r.expr(m.Value)
		}
	}
}

//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func (r *renamer) expr(e ast.ExprNode) ast.ExprNode {
	switch n := e.(type) {
	case *ast.Ident:
		if nn, ok := r.renames[n.Name]; ok && !r.shadowed(n.Name) {
			return &ast.Ident{Name: nn, Loc: n.Loc}
		}
	case *ast.TemplateLit:
		r.exprs(n.Exprs)
	case *ast.TaggedTemplateExpr:
		n.Tag = r.expr(n.Tag)
		if n.Quasi != nil {
			r.exprs(n.Quasi.Exprs)
		}
	case *ast.BinaryExpr:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
	case *ast.LogicalExpr:
		n.Left = r.expr(n.Left)
		n.Right = r.expr(n.Right)
	case *ast.AssignExpr:
		n.Target = r.expr(n.Target)
		n.Value = r.expr(n.Value)
	case *ast.UnaryExpr:
		n.Operand = r.expr(n.Operand)
	case *ast.UpdateExpr:
		n.Operand = r.expr(n.Operand)
	case *ast.CondExpr:
		n.Cond = r.expr(n.Cond)
		n.Then = r.expr(n.Then)
		n.Else = r.expr(n.Else)
	case *ast.CallExpr:
		n.Callee = r.expr(n.Callee)
		r.exprs(n.Args)
	case *ast.NewExpr:
		n.Callee = r.expr(n.Callee)
		r.exprs(n.Args)
	case *ast.MemberExpr:
		n.Object = r.expr(n.Object)
	case *ast.IndexExpr:
		n.Object = r.expr(n.Object)
		n.Index = r.expr(n.Index)
	case *ast.ArrayLit:
		r.exprs(n.Elements)
	case *ast.ObjectLit:
		r.props(n.Props)
	case *ast.FuncExpr:
		r.function(n.Name, n.Params, n.Body)
	case *ast.ArrowExpr:
		r.push()
		for _, p := range n.Params {
			r.declareAll(p.Pattern)
		}
		for _, p := range n.Params {
			if p.Default != nil {
				p.Default = r.expr(p.Default)
			}
		}
		if n.Body != nil {
			r.declareVars(n.Body.Statements)
			r.stmts(n.Body.Statements, false)
		}
		if n.ExprBody != nil {
			n.ExprBody = r.expr(n.ExprBody)
		}
		r.pop()
	case *ast.SpreadExpr:
		n.Value = r.expr(n.Value)
	case *ast.SeqExpr:
		r.exprs(n.Exprs)
	case *ast.ParenExpr:
		n.Expr = r.expr(n.Expr)
	case *ast.NonNullExpr:
		n.Expr = r.expr(n.Expr)
	case *ast.TSAsExpr:
		n.Expr = r.expr(n.Expr)
	case *ast.AwaitExpr:
		n.Value = r.expr(n.Value)
	case *ast.YieldExpr:
		if n.Value != nil {
			n.Value = r.expr(n.Value)
		}
	case *ast.ClassExpr:
		if n.Extends != nil {
			n.Extends = r.expr(n.Extends)
		}
		r.members(n.Members)
	}
	return e
}

func (r *renamer) exprs(list []ast.ExprNode) {
	for i, e := range list {
		if e != nil {
			list[i] = r.expr(e)
		}
	}
}

// props handles shorthand expansion: renaming a shorthand value leaves the
// key spelling the original property name.
func (r *renamer) props(props []*ast.ObjectProp) {
	for _, prop := range props {
		if prop.Computed {
			prop.Key = r.expr(prop.Key)
		}
		if prop.Value == nil {
			continue
		}
		replaced := r.expr(prop.Value)
		if replaced != prop.Value && prop.Shorthand {
			prop.Shorthand = false
		}
		prop.Value = replaced
	}
}

// pattern renames the binding targets of a declaration that belongs to the
// callee body itself. Defaults inside the pattern are ordinary expressions.
func (r *renamer) pattern(p ast.ExprNode) {
	switch n := p.(type) {
	case *ast.Ident:
		if nn, ok := r.renames[n.Name]; ok && !r.shadowed(n.Name) {
			n.Name = nn
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			if el != nil {
				r.pattern(el)
			}
		}
	case *ast.ObjectLit:
		for _, prop := range n.Props {
			if prop.Value == nil {
				continue
			}
			if prop.Shorthand {
				r.shorthandPattern(prop)
				continue
			}
			r.pattern(prop.Value)
		}
	case *ast.AssignExpr:
		r.pattern(n.Target)
		n.Value = r.expr(n.Value)
	case *ast.SpreadExpr:
		r.pattern(n.Value)
	case *ast.ParenExpr:
		r.pattern(n.Expr)
	}
}

func (r *renamer) shorthandPattern(prop *ast.ObjectProp) {
	switch v := prop.Value.(type) {
	case *ast.Ident:
		if nn, ok := r.renames[v.Name]; ok && !r.shadowed(v.Name) {
			prop.Value = &ast.Ident{Name: nn, Loc: v.Loc}
			prop.Shorthand = false
		}
	case *ast.AssignExpr:
		// shorthand with default: { name = fallback }
		if id, ok := v.Target.(*ast.Ident); ok {
			if nn, ok2 := r.renames[id.Name]; ok2 && !r.shadowed(id.Name) {
				v.Target = &ast.Ident{Name: nn, Loc: id.Loc}
				prop.Shorthand = false
			}
		}
		v.Value = r.expr(v.Value)
	}
}

// collectLocals gathers the callee body's own bindings in a deterministic
// order: top-level let, const, class, and function names first, then var
// bindings found at any depth within the same function.
func collectLocals(stmts []ast.StmtNode) []string {
	var names []string
	seen := map[string]bool{}
	add := func(batch ...string) {
		for _, n := range batch {
			if n != "" && !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.VarDeclStmt:
			for _, d := range n.Decls {
				add(ast.PatternNames(d.Target)...)
			}
		case *ast.FunctionDeclStmt:
			add(n.Name)
		case *ast.ClassDeclStmt:
			add(n.Name)
		}
	}
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.VarDeclStmt:
			if node.Kind == "var" {
				for _, d := range node.Decls {
					add(ast.PatternNames(d.Target)...)
				}
			}
		case *ast.ForInStmt:
			if node.Decl == "var" {
				add(ast.PatternNames(node.Target)...)
			}
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return true
	})
	return names
}

// writesAny reports whether the statements assign to any of the names.
// Closures count: a nested function writing a parameter binding still
// forces that binding to be declared with let.
func writesAny(stmts []ast.StmtNode, names []string) bool {
	if len(names) == 0 {
		return false
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	found := false
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.AssignExpr:
			for _, name := range ast.PatternNames(node.Target) {
				if set[name] {
					found = true
				}
			}
		case *ast.UpdateExpr:
			if id, ok := node.Operand.(*ast.Ident); ok && set[id.Name] {
				found = true
			}
		case *ast.ForInStmt:
			if node.Decl == "" {
				for _, name := range ast.PatternNames(node.Target) {
					if set[name] {
						found = true
					}
				}
			}
		}
		return !found
	})
	return found
}

// countIdent counts references to name under e. Synthetic names are unique
// within the destination function, so occurrence counting is scope-exact
// for them.
func countIdent(e ast.ExprNode, name string) int {
	count := 0
	ast.Inspect(e, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok && id.Name == name {
			count++
		}
		return true
	})
	return count
}

// substIdents writes substitutions into expr: each named identifier is
// replaced by its expression, cloned on reuse, and parenthesized when it
// could bind differently than the identifier it replaces.
func substIdents(expr ast.ExprNode, subs map[string]ast.ExprNode) ast.ExprNode {
	used := make(map[string]bool, len(subs))
	return ast.ReplaceIdentsExpr(expr, func(id *ast.Ident) ast.ExprNode {
		rep, ok := subs[id.Name]
		if !ok {
			return nil
		}
		if used[id.Name] {
			rep = ast.CloneExpr(rep)
		}
		used[id.Name] = true
		return wrapTight(rep)
	})
}

// wrapTight parenthesizes replacements that bind looser than a bare
// identifier would in the surrounding expression.
func wrapTight(e ast.ExprNode) ast.ExprNode {
	if atomic(e) {
		return e
	}
	return &ast.ParenExpr{Expr: e, Loc: e.Location()}
}

func atomic(e ast.ExprNode) bool {
	switch e.(type) {
	case *ast.Ident, *ast.PrivateName, *ast.NumberLit, *ast.StringLit, *ast.BoolLit,
		*ast.NullLit, *ast.RegexLit, *ast.TemplateLit, *ast.TaggedTemplateExpr,
		*ast.ThisExpr, *ast.SuperExpr, *ast.MemberExpr, *ast.IndexExpr,
		*ast.CallExpr, *ast.NewExpr, *ast.ParenExpr, *ast.NonNullExpr,
		*ast.ArrayLit, *ast.ObjectLit:
		return true
	}
	return false
}

// leadingComments reads the comment group attached ahead of a statement.
//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func leadingComments(s ast.StmtNode) []token.Comment {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		return n.Leading
	case *ast.FunctionDeclStmt:
		return n.Leading
	case *ast.ClassDeclStmt:
		return n.Leading
	case *ast.ReturnStmt:
		return n.Leading
	case *ast.IfStmt:
		return n.Leading
	case *ast.ExprStmt:
		return n.Leading
	case *ast.ForStmt:
		return n.Leading
	case *ast.ForInStmt:
		return n.Leading
	case *ast.WhileStmt:
		return n.Leading
	case *ast.DoWhileStmt:
		return n.Leading
	case *ast.BreakStmt:
		return n.Leading
	case *ast.ContinueStmt:
		return n.Leading
	case *ast.LabeledStmt:
		return n.Leading
	case *ast.SwitchStmt:
		return n.Leading
	case *ast.ThrowStmt:
		return n.Leading
	case *ast.TryStmt:
		return n.Leading
	case *ast.ImportDeclStmt:
		return n.Leading
	case *ast.ExportNamedStmt:
		return n.Leading
	case *ast.ExportAllStmt:
		return n.Leading
	case *ast.ExportDefaultStmt:
		return n.Leading
	case *ast.RawStmt:
		return n.Leading
	}
	return nil
}

// setLeading moves a comment group onto a statement, used when a splice
// drops the statement that carried it.
//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func setLeading(s ast.StmtNode, comments []token.Comment) {
	switch n := s.(type) {
	case *ast.VarDeclStmt:
		n.Leading = comments
	case *ast.FunctionDeclStmt:
		n.Leading = comments
	case *ast.ClassDeclStmt:
		n.Leading = comments
	case *ast.ReturnStmt:
		n.Leading = comments
	case *ast.IfStmt:
		n.Leading = comments
	case *ast.ExprStmt:
		n.Leading = comments
	case *ast.ForStmt:
		n.Leading = comments
	case *ast.ForInStmt:
		n.Leading = comments
	case *ast.WhileStmt:
		n.Leading = comments
	case *ast.DoWhileStmt:
		n.Leading = comments
	case *ast.BreakStmt:
		n.Leading = comments
	case *ast.ContinueStmt:
		n.Leading = comments
	case *ast.LabeledStmt:
		n.Leading = comments
	case *ast.SwitchStmt:
		n.Leading = comments
	case *ast.ThrowStmt:
		n.Leading = comments
	case *ast.TryStmt:
		n.Leading = comments
	case *ast.ExportDefaultStmt:
		n.Leading = comments
	case *ast.RawStmt:
		n.Leading = comments
	}
}

func identAt(name string, loc ast.SourceLocation) *ast.Ident {
	return &ast.Ident{Name: name, Loc: loc}
}

func undefinedAt(loc ast.SourceLocation) *ast.Ident {
	return &ast.Ident{Name: "undefined", Loc: loc}
}

func declStmt(kind, name string, init ast.ExprNode, loc ast.SourceLocation) *ast.VarDeclStmt {
	return &ast.VarDeclStmt{
		Kind:  kind,
		Decls: []*ast.VarDecl{{Target: identAt(name, loc), Init: init, Loc: loc}},
		Loc:   loc,
	}
}
