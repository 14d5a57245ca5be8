package metadata

import "github.com/krispya/graft/internal/js/ast"

// localDeps computes the same-file identifiers a function body references:
// free identifiers resolving to the file's imports or module-level
// declarations, excluding parameters and locals declared within the body,
// in first-use order. Parameter defaults are part of what gets spliced, so
// they are walked too.
func localDeps(rec *FunctionRecord, mod *Module, moduleNames map[string]bool) []string {
	resolvable := make(map[string]bool, len(mod.Imports)+len(moduleNames))
	for name := range mod.Imports {
		resolvable[name] = true
	}
	for name := range moduleNames {
		resolvable[name] = true
	}

	w := &depWalker{resolvable: resolvable, seen: make(map[string]bool)}
	w.push()
	for _, p := range rec.Params {
		w.declarePattern(p.Pattern)
	}
	for _, p := range rec.Params {
		if p.Default != nil {
			w.expr(p.Default)
		}
		w.patternDefaults(p.Pattern)
	}
	w.stmts(rec.Body)
	return w.deps
}

// depWalker walks a function body tracking lexical scopes. A name counts as
// a dependency the first time it is used while no enclosing scope declares
// it and the module surface can resolve it.
type depWalker struct {
	resolvable map[string]bool
	scopes     []map[string]bool
	seen       map[string]bool
	deps       []string
}

func (w *depWalker) push() {
	w.scopes = append(w.scopes, make(map[string]bool))
}

func (w *depWalker) pop() {
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *depWalker) declare(name string) {
	if name != "" {
		w.scopes[len(w.scopes)-1][name] = true
	}
}

func (w *depWalker) declarePattern(pattern ast.ExprNode) {
	for _, name := range ast.PatternNames(pattern) {
		w.declare(name)
	}
}

func (w *depWalker) declared(name string) bool {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if w.scopes[i][name] {
			return true
		}
	}
	return false
}

func (w *depWalker) use(name string) {
	if name == "" || w.declared(name) || !w.resolvable[name] || w.seen[name] {
		return
	}
	w.seen[name] = true
	w.deps = append(w.deps, name)
}

// stmts hoists the declarations of a statement list into the current scope
// before walking uses, so uses above the declaration line resolve locally.
func (w *depWalker) stmts(list []ast.StmtNode) {
	for _, stmt := range list {
		w.hoist(stmt)
	}
	for _, stmt := range list {
		w.stmt(stmt)
	}
}

func (w *depWalker) hoist(stmt ast.StmtNode) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		for _, d := range s.Decls {
			w.declarePattern(d.Target)
		}
	case *ast.FunctionDeclStmt:
		w.declare(s.Name)
	case *ast.ClassDeclStmt:
		w.declare(s.Name)
	case *ast.LabeledStmt:
		w.hoist(s.Stmt)
	}
}

//nolint:gocyclo,cyclop // Statement dispatch - complexity is inherent to the pattern
func (w *depWalker) stmt(stmt ast.StmtNode) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		for _, d := range s.Decls {
			w.patternDefaults(d.Target)
			if d.Init != nil {
				w.expr(d.Init)
			}
		}
	case *ast.FunctionDeclStmt:
		w.function(s.Params, s.Body, nil, "")
	case *ast.ClassDeclStmt:
		w.class(s.Extends, s.Members, s.Decorators)
	case *ast.ExprStmt:
		w.expr(s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			w.expr(s.Value)
		}
	case *ast.ThrowStmt:
		w.expr(s.Value)
	case *ast.IfStmt:
		w.expr(s.Cond)
		w.branch(s.Then)
		w.branch(s.Else)
	case *ast.BlockStmt:
		w.push()
		w.stmts(s.Statements)
		w.pop()
	case *ast.WhileStmt:
		w.expr(s.Cond)
		w.branch(s.Body)
	case *ast.DoWhileStmt:
		w.branch(s.Body)
		w.expr(s.Cond)
	case *ast.ForStmt:
		w.push()
		if s.Init != nil {
			w.hoist(s.Init)
			w.stmt(s.Init)
		}
		if s.Cond != nil {
			w.expr(s.Cond)
		}
		if s.Update != nil {
			w.expr(s.Update)
		}
		w.branch(s.Body)
		w.pop()
	case *ast.ForInStmt:
		w.push()
		if s.Decl != "" {
			w.declarePattern(s.Target)
		} else {
			w.expr(s.Target)
		}
		w.expr(s.Iterable)
		w.branch(s.Body)
		w.pop()
	case *ast.SwitchStmt:
		w.expr(s.Disc)
		w.push()
		for _, cs := range s.Cases {
			for _, st := range cs.Body {
				w.hoist(st)
			}
		}
		for _, cs := range s.Cases {
			if cs.Test != nil {
				w.expr(cs.Test)
			}
			for _, st := range cs.Body {
				w.stmt(st)
			}
		}
		w.pop()
	case *ast.TryStmt:
		w.stmt(s.Block)
		if s.CatchBody != nil {
			w.push()
			if s.CatchParam != nil {
				w.declarePattern(s.CatchParam)
				w.patternDefaults(s.CatchParam)
			}
			w.stmts(s.CatchBody.Statements)
			w.pop()
		}
		if s.Finally != nil {
			w.stmt(s.Finally)
		}
	case *ast.LabeledStmt:
		w.stmt(s.Stmt)
	}
}

// branch walks a conditional or loop body that may be a bare statement
// rather than a block, giving it its own scope either way.
func (w *depWalker) branch(stmt ast.StmtNode) {
	if stmt == nil {
		return
	}
	w.push()
	w.hoist(stmt)
	w.stmt(stmt)
	w.pop()
}

func (w *depWalker) function(params []*ast.Param, body *ast.BlockStmt, exprBody ast.ExprNode, name string) {
	w.push()
	w.declare(name)
	for _, p := range params {
		w.declarePattern(p.Pattern)
	}
	for _, p := range params {
		if p.Default != nil {
			w.expr(p.Default)
		}
		w.patternDefaults(p.Pattern)
	}
	if body != nil {
		w.stmts(body.Statements)
	} else if exprBody != nil {
		w.expr(exprBody)
	}
	w.pop()
}

func (w *depWalker) class(extends ast.ExprNode, members []*ast.ClassMember, decorators []ast.ExprNode) {
	for _, d := range decorators {
		w.expr(d)
	}
	if extends != nil {
		w.expr(extends)
	}
	for _, m := range members {
		for _, d := range m.Decorators {
			w.expr(d)
		}
		if m.Computed && m.Key != nil {
			w.expr(m.Key)
		}
		if m.Value != nil {
			w.expr(m.Value)
		}
		if m.Body != nil || len(m.Params) > 0 {
			w.function(m.Params, m.Body, nil, "")
		}
	}
}

//nolint:gocyclo,cyclop // Expression dispatch - complexity is inherent to the pattern
func (w *depWalker) expr(expr ast.ExprNode) {
	switch e := expr.(type) {
	case *ast.Ident:
		w.use(e.Name)
	case *ast.TemplateLit:
		for _, x := range e.Exprs {
			w.expr(x)
		}
	case *ast.TaggedTemplateExpr:
		w.expr(e.Tag)
		w.expr(e.Quasi)
	case *ast.BinaryExpr:
		w.expr(e.Left)
		w.expr(e.Right)
	case *ast.LogicalExpr:
		w.expr(e.Left)
		w.expr(e.Right)
	case *ast.AssignExpr:
		w.expr(e.Target)
		w.expr(e.Value)
	case *ast.UnaryExpr:
		w.expr(e.Operand)
	case *ast.UpdateExpr:
		w.expr(e.Operand)
	case *ast.CondExpr:
		w.expr(e.Cond)
		w.expr(e.Then)
		w.expr(e.Else)
	case *ast.CallExpr:
		w.expr(e.Callee)
		for _, a := range e.Args {
			w.expr(a)
		}
	case *ast.NewExpr:
		w.expr(e.Callee)
		for _, a := range e.Args {
			w.expr(a)
		}
	case *ast.MemberExpr:
		w.expr(e.Object)
	case *ast.IndexExpr:
		w.expr(e.Object)
		w.expr(e.Index)
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			if el != nil {
				w.expr(el)
			}
		}
	case *ast.ObjectLit:
		for _, p := range e.Props {
			if p.Computed && p.Key != nil {
				w.expr(p.Key)
			}
			if p.Value != nil {
				w.expr(p.Value)
			}
		}
	case *ast.FuncExpr:
		w.function(e.Params, e.Body, nil, e.Name)
	case *ast.ArrowExpr:
		w.function(e.Params, e.Body, e.ExprBody, "")
	case *ast.ClassExpr:
		w.class(e.Extends, e.Members, nil)
	case *ast.SpreadExpr:
		w.expr(e.Value)
	case *ast.SeqExpr:
		for _, x := range e.Exprs {
			w.expr(x)
		}
	case *ast.ParenExpr:
		w.expr(e.Expr)
	case *ast.NonNullExpr:
		w.expr(e.Expr)
	case *ast.TSAsExpr:
		w.expr(e.Expr)
	case *ast.AwaitExpr:
		w.expr(e.Value)
	case *ast.YieldExpr:
		if e.Value != nil {
			w.expr(e.Value)
		}
	}
}

// patternDefaults walks the default-value expressions and computed keys
// inside a binding pattern; those evaluate as code when the binding runs.
func (w *depWalker) patternDefaults(pattern ast.ExprNode) {
	switch p := pattern.(type) {
	case *ast.ArrayLit:
		for _, el := range p.Elements {
			if el != nil {
				w.patternDefaults(el)
			}
		}
	case *ast.ObjectLit:
		for _, prop := range p.Props {
			if prop.Computed && prop.Key != nil {
				w.expr(prop.Key)
			}
			if prop.Value != nil {
				w.patternDefaults(prop.Value)
			}
		}
	case *ast.AssignExpr:
		w.patternDefaults(p.Target)
		w.expr(p.Value)
	case *ast.SpreadExpr:
		w.patternDefaults(p.Value)
	case *ast.ParenExpr:
		w.patternDefaults(p.Expr)
	}
}

