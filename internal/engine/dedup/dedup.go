// Package dedup collapses repeated side-effect-free synthetic bindings
// inside one transformed function. The transformer runs it per function
// scope, only when that scope inlined at least one pure-tagged callee.
// Equivalence is structural over canonicalized initializer trees; two
// bindings merge only when they sit in the same conditional-branch scope,
// because a value computed before a branch is not provably the value
// computed inside it.
package dedup

import (
	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/printer"
)

// syntheticSuffix marks transformer-generated bindings; only declarations
// carrying it are candidates.
const syntheticSuffix = "_$f"

// scopeKey identifies one canonical value within one conditional-branch
// scope. branch is the nearest enclosing if/else branch block, nil outside
// any branch.
type scopeKey struct {
	form   string
	branch *ast.BlockStmt
}

type deduper struct {
	canon   map[string]ast.ExprNode // synthetic name -> canonical initializer tree
	seen    map[scopeKey]string     // canonical value in scope -> surviving name
	aliases map[string]string       // dropped name -> surviving name
	nested  map[string]bool         // names referenced inside nested functions
}

// Run removes duplicate synthetic const declarations from one function
// scope and rewrites references to each removed name onto its survivor.
// The statement slice is filtered in place.
func Run(stmts []ast.StmtNode) []ast.StmtNode {
	d := &deduper{
		canon:   make(map[string]ast.ExprNode),
		seen:    make(map[scopeKey]string),
		aliases: make(map[string]string),
		nested:  nestedNames(stmts),
	}
	out := d.list(stmts, nil)
	if len(d.aliases) > 0 {
		ast.ReplaceIdents(out, func(id *ast.Ident) ast.ExprNode {
			if target, ok := d.aliases[id.Name]; ok {
				return &ast.Ident{Name: target, Loc: id.Loc}
			}
			return nil
		})
	}
	return out
}

func (d *deduper) list(stmts []ast.StmtNode, branch *ast.BlockStmt) []ast.StmtNode {
	out := stmts[:0]
	for _, s := range stmts {
		if d.duplicate(s, branch) {
			continue
		}
		d.stmt(s, branch)
		out = append(out, s)
	}
	return out
}

// duplicate decides whether s is a synthetic const whose value this scope
// already holds. Effectful initializers never participate: their names stay
// atomic in later canonical forms, where name identity still means value
// identity because the binding is const. Initializers carrying a function
// or class literal never participate either; identical-looking closures are
// distinct objects capturing their environments at distinct times. A name
// that nested functions reference is never dropped: an identically spelled
// synthetic inside a sibling closure belongs to that closure's scope, and
// rewriting through it would cross binding boundaries.
func (d *deduper) duplicate(s ast.StmtNode, branch *ast.BlockStmt) bool {
	name, init, ok := syntheticConst(s)
	if !ok || !ast.SideEffectFree(init) || containsClosure(init) {
		return false
	}
	tree := d.canonical(init)
	d.canon[name] = tree
	key := scopeKey{form: printer.PrintExpr(tree), branch: branch}
	survivor, dup := d.seen[key]
	if !dup {
		d.seen[key] = name
		return false
	}
	if d.nested[name] || !equalExpr(tree, d.canon[survivor]) {
		return false
	}
	d.aliases[name] = survivor
	return true
}

// stmt recurses into nested statement lists. Only if/else branch blocks
// open a new scope; loop, switch, and try bodies share their container's,
// which mirrors how the bindings came to be spliced there. Nested function
// bodies are their own scopes and were already processed.
func (d *deduper) stmt(s ast.StmtNode, branch *ast.BlockStmt) {
	switch n := s.(type) {
	case *ast.IfStmt:
		d.branchStmt(n.Then)
		if n.Else != nil {
			if chain, ok := n.Else.(*ast.IfStmt); ok {
				d.stmt(chain, branch)
			} else {
				d.branchStmt(n.Else)
			}
		}
	case *ast.BlockStmt:
		n.Statements = d.list(n.Statements, branch)
	case *ast.ForStmt:
		d.body(n.Body, branch)
	case *ast.ForInStmt:
		d.body(n.Body, branch)
	case *ast.WhileStmt:
		d.body(n.Body, branch)
	case *ast.DoWhileStmt:
		d.body(n.Body, branch)
	case *ast.LabeledStmt:
		d.stmt(n.Stmt, branch)
	case *ast.SwitchStmt:
		for _, c := range n.Cases {
			c.Body = d.list(c.Body, branch)
		}
	case *ast.TryStmt:
		n.Block.Statements = d.list(n.Block.Statements, branch)
		if n.CatchBody != nil {
			n.CatchBody.Statements = d.list(n.CatchBody.Statements, branch)
		}
		if n.Finally != nil {
			n.Finally.Statements = d.list(n.Finally.Statements, branch)
		}
	}
}

func (d *deduper) body(s ast.StmtNode, branch *ast.BlockStmt) {
	if b, ok := s.(*ast.BlockStmt); ok {
		b.Statements = d.list(b.Statements, branch)
		return
	}
	if s != nil {
		d.stmt(s, branch)
	}
}

// branchStmt enters one if/else branch. A block opens its own scope keyed
// by the block's identity; a bare single statement gets a throwaway scope
// so nothing inside it can merge with bindings outside.
func (d *deduper) branchStmt(s ast.StmtNode) {
	switch n := s.(type) {
	case *ast.BlockStmt:
		n.Statements = d.list(n.Statements, n)
	case nil:
	default:
		d.stmt(n, &ast.BlockStmt{})
	}
}

// syntheticConst matches the declarations the transformer mints: a single
// const binding of a plain identifier with the synthetic suffix. let
// bindings are excluded; the transformer only uses let where the value is
// reassigned.
func syntheticConst(s ast.StmtNode) (string, ast.ExprNode, bool) {
	decl, ok := s.(*ast.VarDeclStmt)
	if !ok || decl.Kind != "const" || len(decl.Decls) != 1 {
		return "", nil, false
	}
	d := decl.Decls[0]
	id, ok := d.Target.(*ast.Ident)
	if !ok || d.Init == nil {
		return "", nil, false
	}
	if !isSynthetic(id.Name) {
		return "", nil, false
	}
	return id.Name, d.Init, true
}

// containsClosure reports whether a function or class literal sits anywhere
// inside e.
func containsClosure(e ast.ExprNode) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.ClassExpr:
			found = true
		}
		return !found
	})
	return found
}
