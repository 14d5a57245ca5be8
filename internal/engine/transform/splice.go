package transform

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/js/ast"
)

// binding is one synthetic parameter binding prepared for splicing.
type binding struct {
	target      ast.ExprNode   // renamed binding pattern
	names       []string       // synthetic names the pattern binds
	init        ast.ExprNode   // argument, renamed default, or the undefined sentinel
	pre         []ast.StmtNode // statements the init's own expansion hoisted
	simple      bool           // plain identifier parameter
	extra       bool           // argument beyond the parameter list
	fromDefault bool           // init came from the parameter default
}

// graft holds the working state of one call-site splice.
type graft struct {
	t   *Transformer
	rec *metadata.FunctionRecord
	sc  *fnScope
	loc ast.SourceLocation
}

// graftCall splices the body of the record behind h into the call site. It
// returns the replacement expression (nil when the call's value is
// discarded) and whether the splice happened; on false the call stands.
func (t *Transformer) graftCall(call *ast.CallExpr, h metadata.Handle, ec *exprCtx, discard bool) (ast.ExprNode, bool) {
	rec := t.table.Get(h)
	for _, active := range ec.walk.stack {
		if active != h {
			continue
		}
		t.logger.Debug("recursive call left in place",
			zap.String("callee", rec.Name),
			zap.String("file", ec.walk.fs.path))
		return nil, false
	}
	if !t.spliceable(h) {
		t.logger.Debug("body cannot be spliced, call left in place",
			zap.String("callee", rec.Name),
			zap.String("file", ec.walk.fs.path))
		return nil, false
	}
	if spreadBlocksBinding(call.Args, rec.Params) {
		t.logger.Debug("spread argument blocks parameter binding",
			zap.String("callee", rec.Name),
			zap.String("file", ec.walk.fs.path))
		return nil, false
	}
	calleeMod := t.table.ModuleOf(rec.File)
	if calleeMod == nil {
		t.logger.Debug("callee module missing from table",
			zap.String("callee", rec.Name),
			zap.String("from", rec.File))
		return nil, false
	}

	g := &graft{t: t, rec: rec, sc: ec.walk.sc, loc: call.Loc}
	bindings, renames := g.bindParams(call.Args)

	body := ast.CloneStmts(rec.Body)
	for _, local := range collectLocals(body) {
		renames[local] = g.sc.synthetic(local)
	}
	renameLocals(body, renames)

	// Positions that cannot take a statement prelude commit to pure
	// expression substitution before any nested expansion runs, because
	// nested splices cannot be undone afterwards.
	if !ec.hoist && !g.preViable(body, bindings) {
		t.logger.Debug("call position cannot hold a splice",
			zap.String("callee", rec.Name),
			zap.String("file", ec.walk.fs.path))
		return nil, false
	}

	inner := &walkCtx{
		sc:    ec.walk.sc,
		mod:   calleeMod,
		stack: append(ec.walk.stack, h),
		fs:    ec.walk.fs,
	}
	for _, b := range bindings {
		if b.fromDefault {
			bc := &exprCtx{walk: inner, hoist: ec.hoist, prelude: &b.pre}
			b.init = t.expandExpr(b.init, bc)
		}
	}
	if ec.hoist {
		body = t.expandStmts(body, inner)
	} else {
		ret := body[0].(*ast.ReturnStmt)
		var sink []ast.StmtNode
		bc := &exprCtx{walk: inner, prelude: &sink}
		ret.Value = t.expandExpr(ret.Value, bc)
	}

	t.addNeeds(ec.walk.fs, t.resolver.ChainFor(h).Requires)

	if repl, ok := g.substitute(body, bindings); ok {
		t.recordInline(ec.walk, rec)
		return repl, true
	}
	stmts, result := g.splice(body, bindings, discard)
	*ec.prelude = append(*ec.prelude, stmts...)
	t.recordInline(ec.walk, rec)
	return result, true
}

// bindParams pairs arguments with parameters in declaration order, minting
// synthetic names as it goes. Argument nodes are taken over directly; the
// call node they came from is discarded once the graft commits.
func (g *graft) bindParams(args []ast.ExprNode) ([]*binding, map[string]string) {
	renames := make(map[string]string)
	bindings := make([]*binding, 0, len(g.rec.Params)+1)
	consumed := 0
	for _, p := range g.rec.Params {
		if p.Rest {
			rest := &ast.ArrayLit{Elements: args[consumed:], Loc: g.loc}
			bindings = append(bindings, g.bindOne(p, rest, renames))
			consumed = len(args)
			break
		}
		var init ast.ExprNode
		fromDefault := false
		switch {
		case consumed < len(args):
			init = args[consumed]
			consumed++
		case p.Default != nil:
			init = renameExpr(ast.CloneExpr(p.Default), renames)
			fromDefault = true
		default:
			init = undefinedAt(g.loc)
		}
		b := g.bindOne(p, init, renames)
		b.fromDefault = fromDefault
		bindings = append(bindings, b)
	}
	for ; consumed < len(args); consumed++ {
		bindings = append(bindings, &binding{init: args[consumed], extra: true})
	}
	return bindings, renames
}

// bindOne mints synthetic names for one parameter. Destructuring patterns
// are cloned and rewritten so each bound name gets its own synthetic.
func (g *graft) bindOne(p metadata.Param, init ast.ExprNode, renames map[string]string) *binding {
	if id, ok := p.Pattern.(*ast.Ident); ok {
		name := g.sc.synthetic(id.Name)
		renames[id.Name] = name
		return &binding{target: identAt(name, g.loc), names: []string{name}, init: init, simple: true}
	}
	pattern := ast.CloneExpr(p.Pattern)
	var names []string
	for _, orig := range ast.PatternNames(pattern) {
		name := g.sc.synthetic(orig)
		renames[orig] = name
		names = append(names, name)
	}
	r := &renamer{renames: renames, scopes: []map[string]bool{{}}}
	r.pattern(pattern)
	return &binding{target: pattern, names: names, init: init}
}

// preViable is the conservative gate for substitution-only positions: the
// graft must come out as a pure expression, and that has to be certain
// before nested expansion commits work that cannot be rolled back.
func (g *graft) preViable(body []ast.StmtNode, bindings []*binding) bool {
	if len(body) != 1 {
		return false
	}
	ret, ok := body[0].(*ast.ReturnStmt)
	if !ok || ret.Value == nil || !ast.SideEffectFree(ret.Value) {
		return false
	}
	var effectful []string
	for _, b := range bindings {
		if b.extra {
			if !ast.SideEffectFree(b.init) {
				return false
			}
			continue
		}
		if !b.simple {
			return false
		}
		if ast.SideEffectFree(b.init) && !b.fromDefault {
			continue
		}
		if b.fromDefault {
			if !ast.SideEffectFree(b.init) {
				return false
			}
			continue
		}
		// An effectful argument must evaluate exactly once. Nested
		// expansion can multiply references that sit inside call
		// arguments, so only a lone reference outside any call is safe
		// to promise ahead of time.
		if countIdent(ret.Value, b.names[0]) != 1 {
			return false
		}
		if containsCall(ret.Value) {
			return false
		}
		effectful = append(effectful, b.names[0])
	}
	return effectsOrdered(ret.Value, effectful)
}

func containsCall(e ast.ExprNode) bool {
	found := false
	ast.Inspect(e, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.CallExpr, *ast.NewExpr:
			found = true
		}
		return !found
	})
	return found
}

// argRef is one occurrence of a bound name inside the return expression,
// in evaluation order. conditional marks positions the expression may skip
// (ternary branches, the right side of && || ??, optional-chain tails) or
// defer (function and class bodies).
type argRef struct {
	name        string
	conditional bool
}

// effectsOrdered reports whether the expression evaluates each of the
// named bindings exactly once, unconditionally, and in the given order.
// Substituting an effectful argument anywhere else would reorder, repeat,
// or skip its effect relative to the original call, which evaluates
// arguments left to right before the body runs.
func effectsOrdered(e ast.ExprNode, names []string) bool {
	if len(names) == 0 {
		return true
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}
	var refs []argRef
	collectRefs(e, false, wanted, &refs)
	if len(refs) != len(names) {
		return false
	}
	for i, ref := range refs {
		if ref.conditional || ref.name != names[i] {
			return false
		}
	}
	return true
}

//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func collectRefs(e ast.ExprNode, cond bool, wanted map[string]bool, out *[]argRef) {
	switch n := e.(type) {
	case nil:
	case *ast.Ident:
		if wanted[n.Name] {
			*out = append(*out, argRef{name: n.Name, conditional: cond})
		}
	case *ast.TemplateLit:
		for _, x := range n.Exprs {
			collectRefs(x, cond, wanted, out)
		}
	case *ast.TaggedTemplateExpr:
		collectRefs(n.Tag, cond, wanted, out)
		for _, x := range n.Quasi.Exprs {
			collectRefs(x, cond, wanted, out)
		}
	case *ast.BinaryExpr:
		collectRefs(n.Left, cond, wanted, out)
		collectRefs(n.Right, cond, wanted, out)
	case *ast.LogicalExpr:
		collectRefs(n.Left, cond, wanted, out)
		collectRefs(n.Right, true, wanted, out)
	case *ast.CondExpr:
		collectRefs(n.Cond, cond, wanted, out)
		collectRefs(n.Then, true, wanted, out)
		collectRefs(n.Else, true, wanted, out)
	case *ast.UnaryExpr:
		collectRefs(n.Operand, cond, wanted, out)
	case *ast.UpdateExpr:
		collectRefs(n.Operand, cond, wanted, out)
	case *ast.AssignExpr:
		collectRefs(n.Target, cond, wanted, out)
		valueCond := cond
		if n.Op == "&&=" || n.Op == "||=" || n.Op == "??=" {
			valueCond = true
		}
		collectRefs(n.Value, valueCond, wanted, out)
	case *ast.MemberExpr:
		collectRefs(n.Object, cond, wanted, out)
	case *ast.IndexExpr:
		collectRefs(n.Object, cond, wanted, out)
		collectRefs(n.Index, cond || n.Optional || chainOptional(n.Object), wanted, out)
	case *ast.CallExpr:
		collectRefs(n.Callee, cond, wanted, out)
		argCond := cond || n.Optional || chainOptional(n.Callee)
		for _, a := range n.Args {
			collectRefs(a, argCond, wanted, out)
		}
	case *ast.NewExpr:
		collectRefs(n.Callee, cond, wanted, out)
		for _, a := range n.Args {
			collectRefs(a, cond, wanted, out)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			collectRefs(el, cond, wanted, out)
		}
	case *ast.ObjectLit:
		for _, p := range n.Props {
			if p.Computed {
				collectRefs(p.Key, cond, wanted, out)
			}
			collectRefs(p.Value, cond, wanted, out)
		}
	case *ast.SpreadExpr:
		collectRefs(n.Value, cond, wanted, out)
	case *ast.SeqExpr:
		for _, x := range n.Exprs {
			collectRefs(x, cond, wanted, out)
		}
	case *ast.ParenExpr:
		collectRefs(n.Expr, cond, wanted, out)
	case *ast.NonNullExpr:
		collectRefs(n.Expr, cond, wanted, out)
	case *ast.TSAsExpr:
		collectRefs(n.Expr, cond, wanted, out)
	case *ast.AwaitExpr:
		collectRefs(n.Value, cond, wanted, out)
	case *ast.YieldExpr:
		collectRefs(n.Value, cond, wanted, out)
	default:
		// Function and class bodies evaluate later, if ever; the same
		// treatment covers leaf nodes and anything unrecognized.
		ast.Inspect(e, func(nn ast.Node) bool {
			if id, ok := nn.(*ast.Ident); ok && wanted[id.Name] {
				*out = append(*out, argRef{name: id.Name, conditional: true})
			}
			return true
		})
	}
}

// chainOptional reports whether an optional link sits anywhere in the
// member/call chain under e, short-circuiting everything after it.
func chainOptional(e ast.ExprNode) bool {
	for {
		switch n := e.(type) {
		case *ast.MemberExpr:
			if n.Optional {
				return true
			}
			e = n.Object
		case *ast.IndexExpr:
			if n.Optional {
				return true
			}
			e = n.Object
		case *ast.CallExpr:
			if n.Optional {
				return true
			}
			e = n.Callee
		case *ast.NonNullExpr:
			e = n.Expr
		default:
			return false
		}
	}
}

// substitute attempts expression-position substitution: a fully expanded
// body that is a single return of a side-effect-free expression splices as
// that expression with arguments written in for parameter references,
// producing zero new statements.
func (g *graft) substitute(body []ast.StmtNode, bindings []*binding) (ast.ExprNode, bool) {
	if len(body) != 1 {
		return nil, false
	}
	ret, ok := body[0].(*ast.ReturnStmt)
	if !ok || ret.Value == nil || !ast.SideEffectFree(ret.Value) {
		return nil, false
	}
	subs := make(map[string]ast.ExprNode, len(bindings))
	var effectful []string
	for _, b := range bindings {
		if len(b.pre) > 0 {
			return nil, false
		}
		if b.extra {
			if !ast.SideEffectFree(b.init) {
				return nil, false
			}
			continue
		}
		if !b.simple {
			return nil, false
		}
		if !ast.SideEffectFree(b.init) {
			if countIdent(ret.Value, b.names[0]) != 1 {
				return nil, false
			}
			effectful = append(effectful, b.names[0])
		}
		subs[b.names[0]] = b.init
	}
	// Writing an effectful argument into the return expression is only
	// faithful when the expression reaches it exactly where the call would
	// have: once, unconditionally, and after the arguments declared before
	// it. Anything else falls back to statement grafting, which hoists the
	// bindings in declaration order.
	if !effectsOrdered(ret.Value, effectful) {
		return nil, false
	}
	return substIdents(ret.Value, subs), true
}

// splice renders the statement form: parameter bindings, the adapted body,
// and the synthetic result. result is nil when the call's value is
// discarded.
func (g *graft) splice(body []ast.StmtNode, bindings []*binding, discard bool) ([]ast.StmtNode, ast.ExprNode) {
	out := make([]ast.StmtNode, 0, len(bindings)+len(body)+1)
	for _, b := range bindings {
		out = append(out, b.pre...)
		if b.extra {
			if ast.SideEffectFree(b.init) {
				continue
			}
			out = append(out, &ast.ExprStmt{Expr: b.init, Loc: g.loc})
			continue
		}
		kind := "const"
		if writesAny(body, b.names) {
			kind = "let"
		}
		out = append(out, &ast.VarDeclStmt{
			Kind:  kind,
			Decls: []*ast.VarDecl{{Target: b.target, Init: b.init, Loc: g.loc}},
			Loc:   g.loc,
		})
	}

	switch {
	case !containsReturn(body):
		out = append(out, body...)
		if discard {
			return out, nil
		}
		return out, undefinedAt(g.loc)

	case trailingSingleReturn(body):
		last := body[len(body)-1].(*ast.ReturnStmt)
		out = append(out, body[:len(body)-1]...)
		switch {
		case discard:
			if last.Value != nil && !ast.SideEffectFree(last.Value) {
				out = append(out, &ast.ExprStmt{Expr: last.Value, Leading: last.Leading, Loc: last.Loc})
			}
			return out, nil
		case last.Value == nil:
			return out, undefinedAt(g.loc)
		default:
			name := g.sc.synthetic("result")
			decl := declStmt("const", name, last.Value, g.loc)
			decl.Leading = last.Leading
			out = append(out, decl)
			return out, identAt(name, g.loc)
		}

	default:
		name := ""
		if !discard {
			name = g.sc.synthetic("result")
			out = append(out, declStmt("let", name, nil, g.loc))
		}
		out = append(out, adaptReturns(body, name)...)
		if discard {
			return out, nil
		}
		return out, identAt(name, g.loc)
	}
}

// adaptReturns rewrites a body whose early returns ride fully terminating
// branches: each return becomes an assignment to result (or vanishes when
// result is ""), and statements after a conditional return re-nest in the
// opposite branch so they run exactly when the original would have reached
// them.
func adaptReturns(stmts []ast.StmtNode, result string) []ast.StmtNode {
	out := make([]ast.StmtNode, 0, len(stmts))
	for i, s := range stmts {
		switch n := s.(type) {
		case *ast.ReturnStmt:
			out = append(out, returnAssign(n, result)...)
			return out
		case *ast.IfStmt:
			if !containsReturn([]ast.StmtNode{n}) {
				out = append(out, n)
				continue
			}
			out = append(out, adaptIf(n, stmts[i+1:], result))
			return out
		case *ast.ThrowStmt:
			out = append(out, s)
			return out
		default:
			out = append(out, s)
		}
	}
	return out
}

func adaptIf(n *ast.IfStmt, rest []ast.StmtNode, result string) *ast.IfStmt {
	thenStmts := branchList(n.Then)
	elseStmts := branchList(n.Else)
	switch {
	case containsReturn(thenStmts) && !terminates(elseStmts):
		elseStmts = append(elseStmts, rest...)
	case containsReturn(elseStmts) && !terminates(thenStmts):
		thenStmts = append(thenStmts, rest...)
	}

	adapted := &ast.IfStmt{Cond: n.Cond, Leading: n.Leading, Loc: n.Loc}
	adapted.Then = &ast.BlockStmt{Statements: adaptReturns(thenStmts, result), Loc: n.Then.Location()}
	if len(elseStmts) == 0 {
		return adapted
	}
	adaptedElse := adaptReturns(elseStmts, result)
	if len(adaptedElse) == 1 {
		if chain, ok := adaptedElse[0].(*ast.IfStmt); ok {
			adapted.Else = chain
			return adapted
		}
	}
	adapted.Else = &ast.BlockStmt{Statements: adaptedElse, Loc: n.Loc}
	return adapted
}

func returnAssign(ret *ast.ReturnStmt, result string) []ast.StmtNode {
	if result == "" || ret.Value == nil {
		if result == "" && ret.Value != nil && !ast.SideEffectFree(ret.Value) {
			return []ast.StmtNode{&ast.ExprStmt{Expr: ret.Value, Leading: ret.Leading, Loc: ret.Loc}}
		}
		return nil
	}
	assign := &ast.AssignExpr{Target: identAt(result, ret.Loc), Op: "=", Value: ret.Value, Loc: ret.Loc}
	return []ast.StmtNode{&ast.ExprStmt{Expr: assign, Leading: ret.Leading, Loc: ret.Loc}}
}

func branchList(s ast.StmtNode) []ast.StmtNode {
	switch n := s.(type) {
	case nil:
		return nil
	case *ast.BlockStmt:
		return n.Statements
	default:
		return []ast.StmtNode{s}
	}
}

// spliceable reports whether the record's body can be grafted losslessly:
// every return sits at the body's top level or inside fully terminating
// if/else branches, and nothing in the body reads the callee's own
// invocation context. The verdict is per record and memoized.
func (t *Transformer) spliceable(h metadata.Handle) bool {
	if verdict, seen := t.eligible[h]; seen {
		return verdict
	}
	body := t.table.Get(h).Body
	verdict := eligibleList(body) && !usesOwnBinding(body) && !usesSuspension(body)
	t.eligible[h] = verdict
	return verdict
}

func eligibleList(stmts []ast.StmtNode) bool {
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.ReturnStmt:
			// top-level returns adapt cleanly
		case *ast.IfStmt:
			if !eligibleBranches(n) {
				return false
			}
		case *ast.ForStmt, *ast.ForInStmt, *ast.WhileStmt, *ast.DoWhileStmt,
			*ast.SwitchStmt, *ast.TryStmt, *ast.LabeledStmt, *ast.BlockStmt:
			// a return that jumps out of nested control flow has no
			// structural equivalent at the splice site
			if containsReturn([]ast.StmtNode{s}) {
				return false
			}
		}
	}
	return true
}

func eligibleBranches(n *ast.IfStmt) bool {
	for _, branch := range []ast.StmtNode{n.Then, n.Else} {
		if branch == nil {
			continue
		}
		list := branchList(branch)
		if !containsReturn(list) {
			if !eligibleList(list) {
				return false
			}
			continue
		}
		if !terminates(list) || !eligibleList(list) {
			return false
		}
	}
	return true
}

// containsReturn reports whether the statements return anywhere, not
// counting returns that belong to nested functions.
func containsReturn(stmts []ast.StmtNode) bool {
	return countReturns(stmts) > 0
}

func countReturns(stmts []ast.StmtNode) int {
	count := 0
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.ReturnStmt:
			count++
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return true
	})
	return count
}

// terminates reports whether control cannot flow past the statements:
// some statement on every path returns or throws.
func terminates(stmts []ast.StmtNode) bool {
	for _, s := range stmts {
		if terminatesStmt(s) {
			return true
		}
	}
	return false
}

func terminatesStmt(s ast.StmtNode) bool {
	switch n := s.(type) {
	case *ast.ReturnStmt, *ast.ThrowStmt:
		return true
	case *ast.BlockStmt:
		return terminates(n.Statements)
	case *ast.IfStmt:
		return n.Else != nil && terminatesStmt(n.Then) && terminatesStmt(n.Else)
	}
	return false
}

func trailingSingleReturn(body []ast.StmtNode) bool {
	if len(body) == 0 {
		return false
	}
	if _, ok := body[len(body)-1].(*ast.ReturnStmt); !ok {
		return false
	}
	return countReturns(body) == 1
}

// usesOwnBinding detects this, super, and the arguments object, all of
// which would rebind if the body moved into a different function. Arrows
// stay transparent; they share these with their enclosing function.
func usesOwnBinding(stmts []ast.StmtNode) bool {
	found := false
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.ThisExpr, *ast.SuperExpr:
			found = true
		case *ast.Ident:
			if node.Name == "arguments" {
				found = true
			}
		case *ast.FuncExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return !found
	})
	return found
}

// usesSuspension detects await and yield that belong to the callee's own
// async or generator frame.
func usesSuspension(stmts []ast.StmtNode) bool {
	found := false
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.AwaitExpr, *ast.YieldExpr:
			found = true
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return !found
	})
	return found
}

// spreadBlocksBinding reports whether a spread argument would have to be
// split across individual parameter bindings, which has no static form. A
// spread that lands entirely in a rest parameter's collection array is
// representable.
func spreadBlocksBinding(args []ast.ExprNode, params []metadata.Param) bool {
	restAt := -1
	if len(params) > 0 && params[len(params)-1].Rest {
		restAt = len(params) - 1
	}
	for i, a := range args {
		if _, ok := a.(*ast.SpreadExpr); !ok {
			continue
		}
		if restAt >= 0 && i >= restAt {
			continue
		}
		return true
	}
	return false
}
