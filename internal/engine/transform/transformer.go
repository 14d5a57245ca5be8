// Package transform rewrites call sites in parsed files, splicing the
// bodies of inline-tagged functions into their callers. It walks one file
// at a time against the session's collected table, hoisting parameter
// bindings and adapted bodies in front of the statements that contained
// the calls, or substituting pure bodies directly into expression
// positions. The tree is mutated in place; callee bodies are always cloned
// first.
package transform

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/dedup"
	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/engine/resolve"
	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// moduleScope names the top-level scope in per-function statistics.
const moduleScope = "<module>"

// FunctionStat describes one enclosing function the transformer changed.
type FunctionStat struct {
	Name    string `json:"name"`
	Pure    bool   `json:"pure"`
	Inlined int    `json:"inlined_calls"`
}

// FileResult reports what transforming one file did. Needs lists the
// bindings grafted code still references after expansion; the import
// rewriter turns them into declarations.
type FileResult struct {
	Changed   bool
	Inlined   map[string]int
	Functions []FunctionStat
	Needs     []resolve.Requirement
}

// Transformer splices inline-tagged function bodies into call sites. It
// reads the table the collector built and never mutates it.
type Transformer struct {
	host     discovery.Host
	table    *metadata.Table
	resolver *resolve.Resolver
	pure     metadata.PureSet
	eligible map[metadata.Handle]bool
	logger   *zap.Logger
}

// New creates a transformer over one session's collected state.
func New(host discovery.Host, table *metadata.Table, resolver *resolve.Resolver, pure metadata.PureSet, logger *zap.Logger) *Transformer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transformer{
		host:     host,
		table:    table,
		resolver: resolver,
		pure:     pure,
		eligible: make(map[metadata.Handle]bool),
		logger:   logger,
	}
}

// fileState accumulates per-file results while the walk runs.
type fileState struct {
	path     string
	mod      *metadata.Module
	needFrom map[string]metadata.Handle
	needs    []resolve.Requirement
	inlined  map[string]int
	fns      []FunctionStat
	changed  bool
}

// walkCtx travels with one expansion pass: the enclosing function scope,
// the module surface call names resolve against, and the graft stack that
// keeps recursive inlining from expanding forever.
type walkCtx struct {
	sc    *fnScope
	mod   *metadata.Module
	stack []metadata.Handle
	fs    *fileState
}

// exprCtx tracks one expression position: whether a statement prelude may
// still hoist in front of the enclosing statement, and whether a
// statement-level inline tag covers calls at this position.
type exprCtx struct {
	walk    *walkCtx
	stmtTag bool
	hoist   bool
	prelude *[]ast.StmtNode
}

// after returns the context for an operand evaluated after prior. Hoisting
// past a kept side effect would reorder the effect, so later operands lose
// the privilege.
func (ec *exprCtx) after(prior ast.ExprNode) *exprCtx {
	if !ec.hoist || ast.SideEffectFree(prior) {
		return ec
	}
	return ec.noHoist()
}

// noHoist returns the context for a position that is conditionally or
// repeatedly evaluated relative to the enclosing statement.
func (ec *exprCtx) noHoist() *exprCtx {
	if !ec.hoist {
		return ec
	}
	c := *ec
	c.hoist = false
	return &c
}

func noHoistCtx(walk *walkCtx) *exprCtx {
	var sink []ast.StmtNode
	return &exprCtx{walk: walk, prelude: &sink}
}

// newScope opens the scope for a nested function. A scope opened while a
// grafted body is being expanded continues the graft target's counter
// instead of restarting, keeping every synthetic in the subtree distinct.
func newScope(name string, ctx *walkCtx) *fnScope {
	if name == "" {
		name = ctx.sc.name
	}
	sc := &fnScope{name: name, counter: new(int)}
	if len(ctx.stack) > 0 {
		sc.counter = ctx.sc.counter
	}
	return sc
}

// File rewrites every eligible call site in program, which was parsed from
// path. The module surface is rebuilt from the tree itself so resolution
// reflects the file's current imports rather than the collected snapshot.
func (t *Transformer) File(program *ast.Program, path string) *FileResult {
	fs := &fileState{
		path:     path,
		mod:      metadata.NewModule(t.host, path, program),
		needFrom: make(map[string]metadata.Handle),
		inlined:  make(map[string]int),
	}
	ctx := &walkCtx{sc: &fnScope{name: moduleScope, counter: new(int)}, mod: fs.mod, fs: fs}
	program.Statements = t.closeScope(ctx.sc, t.expandStmts(program.Statements, ctx), fs)
	return &FileResult{
		Changed:   fs.changed,
		Inlined:   fs.inlined,
		Functions: fs.fns,
		Needs:     t.filterNeeds(program, fs),
	}
}

// closeScope finishes one function scope once its statements are fully
// expanded: surviving calls to pure-tagged functions get their marker,
// duplicate synthetic bindings collapse when a pure callee was inlined,
// and the scope's activity is recorded.
func (t *Transformer) closeScope(sc *fnScope, stmts []ast.StmtNode, fs *fileState) []ast.StmtNode {
	if sc.inlined == 0 {
		return stmts
	}
	t.markPureCalls(stmts)
	if sc.inlinedPure {
		stmts = dedup.Run(stmts)
	}
	fs.fns = append(fs.fns, FunctionStat{Name: sc.name, Pure: t.pure.Contains(sc.name), Inlined: sc.inlined})
	return stmts
}

// markPureCalls annotates remaining calls to pure-tagged functions so
// downstream minifiers can drop or reorder them. Nested functions are
// skipped; they are their own scopes and get their own pass.
func (t *Transformer) markPureCalls(stmts []ast.StmtNode) {
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.CallExpr:
			if id, ok := node.Callee.(*ast.Ident); ok && !node.Pure && t.pure.Contains(id.Name) {
				node.Pure = true
			}
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			return false
		}
		return true
	})
}

func (t *Transformer) addNeeds(fs *fileState, reqs []resolve.Requirement) {
	for _, req := range reqs {
		if prev, ok := fs.needFrom[req.Name]; ok {
			if prev != req.From && t.table.Get(prev).File != t.table.Get(req.From).File {
				t.logger.Debug("conflicting origins for grafted dependency",
					zap.String("name", req.Name),
					zap.String("kept", t.table.Get(prev).File),
					zap.String("ignored", t.table.Get(req.From).File))
			}
			continue
		}
		fs.needFrom[req.Name] = req.From
		fs.needs = append(fs.needs, req)
	}
}

// filterNeeds keeps only requirements whose names survive in the
// transformed tree. A dependency of an inlined-away call leaves no
// reference behind; a name that still occurs needs its import.
func (t *Transformer) filterNeeds(program *ast.Program, fs *fileState) []resolve.Requirement {
	if len(fs.needs) == 0 {
		return nil
	}
	present := make(map[string]bool)
	ast.InspectStmts(program.Statements, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			present[id.Name] = true
		}
		return true
	})
	kept := make([]resolve.Requirement, 0, len(fs.needs))
	for _, need := range fs.needs {
		if present[need.Name] {
			kept = append(kept, need)
		}
	}
	return kept
}

func (t *Transformer) recordInline(walk *walkCtx, rec *metadata.FunctionRecord) {
	walk.sc.inlined++
	if rec.Pure {
		walk.sc.inlinedPure = true
	}
	walk.fs.inlined[rec.Name]++
	walk.fs.changed = true
	t.logger.Debug("inlined call",
		zap.String("callee", rec.Name),
		zap.String("into", walk.sc.name),
		zap.String("file", walk.fs.path))
}

// expandStmts expands a statement list, splicing call-site preludes in
// front of the statements that contained the calls.
func (t *Transformer) expandStmts(stmts []ast.StmtNode, ctx *walkCtx) []ast.StmtNode {
	out := make([]ast.StmtNode, 0, len(stmts))
	for _, s := range stmts {
		out = append(out, t.expandStmt(s, ctx)...)
	}
	return out
}

// expandStmt expands one statement's expression slots and returns its
// replacement sequence: hoisted prelude statements followed by the
// statement itself, or just the prelude when a discarded call consumed the
// whole statement.
//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func (t *Transformer) expandStmt(s ast.StmtNode, ctx *walkCtx) []ast.StmtNode {
	var prelude []ast.StmtNode
	ec := &exprCtx{
		walk:    ctx,
		stmtTag: metadata.HasTag(leadingComments(s), metadata.InlineTag),
		hoist:   true,
		prelude: &prelude,
	}

	switch n := s.(type) {
	case *ast.ExprStmt:
		if call, ok := n.Expr.(*ast.CallExpr); ok {
			expr := t.expandCall(call, ec, true)
			if expr == nil {
				if len(prelude) > 0 && len(n.Leading) > 0 {
					merged := append(append([]token.Comment{}, n.Leading...), leadingComments(prelude[0])...)
					setLeading(prelude[0], merged)
				}
				return prelude
			}
			n.Expr = expr
			return append(prelude, n)
		}
		n.Expr = t.expandExpr(n.Expr, ec)
		return append(prelude, n)

	case *ast.VarDeclStmt:
		cur := ec
		for _, d := range n.Decls {
			if d.Init == nil {
				continue
			}
			if id, ok := d.Target.(*ast.Ident); ok {
				if arrow, ok := d.Init.(*ast.ArrowExpr); ok {
					t.expandArrow(arrow, ctx, id.Name)
					continue
				}
				if fn, ok := d.Init.(*ast.FuncExpr); ok {
					name := fn.Name
					if name == "" {
						name = id.Name
					}
					t.expandFunction(name, fn.Params, fn.Body, ctx)
					continue
				}
			}
			d.Init = t.expandExpr(d.Init, cur)
			cur = cur.after(d.Init)
		}
		return append(prelude, n)

	case *ast.ReturnStmt:
		if n.Value != nil {
			n.Value = t.expandExpr(n.Value, ec)
		}
		return append(prelude, n)

	case *ast.IfStmt:
		n.Cond = t.expandExpr(n.Cond, ec)
		n.Then = t.expandBranch(n.Then, ctx)
		if n.Else != nil {
			n.Else = t.expandBranch(n.Else, ctx)
		}
		return append(prelude, n)

	case *ast.BlockStmt:
		n.Statements = t.expandStmts(n.Statements, ctx)
		return append(prelude, n)

	case *ast.ForStmt:
		if n.Init != nil {
			// the init clause runs once, so its prelude may lead the loop
			t.expandForInit(n.Init, ec)
		}
		if n.Cond != nil {
			n.Cond = t.expandExpr(n.Cond, ec.noHoist())
		}
		if n.Update != nil {
			n.Update = t.expandExpr(n.Update, ec.noHoist())
		}
		n.Body = t.expandBranch(n.Body, ctx)
		return append(prelude, n)

	case *ast.ForInStmt:
		n.Iterable = t.expandExpr(n.Iterable, ec)
		if n.Decl == "" {
			n.Target = t.expandExpr(n.Target, ec.noHoist())
		}
		n.Body = t.expandBranch(n.Body, ctx)
		return append(prelude, n)

	case *ast.WhileStmt:
		n.Cond = t.expandExpr(n.Cond, ec.noHoist())
		n.Body = t.expandBranch(n.Body, ctx)
		return append(prelude, n)

	case *ast.DoWhileStmt:
		n.Body = t.expandBranch(n.Body, ctx)
		n.Cond = t.expandExpr(n.Cond, ec.noHoist())
		return append(prelude, n)

	case *ast.LabeledStmt:
		// preludes surface ahead of the label so it stays on the loop
		expanded := t.expandStmt(n.Stmt, ctx)
		if len(expanded) == 0 {
			return prelude
		}
		n.Stmt = expanded[len(expanded)-1]
		out := append(prelude, expanded[:len(expanded)-1]...)
		return append(out, n)

	case *ast.SwitchStmt:
		n.Disc = t.expandExpr(n.Disc, ec)
		for _, c := range n.Cases {
			if c.Test != nil {
				c.Test = t.expandExpr(c.Test, ec.noHoist())
			}
			c.Body = t.expandStmts(c.Body, ctx)
		}
		return append(prelude, n)

	case *ast.ThrowStmt:
		n.Value = t.expandExpr(n.Value, ec)
		return append(prelude, n)

	case *ast.TryStmt:
		n.Block.Statements = t.expandStmts(n.Block.Statements, ctx)
		if n.CatchBody != nil {
			n.CatchBody.Statements = t.expandStmts(n.CatchBody.Statements, ctx)
		}
		if n.Finally != nil {
			n.Finally.Statements = t.expandStmts(n.Finally.Statements, ctx)
		}
		return append(prelude, n)

	case *ast.FunctionDeclStmt:
		t.expandFunction(n.Name, n.Params, n.Body, ctx)
		return append(prelude, n)

	case *ast.ClassDeclStmt:
		for i, d := range n.Decorators {
			n.Decorators[i] = t.expandExpr(d, noHoistCtx(ctx))
		}
		if n.Extends != nil {
			n.Extends = t.expandExpr(n.Extends, noHoistCtx(ctx))
		}
		t.expandMembers(n.Members, ctx)
		return append(prelude, n)

	case *ast.ExportDefaultStmt:
		n.Expr = t.expandExpr(n.Expr, ec)
		return append(prelude, n)

	default:
		return []ast.StmtNode{s}
	}
}

func (t *Transformer) expandForInit(init ast.StmtNode, ec *exprCtx) {
	switch n := init.(type) {
	case *ast.VarDeclStmt:
		cur := ec
		for _, d := range n.Decls {
			if d.Init != nil {
				d.Init = t.expandExpr(d.Init, cur)
				cur = cur.after(d.Init)
			}
		}
	case *ast.ExprStmt:
		n.Expr = t.expandExpr(n.Expr, ec)
	}
}

// expandBranch expands a statement in branch position. When the expansion
// grows a bare statement into several, they are wrapped in a block so the
// branch keeps governing all of them.
func (t *Transformer) expandBranch(s ast.StmtNode, ctx *walkCtx) ast.StmtNode {
	if s == nil {
		return nil
	}
	expanded := t.expandStmt(s, ctx)
	switch len(expanded) {
	case 0:
		return &ast.BlockStmt{Statements: []ast.StmtNode{}, Loc: s.Location()}
	case 1:
		return expanded[0]
	default:
		return &ast.BlockStmt{Statements: expanded, Loc: s.Location()}
	}
}

// expandFunction expands one function body in a fresh scope.
func (t *Transformer) expandFunction(name string, params []*ast.Param, body *ast.BlockStmt, ctx *walkCtx) {
	sc := newScope(name, ctx)
	inner := &walkCtx{sc: sc, mod: ctx.mod, stack: ctx.stack, fs: ctx.fs}
	t.expandParamDefaults(params, inner)
	if body != nil {
		body.Statements = t.closeScope(sc, t.expandStmts(body.Statements, inner), ctx.fs)
	}
}

// expandArrow expands an arrow in a fresh scope. An expression body that
// needs a statement prelude is rewritten to a block body so the prelude
// has somewhere to live; otherwise it stays an expression body.
func (t *Transformer) expandArrow(n *ast.ArrowExpr, ctx *walkCtx, name string) {
	if n.Body != nil {
		t.expandFunction(name, n.Params, n.Body, ctx)
		return
	}
	sc := newScope(name, ctx)
	inner := &walkCtx{sc: sc, mod: ctx.mod, stack: ctx.stack, fs: ctx.fs}
	t.expandParamDefaults(n.Params, inner)
	var prelude []ast.StmtNode
	ec := &exprCtx{walk: inner, hoist: true, prelude: &prelude}
	value := t.expandExpr(n.ExprBody, ec)
	ret := &ast.ReturnStmt{Value: value, Loc: n.Loc}
	body := t.closeScope(sc, append(prelude, ret), ctx.fs)
	if len(body) == 1 {
		if only, ok := body[0].(*ast.ReturnStmt); ok && only.Value != nil {
			n.ExprBody = only.Value
			return
		}
	}
	n.ExprBody = nil
	n.Body = &ast.BlockStmt{Statements: body, Loc: n.Loc}
}

// param defaults evaluate per call inside the function's own scope, so
// nothing may hoist out of them
func (t *Transformer) expandParamDefaults(params []*ast.Param, ctx *walkCtx) {
	ec := noHoistCtx(ctx)
	for _, p := range params {
		if p.Default != nil {
			p.Default = t.expandExpr(p.Default, ec)
		}
	}
}

func (t *Transformer) expandMembers(members []*ast.ClassMember, ctx *walkCtx) {
	for _, m := range members {
		for i, d := range m.Decorators {
			m.Decorators[i] = t.expandExpr(d, noHoistCtx(ctx))
		}
		if m.Computed {
			m.Key = t.expandExpr(m.Key, noHoistCtx(ctx))
		}
		if m.Body != nil || len(m.Params) > 0 {
			sc := newScope(memberScopeName(m, ctx.sc), ctx)
			inner := &walkCtx{sc: sc, mod: ctx.mod, stack: ctx.stack, fs: ctx.fs}
			t.expandParamDefaults(m.Params, inner)
			if m.Body != nil {
				m.Body.Statements = t.closeScope(sc, t.expandStmts(m.Body.Statements, inner), ctx.fs)
			}
		}
		if m.Value != nil {
			m.Value = t.expandExpr(m.Value, noHoistCtx(ctx))
		}
	}
}

func memberScopeName(m *ast.ClassMember, parent *fnScope) string {
	if id, ok := m.Key.(*ast.Ident); ok && !m.Computed {
		return id.Name
	}
	return parent.name
}

// expandCall expands a call expression: arguments first, then the call
// itself when it names an inlinable record and the position permits.
func (t *Transformer) expandCall(call *ast.CallExpr, ec *exprCtx, discard bool) ast.ExprNode {
	call.Callee = t.expandExpr(call.Callee, ec)
	t.expandList(call.Args, ec.after(call.Callee))

	id, ok := call.Callee.(*ast.Ident)
	if !ok {
		return call
	}
	h, ok := t.table.Resolve(id.Name, ec.walk.mod)
	if !ok {
		if call.Inline || ec.stmtTag {
			t.logger.Debug("inline tag on unresolvable callee",
				zap.String("callee", id.Name),
				zap.String("file", ec.walk.fs.path))
		}
		return call
	}
	rec := t.table.Get(h)
	if !rec.Inline && !call.Inline && !ec.stmtTag {
		return call
	}
	if call.Optional {
		t.logger.Debug("optional call cannot inline",
			zap.String("callee", id.Name),
			zap.String("file", ec.walk.fs.path))
		return call
	}
	repl, ok := t.graftCall(call, h, ec, discard)
	if !ok {
		return call
	}
	return repl
}

// expandList expands an ordered operand list, degrading hoistability once
// an expanded operand keeps a side effect.
func (t *Transformer) expandList(exprs []ast.ExprNode, ec *exprCtx) {
	cur := ec
	for i, e := range exprs {
		if e == nil {
			continue
		}
		exprs[i] = t.expandExpr(e, cur)
		cur = cur.after(exprs[i])
	}
}

// expandExpr expands one expression position, returning its replacement.
// nil means a discarded call consumed the position entirely.
//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func (t *Transformer) expandExpr(e ast.ExprNode, ec *exprCtx) ast.ExprNode {
	switch n := e.(type) {
	case *ast.CallExpr:
		return t.expandCall(n, ec, false)
	case *ast.NewExpr:
		n.Callee = t.expandExpr(n.Callee, ec)
		t.expandList(n.Args, ec.after(n.Callee))
		return n
	case *ast.TemplateLit:
		t.expandList(n.Exprs, ec)
		return n
	case *ast.TaggedTemplateExpr:
		n.Tag = t.expandExpr(n.Tag, ec)
		if n.Quasi != nil {
			t.expandList(n.Quasi.Exprs, ec.after(n.Tag))
		}
		return n
	case *ast.BinaryExpr:
		n.Left = t.expandExpr(n.Left, ec)
		n.Right = t.expandExpr(n.Right, ec.after(n.Left))
		return n
	case *ast.LogicalExpr:
		// the right operand may not run at all
		n.Left = t.expandExpr(n.Left, ec)
		n.Right = t.expandExpr(n.Right, ec.noHoist())
		return n
	case *ast.AssignExpr:
		n.Target = t.expandExpr(n.Target, ec)
		n.Value = t.expandExpr(n.Value, ec.after(n.Target))
		return n
	case *ast.UnaryExpr:
		n.Operand = t.expandExpr(n.Operand, ec)
		return n
	case *ast.UpdateExpr:
		n.Operand = t.expandExpr(n.Operand, ec)
		return n
	case *ast.CondExpr:
		n.Cond = t.expandExpr(n.Cond, ec)
		n.Then = t.expandExpr(n.Then, ec.noHoist())
		n.Else = t.expandExpr(n.Else, ec.noHoist())
		return n
	case *ast.MemberExpr:
		n.Object = t.expandExpr(n.Object, ec)
		return n
	case *ast.IndexExpr:
		n.Object = t.expandExpr(n.Object, ec)
		n.Index = t.expandExpr(n.Index, ec.after(n.Object))
		return n
	case *ast.ArrayLit:
		t.expandList(n.Elements, ec)
		return n
	case *ast.ObjectLit:
		cur := ec
		for _, prop := range n.Props {
			if prop.Computed {
				prop.Key = t.expandExpr(prop.Key, cur)
				cur = cur.after(prop.Key)
			}
			if prop.Value == nil {
				continue
			}
			replaced := t.expandExpr(prop.Value, cur)
			if replaced != prop.Value && prop.Shorthand {
				prop.Shorthand = false
			}
			prop.Value = replaced
			cur = cur.after(prop.Value)
		}
		return n
	case *ast.FuncExpr:
		t.expandFunction(n.Name, n.Params, n.Body, ec.walk)
		return n
	case *ast.ArrowExpr:
		t.expandArrow(n, ec.walk, "")
		return n
	case *ast.SpreadExpr:
		n.Value = t.expandExpr(n.Value, ec)
		return n
	case *ast.SeqExpr:
		t.expandList(n.Exprs, ec)
		return n
	case *ast.ParenExpr:
		n.Expr = t.expandExpr(n.Expr, ec)
		return n
	case *ast.NonNullExpr:
		n.Expr = t.expandExpr(n.Expr, ec)
		return n
	case *ast.TSAsExpr:
		n.Expr = t.expandExpr(n.Expr, ec)
		return n
	case *ast.AwaitExpr:
		n.Value = t.expandExpr(n.Value, ec)
		return n
	case *ast.YieldExpr:
		if n.Value != nil {
			n.Value = t.expandExpr(n.Value, ec)
		}
		return n
	case *ast.ClassExpr:
		if n.Extends != nil {
			n.Extends = t.expandExpr(n.Extends, ec.noHoist())
		}
		t.expandMembers(n.Members, ec.walk)
		return n
	default:
		return e
	}
}
