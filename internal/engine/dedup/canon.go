package dedup

import (
	"strings"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/printer"
)

func isSynthetic(name string) bool {
	return strings.HasSuffix(name, syntheticSuffix)
}

// nestedNames collects every identifier spelled inside a nested function
// anywhere under the statements. The scope walk itself never enters these
// subtrees, so the set is what guards the final reference rewrite.
func nestedNames(stmts []ast.StmtNode) map[string]bool {
	names := make(map[string]bool)
	ast.InspectStmts(stmts, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.FuncExpr, *ast.ArrowExpr, *ast.FunctionDeclStmt, *ast.ClassDeclStmt, *ast.ClassExpr:
			ast.Inspect(n, func(m ast.Node) bool {
				if id, ok := m.(*ast.Ident); ok {
					names[id.Name] = true
				}
				return true
			})
			return false
		}
		return true
	})
	return names
}

// canonical builds the comparison tree for one initializer: a private clone
// with grouping and non-null assertion wrappers stripped and already-seen
// synthetic names replaced by their own canonical trees, transitively.
func (d *deduper) canonical(init ast.ExprNode) ast.ExprNode {
	return d.canonize(ast.CloneExpr(init))
}

// canonize mutates a cloned tree into canonical form. Function and class
// bodies stay as written; substituting inside a closure would conflate
// values captured at different times.
//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func (d *deduper) canonize(e ast.ExprNode) ast.ExprNode {
	switch n := e.(type) {
	case *ast.NonNullExpr:
		return d.canonize(n.Expr)
	case *ast.ParenExpr:
		return d.canonize(n.Expr)
	case *ast.Ident:
		if tree, ok := d.canon[n.Name]; ok {
			return ast.CloneExpr(tree)
		}
	case *ast.TemplateLit:
		d.canonizeList(n.Exprs)
	case *ast.TaggedTemplateExpr:
		n.Tag = d.canonize(n.Tag)
		if n.Quasi != nil {
			d.canonizeList(n.Quasi.Exprs)
		}
	case *ast.BinaryExpr:
		n.Left = d.canonize(n.Left)
		n.Right = d.canonize(n.Right)
	case *ast.LogicalExpr:
		n.Left = d.canonize(n.Left)
		n.Right = d.canonize(n.Right)
	case *ast.AssignExpr:
		n.Target = d.canonize(n.Target)
		n.Value = d.canonize(n.Value)
	case *ast.UnaryExpr:
		n.Operand = d.canonize(n.Operand)
	case *ast.UpdateExpr:
		n.Operand = d.canonize(n.Operand)
	case *ast.CondExpr:
		n.Cond = d.canonize(n.Cond)
		n.Then = d.canonize(n.Then)
		n.Else = d.canonize(n.Else)
	case *ast.CallExpr:
		n.Callee = d.canonize(n.Callee)
		d.canonizeList(n.Args)
	case *ast.NewExpr:
		n.Callee = d.canonize(n.Callee)
		d.canonizeList(n.Args)
	case *ast.MemberExpr:
		n.Object = d.canonize(n.Object)
	case *ast.IndexExpr:
		n.Object = d.canonize(n.Object)
		n.Index = d.canonize(n.Index)
	case *ast.ArrayLit:
		d.canonizeList(n.Elements)
	case *ast.ObjectLit:
		for _, prop := range n.Props {
			if prop.Computed {
				prop.Key = d.canonize(prop.Key)
			}
			if prop.Value == nil {
				continue
			}
			replaced := d.canonize(prop.Value)
			if replaced != prop.Value && prop.Shorthand {
				prop.Shorthand = false
			}
			prop.Value = replaced
		}
	case *ast.SpreadExpr:
		n.Value = d.canonize(n.Value)
	case *ast.SeqExpr:
		d.canonizeList(n.Exprs)
	case *ast.TSAsExpr:
		n.Expr = d.canonize(n.Expr)
	case *ast.AwaitExpr:
		n.Value = d.canonize(n.Value)
	case *ast.YieldExpr:
		if n.Value != nil {
			n.Value = d.canonize(n.Value)
		}
	}
	return e
}

func (d *deduper) canonizeList(exprs []ast.ExprNode) {
	for i, e := range exprs {
		if e != nil {
			exprs[i] = d.canonize(e)
		}
	}
}

// equalExpr compares two canonical trees structurally. The printed form
// already matched as the map key; this walk is what actually decides.
//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func equalExpr(a, b ast.ExprNode) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *ast.Ident:
		y, ok := b.(*ast.Ident)
		return ok && x.Name == y.Name
	case *ast.PrivateName:
		y, ok := b.(*ast.PrivateName)
		return ok && x.Name == y.Name
	case *ast.NumberLit:
		y, ok := b.(*ast.NumberLit)
		return ok && x.Raw == y.Raw
	case *ast.StringLit:
		y, ok := b.(*ast.StringLit)
		return ok && x.Raw == y.Raw
	case *ast.BoolLit:
		y, ok := b.(*ast.BoolLit)
		return ok && x.Value == y.Value
	case *ast.NullLit:
		_, ok := b.(*ast.NullLit)
		return ok
	case *ast.RegexLit:
		y, ok := b.(*ast.RegexLit)
		return ok && x.Raw == y.Raw
	case *ast.ThisExpr:
		_, ok := b.(*ast.ThisExpr)
		return ok
	case *ast.SuperExpr:
		_, ok := b.(*ast.SuperExpr)
		return ok
	case *ast.TemplateLit:
		y, ok := b.(*ast.TemplateLit)
		return ok && equalTemplate(x, y)
	case *ast.TaggedTemplateExpr:
		y, ok := b.(*ast.TaggedTemplateExpr)
		return ok && equalExpr(x.Tag, y.Tag) && equalTemplate(x.Quasi, y.Quasi)
	case *ast.BinaryExpr:
		y, ok := b.(*ast.BinaryExpr)
		return ok && x.Op == y.Op && equalExpr(x.Left, y.Left) && equalExpr(x.Right, y.Right)
	case *ast.LogicalExpr:
		y, ok := b.(*ast.LogicalExpr)
		return ok && x.Op == y.Op && equalExpr(x.Left, y.Left) && equalExpr(x.Right, y.Right)
	case *ast.AssignExpr:
		y, ok := b.(*ast.AssignExpr)
		return ok && x.Op == y.Op && equalExpr(x.Target, y.Target) && equalExpr(x.Value, y.Value)
	case *ast.UnaryExpr:
		y, ok := b.(*ast.UnaryExpr)
		return ok && x.Op == y.Op && equalExpr(x.Operand, y.Operand)
	case *ast.UpdateExpr:
		y, ok := b.(*ast.UpdateExpr)
		return ok && x.Op == y.Op && x.Prefix == y.Prefix && equalExpr(x.Operand, y.Operand)
	case *ast.CondExpr:
		y, ok := b.(*ast.CondExpr)
		return ok && equalExpr(x.Cond, y.Cond) && equalExpr(x.Then, y.Then) && equalExpr(x.Else, y.Else)
	case *ast.CallExpr:
		y, ok := b.(*ast.CallExpr)
		return ok && x.Optional == y.Optional && equalExpr(x.Callee, y.Callee) && equalList(x.Args, y.Args)
	case *ast.NewExpr:
		y, ok := b.(*ast.NewExpr)
		return ok && equalExpr(x.Callee, y.Callee) && equalList(x.Args, y.Args)
	case *ast.MemberExpr:
		y, ok := b.(*ast.MemberExpr)
		return ok && x.Property == y.Property && x.Optional == y.Optional && equalExpr(x.Object, y.Object)
	case *ast.IndexExpr:
		y, ok := b.(*ast.IndexExpr)
		return ok && x.Optional == y.Optional && equalExpr(x.Object, y.Object) && equalExpr(x.Index, y.Index)
	case *ast.ArrayLit:
		y, ok := b.(*ast.ArrayLit)
		return ok && equalList(x.Elements, y.Elements)
	case *ast.ObjectLit:
		y, ok := b.(*ast.ObjectLit)
		return ok && equalProps(x.Props, y.Props)
	case *ast.SpreadExpr:
		y, ok := b.(*ast.SpreadExpr)
		return ok && equalExpr(x.Value, y.Value)
	case *ast.SeqExpr:
		y, ok := b.(*ast.SeqExpr)
		return ok && equalList(x.Exprs, y.Exprs)
	case *ast.ParenExpr:
		y, ok := b.(*ast.ParenExpr)
		return ok && equalExpr(x.Expr, y.Expr)
	case *ast.NonNullExpr:
		y, ok := b.(*ast.NonNullExpr)
		return ok && equalExpr(x.Expr, y.Expr)
	case *ast.TSAsExpr:
		y, ok := b.(*ast.TSAsExpr)
		return ok && x.Op == y.Op && x.Type == y.Type && equalExpr(x.Expr, y.Expr)
	case *ast.AwaitExpr:
		y, ok := b.(*ast.AwaitExpr)
		return ok && equalExpr(x.Value, y.Value)
	case *ast.YieldExpr:
		y, ok := b.(*ast.YieldExpr)
		return ok && x.Delegate == y.Delegate && equalExpr(x.Value, y.Value)
	case *ast.FuncExpr, *ast.ArrowExpr, *ast.ClassExpr:
		// function-valued trees stay unsubstituted, so printed equality is
		// the comparison
		return printer.PrintExpr(a) == printer.PrintExpr(b)
	}
	return false
}

func equalTemplate(a, b *ast.TemplateLit) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if len(a.Quasis) != len(b.Quasis) {
		return false
	}
	for i := range a.Quasis {
		if a.Quasis[i] != b.Quasis[i] {
			return false
		}
	}
	return equalList(a.Exprs, b.Exprs)
}

func equalList(a, b []ast.ExprNode) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !equalExpr(a[i], b[i]) {
			return false
		}
	}
	return true
}

func equalProps(a, b []*ast.ObjectProp) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Computed != b[i].Computed {
			return false
		}
		if !equalExpr(a[i].Key, b[i].Key) || !equalExpr(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}
