package ast

// SideEffectFree reports whether evaluating e cannot run observable
// effects. Reads are free: member and index access count as pure here, the
// same stance the pure tag takes toward getters. Calls and constructions
// pass only when they carry a pure marker.
//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func SideEffectFree(e ExprNode) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *Ident, *PrivateName, *NumberLit, *StringLit, *BoolLit,
		*NullLit, *RegexLit, *ThisExpr, *SuperExpr:
		return true
	case *TemplateLit:
		return AllSideEffectFree(n.Exprs)
	case *BinaryExpr:
		return SideEffectFree(n.Left) && SideEffectFree(n.Right)
	case *LogicalExpr:
		return SideEffectFree(n.Left) && SideEffectFree(n.Right)
	case *CondExpr:
		return SideEffectFree(n.Cond) && SideEffectFree(n.Then) && SideEffectFree(n.Else)
	case *UnaryExpr:
		if n.Op == "delete" {
			return false
		}
		return SideEffectFree(n.Operand)
	case *MemberExpr:
		return SideEffectFree(n.Object)
	case *IndexExpr:
		return SideEffectFree(n.Object) && SideEffectFree(n.Index)
	case *CallExpr:
		return n.Pure && SideEffectFree(n.Callee) && AllSideEffectFree(n.Args)
	case *NewExpr:
		return n.Pure && SideEffectFree(n.Callee) && AllSideEffectFree(n.Args)
	case *ArrayLit:
		return AllSideEffectFree(n.Elements)
	case *ObjectLit:
		for _, p := range n.Props {
			if p.Computed && !SideEffectFree(p.Key) {
				return false
			}
			if p.Value != nil && !SideEffectFree(p.Value) {
				return false
			}
		}
		return true
	case *FuncExpr, *ArrowExpr:
		return true
	case *ClassExpr:
		if !SideEffectFree(n.Extends) {
			return false
		}
		for _, m := range n.Members {
			if m.Computed && !SideEffectFree(m.Key) {
				return false
			}
		}
		return true
	case *SeqExpr:
		return AllSideEffectFree(n.Exprs)
	case *ParenExpr:
		return SideEffectFree(n.Expr)
	case *NonNullExpr:
		return SideEffectFree(n.Expr)
	case *TSAsExpr:
		return SideEffectFree(n.Expr)
	}
	return false
}

// AllSideEffectFree reports SideEffectFree across a list. Spread elements
// always fail: spreading drives the iterator protocol, which can observe.
func AllSideEffectFree(exprs []ExprNode) bool {
	for _, e := range exprs {
		if e == nil {
			continue
		}
		if _, spread := e.(*SpreadExpr); spread {
			return false
		}
		if !SideEffectFree(e) {
			return false
		}
	}
	return true
}
