package ast

// Inspect traverses the tree rooted at n in depth-first order. It calls f
// for each node; if f returns false the children of that node are skipped.
// Helper containers that are not nodes themselves (declarators, parameters,
// switch cases, class members, object properties) are walked through to
// their expression and statement children.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	walkChildren(n, f)
}

// InspectStmts traverses a statement list
func InspectStmts(stmts []StmtNode, f func(Node) bool) {
	for _, s := range stmts {
		Inspect(s, f)
	}
}

//nolint:gocyclo,cyclop // Traversal dispatch - complexity is inherent to the pattern
func walkChildren(n Node, f func(Node) bool) {
	switch node := n.(type) {
	case *Program:
		InspectStmts(node.Statements, f)

	case *VarDeclStmt:
		for _, d := range node.Decls {
			inspectExpr(d.Target, f)
			inspectExpr(d.Init, f)
		}
	case *FunctionDeclStmt:
		walkParams(node.Params, f)
		inspectBlock(node.Body, f)
	case *ReturnStmt:
		inspectExpr(node.Value, f)
	case *IfStmt:
		inspectExpr(node.Cond, f)
		inspectStmt(node.Then, f)
		inspectStmt(node.Else, f)
	case *BlockStmt:
		InspectStmts(node.Statements, f)
	case *ExprStmt:
		inspectExpr(node.Expr, f)
	case *ForStmt:
		inspectStmt(node.Init, f)
		inspectExpr(node.Cond, f)
		inspectExpr(node.Update, f)
		inspectStmt(node.Body, f)
	case *ForInStmt:
		inspectExpr(node.Target, f)
		inspectExpr(node.Iterable, f)
		inspectStmt(node.Body, f)
	case *WhileStmt:
		inspectExpr(node.Cond, f)
		inspectStmt(node.Body, f)
	case *DoWhileStmt:
		inspectStmt(node.Body, f)
		inspectExpr(node.Cond, f)
	case *LabeledStmt:
		inspectStmt(node.Stmt, f)
	case *SwitchStmt:
		inspectExpr(node.Disc, f)
		for _, c := range node.Cases {
			inspectExpr(c.Test, f)
			InspectStmts(c.Body, f)
		}
	case *ThrowStmt:
		inspectExpr(node.Value, f)
	case *TryStmt:
		inspectBlock(node.Block, f)
		inspectExpr(node.CatchParam, f)
		inspectBlock(node.CatchBody, f)
		inspectBlock(node.Finally, f)
	case *ClassDeclStmt:
		for _, d := range node.Decorators {
			inspectExpr(d, f)
		}
		inspectExpr(node.Extends, f)
		walkMembers(node.Members, f)
	case *ExportDefaultStmt:
		inspectExpr(node.Expr, f)

	case *TemplateLit:
		for _, e := range node.Exprs {
			inspectExpr(e, f)
		}
	case *TaggedTemplateExpr:
		inspectExpr(node.Tag, f)
		Inspect(node.Quasi, f)
	case *BinaryExpr:
		inspectExpr(node.Left, f)
		inspectExpr(node.Right, f)
	case *LogicalExpr:
		inspectExpr(node.Left, f)
		inspectExpr(node.Right, f)
	case *AssignExpr:
		inspectExpr(node.Target, f)
		inspectExpr(node.Value, f)
	case *UnaryExpr:
		inspectExpr(node.Operand, f)
	case *UpdateExpr:
		inspectExpr(node.Operand, f)
	case *CondExpr:
		inspectExpr(node.Cond, f)
		inspectExpr(node.Then, f)
		inspectExpr(node.Else, f)
	case *CallExpr:
		inspectExpr(node.Callee, f)
		for _, a := range node.Args {
			inspectExpr(a, f)
		}
	case *NewExpr:
		inspectExpr(node.Callee, f)
		for _, a := range node.Args {
			inspectExpr(a, f)
		}
	case *MemberExpr:
		inspectExpr(node.Object, f)
	case *IndexExpr:
		inspectExpr(node.Object, f)
		inspectExpr(node.Index, f)
	case *ArrayLit:
		for _, e := range node.Elements {
			inspectExpr(e, f)
		}
	case *ObjectLit:
		for _, p := range node.Props {
			if p.Computed {
				inspectExpr(p.Key, f)
			}
			inspectExpr(p.Value, f)
		}
	case *FuncExpr:
		walkParams(node.Params, f)
		inspectBlock(node.Body, f)
	case *ArrowExpr:
		walkParams(node.Params, f)
		inspectBlock(node.Body, f)
		inspectExpr(node.ExprBody, f)
	case *SpreadExpr:
		inspectExpr(node.Value, f)
	case *SeqExpr:
		for _, e := range node.Exprs {
			inspectExpr(e, f)
		}
	case *ParenExpr:
		inspectExpr(node.Expr, f)
	case *NonNullExpr:
		inspectExpr(node.Expr, f)
	case *TSAsExpr:
		inspectExpr(node.Expr, f)
	case *AwaitExpr:
		inspectExpr(node.Value, f)
	case *YieldExpr:
		inspectExpr(node.Value, f)
	case *ClassExpr:
		inspectExpr(node.Extends, f)
		walkMembers(node.Members, f)
	}
}

func walkParams(params []*Param, f func(Node) bool) {
	for _, p := range params {
		inspectExpr(p.Pattern, f)
		inspectExpr(p.Default, f)
	}
}

func walkMembers(members []*ClassMember, f func(Node) bool) {
	for _, m := range members {
		for _, d := range m.Decorators {
			inspectExpr(d, f)
		}
		if m.Computed {
			inspectExpr(m.Key, f)
		}
		walkParams(m.Params, f)
		inspectBlock(m.Body, f)
		inspectExpr(m.Value, f)
	}
}

func inspectExpr(e ExprNode, f func(Node) bool) {
	if e != nil {
		Inspect(e, f)
	}
}

func inspectStmt(s StmtNode, f func(Node) bool) {
	if s != nil {
		Inspect(s, f)
	}
}

func inspectBlock(b *BlockStmt, f func(Node) bool) {
	if b != nil {
		Inspect(b, f)
	}
}
