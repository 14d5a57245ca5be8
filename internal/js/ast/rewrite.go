package ast

// ReplaceIdents rewrites identifier references in place. repl is called for
// every identifier in expression position; a non-nil result takes that
// identifier's place. Traversal descends into nested function and class
// bodies. Member properties, labels, and non-computed keys are names rather
// than references and are never offered. Binding patterns inside expressions
// are offered like any other expression, so callers must only target names
// they know no pattern binds; the synthetic names the transformer works with
// are unique within a file, which satisfies that.
func ReplaceIdents(stmts []StmtNode, repl func(*Ident) ExprNode) {
	for _, s := range stmts {
		replaceInStmt(s, repl)
	}
}

// ReplaceIdentsExpr rewrites identifier references under e, returning the
// node that should stand in e's position. The root itself may be replaced.
func ReplaceIdentsExpr(e ExprNode, repl func(*Ident) ExprNode) ExprNode {
	return replaceExpr(e, repl)
}

func replaceExpr(e ExprNode, repl func(*Ident) ExprNode) ExprNode {
	if e == nil {
		return nil
	}
	if id, ok := e.(*Ident); ok {
		if sub := repl(id); sub != nil {
			return sub
		}
		return id
	}
	replaceInExpr(e, repl)
	return e
}

func replaceExprs(exprs []ExprNode, repl func(*Ident) ExprNode) {
	for i, e := range exprs {
		if e != nil {
			exprs[i] = replaceExpr(e, repl)
		}
	}
}

func replaceInParams(params []*Param, repl func(*Ident) ExprNode) {
	for _, p := range params {
		// the pattern declares; only defaults and computed keys reference
		if p.Default != nil {
			p.Default = replaceExpr(p.Default, repl)
		}
	}
}

func replaceInMembers(members []*ClassMember, repl func(*Ident) ExprNode) {
	for _, m := range members {
		if m.Computed {
			m.Key = replaceExpr(m.Key, repl)
		}
		for i, d := range m.Decorators {
			m.Decorators[i] = replaceExpr(d, repl)
		}
		replaceInParams(m.Params, repl)
		if m.Body != nil {
			ReplaceIdents(m.Body.Statements, repl)
		}
		if m.Value != nil {
			m.Value = replaceExpr(m.Value, repl)
		}
	}
}

//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func replaceInStmt(s StmtNode, repl func(*Ident) ExprNode) {
	switch n := s.(type) {
	case *VarDeclStmt:
		for _, d := range n.Decls {
			if d.Init != nil {
				d.Init = replaceExpr(d.Init, repl)
			}
		}
	case *FunctionDeclStmt:
		replaceInParams(n.Params, repl)
		if n.Body != nil {
			ReplaceIdents(n.Body.Statements, repl)
		}
	case *ClassDeclStmt:
		if n.Extends != nil {
			n.Extends = replaceExpr(n.Extends, repl)
		}
		for i, d := range n.Decorators {
			n.Decorators[i] = replaceExpr(d, repl)
		}
		replaceInMembers(n.Members, repl)
	case *ReturnStmt:
		if n.Value != nil {
			n.Value = replaceExpr(n.Value, repl)
		}
	case *IfStmt:
		n.Cond = replaceExpr(n.Cond, repl)
		replaceInStmt(n.Then, repl)
		if n.Else != nil {
			replaceInStmt(n.Else, repl)
		}
	case *BlockStmt:
		ReplaceIdents(n.Statements, repl)
	case *ExprStmt:
		n.Expr = replaceExpr(n.Expr, repl)
	case *ForStmt:
		if n.Init != nil {
			replaceInStmt(n.Init, repl)
		}
		if n.Cond != nil {
			n.Cond = replaceExpr(n.Cond, repl)
		}
		if n.Update != nil {
			n.Update = replaceExpr(n.Update, repl)
		}
		replaceInStmt(n.Body, repl)
	case *ForInStmt:
		if n.Decl == "" {
			n.Target = replaceExpr(n.Target, repl)
		}
		n.Iterable = replaceExpr(n.Iterable, repl)
		replaceInStmt(n.Body, repl)
	case *WhileStmt:
		n.Cond = replaceExpr(n.Cond, repl)
		replaceInStmt(n.Body, repl)
	case *DoWhileStmt:
		replaceInStmt(n.Body, repl)
		n.Cond = replaceExpr(n.Cond, repl)
	case *LabeledStmt:
		replaceInStmt(n.Stmt, repl)
	case *SwitchStmt:
		n.Disc = replaceExpr(n.Disc, repl)
		for _, c := range n.Cases {
			if c.Test != nil {
				c.Test = replaceExpr(c.Test, repl)
			}
			ReplaceIdents(c.Body, repl)
		}
	case *ThrowStmt:
		n.Value = replaceExpr(n.Value, repl)
	case *TryStmt:
		ReplaceIdents(n.Block.Statements, repl)
		if n.CatchBody != nil {
			ReplaceIdents(n.CatchBody.Statements, repl)
		}
		if n.Finally != nil {
			ReplaceIdents(n.Finally.Statements, repl)
		}
	case *ExportDefaultStmt:
		n.Expr = replaceExpr(n.Expr, repl)
	}
}

//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func replaceInExpr(e ExprNode, repl func(*Ident) ExprNode) {
	switch n := e.(type) {
	case *TemplateLit:
		replaceExprs(n.Exprs, repl)
	case *TaggedTemplateExpr:
		n.Tag = replaceExpr(n.Tag, repl)
		if n.Quasi != nil {
			replaceExprs(n.Quasi.Exprs, repl)
		}
	case *BinaryExpr:
		n.Left = replaceExpr(n.Left, repl)
		n.Right = replaceExpr(n.Right, repl)
	case *LogicalExpr:
		n.Left = replaceExpr(n.Left, repl)
		n.Right = replaceExpr(n.Right, repl)
	case *AssignExpr:
		n.Target = replaceExpr(n.Target, repl)
		n.Value = replaceExpr(n.Value, repl)
	case *UnaryExpr:
		n.Operand = replaceExpr(n.Operand, repl)
	case *UpdateExpr:
		n.Operand = replaceExpr(n.Operand, repl)
	case *CondExpr:
		n.Cond = replaceExpr(n.Cond, repl)
		n.Then = replaceExpr(n.Then, repl)
		n.Else = replaceExpr(n.Else, repl)
	case *CallExpr:
		n.Callee = replaceExpr(n.Callee, repl)
		replaceExprs(n.Args, repl)
	case *NewExpr:
		n.Callee = replaceExpr(n.Callee, repl)
		replaceExprs(n.Args, repl)
	case *MemberExpr:
		n.Object = replaceExpr(n.Object, repl)
	case *IndexExpr:
		n.Object = replaceExpr(n.Object, repl)
		n.Index = replaceExpr(n.Index, repl)
	case *ArrayLit:
		replaceExprs(n.Elements, repl)
	case *ObjectLit:
		for _, prop := range n.Props {
			if prop.Computed {
				prop.Key = replaceExpr(prop.Key, repl)
			}
			if prop.Value == nil {
				continue
			}
			replaced := replaceExpr(prop.Value, repl)
			if replaced != prop.Value && prop.Shorthand {
				prop.Shorthand = false
			}
			prop.Value = replaced
		}
	case *FuncExpr:
		replaceInParams(n.Params, repl)
		if n.Body != nil {
			ReplaceIdents(n.Body.Statements, repl)
		}
	case *ArrowExpr:
		replaceInParams(n.Params, repl)
		if n.Body != nil {
			ReplaceIdents(n.Body.Statements, repl)
		}
		if n.ExprBody != nil {
			n.ExprBody = replaceExpr(n.ExprBody, repl)
		}
	case *SpreadExpr:
		n.Value = replaceExpr(n.Value, repl)
	case *SeqExpr:
		replaceExprs(n.Exprs, repl)
	case *ParenExpr:
		n.Expr = replaceExpr(n.Expr, repl)
	case *NonNullExpr:
		n.Expr = replaceExpr(n.Expr, repl)
	case *TSAsExpr:
		n.Expr = replaceExpr(n.Expr, repl)
	case *AwaitExpr:
		n.Value = replaceExpr(n.Value, repl)
	case *YieldExpr:
		if n.Value != nil {
			n.Value = replaceExpr(n.Value, repl)
		}
	case *ClassExpr:
		if n.Extends != nil {
			n.Extends = replaceExpr(n.Extends, repl)
		}
		replaceInMembers(n.Members, repl)
	}
}

// PatternNames lists the binding names a declaration target introduces, in
// pattern order. Defaults and computed keys contribute nothing; they are
// expressions, not bindings.
func PatternNames(pattern ExprNode) []string {
	var names []string
	appendPatternNames(pattern, &names)
	return names
}

func appendPatternNames(pattern ExprNode, names *[]string) {
	switch p := pattern.(type) {
	case *Ident:
		*names = append(*names, p.Name)
	case *ArrayLit:
		for _, el := range p.Elements {
			if el != nil {
				appendPatternNames(el, names)
			}
		}
	case *ObjectLit:
		for _, prop := range p.Props {
			if prop.Value != nil {
				appendPatternNames(prop.Value, names)
			}
		}
	case *AssignExpr:
		appendPatternNames(p.Target, names)
	case *SpreadExpr:
		appendPatternNames(p.Value, names)
	case *ParenExpr:
		appendPatternNames(p.Expr, names)
	}
}
