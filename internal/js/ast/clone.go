package ast

import "github.com/krispya/graft/internal/js/token"

// CloneProgram returns a deep copy of a program. Cached trees are shared
// across transforms, so every consumer that mutates must clone first.
func CloneProgram(p *Program) *Program {
	if p == nil {
		return nil
	}
	return &Program{
		Statements: CloneStmts(p.Statements),
		Trailing:   cloneComments(p.Trailing),
	}
}

// CloneStmts returns a deep copy of a statement list
func CloneStmts(stmts []StmtNode) []StmtNode {
	if stmts == nil {
		return nil
	}
	out := make([]StmtNode, len(stmts))
	for i, s := range stmts {
		out[i] = CloneStmt(s)
	}
	return out
}

// CloneStmt returns a deep copy of a statement
//
//nolint:gocyclo,cyclop // Clone dispatch - complexity is inherent to the pattern
func CloneStmt(s StmtNode) StmtNode {
	switch node := s.(type) {
	case nil:
		return nil
	case *VarDeclStmt:
		c := *node
		c.Decls = cloneDecls(node.Decls)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *FunctionDeclStmt:
		c := *node
		c.Params = cloneParams(node.Params)
		c.Body = cloneBlock(node.Body)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ReturnStmt:
		c := *node
		c.Value = CloneExpr(node.Value)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *IfStmt:
		c := *node
		c.Cond = CloneExpr(node.Cond)
		c.Then = CloneStmt(node.Then)
		c.Else = CloneStmt(node.Else)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *BlockStmt:
		return cloneBlock(node)
	case *ExprStmt:
		c := *node
		c.Expr = CloneExpr(node.Expr)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ForStmt:
		c := *node
		c.Init = CloneStmt(node.Init)
		c.Cond = CloneExpr(node.Cond)
		c.Update = CloneExpr(node.Update)
		c.Body = CloneStmt(node.Body)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ForInStmt:
		c := *node
		c.Target = CloneExpr(node.Target)
		c.Iterable = CloneExpr(node.Iterable)
		c.Body = CloneStmt(node.Body)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *WhileStmt:
		c := *node
		c.Cond = CloneExpr(node.Cond)
		c.Body = CloneStmt(node.Body)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *DoWhileStmt:
		c := *node
		c.Body = CloneStmt(node.Body)
		c.Cond = CloneExpr(node.Cond)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *BreakStmt:
		c := *node
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ContinueStmt:
		c := *node
		c.Leading = cloneComments(node.Leading)
		return &c
	case *LabeledStmt:
		c := *node
		c.Stmt = CloneStmt(node.Stmt)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *SwitchStmt:
		c := *node
		c.Disc = CloneExpr(node.Disc)
		c.Cases = make([]*SwitchCase, len(node.Cases))
		for i, sc := range node.Cases {
			c.Cases[i] = &SwitchCase{
				Test: CloneExpr(sc.Test),
				Body: CloneStmts(sc.Body),
				Loc:  sc.Loc,
			}
		}
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ThrowStmt:
		c := *node
		c.Value = CloneExpr(node.Value)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *TryStmt:
		c := *node
		c.Block = cloneBlock(node.Block)
		c.CatchParam = CloneExpr(node.CatchParam)
		c.CatchBody = cloneBlock(node.CatchBody)
		c.Finally = cloneBlock(node.Finally)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ClassDeclStmt:
		c := *node
		c.Extends = CloneExpr(node.Extends)
		c.Members = cloneMembers(node.Members)
		c.Decorators = cloneExprs(node.Decorators)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ImportDeclStmt:
		c := *node
		c.Named = cloneSpecs(node.Named)
		c.Source = cloneString(node.Source)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ExportNamedStmt:
		c := *node
		c.Named = cloneSpecs(node.Named)
		c.Source = cloneString(node.Source)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ExportAllStmt:
		c := *node
		c.Source = cloneString(node.Source)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *ExportDefaultStmt:
		c := *node
		c.Expr = CloneExpr(node.Expr)
		c.Leading = cloneComments(node.Leading)
		return &c
	case *RawStmt:
		c := *node
		c.Leading = cloneComments(node.Leading)
		return &c
	case *EmptyStmt:
		c := *node
		return &c
	}
	return s
}

// CloneExpr returns a deep copy of an expression
//
//nolint:gocyclo,cyclop // Clone dispatch - complexity is inherent to the pattern
func CloneExpr(e ExprNode) ExprNode {
	switch node := e.(type) {
	case nil:
		return nil
	case *Ident:
		c := *node
		return &c
	case *PrivateName:
		c := *node
		return &c
	case *NumberLit:
		c := *node
		return &c
	case *StringLit:
		c := *node
		return &c
	case *BoolLit:
		c := *node
		return &c
	case *NullLit:
		c := *node
		return &c
	case *RegexLit:
		c := *node
		return &c
	case *TemplateLit:
		c := *node
		c.Quasis = append([]string(nil), node.Quasis...)
		c.Exprs = cloneExprs(node.Exprs)
		return &c
	case *TaggedTemplateExpr:
		c := *node
		c.Tag = CloneExpr(node.Tag)
		if q := CloneExpr(node.Quasi); q != nil {
			c.Quasi = q.(*TemplateLit)
		}
		return &c
	case *BinaryExpr:
		c := *node
		c.Left = CloneExpr(node.Left)
		c.Right = CloneExpr(node.Right)
		return &c
	case *LogicalExpr:
		c := *node
		c.Left = CloneExpr(node.Left)
		c.Right = CloneExpr(node.Right)
		return &c
	case *AssignExpr:
		c := *node
		c.Target = CloneExpr(node.Target)
		c.Value = CloneExpr(node.Value)
		return &c
	case *UnaryExpr:
		c := *node
		c.Operand = CloneExpr(node.Operand)
		return &c
	case *UpdateExpr:
		c := *node
		c.Operand = CloneExpr(node.Operand)
		return &c
	case *CondExpr:
		c := *node
		c.Cond = CloneExpr(node.Cond)
		c.Then = CloneExpr(node.Then)
		c.Else = CloneExpr(node.Else)
		return &c
	case *CallExpr:
		c := *node
		c.Callee = CloneExpr(node.Callee)
		c.Args = cloneExprs(node.Args)
		return &c
	case *NewExpr:
		c := *node
		c.Callee = CloneExpr(node.Callee)
		c.Args = cloneExprs(node.Args)
		return &c
	case *MemberExpr:
		c := *node
		c.Object = CloneExpr(node.Object)
		return &c
	case *IndexExpr:
		c := *node
		c.Object = CloneExpr(node.Object)
		c.Index = CloneExpr(node.Index)
		return &c
	case *ArrayLit:
		c := *node
		c.Elements = cloneExprs(node.Elements)
		return &c
	case *ObjectLit:
		c := *node
		c.Props = make([]*ObjectProp, len(node.Props))
		for i, p := range node.Props {
			cp := *p
			cp.Key = CloneExpr(p.Key)
			cp.Value = CloneExpr(p.Value)
			c.Props[i] = &cp
		}
		return &c
	case *FuncExpr:
		c := *node
		c.Params = cloneParams(node.Params)
		c.Body = cloneBlock(node.Body)
		return &c
	case *ArrowExpr:
		c := *node
		c.Params = cloneParams(node.Params)
		c.Body = cloneBlock(node.Body)
		c.ExprBody = CloneExpr(node.ExprBody)
		return &c
	case *SpreadExpr:
		c := *node
		c.Value = CloneExpr(node.Value)
		return &c
	case *SeqExpr:
		c := *node
		c.Exprs = cloneExprs(node.Exprs)
		return &c
	case *ParenExpr:
		c := *node
		c.Expr = CloneExpr(node.Expr)
		return &c
	case *NonNullExpr:
		c := *node
		c.Expr = CloneExpr(node.Expr)
		return &c
	case *TSAsExpr:
		c := *node
		c.Expr = CloneExpr(node.Expr)
		return &c
	case *ThisExpr:
		c := *node
		return &c
	case *SuperExpr:
		c := *node
		return &c
	case *AwaitExpr:
		c := *node
		c.Value = CloneExpr(node.Value)
		return &c
	case *YieldExpr:
		c := *node
		c.Value = CloneExpr(node.Value)
		return &c
	case *ClassExpr:
		c := *node
		c.Extends = CloneExpr(node.Extends)
		c.Members = cloneMembers(node.Members)
		return &c
	}
	return e
}

func cloneExprs(exprs []ExprNode) []ExprNode {
	if exprs == nil {
		return nil
	}
	out := make([]ExprNode, len(exprs))
	for i, e := range exprs {
		out[i] = CloneExpr(e)
	}
	return out
}

func cloneDecls(decls []*VarDecl) []*VarDecl {
	out := make([]*VarDecl, len(decls))
	for i, d := range decls {
		c := *d
		c.Target = CloneExpr(d.Target)
		c.Init = CloneExpr(d.Init)
		out[i] = &c
	}
	return out
}

func cloneParams(params []*Param) []*Param {
	if params == nil {
		return nil
	}
	out := make([]*Param, len(params))
	for i, p := range params {
		c := *p
		c.Pattern = CloneExpr(p.Pattern)
		c.Default = CloneExpr(p.Default)
		c.Modifiers = append([]string(nil), p.Modifiers...)
		out[i] = &c
	}
	return out
}

func cloneMembers(members []*ClassMember) []*ClassMember {
	if members == nil {
		return nil
	}
	out := make([]*ClassMember, len(members))
	for i, m := range members {
		c := *m
		c.Modifiers = append([]string(nil), m.Modifiers...)
		c.Decorators = cloneExprs(m.Decorators)
		c.Key = CloneExpr(m.Key)
		c.Params = cloneParams(m.Params)
		c.Body = cloneBlock(m.Body)
		c.Value = CloneExpr(m.Value)
		c.Leading = cloneComments(m.Leading)
		out[i] = &c
	}
	return out
}

func cloneSpecs(specs []*ImportSpec) []*ImportSpec {
	if specs == nil {
		return nil
	}
	out := make([]*ImportSpec, len(specs))
	for i, s := range specs {
		c := *s
		out[i] = &c
	}
	return out
}

func cloneString(s *StringLit) *StringLit {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneBlock(b *BlockStmt) *BlockStmt {
	if b == nil {
		return nil
	}
	return &BlockStmt{
		Statements: CloneStmts(b.Statements),
		Trailing:   cloneComments(b.Trailing),
		Loc:        b.Loc,
	}
}

func cloneComments(comments []token.Comment) []token.Comment {
	if comments == nil {
		return nil
	}
	return append([]token.Comment(nil), comments...)
}
