// Package ast defines the Abstract Syntax Tree (AST) node types for
// JavaScript and TypeScript source files. It provides structures for
// statements, expressions, class members, and module import/export forms,
// shaped for mutation: the transform engine rewrites these trees in place
// before printing them back to source text.
package ast

import "github.com/krispya/graft/internal/js/token"

// SourceLocation tracks the position of an AST node in source code
type SourceLocation struct {
	Line   int // Line number (1-indexed)
	Column int // Column number (1-indexed)
}

// Node is the base interface for all AST nodes
type Node interface {
	Location() SourceLocation
	node()
}

// StmtNode is the interface for all statement nodes
type StmtNode interface {
	Node
	stmtNode()
}

// ExprNode is the interface for all expression nodes
type ExprNode interface {
	Node
	exprNode()
}

// Program is the root node of a parsed source file
type Program struct {
	Statements []StmtNode
	Trailing   []token.Comment // Comments after the last statement
}

func (p *Program) node() {}

// Location returns the source location of the program node in the AST.
func (p *Program) Location() SourceLocation {
	if len(p.Statements) > 0 {
		return p.Statements[0].Location()
	}
	return SourceLocation{Line: 1, Column: 1}
}

// TokenLocation creates a SourceLocation from a lexer token
func TokenLocation(tok token.Token) SourceLocation {
	return SourceLocation{
		Line:   tok.Line,
		Column: tok.Column,
	}
}
