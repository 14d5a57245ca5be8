// Package parser implements the JavaScript/TypeScript parser, transforming
// token streams into Abstract Syntax Trees (ASTs). It uses recursive descent
// parsing with panic mode error recovery to handle syntax errors gracefully.
package parser

import (
	"fmt"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// ParseError represents an error encountered during parsing
type ParseError struct {
	Message  string
	Location ast.SourceLocation
	Token    token.Token
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %d:%d: %s (near '%s')",
		e.Location.Line, e.Location.Column, e.Message, e.Token.Lexeme)
}

// NewParseError creates a new parse error
func NewParseError(message string, tok token.Token) ParseError {
	return ParseError{
		Message: message,
		Location: ast.SourceLocation{
			Line:   tok.Line,
			Column: tok.Column,
		},
		Token: tok,
	}
}
