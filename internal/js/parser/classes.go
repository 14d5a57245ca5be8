package parser

import (
	"strings"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// parseClassDecl parses a class declaration; the class keyword is the
// current token
func (p *Parser) parseClassDecl(export, exportDefault, abstract bool, decorators []ast.ExprNode) ast.StmtNode {
	classTok := p.consume(token.TOKEN_CLASS, "Expected 'class'")
	stmt := &ast.ClassDeclStmt{
		Decorators:    decorators,
		Export:        export,
		ExportDefault: exportDefault,
		Abstract:      abstract,
		Loc:           ast.TokenLocation(classTok),
	}
	if isBindingToken(p.peek().Type) {
		stmt.Name = p.advance().Lexeme
	} else if !exportDefault {
		p.error(p.peek(), "Expected class name")
	}
	if p.check(token.TOKEN_LT) {
		stmt.TypeParams = p.captureTypeParams()
	}
	stmt.Extends, stmt.ExtendsTypes = p.parseExtendsClause()
	stmt.Implements = p.parseImplementsClause()
	stmt.Members = p.parseClassBody()
	return stmt
}

// parseClassExpr parses a class expression
func (p *Parser) parseClassExpr() ast.ExprNode {
	classTok := p.consume(token.TOKEN_CLASS, "Expected 'class'")
	expr := &ast.ClassExpr{Loc: ast.TokenLocation(classTok)}
	if isBindingToken(p.peek().Type) {
		expr.Name = p.advance().Lexeme
	}
	if p.check(token.TOKEN_LT) {
		expr.TypeParams = p.captureTypeParams()
	}
	expr.Extends, expr.ExtendsTypes = p.parseExtendsClause()
	expr.Implements = p.parseImplementsClause()
	expr.Members = p.parseClassBody()
	return expr
}

// parseExtendsClause parses an optional extends clause. The superclass may
// be any left-hand-side expression (mixin calls included) and may carry
// TypeScript type arguments.
func (p *Parser) parseExtendsClause() (ast.ExprNode, string) {
	if !p.match(token.TOKEN_EXTENDS) {
		return nil, ""
	}
	callee := p.parseCallMember()
	typeArgs := ""
	if p.check(token.TOKEN_LT) {
		typeArgs = p.captureTypeParams()
	}
	return callee, typeArgs
}

// parseImplementsClause captures an optional implements clause as raw text
func (p *Parser) parseImplementsClause() string {
	if !p.matchLexeme("implements") {
		return ""
	}
	start := p.peek()
	depth := 0
	for !p.isAtEnd() {
		t := p.peek()
		if depth == 0 && t.Type == token.TOKEN_LBRACE {
			break
		}
		switch t.Type {
		case token.TOKEN_LT, token.TOKEN_LPAREN, token.TOKEN_LBRACKET, token.TOKEN_LBRACE:
			depth++
		case token.TOKEN_GT, token.TOKEN_RPAREN, token.TOKEN_RBRACKET, token.TOKEN_RBRACE:
			if depth > 0 {
				depth--
			}
		case token.TOKEN_SHR:
			if depth > 1 {
				depth -= 2
			} else if depth > 0 {
				depth--
			}
		}
		p.advance()
	}
	if p.previous().End <= start.Offset {
		return ""
	}
	return strings.TrimSpace(p.source[start.Offset:p.previous().End])
}

// parseClassBody parses the braced member list
func (p *Parser) parseClassBody() []*ast.ClassMember {
	p.consume(token.TOKEN_LBRACE, "Expected '{' before class body")
	members := make([]*ast.ClassMember, 0)
	for !p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
		if p.match(token.TOKEN_SEMICOLON) {
			continue
		}
		before := p.current
		if m := p.parseClassMember(); m != nil {
			members = append(members, m)
		}
		if p.current == before {
			p.advance()
		}
	}
	p.consume(token.TOKEN_RBRACE, "Expected '}' after class body")
	return members
}

// parseClassMember parses one method, accessor, field, or static block
//
//nolint:gocyclo,cyclop // Member grammar (modifiers, accessors, fields, methods) branches widely
func (p *Parser) parseClassMember() *ast.ClassMember {
	m := &ast.ClassMember{
		Kind:    ast.MemberMethod,
		Leading: p.peek().Comments,
		Loc:     ast.TokenLocation(p.peek()),
	}

	for p.check(token.TOKEN_AT) {
		p.advance()
		d := p.parseCallMember()
		if d == nil {
			break
		}
		m.Decorators = append(m.Decorators, d)
	}

	// Modifiers are contextual: a modifier word directly followed by
	// something that cannot start a member name is itself the name
	for p.check(token.TOKEN_IDENTIFIER) && isMemberModifier(p.peek().Lexeme) {
		next := p.peekNext()
		staticBlock := p.peek().Lexeme == "static" && next.Type == token.TOKEN_LBRACE
		if !startsPropertyKey(next) && !isMemberModifier(next.Lexeme) && !staticBlock {
			break
		}
		word := p.advance().Lexeme
		if word == "static" {
			m.Static = true
		} else {
			m.Modifiers = append(m.Modifiers, word)
		}
	}

	if m.Static && len(m.Modifiers) == 0 && p.check(token.TOKEN_LBRACE) {
		m.Kind = ast.MemberStaticBlock
		m.Body = p.parseBlock()
		return m
	}

	if p.match(token.TOKEN_STAR) {
		m.Generator = true
	}
	if p.check(token.TOKEN_ASYNC) && startsPropertyKey(p.peekNext()) && !p.peekNext().NewlineBefore {
		m.Async = true
		p.advance()
		if p.match(token.TOKEN_STAR) {
			m.Generator = true
		}
	}
	if p.check(token.TOKEN_IDENTIFIER) && (p.peek().Lexeme == "get" || p.peek().Lexeme == "set") &&
		startsPropertyKey(p.peekNext()) {
		if p.peek().Lexeme == "get" {
			m.Kind = ast.MemberGetter
		} else {
			m.Kind = ast.MemberSetter
		}
		p.advance()
	}

	keyTok := p.peek()
	switch {
	case p.check(token.TOKEN_LBRACKET):
		m.Computed = true
		p.advance()
		m.Key = p.parseAssignment()
		// TypeScript index signatures ([key: string]: T) keep their inner
		// text verbatim
		if p.check(token.TOKEN_COLON) && m.Key != nil {
			for !p.check(token.TOKEN_RBRACKET) && !p.isAtEnd() {
				p.advance()
			}
			if inner := strings.TrimSpace(p.source[keyTok.End:p.peek().Offset]); inner != "" {
				m.Key = &ast.Ident{Name: inner, Loc: ast.TokenLocation(keyTok)}
			}
		}
		p.consume(token.TOKEN_RBRACKET, "Expected ']' after computed member name")
	case p.check(token.TOKEN_PRIVATE_NAME):
		p.advance()
		m.Key = &ast.PrivateName{Name: keyTok.Lexeme, Loc: ast.TokenLocation(keyTok)}
	case p.check(token.TOKEN_STRING_LITERAL):
		m.Key = p.parseStringLit()
	case p.check(token.TOKEN_NUMBER_LITERAL):
		p.advance()
		m.Key = &ast.NumberLit{Raw: keyTok.Lexeme, Loc: ast.TokenLocation(keyTok)}
	case isNameToken(keyTok.Type):
		p.advance()
		m.Key = &ast.Ident{Name: keyTok.Lexeme, Loc: ast.TokenLocation(keyTok)}
	default:
		p.error(keyTok, "Expected class member name")
		return nil
	}

	if p.match(token.TOKEN_QUESTION) {
		m.Optional = true
	} else if p.check(token.TOKEN_BANG) && p.peekNext().Type == token.TOKEN_COLON {
		p.advance()
		m.Definite = true
	}

	if p.check(token.TOKEN_LT) {
		m.TypeParam = p.captureTypeParams()
	}
	if p.check(token.TOKEN_LPAREN) {
		m.Params = p.parseParams()
		if p.match(token.TOKEN_COLON) {
			m.Type, _ = p.captureType(typeAnnotation)
		}
		if p.check(token.TOKEN_LBRACE) {
			m.Body = p.parseBlock()
		} else {
			// Abstract and overload signatures have no body
			p.consumeSemicolon()
		}
		return m
	}

	m.Kind = ast.MemberField
	sawAssign := false
	if p.match(token.TOKEN_COLON) {
		m.Type, sawAssign = p.captureType(typeAnnotation)
	}
	if sawAssign || p.match(token.TOKEN_ASSIGN) {
		m.Value = p.parseAssignment()
	}
	p.consumeSemicolon()
	return m
}

// isMemberModifier reports whether a word is a class member modifier
func isMemberModifier(word string) bool {
	switch word {
	case "static", "public", "private", "protected", "readonly", "abstract",
		"override", "declare", "accessor":
		return true
	}
	return false
}
