package parser

import (
	"fmt"
	"strings"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// parseExpression parses a full expression including comma sequences
func (p *Parser) parseExpression() ast.ExprNode {
	expr := p.parseAssignment()
	if expr == nil {
		return nil
	}
	if !p.check(token.TOKEN_COMMA) {
		return expr
	}
	seq := &ast.SeqExpr{Exprs: []ast.ExprNode{expr}, Loc: expr.Location()}
	for p.match(token.TOKEN_COMMA) {
		next := p.parseAssignment()
		if next == nil {
			break
		}
		seq.Exprs = append(seq.Exprs, next)
	}
	return seq
}

// parseAssignment parses a single assignment-level expression. Arrow
// functions are detected first because their parameter lists are otherwise
// indistinguishable from parenthesized expressions.
func (p *Parser) parseAssignment() ast.ExprNode {
	if arrow := p.tryParseArrow(); arrow != nil {
		return arrow
	}
	if p.check(token.TOKEN_YIELD) {
		return p.parseYield()
	}
	left := p.parseConditional()
	if left == nil {
		return nil
	}
	if op := p.peek(); isAssignOp(op.Type) {
		p.advance()
		value := p.parseAssignment()
		return &ast.AssignExpr{Target: left, Op: op.Lexeme, Value: value, Loc: left.Location()}
	}
	return left
}

// parseYield parses a yield expression
func (p *Parser) parseYield() ast.ExprNode {
	yieldTok := p.advance()
	y := &ast.YieldExpr{Loc: ast.TokenLocation(yieldTok)}
	y.Delegate = p.match(token.TOKEN_STAR)
	if !p.yieldEndsHere() {
		y.Value = p.parseAssignment()
	}
	return y
}

func (p *Parser) yieldEndsHere() bool {
	t := p.peek()
	if t.NewlineBefore {
		return true
	}
	switch t.Type {
	case token.TOKEN_SEMICOLON, token.TOKEN_RPAREN, token.TOKEN_RBRACKET, token.TOKEN_RBRACE,
		token.TOKEN_COMMA, token.TOKEN_COLON, token.TOKEN_EOF, token.TOKEN_TEMPLATE_EXPR_END:
		return true
	}
	return false
}

// tryParseArrow recognizes the start of an arrow function. For bare
// identifiers a two-token lookahead suffices; parenthesized and generic
// parameter lists are speculatively parsed and unwound on failure.
func (p *Parser) tryParseArrow() ast.ExprNode {
	t := p.peek()
	switch {
	case isBindingToken(t.Type) && p.peekNext().Type == token.TOKEN_ARROW:
		nameTok := p.advance()
		p.advance() // =>
		param := &ast.Param{
			Pattern: &ast.Ident{Name: nameTok.Lexeme, Loc: ast.TokenLocation(nameTok)},
			Loc:     ast.TokenLocation(nameTok),
		}
		return p.finishArrow("", []*ast.Param{param}, "", false, ast.TokenLocation(nameTok))
	case t.Type == token.TOKEN_ASYNC && isBindingToken(p.peekNext().Type) &&
		!p.peekNext().NewlineBefore && p.peekAt(2).Type == token.TOKEN_ARROW:
		p.advance() // async
		nameTok := p.advance()
		p.advance() // =>
		param := &ast.Param{
			Pattern: &ast.Ident{Name: nameTok.Lexeme, Loc: ast.TokenLocation(nameTok)},
			Loc:     ast.TokenLocation(nameTok),
		}
		return p.finishArrow("", []*ast.Param{param}, "", true, ast.TokenLocation(t))
	case t.Type == token.TOKEN_LPAREN:
		return p.tryParenArrow(false, t)
	case t.Type == token.TOKEN_ASYNC && p.peekNext().Type == token.TOKEN_LPAREN &&
		!p.peekNext().NewlineBefore:
		return p.tryParenArrow(true, t)
	case t.Type == token.TOKEN_LT:
		return p.tryGenericArrow(t)
	}
	return nil
}

// tryParenArrow speculatively parses (params) [: type] =>. On any mismatch
// the parser position and error list are restored and nil is returned.
func (p *Parser) tryParenArrow(async bool, start token.Token) ast.ExprNode {
	save := p.current
	errSave := len(p.errors)
	if async {
		p.advance()
	}
	params := p.parseParams()
	returnType := ""
	if len(p.errors) == errSave && p.check(token.TOKEN_COLON) {
		p.advance()
		returnType, _ = p.captureType(typeArrowReturn)
	}
	if len(p.errors) != errSave || !p.check(token.TOKEN_ARROW) {
		p.current = save
		p.errors = p.errors[:errSave]
		return nil
	}
	p.advance() // =>
	return p.finishArrow("", params, returnType, async, ast.TokenLocation(start))
}

// tryGenericArrow speculatively parses <T>(params) => for TypeScript
func (p *Parser) tryGenericArrow(start token.Token) ast.ExprNode {
	save := p.current
	errSave := len(p.errors)
	typeParams := p.captureTypeParams()
	if typeParams == "" || !p.check(token.TOKEN_LPAREN) {
		p.current = save
		return nil
	}
	params := p.parseParams()
	returnType := ""
	if len(p.errors) == errSave && p.check(token.TOKEN_COLON) {
		p.advance()
		returnType, _ = p.captureType(typeArrowReturn)
	}
	if len(p.errors) != errSave || !p.check(token.TOKEN_ARROW) {
		p.current = save
		p.errors = p.errors[:errSave]
		return nil
	}
	p.advance() // =>
	return p.finishArrow(typeParams, params, returnType, false, ast.TokenLocation(start))
}

// finishArrow parses the arrow body once the parameter list is known
func (p *Parser) finishArrow(typeParams string, params []*ast.Param, returnType string, async bool, loc ast.SourceLocation) ast.ExprNode {
	arrow := &ast.ArrowExpr{
		TypeParams: typeParams,
		Params:     params,
		ReturnType: returnType,
		Async:      async,
		Loc:        loc,
	}
	if p.check(token.TOKEN_LBRACE) {
		arrow.Body = p.parseBlock()
	} else {
		arrow.ExprBody = p.parseAssignment()
	}
	return arrow
}

// parseConditional parses the ternary operator
func (p *Parser) parseConditional() ast.ExprNode {
	cond := p.parseNullish()
	if cond == nil {
		return nil
	}
	if p.match(token.TOKEN_QUESTION) {
		then := p.parseAssignment()
		p.consume(token.TOKEN_COLON, "Expected ':' in conditional expression")
		els := p.parseAssignment()
		return &ast.CondExpr{Cond: cond, Then: then, Else: els, Loc: cond.Location()}
	}
	return cond
}

func (p *Parser) parseNullish() ast.ExprNode {
	left := p.parseLogicalOr()
	for left != nil && p.check(token.TOKEN_NULLISH) {
		op := p.advance()
		right := p.parseLogicalOr()
		left = &ast.LogicalExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.ExprNode {
	left := p.parseLogicalAnd()
	for left != nil && p.check(token.TOKEN_OR) {
		op := p.advance()
		right := p.parseLogicalAnd()
		left = &ast.LogicalExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.ExprNode {
	left := p.parseBitOr()
	for left != nil && p.check(token.TOKEN_AND) {
		op := p.advance()
		right := p.parseBitOr()
		left = &ast.LogicalExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseBitOr() ast.ExprNode {
	left := p.parseBitXor()
	for left != nil && p.check(token.TOKEN_PIPE) {
		op := p.advance()
		right := p.parseBitXor()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseBitXor() ast.ExprNode {
	left := p.parseBitAnd()
	for left != nil && p.check(token.TOKEN_CARET) {
		op := p.advance()
		right := p.parseBitAnd()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.ExprNode {
	left := p.parseEquality()
	for left != nil && p.check(token.TOKEN_AMP) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseEquality() ast.ExprNode {
	left := p.parseRelational()
	for left != nil && (p.check(token.TOKEN_EQ) || p.check(token.TOKEN_NEQ) ||
		p.check(token.TOKEN_STRICT_EQ) || p.check(token.TOKEN_STRICT_NEQ)) {
		op := p.advance()
		right := p.parseRelational()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

// parseRelational also handles TypeScript as/satisfies, which sit at the
// same precedence tier
func (p *Parser) parseRelational() ast.ExprNode {
	left := p.parseShift()
	for left != nil {
		if (p.checkLexeme("as") || p.checkLexeme("satisfies")) && !p.peek().NewlineBefore {
			op := p.advance().Lexeme
			typ, _ := p.captureType(typeCast)
			left = &ast.TSAsExpr{Expr: left, Op: op, Type: typ, Loc: left.Location()}
			continue
		}
		switch p.peek().Type {
		case token.TOKEN_LT, token.TOKEN_GT, token.TOKEN_LTE, token.TOKEN_GTE,
			token.TOKEN_INSTANCEOF:
		case token.TOKEN_IN:
			if p.noIn {
				return left
			}
		default:
			return left
		}
		op := p.advance()
		right := p.parseShift()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseShift() ast.ExprNode {
	left := p.parseAdditive()
	for left != nil && (p.check(token.TOKEN_SHL) || p.check(token.TOKEN_SHR) ||
		p.check(token.TOKEN_USHR)) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseAdditive() ast.ExprNode {
	left := p.parseMultiplicative()
	for left != nil && (p.check(token.TOKEN_PLUS) || p.check(token.TOKEN_MINUS)) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.ExprNode {
	left := p.parseExponent()
	for left != nil && (p.check(token.TOKEN_STAR) || p.check(token.TOKEN_SLASH) ||
		p.check(token.TOKEN_PERCENT)) {
		op := p.advance()
		right := p.parseExponent()
		left = &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

// parseExponent parses **, which is right-associative
func (p *Parser) parseExponent() ast.ExprNode {
	left := p.parseUnary()
	if left != nil && p.check(token.TOKEN_POW) {
		op := p.advance()
		right := p.parseExponent()
		return &ast.BinaryExpr{Left: left, Op: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseUnary() ast.ExprNode {
	switch p.peek().Type {
	case token.TOKEN_BANG, token.TOKEN_TILDE, token.TOKEN_PLUS, token.TOKEN_MINUS,
		token.TOKEN_TYPEOF, token.TOKEN_VOID, token.TOKEN_DELETE:
		op := p.advance()
		return &ast.UnaryExpr{Op: op.Lexeme, Operand: p.parseUnary(), Loc: ast.TokenLocation(op)}
	case token.TOKEN_INC, token.TOKEN_DEC:
		op := p.advance()
		return &ast.UpdateExpr{Op: op.Lexeme, Prefix: true, Operand: p.parseUnary(), Loc: ast.TokenLocation(op)}
	case token.TOKEN_AWAIT:
		tok := p.advance()
		return &ast.AwaitExpr{Value: p.parseUnary(), Loc: ast.TokenLocation(tok)}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.ExprNode {
	expr := p.parseCallMember()
	if expr == nil {
		return nil
	}
	if (p.check(token.TOKEN_INC) || p.check(token.TOKEN_DEC)) && !p.peek().NewlineBefore {
		op := p.advance()
		return &ast.UpdateExpr{Op: op.Lexeme, Prefix: false, Operand: expr, Loc: expr.Location()}
	}
	return expr
}

// parseCallMember parses call, member, index, tagged template, and non-null
// chains. A __PURE__ annotation or an @inline tag in the leading trivia
// marks the first call (or constructor, for __PURE__) of the chain.
//
//nolint:gocyclo,cyclop // Chain operator dispatch - complexity is inherent to the pattern
func (p *Parser) parseCallMember() ast.ExprNode {
	pure := hasPureMarker(p.peek().Comments)
	inline := hasInlineMarker(p.peek().Comments)
	expr := p.parsePrimary()
	if expr == nil {
		return nil
	}
	if pure {
		if ne, ok := expr.(*ast.NewExpr); ok {
			ne.Pure = true
			pure = false
		}
	}
	for {
		switch {
		case p.match(token.TOKEN_DOT):
			expr = &ast.MemberExpr{Object: expr, Property: p.memberName(), Loc: expr.Location()}
		case p.check(token.TOKEN_OPT_CHAIN):
			p.advance()
			switch {
			case p.check(token.TOKEN_LPAREN):
				call := &ast.CallExpr{Callee: expr, Args: p.parseArgs(), Optional: true, Loc: expr.Location()}
				if pure {
					call.Pure = true
					pure = false
				}
				if inline {
					call.Inline = true
					inline = false
				}
				expr = call
			case p.check(token.TOKEN_LBRACKET):
				p.advance()
				idx := p.parseExpression()
				p.consume(token.TOKEN_RBRACKET, "Expected ']' after index")
				expr = &ast.IndexExpr{Object: expr, Index: idx, Optional: true, Loc: expr.Location()}
			default:
				expr = &ast.MemberExpr{Object: expr, Property: p.memberName(), Optional: true, Loc: expr.Location()}
			}
		case p.check(token.TOKEN_LPAREN):
			call := &ast.CallExpr{Callee: expr, Args: p.parseArgs(), Loc: expr.Location()}
			if pure {
				call.Pure = true
				pure = false
			}
			if inline {
				call.Inline = true
				inline = false
			}
			expr = call
		case p.check(token.TOKEN_LBRACKET):
			p.advance()
			idx := p.parseExpression()
			p.consume(token.TOKEN_RBRACKET, "Expected ']' after index")
			expr = &ast.IndexExpr{Object: expr, Index: idx, Loc: expr.Location()}
		case p.check(token.TOKEN_TEMPLATE_START):
			expr = &ast.TaggedTemplateExpr{Tag: expr, Quasi: p.parseTemplate(), Loc: expr.Location()}
		case p.check(token.TOKEN_BANG) && !p.peek().NewlineBefore:
			p.advance()
			expr = &ast.NonNullExpr{Expr: expr, Loc: expr.Location()}
		default:
			return expr
		}
	}
}

// memberName consumes a property name after '.' or '?.'
func (p *Parser) memberName() string {
	t := p.peek()
	if isNameToken(t.Type) || t.Type == token.TOKEN_PRIVATE_NAME {
		return p.advance().Lexeme
	}
	p.error(t, "Expected property name")
	return ""
}

// parseArgs parses a parenthesized argument list
func (p *Parser) parseArgs() []ast.ExprNode {
	p.consume(token.TOKEN_LPAREN, "Expected '('")
	args := make([]ast.ExprNode, 0)
	for !p.check(token.TOKEN_RPAREN) && !p.isAtEnd() {
		var arg ast.ExprNode
		if p.check(token.TOKEN_ELLIPSIS) {
			tok := p.advance()
			arg = &ast.SpreadExpr{Value: p.parseAssignment(), Loc: ast.TokenLocation(tok)}
		} else {
			arg = p.parseAssignment()
		}
		if arg == nil {
			break
		}
		args = append(args, arg)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consume(token.TOKEN_RPAREN, "Expected ')' after arguments")
	return args
}

// parsePrimary parses literals, identifiers, and grouping constructs
//
//nolint:gocyclo,cyclop // Primary expression dispatch - complexity is inherent to the pattern
func (p *Parser) parsePrimary() ast.ExprNode {
	tok := p.peek()
	switch tok.Type {
	case token.TOKEN_NUMBER_LITERAL:
		p.advance()
		return &ast.NumberLit{Raw: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_STRING_LITERAL:
		p.advance()
		return &ast.StringLit{Raw: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_REGEX_LITERAL:
		p.advance()
		return &ast.RegexLit{Raw: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_TRUE:
		p.advance()
		return &ast.BoolLit{Value: true, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_FALSE:
		p.advance()
		return &ast.BoolLit{Value: false, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_NULL:
		p.advance()
		return &ast.NullLit{Loc: ast.TokenLocation(tok)}
	case token.TOKEN_THIS:
		p.advance()
		return &ast.ThisExpr{Loc: ast.TokenLocation(tok)}
	case token.TOKEN_SUPER:
		p.advance()
		return &ast.SuperExpr{Loc: ast.TokenLocation(tok)}
	case token.TOKEN_IDENTIFIER, token.TOKEN_AWAIT, token.TOKEN_YIELD:
		p.advance()
		return &ast.Ident{Name: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_PRIVATE_NAME:
		p.advance()
		return &ast.PrivateName{Name: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_ASYNC:
		if p.peekNext().Type == token.TOKEN_FUNCTION && !p.peekNext().NewlineBefore {
			p.advance()
			return p.parseFunctionExpr(true)
		}
		p.advance()
		return &ast.Ident{Name: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_FUNCTION:
		return p.parseFunctionExpr(false)
	case token.TOKEN_CLASS:
		return p.parseClassExpr()
	case token.TOKEN_NEW:
		return p.parseNew()
	case token.TOKEN_IMPORT:
		p.advance()
		if p.match(token.TOKEN_DOT) {
			return &ast.MemberExpr{
				Object:   &ast.Ident{Name: "import", Loc: ast.TokenLocation(tok)},
				Property: p.memberName(),
				Loc:      ast.TokenLocation(tok),
			}
		}
		// dynamic import(): the call chain picks up the parenthesized arguments
		return &ast.Ident{Name: "import", Loc: ast.TokenLocation(tok)}
	case token.TOKEN_LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.consume(token.TOKEN_RPAREN, "Expected ')' after expression")
		return &ast.ParenExpr{Expr: inner, Loc: ast.TokenLocation(tok)}
	case token.TOKEN_LBRACKET:
		return p.parseArrayLit()
	case token.TOKEN_LBRACE:
		return p.parseObjectLit()
	case token.TOKEN_TEMPLATE_START:
		return p.parseTemplate()
	default:
		p.error(tok, fmt.Sprintf("Unexpected token '%s'", tok.Lexeme))
		return nil
	}
}

// parseNew parses new expressions including new.target and member chains
// on the constructor reference
func (p *Parser) parseNew() ast.ExprNode {
	newTok := p.advance()
	if p.match(token.TOKEN_DOT) {
		return &ast.MemberExpr{
			Object:   &ast.Ident{Name: "new", Loc: ast.TokenLocation(newTok)},
			Property: p.memberName(),
			Loc:      ast.TokenLocation(newTok),
		}
	}
	callee := p.parsePrimary()
	if callee == nil {
		return nil
	}
	for {
		if p.match(token.TOKEN_DOT) {
			callee = &ast.MemberExpr{Object: callee, Property: p.memberName(), Loc: callee.Location()}
			continue
		}
		if p.check(token.TOKEN_LBRACKET) {
			p.advance()
			idx := p.parseExpression()
			p.consume(token.TOKEN_RBRACKET, "Expected ']' after index")
			callee = &ast.IndexExpr{Object: callee, Index: idx, Loc: callee.Location()}
			continue
		}
		break
	}
	expr := &ast.NewExpr{Callee: callee, Loc: ast.TokenLocation(newTok)}
	if p.check(token.TOKEN_LT) {
		save := p.current
		typeArgs := p.captureTypeParams()
		if p.check(token.TOKEN_LPAREN) {
			expr.TypeArgs = typeArgs
		} else {
			p.current = save
		}
	}
	if p.check(token.TOKEN_LPAREN) {
		expr.Args = p.parseArgs()
	}
	return expr
}

// parseFunctionExpr parses a function expression; the function keyword is
// the current token
func (p *Parser) parseFunctionExpr(async bool) ast.ExprNode {
	funcTok := p.consume(token.TOKEN_FUNCTION, "Expected 'function'")
	fe := &ast.FuncExpr{Async: async, Loc: ast.TokenLocation(funcTok)}
	fe.Generator = p.match(token.TOKEN_STAR)
	if isBindingToken(p.peek().Type) {
		fe.Name = p.advance().Lexeme
	}
	if p.check(token.TOKEN_LT) {
		fe.TypeParams = p.captureTypeParams()
	}
	fe.Params = p.parseParams()
	if p.match(token.TOKEN_COLON) {
		fe.ReturnType, _ = p.captureType(typeAnnotation)
	}
	fe.Body = p.parseBlock()
	return fe
}

// parseArrayLit parses an array literal or array pattern. Elisions are
// represented as nil elements.
func (p *Parser) parseArrayLit() ast.ExprNode {
	lbracket := p.consume(token.TOKEN_LBRACKET, "Expected '['")
	arr := &ast.ArrayLit{Loc: ast.TokenLocation(lbracket)}
	for !p.check(token.TOKEN_RBRACKET) && !p.isAtEnd() {
		if p.check(token.TOKEN_COMMA) {
			p.advance()
			arr.Elements = append(arr.Elements, nil)
			continue
		}
		var el ast.ExprNode
		if p.check(token.TOKEN_ELLIPSIS) {
			tok := p.advance()
			el = &ast.SpreadExpr{Value: p.parseAssignment(), Loc: ast.TokenLocation(tok)}
		} else {
			el = p.parseAssignment()
		}
		if el == nil {
			break
		}
		arr.Elements = append(arr.Elements, el)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consume(token.TOKEN_RBRACKET, "Expected ']' after array elements")
	return arr
}

// parseObjectLit parses an object literal or object pattern
func (p *Parser) parseObjectLit() ast.ExprNode {
	lbrace := p.consume(token.TOKEN_LBRACE, "Expected '{'")
	obj := &ast.ObjectLit{Loc: ast.TokenLocation(lbrace)}
	for !p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
		prop := p.parseObjectProp()
		if prop == nil {
			break
		}
		obj.Props = append(obj.Props, prop)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consume(token.TOKEN_RBRACE, "Expected '}' after object properties")
	return obj
}

// parseObjectProp parses one object literal entry
//
//nolint:gocyclo,cyclop // Property forms (spread, accessor, method, shorthand) branch widely
func (p *Parser) parseObjectProp() *ast.ObjectProp {
	loc := ast.TokenLocation(p.peek())
	if p.check(token.TOKEN_ELLIPSIS) {
		p.advance()
		return &ast.ObjectProp{Kind: ast.PropSpread, Value: p.parseAssignment(), Loc: loc}
	}

	kind := ast.PropInit
	async := false
	generator := false
	if p.check(token.TOKEN_IDENTIFIER) && (p.peek().Lexeme == "get" || p.peek().Lexeme == "set") &&
		startsPropertyKey(p.peekNext()) {
		if p.peek().Lexeme == "get" {
			kind = ast.PropGet
		} else {
			kind = ast.PropSet
		}
		p.advance()
	}
	if p.check(token.TOKEN_ASYNC) && startsPropertyKey(p.peekNext()) && !p.peekNext().NewlineBefore {
		async = true
		p.advance()
	}
	if p.match(token.TOKEN_STAR) {
		generator = true
	}

	computed := false
	var key ast.ExprNode
	keyTok := p.peek()
	switch {
	case p.check(token.TOKEN_LBRACKET):
		computed = true
		p.advance()
		key = p.parseAssignment()
		p.consume(token.TOKEN_RBRACKET, "Expected ']' after computed key")
	case p.check(token.TOKEN_STRING_LITERAL):
		key = p.parseStringLit()
	case p.check(token.TOKEN_NUMBER_LITERAL):
		p.advance()
		key = &ast.NumberLit{Raw: keyTok.Lexeme, Loc: ast.TokenLocation(keyTok)}
	case isNameToken(p.peek().Type):
		p.advance()
		key = &ast.Ident{Name: keyTok.Lexeme, Loc: ast.TokenLocation(keyTok)}
	default:
		p.error(keyTok, "Expected property name")
		return nil
	}

	// Method forms: name(params), get name(), set name(), async name()
	if p.check(token.TOKEN_LPAREN) || p.check(token.TOKEN_LT) {
		fe := &ast.FuncExpr{Async: async, Generator: generator, Loc: loc}
		if p.check(token.TOKEN_LT) {
			fe.TypeParams = p.captureTypeParams()
		}
		fe.Params = p.parseParams()
		if p.match(token.TOKEN_COLON) {
			fe.ReturnType, _ = p.captureType(typeAnnotation)
		}
		fe.Body = p.parseBlock()
		if kind == ast.PropInit {
			kind = ast.PropMethod
		}
		return &ast.ObjectProp{Kind: kind, Key: key, Value: fe, Computed: computed, Loc: loc}
	}

	if p.match(token.TOKEN_COLON) {
		return &ast.ObjectProp{Kind: ast.PropInit, Key: key, Value: p.parseAssignment(), Computed: computed, Loc: loc}
	}

	// Shorthand, possibly with a pattern default: { a } or { a = 1 }
	ident, ok := key.(*ast.Ident)
	if !ok {
		p.error(p.peek(), "Expected ':' after property name")
		return nil
	}
	value := ast.ExprNode(&ast.Ident{Name: ident.Name, Loc: ident.Loc})
	if p.match(token.TOKEN_ASSIGN) {
		value = &ast.AssignExpr{Target: value, Op: "=", Value: p.parseAssignment(), Loc: loc}
	}
	return &ast.ObjectProp{Kind: ast.PropInit, Key: key, Value: value, Shorthand: true, Loc: loc}
}

// parseTemplate parses a template literal; the opening backtick is the
// current token
func (p *Parser) parseTemplate() *ast.TemplateLit {
	start := p.consume(token.TOKEN_TEMPLATE_START, "Expected template literal")
	t := &ast.TemplateLit{Loc: ast.TokenLocation(start)}
	quasi := ""
	for !p.isAtEnd() {
		switch p.peek().Type {
		case token.TOKEN_TEMPLATE_CHARS:
			quasi = p.advance().Lexeme
		case token.TOKEN_TEMPLATE_EXPR_START:
			p.advance()
			t.Quasis = append(t.Quasis, quasi)
			quasi = ""
			t.Exprs = append(t.Exprs, p.parseExpression())
			p.consume(token.TOKEN_TEMPLATE_EXPR_END, "Expected '}' after template expression")
		case token.TOKEN_TEMPLATE_END:
			p.advance()
			t.Quasis = append(t.Quasis, quasi)
			return t
		default:
			p.error(p.peek(), "Unterminated template literal")
			t.Quasis = append(t.Quasis, quasi)
			return t
		}
	}
	t.Quasis = append(t.Quasis, quasi)
	return t
}

// startsPropertyKey reports whether a token can begin an object property
// or class member name
func startsPropertyKey(t token.Token) bool {
	if isNameToken(t.Type) {
		return true
	}
	switch t.Type {
	case token.TOKEN_STRING_LITERAL, token.TOKEN_NUMBER_LITERAL, token.TOKEN_LBRACKET,
		token.TOKEN_PRIVATE_NAME, token.TOKEN_STAR:
		return true
	}
	return false
}

// isAssignOp reports whether a token is an assignment operator
func isAssignOp(t token.Type) bool {
	switch t {
	case token.TOKEN_ASSIGN, token.TOKEN_PLUS_ASSIGN, token.TOKEN_MINUS_ASSIGN,
		token.TOKEN_STAR_ASSIGN, token.TOKEN_SLASH_ASSIGN, token.TOKEN_PERCENT_ASSIGN,
		token.TOKEN_POW_ASSIGN, token.TOKEN_SHL_ASSIGN, token.TOKEN_SHR_ASSIGN,
		token.TOKEN_USHR_ASSIGN, token.TOKEN_AMP_ASSIGN, token.TOKEN_PIPE_ASSIGN,
		token.TOKEN_CARET_ASSIGN, token.TOKEN_AND_ASSIGN, token.TOKEN_OR_ASSIGN,
		token.TOKEN_NULLISH_ASSIGN:
		return true
	}
	return false
}

// hasPureMarker reports whether comment trivia carries a __PURE__ annotation
func hasPureMarker(comments []token.Comment) bool {
	for _, c := range comments {
		if strings.Contains(c.Text, "@__PURE__") || strings.Contains(c.Text, "#__PURE__") {
			return true
		}
	}
	return false
}

// hasInlineMarker reports whether comment trivia carries an @inline tag
func hasInlineMarker(comments []token.Comment) bool {
	for _, c := range comments {
		if c.HasTag("@inline") {
			return true
		}
	}
	return false
}
