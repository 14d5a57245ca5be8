package parser

import (
	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/lexer"
	"github.com/krispya/graft/internal/js/token"
)

// Parser transforms a stream of tokens into an Abstract Syntax Tree (AST).
// It keeps the original source text alongside the tokens so TypeScript-only
// constructs (type annotations, interfaces, enums) can be carried through
// as raw text instead of being modeled.
type Parser struct {
	source  string
	tokens  []token.Token
	current int
	errors  []ParseError

	// noIn suppresses the 'in' operator while parsing the init clause of a
	// for statement, where it would swallow the for-in keyword.
	noIn bool
}

// New creates a new parser for the given source text and token stream
func New(source string, tokens []token.Token) *Parser {
	return &Parser{
		source: source,
		tokens: tokens,
	}
}

// ParseSource tokenizes and parses source text in one step. Lexical errors
// are folded into the returned parse errors.
func ParseSource(source string) (*ast.Program, []ParseError) {
	tokens, lexErrs := lexer.New(source).ScanTokens()
	p := New(source, tokens)
	for _, le := range lexErrs {
		p.errors = append(p.errors, ParseError{
			Message:  le.Message,
			Location: ast.SourceLocation{Line: le.Line, Column: le.Column},
		})
	}
	program, errs := p.Parse()
	return program, errs
}

// Parse parses the token stream and returns the AST and any errors
func (p *Parser) Parse() (*ast.Program, []ParseError) {
	program := &ast.Program{
		Statements: make([]ast.StmtNode, 0),
	}

	for !p.isAtEnd() {
		before := p.current
		if stmt := p.parseStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		if p.current == before {
			// No progress was made; skip the offending token
			p.advance()
		}
	}
	program.Trailing = p.peek().Comments

	return program, p.errors
}

// parseStatement parses a single statement, attaching leading comment trivia
func (p *Parser) parseStatement() ast.StmtNode {
	leading := p.peek().Comments
	stmt := p.parseStatementInner()
	if stmt != nil && len(leading) > 0 {
		attachLeading(stmt, leading)
	}
	return stmt
}

//nolint:gocyclo,cyclop // Statement dispatch - complexity is inherent to the pattern
func (p *Parser) parseStatementInner() ast.StmtNode {
	switch p.peek().Type {
	case token.TOKEN_SEMICOLON:
		tok := p.advance()
		return &ast.EmptyStmt{Loc: ast.TokenLocation(tok)}
	case token.TOKEN_LBRACE:
		return p.parseBlock()
	case token.TOKEN_IMPORT:
		// import( and import.meta are expressions, not declarations
		if p.peekNext().Type == token.TOKEN_LPAREN || p.peekNext().Type == token.TOKEN_DOT {
			return p.parseExpressionStatement()
		}
		return p.parseImport()
	case token.TOKEN_EXPORT:
		return p.parseExport()
	case token.TOKEN_CONST, token.TOKEN_LET, token.TOKEN_VAR:
		return p.parseVarDecl(false)
	case token.TOKEN_FUNCTION:
		return p.parseFunctionDecl(false, false, false)
	case token.TOKEN_ASYNC:
		if p.peekNext().Type == token.TOKEN_FUNCTION {
			p.advance()
			return p.parseFunctionDecl(false, false, true)
		}
		return p.parseExpressionStatement()
	case token.TOKEN_CLASS:
		return p.parseClassDecl(false, false, false, nil)
	case token.TOKEN_AT:
		decorators := p.parseDecorators()
		export := false
		exportDefault := false
		if p.match(token.TOKEN_EXPORT) {
			export = true
			if p.match(token.TOKEN_DEFAULT) {
				export = false
				exportDefault = true
			}
		}
		abstract := p.matchLexeme("abstract")
		if !p.check(token.TOKEN_CLASS) {
			p.error(p.peek(), "Expected class declaration after decorators")
			return nil
		}
		return p.parseClassDecl(export, exportDefault, abstract, decorators)
	case token.TOKEN_RETURN:
		return p.parseReturn()
	case token.TOKEN_IF:
		return p.parseIf()
	case token.TOKEN_FOR:
		return p.parseFor()
	case token.TOKEN_WHILE:
		return p.parseWhile()
	case token.TOKEN_DO:
		return p.parseDoWhile()
	case token.TOKEN_SWITCH:
		return p.parseSwitch()
	case token.TOKEN_BREAK, token.TOKEN_CONTINUE:
		return p.parseBreakContinue()
	case token.TOKEN_THROW:
		return p.parseThrow()
	case token.TOKEN_TRY:
		return p.parseTry()
	case token.TOKEN_IDENTIFIER:
		if stmt := p.parseTypeScriptStatement(); stmt != nil {
			return stmt
		}
		if p.peekNext().Type == token.TOKEN_COLON {
			return p.parseLabeled()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseTypeScriptStatement recognizes TypeScript-only declarations by their
// leading contextual keyword and captures them verbatim. Returns nil when
// the identifier is ordinary code.
func (p *Parser) parseTypeScriptStatement() ast.StmtNode {
	start := p.peek()
	next := p.peekNext()
	switch start.Lexeme {
	case "interface":
		if isNameToken(next.Type) {
			return p.parseRawStatement(start)
		}
	case "type":
		if isNameToken(next.Type) && !next.NewlineBefore {
			after := p.peekAt(2).Type
			if after == token.TOKEN_ASSIGN || after == token.TOKEN_LT {
				return p.parseRawStatement(start)
			}
		}
	case "enum":
		if isNameToken(next.Type) {
			return p.parseRawStatement(start)
		}
	case "namespace", "module":
		if isNameToken(next.Type) || next.Type == token.TOKEN_STRING_LITERAL {
			return p.parseRawStatement(start)
		}
	case "declare":
		if isNameToken(next.Type) || isDeclarationKeyword(next.Type) {
			return p.parseRawStatement(start)
		}
	case "abstract":
		if next.Type == token.TOKEN_CLASS {
			p.advance()
			return p.parseClassDecl(false, false, true, nil)
		}
	}
	return nil
}

// parseRawStatement consumes tokens from start through the end of the
// current statement and keeps the exact source slice. Balanced braces are
// consumed as a unit; outside them the statement ends at a semicolon or a
// line break that cannot be a continuation. Template interpolations do not
// produce brace tokens, so brace counting over the token stream is sound.
func (p *Parser) parseRawStatement(start token.Token) ast.StmtNode {
	depth := 0
	sawBrace := false
	for !p.isAtEnd() {
		t := p.peek()
		if depth == 0 {
			if t.Type == token.TOKEN_SEMICOLON {
				p.advance()
				break
			}
			if t.Type == token.TOKEN_RBRACE {
				break
			}
			if t.Offset > start.Offset && t.NewlineBefore && !p.rawContinues(t, sawBrace) {
				break
			}
		}
		switch t.Type {
		case token.TOKEN_LBRACE:
			depth++
			sawBrace = true
		case token.TOKEN_LPAREN, token.TOKEN_LBRACKET:
			depth++
		case token.TOKEN_RBRACE, token.TOKEN_RPAREN, token.TOKEN_RBRACKET:
			depth--
		}
		p.advance()
	}
	end := p.previous().End
	return &ast.RawStmt{
		Text: p.source[start.Offset:end],
		Loc:  ast.TokenLocation(start),
	}
}

// rawContinues reports whether a token starting a new line continues the
// raw statement being captured rather than beginning the next statement.
func (p *Parser) rawContinues(t token.Token, sawBrace bool) bool {
	switch t.Type {
	case token.TOKEN_PIPE, token.TOKEN_AMP, token.TOKEN_DOT, token.TOKEN_ARROW,
		token.TOKEN_LT, token.TOKEN_ASSIGN, token.TOKEN_QUESTION, token.TOKEN_COLON,
		token.TOKEN_COMMA, token.TOKEN_EXTENDS:
		return true
	case token.TOKEN_LBRACE:
		return !sawBrace
	case token.TOKEN_IDENTIFIER:
		return t.Lexeme == "extends" || t.Lexeme == "implements"
	}
	// An incomplete previous token (operator, open bracket) also continues
	switch p.previous().Type {
	case token.TOKEN_ASSIGN, token.TOKEN_PIPE, token.TOKEN_AMP, token.TOKEN_LT,
		token.TOKEN_COMMA, token.TOKEN_COLON, token.TOKEN_QUESTION, token.TOKEN_ARROW,
		token.TOKEN_EXTENDS, token.TOKEN_DOT:
		return true
	}
	return false
}

// parseImport parses an import declaration
//
//nolint:gocyclo,cyclop // Import clause grammar has many small alternatives
func (p *Parser) parseImport() ast.StmtNode {
	importTok := p.advance()
	stmt := &ast.ImportDeclStmt{Loc: ast.TokenLocation(importTok)}

	// Side-effect import: import "module"
	if p.check(token.TOKEN_STRING_LITERAL) {
		stmt.Source = p.parseStringLit()
		p.consumeSemicolon()
		return stmt
	}

	// import type { ... }, import type Default - but `import type from "m"`
	// binds a default import named "type"
	if p.checkLexeme("type") {
		n := p.peekNext()
		if n.Type == token.TOKEN_LBRACE || n.Type == token.TOKEN_STAR ||
			(isNameToken(n.Type) && n.Lexeme != "from") {
			p.advance()
			stmt.TypeOnly = true
		}
	}

	hasClause := false
	if isBindingToken(p.peek().Type) {
		stmt.Default = p.advance().Lexeme
		hasClause = true
		if p.match(token.TOKEN_COMMA) {
			hasClause = false
		}
	}
	if !hasClause {
		switch {
		case p.match(token.TOKEN_STAR):
			if !p.matchLexeme("as") {
				p.error(p.peek(), "Expected 'as' after '*' in import")
			}
			if isBindingToken(p.peek().Type) {
				stmt.Namespace = p.advance().Lexeme
			} else {
				p.error(p.peek(), "Expected namespace binding name")
			}
		case p.check(token.TOKEN_LBRACE):
			stmt.Named = p.parseImportSpecs()
		case stmt.Default == "":
			p.error(p.peek(), "Expected import clause")
		}
	}

	if !p.matchLexeme("from") {
		p.error(p.peek(), "Expected 'from' after import clause")
	}
	if p.check(token.TOKEN_STRING_LITERAL) {
		stmt.Source = p.parseStringLit()
	} else {
		p.error(p.peek(), "Expected module specifier string")
	}
	p.consumeSemicolon()
	return stmt
}

// parseImportSpecs parses the { a, b as c } clause shared by imports and
// named exports
func (p *Parser) parseImportSpecs() []*ast.ImportSpec {
	p.consume(token.TOKEN_LBRACE, "Expected '{'")
	specs := make([]*ast.ImportSpec, 0)
	for !p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
		spec := &ast.ImportSpec{}
		if p.checkLexeme("type") {
			n := p.peekNext()
			if (isNameToken(n.Type) || n.Type == token.TOKEN_STRING_LITERAL) && n.Lexeme != "as" {
				p.advance()
				spec.TypeOnly = true
			}
		}
		nameTok := p.peek()
		if isNameToken(nameTok.Type) || nameTok.Type == token.TOKEN_STRING_LITERAL {
			spec.Name = p.advance().Lexeme
		} else {
			p.error(nameTok, "Expected import name")
			break
		}
		if p.matchLexeme("as") {
			if isNameToken(p.peek().Type) {
				spec.Alias = p.advance().Lexeme
			} else {
				p.error(p.peek(), "Expected binding name after 'as'")
			}
		}
		specs = append(specs, spec)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consume(token.TOKEN_RBRACE, "Expected '}' after import specifiers")
	return specs
}

// parseExport parses all export statement forms
//
//nolint:gocyclo,cyclop // Export grammar has many alternatives
func (p *Parser) parseExport() ast.StmtNode {
	exportTok := p.advance()

	switch {
	case p.match(token.TOKEN_DEFAULT):
		return p.parseExportDefault(exportTok)
	case p.check(token.TOKEN_STAR):
		p.advance()
		stmt := &ast.ExportAllStmt{Loc: ast.TokenLocation(exportTok)}
		if p.matchLexeme("as") {
			if isNameToken(p.peek().Type) {
				stmt.Alias = p.advance().Lexeme
			}
		}
		if !p.matchLexeme("from") {
			p.error(p.peek(), "Expected 'from' after export *")
		}
		if p.check(token.TOKEN_STRING_LITERAL) {
			stmt.Source = p.parseStringLit()
		} else {
			p.error(p.peek(), "Expected module specifier string")
		}
		p.consumeSemicolon()
		return stmt
	case p.check(token.TOKEN_LBRACE):
		stmt := &ast.ExportNamedStmt{Loc: ast.TokenLocation(exportTok)}
		stmt.Named = p.parseImportSpecs()
		if p.matchLexeme("from") {
			if p.check(token.TOKEN_STRING_LITERAL) {
				stmt.Source = p.parseStringLit()
			} else {
				p.error(p.peek(), "Expected module specifier string")
			}
		}
		p.consumeSemicolon()
		return stmt
	case p.check(token.TOKEN_CONST), p.check(token.TOKEN_LET), p.check(token.TOKEN_VAR):
		return p.parseVarDecl(true)
	case p.check(token.TOKEN_FUNCTION):
		return p.parseFunctionDecl(true, false, false)
	case p.check(token.TOKEN_ASYNC) && p.peekNext().Type == token.TOKEN_FUNCTION:
		p.advance()
		return p.parseFunctionDecl(true, false, true)
	case p.check(token.TOKEN_CLASS):
		return p.parseClassDecl(true, false, false, nil)
	case p.check(token.TOKEN_AT):
		decorators := p.parseDecorators()
		abstract := p.matchLexeme("abstract")
		if !p.check(token.TOKEN_CLASS) {
			p.error(p.peek(), "Expected class declaration after decorators")
			return nil
		}
		return p.parseClassDecl(true, false, abstract, decorators)
	case p.checkLexeme("abstract") && p.peekNext().Type == token.TOKEN_CLASS:
		p.advance()
		return p.parseClassDecl(true, false, true, nil)
	case p.checkLexeme("type"):
		if p.peekNext().Type == token.TOKEN_LBRACE {
			p.advance()
			stmt := &ast.ExportNamedStmt{TypeOnly: true, Loc: ast.TokenLocation(exportTok)}
			stmt.Named = p.parseImportSpecs()
			if p.matchLexeme("from") {
				if p.check(token.TOKEN_STRING_LITERAL) {
					stmt.Source = p.parseStringLit()
				}
			}
			p.consumeSemicolon()
			return stmt
		}
		return p.parseRawStatement(exportTok)
	case p.checkLexeme("interface"), p.checkLexeme("enum"), p.checkLexeme("namespace"), p.checkLexeme("declare"):
		return p.parseRawStatement(exportTok)
	default:
		p.error(p.peek(), "Expected declaration after 'export'")
		p.synchronize()
		return nil
	}
}

// parseExportDefault parses the tail of export default
func (p *Parser) parseExportDefault(exportTok token.Token) ast.StmtNode {
	switch {
	case p.check(token.TOKEN_FUNCTION):
		return p.parseFunctionDecl(false, true, false)
	case p.check(token.TOKEN_ASYNC) && p.peekNext().Type == token.TOKEN_FUNCTION:
		p.advance()
		return p.parseFunctionDecl(false, true, true)
	case p.check(token.TOKEN_CLASS):
		return p.parseClassDecl(false, true, false, nil)
	case p.check(token.TOKEN_AT):
		decorators := p.parseDecorators()
		abstract := p.matchLexeme("abstract")
		if !p.check(token.TOKEN_CLASS) {
			p.error(p.peek(), "Expected class declaration after decorators")
			return nil
		}
		return p.parseClassDecl(false, true, abstract, decorators)
	case p.checkLexeme("abstract") && p.peekNext().Type == token.TOKEN_CLASS:
		p.advance()
		return p.parseClassDecl(false, true, true, nil)
	default:
		expr := p.parseAssignment()
		p.consumeSemicolon()
		return &ast.ExportDefaultStmt{Expr: expr, Loc: ast.TokenLocation(exportTok)}
	}
}

// parseVarDecl parses const/let/var declarations
func (p *Parser) parseVarDecl(export bool) ast.StmtNode {
	kindTok := p.advance()

	// const enum is a TypeScript construct with no runtime declaration
	if kindTok.Type == token.TOKEN_CONST && p.checkLexeme("enum") && isNameToken(p.peekNext().Type) {
		return p.parseRawStatement(kindTok)
	}

	stmt := &ast.VarDeclStmt{
		Kind:   kindTok.Lexeme,
		Export: export,
		Decls:  make([]*ast.VarDecl, 0, 1),
		Loc:    ast.TokenLocation(kindTok),
	}
	for {
		decl := p.parseVarDeclarator()
		if decl == nil {
			break
		}
		stmt.Decls = append(stmt.Decls, decl)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consumeSemicolon()
	return stmt
}

// parseVarDeclarator parses a single binding with optional type and initializer
func (p *Parser) parseVarDeclarator() *ast.VarDecl {
	startTok := p.peek()
	target := p.parseBindingTarget()
	if target == nil {
		return nil
	}
	// TypeScript definite assignment: let x!: T
	if p.check(token.TOKEN_BANG) && !p.peek().NewlineBefore {
		p.advance()
		target = &ast.NonNullExpr{Expr: target, Loc: target.Location()}
	}
	decl := &ast.VarDecl{Target: target, Loc: ast.TokenLocation(startTok)}
	sawAssign := false
	if p.match(token.TOKEN_COLON) {
		decl.Type, sawAssign = p.captureType(typeAnnotation)
	}
	if sawAssign || p.match(token.TOKEN_ASSIGN) {
		decl.Init = p.parseAssignment()
	}
	return decl
}

// parseBindingTarget parses an identifier or destructuring pattern
func (p *Parser) parseBindingTarget() ast.ExprNode {
	switch {
	case p.check(token.TOKEN_LBRACKET):
		return p.parseArrayLit()
	case p.check(token.TOKEN_LBRACE):
		return p.parseObjectLit()
	case p.check(token.TOKEN_THIS):
		tok := p.advance()
		return &ast.Ident{Name: "this", Loc: ast.TokenLocation(tok)}
	case isBindingToken(p.peek().Type):
		tok := p.advance()
		return &ast.Ident{Name: tok.Lexeme, Loc: ast.TokenLocation(tok)}
	default:
		p.error(p.peek(), "Expected binding name or pattern")
		return nil
	}
}

// parseFunctionDecl parses a function declaration
func (p *Parser) parseFunctionDecl(export, exportDefault, async bool) ast.StmtNode {
	funcTok := p.consume(token.TOKEN_FUNCTION, "Expected 'function'")
	stmt := &ast.FunctionDeclStmt{
		Async:         async,
		Export:        export,
		ExportDefault: exportDefault,
		Loc:           ast.TokenLocation(funcTok),
	}
	stmt.Generator = p.match(token.TOKEN_STAR)
	if isBindingToken(p.peek().Type) {
		stmt.Name = p.advance().Lexeme
	} else if !exportDefault {
		p.error(p.peek(), "Expected function name")
	}
	if p.check(token.TOKEN_LT) {
		stmt.TypeParams = p.captureTypeParams()
	}
	stmt.Params = p.parseParams()
	if p.match(token.TOKEN_COLON) {
		stmt.ReturnType, _ = p.captureType(typeAnnotation)
	}
	stmt.Body = p.parseBlock()
	return stmt
}

// parseParams parses a parenthesized parameter list
func (p *Parser) parseParams() []*ast.Param {
	p.consume(token.TOKEN_LPAREN, "Expected '(' before parameters")
	params := make([]*ast.Param, 0)
	for !p.check(token.TOKEN_RPAREN) && !p.isAtEnd() {
		param := p.parseParam()
		if param == nil {
			break
		}
		params = append(params, param)
		if !p.match(token.TOKEN_COMMA) {
			break
		}
	}
	p.consume(token.TOKEN_RPAREN, "Expected ')' after parameters")
	return params
}

// parseParam parses one parameter with TypeScript trimmings
func (p *Parser) parseParam() *ast.Param {
	param := &ast.Param{Loc: ast.TokenLocation(p.peek())}

	// TypeScript constructor parameter properties: private readonly x
	for p.check(token.TOKEN_IDENTIFIER) && isParamModifier(p.peek().Lexeme) {
		next := p.peekNext().Type
		if next == token.TOKEN_COLON || next == token.TOKEN_COMMA || next == token.TOKEN_RPAREN ||
			next == token.TOKEN_QUESTION || next == token.TOKEN_ASSIGN {
			break // the modifier word is actually the parameter name
		}
		param.Modifiers = append(param.Modifiers, p.advance().Lexeme)
	}

	if p.match(token.TOKEN_ELLIPSIS) {
		param.Rest = true
	}
	param.Pattern = p.parseBindingTarget()
	if param.Pattern == nil {
		return nil
	}
	if p.match(token.TOKEN_QUESTION) {
		param.Optional = true
	}
	sawAssign := false
	if p.match(token.TOKEN_COLON) {
		param.Type, sawAssign = p.captureType(typeAnnotation)
	}
	if sawAssign || p.match(token.TOKEN_ASSIGN) {
		param.Default = p.parseAssignment()
	}
	return param
}

// parseBlock parses a braced statement block
func (p *Parser) parseBlock() *ast.BlockStmt {
	lbrace := p.consume(token.TOKEN_LBRACE, "Expected '{'")
	block := &ast.BlockStmt{
		Statements: make([]ast.StmtNode, 0),
		Loc:        ast.TokenLocation(lbrace),
	}
	for !p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
		before := p.current
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if p.current == before {
			p.advance()
		}
	}
	block.Trailing = p.peek().Comments
	p.consume(token.TOKEN_RBRACE, "Expected '}' after block")
	return block
}

// parseReturn parses a return statement, honoring the no-line-break rule
func (p *Parser) parseReturn() ast.StmtNode {
	retTok := p.advance()
	stmt := &ast.ReturnStmt{Loc: ast.TokenLocation(retTok)}
	if !p.check(token.TOKEN_SEMICOLON) && !p.check(token.TOKEN_RBRACE) &&
		!p.isAtEnd() && !p.peek().NewlineBefore {
		stmt.Value = p.parseExpression()
	}
	p.consumeSemicolon()
	return stmt
}

// parseIf parses an if statement with optional else
func (p *Parser) parseIf() ast.StmtNode {
	ifTok := p.advance()
	p.consume(token.TOKEN_LPAREN, "Expected '(' after 'if'")
	cond := p.parseExpression()
	p.consume(token.TOKEN_RPAREN, "Expected ')' after condition")
	stmt := &ast.IfStmt{
		Cond: cond,
		Then: p.parseStatement(),
		Loc:  ast.TokenLocation(ifTok),
	}
	if p.match(token.TOKEN_ELSE) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

// parseFor parses classic, for-in, and for-of loops
//
//nolint:gocyclo,cyclop // The three for-statement forms share a long prefix
func (p *Parser) parseFor() ast.StmtNode {
	forTok := p.advance()
	isAwait := p.match(token.TOKEN_AWAIT)
	p.consume(token.TOKEN_LPAREN, "Expected '(' after 'for'")

	var init ast.StmtNode
	switch {
	case p.match(token.TOKEN_SEMICOLON):
		// empty init
	case p.check(token.TOKEN_CONST), p.check(token.TOKEN_LET), p.check(token.TOKEN_VAR):
		kindTok := p.advance()
		target := p.parseBindingTarget()
		if p.checkLexeme("of") {
			p.advance()
			return p.finishForIn(forTok, kindTok.Lexeme, target, true, isAwait)
		}
		if p.match(token.TOKEN_IN) {
			return p.finishForIn(forTok, kindTok.Lexeme, target, false, isAwait)
		}
		init = p.finishForVarDecl(kindTok, target)
		p.consume(token.TOKEN_SEMICOLON, "Expected ';' after for initializer")
	default:
		p.noIn = true
		expr := p.parseExpression()
		p.noIn = false
		if p.checkLexeme("of") {
			p.advance()
			return p.finishForIn(forTok, "", expr, true, isAwait)
		}
		if p.match(token.TOKEN_IN) {
			return p.finishForIn(forTok, "", expr, false, isAwait)
		}
		init = &ast.ExprStmt{Expr: expr, Loc: ast.TokenLocation(forTok)}
		p.consume(token.TOKEN_SEMICOLON, "Expected ';' after for initializer")
	}

	stmt := &ast.ForStmt{Init: init, Loc: ast.TokenLocation(forTok)}
	if !p.check(token.TOKEN_SEMICOLON) {
		stmt.Cond = p.parseExpression()
	}
	p.consume(token.TOKEN_SEMICOLON, "Expected ';' after for condition")
	if !p.check(token.TOKEN_RPAREN) {
		stmt.Update = p.parseExpression()
	}
	p.consume(token.TOKEN_RPAREN, "Expected ')' after for clauses")
	stmt.Body = p.parseStatement()
	return stmt
}

// finishForIn completes a for-in or for-of once the target is known
func (p *Parser) finishForIn(forTok token.Token, decl string, target ast.ExprNode, of, isAwait bool) ast.StmtNode {
	stmt := &ast.ForInStmt{
		Decl:   decl,
		Target: target,
		Of:     of,
		Await:  isAwait,
		Loc:    ast.TokenLocation(forTok),
	}
	stmt.Iterable = p.parseAssignment()
	p.consume(token.TOKEN_RPAREN, "Expected ')' after for clauses")
	stmt.Body = p.parseStatement()
	return stmt
}

// finishForVarDecl completes a classic for's declaration init clause
func (p *Parser) finishForVarDecl(kindTok token.Token, target ast.ExprNode) *ast.VarDeclStmt {
	stmt := &ast.VarDeclStmt{
		Kind: kindTok.Lexeme,
		Loc:  ast.TokenLocation(kindTok),
	}
	decl := &ast.VarDecl{Target: target, Loc: ast.TokenLocation(kindTok)}
	sawAssign := false
	if p.match(token.TOKEN_COLON) {
		decl.Type, sawAssign = p.captureType(typeAnnotation)
	}
	if sawAssign || p.match(token.TOKEN_ASSIGN) {
		decl.Init = p.parseAssignment()
	}
	stmt.Decls = append(stmt.Decls, decl)
	for p.match(token.TOKEN_COMMA) {
		if next := p.parseVarDeclarator(); next != nil {
			stmt.Decls = append(stmt.Decls, next)
		}
	}
	return stmt
}

// parseWhile parses a while loop
func (p *Parser) parseWhile() ast.StmtNode {
	whileTok := p.advance()
	p.consume(token.TOKEN_LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(token.TOKEN_RPAREN, "Expected ')' after condition")
	return &ast.WhileStmt{
		Cond: cond,
		Body: p.parseStatement(),
		Loc:  ast.TokenLocation(whileTok),
	}
}

// parseDoWhile parses a do/while loop
func (p *Parser) parseDoWhile() ast.StmtNode {
	doTok := p.advance()
	body := p.parseStatement()
	p.consume(token.TOKEN_WHILE, "Expected 'while' after do body")
	p.consume(token.TOKEN_LPAREN, "Expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(token.TOKEN_RPAREN, "Expected ')' after condition")
	p.consumeSemicolon()
	return &ast.DoWhileStmt{
		Body: body,
		Cond: cond,
		Loc:  ast.TokenLocation(doTok),
	}
}

// parseSwitch parses a switch statement
func (p *Parser) parseSwitch() ast.StmtNode {
	switchTok := p.advance()
	p.consume(token.TOKEN_LPAREN, "Expected '(' after 'switch'")
	stmt := &ast.SwitchStmt{
		Disc: p.parseExpression(),
		Loc:  ast.TokenLocation(switchTok),
	}
	p.consume(token.TOKEN_RPAREN, "Expected ')' after switch value")
	p.consume(token.TOKEN_LBRACE, "Expected '{' before switch body")
	for !p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
		c := &ast.SwitchCase{Loc: ast.TokenLocation(p.peek())}
		switch {
		case p.match(token.TOKEN_CASE):
			c.Test = p.parseExpression()
			p.consume(token.TOKEN_COLON, "Expected ':' after case value")
		case p.match(token.TOKEN_DEFAULT):
			p.consume(token.TOKEN_COLON, "Expected ':' after default")
		default:
			p.error(p.peek(), "Expected 'case' or 'default' in switch body")
			p.advance()
			continue
		}
		for !p.check(token.TOKEN_CASE) && !p.check(token.TOKEN_DEFAULT) &&
			!p.check(token.TOKEN_RBRACE) && !p.isAtEnd() {
			before := p.current
			if s := p.parseStatement(); s != nil {
				c.Body = append(c.Body, s)
			}
			if p.current == before {
				p.advance()
			}
		}
		stmt.Cases = append(stmt.Cases, c)
	}
	p.consume(token.TOKEN_RBRACE, "Expected '}' after switch body")
	return stmt
}

// parseBreakContinue parses break and continue with optional labels
func (p *Parser) parseBreakContinue() ast.StmtNode {
	tok := p.advance()
	label := ""
	if p.check(token.TOKEN_IDENTIFIER) && !p.peek().NewlineBefore {
		label = p.advance().Lexeme
	}
	p.consumeSemicolon()
	if tok.Type == token.TOKEN_BREAK {
		return &ast.BreakStmt{Label: label, Loc: ast.TokenLocation(tok)}
	}
	return &ast.ContinueStmt{Label: label, Loc: ast.TokenLocation(tok)}
}

// parseThrow parses a throw statement
func (p *Parser) parseThrow() ast.StmtNode {
	throwTok := p.advance()
	stmt := &ast.ThrowStmt{Loc: ast.TokenLocation(throwTok)}
	if p.peek().NewlineBefore {
		p.error(p.peek(), "Illegal newline after 'throw'")
	} else {
		stmt.Value = p.parseExpression()
	}
	p.consumeSemicolon()
	return stmt
}

// parseTry parses try/catch/finally
func (p *Parser) parseTry() ast.StmtNode {
	tryTok := p.advance()
	stmt := &ast.TryStmt{
		Block: p.parseBlock(),
		Loc:   ast.TokenLocation(tryTok),
	}
	if p.match(token.TOKEN_CATCH) {
		if p.match(token.TOKEN_LPAREN) {
			stmt.CatchParam = p.parseBindingTarget()
			if p.match(token.TOKEN_COLON) {
				stmt.CatchType, _ = p.captureType(typeAnnotation)
			}
			p.consume(token.TOKEN_RPAREN, "Expected ')' after catch parameter")
		}
		stmt.CatchBody = p.parseBlock()
	}
	if p.match(token.TOKEN_FINALLY) {
		stmt.Finally = p.parseBlock()
	}
	if stmt.CatchBody == nil && stmt.Finally == nil {
		p.error(p.peek(), "Expected 'catch' or 'finally' after try block")
	}
	return stmt
}

// parseLabeled parses a labeled statement
func (p *Parser) parseLabeled() ast.StmtNode {
	labelTok := p.advance()
	p.consume(token.TOKEN_COLON, "Expected ':' after label")
	return &ast.LabeledStmt{
		Label: labelTok.Lexeme,
		Stmt:  p.parseStatement(),
		Loc:   ast.TokenLocation(labelTok),
	}
}

// parseExpressionStatement parses an expression in statement position
func (p *Parser) parseExpressionStatement() ast.StmtNode {
	startTok := p.peek()
	expr := p.parseExpression()
	if expr == nil {
		p.synchronize()
		return nil
	}
	p.consumeSemicolon()
	return &ast.ExprStmt{Expr: expr, Loc: ast.TokenLocation(startTok)}
}

// parseDecorators parses a run of @decorator expressions
func (p *Parser) parseDecorators() []ast.ExprNode {
	decorators := make([]ast.ExprNode, 0, 1)
	for p.check(token.TOKEN_AT) {
		p.advance()
		if expr := p.parseCallMember(); expr != nil {
			decorators = append(decorators, expr)
		} else {
			break
		}
	}
	return decorators
}

// parseStringLit consumes a string literal token
func (p *Parser) parseStringLit() *ast.StringLit {
	tok := p.advance()
	return &ast.StringLit{Raw: tok.Lexeme, Loc: ast.TokenLocation(tok)}
}

// consumeSemicolon consumes a statement terminator, applying automatic
// semicolon insertion: a line break, closing brace, or end of input may
// stand in for an explicit semicolon.
func (p *Parser) consumeSemicolon() {
	if p.match(token.TOKEN_SEMICOLON) {
		return
	}
	if p.check(token.TOKEN_RBRACE) || p.isAtEnd() || p.peek().NewlineBefore {
		return
	}
	if p.check(token.TOKEN_RPAREN) || p.check(token.TOKEN_TEMPLATE_EXPR_END) {
		return
	}
	p.error(p.peek(), "Expected ';' after statement")
}

// attachLeading stores comment trivia on the statement that follows it
//
//nolint:gocyclo,cyclop // One case per statement type
func attachLeading(stmt ast.StmtNode, leading []token.Comment) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		s.Leading = leading
	case *ast.FunctionDeclStmt:
		s.Leading = leading
	case *ast.ReturnStmt:
		s.Leading = leading
	case *ast.IfStmt:
		s.Leading = leading
	case *ast.ExprStmt:
		s.Leading = leading
	case *ast.ForStmt:
		s.Leading = leading
	case *ast.ForInStmt:
		s.Leading = leading
	case *ast.WhileStmt:
		s.Leading = leading
	case *ast.DoWhileStmt:
		s.Leading = leading
	case *ast.BreakStmt:
		s.Leading = leading
	case *ast.ContinueStmt:
		s.Leading = leading
	case *ast.LabeledStmt:
		s.Leading = leading
	case *ast.SwitchStmt:
		s.Leading = leading
	case *ast.ThrowStmt:
		s.Leading = leading
	case *ast.TryStmt:
		s.Leading = leading
	case *ast.ClassDeclStmt:
		s.Leading = leading
	case *ast.ImportDeclStmt:
		s.Leading = leading
	case *ast.ExportNamedStmt:
		s.Leading = leading
	case *ast.ExportAllStmt:
		s.Leading = leading
	case *ast.ExportDefaultStmt:
		s.Leading = leading
	case *ast.RawStmt:
		s.Leading = leading
	}
}

// peek returns the current token without consuming it
func (p *Parser) peek() token.Token {
	if p.current >= len(p.tokens) {
		return token.Token{Type: token.TOKEN_EOF}
	}
	return p.tokens[p.current]
}

// peekNext returns the token after the current one
func (p *Parser) peekNext() token.Token {
	return p.peekAt(1)
}

// peekAt returns the token n positions ahead
func (p *Parser) peekAt(n int) token.Token {
	if p.current+n >= len(p.tokens) {
		return token.Token{Type: token.TOKEN_EOF}
	}
	return p.tokens[p.current+n]
}

// previous returns the most recently consumed token
func (p *Parser) previous() token.Token {
	if p.current == 0 {
		return token.Token{Type: token.TOKEN_EOF}
	}
	return p.tokens[p.current-1]
}

// advance consumes and returns the current token
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.current < len(p.tokens) {
		p.current++
	}
	return tok
}

// check reports whether the current token has the given type
func (p *Parser) check(tokenType token.Type) bool {
	return p.peek().Type == tokenType
}

// checkLexeme reports whether the current token is an identifier with the
// given spelling. Contextual keywords are matched this way.
func (p *Parser) checkLexeme(lexeme string) bool {
	t := p.peek()
	return t.Type == token.TOKEN_IDENTIFIER && t.Lexeme == lexeme
}

// match consumes the current token if it has one of the given types
func (p *Parser) match(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// matchLexeme consumes the current token if it is the given contextual keyword
func (p *Parser) matchLexeme(lexeme string) bool {
	if p.checkLexeme(lexeme) {
		p.advance()
		return true
	}
	return false
}

// consume advances past a required token or records an error
func (p *Parser) consume(tokenType token.Type, message string) token.Token {
	if p.check(tokenType) {
		return p.advance()
	}
	p.error(p.peek(), message)
	return token.Token{Type: token.TOKEN_ERROR}
}

// isAtEnd reports whether the parser has reached the end of input
func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.TOKEN_EOF
}

// error records a parse error at the given token
func (p *Parser) error(tok token.Token, message string) {
	p.errors = append(p.errors, NewParseError(message, tok))
}

// synchronize skips tokens until a likely statement boundary
func (p *Parser) synchronize() {
	p.advance()

	for !p.isAtEnd() {
		if p.previous().Type == token.TOKEN_SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.TOKEN_CLASS, token.TOKEN_FUNCTION, token.TOKEN_CONST, token.TOKEN_LET,
			token.TOKEN_VAR, token.TOKEN_IF, token.TOKEN_FOR, token.TOKEN_WHILE,
			token.TOKEN_RETURN, token.TOKEN_IMPORT, token.TOKEN_EXPORT, token.TOKEN_SWITCH,
			token.TOKEN_THROW, token.TOKEN_TRY, token.TOKEN_RBRACE:
			return
		}
		p.advance()
	}
}

// isNameToken reports whether a token can serve as a name in positions
// where keywords are allowed (member names, object keys, import names)
func isNameToken(t token.Type) bool {
	if t == token.TOKEN_IDENTIFIER {
		return true
	}
	switch t {
	case token.TOKEN_FUNCTION, token.TOKEN_CLASS, token.TOKEN_CONST, token.TOKEN_LET,
		token.TOKEN_VAR, token.TOKEN_EXTENDS, token.TOKEN_IMPORT, token.TOKEN_EXPORT,
		token.TOKEN_DEFAULT, token.TOKEN_RETURN, token.TOKEN_IF, token.TOKEN_ELSE,
		token.TOKEN_FOR, token.TOKEN_WHILE, token.TOKEN_DO, token.TOKEN_BREAK,
		token.TOKEN_CONTINUE, token.TOKEN_SWITCH, token.TOKEN_CASE, token.TOKEN_THROW,
		token.TOKEN_TRY, token.TOKEN_CATCH, token.TOKEN_FINALLY, token.TOKEN_NEW,
		token.TOKEN_TYPEOF, token.TOKEN_INSTANCEOF, token.TOKEN_IN, token.TOKEN_DELETE,
		token.TOKEN_VOID, token.TOKEN_THIS, token.TOKEN_SUPER, token.TOKEN_ASYNC,
		token.TOKEN_AWAIT, token.TOKEN_YIELD, token.TOKEN_TRUE, token.TOKEN_FALSE,
		token.TOKEN_NULL:
		return true
	}
	return false
}

// isBindingToken reports whether a token can introduce a binding name
func isBindingToken(t token.Type) bool {
	return t == token.TOKEN_IDENTIFIER || t == token.TOKEN_ASYNC ||
		t == token.TOKEN_AWAIT || t == token.TOKEN_YIELD
}

// isDeclarationKeyword reports whether a token starts a declaration that
// can follow TypeScript's declare modifier
func isDeclarationKeyword(t token.Type) bool {
	switch t {
	case token.TOKEN_CONST, token.TOKEN_LET, token.TOKEN_VAR, token.TOKEN_FUNCTION,
		token.TOKEN_CLASS:
		return true
	}
	return false
}

// isParamModifier reports whether a word is a TypeScript parameter property
// modifier
func isParamModifier(word string) bool {
	switch word {
	case "public", "private", "protected", "readonly", "override":
		return true
	}
	return false
}
