// Package lexer provides lexical analysis for JavaScript/TypeScript source
// text. It tokenizes source files into a stream of tokens for the parser,
// preserving comments as leading trivia so annotation tags survive scanning.
package lexer

import (
	"fmt"

	"github.com/krispya/graft/internal/js/token"
)

// LexError represents an error encountered during lexical analysis
type LexError struct {
	Message string
	Line    int
	Column  int
}

// Error implements the error interface
func (e LexError) Error() string {
	return fmt.Sprintf("lexical error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// Lexer tokenizes JavaScript/TypeScript source text.
//
// Lexer instances are not safe for concurrent use; create one per source
// string via New.
type Lexer struct {
	source  string
	start   int  // Start position of current token
	current int  // Current position in source
	line    int  // Current line number (1-indexed)
	column  int  // Current column number (1-indexed)
	tokens  []token.Token
	errors  []LexError

	pendingComments []token.Comment
	newlineBefore   bool
	prevType        token.Type
	hasPrev         bool

	// Template literal state. inTemplateText is true while scanning the
	// raw-text portion of a template; interpBraces records the brace
	// nesting of each open ${ } interpolation.
	inTemplateText bool
	interpBraces   []int
}

// New creates a new Lexer for the given source text
func New(source string) *Lexer {
	return &Lexer{
		source: source,
		line:   1,
		column: 1,
	}
}

// ScanTokens tokenizes the entire source and returns tokens and errors.
// The token stream always ends with a TOKEN_EOF.
func (l *Lexer) ScanTokens() ([]token.Token, []LexError) {
	for !l.isAtEnd() {
		l.start = l.current
		if l.inTemplateText {
			l.scanTemplateText()
		} else {
			l.scanToken()
		}
	}

	l.start = l.current
	l.emit(token.TOKEN_EOF)

	return l.tokens, l.errors
}

// scanToken processes the next token in normal (non-template) mode.
//
//nolint:gocyclo,cyclop // Lexer dispatch function - complexity is inherent to the pattern
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == ' ' || c == '\t' || c == '\r':
		// Ignore whitespace
	case c == '\n':
		l.line++
		l.column = 1
		l.newlineBefore = true
	case c == '/':
		l.scanSlash()
	case c == '(' || c == ')' || c == '[' || c == ']' || c == ';' || c == ',' || c == '~' || c == '@':
		l.scanSimple(c)
	case c == '{':
		if n := len(l.interpBraces); n > 0 {
			l.interpBraces[n-1]++
		}
		l.emit(token.TOKEN_LBRACE)
	case c == '}':
		l.scanRightBrace()
	case c == '`':
		l.emit(token.TOKEN_TEMPLATE_START)
		l.inTemplateText = true
	case c == '"' || c == '\'':
		l.scanString(c)
	case c == '#':
		l.scanPrivateName()
	case isDigit(c):
		l.scanNumber(c)
	case c == '.':
		l.scanDot()
	case isIdentStart(c):
		l.scanIdentifier()
	default:
		l.scanOperator(c)
	}
}

// scanSimple handles single-character tokens with no compound forms
func (l *Lexer) scanSimple(c byte) {
	switch c {
	case '(':
		l.emit(token.TOKEN_LPAREN)
	case ')':
		l.emit(token.TOKEN_RPAREN)
	case '[':
		l.emit(token.TOKEN_LBRACKET)
	case ']':
		l.emit(token.TOKEN_RBRACKET)
	case ';':
		l.emit(token.TOKEN_SEMICOLON)
	case ',':
		l.emit(token.TOKEN_COMMA)
	case '~':
		l.emit(token.TOKEN_TILDE)
	case '@':
		l.emit(token.TOKEN_AT)
	}
}

// scanRightBrace distinguishes a closing interpolation from a plain brace
func (l *Lexer) scanRightBrace() {
	if n := len(l.interpBraces); n > 0 {
		if l.interpBraces[n-1] == 0 {
			l.interpBraces = l.interpBraces[:n-1]
			l.emit(token.TOKEN_TEMPLATE_EXPR_END)
			l.inTemplateText = true
			return
		}
		l.interpBraces[n-1]--
	}
	l.emit(token.TOKEN_RBRACE)
}

// scanTemplateText scans raw template characters until an interpolation,
// the closing backtick, or end of input.
func (l *Lexer) scanTemplateText() {
	for !l.isAtEnd() {
		c := l.peek()
		if c == '`' {
			l.flushTemplateChars()
			l.start = l.current
			l.advance()
			l.emit(token.TOKEN_TEMPLATE_END)
			l.inTemplateText = false
			return
		}
		if c == '$' && l.peekNext() == '{' {
			l.flushTemplateChars()
			l.start = l.current
			l.advance()
			l.advance()
			l.emit(token.TOKEN_TEMPLATE_EXPR_START)
			l.interpBraces = append(l.interpBraces, 0)
			l.inTemplateText = false
			return
		}
		if c == '\\' {
			l.advance()
			if !l.isAtEnd() {
				if l.peek() == '\n' {
					l.line++
					l.column = 0
				}
				l.advance()
			}
			continue
		}
		if c == '\n' {
			l.line++
			l.column = 0
		}
		l.advance()
	}
	l.flushTemplateChars()
	l.error("unterminated template literal")
	l.inTemplateText = false
}

// flushTemplateChars emits any pending raw template text as a single token
func (l *Lexer) flushTemplateChars() {
	if l.current > l.start {
		l.emit(token.TOKEN_TEMPLATE_CHARS)
	}
	l.start = l.current
}

// scanSlash handles comments, regex literals, and division operators
func (l *Lexer) scanSlash() {
	switch {
	case l.match('/'):
		start := l.current
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}
		l.addComment(l.source[start:l.current], false)
	case l.match('*'):
		l.scanBlockComment()
	case l.regexAllowed():
		l.scanRegex()
	case l.match('='):
		l.emit(token.TOKEN_SLASH_ASSIGN)
	default:
		l.emit(token.TOKEN_SLASH)
	}
}

// scanBlockComment consumes a /* */ comment, tracking line breaks
func (l *Lexer) scanBlockComment() {
	start := l.current
	for !l.isAtEnd() {
		if l.peek() == '*' && l.peekNext() == '/' {
			text := l.source[start:l.current]
			l.advance()
			l.advance()
			l.addComment(text, true)
			return
		}
		if l.peek() == '\n' {
			l.line++
			l.column = 0
			l.newlineBefore = true
		}
		l.advance()
	}
	l.error("unterminated block comment")
}

// regexAllowed reports whether a / in the current position can begin a
// regular expression literal. The heuristic follows the standard rule:
// a regex may appear anywhere an expression may begin, which is everywhere
// except directly after a value-producing token.
func (l *Lexer) regexAllowed() bool {
	if !l.hasPrev {
		return true
	}
	switch l.prevType {
	case token.TOKEN_IDENTIFIER, token.TOKEN_NUMBER_LITERAL, token.TOKEN_STRING_LITERAL,
		token.TOKEN_REGEX_LITERAL, token.TOKEN_TEMPLATE_END, token.TOKEN_RPAREN,
		token.TOKEN_RBRACKET, token.TOKEN_THIS, token.TOKEN_SUPER, token.TOKEN_TRUE,
		token.TOKEN_FALSE, token.TOKEN_NULL, token.TOKEN_INC, token.TOKEN_DEC,
		token.TOKEN_PRIVATE_NAME:
		return false
	}
	return true
}

// scanRegex consumes a regular expression literal including flags
func (l *Lexer) scanRegex() {
	inClass := false
	for !l.isAtEnd() {
		c := l.peek()
		if c == '\\' {
			l.advance()
			if !l.isAtEnd() {
				l.advance()
			}
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		} else if c == '\n' {
			l.error("unterminated regular expression")
			return
		}
		l.advance()
	}
	if l.isAtEnd() {
		l.error("unterminated regular expression")
		return
	}
	l.advance() // closing /
	for !l.isAtEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	l.emit(token.TOKEN_REGEX_LITERAL)
}

// scanString consumes a single- or double-quoted string literal
func (l *Lexer) scanString(quote byte) {
	for !l.isAtEnd() {
		c := l.peek()
		if c == quote {
			l.advance()
			l.emit(token.TOKEN_STRING_LITERAL)
			return
		}
		if c == '\\' {
			l.advance()
			if !l.isAtEnd() {
				if l.peek() == '\n' {
					l.line++
					l.column = 0
				}
				l.advance()
			}
			continue
		}
		if c == '\n' {
			break
		}
		l.advance()
	}
	l.error("unterminated string literal")
}

// scanPrivateName consumes a #name class member reference. A #! at the very
// start of the file is a hashbang and is kept as comment trivia.
func (l *Lexer) scanPrivateName() {
	if l.start == 0 && l.peek() == '!' {
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}
		l.addComment(l.source[l.start:l.current], false)
		return
	}
	if !isIdentStart(l.peek()) {
		l.error("expected identifier after '#'")
		return
	}
	for !l.isAtEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	l.emit(token.TOKEN_PRIVATE_NAME)
}

// scanNumber consumes numeric literals: decimal, hex, octal, binary,
// exponents, numeric separators, and the bigint suffix. The raw lexeme is
// preserved; the engine never needs the numeric value.
func (l *Lexer) scanNumber(first byte) {
	if first == '0' && !l.isAtEnd() {
		switch l.peek() {
		case 'x', 'X', 'o', 'O', 'b', 'B':
			l.advance()
			for !l.isAtEnd() && (isHexDigit(l.peek()) || l.peek() == '_') {
				l.advance()
			}
			if !l.isAtEnd() && l.peek() == 'n' {
				l.advance()
			}
			l.emit(token.TOKEN_NUMBER_LITERAL)
			return
		}
	}

	for !l.isAtEnd() && (isDigit(l.peek()) || l.peek() == '_') {
		l.advance()
	}
	if !l.isAtEnd() && l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for !l.isAtEnd() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
	}
	if !l.isAtEnd() && (l.peek() == 'e' || l.peek() == 'E') {
		next := l.peekNext()
		if isDigit(next) || next == '+' || next == '-' {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for !l.isAtEnd() && isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	if !l.isAtEnd() && l.peek() == 'n' {
		l.advance()
	}
	l.emit(token.TOKEN_NUMBER_LITERAL)
}

// scanDot handles ., ..., and leading-dot float literals
func (l *Lexer) scanDot() {
	if isDigit(l.peek()) {
		for !l.isAtEnd() && (isDigit(l.peek()) || l.peek() == '_') {
			l.advance()
		}
		if !l.isAtEnd() && (l.peek() == 'e' || l.peek() == 'E') {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for !l.isAtEnd() && isDigit(l.peek()) {
				l.advance()
			}
		}
		l.emit(token.TOKEN_NUMBER_LITERAL)
		return
	}
	if l.peek() == '.' && l.peekNext() == '.' {
		l.advance()
		l.advance()
		l.emit(token.TOKEN_ELLIPSIS)
		return
	}
	l.emit(token.TOKEN_DOT)
}

// scanIdentifier consumes an identifier or keyword
func (l *Lexer) scanIdentifier() {
	for !l.isAtEnd() && isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.source[l.start:l.current]
	if t, ok := token.Keywords[text]; ok {
		l.emit(t)
		return
	}
	l.emit(token.TOKEN_IDENTIFIER)
}

// scanOperator handles multi-character operator tokens with maximal munch
//
//nolint:gocyclo,cyclop // Operator dispatch - complexity is inherent to the pattern
func (l *Lexer) scanOperator(c byte) {
	switch c {
	case '+':
		switch {
		case l.match('+'):
			l.emit(token.TOKEN_INC)
		case l.match('='):
			l.emit(token.TOKEN_PLUS_ASSIGN)
		default:
			l.emit(token.TOKEN_PLUS)
		}
	case '-':
		switch {
		case l.match('-'):
			l.emit(token.TOKEN_DEC)
		case l.match('='):
			l.emit(token.TOKEN_MINUS_ASSIGN)
		default:
			l.emit(token.TOKEN_MINUS)
		}
	case '*':
		switch {
		case l.match('*'):
			if l.match('=') {
				l.emit(token.TOKEN_POW_ASSIGN)
			} else {
				l.emit(token.TOKEN_POW)
			}
		case l.match('='):
			l.emit(token.TOKEN_STAR_ASSIGN)
		default:
			l.emit(token.TOKEN_STAR)
		}
	case '%':
		if l.match('=') {
			l.emit(token.TOKEN_PERCENT_ASSIGN)
		} else {
			l.emit(token.TOKEN_PERCENT)
		}
	case '=':
		switch {
		case l.match('='):
			if l.match('=') {
				l.emit(token.TOKEN_STRICT_EQ)
			} else {
				l.emit(token.TOKEN_EQ)
			}
		case l.match('>'):
			l.emit(token.TOKEN_ARROW)
		default:
			l.emit(token.TOKEN_ASSIGN)
		}
	case '!':
		if l.match('=') {
			if l.match('=') {
				l.emit(token.TOKEN_STRICT_NEQ)
			} else {
				l.emit(token.TOKEN_NEQ)
			}
		} else {
			l.emit(token.TOKEN_BANG)
		}
	case '<':
		switch {
		case l.match('<'):
			if l.match('=') {
				l.emit(token.TOKEN_SHL_ASSIGN)
			} else {
				l.emit(token.TOKEN_SHL)
			}
		case l.match('='):
			l.emit(token.TOKEN_LTE)
		default:
			l.emit(token.TOKEN_LT)
		}
	case '>':
		switch {
		case l.match('>'):
			if l.match('>') {
				if l.match('=') {
					l.emit(token.TOKEN_USHR_ASSIGN)
				} else {
					l.emit(token.TOKEN_USHR)
				}
			} else if l.match('=') {
				l.emit(token.TOKEN_SHR_ASSIGN)
			} else {
				l.emit(token.TOKEN_SHR)
			}
		case l.match('='):
			l.emit(token.TOKEN_GTE)
		default:
			l.emit(token.TOKEN_GT)
		}
	case '&':
		switch {
		case l.match('&'):
			if l.match('=') {
				l.emit(token.TOKEN_AND_ASSIGN)
			} else {
				l.emit(token.TOKEN_AND)
			}
		case l.match('='):
			l.emit(token.TOKEN_AMP_ASSIGN)
		default:
			l.emit(token.TOKEN_AMP)
		}
	case '|':
		switch {
		case l.match('|'):
			if l.match('=') {
				l.emit(token.TOKEN_OR_ASSIGN)
			} else {
				l.emit(token.TOKEN_OR)
			}
		case l.match('='):
			l.emit(token.TOKEN_PIPE_ASSIGN)
		default:
			l.emit(token.TOKEN_PIPE)
		}
	case '^':
		if l.match('=') {
			l.emit(token.TOKEN_CARET_ASSIGN)
		} else {
			l.emit(token.TOKEN_CARET)
		}
	case '?':
		switch {
		case l.match('?'):
			if l.match('=') {
				l.emit(token.TOKEN_NULLISH_ASSIGN)
			} else {
				l.emit(token.TOKEN_NULLISH)
			}
		case l.peek() == '.' && !isDigit(l.peekNext()):
			l.advance()
			l.emit(token.TOKEN_OPT_CHAIN)
		default:
			l.emit(token.TOKEN_QUESTION)
		}
	case ':':
		l.emit(token.TOKEN_COLON)
	default:
		l.error(fmt.Sprintf("unexpected character %q", string(c)))
	}
}

// emit appends a token for the current lexeme, attaching pending trivia
func (l *Lexer) emit(t token.Type) {
	lexeme := l.source[l.start:l.current]
	tok := token.Token{
		Type:          t,
		Lexeme:        lexeme,
		Offset:        l.start,
		End:           l.current,
		Line:          l.line,
		Column:        l.column - len(lexeme),
		NewlineBefore: l.newlineBefore,
		Comments:      l.pendingComments,
	}
	if tok.Column < 1 {
		tok.Column = 1
	}
	l.tokens = append(l.tokens, tok)
	l.pendingComments = nil
	l.newlineBefore = false
	l.prevType = t
	l.hasPrev = true
}

// addComment stores a comment as pending trivia for the next token
func (l *Lexer) addComment(text string, block bool) {
	l.pendingComments = append(l.pendingComments, token.Comment{
		Text:   text,
		Block:  block,
		Line:   l.line,
		Column: l.column,
	})
}

func (l *Lexer) error(message string) {
	l.errors = append(l.errors, LexError{
		Message: message,
		Line:    l.line,
		Column:  l.column,
	})
}

func (l *Lexer) advance() byte {
	c := l.source[l.current]
	l.current++
	l.column++
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.source[l.current] != expected {
		return false
	}
	l.current++
	l.column++
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$' || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
