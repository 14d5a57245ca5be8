package parser

import (
	"strings"

	"github.com/krispya/graft/internal/js/token"
)

// typeContext selects the termination rules for a raw type capture
type typeContext int

const (
	// typeAnnotation covers variable, parameter, field, and return
	// annotations, which end at declaration punctuation
	typeAnnotation typeContext = iota
	// typeArrowReturn is an arrow function's return annotation, where a
	// top-level => belongs to the arrow, not to a function type
	typeArrowReturn
	// typeCast follows as/satisfies, where any expression operator ends
	// the type
	typeCast
)

// captureType consumes a TypeScript type as raw text. Types are not
// modeled; the parser only needs to know where they end. Brackets and
// angle brackets are tracked so punctuation inside object and generic
// types never terminates the capture. The boolean result reports that a
// compound token (>=, >>=, >>>=) closed the type argument list and left
// an assignment for the caller.
//
//nolint:gocyclo,cyclop // Termination rules differ per token and context
func (p *Parser) captureType(ctx typeContext) (string, bool) {
	startTok := p.peek()
	start := startTok.Offset
	end := start
	depth := 0
	angle := 0
	var last token.Token

	for !p.isAtEnd() {
		t := p.peek()
		if depth == 0 && angle == 0 {
			switch t.Type {
			case token.TOKEN_COMMA, token.TOKEN_RPAREN, token.TOKEN_RBRACKET,
				token.TOKEN_SEMICOLON, token.TOKEN_RBRACE, token.TOKEN_ASSIGN:
				return p.typeText(start, end), false
			case token.TOKEN_ARROW:
				if ctx == typeArrowReturn {
					return p.typeText(start, end), false
				}
			case token.TOKEN_LBRACE:
				if typeComplete(last) {
					return p.typeText(start, end), false
				}
			}
			if ctx == typeCast && castTerminator(t.Type) {
				return p.typeText(start, end), false
			}
			if t.Offset > start && t.NewlineBefore && typeComplete(last) && !typeContinues(t) {
				return p.typeText(start, end), false
			}
		}
		switch t.Type {
		case token.TOKEN_LPAREN, token.TOKEN_LBRACE, token.TOKEN_LBRACKET,
			token.TOKEN_TEMPLATE_EXPR_START:
			depth++
		case token.TOKEN_RPAREN, token.TOKEN_RBRACE, token.TOKEN_RBRACKET,
			token.TOKEN_TEMPLATE_EXPR_END:
			if depth > 0 {
				depth--
			}
		case token.TOKEN_LT:
			angle++
		case token.TOKEN_GT:
			if angle > 0 {
				angle--
			}
		case token.TOKEN_SHR:
			if angle >= 2 {
				angle -= 2
			} else {
				angle = 0
			}
		case token.TOKEN_USHR:
			if angle >= 3 {
				angle -= 3
			} else {
				angle = 0
			}
		case token.TOKEN_GTE:
			if angle > 0 {
				angle--
				if angle == 0 && depth == 0 {
					p.advance()
					return p.typeText(start, t.Offset+1), true
				}
			}
		case token.TOKEN_SHR_ASSIGN:
			if angle >= 2 {
				angle -= 2
				if angle == 0 && depth == 0 {
					p.advance()
					return p.typeText(start, t.Offset+2), true
				}
			}
		case token.TOKEN_USHR_ASSIGN:
			if angle >= 3 {
				angle -= 3
				if angle == 0 && depth == 0 {
					p.advance()
					return p.typeText(start, t.Offset+3), true
				}
			}
		}
		last = t
		p.advance()
		end = t.End
	}
	return p.typeText(start, end), false
}

// captureTypeParams consumes a balanced <...> group and returns it raw,
// including the angle brackets
func (p *Parser) captureTypeParams() string {
	startTok := p.peek()
	if startTok.Type != token.TOKEN_LT {
		return ""
	}
	angle := 0
	end := startTok.Offset
	for !p.isAtEnd() {
		t := p.peek()
		switch t.Type {
		case token.TOKEN_LT:
			angle++
		case token.TOKEN_GT:
			angle--
		case token.TOKEN_SHR:
			angle -= 2
		case token.TOKEN_USHR:
			angle -= 3
		}
		p.advance()
		end = t.End
		if angle <= 0 {
			break
		}
	}
	return p.source[startTok.Offset:end]
}

func (p *Parser) typeText(start, end int) string {
	if end <= start {
		return ""
	}
	return strings.TrimSpace(p.source[start:end])
}

// typeComplete reports whether a token can end a type, which decides if a
// following brace or line break terminates the capture
func typeComplete(t token.Token) bool {
	switch t.Type {
	case token.TOKEN_IDENTIFIER, token.TOKEN_STRING_LITERAL, token.TOKEN_NUMBER_LITERAL,
		token.TOKEN_TRUE, token.TOKEN_FALSE, token.TOKEN_NULL, token.TOKEN_VOID,
		token.TOKEN_THIS, token.TOKEN_GT, token.TOKEN_RBRACE, token.TOKEN_RBRACKET,
		token.TOKEN_RPAREN, token.TOKEN_TEMPLATE_END:
		return true
	}
	return false
}

// typeContinues reports whether a token on a new line extends the type on
// the previous line
func typeContinues(t token.Token) bool {
	switch t.Type {
	case token.TOKEN_PIPE, token.TOKEN_AMP, token.TOKEN_DOT, token.TOKEN_ARROW,
		token.TOKEN_LT, token.TOKEN_LBRACKET, token.TOKEN_QUESTION, token.TOKEN_EXTENDS:
		return true
	case token.TOKEN_IDENTIFIER:
		return t.Lexeme == "extends" || t.Lexeme == "is" || t.Lexeme == "asserts"
	}
	return false
}

// castTerminator reports whether a token ends a cast type because it can
// only be an expression operator
func castTerminator(t token.Type) bool {
	switch t {
	case token.TOKEN_PLUS, token.TOKEN_MINUS, token.TOKEN_STAR, token.TOKEN_SLASH,
		token.TOKEN_PERCENT, token.TOKEN_POW, token.TOKEN_EQ, token.TOKEN_NEQ,
		token.TOKEN_STRICT_EQ, token.TOKEN_STRICT_NEQ, token.TOKEN_GT, token.TOKEN_GTE,
		token.TOKEN_LTE, token.TOKEN_SHL, token.TOKEN_SHR, token.TOKEN_USHR,
		token.TOKEN_AND, token.TOKEN_OR, token.TOKEN_NULLISH, token.TOKEN_QUESTION,
		token.TOKEN_COLON, token.TOKEN_INSTANCEOF, token.TOKEN_IN, token.TOKEN_INC,
		token.TOKEN_DEC, token.TOKEN_OPT_CHAIN, token.TOKEN_BANG:
		return true
	}
	return false
}
