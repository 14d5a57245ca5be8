// Package token defines the lexical token types for the JavaScript/TypeScript
// surface grammar handled by the graft syntax service.
package token

import (
	"fmt"
	"strings"
)

// Type represents the type of a token in the source grammar
type Type int

const (
	// TOKEN_EOF marks the end of the token stream.
	TOKEN_EOF Type = iota
	// TOKEN_ERROR represents a lexical error encountered during scanning.
	TOKEN_ERROR

	// Literals and identifiers
	TOKEN_IDENTIFIER     // foo, undefined, from, as
	TOKEN_PRIVATE_NAME   // #field
	TOKEN_NUMBER_LITERAL // 42, 0xff, 3.14, 1_000n
	TOKEN_STRING_LITERAL // "hello", 'hello'
	TOKEN_REGEX_LITERAL  // /ab+c/gi
	TOKEN_TRUE           // true
	TOKEN_FALSE          // false
	TOKEN_NULL           // null

	// Template literals
	TOKEN_TEMPLATE_START      // `
	TOKEN_TEMPLATE_CHARS      // raw text inside a template
	TOKEN_TEMPLATE_EXPR_START // ${
	TOKEN_TEMPLATE_EXPR_END   // } (when closing an interpolation)
	TOKEN_TEMPLATE_END        // `

	// Keywords - declarations
	TOKEN_FUNCTION // function
	TOKEN_CLASS    // class
	TOKEN_CONST    // const
	TOKEN_LET      // let
	TOKEN_VAR      // var
	TOKEN_EXTENDS  // extends
	TOKEN_IMPORT   // import
	TOKEN_EXPORT   // export
	TOKEN_DEFAULT  // default

	// Keywords - control flow
	TOKEN_RETURN   // return
	TOKEN_IF       // if
	TOKEN_ELSE     // else
	TOKEN_FOR      // for
	TOKEN_WHILE    // while
	TOKEN_DO       // do
	TOKEN_BREAK    // break
	TOKEN_CONTINUE // continue
	TOKEN_SWITCH   // switch
	TOKEN_CASE     // case
	TOKEN_THROW    // throw
	TOKEN_TRY      // try
	TOKEN_CATCH    // catch
	TOKEN_FINALLY  // finally

	// Keywords - operators and expressions
	TOKEN_NEW        // new
	TOKEN_TYPEOF     // typeof
	TOKEN_INSTANCEOF // instanceof
	TOKEN_IN         // in
	TOKEN_DELETE     // delete
	TOKEN_VOID       // void
	TOKEN_THIS       // this
	TOKEN_SUPER      // super
	TOKEN_ASYNC      // async
	TOKEN_AWAIT      // await
	TOKEN_YIELD      // yield

	// Punctuation
	TOKEN_LPAREN    // (
	TOKEN_RPAREN    // )
	TOKEN_LBRACE    // {
	TOKEN_RBRACE    // }
	TOKEN_LBRACKET  // [
	TOKEN_RBRACKET  // ]
	TOKEN_SEMICOLON // ;
	TOKEN_COMMA     // ,
	TOKEN_DOT       // .
	TOKEN_ELLIPSIS  // ...
	TOKEN_COLON     // :
	TOKEN_QUESTION  // ?
	TOKEN_ARROW     // =>
	TOKEN_AT        // @

	// Operators - arithmetic and bitwise
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %
	TOKEN_POW     // **
	TOKEN_AMP     // &
	TOKEN_PIPE    // |
	TOKEN_CARET   // ^
	TOKEN_TILDE   // ~
	TOKEN_SHL     // <<
	TOKEN_SHR     // >>
	TOKEN_USHR    // >>>

	// Operators - comparison and logic
	TOKEN_LT         // <
	TOKEN_GT         // >
	TOKEN_LTE        // <=
	TOKEN_GTE        // >=
	TOKEN_EQ         // ==
	TOKEN_NEQ        // !=
	TOKEN_STRICT_EQ  // ===
	TOKEN_STRICT_NEQ // !==
	TOKEN_AND        // &&
	TOKEN_OR         // ||
	TOKEN_NULLISH    // ??
	TOKEN_BANG       // !
	TOKEN_OPT_CHAIN  // ?.

	// Operators - assignment and update
	TOKEN_ASSIGN         // =
	TOKEN_PLUS_ASSIGN    // +=
	TOKEN_MINUS_ASSIGN   // -=
	TOKEN_STAR_ASSIGN    // *=
	TOKEN_SLASH_ASSIGN   // /=
	TOKEN_PERCENT_ASSIGN // %=
	TOKEN_POW_ASSIGN     // **=
	TOKEN_SHL_ASSIGN     // <<=
	TOKEN_SHR_ASSIGN     // >>=
	TOKEN_USHR_ASSIGN    // >>>=
	TOKEN_AMP_ASSIGN     // &=
	TOKEN_PIPE_ASSIGN    // |=
	TOKEN_CARET_ASSIGN   // ^=
	TOKEN_AND_ASSIGN     // &&=
	TOKEN_OR_ASSIGN      // ||=
	TOKEN_NULLISH_ASSIGN // ??=
	TOKEN_INC            // ++
	TOKEN_DEC            // --
)

// Names maps token types to their string representations
var Names = map[Type]string{
	TOKEN_EOF:                 "EOF",
	TOKEN_ERROR:               "ERROR",
	TOKEN_IDENTIFIER:          "IDENTIFIER",
	TOKEN_PRIVATE_NAME:        "PRIVATE_NAME",
	TOKEN_NUMBER_LITERAL:      "NUMBER_LITERAL",
	TOKEN_STRING_LITERAL:      "STRING_LITERAL",
	TOKEN_REGEX_LITERAL:       "REGEX_LITERAL",
	TOKEN_TRUE:                "TRUE",
	TOKEN_FALSE:               "FALSE",
	TOKEN_NULL:                "NULL",
	TOKEN_TEMPLATE_START:      "TEMPLATE_START",
	TOKEN_TEMPLATE_CHARS:      "TEMPLATE_CHARS",
	TOKEN_TEMPLATE_EXPR_START: "TEMPLATE_EXPR_START",
	TOKEN_TEMPLATE_EXPR_END:   "TEMPLATE_EXPR_END",
	TOKEN_TEMPLATE_END:        "TEMPLATE_END",
	TOKEN_FUNCTION:            "FUNCTION",
	TOKEN_CLASS:               "CLASS",
	TOKEN_CONST:               "CONST",
	TOKEN_LET:                 "LET",
	TOKEN_VAR:                 "VAR",
	TOKEN_EXTENDS:             "EXTENDS",
	TOKEN_IMPORT:              "IMPORT",
	TOKEN_EXPORT:              "EXPORT",
	TOKEN_DEFAULT:             "DEFAULT",
	TOKEN_RETURN:              "RETURN",
	TOKEN_IF:                  "IF",
	TOKEN_ELSE:                "ELSE",
	TOKEN_FOR:                 "FOR",
	TOKEN_WHILE:               "WHILE",
	TOKEN_DO:                  "DO",
	TOKEN_BREAK:               "BREAK",
	TOKEN_CONTINUE:            "CONTINUE",
	TOKEN_SWITCH:              "SWITCH",
	TOKEN_CASE:                "CASE",
	TOKEN_THROW:               "THROW",
	TOKEN_TRY:                 "TRY",
	TOKEN_CATCH:               "CATCH",
	TOKEN_FINALLY:             "FINALLY",
	TOKEN_NEW:                 "NEW",
	TOKEN_TYPEOF:              "TYPEOF",
	TOKEN_INSTANCEOF:          "INSTANCEOF",
	TOKEN_IN:                  "IN",
	TOKEN_DELETE:              "DELETE",
	TOKEN_VOID:                "VOID",
	TOKEN_THIS:                "THIS",
	TOKEN_SUPER:               "SUPER",
	TOKEN_ASYNC:               "ASYNC",
	TOKEN_AWAIT:               "AWAIT",
	TOKEN_YIELD:               "YIELD",
	TOKEN_LPAREN:              "LPAREN",
	TOKEN_RPAREN:              "RPAREN",
	TOKEN_LBRACE:              "LBRACE",
	TOKEN_RBRACE:              "RBRACE",
	TOKEN_LBRACKET:            "LBRACKET",
	TOKEN_RBRACKET:            "RBRACKET",
	TOKEN_SEMICOLON:           "SEMICOLON",
	TOKEN_COMMA:               "COMMA",
	TOKEN_DOT:                 "DOT",
	TOKEN_ELLIPSIS:            "ELLIPSIS",
	TOKEN_COLON:               "COLON",
	TOKEN_QUESTION:            "QUESTION",
	TOKEN_ARROW:               "ARROW",
	TOKEN_AT:                  "AT",
	TOKEN_PLUS:                "PLUS",
	TOKEN_MINUS:               "MINUS",
	TOKEN_STAR:                "STAR",
	TOKEN_SLASH:               "SLASH",
	TOKEN_PERCENT:             "PERCENT",
	TOKEN_POW:                 "POW",
	TOKEN_AMP:                 "AMP",
	TOKEN_PIPE:                "PIPE",
	TOKEN_CARET:               "CARET",
	TOKEN_TILDE:               "TILDE",
	TOKEN_SHL:                 "SHL",
	TOKEN_SHR:                 "SHR",
	TOKEN_USHR:                "USHR",
	TOKEN_LT:                  "LT",
	TOKEN_GT:                  "GT",
	TOKEN_LTE:                 "LTE",
	TOKEN_GTE:                 "GTE",
	TOKEN_EQ:                  "EQ",
	TOKEN_NEQ:                 "NEQ",
	TOKEN_STRICT_EQ:           "STRICT_EQ",
	TOKEN_STRICT_NEQ:          "STRICT_NEQ",
	TOKEN_AND:                 "AND",
	TOKEN_OR:                  "OR",
	TOKEN_NULLISH:             "NULLISH",
	TOKEN_BANG:                "BANG",
	TOKEN_OPT_CHAIN:           "OPT_CHAIN",
	TOKEN_ASSIGN:              "ASSIGN",
	TOKEN_PLUS_ASSIGN:         "PLUS_ASSIGN",
	TOKEN_MINUS_ASSIGN:        "MINUS_ASSIGN",
	TOKEN_STAR_ASSIGN:         "STAR_ASSIGN",
	TOKEN_SLASH_ASSIGN:        "SLASH_ASSIGN",
	TOKEN_PERCENT_ASSIGN:      "PERCENT_ASSIGN",
	TOKEN_POW_ASSIGN:          "POW_ASSIGN",
	TOKEN_SHL_ASSIGN:          "SHL_ASSIGN",
	TOKEN_SHR_ASSIGN:          "SHR_ASSIGN",
	TOKEN_USHR_ASSIGN:         "USHR_ASSIGN",
	TOKEN_AMP_ASSIGN:          "AMP_ASSIGN",
	TOKEN_PIPE_ASSIGN:         "PIPE_ASSIGN",
	TOKEN_CARET_ASSIGN:        "CARET_ASSIGN",
	TOKEN_AND_ASSIGN:          "AND_ASSIGN",
	TOKEN_OR_ASSIGN:           "OR_ASSIGN",
	TOKEN_NULLISH_ASSIGN:      "NULLISH_ASSIGN",
	TOKEN_INC:                 "INC",
	TOKEN_DEC:                 "DEC",
}

// String returns the string representation of a token type
func (t Type) String() string {
	if name, ok := Names[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", t)
}

// Keywords maps reserved words to their token types. Contextual keywords
// (from, as, of, get, set, static) stay plain identifiers; the parser
// recognizes them by lexeme.
var Keywords = map[string]Type{
	"function":   TOKEN_FUNCTION,
	"class":      TOKEN_CLASS,
	"const":      TOKEN_CONST,
	"let":        TOKEN_LET,
	"var":        TOKEN_VAR,
	"extends":    TOKEN_EXTENDS,
	"import":     TOKEN_IMPORT,
	"export":     TOKEN_EXPORT,
	"default":    TOKEN_DEFAULT,
	"return":     TOKEN_RETURN,
	"if":         TOKEN_IF,
	"else":       TOKEN_ELSE,
	"for":        TOKEN_FOR,
	"while":      TOKEN_WHILE,
	"do":         TOKEN_DO,
	"break":      TOKEN_BREAK,
	"continue":   TOKEN_CONTINUE,
	"switch":     TOKEN_SWITCH,
	"case":       TOKEN_CASE,
	"throw":      TOKEN_THROW,
	"try":        TOKEN_TRY,
	"catch":      TOKEN_CATCH,
	"finally":    TOKEN_FINALLY,
	"new":        TOKEN_NEW,
	"typeof":     TOKEN_TYPEOF,
	"instanceof": TOKEN_INSTANCEOF,
	"in":         TOKEN_IN,
	"delete":     TOKEN_DELETE,
	"void":       TOKEN_VOID,
	"this":       TOKEN_THIS,
	"super":      TOKEN_SUPER,
	"async":      TOKEN_ASYNC,
	"await":      TOKEN_AWAIT,
	"yield":      TOKEN_YIELD,
	"true":       TOKEN_TRUE,
	"false":      TOKEN_FALSE,
	"null":       TOKEN_NULL,
}

// Comment is a single comment scanned from the source, attached as leading
// trivia to the token that follows it.
type Comment struct {
	Text   string // Comment body without the // or /* */ markers
	Block  bool   // true for /* */ comments
	Line   int
	Column int
}

// HasTag reports whether the comment contains tag as a whole word, so
// "@inline" does not match "@inlineable".
func (c Comment) HasTag(tag string) bool {
	text := c.Text
	for {
		i := strings.Index(text, tag)
		if i < 0 {
			return false
		}
		rest := text[i+len(tag):]
		if rest == "" || !isTagWordChar(rest[0]) {
			return true
		}
		text = rest
	}
}

func isTagWordChar(ch byte) bool {
	return ch == '_' || ch == '$' ||
		(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}

// Token represents a single lexical token
type Token struct {
	Type          Type
	Lexeme        string    // Raw text of the token
	Offset        int       // Byte offset of the first character
	End           int       // Byte offset just past the last character
	Line          int       // Line number (1-indexed)
	Column        int       // Column number (1-indexed)
	NewlineBefore bool      // A line terminator appeared before this token
	Comments      []Comment // Leading comment trivia
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s '%s' at %d:%d", t.Type.String(), t.Lexeme, t.Line, t.Column)
}
