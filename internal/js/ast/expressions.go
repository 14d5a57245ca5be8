package ast

import "strings"

// Ident represents a variable or binding reference
type Ident struct {
	Name string
	Loc  SourceLocation
}

func (i *Ident) node()     {}
func (i *Ident) exprNode() {}

// Location returns the source location of the identifier in the AST.
func (i *Ident) Location() SourceLocation {
	return i.Loc
}

// PrivateName represents a #name class member reference
type PrivateName struct {
	Name string // Includes the leading #
	Loc  SourceLocation
}

func (p *PrivateName) node()     {}
func (p *PrivateName) exprNode() {}

// Location returns the source location of the private name in the AST.
func (p *PrivateName) Location() SourceLocation {
	return p.Loc
}

// NumberLit represents a numeric literal. The raw lexeme is preserved so
// hex, binary, separator, and bigint forms survive a round trip.
type NumberLit struct {
	Raw string
	Loc SourceLocation
}

func (n *NumberLit) node()     {}
func (n *NumberLit) exprNode() {}

// Location returns the source location of the number literal in the AST.
func (n *NumberLit) Location() SourceLocation {
	return n.Loc
}

// StringLit represents a string literal. Raw includes the quotes.
type StringLit struct {
	Raw string
	Loc SourceLocation
}

func (s *StringLit) node()     {}
func (s *StringLit) exprNode() {}

// Location returns the source location of the string literal in the AST.
func (s *StringLit) Location() SourceLocation {
	return s.Loc
}

// Value returns the string content with quotes stripped and simple quote
// and backslash escapes resolved. Module specifiers never need more.
func (s *StringLit) Value() string {
	if len(s.Raw) < 2 {
		return s.Raw
	}
	inner := s.Raw[1 : len(s.Raw)-1]
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	var b strings.Builder
	for i := 0; i < len(inner); i++ {
		if inner[i] == '\\' && i+1 < len(inner) {
			i++
			switch inner[i] {
			case '\\', '\'', '"', '`':
				b.WriteByte(inner[i])
			default:
				b.WriteByte('\\')
				b.WriteByte(inner[i])
			}
			continue
		}
		b.WriteByte(inner[i])
	}
	return b.String()
}

// BoolLit represents true or false
type BoolLit struct {
	Value bool
	Loc   SourceLocation
}

func (b *BoolLit) node()     {}
func (b *BoolLit) exprNode() {}

// Location returns the source location of the boolean literal in the AST.
func (b *BoolLit) Location() SourceLocation {
	return b.Loc
}

// NullLit represents the null literal
type NullLit struct {
	Loc SourceLocation
}

func (n *NullLit) node()     {}
func (n *NullLit) exprNode() {}

// Location returns the source location of the null literal in the AST.
func (n *NullLit) Location() SourceLocation {
	return n.Loc
}

// RegexLit represents a regular expression literal including flags
type RegexLit struct {
	Raw string
	Loc SourceLocation
}

func (r *RegexLit) node()     {}
func (r *RegexLit) exprNode() {}

// Location returns the source location of the regex literal in the AST.
func (r *RegexLit) Location() SourceLocation {
	return r.Loc
}

// TemplateLit represents a template literal. Quasis holds the raw text
// segments; len(Quasis) is always len(Exprs)+1.
type TemplateLit struct {
	Quasis []string
	Exprs  []ExprNode
	Loc    SourceLocation
}

func (t *TemplateLit) node()     {}
func (t *TemplateLit) exprNode() {}

// Location returns the source location of the template literal in the AST.
func (t *TemplateLit) Location() SourceLocation {
	return t.Loc
}

// TaggedTemplateExpr represents tag`...` invocations
type TaggedTemplateExpr struct {
	Tag   ExprNode
	Quasi *TemplateLit
	Loc   SourceLocation
}

func (t *TaggedTemplateExpr) node()     {}
func (t *TaggedTemplateExpr) exprNode() {}

// Location returns the source location of the tagged template in the AST.
func (t *TaggedTemplateExpr) Location() SourceLocation {
	return t.Loc
}

// BinaryExpr represents a binary operation (a + b, a instanceof b, etc.)
type BinaryExpr struct {
	Left  ExprNode
	Op    string
	Right ExprNode
	Loc   SourceLocation
}

func (b *BinaryExpr) node()     {}
func (b *BinaryExpr) exprNode() {}

// Location returns the source location of the binary expression in the AST.
func (b *BinaryExpr) Location() SourceLocation {
	return b.Loc
}

// LogicalExpr represents &&, ||, and ?? operations
type LogicalExpr struct {
	Left  ExprNode
	Op    string
	Right ExprNode
	Loc   SourceLocation
}

func (l *LogicalExpr) node()     {}
func (l *LogicalExpr) exprNode() {}

// Location returns the source location of the logical expression in the AST.
func (l *LogicalExpr) Location() SourceLocation {
	return l.Loc
}

// AssignExpr represents assignment, including compound operators. It also
// serves as the default-value form inside destructuring patterns.
type AssignExpr struct {
	Target ExprNode
	Op     string // "=", "+=", "??=", ...
	Value  ExprNode
	Loc    SourceLocation
}

func (a *AssignExpr) node()     {}
func (a *AssignExpr) exprNode() {}

// Location returns the source location of the assignment in the AST.
func (a *AssignExpr) Location() SourceLocation {
	return a.Loc
}

// UnaryExpr represents prefix operators: ! - + ~ typeof void delete
type UnaryExpr struct {
	Op      string
	Operand ExprNode
	Loc     SourceLocation
}

func (u *UnaryExpr) node()     {}
func (u *UnaryExpr) exprNode() {}

// Location returns the source location of the unary expression in the AST.
func (u *UnaryExpr) Location() SourceLocation {
	return u.Loc
}

// UpdateExpr represents ++ and -- in prefix or postfix position
type UpdateExpr struct {
	Op      string // "++" or "--"
	Prefix  bool
	Operand ExprNode
	Loc     SourceLocation
}

func (u *UpdateExpr) node()     {}
func (u *UpdateExpr) exprNode() {}

// Location returns the source location of the update expression in the AST.
func (u *UpdateExpr) Location() SourceLocation {
	return u.Loc
}

// CondExpr represents the ternary conditional operator
type CondExpr struct {
	Cond ExprNode
	Then ExprNode
	Else ExprNode
	Loc  SourceLocation
}

func (c *CondExpr) node()     {}
func (c *CondExpr) exprNode() {}

// Location returns the source location of the conditional in the AST.
func (c *CondExpr) Location() SourceLocation {
	return c.Loc
}

// CallExpr represents a function call. Pure records a leading __PURE__
// annotation so the marker survives tree rewrites. Inline records a leading
// inline tag in the call's own trivia; it is consumed by the transform pass
// and never reprinted.
type CallExpr struct {
	Callee   ExprNode
	Args     []ExprNode
	Optional bool // ?.() call
	Pure     bool
	Inline   bool
	Loc      SourceLocation
}

func (c *CallExpr) node()     {}
func (c *CallExpr) exprNode() {}

// Location returns the source location of the call expression in the AST.
func (c *CallExpr) Location() SourceLocation {
	return c.Loc
}

// NewExpr represents a new expression. Args is nil for new with no
// argument list.
type NewExpr struct {
	Callee   ExprNode
	Args     []ExprNode
	TypeArgs string // Raw constructor type arguments (<K, V>), "" if absent
	Pure     bool
	Loc      SourceLocation
}

func (n *NewExpr) node()     {}
func (n *NewExpr) exprNode() {}

// Location returns the source location of the new expression in the AST.
func (n *NewExpr) Location() SourceLocation {
	return n.Loc
}

// MemberExpr represents property access with a static name (a.b, a?.b).
// Property keeps the leading # for private members.
type MemberExpr struct {
	Object   ExprNode
	Property string
	Optional bool
	Loc      SourceLocation
}

func (m *MemberExpr) node()     {}
func (m *MemberExpr) exprNode() {}

// Location returns the source location of the member expression in the AST.
func (m *MemberExpr) Location() SourceLocation {
	return m.Loc
}

// IndexExpr represents computed access (a[expr], a?.[expr])
type IndexExpr struct {
	Object   ExprNode
	Index    ExprNode
	Optional bool
	Loc      SourceLocation
}

func (i *IndexExpr) node()     {}
func (i *IndexExpr) exprNode() {}

// Location returns the source location of the index expression in the AST.
func (i *IndexExpr) Location() SourceLocation {
	return i.Loc
}

// ArrayLit represents an array literal or array destructuring pattern.
// A nil element is an elision hole.
type ArrayLit struct {
	Elements []ExprNode
	Loc      SourceLocation
}

func (a *ArrayLit) node()     {}
func (a *ArrayLit) exprNode() {}

// Location returns the source location of the array literal in the AST.
func (a *ArrayLit) Location() SourceLocation {
	return a.Loc
}

// PropKind classifies an object literal property
type PropKind int

const (
	// PropInit is a plain key: value property
	PropInit PropKind = iota
	// PropMethod is method shorthand
	PropMethod
	// PropGet is a get accessor
	PropGet
	// PropSet is a set accessor
	PropSet
	// PropSpread is a ...spread entry
	PropSpread
)

// ObjectProp represents one entry in an object literal or object pattern.
// For PropSpread, Key is nil and Value holds the spread operand. For
// shorthand properties, Value aliases the same name as Key.
type ObjectProp struct {
	Kind      PropKind
	Key       ExprNode
	Value     ExprNode
	Computed  bool
	Shorthand bool
	Loc       SourceLocation
}

// ObjectLit represents an object literal or object destructuring pattern
type ObjectLit struct {
	Props []*ObjectProp
	Loc   SourceLocation
}

func (o *ObjectLit) node()     {}
func (o *ObjectLit) exprNode() {}

// Location returns the source location of the object literal in the AST.
func (o *ObjectLit) Location() SourceLocation {
	return o.Loc
}

// FuncExpr represents a function expression, including object literal and
// class method bodies
type FuncExpr struct {
	Name       string // Optional name, "" for anonymous
	TypeParams string
	Params     []*Param
	ReturnType string
	Body       *BlockStmt
	Async      bool
	Generator  bool
	Loc        SourceLocation
}

func (f *FuncExpr) node()     {}
func (f *FuncExpr) exprNode() {}

// Location returns the source location of the function expression in the AST.
func (f *FuncExpr) Location() SourceLocation {
	return f.Loc
}

// ArrowExpr represents an arrow function. Exactly one of Body and ExprBody
// is set: Body for a braced block, ExprBody for a bare expression body.
type ArrowExpr struct {
	TypeParams string
	Params     []*Param
	ReturnType string
	Body       *BlockStmt
	ExprBody   ExprNode
	Async      bool
	Loc        SourceLocation
}

func (a *ArrowExpr) node()     {}
func (a *ArrowExpr) exprNode() {}

// Location returns the source location of the arrow function in the AST.
func (a *ArrowExpr) Location() SourceLocation {
	return a.Loc
}

// SpreadExpr represents ...expr in call arguments, array literals, and
// patterns (where it is the rest element)
type SpreadExpr struct {
	Value ExprNode
	Loc   SourceLocation
}

func (s *SpreadExpr) node()     {}
func (s *SpreadExpr) exprNode() {}

// Location returns the source location of the spread expression in the AST.
func (s *SpreadExpr) Location() SourceLocation {
	return s.Loc
}

// SeqExpr represents comma-sequenced expressions
type SeqExpr struct {
	Exprs []ExprNode
	Loc   SourceLocation
}

func (s *SeqExpr) node()     {}
func (s *SeqExpr) exprNode() {}

// Location returns the source location of the sequence expression in the AST.
func (s *SeqExpr) Location() SourceLocation {
	return s.Loc
}

// ParenExpr represents a parenthesized expression. Parentheses from the
// source are kept as nodes so printing never has to reconstruct them.
type ParenExpr struct {
	Expr ExprNode
	Loc  SourceLocation
}

func (p *ParenExpr) node()     {}
func (p *ParenExpr) exprNode() {}

// Location returns the source location of the parenthesized expression in the AST.
func (p *ParenExpr) Location() SourceLocation {
	return p.Loc
}

// NonNullExpr represents the TypeScript non-null assertion (expr!)
type NonNullExpr struct {
	Expr ExprNode
	Loc  SourceLocation
}

func (n *NonNullExpr) node()     {}
func (n *NonNullExpr) exprNode() {}

// Location returns the source location of the non-null assertion in the AST.
func (n *NonNullExpr) Location() SourceLocation {
	return n.Loc
}

// TSAsExpr represents TypeScript "as" and "satisfies" expressions with the
// type kept as raw text
type TSAsExpr struct {
	Expr ExprNode
	Op   string // "as" or "satisfies"
	Type string
	Loc  SourceLocation
}

func (t *TSAsExpr) node()     {}
func (t *TSAsExpr) exprNode() {}

// Location returns the source location of the as-expression in the AST.
func (t *TSAsExpr) Location() SourceLocation {
	return t.Loc
}

// ThisExpr represents the this keyword
type ThisExpr struct {
	Loc SourceLocation
}

func (t *ThisExpr) node()     {}
func (t *ThisExpr) exprNode() {}

// Location returns the source location of the this expression in the AST.
func (t *ThisExpr) Location() SourceLocation {
	return t.Loc
}

// SuperExpr represents the super keyword in calls and member access
type SuperExpr struct {
	Loc SourceLocation
}

func (s *SuperExpr) node()     {}
func (s *SuperExpr) exprNode() {}

// Location returns the source location of the super expression in the AST.
func (s *SuperExpr) Location() SourceLocation {
	return s.Loc
}

// AwaitExpr represents an await expression
type AwaitExpr struct {
	Value ExprNode
	Loc   SourceLocation
}

func (a *AwaitExpr) node()     {}
func (a *AwaitExpr) exprNode() {}

// Location returns the source location of the await expression in the AST.
func (a *AwaitExpr) Location() SourceLocation {
	return a.Loc
}

// YieldExpr represents a yield expression; Value may be nil
type YieldExpr struct {
	Value    ExprNode
	Delegate bool // yield*
	Loc      SourceLocation
}

func (y *YieldExpr) node()     {}
func (y *YieldExpr) exprNode() {}

// Location returns the source location of the yield expression in the AST.
func (y *YieldExpr) Location() SourceLocation {
	return y.Loc
}

// ClassExpr represents a class expression
type ClassExpr struct {
	Name         string
	TypeParams   string
	Extends      ExprNode
	ExtendsTypes string
	Implements   string
	Members      []*ClassMember
	Loc          SourceLocation
}

func (c *ClassExpr) node()     {}
func (c *ClassExpr) exprNode() {}

// Location returns the source location of the class expression in the AST.
func (c *ClassExpr) Location() SourceLocation {
	return c.Loc
}
