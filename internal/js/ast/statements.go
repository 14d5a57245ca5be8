package ast

import "github.com/krispya/graft/internal/js/token"

// VarDecl represents a single declarator within a declaration statement.
// Target is an *Ident for plain bindings or an *ArrayLit/*ObjectLit for
// destructuring patterns. Type holds the raw TypeScript annotation text,
// empty for plain JavaScript.
type VarDecl struct {
	Target ExprNode
	Type   string
	Init   ExprNode // nil when declared without initializer
	Loc    SourceLocation
}

// VarDeclStmt represents a const/let/var declaration statement
type VarDeclStmt struct {
	Kind    string // "const", "let", or "var"
	Decls   []*VarDecl
	Export  bool
	Declare bool // TypeScript "declare" modifier
	Leading []token.Comment
	Loc     SourceLocation
}

func (v *VarDeclStmt) node()     {}
func (v *VarDeclStmt) stmtNode() {}

// Location returns the source location of the declaration statement in the AST.
func (v *VarDeclStmt) Location() SourceLocation {
	return v.Loc
}

// Param represents a function parameter
type Param struct {
	Pattern   ExprNode // *Ident, *ArrayLit, or *ObjectLit
	Type      string   // Raw TypeScript annotation, "" if absent
	Default   ExprNode // nil when no default value
	Rest      bool     // ...rest parameter
	Optional  bool     // TypeScript optional marker (x?)
	Modifiers []string // TypeScript constructor parameter properties (private, readonly, ...)
	Loc       SourceLocation
}

// FunctionDeclStmt represents a function declaration
type FunctionDeclStmt struct {
	Name          string
	TypeParams    string // Raw TypeScript type parameter list including angle brackets
	Params        []*Param
	ReturnType    string // Raw TypeScript return annotation, "" if absent
	Body          *BlockStmt
	Async         bool
	Generator     bool
	Export        bool
	ExportDefault bool
	Leading       []token.Comment
	Loc           SourceLocation
}

func (f *FunctionDeclStmt) node()     {}
func (f *FunctionDeclStmt) stmtNode() {}

// Location returns the source location of the function declaration in the AST.
func (f *FunctionDeclStmt) Location() SourceLocation {
	return f.Loc
}

// ReturnStmt represents a return statement
type ReturnStmt struct {
	Value   ExprNode // nil for a bare return
	Leading []token.Comment
	Loc     SourceLocation
}

func (r *ReturnStmt) node()     {}
func (r *ReturnStmt) stmtNode() {}

// Location returns the source location of the return statement in the AST.
func (r *ReturnStmt) Location() SourceLocation {
	return r.Loc
}

// IfStmt represents an if/else statement. Then and Else are arbitrary
// statements so single-statement branches without braces survive a
// parse/print round trip; Else is nil when absent and holds another
// *IfStmt for else-if chains.
type IfStmt struct {
	Cond    ExprNode
	Then    StmtNode
	Else    StmtNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (i *IfStmt) node()     {}
func (i *IfStmt) stmtNode() {}

// Location returns the source location of the if statement in the AST.
func (i *IfStmt) Location() SourceLocation {
	return i.Loc
}

// BlockStmt represents a braced block of statements
type BlockStmt struct {
	Statements []StmtNode
	Trailing   []token.Comment // Comments before the closing brace
	Loc        SourceLocation
}

func (b *BlockStmt) node()     {}
func (b *BlockStmt) stmtNode() {}

// Location returns the source location of the block statement in the AST.
func (b *BlockStmt) Location() SourceLocation {
	return b.Loc
}

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	Expr    ExprNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (e *ExprStmt) node()     {}
func (e *ExprStmt) stmtNode() {}

// Location returns the source location of the expression statement in the AST.
func (e *ExprStmt) Location() SourceLocation {
	return e.Loc
}

// ForStmt represents a classic three-clause for loop. Init is either a
// *VarDeclStmt or an *ExprStmt; any clause may be nil.
type ForStmt struct {
	Init    StmtNode
	Cond    ExprNode
	Update  ExprNode
	Body    StmtNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (f *ForStmt) node()     {}
func (f *ForStmt) stmtNode() {}

// Location returns the source location of the for statement in the AST.
func (f *ForStmt) Location() SourceLocation {
	return f.Loc
}

// ForInStmt represents for-in and for-of loops. Decl is "const", "let",
// "var", or "" when the target is a bare reference.
type ForInStmt struct {
	Decl     string
	Target   ExprNode
	Of       bool // true for for-of, false for for-in
	Await    bool // for await (... of ...)
	Iterable ExprNode
	Body     StmtNode
	Leading  []token.Comment
	Loc      SourceLocation
}

func (f *ForInStmt) node()     {}
func (f *ForInStmt) stmtNode() {}

// Location returns the source location of the for-in statement in the AST.
func (f *ForInStmt) Location() SourceLocation {
	return f.Loc
}

// WhileStmt represents a while loop
type WhileStmt struct {
	Cond    ExprNode
	Body    StmtNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (w *WhileStmt) node()     {}
func (w *WhileStmt) stmtNode() {}

// Location returns the source location of the while statement in the AST.
func (w *WhileStmt) Location() SourceLocation {
	return w.Loc
}

// DoWhileStmt represents a do/while loop
type DoWhileStmt struct {
	Body    StmtNode
	Cond    ExprNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (d *DoWhileStmt) node()     {}
func (d *DoWhileStmt) stmtNode() {}

// Location returns the source location of the do-while statement in the AST.
func (d *DoWhileStmt) Location() SourceLocation {
	return d.Loc
}

// BreakStmt represents a break statement with an optional label
type BreakStmt struct {
	Label   string
	Leading []token.Comment
	Loc     SourceLocation
}

func (b *BreakStmt) node()     {}
func (b *BreakStmt) stmtNode() {}

// Location returns the source location of the break statement in the AST.
func (b *BreakStmt) Location() SourceLocation {
	return b.Loc
}

// ContinueStmt represents a continue statement with an optional label
type ContinueStmt struct {
	Label   string
	Leading []token.Comment
	Loc     SourceLocation
}

func (c *ContinueStmt) node()     {}
func (c *ContinueStmt) stmtNode() {}

// Location returns the source location of the continue statement in the AST.
func (c *ContinueStmt) Location() SourceLocation {
	return c.Loc
}

// LabeledStmt represents a labeled statement (outer: for (...) {...})
type LabeledStmt struct {
	Label   string
	Stmt    StmtNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (l *LabeledStmt) node()     {}
func (l *LabeledStmt) stmtNode() {}

// Location returns the source location of the labeled statement in the AST.
func (l *LabeledStmt) Location() SourceLocation {
	return l.Loc
}

// SwitchCase represents a single case clause; Test is nil for default
type SwitchCase struct {
	Test ExprNode
	Body []StmtNode
	Loc  SourceLocation
}

// SwitchStmt represents a switch statement
type SwitchStmt struct {
	Disc    ExprNode
	Cases   []*SwitchCase
	Leading []token.Comment
	Loc     SourceLocation
}

func (s *SwitchStmt) node()     {}
func (s *SwitchStmt) stmtNode() {}

// Location returns the source location of the switch statement in the AST.
func (s *SwitchStmt) Location() SourceLocation {
	return s.Loc
}

// ThrowStmt represents a throw statement
type ThrowStmt struct {
	Value   ExprNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (t *ThrowStmt) node()     {}
func (t *ThrowStmt) stmtNode() {}

// Location returns the source location of the throw statement in the AST.
func (t *ThrowStmt) Location() SourceLocation {
	return t.Loc
}

// TryStmt represents a try/catch/finally statement. CatchBody is nil when
// there is no catch clause; CatchParam is nil for a parameterless catch.
type TryStmt struct {
	Block      *BlockStmt
	CatchParam ExprNode
	CatchType  string // Raw TypeScript annotation on the catch parameter
	CatchBody  *BlockStmt
	Finally    *BlockStmt
	Leading    []token.Comment
	Loc        SourceLocation
}

func (t *TryStmt) node()     {}
func (t *TryStmt) stmtNode() {}

// Location returns the source location of the try statement in the AST.
func (t *TryStmt) Location() SourceLocation {
	return t.Loc
}

// MemberKind classifies a class member
type MemberKind int

const (
	// MemberMethod is a regular method
	MemberMethod MemberKind = iota
	// MemberGetter is a get accessor
	MemberGetter
	// MemberSetter is a set accessor
	MemberSetter
	// MemberField is a property declaration
	MemberField
	// MemberStaticBlock is a static initialization block
	MemberStaticBlock
)

// ClassMember represents a method, accessor, field, or static block inside
// a class body. Key is an *Ident, *PrivateName, *StringLit, *NumberLit, or
// an arbitrary expression when Computed.
type ClassMember struct {
	Kind       MemberKind
	Static     bool
	Async      bool
	Generator  bool
	Computed   bool
	Modifiers  []string   // TypeScript modifiers in source order (public, readonly, ...)
	Decorators []ExprNode // Member decorators in source order
	Key        ExprNode
	Params     []*Param   // Methods and accessors
	TypeParam  string     // Raw method type parameter list
	Type       string     // Raw return annotation or field type
	Optional   bool       // TypeScript optional member marker
	Definite   bool       // TypeScript definite assignment marker (name!: T)
	Body       *BlockStmt // nil for fields and declare members
	Value      ExprNode   // Field initializer
	Leading    []token.Comment
	Loc        SourceLocation
}

// ClassDeclStmt represents a class declaration
type ClassDeclStmt struct {
	Name          string
	TypeParams    string
	Extends       ExprNode
	ExtendsTypes  string // Raw type arguments on the extends clause (<T, U>)
	Implements    string // Raw implements clause, "" if absent
	Members       []*ClassMember
	Decorators    []ExprNode
	Export        bool
	ExportDefault bool
	Abstract      bool
	Leading       []token.Comment
	Loc           SourceLocation
}

func (c *ClassDeclStmt) node()     {}
func (c *ClassDeclStmt) stmtNode() {}

// Location returns the source location of the class declaration in the AST.
func (c *ClassDeclStmt) Location() SourceLocation {
	return c.Loc
}

// ImportSpec represents one name inside an import or export clause.
// For imports, Name is the exported name in the source module and Alias
// is the local binding when renamed. For exports, Name is the local name
// and Alias is the exported name when renamed.
type ImportSpec struct {
	Name     string
	Alias    string // "" when not renamed
	TypeOnly bool   // inline "type" modifier
}

// Local returns the binding name an import spec introduces in this file
func (s *ImportSpec) Local() string {
	if s.Alias != "" {
		return s.Alias
	}
	return s.Name
}

// ImportDeclStmt represents an import declaration
type ImportDeclStmt struct {
	Default   string // Default import binding, "" if absent
	Namespace string // Namespace import binding (* as ns), "" if absent
	Named     []*ImportSpec
	Source    *StringLit
	TypeOnly  bool // import type { ... }
	Leading   []token.Comment
	Loc       SourceLocation
}

func (i *ImportDeclStmt) node()     {}
func (i *ImportDeclStmt) stmtNode() {}

// Location returns the source location of the import declaration in the AST.
func (i *ImportDeclStmt) Location() SourceLocation {
	return i.Loc
}

// ExportNamedStmt represents export { a, b as c } with an optional source
type ExportNamedStmt struct {
	Named    []*ImportSpec
	Source   *StringLit // nil when re-exporting local bindings
	TypeOnly bool
	Leading  []token.Comment
	Loc      SourceLocation
}

func (e *ExportNamedStmt) node()     {}
func (e *ExportNamedStmt) stmtNode() {}

// Location returns the source location of the named export in the AST.
func (e *ExportNamedStmt) Location() SourceLocation {
	return e.Loc
}

// ExportAllStmt represents export * from "..." with an optional namespace alias
type ExportAllStmt struct {
	Alias   string // export * as ns from "...", "" for a bare star
	Source  *StringLit
	Leading []token.Comment
	Loc     SourceLocation
}

func (e *ExportAllStmt) node()     {}
func (e *ExportAllStmt) stmtNode() {}

// Location returns the source location of the star export in the AST.
func (e *ExportAllStmt) Location() SourceLocation {
	return e.Loc
}

// ExportDefaultStmt represents export default <expression>. Default-exported
// function and class declarations are represented by their declaration nodes
// with ExportDefault set instead.
type ExportDefaultStmt struct {
	Expr    ExprNode
	Leading []token.Comment
	Loc     SourceLocation
}

func (e *ExportDefaultStmt) node()     {}
func (e *ExportDefaultStmt) stmtNode() {}

// Location returns the source location of the default export in the AST.
func (e *ExportDefaultStmt) Location() SourceLocation {
	return e.Loc
}

// RawStmt carries a statement verbatim from source to output. TypeScript
// declarations with no runtime behavior (interface, type alias, enum,
// namespace, declare) are preserved this way rather than modeled.
type RawStmt struct {
	Text    string
	Leading []token.Comment
	Loc     SourceLocation
}

func (r *RawStmt) node()     {}
func (r *RawStmt) stmtNode() {}

// Location returns the source location of the raw statement in the AST.
func (r *RawStmt) Location() SourceLocation {
	return r.Loc
}

// EmptyStmt represents a lone semicolon
type EmptyStmt struct {
	Loc SourceLocation
}

func (e *EmptyStmt) node()     {}
func (e *EmptyStmt) stmtNode() {}

// Location returns the source location of the empty statement in the AST.
func (e *EmptyStmt) Location() SourceLocation {
	return e.Loc
}
