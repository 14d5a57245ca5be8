// Package printer renders JavaScript and TypeScript syntax trees back to
// source text. Output uses two-space indentation and keeps statement-level
// comment trivia, raw TypeScript passages, and @__PURE__ annotations intact
// so downstream bundlers see the same hints the input carried.
package printer

import (
	"strings"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/token"
)

// Printer renders AST nodes as formatted source text
type Printer struct {
	buf    strings.Builder
	indent int
}

// New creates a printer with default formatting
func New() *Printer {
	return &Printer{}
}

// Print renders a complete program
func Print(program *ast.Program) string {
	p := New()
	for _, stmt := range program.Statements {
		p.printStmt(stmt)
	}
	p.comments(program.Trailing)
	return p.buf.String()
}

// PrintStmt renders a single statement at column zero
func PrintStmt(stmt ast.StmtNode) string {
	p := New()
	p.printStmt(stmt)
	return strings.TrimRight(p.buf.String(), "\n")
}

// PrintExpr renders an expression with minimal parentheses. Two expressions
// that render to the same string are structurally interchangeable, which is
// what duplicate detection relies on.
func PrintExpr(expr ast.ExprNode) string {
	p := New()
	return p.expr(expr, precLowest)
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) pad() string {
	return strings.Repeat("  ", p.indent)
}

func (p *Printer) line(s string) {
	p.write(p.pad() + s + "\n")
}

// comments emits statement-level comment trivia. A hashbang survives as the
// raw #! line; everything else gets its // or /* */ markers back.
func (p *Printer) comments(list []token.Comment) {
	for _, c := range list {
		switch {
		case c.Block:
			p.line("/*" + c.Text + "*/")
		case strings.HasPrefix(c.Text, "#!"):
			p.write(c.Text + "\n")
		default:
			p.line("//" + c.Text)
		}
	}
}

//nolint:gocyclo,cyclop // statement dispatch - complexity is inherent to the pattern
func (p *Printer) printStmt(stmt ast.StmtNode) {
	switch s := stmt.(type) {
	case *ast.VarDeclStmt:
		p.comments(s.Leading)
		p.line(p.varDecl(s) + ";")

	case *ast.FunctionDeclStmt:
		p.comments(s.Leading)
		p.printFunctionDecl(s)

	case *ast.ClassDeclStmt:
		p.comments(s.Leading)
		p.printClassDecl(s)

	case *ast.ReturnStmt:
		p.comments(s.Leading)
		if s.Value == nil {
			p.line("return;")
		} else {
			p.line("return " + p.expr(s.Value, precLowest) + ";")
		}

	case *ast.IfStmt:
		p.comments(s.Leading)
		p.printIfChain(s)

	case *ast.BlockStmt:
		p.write(p.pad())
		p.blockInline(s)
		p.write("\n")

	case *ast.ExprStmt:
		p.comments(s.Leading)
		out := p.expr(s.Expr, precLowest)
		if startsAmbiguously(s.Expr) {
			out = "(" + out + ")"
		}
		p.line(out + ";")

	case *ast.ForStmt:
		p.comments(s.Leading)
		p.printFor(s)

	case *ast.ForInStmt:
		p.comments(s.Leading)
		p.printForIn(s)

	case *ast.WhileStmt:
		p.comments(s.Leading)
		p.write(p.pad() + "while (" + p.expr(s.Cond, precLowest) + ")")
		p.printBranch(s.Body)
		p.write("\n")

	case *ast.DoWhileStmt:
		p.comments(s.Leading)
		p.write(p.pad() + "do")
		p.printBranch(s.Body)
		p.write(" while (" + p.expr(s.Cond, precLowest) + ");\n")

	case *ast.SwitchStmt:
		p.comments(s.Leading)
		p.printSwitch(s)

	case *ast.BreakStmt:
		p.comments(s.Leading)
		if s.Label != "" {
			p.line("break " + s.Label + ";")
		} else {
			p.line("break;")
		}

	case *ast.ContinueStmt:
		p.comments(s.Leading)
		if s.Label != "" {
			p.line("continue " + s.Label + ";")
		} else {
			p.line("continue;")
		}

	case *ast.LabeledStmt:
		p.comments(s.Leading)
		p.write(p.pad() + s.Label + ": " + p.stmtInline(s.Stmt) + "\n")

	case *ast.ThrowStmt:
		p.comments(s.Leading)
		p.line("throw " + p.expr(s.Value, precLowest) + ";")

	case *ast.TryStmt:
		p.comments(s.Leading)
		p.printTry(s)

	case *ast.ImportDeclStmt:
		p.comments(s.Leading)
		p.line(p.importDecl(s))

	case *ast.ExportNamedStmt:
		p.comments(s.Leading)
		p.printExportNamed(s)

	case *ast.ExportAllStmt:
		p.comments(s.Leading)
		out := "export *"
		if s.Alias != "" {
			out += " as " + s.Alias
		}
		p.line(out + " from " + s.Source.Raw + ";")

	case *ast.ExportDefaultStmt:
		p.comments(s.Leading)
		p.line("export default " + p.expr(s.Expr, precAssign) + ";")

	case *ast.RawStmt:
		p.comments(s.Leading)
		p.write(p.pad() + s.Text + "\n")

	case *ast.EmptyStmt:
		p.line(";")
	}
}

// stmtInline renders a statement without its own indentation or trailing
// newline so it can follow a label or an unbraced branch keyword.
func (p *Printer) stmtInline(stmt ast.StmtNode) string {
	sub := &Printer{indent: p.indent}
	sub.printStmt(stmt)
	out := strings.TrimRight(sub.buf.String(), "\n")
	return strings.TrimPrefix(out, sub.pad())
}

// printBranch prints a loop or conditional body. Block bodies open on the
// same line; single statements print inline after the closing paren.
func (p *Printer) printBranch(stmt ast.StmtNode) {
	if block, ok := stmt.(*ast.BlockStmt); ok {
		p.write(" ")
		p.blockInline(block)
		return
	}
	p.write(" " + p.stmtInline(stmt))
}

func (p *Printer) blockInline(block *ast.BlockStmt) {
	p.write(p.blockString(block))
}

func (p *Printer) blockString(block *ast.BlockStmt) string {
	if block == nil || (len(block.Statements) == 0 && len(block.Trailing) == 0) {
		return "{}"
	}
	sub := &Printer{indent: p.indent}
	sub.write("{\n")
	sub.indent++
	for _, stmt := range block.Statements {
		sub.printStmt(stmt)
	}
	sub.comments(block.Trailing)
	sub.indent--
	sub.write(sub.pad() + "}")
	return sub.buf.String()
}

func (p *Printer) printIfChain(s *ast.IfStmt) {
	p.write(p.pad() + "if (" + p.expr(s.Cond, precLowest) + ")")
	p.printBranch(s.Then)
	cur := s
	for cur.Else != nil {
		if next, ok := cur.Else.(*ast.IfStmt); ok {
			p.write(" else if (" + p.expr(next.Cond, precLowest) + ")")
			p.printBranch(next.Then)
			cur = next
			continue
		}
		p.write(" else")
		p.printBranch(cur.Else)
		break
	}
	p.write("\n")
}

func (p *Printer) printFor(s *ast.ForStmt) {
	head := "for ("
	if s.Init != nil {
		head += p.forInit(s.Init)
	}
	head += ";"
	if s.Cond != nil {
		head += " " + p.expr(s.Cond, precLowest)
	}
	head += ";"
	if s.Update != nil {
		head += " " + p.expr(s.Update, precLowest)
	}
	head += ")"
	p.write(p.pad() + head)
	p.printBranch(s.Body)
	p.write("\n")
}

func (p *Printer) forInit(init ast.StmtNode) string {
	switch s := init.(type) {
	case *ast.VarDeclStmt:
		return p.varDecl(s)
	case *ast.ExprStmt:
		return p.expr(s.Expr, precLowest)
	}
	return ""
}

func (p *Printer) printForIn(s *ast.ForInStmt) {
	head := "for "
	if s.Await {
		head += "await "
	}
	head += "("
	if s.Decl != "" {
		head += s.Decl + " "
	}
	head += p.expr(s.Target, precLowest)
	if s.Of {
		head += " of "
	} else {
		head += " in "
	}
	head += p.expr(s.Iterable, precAssign) + ")"
	p.write(p.pad() + head)
	p.printBranch(s.Body)
	p.write("\n")
}

func (p *Printer) printSwitch(s *ast.SwitchStmt) {
	p.line("switch (" + p.expr(s.Disc, precLowest) + ") {")
	p.indent++
	for _, c := range s.Cases {
		if c.Test == nil {
			p.line("default:")
		} else {
			p.line("case " + p.expr(c.Test, precLowest) + ":")
		}
		p.indent++
		for _, stmt := range c.Body {
			p.printStmt(stmt)
		}
		p.indent--
	}
	p.indent--
	p.line("}")
}

func (p *Printer) printTry(s *ast.TryStmt) {
	p.write(p.pad() + "try ")
	p.blockInline(s.Block)
	if s.CatchBody != nil {
		clause := " catch"
		if s.CatchParam != nil {
			clause += " (" + p.expr(s.CatchParam, precLowest)
			if s.CatchType != "" {
				clause += ": " + s.CatchType
			}
			clause += ")"
		}
		p.write(clause + " ")
		p.blockInline(s.CatchBody)
	}
	if s.Finally != nil {
		p.write(" finally ")
		p.blockInline(s.Finally)
	}
	p.write("\n")
}

func (p *Printer) varDecl(s *ast.VarDeclStmt) string {
	head := ""
	if s.Export {
		head += "export "
	}
	if s.Declare {
		head += "declare "
	}
	head += s.Kind + " "
	parts := make([]string, len(s.Decls))
	for i, d := range s.Decls {
		out := p.expr(d.Target, precLowest)
		if d.Type != "" {
			out += ": " + d.Type
		}
		if d.Init != nil {
			out += " = " + p.expr(d.Init, precAssign)
		}
		parts[i] = out
	}
	return head + strings.Join(parts, ", ")
}

func (p *Printer) printFunctionDecl(s *ast.FunctionDeclStmt) {
	head := ""
	switch {
	case s.ExportDefault:
		head += "export default "
	case s.Export:
		head += "export "
	}
	if s.Async {
		head += "async "
	}
	head += "function"
	if s.Generator {
		head += "*"
	}
	head += " " + s.Name + s.TypeParams + "(" + p.params(s.Params) + ")"
	if s.ReturnType != "" {
		head += ": " + s.ReturnType
	}
	p.write(p.pad() + head + " ")
	p.blockInline(s.Body)
	p.write("\n")
}

func (p *Printer) params(params []*ast.Param) string {
	parts := make([]string, len(params))
	for i, param := range params {
		out := ""
		for _, mod := range param.Modifiers {
			out += mod + " "
		}
		if param.Rest {
			out += "..."
		}
		out += p.expr(param.Pattern, precAssign)
		if param.Optional {
			out += "?"
		}
		if param.Type != "" {
			out += ": " + param.Type
		}
		if param.Default != nil {
			out += " = " + p.expr(param.Default, precAssign)
		}
		parts[i] = out
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printClassDecl(s *ast.ClassDeclStmt) {
	for _, d := range s.Decorators {
		p.line("@" + p.expr(d, precLowest))
	}
	head := ""
	switch {
	case s.ExportDefault:
		head += "export default "
	case s.Export:
		head += "export "
	}
	if s.Abstract {
		head += "abstract "
	}
	head += "class"
	if s.Name != "" {
		head += " " + s.Name
	}
	head += s.TypeParams
	head += p.heritage(s.Extends, s.ExtendsTypes, s.Implements)
	p.write(p.pad() + head + " ")
	p.write(p.classBody(s.Members))
	p.write("\n")
}

func (p *Printer) heritage(extends ast.ExprNode, extendsTypes, implements string) string {
	out := ""
	if extends != nil {
		out += " extends " + p.expr(extends, precCall) + extendsTypes
	}
	if implements != "" {
		out += " implements " + implements
	}
	return out
}

func (p *Printer) classBody(members []*ast.ClassMember) string {
	if len(members) == 0 {
		return "{}"
	}
	sub := &Printer{indent: p.indent}
	sub.write("{\n")
	sub.indent++
	for _, m := range members {
		sub.printMember(m)
	}
	sub.indent--
	sub.write(sub.pad() + "}")
	return sub.buf.String()
}

func (p *Printer) printMember(m *ast.ClassMember) {
	p.comments(m.Leading)
	for _, d := range m.Decorators {
		p.line("@" + p.expr(d, precLowest))
	}

	if m.Kind == ast.MemberStaticBlock {
		p.write(p.pad() + "static ")
		p.blockInline(m.Body)
		p.write("\n")
		return
	}

	head := memberModifiers(m)
	switch m.Kind {
	case ast.MemberGetter:
		head += "get "
	case ast.MemberSetter:
		head += "set "
	case ast.MemberMethod:
		if m.Async {
			head += "async "
		}
		if m.Generator {
			head += "*"
		}
	}
	head += p.memberKey(m)
	if m.Optional {
		head += "?"
	}

	if m.Kind == ast.MemberField {
		if m.Definite {
			head += "!"
		}
		if m.Type != "" {
			head += ": " + m.Type
		}
		if m.Value != nil {
			head += " = " + p.expr(m.Value, precAssign)
		}
		p.line(head + ";")
		return
	}

	head += m.TypeParam
	head += "(" + p.params(m.Params) + ")"
	if m.Type != "" {
		head += ": " + m.Type
	}
	// Abstract methods and overload signatures carry no body.
	if m.Body == nil {
		p.line(head + ";")
		return
	}
	p.write(p.pad() + head + " ")
	p.blockInline(m.Body)
	p.write("\n")
}

// memberModifiers rebuilds the modifier prefix. Accessibility keywords sort
// before static, matching conventional TypeScript order.
func memberModifiers(m *ast.ClassMember) string {
	out := ""
	rest := m.Modifiers
	if len(rest) > 0 && isAccessModifier(rest[0]) {
		out += rest[0] + " "
		rest = rest[1:]
	}
	if m.Static {
		out += "static "
	}
	for _, mod := range rest {
		out += mod + " "
	}
	return out
}

func isAccessModifier(word string) bool {
	return word == "public" || word == "private" || word == "protected"
}

func (p *Printer) memberKey(m *ast.ClassMember) string {
	if m.Computed {
		return "[" + p.expr(m.Key, precLowest) + "]"
	}
	switch k := m.Key.(type) {
	case *ast.Ident:
		return k.Name
	case *ast.PrivateName:
		return k.Name
	case *ast.StringLit:
		return k.Raw
	case *ast.NumberLit:
		return k.Raw
	}
	return p.expr(m.Key, precLowest)
}

func (p *Printer) importDecl(s *ast.ImportDeclStmt) string {
	head := "import "
	if s.TypeOnly {
		head += "type "
	}
	var clauses []string
	if s.Default != "" {
		clauses = append(clauses, s.Default)
	}
	if s.Namespace != "" {
		clauses = append(clauses, "* as "+s.Namespace)
	}
	if len(s.Named) > 0 {
		clauses = append(clauses, "{ "+importSpecs(s.Named)+" }")
	}
	if len(clauses) == 0 {
		return head + s.Source.Raw + ";"
	}
	return head + strings.Join(clauses, ", ") + " from " + s.Source.Raw + ";"
}

func importSpecs(specs []*ast.ImportSpec) string {
	parts := make([]string, len(specs))
	for i, spec := range specs {
		out := ""
		if spec.TypeOnly {
			out += "type "
		}
		out += spec.Name
		if spec.Alias != "" {
			out += " as " + spec.Alias
		}
		parts[i] = out
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) printExportNamed(s *ast.ExportNamedStmt) {
	out := "export "
	if s.TypeOnly {
		out += "type "
	}
	if len(s.Named) == 0 {
		out += "{}"
	} else {
		out += "{ " + importSpecs(s.Named) + " }"
	}
	if s.Source != nil {
		out += " from " + s.Source.Raw
	}
	p.line(out + ";")
}
