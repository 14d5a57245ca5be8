package printer

import (
	"strings"

	"github.com/krispya/graft/internal/js/ast"
)

// Operator precedence tiers, loosest first. An expression is parenthesized
// when its own tier falls below the minimum its context demands.
const (
	precLowest = iota
	precComma
	precAssign
	precConditional
	precNullish
	precLogicalOr
	precLogicalAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precExponent
	precUnary
	precPostfix
	precCall
	precPrimary
)

var binaryPrec = map[string]int{
	"|":          precBitOr,
	"^":          precBitXor,
	"&":          precBitAnd,
	"==":         precEquality,
	"!=":         precEquality,
	"===":        precEquality,
	"!==":        precEquality,
	"<":          precRelational,
	">":          precRelational,
	"<=":         precRelational,
	">=":         precRelational,
	"instanceof": precRelational,
	"in":         precRelational,
	"<<":         precShift,
	">>":         precShift,
	">>>":        precShift,
	"+":          precAdditive,
	"-":          precAdditive,
	"*":          precMultiplicative,
	"/":          precMultiplicative,
	"%":          precMultiplicative,
	"**":         precExponent,
}

func exprPrec(expr ast.ExprNode) int {
	switch e := expr.(type) {
	case *ast.SeqExpr:
		return precComma
	case *ast.AssignExpr, *ast.ArrowExpr, *ast.YieldExpr:
		return precAssign
	case *ast.CondExpr:
		return precConditional
	case *ast.LogicalExpr:
		switch e.Op {
		case "??":
			return precNullish
		case "||":
			return precLogicalOr
		default:
			return precLogicalAnd
		}
	case *ast.BinaryExpr:
		if prec, ok := binaryPrec[e.Op]; ok {
			return prec
		}
		return precAdditive
	case *ast.TSAsExpr:
		return precRelational
	case *ast.UnaryExpr, *ast.AwaitExpr:
		return precUnary
	case *ast.UpdateExpr:
		if e.Prefix {
			return precUnary
		}
		return precPostfix
	case *ast.CallExpr, *ast.NewExpr, *ast.MemberExpr, *ast.IndexExpr,
		*ast.NonNullExpr, *ast.TaggedTemplateExpr:
		return precCall
	}
	return precPrimary
}

// expr renders an expression, adding parentheses when its precedence is too
// loose for the surrounding context.
func (p *Printer) expr(expr ast.ExprNode, min int) string {
	if expr == nil {
		return ""
	}
	out := p.exprInner(expr)
	if exprPrec(expr) < min {
		return "(" + out + ")"
	}
	return out
}

//nolint:gocyclo,cyclop // expression dispatch - complexity is inherent to the pattern
func (p *Printer) exprInner(expr ast.ExprNode) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name

	case *ast.PrivateName:
		return e.Name

	case *ast.NumberLit:
		return e.Raw

	case *ast.StringLit:
		return e.Raw

	case *ast.RegexLit:
		return e.Raw

	case *ast.BoolLit:
		if e.Value {
			return "true"
		}
		return "false"

	case *ast.NullLit:
		return "null"

	case *ast.ThisExpr:
		return "this"

	case *ast.SuperExpr:
		return "super"

	case *ast.TemplateLit:
		return p.template(e)

	case *ast.TaggedTemplateExpr:
		return p.expr(e.Tag, precCall) + p.template(e.Quasi)

	case *ast.BinaryExpr:
		return p.binary(e)

	case *ast.LogicalExpr:
		return p.logical(e)

	case *ast.AssignExpr:
		return p.expr(e.Target, precPostfix) + " " + e.Op + " " + p.expr(e.Value, precAssign)

	case *ast.CondExpr:
		return p.expr(e.Cond, precNullish) + " ? " + p.expr(e.Then, precAssign) + " : " + p.expr(e.Else, precAssign)

	case *ast.UnaryExpr:
		return p.unary(e)

	case *ast.UpdateExpr:
		if e.Prefix {
			return e.Op + p.expr(e.Operand, precUnary)
		}
		return p.expr(e.Operand, precPostfix) + e.Op

	case *ast.AwaitExpr:
		return "await " + p.expr(e.Value, precUnary)

	case *ast.YieldExpr:
		out := "yield"
		if e.Delegate {
			out += "*"
		}
		if e.Value != nil {
			out += " " + p.expr(e.Value, precAssign)
		}
		return out

	case *ast.CallExpr:
		return p.call(e)

	case *ast.NewExpr:
		return p.newExpr(e)

	case *ast.MemberExpr:
		return p.member(e)

	case *ast.IndexExpr:
		out := p.expr(e.Object, precCall)
		if e.Optional {
			out += "?."
		}
		return out + "[" + p.expr(e.Index, precLowest) + "]"

	case *ast.NonNullExpr:
		return p.expr(e.Expr, precCall) + "!"

	case *ast.TSAsExpr:
		return p.expr(e.Expr, precRelational) + " " + e.Op + " " + e.Type

	case *ast.SpreadExpr:
		return "..." + p.expr(e.Value, precAssign)

	case *ast.SeqExpr:
		parts := make([]string, len(e.Exprs))
		for i, sub := range e.Exprs {
			parts[i] = p.expr(sub, precAssign)
		}
		return strings.Join(parts, ", ")

	case *ast.ParenExpr:
		return "(" + p.expr(e.Expr, precLowest) + ")"

	case *ast.ArrayLit:
		return p.array(e)

	case *ast.ObjectLit:
		return p.object(e)

	case *ast.FuncExpr:
		return p.funcExpr(e)

	case *ast.ArrowExpr:
		return p.arrow(e)

	case *ast.ClassExpr:
		return p.classExpr(e)
	}
	return ""
}

func (p *Printer) template(t *ast.TemplateLit) string {
	if len(t.Quasis) == 0 {
		return "``"
	}
	out := "`" + t.Quasis[0]
	for i, sub := range t.Exprs {
		out += "${" + p.expr(sub, precLowest) + "}"
		if i+1 < len(t.Quasis) {
			out += t.Quasis[i+1]
		}
	}
	return out + "`"
}

func (p *Printer) binary(e *ast.BinaryExpr) string {
	prec := exprPrec(e)
	if e.Op == "**" {
		// Exponentiation is right-associative, and a unary operand on the
		// left is a syntax error without parentheses.
		return p.expr(e.Left, precPostfix) + " ** " + p.expr(e.Right, precExponent)
	}
	return p.expr(e.Left, prec) + " " + e.Op + " " + p.expr(e.Right, prec+1)
}

func (p *Printer) logical(e *ast.LogicalExpr) string {
	prec := exprPrec(e)
	left := p.expr(e.Left, prec)
	right := p.expr(e.Right, prec+1)
	// ?? may not mix with && or || without explicit grouping.
	if e.Op == "??" {
		if l, ok := e.Left.(*ast.LogicalExpr); ok && l.Op != "??" {
			left = "(" + left + ")"
		}
		if r, ok := e.Right.(*ast.LogicalExpr); ok && r.Op != "??" {
			right = "(" + right + ")"
		}
	}
	return left + " " + e.Op + " " + right
}

func (p *Printer) unary(e *ast.UnaryExpr) string {
	operand := p.expr(e.Operand, precUnary)
	switch e.Op {
	case "typeof", "void", "delete":
		return e.Op + " " + operand
	}
	// Keep -(-x) and +(+x) from collapsing into decrement or increment.
	if (e.Op == "-" || e.Op == "+") && strings.HasPrefix(operand, e.Op) {
		return e.Op + " " + operand
	}
	return e.Op + operand
}

func (p *Printer) call(e *ast.CallExpr) string {
	out := ""
	if e.Pure {
		out += "/* @__PURE__ */ "
	}
	out += p.expr(e.Callee, precCall)
	if e.Optional {
		out += "?."
	}
	return out + "(" + p.args(e.Args) + ")"
}

func (p *Printer) newExpr(e *ast.NewExpr) string {
	out := ""
	if e.Pure {
		out += "/* @__PURE__ */ "
	}
	callee := p.expr(e.Callee, precCall)
	// A call anywhere in the callee chain would swallow the argument list.
	if calleeContainsCall(e.Callee) {
		callee = "(" + callee + ")"
	}
	return out + "new " + callee + e.TypeArgs + "(" + p.args(e.Args) + ")"
}

func calleeContainsCall(expr ast.ExprNode) bool {
	for {
		switch e := expr.(type) {
		case *ast.CallExpr, *ast.TSAsExpr:
			return true
		case *ast.MemberExpr:
			expr = e.Object
		case *ast.IndexExpr:
			expr = e.Object
		case *ast.NonNullExpr:
			expr = e.Expr
		default:
			return false
		}
	}
}

func (p *Printer) member(e *ast.MemberExpr) string {
	out := p.expr(e.Object, precCall)
	// 1.x reads as a malformed number literal.
	if _, ok := e.Object.(*ast.NumberLit); ok {
		out = "(" + out + ")"
	}
	if e.Optional {
		return out + "?." + e.Property
	}
	return out + "." + e.Property
}

func (p *Printer) args(args []ast.ExprNode) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = p.expr(arg, precAssign)
	}
	return strings.Join(parts, ", ")
}

func (p *Printer) array(e *ast.ArrayLit) string {
	if len(e.Elements) == 0 {
		return "[]"
	}
	parts := make([]string, len(e.Elements))
	for i, el := range e.Elements {
		if el == nil {
			continue
		}
		parts[i] = p.expr(el, precAssign)
	}
	out := strings.Join(parts, ", ")
	// A trailing elision needs its own comma to keep the array length.
	if e.Elements[len(e.Elements)-1] == nil {
		out += ","
	}
	return "[" + out + "]"
}

func (p *Printer) object(e *ast.ObjectLit) string {
	if len(e.Props) == 0 {
		return "{}"
	}
	parts := make([]string, len(e.Props))
	for i, prop := range e.Props {
		parts[i] = p.objectProp(prop)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

func (p *Printer) objectProp(prop *ast.ObjectProp) string {
	switch prop.Kind {
	case ast.PropSpread:
		return "..." + p.expr(prop.Value, precAssign)

	case ast.PropMethod:
		out := ""
		if fn, ok := prop.Value.(*ast.FuncExpr); ok {
			if fn.Async {
				out += "async "
			}
			if fn.Generator {
				out += "*"
			}
			out += p.propKey(prop) + fn.TypeParams + "(" + p.params(fn.Params) + ")"
			if fn.ReturnType != "" {
				out += ": " + fn.ReturnType
			}
			return out + " " + p.blockString(fn.Body)
		}
		return p.propKey(prop) + ": " + p.expr(prop.Value, precAssign)

	case ast.PropGet, ast.PropSet:
		word := "get"
		if prop.Kind == ast.PropSet {
			word = "set"
		}
		if fn, ok := prop.Value.(*ast.FuncExpr); ok {
			return word + " " + p.propKey(prop) + "(" + p.params(fn.Params) + ") " + p.blockString(fn.Body)
		}
		return word + " " + p.propKey(prop) + "() {}"
	}

	if prop.Shorthand {
		if assign, ok := prop.Value.(*ast.AssignExpr); ok {
			return p.exprInner(assign)
		}
		return p.propKey(prop)
	}
	return p.propKey(prop) + ": " + p.expr(prop.Value, precAssign)
}

func (p *Printer) propKey(prop *ast.ObjectProp) string {
	if prop.Computed {
		return "[" + p.expr(prop.Key, precLowest) + "]"
	}
	switch k := prop.Key.(type) {
	case *ast.Ident:
		return k.Name
	case *ast.StringLit:
		return k.Raw
	case *ast.NumberLit:
		return k.Raw
	}
	return p.expr(prop.Key, precLowest)
}

func (p *Printer) funcExpr(e *ast.FuncExpr) string {
	out := ""
	if e.Async {
		out += "async "
	}
	out += "function"
	if e.Generator {
		out += "*"
	}
	if e.Name != "" {
		out += " " + e.Name
	}
	out += e.TypeParams + "(" + p.params(e.Params) + ")"
	if e.ReturnType != "" {
		out += ": " + e.ReturnType
	}
	return out + " " + p.blockString(e.Body)
}

func (p *Printer) arrow(e *ast.ArrowExpr) string {
	out := ""
	if e.Async {
		out += "async "
	}
	out += e.TypeParams + "(" + p.params(e.Params) + ")"
	if e.ReturnType != "" {
		out += ": " + e.ReturnType
	}
	out += " => "
	if e.Body != nil {
		return out + p.blockString(e.Body)
	}
	body := p.expr(e.ExprBody, precAssign)
	if startsWithObject(e.ExprBody) {
		body = "(" + body + ")"
	}
	return out + body
}

func (p *Printer) classExpr(e *ast.ClassExpr) string {
	out := "class"
	if e.Name != "" {
		out += " " + e.Name
	}
	out += e.TypeParams
	out += p.heritage(e.Extends, e.ExtendsTypes, e.Implements)
	return out + " " + p.classBody(e.Members)
}

// startsAmbiguously reports whether an expression statement would open with
// a token the statement grammar claims first ({, function, class).
func startsAmbiguously(expr ast.ExprNode) bool {
	for {
		switch e := expr.(type) {
		case *ast.ObjectLit, *ast.FuncExpr, *ast.ClassExpr:
			return true
		case *ast.BinaryExpr:
			expr = e.Left
		case *ast.LogicalExpr:
			expr = e.Left
		case *ast.CondExpr:
			expr = e.Cond
		case *ast.AssignExpr:
			expr = e.Target
		case *ast.SeqExpr:
			if len(e.Exprs) == 0 {
				return false
			}
			expr = e.Exprs[0]
		case *ast.CallExpr:
			expr = e.Callee
		case *ast.MemberExpr:
			expr = e.Object
		case *ast.IndexExpr:
			expr = e.Object
		case *ast.NonNullExpr:
			expr = e.Expr
		case *ast.TSAsExpr:
			expr = e.Expr
		case *ast.TaggedTemplateExpr:
			expr = e.Tag
		case *ast.UpdateExpr:
			if e.Prefix {
				return false
			}
			expr = e.Operand
		default:
			return false
		}
	}
}

// startsWithObject reports whether an arrow body would open with {, which
// the grammar would read as a block.
func startsWithObject(expr ast.ExprNode) bool {
	for {
		switch e := expr.(type) {
		case *ast.ObjectLit:
			return true
		case *ast.BinaryExpr:
			expr = e.Left
		case *ast.LogicalExpr:
			expr = e.Left
		case *ast.CondExpr:
			expr = e.Cond
		case *ast.AssignExpr:
			expr = e.Target
		case *ast.SeqExpr:
			if len(e.Exprs) == 0 {
				return false
			}
			expr = e.Exprs[0]
		case *ast.CallExpr:
			expr = e.Callee
		case *ast.MemberExpr:
			expr = e.Object
		case *ast.IndexExpr:
			expr = e.Object
		case *ast.NonNullExpr:
			expr = e.Expr
		case *ast.TSAsExpr:
			expr = e.Expr
		case *ast.TaggedTemplateExpr:
			expr = e.Tag
		case *ast.UpdateExpr:
			if e.Prefix {
				return false
			}
			expr = e.Operand
		default:
			return false
		}
	}
}
