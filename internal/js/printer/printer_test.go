package printer

import (
	"testing"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/parser"
)

// roundTrip parses source and prints it back
func roundTrip(t *testing.T, source string) string {
	t.Helper()

	program, errors := parser.ParseSource(source)
	if len(errors) > 0 {
		t.Fatalf("Parse errors: %v", errors)
	}
	return Print(program)
}

func TestPrintStatements(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"const declaration", "const x = 1;"},
		{"multiple declarators", "let a = 1, b = 2;"},
		{"typed declaration", "const items: Array<string> = [];"},
		{"member assignment", "this.x += dx;"},
		{"optional chain", "a?.b?.[k]?.(v);"},
		{"non-null member", "user!.name;"},
		{"throw", `throw new Error("boom");`},
		{"delete", "delete obj.prop;"},
		{"ternary", "const v = a ? b : c;"},
		{"nullish with grouping", "const h = a ?? (b || c);"},
		{"exponent chain", "const v = 2 ** 3 ** 2;"},
		{"sequence in parens", "x = (a, b);"},
		{"array holes", "const a = [1, , 3];"},
		{"object literal", "const o = { a: 1, b };"},
		{"spread call", "gather(...items, last);"},
		{"template", "const s = `x${y}z`;"},
		{"tagged template", "const q = sql`select ${col}`;"},
		{"as cast", "const el = input as HTMLInputElement;"},
		{"generic constructor", "new Map<string, number>();"},
		{"labeled loop", "outer: while (true) break outer;"},
		{"unary nesting", "const neg = - -x;"},
		{"default export", "export default app;"},
		{"import default and named", `import def, { a as b } from "./m";`},
		{"namespace import", `import * as ns from "./b";`},
		{"side-effect import", `import "./setup";`},
		{"type-only import", `import type { T } from "./t";`},
		{"inline type specifier", `import { type T, value } from "./m";`},
		{"named re-export", `export { x, y as z } from "./all";`},
		{"star re-export", `export * as ns from "./star";`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.source)
			want := tt.source + "\n"
			if got != want {
				t.Errorf("Print() = %q, want %q", got, want)
			}
		})
	}
}

func TestPrintNormalizesArrowParams(t *testing.T) {
	got := roundTrip(t, "items.map(item => item.id);")
	want := "items.map((item) => item.id);\n"
	if got != want {
		t.Errorf("Print() = %q, want %q", got, want)
	}
}

func TestPrintFunctionAndClass(t *testing.T) {
	source := `function add(a, b) {
  return a + b;
}
class Point {
  x = 0;
  move(dx) {
    this.x += dx;
  }
}
if (debug) {
  log("ready");
} else {
  run();
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintSingleStatementBranches(t *testing.T) {
	source := `if (a) return;
for (const item of items) use(item);
while (busy) wait();
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintSwitch(t *testing.T) {
	source := `switch (k) {
  case 1:
    a();
    break;
  default:
    b();
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintTryCatch(t *testing.T) {
	source := `try {
  risky();
} catch (e) {
  report(e);
} finally {
  cleanup();
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintClassModifiers(t *testing.T) {
	source := `class Service {
  private static readonly registry = new Map();
  constructor(private name: string) {}
  static {
    init();
  }
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintAbstractMembers(t *testing.T) {
	source := `abstract class Shape {
  abstract area(): number;
  describe(): string {
    return "shape";
  }
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintFieldMarkers(t *testing.T) {
	source := `class Model {
  id!: number;
  name?: string;
}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintTypeScriptRaw(t *testing.T) {
	source := `interface User {
  name: string;
}
type ID = string | number;
const u = null;
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintComments(t *testing.T) {
	source := `// note
const x = 1;
/* header */
function f() {}
`

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintHashbang(t *testing.T) {
	source := "#!/usr/bin/env node\nrun();\n"

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintPureAnnotations(t *testing.T) {
	source := "const a = /* @__PURE__ */ factory();\nconst b = /* @__PURE__ */ new Widget();\n"

	got := roundTrip(t, source)
	if got != source {
		t.Errorf("Print() = %q, want %q", got, source)
	}
}

func TestPrintExprMinimalParens(t *testing.T) {
	tests := []struct {
		name     string
		expr     ast.ExprNode
		expected string
	}{
		{
			name: "nullish needs grouping around or",
			expr: &ast.LogicalExpr{
				Left: &ast.LogicalExpr{
					Left:  &ast.Ident{Name: "a"},
					Op:    "||",
					Right: &ast.Ident{Name: "b"},
				},
				Op:    "??",
				Right: &ast.Ident{Name: "c"},
			},
			expected: "(a || b) ?? c",
		},
		{
			name: "new with call callee",
			expr: &ast.NewExpr{
				Callee: &ast.CallExpr{Callee: &ast.Ident{Name: "factory"}},
			},
			expected: "new (factory())()",
		},
		{
			name: "member of number literal",
			expr: &ast.MemberExpr{
				Object:   &ast.NumberLit{Raw: "1"},
				Property: "toFixed",
			},
			expected: "(1).toFixed",
		},
		{
			name: "trailing array hole keeps length",
			expr: &ast.ArrayLit{
				Elements: []ast.ExprNode{&ast.NumberLit{Raw: "1"}, nil},
			},
			expected: "[1, ,]",
		},
		{
			name: "low precedence left operand",
			expr: &ast.BinaryExpr{
				Left: &ast.CondExpr{
					Cond: &ast.Ident{Name: "a"},
					Then: &ast.Ident{Name: "b"},
					Else: &ast.Ident{Name: "c"},
				},
				Op:    "+",
				Right: &ast.Ident{Name: "d"},
			},
			expected: "(a ? b : c) + d",
		},
		{
			name: "arrow object body",
			expr: &ast.ArrowExpr{
				ExprBody: &ast.ObjectLit{},
			},
			expected: "() => ({})",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrintExpr(tt.expr)
			if got != tt.expected {
				t.Errorf("PrintExpr() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPrintStmtAmbiguousStarts(t *testing.T) {
	tests := []struct {
		name     string
		stmt     ast.StmtNode
		expected string
	}{
		{
			name:     "object expression statement",
			stmt:     &ast.ExprStmt{Expr: &ast.ObjectLit{}},
			expected: "({});",
		},
		{
			name: "function expression call",
			stmt: &ast.ExprStmt{
				Expr: &ast.CallExpr{
					Callee: &ast.FuncExpr{Body: &ast.BlockStmt{}},
				},
			},
			expected: "(function() {}());",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PrintStmt(tt.stmt)
			if got != tt.expected {
				t.Errorf("PrintStmt() = %q, want %q", got, tt.expected)
			}
		})
	}
}
