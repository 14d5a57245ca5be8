package parser

import (
	"strings"
	"testing"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/lexer"
)

// Helper function to create a parser from source code
func parseSource(t *testing.T, source string) (*ast.Program, []ParseError) {
	t.Helper()

	lex := lexer.New(source)
	tokens, lexErrors := lex.ScanTokens()

	if len(lexErrors) > 0 {
		t.Fatalf("Lexer errors: %v", lexErrors)
	}

	parser := New(source, tokens)
	return parser.Parse()
}

// parseClean parses source and fails the test on any parse error
func parseClean(t *testing.T, source string) *ast.Program {
	t.Helper()

	program, errors := parseSource(t, source)
	if len(errors) > 0 {
		t.Fatalf("Parse errors: %v", errors)
	}
	return program
}

// TestParseFunctionDeclaration tests parsing a basic function
func TestParseFunctionDeclaration(t *testing.T) {
	source := `function add(a, b) {
  return a + b;
}`

	program := parseClean(t, source)

	if len(program.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(program.Statements))
	}

	fn, ok := program.Statements[0].(*ast.FunctionDeclStmt)
	if !ok {
		t.Fatalf("Expected FunctionDeclStmt, got %T", program.Statements[0])
	}

	if fn.Name != "add" {
		t.Errorf("Expected function name 'add', got '%s'", fn.Name)
	}

	if len(fn.Params) != 2 {
		t.Fatalf("Expected 2 parameters, got %d", len(fn.Params))
	}

	first, ok := fn.Params[0].Pattern.(*ast.Ident)
	if !ok || first.Name != "a" {
		t.Errorf("Expected first parameter 'a', got %v", fn.Params[0].Pattern)
	}

	if len(fn.Body.Statements) != 1 {
		t.Fatalf("Expected 1 body statement, got %d", len(fn.Body.Statements))
	}

	ret, ok := fn.Body.Statements[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("Expected ReturnStmt, got %T", fn.Body.Statements[0])
	}

	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Errorf("Expected binary + in return value, got %v", ret.Value)
	}
}

// TestParseVarDeclarations tests const/let/var with multiple declarators
func TestParseVarDeclarations(t *testing.T) {
	source := `const a = 1, b = 2;
let mutable;
var legacy = "old";`

	program := parseClean(t, source)

	if len(program.Statements) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(program.Statements))
	}

	constStmt := program.Statements[0].(*ast.VarDeclStmt)
	if constStmt.Kind != "const" {
		t.Errorf("Expected kind 'const', got '%s'", constStmt.Kind)
	}
	if len(constStmt.Decls) != 2 {
		t.Fatalf("Expected 2 declarators, got %d", len(constStmt.Decls))
	}
	if constStmt.Decls[1].Target.(*ast.Ident).Name != "b" {
		t.Errorf("Expected second declarator 'b'")
	}

	letStmt := program.Statements[1].(*ast.VarDeclStmt)
	if letStmt.Kind != "let" || letStmt.Decls[0].Init != nil {
		t.Errorf("Expected uninitialized let declaration")
	}

	varStmt := program.Statements[2].(*ast.VarDeclStmt)
	if varStmt.Kind != "var" {
		t.Errorf("Expected kind 'var', got '%s'", varStmt.Kind)
	}
}

// TestParseDestructuring tests object and array binding patterns
func TestParseDestructuring(t *testing.T) {
	source := `const { one, two: alias, ...rest } = obj;
const [first, , third = 3] = arr;`

	program := parseClean(t, source)

	objDecl := program.Statements[0].(*ast.VarDeclStmt).Decls[0]
	pattern, ok := objDecl.Target.(*ast.ObjectLit)
	if !ok {
		t.Fatalf("Expected object pattern, got %T", objDecl.Target)
	}
	if len(pattern.Props) != 3 {
		t.Fatalf("Expected 3 pattern properties, got %d", len(pattern.Props))
	}
	if !pattern.Props[0].Shorthand {
		t.Error("Expected shorthand property 'one'")
	}
	if pattern.Props[1].Value.(*ast.Ident).Name != "alias" {
		t.Error("Expected renamed binding 'alias'")
	}
	if pattern.Props[2].Kind != ast.PropSpread {
		t.Error("Expected rest element in object pattern")
	}

	arrDecl := program.Statements[1].(*ast.VarDeclStmt).Decls[0]
	arrPattern, ok := arrDecl.Target.(*ast.ArrayLit)
	if !ok {
		t.Fatalf("Expected array pattern, got %T", arrDecl.Target)
	}
	if len(arrPattern.Elements) != 3 {
		t.Fatalf("Expected 3 elements, got %d", len(arrPattern.Elements))
	}
	if arrPattern.Elements[1] != nil {
		t.Error("Expected elision hole at index 1")
	}
	if _, ok := arrPattern.Elements[2].(*ast.AssignExpr); !ok {
		t.Errorf("Expected default value element, got %T", arrPattern.Elements[2])
	}
}

// TestParseImports tests all import clause shapes
func TestParseImports(t *testing.T) {
	source := `import def from "./a";
import * as ns from "./b";
import { one, two as three } from "./c";
import "./side-effect";
import type { Props } from "./d";
import base, { extra } from "./e";`

	program := parseClean(t, source)

	if len(program.Statements) != 6 {
		t.Fatalf("Expected 6 statements, got %d", len(program.Statements))
	}

	s0 := program.Statements[0].(*ast.ImportDeclStmt)
	if s0.Default != "def" || s0.Source.Value() != "./a" {
		t.Errorf("Expected default import 'def' from './a', got %q from %q", s0.Default, s0.Source.Value())
	}

	s1 := program.Statements[1].(*ast.ImportDeclStmt)
	if s1.Namespace != "ns" {
		t.Errorf("Expected namespace import 'ns', got %q", s1.Namespace)
	}

	s2 := program.Statements[2].(*ast.ImportDeclStmt)
	if len(s2.Named) != 2 {
		t.Fatalf("Expected 2 named imports, got %d", len(s2.Named))
	}
	if s2.Named[1].Name != "two" || s2.Named[1].Alias != "three" {
		t.Errorf("Expected 'two as three', got %q as %q", s2.Named[1].Name, s2.Named[1].Alias)
	}
	if s2.Named[1].Local() != "three" {
		t.Errorf("Expected local binding 'three', got %q", s2.Named[1].Local())
	}

	s3 := program.Statements[3].(*ast.ImportDeclStmt)
	if s3.Default != "" || s3.Namespace != "" || len(s3.Named) != 0 {
		t.Error("Expected bare side-effect import")
	}

	s4 := program.Statements[4].(*ast.ImportDeclStmt)
	if !s4.TypeOnly || s4.Named[0].Name != "Props" {
		t.Error("Expected type-only import of Props")
	}

	s5 := program.Statements[5].(*ast.ImportDeclStmt)
	if s5.Default != "base" || len(s5.Named) != 1 {
		t.Error("Expected combined default and named import")
	}
}

// TestParseExports tests export statement forms
func TestParseExports(t *testing.T) {
	source := `export const x = 1;
export function helper() {}
export default class App {}
export { a, b as c };
export * from "./all";
export type { T } from "./types";`

	program := parseClean(t, source)

	if v := program.Statements[0].(*ast.VarDeclStmt); !v.Export {
		t.Error("Expected exported const")
	}
	if f := program.Statements[1].(*ast.FunctionDeclStmt); !f.Export {
		t.Error("Expected exported function")
	}
	if c := program.Statements[2].(*ast.ClassDeclStmt); !c.ExportDefault {
		t.Error("Expected default-exported class")
	}

	named := program.Statements[3].(*ast.ExportNamedStmt)
	if len(named.Named) != 2 || named.Named[1].Alias != "c" {
		t.Error("Expected named export with rename")
	}
	if named.Source != nil {
		t.Error("Expected local named export without source")
	}

	all := program.Statements[4].(*ast.ExportAllStmt)
	if all.Source.Value() != "./all" {
		t.Errorf("Expected star export from './all', got %q", all.Source.Value())
	}

	typeExport := program.Statements[5].(*ast.ExportNamedStmt)
	if !typeExport.TypeOnly || typeExport.Source.Value() != "./types" {
		t.Error("Expected type-only re-export")
	}
}

// TestParseArrowFunctions tests arrow detection across parameter shapes
func TestParseArrowFunctions(t *testing.T) {
	source := `const bare = x => x * 2;
const parens = (a, b) => a + b;
const block = (v) => { return v; };
const asyncFn = async (u) => await u;
const nullary = () => 0;`

	program := parseClean(t, source)

	bare := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if len(bare.Params) != 1 || bare.ExprBody == nil {
		t.Error("Expected single-parameter arrow with expression body")
	}

	parens := program.Statements[1].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if len(parens.Params) != 2 {
		t.Errorf("Expected 2 parameters, got %d", len(parens.Params))
	}

	block := program.Statements[2].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if block.Body == nil || block.ExprBody != nil {
		t.Error("Expected block-bodied arrow")
	}

	asyncFn := program.Statements[3].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if !asyncFn.Async {
		t.Error("Expected async arrow")
	}
	if _, ok := asyncFn.ExprBody.(*ast.AwaitExpr); !ok {
		t.Errorf("Expected await in arrow body, got %T", asyncFn.ExprBody)
	}

	nullary := program.Statements[4].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if len(nullary.Params) != 0 {
		t.Error("Expected empty parameter list")
	}
}

// TestParseParenthesizedNotArrow tests that parenthesized expressions are
// not mistaken for arrow parameter lists
func TestParseParenthesizedNotArrow(t *testing.T) {
	source := `const grouped = (a + b) * c;
const seq = (first(), second());
const called = async(value);`

	program := parseClean(t, source)

	grouped := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.BinaryExpr)
	if _, ok := grouped.Left.(*ast.ParenExpr); !ok {
		t.Errorf("Expected parenthesized left operand, got %T", grouped.Left)
	}

	seq := program.Statements[1].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ParenExpr)
	if _, ok := seq.Expr.(*ast.SeqExpr); !ok {
		t.Errorf("Expected sequence inside parens, got %T", seq.Expr)
	}

	called := program.Statements[2].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	callee, ok := called.Callee.(*ast.Ident)
	if !ok || callee.Name != "async" {
		t.Error("Expected call to a function named async")
	}
}

// TestParseGenericArrow tests TypeScript generic arrow functions
func TestParseGenericArrow(t *testing.T) {
	source := `const identity = <T>(value: T): T => value;`

	program := parseClean(t, source)

	arrow := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ArrowExpr)
	if arrow.TypeParams != "<T>" {
		t.Errorf("Expected type parameters '<T>', got %q", arrow.TypeParams)
	}
	if arrow.Params[0].Type != "T" {
		t.Errorf("Expected parameter type 'T', got %q", arrow.Params[0].Type)
	}
	if arrow.ReturnType != "T" {
		t.Errorf("Expected return type 'T', got %q", arrow.ReturnType)
	}
}

// TestParseClassDeclaration tests class members of each kind
func TestParseClassDeclaration(t *testing.T) {
	source := `class Point extends Base {
  #count = 0;
  static origin = null;
  constructor(x, y) {
    super();
    this.x = x;
  }
  get size() {
    return this.#count;
  }
  static from(other) {
    return new Point(other.x, other.y);
  }
}`

	program := parseClean(t, source)

	class := program.Statements[0].(*ast.ClassDeclStmt)
	if class.Name != "Point" {
		t.Errorf("Expected class name 'Point', got %q", class.Name)
	}
	if ext, ok := class.Extends.(*ast.Ident); !ok || ext.Name != "Base" {
		t.Error("Expected extends Base")
	}
	if len(class.Members) != 5 {
		t.Fatalf("Expected 5 members, got %d", len(class.Members))
	}

	private := class.Members[0]
	if private.Kind != ast.MemberField {
		t.Error("Expected #count to be a field")
	}
	if key, ok := private.Key.(*ast.PrivateName); !ok || key.Name != "#count" {
		t.Errorf("Expected private name '#count', got %v", private.Key)
	}

	origin := class.Members[1]
	if !origin.Static || origin.Kind != ast.MemberField {
		t.Error("Expected static field 'origin'")
	}

	ctor := class.Members[2]
	if ctor.Kind != ast.MemberMethod || len(ctor.Params) != 2 {
		t.Error("Expected constructor with 2 parameters")
	}

	getter := class.Members[3]
	if getter.Kind != ast.MemberGetter {
		t.Error("Expected getter 'size'")
	}

	from := class.Members[4]
	if !from.Static || from.Kind != ast.MemberMethod {
		t.Error("Expected static method 'from'")
	}
	ret := from.Body.Statements[0].(*ast.ReturnStmt)
	if _, ok := ret.Value.(*ast.NewExpr); !ok {
		t.Errorf("Expected new expression, got %T", ret.Value)
	}
}

// TestParseControlFlow tests if/else-if chains
func TestParseControlFlow(t *testing.T) {
	source := `if (a) {
  b();
} else if (c) {
  d();
} else {
  e();
}`

	program := parseClean(t, source)

	ifStmt := program.Statements[0].(*ast.IfStmt)
	if _, ok := ifStmt.Then.(*ast.BlockStmt); !ok {
		t.Errorf("Expected block then-branch, got %T", ifStmt.Then)
	}
	elseIf, ok := ifStmt.Else.(*ast.IfStmt)
	if !ok {
		t.Fatalf("Expected else-if chain, got %T", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockStmt); !ok {
		t.Errorf("Expected final else block, got %T", elseIf.Else)
	}
}

// TestParseForVariants tests classic, for-of, and for-in loops
func TestParseForVariants(t *testing.T) {
	source := `for (let i = 0; i < 10; i++) {
  work(i);
}
for (const item of items) {
  use(item);
}
for (const key in obj) {
  visit(key);
}
for (;;) {
  break;
}`

	program := parseClean(t, source)

	classic := program.Statements[0].(*ast.ForStmt)
	if _, ok := classic.Init.(*ast.VarDeclStmt); !ok {
		t.Errorf("Expected declaration init, got %T", classic.Init)
	}
	if _, ok := classic.Cond.(*ast.BinaryExpr); !ok {
		t.Error("Expected binary condition")
	}
	if upd, ok := classic.Update.(*ast.UpdateExpr); !ok || upd.Prefix {
		t.Error("Expected postfix update clause")
	}

	forOf := program.Statements[1].(*ast.ForInStmt)
	if !forOf.Of || forOf.Decl != "const" {
		t.Error("Expected for-of with const binding")
	}

	forIn := program.Statements[2].(*ast.ForInStmt)
	if forIn.Of {
		t.Error("Expected for-in loop")
	}

	bare := program.Statements[3].(*ast.ForStmt)
	if bare.Init != nil || bare.Cond != nil || bare.Update != nil {
		t.Error("Expected empty for clauses")
	}
}

// TestParseInOperator tests that 'in' still parses as a binary operator
// outside for-loop heads
func TestParseInOperator(t *testing.T) {
	source := `if (key in obj) {
  found();
}`

	program := parseClean(t, source)

	cond := program.Statements[0].(*ast.IfStmt).Cond
	bin, ok := cond.(*ast.BinaryExpr)
	if !ok || bin.Op != "in" {
		t.Errorf("Expected 'in' binary expression, got %v", cond)
	}
}

// TestParseSwitch tests switch cases including fallthrough and default
func TestParseSwitch(t *testing.T) {
	source := `switch (kind) {
  case 1:
  case 2:
    handle();
    break;
  default:
    fallback();
}`

	program := parseClean(t, source)

	sw := program.Statements[0].(*ast.SwitchStmt)
	if len(sw.Cases) != 3 {
		t.Fatalf("Expected 3 cases, got %d", len(sw.Cases))
	}
	if len(sw.Cases[0].Body) != 0 {
		t.Error("Expected empty fallthrough case")
	}
	if len(sw.Cases[1].Body) != 2 {
		t.Errorf("Expected 2 statements in second case, got %d", len(sw.Cases[1].Body))
	}
	if sw.Cases[2].Test != nil {
		t.Error("Expected default case with nil test")
	}
}

// TestParseTryCatchFinally tests exception handling statements
func TestParseTryCatchFinally(t *testing.T) {
	source := `try {
  risky();
} catch (err) {
  report(err);
} finally {
  cleanup();
}`

	program := parseClean(t, source)

	try := program.Statements[0].(*ast.TryStmt)
	if param, ok := try.CatchParam.(*ast.Ident); !ok || param.Name != "err" {
		t.Error("Expected catch parameter 'err'")
	}
	if try.CatchBody == nil || try.Finally == nil {
		t.Error("Expected both catch and finally blocks")
	}
}

// TestParseLabeledBreak tests labels on loops
func TestParseLabeledBreak(t *testing.T) {
	source := `outer: for (;;) {
  break outer;
}`

	program := parseClean(t, source)

	labeled := program.Statements[0].(*ast.LabeledStmt)
	if labeled.Label != "outer" {
		t.Errorf("Expected label 'outer', got %q", labeled.Label)
	}
	loop := labeled.Stmt.(*ast.ForStmt)
	brk := loop.Body.(*ast.BlockStmt).Statements[0].(*ast.BreakStmt)
	if brk.Label != "outer" {
		t.Errorf("Expected break label 'outer', got %q", brk.Label)
	}
}

// TestParseCallChains tests member, index, optional, and call nesting
func TestParseCallChains(t *testing.T) {
	source := `const v = a?.b?.[key]?.(arg);
res.data.items[0].run();`

	program := parseClean(t, source)

	call := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if !call.Optional {
		t.Error("Expected optional call")
	}
	idx, ok := call.Callee.(*ast.IndexExpr)
	if !ok || !idx.Optional {
		t.Fatalf("Expected optional index under call, got %T", call.Callee)
	}
	member, ok := idx.Object.(*ast.MemberExpr)
	if !ok || !member.Optional || member.Property != "b" {
		t.Error("Expected optional member access .b")
	}

	chain := program.Statements[1].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	run, ok := chain.Callee.(*ast.MemberExpr)
	if !ok || run.Property != "run" {
		t.Error("Expected .run() at end of chain")
	}
	if _, ok := run.Object.(*ast.IndexExpr); !ok {
		t.Errorf("Expected index access under .run, got %T", run.Object)
	}
}

// TestParseTypeAnnotations tests raw capture of TypeScript annotations
func TestParseTypeAnnotations(t *testing.T) {
	source := `function greet(name: string, times = 1): string {
  return name;
}
const items: Array<Map<string, number>> = [];
let handler: (e: Event) => void = noop;`

	program := parseClean(t, source)

	fn := program.Statements[0].(*ast.FunctionDeclStmt)
	if fn.Params[0].Type != "string" {
		t.Errorf("Expected parameter type 'string', got %q", fn.Params[0].Type)
	}
	if fn.Params[1].Default == nil {
		t.Error("Expected default value for second parameter")
	}
	if fn.ReturnType != "string" {
		t.Errorf("Expected return type 'string', got %q", fn.ReturnType)
	}

	items := program.Statements[1].(*ast.VarDeclStmt).Decls[0]
	if items.Type != "Array<Map<string, number>>" {
		t.Errorf("Expected nested generic type, got %q", items.Type)
	}
	if _, ok := items.Init.(*ast.ArrayLit); !ok {
		t.Error("Expected array initializer after annotated declaration")
	}

	handler := program.Statements[2].(*ast.VarDeclStmt).Decls[0]
	if handler.Type != "(e: Event) => void" {
		t.Errorf("Expected function type annotation, got %q", handler.Type)
	}
	if init, ok := handler.Init.(*ast.Ident); !ok || init.Name != "noop" {
		t.Error("Expected initializer after function type annotation")
	}
}

// TestParseTypeScriptRawStatements tests verbatim capture of type-level
// declarations
func TestParseTypeScriptRawStatements(t *testing.T) {
	source := `interface User {
  name: string;
}
type Alias = string | number;
enum Color { Red, Green }
const after = 1;`

	program := parseClean(t, source)

	if len(program.Statements) != 4 {
		t.Fatalf("Expected 4 statements, got %d", len(program.Statements))
	}

	iface, ok := program.Statements[0].(*ast.RawStmt)
	if !ok {
		t.Fatalf("Expected RawStmt for interface, got %T", program.Statements[0])
	}
	if !strings.HasPrefix(iface.Text, "interface User") || !strings.HasSuffix(iface.Text, "}") {
		t.Errorf("Unexpected interface capture: %q", iface.Text)
	}

	alias, ok := program.Statements[1].(*ast.RawStmt)
	if !ok {
		t.Fatalf("Expected RawStmt for type alias, got %T", program.Statements[1])
	}
	if !strings.Contains(alias.Text, "string | number") {
		t.Errorf("Unexpected alias capture: %q", alias.Text)
	}

	enum, ok := program.Statements[2].(*ast.RawStmt)
	if !ok {
		t.Fatalf("Expected RawStmt for enum, got %T", program.Statements[2])
	}
	if !strings.Contains(enum.Text, "Red, Green") {
		t.Errorf("Unexpected enum capture: %q", enum.Text)
	}

	if _, ok := program.Statements[3].(*ast.VarDeclStmt); !ok {
		t.Errorf("Expected declaration after raw statements, got %T", program.Statements[3])
	}
}

// TestParseTemplateLiterals tests quasi and expression interleaving
func TestParseTemplateLiterals(t *testing.T) {
	source := "const msg = `hello ${name} and ${other}!`;"

	program := parseClean(t, source)

	tpl := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.TemplateLit)
	if len(tpl.Quasis) != 3 || len(tpl.Exprs) != 2 {
		t.Fatalf("Expected 3 quasis and 2 expressions, got %d and %d", len(tpl.Quasis), len(tpl.Exprs))
	}
	if tpl.Quasis[0] != "hello " || tpl.Quasis[1] != " and " || tpl.Quasis[2] != "!" {
		t.Errorf("Unexpected quasis: %q", tpl.Quasis)
	}
	if tpl.Exprs[0].(*ast.Ident).Name != "name" {
		t.Error("Expected first interpolation 'name'")
	}
}

// TestParseTaggedTemplate tests tag`...` parsing
func TestParseTaggedTemplate(t *testing.T) {
	source := "const q = sql`select ${col} from t`;"

	program := parseClean(t, source)

	tagged := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.TaggedTemplateExpr)
	if tagged.Tag.(*ast.Ident).Name != "sql" {
		t.Error("Expected tag 'sql'")
	}
	if len(tagged.Quasi.Exprs) != 1 {
		t.Errorf("Expected 1 interpolation, got %d", len(tagged.Quasi.Exprs))
	}
}

// TestParseObjectLiteral tests property kinds
func TestParseObjectLiteral(t *testing.T) {
	source := `const obj = {
  plain: 1,
  shorthand,
  [computed]: 2,
  method() { return 3; },
  get prop() { return 4; },
  ...rest,
};`

	program := parseClean(t, source)

	obj := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ObjectLit)
	if len(obj.Props) != 6 {
		t.Fatalf("Expected 6 properties, got %d", len(obj.Props))
	}
	if obj.Props[0].Kind != ast.PropInit || obj.Props[0].Shorthand {
		t.Error("Expected plain property")
	}
	if !obj.Props[1].Shorthand {
		t.Error("Expected shorthand property")
	}
	if !obj.Props[2].Computed {
		t.Error("Expected computed property")
	}
	if obj.Props[3].Kind != ast.PropMethod {
		t.Error("Expected method property")
	}
	if obj.Props[4].Kind != ast.PropGet {
		t.Error("Expected getter property")
	}
	if obj.Props[5].Kind != ast.PropSpread {
		t.Error("Expected spread property")
	}
}

// TestParseGetAsPlainKey tests that get/set only form accessors when a
// name follows
func TestParseGetAsPlainKey(t *testing.T) {
	source := `const o = { get: 1, set: 2 };`

	program := parseClean(t, source)

	obj := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.ObjectLit)
	if obj.Props[0].Kind != ast.PropInit || obj.Props[0].Key.(*ast.Ident).Name != "get" {
		t.Error("Expected plain property named 'get'")
	}
}

// TestParsePureAnnotation tests __PURE__ marker propagation
func TestParsePureAnnotation(t *testing.T) {
	source := `const a = /* @__PURE__ */ factory();
const b = /* @__PURE__ */ new Widget();
const c = factory();`

	program := parseClean(t, source)

	call := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if !call.Pure {
		t.Error("Expected pure call")
	}

	ctor := program.Statements[1].(*ast.VarDeclStmt).Decls[0].Init.(*ast.NewExpr)
	if !ctor.Pure {
		t.Error("Expected pure constructor")
	}

	plain := program.Statements[2].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if plain.Pure {
		t.Error("Expected unannotated call to not be pure")
	}
}

// TestParseInlineTag tests call-site inline tag detection
func TestParseInlineTag(t *testing.T) {
	source := `const a = /* @inline */ compute(1);
const b = compute(2);
const c = /* @inlineable */ compute(3);`

	program := parseClean(t, source)

	tagged := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if !tagged.Inline {
		t.Error("Expected inline-tagged call")
	}

	plain := program.Statements[1].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if plain.Inline {
		t.Error("Expected untagged call to not be inline")
	}

	prefixed := program.Statements[2].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CallExpr)
	if prefixed.Inline {
		t.Error("Expected @inlineable to not match the @inline tag")
	}
}

// TestParseASI tests automatic semicolon insertion
func TestParseASI(t *testing.T) {
	source := `const a = 1
const b = 2
function f() {
  return
  cleanup()
}`

	program := parseClean(t, source)

	if len(program.Statements) != 3 {
		t.Fatalf("Expected 3 statements, got %d", len(program.Statements))
	}

	fn := program.Statements[2].(*ast.FunctionDeclStmt)
	if len(fn.Body.Statements) != 2 {
		t.Fatalf("Expected 2 body statements, got %d", len(fn.Body.Statements))
	}
	ret := fn.Body.Statements[0].(*ast.ReturnStmt)
	if ret.Value != nil {
		t.Error("Expected bare return before line break")
	}
}

// TestParsePostfixNewlineRestriction tests that ++ on a new line starts a
// new statement
func TestParsePostfixNewlineRestriction(t *testing.T) {
	source := `let x = a
++b`

	program := parseClean(t, source)

	if len(program.Statements) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(program.Statements))
	}
	upd := program.Statements[1].(*ast.ExprStmt).Expr.(*ast.UpdateExpr)
	if !upd.Prefix {
		t.Error("Expected prefix increment statement")
	}
}

// TestParseDynamicImport tests import() calls and import.meta
func TestParseDynamicImport(t *testing.T) {
	source := `const mod = await import("./lazy");
if (import.meta.hot) {
  accept();
}`

	program := parseClean(t, source)

	await := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.AwaitExpr)
	call := await.Value.(*ast.CallExpr)
	if callee, ok := call.Callee.(*ast.Ident); !ok || callee.Name != "import" {
		t.Error("Expected dynamic import call")
	}

	cond := program.Statements[1].(*ast.IfStmt).Cond.(*ast.MemberExpr)
	meta := cond.Object.(*ast.MemberExpr)
	if meta.Property != "meta" {
		t.Errorf("Expected import.meta, got property %q", meta.Property)
	}
}

// TestParseAsCast tests as and satisfies expressions
func TestParseAsCast(t *testing.T) {
	source := `const el = input as HTMLInputElement;
const cfg = data satisfies Config;
const sum = a + b as number;`

	program := parseClean(t, source)

	el := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.TSAsExpr)
	if el.Op != "as" || el.Type != "HTMLInputElement" {
		t.Errorf("Expected as-cast to HTMLInputElement, got %q %q", el.Op, el.Type)
	}

	cfg := program.Statements[1].(*ast.VarDeclStmt).Decls[0].Init.(*ast.TSAsExpr)
	if cfg.Op != "satisfies" {
		t.Errorf("Expected satisfies, got %q", cfg.Op)
	}

	sum := program.Statements[2].(*ast.VarDeclStmt).Decls[0].Init.(*ast.TSAsExpr)
	if _, ok := sum.Expr.(*ast.BinaryExpr); !ok {
		t.Errorf("Expected cast to apply to the sum, got %T", sum.Expr)
	}
}

// TestParseSpreadAndRest tests rest parameters and spread arguments
func TestParseSpreadAndRest(t *testing.T) {
	source := `function gather(first, ...rest) {}
gather(...items, last);`

	program := parseClean(t, source)

	fn := program.Statements[0].(*ast.FunctionDeclStmt)
	if !fn.Params[1].Rest {
		t.Error("Expected rest parameter")
	}

	call := program.Statements[1].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	if _, ok := call.Args[0].(*ast.SpreadExpr); !ok {
		t.Errorf("Expected spread argument, got %T", call.Args[0])
	}
}

// TestParseLeadingComments tests comment trivia attachment to statements
func TestParseLeadingComments(t *testing.T) {
	source := `// first
const x = 1;

/* middle */
function f() {}`

	program := parseClean(t, source)

	decl := program.Statements[0].(*ast.VarDeclStmt)
	if len(decl.Leading) != 1 || decl.Leading[0].Text != " first" {
		t.Errorf("Expected line comment on declaration, got %v", decl.Leading)
	}

	fn := program.Statements[1].(*ast.FunctionDeclStmt)
	if len(fn.Leading) != 1 || !fn.Leading[0].Block {
		t.Errorf("Expected block comment on function, got %v", fn.Leading)
	}
}

// TestParseErrorRecovery tests that parsing continues after a bad statement
func TestParseErrorRecovery(t *testing.T) {
	source := `const = 5;
const ok = 1;`

	program, errors := parseSource(t, source)

	if len(errors) == 0 {
		t.Fatal("Expected parse errors")
	}

	var found bool
	for _, stmt := range program.Statements {
		if v, ok := stmt.(*ast.VarDeclStmt); ok && len(v.Decls) == 1 {
			if id, ok := v.Decls[0].Target.(*ast.Ident); ok && id.Name == "ok" {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected parser to recover and parse the following declaration")
	}
}

// TestParseSourceConvenience tests the one-shot lex and parse entry point
func TestParseSourceConvenience(t *testing.T) {
	program, errors := ParseSource("const x = 1;")

	if len(errors) > 0 {
		t.Fatalf("Parse errors: %v", errors)
	}
	if len(program.Statements) != 1 {
		t.Fatalf("Expected 1 statement, got %d", len(program.Statements))
	}
}

// TestParseExponentRightAssociative tests ** associativity
func TestParseExponentRightAssociative(t *testing.T) {
	source := `const v = 2 ** 3 ** 2;`

	program := parseClean(t, source)

	outer := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.BinaryExpr)
	if outer.Op != "**" {
		t.Fatalf("Expected ** expression, got %q", outer.Op)
	}
	if _, ok := outer.Right.(*ast.BinaryExpr); !ok {
		t.Error("Expected ** to associate to the right")
	}
	if _, ok := outer.Left.(*ast.NumberLit); !ok {
		t.Error("Expected number literal on the left")
	}
}

// TestParseConditionalChain tests ternary parsing
func TestParseConditionalChain(t *testing.T) {
	source := `const v = a ? b : c ? d : e;`

	program := parseClean(t, source)

	cond := program.Statements[0].(*ast.VarDeclStmt).Decls[0].Init.(*ast.CondExpr)
	if _, ok := cond.Else.(*ast.CondExpr); !ok {
		t.Errorf("Expected nested conditional in else branch, got %T", cond.Else)
	}
}
