package transform

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/engine/resolve"
	"github.com/krispya/graft/internal/js/parser"
	"github.com/krispya/graft/internal/js/printer"
)

// rewrite collects every file, transforms target, and returns the printed
// result alongside the file report.
func rewrite(t *testing.T, files map[string]string, target string) (string, *FileResult) {
	t.Helper()
	host := discovery.MapHost(files)
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	table, pure := metadata.NewCollector(host, nil).Collect(paths)
	tr := New(host, table, resolve.New(table, nil), pure, nil)
	program, errs := parser.ParseSource(files[target])
	require.Empty(t, errs)
	result := tr.File(program, target)
	return printer.Print(program), result
}

func single(t *testing.T, source string) (string, *FileResult) {
	t.Helper()
	return rewrite(t, map[string]string{"src/main.ts": source}, "src/main.ts")
}

// normalize reprints source through the shared printer so expected and
// actual output compare on structure rather than incidental formatting.
func normalize(t *testing.T, source string) string {
	t.Helper()
	program, errs := parser.ParseSource(source)
	require.Empty(t, errs)
	return printer.Print(program)
}

func TestSubstituteSimpleBody(t *testing.T) {
	got, result := single(t, `// @inline
function add(a, b) {
  return a + b;
}

export function run(x) {
  const r = add(x, 2);
  return r;
}
`)
	want := normalize(t, `// @inline
function add(a, b) {
  return a + b;
}

export function run(x) {
  const r = x + 2;
  return r;
}
`)
	assert.Equal(t, want, got)
	assert.True(t, result.Changed)
	assert.Equal(t, map[string]int{"add": 1}, result.Inlined)
	require.Len(t, result.Functions, 1)
	assert.Equal(t, FunctionStat{Name: "run", Pure: false, Inlined: 1}, result.Functions[0])
}

func TestSpliceBodyWithLocals(t *testing.T) {
	got, result := single(t, `// @inline
function clamp(v, lo, hi) {
  const bounded = Math.min(Math.max(v, lo), hi);
  return bounded;
}

export function run(x) {
  const r = clamp(x, 0, 10);
  return r;
}
`)
	want := normalize(t, `// @inline
function clamp(v, lo, hi) {
  const bounded = Math.min(Math.max(v, lo), hi);
  return bounded;
}

export function run(x) {
  const v_1_$f = x;
  const lo_2_$f = 0;
  const hi_3_$f = 10;
  const bounded_4_$f = Math.min(Math.max(v_1_$f, lo_2_$f), hi_3_$f);
  const result_5_$f = bounded_4_$f;
  const r = result_5_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
	assert.True(t, result.Changed)
}

func TestEarlyReturnBecomesBranchAssignment(t *testing.T) {
	got, _ := single(t, `// @inline
function pick(flag, a, b) {
  if (flag) {
    return a;
  }
  return b;
}

export function run(c, x, y) {
  const r = pick(c, x, y);
  return r;
}
`)
	want := normalize(t, `// @inline
function pick(flag, a, b) {
  if (flag) {
    return a;
  }
  return b;
}

export function run(c, x, y) {
  const flag_1_$f = c;
  const a_2_$f = x;
  const b_3_$f = y;
  let result_4_$f;
  if (flag_1_$f) {
    result_4_$f = a_2_$f;
  } else {
    result_4_$f = b_3_$f;
  }
  const r = result_4_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestStatementsAfterGuardNestIntoElse(t *testing.T) {
	got, _ := single(t, `// @inline
function guard(n) {
  if (n < 0) {
    return 0;
  }
  const doubled = n * 2;
  return doubled;
}

export function run(k) {
  const r = guard(k);
  return r;
}
`)
	want := normalize(t, `// @inline
function guard(n) {
  if (n < 0) {
    return 0;
  }
  const doubled = n * 2;
  return doubled;
}

export function run(k) {
  const n_1_$f = k;
  let result_3_$f;
  if (n_1_$f < 0) {
    result_3_$f = 0;
  } else {
    const doubled_2_$f = n_1_$f * 2;
    result_3_$f = doubled_2_$f;
  }
  const r = result_3_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestBareBranchGrowsBlock(t *testing.T) {
	got, _ := single(t, `// @inline
function report(x) {
  const tag = "[" + x + "]";
  console.log(tag);
}

export function run(flag, v) {
  if (flag) report(v);
}
`)
	want := normalize(t, `// @inline
function report(x) {
  const tag = "[" + x + "]";
  console.log(tag);
}

export function run(flag, v) {
  if (flag) {
    const x_1_$f = v;
    const tag_2_$f = "[" + x_1_$f + "]";
    console.log(tag_2_$f);
  }
}
`)
	assert.Equal(t, want, got)
}

func TestCallSiteTags(t *testing.T) {
	got, result := single(t, `function twice(n) {
  return n * 2;
}

export function run(x) {
  // @inline
  const a = twice(x);
  const b = /* @inline */ twice(x);
  const c = twice(x);
  return a + b + c;
}
`)
	want := normalize(t, `function twice(n) {
  return n * 2;
}

export function run(x) {
  // @inline
  const a = x * 2;
  const b = x * 2;
  const c = twice(x);
  return a + b + c;
}
`)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, result.Inlined["twice"])
}

func TestTransformIsIdempotent(t *testing.T) {
	sources := []string{
		`// @inline
function add(a, b) {
  return a + b;
}

export function run(x) {
  const r = add(x, 2);
  return r;
}
`,
		`// @inline
function guard(n) {
  if (n < 0) {
    return 0;
  }
  const doubled = n * 2;
  return doubled;
}

export function run(k) {
  const r = guard(k);
  return r;
}
`,
		`// @inline @pure
function dist(x) {
  const sq = x * x;
  return sq;
}

export function run(v) {
  const a = dist(v);
  const b = dist(v);
  return a + b;
}
`,
	}
	for _, source := range sources {
		first, result := single(t, source)
		require.True(t, result.Changed)
		second, again := single(t, first)
		assert.False(t, again.Changed)
		assert.Equal(t, first, second)
	}
}

func TestPureDuplicatesCollapse(t *testing.T) {
	got, result := single(t, `// @inline @pure
function dist(x) {
  const sq = x * x;
  return sq;
}

export function run(v) {
  const a = dist(v);
  const b = dist(v);
  return a + b;
}
`)
	want := normalize(t, `// @inline @pure
function dist(x) {
  const sq = x * x;
  return sq;
}

export function run(v) {
  const x_1_$f = v;
  const sq_2_$f = x_1_$f * x_1_$f;
  const a = sq_2_$f;
  const b = sq_2_$f;
  return a + b;
}
`)
	assert.Equal(t, want, got)
	assert.Equal(t, 2, result.Inlined["dist"])
}

func TestDuplicatesStayApartAcrossBranches(t *testing.T) {
	got, _ := single(t, `// @inline @pure
function half(x) {
  const h = x / 2;
  return h;
}

export function run(v, flag) {
  if (flag) {
    const a = half(v);
    return a;
  } else {
    const b = half(v);
    return b;
  }
}
`)
	want := normalize(t, `// @inline @pure
function half(x) {
  const h = x / 2;
  return h;
}

export function run(v, flag) {
  if (flag) {
    const x_1_$f = v;
    const h_2_$f = x_1_$f / 2;
    const a = h_2_$f;
    return a;
  } else {
    const x_4_$f = v;
    const h_5_$f = x_4_$f / 2;
    const b = h_5_$f;
    return b;
  }
}
`)
	assert.Equal(t, want, got)
}

func TestMissingArgumentBindsUndefined(t *testing.T) {
	got, _ := single(t, `// @inline
function greet(name, punct) {
  const msg = "hi " + name + punct;
  return msg;
}

export function run(n) {
  const r = greet(n);
  return r;
}
`)
	want := normalize(t, `// @inline
function greet(name, punct) {
  const msg = "hi " + name + punct;
  return msg;
}

export function run(n) {
  const name_1_$f = n;
  const punct_2_$f = undefined;
  const msg_3_$f = "hi " + name_1_$f + punct_2_$f;
  const result_4_$f = msg_3_$f;
  const r = result_4_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestDefaultParameterValueBinds(t *testing.T) {
	got, _ := single(t, `// @inline
function pad(s, fill = " ") {
  const out = s + fill;
  return out;
}

export function run(v) {
  const r = pad(v);
  return r;
}
`)
	want := normalize(t, `// @inline
function pad(s, fill = " ") {
  const out = s + fill;
  return out;
}

export function run(v) {
  const s_1_$f = v;
  const fill_2_$f = " ";
  const out_3_$f = s_1_$f + fill_2_$f;
  const result_4_$f = out_3_$f;
  const r = result_4_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestCrossFileCalleeCarriesItsDependencies(t *testing.T) {
	files := map[string]string{
		"src/config.ts": `export const FACTOR = 3;
`,
		"src/util.ts": `import { FACTOR } from './config';

// @inline
export function scale(v) {
  const scaled = v * FACTOR;
  return scaled;
}
`,
		"src/main.ts": `import { scale } from './util';

export function run(x) {
  const r = scale(x);
  return r;
}
`,
	}
	got, result := rewrite(t, files, "src/main.ts")
	want := normalize(t, `import { scale } from './util';

export function run(x) {
  const v_1_$f = x;
  const scaled_2_$f = v_1_$f * FACTOR;
  const result_3_$f = scaled_2_$f;
  const r = result_3_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
	require.Len(t, result.Needs, 1)
	assert.Equal(t, "FACTOR", result.Needs[0].Name)
}

func TestNestedInlineChain(t *testing.T) {
	got, result := single(t, `// @inline
function inner(x) {
  return x + 1;
}

// @inline
function outer(y) {
  const mid = inner(y) * 2;
  return mid;
}

export function run(v) {
  const r = outer(v);
  return r;
}
`)
	want := normalize(t, `// @inline
function inner(x) {
  return x + 1;
}

// @inline
function outer(y) {
  const mid = inner(y) * 2;
  return mid;
}

export function run(v) {
  const y_1_$f = v;
  const mid_2_$f = (y_1_$f + 1) * 2;
  const result_4_$f = mid_2_$f;
  const r = result_4_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
	assert.Equal(t, 1, result.Inlined["outer"])
	assert.Equal(t, 1, result.Inlined["inner"])
}

func TestInlinedAwayDependencyNeedsNoImport(t *testing.T) {
	files := map[string]string{
		"src/util.ts": `// @inline
function helperOnly(v) {
  return v * 2;
}

// @inline
export function api(v) {
  const r = helperOnly(v);
  return r;
}
`,
		"src/main.ts": `import { api } from './util';

export function run(x) {
  const out = api(x);
  return out;
}
`,
	}
	got, result := rewrite(t, files, "src/main.ts")
	want := normalize(t, `import { api } from './util';

export function run(x) {
  const v_1_$f = x;
  const r_2_$f = v_1_$f * 2;
  const result_4_$f = r_2_$f;
  const out = result_4_$f;
  return out;
}
`)
	assert.Equal(t, want, got)
	assert.Empty(t, result.Needs)
}

func TestRecursiveCallStaysPut(t *testing.T) {
	got, _ := single(t, `// @inline
function fact(n) {
  if (n <= 1) {
    return 1;
  }
  return n * fact(n - 1);
}

export function run(x) {
  const r = fact(x);
  return r;
}
`)
	want := normalize(t, `// @inline
function fact(n) {
  if (n <= 1) {
    return 1;
  }
  return n * fact(n - 1);
}

export function run(x) {
  const n_1_$f = x;
  let result_2_$f;
  if (n_1_$f <= 1) {
    result_2_$f = 1;
  } else {
    result_2_$f = n_1_$f * fact(n_1_$f - 1);
  }
  const r = result_2_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestAsyncBodyIsNotSpliced(t *testing.T) {
	source := `// @inline
async function fetchJson(url) {
  const res = await fetch(url);
  return res.json();
}

export async function run(u) {
  const d = await fetchJson(u);
  return d;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
	assert.Empty(t, result.Inlined)
}

func TestThisBoundBodyIsNotSpliced(t *testing.T) {
	source := `// @inline
function getX() {
  return this.x;
}

export function run(o) {
  const r = getX();
  return r;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestOptionalCallIsNotInlined(t *testing.T) {
	source := `// @inline
function unit(x) {
  return x;
}

export function run(f) {
  const r = unit?.(f);
  return r;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestSpreadArgumentBlocksInlining(t *testing.T) {
	source := `// @inline
function sum3(a, b, c) {
  return a + b + c;
}

export function run(xs) {
  const r = sum3(...xs);
  return r;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestRestParameterCollectsArguments(t *testing.T) {
	got, _ := single(t, `// @inline
function tail(first, ...rest) {
  return rest;
}

export function run(a, b, c) {
  const r = tail(a, b, c);
  return r;
}
`)
	want := normalize(t, `// @inline
function tail(first, ...rest) {
  return rest;
}

export function run(a, b, c) {
  const r = [b, c];
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestDiscardedResultLeavesNoBinding(t *testing.T) {
	got, _ := single(t, `// @inline
function audit(x) {
  const entry = "audit:" + x;
  console.log(entry);
  return entry;
}

export function run(v) {
  audit(v);
  return v;
}
`)
	want := normalize(t, `// @inline
function audit(x) {
  const entry = "audit:" + x;
  console.log(entry);
  return entry;
}

export function run(v) {
  const x_1_$f = v;
  const entry_2_$f = "audit:" + x_1_$f;
  console.log(entry_2_$f);
  return v;
}
`)
	assert.Equal(t, want, got)
}

func TestDiscardedCallKeepsItsComment(t *testing.T) {
	got, _ := single(t, `// @inline
function audit(x) {
  const entry = "audit:" + x;
  console.log(entry);
  return entry;
}

export function run(v) {
  // timing probe
  audit(v);
  return v;
}
`)
	want := normalize(t, `// @inline
function audit(x) {
  const entry = "audit:" + x;
  console.log(entry);
  return entry;
}

export function run(v) {
  // timing probe
  const x_1_$f = v;
  const entry_2_$f = "audit:" + x_1_$f;
  console.log(entry_2_$f);
  return v;
}
`)
	assert.Equal(t, want, got)
}

func TestSurvivingPureCallsGetMarked(t *testing.T) {
	got, _ := single(t, `// @inline
function unit(x) {
  return x;
}

// @pure
function heavy(n) {
  return n * n * n;
}

export function run(a) {
  const u = unit(a);
  const h = heavy(a);
  return u + h;
}
`)
	want := normalize(t, `// @inline
function unit(x) {
  return x;
}

// @pure
function heavy(n) {
  return n * n * n;
}

export function run(a) {
  const u = a;
  const h = /* @__PURE__ */ heavy(a);
  return u + h;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectBarrierBlocksMultiStatementSplice(t *testing.T) {
	// q.shift() must run before the callee body; a body that needs
	// statement form cannot hoist above it, so the call stands.
	source := `// @inline
function bump(n) {
  const b = n + 1;
  return b;
}

export function run(q) {
  const first = q.shift(), second = bump(first);
  return second;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestEffectBarrierStillSubstitutesPureBody(t *testing.T) {
	got, _ := single(t, `// @inline
function incr(n) {
  return n + 1;
}

export function run(q) {
  const first = q.shift(), second = incr(first);
  return second;
}
`)
	want := normalize(t, `// @inline
function incr(n) {
  return n + 1;
}

export function run(q) {
  const first = q.shift(), second = first + 1;
  return second;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectfulArgumentRefusedInExpressionPosition(t *testing.T) {
	// the parameter is read twice, so an effectful argument cannot be
	// substituted, and the && operand position cannot hold a binding
	source := `// @inline
function double(n) {
  return n + n;
}

export function run(list, flag) {
  const r = flag && double(list.pop());
  return r;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestEffectfulArgumentBindsInStatementPosition(t *testing.T) {
	got, _ := single(t, `// @inline
function double(n) {
  return n + n;
}

export function run(list) {
  const r = double(list.pop());
  return r;
}
`)
	want := normalize(t, `// @inline
function double(n) {
  return n + n;
}

export function run(list) {
  const n_1_$f = list.pop();
  const result_2_$f = n_1_$f + n_1_$f;
  const r = result_2_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectfulArgumentsSubstituteInOrder(t *testing.T) {
	// declaration order equals evaluation order, so the effects may ride
	// the substituted expression directly
	got, _ := single(t, `// @inline
function add(a, b) {
  return a + b;
}

export function run(log) {
  const r = add(log.pop(), log.shift());
  return r;
}
`)
	want := normalize(t, `// @inline
function add(a, b) {
  return a + b;
}

export function run(log) {
  const r = log.pop() + log.shift();
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectfulArgumentsKeepDeclarationOrder(t *testing.T) {
	// the body reads its parameters in the opposite order, so substitution
	// would run the second argument's effect first; the bindings must be
	// hoisted instead
	got, _ := single(t, `// @inline
function swap(a, b) {
  return b + a;
}

export function run(log) {
  const r = swap(log.push(1), log.push(2));
  return r;
}
`)
	want := normalize(t, `// @inline
function swap(a, b) {
  return b + a;
}

export function run(log) {
  const a_1_$f = log.push(1);
  const b_2_$f = log.push(2);
  const result_3_$f = b_2_$f + a_1_$f;
  const r = result_3_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectfulArgumentNotMadeConditional(t *testing.T) {
	// the parameter sits in a ternary branch: substituting would skip the
	// argument's effect whenever the branch is not taken, so the binding
	// must be hoisted ahead of the conditional
	got, _ := single(t, `// @inline
function guard(flag, x) {
  return flag ? x : 0;
}

export function run(f, log) {
  const r = guard(f, log.push(1));
  return r;
}
`)
	want := normalize(t, `// @inline
function guard(flag, x) {
  return flag ? x : 0;
}

export function run(f, log) {
  const flag_1_$f = f;
  const x_2_$f = log.push(1);
  const result_3_$f = flag_1_$f ? x_2_$f : 0;
  const r = result_3_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestEffectfulArgumentNotSkippedByShortCircuit(t *testing.T) {
	got, _ := single(t, `// @inline
function both(a, b) {
  return a && b;
}

export function run(f, log) {
  const r = both(f, log.push(1));
  return r;
}
`)
	want := normalize(t, `// @inline
function both(a, b) {
  return a && b;
}

export function run(f, log) {
  const a_1_$f = f;
  const b_2_$f = log.push(1);
  const result_3_$f = a_1_$f && b_2_$f;
  const r = result_3_$f;
  return r;
}
`)
	assert.Equal(t, want, got)
}

func TestConditionalEffectPositionBlocksExpressionOnlySite(t *testing.T) {
	// a concise arrow body cannot hold hoisted bindings, and substitution
	// would make the push conditional, so the call stands
	source := `// @inline
function guard(flag, x) {
  return flag ? x : 0;
}

export const pick = (f, log) => guard(f, log.push(1));
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}

func TestArrowInitializerInlines(t *testing.T) {
	got, _ := single(t, `// @inline
const inc = (n) => n + 1;

export const bump = (v) => inc(v) * 3;
`)
	want := normalize(t, `// @inline
const inc = (n) => n + 1;

export const bump = (v) => (v + 1) * 3;
`)
	assert.Equal(t, want, got)
}

func TestUnresolvableCalleeLeftAlone(t *testing.T) {
	source := `export function run(x) {
  // @inline
  const r = mystery(x);
  return r;
}
`
	got, result := single(t, source)
	assert.Equal(t, normalize(t, source), got)
	assert.False(t, result.Changed)
}
