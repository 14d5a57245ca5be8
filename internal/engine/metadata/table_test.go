package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name, file string) *FunctionRecord {
	return &FunctionRecord{Name: name, File: file}
}

func emptyModule(path string) *Module {
	return &Module{
		Path:      path,
		Imports:   make(map[string]ImportBinding),
		Reexports: make(map[string]ReExport),
	}
}

func TestResolveSameFileFirst(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("format", "src/a.ts"))
	table.Add(record("format", "src/b.ts"))

	h, ok := table.Resolve("format", emptyModule("src/a.ts"))

	require.True(t, ok)
	assert.Equal(t, "src/a.ts", table.Get(h).File)
}

func TestResolveSameFileLatestWins(t *testing.T) {
	table := NewTable(nil)
	first := table.Add(record("redecl", "src/a.ts"))
	second := table.Add(record("redecl", "src/a.ts"))

	h, ok := table.Resolve("redecl", emptyModule("src/a.ts"))

	require.True(t, ok)
	assert.NotEqual(t, first, h)
	assert.Equal(t, second, h)
}

func TestResolveImportOrigin(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("helper", "src/lib.ts"))
	table.Add(record("helper", "src/other.ts"))

	mod := emptyModule("src/app.ts")
	mod.Imports["helper"] = ImportBinding{Specifier: "./lib", File: "src/lib.ts", Source: "helper", Kind: ImportNamed}

	h, ok := table.Resolve("helper", mod)

	require.True(t, ok)
	assert.Equal(t, "src/lib.ts", table.Get(h).File)
}

func TestResolveImportAlias(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("helper", "src/lib.ts"))

	mod := emptyModule("src/app.ts")
	mod.Imports["h"] = ImportBinding{Specifier: "./lib", File: "src/lib.ts", Source: "helper", Kind: ImportNamed}

	h, ok := table.Resolve("h", mod)

	require.True(t, ok)
	assert.Equal(t, "helper", table.Get(h).Name)
}

func TestResolveThroughBarrel(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("helper", "src/lib/impl.ts"))
	table.Add(record("helper", "src/decoy.ts"))

	barrel := emptyModule("src/lib/index.ts")
	barrel.Reexports["helper"] = ReExport{Source: "helper", File: "src/lib/impl.ts"}
	table.AddModule(barrel)

	mod := emptyModule("src/app.ts")
	mod.Imports["helper"] = ImportBinding{Specifier: "./lib", File: "src/lib/index.ts", Source: "helper", Kind: ImportNamed}

	h, ok := table.Resolve("helper", mod)

	require.True(t, ok)
	assert.Equal(t, "src/lib/impl.ts", table.Get(h).File)
}

func TestResolveThroughWildcardBarrel(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("helper", "src/lib/impl.ts"))
	table.Add(record("helper", "src/decoy.ts"))

	barrel := emptyModule("src/lib/index.ts")
	barrel.Wildcards = []string{"src/lib/impl.ts"}
	table.AddModule(barrel)

	mod := emptyModule("src/app.ts")
	mod.Imports["helper"] = ImportBinding{Specifier: "./lib", File: "src/lib/index.ts", Source: "helper", Kind: ImportNamed}

	h, ok := table.Resolve("helper", mod)

	require.True(t, ok)
	assert.Equal(t, "src/lib/impl.ts", table.Get(h).File)
}

func TestResolveThroughImportThenExport(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("helper", "src/lib/impl.ts"))
	table.Add(record("helper", "src/decoy.ts"))

	// The hub imports the name and exports the local binding.
	hub := emptyModule("src/lib/hub.ts")
	hub.Imports["helper"] = ImportBinding{Specifier: "./impl", File: "src/lib/impl.ts", Source: "helper", Kind: ImportNamed}
	table.AddModule(hub)

	mod := emptyModule("src/app.ts")
	mod.Imports["helper"] = ImportBinding{Specifier: "./lib/hub", File: "src/lib/hub.ts", Source: "helper", Kind: ImportNamed}

	h, ok := table.Resolve("helper", mod)

	require.True(t, ok)
	assert.Equal(t, "src/lib/impl.ts", table.Get(h).File)
}

func TestResolveSoleGlobal(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("unique", "src/lib.ts"))

	h, ok := table.Resolve("unique", emptyModule("src/app.ts"))

	require.True(t, ok)
	assert.Equal(t, "src/lib.ts", table.Get(h).File)
}

func TestResolveLatestWhenAmbiguous(t *testing.T) {
	table := NewTable(nil)
	table.Add(record("dup", "src/first.ts"))
	table.Add(record("dup", "src/second.ts"))

	h, ok := table.Resolve("dup", emptyModule("src/app.ts"))

	require.True(t, ok)
	assert.Equal(t, "src/second.ts", table.Get(h).File)
}

func TestResolveUnknownName(t *testing.T) {
	table := NewTable(nil)

	_, ok := table.Resolve("missing", nil)

	assert.False(t, ok)
}

func TestResolveCyclicBarrelsTerminate(t *testing.T) {
	table := NewTable(nil)

	a := emptyModule("src/a.ts")
	a.Reexports["x"] = ReExport{Source: "x", File: "src/b.ts"}
	table.AddModule(a)

	b := emptyModule("src/b.ts")
	b.Reexports["x"] = ReExport{Source: "x", File: "src/a.ts"}
	table.AddModule(b)

	mod := emptyModule("src/c.ts")
	mod.Imports["x"] = ImportBinding{Specifier: "./a", File: "src/a.ts", Source: "x", Kind: ImportNamed}

	_, ok := table.Resolve("x", mod)

	assert.False(t, ok)
}

func TestPureSet(t *testing.T) {
	pure := make(PureSet)
	pure.Add("clamp")

	assert.True(t, pure.Contains("clamp"))
	assert.False(t, pure.Contains("other"))
}
