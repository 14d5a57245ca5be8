package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/engine/metadata"
)

func buildTable(t *testing.T, host discovery.MapHost, files ...string) *metadata.Table {
	t.Helper()
	table, _ := metadata.NewCollector(host, nil).Collect(files)
	return table
}

func handleOf(t *testing.T, table *metadata.Table, name string) metadata.Handle {
	t.Helper()
	handles := table.Handles(name)
	require.Len(t, handles, 1, "expected exactly one record for %q", name)
	return handles[0]
}

func TestChainTransitive(t *testing.T) {
	host := discovery.MapHost{"src/chain.ts": `// @inline
export function outer(x) {
  return middle(x) + 1;
}

// @inline
export function middle(x) {
  return inner(x) * 2;
}

// @inline
export function inner(x) {
  return x + offset;
}

export const offset = 10;`}

	table := buildTable(t, host, "src/chain.ts")
	resolver := New(table, nil)

	outer := handleOf(t, table, "outer")
	middle := handleOf(t, table, "middle")
	inner := handleOf(t, table, "inner")

	chain := resolver.ChainFor(outer)

	assert.Equal(t, outer, chain.Root)
	assert.Equal(t, []metadata.Handle{middle, inner}, chain.Callees)
	assert.Equal(t, []Requirement{
		{Name: "middle", From: outer},
		{Name: "inner", From: middle},
		{Name: "offset", From: inner},
	}, chain.Requires)
}

func TestChainCycleTerminates(t *testing.T) {
	host := discovery.MapHost{"src/cycle.ts": `// @inline
export function ping(n) {
  return n <= 0 ? 0 : pong(n - 1);
}

// @inline
export function pong(n) {
  return ping(n);
}`}

	table := buildTable(t, host, "src/cycle.ts")
	resolver := New(table, nil)

	ping := handleOf(t, table, "ping")
	pong := handleOf(t, table, "pong")

	chain := resolver.ChainFor(ping)

	assert.Equal(t, []metadata.Handle{pong}, chain.Callees)
	// Both directions stay as requirements so surviving recursive calls
	// can still be imported.
	assert.Equal(t, []Requirement{
		{Name: "pong", From: ping},
		{Name: "ping", From: pong},
	}, chain.Requires)
}

func TestChainSkipsUntaggedCallees(t *testing.T) {
	host := discovery.MapHost{"src/plaincall.ts": `// @inline
export function wrapper(x) {
  return plain(x);
}

export function plain(x) {
  return x + 1;
}`}

	table := buildTable(t, host, "src/plaincall.ts")
	resolver := New(table, nil)

	chain := resolver.ChainFor(handleOf(t, table, "wrapper"))

	assert.Empty(t, chain.Callees)
	// plain is still a binding requirement even though it is not inlined.
	require.Len(t, chain.Requires, 1)
	assert.Equal(t, "plain", chain.Requires[0].Name)
}

func TestChainFollowsCallSiteTags(t *testing.T) {
	host := discovery.MapHost{"src/sitetag.ts": `// @inline
export function wrapper(x) {
  return /* @inline */ plain(x);
}

export function plain(x) {
  return x + 1;
}`}

	table := buildTable(t, host, "src/sitetag.ts")
	resolver := New(table, nil)

	chain := resolver.ChainFor(handleOf(t, table, "wrapper"))

	assert.Equal(t, []metadata.Handle{handleOf(t, table, "plain")}, chain.Callees)
}

func TestChainCrossFile(t *testing.T) {
	host := discovery.MapHost{
		"src/app.ts": `import { scale } from "./math";

// @inline
export function zoom(x) {
  return scale(x, 2);
}`,
		"src/math.ts": `// @inline
export function scale(v, f) {
  return v * factor(f);
}

function factor(f) {
  return f;
}`,
	}

	table := buildTable(t, host, "src/app.ts", "src/math.ts")
	resolver := New(table, nil)

	zoom := handleOf(t, table, "zoom")
	scale := handleOf(t, table, "scale")

	chain := resolver.ChainFor(zoom)

	assert.Equal(t, []metadata.Handle{scale}, chain.Callees)
	assert.Equal(t, []Requirement{
		{Name: "scale", From: zoom},
		{Name: "factor", From: scale},
	}, chain.Requires)
}

func TestChainMemoized(t *testing.T) {
	host := discovery.MapHost{"src/memo.ts": `// @inline
export function solo(x) {
  return x;
}`}

	table := buildTable(t, host, "src/memo.ts")
	resolver := New(table, nil)
	solo := handleOf(t, table, "solo")

	first := resolver.ChainFor(solo)
	second := resolver.ChainFor(solo)

	assert.Same(t, first, second)
}
