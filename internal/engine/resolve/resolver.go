// Package resolve computes transitive inlining chains: for a function, the
// ordered closure of other inlinable functions its body calls, plus the
// external bindings the splice drags into whatever file it lands in.
package resolve

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/js/ast"
)

// Requirement is one binding a spliced body may still reference, paired
// with the record whose declaring file anchors how the binding resolves.
type Requirement struct {
	Name string
	From metadata.Handle
}

// Chain is the transitive closure of inlinable callees reachable from a
// root function. Requires lists candidate external bindings; whether one
// actually needs an import depends on which references survive grafting,
// so the transformer filters at splice time.
type Chain struct {
	Root     metadata.Handle
	Callees  []metadata.Handle
	Requires []Requirement
}

// Resolver memoizes chains against one collected table
type Resolver struct {
	table  *metadata.Table
	chains map[metadata.Handle]*Chain
	logger *zap.Logger
}

// New creates a resolver over a collected table
func New(table *metadata.Table, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		table:  table,
		chains: make(map[metadata.Handle]*Chain),
		logger: logger,
	}
}

// ChainFor computes the inlining chain of a function. Cycles back through
// the root are cut by the visited set; the grafting pass keeps its own
// stack guard for recursive calls it must leave in place.
func (r *Resolver) ChainFor(root metadata.Handle) *Chain {
	if chain, ok := r.chains[root]; ok {
		return chain
	}

	chain := &Chain{Root: root}
	visited := map[metadata.Handle]bool{root: true}
	seen := make(map[string]bool)
	queue := []metadata.Handle{root}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		rec := r.table.Get(current)

		for _, dep := range rec.LocalDeps {
			key := dep + "\x00" + rec.File
			if seen[key] {
				continue
			}
			seen[key] = true
			chain.Requires = append(chain.Requires, Requirement{Name: dep, From: current})
		}

		for _, callee := range r.inlinableCallees(rec) {
			if visited[callee] {
				continue
			}
			visited[callee] = true
			chain.Callees = append(chain.Callees, callee)
			queue = append(queue, callee)
		}
	}

	r.logger.Debug("resolved inlining chain",
		zap.String("root", r.table.Get(root).Name),
		zap.Int("callees", len(chain.Callees)),
		zap.Int("requirements", len(chain.Requires)))

	r.chains[root] = chain
	return chain
}

// inlinableCallees finds the calls in a body that grafting will inline:
// ident calls resolving to an inline-tagged record, plus calls carrying
// their own call-site tag.
func (r *Resolver) inlinableCallees(rec *metadata.FunctionRecord) []metadata.Handle {
	mod := r.table.ModuleOf(rec.File)
	var callees []metadata.Handle
	ast.InspectStmts(rec.Body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		ident, ok := call.Callee.(*ast.Ident)
		if !ok {
			return true
		}
		h, ok := r.table.Resolve(ident.Name, mod)
		if !ok {
			return true
		}
		if call.Inline || r.table.Get(h).Inline {
			callees = append(callees, h)
		}
		return true
	})
	return callees
}
