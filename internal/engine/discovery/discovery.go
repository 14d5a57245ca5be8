// Package discovery expands an initial file set by following re-export and
// import edges, producing the candidate set the metadata collector scans.
// Traversal is breadth-first over parsed trees with a visited set, so cyclic
// re-export graphs terminate. Unresolvable and excluded edges are dropped
// without failing discovery.
package discovery

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/parser"
)

// EdgeKind classifies how one file references another
type EdgeKind int

const (
	EdgeWildcardReExport EdgeKind = iota
	EdgeNamedReExport
	EdgeImport
	EdgeSideEffectImport
)

// String returns the edge kind's name for logging
func (k EdgeKind) String() string {
	switch k {
	case EdgeWildcardReExport:
		return "wildcard re-export"
	case EdgeNamedReExport:
		return "named re-export"
	case EdgeImport:
		return "import"
	case EdgeSideEffectImport:
		return "side-effect import"
	}
	return "unknown"
}

// Edge is one discovered reference from a file to a module specifier.
// Resolved is "" when no readable file matched. Edges exist for traversal
// and diagnostics only; they are not retained after discovery.
type Edge struct {
	Kind     EdgeKind
	Source   string // specifier literal as written
	Resolved string
}

// ImportPolicy controls which import edges discovery follows
type ImportPolicy int

const (
	// ImportsAll follows every import declaration
	ImportsAll ImportPolicy = iota
	// ImportsSideEffects follows only imports with zero bound specifiers
	ImportsSideEffects
	// ImportsOff follows no import declarations
	ImportsOff
)

// Options configures a discovery traversal
type Options struct {
	FollowReExports bool
	FollowImports   ImportPolicy
	Exclude         func(path string) bool
	Logger          *zap.Logger
}

// DefaultOptions returns the default policy: follow re-exports and all
// imports, exclude nothing.
func DefaultOptions() Options {
	return Options{
		FollowReExports: true,
		FollowImports:   ImportsAll,
	}
}

// Result is the discovered candidate set. Files holds the initial set plus
// every admitted discovery, in traversal order; Provenance records which
// file referenced each discovered one.
type Result struct {
	Files      []string
	Provenance map[string]string
}

// Discover expands the initial file set by following reference edges
func Discover(host Host, initial []string, opts Options) Result {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := Result{Provenance: make(map[string]string)}
	visited := make(map[string]bool)
	queue := make([]string, 0, len(initial))
	queue = append(queue, initial...)

	for len(queue) > 0 {
		file := queue[0]
		queue = queue[1:]
		if visited[file] {
			continue
		}
		visited[file] = true

		content, err := host.ReadFile(file)
		if err != nil {
			logger.Debug("discovery: unreadable file skipped",
				zap.String("file", file), zap.Error(err))
			continue
		}
		result.Files = append(result.Files, file)

		program, parseErrors := parser.ParseSource(string(content))
		if len(parseErrors) > 0 {
			logger.Debug("discovery: parse errors, following what parsed",
				zap.String("file", file), zap.Int("errors", len(parseErrors)))
		}

		for _, edge := range collectEdges(program, opts) {
			edge.Resolved = Resolve(host, file, edge.Source)
			if edge.Resolved == "" {
				logger.Debug("discovery: unresolved edge dropped",
					zap.String("file", file),
					zap.String("specifier", edge.Source),
					zap.Stringer("kind", edge.Kind))
				continue
			}
			if opts.Exclude != nil && opts.Exclude(edge.Resolved) {
				continue
			}
			if !visited[edge.Resolved] {
				if _, seen := result.Provenance[edge.Resolved]; !seen {
					result.Provenance[edge.Resolved] = file
				}
				queue = append(queue, edge.Resolved)
			}
		}
	}

	return result
}

// collectEdges extracts the reference edges the policy admits
func collectEdges(program *ast.Program, opts Options) []Edge {
	var edges []Edge
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.ExportAllStmt:
			if opts.FollowReExports {
				edges = append(edges, Edge{Kind: EdgeWildcardReExport, Source: s.Source.Value()})
			}

		case *ast.ExportNamedStmt:
			if opts.FollowReExports && s.Source != nil {
				edges = append(edges, Edge{Kind: EdgeNamedReExport, Source: s.Source.Value()})
			}

		case *ast.ImportDeclStmt:
			kind := EdgeImport
			if s.Default == "" && s.Namespace == "" && len(s.Named) == 0 {
				kind = EdgeSideEffectImport
			}
			switch opts.FollowImports {
			case ImportsOff:
				continue
			case ImportsSideEffects:
				if kind != EdgeSideEffectImport {
					continue
				}
			case ImportsAll:
			}
			edges = append(edges, Edge{Kind: kind, Source: s.Source.Value()})
		}
	}
	return edges
}
