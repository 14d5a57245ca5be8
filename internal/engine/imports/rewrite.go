// Package imports adds the import declarations grafted code needs. The
// transformer reports which names a file's spliced bodies still reference
// and which function they rode in on; this package computes where each
// name truly lives, derives a specifier relative to the transformed file,
// and inserts or merges declarations without ever duplicating a binding.
package imports

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/engine/resolve"
	"github.com/krispya/graft/internal/js/ast"
)

// origin is one computed import: the specifier to write and the shape of
// the binding at that source.
type origin struct {
	specifier string
	name      string // exported name at the origin, "" for default/namespace
	kind      metadata.ImportKind
}

// Rewrite inserts imports into program, parsed from file, for every needed
// name not already bound there. It reports whether the tree changed.
func Rewrite(program *ast.Program, file string, needs []resolve.Requirement, table *metadata.Table, logger *zap.Logger) bool {
	if len(needs) == 0 {
		return false
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	declared := metadata.DeclaredNames(program)
	bound := importedLocals(program)
	existing := bySource(program)
	quote := quoteStyle(program.Statements)

	var added []ast.StmtNode
	changed := false
	for _, need := range needs {
		if declared[need.Name] || bound[need.Name] {
			continue
		}
		org, ok := originFor(need, file, table, logger)
		if !ok {
			continue
		}
		decl, merged := placeBinding(existing, org, need.Name, quote)
		if decl != nil {
			existing[org.specifier] = decl
			added = append(added, decl)
		}
		if decl != nil || merged {
			bound[need.Name] = true
			changed = true
			logger.Debug("import added for grafted dependency",
				zap.String("name", need.Name),
				zap.String("specifier", org.specifier),
				zap.String("file", file))
		}
	}
	if len(added) > 0 {
		at := insertionIndex(program.Statements)
		stmts := make([]ast.StmtNode, 0, len(program.Statements)+len(added))
		stmts = append(stmts, program.Statements[:at]...)
		stmts = append(stmts, added...)
		stmts = append(stmts, program.Statements[at:]...)
		program.Statements = stmts
	}
	return changed
}

// originFor locates the true declaring source of one requirement. A name
// the callee's file itself imported is followed one hop to where that
// import points, because the callee may have been relocated through
// barrel re-exports; a name declared in the callee's file imports straight
// from there.
func originFor(need resolve.Requirement, file string, table *metadata.Table, logger *zap.Logger) (origin, bool) {
	rec := table.Get(need.From)
	home := table.ModuleOf(rec.File)
	if home != nil {
		if binding, ok := home.Imports[need.Name]; ok {
			if binding.File == "" {
				// package or unresolvable specifier: carry it verbatim
				logger.Debug("dependency specifier kept as written",
					zap.String("name", need.Name),
					zap.String("specifier", binding.Specifier))
				return origin{specifier: binding.Specifier, name: binding.Source, kind: binding.Kind}, true
			}
			if binding.File == file {
				return origin{}, false
			}
			return origin{
				specifier: relativeSpecifier(file, binding.File),
				name:      binding.Source,
				kind:      binding.Kind,
			}, true
		}
	}
	if rec.File == file {
		return origin{}, false
	}
	return origin{
		specifier: relativeSpecifier(file, rec.File),
		name:      need.Name,
		kind:      metadata.ImportNamed,
	}, true
}

// placeBinding merges the binding into an existing declaration for the
// same source when the shapes allow, otherwise builds a fresh declaration.
// It returns the new declaration (nil when merged) and whether a merge
// happened.
func placeBinding(existing map[string]*ast.ImportDeclStmt, org origin, local string, quote byte) (*ast.ImportDeclStmt, bool) {
	decl := existing[org.specifier]
	switch org.kind {
	case metadata.ImportDefault:
		if decl != nil && decl.Default == "" && !decl.TypeOnly {
			decl.Default = local
			return nil, true
		}
	case metadata.ImportNamespace:
		if decl != nil && decl.Namespace == "" && len(decl.Named) == 0 && !decl.TypeOnly {
			decl.Namespace = local
			return nil, true
		}
	default:
		if decl != nil && decl.Namespace == "" && !decl.TypeOnly {
			decl.Named = append(decl.Named, namedSpec(org.name, local))
			return nil, true
		}
	}
	return newImport(org, local, quote), false
}

func newImport(org origin, local string, quote byte) *ast.ImportDeclStmt {
	decl := &ast.ImportDeclStmt{
		Source: &ast.StringLit{Raw: string(quote) + org.specifier + string(quote)},
	}
	switch org.kind {
	case metadata.ImportDefault:
		decl.Default = local
	case metadata.ImportNamespace:
		decl.Namespace = local
	default:
		decl.Named = []*ast.ImportSpec{namedSpec(org.name, local)}
	}
	return decl
}

func namedSpec(source, local string) *ast.ImportSpec {
	if source == "" || source == local {
		return &ast.ImportSpec{Name: local}
	}
	return &ast.ImportSpec{Name: source, Alias: local}
}

// importedLocals collects every name the file's imports already bind.
func importedLocals(program *ast.Program) map[string]bool {
	bound := make(map[string]bool)
	for _, s := range program.Statements {
		imp, ok := s.(*ast.ImportDeclStmt)
		if !ok {
			continue
		}
		if imp.Default != "" {
			bound[imp.Default] = true
		}
		if imp.Namespace != "" {
			bound[imp.Namespace] = true
		}
		for _, spec := range imp.Named {
			bound[spec.Local()] = true
		}
	}
	return bound
}

// bySource indexes value imports by specifier text for merging. Type-only
// declarations are left out; a value binding cannot ride on them.
func bySource(program *ast.Program) map[string]*ast.ImportDeclStmt {
	index := make(map[string]*ast.ImportDeclStmt)
	for _, s := range program.Statements {
		imp, ok := s.(*ast.ImportDeclStmt)
		if !ok || imp.TypeOnly || imp.Source == nil {
			continue
		}
		if _, seen := index[imp.Source.Value()]; !seen {
			index[imp.Source.Value()] = imp
		}
	}
	return index
}

// insertionIndex finds where new imports go: after the directive prologue
// and after the last existing import.
func insertionIndex(stmts []ast.StmtNode) int {
	idx := 0
	for i, s := range stmts {
		switch n := s.(type) {
		case *ast.ImportDeclStmt:
			idx = i + 1
		case *ast.ExprStmt:
			if _, ok := n.Expr.(*ast.StringLit); ok && i == idx {
				idx = i + 1
			}
		}
	}
	return idx
}

func quoteStyle(stmts []ast.StmtNode) byte {
	for _, s := range stmts {
		if imp, ok := s.(*ast.ImportDeclStmt); ok && imp.Source != nil && len(imp.Source.Raw) > 0 {
			return imp.Source.Raw[0]
		}
	}
	return '\''
}

// relativeSpecifier derives the module specifier that reaches target from
// the directory of file: POSIX separators, no extension, and an explicit
// ./ for same-or-child directories.
func relativeSpecifier(file, target string) string {
	bare := strings.TrimSuffix(target, path.Ext(target))
	rel := posixRel(path.Dir(file), bare)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

func posixRel(base, target string) string {
	baseParts := splitClean(base)
	targetParts := splitClean(target)
	shared := 0
	for shared < len(baseParts) && shared < len(targetParts) && baseParts[shared] == targetParts[shared] {
		shared++
	}
	parts := make([]string, 0, len(baseParts)-shared+len(targetParts)-shared)
	for i := shared; i < len(baseParts); i++ {
		parts = append(parts, "..")
	}
	parts = append(parts, targetParts[shared:]...)
	if len(parts) == 0 {
		return "."
	}
	return strings.Join(parts, "/")
}

func splitClean(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "/" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(p, "/"), "/")
}
