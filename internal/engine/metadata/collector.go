package metadata

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/js/ast"
	"github.com/krispya/graft/internal/js/parser"
	"github.com/krispya/graft/internal/js/token"
)

// Collector builds the function table and pure set for a candidate file
// set. One collector serves one session.
type Collector struct {
	host   discovery.Host
	table  *Table
	pure   PureSet
	logger *zap.Logger
}

// NewCollector creates a collector reading through host
func NewCollector(host discovery.Host, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		host:   host,
		table:  NewTable(logger),
		pure:   make(PureSet),
		logger: logger,
	}
}

// Collect parses every recognized candidate file and records its
// module-level functions. Files that fail to read or parse are skipped, so
// the table may be partial; collection itself never fails.
func (c *Collector) Collect(files []string) (*Table, PureSet) {
	for _, file := range files {
		if !discovery.Recognized(file) {
			continue
		}
		content, err := c.host.ReadFile(file)
		if err != nil {
			c.logger.Debug("collection: unreadable file skipped",
				zap.String("file", file), zap.Error(err))
			continue
		}
		program, parseErrors := parser.ParseSource(string(content))
		if len(parseErrors) > 0 {
			c.logger.Debug("collection: parse failure, file skipped",
				zap.String("file", file), zap.Int("errors", len(parseErrors)))
			continue
		}
		c.collectProgram(file, program)
	}
	return c.table, c.pure
}

// collectProgram records the module surface and every module-level function
// of one parsed file: function declarations plus function-valued
// const/let/var initializers. Untagged functions are recorded too, because
// call-site tags can demand any collected callee.
func (c *Collector) collectProgram(file string, program *ast.Program) {
	mod := NewModule(c.host, file, program)
	c.table.AddModule(mod)

	moduleNames := DeclaredNames(program)

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDeclStmt:
			if s.Name == "" || s.Body == nil {
				continue
			}
			c.record(&FunctionRecord{
				Name:   s.Name,
				Params: convertParams(s.Params),
				Body:   s.Body.Statements,
				Inline: HasTag(s.Leading, InlineTag),
				Pure:   HasTag(s.Leading, PureTag),
				File:   file,
			}, mod, moduleNames)

		case *ast.VarDeclStmt:
			for _, decl := range s.Decls {
				target, ok := decl.Target.(*ast.Ident)
				if !ok || decl.Init == nil {
					continue
				}
				params, body := functionShape(decl.Init)
				if body == nil {
					continue
				}
				c.record(&FunctionRecord{
					Name:   target.Name,
					Params: convertParams(params),
					Body:   body,
					Inline: HasTag(s.Leading, InlineTag),
					Pure:   HasTag(s.Leading, PureTag),
					File:   file,
				}, mod, moduleNames)
			}
		}
	}
}

func (c *Collector) record(rec *FunctionRecord, mod *Module, moduleNames map[string]bool) {
	rec.LocalDeps = localDeps(rec, mod, moduleNames)
	c.table.Add(rec)
	if rec.Pure {
		c.pure.Add(rec.Name)
	}
	c.logger.Debug("collected function",
		zap.String("name", rec.Name),
		zap.String("file", rec.File),
		zap.Bool("inline", rec.Inline),
		zap.Bool("pure", rec.Pure),
		zap.Strings("deps", rec.LocalDeps))
}

// functionShape extracts the parameter list and statement body of a
// function-valued initializer. An expression-bodied arrow is normalized to
// a single return. Returns a nil body for non-function initializers.
func functionShape(init ast.ExprNode) ([]*ast.Param, []ast.StmtNode) {
	switch fn := init.(type) {
	case *ast.ArrowExpr:
		if fn.Body != nil {
			return fn.Params, fn.Body.Statements
		}
		ret := &ast.ReturnStmt{Value: fn.ExprBody, Loc: fn.ExprBody.Location()}
		return fn.Params, []ast.StmtNode{ret}
	case *ast.FuncExpr:
		if fn.Body == nil {
			return nil, nil
		}
		return fn.Params, fn.Body.Statements
	}
	return nil, nil
}

func convertParams(params []*ast.Param) []Param {
	converted := make([]Param, 0, len(params))
	for _, p := range params {
		cp := Param{
			Pattern:  p.Pattern,
			Optional: p.Optional,
			Default:  p.Default,
			Rest:     p.Rest,
		}
		if ident, ok := p.Pattern.(*ast.Ident); ok {
			cp.Name = ident.Name
		}
		converted = append(converted, cp)
	}
	return converted
}

// HasTag reports whether any leading comment carries the tag as a whole
// word. Line and block comments count equally.
func HasTag(comments []token.Comment, tag string) bool {
	for _, c := range comments {
		if c.HasTag(tag) {
			return true
		}
	}
	return false
}

// NewModule extracts the import and re-export surface of a parsed file,
// resolving each specifier relative to path. Type-only clauses are skipped
// because they vanish at runtime.
func NewModule(host discovery.Host, path string, program *ast.Program) *Module {
	mod := &Module{
		Path:      path,
		Imports:   make(map[string]ImportBinding),
		Reexports: make(map[string]ReExport),
	}
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.ImportDeclStmt:
			if s.TypeOnly {
				continue
			}
			spec := s.Source.Value()
			resolved := discovery.Resolve(host, path, spec)
			if s.Default != "" {
				mod.Imports[s.Default] = ImportBinding{Specifier: spec, File: resolved, Kind: ImportDefault}
			}
			if s.Namespace != "" {
				mod.Imports[s.Namespace] = ImportBinding{Specifier: spec, File: resolved, Kind: ImportNamespace}
			}
			for _, n := range s.Named {
				if n.TypeOnly {
					continue
				}
				mod.Imports[n.Local()] = ImportBinding{
					Specifier: spec,
					File:      resolved,
					Source:    n.Name,
					Kind:      ImportNamed,
				}
			}

		case *ast.ExportAllStmt:
			if resolved := discovery.Resolve(host, path, s.Source.Value()); resolved != "" {
				mod.Wildcards = append(mod.Wildcards, resolved)
			}

		case *ast.ExportNamedStmt:
			if s.Source == nil || s.TypeOnly {
				continue
			}
			resolved := discovery.Resolve(host, path, s.Source.Value())
			if resolved == "" {
				continue
			}
			for _, n := range s.Named {
				if n.TypeOnly {
					continue
				}
				exported := n.Alias
				if exported == "" {
					exported = n.Name
				}
				mod.Reexports[exported] = ReExport{Source: n.Name, File: resolved}
			}
		}
	}
	return mod
}

// DeclaredNames lists the names declared at a file's top level. The import
// rewriter consults it so a grafted dependency never shadows or collides
// with a binding the destination file already declares.
func DeclaredNames(program *ast.Program) map[string]bool {
	names := make(map[string]bool)
	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *ast.FunctionDeclStmt:
			if s.Name != "" {
				names[s.Name] = true
			}
		case *ast.ClassDeclStmt:
			if s.Name != "" {
				names[s.Name] = true
			}
		case *ast.VarDeclStmt:
			for _, d := range s.Decls {
				for _, name := range ast.PatternNames(d.Target) {
					names[name] = true
				}
			}
		}
	}
	return names
}
