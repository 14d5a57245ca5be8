// Package metadata builds the session-global function table: one pass over
// the candidate file set collecting every module-level function, its
// parameters, body, annotation tags, and same-file dependencies. The table
// is read-only after collection and rebuilt at the start of each session.
package metadata

import "github.com/krispya/graft/internal/js/ast"

// Annotation tags recognized in leading comment trivia.
const (
	InlineTag = "@inline"
	PureTag   = "@pure"
)

// Handle indexes a FunctionRecord inside a Table. Handles stay valid for
// the table's lifetime.
type Handle int

// Param is one formal parameter of a collected function. Name is "" when
// the parameter destructures; Pattern always holds the full binding form.
type Param struct {
	Name     string
	Pattern  ast.ExprNode
	Optional bool
	Default  ast.ExprNode // nil when no default value
	Rest     bool
}

// FunctionRecord describes one module-level function. Body statements are
// shared with the collected tree, so callers clone before mutating. An
// expression-bodied arrow is stored as a single synthesized return.
type FunctionRecord struct {
	Name      string
	Params    []Param
	Body      []ast.StmtNode
	Inline    bool
	Pure      bool
	File      string
	LocalDeps []string // Same-file identifier dependencies in first-use order
}

// ImportKind classifies how an import binds a name
type ImportKind int

const (
	// ImportNamed is import { name } or import { name as alias }
	ImportNamed ImportKind = iota
	// ImportDefault is import name from "..."
	ImportDefault
	// ImportNamespace is import * as name from "..."
	ImportNamespace
)

// ImportBinding records how a file binds one imported name
type ImportBinding struct {
	Specifier string // Module specifier as written
	File      string // Resolved path, "" for package or unresolvable specifiers
	Source    string // Exported name at the origin, "" for default and namespace
	Kind      ImportKind
}

// ReExport records one named re-export edge (export { Source } from "...")
type ReExport struct {
	Source string
	File   string
}

// Module records the import and re-export surface of one file. Collection
// stores one per candidate file; the transformer rebuilds it for the file
// being transformed so resolution always reflects current content.
type Module struct {
	Path      string
	Imports   map[string]ImportBinding // local binding name to origin
	Wildcards []string                 // resolved wildcard re-export targets, in order
	Reexports map[string]ReExport      // exported name to origin
}

// PureSet holds the names tagged pure, independent of inlinability
type PureSet map[string]bool

// Add marks a name pure
func (s PureSet) Add(name string) { s[name] = true }

// Contains reports whether the name carries the pure tag
func (s PureSet) Contains(name string) bool { return s[name] }
