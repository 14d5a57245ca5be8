package metadata

import (
	"go.uber.org/zap"
)

// Table is the arena of collected function records plus the per-file module
// surfaces. Records append in collection order; the name index never
// conflates same-named functions from different files.
type Table struct {
	records []*FunctionRecord
	byName  map[string][]Handle
	modules map[string]*Module
	logger  *zap.Logger
}

// NewTable creates an empty function table
func NewTable(logger *zap.Logger) *Table {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Table{
		byName:  make(map[string][]Handle),
		modules: make(map[string]*Module),
		logger:  logger,
	}
}

// Add appends a record and returns its handle
func (t *Table) Add(rec *FunctionRecord) Handle {
	h := Handle(len(t.records))
	t.records = append(t.records, rec)
	t.byName[rec.Name] = append(t.byName[rec.Name], h)
	return h
}

// Get returns the record behind a handle
func (t *Table) Get(h Handle) *FunctionRecord {
	return t.records[h]
}

// Len returns the number of collected records
func (t *Table) Len() int {
	return len(t.records)
}

// Handles returns every record collected under a name, in collection order
func (t *Table) Handles(name string) []Handle {
	return t.byName[name]
}

// AddModule records a file's import and re-export surface
func (t *Table) AddModule(mod *Module) {
	t.modules[mod.Path] = mod
}

// ModuleOf returns the recorded surface for a file, nil when not collected
func (t *Table) ModuleOf(path string) *Module {
	return t.modules[path]
}

// Resolve finds the record a callee name refers to at a call site inside
// mod. Priority: a declaration in the same file, then the declaration the
// file imports under that name (followed through re-export chains), then a
// sole global match. Ambiguous names fall back to the latest-collected
// record, surfaced on the debug channel.
func (t *Table) Resolve(name string, mod *Module) (Handle, bool) {
	handles := t.byName[name]

	if mod != nil {
		for i := len(handles) - 1; i >= 0; i-- {
			if t.records[handles[i]].File == mod.Path {
				return handles[i], true
			}
		}
		if b, ok := mod.Imports[name]; ok && b.File != "" {
			source := b.Source
			if source == "" {
				source = name
			}
			if h, ok := t.resolveExported(source, b.File, map[string]bool{}); ok {
				return h, true
			}
		}
	}

	switch len(handles) {
	case 0:
		return 0, false
	case 1:
		return handles[0], true
	}

	last := handles[len(handles)-1]
	t.logger.Debug("ambiguous callee name, using latest declaration",
		zap.String("name", name),
		zap.String("file", t.records[last].File),
		zap.Int("candidates", len(handles)))
	return last, true
}

// resolveExported finds the record behind a name exported from file,
// following named re-exports, import-then-export hops, and wildcard
// re-exports. The visited set terminates cyclic barrel chains.
func (t *Table) resolveExported(name, file string, visited map[string]bool) (Handle, bool) {
	if visited[file] {
		return 0, false
	}
	visited[file] = true

	handles := t.byName[name]
	for i := len(handles) - 1; i >= 0; i-- {
		if t.records[handles[i]].File == file {
			return handles[i], true
		}
	}

	mod := t.modules[file]
	if mod == nil {
		return 0, false
	}
	if re, ok := mod.Reexports[name]; ok && re.File != "" {
		if h, ok := t.resolveExported(re.Source, re.File, visited); ok {
			return h, true
		}
	}
	if b, ok := mod.Imports[name]; ok && b.File != "" {
		source := b.Source
		if source == "" {
			source = name
		}
		if h, ok := t.resolveExported(source, b.File, visited); ok {
			return h, true
		}
	}
	for _, target := range mod.Wildcards {
		if h, ok := t.resolveExported(name, target, visited); ok {
			return h, true
		}
	}
	return 0, false
}
