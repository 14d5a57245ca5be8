// Package inliner is the public surface of the graft engine. Host adapters
// (CLI, watchers, bundler plugins) create a Session, feed it file contents,
// and write back whatever Transform returns. The engine never touches the
// filesystem except through the configured Host, so callers stay in control
// of every byte read and written.
//
//	session := inliner.New(inliner.Options{Files: entries})
//	out, err := session.Transform(content, "src/app.ts")
package inliner

import (
	"github.com/krispya/graft/internal/engine"
	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/engine/transform"
)

// Session owns collected metadata and caches for one source tree
type Session = engine.Session

// Options configures a session
type Options = engine.Options

// Stats aggregates what a session did
type Stats = engine.Stats

// FunctionStat describes one transformed function
type FunctionStat = transform.FunctionStat

// DebugLevel selects how much the session reports
type DebugLevel = engine.DebugLevel

// Debug levels, quietest first
const (
	DebugOff     = engine.DebugOff
	DebugSummary = engine.DebugSummary
	DebugVerbose = engine.DebugVerbose
)

// Host abstracts file access during discovery and collection
type Host = discovery.Host

// OSHost reads from the operating system filesystem
type OSHost = discovery.OSHost

// MapHost reads from an in-memory path-to-content map
type MapHost = discovery.MapHost

// ImportPolicy controls which import edges discovery follows
type ImportPolicy = discovery.ImportPolicy

// Import policies
const (
	ImportsAll         = discovery.ImportsAll
	ImportsSideEffects = discovery.ImportsSideEffects
	ImportsOff         = discovery.ImportsOff
)

// New creates a session with the given options
func New(opts Options) *Session {
	return engine.NewSession(opts)
}

// DefaultOptions returns the default policy: follow re-exports and all
// imports, debug off.
func DefaultOptions() Options {
	return engine.DefaultOptions()
}
