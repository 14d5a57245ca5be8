package engine

import (
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/engine/discovery"
)

// DebugLevel selects how much the session reports. Purely observational:
// no level changes transformation output.
type DebugLevel int

const (
	// DebugOff emits nothing
	DebugOff DebugLevel = iota
	// DebugSummary emits per-session summaries
	DebugSummary
	// DebugVerbose emits per-decision detail
	DebugVerbose
)

// Options configures a session.
type Options struct {
	// Files seeds discovery. Include and Exclude filter candidates; a nil
	// filter admits everything.
	Files   []string
	Host    discovery.Host
	Include func(file string) bool
	Exclude func(file string) bool

	FollowReExports bool
	FollowImports   discovery.ImportPolicy

	// Debug derives a logger when Logger is nil; an explicit Logger wins.
	Debug  DebugLevel
	Logger *zap.Logger
}

// DefaultOptions returns the default policy: follow re-exports and all
// imports, debug off.
func DefaultOptions() Options {
	return Options{
		FollowReExports: true,
		FollowImports:   discovery.ImportsAll,
	}
}
