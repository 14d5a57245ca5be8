// Package engine drives the inlining pipeline: discover the source graph,
// collect function metadata, then transform files one at a time. A Session
// holds the collected state and both caches, so repeated transforms of
// unchanged content are cheap. Nothing in the pipeline is fatal; files the
// engine cannot improve come back unchanged.
package engine

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/krispya/graft/internal/engine/cache"
	"github.com/krispya/graft/internal/engine/discovery"
	"github.com/krispya/graft/internal/engine/imports"
	"github.com/krispya/graft/internal/engine/metadata"
	"github.com/krispya/graft/internal/engine/resolve"
	"github.com/krispya/graft/internal/engine/transform"
	"github.com/krispya/graft/internal/js/parser"
	"github.com/krispya/graft/internal/js/printer"
)

// Session runs the pipeline over one source tree. Collection happens once
// per session; Reset starts over with a fresh identity and empty caches.
type Session struct {
	id     string
	opts   Options
	host   discovery.Host
	logger *zap.Logger

	trees *cache.TreeCache
	texts *cache.TextCache

	table    *metadata.Table
	pure     metadata.PureSet
	resolver *resolve.Resolver
	rewriter *transform.Transformer

	begun bool
	stats Stats
}

// NewSession creates a session. No file is read until Begin or the first
// Transform call.
func NewSession(opts Options) *Session {
	host := opts.Host
	if host == nil {
		host = discovery.OSHost{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = debugLogger(opts.Debug)
	}
	return &Session{
		id:     uuid.NewString(),
		opts:   opts,
		host:   host,
		logger: logger,
		trees:  cache.NewTreeCache(),
		texts:  cache.NewTextCache(),
		stats:  Stats{InlinedCalls: make(map[string]int)},
	}
}

func debugLogger(level DebugLevel) *zap.Logger {
	if level == DebugOff {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if level == DebugVerbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		// Fall back to nop logger
		return zap.NewNop()
	}
	return logger
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.id
}

// Table exposes the collected function records, nil before Begin
func (s *Session) Table() *metadata.Table {
	return s.table
}

// Pure exposes the collected purity set, nil before Begin
func (s *Session) Pure() metadata.PureSet {
	return s.pure
}

// Begin discovers the source graph from the seed files and collects
// function metadata. Idempotent within a session; Transform calls it
// implicitly. Collection skips anything unreadable or unparsable, so Begin
// itself never fails.
func (s *Session) Begin() error {
	if s.begun {
		return nil
	}
	start := time.Now()

	initial := make([]string, 0, len(s.opts.Files))
	for _, file := range s.opts.Files {
		if s.opts.Include != nil && !s.opts.Include(file) {
			continue
		}
		if s.opts.Exclude != nil && s.opts.Exclude(file) {
			continue
		}
		initial = append(initial, file)
	}

	found := discovery.Discover(s.host, initial, discovery.Options{
		FollowReExports: s.opts.FollowReExports,
		FollowImports:   s.opts.FollowImports,
		Exclude:         s.opts.Exclude,
		Logger:          s.logger,
	})
	table, pure := metadata.NewCollector(s.host, s.logger).Collect(found.Files)

	s.table = table
	s.pure = pure
	s.resolver = resolve.New(table, s.logger)
	s.rewriter = transform.New(s.host, table, s.resolver, pure, s.logger)
	s.begun = true

	s.stats.SessionID = s.id
	s.stats.FilesCollected = len(found.Files)
	s.stats.FunctionsCollected = table.Len()
	s.stats.CollectMillis = time.Since(start).Milliseconds()

	s.logger.Info("session collected",
		zap.String("session", s.id),
		zap.Int("files", s.stats.FilesCollected),
		zap.Int("functions", s.stats.FunctionsCollected))
	return nil
}

// Transform rewrites one file's content and returns the new text. Files
// with unrecognized extensions, unparsable content, or nothing to inline
// come back byte-for-byte unchanged. The text cache keys on content and
// path together: rewritten import specifiers are relative, so the same
// bytes at two locations can print differently.
func (s *Session) Transform(content []byte, file string) (out string, err error) {
	if !discovery.Recognized(file) {
		return string(content), nil
	}
	if err := s.Begin(); err != nil {
		return string(content), err
	}

	textKey := cache.Key(content) + "|" + file
	if cached, ok := s.texts.Get(textKey); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("transform: panic recovered, file unchanged",
				zap.String("file", file), zap.Any("panic", r))
			out = string(content)
			err = nil
		}
	}()
	start := time.Now()

	treeKey := cache.Key(content)
	program, ok := s.trees.Get(treeKey)
	if !ok {
		parsed, parseErrors := parser.ParseSource(string(content))
		if len(parseErrors) > 0 {
			s.logger.Debug("transform: parse failure, file unchanged",
				zap.String("file", file), zap.Int("errors", len(parseErrors)))
			return string(content), nil
		}
		s.trees.Set(treeKey, parsed)
		program = parsed
	}

	result := s.rewriter.File(program, file)
	rewired := imports.Rewrite(program, file, result.Needs, s.table, s.logger)

	out = string(content)
	if result.Changed || rewired {
		out = printer.Print(program)
		s.stats.FilesTransformed++
		for name, count := range result.Inlined {
			s.stats.InlinedCalls[name] += count
		}
		s.stats.TransformedFunctions = append(s.stats.TransformedFunctions, result.Functions...)
	}
	s.stats.TransformMillis += time.Since(start).Milliseconds()

	s.texts.Set(textKey, out)
	return out, nil
}

// End returns a snapshot of the session statistics. The session stays
// usable; call Reset to start over.
func (s *Session) End() *Stats {
	snapshot := s.stats
	snapshot.SessionID = s.id
	snapshot.InlinedCalls = make(map[string]int, len(s.stats.InlinedCalls))
	for name, count := range s.stats.InlinedCalls {
		snapshot.InlinedCalls[name] = count
	}
	snapshot.TransformedFunctions = append([]transform.FunctionStat(nil), s.stats.TransformedFunctions...)
	return &snapshot
}

// Reset drops collected metadata, purges both caches, and assigns a new
// session identity. The next Transform re-collects from scratch.
func (s *Session) Reset() {
	s.id = uuid.NewString()
	s.trees.Purge()
	s.texts.Purge()
	s.table = nil
	s.pure = nil
	s.resolver = nil
	s.rewriter = nil
	s.begun = false
	s.stats = Stats{InlinedCalls: make(map[string]int)}
}
