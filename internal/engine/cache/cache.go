// Package cache provides content-keyed caching for parsed trees and
// transformed output text. Entries are keyed by a SHA-256 of the input, not
// by file path, so identical files share one entry and re-processing
// identical content is a lookup. Lifetime is one collection session.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/krispya/graft/internal/js/ast"
)

const defaultSize = 512

// Key computes the cache key for source content
func Key(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// TreeCache holds parsed programs keyed by content hash. Programs are
// cloned both ways so a cached tree is never mutated by a transform.
type TreeCache struct {
	entries *lru.Cache[string, *ast.Program]
}

// NewTreeCache creates a tree cache with the default capacity
func NewTreeCache() *TreeCache {
	entries, _ := lru.New[string, *ast.Program](defaultSize)
	return &TreeCache{entries: entries}
}

// Get returns a clone of the cached program for key
func (tc *TreeCache) Get(key string) (*ast.Program, bool) {
	program, ok := tc.entries.Get(key)
	if !ok {
		return nil, false
	}
	return ast.CloneProgram(program), true
}

// Set stores a program under key. The cache keeps its own clone.
func (tc *TreeCache) Set(key string, program *ast.Program) {
	tc.entries.Add(key, ast.CloneProgram(program))
}

// Purge drops every entry
func (tc *TreeCache) Purge() {
	tc.entries.Purge()
}

// Len returns the number of cached entries
func (tc *TreeCache) Len() int {
	return tc.entries.Len()
}

// TextCache holds transformed output keyed by the hash of the input text
// it was produced from.
type TextCache struct {
	entries *lru.Cache[string, string]
}

// NewTextCache creates a text cache with the default capacity
func NewTextCache() *TextCache {
	entries, _ := lru.New[string, string](defaultSize)
	return &TextCache{entries: entries}
}

// Get returns the cached output for key
func (tc *TextCache) Get(key string) (string, bool) {
	return tc.entries.Get(key)
}

// Set stores transformed output under key
func (tc *TextCache) Set(key, text string) {
	tc.entries.Add(key, text)
}

// Purge drops every entry
func (tc *TextCache) Purge() {
	tc.entries.Purge()
}

// Len returns the number of cached entries
func (tc *TextCache) Len() int {
	return tc.entries.Len()
}
