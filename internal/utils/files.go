package utils

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Directories never worth descending into.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"build":        {},
	"dist":         {},
	"coverage":     {},
}

// FindSourceFiles recursively finds files under baseDir matching any include
// pattern and no exclude pattern. Patterns are doublestar globs matched
// against slash paths relative to baseDir. A .gitignore at baseDir is
// honored when present. Returned paths are joined back onto baseDir and
// sorted.
func FindSourceFiles(baseDir string, include, exclude []string) ([]string, error) {
	gi := loadGitignore(baseDir)

	var files []string
	err := filepath.WalkDir(baseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == baseDir {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(baseDir, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}
		if MatchesAny(exclude, rel) {
			return nil
		}
		if MatchesAny(include, rel) {
			files = append(files, filepath.ToSlash(filepath.Join(baseDir, rel)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// MatchesAny reports whether the slash path matches any of the glob
// patterns. Invalid patterns match nothing.
func MatchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

func loadGitignore(dir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
