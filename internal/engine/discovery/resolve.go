package discovery

import (
	"path"
	"strings"
)

// Extensions lists the recognized source extensions in resolution order.
var Extensions = []string{".ts", ".tsx", ".mts", ".cts", ".js", ".jsx", ".mjs", ".cjs"}

// Recognized reports whether a path carries a recognized source extension
func Recognized(file string) bool {
	ext := path.Ext(file)
	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Resolve maps a module specifier written in fromFile to a concrete path
// the host can read. Only relative specifiers are followed; package
// specifiers resolve to "". Resolution tries the literal path, then each
// recognized extension, then an index file inside a directory, matching
// bundler conventions. Returns "" when nothing matches.
func Resolve(host Host, fromFile, specifier string) string {
	if !strings.HasPrefix(specifier, ".") {
		return ""
	}
	base := path.Join(path.Dir(fromFile), specifier)
	if Recognized(base) && host.Exists(base) {
		return base
	}
	for _, ext := range Extensions {
		if candidate := base + ext; host.Exists(candidate) {
			return candidate
		}
	}
	for _, ext := range Extensions {
		if candidate := path.Join(base, "index"+ext); host.Exists(candidate) {
			return candidate
		}
	}
	return ""
}
