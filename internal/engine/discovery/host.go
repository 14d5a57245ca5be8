package discovery

import (
	"io/fs"
	"os"
)

// Host is the engine's file-reading capability. The engine never touches
// the filesystem directly, so adapters can run it against memory, archives,
// or a build tool's virtual module graph.
type Host interface {
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
}

// OSHost reads from the operating system filesystem
type OSHost struct{}

// ReadFile returns the file's contents
func (OSHost) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether path names a regular file
func (OSHost) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// MapHost serves files from memory, keyed by path. Used in tests and by
// hosts that hold sources in a virtual module graph.
type MapHost map[string]string

// ReadFile returns the mapped contents for path
func (m MapHost) ReadFile(path string) ([]byte, error) {
	content, ok := m[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// Exists reports whether path is mapped
func (m MapHost) Exists(path string) bool {
	_, ok := m[path]
	return ok
}
