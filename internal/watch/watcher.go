// Package watch monitors a source tree and reports batches of changed
// files after a debounce window, so a host can re-run the inliner once per
// burst of editor writes instead of once per event.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/krispya/graft/internal/utils"
)

// DefaultDebounce is the window during which changes coalesce into one batch
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher
type Options struct {
	// BaseDir roots the watch. Include and Exclude are doublestar globs
	// matched against slash paths relative to BaseDir.
	BaseDir string
	Include []string
	Exclude []string

	// Debounce overrides DefaultDebounce when positive
	Debounce time.Duration

	// OnChange receives each debounced batch of changed files, joined back
	// onto BaseDir
	OnChange func(files []string) error

	Logger *zap.Logger
}

// Watcher monitors file system changes and triggers the change callback
type Watcher struct {
	opts      Options
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	logger    *zap.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// Directories never worth watching.
var skipDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"build":        {},
	"dist":         {},
	"coverage":     {},
}

// New creates a watcher. Nothing is watched until Start.
func New(opts Options) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		opts:      opts,
		watcher:   fsWatcher,
		debouncer: NewDebouncer(debounce),
		logger:    logger,
		stopChan:  make(chan struct{}),
	}

	w.debouncer.SetCallback(func(files []string) {
		if w.opts.OnChange == nil {
			return
		}
		if err := w.opts.OnChange(files); err != nil {
			w.logger.Warn("change handler failed", zap.Error(err))
		}
	})

	return w, nil
}

// Start begins watching every directory under BaseDir
func (w *Watcher) Start() error {
	dirs, err := w.findDirectories()
	if err != nil {
		return fmt.Errorf("failed to find directories: %w", err)
	}

	for _, dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", zap.String("dir", dir))
	}

	w.wg.Add(1)
	go w.watch()

	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}

	w.wg.Wait()
	w.debouncer.Stop()
	return w.watcher.Close()
}

// watch is the main event loop
func (w *Watcher) watch() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create == fsnotify.Create {
				// Directories born during the session need their own watch
				if w.watchableDir(event.Name) {
					if err := w.watcher.Add(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory",
							zap.String("dir", event.Name), zap.Error(err))
					}
					continue
				}
			}

			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				if w.matches(event.Name) {
					w.logger.Debug("file changed", zap.String("file", event.Name))
					w.debouncer.Add(event.Name)
				}
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

// findDirectories collects BaseDir and every subdirectory worth watching.
// fsnotify watches are not recursive.
func (w *Watcher) findDirectories() ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(w.opts.BaseDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != w.opts.BaseDir {
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dirs, nil
}

// watchableDir reports whether path is a directory the watcher should add
func (w *Watcher) watchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	name := filepath.Base(path)
	if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
		return false
	}
	return true
}

// matches reports whether a changed path falls inside the include globs and
// outside the exclude globs
func (w *Watcher) matches(path string) bool {
	rel, err := filepath.Rel(w.opts.BaseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	rel = filepath.ToSlash(rel)

	if utils.MatchesAny(w.opts.Exclude, rel) {
		return false
	}
	if len(w.opts.Include) == 0 {
		return true
	}
	return utils.MatchesAny(w.opts.Include, rel)
}

// Debouncer collects file changes and triggers the callback after a quiet
// period
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopChan chan struct{}
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Add adds a file to the pending batch and restarts the quiet-period timer
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.duration, func() {
		d.flush()
	})
}

// flush triggers the callback with the accumulated batch
func (d *Debouncer) flush() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if len(d.files) == 0 {
		return
	}

	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}

	d.files = make(map[string]struct{})

	if d.callback != nil {
		d.callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop stops the debouncer. Safe to call more than once.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
}
