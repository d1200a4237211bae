// Package watch rebuilds on source changes.
//
// A Watcher monitors directory trees, filters events through doublestar
// patterns and invokes a callback once the tree has been quiet for the
// debounce period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"github.com/luapack/luapack/internal/output"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 300 * time.Millisecond

// DefaultPatterns select Lua sources.
var DefaultPatterns = []string{"**/*.lua"}

// defaultIgnores are never watched.
var defaultIgnores = []string{
	"**/.git/**",
	"**/node_modules/**",
	"**/*.swp",
	"**/*~",
	"**/.DS_Store",
}

// Config holds the parameters for a Watcher.
type Config struct {
	// Roots are directories watched recursively. Missing roots are skipped;
	// roots nested in another root are merged into it.
	Roots []string

	// Patterns are doublestar globs matched against slash-separated paths
	// relative to their root. Empty uses DefaultPatterns.
	Patterns []string

	// Ignore adds patterns to the built-in ignores.
	Ignore []string

	// Files are extra files that always trigger a callback, such as the
	// config file. Their directories are watched non-recursively.
	Files []string

	// Skip lists files whose events are dropped, such as the bundle being
	// written.
	Skip []string

	Debounce time.Duration

	// OnChange receives the sorted absolute paths that changed.
	OnChange func(ctx context.Context, changed []string) error
}

// Watcher monitors filesystem paths and fires a debounced callback when
// matching files change. Run must be called exactly once.
type Watcher struct {
	cfg      Config
	fsw      *fsnotify.Watcher
	roots    []string
	files    map[string]bool
	skip     map[string]bool
	patterns []string
	ignores  []string
	debounce time.Duration
	log      *log.Logger
	started  atomic.Bool
}

// New validates cfg and registers every non-ignored directory under the
// roots with fsnotify.
func New(cfg Config) (*Watcher, error) {
	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	if err := validatePatterns(patterns, "watch"); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore, "ignore"); err != nil {
		return nil, err
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	roots, err := normalizeRoots(cfg.Roots)
	if err != nil {
		return nil, err
	}

	files := make(map[string]bool, len(cfg.Files))
	for _, f := range cfg.Files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve file %q: %w", f, err)
		}
		files[abs] = true
	}
	skip := make(map[string]bool, len(cfg.Skip))
	for _, f := range cfg.Skip {
		if abs, err := filepath.Abs(f); err == nil {
			skip[abs] = true
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		roots:    roots,
		files:    files,
		skip:     skip,
		patterns: patterns,
		ignores:  slices.Concat(defaultIgnores, cfg.Ignore),
		debounce: debounce,
		log:      output.ModuleLogger("watch"),
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.log.Warn("close after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Roots returns the directories being watched recursively.
func (w *Watcher) Roots() []string {
	return slices.Clone(w.roots)
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks.
// Callbacks never overlap; events arriving during a callback schedule
// another one. Returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.log.Debug("rebuild in progress, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		clear(pending)
		mu.Unlock()

		slices.Sort(changed)
		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.log.Error("rebuild failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Create) {
				w.maybeAddDir(evt.Name)
			}
			if !w.relevant(evt.Name) {
				continue
			}
			w.log.Debug("change detected", "path", evt.Name, "op", evt.Op.String())

			mu.Lock()
			pending[evt.Name] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "error", err)
		}
	}
}

// relevant reports whether an event on path should trigger a callback.
func (w *Watcher) relevant(path string) bool {
	if w.skip[path] {
		return false
	}
	if w.files[path] {
		return true
	}
	root, ok := w.rootOf(path)
	if !ok {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	return !matchAny(w.ignores, rel) && matchAny(w.patterns, rel)
}

// rootOf returns the innermost root containing path.
func (w *Watcher) rootOf(path string) (string, bool) {
	best := ""
	for _, root := range w.roots {
		if within(root, path) && len(root) > len(best) {
			best = root
		}
	}
	return best, best != ""
}

// addDirectories registers each root tree and the directory of each extra
// file.
func (w *Watcher) addDirectories() error {
	for _, root := range w.roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
			if walkErr != nil {
				w.log.Warn("skipping inaccessible path", "path", path, "error", walkErr)
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if rel != "." && (matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/")) {
				return filepath.SkipDir
			}
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("watch: add directory %q: %w", path, err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch: walk %s: %w", root, err)
		}
	}

	for f := range w.files {
		dir := filepath.Dir(f)
		if _, ok := w.rootOf(f); ok {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", dir, err)
		}
	}
	return nil
}

// maybeAddDir extends the watch to directories created after startup.
func (w *Watcher) maybeAddDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	root, ok := w.rootOf(path)
	if !ok {
		return
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return
	}
	rel = filepath.ToSlash(rel)
	if matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/") {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.log.Warn("add new directory", "path", path, "error", err)
	}
}

// normalizeRoots makes roots absolute, drops missing ones and those
// nested inside another root, and sorts the rest.
func normalizeRoots(in []string) ([]string, error) {
	var abs []string
	for _, r := range in {
		a, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve root %q: %w", r, err)
		}
		if info, err := os.Stat(a); err != nil || !info.IsDir() {
			continue
		}
		abs = append(abs, a)
	}
	slices.Sort(abs)
	abs = slices.Compact(abs)

	var out []string
	for _, r := range abs {
		if len(out) > 0 && within(out[len(out)-1], r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// RootsFor derives watch roots from path templates and files: the fixed
// directory prefix before the first '?' or glob character of each
// template, and the directory of each file.
func RootsFor(templates, files []string) []string {
	var roots []string
	for _, t := range templates {
		roots = append(roots, templateRoot(t))
	}
	for _, f := range files {
		roots = append(roots, filepath.Dir(f))
	}
	return roots
}

func templateRoot(t string) string {
	i := strings.IndexAny(t, "?*[{")
	if i < 0 {
		return filepath.Dir(t)
	}
	dir := t[:i]
	if j := strings.LastIndexAny(dir, `/\`); j >= 0 {
		return filepath.Clean(dir[:j+1])
	}
	return "."
}

// within reports whether path is root or below it.
func within(root, path string) bool {
	if root == path {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, strings.TrimSuffix(root, sep)+sep)
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// validatePatterns checks that every pattern is a valid doublestar glob.
func validatePatterns(patterns []string, label string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid %s pattern %q: %w", label, pat, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// isFatal reports resource exhaustion, after which the watcher cannot
// recover.
func isFatal(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EMFILE)
}
