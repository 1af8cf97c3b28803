package translate

import (
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/mpyconv/mpyconv/internal/syntax"
)

// DefaultDebounce is how long the watcher waits after the last change before
// translating, so a burst of writes from an editor counts as one.
const DefaultDebounce = 100 * time.Millisecond

// Watcher re-translates sources as they change on disk.
type Watcher struct {
	logger  *zap.Logger
	engine  Engine
	opts    Options
	delay   time.Duration
	watcher *fsnotify.Watcher

	mu     sync.Mutex
	dirs   map[string]bool
	files  map[string]bool
	hashes map[string]string
}

func NewWatcher(logger *zap.Logger, engine Engine, opts Options, delay time.Duration) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if delay <= 0 {
		delay = DefaultDebounce
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating watcher: %w", err)
	}
	return &Watcher{
		logger:  logger,
		engine:  engine,
		opts:    opts,
		delay:   delay,
		watcher: fw,
		dirs:    make(map[string]bool),
		files:   make(map[string]bool),
		hashes:  make(map[string]string),
	}, nil
}

// Add starts watching paths. Directories are watched recursively for every
// supported source; a file is watched on its own.
func (w *Watcher) Add(paths ...string) error {
	for _, path := range paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("error accessing %s: %w", path, err)
		}
		if info.IsDir() {
			if err := w.addDir(path); err != nil {
				return err
			}
			continue
		}
		if err := w.watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("error watching %s: %w", path, err)
		}
		w.mu.Lock()
		w.files[path] = true
		w.mu.Unlock()
	}
	return nil
}

func (w *Watcher) addDir(root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return err
		}
		w.mu.Lock()
		w.dirs[path] = true
		w.mu.Unlock()
		return nil
	})
	if err != nil {
		return fmt.Errorf("error adding directory to watcher: %w", err)
	}
	return nil
}

// Run handles file events until ctx ends or the watcher is closed. Each
// debounced batch of changed files is translated and passed to report.
func (w *Watcher) Run(ctx context.Context, report func([]Result)) error {
	defer w.watcher.Close()

	w.mu.Lock()
	w.opts.Batch = len(w.dirs) > 0 || len(w.files) > 1
	w.mu.Unlock()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if path, ok := w.accept(event); ok {
				pending[path] = struct{}{}
				timer.Reset(w.delay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		case <-timer.C:
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			results, err := w.flush(ctx, paths)
			if len(results) > 0 && report != nil {
				report(results)
			}
			if err != nil {
				return err
			}
		}
	}
}

// accept reports whether event names a source that should be translated.
// New directories below a watched tree are watched too.
func (w *Watcher) accept(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return "", false
	}
	path := filepath.Clean(event.Name)

	w.mu.Lock()
	explicit := w.files[path]
	inTree := w.dirs[filepath.Dir(path)]
	w.mu.Unlock()

	if explicit {
		return path, true
	}
	if !inTree {
		return "", false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addDir(path); err != nil {
				w.logger.Error("Error watching new directory", zap.String("dir", path), zap.Error(err))
			}
			return "", false
		}
	}
	return path, syntax.IsSupported(path)
}

// flush translates the files whose content changed since the last flush.
func (w *Watcher) flush(ctx context.Context, paths []string) ([]Result, error) {
	var changed []string
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err == nil {
			hash := fmt.Sprintf("%x", md5.Sum(content))
			w.mu.Lock()
			same := w.hashes[path] == hash
			w.hashes[path] = hash
			w.mu.Unlock()
			if same {
				w.logger.Debug("unchanged", zap.String("file", path))
				continue
			}
		}
		changed = append(changed, path)
	}
	if len(changed) == 0 {
		return nil, nil
	}
	return ProcessFiles(ctx, w.logger, w.engine, changed, w.opts)
}
