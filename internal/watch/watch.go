package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Watcher reports debounced changes to files matching a set of doublestar
// patterns relative to a repository root
type Watcher struct {
	root     string
	patterns []string
	bases    []string
	delay    time.Duration
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
}

// New creates a watcher and registers watches for every existing directory
// that can hold a matching file
func New(root string, patterns []string, delay time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	bases := make([]string, 0, len(patterns))
	for _, p := range patterns {
		base, _ := doublestar.SplitPattern(p)
		bases = append(bases, base)
	}

	w := &Watcher{
		root:     root,
		patterns: patterns,
		bases:    bases,
		delay:    delay,
		fsw:      fsw,
		logger:   logger,
	}

	if _, err := w.addWatches(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

// Close stops the underlying file watcher
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Matches reports whether the slash-separated root-relative path is watched
func (w *Watcher) Matches(rel string) bool {
	for _, p := range w.patterns {
		if doublestar.MatchUnvalidated(p, rel) {
			return true
		}
	}
	return false
}

// Run blocks until ctx is cancelled, calling onChange once per burst of
// relevant changes. Calls never overlap.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context)) error {
	// Armed only once a relevant event arrives
	timer := time.NewTimer(w.delay)
	timer.Stop()
	defer timer.Stop()

	w.logger.Info("watching for rule changes", "root", w.root, "debounce", w.delay)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if w.handleEvent(event) {
				timer.Reset(w.delay)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)

		case <-timer.C:
			onChange(ctx)
		}
	}
}

// handleEvent registers new directories and reports whether the event
// touches a watched path
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	rel, ok := w.relative(event.Name)
	if !ok {
		return false
	}

	changed := w.Matches(rel)

	// Files may land in a new directory before its watch exists, so the
	// walk itself counts as a change when it finds watched paths.
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			found, err := w.addWatches(event.Name)
			if err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			changed = changed || found
		}
	}

	if !changed {
		return false
	}

	w.logger.Debug("rule change detected", "path", rel, "op", event.Op.String())
	return true
}

// addWatches walks dir and watches every directory on the way to, or
// inside, a pattern base. found reports whether the walk saw a watched path.
func (w *Watcher) addWatches(dir string) (found bool, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Directories can vanish between the event and the walk
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}

		rel, ok := w.relative(path)
		if !ok {
			return filepath.SkipDir
		}
		if w.Matches(rel) {
			found = true
		}
		if !d.IsDir() {
			return nil
		}
		if !w.relevantDir(rel) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		w.logger.Debug("watching directory", "path", rel)
		return nil
	})
	return found, err
}

// relevantDir reports whether rel is the root, an ancestor of a pattern base
// or lies inside one
func (w *Watcher) relevantDir(rel string) bool {
	if rel == "." {
		return true
	}
	for _, base := range w.bases {
		if base == "." || rel == base ||
			strings.HasPrefix(base, rel+"/") ||
			strings.HasPrefix(rel, base+"/") {
			return true
		}
	}
	return false
}

func (w *Watcher) relative(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
