// Package watch re-runs a callback when Markdown files under a set of paths
// change. Bursts of file system events are coalesced with a quiet window and
// a maximum delay.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/doclinks/internal/fileset"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

const (
	DefaultQuietWindow = 300 * time.Millisecond
	DefaultMaxDelay    = 3 * time.Second
)

var skippedDirs = sets.New("node_modules", "vendor")

// Handler receives the sorted set of changed Markdown paths of one burst.
type Handler func(ctx context.Context, changed []string)

// Config tunes a Watcher.
type Config struct {
	QuietWindow time.Duration
	// MaxDelay bounds how long a steady stream of events can postpone the
	// handler.
	MaxDelay time.Duration
	Logger   *slog.Logger
}

// Watcher monitors directories recursively.
type Watcher struct {
	roots   []string
	handler Handler
	cfg     Config
	logger  *slog.Logger

	readyOnce sync.Once
	ready     chan struct{}
}

// New returns a Watcher for paths. File paths are watched through their
// parent directory.
func New(paths []string, handler Handler, cfg Config) (*Watcher, error) {
	if handler == nil {
		return nil, errors.ValidationError("handler is required").Build()
	}
	if len(paths) == 0 {
		return nil, errors.ValidationError("at least one path is required").Build()
	}
	if cfg.QuietWindow <= 0 {
		cfg.QuietWindow = DefaultQuietWindow
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = DefaultMaxDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var roots sets.Ordered[string]
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryValidation, "invalid watch path").WithContext("path", p).Build()
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, errors.WrapError(err, errors.CategoryFileSystem, "cannot watch path").WithContext("path", p).Build()
		}
		if !info.IsDir() {
			abs = filepath.Dir(abs)
		}
		roots.Add(abs)
	}

	return &Watcher{
		roots:   roots.Items(),
		handler: handler,
		cfg:     cfg,
		logger:  logger,
		ready:   make(chan struct{}),
	}, nil
}

// Ready is closed once Run has registered all directories.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run blocks until ctx is canceled. The handler runs on the Run goroutine,
// so events arriving during a run are folded into the next burst.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to create file watcher").Build()
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Warn("Closing file watcher failed", logfields.Error(cerr))
		}
	}()

	for _, root := range w.roots {
		if err := w.addTree(fw, root); err != nil {
			return err
		}
	}
	w.logger.Info("Watching for changes", slog.Int("roots", len(w.roots)))
	w.readyOnce.Do(func() { close(w.ready) })

	quiet := stoppedTimer()
	maxWait := stoppedTimer()
	var (
		quietC  <-chan time.Time
		maxC    <-chan time.Time
		pending sets.Set[string]
	)

	flush := func() {
		quiet.Stop()
		maxWait.Stop()
		quietC, maxC = nil, nil
		if len(pending) == 0 {
			return
		}
		changed := make([]string, 0, len(pending))
		for p := range pending {
			changed = append(changed, p)
		}
		slices.Sort(changed)
		pending = nil
		w.logger.Debug("Change burst settled", logfields.Files(len(changed)))
		w.handler(ctx, changed)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			path, relevant := w.handle(fw, ev)
			if !relevant {
				continue
			}
			if pending == nil {
				pending = sets.New[string]()
				resetTimer(maxWait, w.cfg.MaxDelay)
				maxC = maxWait.C
			}
			pending.Add(path)
			resetTimer(quiet, w.cfg.QuietWindow)
			quietC = quiet.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("File watcher error", logfields.Error(err))
		case <-quietC:
			flush()
		case <-maxC:
			flush()
		}
	}
}

// handle registers new directories and reports whether ev concerns a
// Markdown file.
func (w *Watcher) handle(fw *fsnotify.Watcher, ev fsnotify.Event) (string, bool) {
	if skipped(filepath.Base(ev.Name)) {
		return "", false
	}
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(fw, ev.Name); err != nil {
				w.logger.Warn("Cannot watch new directory", logfields.File(ev.Name), logfields.Error(err))
			}
			return "", false
		}
	}
	if !fileset.IsMarkdown(ev.Name) {
		return "", false
	}
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return "", false
	}
	w.logger.Debug("Markdown change detected", logfields.File(ev.Name), slog.String("op", ev.Op.String()))
	return ev.Name, true
}

func (w *Watcher) addTree(fw *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipped(d.Name()) {
			return fs.SkipDir
		}
		return fw.Add(path)
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").WithContext("path", root).Build()
	}
	return nil
}

func skipped(name string) bool {
	return name == "" || name[0] == '.' || skippedDirs.Has(name)
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	t.Stop()
	return t
}

func resetTimer(t *time.Timer, after time.Duration) {
	t.Stop()
	t.Reset(after)
}
