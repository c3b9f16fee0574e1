// Package fileset runs extraction over a growing set of documents until no
// new file is referenced: the fixed point that precedes reconciliation.
package fileset

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"git.home.luguber.info/inful/doclinks/internal/extract"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/fsprobe"
	"git.home.luguber.info/inful/doclinks/internal/linkindex"
	"git.home.luguber.info/inful/doclinks/internal/linkpath"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/util/sets"
)

// DefaultConcurrency bounds concurrent file reads and parses.
const DefaultConcurrency = 8

var markdownExtensions = map[string]bool{".md": true, ".markdown": true, ".mdown": true, ".mkdn": true}

// IsMarkdown reports whether path has a Markdown extension.
func IsMarkdown(path string) bool {
	return markdownExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileSystem is what the scheduler needs from the disk.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	ReadFile(path string) ([]byte, error)
}

// FileError is a document that could not be read or parsed.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// Result is the closed file set.
type Result struct {
	// Indexes holds seeds in the given order, then discovered files by path.
	Indexes []*linkindex.FileIndex
	Errors  []*FileError
}

// Scheduler parses seed documents and every file they reference with a
// heading, transitively.
type Scheduler struct {
	FS          FileSystem
	Normalizer  *linkpath.Normalizer
	Concurrency int
	Logger      *slog.Logger
}

// New returns a Scheduler on the local file system.
func New(n *linkpath.Normalizer, concurrency int, logger *slog.Logger) *Scheduler {
	return &Scheduler{FS: fsprobe.OS{}, Normalizer: n, Concurrency: concurrency, Logger: logger}
}

type run struct {
	*Scheduler
	logger *slog.Logger
	sem    *semaphore.Weighted
	group  *errgroup.Group

	mu      sync.Mutex
	claimed sets.Set[string]
	seeds   map[string]int
	indexes []*linkindex.FileIndex
	errs    []*FileError
}

// Run parses seeds (absolute paths) and follows references until the file
// set stops growing. It returns once every scheduled file has been
// extracted. Per-file failures are collected in Result.Errors; only context
// cancellation fails the run.
func (s *Scheduler) Run(ctx context.Context, seeds []string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}

	parent := ctx
	g, ctx := errgroup.WithContext(ctx)
	r := &run{
		Scheduler: s,
		logger:    logger,
		sem:       semaphore.NewWeighted(int64(limit)),
		group:     g,
		claimed:   sets.New[string](),
		seeds:     make(map[string]int, len(seeds)),
	}

	for i, seed := range seeds {
		seed = filepath.Clean(seed)
		if !r.claim(seed) {
			continue
		}
		r.seeds[seed] = i
		g.Go(func() error { return r.parse(ctx, seed, true) })
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}
	return r.result(), nil
}

// claim marks path as scheduled and reports whether it was new. Each path
// is stat'd and parsed at most once.
func (r *run) claim(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.claimed.Add(path)
}

func (r *run) schedule(ctx context.Context, path string) {
	if r.claim(path) {
		r.group.Go(func() error { return r.visit(ctx, path) })
	}
}

// visit resolves a referenced path to the document to parse: directories
// defer to their README, non-Markdown files become opaque.
func (r *run) visit(ctx context.Context, path string) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	info, err := r.FS.Stat(path)
	r.sem.Release(1)
	if err != nil {
		// Left to the existence probe.
		r.logger.Debug("Referenced path not found", logfields.File(path), logfields.Error(err))
		return nil
	}

	target := path
	if info.IsDir() {
		target, err = r.readme(ctx, path)
		if err != nil {
			return err
		}
		if target == "" || !r.claim(target) {
			return nil
		}
	}

	if !IsMarkdown(target) {
		b := linkindex.NewBuilder(target)
		b.AddLandmark(linkindex.FileKey(target))
		b.MarkOpaque()
		r.add(b.Build())
		return nil
	}
	return r.parse(ctx, target, false)
}

// readme returns the first README-like entry of dir in sorted order, or ""
// if there is none or the listing fails. Only cancellation is an error.
func (r *run) readme(ctx context.Context, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	entries, err := r.FS.ReadDir(dir)
	r.sem.Release(1)
	if err != nil {
		r.logger.Debug("Directory listing failed", logfields.File(dir), logfields.Error(err))
		return "", nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		if linkpath.IsReadme(name) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", nil
}

func (r *run) parse(ctx context.Context, path string, seed bool) error {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	idx, schedule, ferr := r.extract(path)
	r.sem.Release(1)

	if ferr != nil {
		r.logger.Warn("Skipping document", logfields.File(path), logfields.Error(ferr.Err))
		r.mu.Lock()
		r.errs = append(r.errs, ferr)
		r.mu.Unlock()
		return nil
	}

	r.logger.Debug("Extracted document",
		logfields.File(path),
		slog.Bool("seed", seed),
		slog.Int("landmarks", len(idx.Landmarks())),
		slog.Int("references", idx.ReferenceCount()))
	r.add(idx)

	for _, next := range schedule {
		r.schedule(ctx, next)
	}
	return nil
}

func (r *run) extract(path string) (*linkindex.FileIndex, []string, *FileError) {
	content, err := r.FS.ReadFile(path)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: errors.WrapError(err, errors.CategoryFileSystem, "read document").
			WithContext("file", path).
			Build()}
	}

	doc, err := markdown.Parse(content)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: errors.WrapError(err, errors.CategoryParse, "parse document").
			WithContext("file", path).
			Build()}
	}

	idx, schedule := extract.Extract(doc, path, r.Normalizer, extract.Multi)
	return idx, schedule, nil
}

func (r *run) add(idx *linkindex.FileIndex) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.indexes = append(r.indexes, idx)
}

func (r *run) result() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	indexes := append([]*linkindex.FileIndex(nil), r.indexes...)
	sort.SliceStable(indexes, func(i, j int) bool {
		si, iSeed := r.seeds[indexes[i].Path()]
		sj, jSeed := r.seeds[indexes[j].Path()]
		switch {
		case iSeed && jSeed:
			return si < sj
		case iSeed != jSeed:
			return iSeed
		default:
			return indexes[i].Path() < indexes[j].Path()
		}
	})

	errs := append([]*FileError(nil), r.errs...)
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })

	return &Result{Indexes: indexes, Errors: errs}
}
