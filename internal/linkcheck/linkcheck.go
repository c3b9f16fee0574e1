// Package linkcheck sequences a check run: host resolution is done by the
// caller, then documents are extracted (following references in multi-file
// mode), reconciled, and summarized in a Result.
package linkcheck

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/doclinks/internal/extract"
	"git.home.luguber.info/inful/doclinks/internal/fileset"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/fsprobe"
	"git.home.luguber.info/inful/doclinks/internal/hosting"
	"git.home.luguber.info/inful/doclinks/internal/linkindex"
	"git.home.luguber.info/inful/doclinks/internal/linkpath"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/markdown"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/reconcile"
)

// Options configures a Checker.
type Options struct {
	// Location is the resolved host configuration and project root.
	Location *hosting.Location
	// Single checks each document in isolation instead of following links.
	Single      bool
	Ignore      []string
	Threshold   float64
	Concurrency int
	Logger      *slog.Logger

	FS       fileset.FileSystem
	Prober   fsprobe.Prober
	Recorder metrics.Recorder
}

// Result summarizes one run.
type Result struct {
	RunID       string                 `json:"run_id"`
	Files       []string               `json:"files"`
	References  int                    `json:"references"`
	Diagnostics []reconcile.Diagnostic `json:"diagnostics"`
	Errors      []*fileset.FileError   `json:"-"`
	Duration    time.Duration          `json:"-"`
}

// Clean reports whether the run found neither diagnostics nor file errors.
func (r *Result) Clean() bool {
	return len(r.Diagnostics) == 0 && len(r.Errors) == 0
}

// Checker runs link checks with fixed options.
type Checker struct {
	opts       Options
	normalizer *linkpath.Normalizer
	logger     *slog.Logger
}

// New returns a Checker. A nil Location checks without hosted-link support,
// rooted at the working directory.
func New(opts Options) *Checker {
	if opts.Location == nil {
		opts.Location = &hosting.Location{Config: hosting.Empty(), Root: "."}
	}
	if opts.FS == nil {
		opts.FS = fsprobe.OS{}
	}
	if opts.Prober == nil {
		opts.Prober = fsprobe.OS{}
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{
		opts:       opts,
		normalizer: linkpath.New(opts.Location.Config, opts.Location.Root),
		logger:     logger,
	}
}

func (c *Checker) reconciler() *reconcile.Reconciler {
	return &reconcile.Reconciler{
		Prober:      c.opts.Prober,
		Threshold:   c.opts.Threshold,
		Ignore:      c.opts.Ignore,
		Concurrency: c.opts.Concurrency,
		Logger:      c.logger,
	}
}

// Check validates the given absolute document paths.
func (c *Checker) Check(ctx context.Context, files []string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	logger := c.logger.With(logfields.RunID(res.RunID))
	logger.Info("Checking links",
		logfields.Files(len(files)),
		logfields.Root(c.opts.Location.Root),
		logfields.Repository(c.opts.Location.Repository),
		slog.Bool("single", c.opts.Single))

	var err error
	if c.opts.Single {
		err = c.checkSingle(ctx, files, res)
	} else {
		err = c.checkMulti(ctx, files, res)
	}
	if err != nil {
		c.opts.Recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, err
	}

	res.Duration = time.Since(start)
	c.record(res)
	logger.Info("Link check complete",
		logfields.Files(len(res.Files)),
		logfields.Diagnostics(len(res.Diagnostics)),
		slog.Int("file_errors", len(res.Errors)),
		logfields.DurationMS(float64(res.Duration.Microseconds())/1000))
	return res, nil
}

func (c *Checker) checkMulti(ctx context.Context, files []string, res *Result) error {
	s := &fileset.Scheduler{
		FS:          c.opts.FS,
		Normalizer:  c.normalizer,
		Concurrency: c.opts.Concurrency,
		Logger:      c.logger,
	}
	set, err := s.Run(ctx, files)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "scheduling documents").Build()
	}
	res.Errors = set.Errors

	diags, err := c.reconciler().Run(ctx, set.Indexes)
	if err != nil {
		return errors.WrapError(err, errors.CategoryRuntime, "reconciling links").Build()
	}
	res.Diagnostics = diags
	c.summarize(res, set.Indexes)
	return nil
}

func (c *Checker) checkSingle(ctx context.Context, files []string, res *Result) error {
	var indexes []*linkindex.FileIndex
	for _, path := range files {
		content, err := c.opts.FS.ReadFile(path)
		if err != nil {
			res.Errors = append(res.Errors, &fileset.FileError{Path: path, Err: errors.WrapError(err, errors.CategoryFileSystem, "read document").Build()})
			continue
		}
		idx, diags, err := c.document(ctx, path, content)
		if err != nil {
			if errors.HasCategory(err, errors.CategoryParse) {
				res.Errors = append(res.Errors, &fileset.FileError{Path: path, Err: err})
				continue
			}
			return err
		}
		indexes = append(indexes, idx)
		res.Diagnostics = append(res.Diagnostics, diags...)
	}
	c.summarize(res, indexes)
	return nil
}

// CheckDocument validates one document in isolation. path may be empty for
// input that has no location, in which case only same-document headings
// are checked.
func (c *Checker) CheckDocument(ctx context.Context, path string, content []byte) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString()}
	idx, diags, err := c.document(ctx, path, content)
	if err != nil {
		c.opts.Recorder.IncRunOutcome(metrics.OutcomeFailed)
		return nil, err
	}
	res.Diagnostics = diags
	c.summarize(res, []*linkindex.FileIndex{idx})
	res.Duration = time.Since(start)
	c.record(res)
	return res, nil
}

func (c *Checker) document(ctx context.Context, path string, content []byte) (*linkindex.FileIndex, []reconcile.Diagnostic, error) {
	doc, err := markdown.Parse(content)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryParse, "parse document").WithContext("file", path).Build()
	}
	idx, _ := extract.Extract(doc, path, c.normalizer, extract.Single)
	diags, err := c.reconciler().Run(ctx, []*linkindex.FileIndex{idx})
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryRuntime, "reconciling links").Build()
	}
	return idx, diags, nil
}

func (c *Checker) summarize(res *Result, indexes []*linkindex.FileIndex) {
	for _, idx := range indexes {
		if idx.Opaque() {
			continue
		}
		res.Files = append(res.Files, idx.Path())
		res.References += idx.ReferenceCount()
	}
}

func (c *Checker) record(res *Result) {
	r := c.opts.Recorder
	r.ObserveRunDuration(res.Duration)
	r.SetFilesChecked(len(res.Files))
	r.AddReferences(res.References)
	r.AddFileErrors(len(res.Errors))
	for _, d := range res.Diagnostics {
		r.IncDiagnostic(string(d.Rule))
	}
	if res.Clean() {
		r.IncRunOutcome(metrics.OutcomeClean)
	} else {
		r.IncRunOutcome(metrics.OutcomeProblems)
	}
}
