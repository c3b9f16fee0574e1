package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/doclinks/internal/config"
	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/hosting"
	"git.home.luguber.info/inful/doclinks/internal/linkcheck"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
	"git.home.luguber.info/inful/doclinks/internal/metrics"
	"git.home.luguber.info/inful/doclinks/internal/report"
	"git.home.luguber.info/inful/doclinks/internal/watch"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	Paths []string `arg:"" optional:"" help:"Files or directories to check; '-' reads one document from stdin. Defaults to docs/, documentation/, or ."`

	Repository   string   `short:"r" help:"Repository shorthand or URL (e.g. github:owner/project)"`
	NoRepository bool     `help:"Check without a repository; hosted URLs are not resolved"`
	Root         string   `help:"Project root that repository URLs resolve against"`
	Format       string   `short:"f" help:"Output format (text or json)"`
	Single       bool     `short:"s" help:"Check each file on its own without following links into other files"`
	Quiet        bool     `short:"q" help:"Print nothing when no problems are found"`
	Ignore       []string `help:"Skip link targets containing this path fragment (repeatable)"`
	Threshold    float64  `help:"Similarity required for a suggestion, in (0, 1]"`
	Concurrency  int      `help:"Maximum documents parsed at once"`
	MetricsFile  string   `name:"metrics-file" help:"Write Prometheus metrics in textfile format to this path" type:"path"`
	Watch        bool     `short:"w" help:"Re-check whenever Markdown files change"`
}

// Run executes the check command.
func (c *CheckCmd) Run(ctx context.Context, g *Global, root *CLI) error {
	logger := g.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	c.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	loc, err := hosting.Resolve(ctx, c.resolveOptions(cfg, logger))
	if err != nil {
		return err
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var prom *metrics.PrometheusRecorder
	if cfg.Output.MetricsFile != "" {
		prom = metrics.NewPrometheusRecorder(nil)
		recorder = prom
	}

	checker := linkcheck.New(linkcheck.Options{
		Location:    loc,
		Single:      cfg.Single,
		Ignore:      cfg.Ignore,
		Threshold:   cfg.Threshold,
		Concurrency: cfg.Concurrency,
		Logger:      logger,
		Recorder:    recorder,
	})

	base, err := os.Getwd()
	if err != nil {
		base = loc.Root
	}
	formatter := report.NewFormatter(cfg.Output.Format, base, c.Quiet)

	if len(c.Paths) == 1 && c.Paths[0] == "-" {
		if c.Watch {
			return errors.ValidationError("--watch cannot be used with stdin").Build()
		}
		return c.checkStdin(ctx, g, checker, formatter, prom, cfg.Output.MetricsFile)
	}

	paths := c.Paths
	if len(paths) == 0 {
		path, found := linkcheck.DetectDefaultPath()
		logger.Debug("Using default path", logfields.File(path), slog.Bool("detected", found))
		paths = []string{path}
	}

	run := func(ctx context.Context) (*linkcheck.Result, error) {
		files, err := linkcheck.Discover(paths)
		if err != nil {
			return nil, err
		}
		res, err := checker.Check(ctx, files)
		if err != nil {
			return nil, err
		}
		if err := formatter.Format(g.Stdout, res); err != nil {
			return nil, errors.WrapError(err, errors.CategoryInternal, "writing report").Build()
		}
		if err := writeMetrics(prom, cfg.Output.MetricsFile); err != nil {
			return nil, err
		}
		return res, nil
	}

	res, err := run(ctx)
	if err != nil {
		return err
	}
	if c.Watch {
		return c.watch(ctx, paths, run, logger)
	}
	if !res.Clean() {
		return ErrProblemsFound
	}
	return nil
}

// apply layers flags over the loaded configuration.
func (c *CheckCmd) apply(cfg *config.Config) {
	switch {
	case c.NoRepository:
		cfg.Repository = config.RepositorySetting{Disabled: true}
	case c.Repository != "":
		cfg.Repository = config.RepositorySetting{Value: c.Repository}
	}
	if c.Repository != "" || c.NoRepository {
		cfg.URLConfig = nil
	}
	if c.Root != "" {
		cfg.Root = c.Root
	}
	if c.Format != "" {
		cfg.Output.Format = c.Format
	}
	if c.MetricsFile != "" {
		cfg.Output.MetricsFile = c.MetricsFile
	}
	if c.Threshold != 0 {
		cfg.Threshold = c.Threshold
	}
	if c.Concurrency != 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Single {
		cfg.Single = true
	}
	cfg.Ignore = append(cfg.Ignore, c.Ignore...)
}

func (c *CheckCmd) resolveOptions(cfg *config.Config, logger *slog.Logger) hosting.Options {
	opts := hosting.Options{
		Repository:        cfg.Repository.Value,
		DisableRepository: cfg.Repository.Disabled,
		Root:              cfg.Root,
		Dir:               ".",
		Logger:            logger,
	}
	if cfg.URLConfig != nil {
		opts.URLConfig = cfg.URLConfig.HostConfig()
	}
	return opts
}

func (c *CheckCmd) checkStdin(ctx context.Context, g *Global, checker *linkcheck.Checker, formatter report.Formatter, prom *metrics.PrometheusRecorder, metricsFile string) error {
	content, err := io.ReadAll(g.Stdin)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "reading stdin").Build()
	}
	res, err := checker.CheckDocument(ctx, "", content)
	if err != nil {
		return err
	}
	if err := formatter.Format(g.Stdout, res); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "writing report").Build()
	}
	if err := writeMetrics(prom, metricsFile); err != nil {
		return err
	}
	if !res.Clean() {
		return ErrProblemsFound
	}
	return nil
}

func (c *CheckCmd) watch(ctx context.Context, paths []string, run func(context.Context) (*linkcheck.Result, error), logger *slog.Logger) error {
	w, err := watch.New(paths, func(ctx context.Context, changed []string) {
		logger.Info("Re-checking after changes", logfields.Files(len(changed)))
		if _, err := run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Check failed", logfields.Error(err))
		}
	}, watch.Config{Logger: logger})
	if err != nil {
		return err
	}
	return w.Run(ctx)
}

func writeMetrics(prom *metrics.PrometheusRecorder, path string) error {
	if prom == nil || path == "" {
		return nil
	}
	if err := prom.WriteTextfile(path); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "writing metrics file").WithContext("path", path).Build()
	}
	return nil
}
