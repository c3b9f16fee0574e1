package hosting

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/doclinks/internal/foundation/errors"
	"git.home.luguber.info/inful/doclinks/internal/git"
	"git.home.luguber.info/inful/doclinks/internal/logfields"
)

// ErrNoRepository is wrapped by Resolve when auto-detection finds no remote.
var ErrNoRepository = stderrors.New("could not determine repository")

// Options selects how the repository location is determined.
type Options struct {
	// Repository is a shorthand or URL. Empty means auto-detect from git.
	Repository string
	// DisableRepository skips detection; only relative links resolve.
	DisableRepository bool
	// Root overrides the project root that full repository URLs resolve against.
	Root string
	// URLConfig bypasses repository detection altogether.
	URLConfig *Config
	// Dir is where detection starts and what relative Root values resolve against.
	Dir string

	// Discover is the VCS lookup; defaults to git.DiscoverOrigin.
	Discover func(dir string) (*git.Origin, error)
	Logger   *slog.Logger
}

// Location is the outcome of Resolve.
type Location struct {
	Config     *Config
	Root       string
	Repository string
}

// Resolve computes the hosted-link configuration and the project root.
// It fails only when auto-detection was requested and no remote was found.
func Resolve(ctx context.Context, opts Options) (*Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	discover := opts.Discover
	if discover == nil {
		discover = git.DiscoverOrigin
	}

	dir, err := filepath.Abs(opts.Dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid working directory").
			WithContext("dir", opts.Dir).
			Build()
	}

	loc := &Location{Root: dir}
	if opts.Root != "" {
		loc.Root = resolvePath(dir, opts.Root)
	}

	switch {
	case opts.URLConfig != nil:
		loc.Config = opts.URLConfig.Normalized()
		if opts.Root == "" {
			// The root still comes from the worktree when there is one.
			if origin, derr := discover(dir); derr == nil {
				loc.Root = origin.Root
			}
		}

	case opts.DisableRepository:
		loc.Config = Empty()

	case opts.Repository != "":
		loc.Repository = opts.Repository
		loc.Config = FromRepository(ParseRepository(opts.Repository))

	default:
		origin, derr := discover(dir)
		if derr != nil {
			return nil, errors.GitError(ErrNoRepository.Error()).
				WithCause(stderrors.Join(ErrNoRepository, derr)).
				WithContext("dir", dir).
				Build()
		}
		repo := ParseRepository(origin.RemoteURL)
		loc.Repository = origin.RemoteURL
		loc.Config = FromRepository(repo)
		if repo.Committish == "" && loc.Config.Hosted() {
			loc.Config.Branch = origin.Branch
		}
		if opts.Root == "" {
			loc.Root = origin.Root
		}
	}

	logger.Debug("Resolved repository location",
		logfields.Repository(loc.Repository),
		logfields.Root(loc.Root),
		slog.String("provider", string(loc.Config.Provider)),
		slog.String("prefix", loc.Config.Prefix),
		slog.String("branch", loc.Config.Branch))

	return loc, nil
}

func resolvePath(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
