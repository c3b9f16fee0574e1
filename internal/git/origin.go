package git

import (
	"path/filepath"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Origin describes the repository that encloses a directory.
type Origin struct {
	RemoteURL string // first URL of the `origin` remote
	Root      string // worktree top-level directory
	Branch    string // checked-out branch, empty when HEAD is detached
}

// DiscoverOrigin opens the repository enclosing dir (walking up to the
// nearest .git) and reports its origin remote, top-level and branch.
func DiscoverOrigin(dir string) (*Origin, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, ClassifyGitError(err, "abs", dir)
	}

	repo, err := ggit.PlainOpenWithOptions(abs, &ggit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", abs)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, ClassifyGitError(err, "remote", abs)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 || urls[0] == "" {
		return nil, ClassifyGitError(ErrNoRemote, "remote", abs)
	}

	origin := &Origin{RemoteURL: urls[0], Root: abs}

	if wt, wtErr := repo.Worktree(); wtErr == nil {
		origin.Root = wt.Filesystem.Root()
	}

	origin.Branch = currentBranch(repo)
	return origin, nil
}

// currentBranch resolves HEAD without requiring a commit, so freshly
// initialized repositories still report their branch.
func currentBranch(repo *ggit.Repository) string {
	ref, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return ""
	}
	if ref.Type() == plumbing.SymbolicReference && ref.Target().IsBranch() {
		return ref.Target().Short()
	}
	return ""
}
